package storage

import (
	"logkeeper/internal/config"
	"logkeeper/internal/util/logger"
	"os"
	"sync"
	"time"

	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	gorm_logger "gorm.io/gorm/logger"
)

const (
	maxOpenConnections    = 20
	maxIdleConnections    = 5
	connectionMaxLifetime = 30 * time.Minute
)

var (
	db     *gorm.DB
	dbOnce sync.Once
)

func GetDb() *gorm.DB {
	dbOnce.Do(loadDbConnection)
	return db
}

func loadDbConnection() {
	log := logger.GetLogger()

	connection, err := gorm.Open(postgres.Open(config.GetEnv().DatabaseDsn), &gorm.Config{
		Logger: gorm_logger.Default.LogMode(gorm_logger.Silent),
	})
	if err != nil {
		log.Error("Failed to connect to database", "error", err)
		os.Exit(1)
	}

	sqlDb, err := connection.DB()
	if err != nil {
		log.Error("Failed to get database connection pool", "error", err)
		os.Exit(1)
	}

	sqlDb.SetMaxOpenConns(maxOpenConnections)
	sqlDb.SetMaxIdleConns(maxIdleConnections)
	sqlDb.SetConnMaxLifetime(connectionMaxLifetime)

	db = connection
}

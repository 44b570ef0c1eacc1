package config

import (
	env_utils "logkeeper/internal/util/env"
	"logkeeper/internal/util/logger"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"time"

	"github.com/ilyakaznacheev/cleanenv"
	"github.com/joho/godotenv"
)

var log = logger.GetLogger()

const (
	ImportLineFormatPipe      = "pipe"
	ImportLineFormatJSONLines = "jsonl"
	DateEmptyPolicyNow        = "now"
	DateEmptyPolicyReject     = "reject"

	bytesInMegabyte = 1024 * 1024
)

type EnvVariables struct {
	IsTesting       bool
	DatabaseDsn     string            `env:"DATABASE_DSN"                required:"true"`
	EnvMode         env_utils.EnvMode `env:"ENV_MODE"                    env-default:"development"`
	BackendRootPath string            `env:"BACKEND_ROOT_PATH"`
	ServerPort      string            `env:"SERVER_PORT"                 env-default:"4005"`
	// comma separated, empty means forwarding headers are ignored
	TrustedProxies []string `env:"TRUSTED_PROXIES" env-separator:","`
	// cache
	ValkeyHost     string `env:"VALKEY_HOST"                 required:"true"`
	ValkeyPort     string `env:"VALKEY_PORT"                 env-default:"6379"`
	ValkeyUsername string `env:"VALKEY_USERNAME"`
	ValkeyPassword string `env:"VALKEY_PASSWORD"`
	ValkeyIsSsl    bool   `env:"VALKEY_IS_SSL"               env-default:"false"`
	// auth, empty secret disables the bearer middleware
	AuthJwtSecret string `env:"AUTH_JWT_SECRET"`
	// batch import
	ImportLineFormat         string        `env:"IMPORT_LINE_FORMAT"          env-default:"pipe"`
	ImportMaxPayloadMB       int64         `env:"IMPORT_MAX_PAYLOAD_MB"       env-default:"50"`
	ImportIsAtomic           bool          `env:"IMPORT_IS_ATOMIC"            env-default:"false"`
	ImportTimeout            time.Duration `env:"IMPORT_TIMEOUT"              env-default:"5m"`
	ImportRateLimitPerSecond int           `env:"IMPORT_RATE_LIMIT_PER_SECOND" env-default:"2"`
	ImportSummaryTTL         time.Duration `env:"IMPORT_SUMMARY_TTL"          env-default:"24h"`
	// date normalization
	DateSlashOrder       string `env:"DATE_SLASH_ORDER"            env-default:"DMY"`
	DateIsZeroBasedMonth bool   `env:"DATE_IS_ZERO_BASED_MONTH"    env-default:"true"`
	DateEmptyPolicy      string `env:"DATE_EMPTY_POLICY"           env-default:"now"`
}

func (e EnvVariables) ImportMaxPayloadBytes() int64 {
	return e.ImportMaxPayloadMB * bytesInMegabyte
}

var (
	env  EnvVariables
	once sync.Once
)

func GetEnv() EnvVariables {
	once.Do(loadEnvVariables)
	return env
}

func loadEnvVariables() {
	for i, arg := range os.Args {
		if (i == 0 && strings.HasSuffix(arg, ".test")) || strings.HasPrefix(arg, "-test.") {
			env.IsTesting = true
			break
		}
	}

	// Get current working directory
	cwd, err := os.Getwd()
	if err != nil {
		log.Warn("could not get current working directory", "error", err)
		cwd = "."
	}

	backendRoot := cwd
	for {
		if _, err := os.Stat(filepath.Join(backendRoot, "go.mod")); err == nil {
			break
		}

		parent := filepath.Dir(backendRoot)
		if parent == backendRoot {
			break
		}

		backendRoot = parent
	}

	envPaths := []string{
		filepath.Join(cwd, ".env"),
		filepath.Join(backendRoot, ".env"),
	}

	var loaded bool
	for _, path := range envPaths {
		if err := godotenv.Load(path); err == nil {
			log.Info("Successfully loaded .env", "path", path)
			loaded = true
			break
		}
	}

	if !loaded {
		log.Warn("No .env file found, relying on process environment")
	}

	// tests run without infrastructure, so missing required values
	// only matter for the real binaries
	if err := cleanenv.ReadEnv(&env); err != nil {
		if !env.IsTesting {
			log.Error("Configuration could not be loaded", "error", err)
			os.Exit(1)
		}

		log.Warn("Configuration is incomplete in test mode", "error", err)
	}

	if env.BackendRootPath == "" {
		env.BackendRootPath = backendRoot
	}

	if env.IsTesting {
		return
	}

	validateEnvVariables()
	log.Info("Environment variables loaded successfully!")
}

func validateEnvVariables() {
	if env.DatabaseDsn == "" {
		log.Error("DATABASE_DSN is empty")
		os.Exit(1)
	}

	if env.EnvMode != env_utils.EnvModeDevelopment && env.EnvMode != env_utils.EnvModeProduction {
		log.Error("ENV_MODE is invalid", "mode", env.EnvMode)
		os.Exit(1)
	}
	log.Info("ENV_MODE loaded", "mode", env.EnvMode)

	if env.ValkeyHost == "" {
		log.Error("VALKEY_HOST is empty")
		os.Exit(1)
	}

	if env.ImportLineFormat != ImportLineFormatPipe && env.ImportLineFormat != ImportLineFormatJSONLines {
		log.Error("IMPORT_LINE_FORMAT is invalid", "format", env.ImportLineFormat)
		os.Exit(1)
	}

	if env.ImportMaxPayloadMB <= 0 {
		log.Error("IMPORT_MAX_PAYLOAD_MB must be positive", "value", env.ImportMaxPayloadMB)
		os.Exit(1)
	}

	switch env.DateSlashOrder {
	case "DMY", "MDY", "YMD":
	default:
		log.Error("DATE_SLASH_ORDER is invalid", "order", env.DateSlashOrder)
		os.Exit(1)
	}

	if env.DateEmptyPolicy != DateEmptyPolicyNow && env.DateEmptyPolicy != DateEmptyPolicyReject {
		log.Error("DATE_EMPTY_POLICY is invalid", "policy", env.DateEmptyPolicy)
		os.Exit(1)
	}
}

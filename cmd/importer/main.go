package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"logkeeper/internal/cli"
	"logkeeper/internal/config"
	"logkeeper/internal/features/audit_logs"
	log_records_core "logkeeper/internal/features/log_records/core"
	log_records_managing "logkeeper/internal/features/log_records/managing"
	"logkeeper/internal/storage"
	"logkeeper/internal/util/logger"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	env := config.GetEnv()

	cmd := cli.NewRootCommand(newImporter, cli.ImportOptions{
		Format:   env.ImportLineFormat,
		IsAtomic: env.ImportIsAtomic,
		Timeout:  env.ImportTimeout,
	})

	if err := cmd.ExecuteContext(ctx); err != nil {
		if !errors.Is(err, cli.ErrImportHadFailures) {
			fmt.Fprintln(os.Stderr, err)
		}
		os.Exit(1)
	}
}

func newImporter(options cli.ImportOptions) (cli.ContentImporter, error) {
	log := logger.GetLogger()

	if err := storage.RunMigrations(context.Background(), log); err != nil {
		return nil, err
	}

	env := config.GetEnv()
	env.ImportLineFormat = options.Format
	env.ImportIsAtomic = options.IsAtomic
	env.ImportTimeout = options.Timeout

	service, err := log_records_managing.NewLogRecordServiceFromConfig(
		env,
		log_records_core.GetLogRecordRepository(),
	)
	if err != nil {
		return nil, err
	}

	service.SetAuditLogWriter(audit_logs.GetAuditLogService())

	return service, nil
}

package log_records_managing

import (
	"os"
	"sync"

	"logkeeper/internal/config"
	log_records_core "logkeeper/internal/features/log_records/core"
	log_records_importing "logkeeper/internal/features/log_records/importing"
	cache_utils "logkeeper/internal/util/cache"
	"logkeeper/internal/util/logger"
	"logkeeper/internal/util/rate_limit"
	time_parser "logkeeper/internal/util/time"
)

const importSummaryCachePrefix = "lk_import_summary:"

var (
	logRecordService     *LogRecordService
	logRecordController  *LogRecordController
	logRecordServiceOnce sync.Once
)

func GetLogRecordService() *LogRecordService {
	logRecordServiceOnce.Do(func() {
		env := config.GetEnv()

		service, err := NewLogRecordServiceFromConfig(env, log_records_core.GetLogRecordRepository())
		if err != nil {
			logger.GetLogger().Error("failed to set up log record service", "error", err)
			os.Exit(1)
		}

		service.SetImportSummaryCache(
			cache_utils.NewLazyCacheUtil[ImportSummary](importSummaryCachePrefix, env.ImportSummaryTTL),
		)

		logRecordService = service
		logRecordController = NewLogRecordController(
			service,
			rate_limit.NewRateLimiter("import"),
			env.ImportRateLimitPerSecond,
			maxImportRequestBytes(env),
			logger.GetLogger(),
		)
	})

	return logRecordService
}

func GetLogRecordController() *LogRecordController {
	GetLogRecordService()
	return logRecordController
}

// NewLogRecordServiceFromConfig builds a service over store with the date,
// format and import policy settings of env. No cache or audit writer is set.
func NewLogRecordServiceFromConfig(
	env config.EnvVariables,
	store log_records_core.LogRecordStore,
) (*LogRecordService, error) {
	format, err := log_records_importing.GetLineFormat(env.ImportLineFormat)
	if err != nil {
		return nil, err
	}

	normalizer := NewDateNormalizerFromConfig(env)
	parser := log_records_importing.NewBatchImportParser(format, normalizer, env.ImportMaxPayloadBytes())

	service := NewLogRecordService(store, parser, normalizer, logger.GetLogger())
	service.SetImportPolicy(env.ImportIsAtomic, env.ImportTimeout)

	return service, nil
}

func NewDateNormalizerFromConfig(env config.EnvVariables) *time_parser.DateNormalizer {
	return time_parser.NewDateNormalizer(time_parser.DateNormalizerOptions{
		SlashOrder:       time_parser.SlashOrder(env.DateSlashOrder),
		IsZeroBasedMonth: env.DateIsZeroBasedMonth,
		EmptyPolicy:      time_parser.EmptyDatePolicy(env.DateEmptyPolicy),
	})
}

// base64 inflates the payload by a third, compressed payloads are smaller
// than the decoded limit anyway
func maxImportRequestBytes(env config.EnvVariables) int64 {
	return env.ImportMaxPayloadBytes()*4/3 + 1024
}

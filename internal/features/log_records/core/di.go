package log_records_core

var logRecordRepository = &LogRecordRepository{}

func GetLogRecordRepository() *LogRecordRepository {
	return logRecordRepository
}

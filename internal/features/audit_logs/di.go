package audit_logs

import (
	log_records_managing "logkeeper/internal/features/log_records/managing"
	"logkeeper/internal/util/logger"
)

var auditLogRepository = &AuditLogRepository{}
var auditLogService = NewAuditLogService(auditLogRepository, logger.GetLogger())
var auditLogController = NewAuditLogController(auditLogService)

func GetAuditLogService() *AuditLogService {
	return auditLogService
}

func GetAuditLogController() *AuditLogController {
	return auditLogController
}

func SetupDependencies() {
	log_records_managing.GetLogRecordService().SetAuditLogWriter(auditLogService)
}

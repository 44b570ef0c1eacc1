package audit_logs_tests

import (
	"context"
	"testing"
	"time"

	audit_logs "logkeeper/internal/features/audit_logs"
	"logkeeper/internal/storage"
	"logkeeper/internal/util/logger"
	test_utils "logkeeper/internal/util/testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func Test_AuditLogRepository_WithLogRecordFilter_ReturnsNewestFirst(t *testing.T) {
	test_utils.SkipIfNoDatabase(t)
	require.NoError(t, storage.RunMigrations(context.Background(), logger.GetLogger()))

	repository := &audit_logs.AuditLogRepository{}
	ctx := context.Background()
	// unique per run so parallel runs against one database do not collide
	logRecordID := -time.Now().UnixNano()
	subject := "repository-test"
	baseTime := time.Now().UTC().Add(-time.Minute)

	for i, message := range []string{"first", "second", "third"} {
		require.NoError(t, repository.Create(ctx, &audit_logs.AuditLog{
			Subject:     &subject,
			LogRecordID: &logRecordID,
			Message:     message,
			CreatedAt:   baseTime.Add(time.Duration(i) * time.Second),
		}))
	}

	importID := uuid.New()
	require.NoError(t, repository.Create(ctx, &audit_logs.AuditLog{
		ImportID:  &importID,
		Message:   "import",
		CreatedAt: baseTime,
	}))

	filter := &audit_logs.AuditLogFilter{LogRecordID: &logRecordID, Limit: 2}
	auditLogs, err := repository.Find(ctx, filter)
	require.NoError(t, err)
	require.Len(t, auditLogs, 2)
	assert.Equal(t, "third", auditLogs[0].Message)
	assert.Equal(t, "second", auditLogs[1].Message)

	count, err := repository.Count(ctx, filter)
	require.NoError(t, err)
	assert.Equal(t, int64(3), count)

	beforeDate := baseTime.Add(500 * time.Millisecond)
	count, err = repository.Count(ctx, &audit_logs.AuditLogFilter{LogRecordID: &logRecordID, BeforeDate: &beforeDate})
	require.NoError(t, err)
	assert.Equal(t, int64(1), count)
}

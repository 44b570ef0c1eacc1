package log_records_core_tests

import (
	"context"
	"fmt"
	"sync"
	"testing"
	"time"

	log_records_core "logkeeper/internal/features/log_records/core"
	"logkeeper/internal/storage"
	"logkeeper/internal/util/logger"
	test_utils "logkeeper/internal/util/testing"

	"github.com/stretchr/testify/require"
)

var migrationsOnce sync.Once

// GetTestRepository skips the test without a database and makes sure the
// schema is migrated before the repository is used.
func GetTestRepository(t *testing.T) *log_records_core.LogRecordRepository {
	t.Helper()
	test_utils.SkipIfNoDatabase(t)

	var migrationsErr error
	migrationsOnce.Do(func() {
		migrationsErr = storage.RunMigrations(context.Background(), logger.GetLogger())
	})
	require.NoError(t, migrationsErr)

	return log_records_core.GetLogRecordRepository()
}

func CreateTestRecords(count int, uniqueID string, occurredAt time.Time) []*log_records_core.LogRecord {
	records := make([]*log_records_core.LogRecord, count)

	for i := range count {
		records[i] = &log_records_core.LogRecord{
			OccurredAt: occurredAt.Add(time.Duration(i) * time.Second),
			Request:    fmt.Sprintf("GET /%s/%d HTTP/1.1", uniqueID, i+1),
			Status:     "200",
			UserAgent:  "curl/8.0",
			IP:         fmt.Sprintf("10.1.0.%d", i%250+1),
		}
	}

	return records
}

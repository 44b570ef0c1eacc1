package log_records_core

import "context"

type LogRecordStore interface {
	Create(ctx context.Context, record *LogRecord) error
	FindByID(ctx context.Context, id int64) (*LogRecord, error)
	List(ctx context.Context, query *ListQuery) ([]*LogRecord, error)
	Count(ctx context.Context) (int64, error)
	Update(ctx context.Context, record *LogRecord) error
	DeleteByID(ctx context.Context, id int64) error
	// SaveMany stores records in order. Per-record mode commits every record
	// on its own, atomic mode stores all of them or none. The returned error
	// is only set when ctx is done before every record was attempted.
	SaveMany(ctx context.Context, records []*LogRecord, isAtomic bool) ([]SaveResult, error)
}

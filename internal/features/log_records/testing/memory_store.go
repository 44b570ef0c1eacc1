package log_records_testing

import (
	"context"
	"sort"
	"sync"
	"time"

	log_records_core "logkeeper/internal/features/log_records/core"
)

// MemoryLogRecordStore keeps records in memory and behaves like the
// PostgreSQL repository, including per-record and atomic batch saves.
type MemoryLogRecordStore struct {
	mu      sync.Mutex
	records map[int64]*log_records_core.LogRecord
	nextID  int64

	// FailOn is called before a record is stored, a non nil error makes
	// that insert fail the way a database error would.
	FailOn func(record *log_records_core.LogRecord) error
}

func NewMemoryLogRecordStore() *MemoryLogRecordStore {
	return &MemoryLogRecordStore{
		records: make(map[int64]*log_records_core.LogRecord),
		nextID:  1,
	}
}

func (s *MemoryLogRecordStore) Create(ctx context.Context, record *log_records_core.LogRecord) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	return s.createLocked(ctx, record)
}

func (s *MemoryLogRecordStore) FindByID(_ context.Context, id int64) (*log_records_core.LogRecord, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	record, ok := s.records[id]
	if !ok {
		return nil, log_records_core.ErrLogRecordNotFound
	}

	return record.Clone(), nil
}

func (s *MemoryLogRecordStore) List(
	_ context.Context,
	query *log_records_core.ListQuery,
) ([]*log_records_core.LogRecord, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	records := make([]*log_records_core.LogRecord, 0, len(s.records))
	for _, record := range s.records {
		records = append(records, record.Clone())
	}

	isDesc := query.SortOrder == log_records_core.SortOrderDesc
	sort.SliceStable(records, func(i, j int) bool {
		left, right := records[i], records[j]
		if isDesc {
			left, right = right, left
		}

		switch query.SortBy {
		case log_records_core.SortFieldOccurredAt:
			if !left.OccurredAt.Equal(right.OccurredAt) {
				return left.OccurredAt.Before(right.OccurredAt)
			}
		case log_records_core.SortFieldCreatedAt:
			if !left.CreatedAt.Equal(right.CreatedAt) {
				return left.CreatedAt.Before(right.CreatedAt)
			}
		}

		return left.ID < right.ID
	})

	offset := min(max(query.Offset, 0), len(records))
	records = records[offset:]

	if query.Limit > 0 && query.Limit < len(records) {
		records = records[:query.Limit]
	}

	return records, nil
}

func (s *MemoryLogRecordStore) Count(_ context.Context) (int64, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	return int64(len(s.records)), nil
}

func (s *MemoryLogRecordStore) Update(_ context.Context, record *log_records_core.LogRecord) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	existing, ok := s.records[record.ID]
	if !ok {
		return log_records_core.ErrLogRecordNotFound
	}

	updated := record.Clone()
	updated.CreatedAt = existing.CreatedAt
	updated.UpdatedAt = time.Now().UTC()
	s.records[record.ID] = updated

	record.CreatedAt = updated.CreatedAt
	record.UpdatedAt = updated.UpdatedAt

	return nil
}

func (s *MemoryLogRecordStore) DeleteByID(_ context.Context, id int64) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.records[id]; !ok {
		return log_records_core.ErrLogRecordNotFound
	}

	delete(s.records, id)
	return nil
}

func (s *MemoryLogRecordStore) SaveMany(
	ctx context.Context,
	records []*log_records_core.LogRecord,
	isAtomic bool,
) ([]log_records_core.SaveResult, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if isAtomic {
		return s.saveAllOrNothingLocked(ctx, records)
	}

	results := make([]log_records_core.SaveResult, 0, len(records))
	for i, record := range records {
		if err := ctx.Err(); err != nil {
			return results, err
		}

		if err := s.createLocked(ctx, record); err != nil {
			results = append(results, log_records_core.SaveResult{Index: i, Err: err})
			continue
		}

		results = append(results, log_records_core.SaveResult{Index: i, ID: record.ID})
	}

	return results, nil
}

func (s *MemoryLogRecordStore) saveAllOrNothingLocked(
	ctx context.Context,
	records []*log_records_core.LogRecord,
) ([]log_records_core.SaveResult, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	var batchErr error
	for _, record := range records {
		if s.FailOn == nil {
			continue
		}

		if err := s.FailOn(record); err != nil {
			batchErr = err
			break
		}
	}

	results := make([]log_records_core.SaveResult, len(records))
	for i, record := range records {
		if batchErr != nil {
			results[i] = log_records_core.SaveResult{
				Index: i,
				Err: &log_records_core.StorageError{
					Op:  "save batch",
					Err: log_records_core.ErrBatchRolledBack,
				},
			}
			continue
		}

		s.insertLocked(record)
		results[i] = log_records_core.SaveResult{Index: i, ID: record.ID}
	}

	return results, nil
}

func (s *MemoryLogRecordStore) createLocked(_ context.Context, record *log_records_core.LogRecord) error {
	if s.FailOn != nil {
		if err := s.FailOn(record); err != nil {
			return &log_records_core.StorageError{Op: "create", Err: err}
		}
	}

	s.insertLocked(record)
	return nil
}

func (s *MemoryLogRecordStore) insertLocked(record *log_records_core.LogRecord) {
	now := time.Now().UTC()

	record.ID = s.nextID
	record.CreatedAt = now
	record.UpdatedAt = now
	s.nextID++

	s.records[record.ID] = record.Clone()
}

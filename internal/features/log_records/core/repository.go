package log_records_core

import (
	"context"
	"errors"
	"time"

	"logkeeper/internal/storage"

	"gorm.io/gorm"
)

const atomicInsertBatchSize = 500

var sortColumns = map[SortField]string{
	SortFieldID:         "id",
	SortFieldOccurredAt: "occurred_at",
	SortFieldCreatedAt:  "created_at",
}

type LogRecordRepository struct{}

func (r *LogRecordRepository) Create(ctx context.Context, record *LogRecord) error {
	prepareForInsert(record)

	if err := storage.GetDb().WithContext(ctx).Create(record).Error; err != nil {
		return &StorageError{Op: "create", Err: err}
	}

	return nil
}

func (r *LogRecordRepository) FindByID(ctx context.Context, id int64) (*LogRecord, error) {
	var record LogRecord

	err := storage.GetDb().WithContext(ctx).Where("id = ?", id).First(&record).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrLogRecordNotFound
		}

		return nil, &StorageError{Op: "find", Err: err}
	}

	return &record, nil
}

func (r *LogRecordRepository) List(ctx context.Context, query *ListQuery) ([]*LogRecord, error) {
	records := make([]*LogRecord, 0)

	column, isKnown := sortColumns[query.SortBy]
	if !isKnown {
		column = sortColumns[SortFieldID]
	}

	direction := "ASC"
	if query.SortOrder == SortOrderDesc {
		direction = "DESC"
	}

	db := storage.GetDb().WithContext(ctx).Order(column + " " + direction)
	if column != "id" {
		// stable order for equal timestamps
		db = db.Order("id " + direction)
	}

	if query.Limit > 0 {
		db = db.Limit(query.Limit)
	}

	if query.Offset > 0 {
		db = db.Offset(query.Offset)
	}

	if err := db.Find(&records).Error; err != nil {
		return nil, &StorageError{Op: "list", Err: err}
	}

	return records, nil
}

func (r *LogRecordRepository) Count(ctx context.Context) (int64, error) {
	var count int64

	if err := storage.GetDb().WithContext(ctx).Model(&LogRecord{}).Count(&count).Error; err != nil {
		return 0, &StorageError{Op: "count", Err: err}
	}

	return count, nil
}

func (r *LogRecordRepository) Update(ctx context.Context, record *LogRecord) error {
	record.UpdatedAt = time.Now().UTC()

	result := storage.GetDb().WithContext(ctx).
		Model(&LogRecord{}).
		Where("id = ?", record.ID).
		Select(
			"occurred_at",
			"request",
			"status",
			"user_agent",
			"ip",
			"attachment",
			"attachment_content_type",
			"updated_at",
		).
		Updates(record)

	if result.Error != nil {
		return &StorageError{Op: "update", Err: result.Error}
	}

	if result.RowsAffected == 0 {
		return ErrLogRecordNotFound
	}

	return nil
}

func (r *LogRecordRepository) DeleteByID(ctx context.Context, id int64) error {
	result := storage.GetDb().WithContext(ctx).Where("id = ?", id).Delete(&LogRecord{})

	if result.Error != nil {
		return &StorageError{Op: "delete", Err: result.Error}
	}

	if result.RowsAffected == 0 {
		return ErrLogRecordNotFound
	}

	return nil
}

func (r *LogRecordRepository) SaveMany(
	ctx context.Context,
	records []*LogRecord,
	isAtomic bool,
) ([]SaveResult, error) {
	if isAtomic {
		return r.saveAllOrNothing(ctx, records)
	}

	results := make([]SaveResult, 0, len(records))

	for i, record := range records {
		if err := ctx.Err(); err != nil {
			return results, err
		}

		if err := r.Create(ctx, record); err != nil {
			results = append(results, SaveResult{Index: i, Err: err})
			continue
		}

		results = append(results, SaveResult{Index: i, ID: record.ID})
	}

	return results, nil
}

func (r *LogRecordRepository) saveAllOrNothing(ctx context.Context, records []*LogRecord) ([]SaveResult, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	for _, record := range records {
		prepareForInsert(record)
	}

	err := storage.GetDb().WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		return tx.CreateInBatches(records, atomicInsertBatchSize).Error
	})

	results := make([]SaveResult, len(records))
	for i, record := range records {
		if err != nil {
			record.ID = 0
			results[i] = SaveResult{
				Index: i,
				Err:   &StorageError{Op: "save batch", Err: errors.Join(ErrBatchRolledBack, err)},
			}
			continue
		}

		results[i] = SaveResult{Index: i, ID: record.ID}
	}

	if err != nil && ctx.Err() != nil {
		return results, ctx.Err()
	}

	return results, nil
}

func prepareForInsert(record *LogRecord) {
	now := time.Now().UTC()
	record.ID = 0
	record.CreatedAt = now
	record.UpdatedAt = now
}

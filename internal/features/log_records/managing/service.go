package log_records_managing

import (
	"context"
	"fmt"
	"iter"
	"log/slog"
	"sort"
	"time"

	log_records_core "logkeeper/internal/features/log_records/core"
	log_records_importing "logkeeper/internal/features/log_records/importing"
	time_parser "logkeeper/internal/util/time"

	"github.com/google/uuid"
)

// records are handed to the store in chunks so huge files are not held in
// memory twice, atomic imports use a single chunk
const importChunkSize = 1000

type LogRecordService struct {
	store              log_records_core.LogRecordStore
	parser             *log_records_importing.BatchImportParser
	normalizer         *time_parser.DateNormalizer
	auditLogWriter     AuditLogWriter
	importSummaryCache ImportSummaryCache
	isAtomicImport     bool
	importTimeout      time.Duration
	logger             *slog.Logger
}

func NewLogRecordService(
	store log_records_core.LogRecordStore,
	parser *log_records_importing.BatchImportParser,
	normalizer *time_parser.DateNormalizer,
	logger *slog.Logger,
) *LogRecordService {
	return &LogRecordService{
		store:      store,
		parser:     parser,
		normalizer: normalizer,
		logger:     logger,
	}
}

func (s *LogRecordService) SetAuditLogWriter(writer AuditLogWriter) {
	s.auditLogWriter = writer
}

func (s *LogRecordService) SetImportSummaryCache(cache ImportSummaryCache) {
	s.importSummaryCache = cache
}

// SetImportPolicy switches between per-record commits and all-or-nothing
// imports. A zero timeout leaves the caller's context as the only deadline.
func (s *LogRecordService) SetImportPolicy(isAtomic bool, timeout time.Duration) {
	s.isAtomicImport = isAtomic
	s.importTimeout = timeout
}

func (s *LogRecordService) CreateSingle(
	ctx context.Context,
	input *log_records_core.LogRecordInput,
) (*log_records_core.LogRecord, error) {
	record, err := log_records_core.BuildLogRecord(input, s.normalizer)
	if err != nil {
		return nil, err
	}

	if err := s.store.Create(ctx, record); err != nil {
		return nil, err
	}

	if record.IsDateFabricated {
		recordFabricatedDate()
	}

	s.writeAuditLog(ctx, fmt.Sprintf("Log record %d created", record.ID), &record.ID, nil)

	return record, nil
}

func (s *LogRecordService) Find(ctx context.Context, id int64) (*log_records_core.LogRecord, error) {
	return s.store.FindByID(ctx, id)
}

func (s *LogRecordService) List(
	ctx context.Context,
	request *ListLogRecordsRequest,
) (*ListLogRecordsResponse, error) {
	query, err := toListQuery(request)
	if err != nil {
		return nil, err
	}

	records, err := s.store.List(ctx, query)
	if err != nil {
		return nil, err
	}

	total, err := s.store.Count(ctx)
	if err != nil {
		return nil, err
	}

	dtos := make([]*log_records_core.LogRecordDTO, 0, len(records))
	for _, record := range records {
		dtos = append(dtos, record.ToDTO())
	}

	return &ListLogRecordsResponse{
		LogRecords: dtos,
		Total:      total,
		Limit:      query.Limit,
		Offset:     query.Offset,
	}, nil
}

// Update replaces every mutable field of an existing record. The id and the
// creation time never change.
func (s *LogRecordService) Update(
	ctx context.Context,
	id int64,
	input *log_records_core.LogRecordInput,
) (*log_records_core.LogRecord, error) {
	record, err := log_records_core.BuildLogRecord(input, s.normalizer)
	if err != nil {
		return nil, err
	}

	record.ID = id
	if err := s.store.Update(ctx, record); err != nil {
		return nil, err
	}

	s.writeAuditLog(ctx, fmt.Sprintf("Log record %d updated", id), &id, nil)

	return s.store.FindByID(ctx, id)
}

func (s *LogRecordService) Delete(ctx context.Context, id int64) error {
	if err := s.store.DeleteByID(ctx, id); err != nil {
		return err
	}

	s.writeAuditLog(ctx, fmt.Sprintf("Log record %d deleted", id), &id, nil)

	return nil
}

// ImportBatch stores every valid line of a base64 encoded batch file. Invalid
// lines never block valid ones. When ctx ends midway the partial summary is
// returned together with the context error and already committed records
// stay committed.
func (s *LogRecordService) ImportBatch(ctx context.Context, encodedPayload string) (*ImportSummary, error) {
	ctx, cancel := s.importContext(ctx)
	defer cancel()

	units, err := s.parser.Parse(ctx, encodedPayload)
	if err != nil {
		recordRejectedImport()
		return nil, err
	}

	return s.importUnits(ctx, units)
}

// ImportContent is ImportBatch for raw file content, optionally compressed.
func (s *LogRecordService) ImportContent(ctx context.Context, content []byte) (*ImportSummary, error) {
	ctx, cancel := s.importContext(ctx)
	defer cancel()

	units, err := s.parser.ParseDecoded(ctx, content)
	if err != nil {
		recordRejectedImport()
		return nil, err
	}

	return s.importUnits(ctx, units)
}

func (s *LogRecordService) GetImportSummary(importID uuid.UUID) *ImportSummary {
	if s.importSummaryCache == nil {
		return nil
	}

	return s.importSummaryCache.Get(importID.String())
}

func (s *LogRecordService) importContext(ctx context.Context) (context.Context, context.CancelFunc) {
	if s.importTimeout > 0 {
		return context.WithTimeout(ctx, s.importTimeout)
	}

	return ctx, func() {}
}

// importUnits expects units produced with the same ctx, so lines reached
// after cancellation arrive as IMPORT_CANCELLED errors instead of records.
func (s *LogRecordService) importUnits(
	ctx context.Context,
	units iter.Seq[log_records_importing.ParsedUnit],
) (*ImportSummary, error) {
	summary := &ImportSummary{
		ImportID:   uuid.New(),
		Format:     s.parser.FormatName(),
		Errors:     make([]log_records_core.RecordError, 0),
		CreatedIDs: make([]int64, 0),
		StartedAt:  time.Now().UTC(),
	}

	chunkSize := importChunkSize
	if s.isAtomicImport {
		chunkSize = 0
	}

	var importErr error
	pending := make([]*log_records_core.LogRecord, 0)
	positions := make([]int, 0)

	flush := func() {
		if len(pending) == 0 {
			return
		}

		if importErr != nil {
			s.markCancelled(summary, positions)
		} else {
			importErr = s.saveChunk(ctx, summary, pending, positions)
		}

		pending = make([]*log_records_core.LogRecord, 0)
		positions = make([]int, 0)
	}

	for unit := range units {
		if unit.Error != nil {
			if unit.Error.Code == log_records_core.ErrorImportCancelled && importErr == nil {
				importErr = ctx.Err()
			}

			summary.Errors = append(summary.Errors, *unit.Error)
			continue
		}

		pending = append(pending, unit.Record)
		positions = append(positions, unit.Position)

		if chunkSize > 0 && len(pending) >= chunkSize {
			flush()
		}
	}
	flush()

	sort.SliceStable(summary.Errors, func(i, j int) bool {
		return summary.Errors[i].Position < summary.Errors[j].Position
	})

	summary.Succeeded = len(summary.CreatedIDs)
	summary.Failed = len(summary.Errors)
	summary.IsCancelled = importErr != nil
	summary.FinishedAt = time.Now().UTC()

	s.finishImport(ctx, summary, importErr)

	return summary, importErr
}

func (s *LogRecordService) saveChunk(
	ctx context.Context,
	summary *ImportSummary,
	records []*log_records_core.LogRecord,
	positions []int,
) error {
	if err := ctx.Err(); err != nil {
		s.markCancelled(summary, positions)
		return err
	}

	results, err := s.store.SaveMany(ctx, records, s.isAtomicImport)

	for _, result := range results {
		if result.Err != nil {
			summary.Errors = append(
				summary.Errors,
				*log_records_core.ToRecordError(positions[result.Index], result.Err),
			)
			continue
		}

		summary.CreatedIDs = append(summary.CreatedIDs, result.ID)
		if records[result.Index].IsDateFabricated {
			recordFabricatedDate()
		}
	}

	if len(results) < len(records) {
		s.markCancelled(summary, positions[len(results):])
	}

	return err
}

func (s *LogRecordService) markCancelled(summary *ImportSummary, positions []int) {
	for _, position := range positions {
		summary.Errors = append(summary.Errors, log_records_core.RecordError{
			Position: position,
			Code:     log_records_core.ErrorImportCancelled,
			Message:  "import was cancelled before this record was stored",
		})
	}
}

func (s *LogRecordService) finishImport(ctx context.Context, summary *ImportSummary, importErr error) {
	recordImport(summary)

	if s.importSummaryCache != nil {
		s.importSummaryCache.Set(summary.ImportID.String(), summary)
	}

	importID := summary.ImportID
	s.writeAuditLog(
		context.WithoutCancel(ctx),
		fmt.Sprintf(
			"Batch import %s finished: %d succeeded, %d failed",
			importID.String(),
			summary.Succeeded,
			summary.Failed,
		),
		nil,
		&importID,
	)

	if importErr != nil {
		s.logger.Warn("Batch import interrupted",
			slog.String("importId", importID.String()),
			slog.Int("succeeded", summary.Succeeded),
			slog.Int("failed", summary.Failed),
			slog.String("error", importErr.Error()))
		return
	}

	s.logger.Info("Batch import finished",
		slog.String("importId", importID.String()),
		slog.String("format", summary.Format),
		slog.Int("succeeded", summary.Succeeded),
		slog.Int("failed", summary.Failed))
}

func (s *LogRecordService) writeAuditLog(
	ctx context.Context,
	message string,
	logRecordID *int64,
	importID *uuid.UUID,
) {
	if s.auditLogWriter == nil {
		return
	}

	s.auditLogWriter.WriteAuditLog(ctx, message, logRecordID, importID)
}

func toListQuery(request *ListLogRecordsRequest) (*log_records_core.ListQuery, error) {
	query := &log_records_core.ListQuery{
		Limit:     max(request.Limit, 0),
		Offset:    max(request.Offset, 0),
		SortBy:    log_records_core.SortFieldID,
		SortOrder: log_records_core.SortOrderAsc,
	}

	switch log_records_core.SortField(request.SortBy) {
	case "":
	case log_records_core.SortFieldID, log_records_core.SortFieldOccurredAt, log_records_core.SortFieldCreatedAt:
		query.SortBy = log_records_core.SortField(request.SortBy)
	default:
		return nil, &log_records_core.ValidationError{
			Code:    log_records_core.ErrorInvalidSort,
			Message: fmt.Sprintf("cannot sort by %q", request.SortBy),
			Field:   "sortBy",
		}
	}

	switch log_records_core.SortOrder(request.SortOrder) {
	case "":
	case log_records_core.SortOrderAsc, log_records_core.SortOrderDesc:
		query.SortOrder = log_records_core.SortOrder(request.SortOrder)
	default:
		return nil, &log_records_core.ValidationError{
			Code:    log_records_core.ErrorInvalidSort,
			Message: fmt.Sprintf("sort order must be asc or desc, got %q", request.SortOrder),
			Field:   "sortOrder",
		}
	}

	return query, nil
}

package postgresadapter

import (
	"context"
	"errors"
	"log/slog"
	"time"

	"docflow/contexts/document-pipeline/audit-service/domain/entities"
	domainerrors "docflow/contexts/document-pipeline/audit-service/domain/errors"
	"docflow/internal/shared/processor"

	"github.com/jackc/pgx/v5/pgconn"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// Repository implements the audit ports on Postgres. The primary keys on
// event_id in both tables are load-bearing: they make Append idempotent and
// Claim race-free across worker instances.
type Repository struct {
	db     *gorm.DB
	logger *slog.Logger
}

func NewRepository(db *gorm.DB, logger *slog.Logger) *Repository {
	if logger == nil {
		logger = slog.Default()
	}
	return &Repository{
		db:     db,
		logger: logger,
	}
}

func (r *Repository) Append(ctx context.Context, record entities.AuditRecord) error {
	row := auditRecordModelFromEntity(record)
	result := r.db.WithContext(ctx).
		Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "event_id"}},
			DoNothing: true,
		}).
		Create(&row)
	if result.Error != nil {
		if isUniqueViolation(result.Error) {
			return nil
		}
		return result.Error
	}
	return nil
}

func (r *Repository) TimelineFor(ctx context.Context, aggregateID string) ([]entities.AuditRecord, error) {
	var rows []auditRecordModel
	if err := r.db.WithContext(ctx).
		Where("aggregate_id = ?", aggregateID).
		Order("received_at ASC").
		Order("occurred_at ASC").
		Find(&rows).
		Error; err != nil {
		return nil, err
	}
	items := make([]entities.AuditRecord, 0, len(rows))
	for _, row := range rows {
		items = append(items, row.toEntity())
	}
	return items, nil
}

func (r *Repository) Lookup(ctx context.Context, eventID string) (entities.AuditRecord, error) {
	var row auditRecordModel
	err := r.db.WithContext(ctx).
		Where("event_id = ?", eventID).
		First(&row).
		Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return entities.AuditRecord{}, domainerrors.ErrEventNotFound
		}
		return entities.AuditRecord{}, err
	}
	return row.toEntity(), nil
}

func (r *Repository) HasProcessed(ctx context.Context, eventID string) (bool, error) {
	var count int64
	err := r.db.WithContext(ctx).
		Model(&auditLedgerModel{}).
		Where("event_id = ?", eventID).
		Count(&count).
		Error
	if err != nil {
		return false, err
	}
	return count > 0, nil
}

func (r *Repository) Claim(ctx context.Context, entry processor.Entry) (processor.ClaimOutcome, error) {
	row := auditLedgerModel{
		EventID:     entry.EventID,
		EventType:   entry.EventType,
		AggregateID: entry.AggregateID,
		ProcessedAt: entry.ProcessedAt.UTC(),
	}
	result := r.db.WithContext(ctx).
		Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "event_id"}},
			DoNothing: true,
		}).
		Create(&row)
	if result.Error != nil {
		// Duplicate delivery is an expected operating condition.
		if isUniqueViolation(result.Error) {
			return processor.AlreadyClaimed, nil
		}
		return processor.AlreadyClaimed, result.Error
	}
	if result.RowsAffected == 0 {
		return processor.AlreadyClaimed, nil
	}
	return processor.Claimed, nil
}

type auditRecordModel struct {
	EventID       string    `gorm:"column:event_id;primaryKey"`
	EventType     string    `gorm:"column:event_type"`
	AggregateID   string    `gorm:"column:aggregate_id"`
	OccurredAt    time.Time `gorm:"column:occurred_at"`
	ReceivedAt    time.Time `gorm:"column:received_at"`
	MessageID     string    `gorm:"column:message_id"`
	CorrelationID string    `gorm:"column:correlation_id"`
	Payload       []byte    `gorm:"column:payload"`
}

func (auditRecordModel) TableName() string {
	return "audit_records"
}

func auditRecordModelFromEntity(record entities.AuditRecord) auditRecordModel {
	return auditRecordModel{
		EventID:       record.EventID,
		EventType:     record.EventType,
		AggregateID:   record.AggregateID,
		OccurredAt:    record.OccurredAt.UTC(),
		ReceivedAt:    record.ReceivedAt.UTC(),
		MessageID:     record.MessageID,
		CorrelationID: record.CorrelationID,
		Payload:       record.Payload,
	}
}

func (m auditRecordModel) toEntity() entities.AuditRecord {
	return entities.AuditRecord{
		EventID:       m.EventID,
		EventType:     m.EventType,
		AggregateID:   m.AggregateID,
		OccurredAt:    m.OccurredAt.UTC(),
		ReceivedAt:    m.ReceivedAt.UTC(),
		MessageID:     m.MessageID,
		CorrelationID: m.CorrelationID,
		Payload:       append([]byte(nil), m.Payload...),
	}
}

type auditLedgerModel struct {
	EventID     string    `gorm:"column:event_id;primaryKey"`
	EventType   string    `gorm:"column:event_type"`
	AggregateID string    `gorm:"column:aggregate_id"`
	ProcessedAt time.Time `gorm:"column:processed_at"`
}

func (auditLedgerModel) TableName() string {
	return "audit_event_ledger"
}

// SystemClock satisfies the Clock port with wall time.
type SystemClock struct{}

func (SystemClock) Now() time.Time {
	return time.Now().UTC()
}

func isUniqueViolation(err error) bool {
	var pgErr *pgconn.PgError
	return errors.As(err, &pgErr) && pgErr.Code == "23505"
}

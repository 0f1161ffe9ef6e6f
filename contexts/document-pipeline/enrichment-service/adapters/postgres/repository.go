package postgresadapter

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"time"

	"docflow/contexts/document-pipeline/enrichment-service/domain/entities"
	domainerrors "docflow/contexts/document-pipeline/enrichment-service/domain/errors"
	"docflow/contexts/document-pipeline/enrichment-service/ports"
	"docflow/internal/shared/outbox"
	"docflow/internal/shared/processor"

	"github.com/jackc/pgx/v5/pgconn"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// Repository implements the enrichment ports on Postgres. The enrichment
// row and its outbox event commit in one transaction; the primary key on
// source_event_id makes the whole unit idempotent under redelivery.
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

func (r *Repository) CreateEnrichmentWithOutbox(
	ctx context.Context,
	enrichment entities.Enrichment,
	event ports.EnrichedEvent,
) error {
	metadata, err := json.Marshal(enrichment.Metadata)
	if err != nil {
		return err
	}
	payload, err := json.Marshal(event.ToEnvelope())
	if err != nil {
		return err
	}

	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		row := enrichmentModel{
			SourceEventID:  enrichment.SourceEventID,
			AggregateID:    enrichment.AggregateID,
			Classification: enrichment.Classification,
			Metadata:       metadata,
			EnrichedAt:     enrichment.EnrichedAt.UTC(),
		}
		result := tx.Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "source_event_id"}},
			DoNothing: true,
		}).Create(&row)
		if result.Error != nil {
			if isUniqueViolation(result.Error) {
				return nil
			}
			return result.Error
		}
		if result.RowsAffected == 0 {
			// Replay of an already enriched source event; the outbox row
			// from the first attempt is authoritative.
			return nil
		}

		outboxRow := outboxModel{
			OutboxID:     event.EventID,
			EventType:    event.EventType,
			PartitionKey: event.PartitionKey,
			Payload:      payload,
			Status:       outbox.StatusPending,
			CreatedAt:    event.OccurredAt.UTC(),
		}
		if err := tx.Create(&outboxRow).Error; err != nil {
			if isUniqueViolation(err) {
				return domainerrors.ErrRepositoryInvariantBroke
			}
			return err
		}
		return nil
	})
}

func (r *Repository) GetBySourceEvent(ctx context.Context, sourceEventID string) (entities.Enrichment, error) {
	var row enrichmentModel
	err := r.db.WithContext(ctx).
		Where("source_event_id = ?", sourceEventID).
		First(&row).
		Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return entities.Enrichment{}, domainerrors.ErrEnrichmentNotFound
		}
		return entities.Enrichment{}, err
	}
	return row.toEntity()
}

func (r *Repository) ListPendingOutbox(ctx context.Context, limit int) ([]outbox.Message, error) {
	if limit <= 0 {
		limit = 100
	}

	var rows []outboxModel
	if err := r.db.WithContext(ctx).
		Where("status = ?", outbox.StatusPending).
		Order("created_at ASC").
		Limit(limit).
		Find(&rows).
		Error; err != nil {
		return nil, err
	}

	items := make([]outbox.Message, 0, len(rows))
	for _, row := range rows {
		items = append(items, row.toMessage())
	}
	return items, nil
}

func (r *Repository) MarkOutboxSent(ctx context.Context, outboxID string, sentAt time.Time) error {
	result := r.db.WithContext(ctx).
		Model(&outboxModel{}).
		Where("outbox_id = ?", outboxID).
		Updates(map[string]any{
			"status":  outbox.StatusSent,
			"sent_at": sentAt.UTC(),
		})
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return domainerrors.ErrRepositoryInvariantBroke
	}
	return nil
}

func (r *Repository) HasProcessed(ctx context.Context, eventID string) (bool, error) {
	var count int64
	err := r.db.WithContext(ctx).
		Model(&enrichmentLedgerModel{}).
		Where("event_id = ?", eventID).
		Count(&count).
		Error
	if err != nil {
		return false, err
	}
	return count > 0, nil
}

func (r *Repository) Claim(ctx context.Context, entry processor.Entry) (processor.ClaimOutcome, error) {
	row := enrichmentLedgerModel{
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

type enrichmentModel struct {
	SourceEventID  string    `gorm:"column:source_event_id;primaryKey"`
	AggregateID    string    `gorm:"column:aggregate_id"`
	Classification string    `gorm:"column:classification"`
	Metadata       []byte    `gorm:"column:metadata"`
	EnrichedAt     time.Time `gorm:"column:enriched_at"`
}

func (enrichmentModel) TableName() string {
	return "enrichments"
}

func (m enrichmentModel) toEntity() (entities.Enrichment, error) {
	var metadata map[string]string
	if len(m.Metadata) > 0 {
		if err := json.Unmarshal(m.Metadata, &metadata); err != nil {
			return entities.Enrichment{}, err
		}
	}
	return entities.Enrichment{
		SourceEventID:  m.SourceEventID,
		AggregateID:    m.AggregateID,
		Classification: m.Classification,
		Metadata:       metadata,
		EnrichedAt:     m.EnrichedAt.UTC(),
	}, nil
}

type outboxModel struct {
	OutboxID     string     `gorm:"column:outbox_id;primaryKey"`
	EventType    string     `gorm:"column:event_type"`
	PartitionKey string     `gorm:"column:partition_key"`
	Payload      []byte     `gorm:"column:payload"`
	Status       string     `gorm:"column:status"`
	CreatedAt    time.Time  `gorm:"column:created_at"`
	SentAt       *time.Time `gorm:"column:sent_at"`
}

func (outboxModel) TableName() string {
	return "enrichment_outbox"
}

func (m outboxModel) toMessage() outbox.Message {
	return outbox.Message{
		OutboxID:     m.OutboxID,
		EventType:    m.EventType,
		PartitionKey: m.PartitionKey,
		Payload:      append([]byte(nil), m.Payload...),
		Status:       m.Status,
		CreatedAt:    m.CreatedAt.UTC(),
		SentAt:       m.SentAt,
	}
}

type enrichmentLedgerModel struct {
	EventID     string    `gorm:"column:event_id;primaryKey"`
	EventType   string    `gorm:"column:event_type"`
	AggregateID string    `gorm:"column:aggregate_id"`
	ProcessedAt time.Time `gorm:"column:processed_at"`
}

func (enrichmentLedgerModel) TableName() string {
	return "enrichment_event_ledger"
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

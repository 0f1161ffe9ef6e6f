package postgresadapter

import (
	"context"
	"errors"
	"log/slog"
	"time"

	"docflow/contexts/document-pipeline/notification-service/domain/entities"
	"docflow/internal/shared/processor"

	"github.com/jackc/pgx/v5/pgconn"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// Repository implements the notification ports on Postgres. Uniqueness on
// event_id in both tables is load-bearing: it is what makes Record and
// Claim idempotent across concurrent worker instances.
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

func (r *Repository) HasNotified(ctx context.Context, eventID string) (bool, error) {
	var count int64
	err := r.db.WithContext(ctx).
		Model(&notificationModel{}).
		Where("event_id = ?", eventID).
		Count(&count).
		Error
	if err != nil {
		return false, err
	}
	return count > 0, nil
}

func (r *Repository) Record(ctx context.Context, notification entities.Notification) error {
	row := notificationModelFromEntity(notification)
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

func (r *Repository) HistoryForAggregate(ctx context.Context, aggregateID string) ([]entities.Notification, error) {
	var rows []notificationModel
	if err := r.db.WithContext(ctx).
		Where("aggregate_id = ?", aggregateID).
		Order("sent_at DESC").
		Find(&rows).
		Error; err != nil {
		return nil, err
	}
	return toEntities(rows), nil
}

func (r *Repository) HistoryForRecipient(ctx context.Context, recipient string) ([]entities.Notification, error) {
	var rows []notificationModel
	if err := r.db.WithContext(ctx).
		Where("recipient = ?", recipient).
		Order("sent_at DESC").
		Find(&rows).
		Error; err != nil {
		return nil, err
	}
	return toEntities(rows), nil
}

func (r *Repository) CountByType(ctx context.Context, eventType string) (int, error) {
	var count int64
	err := r.db.WithContext(ctx).
		Model(&notificationModel{}).
		Where("event_type = ?", eventType).
		Count(&count).
		Error
	if err != nil {
		return 0, err
	}
	return int(count), nil
}

func (r *Repository) HasProcessed(ctx context.Context, eventID string) (bool, error) {
	var count int64
	err := r.db.WithContext(ctx).
		Model(&notificationLedgerModel{}).
		Where("event_id = ?", eventID).
		Count(&count).
		Error
	if err != nil {
		return false, err
	}
	return count > 0, nil
}

func (r *Repository) Claim(ctx context.Context, entry processor.Entry) (processor.ClaimOutcome, error) {
	row := notificationLedgerModel{
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

type notificationModel struct {
	EventID     string    `gorm:"column:event_id;primaryKey"`
	AggregateID string    `gorm:"column:aggregate_id"`
	EventType   string    `gorm:"column:event_type"`
	Recipient   string    `gorm:"column:recipient"`
	Subject     string    `gorm:"column:subject"`
	SentAt      time.Time `gorm:"column:sent_at"`
}

func (notificationModel) TableName() string {
	return "notifications"
}

func notificationModelFromEntity(notification entities.Notification) notificationModel {
	return notificationModel{
		EventID:     notification.EventID,
		AggregateID: notification.AggregateID,
		EventType:   notification.EventType,
		Recipient:   notification.Recipient,
		Subject:     notification.Subject,
		SentAt:      notification.SentAt.UTC(),
	}
}

func (m notificationModel) toEntity() entities.Notification {
	return entities.Notification{
		EventID:     m.EventID,
		AggregateID: m.AggregateID,
		EventType:   m.EventType,
		Recipient:   m.Recipient,
		Subject:     m.Subject,
		SentAt:      m.SentAt.UTC(),
	}
}

func toEntities(rows []notificationModel) []entities.Notification {
	items := make([]entities.Notification, 0, len(rows))
	for _, row := range rows {
		items = append(items, row.toEntity())
	}
	return items
}

type notificationLedgerModel struct {
	EventID     string    `gorm:"column:event_id;primaryKey"`
	EventType   string    `gorm:"column:event_type"`
	AggregateID string    `gorm:"column:aggregate_id"`
	ProcessedAt time.Time `gorm:"column:processed_at"`
}

func (notificationLedgerModel) TableName() string {
	return "notification_event_ledger"
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

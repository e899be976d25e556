package analytics

import (
	"context"
	"time"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/fabrikline/wholesale-backend/pkg/db/models"
	"github.com/fabrikline/wholesale-backend/pkg/enums"
)

// EventRepository persists tracked events.
type EventRepository interface {
	Create(ctx context.Context, event *models.AnalyticsEvent) error
	CreateIfAbsent(ctx context.Context, event *models.AnalyticsEvent) error
	DeleteTypeBefore(ctx context.Context, eventType enums.AnalyticsEventType, cutoff time.Time) (int64, error)
}

type Repository struct {
	db *gorm.DB
}

func NewRepository(db *gorm.DB) *Repository {
	return &Repository{db: db}
}

func (r *Repository) Create(ctx context.Context, event *models.AnalyticsEvent) error {
	return r.db.WithContext(ctx).Create(event).Error
}

// CreateIfAbsent inserts the event unless a row with its id already exists.
// The bus redelivers, so consumers must tolerate duplicates.
func (r *Repository) CreateIfAbsent(ctx context.Context, event *models.AnalyticsEvent) error {
	return r.db.WithContext(ctx).
		Clauses(clause.OnConflict{Columns: []clause.Column{{Name: "id"}}, DoNothing: true}).
		Create(event).Error
}

// DeleteTypeBefore removes events of one type recorded before the cutoff and
// returns the number of rows deleted.
func (r *Repository) DeleteTypeBefore(ctx context.Context, eventType enums.AnalyticsEventType, cutoff time.Time) (int64, error) {
	res := r.db.WithContext(ctx).
		Where("type = ? AND created_at < ?", eventType, cutoff).
		Delete(&models.AnalyticsEvent{})
	return res.RowsAffected, res.Error
}

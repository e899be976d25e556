package models

import (
	"time"

	"github.com/google/uuid"

	"github.com/fabrikline/wholesale-backend/pkg/enums"
	"github.com/fabrikline/wholesale-backend/pkg/types"
)

// AnalyticsEvent is one tracked interaction. Payload is free-form JSONB
// supplied by the client and never interpreted server side.
type AnalyticsEvent struct {
	ID        uuid.UUID                `gorm:"column:id;type:uuid;default:gen_random_uuid();primaryKey"`
	UserID    *uuid.UUID               `gorm:"column:user_id;type:uuid;index"`
	CompanyID *uuid.UUID               `gorm:"column:company_id;type:uuid;index"`
	Type      enums.AnalyticsEventType `gorm:"column:type;type:text;not null"`
	Payload   types.EventPayload       `gorm:"column:payload;type:jsonb"`
	CreatedAt time.Time                `gorm:"column:created_at;autoCreateTime"`
}

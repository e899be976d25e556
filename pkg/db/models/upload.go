package models

import (
	"time"

	"github.com/google/uuid"
)

// Upload records one stored object and the bucket URL it resolves to.
type Upload struct {
	ID          uuid.UUID `gorm:"column:id;type:uuid;default:gen_random_uuid();primaryKey"`
	UserID      uuid.UUID `gorm:"column:user_id;type:uuid;not null;index"`
	FileName    string    `gorm:"column:file_name;not null"`
	ContentType string    `gorm:"column:content_type;not null"`
	SizeBytes   int64     `gorm:"column:size_bytes;not null"`
	BucketPath  string    `gorm:"column:bucket_path;not null"`
	URL         string    `gorm:"column:url;not null"`
	CreatedAt   time.Time `gorm:"column:created_at;autoCreateTime"`
}

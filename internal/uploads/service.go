package uploads

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"path"
	"strings"
	"time"

	"github.com/gabriel-vasile/mimetype"
	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/fabrikline/wholesale-backend/pkg/db/models"
	pkgerrors "github.com/fabrikline/wholesale-backend/pkg/errors"
	"github.com/fabrikline/wholesale-backend/pkg/logger"
)

// allowedMIMETypes are the content types buyers may attach to RFQs and
// product records.
var allowedMIMETypes = map[string]struct{}{
	"image/png":       {},
	"image/jpeg":      {},
	"image/webp":      {},
	"application/pdf": {},
	"text/csv":        {},
}

// Input describes one incoming file.
type Input struct {
	FileName string
	Body     io.Reader
}

// Result is the stored object reference returned to the client.
type Result struct {
	ID          uuid.UUID `json:"id"`
	URL         string    `json:"url"`
	ContentType string    `json:"content_type"`
	SizeBytes   int64     `json:"size_bytes"`
}

// ObjectStore abstracts the bucket the files land in.
type ObjectStore interface {
	PutObject(ctx context.Context, objectPath, contentType string, body io.Reader) error
	DeleteObject(ctx context.Context, objectPath string) error
	ObjectURL(objectPath string) string
}

// UploadRepository persists upload records.
type UploadRepository interface {
	Create(ctx context.Context, upload *models.Upload) error
}

// Service stores uploaded files and records them.
type Service interface {
	Upload(ctx context.Context, userID uuid.UUID, input Input) (*Result, error)
}

type service struct {
	repo     UploadRepository
	store    ObjectStore
	logg     *logger.Logger
	maxBytes int64
}

// NewService builds the upload service. maxMB bounds the accepted file size.
func NewService(repo UploadRepository, store ObjectStore, logg *logger.Logger, maxMB int) (Service, error) {
	if repo == nil {
		return nil, fmt.Errorf("upload repository required")
	}
	if store == nil {
		return nil, fmt.Errorf("object store required")
	}
	if maxMB <= 0 {
		maxMB = 20
	}
	return &service{
		repo:     repo,
		store:    store,
		logg:     logg,
		maxBytes: int64(maxMB) * 1024 * 1024,
	}, nil
}

func (s *service) Upload(ctx context.Context, userID uuid.UUID, input Input) (*Result, error) {
	name := sanitizeFileName(input.FileName)
	if name == "" {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "file name is required")
	}
	if input.Body == nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "file body is required")
	}

	// read the whole file bounded one byte past the limit to detect oversize
	buf := &bytes.Buffer{}
	n, err := io.Copy(buf, io.LimitReader(input.Body, s.maxBytes+1))
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "reading upload")
	}
	if n == 0 {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "file is empty")
	}
	if n > s.maxBytes {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, fmt.Sprintf("file exceeds %d bytes", s.maxBytes))
	}

	detected := mimetype.Detect(buf.Bytes())
	contentType := normalizeMIME(detected.String())
	if _, ok := allowedMIMETypes[contentType]; !ok {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, fmt.Sprintf("content type %s is not allowed", contentType))
	}

	id := uuid.New()
	objectPath := fmt.Sprintf("uploads/%s/%s%s", userID, id, path.Ext(name))
	if err := s.store.PutObject(ctx, objectPath, contentType, bytes.NewReader(buf.Bytes())); err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "storing object")
	}

	url := s.store.ObjectURL(objectPath)
	record := &models.Upload{
		ID:          id,
		UserID:      userID,
		FileName:    name,
		ContentType: contentType,
		SizeBytes:   n,
		BucketPath:  objectPath,
		URL:         url,
		CreatedAt:   time.Now().UTC(),
	}
	if err := s.repo.Create(ctx, record); err != nil {
		// the object is orphaned; best effort cleanup
		if delErr := s.store.DeleteObject(ctx, objectPath); delErr != nil && s.logg != nil {
			s.logg.Warn(ctx, "orphaned upload object could not be removed")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "recording upload")
	}

	return &Result{
		ID:          id,
		URL:         url,
		ContentType: contentType,
		SizeBytes:   n,
	}, nil
}

func sanitizeFileName(name string) string {
	trimmed := strings.TrimSpace(path.Base(name))
	if trimmed == "." || trimmed == "/" {
		return ""
	}
	return trimmed
}

// normalizeMIME drops parameters like charset from detected types.
func normalizeMIME(value string) string {
	if idx := strings.IndexByte(value, ';'); idx >= 0 {
		value = value[:idx]
	}
	return strings.TrimSpace(value)
}

// Repository is the GORM-backed UploadRepository.
type Repository struct {
	db *gorm.DB
}

func NewRepository(db *gorm.DB) *Repository {
	return &Repository{db: db}
}

func (r *Repository) Create(ctx context.Context, upload *models.Upload) error {
	return r.db.WithContext(ctx).Create(upload).Error
}

package companies

import (
	"context"
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/fabrikline/wholesale-backend/pkg/db/models"
	"github.com/fabrikline/wholesale-backend/pkg/enums"
	pkgerrors "github.com/fabrikline/wholesale-backend/pkg/errors"
)

// CompanyDTO is the tenant shape served to platform admins.
type CompanyDTO struct {
	ID           uuid.UUID           `json:"id"`
	Name         string              `json:"name"`
	LegalName    *string             `json:"legal_name,omitempty"`
	Status       enums.CompanyStatus `json:"status"`
	ContactEmail *string             `json:"contact_email,omitempty"`
	Country      *string             `json:"country,omitempty"`
	CreatedAt    time.Time           `json:"created_at"`
}

// Service exposes tenant reads, status transitions, and the CSV export.
type Service interface {
	List(ctx context.Context, status *enums.CompanyStatus) ([]CompanyDTO, error)
	SetStatus(ctx context.Context, id uuid.UUID, status enums.CompanyStatus) (*CompanyDTO, error)
	ExportCSV(ctx context.Context, w io.Writer, status *enums.CompanyStatus) (int, error)
}

type service struct {
	repo CompanyRepository
}

func NewService(repo CompanyRepository) (Service, error) {
	if repo == nil {
		return nil, fmt.Errorf("company repository required")
	}
	return &service{repo: repo}, nil
}

func (s *service) List(ctx context.Context, status *enums.CompanyStatus) ([]CompanyDTO, error) {
	rows, err := s.repo.List(ctx, status)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "listing companies")
	}

	out := make([]CompanyDTO, 0, len(rows))
	for i := range rows {
		out = append(out, fromModel(&rows[i]))
	}
	return out, nil
}

func (s *service) SetStatus(ctx context.Context, id uuid.UUID, status enums.CompanyStatus) (*CompanyDTO, error) {
	company, err := s.repo.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, pkgerrors.New(pkgerrors.CodeNotFound, "company not found")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "loading company")
	}

	if err := s.repo.UpdateStatus(ctx, id, status); err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "updating company status")
	}

	company.Status = status
	dto := fromModel(company)
	return &dto, nil
}

// ExportCSV streams the company roster as CSV and returns the row count.
func (s *service) ExportCSV(ctx context.Context, w io.Writer, status *enums.CompanyStatus) (int, error) {
	rows, err := s.repo.List(ctx, status)
	if err != nil {
		return 0, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "listing companies")
	}

	writer := csv.NewWriter(w)
	if err := writer.Write([]string{"id", "name", "legal_name", "status", "contact_email", "country", "created_at"}); err != nil {
		return 0, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "writing csv header")
	}

	for i := range rows {
		record := []string{
			rows[i].ID.String(),
			rows[i].Name,
			deref(rows[i].LegalName),
			string(rows[i].Status),
			deref(rows[i].ContactEmail),
			deref(rows[i].Country),
			rows[i].CreatedAt.UTC().Format(time.RFC3339),
		}
		if err := writer.Write(record); err != nil {
			return 0, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "writing csv row")
		}
	}

	writer.Flush()
	if err := writer.Error(); err != nil {
		return 0, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "flushing csv")
	}
	return len(rows), nil
}

func fromModel(c *models.Company) CompanyDTO {
	return CompanyDTO{
		ID:           c.ID,
		Name:         c.Name,
		LegalName:    c.LegalName,
		Status:       c.Status,
		ContactEmail: c.ContactEmail,
		Country:      c.Country,
		CreatedAt:    c.CreatedAt,
	}
}

func deref(s *string) string {
	if s == nil {
		return ""
	}
	return *s
}

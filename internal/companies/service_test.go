package companies

import (
	"context"
	"encoding/csv"
	"strings"
	"testing"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/fabrikline/wholesale-backend/pkg/db/models"
	"github.com/fabrikline/wholesale-backend/pkg/enums"
	pkgerrors "github.com/fabrikline/wholesale-backend/pkg/errors"
)

type stubCompanyRepo struct {
	rows       []models.Company
	gotStatus  *enums.CompanyStatus
	statusSets map[uuid.UUID]enums.CompanyStatus
}

func (s *stubCompanyRepo) FindByID(_ context.Context, id uuid.UUID) (*models.Company, error) {
	for i := range s.rows {
		if s.rows[i].ID == id {
			return &s.rows[i], nil
		}
	}
	return nil, gorm.ErrRecordNotFound
}

func (s *stubCompanyRepo) List(_ context.Context, status *enums.CompanyStatus) ([]models.Company, error) {
	s.gotStatus = status
	if status == nil {
		return s.rows, nil
	}
	var out []models.Company
	for _, row := range s.rows {
		if row.Status == *status {
			out = append(out, row)
		}
	}
	return out, nil
}

func (s *stubCompanyRepo) UpdateStatus(_ context.Context, id uuid.UUID, status enums.CompanyStatus) error {
	if s.statusSets == nil {
		s.statusSets = map[uuid.UUID]enums.CompanyStatus{}
	}
	s.statusSets[id] = status
	return nil
}

func sampleCompanies() []models.Company {
	legal := "Acme Wholesale GmbH"
	email := "ops@acme.example"
	return []models.Company{
		{ID: uuid.New(), Name: "Acme", LegalName: &legal, Status: enums.CompanyStatusApproved, ContactEmail: &email, CreatedAt: time.Now().UTC()},
		{ID: uuid.New(), Name: "Globex", Status: enums.CompanyStatusPending, CreatedAt: time.Now().UTC()},
	}
}

func TestListFiltersByStatus(t *testing.T) {
	t.Parallel()

	svc, err := NewService(&stubCompanyRepo{rows: sampleCompanies()})
	if err != nil {
		t.Fatalf("build service: %v", err)
	}

	status := enums.CompanyStatusApproved
	out, err := svc.List(context.Background(), &status)
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	if len(out) != 1 || out[0].Name != "Acme" {
		t.Fatalf("unexpected filtered result: %+v", out)
	}
}

func TestSetStatusUpdatesAndReturnsCompany(t *testing.T) {
	t.Parallel()

	repo := &stubCompanyRepo{rows: sampleCompanies()}
	svc, err := NewService(repo)
	if err != nil {
		t.Fatalf("build service: %v", err)
	}

	target := repo.rows[1]
	dto, err := svc.SetStatus(context.Background(), target.ID, enums.CompanyStatusApproved)
	if err != nil {
		t.Fatalf("set status: %v", err)
	}
	if dto.Status != enums.CompanyStatusApproved {
		t.Fatalf("expected approved status in response, got %s", dto.Status)
	}
	if got := repo.statusSets[target.ID]; got != enums.CompanyStatusApproved {
		t.Fatalf("expected repo update to approved, got %s", got)
	}
}

func TestSetStatusUnknownCompany(t *testing.T) {
	t.Parallel()

	svc, err := NewService(&stubCompanyRepo{rows: sampleCompanies()})
	if err != nil {
		t.Fatalf("build service: %v", err)
	}

	_, err = svc.SetStatus(context.Background(), uuid.New(), enums.CompanyStatusSuspended)
	if coded := pkgerrors.As(err); coded == nil || coded.Code() != pkgerrors.CodeNotFound {
		t.Fatalf("expected not found error, got %v", err)
	}
}

func TestExportCSVWritesAllRows(t *testing.T) {
	t.Parallel()

	svc, err := NewService(&stubCompanyRepo{rows: sampleCompanies()})
	if err != nil {
		t.Fatalf("build service: %v", err)
	}

	var buf strings.Builder
	count, err := svc.ExportCSV(context.Background(), &buf, nil)
	if err != nil {
		t.Fatalf("export: %v", err)
	}
	if count != 2 {
		t.Fatalf("expected 2 exported rows, got %d", count)
	}

	records, err := csv.NewReader(strings.NewReader(buf.String())).ReadAll()
	if err != nil {
		t.Fatalf("parse exported csv: %v", err)
	}
	if len(records) != 3 {
		t.Fatalf("expected header plus 2 rows, got %d", len(records))
	}
	if records[0][0] != "id" || records[0][3] != "status" {
		t.Fatalf("unexpected header %v", records[0])
	}
	if records[1][1] != "Acme" || records[1][2] != "Acme Wholesale GmbH" {
		t.Fatalf("unexpected first row %v", records[1])
	}
	if records[2][2] != "" {
		t.Fatalf("nil legal name should export empty, got %q", records[2][2])
	}
}

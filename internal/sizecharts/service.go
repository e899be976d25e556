package sizecharts

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	pkgerrors "github.com/fabrikline/wholesale-backend/pkg/errors"
	"github.com/fabrikline/wholesale-backend/pkg/types"
)

// ChartDTO is the measurement grid shape served to product pages.
type ChartDTO struct {
	ID        uuid.UUID             `json:"id"`
	Name      string                `json:"name"`
	Unit      string                `json:"unit"`
	Rows      types.MeasurementGrid `json:"rows"`
	UpdatedAt time.Time             `json:"updated_at"`
}

// Service exposes size chart reads.
type Service interface {
	Get(ctx context.Context, id uuid.UUID) (*ChartDTO, error)
}

type service struct {
	repo ChartRepository
}

func NewService(repo ChartRepository) (Service, error) {
	if repo == nil {
		return nil, fmt.Errorf("size chart repository required")
	}
	return &service{repo: repo}, nil
}

func (s *service) Get(ctx context.Context, id uuid.UUID) (*ChartDTO, error) {
	chart, err := s.repo.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, pkgerrors.New(pkgerrors.CodeNotFound, fmt.Sprintf("size chart %s not found", id))
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "loading size chart")
	}
	return &ChartDTO{
		ID:        chart.ID,
		Name:      chart.Name,
		Unit:      chart.Unit,
		Rows:      chart.Rows,
		UpdatedAt: chart.UpdatedAt,
	}, nil
}

package products

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"gorm.io/gorm"

	pkgerrors "github.com/fabrikline/wholesale-backend/pkg/errors"
	"github.com/fabrikline/wholesale-backend/pkg/pagination"
)

// Service exposes catalog reads to the API layer.
type Service interface {
	GetDetail(ctx context.Context, id uuid.UUID) (*ProductDTO, error)
	List(ctx context.Context, cursor string, limit int) (*ListPage, error)
}

type service struct {
	repo ProductRepository
}

// NewService builds a catalog read service.
func NewService(repo ProductRepository) (Service, error) {
	if repo == nil {
		return nil, fmt.Errorf("product repository required")
	}
	return &service{repo: repo}, nil
}

func (s *service) GetDetail(ctx context.Context, id uuid.UUID) (*ProductDTO, error) {
	product, err := s.repo.GetProductDetail(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, pkgerrors.New(pkgerrors.CodeNotFound, fmt.Sprintf("product %s not found", id))
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "loading product")
	}
	dto := fromModel(product, true)
	return &dto, nil
}

func (s *service) List(ctx context.Context, rawCursor string, limit int) (*ListPage, error) {
	limit = pagination.NormalizeLimit(limit)

	var cursor *pagination.Cursor
	if rawCursor != "" {
		parsed, err := pagination.ParseCursor(rawCursor)
		if err != nil {
			return nil, pkgerrors.New(pkgerrors.CodeValidation, "invalid cursor")
		}
		cursor = parsed
	}

	rows, err := s.repo.ListProducts(ctx, cursor, pagination.LimitWithBuffer(limit))
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "listing products")
	}

	page := &ListPage{Products: make([]ProductDTO, 0, len(rows))}
	hasMore := len(rows) > limit
	if hasMore {
		rows = rows[:limit]
	}
	for i := range rows {
		page.Products = append(page.Products, fromModel(&rows[i], false))
	}
	if hasMore {
		last := rows[len(rows)-1]
		page.NextCursor = pagination.EncodeCursor(pagination.Cursor{
			CreatedAt: last.CreatedAt,
			ID:        last.ID,
		})
	}
	return page, nil
}

package catalog

import (
	"context"

	domain "github.com/bizorder/backend/internal/domain/catalog"
	"github.com/google/uuid"
)

// ItemRepository reads catalog items
type ItemRepository interface {
	FindByID(ctx context.Context, id uuid.UUID) (*domain.CatalogItem, error)
	ListByOrganization(ctx context.Context, organizationID uuid.UUID, activeOnly bool) ([]*domain.CatalogItem, error)
	ListByCategory(ctx context.Context, organizationID, categoryID uuid.UUID) ([]*domain.CatalogItem, error)
}

// CategoryRepository reads category nodes
type CategoryRepository interface {
	FindByID(ctx context.Context, id uuid.UUID) (*domain.CategoryNode, error)
	ListByOrganization(ctx context.Context, organizationID uuid.UUID) ([]*domain.CategoryNode, error)
}

// BrowseService exposes read access to the catalog. Catalog writes happen
// through the dataset load, not through this service.
type BrowseService struct {
	items      ItemRepository
	categories CategoryRepository
}

// NewBrowseService creates a new BrowseService
func NewBrowseService(items ItemRepository, categories CategoryRepository) *BrowseService {
	return &BrowseService{items: items, categories: categories}
}

// GetItem fetches a single catalog item
func (s *BrowseService) GetItem(ctx context.Context, id uuid.UUID) (*domain.CatalogItem, error) {
	return s.items.FindByID(ctx, id)
}

// ListItems lists an organization's catalog items
func (s *BrowseService) ListItems(ctx context.Context, organizationID uuid.UUID, activeOnly bool) ([]*domain.CatalogItem, error) {
	return s.items.ListByOrganization(ctx, organizationID, activeOnly)
}

// ListItemsByCategory lists the items under one category node
func (s *BrowseService) ListItemsByCategory(ctx context.Context, organizationID, categoryID uuid.UUID) ([]*domain.CatalogItem, error) {
	if _, err := s.categories.FindByID(ctx, categoryID); err != nil {
		return nil, err
	}
	return s.items.ListByCategory(ctx, organizationID, categoryID)
}

// ListCategories lists an organization's category tree, parents before
// children
func (s *BrowseService) ListCategories(ctx context.Context, organizationID uuid.UUID) ([]*domain.CategoryNode, error) {
	return s.categories.ListByOrganization(ctx, organizationID)
}

package catalog

import (
	"github.com/bizorder/backend/internal/domain/shared"
	"github.com/google/uuid"
)

// CategoryNode belongs to an organization and forms a tree through the
// optional parent reference. Root nodes have no parent. Name uniqueness is
// scoped to (organization, parent, name), not global.
type CategoryNode struct {
	shared.OrgEntity
	Name     string
	ParentID *uuid.UUID
	Depth    int
}

// NewCategoryNode creates a root category for an organization
func NewCategoryNode(organizationID uuid.UUID, name string) (*CategoryNode, error) {
	if organizationID == uuid.Nil {
		return nil, shared.NewDomainError("INVALID_ORGANIZATION", "Organization ID cannot be empty")
	}
	if name == "" {
		return nil, shared.NewDomainError("INVALID_NAME", "Category name cannot be empty")
	}
	return &CategoryNode{
		OrgEntity: shared.NewOrgEntity(organizationID),
		Name:      name,
	}, nil
}

// NewChildCategoryNode creates a category under an existing parent
func NewChildCategoryNode(organizationID, parentID uuid.UUID, name string, parentDepth int) (*CategoryNode, error) {
	node, err := NewCategoryNode(organizationID, name)
	if err != nil {
		return nil, err
	}
	if parentID == uuid.Nil {
		return nil, shared.NewDomainError("INVALID_PARENT", "Parent category ID cannot be empty")
	}
	node.ParentID = &parentID
	node.Depth = parentDepth + 1
	return node, nil
}

// IsRoot returns true if this category has no parent
func (c *CategoryNode) IsRoot() bool {
	return c.ParentID == nil
}

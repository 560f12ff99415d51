package identity

import (
	"github.com/bizorder/backend/internal/domain/shared"
)

// Organization is the tenant root entity. It owns addresses, categories,
// accounts, catalog items and order requests. Organizations are created once
// and never destructively resynced.
type Organization struct {
	shared.BaseEntity
	Name           string
	BusinessNumber string
	Phone          string
}

// NewOrganization creates a new organization
func NewOrganization(name, businessNumber, phone string) (*Organization, error) {
	if name == "" {
		return nil, shared.NewDomainError("INVALID_NAME", "Organization name cannot be empty")
	}
	if len(name) > 200 {
		return nil, shared.NewDomainError("INVALID_NAME", "Organization name cannot exceed 200 characters")
	}
	return &Organization{
		BaseEntity:     shared.NewBaseEntity(),
		Name:           name,
		BusinessNumber: businessNumber,
		Phone:          phone,
	}, nil
}

package shared

import (
	"time"

	"github.com/google/uuid"
)

// Entity is the base interface for all domain entities
type Entity interface {
	GetID() uuid.UUID
	GetCreatedAt() time.Time
	GetUpdatedAt() time.Time
}

// NewID generates a new entity identifier.
// Identifiers are UUIDv7: collision-resistant, allocated locally by every
// load path, and lexicographically ordered by creation time.
func NewID() uuid.UUID {
	id, err := uuid.NewV7()
	if err != nil {
		// NewV7 only fails when the random source is exhausted;
		// fall back to v4 rather than panicking in a load path.
		return uuid.New()
	}
	return id
}

// BaseEntity provides common fields for all entities
type BaseEntity struct {
	ID        uuid.UUID
	CreatedAt time.Time
	UpdatedAt time.Time
}

// GetID returns the entity ID
func (e *BaseEntity) GetID() uuid.UUID {
	return e.ID
}

// GetCreatedAt returns the creation timestamp
func (e *BaseEntity) GetCreatedAt() time.Time {
	return e.CreatedAt
}

// GetUpdatedAt returns the last update timestamp
func (e *BaseEntity) GetUpdatedAt() time.Time {
	return e.UpdatedAt
}

// NewBaseEntity creates a new base entity with a generated ID
func NewBaseEntity() BaseEntity {
	now := time.Now()
	return BaseEntity{
		ID:        NewID(),
		CreatedAt: now,
		UpdatedAt: now,
	}
}

// OrgEntity extends BaseEntity with the owning organization.
// Every tenant-scoped row carries the organization id resolved by the
// server, never one supplied by the caller.
type OrgEntity struct {
	BaseEntity
	OrganizationID uuid.UUID
}

// NewOrgEntity creates a new organization-scoped entity
func NewOrgEntity(organizationID uuid.UUID) OrgEntity {
	return OrgEntity{
		BaseEntity:     NewBaseEntity(),
		OrganizationID: organizationID,
	}
}

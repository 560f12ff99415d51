package models

import (
	"time"

	"github.com/bizorder/backend/internal/domain/shared"
	"github.com/google/uuid"
)

// BaseModel provides common persistence fields for all models.
// It maps to the domain's BaseEntity.
type BaseModel struct {
	ID        uuid.UUID `gorm:"type:uuid;primary_key"`
	CreatedAt time.Time `gorm:"not null"`
	UpdatedAt time.Time `gorm:"not null"`
}

// ToDomain converts BaseModel to domain BaseEntity
func (m *BaseModel) ToDomain() shared.BaseEntity {
	return shared.BaseEntity{
		ID:        m.ID,
		CreatedAt: m.CreatedAt,
		UpdatedAt: m.UpdatedAt,
	}
}

// FromDomainBaseEntity populates BaseModel from domain BaseEntity
func (m *BaseModel) FromDomainBaseEntity(e shared.BaseEntity) {
	m.ID = e.ID
	m.CreatedAt = e.CreatedAt
	m.UpdatedAt = e.UpdatedAt
}

// OrgModel provides common persistence fields for organization-scoped rows
type OrgModel struct {
	BaseModel
	OrganizationID uuid.UUID `gorm:"type:uuid;not null;index"`
}

// ToDomain converts OrgModel to domain OrgEntity
func (m *OrgModel) ToDomain() shared.OrgEntity {
	return shared.OrgEntity{
		BaseEntity:     m.BaseModel.ToDomain(),
		OrganizationID: m.OrganizationID,
	}
}

// FromDomainOrgEntity populates OrgModel from domain OrgEntity
func (m *OrgModel) FromDomainOrgEntity(e shared.OrgEntity) {
	m.FromDomainBaseEntity(e.BaseEntity)
	m.OrganizationID = e.OrganizationID
}

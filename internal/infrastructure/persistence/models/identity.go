package models

import (
	"github.com/bizorder/backend/internal/domain/identity"
)

// OrganizationModel is the persistence model for the Organization entity
type OrganizationModel struct {
	BaseModel
	Name           string `gorm:"type:varchar(200);not null"`
	BusinessNumber string `gorm:"type:varchar(20)"`
	Phone          string `gorm:"type:varchar(20)"`
}

// TableName returns the table name for GORM
func (OrganizationModel) TableName() string {
	return "organizations"
}

// ToDomain converts the persistence model to a domain Organization
func (m *OrganizationModel) ToDomain() *identity.Organization {
	return &identity.Organization{
		BaseEntity:     m.BaseModel.ToDomain(),
		Name:           m.Name,
		BusinessNumber: m.BusinessNumber,
		Phone:          m.Phone,
	}
}

// FromDomain populates the persistence model from a domain Organization
func (m *OrganizationModel) FromDomain(o *identity.Organization) {
	m.FromDomainBaseEntity(o.BaseEntity)
	m.Name = o.Name
	m.BusinessNumber = o.BusinessNumber
	m.Phone = o.Phone
}

// OrganizationModelFromDomain creates a persistence model from a domain Organization
func OrganizationModelFromDomain(o *identity.Organization) *OrganizationModel {
	m := &OrganizationModel{}
	m.FromDomain(o)
	return m
}

// AccountModel is the persistence model for the Account entity
type AccountModel struct {
	OrgModel
	Email        string        `gorm:"type:varchar(255);not null;index"`
	Name         string        `gorm:"type:varchar(100);not null"`
	Role         identity.Role `gorm:"type:varchar(20);not null"`
	PasswordHash string        `gorm:"type:varchar(100)"`
}

// TableName returns the table name for GORM
func (AccountModel) TableName() string {
	return "accounts"
}

// ToDomain converts the persistence model to a domain Account
func (m *AccountModel) ToDomain() *identity.Account {
	return &identity.Account{
		OrgEntity:    m.OrgModel.ToDomain(),
		Email:        m.Email,
		Name:         m.Name,
		Role:         m.Role,
		PasswordHash: m.PasswordHash,
	}
}

// FromDomain populates the persistence model from a domain Account
func (m *AccountModel) FromDomain(a *identity.Account) {
	m.FromDomainOrgEntity(a.OrgEntity)
	m.Email = a.Email
	m.Name = a.Name
	m.Role = a.Role
	m.PasswordHash = a.PasswordHash
}

// AccountModelFromDomain creates a persistence model from a domain Account
func AccountModelFromDomain(a *identity.Account) *AccountModel {
	m := &AccountModel{}
	m.FromDomain(a)
	return m
}

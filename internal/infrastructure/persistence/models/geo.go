package models

import (
	"github.com/bizorder/backend/internal/domain/geo"
	"github.com/google/uuid"
)

// ReferenceCodeModel is the persistence model for the ReferenceCode entity
type ReferenceCodeModel struct {
	BaseModel
	Code     string       `gorm:"type:varchar(10);not null;index"`
	FeeClass geo.FeeClass `gorm:"type:varchar(20);not null"`
	Active   bool         `gorm:"not null;default:true"`
	Address  string       `gorm:"type:text;not null"`
}

// TableName returns the table name for GORM
func (ReferenceCodeModel) TableName() string {
	return "reference_codes"
}

// ToDomain converts the persistence model to a domain ReferenceCode
func (m *ReferenceCodeModel) ToDomain() *geo.ReferenceCode {
	return &geo.ReferenceCode{
		BaseEntity: m.BaseModel.ToDomain(),
		Code:       m.Code,
		FeeClass:   m.FeeClass,
		Active:     m.Active,
		Address:    m.Address,
	}
}

// FromDomain populates the persistence model from a domain ReferenceCode
func (m *ReferenceCodeModel) FromDomain(r *geo.ReferenceCode) {
	m.FromDomainBaseEntity(r.BaseEntity)
	m.Code = r.Code
	m.FeeClass = r.FeeClass
	m.Active = r.Active
	m.Address = r.Address
}

// ReferenceCodeModelFromDomain creates a persistence model from a domain ReferenceCode
func ReferenceCodeModelFromDomain(r *geo.ReferenceCode) *ReferenceCodeModel {
	m := &ReferenceCodeModel{}
	m.FromDomain(r)
	return m
}

// AddressModel is the persistence model for the Address entity
type AddressModel struct {
	OrgModel
	PostalCode      string     `gorm:"type:varchar(10);not null"`
	AddressText     string     `gorm:"type:text;not null"`
	AddressDetail   string     `gorm:"type:text"`
	Recipient       string     `gorm:"type:varchar(100)"`
	Phone           string     `gorm:"type:varchar(20)"`
	ReferenceCodeID *uuid.UUID `gorm:"type:uuid;index"`
}

// TableName returns the table name for GORM
func (AddressModel) TableName() string {
	return "addresses"
}

// ToDomain converts the persistence model to a domain Address
func (m *AddressModel) ToDomain() *geo.Address {
	return &geo.Address{
		OrgEntity:       m.OrgModel.ToDomain(),
		PostalCode:      m.PostalCode,
		AddressText:     m.AddressText,
		AddressDetail:   m.AddressDetail,
		Recipient:       m.Recipient,
		Phone:           m.Phone,
		ReferenceCodeID: m.ReferenceCodeID,
	}
}

// FromDomain populates the persistence model from a domain Address
func (m *AddressModel) FromDomain(a *geo.Address) {
	m.FromDomainOrgEntity(a.OrgEntity)
	m.PostalCode = a.PostalCode
	m.AddressText = a.AddressText
	m.AddressDetail = a.AddressDetail
	m.Recipient = a.Recipient
	m.Phone = a.Phone
	m.ReferenceCodeID = a.ReferenceCodeID
}

// AddressModelFromDomain creates a persistence model from a domain Address
func AddressModelFromDomain(a *geo.Address) *AddressModel {
	m := &AddressModel{}
	m.FromDomain(a)
	return m
}

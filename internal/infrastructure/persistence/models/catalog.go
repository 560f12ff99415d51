package models

import (
	"github.com/bizorder/backend/internal/domain/catalog"
	"github.com/bizorder/backend/internal/domain/shared/valueobject"
	"github.com/google/uuid"
)

// CategoryModel is the persistence model for the CategoryNode entity
type CategoryModel struct {
	OrgModel
	Name     string     `gorm:"type:varchar(100);not null"`
	ParentID *uuid.UUID `gorm:"type:uuid;index"`
	Depth    int        `gorm:"not null;default:0"`
}

// TableName returns the table name for GORM
func (CategoryModel) TableName() string {
	return "categories"
}

// ToDomain converts the persistence model to a domain CategoryNode
func (m *CategoryModel) ToDomain() *catalog.CategoryNode {
	return &catalog.CategoryNode{
		OrgEntity: m.OrgModel.ToDomain(),
		Name:      m.Name,
		ParentID:  m.ParentID,
		Depth:     m.Depth,
	}
}

// FromDomain populates the persistence model from a domain CategoryNode
func (m *CategoryModel) FromDomain(c *catalog.CategoryNode) {
	m.FromDomainOrgEntity(c.OrgEntity)
	m.Name = c.Name
	m.ParentID = c.ParentID
	m.Depth = c.Depth
}

// CategoryModelFromDomain creates a persistence model from a domain CategoryNode
func CategoryModelFromDomain(c *catalog.CategoryNode) *CategoryModel {
	m := &CategoryModel{}
	m.FromDomain(c)
	return m
}

// CatalogItemModel is the persistence model for the CatalogItem entity.
// Price is stored as an integer amount in minor currency units alongside
// its currency code.
type CatalogItemModel struct {
	OrgModel
	CategoryID    uuid.UUID `gorm:"type:uuid;not null;index"`
	Name          string    `gorm:"type:varchar(200);not null"`
	Code          string    `gorm:"type:varchar(50);index"`
	PriceAmount   int64     `gorm:"not null;default:0"`
	PriceCurrency string    `gorm:"type:varchar(3);not null;default:'KRW'"`
	Description   string    `gorm:"type:text"`
	Active        bool      `gorm:"not null;default:true"`
}

// TableName returns the table name for GORM
func (CatalogItemModel) TableName() string {
	return "catalog_items"
}

// ToDomain converts the persistence model to a domain CatalogItem
func (m *CatalogItemModel) ToDomain() *catalog.CatalogItem {
	price, _ := valueobject.NewMoney(m.PriceAmount, valueobject.Currency(m.PriceCurrency))
	return &catalog.CatalogItem{
		OrgEntity:   m.OrgModel.ToDomain(),
		CategoryID:  m.CategoryID,
		Name:        m.Name,
		Code:        m.Code,
		Price:       price,
		Description: m.Description,
		Active:      m.Active,
	}
}

// FromDomain populates the persistence model from a domain CatalogItem
func (m *CatalogItemModel) FromDomain(c *catalog.CatalogItem) {
	m.FromDomainOrgEntity(c.OrgEntity)
	m.CategoryID = c.CategoryID
	m.Name = c.Name
	m.Code = c.Code
	m.PriceAmount = c.Price.Amount()
	m.PriceCurrency = string(c.Price.Currency())
	m.Description = c.Description
	m.Active = c.Active
}

// CatalogItemModelFromDomain creates a persistence model from a domain CatalogItem
func CatalogItemModelFromDomain(c *catalog.CatalogItem) *CatalogItemModel {
	m := &CatalogItemModel{}
	m.FromDomain(c)
	return m
}

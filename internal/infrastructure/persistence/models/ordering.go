package models

import (
	"time"

	"github.com/bizorder/backend/internal/domain/ordering"
	"github.com/bizorder/backend/internal/domain/shared/valueobject"
	"github.com/google/uuid"
)

// money is a small helper reassembling a Money value from its columns
func money(amount int64, currency string) valueobject.Money {
	m, _ := valueobject.NewMoney(amount, valueobject.Currency(currency))
	return m
}

// LineItemModel is the persistence model for line items. Request envelopes
// and orders share the table: EnvelopeID points at whichever owns the item.
// A catalog item appears at most once per envelope.
type LineItemModel struct {
	ID            uuid.UUID `gorm:"type:uuid;primary_key"`
	EnvelopeID    uuid.UUID `gorm:"type:uuid;not null;index"`
	CatalogItemID uuid.UUID `gorm:"type:uuid;not null"`
	ItemName      string    `gorm:"type:varchar(200);not null"`
	PriceAmount   int64     `gorm:"not null"`
	PriceCurrency string    `gorm:"type:varchar(3);not null;default:'KRW'"`
	Quantity      int64     `gorm:"not null"`
	CreatedAt     time.Time `gorm:"not null"`
	UpdatedAt     time.Time `gorm:"not null"`
}

// TableName returns the table name for GORM
func (LineItemModel) TableName() string {
	return "line_items"
}

// ToDomain converts the persistence model to a domain LineItem
func (m *LineItemModel) ToDomain() ordering.LineItem {
	return ordering.LineItem{
		ID:            m.ID,
		EnvelopeID:    m.EnvelopeID,
		CatalogItemID: m.CatalogItemID,
		ItemName:      m.ItemName,
		Price:         money(m.PriceAmount, m.PriceCurrency),
		Quantity:      m.Quantity,
		CreatedAt:     m.CreatedAt,
		UpdatedAt:     m.UpdatedAt,
	}
}

// FromDomain populates the persistence model from a domain LineItem
func (m *LineItemModel) FromDomain(i *ordering.LineItem) {
	m.ID = i.ID
	m.EnvelopeID = i.EnvelopeID
	m.CatalogItemID = i.CatalogItemID
	m.ItemName = i.ItemName
	m.PriceAmount = i.Price.Amount()
	m.PriceCurrency = string(i.Price.Currency())
	m.Quantity = i.Quantity
	m.CreatedAt = i.CreatedAt
	m.UpdatedAt = i.UpdatedAt
}

// LineItemModelFromDomain creates a persistence model from a domain LineItem
func LineItemModelFromDomain(i *ordering.LineItem) *LineItemModel {
	m := &LineItemModel{}
	m.FromDomain(i)
	return m
}

// RequestEnvelopeModel is the persistence model for request envelopes.
// TotalAmount is derived state: it mirrors the sum of the envelope's line
// items and is rewritten whenever they change.
type RequestEnvelopeModel struct {
	OrgModel
	RequesterID   uuid.UUID              `gorm:"type:uuid;not null;index"`
	Status        ordering.RequestStatus `gorm:"type:varchar(20);not null;default:'PENDING';index"`
	TotalAmount   int64                  `gorm:"not null;default:0"`
	TotalCurrency string                 `gorm:"type:varchar(3);not null;default:'KRW'"`
	Remark        string                 `gorm:"type:text"`
	ResolvedAt    *time.Time
}

// TableName returns the table name for GORM
func (RequestEnvelopeModel) TableName() string {
	return "request_envelopes"
}

// ToDomain converts the persistence model to a domain RequestEnvelope.
// Line items are loaded separately and attached by the repository.
func (m *RequestEnvelopeModel) ToDomain(items []ordering.LineItem) *ordering.RequestEnvelope {
	if items == nil {
		items = make([]ordering.LineItem, 0)
	}
	return &ordering.RequestEnvelope{
		OrgEntity:   m.OrgModel.ToDomain(),
		RequesterID: m.RequesterID,
		Status:      m.Status,
		Items:       items,
		TotalAmount: money(m.TotalAmount, m.TotalCurrency),
		Remark:      m.Remark,
		ResolvedAt:  m.ResolvedAt,
	}
}

// FromDomain populates the persistence model from a domain RequestEnvelope
func (m *RequestEnvelopeModel) FromDomain(e *ordering.RequestEnvelope) {
	m.FromDomainOrgEntity(e.OrgEntity)
	m.RequesterID = e.RequesterID
	m.Status = e.Status
	m.TotalAmount = e.TotalAmount.Amount()
	m.TotalCurrency = string(e.TotalAmount.Currency())
	m.Remark = e.Remark
	m.ResolvedAt = e.ResolvedAt
}

// RequestEnvelopeModelFromDomain creates a persistence model from a domain RequestEnvelope
func RequestEnvelopeModelFromDomain(e *ordering.RequestEnvelope) *RequestEnvelopeModel {
	m := &RequestEnvelopeModel{}
	m.FromDomain(e)
	return m
}

// OrderModel is the persistence model for orders derived from approved
// requests
type OrderModel struct {
	OrgModel
	RequestID     uuid.UUID            `gorm:"type:uuid;not null;index"`
	RequesterID   uuid.UUID            `gorm:"type:uuid;not null;index"`
	Status        ordering.OrderStatus `gorm:"type:varchar(20);not null;default:'PENDING';index"`
	TotalAmount   int64                `gorm:"not null;default:0"`
	TotalCurrency string               `gorm:"type:varchar(3);not null;default:'KRW'"`
	CompletedAt   *time.Time
	CancelledAt   *time.Time
}

// TableName returns the table name for GORM
func (OrderModel) TableName() string {
	return "orders"
}

// ToDomain converts the persistence model to a domain Order
func (m *OrderModel) ToDomain(items []ordering.LineItem) *ordering.Order {
	if items == nil {
		items = make([]ordering.LineItem, 0)
	}
	return &ordering.Order{
		OrgEntity:   m.OrgModel.ToDomain(),
		RequestID:   m.RequestID,
		RequesterID: m.RequesterID,
		Status:      m.Status,
		Items:       items,
		TotalAmount: money(m.TotalAmount, m.TotalCurrency),
		CompletedAt: m.CompletedAt,
		CancelledAt: m.CancelledAt,
	}
}

// FromDomain populates the persistence model from a domain Order
func (m *OrderModel) FromDomain(o *ordering.Order) {
	m.FromDomainOrgEntity(o.OrgEntity)
	m.RequestID = o.RequestID
	m.RequesterID = o.RequesterID
	m.Status = o.Status
	m.TotalAmount = o.TotalAmount.Amount()
	m.TotalCurrency = string(o.TotalAmount.Currency())
	m.CompletedAt = o.CompletedAt
	m.CancelledAt = o.CancelledAt
}

// OrderModelFromDomain creates a persistence model from a domain Order
func OrderModelFromDomain(o *ordering.Order) *OrderModel {
	m := &OrderModel{}
	m.FromDomain(o)
	return m
}

// CartModel is the persistence model for carts
type CartModel struct {
	OrgModel
	AccountID uuid.UUID `gorm:"type:uuid;not null;index"`
}

// TableName returns the table name for GORM
func (CartModel) TableName() string {
	return "carts"
}

// ToDomain converts the persistence model to a domain Cart
func (m *CartModel) ToDomain(items []ordering.CartItem) *ordering.Cart {
	if items == nil {
		items = make([]ordering.CartItem, 0)
	}
	return &ordering.Cart{
		OrgEntity: m.OrgModel.ToDomain(),
		AccountID: m.AccountID,
		Items:     items,
	}
}

// FromDomain populates the persistence model from a domain Cart
func (m *CartModel) FromDomain(c *ordering.Cart) {
	m.FromDomainOrgEntity(c.OrgEntity)
	m.AccountID = c.AccountID
}

// CartModelFromDomain creates a persistence model from a domain Cart
func CartModelFromDomain(c *ordering.Cart) *CartModel {
	m := &CartModel{}
	m.FromDomain(c)
	return m
}

// CartItemModel is the persistence model for cart items
type CartItemModel struct {
	ID            uuid.UUID `gorm:"type:uuid;primary_key"`
	CartID        uuid.UUID `gorm:"type:uuid;not null;index"`
	CatalogItemID uuid.UUID `gorm:"type:uuid;not null"`
	Quantity      int64     `gorm:"not null"`
	CreatedAt     time.Time `gorm:"not null"`
	UpdatedAt     time.Time `gorm:"not null"`
}

// TableName returns the table name for GORM
func (CartItemModel) TableName() string {
	return "cart_items"
}

// ToDomain converts the persistence model to a domain CartItem
func (m *CartItemModel) ToDomain() ordering.CartItem {
	return ordering.CartItem{
		ID:            m.ID,
		CartID:        m.CartID,
		CatalogItemID: m.CatalogItemID,
		Quantity:      m.Quantity,
		CreatedAt:     m.CreatedAt,
		UpdatedAt:     m.UpdatedAt,
	}
}

// FromDomain populates the persistence model from a domain CartItem
func (m *CartItemModel) FromDomain(i *ordering.CartItem) {
	m.ID = i.ID
	m.CartID = i.CartID
	m.CatalogItemID = i.CatalogItemID
	m.Quantity = i.Quantity
	m.CreatedAt = i.CreatedAt
	m.UpdatedAt = i.UpdatedAt
}

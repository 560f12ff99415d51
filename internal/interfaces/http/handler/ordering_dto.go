package handler

import (
	"time"

	"github.com/bizorder/backend/internal/domain/catalog"
	"github.com/bizorder/backend/internal/domain/ordering"
	"github.com/bizorder/backend/internal/domain/shared/valueobject"
	"github.com/google/uuid"
)

// moneyDTO renders a Money value as minor units plus a display string
type moneyDTO struct {
	Amount   int64  `json:"amount"`
	Currency string `json:"currency"`
	Display  string `json:"display"`
}

func toMoneyDTO(m valueobject.Money) moneyDTO {
	return moneyDTO{
		Amount:   m.Amount(),
		Currency: string(m.Currency()),
		Display:  m.Decimal().String(),
	}
}

type lineItemDTO struct {
	ID            uuid.UUID `json:"id"`
	CatalogItemID uuid.UUID `json:"catalog_item_id"`
	ItemName      string    `json:"item_name"`
	Price         moneyDTO  `json:"price"`
	Quantity      int64     `json:"quantity"`
	Amount        moneyDTO  `json:"amount"`
}

func toLineItemDTO(item ordering.LineItem) lineItemDTO {
	return lineItemDTO{
		ID:            item.ID,
		CatalogItemID: item.CatalogItemID,
		ItemName:      item.ItemName,
		Price:         toMoneyDTO(item.Price),
		Quantity:      item.Quantity,
		Amount:        toMoneyDTO(item.Amount()),
	}
}

func toLineItemDTOs(items []ordering.LineItem) []lineItemDTO {
	out := make([]lineItemDTO, 0, len(items))
	for _, item := range items {
		out = append(out, toLineItemDTO(item))
	}
	return out
}

type requestDTO struct {
	ID             uuid.UUID     `json:"id"`
	OrganizationID uuid.UUID     `json:"organization_id"`
	RequesterID    uuid.UUID     `json:"requester_id"`
	Status         string        `json:"status"`
	Items          []lineItemDTO `json:"items"`
	TotalAmount    moneyDTO      `json:"total_amount"`
	Remark         string        `json:"remark,omitempty"`
	ResolvedAt     *time.Time    `json:"resolved_at,omitempty"`
	CreatedAt      time.Time     `json:"created_at"`
}

func toRequestDTO(e *ordering.RequestEnvelope) requestDTO {
	return requestDTO{
		ID:             e.ID,
		OrganizationID: e.OrganizationID,
		RequesterID:    e.RequesterID,
		Status:         string(e.Status),
		Items:          toLineItemDTOs(e.Items),
		TotalAmount:    toMoneyDTO(e.TotalAmount),
		Remark:         e.Remark,
		ResolvedAt:     e.ResolvedAt,
		CreatedAt:      e.CreatedAt,
	}
}

type orderDTO struct {
	ID             uuid.UUID     `json:"id"`
	OrganizationID uuid.UUID     `json:"organization_id"`
	RequestID      uuid.UUID     `json:"request_id"`
	RequesterID    uuid.UUID     `json:"requester_id"`
	Status         string        `json:"status"`
	Items          []lineItemDTO `json:"items"`
	TotalAmount    moneyDTO      `json:"total_amount"`
	CompletedAt    *time.Time    `json:"completed_at,omitempty"`
	CancelledAt    *time.Time    `json:"cancelled_at,omitempty"`
	CreatedAt      time.Time     `json:"created_at"`
}

func toOrderDTO(o *ordering.Order) orderDTO {
	return orderDTO{
		ID:             o.ID,
		OrganizationID: o.OrganizationID,
		RequestID:      o.RequestID,
		RequesterID:    o.RequesterID,
		Status:         string(o.Status),
		Items:          toLineItemDTOs(o.Items),
		TotalAmount:    toMoneyDTO(o.TotalAmount),
		CompletedAt:    o.CompletedAt,
		CancelledAt:    o.CancelledAt,
		CreatedAt:      o.CreatedAt,
	}
}

type cartItemDTO struct {
	CatalogItemID uuid.UUID `json:"catalog_item_id"`
	Quantity      int64     `json:"quantity"`
}

type cartDTO struct {
	ID        uuid.UUID     `json:"id"`
	AccountID uuid.UUID     `json:"account_id"`
	Items     []cartItemDTO `json:"items"`
}

func toCartDTO(c *ordering.Cart) cartDTO {
	items := make([]cartItemDTO, 0, len(c.Items))
	for _, item := range c.Items {
		items = append(items, cartItemDTO{
			CatalogItemID: item.CatalogItemID,
			Quantity:      item.Quantity,
		})
	}
	return cartDTO{ID: c.ID, AccountID: c.AccountID, Items: items}
}

type catalogItemDTO struct {
	ID          uuid.UUID `json:"id"`
	CategoryID  uuid.UUID `json:"category_id"`
	Name        string    `json:"name"`
	Code        string    `json:"code,omitempty"`
	Price       moneyDTO  `json:"price"`
	Description string    `json:"description,omitempty"`
	Active      bool      `json:"active"`
}

func toCatalogItemDTO(item *catalog.CatalogItem) catalogItemDTO {
	return catalogItemDTO{
		ID:          item.ID,
		CategoryID:  item.CategoryID,
		Name:        item.Name,
		Code:        item.Code,
		Price:       toMoneyDTO(item.Price),
		Description: item.Description,
		Active:      item.Active,
	}
}

type categoryDTO struct {
	ID       uuid.UUID  `json:"id"`
	Name     string     `json:"name"`
	ParentID *uuid.UUID `json:"parent_id,omitempty"`
	Depth    int        `json:"depth"`
}

func toCategoryDTO(node *catalog.CategoryNode) categoryDTO {
	return categoryDTO{
		ID:       node.ID,
		Name:     node.Name,
		ParentID: node.ParentID,
		Depth:    node.Depth,
	}
}

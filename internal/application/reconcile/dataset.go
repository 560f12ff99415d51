package reconcile

import (
	"encoding/json"
	"io"

	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"
)

// DatasetBundle is the external seed dataset in its wire shape. Every row
// carries an identifier assigned by the producer; loading the same bundle
// twice inserts nothing the second time because presence is checked by id.
// Organization ids on rows name the owning tenant and must resolve to an
// organization in the bundle or already in the store. Categories carry no
// organization id at all; the configured seed organization is stamped onto
// them at load time.
type DatasetBundle struct {
	Organizations []OrganizationRecord `json:"organizations" validate:"omitempty,dive"`
	Categories    []CategoryRecord     `json:"categories" validate:"omitempty,dive"`
	Accounts      []AccountRecord      `json:"accounts" validate:"omitempty,dive"`
	CatalogItems  []CatalogItemRecord  `json:"catalog_items" validate:"omitempty,dive"`
	Addresses     []AddressRecord      `json:"addresses" validate:"omitempty,dive"`
	Carts         []CartRecord         `json:"carts" validate:"omitempty,dive"`
	Requests      []RequestRecord      `json:"requests" validate:"omitempty,dive"`
	LineItems     []LineItemRecord     `json:"line_items" validate:"omitempty,dive"`
}

// OrganizationRecord seeds one tenant
type OrganizationRecord struct {
	ID             uuid.UUID `json:"id" validate:"required"`
	Name           string    `json:"name" validate:"required,max=200"`
	BusinessNumber string    `json:"business_number" validate:"omitempty,max=20"`
	Phone          string    `json:"phone" validate:"omitempty,max=20"`
}

// CategoryRecord seeds one category node under the seed organization
type CategoryRecord struct {
	ID       uuid.UUID  `json:"id" validate:"required"`
	ParentID *uuid.UUID `json:"parent_id,omitempty"`
	Name     string     `json:"name" validate:"required,max=100"`
}

// AccountRecord seeds one account. An empty password leaves the account
// without a credential; it cannot log in until one is set.
type AccountRecord struct {
	ID             uuid.UUID `json:"id" validate:"required"`
	OrganizationID uuid.UUID `json:"organization_id" validate:"required"`
	Email          string    `json:"email" validate:"required,email"`
	Name           string    `json:"name" validate:"required,max=100"`
	Role           string    `json:"role" validate:"required,oneof=ROOT_ADMIN ADMIN MEMBER"`
	Password       string    `json:"password" validate:"omitempty,min=8"`
}

// CatalogItemRecord seeds one catalog item; price is in minor currency units
type CatalogItemRecord struct {
	ID             uuid.UUID `json:"id" validate:"required"`
	OrganizationID uuid.UUID `json:"organization_id" validate:"required"`
	CategoryID     uuid.UUID `json:"category_id" validate:"required"`
	Name           string    `json:"name" validate:"required,max=200"`
	Code           string    `json:"code" validate:"omitempty,max=50"`
	Price          int64     `json:"price" validate:"gte=0"`
	Description    string    `json:"description"`
}

// AddressRecord seeds one delivery address
type AddressRecord struct {
	ID             uuid.UUID `json:"id" validate:"required"`
	OrganizationID uuid.UUID `json:"organization_id" validate:"required"`
	PostalCode     string    `json:"postal_code" validate:"required,max=10"`
	AddressText    string    `json:"address_text" validate:"required"`
	AddressDetail  string    `json:"address_detail"`
	Recipient      string    `json:"recipient"`
	Phone          string    `json:"phone"`
}

// CartItemRecord is one catalog reference with quantity inside a cart
type CartItemRecord struct {
	CatalogItemID uuid.UUID `json:"catalog_item_id" validate:"required"`
	Quantity      int64     `json:"quantity" validate:"required,gt=0"`
}

// CartRecord seeds one cart with its items
type CartRecord struct {
	ID             uuid.UUID        `json:"id" validate:"required"`
	OrganizationID uuid.UUID        `json:"organization_id" validate:"required"`
	AccountID      uuid.UUID        `json:"account_id" validate:"required"`
	Items          []CartItemRecord `json:"items" validate:"omitempty,dive"`
}

// RequestRecord seeds one pending order request; its line items arrive in
// the separate line_items batch and its total is recomputed after they load
type RequestRecord struct {
	ID             uuid.UUID `json:"id" validate:"required"`
	OrganizationID uuid.UUID `json:"organization_id" validate:"required"`
	RequesterID    uuid.UUID `json:"requester_id" validate:"required"`
	Remark         string    `json:"remark"`
}

// LineItemRecord seeds one line item. It carries no price: the price is
// snapshotted from the referenced catalog item at load time.
type LineItemRecord struct {
	ID            uuid.UUID `json:"id" validate:"required"`
	RequestID     uuid.UUID `json:"request_id" validate:"required"`
	CatalogItemID uuid.UUID `json:"catalog_item_id" validate:"required"`
	Quantity      int64     `json:"quantity" validate:"required,gt=0"`
}

var bundleValidator = validator.New()

// ParseBundle decodes and validates a dataset bundle. Unknown fields are
// rejected, so a renamed or mistyped key fails loudly instead of silently
// dropping data.
func ParseBundle(r io.Reader) (*DatasetBundle, error) {
	dec := json.NewDecoder(r)
	dec.DisallowUnknownFields()

	var bundle DatasetBundle
	if err := dec.Decode(&bundle); err != nil {
		return nil, &BundleValidationError{Reason: err.Error()}
	}
	if err := bundleValidator.Struct(&bundle); err != nil {
		return nil, &BundleValidationError{Reason: err.Error()}
	}
	return &bundle, nil
}

// IsEmpty reports whether the bundle carries no rows at all
func (b *DatasetBundle) IsEmpty() bool {
	return len(b.Organizations) == 0 && len(b.Categories) == 0 &&
		len(b.Accounts) == 0 && len(b.CatalogItems) == 0 &&
		len(b.Addresses) == 0 && len(b.Carts) == 0 &&
		len(b.Requests) == 0 && len(b.LineItems) == 0
}

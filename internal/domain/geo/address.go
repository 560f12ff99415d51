package geo

import (
	"github.com/bizorder/backend/internal/domain/shared"
	"github.com/google/uuid"
)

// Address belongs to exactly one organization. It may carry an optional
// weak reference to a ReferenceCode, resolved by (postalCode, addressText)
// lookup. Absence is valid and means no special fee class applies.
type Address struct {
	shared.OrgEntity
	PostalCode      string
	AddressText     string
	AddressDetail   string
	Recipient       string
	Phone           string
	ReferenceCodeID *uuid.UUID
}

// NewAddress creates a new address for an organization
func NewAddress(organizationID uuid.UUID, postalCode, addressText string) (*Address, error) {
	if organizationID == uuid.Nil {
		return nil, shared.NewDomainError("INVALID_ORGANIZATION", "Organization ID cannot be empty")
	}
	if addressText == "" {
		return nil, shared.NewDomainError("INVALID_ADDRESS", "Address text cannot be empty")
	}
	return &Address{
		OrgEntity:   shared.NewOrgEntity(organizationID),
		PostalCode:  postalCode,
		AddressText: addressText,
	}, nil
}

// AttachReference records the resolved reference code row for this address
func (a *Address) AttachReference(referenceCodeID uuid.UUID) {
	a.ReferenceCodeID = &referenceCodeID
}

// HasReference returns true when a reference code was resolved
func (a *Address) HasReference() bool {
	return a.ReferenceCodeID != nil
}

package geo

import (
	"github.com/bizorder/backend/internal/domain/shared"
)

// FeeClass classifies a postal code for delivery fee purposes
type FeeClass string

const (
	FeeClassStandard     FeeClass = "STANDARD"
	FeeClassRemoteIsland FeeClass = "REMOTE_ISLAND"
	FeeClassJeju         FeeClass = "JEJU"
)

// IsValid checks if the fee class is a known FeeClass
func (f FeeClass) IsValid() bool {
	switch f {
	case FeeClassStandard, FeeClassRemoteIsland, FeeClassJeju:
		return true
	}
	return false
}

// String returns the string representation of FeeClass
func (f FeeClass) String() string {
	return string(f)
}

// ReferenceCode is a postal/administrative code with its delivery-fee
// classification. Rows are unique per (code, address) pair: several address
// texts can share one code. The set is immutable outside a full resync:
// it is either empty, loaded wholesale, or replaced wholesale.
type ReferenceCode struct {
	shared.BaseEntity
	Code     string
	FeeClass FeeClass
	Active   bool
	Address  string
}

// NewReferenceCode creates a new reference code row
func NewReferenceCode(code string, feeClass FeeClass, active bool, address string) (*ReferenceCode, error) {
	if code == "" {
		return nil, shared.NewDomainError("INVALID_CODE", "Reference code cannot be empty")
	}
	if !feeClass.IsValid() {
		return nil, shared.NewDomainError("INVALID_FEE_CLASS", "Unknown fee class")
	}
	return &ReferenceCode{
		BaseEntity: shared.NewBaseEntity(),
		Code:       code,
		FeeClass:   feeClass,
		Active:     active,
		Address:    address,
	}, nil
}

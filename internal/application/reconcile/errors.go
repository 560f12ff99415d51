package reconcile

import (
	"errors"
	"fmt"

	"github.com/google/uuid"
)

// ErrUnitTimeout marks a unit of work that exceeded its configured duration
// bound. It is a distinct failure category from data-validation errors: the
// unit was rolled back in full and may be retried externally as a whole.
var ErrUnitTimeout = errors.New("unit of work exceeded its time bound")

// MissingReferenceError reports a batch row pointing at an identifier absent
// from both the dataset being loaded and the destination store. The batch
// fails before any write, naming the identifier and the owning entity,
// instead of surfacing an opaque foreign-key violation from the store.
type MissingReferenceError struct {
	Entity string    // logical entity being loaded, e.g. "request_line_item"
	Field  string    // the reference field, e.g. "catalog_item_id"
	ID     uuid.UUID // the missing identifier
}

// Error implements the error interface
func (e *MissingReferenceError) Error() string {
	return fmt.Sprintf("%s references missing %s %s", e.Entity, e.Field, e.ID)
}

// NewMissingReferenceError creates a new MissingReferenceError
func NewMissingReferenceError(entity, field string, id uuid.UUID) *MissingReferenceError {
	return &MissingReferenceError{Entity: entity, Field: field, ID: id}
}

// IsMissingReference reports whether err is (or wraps) a MissingReferenceError
func IsMissingReference(err error) bool {
	var target *MissingReferenceError
	return errors.As(err, &target)
}

// DuplicateReferenceError reports a reference feed carrying the same
// (code, address) pair more than once. Rows are unique per pair; accepting
// both would leave the resolver picking one of them arbitrarily, so the
// whole resync is refused before any write.
type DuplicateReferenceError struct {
	Code    string
	Address string
}

// Error implements the error interface
func (e *DuplicateReferenceError) Error() string {
	return fmt.Sprintf("reference feed repeats code %s for address %q", e.Code, e.Address)
}

// IsDuplicateReference reports whether err is (or wraps) a DuplicateReferenceError
func IsDuplicateReference(err error) bool {
	var target *DuplicateReferenceError
	return errors.As(err, &target)
}

// BundleValidationError reports a dataset bundle that failed schema
// validation at the parse boundary.
type BundleValidationError struct {
	Reason string
}

// Error implements the error interface
func (e *BundleValidationError) Error() string {
	return fmt.Sprintf("invalid dataset bundle: %s", e.Reason)
}

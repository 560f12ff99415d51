package reconcile

import (
	"strings"

	"github.com/bizorder/backend/internal/domain/geo"
	"github.com/google/uuid"
)

type refKey struct {
	code    string
	address string
}

// Resolver looks up reference-code rows by (code, address text) pair.
// Only active rows are resolvable. A miss is a valid outcome, never an
// error: an address without a matching row simply carries no reference
// and gets no special fee class.
type Resolver struct {
	index map[refKey]uuid.UUID
}

// NewResolver indexes the given reference rows for lookup
func NewResolver(rows []geo.ReferenceCode) *Resolver {
	index := make(map[refKey]uuid.UUID, len(rows))
	for _, row := range rows {
		if !row.Active {
			continue
		}
		index[normalizeKey(row.Code, row.Address)] = row.ID
	}
	return &Resolver{index: index}
}

// Resolve returns the reference row id for a (postal code, address text)
// pair, and whether one exists
func (r *Resolver) Resolve(postalCode, addressText string) (uuid.UUID, bool) {
	id, ok := r.index[normalizeKey(postalCode, addressText)]
	return id, ok
}

// Size returns the number of resolvable rows
func (r *Resolver) Size() int {
	return len(r.index)
}

func normalizeKey(code, address string) refKey {
	return refKey{
		code:    strings.TrimSpace(code),
		address: strings.TrimSpace(address),
	}
}

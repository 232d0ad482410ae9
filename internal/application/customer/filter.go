package customer

import (
	"strconv"
	"strings"

	"github.com/erp/customers/internal/domain/shared"
)

// FilterKind identifies which query a ListFilter resolves to
type FilterKind string

const (
	FilterAll     FilterKind = "all"
	FilterID      FilterKind = "id"
	FilterName    FilterKind = "name"
	FilterEmail   FilterKind = "email"
	FilterAddress FilterKind = "address"
	FilterActive  FilterKind = "active"
)

// ListFilter is bound from the list endpoint query string.
// Only one criterion applies; see Kind for the precedence.
type ListFilter struct {
	Customer string  `form:"customer" binding:"omitempty,max=63"`
	Name     string  `form:"name" binding:"omitempty,max=63"`
	Email    string  `form:"email" binding:"omitempty,max=63"`
	Address  string  `form:"address" binding:"omitempty,max=63"`
	Active   *string `form:"active" binding:"omitempty,max=63"`
}

// Kind returns the criterion that wins: customer id, then name, email,
// address, active, and finally all customers.
// Empty values are ignored except for active, which counts once the key is present.
func (f ListFilter) Kind() FilterKind {
	switch {
	case f.Customer != "":
		return FilterID
	case f.Name != "":
		return FilterName
	case f.Email != "":
		return FilterEmail
	case f.Address != "":
		return FilterAddress
	case f.Active != nil:
		return FilterActive
	default:
		return FilterAll
	}
}

// CustomerID parses the customer criterion
func (f ListFilter) CustomerID() (int64, error) {
	id, err := strconv.ParseInt(strings.TrimSpace(f.Customer), 10, 64)
	if err != nil {
		return 0, shared.NewValidationError("Invalid attribute: customer must be an integer, got " + strconv.Quote(f.Customer))
	}
	return id, nil
}

// ActiveValue reports whether the active criterion reads "true", ignoring case
func (f ListFilter) ActiveValue() bool {
	return f.Active != nil && strings.EqualFold(strings.TrimSpace(*f.Active), "true")
}

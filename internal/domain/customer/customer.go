// Package customer holds the Customer entity and its persistence contract.
package customer

import (
	"fmt"
	"strings"
	"unicode/utf8"

	"github.com/erp/customers/internal/domain/shared"
)

// MaxFieldLength is the column width of every string attribute
const MaxFieldLength = 63

// Customer is the single entity exchanged by the service.
// An ID of zero means the customer has not been persisted yet.
type Customer struct {
	ID       int64
	Name     string
	Password string
	Email    string
	Address  *string
	Active   bool
}

// New creates an unsaved customer from its required attributes
func New(name, password, email string) *Customer {
	return &Customer{
		Name:     name,
		Password: password,
		Email:    email,
	}
}

// String returns a short description for logs
func (c *Customer) String() string {
	return fmt.Sprintf("<Customer %s id=[%d]>", c.Name, c.ID)
}

// HasID reports whether the customer carries a storage identifier
func (c *Customer) HasID() bool {
	return c.ID != 0
}

// ClearID resets the identifier so storage assigns a new one
func (c *Customer) ClearID() {
	c.ID = 0
}

// SetAddress sets or clears the optional address
func (c *Customer) SetAddress(address *string) {
	if address == nil {
		c.Address = nil
		return
	}
	a := *address
	c.Address = &a
}

// Activate marks the customer active. Calling it twice is harmless.
func (c *Customer) Activate() {
	c.Active = true
}

// Deactivate marks the customer inactive. Calling it twice is harmless.
func (c *Customer) Deactivate() {
	c.Active = false
}

// Validate checks the attributes required before any write
func (c *Customer) Validate() error {
	if err := validateRequired("name", c.Name); err != nil {
		return err
	}
	if err := validateRequired("email", c.Email); err != nil {
		return err
	}
	if err := validateRequired("password", c.Password); err != nil {
		return err
	}
	if c.Address != nil {
		if err := validateLength("address", *c.Address); err != nil {
			return err
		}
	}
	return nil
}

// ValidateForUpdate additionally requires a storage identifier
func (c *Customer) ValidateForUpdate() error {
	if !c.HasID() {
		return shared.NewValidationError("Customer identifier cannot be empty")
	}
	return c.Validate()
}

func validateRequired(field, value string) error {
	if strings.TrimSpace(value) == "" {
		return shared.NewValidationError(fmt.Sprintf("Invalid Customer: %s cannot be empty", field))
	}
	return validateLength(field, value)
}

func validateLength(field, value string) error {
	if utf8.RuneCountInString(value) > MaxFieldLength {
		return shared.NewValidationError(
			fmt.Sprintf("Invalid Customer: %s cannot exceed %d characters", field, MaxFieldLength))
	}
	return nil
}

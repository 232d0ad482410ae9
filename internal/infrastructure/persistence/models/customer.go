package models

import (
	"github.com/erp/customers/internal/domain/customer"
)

// CustomerModel is the persistence model for the Customer entity.
// Column widths mirror customer.MaxFieldLength.
type CustomerModel struct {
	ID       int64   `gorm:"primaryKey;autoIncrement"`
	Name     string  `gorm:"type:varchar(63);not null"`
	Password string  `gorm:"type:varchar(63);not null"`
	Email    string  `gorm:"type:varchar(63);not null"`
	Address  *string `gorm:"type:varchar(63)"`
	Active   bool    `gorm:"not null"`
}

// TableName returns the table name for GORM
func (CustomerModel) TableName() string {
	return "customers"
}

// ToDomain converts the persistence model to a domain Customer entity.
func (m *CustomerModel) ToDomain() *customer.Customer {
	c := &customer.Customer{
		ID:       m.ID,
		Name:     m.Name,
		Password: m.Password,
		Email:    m.Email,
		Active:   m.Active,
	}
	c.SetAddress(m.Address)
	return c
}

// FromDomain populates the persistence model from a domain Customer entity.
func (m *CustomerModel) FromDomain(c *customer.Customer) {
	m.ID = c.ID
	m.Name = c.Name
	m.Password = c.Password
	m.Email = c.Email
	m.Address = c.Address
	m.Active = c.Active
}

// CustomerModelFromDomain creates a new persistence model from a domain Customer entity.
func CustomerModelFromDomain(c *customer.Customer) *CustomerModel {
	m := &CustomerModel{}
	m.FromDomain(c)
	return m
}

// CustomerModelsToDomain converts a slice of persistence models to domain entities.
func CustomerModelsToDomain(ms []CustomerModel) []customer.Customer {
	out := make([]customer.Customer, len(ms))
	for i := range ms {
		out[i] = *ms[i].ToDomain()
	}
	return out
}

// AllModels lists every model managed by the service, for schema creation
// on drivers without SQL migrations.
func AllModels() []any {
	return []any{&CustomerModel{}}
}

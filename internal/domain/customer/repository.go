package customer

import "context"

// Repository defines the persistence contract for customers.
// Write methods run in their own transaction and leave storage unchanged on error.
type Repository interface {
	// Insert stores a new customer and sets its ID
	Insert(ctx context.Context, customer *Customer) error

	// Update writes every attribute of an existing customer
	Update(ctx context.Context, customer *Customer) error

	// DeleteByID removes a customer; deleting an absent ID succeeds
	DeleteByID(ctx context.Context, id int64) error

	// FindByID finds a customer by ID
	FindByID(ctx context.Context, id int64) (*Customer, error)

	// FindAll returns every customer
	FindAll(ctx context.Context) ([]Customer, error)

	// FindByName returns customers whose name equals name
	FindByName(ctx context.Context, name string) ([]Customer, error)

	// FindByEmail returns customers whose email equals email
	FindByEmail(ctx context.Context, email string) ([]Customer, error)

	// FindByAddress returns customers whose address equals address
	FindByAddress(ctx context.Context, address string) ([]Customer, error)

	// FindByActive returns customers with the given active flag
	FindByActive(ctx context.Context, active bool) ([]Customer, error)
}

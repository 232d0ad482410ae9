package persistence

import (
	"context"
	"errors"
	"fmt"

	"github.com/erp/customers/internal/domain/customer"
	"github.com/erp/customers/internal/domain/shared"
	"github.com/erp/customers/internal/infrastructure/persistence/models"
	"gorm.io/gorm"
)

// GormCustomerRepository implements customer.Repository using GORM
type GormCustomerRepository struct {
	db *gorm.DB
}

// NewGormCustomerRepository creates a new GormCustomerRepository
func NewGormCustomerRepository(db *gorm.DB) *GormCustomerRepository {
	return &GormCustomerRepository{db: db}
}

// Insert stores a new customer and writes the generated ID back onto it.
// Any ID already present on the entity is ignored.
func (r *GormCustomerRepository) Insert(ctx context.Context, c *customer.Customer) error {
	model := models.CustomerModelFromDomain(c)
	model.ID = 0

	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		return tx.Create(model).Error
	})
	if err != nil {
		return fmt.Errorf("failed to insert customer: %w", err)
	}

	c.ID = model.ID
	return nil
}

// Update writes every column of an existing customer, including zero values
func (r *GormCustomerRepository) Update(ctx context.Context, c *customer.Customer) error {
	if !c.HasID() {
		return shared.NewValidationError("Customer identifier cannot be empty")
	}

	model := models.CustomerModelFromDomain(c)
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		result := tx.Model(&models.CustomerModel{}).
			Where("id = ?", model.ID).
			Updates(map[string]any{
				"name":     model.Name,
				"password": model.Password,
				"email":    model.Email,
				"address":  model.Address,
				"active":   model.Active,
			})
		if result.Error != nil {
			return result.Error
		}
		if result.RowsAffected == 0 {
			return shared.ErrNotFound
		}
		return nil
	})
	if err != nil {
		if errors.Is(err, shared.ErrNotFound) {
			return err
		}
		return fmt.Errorf("failed to update customer %d: %w", c.ID, err)
	}
	return nil
}

// DeleteByID removes a customer. Deleting an ID that does not exist succeeds.
func (r *GormCustomerRepository) DeleteByID(ctx context.Context, id int64) error {
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		return tx.Where("id = ?", id).Delete(&models.CustomerModel{}).Error
	})
	if err != nil {
		return fmt.Errorf("failed to delete customer %d: %w", id, err)
	}
	return nil
}

// FindByID finds a customer by ID
func (r *GormCustomerRepository) FindByID(ctx context.Context, id int64) (*customer.Customer, error) {
	var model models.CustomerModel
	if err := r.db.WithContext(ctx).First(&model, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, shared.ErrNotFound
		}
		return nil, err
	}
	return model.ToDomain(), nil
}

// FindAll returns every customer ordered by ID
func (r *GormCustomerRepository) FindAll(ctx context.Context) ([]customer.Customer, error) {
	return r.findWhere(ctx, nil)
}

// FindByName returns customers whose name matches exactly
func (r *GormCustomerRepository) FindByName(ctx context.Context, name string) ([]customer.Customer, error) {
	return r.findWhere(ctx, func(db *gorm.DB) *gorm.DB {
		return db.Where("name = ?", name)
	})
}

// FindByEmail returns customers whose email matches exactly
func (r *GormCustomerRepository) FindByEmail(ctx context.Context, email string) ([]customer.Customer, error) {
	return r.findWhere(ctx, func(db *gorm.DB) *gorm.DB {
		return db.Where("email = ?", email)
	})
}

// FindByAddress returns customers whose address matches exactly
func (r *GormCustomerRepository) FindByAddress(ctx context.Context, address string) ([]customer.Customer, error) {
	return r.findWhere(ctx, func(db *gorm.DB) *gorm.DB {
		return db.Where("address = ?", address)
	})
}

// FindByActive returns customers with the given active flag
func (r *GormCustomerRepository) FindByActive(ctx context.Context, active bool) ([]customer.Customer, error) {
	return r.findWhere(ctx, func(db *gorm.DB) *gorm.DB {
		return db.Where("active = ?", active)
	})
}

func (r *GormCustomerRepository) findWhere(ctx context.Context, scope func(*gorm.DB) *gorm.DB) ([]customer.Customer, error) {
	query := r.db.WithContext(ctx).Model(&models.CustomerModel{})
	if scope != nil {
		query = query.Scopes(scope)
	}

	var ms []models.CustomerModel
	if err := query.Order("id").Find(&ms).Error; err != nil {
		return nil, err
	}
	return models.CustomerModelsToDomain(ms), nil
}

// Ensure GormCustomerRepository implements customer.Repository
var _ customer.Repository = (*GormCustomerRepository)(nil)

package integration

import (
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/erp/customers/internal/domain/customer"
	domainshared "github.com/erp/customers/internal/domain/shared"
	"github.com/erp/customers/internal/infrastructure/persistence"
	"github.com/erp/customers/internal/infrastructure/persistence/models"
	"github.com/erp/customers/tests/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

// TestCustomerRepository_Integration runs the GORM repository against PostgreSQL
func TestCustomerRepository_Integration(t *testing.T) {
	if testing.Short() {
		t.Skip("Skipping integration test in short mode")
	}

	testDB := NewTestDB(t)
	repo := persistence.NewGormCustomerRepository(testDB.DB)
	ctx := context.Background()

	t.Run("Insert assigns sequential ids and ignores a preset one", func(t *testing.T) {
		testDB.CleanTables()

		first := customer.New("Wang", "123456", "wang@example.com")
		first.ID = 99
		require.NoError(t, repo.Insert(ctx, first))
		second := customer.New("Li", "654321", "li@example.com")
		require.NoError(t, repo.Insert(ctx, second))

		assert.Equal(t, int64(1), first.ID)
		assert.Equal(t, int64(2), second.ID)

		found, err := repo.FindByID(ctx, first.ID)
		require.NoError(t, err)
		assert.Equal(t, "Wang", found.Name)
		assert.Nil(t, found.Address)
		assert.False(t, found.Active)
	})

	t.Run("Update writes every column including false", func(t *testing.T) {
		testDB.CleanTables()

		c := customer.New("Wang", "123456", "wang@example.com")
		c.Active = true
		c.Address = testutil.StrPtr("apt 1")
		require.NoError(t, repo.Insert(ctx, c))

		c.Active = false
		c.Address = nil
		c.Email = "wang@example.org"
		require.NoError(t, repo.Update(ctx, c))

		found, err := repo.FindByID(ctx, c.ID)
		require.NoError(t, err)
		assert.False(t, found.Active)
		assert.Nil(t, found.Address)
		assert.Equal(t, "wang@example.org", found.Email)
	})

	t.Run("Update of an absent id is NotFound", func(t *testing.T) {
		c := customer.New("Ghost", "x", "ghost@example.com")
		c.ID = 4242
		err := repo.Update(ctx, c)
		assert.ErrorIs(t, err, domainshared.ErrNotFound)
	})

	t.Run("FindByID of an absent id is NotFound", func(t *testing.T) {
		_, err := repo.FindByID(ctx, 4242)
		assert.ErrorIs(t, err, domainshared.ErrNotFound)
	})

	t.Run("DeleteByID is idempotent", func(t *testing.T) {
		testDB.CleanTables()

		c := customer.New("Wang", "123456", "wang@example.com")
		require.NoError(t, repo.Insert(ctx, c))

		require.NoError(t, repo.DeleteByID(ctx, c.ID))
		require.NoError(t, repo.DeleteByID(ctx, c.ID))
		assert.Equal(t, int64(0), testDB.CountCustomers())
	})

	t.Run("exact match queries ordered by id", func(t *testing.T) {
		testDB.CleanTables()

		seed := []*customer.Customer{
			{Name: "Wang", Password: "p", Email: "a@example.com", Address: testutil.StrPtr("apt 1"), Active: true},
			{Name: "Li", Password: "p", Email: "b@example.com", Address: testutil.StrPtr("apt 2")},
			{Name: "Wang", Password: "p", Email: "c@example.com"},
			{Name: "wang", Password: "p", Email: "d@example.com", Address: testutil.StrPtr("apt 1"), Active: true},
		}
		for _, c := range seed {
			require.NoError(t, repo.Insert(ctx, c))
		}

		byName, err := repo.FindByName(ctx, "Wang")
		require.NoError(t, err)
		require.Len(t, byName, 2)
		assert.Equal(t, seed[0].ID, byName[0].ID)
		assert.Equal(t, seed[2].ID, byName[1].ID)

		byEmail, err := repo.FindByEmail(ctx, "b@example.com")
		require.NoError(t, err)
		require.Len(t, byEmail, 1)
		assert.Equal(t, "Li", byEmail[0].Name)

		byAddress, err := repo.FindByAddress(ctx, "apt 1")
		require.NoError(t, err)
		assert.Len(t, byAddress, 2)

		active, err := repo.FindByActive(ctx, true)
		require.NoError(t, err)
		assert.Len(t, active, 2)

		inactive, err := repo.FindByActive(ctx, false)
		require.NoError(t, err)
		assert.Len(t, inactive, 2)

		all, err := repo.FindAll(ctx)
		require.NoError(t, err)
		require.Len(t, all, 4)
		for i := 1; i < len(all); i++ {
			assert.Less(t, all[i-1].ID, all[i].ID)
		}
	})

	t.Run("column width is enforced and the insert rolled back", func(t *testing.T) {
		testDB.CleanTables()

		c := customer.New(strings.Repeat("x", customer.MaxFieldLength+1), "p", "long@example.com")
		err := repo.Insert(ctx, c)
		require.Error(t, err)
		assert.False(t, c.HasID())
		assert.Equal(t, int64(0), testDB.CountCustomers())
	})
}

func TestDatabase_Integration(t *testing.T) {
	if testing.Short() {
		t.Skip("Skipping integration test in short mode")
	}

	testDB := NewTestDB(t)
	db := testDB.Database

	t.Run("Ping", func(t *testing.T) {
		assert.NoError(t, db.Ping())
	})

	t.Run("Stats reports the pool settings", func(t *testing.T) {
		stats, err := db.Stats()
		require.NoError(t, err)
		assert.Equal(t, 5, stats.MaxOpenConnections)
	})

	t.Run("Transaction rolls back on error", func(t *testing.T) {
		testDB.CleanTables()

		errAbort := errors.New("abort")
		err := db.Transaction(func(tx *gorm.DB) error {
			model := models.CustomerModelFromDomain(customer.New("Wang", "p", "w@example.com"))
			if err := tx.Create(model).Error; err != nil {
				return err
			}
			return errAbort
		})
		assert.ErrorIs(t, err, errAbort)
		assert.Equal(t, int64(0), testDB.CountCustomers())
	})

	t.Run("Transaction commits on success", func(t *testing.T) {
		testDB.CleanTables()

		err := db.Transaction(func(tx *gorm.DB) error {
			return tx.Create(models.CustomerModelFromDomain(customer.New("Wang", "p", "w@example.com"))).Error
		})
		require.NoError(t, err)
		assert.Equal(t, int64(1), testDB.CountCustomers())
	})
}

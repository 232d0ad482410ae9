// Package integration runs the customer service against a real PostgreSQL
// started with testcontainers. Every test here is skipped with -short.
package integration

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/erp/customers/internal/infrastructure/config"
	"github.com/erp/customers/internal/infrastructure/migration"
	"github.com/erp/customers/internal/infrastructure/persistence"
	"github.com/erp/customers/migrations"
	"github.com/stretchr/testify/require"
	"github.com/testcontainers/testcontainers-go"
	tcpostgres "github.com/testcontainers/testcontainers-go/modules/postgres"
	"github.com/testcontainers/testcontainers-go/wait"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

const postgresImage = "postgres:16-alpine"

// shared is started on first use and terminated by CleanupSharedContainer
var shared struct {
	sync.Mutex
	container *tcpostgres.PostgresContainer
	cfg       config.DatabaseConfig
}

// TestDB is a connection to a migrated PostgreSQL database
type TestDB struct {
	DB       *gorm.DB
	Database *persistence.Database
	t        *testing.T
}

// NewTestDB starts a container owned by t
func NewTestDB(t *testing.T) *TestDB {
	t.Helper()

	container, cfg := startPostgres(t, "customers_test")
	t.Cleanup(func() {
		if err := container.Terminate(context.Background()); err != nil {
			t.Logf("terminate postgres container: %v", err)
		}
	})
	migrateSchema(t, cfg)
	return connect(t, cfg)
}

// NewSharedTestDB connects to the package wide container. Callers own the
// table contents and should start with CleanTables.
func NewSharedTestDB(t *testing.T) *TestDB {
	t.Helper()

	return connect(t, sharedConfig(t))
}

func sharedConfig(t *testing.T) config.DatabaseConfig {
	t.Helper()

	shared.Lock()
	defer shared.Unlock()
	if shared.container == nil {
		container, cfg := startPostgres(t, "customers_shared_test")
		migrateSchema(t, cfg)
		shared.container, shared.cfg = container, cfg
	}
	return shared.cfg
}

// CleanupSharedContainer is called from TestMain once every test has run
func CleanupSharedContainer() {
	shared.Lock()
	defer shared.Unlock()
	if shared.container == nil {
		return
	}

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()
	_ = shared.container.Terminate(ctx)
	shared.container = nil
}

// CleanTables deletes every customer and restarts id generation at 1
func (tdb *TestDB) CleanTables() {
	tdb.t.Helper()
	require.NoError(tdb.t, tdb.DB.Exec("TRUNCATE TABLE customers RESTART IDENTITY").Error)
}

func (tdb *TestDB) CountCustomers() int64 {
	tdb.t.Helper()

	var n int64
	require.NoError(tdb.t, tdb.DB.Table("customers").Count(&n).Error)
	return n
}

func startPostgres(t *testing.T, dbName string) (*tcpostgres.PostgresContainer, config.DatabaseConfig) {
	t.Helper()
	ctx := context.Background()

	container, err := tcpostgres.Run(ctx, postgresImage,
		tcpostgres.WithDatabase(dbName),
		tcpostgres.WithUsername("postgres"),
		tcpostgres.WithPassword("postgres"),
		testcontainers.WithWaitStrategy(
			wait.ForLog("database system is ready to accept connections").
				WithOccurrence(2).
				WithStartupTimeout(time.Minute)),
	)
	require.NoError(t, err, "start postgres container")

	host, err := container.Host(ctx)
	require.NoError(t, err)
	port, err := container.MappedPort(ctx, "5432/tcp")
	require.NoError(t, err)

	return container, config.DatabaseConfig{
		Driver:          config.DriverPostgres,
		Host:            host,
		Port:            port.Int(),
		User:            "postgres",
		Password:        "postgres",
		DBName:          dbName,
		SSLMode:         "disable",
		MaxOpenConns:    5,
		MaxIdleConns:    2,
		ConnMaxLifetime: 5,
		ConnMaxIdleTime: 1,
	}
}

// connect opens the database the way the server does
func connect(t *testing.T, cfg config.DatabaseConfig) *TestDB {
	t.Helper()

	db, err := persistence.NewDatabase(&cfg)
	require.NoError(t, err, "connect to %s", cfg.DBName)
	t.Cleanup(func() { _ = db.Close() })

	return &TestDB{DB: db.DB, Database: db, t: t}
}

func migrateSchema(t *testing.T, cfg config.DatabaseConfig) {
	t.Helper()

	db := connect(t, cfg)
	pool, err := db.DB.DB()
	require.NoError(t, err)

	m, err := migration.NewFromFS(pool, migrations.FS, zap.NewNop())
	require.NoError(t, err)
	require.NoError(t, m.Up(), "apply migrations")
}

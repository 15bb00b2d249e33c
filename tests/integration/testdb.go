// Package integration runs the repositories and services against a real
// PostgreSQL started with testcontainers. All suites in the package share one
// container; every test starts from empty storefront tables.
package integration

import (
	"context"
	"fmt"
	"os"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/storefront/backend/internal/infrastructure/config"
	"github.com/storefront/backend/internal/infrastructure/logger"
	"github.com/storefront/backend/internal/infrastructure/migration"
	"github.com/storefront/backend/internal/infrastructure/persistence"
	"github.com/storefront/backend/migrations"
	"github.com/stretchr/testify/require"
	"github.com/testcontainers/testcontainers-go"
	tcpostgres "github.com/testcontainers/testcontainers-go/modules/postgres"
	"github.com/testcontainers/testcontainers-go/wait"
	"go.uber.org/zap"
	"go.uber.org/zap/zaptest"
)

const (
	postgresImage    = "postgres:16-alpine"
	postgresDatabase = "storefront_test"
	postgresUser     = "postgres"
	postgresPassword = "storefront"
)

// storefrontTables lists every table the migrations create, children first
var storefrontTables = []string{"order_items", "orders", "customers", "reviews", "products", "users"}

// postgresServer is the container shared by the package, started on first use
type postgresServer struct {
	once      sync.Once
	container *tcpostgres.PostgresContainer
	cfg       config.DatabaseConfig
	err       error
}

var server postgresServer

func (s *postgresServer) start(ctx context.Context) error {
	s.once.Do(func() {
		container, err := tcpostgres.Run(ctx, postgresImage,
			tcpostgres.WithDatabase(postgresDatabase),
			tcpostgres.WithUsername(postgresUser),
			tcpostgres.WithPassword(postgresPassword),
			testcontainers.WithWaitStrategy(
				wait.ForLog("database system is ready to accept connections").
					WithOccurrence(2).
					WithStartupTimeout(60*time.Second)),
		)
		if err != nil {
			s.err = fmt.Errorf("failed to start postgres container: %w", err)
			return
		}
		s.container = container

		host, err := container.Host(ctx)
		if err != nil {
			s.err = fmt.Errorf("failed to get container host: %w", err)
			return
		}
		port, err := container.MappedPort(ctx, "5432/tcp")
		if err != nil {
			s.err = fmt.Errorf("failed to get container port: %w", err)
			return
		}

		s.cfg = config.DatabaseConfig{
			Host:            host,
			Port:            port.Int(),
			User:            postgresUser,
			Password:        postgresPassword,
			DBName:          postgresDatabase,
			SSLMode:         "disable",
			MaxOpenConns:    5,
			MaxIdleConns:    2,
			ConnMaxLifetime: 5,
			ConnMaxIdleTime: 1,
		}
		s.err = migrateSchema(&s.cfg)
	})
	return s.err
}

// stop terminates the container if one was started
func (s *postgresServer) stop() {
	if s.container == nil {
		return
	}
	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()
	_ = s.container.Terminate(ctx)
}

func migrateSchema(cfg *config.DatabaseConfig) error {
	db, err := persistence.NewDatabase(cfg, nil)
	if err != nil {
		return err
	}
	defer db.Close()

	sqlDB, err := db.DB.DB()
	if err != nil {
		return err
	}
	m, err := migration.NewFromFS(sqlDB, migrations.FS, zap.NewNop())
	if err != nil {
		return fmt.Errorf("failed to create migrator: %w", err)
	}
	defer m.Close()
	return m.Up()
}

// TestDB is a connection to the shared container made the way the server makes it
type TestDB struct {
	*persistence.Database
	t *testing.T
}

// NewTestDB connects to the shared container and empties all storefront tables.
// Set TEST_DB_DEBUG to log every statement.
func NewTestDB(t *testing.T) *TestDB {
	t.Helper()

	require.NoError(t, server.start(context.Background()), "Failed to start PostgreSQL")

	level := "warn"
	if os.Getenv("TEST_DB_DEBUG") != "" {
		level = "info"
	}
	gormLog := logger.NewGormLogger(zaptest.NewLogger(t), logger.MapGormLogLevel(level), 200*time.Millisecond, false)

	db, err := persistence.NewDatabase(&server.cfg, gormLog)
	require.NoError(t, err, "Failed to connect to database")
	t.Cleanup(func() { _ = db.Close() })

	tdb := &TestDB{Database: db, t: t}
	tdb.Reset()
	return tdb
}

// Reset truncates every storefront table
func (tdb *TestDB) Reset() {
	tdb.t.Helper()
	stmt := "TRUNCATE TABLE " + strings.Join(storefrontTables, ", ") + " RESTART IDENTITY CASCADE"
	require.NoError(tdb.t, tdb.DB.Exec(stmt).Error, "Failed to truncate tables")
}

// Count returns the number of rows in table
func (tdb *TestDB) Count(table string) int64 {
	tdb.t.Helper()
	var n int64
	require.NoError(tdb.t, tdb.DB.Table(table).Count(&n).Error)
	return n
}

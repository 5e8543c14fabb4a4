// Package testutil starts throw-away PostgreSQL instances for repository tests.
package testutil

import (
	"context"
	"errors"
	"path/filepath"
	"runtime"
	"testing"
	"time"

	"github.com/golang-migrate/migrate/v4"
	_ "github.com/golang-migrate/migrate/v4/database/postgres"
	_ "github.com/golang-migrate/migrate/v4/source/file"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/testcontainers/testcontainers-go"
	"github.com/testcontainers/testcontainers-go/wait"

	"github.com/markwingerd/dft-old/internal/config"
	"github.com/markwingerd/dft-old/internal/storage/postgres"
)

const postgresImage = "postgres:16-alpine"

// PostgresContainer is a running database container with a connected pool.
type PostgresContainer struct {
	Pool   *postgres.Pool
	Config config.DatabaseConfig
}

// NewPostgresContainer starts a PostgreSQL container and connects to it.
// The container is terminated when the test ends.
//
// Postcondition: Returns a connected container, skips the test under -short or
// without a container provider, or fails the test.
func NewPostgresContainer(t *testing.T) *PostgresContainer {
	t.Helper()
	if testing.Short() {
		t.Skip("container tests are skipped in short mode")
	}
	testcontainers.SkipIfProviderIsNotHealthy(t)

	ctx := context.Background()
	start := time.Now()

	container, err := testcontainers.GenericContainer(ctx, testcontainers.GenericContainerRequest{
		ContainerRequest: testcontainers.ContainerRequest{
			Image:        postgresImage,
			ExposedPorts: []string{"5432/tcp"},
			Env: map[string]string{
				"POSTGRES_USER":     "dft",
				"POSTGRES_PASSWORD": "dft",
				"POSTGRES_DB":       "dft_test",
			},
			// The server restarts once after initdb, so the ready line appears twice.
			WaitingFor: wait.ForLog("database system is ready to accept connections").
				WithOccurrence(2).
				WithStartupTimeout(30 * time.Second),
		},
		Started: true,
	})
	if err != nil {
		t.Fatalf("starting %s: %v [%s]", postgresImage, err, time.Since(start))
	}
	t.Cleanup(func() { _ = container.Terminate(ctx) })

	host, err := container.Host(ctx)
	if err != nil {
		t.Fatalf("container host: %v", err)
	}
	port, err := container.MappedPort(ctx, "5432")
	if err != nil {
		t.Fatalf("container port: %v", err)
	}

	cfg := config.DatabaseConfig{
		Host:            host,
		Port:            port.Int(),
		User:            "dft",
		Password:        "dft",
		Name:            "dft_test",
		SSLMode:         "disable",
		MaxConns:        4,
		MinConns:        1,
		MaxConnLifetime: 5 * time.Minute,
	}
	pool, err := postgres.NewPool(ctx, cfg)
	if err != nil {
		t.Fatalf("connecting to %s: %v", cfg.Host, err)
	}
	t.Cleanup(pool.Close)

	t.Logf("%s ready on %s:%d [%s]", postgresImage, cfg.Host, cfg.Port, time.Since(start))
	return &PostgresContainer{Pool: pool, Config: cfg}
}

// ApplyMigrations runs every up migration in MigrationsDir against the container.
func (pc *PostgresContainer) ApplyMigrations(t *testing.T) {
	t.Helper()
	m, err := migrate.New("file://"+MigrationsDir(), pc.Config.DSN())
	if err != nil {
		t.Fatalf("creating migrator: %v", err)
	}
	defer m.Close()

	if err := m.Up(); err != nil && !errors.Is(err, migrate.ErrNoChange) {
		t.Fatalf("applying migrations: %v", err)
	}
}

// NewPool starts a migrated PostgreSQL container and returns its pgx pool.
func NewPool(t *testing.T) *pgxpool.Pool {
	t.Helper()
	pc := NewPostgresContainer(t)
	pc.ApplyMigrations(t)
	return pc.Pool.DB()
}

// MigrationsDir returns the absolute path of the repository's migrations directory.
func MigrationsDir() string {
	_, file, _, _ := runtime.Caller(0)
	return filepath.Join(filepath.Dir(file), "..", "..", "migrations")
}

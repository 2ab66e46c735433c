package store

import (
	"context"
	"fmt"
	"math/big"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/testcontainers/testcontainers-go"
	"github.com/testcontainers/testcontainers-go/modules/postgres"
	"github.com/testcontainers/testcontainers-go/wait"
	pgdriver "gorm.io/driver/postgres"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"github.com/lilianna-roll/issuance/internal/domain"
)

// testDB is shared by every test in the package; each test runs inside its
// own transaction and rolls it back.
var testDB *gorm.DB

// pgHarness owns the database the store suite runs against. The container is
// nil when TEST_DB_HOST points the suite at an existing server.
type pgHarness struct {
	db        *gorm.DB
	container *postgres.PostgresContainer
}

func TestMain(m *testing.M) {
	ctx := context.Background()

	h, err := startPG(ctx)
	if err != nil {
		fmt.Fprintf(os.Stderr, "store tests: %v\n", err)
		os.Exit(1)
	}
	testDB = h.db

	code := m.Run()
	h.close(ctx)
	os.Exit(code)
}

func envOr(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

// externalDSN builds the connection string of a database provided by CI or a
// developer; ok is false when no TEST_DB_HOST is set.
func externalDSN() (dsn string, ok bool) {
	host := os.Getenv("TEST_DB_HOST")
	if host == "" {
		return "", false
	}
	return fmt.Sprintf("host=%s port=%s user=%s password=%s dbname=%s sslmode=disable",
		host,
		envOr("TEST_DB_PORT", "5432"),
		envOr("TEST_DB_USER", "postgres"),
		envOr("TEST_DB_PASSWORD", "postgres"),
		envOr("TEST_DB_NAME", "issuance_test"),
	), true
}

func startPG(ctx context.Context) (*pgHarness, error) {
	h := &pgHarness{}

	dsn, ok := externalDSN()
	if !ok {
		container, err := postgres.Run(ctx,
			"postgres:18-alpine",
			postgres.WithDatabase("issuance_test"),
			postgres.WithUsername("postgres"),
			postgres.WithPassword("postgres"),
			testcontainers.WithWaitStrategy(
				wait.ForLog("database system is ready to accept connections").
					WithOccurrence(2).
					WithStartupTimeout(30*time.Second)),
		)
		if err != nil {
			return nil, fmt.Errorf("failed to start postgres container: %w", err)
		}
		h.container = container

		dsn, err = container.ConnectionString(ctx, "sslmode=disable")
		if err != nil {
			h.close(ctx)
			return nil, fmt.Errorf("failed to get connection string: %w", err)
		}
	}

	db, err := gorm.Open(pgdriver.Open(dsn), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	if err != nil {
		h.close(ctx)
		return nil, fmt.Errorf("failed to connect: %w", err)
	}
	h.db = db

	if err := applySchema(db); err != nil {
		h.close(ctx)
		return nil, err
	}
	return h, nil
}

func (h *pgHarness) close(ctx context.Context) {
	if h.db != nil {
		if sqlDB, err := h.db.DB(); err == nil {
			_ = sqlDB.Close()
		}
	}
	if h.container != nil {
		if err := h.container.Terminate(ctx); err != nil {
			fmt.Fprintf(os.Stderr, "store tests: failed to terminate container: %v\n", err)
		}
	}
}

// applySchema runs db/init_pg_db.sql. Every statement is guarded with
// IF NOT EXISTS, so an external database may already carry it.
func applySchema(db *gorm.DB) error {
	schemaSQL, err := os.ReadFile(filepath.Join("..", "..", "db", "init_pg_db.sql")) //nolint:gosec,G304
	if err != nil {
		return fmt.Errorf("failed to read schema: %w", err)
	}
	if err := db.Exec(string(schemaSQL)).Error; err != nil {
		return fmt.Errorf("failed to apply schema: %w", err)
	}
	return nil
}

// newTxStore returns a store bound to a transaction that is rolled back when
// the test ends.
func newTxStore(t *testing.T) Store {
	tx := testDB.Begin()
	require.NoError(t, tx.Error)
	t.Cleanup(func() { tx.Rollback() })
	return NewPGStore(tx)
}

func TestPostgreSQLStore(t *testing.T) {
	require.NotNil(t, testDB, "test database not initialized")
	RunStoreTests(t, newTxStore)
}

func TestPostgreSQLStore_LargestStoredCounts(t *testing.T) {
	store := newTxStore(t)
	ctx := context.Background()

	id := domain.CollectionID(domain.MAX_STORED_COUNT)
	c := buildTestCollection(id, domain.MAX_STORED_COUNT, 1, "ipfs://base/", 0)
	event := buildTestEvent(domain.EventTypeCollectionConfigured)
	event.CollectionID = id

	require.NoError(t, store.Commit(ctx, &domain.Batch{
		Collections: []*domain.Collection{c},
		Events:      []domain.Event{event},
	}, nil))

	state, err := store.LoadState(ctx)
	require.NoError(t, err)
	require.Len(t, state.Collections, 1)
	assert.Equal(t, id, state.Collections[0].ID)
	assert.Equal(t, domain.MAX_STORED_COUNT, state.Collections[0].MaxSize)
	assert.Equal(t, 0, big.NewInt(1).Cmp(state.Collections[0].Price))
}

package database

import (
	"context"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNew(t *testing.T) {
	connStr, cleanup := setupTestDB(t, "test_new")
	defer cleanup()

	db, err := New(connStr)
	require.NoError(t, err)
	defer db.Close()

	assert.NotNil(t, db.Conn())
}

func TestNewWithInvalidConnectionString(t *testing.T) {
	db, err := New("host=127.0.0.1 port=1 user=nobody dbname=none sslmode=disable connect_timeout=1")
	if err == nil && db != nil {
		db.Close()
		t.Error("Expected error when connecting to a closed port")
	}
}

func TestMigrate(t *testing.T) {
	db := setupTestDatabase(t, "test_migrate")

	var version int
	require.NoError(t, db.conn.QueryRow("SELECT MAX(version) FROM schema_version").Scan(&version))
	assert.Equal(t, latestVersion(), version)

	var exists bool
	require.NoError(t, db.conn.QueryRow(`
		SELECT EXISTS (SELECT 1 FROM pg_indexes WHERE indexname = 'idx_analyses_verdict')
	`).Scan(&exists))
	assert.True(t, exists)
}

func TestMigrateIdempotent(t *testing.T) {
	db := setupTestDatabase(t, "test_migrate_twice")

	require.NoError(t, db.Migrate(context.Background()))

	var count int
	require.NoError(t, db.conn.QueryRow("SELECT COUNT(*) FROM schema_version").Scan(&count))
	assert.Equal(t, len(migrations), count)
}

func TestMigrateConcurrent(t *testing.T) {
	db := setupTestDatabase(t, "test_migrate_concurrent")

	// Simulate replicas racing on a fresh schema.
	_, err := db.conn.Exec("DELETE FROM schema_version WHERE version > 1")
	require.NoError(t, err)

	var wg sync.WaitGroup
	errs := make([]error, 3)
	for i := range errs {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			errs[i] = db.Migrate(context.Background())
		}(i)
	}
	wg.Wait()

	for _, err := range errs {
		assert.NoError(t, err)
	}

	var count int
	require.NoError(t, db.conn.QueryRow("SELECT COUNT(*) FROM schema_version").Scan(&count))
	assert.Equal(t, len(migrations), count)
}

func TestMigrationsOrdered(t *testing.T) {
	for i, m := range migrations {
		assert.Equal(t, i+1, m.Version, "migration %s", m.Name)
		assert.NotEmpty(t, m.SQL)
	}
}

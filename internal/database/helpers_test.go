package database

import (
	"context"
	"database/sql"
	"fmt"
	"os"
	"strings"
	"testing"
	"time"

	"github.com/zombar/realitycheck/internal/models"
)

// setupTestDB creates a throwaway PostgreSQL database and returns its
// connection string. Tests skip when PostgreSQL is unreachable; TEST_DB_*
// variables override the localhost defaults.
func setupTestDB(t *testing.T, testName string) (connStr string, cleanup func()) {
	t.Helper()

	host := getEnvOrDefault("TEST_DB_HOST", "localhost")
	port := getEnvOrDefault("TEST_DB_PORT", "5432")
	user := getEnvOrDefault("TEST_DB_USER", "postgres")
	password := getEnvOrDefault("TEST_DB_PASSWORD", "postgres")

	dbName := fmt.Sprintf("rc_%s_%d", strings.ToLower(testName), time.Now().UnixNano())

	adminConnStr := fmt.Sprintf("host=%s port=%s user=%s password=%s dbname=postgres sslmode=disable connect_timeout=2",
		host, port, user, password)

	adminDB, err := sql.Open("postgres", adminConnStr)
	if err != nil {
		t.Skipf("Could not connect to PostgreSQL for testing: %v (set TEST_DB_* env vars if needed)", err)
	}
	defer adminDB.Close()

	if err := adminDB.Ping(); err != nil {
		t.Skipf("Could not ping PostgreSQL for testing: %v", err)
	}

	if _, err := adminDB.Exec(fmt.Sprintf("CREATE DATABASE %s", dbName)); err != nil {
		t.Skipf("Could not create test database: %v", err)
	}

	testConnStr := fmt.Sprintf("host=%s port=%s user=%s password=%s dbname=%s sslmode=disable",
		host, port, user, password, dbName)

	cleanup = func() {
		adminDB, err := sql.Open("postgres", adminConnStr)
		if err != nil {
			return
		}
		defer adminDB.Close()

		adminDB.Exec(fmt.Sprintf("SELECT pg_terminate_backend(pid) FROM pg_stat_activity WHERE datname = '%s'", dbName))
		adminDB.Exec(fmt.Sprintf("DROP DATABASE IF EXISTS %s", dbName))
	}

	return testConnStr, cleanup
}

// setupTestDatabase opens a migrated test database
func setupTestDatabase(t *testing.T, testName string) *DB {
	t.Helper()

	connStr, dbCleanup := setupTestDB(t, testName)

	db, err := New(connStr)
	if err != nil {
		dbCleanup()
		t.Fatalf("Failed to open test database: %v", err)
	}

	if err := db.Migrate(context.Background()); err != nil {
		db.Close()
		dbCleanup()
		t.Fatalf("Failed to run migrations: %v", err)
	}

	t.Cleanup(func() {
		db.Close()
		dbCleanup()
	})

	return db
}

func createTestAnalysis(id, verdict string, score int, createdAt time.Time) *models.Analysis {
	rating := 4.5
	return &models.Analysis{
		ID: id,
		Input: models.AnalysisInput{
			Product: models.ProductRecord{
				Name:     "CeraVe Daily Moisturizing Lotion",
				Platform: "amazon",
				Price:    "$15",
				Rating:   &rating,
				Ingredients: models.IngredientsInfo{
					RawText: "Water, Niacinamide, Glycerin",
					Parsed:  []string{"water", "niacinamide", "glycerin"},
				},
			},
		},
		Result: models.AnalysisResult{
			RealityScore:    score,
			OverallVerdict:  verdict,
			ConfidenceLevel: models.ConfidenceMedium,
			RedFlags:        []string{},
			GreenFlags:      []string{"Well-known, widely available brand"},
			Recommendations: []string{},
			DataSources:     []string{"amazon"},
		},
		CreatedAt: createdAt,
		UpdatedAt: createdAt,
	}
}

func getEnvOrDefault(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

package database

import (
	"database/sql"
	"fmt"
	"os"

	_ "github.com/lib/pq"
)

func Connect() (*sql.DB, error) {
	host := getEnv("DB_HOST", "localhost")
	port := getEnv("DB_PORT", "5432")
	user := getEnv("DB_USER", "alzheon_user")
	password := getEnv("DB_PASSWORD", "alzheon_password")
	dbname := getEnv("DB_NAME", "alzheon")
	sslmode := getEnv("DB_SSLMODE", "disable")

	dsn := fmt.Sprintf(
		"host=%s port=%s user=%s password=%s dbname=%s sslmode=%s",
		host, port, user, password, dbname, sslmode,
	)

	db, err := sql.Open("postgres", dsn)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	if err := db.Ping(); err != nil {
		return nil, fmt.Errorf("failed to ping database: %w", err)
	}

	db.SetMaxOpenConns(25)
	db.SetMaxIdleConns(5)

	return db, nil
}

func Migrate(db *sql.DB) error {
	query := `
	CREATE TABLE IF NOT EXISTS users (
		id BIGSERIAL PRIMARY KEY,
		email VARCHAR(255) UNIQUE NOT NULL,
		name VARCHAR(255) NOT NULL,
		role VARCHAR(20) NOT NULL DEFAULT 'patient',
		password VARCHAR(255) NOT NULL,
		created_at TIMESTAMP WITH TIME ZONE DEFAULT NOW(),
		updated_at TIMESTAMP WITH TIME ZONE DEFAULT NOW()
	);

	CREATE INDEX IF NOT EXISTS idx_users_email ON users(email);

	CREATE TABLE IF NOT EXISTS orientation_tests (
		id               BIGSERIAL PRIMARY KEY,
		patient_id       BIGINT NOT NULL REFERENCES users(id) ON DELETE CASCADE,
		test_date        DATE NOT NULL,
		questions        JSONB NOT NULL,
		completed        BOOLEAN NOT NULL DEFAULT FALSE,
		started_at       TIMESTAMP WITH TIME ZONE NOT NULL DEFAULT NOW(),
		finished_at      TIMESTAMP WITH TIME ZONE,
		duration_minutes INT,
		score            INT NOT NULL DEFAULT 0 CHECK (score >= 0 AND score <= 100),
		correct_count    INT NOT NULL DEFAULT 0,
		incorrect_count  INT NOT NULL DEFAULT 0,
		total_count      INT NOT NULL DEFAULT 0,
		problem_areas    TEXT[] NOT NULL DEFAULT '{}',
		notes            TEXT NOT NULL DEFAULT '',
		created_at       TIMESTAMP WITH TIME ZONE DEFAULT NOW(),
		updated_at       TIMESTAMP WITH TIME ZONE DEFAULT NOW(),
		UNIQUE(patient_id, test_date)
	);

	CREATE INDEX IF NOT EXISTS idx_tests_patient_date ON orientation_tests(patient_id, test_date DESC);
	CREATE INDEX IF NOT EXISTS idx_tests_completed ON orientation_tests(patient_id, completed);
	`

	if _, err := db.Exec(query); err != nil {
		return fmt.Errorf("migration failed: %w", err)
	}

	return nil
}

func getEnv(key, fallback string) string {
	if value, ok := os.LookupEnv(key); ok {
		return value
	}
	return fallback
}

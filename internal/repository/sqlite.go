package repository

import (
	"context"
	"database/sql"
	"fmt"
	"log"

	"metrics-intake/internal/domain"

	_ "github.com/mattn/go-sqlite3"
)

type SQLiteStore struct {
	db     *sql.DB
	dbPath string
}

func NewSQLiteStore(path string) *SQLiteStore {
	return &SQLiteStore{dbPath: path}
}

func (s *SQLiteStore) Init() error {
	var err error

	s.db, err = sql.Open("sqlite3", s.dbPath)
	if err != nil {
		return fmt.Errorf("error opening database: %w", err)
	}

	if err = s.db.Ping(); err != nil {
		return fmt.Errorf("error connecting to database: %w", err)
	}

	// The autoincrement id preserves per-key insertion order.
	createTableSQL := `
	CREATE TABLE IF NOT EXISTS metrics (
		id INTEGER PRIMARY KEY AUTOINCREMENT,
		key TEXT NOT NULL,
		value REAL NOT NULL,
		occurred_at INTEGER NOT NULL
	);
	CREATE INDEX IF NOT EXISTS idx_metrics_key ON metrics(key);`

	_, err = s.db.Exec(createTableSQL)
	if err != nil {
		return fmt.Errorf("error creating table: %w", err)
	}

	log.Println("SQLiteStore initialized.")
	return nil
}

func (s *SQLiteStore) StoreMetric(ctx context.Context, record domain.MetricRecord) error {
	stmt, err := s.db.PrepareContext(ctx, "INSERT INTO metrics(key, value, occurred_at) VALUES(?, ?, ?)")
	if err != nil {
		return fmt.Errorf("error preparing insert statement: %w", err)
	}
	defer stmt.Close()

	_, err = stmt.ExecContext(ctx, record.Key, record.Value, record.OccurredAt)
	if err != nil {
		return fmt.Errorf("error inserting metric: %w", err)
	}
	return nil
}

func (s *SQLiteStore) GetMetrics(ctx context.Context, key string, limit, offset int) ([]domain.MetricRecord, error) {
	query := "SELECT key, value, occurred_at FROM metrics WHERE key = ? ORDER BY id ASC"
	args := []interface{}{key}

	if limit <= 0 {
		limit = -1
	}
	query += " LIMIT ?"
	args = append(args, limit)

	if offset < 0 {
		offset = 0
	}
	query += " OFFSET ?"
	args = append(args, offset)

	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("error querying database: %w", err)
	}
	defer rows.Close()

	var fetched []domain.MetricRecord

	for rows.Next() {
		var r domain.MetricRecord

		if err := rows.Scan(&r.Key, &r.Value, &r.OccurredAt); err != nil {
			log.Printf("Error scanning row: %v", err)
			continue
		}
		fetched = append(fetched, r)
	}

	if err = rows.Err(); err != nil {
		return nil, fmt.Errorf("error during rows iteration: %w", err)
	}
	return fetched, nil
}

func (s *SQLiteStore) CountMetrics(ctx context.Context, key string) (int, error) {
	var count int

	err := s.db.QueryRowContext(ctx, "SELECT COUNT(*) FROM metrics WHERE key = ?", key).Scan(&count)
	if err != nil {
		return 0, fmt.Errorf("error counting metrics: %w", err)
	}
	return count, nil
}

func (s *SQLiteStore) Close() error {
	if s.db != nil {
		return s.db.Close()
	}
	return nil
}

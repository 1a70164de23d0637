package kpi

import (
	"database/sql"
	"errors"
	"fmt"

	_ "modernc.org/sqlite"

	"github.com/vrogeon/repartkey/core/stats"
)

// SQLiteStore persists monthly KPI records in a SQLite database.
type SQLiteStore struct {
	db *sql.DB
}

var _ stats.Store = (*SQLiteStore)(nil)

// NewSQLiteStore opens or creates the database and ensures schema.
func NewSQLiteStore(path string) (*SQLiteStore, error) {
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, err
	}
	db.SetMaxOpenConns(1)
	schema := `CREATE TABLE IF NOT EXISTS runs (
        run_id TEXT PRIMARY KEY,
        seq INTEGER NOT NULL
    );
    CREATE TABLE IF NOT EXISTS monthly_kpi (
        run_id TEXT,
        producer_id TEXT,
        consumer_id TEXT,
        month INTEGER,
        row_index INTEGER NOT NULL DEFAULT 0,
        label TEXT,
        production REAL,
        consumption REAL,
        auto_consumption REAL,
        auto_production_rate REAL,
        PRIMARY KEY(run_id, producer_id, consumer_id, row_index, month)
    );`
	if _, err := db.Exec(schema); err != nil {
		if cerr := db.Close(); cerr != nil {
			return nil, fmt.Errorf("close db: %v (schema err: %w)", cerr, err)
		}
		return nil, err
	}
	return &SQLiteStore{db: db}, nil
}

// Add inserts or replaces the KPI record and registers its run.
func (s *SQLiteStore) Add(r stats.Record) error {
	tx, err := s.db.Begin()
	if err != nil {
		return err
	}
	defer func() { _ = tx.Rollback() }()
	if _, err := tx.Exec(`INSERT OR IGNORE INTO runs (run_id, seq)
        VALUES (?, (SELECT COALESCE(MAX(seq), 0) + 1 FROM runs))`, r.RunID); err != nil {
		return err
	}
	if _, err := tx.Exec(`INSERT INTO monthly_kpi (run_id, producer_id, consumer_id, month, row_index, label,
            production, consumption, auto_consumption, auto_production_rate)
        VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
        ON CONFLICT(run_id, producer_id, consumer_id, row_index, month) DO UPDATE SET
            label = excluded.label,
            production = excluded.production,
            consumption = excluded.consumption,
            auto_consumption = excluded.auto_consumption,
            auto_production_rate = excluded.auto_production_rate`,
		r.RunID, r.ProducerID, r.ConsumerID, r.Month, r.Row, r.Label,
		r.ProductionKWh, r.ConsumptionKWh, r.AutoConsumptionKWh, r.AutoProductionRate); err != nil {
		return err
	}
	return tx.Commit()
}

// Query returns the records of a producer ordered by row, month then
// consumer.
// An empty runID selects the most recently added run.
func (s *SQLiteStore) Query(runID, producerID string) ([]stats.Record, error) {
	if runID == "" {
		err := s.db.QueryRow(`SELECT run_id FROM runs ORDER BY seq DESC LIMIT 1`).Scan(&runID)
		if errors.Is(err, sql.ErrNoRows) {
			return nil, stats.ErrNoRun
		}
		if err != nil {
			return nil, err
		}
	}
	rows, err := s.db.Query(`SELECT run_id, producer_id, consumer_id, month, row_index, label,
            production, consumption, auto_consumption, auto_production_rate
        FROM monthly_kpi WHERE run_id = ? AND producer_id = ?
        ORDER BY row_index, month, consumer_id`, runID, producerID)
	if err != nil {
		return nil, err
	}
	defer func() { _ = rows.Close() }()
	var res []stats.Record
	for rows.Next() {
		var r stats.Record
		if err := rows.Scan(&r.RunID, &r.ProducerID, &r.ConsumerID, &r.Month, &r.Row, &r.Label,
			&r.ProductionKWh, &r.ConsumptionKWh, &r.AutoConsumptionKWh, &r.AutoProductionRate); err != nil {
			return nil, err
		}
		res = append(res, r)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return res, nil
}

// Close closes the underlying database.
func (s *SQLiteStore) Close() error { return s.db.Close() }

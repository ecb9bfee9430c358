package audit

import (
	"context"
	"database/sql"
	"fmt"

	_ "modernc.org/sqlite"
)

const schema = `
CREATE TABLE IF NOT EXISTS change_records (
	run_id      TEXT NOT NULL,
	sequence    INTEGER NOT NULL,
	section     TEXT NOT NULL,
	operation   TEXT NOT NULL,
	location    TEXT NOT NULL,
	before_text TEXT NOT NULL,
	after_text  TEXT NOT NULL,
	reason      TEXT NOT NULL DEFAULT '',
	created_at  TEXT NOT NULL DEFAULT (datetime('now')),
	PRIMARY KEY (run_id, sequence)
);
CREATE INDEX IF NOT EXISTS idx_change_records_section ON change_records (run_id, section);
`

// Store persists audit trails to a SQLite database so change history
// survives the run.
type Store struct {
	db *sql.DB
}

// OpenStore opens (creating if needed) the audit database at path.
func OpenStore(path string) (*Store, error) {
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("open audit store: %w", err)
	}
	if _, err := db.Exec(schema); err != nil {
		db.Close()
		return nil, fmt.Errorf("initialize audit store: %w", err)
	}
	return &Store{db: db}, nil
}

// SaveTrail writes every record of the trail in one transaction. Saving
// the same run twice replaces its earlier records.
func (s *Store) SaveTrail(ctx context.Context, trail *Trail) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin audit save: %w", err)
	}
	defer tx.Rollback()

	if _, err := tx.ExecContext(ctx, `DELETE FROM change_records WHERE run_id = ?`, trail.RunID()); err != nil {
		return fmt.Errorf("clear previous audit records: %w", err)
	}
	stmt, err := tx.PrepareContext(ctx, `
		INSERT INTO change_records (run_id, sequence, section, operation, location, before_text, after_text, reason)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?)`)
	if err != nil {
		return fmt.Errorf("prepare audit insert: %w", err)
	}
	defer stmt.Close()

	for _, r := range trail.Records() {
		if _, err := stmt.ExecContext(ctx, r.RunID, r.Sequence, r.Section, r.Operation, r.Location, r.Before, r.After, r.Reason); err != nil {
			return fmt.Errorf("insert audit record %d: %w", r.Sequence, err)
		}
	}
	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit audit save: %w", err)
	}
	return nil
}

// RunRecords loads a run's records in sequence order.
func (s *Store) RunRecords(ctx context.Context, runID string) ([]ChangeRecord, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT run_id, sequence, section, operation, location, before_text, after_text, reason
		FROM change_records WHERE run_id = ? ORDER BY sequence`, runID)
	if err != nil {
		return nil, fmt.Errorf("query audit records: %w", err)
	}
	defer rows.Close()

	var out []ChangeRecord
	for rows.Next() {
		var r ChangeRecord
		if err := rows.Scan(&r.RunID, &r.Sequence, &r.Section, &r.Operation, &r.Location, &r.Before, &r.After, &r.Reason); err != nil {
			return nil, fmt.Errorf("scan audit record: %w", err)
		}
		out = append(out, r)
	}
	return out, rows.Err()
}

// RunIDs lists runs present in the store, most recent first.
func (s *Store) RunIDs(ctx context.Context) ([]string, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT run_id FROM change_records GROUP BY run_id ORDER BY MAX(created_at) DESC`)
	if err != nil {
		return nil, fmt.Errorf("query audit runs: %w", err)
	}
	defer rows.Close()

	var out []string
	for rows.Next() {
		var id string
		if err := rows.Scan(&id); err != nil {
			return nil, fmt.Errorf("scan run id: %w", err)
		}
		out = append(out, id)
	}
	return out, rows.Err()
}

// Close releases the database handle.
func (s *Store) Close() error {
	return s.db.Close()
}

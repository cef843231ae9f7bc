package state

import (
	"context"
	"database/sql"
	"errors"

	_ "modernc.org/sqlite"

	"ecebot/pkg/logx"
)

// sqliteStore persists the seen-id set in a local SQLite file. Alternative
// to the channel driver for deployments with a writable disk.
type sqliteStore struct {
	db  *sql.DB
	log logx.Logger
}

func newSQLiteStore(cfg Config, log logx.Logger) (*sqliteStore, error) {
	if cfg.Path == "" {
		return nil, errors.New("sqlite state driver requires a path")
	}
	db, err := sql.Open("sqlite", cfg.Path)
	if err != nil {
		return nil, err
	}
	// SQLite prefers a small number of concurrent writers.
	db.SetMaxOpenConns(1)
	db.SetMaxIdleConns(1)
	_, _ = db.Exec("PRAGMA journal_mode = WAL")
	_, _ = db.Exec("PRAGMA synchronous = NORMAL")

	if _, err := db.Exec(`CREATE TABLE IF NOT EXISTS seen_ids (id INTEGER PRIMARY KEY)`); err != nil {
		_ = db.Close()
		return nil, err
	}
	return &sqliteStore{db: db, log: log}, nil
}

func (s *sqliteStore) Load(ctx context.Context) ([]int64, bool, error) {
	rows, err := s.db.QueryContext(ctx, `SELECT id FROM seen_ids ORDER BY id`)
	if err != nil {
		return nil, false, &PersistenceError{Op: "load", Err: err}
	}
	defer rows.Close()

	var ids []int64
	for rows.Next() {
		var id int64
		if err := rows.Scan(&id); err != nil {
			return nil, false, &PersistenceError{Op: "load", Err: err}
		}
		ids = append(ids, id)
	}
	if err := rows.Err(); err != nil {
		return nil, false, &PersistenceError{Op: "load", Err: err}
	}
	if len(ids) == 0 {
		// An empty table is indistinguishable from a fresh database; either
		// way the caller starts with an empty set.
		return nil, false, nil
	}
	return ids, true, nil
}

func (s *sqliteStore) Save(ctx context.Context, ids []int64) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return &PersistenceError{Op: "save", Err: err}
	}
	stmt, err := tx.PrepareContext(ctx, `INSERT OR IGNORE INTO seen_ids(id) VALUES(?)`)
	if err != nil {
		_ = tx.Rollback()
		return &PersistenceError{Op: "save", Err: err}
	}
	defer stmt.Close()

	for _, id := range ids {
		if _, err := stmt.ExecContext(ctx, id); err != nil {
			_ = tx.Rollback()
			return &PersistenceError{Op: "save", Err: err}
		}
	}
	if err := tx.Commit(); err != nil {
		return &PersistenceError{Op: "save", Err: err}
	}
	return nil
}

func (s *sqliteStore) Close() error {
	if s == nil || s.db == nil {
		return nil
	}
	return s.db.Close()
}

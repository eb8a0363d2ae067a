package store

import (
	"database/sql"
	"fmt"
	"sync"
	"time"

	_ "modernc.org/sqlite"

	"github.com/TomMakinMPF/fifoinvestor/internal/model"
)

// SQLiteStore caches candle series in a SQLite database.
type SQLiteStore struct {
	db *sql.DB
	mu sync.Mutex
}

// NewSQLiteStore opens (or creates) the SQLite database and runs migrations.
func NewSQLiteStore(dbPath string) (*SQLiteStore, error) {
	db, err := sql.Open("sqlite", dbPath)
	if err != nil {
		return nil, fmt.Errorf("open sqlite: %w", err)
	}

	// WAL mode so concurrent scan workers can read while one writes.
	if _, err := db.Exec("PRAGMA journal_mode=WAL"); err != nil {
		db.Close()
		return nil, fmt.Errorf("set WAL mode: %w", err)
	}

	s := &SQLiteStore{db: db}
	if err := s.migrate(); err != nil {
		db.Close()
		return nil, fmt.Errorf("migrate: %w", err)
	}
	return s, nil
}

func (s *SQLiteStore) migrate() error {
	stmts := []string{
		`CREATE TABLE IF NOT EXISTS series_meta (
			symbol     TEXT PRIMARY KEY,
			fetched_at INTEGER NOT NULL
		)`,
		`CREATE TABLE IF NOT EXISTS candles (
			symbol TEXT NOT NULL,
			ts     INTEGER NOT NULL,
			open   REAL NOT NULL,
			high   REAL NOT NULL,
			low    REAL NOT NULL,
			close  REAL NOT NULL,
			PRIMARY KEY (symbol, ts)
		)`,
		`CREATE INDEX IF NOT EXISTS idx_candles_symbol ON candles(symbol)`,
	}
	for _, stmt := range stmts {
		if _, err := s.db.Exec(stmt); err != nil {
			return fmt.Errorf("exec %q: %w", stmt[:40], err)
		}
	}
	return nil
}

// Load returns the cached monthly series for a symbol in chronological order.
func (s *SQLiteStore) Load(symbol string) ([]model.Candle, time.Time, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	var fetchedAt int64
	err := s.db.QueryRow(`SELECT fetched_at FROM series_meta WHERE symbol = ?`, symbol).Scan(&fetchedAt)
	if err == sql.ErrNoRows {
		return nil, time.Time{}, ErrCacheMiss
	}
	if err != nil {
		return nil, time.Time{}, fmt.Errorf("load meta: %w", err)
	}

	rows, err := s.db.Query(`SELECT ts, open, high, low, close FROM candles WHERE symbol = ? ORDER BY ts`, symbol)
	if err != nil {
		return nil, time.Time{}, fmt.Errorf("load candles: %w", err)
	}
	defer rows.Close()

	var candles []model.Candle
	for rows.Next() {
		var ts int64
		var c model.Candle
		if err := rows.Scan(&ts, &c.Open, &c.High, &c.Low, &c.Close); err != nil {
			return nil, time.Time{}, fmt.Errorf("scan candle: %w", err)
		}
		c.Time = time.Unix(ts, 0).UTC()
		candles = append(candles, c)
	}
	if err := rows.Err(); err != nil {
		return nil, time.Time{}, fmt.Errorf("iterate candles: %w", err)
	}
	if len(candles) == 0 {
		return nil, time.Time{}, ErrCacheMiss
	}
	return candles, time.Unix(fetchedAt, 0).UTC(), nil
}

// Save replaces the cached series for a symbol.
func (s *SQLiteStore) Save(symbol string, candles []model.Candle) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	tx, err := s.db.Begin()
	if err != nil {
		return fmt.Errorf("begin: %w", err)
	}
	defer tx.Rollback()

	if _, err := tx.Exec(`DELETE FROM candles WHERE symbol = ?`, symbol); err != nil {
		return fmt.Errorf("clear candles: %w", err)
	}
	for _, c := range candles {
		if _, err := tx.Exec(`INSERT INTO candles (symbol, ts, open, high, low, close) VALUES (?,?,?,?,?,?)`,
			symbol, c.Time.Unix(), c.Open, c.High, c.Low, c.Close); err != nil {
			return fmt.Errorf("insert candle: %w", err)
		}
	}
	if _, err := tx.Exec(`INSERT INTO series_meta (symbol, fetched_at) VALUES (?,?)
		ON CONFLICT(symbol) DO UPDATE SET fetched_at = excluded.fetched_at`,
		symbol, time.Now().Unix()); err != nil {
		return fmt.Errorf("upsert meta: %w", err)
	}
	return tx.Commit()
}

func (s *SQLiteStore) Close() error {
	return s.db.Close()
}

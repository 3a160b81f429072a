package barcache

import (
	"context"
	"database/sql"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"time"

	"TrendSignal/internal/model"

	"github.com/pkg/errors"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
	_ "modernc.org/sqlite"
)

const dateLayout = "2006-01-02"

// SQLiteStore caches raw bars in a SQLite database.
type SQLiteStore struct {
	db     *sql.DB
	mu     sync.Mutex
	logger zerolog.Logger
}

// NewSQLiteStore opens (or creates) the SQLite database and runs migrations.
func NewSQLiteStore(dbPath string) (*SQLiteStore, error) {
	if err := os.MkdirAll(filepath.Dir(dbPath), 0o755); err != nil {
		return nil, errors.Wrap(err, "create cache dir")
	}
	db, err := sql.Open("sqlite", dbPath)
	if err != nil {
		return nil, errors.Wrap(err, "open sqlite")
	}

	if _, err := db.Exec("PRAGMA journal_mode=WAL"); err != nil {
		db.Close()
		return nil, errors.Wrap(err, "set WAL mode")
	}

	s := &SQLiteStore{db: db, logger: log.With().Str("component", "barcache").Logger()}
	if err := s.migrate(); err != nil {
		db.Close()
		return nil, errors.Wrap(err, "migrate")
	}

	s.logger.Info().Str("path", dbPath).Msg("sqlite bar cache opened")
	return s, nil
}

func (s *SQLiteStore) migrate() error {
	stmts := []string{
		`CREATE TABLE IF NOT EXISTS cache_entries (
			symbol    TEXT PRIMARY KEY,
			source    TEXT NOT NULL,
			days      INTEGER NOT NULL,
			pulled_at INTEGER NOT NULL
		)`,

		`CREATE TABLE IF NOT EXISTS daily_bars (
			symbol TEXT NOT NULL,
			date   TEXT NOT NULL,
			open   REAL NOT NULL,
			high   REAL NOT NULL,
			low    REAL NOT NULL,
			close  REAL NOT NULL,
			volume REAL NOT NULL,
			PRIMARY KEY (symbol, date)
		)`,
	}

	for _, stmt := range stmts {
		if _, err := s.db.Exec(stmt); err != nil {
			return errors.Wrapf(err, "exec %q", strings.Fields(stmt)[:6])
		}
	}
	return nil
}

// Load returns the cache entry and bars for symbol, or a nil entry if nothing is cached.
func (s *SQLiteStore) Load(ctx context.Context, symbol string) (*Entry, []model.PriceBar, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	entry := Entry{Symbol: symbol}
	var pulledAt int64
	err := s.db.QueryRowContext(ctx,
		`SELECT source, days, pulled_at FROM cache_entries WHERE symbol = ?`, symbol,
	).Scan(&entry.Source, &entry.Days, &pulledAt)
	if err == sql.ErrNoRows {
		return nil, nil, nil
	}
	if err != nil {
		return nil, nil, errors.Wrap(err, "load cache entry")
	}
	entry.PulledAt = time.Unix(pulledAt, 0)

	rows, err := s.db.QueryContext(ctx,
		`SELECT date, open, high, low, close, volume FROM daily_bars WHERE symbol = ? ORDER BY date`, symbol)
	if err != nil {
		return nil, nil, errors.Wrap(err, "load bars")
	}
	defer rows.Close()

	var bars []model.PriceBar
	for rows.Next() {
		var b model.PriceBar
		var date string
		if err := rows.Scan(&date, &b.Open, &b.High, &b.Low, &b.Close, &b.Volume); err != nil {
			return nil, nil, errors.Wrap(err, "scan bar")
		}
		if b.Date, err = time.Parse(dateLayout, date); err != nil {
			return nil, nil, errors.Wrapf(err, "parse date %q", date)
		}
		bars = append(bars, b)
	}
	if err := rows.Err(); err != nil {
		return nil, nil, errors.Wrap(err, "iterate bars")
	}
	return &entry, bars, nil
}

// Save replaces the cached bars of entry.Symbol in one transaction.
func (s *SQLiteStore) Save(ctx context.Context, entry Entry, bars []model.PriceBar) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return errors.Wrap(err, "begin")
	}
	defer tx.Rollback()

	if _, err := tx.ExecContext(ctx, `DELETE FROM daily_bars WHERE symbol = ?`, entry.Symbol); err != nil {
		return errors.Wrap(err, "clear bars")
	}
	stmt, err := tx.PrepareContext(ctx, `INSERT INTO daily_bars
		(symbol, date, open, high, low, close, volume)
		VALUES (?,?,?,?,?,?,?)`)
	if err != nil {
		return errors.Wrap(err, "prepare insert")
	}
	defer stmt.Close()
	for _, b := range bars {
		if _, err := stmt.ExecContext(ctx, entry.Symbol, b.Date.Format(dateLayout),
			b.Open, b.High, b.Low, b.Close, b.Volume); err != nil {
			return errors.Wrapf(err, "insert bar %s", b.Date.Format(dateLayout))
		}
	}
	if _, err := tx.ExecContext(ctx, `INSERT INTO cache_entries (symbol, source, days, pulled_at)
		VALUES (?,?,?,?)
		ON CONFLICT(symbol) DO UPDATE SET source = excluded.source, days = excluded.days, pulled_at = excluded.pulled_at`,
		entry.Symbol, entry.Source, entry.Days, entry.PulledAt.Unix()); err != nil {
		return errors.Wrap(err, "upsert entry")
	}
	return tx.Commit()
}

func (s *SQLiteStore) Close() error {
	s.logger.Info().Msg("closing sqlite bar cache")
	return s.db.Close()
}

package store

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"time"

	"github.com/rotisserie/eris"
	_ "modernc.org/sqlite"

	"github.com/sells-group/ad-intel/internal/model"
)

// SQLiteStore implements Store using modernc.org/sqlite.
type SQLiteStore struct {
	db *sql.DB
}

// NewSQLite opens a SQLite database at the given path and configures WAL mode.
func NewSQLite(dsn string) (*SQLiteStore, error) {
	db, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, eris.Wrap(err, "sqlite: open")
	}
	for _, pragma := range []string{
		"PRAGMA journal_mode=WAL",
		"PRAGMA busy_timeout=5000",
		"PRAGMA synchronous=NORMAL",
	} {
		if _, err := db.Exec(pragma); err != nil {
			db.Close()
			return nil, eris.Wrapf(err, "sqlite: exec %s", pragma)
		}
	}
	return &SQLiteStore{db: db}, nil
}

// Times are stored as unix nanoseconds so ordering and expiry compare as
// integers.
const sqliteMigration = `
CREATE TABLE IF NOT EXISTS ad_records (
	id            TEXT PRIMARY KEY,
	advertiser_id TEXT NOT NULL DEFAULT '',
	status        TEXT NOT NULL,
	category      TEXT NOT NULL DEFAULT '',
	record        TEXT NOT NULL,
	saved_at      INTEGER NOT NULL
);

CREATE TABLE IF NOT EXISTS validation_cache (
	cache_key  TEXT PRIMARY KEY,
	result     TEXT NOT NULL,
	cached_at  INTEGER NOT NULL,
	expires_at INTEGER NOT NULL
);

CREATE INDEX IF NOT EXISTS idx_ad_records_status ON ad_records(status);
CREATE INDEX IF NOT EXISTS idx_ad_records_advertiser ON ad_records(advertiser_id);
CREATE INDEX IF NOT EXISTS idx_ad_records_saved_at ON ad_records(saved_at);
CREATE INDEX IF NOT EXISTS idx_validation_cache_expires_at ON validation_cache(expires_at);
`

func (s *SQLiteStore) Migrate(ctx context.Context) error {
	_, err := s.db.ExecContext(ctx, sqliteMigration)
	return eris.Wrap(err, "sqlite: migrate")
}

func (s *SQLiteStore) Close() error {
	return s.db.Close()
}

const sqliteUpsertRecord = `INSERT INTO ad_records (id, advertiser_id, status, category, record, saved_at)
VALUES (?, ?, ?, ?, ?, ?)
ON CONFLICT(id) DO UPDATE SET advertiser_id = excluded.advertiser_id, status = excluded.status,
	category = excluded.category, record = excluded.record, saved_at = excluded.saved_at`

type execer interface {
	ExecContext(ctx context.Context, query string, args ...any) (sql.Result, error)
}

func upsertSQLiteRecord(ctx context.Context, ex execer, rec *model.AdRecord) error {
	row, err := encodeRecord(rec)
	if err != nil {
		return err
	}
	_, err = ex.ExecContext(ctx, sqliteUpsertRecord,
		row.id, row.advertiserID, row.status, row.category, string(row.record), row.savedAt.UnixNano())
	return eris.Wrapf(err, "sqlite: save record %s", row.id)
}

func (s *SQLiteStore) SaveRecord(ctx context.Context, rec *model.AdRecord) error {
	return upsertSQLiteRecord(ctx, s.db, rec)
}

// SaveRecords writes all records in one transaction.
func (s *SQLiteStore) SaveRecords(ctx context.Context, recs []*model.AdRecord) (int64, error) {
	if len(recs) == 0 {
		return 0, nil
	}
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return 0, eris.Wrap(err, "sqlite: begin tx")
	}
	defer tx.Rollback() //nolint:errcheck

	for _, rec := range recs {
		if err := upsertSQLiteRecord(ctx, tx, rec); err != nil {
			return 0, err
		}
	}
	if err := tx.Commit(); err != nil {
		return 0, eris.Wrap(err, "sqlite: commit records")
	}
	return int64(len(recs)), nil
}

func (s *SQLiteStore) GetRecord(ctx context.Context, id string) (*model.AdRecord, error) {
	var data string
	err := s.db.QueryRowContext(ctx, `SELECT record FROM ad_records WHERE id = ?`, id).Scan(&data)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, eris.Wrapf(ErrNotFound, "sqlite: record %s", id)
		}
		return nil, eris.Wrapf(err, "sqlite: get record %s", id)
	}
	return decodeRecord([]byte(data))
}

func (s *SQLiteStore) ListRecords(ctx context.Context, filter RecordFilter) ([]*model.AdRecord, error) {
	query := `SELECT record FROM ad_records WHERE 1=1`
	var args []any

	if filter.Status != "" {
		query += ` AND status = ?`
		args = append(args, string(filter.Status))
	}
	if filter.AdvertiserID != "" {
		query += ` AND advertiser_id = ?`
		args = append(args, filter.AdvertiserID)
	}
	if filter.Category != "" {
		query += ` AND category = ?`
		args = append(args, string(filter.Category))
	}
	query += ` ORDER BY saved_at DESC, id LIMIT ? OFFSET ?`
	args = append(args, filter.limit(), max(0, filter.Offset))

	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, eris.Wrap(err, "sqlite: list records")
	}
	defer rows.Close() //nolint:errcheck

	var out []*model.AdRecord
	for rows.Next() {
		var data string
		if err := rows.Scan(&data); err != nil {
			return nil, eris.Wrap(err, "sqlite: scan record")
		}
		rec, err := decodeRecord([]byte(data))
		if err != nil {
			return nil, err
		}
		out = append(out, rec)
	}
	return out, eris.Wrap(rows.Err(), "sqlite: list records iterate")
}

func (s *SQLiteStore) GetValidation(ctx context.Context, key string) (*model.ValidationResult, error) {
	var data string
	err := s.db.QueryRowContext(ctx,
		`SELECT result FROM validation_cache WHERE cache_key = ? AND expires_at > ?`,
		key, time.Now().UnixNano(),
	).Scan(&data)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil
		}
		return nil, eris.Wrap(err, "sqlite: get validation")
	}
	var res model.ValidationResult
	if err := json.Unmarshal([]byte(data), &res); err != nil {
		return nil, eris.Wrap(err, "sqlite: unmarshal validation")
	}
	return &res, nil
}

func (s *SQLiteStore) PutValidation(ctx context.Context, key string, res model.ValidationResult, ttl time.Duration) error {
	data, err := json.Marshal(res)
	if err != nil {
		return eris.Wrap(err, "sqlite: marshal validation")
	}
	now := time.Now()
	_, err = s.db.ExecContext(ctx,
		`INSERT INTO validation_cache (cache_key, result, cached_at, expires_at) VALUES (?, ?, ?, ?)
		 ON CONFLICT(cache_key) DO UPDATE SET result = excluded.result, cached_at = excluded.cached_at, expires_at = excluded.expires_at`,
		key, string(data), now.UnixNano(), now.Add(ttl).UnixNano(),
	)
	return eris.Wrap(err, "sqlite: put validation")
}

func (s *SQLiteStore) DeleteExpiredValidations(ctx context.Context) (int, error) {
	res, err := s.db.ExecContext(ctx,
		`DELETE FROM validation_cache WHERE expires_at <= ?`, time.Now().UnixNano())
	if err != nil {
		return 0, eris.Wrap(err, "sqlite: delete expired validations")
	}
	n, err := res.RowsAffected()
	if err != nil {
		return 0, eris.Wrap(err, "sqlite: rows affected")
	}
	return int(n), nil
}

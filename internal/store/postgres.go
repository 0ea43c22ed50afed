package store

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/rotisserie/eris"

	"github.com/sells-group/ad-intel/internal/db"
	"github.com/sells-group/ad-intel/internal/model"
)

// PostgresStore implements Store using pgxpool.
type PostgresStore struct {
	pool    db.Pool
	closeFn func()
}

// PoolConfig holds optional connection pool tuning parameters.
type PoolConfig struct {
	MaxConns int32 `yaml:"max_conns" mapstructure:"max_conns"`
	MinConns int32 `yaml:"min_conns" mapstructure:"min_conns"`
}

// preparedStatements are prepared on each new connection.
var preparedStatements = map[string]string{
	"upsert_record":    postgresUpsertRecord,
	"get_record":       `SELECT record FROM ad_records WHERE id = $1`,
	"get_validation":   `SELECT result FROM validation_cache WHERE cache_key = $1 AND expires_at > now()`,
	"put_validation":   postgresPutValidation,
	"delete_validated": `DELETE FROM validation_cache WHERE expires_at <= now()`,
}

// NewPostgres creates a PostgresStore connected to the given database URL.
func NewPostgres(ctx context.Context, connString string, poolCfg *PoolConfig) (*PostgresStore, error) {
	pgxCfg, err := pgxpool.ParseConfig(connString)
	if err != nil {
		return nil, eris.Wrap(err, "postgres: parse config")
	}

	maxConns, minConns := int32(10), int32(2)
	if poolCfg != nil {
		if poolCfg.MaxConns > 0 {
			maxConns = poolCfg.MaxConns
		}
		if poolCfg.MinConns > 0 {
			minConns = poolCfg.MinConns
		}
	}
	pgxCfg.MaxConns = maxConns
	pgxCfg.MinConns = min(minConns, maxConns)
	pgxCfg.MaxConnLifetime = 30 * time.Minute
	pgxCfg.MaxConnIdleTime = 5 * time.Minute

	pgxCfg.AfterConnect = func(ctx context.Context, conn *pgx.Conn) error {
		for name, sql := range preparedStatements {
			if _, err := conn.Prepare(ctx, name, sql); err != nil {
				return eris.Wrapf(err, "postgres: prepare %s", name)
			}
		}
		return nil
	}

	pool, err := pgxpool.NewWithConfig(ctx, pgxCfg)
	if err != nil {
		return nil, eris.Wrap(err, "postgres: create pool")
	}
	if err := pool.Ping(ctx); err != nil {
		pool.Close()
		return nil, eris.Wrap(err, "postgres: ping")
	}
	return &PostgresStore{pool: pool, closeFn: pool.Close}, nil
}

const postgresMigration = `
CREATE TABLE IF NOT EXISTS ad_records (
	id            TEXT PRIMARY KEY,
	advertiser_id TEXT NOT NULL DEFAULT '',
	status        TEXT NOT NULL,
	category      TEXT NOT NULL DEFAULT '',
	record        JSONB NOT NULL,
	saved_at      TIMESTAMPTZ NOT NULL DEFAULT now()
);

CREATE INDEX IF NOT EXISTS idx_ad_records_status ON ad_records(status);
CREATE INDEX IF NOT EXISTS idx_ad_records_advertiser ON ad_records(advertiser_id);
CREATE INDEX IF NOT EXISTS idx_ad_records_category ON ad_records(category);
CREATE INDEX IF NOT EXISTS idx_ad_records_saved_at ON ad_records(saved_at DESC);

CREATE TABLE IF NOT EXISTS validation_cache (
	cache_key  TEXT PRIMARY KEY,
	result     JSONB NOT NULL,
	cached_at  TIMESTAMPTZ NOT NULL DEFAULT now(),
	expires_at TIMESTAMPTZ NOT NULL
);

CREATE INDEX IF NOT EXISTS idx_validation_cache_expires_at ON validation_cache(expires_at);
`

const postgresUpsertRecord = `INSERT INTO ad_records (id, advertiser_id, status, category, record, saved_at)
VALUES ($1, $2, $3, $4, $5, $6)
ON CONFLICT (id) DO UPDATE SET advertiser_id = $2, status = $3, category = $4, record = $5, saved_at = $6`

const postgresPutValidation = `INSERT INTO validation_cache (cache_key, result, cached_at, expires_at) VALUES ($1, $2, $3, $4)
ON CONFLICT (cache_key) DO UPDATE SET result = $2, cached_at = $3, expires_at = $4`

// recordUpsert merges batches of records; an older copy never replaces a
// newer one.
var recordUpsert = db.UpsertSpec{
	Table:        "ad_records",
	Columns:      []string{"id", "advertiser_id", "status", "category", "record", "saved_at"},
	ConflictKeys: []string{"id"},
	UpdateWhere:  `EXCLUDED."saved_at" >= t."saved_at"`,
}

func (s *PostgresStore) Ping(ctx context.Context) error {
	return eris.Wrap(s.pool.Ping(ctx), "postgres: ping")
}

func (s *PostgresStore) Migrate(ctx context.Context) error {
	_, err := s.pool.Exec(ctx, postgresMigration)
	return eris.Wrap(err, "postgres: migrate")
}

func (s *PostgresStore) Close() error {
	if s.closeFn != nil {
		s.closeFn()
	}
	return nil
}

func (s *PostgresStore) SaveRecord(ctx context.Context, rec *model.AdRecord) error {
	row, err := encodeRecord(rec)
	if err != nil {
		return err
	}
	_, err = s.pool.Exec(ctx, postgresUpsertRecord,
		row.id, row.advertiserID, row.status, row.category, row.record, row.savedAt)
	return eris.Wrapf(err, "postgres: save record %s", row.id)
}

// SaveRecords bulk-loads records through a COPY staging table.
func (s *PostgresStore) SaveRecords(ctx context.Context, recs []*model.AdRecord) (int64, error) {
	rows := make([][]any, 0, len(recs))
	for _, rec := range recs {
		row, err := encodeRecord(rec)
		if err != nil {
			return 0, err
		}
		rows = append(rows, []any{row.id, row.advertiserID, row.status, row.category, row.record, row.savedAt})
	}
	n, err := db.BulkUpsert(ctx, s.pool, recordUpsert, rows)
	return n, eris.Wrap(err, "postgres: save records")
}

func (s *PostgresStore) GetRecord(ctx context.Context, id string) (*model.AdRecord, error) {
	var data []byte
	err := s.pool.QueryRow(ctx, `SELECT record FROM ad_records WHERE id = $1`, id).Scan(&data)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, eris.Wrapf(ErrNotFound, "postgres: record %s", id)
		}
		return nil, eris.Wrapf(err, "postgres: get record %s", id)
	}
	return decodeRecord(data)
}

func (s *PostgresStore) ListRecords(ctx context.Context, filter RecordFilter) ([]*model.AdRecord, error) {
	query := `SELECT record FROM ad_records WHERE true`
	args := []any{}
	argIdx := 1

	if filter.Status != "" {
		query += fmt.Sprintf(` AND status = $%d`, argIdx)
		args = append(args, string(filter.Status))
		argIdx++
	}
	if filter.AdvertiserID != "" {
		query += fmt.Sprintf(` AND advertiser_id = $%d`, argIdx)
		args = append(args, filter.AdvertiserID)
		argIdx++
	}
	if filter.Category != "" {
		query += fmt.Sprintf(` AND category = $%d`, argIdx)
		args = append(args, string(filter.Category))
		argIdx++
	}
	query += fmt.Sprintf(` ORDER BY saved_at DESC, id LIMIT $%d`, argIdx)
	args = append(args, filter.limit())
	argIdx++

	if filter.Offset > 0 {
		query += fmt.Sprintf(` OFFSET $%d`, argIdx)
		args = append(args, filter.Offset)
	}

	rows, err := s.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, eris.Wrap(err, "postgres: list records")
	}
	defer rows.Close()

	var out []*model.AdRecord
	for rows.Next() {
		var data []byte
		if err := rows.Scan(&data); err != nil {
			return nil, eris.Wrap(err, "postgres: scan record")
		}
		rec, err := decodeRecord(data)
		if err != nil {
			return nil, err
		}
		out = append(out, rec)
	}
	return out, eris.Wrap(rows.Err(), "postgres: list records iterate")
}

func (s *PostgresStore) GetValidation(ctx context.Context, key string) (*model.ValidationResult, error) {
	var data []byte
	err := s.pool.QueryRow(ctx,
		`SELECT result FROM validation_cache WHERE cache_key = $1 AND expires_at > now()`,
		key,
	).Scan(&data)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, eris.Wrap(err, "postgres: get validation")
	}
	var res model.ValidationResult
	if err := json.Unmarshal(data, &res); err != nil {
		return nil, eris.Wrap(err, "postgres: unmarshal validation")
	}
	return &res, nil
}

func (s *PostgresStore) PutValidation(ctx context.Context, key string, res model.ValidationResult, ttl time.Duration) error {
	data, err := json.Marshal(res)
	if err != nil {
		return eris.Wrap(err, "postgres: marshal validation")
	}
	now := time.Now().UTC()
	_, err = s.pool.Exec(ctx, postgresPutValidation, key, data, now, now.Add(ttl))
	return eris.Wrap(err, "postgres: put validation")
}

func (s *PostgresStore) DeleteExpiredValidations(ctx context.Context) (int, error) {
	tag, err := s.pool.Exec(ctx, `DELETE FROM validation_cache WHERE expires_at <= now()`)
	if err != nil {
		return 0, eris.Wrap(err, "postgres: delete expired validations")
	}
	return int(tag.RowsAffected()), nil
}

// Package store persists finished ad records and the entity validation cache.
package store

import (
	"context"
	"encoding/json"
	"time"

	"github.com/rotisserie/eris"

	"github.com/sells-group/ad-intel/internal/model"
)

// ErrNotFound is returned when a record does not exist.
var ErrNotFound = eris.New("store: not found")

// RecordFilter specifies criteria for listing records.
type RecordFilter struct {
	Status       model.RecordStatus `json:"status,omitempty"`
	AdvertiserID string             `json:"advertiser_id,omitempty"`
	Category     model.Category     `json:"category,omitempty"`
	Limit        int                `json:"limit,omitempty"`
	Offset       int                `json:"offset,omitempty"`
}

// limit returns the page size, defaulting to 100.
func (f RecordFilter) limit() int {
	if f.Limit <= 0 {
		return 100
	}
	return f.Limit
}

// Store is the persistence interface used by the pipeline and the CLI. It
// satisfies validate.Cache.
type Store interface {
	// Records. Saving an existing id replaces it.
	SaveRecord(ctx context.Context, rec *model.AdRecord) error
	SaveRecords(ctx context.Context, recs []*model.AdRecord) (int64, error)
	GetRecord(ctx context.Context, id string) (*model.AdRecord, error)
	ListRecords(ctx context.Context, filter RecordFilter) ([]*model.AdRecord, error)

	// Validation cache. A miss returns nil, nil.
	GetValidation(ctx context.Context, key string) (*model.ValidationResult, error)
	PutValidation(ctx context.Context, key string, res model.ValidationResult, ttl time.Duration) error
	DeleteExpiredValidations(ctx context.Context) (int, error)

	// Lifecycle
	Migrate(ctx context.Context) error
	Close() error
}

// recordRow is the column projection shared by both drivers.
type recordRow struct {
	id           string
	advertiserID string
	status       string
	category     string
	record       []byte
	savedAt      time.Time
}

func encodeRecord(rec *model.AdRecord) (recordRow, error) {
	if rec == nil || rec.ID == "" {
		return recordRow{}, eris.New("store: record has no id")
	}
	data, err := json.Marshal(rec)
	if err != nil {
		return recordRow{}, eris.Wrapf(err, "store: marshal record %s", rec.ID)
	}
	row := recordRow{
		id:           rec.ID,
		advertiserID: rec.AdvertiserID,
		status:       string(rec.Status),
		record:       data,
		savedAt:      time.Now().UTC(),
	}
	if rec.Category != nil {
		row.category = string(rec.Category.Label)
	}
	return row, nil
}

func decodeRecord(data []byte) (*model.AdRecord, error) {
	var rec model.AdRecord
	if err := json.Unmarshal(data, &rec); err != nil {
		return nil, eris.Wrap(err, "store: unmarshal record")
	}
	return &rec, nil
}

// Open connects to the configured driver ("sqlite" or "postgres") and runs
// migrations.
func Open(ctx context.Context, driver, databaseURL string, pool *PoolConfig) (Store, error) {
	var (
		st  Store
		err error
	)
	switch driver {
	case "", "sqlite":
		st, err = NewSQLite(databaseURL)
	case "postgres":
		st, err = NewPostgres(ctx, databaseURL, pool)
	default:
		return nil, eris.Errorf("store: unknown driver %q", driver)
	}
	if err != nil {
		return nil, err
	}
	if err := st.Migrate(ctx); err != nil {
		st.Close() //nolint:errcheck
		return nil, err
	}
	return st, nil
}

package store

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/pashagolub/pgxmock/v4"
	"github.com/rotisserie/eris"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/sells-group/ad-intel/internal/model"
)

// newMockPostgresStore creates a PostgresStore backed by pgxmock for unit testing.
func newMockPostgresStore(t *testing.T) (*PostgresStore, pgxmock.PgxPoolIface) {
	t.Helper()
	mock, err := pgxmock.NewPool(pgxmock.QueryMatcherOption(pgxmock.QueryMatcherRegexp))
	require.NoError(t, err)
	t.Cleanup(func() { mock.Close() })

	s := &PostgresStore{pool: mock}
	return s, mock
}

func enrichedRecord(id string) *model.AdRecord {
	rec := model.NewAdRecord(model.AdInput{ID: id, AdvertiserID: "adv-9", ExpectedRegion: "QA", Text: "Burger deal tonight"})
	rec.SetCategory(model.CategoryDecision{Label: model.CategoryRestaurant, Confidence: 0.9, Source: model.CategorySourceFastPath})
	rec.Complete(model.RecordStatusEnriched)
	return rec
}

func TestPostgresStore_Migrate(t *testing.T) {
	s, mock := newMockPostgresStore(t)

	mock.ExpectExec(`CREATE TABLE IF NOT EXISTS ad_records`).
		WillReturnResult(pgxmock.NewResult("CREATE", 0))

	require.NoError(t, s.Migrate(context.Background()))
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestPostgresStore_SaveRecord_Upsert(t *testing.T) {
	s, mock := newMockPostgresStore(t)

	mock.ExpectExec(`INSERT INTO ad_records .* ON CONFLICT \(id\) DO UPDATE`).
		WithArgs("ad-1", "adv-9", "enriched", "restaurant", pgxmock.AnyArg(), pgxmock.AnyArg()).
		WillReturnResult(pgxmock.NewResult("INSERT", 1))

	require.NoError(t, s.SaveRecord(context.Background(), enrichedRecord("ad-1")))
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestPostgresStore_SaveRecord_NoID(t *testing.T) {
	s, mock := newMockPostgresStore(t)

	err := s.SaveRecord(context.Background(), &model.AdRecord{})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "record has no id")
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestPostgresStore_SaveRecord_Error(t *testing.T) {
	s, mock := newMockPostgresStore(t)

	mock.ExpectExec(`INSERT INTO ad_records`).
		WithArgs("ad-1", "adv-9", "enriched", "restaurant", pgxmock.AnyArg(), pgxmock.AnyArg()).
		WillReturnError(errors.New("connection reset"))

	err := s.SaveRecord(context.Background(), enrichedRecord("ad-1"))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "save record ad-1")
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestPostgresStore_SaveRecords_Empty(t *testing.T) {
	s, mock := newMockPostgresStore(t)

	n, err := s.SaveRecords(context.Background(), nil)
	require.NoError(t, err)
	assert.Equal(t, int64(0), n)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestPostgresStore_SaveRecords_BeginFails(t *testing.T) {
	s, mock := newMockPostgresStore(t)

	mock.ExpectBegin().WillReturnError(errors.New("too many connections"))

	_, err := s.SaveRecords(context.Background(), []*model.AdRecord{enrichedRecord("ad-1"), enrichedRecord("ad-2")})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "save records")
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestPostgresStore_GetRecord(t *testing.T) {
	s, mock := newMockPostgresStore(t)

	rows := mock.NewRows([]string{"record"}).
		AddRow([]byte(`{"id":"ad-1","advertiser_id":"adv-9","text":"Burger deal","category":{"label":"restaurant","confidence":0.9},"status":"enriched"}`))
	mock.ExpectQuery(`SELECT record FROM ad_records WHERE id = \$1`).
		WithArgs("ad-1").
		WillReturnRows(rows)

	rec, err := s.GetRecord(context.Background(), "ad-1")
	require.NoError(t, err)
	assert.Equal(t, "ad-1", rec.ID)
	assert.Equal(t, model.RecordStatusEnriched, rec.Status)
	require.NotNil(t, rec.Category)
	assert.Equal(t, model.CategoryRestaurant, rec.Category.Label)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestPostgresStore_GetRecord_NotFound(t *testing.T) {
	s, mock := newMockPostgresStore(t)

	mock.ExpectQuery(`SELECT record FROM ad_records WHERE id = \$1`).
		WithArgs("missing").
		WillReturnError(pgx.ErrNoRows)

	_, err := s.GetRecord(context.Background(), "missing")
	require.Error(t, err)
	assert.True(t, eris.Is(err, ErrNotFound))
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestPostgresStore_ListRecords_Filters(t *testing.T) {
	s, mock := newMockPostgresStore(t)

	rows := mock.NewRows([]string{"record"}).
		AddRow([]byte(`{"id":"ad-2","status":"enriched"}`)).
		AddRow([]byte(`{"id":"ad-1","status":"enriched"}`))
	mock.ExpectQuery(`SELECT record FROM ad_records WHERE true AND status = \$1 AND advertiser_id = \$2 AND category = \$3 ORDER BY saved_at DESC, id LIMIT \$4 OFFSET \$5`).
		WithArgs("enriched", "adv-9", "restaurant", 25, 50).
		WillReturnRows(rows)

	recs, err := s.ListRecords(context.Background(), RecordFilter{
		Status:       model.RecordStatusEnriched,
		AdvertiserID: "adv-9",
		Category:     model.CategoryRestaurant,
		Limit:        25,
		Offset:       50,
	})
	require.NoError(t, err)
	require.Len(t, recs, 2)
	assert.Equal(t, "ad-2", recs[0].ID)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestPostgresStore_ListRecords_DefaultLimit(t *testing.T) {
	s, mock := newMockPostgresStore(t)

	mock.ExpectQuery(`SELECT record FROM ad_records WHERE true ORDER BY saved_at DESC, id LIMIT \$1$`).
		WithArgs(100).
		WillReturnRows(mock.NewRows([]string{"record"}))

	recs, err := s.ListRecords(context.Background(), RecordFilter{})
	require.NoError(t, err)
	assert.Empty(t, recs)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestPostgresStore_GetValidation_Miss(t *testing.T) {
	s, mock := newMockPostgresStore(t)

	mock.ExpectQuery(`SELECT result FROM validation_cache`).
		WithArgs("unknown brand").
		WillReturnError(pgx.ErrNoRows)

	res, err := s.GetValidation(context.Background(), "unknown brand")
	require.NoError(t, err)
	assert.Nil(t, res)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestPostgresStore_GetValidation_Hit(t *testing.T) {
	s, mock := newMockPostgresStore(t)

	mock.ExpectQuery(`SELECT result FROM validation_cache WHERE cache_key = \$1 AND expires_at > now\(\)`).
		WithArgs("nutribullet").
		WillReturnRows(mock.NewRows([]string{"result"}).
			AddRow([]byte(`{"entity":"NutriBullet","category":"home_appliances","product_type":"kitchen_appliance","confidence":0.85,"cacheable":true}`)))

	res, err := s.GetValidation(context.Background(), "nutribullet")
	require.NoError(t, err)
	require.NotNil(t, res)
	assert.Equal(t, "NutriBullet", res.Entity)
	assert.Equal(t, "kitchen_appliance", res.ProductType)
	assert.InDelta(t, 0.85, res.Confidence, 1e-9)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestPostgresStore_PutValidation_Upsert(t *testing.T) {
	s, mock := newMockPostgresStore(t)

	mock.ExpectExec(`ON CONFLICT \(cache_key\)`).
		WithArgs("nutribullet", pgxmock.AnyArg(), pgxmock.AnyArg(), pgxmock.AnyArg()).
		WillReturnResult(pgxmock.NewResult("INSERT", 1))

	err := s.PutValidation(context.Background(), "nutribullet", model.ValidationResult{Entity: "NutriBullet"}, 24*time.Hour)
	require.NoError(t, err)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestPostgresStore_DeleteExpiredValidations(t *testing.T) {
	s, mock := newMockPostgresStore(t)

	mock.ExpectExec(`DELETE FROM validation_cache WHERE expires_at <= now\(\)`).
		WillReturnResult(pgxmock.NewResult("DELETE", 3))

	n, err := s.DeleteExpiredValidations(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 3, n)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestPostgresStore_Close(t *testing.T) {
	called := false
	s := &PostgresStore{closeFn: func() { called = true }}
	require.NoError(t, s.Close())
	assert.True(t, called)
}

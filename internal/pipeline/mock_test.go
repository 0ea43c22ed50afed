package pipeline

import (
	"context"
	"time"

	"github.com/stretchr/testify/mock"

	"github.com/sells-group/ad-intel/internal/model"
	"github.com/sells-group/ad-intel/internal/store"
	"github.com/sells-group/ad-intel/pkg/jina"
)

type mockStore struct {
	mock.Mock
}

func (m *mockStore) SaveRecord(ctx context.Context, rec *model.AdRecord) error {
	return m.Called(ctx, rec).Error(0)
}

func (m *mockStore) SaveRecords(ctx context.Context, recs []*model.AdRecord) (int64, error) {
	args := m.Called(ctx, recs)
	return args.Get(0).(int64), args.Error(1)
}

func (m *mockStore) GetRecord(ctx context.Context, id string) (*model.AdRecord, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.AdRecord), args.Error(1)
}

func (m *mockStore) ListRecords(ctx context.Context, filter store.RecordFilter) ([]*model.AdRecord, error) {
	args := m.Called(ctx, filter)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*model.AdRecord), args.Error(1)
}

func (m *mockStore) GetValidation(ctx context.Context, key string) (*model.ValidationResult, error) {
	args := m.Called(ctx, key)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.ValidationResult), args.Error(1)
}

func (m *mockStore) PutValidation(ctx context.Context, key string, res model.ValidationResult, ttl time.Duration) error {
	return m.Called(ctx, key, res, ttl).Error(0)
}

func (m *mockStore) DeleteExpiredValidations(ctx context.Context) (int, error) {
	args := m.Called(ctx)
	return args.Int(0), args.Error(1)
}

func (m *mockStore) Migrate(ctx context.Context) error {
	return m.Called(ctx).Error(0)
}

func (m *mockStore) Close() error {
	return m.Called().Error(0)
}

type mockSearch struct {
	mock.Mock
}

func (m *mockSearch) Search(ctx context.Context, query string, opts ...jina.SearchOption) (*jina.SearchResponse, error) {
	args := m.Called(ctx, query)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*jina.SearchResponse), args.Error(1)
}

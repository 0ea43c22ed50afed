package validate

import (
	"context"
	"time"

	"github.com/stretchr/testify/mock"

	"github.com/sells-group/ad-intel/internal/llm"
	"github.com/sells-group/ad-intel/internal/model"
	"github.com/sells-group/ad-intel/pkg/jina"
)

type mockLookup struct {
	mock.Mock
}

func (m *mockLookup) Lookup(ctx context.Context, name string) (model.ValidationResult, error) {
	args := m.Called(ctx, name)
	return args.Get(0).(model.ValidationResult), args.Error(1)
}

type mockCache struct {
	mock.Mock
}

func (m *mockCache) GetValidation(ctx context.Context, key string) (*model.ValidationResult, error) {
	args := m.Called(ctx, key)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.ValidationResult), args.Error(1)
}

func (m *mockCache) PutValidation(ctx context.Context, key string, res model.ValidationResult, ttl time.Duration) error {
	args := m.Called(ctx, key, res, ttl)
	return args.Error(0)
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

type mockGenerator struct {
	mock.Mock
}

func (m *mockGenerator) Generate(ctx context.Context, req llm.Request) llm.Result {
	args := m.Called(ctx, req)
	return args.Get(0).(llm.Result)
}

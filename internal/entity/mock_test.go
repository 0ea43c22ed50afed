package entity

import (
	"context"

	"github.com/stretchr/testify/mock"

	"github.com/sells-group/ad-intel/internal/model"
)

type mockExternalResolver struct {
	mock.Mock
}

func (m *mockExternalResolver) Resolve(ctx context.Context, text string) ([]model.EntityMatch, error) {
	args := m.Called(ctx, text)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]model.EntityMatch), args.Error(1)
}

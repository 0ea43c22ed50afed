package category

import (
	"context"

	"github.com/stretchr/testify/mock"

	"github.com/sells-group/ad-intel/internal/llm"
)

type mockGenerator struct {
	mock.Mock
}

func (m *mockGenerator) Generate(ctx context.Context, req llm.Request) llm.Result {
	args := m.Called(ctx, req)
	return args.Get(0).(llm.Result)
}

func okResult(text string) llm.Result {
	return llm.Result{OK: true, Text: text}
}

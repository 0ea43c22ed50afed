package entity

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/sells-group/ad-intel/internal/llm"
	"github.com/sells-group/ad-intel/internal/model"
)

func stubGenerator(text string, err error) llm.Generator {
	return llm.GeneratorFunc(func(context.Context, llm.Request) llm.Result {
		if err != nil {
			return llm.Failed(err)
		}
		return llm.Result{OK: true, Text: text}
	})
}

func TestGeneratorResolver_Resolve(t *testing.T) {
	var seen llm.Request
	gen := llm.GeneratorFunc(func(_ context.Context, req llm.Request) llm.Result {
		seen = req
		return llm.Result{OK: true, Text: "```json\n{\"brands\": [{\"name\": \"Golden Spoon\", \"type\": \"restaurant\", \"confidence\": 0.8}, {\"name\": \" \", \"confidence\": 0.9}, {\"name\": \"Zeta\", \"type\": \"spaceship\"}]}\n```"}
	})

	ms, err := NewGeneratorResolver(gen).Resolve(context.Background(), "Try the new Golden Spoon platter")
	require.NoError(t, err)
	require.Len(t, ms, 2)

	assert.Equal(t, "entity", seen.Stage)
	assert.Contains(t, seen.Prompt, "Golden Spoon platter")

	assert.Equal(t, "Golden Spoon", ms[0].Name)
	assert.Equal(t, model.EntityRestaurant, ms[0].EntityType)
	assert.InDelta(t, 0.8, ms[0].Confidence, 0.0001)
	assert.Equal(t, 12, ms[0].Position)

	assert.Equal(t, "Zeta", ms[1].Name)
	assert.Empty(t, ms[1].EntityType)
	assert.InDelta(t, 0.7, ms[1].Confidence, 0.0001)
	assert.Equal(t, 0, ms[1].Position)
}

func TestGeneratorResolver_Failures(t *testing.T) {
	_, err := NewGeneratorResolver(stubGenerator("", llm.ErrDisabled)).Resolve(context.Background(), "x")
	assert.ErrorIs(t, err, llm.ErrDisabled)

	_, err = NewGeneratorResolver(stubGenerator("I cannot tell.", nil)).Resolve(context.Background(), "x")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "entity: parse brand answer")
}

func TestExtract_WithGeneratorResolver(t *testing.T) {
	r := newResolver(t, Options{External: NewGeneratorResolver(stubGenerator(`{"brands":[{"name":"Pizza Hut","confidence":0.95}]}`, nil))})

	res := r.Extract(context.Background(), "zzz qqq", nil)

	require.Len(t, res.Matches, 1)
	assert.Equal(t, "Pizza Hut", res.Matches[0].Name)
	assert.Equal(t, model.SourceExternalResolver, res.Matches[0].Source)
	assert.Equal(t, 0.90, res.Matches[0].Confidence)
}

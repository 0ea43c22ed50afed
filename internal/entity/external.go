package entity

import (
	"context"
	"fmt"
	"strings"

	"github.com/rotisserie/eris"

	"github.com/sells-group/ad-intel/internal/llm"
	"github.com/sells-group/ad-intel/internal/model"
)

const brandSystemPrompt = `You read advertisement text (English or Arabic) and name the brand, restaurant or merchant being advertised.
Name the main brand only, never a menu item or product line ("McDonald's", not "McDonald's Big Mac").
Delivery apps that merely carry the ad are not the advertiser.
Return ONLY JSON: {"brands": [{"name": "...", "type": "restaurant|electronics|fashion|beauty|grocery|pharmacy|product|...", "confidence": 0.0-1.0}]}
Return {"brands": []} when no brand is named.`

// GeneratorResolver asks a generative model for the advertised brand.
type GeneratorResolver struct {
	gen llm.Generator
}

// NewGeneratorResolver wraps gen as an ExternalResolver.
func NewGeneratorResolver(gen llm.Generator) *GeneratorResolver {
	return &GeneratorResolver{gen: gen}
}

type brandAnswer struct {
	Brands []struct {
		Name       string  `json:"name"`
		Type       string  `json:"type"`
		Confidence float64 `json:"confidence"`
	} `json:"brands"`
}

// Resolve implements ExternalResolver.
func (g *GeneratorResolver) Resolve(ctx context.Context, text string) ([]model.EntityMatch, error) {
	res := g.gen.Generate(ctx, llm.Request{
		Stage:       string(model.StageEntity),
		System:      brandSystemPrompt,
		Prompt:      fmt.Sprintf("Advertisement text:\n%s", truncateRunes(text, 1000)),
		MaxTokens:   200,
		Temperature: llm.Temperature(0),
	})
	if !res.OK {
		return nil, res.Err
	}

	ans, err := llm.Decode[brandAnswer](res.Text)
	if err != nil {
		return nil, eris.Wrap(err, "entity: parse brand answer")
	}

	var out []model.EntityMatch
	lower := strings.ToLower(text)
	for _, b := range ans.Brands {
		name := strings.TrimSpace(b.Name)
		if name == "" || len(name) > 50 {
			continue
		}
		m := model.EntityMatch{
			Name:        name,
			Confidence:  b.Confidence,
			Alias:       name,
			EntityType:  model.EntityType(strings.ToLower(b.Type)),
			Occurrences: 1,
		}
		if !m.EntityType.Valid() {
			m.EntityType = ""
		}
		if m.Confidence <= 0 {
			m.Confidence = 0.7
		}
		m.Position = max(0, strings.Index(lower, strings.ToLower(name)))
		out = append(out, m)
	}
	return out, nil
}

func truncateRunes(s string, n int) string {
	r := []rune(s)
	if len(r) <= n {
		return s
	}
	return string(r[:n])
}

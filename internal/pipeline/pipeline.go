// Package pipeline runs the ad classification stages over one record or a
// batch of records.
package pipeline

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/rotisserie/eris"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/sells-group/ad-intel/internal/catalog"
	"github.com/sells-group/ad-intel/internal/category"
	"github.com/sells-group/ad-intel/internal/config"
	"github.com/sells-group/ad-intel/internal/cost"
	"github.com/sells-group/ad-intel/internal/entity"
	"github.com/sells-group/ad-intel/internal/llm"
	"github.com/sells-group/ad-intel/internal/model"
	"github.com/sells-group/ad-intel/internal/region"
	"github.com/sells-group/ad-intel/internal/resilience"
	"github.com/sells-group/ad-intel/internal/scorer"
	"github.com/sells-group/ad-intel/internal/store"
	"github.com/sells-group/ad-intel/internal/validate"
	"github.com/sells-group/ad-intel/pkg/jina"
)

// Deps are the external collaborators of a Pipeline. Any of them may be nil.
type Deps struct {
	// Generator backs every generative fallback. nil disables them.
	Generator llm.Generator
	// Search backs the web validation lookup. nil disables the lookup.
	Search jina.Client
	// Store receives finished records and caches lookups. nil disables both.
	Store store.Store
	// Warnings from catalog loading are copied into every record's evidence.
	Warnings []string
}

// Pipeline wires the stages together. It is safe for concurrent use; all
// per-ad state lives on the AdRecord.
type Pipeline struct {
	set        *catalog.Set
	gate       *region.Gatekeeper
	resolver   *entity.Resolver
	subs       *scorer.SubscriptionDetector
	classifier *category.Classifier
	arbiter    *validate.Arbiter
	food       *scorer.FoodClassifier
	offers     *scorer.OfferExtractor
	audience   *scorer.AudienceScorer
	themes     *scorer.ThemeScorer
	store      store.Store
	warnings   []string

	scorerTimeout time.Duration
	concurrency   int
	stats         Stats
}

// New builds a Pipeline over the catalog set. It fails only when the
// scoring tables are inconsistent.
func New(cfg *config.Config, set *catalog.Set, deps Deps) (*Pipeline, error) {
	if err := scorer.ValidateTables(set.Scoring, set.Subscriptions); err != nil {
		return nil, eris.Wrap(err, "pipeline: invalid catalog")
	}

	p := &Pipeline{
		set:           set,
		store:         deps.Store,
		warnings:      deps.Warnings,
		scorerTimeout: time.Duration(cfg.Pipeline.ScorerTimeoutSecs) * time.Second,
		concurrency:   cfg.Batch.Concurrency,
	}
	if p.scorerTimeout <= 0 {
		p.scorerTimeout = 60 * time.Second
	}
	if p.concurrency <= 0 {
		p.concurrency = 1
	}

	// A nil generator turns every generative fallback off.
	var gen llm.Generator
	if llm.Enabled(deps.Generator) {
		modelName := cfg.Anthropic.Model
		if cfg.LLM.Provider == "perplexity" {
			modelName = cfg.Perplexity.Model
		}
		gen = countingGenerator{
			gen:      deps.Generator,
			stats:    &p.stats,
			calc:     cost.NewCalculator(cost.RatesFromConfig(cfg.Pricing)),
			provider: cfg.LLM.Provider,
			model:    modelName,
		}
	}
	fb := cfg.Pipeline.LLMFallback

	var external entity.ExternalResolver
	if fb.Entity && gen != nil {
		external = entity.NewGeneratorResolver(gen)
	}

	var lookup validate.Lookup
	if deps.Search != nil && gen != nil && cfg.Pipeline.WebValidation {
		var cache validate.Cache
		if deps.Store != nil {
			cache = deps.Store
		}
		r := cfg.LLM.Retry
		breakers := resilience.NewServiceBreakers(
			resilience.NewCircuitBreakerConfig(cfg.LLM.Circuit.FailureThreshold, cfg.LLM.Circuit.CooldownSecs))
		lookup = validate.NewWebLookup(deps.Search, gen, cache, validate.WebLookupOptions{
			Country:  cfg.Jina.Country,
			CacheTTL: time.Duration(cfg.Pipeline.ValidationCacheTTLHours) * time.Hour,
			Retry:    resilience.NewRetryConfig("jina", r.MaxAttempts, r.InitialBackoffMs, r.MaxBackoffMs),
			Breaker:  breakers.Get("jina"),
		})
	}

	p.gate = region.NewGatekeeper(set.Regions, set.Scripts, cfg.Region.Default)
	p.resolver = entity.NewResolver(set.Entities, set.Discovery, entity.Options{
		FuzzyThreshold: cfg.Pipeline.FuzzyThreshold,
		AlwaysDiscover: cfg.Pipeline.AlwaysDiscover,
		External:       external,
	})
	p.subs = scorer.NewSubscriptionDetector(set.Subscriptions)
	p.classifier = category.NewClassifier(set.Keywords, gen, category.Options{LLMFallback: fb.Category})
	p.arbiter = validate.NewArbiter(lookup, validate.Options{
		Threshold:         cfg.Pipeline.WebValidationThreshold,
		OverrideThreshold: cfg.Pipeline.WebOverrideThreshold,
		Timeout:           time.Duration(cfg.Pipeline.LookupTimeoutSecs) * time.Second,
	})
	p.food = scorer.NewFoodClassifier(set.Scoring, gen, fb.Food)
	p.offers = scorer.NewOfferExtractor(gen, fb.Offer)
	p.audience = scorer.NewAudienceScorer(set.Scoring, gen, fb.Audience)
	p.themes = scorer.NewThemeScorer(set.Scoring)
	return p, nil
}

// Stats returns the pipeline's counters.
func (p *Pipeline) Stats() StatsSnapshot {
	return p.stats.Snapshot()
}

// Run classifies one ad and persists the record when a store is configured.
// It returns an error only when ctx is cancelled; the partial record is still
// returned.
func (p *Pipeline) Run(ctx context.Context, in model.AdInput) (*model.AdRecord, error) {
	if err := ctx.Err(); err != nil {
		return nil, eris.Wrap(err, "pipeline: run")
	}
	rec := p.process(ctx, in)
	if err := ctx.Err(); err != nil {
		return rec, eris.Wrapf(err, "pipeline: run %s", rec.ID)
	}
	if p.store != nil {
		if err := p.store.SaveRecord(ctx, rec); err != nil {
			p.stats.StoreFailures.Add(1)
			zap.L().Error("pipeline: save record failed", zap.String("ad_id", rec.ID), zap.Error(err))
		}
	}
	return rec, nil
}

func (p *Pipeline) process(ctx context.Context, in model.AdInput) *model.AdRecord {
	rec := model.NewAdRecord(in, p.set.Advertisers.Expected(in.AdvertiserID)...)
	if rec.ID == "" {
		rec.ID = uuid.New().String()
	}
	for _, w := range p.warnings {
		rec.AddEvidence(model.StagePipeline, w, 0)
	}
	p.stats.Processed.Add(1)
	log := zap.L().With(zap.String("ad_id", rec.ID))

	if !p.checkRegion(rec) {
		log.Info("pipeline: record rejected by region gate",
			zap.String("detected", rec.Region.Detected),
			zap.String("expected", rec.Region.Expected),
		)
		rec.Complete(model.RecordStatusRejected)
		return rec
	}

	p.guard(rec, model.StageEntity, func() {
		p.resolver.Extract(ctx, rec.Text, rec.ExpectedEntities).Apply(rec)
	}, func() {
		rec.Entities = []model.EntityMatch{}
		rec.SetFlag(model.FlagEntityNotFound, true)
	})

	p.guard(rec, model.StageSubscription, func() {
		dec := p.subs.Detect(rec.AdvertiserID, rec.Text)
		rec.Subscription = &dec
		if dec.Flagged {
			rec.SetFlag(model.FlagSubscriptionDetected, true)
		}
		if dec.Branding || dec.Confidence > 0 {
			rec.AddEvidence(model.StageSubscription, subscriptionNote(dec), dec.Confidence)
		}
	}, func() {
		rec.Subscription = &model.SubscriptionDecision{Signals: []string{}}
	})

	p.guard(rec, model.StageCategory, func() {
		out := p.classifier.Classify(ctx, category.Input{
			Text:         rec.Text,
			Matches:      rec.Entities,
			Subscription: rec.Subscription,
		})
		out.Apply(rec)
		if out.FastPath() {
			p.stats.FastPathWins.Add(1)
		}
	}, func() {
		rec.SetCategory(model.CategoryDecision{
			Label:      model.CategoryRestaurant,
			Confidence: 0.4,
			Signals:    []string{"stage_failure"},
			Source:     model.CategorySourceHeuristic,
		})
	})

	p.guard(rec, model.StageArbiter, func() {
		v := p.arbiter.Arbitrate(ctx, rec)
		if v.Invoked {
			p.stats.WebValidations.Add(1)
		}
		if v.Overridden {
			p.stats.WebOverrides.Add(1)
		}
	}, func() {})

	if rec.Category != nil && rec.Category.Label == model.CategoryRestaurant {
		p.guard(rec, model.StageFoodCategory, func() {
			var brand string
			if top, ok := rec.TopEntity(); ok {
				brand = top.Name
			}
			dec := p.food.Classify(ctx, rec.Text, brand)
			rec.FoodCategory = &dec
			rec.AddEvidence(model.StageFoodCategory,
				fmt.Sprintf("cuisine %s: %s", dec.Label, dec.Reasoning), dec.Confidence)
		}, func() {
			rec.FoodCategory = &model.FoodCategoryDecision{
				Label:      catalog.MixedCuisine,
				Confidence: 0.3,
				Signals:    []string{"stage_failure"},
			}
		})
	}

	p.guard(rec, model.StageOffer, func() {
		dec := p.offers.Extract(ctx, rec.Text)
		rec.Offer = &dec
		rec.AddEvidence(model.StageOffer, fmt.Sprintf("offer %s: %s", dec.Type, dec.Details), dec.Confidence)
	}, func() {
		rec.Offer = &model.OfferDecision{Type: model.OfferNone, Confidence: 0.3, Signals: []string{"stage_failure"}}
	})

	p.scoreAudienceAndTheme(ctx, rec)

	rec.Complete(model.RecordStatusEnriched)
	log.Debug("pipeline: record enriched",
		zap.String("category", string(rec.Category.Label)),
		zap.Int("evidence", len(rec.Evidence)),
	)
	return rec
}

// checkRegion runs the gate and reports whether processing may continue.
func (p *Pipeline) checkRegion(rec *model.AdRecord) bool {
	p.guard(rec, model.StageRegion, func() {
		dec := p.gate.Validate(rec.Text, rec.ExpectedRegion)
		rec.Region = &dec
	}, func() {
		rec.Region = &model.RegionDecision{
			Detected:   rec.ExpectedRegion,
			Expected:   rec.ExpectedRegion,
			Confidence: 0.4,
			Signals:    []string{"stage_failure"},
			Valid:      true,
		}
	})

	dec := rec.Region
	if dec.Valid {
		rec.AddEvidence(model.StageRegion,
			fmt.Sprintf("region %s accepted (%s)", dec.Detected, strings.Join(dec.Signals, ", ")), dec.Confidence)
		return true
	}
	p.stats.RegionRejected.Add(1)
	rec.SetFlag(model.FlagRejectedWrongRegion, true)
	reason := strings.Join(dec.Mismatches, "; ")
	if reason == "" {
		reason = strings.Join(dec.Signals, ", ")
	}
	rec.AddEvidence(model.StageRegion, fmt.Sprintf("rejected: detected %s: %s", dec.Detected, reason), dec.Confidence)
	return false
}

// scoreAudienceAndTheme runs the two scorers side by side. Each has its own
// timeout; a failure leaves that slot with a fallback decision.
func (p *Pipeline) scoreAudienceAndTheme(ctx context.Context, rec *model.AdRecord) {
	text, cat, offer := rec.Text, rec.Category, rec.Offer

	g := new(errgroup.Group)
	g.SetLimit(2)

	g.Go(func() error {
		dec, err := runBounded(ctx, p.scorerTimeout, func(tctx context.Context) model.AudienceDecision {
			return p.audience.Score(tctx, text, cat, offer)
		})
		if err != nil {
			p.taskFailed(rec, model.StageAudience, err)
			dec = model.AudienceDecision{Segment: scorer.GeneralAudience, Confidence: 0.3, Signals: []string{"scorer_failure"}}
		} else {
			rec.AddEvidence(model.StageAudience, fmt.Sprintf("audience %s (%s)", dec.Segment, dec.Category), dec.Confidence)
		}
		rec.SetAudience(dec)
		return nil
	})

	g.Go(func() error {
		dec, err := runBounded(ctx, p.scorerTimeout, func(context.Context) model.ThemeDecision {
			return p.themes.Score(text, cat, offer)
		})
		if err != nil {
			p.taskFailed(rec, model.StageTheme, err)
			dec = model.ThemeDecision{Theme: scorer.GeneralTheme, Confidence: 0.3, Signals: []string{"scorer_failure"}}
		} else {
			rec.AddEvidence(model.StageTheme, "theme "+dec.Theme, dec.Confidence)
		}
		rec.SetTheme(dec)
		return nil
	})

	_ = g.Wait()
}

func (p *Pipeline) taskFailed(rec *model.AdRecord, stage model.Stage, err error) {
	p.stats.StageFailures.Add(1)
	zap.L().Warn("pipeline: scorer failed",
		zap.String("ad_id", rec.ID),
		zap.String("stage", string(stage)),
		zap.Error(err),
	)
	rec.AddEvidence(stage, fmt.Sprintf("scorer failed: %v; using fallback", err), 0)
}

func subscriptionNote(dec model.SubscriptionDecision) string {
	if dec.Flagged {
		return fmt.Sprintf("%s %s subscription detected", dec.Platform, dec.Program)
	}
	return dec.Reasoning
}

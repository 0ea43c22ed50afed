package pipeline

import (
	"context"

	"github.com/rotisserie/eris"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/sells-group/ad-intel/internal/model"
)

// BatchOptions tunes RunBatch.
type BatchOptions struct {
	// Concurrency caps parallel runs. 0 uses the configured batch concurrency.
	Concurrency int
	// Persist bulk-saves the finished records when a store is configured.
	Persist bool
	// OnRecord, when set, is called with each finished record as soon as it
	// completes. It may be called from several goroutines at once.
	OnRecord func(*model.AdRecord)
}

// RunBatch classifies every input on a bounded worker pool. Records come back
// in input order. Only cancellation stops the batch early; the records
// finished so far are still returned.
func (p *Pipeline) RunBatch(ctx context.Context, inputs []model.AdInput, opts BatchOptions) ([]*model.AdRecord, error) {
	concurrency := opts.Concurrency
	if concurrency <= 0 {
		concurrency = p.concurrency
	}
	zap.L().Info("pipeline: processing batch",
		zap.Int("ads", len(inputs)),
		zap.Int("concurrency", concurrency),
	)

	records := make([]*model.AdRecord, len(inputs))
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(concurrency)

	for i, in := range inputs {
		g.Go(func() error {
			if err := gctx.Err(); err != nil {
				return err
			}
			rec := p.process(gctx, in)
			records[i] = rec
			if opts.OnRecord != nil {
				opts.OnRecord(rec)
			}
			return gctx.Err()
		})
	}
	waitErr := g.Wait()

	done := make([]*model.AdRecord, 0, len(records))
	for _, rec := range records {
		if rec != nil {
			done = append(done, rec)
		}
	}

	if opts.Persist && p.store != nil && len(done) > 0 {
		// The batch context may already be cancelled; finish the write.
		n, err := p.store.SaveRecords(context.WithoutCancel(ctx), done)
		if err != nil {
			p.stats.StoreFailures.Add(int64(len(done)))
			zap.L().Error("pipeline: save batch failed", zap.Int("records", len(done)), zap.Error(err))
		} else {
			zap.L().Info("pipeline: batch saved", zap.Int64("rows", n))
		}
	}

	if waitErr != nil {
		return done, eris.Wrap(waitErr, "pipeline: batch")
	}
	snap := p.stats.Snapshot()
	zap.L().Info("pipeline: batch complete",
		zap.Int("records", len(done)),
		zap.Int64("region_rejected", snap.RegionRejected),
		zap.Int64("fast_path_wins", snap.FastPathWins),
		zap.Int64("llm_calls", snap.LLMCalls),
	)
	return done, nil
}

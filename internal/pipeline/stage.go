package pipeline

import (
	"context"
	"fmt"
	"time"

	"github.com/rotisserie/eris"
	"go.uber.org/zap"

	"github.com/sells-group/ad-intel/internal/model"
)

// guard runs one sequential stage. A panic is logged, recorded as evidence
// and replaced by the stage's fallback.
func (p *Pipeline) guard(rec *model.AdRecord, stage model.Stage, fn func(), fallback func()) {
	defer func() {
		if r := recover(); r != nil {
			p.stats.StageFailures.Add(1)
			zap.L().Error("pipeline: stage panicked",
				zap.String("ad_id", rec.ID),
				zap.String("stage", string(stage)),
				zap.Any("panic", r),
			)
			rec.AddEvidence(stage, fmt.Sprintf("stage failed: %v; using fallback", r), 0)
			fallback()
		}
	}()
	fn()
}

type outcome[T any] struct {
	val T
	err error
}

// runBounded runs fn under its own timeout. A timeout or panic returns an
// error; a late result is discarded.
func runBounded[T any](ctx context.Context, timeout time.Duration, fn func(context.Context) T) (T, error) {
	tctx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	done := make(chan outcome[T], 1)
	go func() {
		defer func() {
			if r := recover(); r != nil {
				done <- outcome[T]{err: eris.Errorf("pipeline: task panicked: %v", r)}
			}
		}()
		done <- outcome[T]{val: fn(tctx)}
	}()

	select {
	case out := <-done:
		return out.val, out.err
	case <-tctx.Done():
		var zero T
		return zero, eris.Wrap(tctx.Err(), "pipeline: task did not finish")
	}
}

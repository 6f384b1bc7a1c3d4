package usecase

import (
	"context"
	"sync"

	"github.com/sourcegraph/conc"
	"github.com/sourcegraph/conc/panics"
	"go.opentelemetry.io/otel/attribute"

	"github.com/riskibarqy/matchlens/internal/platform/logging"
)

// Runner runs page I/O off the event path. Each task is its own failure
// scope: an error or panic is logged and never reaches other tasks.
type Runner struct {
	ctx    context.Context
	wg     conc.WaitGroup
	logger *logging.Logger
}

func NewRunner(ctx context.Context, logger *logging.Logger) *Runner {
	if logger == nil {
		logger = logging.Default()
	}
	return &Runner{ctx: ctx, logger: logger}
}

func (r *Runner) Go(scope string, task func(ctx context.Context) error) {
	r.wg.Go(func() {
		ctx, span := startUsecaseSpan(r.ctx, "usecase.Runner."+scope, attribute.String("page.scope", scope))
		defer span.End()

		var catcher panics.Catcher
		catcher.Try(func() {
			if err := task(ctx); err != nil {
				span.RecordError(err)
				r.logger.DebugContext(ctx, "page task finished with error", "scope", scope, "error", err)
			}
		})
		if recovered := catcher.Recovered(); recovered != nil {
			r.logger.ErrorContext(ctx, "page task panicked", "scope", scope, "error", recovered.AsError())
		}
	})
}

// Wait blocks until every task, including tasks scheduled by running tasks, is done.
func (r *Runner) Wait() {
	r.wg.Wait()
}

// tokens hands out a generation per UI slot so a response can tell whether
// a newer request for the same slot has been issued since.
type tokens struct {
	mu  sync.Mutex
	gen map[string]uint64
}

func newTokens() *tokens {
	return &tokens{gen: make(map[string]uint64)}
}

func (t *tokens) next(slot string) uint64 {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.gen[slot]++
	return t.gen[slot]
}

func (t *tokens) current(slot string, token uint64) bool {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.gen[slot] == token
}

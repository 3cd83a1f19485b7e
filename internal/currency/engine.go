package currency

import (
	"context"
	"strings"

	"go.uber.org/zap"
)

// Engine builds the session rate table. Build never fails: a missing or
// failing fetcher yields flat parity over the supported currencies.
type Engine struct {
	fetcher   Fetcher
	supported []string
	log       *zap.SugaredLogger
}

// NewEngine creates an engine. A nil fetcher means offline.
func NewEngine(f Fetcher, supported []string, log *zap.SugaredLogger) *Engine {
	if log == nil {
		log = zap.NewNop().Sugar()
	}
	return &Engine{fetcher: f, supported: append([]string(nil), supported...), log: log}
}

// Build returns rates relative to base.
func (e *Engine) Build(ctx context.Context, base string) RateTable {
	if e.fetcher == nil {
		e.log.Infow("rates offline, using flat parity", "base", strings.ToLower(base))
		return Parity(base, e.supported)
	}
	rt, err := e.fetcher.Fetch(ctx, base)
	if err != nil {
		e.log.Warnw("rate fetch failed, using flat parity", "base", strings.ToLower(base), "error", err)
		rt = Parity(base, e.supported)
		rt.Degraded = true
		return rt
	}
	return rt
}

package scanner

import (
	"context"
	"log/slog"

	"vvnews/internal/domain"
)

// Strategy is one alternative extraction technique. Strategies share a
// single signature so an adapter's fallback order is a first-class list
// instead of nested error handling.
type Strategy struct {
	Name string
	Run  func(ctx context.Context, req Request) ([]Candidate, error)
}

// RunChain tries strategies in order until one yields candidates. A strategy
// error abandons that strategy in favor of the next one; it is kept only if
// the whole chain comes up empty, so "found nothing" stays distinguishable
// from "everything broke".
func RunChain(ctx context.Context, src domain.Source, req Request, log *slog.Logger, strategies []Strategy) Result {
	var lastErr error
	for _, s := range strategies {
		if ctx.Err() != nil {
			return Result{Source: src, Err: ctx.Err()}
		}
		cands, err := s.Run(ctx, req)
		if err != nil {
			lastErr = err
			if log != nil {
				log.Warn("strategy failed", "source", src, "strategy", s.Name, "error", err)
			}
			continue
		}
		if len(cands) == 0 {
			if log != nil {
				log.Debug("strategy empty", "source", src, "strategy", s.Name)
			}
			continue
		}
		cands = Cap(DedupeCandidates(cands), req.Limit)
		if log != nil {
			log.Debug("strategy hit", "source", src, "strategy", s.Name, "count", len(cands))
		}
		return Result{Source: src, Candidates: cands}
	}
	return Result{Source: src, Err: lastErr}
}

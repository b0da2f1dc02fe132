package scanner

import (
	"context"
	"fmt"
	"time"

	"vvnews/internal/domain"
)

// Request carries all parameters required to execute one source fetch.
type Request struct {
	Keyword string
	Now     time.Time
	Window  time.Duration
	Limit   int
}

// Threshold is the lower bound of the admission window for this request.
func (r Request) Threshold() time.Time {
	return r.Now.Add(-r.Window)
}

// Candidate is a raw record gathered by an adapter before resolution and
// filtering. PublishedAt is set only when the source itself exposed a
// machine-readable timestamp.
type Candidate struct {
	Title       string
	URL         string
	Source      domain.Source
	PublishedAt *time.Time
}

// Result is the outcome of one adapter invocation. Candidates carries
// whatever was gathered even when Err records a failure, so a broken
// strategy never discards the output of an earlier one.
type Result struct {
	Source     domain.Source
	Candidates []Candidate
	Err        error
}

// Adapter translates one external source into normalized candidates.
// Fetch never panics and never aborts the run; failures are recorded
// in the Result.
type Adapter interface {
	Source() domain.Source
	Fetch(ctx context.Context, req Request) Result
}

// Registry keeps adapters in a fixed registration order so runs are
// deterministic.
type Registry struct {
	adapters []Adapter
	index    map[domain.Source]Adapter
}

// NewRegistry builds an empty registry.
func NewRegistry() *Registry {
	return &Registry{index: map[domain.Source]Adapter{}}
}

// Register appends an adapter; registering the same source twice replaces
// the earlier entry but keeps its position.
func (r *Registry) Register(a Adapter) {
	if _, ok := r.index[a.Source()]; ok {
		for i := range r.adapters {
			if r.adapters[i].Source() == a.Source() {
				r.adapters[i] = a
				break
			}
		}
	} else {
		r.adapters = append(r.adapters, a)
	}
	r.index[a.Source()] = a
}

// Resolve returns an adapter by source name.
func (r *Registry) Resolve(src domain.Source) (Adapter, error) {
	if a, ok := r.index[src]; ok {
		return a, nil
	}
	return nil, fmt.Errorf("adapter %s is not registered", src)
}

// All returns the adapters in registration order.
func (r *Registry) All() []Adapter {
	out := make([]Adapter, len(r.adapters))
	copy(out, r.adapters)
	return out
}

// Enabled filters the registry down to the configured subset, preserving
// registration order. An empty list means everything.
func (r *Registry) Enabled(sources []domain.Source) []Adapter {
	if len(sources) == 0 {
		return r.All()
	}
	want := map[domain.Source]bool{}
	for _, s := range sources {
		want[s] = true
	}
	var out []Adapter
	for _, a := range r.adapters {
		if want[a.Source()] {
			out = append(out, a)
		}
	}
	return out
}

// DedupeCandidates removes repeated URLs inside one adapter invocation,
// first occurrence wins. Adapter-local dedup precedes the run-wide engine.
func DedupeCandidates(cands []Candidate) []Candidate {
	seen := map[string]struct{}{}
	out := cands[:0]
	for _, c := range cands {
		if c.URL == "" {
			continue
		}
		if _, ok := seen[c.URL]; ok {
			continue
		}
		seen[c.URL] = struct{}{}
		out = append(out, c)
	}
	return out
}

// Cap bounds the candidate list to n entries (no-op when n <= 0).
func Cap(cands []Candidate, n int) []Candidate {
	if n > 0 && len(cands) > n {
		return cands[:n]
	}
	return cands
}

package usecase

import (
	"time"

	"vvnews/internal/domain"
)

// Policy is the sliding-window admission policy. Sources listed in Strict
// have no trustworthy recency signal of their own, so an item from them with
// an unresolved publish time is rejected; every other source is admitted on
// the assumption that its listing order is a weak substitute signal. The
// asymmetry is deliberate: false negatives over false positives for sources
// that cannot prove freshness.
type Policy struct {
	Window time.Duration
	Strict map[domain.Source]bool
}

// DefaultPolicy holds the video platform and the listing-only source (whose
// pages render dynamically and expose no timestamp) to the strict bar.
func DefaultPolicy(window time.Duration) Policy {
	return Policy{
		Window: window,
		Strict: map[domain.Source]bool{
			domain.SourceYouTube: true,
			domain.SourceTVB:     true,
		},
	}
}

// Admit decides whether item counts as new against threshold = now - window.
func (p Policy) Admit(item domain.NewsItem, threshold time.Time) bool {
	if item.HasPublishTime() {
		return !item.PublishedAt.Before(threshold)
	}
	return !p.Strict[item.Source]
}

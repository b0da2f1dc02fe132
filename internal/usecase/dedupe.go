package usecase

import "vvnews/internal/domain"

// Dedupe suppresses repeated canonical identities. URLs are compared by
// exact string equality; the first occurrence wins and order is preserved.
// The seen set is injected so callers can seed it (e.g. with URLs notified
// in earlier runs) and so the engine stays stateless between runs.
func Dedupe(items []domain.NewsItem, seen map[string]struct{}) []domain.NewsItem {
	if seen == nil {
		seen = map[string]struct{}{}
	}
	out := make([]domain.NewsItem, 0, len(items))
	for _, item := range items {
		if item.URL == "" {
			continue
		}
		if _, ok := seen[item.URL]; ok {
			continue
		}
		seen[item.URL] = struct{}{}
		out = append(out, item)
	}
	return out
}

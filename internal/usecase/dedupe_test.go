package usecase

import (
	"reflect"
	"testing"

	"vvnews/internal/domain"
)

func TestDedupeFirstWins(t *testing.T) {
	t.Parallel()

	in := []domain.NewsItem{
		{Title: "a", URL: "https://x/1", Source: domain.SourceGoogleNews},
		{Title: "b", URL: "https://x/2", Source: domain.SourceHK01},
		{Title: "a again", URL: "https://x/1", Source: domain.SourceHK01},
		{Title: "c", URL: "https://x/3", Source: domain.SourceOnCC},
	}
	out := Dedupe(in, nil)
	if len(out) != 3 {
		t.Fatalf("want 3 items, got %d", len(out))
	}
	if out[0].Title != "a" || out[1].Title != "b" || out[2].Title != "c" {
		t.Fatalf("order not preserved or wrong survivor: %+v", out)
	}
}

func TestDedupeIdempotent(t *testing.T) {
	t.Parallel()

	in := []domain.NewsItem{
		{URL: "https://x/1"},
		{URL: "https://x/1"},
		{URL: "https://x/2"},
	}
	once := Dedupe(in, nil)
	twice := Dedupe(once, nil)
	if !reflect.DeepEqual(once, twice) {
		t.Fatalf("dedupe not idempotent: %+v vs %+v", once, twice)
	}
}

func TestDedupeSeeded(t *testing.T) {
	t.Parallel()

	in := []domain.NewsItem{
		{URL: "https://x/1"},
		{URL: "https://x/2"},
	}
	out := Dedupe(in, map[string]struct{}{"https://x/1": {}})
	if len(out) != 1 || out[0].URL != "https://x/2" {
		t.Fatalf("seeded URL not suppressed: %+v", out)
	}
}

func TestDedupeSkipsEmptyURL(t *testing.T) {
	t.Parallel()

	out := Dedupe([]domain.NewsItem{{Title: "no url"}, {URL: "https://x/1"}}, nil)
	if len(out) != 1 || out[0].URL != "https://x/1" {
		t.Fatalf("empty-URL item kept: %+v", out)
	}
}

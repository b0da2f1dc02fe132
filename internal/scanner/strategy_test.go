package scanner

import (
	"context"
	"errors"
	"testing"
	"time"

	"vvnews/internal/domain"
)

func testRequest(limit int) Request {
	return Request{Keyword: "kw", Now: time.Now(), Window: 3 * time.Hour, Limit: limit}
}

func TestRunChainStopsAtFirstHit(t *testing.T) {
	t.Parallel()

	var secondCalled bool
	res := RunChain(context.Background(), domain.SourceHK01, testRequest(8), nil, []Strategy{
		{Name: "first", Run: func(context.Context, Request) ([]Candidate, error) {
			return []Candidate{{Title: "t", URL: "https://x/1"}}, nil
		}},
		{Name: "second", Run: func(context.Context, Request) ([]Candidate, error) {
			secondCalled = true
			return nil, nil
		}},
	})
	if res.Err != nil {
		t.Fatalf("unexpected error: %v", res.Err)
	}
	if len(res.Candidates) != 1 {
		t.Fatalf("want 1 candidate, got %d", len(res.Candidates))
	}
	if secondCalled {
		t.Fatalf("later strategy ran after a hit")
	}
}

func TestRunChainFallsThroughErrors(t *testing.T) {
	t.Parallel()

	res := RunChain(context.Background(), domain.SourceHK01, testRequest(8), nil, []Strategy{
		{Name: "broken", Run: func(context.Context, Request) ([]Candidate, error) {
			return nil, errors.New("boom")
		}},
		{Name: "working", Run: func(context.Context, Request) ([]Candidate, error) {
			return []Candidate{{Title: "t", URL: "https://x/1"}}, nil
		}},
	})
	if res.Err != nil {
		t.Fatalf("error kept despite a later hit: %v", res.Err)
	}
	if len(res.Candidates) != 1 {
		t.Fatalf("fallback strategy output lost")
	}
}

func TestRunChainKeepsLastErrorWhenEmpty(t *testing.T) {
	t.Parallel()

	want := errors.New("boom")
	res := RunChain(context.Background(), domain.SourceHK01, testRequest(8), nil, []Strategy{
		{Name: "broken", Run: func(context.Context, Request) ([]Candidate, error) {
			return nil, want
		}},
		{Name: "empty", Run: func(context.Context, Request) ([]Candidate, error) {
			return nil, nil
		}},
	})
	if !errors.Is(res.Err, want) {
		t.Fatalf("want the strategy error, got %v", res.Err)
	}
}

func TestRunChainCapsAndDedupes(t *testing.T) {
	t.Parallel()

	res := RunChain(context.Background(), domain.SourceHK01, testRequest(2), nil, []Strategy{
		{Name: "noisy", Run: func(context.Context, Request) ([]Candidate, error) {
			return []Candidate{
				{Title: "a", URL: "https://x/1"},
				{Title: "a dup", URL: "https://x/1"},
				{Title: "b", URL: "https://x/2"},
				{Title: "c", URL: "https://x/3"},
			}, nil
		}},
	})
	if len(res.Candidates) != 2 {
		t.Fatalf("want 2 after dedupe+cap, got %d", len(res.Candidates))
	}
	if res.Candidates[0].URL != "https://x/1" || res.Candidates[1].URL != "https://x/2" {
		t.Fatalf("wrong survivors: %+v", res.Candidates)
	}
}

func TestRegistryOrderAndEnabled(t *testing.T) {
	t.Parallel()

	reg := NewRegistry()
	reg.Register(&stubSourceAdapter{src: domain.SourceGoogleNews})
	reg.Register(&stubSourceAdapter{src: domain.SourceHK01})
	reg.Register(&stubSourceAdapter{src: domain.SourceTVB})

	all := reg.All()
	if len(all) != 3 || all[0].Source() != domain.SourceGoogleNews || all[2].Source() != domain.SourceTVB {
		t.Fatalf("registration order lost: %+v", all)
	}

	subset := reg.Enabled([]domain.Source{domain.SourceTVB, domain.SourceGoogleNews})
	if len(subset) != 2 || subset[0].Source() != domain.SourceGoogleNews {
		t.Fatalf("enabled subset must keep registration order: %+v", subset)
	}

	if got := reg.Enabled(nil); len(got) != 3 {
		t.Fatalf("empty filter must mean all")
	}
}

type stubSourceAdapter struct {
	src domain.Source
}

func (s *stubSourceAdapter) Source() domain.Source { return s.src }

func (s *stubSourceAdapter) Fetch(context.Context, Request) Result {
	return Result{Source: s.src}
}

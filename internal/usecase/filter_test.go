package usecase

import (
	"testing"
	"time"

	"vvnews/internal/domain"
)

func itemAt(src domain.Source, at *time.Time) domain.NewsItem {
	return domain.NewsItem{Title: "t", URL: "https://x/1", Source: src, PublishedAt: at}
}

func TestAdmitKnownTime(t *testing.T) {
	t.Parallel()

	now := time.Date(2026, 3, 1, 12, 0, 0, 0, domain.HongKong)
	threshold := now.Add(-3 * time.Hour)
	p := DefaultPolicy(3 * time.Hour)

	inside := now.Add(-time.Hour)
	if !p.Admit(itemAt(domain.SourceHK01, &inside), threshold) {
		t.Fatalf("item inside window rejected")
	}

	boundary := threshold
	if !p.Admit(itemAt(domain.SourceHK01, &boundary), threshold) {
		t.Fatalf("item exactly on threshold rejected, window must be inclusive")
	}

	outside := threshold.Add(-time.Second)
	if p.Admit(itemAt(domain.SourceHK01, &outside), threshold) {
		t.Fatalf("item before threshold admitted")
	}
}

func TestAdmitUnknownTimeByPolicy(t *testing.T) {
	t.Parallel()

	now := time.Date(2026, 3, 1, 12, 0, 0, 0, domain.HongKong)
	threshold := now.Add(-3 * time.Hour)
	p := DefaultPolicy(3 * time.Hour)

	if !p.Admit(itemAt(domain.SourceHK01, nil), threshold) {
		t.Fatalf("permissive source with unknown time rejected")
	}
	if p.Admit(itemAt(domain.SourceTVB, nil), threshold) {
		t.Fatalf("strict source with unknown time admitted")
	}
	if p.Admit(itemAt(domain.SourceYouTube, nil), threshold) {
		t.Fatalf("strict source with unknown time admitted")
	}
}

func TestAdmitMonotone(t *testing.T) {
	t.Parallel()

	// Widening the window never turns an admitted item into a rejected one.
	now := time.Date(2026, 3, 1, 12, 0, 0, 0, domain.HongKong)
	at := now.Add(-2 * time.Hour)
	item := itemAt(domain.SourceOnCC, &at)

	narrow := DefaultPolicy(3 * time.Hour)
	wide := DefaultPolicy(6 * time.Hour)
	if !narrow.Admit(item, now.Add(-narrow.Window)) {
		t.Fatalf("item not admitted under narrow window")
	}
	if !wide.Admit(item, now.Add(-wide.Window)) {
		t.Fatalf("widening the window rejected a previously admitted item")
	}
}

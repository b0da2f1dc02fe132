// Package pubtime derives a normalized publish timestamp for a discovered
// page. Most sources expose no reliable structured timestamp, so resolution
// is a fallback chain: structured metadata in the markup, then
// human-readable date text, then relative time phrases, then a date embedded
// in the URL path. Every resolved time is converted to UTC+8 before use.
package pubtime

import (
	"context"
	"log/slog"
	"regexp"
	"strconv"
	"strings"
	"time"

	"vvnews/internal/domain"
	"vvnews/internal/scanner"
)

var metaExprs = []*regexp.Regexp{
	regexp.MustCompile(`(?i)<meta[^>]+property=["']article:published_time["'][^>]+content=["']([^"']+)["']`),
	regexp.MustCompile(`(?i)<meta[^>]+itemprop=["']datePublished["'][^>]+content=["']([^"']+)["']`),
	regexp.MustCompile(`(?i)<meta[^>]+itemprop=["']uploadDate["'][^>]+content=["']([^"']+)["']`),
	regexp.MustCompile(`(?i)<meta[^>]+name=["']pubdate["'][^>]+content=["']([^"']+)["']`),
	regexp.MustCompile(`"datePublished"\s*:\s*"([^"]+)"`),
	regexp.MustCompile(`"publishDate"\s*:\s*"([^"]+)"`),
	regexp.MustCompile(`"uploadDate"\s*:\s*"([^"]+)"`),
}

var (
	labeledExpr = regexp.MustCompile(`發佈時間[:：]\s*(\d{1,2}:\d{2})\s+(20\d{2}-\d{1,2}-\d{1,2})`)
	numericExpr = regexp.MustCompile(`(20\d{2})[-/](0?[1-9]|1[0-2])[-/](0?[1-9]|[12]\d|3[01])(?:[ T](\d{1,2}:\d{2}))?`)
	cjkExpr     = regexp.MustCompile(`(20\d{2})年(0?[1-9]|1[0-2])月(0?[1-9]|[12]\d|3[01])日(?:\s*(\d{1,2}:\d{2}))?`)

	relativeExprs = []struct {
		re   *regexp.Regexp
		unit time.Duration
	}{
		{regexp.MustCompile(`(\d+)\s*(?:分鐘|分钟)前`), time.Minute},
		{regexp.MustCompile(`(?i)(\d+)\s*minutes?\s+ago`), time.Minute},
		{regexp.MustCompile(`(\d+)\s*(?:小時|小时)前`), time.Hour},
		{regexp.MustCompile(`(?i)(\d+)\s*hours?\s+ago`), time.Hour},
		{regexp.MustCompile(`(\d+)\s*天前`), 24 * time.Hour},
		{regexp.MustCompile(`(?i)(\d+)\s*days?\s+ago`), 24 * time.Hour},
		{regexp.MustCompile(`(\d+)\s*[周週]前`), 7 * 24 * time.Hour},
		{regexp.MustCompile(`(?i)(\d+)\s*weeks?\s+ago`), 7 * 24 * time.Hour},
	}

	urlDateExpr = regexp.MustCompile(`/(20\d{2})(0[1-9]|1[0-2])(0[1-9]|[12]\d|3[01])/`)
)

// Resolver fetches detail pages and applies the fallback chain.
type Resolver struct {
	client *scanner.Client
	now    func() time.Time
	logger *slog.Logger
}

// New builds a resolver sharing the adapters' HTTP client.
func New(client *scanner.Client, log *slog.Logger) *Resolver {
	return &Resolver{client: client, now: time.Now, logger: log}
}

// WithNow overrides the clock, for tests.
func (r *Resolver) WithNow(now func() time.Time) *Resolver {
	r.now = now
	return r
}

// Resolve fetches the candidate's own page and derives its publish time.
// Failure of every strategy yields ok=false, never an error.
func (r *Resolver) Resolve(ctx context.Context, pageURL string) (time.Time, bool) {
	html, err := r.client.HTML(ctx, pageURL)
	if err != nil {
		if r.logger != nil {
			r.logger.Debug("publish-time fetch failed", "url", pageURL, "error", err)
		}
		return time.Time{}, false
	}
	if t, ok := FromHTML(html, r.now()); ok {
		return t, true
	}
	return FromURL(pageURL)
}

// FromHTML applies the markup strategies in order against already-fetched
// page content. now anchors relative phrases.
func FromHTML(html string, now time.Time) (time.Time, bool) {
	for _, re := range metaExprs {
		m := re.FindStringSubmatch(html)
		if m == nil {
			continue
		}
		if t, ok := parseStamp(strings.TrimSpace(m[1])); ok {
			return t, true
		}
	}

	if m := labeledExpr.FindStringSubmatch(html); m != nil {
		if t, ok := parseStamp(m[2] + " " + m[1]); ok {
			return t, true
		}
	}
	if m := numericExpr.FindStringSubmatch(html); m != nil {
		if t, ok := buildDate(m[1], m[2], m[3], m[4]); ok {
			return t, true
		}
	}
	if m := cjkExpr.FindStringSubmatch(html); m != nil {
		if t, ok := buildDate(m[1], m[2], m[3], m[4]); ok {
			return t, true
		}
	}

	for _, rel := range relativeExprs {
		m := rel.re.FindStringSubmatch(html)
		if m == nil {
			continue
		}
		n, err := strconv.Atoi(m[1])
		if err != nil {
			continue
		}
		return now.Add(-time.Duration(n) * rel.unit).In(domain.HongKong), true
	}

	return time.Time{}, false
}

// FromURL derives a date from an eight-digit segment of the URL path
// (e.g. /20250821/). The result is midnight UTC+8 of that day, a
// deliberately coarse signal used only when the page itself says nothing.
func FromURL(pageURL string) (time.Time, bool) {
	m := urlDateExpr.FindStringSubmatch(pageURL)
	if m == nil {
		return time.Time{}, false
	}
	return buildDate(m[1], m[2], m[3], "")
}

// Normalize converts a source-observed timestamp to the fixed zone.
func Normalize(t time.Time) time.Time {
	return t.In(domain.HongKong)
}

// parseStamp understands the timestamp shapes the sources actually emit:
// RFC3339 with or without zone, and "YYYY-MM-DD HH:MM[:SS]". Zone-less
// stamps are taken as UTC+8.
func parseStamp(raw string) (time.Time, bool) {
	raw = strings.TrimSpace(strings.ReplaceAll(raw, "Z", "+00:00"))
	layouts := []struct {
		layout string
		zoned  bool
	}{
		{"2006-01-02T15:04:05-07:00", true},
		{"2006-01-02T15:04:05", false},
		{"2006-01-02 15:04:05", false},
		{"2006-01-02 15:04", false},
	}
	for _, l := range layouts {
		if l.zoned {
			if t, err := time.Parse(l.layout, raw); err == nil {
				return t.In(domain.HongKong), true
			}
			continue
		}
		if t, err := time.ParseInLocation(l.layout, raw, domain.HongKong); err == nil {
			return t, true
		}
	}
	return time.Time{}, false
}

func buildDate(y, mo, d, hhmm string) (time.Time, bool) {
	yi, err := strconv.Atoi(y)
	if err != nil {
		return time.Time{}, false
	}
	moi, err := strconv.Atoi(mo)
	if err != nil {
		return time.Time{}, false
	}
	di, err := strconv.Atoi(d)
	if err != nil {
		return time.Time{}, false
	}
	hour, minute := 0, 0
	if hhmm != "" {
		parts := strings.SplitN(hhmm, ":", 2)
		hour, _ = strconv.Atoi(parts[0])
		minute, _ = strconv.Atoi(parts[1])
	}
	return time.Date(yi, time.Month(moi), di, hour, minute, 0, 0, domain.HongKong), true
}

package sources

import (
	"context"
	"log/slog"
	"net/url"
	"strings"

	"github.com/PuerkitoBio/goquery"

	"vvnews/internal/domain"
	"vvnews/internal/scanner"
)

// TVB scrapes tvb.com, whose article titles live URL-encoded in the link
// slug while the visible page renders dynamically. The adapter matches the
// encoded keyword inside hrefs and decodes the slug back into a title. When
// even the listings render empty it falls back to verifying a small fixed
// list of previously-discovered URLs, then to the search pages. TVB is a
// strict-policy source: its candidates carry no timestamp and the resolver
// must find one on the detail page or the item is excluded.
type TVB struct {
	client    *scanner.Client
	logger    *slog.Logger
	base      string
	listings  []string
	knownURLs []string
}

// NewTVB wires the shared HTTP client. knownURLs is the last-resort
// verification list; nil is fine.
func NewTVB(client *scanner.Client, log *slog.Logger, knownURLs []string) *TVB {
	return &TVB{
		client: client,
		logger: log,
		base:   "https://www.tvb.com",
		listings: []string{
			"https://www.tvb.com/artiste-news-c",
			"https://www.tvb.com/news",
			"https://www.tvb.com/entertainment",
			"https://news.tvb.com/",
		},
		knownURLs: knownURLs,
	}
}

func (t *TVB) Source() domain.Source {
	return domain.SourceTVB
}

func (t *TVB) Fetch(ctx context.Context, req scanner.Request) scanner.Result {
	return scanner.RunChain(ctx, t.Source(), req, t.logger, []scanner.Strategy{
		{Name: "listing-slug", Run: t.scanListings},
		{Name: "known-urls", Run: t.verifyKnown},
		{Name: "site-search", Run: t.scanSearch},
	})
}

func (t *TVB) scanListings(ctx context.Context, req scanner.Request) ([]scanner.Candidate, error) {
	encoded := url.PathEscape(req.Keyword)
	var lastErr error
	for _, page := range t.listings {
		doc, err := t.client.Document(ctx, page)
		if err != nil {
			lastErr = err
			continue
		}

		var out []scanner.Candidate
		doc.Find("a[href]").Each(func(_ int, a *goquery.Selection) {
			href, _ := a.Attr("href")
			if href == "" {
				return
			}
			decoded, _ := url.PathUnescape(href)
			if !strings.Contains(href, encoded) && !strings.Contains(decoded, req.Keyword) {
				return
			}
			full := scanner.AbsoluteURL(t.base, href)
			if full == "" {
				return
			}
			title := slugTitle(full)
			if title == "" || !strings.Contains(title, req.Keyword) {
				// Slug did not decode; a keyword-bearing anchor text still counts.
				title = strings.TrimSpace(a.Text())
				if title == "" || !scanner.ContainsFold(title, req.Keyword) || len(title) < 6 {
					return
				}
			}
			out = append(out, scanner.Candidate{Title: title, URL: full, Source: t.Source()})
		})
		if len(out) > 0 {
			return out, nil
		}
	}
	return nil, lastErr
}

// verifyKnown re-checks a fixed list of article URLs that dynamic rendering
// hid from the listing scan: still live and still keyword-bearing means
// still reportable.
func (t *TVB) verifyKnown(ctx context.Context, req scanner.Request) ([]scanner.Candidate, error) {
	var out []scanner.Candidate
	for _, known := range t.knownURLs {
		if _, err := t.client.Get(ctx, known); err != nil {
			continue
		}
		title := slugTitle(known)
		if title == "" || !strings.Contains(title, req.Keyword) {
			continue
		}
		out = append(out, scanner.Candidate{Title: title, URL: known, Source: t.Source()})
	}
	return out, nil
}

func (t *TVB) scanSearch(ctx context.Context, req scanner.Request) ([]scanner.Candidate, error) {
	q := url.QueryEscape(req.Keyword)
	pages := []string{
		t.base + "/search?q=" + q,
		t.base + "/search?keyword=" + q,
		"https://news.tvb.com/search?q=" + q,
	}
	ls := scanner.LinkScan{
		Base:       t.base,
		AllowPaths: []string{"/news/", "/entertainment/", "/article/"},
	}
	var lastErr error
	for _, page := range pages {
		doc, err := t.client.Document(ctx, page)
		if err != nil {
			lastErr = err
			continue
		}
		cands := ls.Scan(doc, req.Keyword, t.Source())
		// Serialized page state sneaks into anchor text on this site.
		kept := cands[:0]
		for _, c := range cands {
			if strings.HasPrefix(c.Title, "{") || scanner.ContainsFold(c.Title, "props") {
				continue
			}
			kept = append(kept, c)
		}
		if len(kept) > 0 {
			return kept, nil
		}
	}
	return nil, lastErr
}

// slugTitle recovers the human title from a TVB article URL, whose last path
// segment is the percent-encoded headline followed by a numeric id.
func slugTitle(articleURL string) string {
	segs := strings.Split(strings.TrimSuffix(articleURL, "/"), "/")
	if len(segs) == 0 {
		return ""
	}
	slug := segs[len(segs)-1]
	if i := strings.Index(slug, "--"); i > 0 {
		slug = slug[:i]
	} else if i := strings.LastIndex(slug, "-"); i > 0 {
		slug = slug[:i]
	}
	title, err := url.PathUnescape(slug)
	if err != nil || len(title) < 6 {
		return ""
	}
	return title
}

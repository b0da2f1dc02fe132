package sources

import (
	"context"
	"log/slog"
	"net/url"
	"time"

	"vvnews/internal/domain"
	"vvnews/internal/pubtime"
	"vvnews/internal/scanner"
)

// am730 resolves eagerly: the listing pages carry no usable timestamps, so
// every candidate's detail page is fetched and its publish time extracted
// before the candidate leaves the adapter. Candidates whose detail page
// yields no time, or whose time falls outside the window, are dropped here.
const am730DetailCap = 6

type AM730 struct {
	client *scanner.Client
	logger *slog.Logger
	base   string
	now    func() time.Time
}

// NewAM730 wires the shared HTTP client.
func NewAM730(client *scanner.Client, log *slog.Logger) *AM730 {
	return &AM730{
		client: client,
		logger: log,
		base:   "https://www.am730.com.hk",
		now:    time.Now,
	}
}

func (a *AM730) Source() domain.Source {
	return domain.SourceAM730
}

func (a *AM730) Fetch(ctx context.Context, req scanner.Request) scanner.Result {
	return scanner.RunChain(ctx, a.Source(), req, a.logger, []scanner.Strategy{
		{Name: "search", Run: a.fromPages(a.searchPages)},
		{Name: "sections", Run: a.fromPages(a.sectionPages)},
	})
}

func (a *AM730) searchPages(keyword string) []string {
	q := url.QueryEscape(keyword)
	return []string{
		a.base + "/search?search=" + q,
		a.base + "/search/" + url.PathEscape(keyword),
	}
}

func (a *AM730) sectionPages(string) []string {
	return []string{
		a.base + "/%E5%A8%9B%E6%A8%82", // 娛樂
		a.base + "/",
	}
}

func (a *AM730) fromPages(pages func(string) []string) func(context.Context, scanner.Request) ([]scanner.Candidate, error) {
	ls := scanner.LinkScan{
		Base:         a.base,
		ExcludePaths: []string{"search"},
	}
	return func(ctx context.Context, req scanner.Request) ([]scanner.Candidate, error) {
		var lastErr error
		for _, page := range pages(req.Keyword) {
			doc, err := a.client.Document(ctx, page)
			if err != nil {
				lastErr = err
				continue
			}
			cands := ls.Scan(doc, req.Keyword, a.Source())
			if len(cands) == 0 {
				continue
			}
			resolved := a.resolveDetails(ctx, req, cands)
			if len(resolved) > 0 {
				return resolved, nil
			}
		}
		return nil, lastErr
	}
}

func (a *AM730) resolveDetails(ctx context.Context, req scanner.Request, cands []scanner.Candidate) []scanner.Candidate {
	threshold := req.Threshold()
	var out []scanner.Candidate
	for i, c := range cands {
		if i >= am730DetailCap {
			break
		}
		html, err := a.client.HTML(ctx, c.URL)
		if err != nil {
			a.logger.Debug("detail fetch failed", "source", a.Source(), "url", c.URL, "error", err)
			continue
		}
		ts, ok := pubtime.FromHTML(html, a.now())
		if !ok {
			continue
		}
		if ts.Before(threshold) {
			continue
		}
		t := ts
		c.PublishedAt = &t
		out = append(out, c)
	}
	return out
}

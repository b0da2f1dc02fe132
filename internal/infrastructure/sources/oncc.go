package sources

import (
	"context"
	"encoding/xml"
	"fmt"
	"log/slog"
	"sort"
	"strings"
	"time"

	"vvnews/internal/domain"
	"vvnews/internal/pubtime"
	"vvnews/internal/scanner"
)

// sitemapFetchCap bounds how many sitemap entries get their detail page
// fetched for keyword matching; the sitemap itself can list thousands.
const sitemapFetchCap = 20

// OnCC covers hk.on.cc. Listing pages there shuffle layouts often, so the
// adapter layers three strategies: section/date-directory scans, a
// sitemap.xml pass filtered by lastmod against the window, and a loose
// front-page scan as the last resort.
type OnCC struct {
	client   *scanner.Client
	logger   *slog.Logger
	base     string
	listings []string
	sitemap  string
	front    string
}

// NewOnCC wires the shared HTTP client.
func NewOnCC(client *scanner.Client, log *slog.Logger) *OnCC {
	return &OnCC{
		client: client,
		logger: log,
		base:   "https://hk.on.cc",
		listings: []string{
			"https://hk.on.cc/hk/entertainment/index.html",
			"https://hk.on.cc/hk/bkn/cnt/entertainment/",
			"https://hk.on.cc/hk/bkn/cnt/",
			"https://hk.on.cc/hk/news/",
		},
		sitemap: "https://hk.on.cc/sitemap.xml",
		front:   "https://hk.on.cc/",
	}
}

func (o *OnCC) Source() domain.Source {
	return domain.SourceOnCC
}

func (o *OnCC) Fetch(ctx context.Context, req scanner.Request) scanner.Result {
	return scanner.RunChain(ctx, o.Source(), req, o.logger, []scanner.Strategy{
		{Name: "listing", Run: o.scanListings},
		{Name: "sitemap", Run: o.scanSitemap},
		{Name: "front-page", Run: o.scanFront},
	})
}

func (o *OnCC) scanListings(ctx context.Context, req scanner.Request) ([]scanner.Candidate, error) {
	days := recentDays(req.Now, 3)
	pages := append([]string{}, o.listings...)
	for _, day := range days {
		pages = append(pages,
			fmt.Sprintf("%s/hk/bkn/cnt/entertainment/%s/", o.base, day),
			fmt.Sprintf("%s/hk/bkn/cnt/news/%s/", o.base, day),
		)
	}

	ls := scanner.LinkScan{
		Base:         o.base,
		AllowPaths:   []string{"/bkn/", "/cnt/", "/news/", "/entertainment/", "/hk/", ".html"},
		ExcludePaths: []string{"index.html", "search"},
		MinTitleLen:  9,
	}

	var lastErr error
	for _, page := range pages {
		doc, err := o.client.Document(ctx, page)
		if err != nil {
			lastErr = err
			continue
		}
		cands := ls.Scan(doc, req.Keyword, o.Source())
		cands = o.keepDatedURLs(cands, days)
		if len(cands) > 0 {
			return cands, nil
		}
	}
	return nil, lastErr
}

// keepDatedURLs keeps only links that look like concrete articles: a recent
// date directory, a bkn- story id, or a /cnt/ path.
func (o *OnCC) keepDatedURLs(cands []scanner.Candidate, days []string) []scanner.Candidate {
	out := cands[:0]
	for _, c := range cands {
		matched := strings.Contains(c.URL, "bkn-") || strings.Contains(c.URL, "/cnt/")
		for _, day := range days {
			if strings.Contains(c.URL, day) {
				matched = true
				break
			}
		}
		if matched {
			out = append(out, c)
		}
	}
	return out
}

type sitemapURLSet struct {
	URLs []struct {
		Loc     string `xml:"loc"`
		LastMod string `xml:"lastmod"`
	} `xml:"url"`
}

func (o *OnCC) scanSitemap(ctx context.Context, req scanner.Request) ([]scanner.Candidate, error) {
	body, err := o.client.Get(ctx, o.sitemap)
	if err != nil {
		return nil, err
	}

	var urlset sitemapURLSet
	if err := xml.Unmarshal(body, &urlset); err != nil {
		return nil, fmt.Errorf("%w: sitemap: %v", domain.ErrParseMismatch, err)
	}

	threshold := req.Threshold()
	type dated struct {
		loc  string
		when time.Time
	}
	var fresh []dated
	for _, u := range urlset.URLs {
		if !strings.Contains(strings.ToLower(u.Loc), "entertainment") || u.LastMod == "" {
			continue
		}
		when, err := time.Parse(time.RFC3339, u.LastMod)
		if err != nil {
			continue
		}
		when = pubtime.Normalize(when)
		if when.Before(threshold) {
			continue
		}
		fresh = append(fresh, dated{loc: u.Loc, when: when})
	}
	sort.Slice(fresh, func(i, j int) bool { return fresh[i].when.After(fresh[j].when) })
	if len(fresh) > sitemapFetchCap {
		fresh = fresh[:sitemapFetchCap]
	}

	var out []scanner.Candidate
	for _, entry := range fresh {
		html, err := o.client.HTML(ctx, entry.loc)
		if err != nil {
			continue
		}
		if !scanner.ContainsFold(html, req.Keyword) {
			continue
		}
		title := extractHeadline(html, req.Keyword)
		if title == "" {
			title = fmt.Sprintf("%s - %s", o.Source(), req.Keyword)
		}
		when := entry.when
		out = append(out, scanner.Candidate{
			Title:       title,
			URL:         entry.loc,
			Source:      o.Source(),
			PublishedAt: &when,
		})
		if len(out) >= req.Limit && req.Limit > 0 {
			break
		}
	}
	return out, nil
}

func (o *OnCC) scanFront(ctx context.Context, req scanner.Request) ([]scanner.Candidate, error) {
	doc, err := o.client.Document(ctx, o.front)
	if err != nil {
		return nil, err
	}
	ls := scanner.LinkScan{
		Base:       o.base,
		AllowPaths: []string{"/bkn/", "/news/", "/hk/"},
	}
	return ls.Scan(doc, req.Keyword, o.Source()), nil
}

// extractHeadline pulls a keyword-bearing headline out of detail-page
// markup, stripping the site-name suffix newspapers append to <title>.
func extractHeadline(html, keyword string) string {
	doc, err := docFromString(html)
	if err != nil {
		return ""
	}
	for _, sel := range []string{"h1", "title", ".headline", ".article-title"} {
		text := strings.TrimSpace(doc.Find(sel).First().Text())
		if text == "" || !scanner.ContainsFold(text, keyword) || len(text) < 10 {
			continue
		}
		if sel == "title" {
			for _, sep := range []string{"｜", "|"} {
				if i := strings.Index(text, sep); i > 0 {
					text = strings.TrimSpace(text[:i])
					break
				}
			}
		}
		return text
	}
	return ""
}

// recentDays renders the last n calendar days as YYYYMMDD, newest first.
func recentDays(now time.Time, n int) []string {
	out := make([]string, 0, n)
	for i := 0; i < n; i++ {
		out = append(out, now.AddDate(0, 0, -i).Format("20060102"))
	}
	return out
}

// Package sources holds one adapter per external site or platform. Every
// adapter translates that source's page or feed structure into normalized
// candidates through an ordered strategy chain, catching its own failures so
// a broken source only ever contributes zero candidates to a run.
package sources

import (
	"context"
	"fmt"
	"regexp"
	"strings"

	"github.com/PuerkitoBio/goquery"

	"vvnews/internal/domain"
	"vvnews/internal/scanner"
)

func docFromString(html string) (*goquery.Document, error) {
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(html))
	if err != nil {
		return nil, fmt.Errorf("%w: %v", domain.ErrParseMismatch, err)
	}
	return doc, nil
}

// scanEmbeddedJSON extracts title/url pairs from JSON blobs embedded in a
// page (several sites ship their search results as serialized state rather
// than markup). Both field orders occur in the wild.
func scanEmbeddedJSON(content, keyword, base string, src domain.Source) []scanner.Candidate {
	kw := regexp.QuoteMeta(keyword)
	exprs := []struct {
		re         *regexp.Regexp
		titleFirst bool
	}{
		{regexp.MustCompile(`\{[^{}]*"title"\s*:\s*"([^"]*` + kw + `[^"]*)"[^{}]*"(?:canonicalUrl|url)"\s*:\s*"([^"]+)"[^{}]*\}`), true},
		{regexp.MustCompile(`\{[^{}]*"(?:canonicalUrl|url)"\s*:\s*"([^"]+)"[^{}]*"title"\s*:\s*"([^"]*` + kw + `[^"]*)"[^{}]*\}`), false},
	}

	var out []scanner.Candidate
	for _, e := range exprs {
		for _, m := range e.re.FindAllStringSubmatch(content, -1) {
			title, href := m[1], m[2]
			if !e.titleFirst {
				title, href = m[2], m[1]
			}
			full := scanner.AbsoluteURL(base, href)
			if full == "" || len(title) < 10 {
				continue
			}
			out = append(out, scanner.Candidate{Title: strings.TrimSpace(title), URL: full, Source: src})
		}
	}
	return out
}

// searchSite captures the shape shared by the sites that expose (or at
// least tolerate) a search endpoint: try the candidate query-URL shapes in
// sequence, fall back to section listings. The exact APIs are undocumented
// and drift, hence the plural URL shapes.
type searchSite struct {
	source  domain.Source
	base    string
	search  func(keyword string) []string
	listing []string
	allow   []string
}

func (s searchSite) strategies(c *scanner.Client) []scanner.Strategy {
	listingScan := scanner.LinkScan{Base: s.base, AllowPaths: s.allow, ExcludePaths: []string{"search"}}
	return []scanner.Strategy{
		{Name: "site-search", Run: s.pageScan(c, scanner.LinkScan{Base: s.base}, true)},
		{Name: "listing", Run: s.pageScan(c, listingScan, false)},
	}
}

func (s searchSite) pageScan(c *scanner.Client, ls scanner.LinkScan, searchPages bool) func(context.Context, scanner.Request) ([]scanner.Candidate, error) {
	return func(ctx context.Context, req scanner.Request) ([]scanner.Candidate, error) {
		pages := s.listing
		if searchPages && s.search != nil {
			pages = s.search(req.Keyword)
		}
		var lastErr error
		for _, page := range pages {
			html, err := c.HTML(ctx, page)
			if err != nil {
				lastErr = err
				continue
			}
			doc, err := docFromString(html)
			if err != nil {
				lastErr = err
				continue
			}
			cands := ls.Scan(doc, req.Keyword, s.source)
			if len(cands) == 0 {
				cands = scanEmbeddedJSON(html, req.Keyword, s.base, s.source)
			}
			if len(cands) > 0 {
				return cands, nil
			}
		}
		if lastErr != nil {
			return nil, fmt.Errorf("%s: %w", s.source, lastErr)
		}
		return nil, nil
	}
}

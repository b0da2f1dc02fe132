package sources

import (
	"context"
	"log/slog"
	"net/url"
	"strings"
	"time"

	"github.com/PuerkitoBio/goquery"

	"vvnews/internal/domain"
	"vvnews/internal/scanner"
)

// GoogleNews queries news.google.com with a when: operator derived from the
// run window, so the server does the first recency cut. Result links are
// Google redirect URLs and are kept verbatim as canonical identity.
type GoogleNews struct {
	client *scanner.Client
	logger *slog.Logger
	base   string
}

// NewGoogleNews wires the shared HTTP client.
func NewGoogleNews(client *scanner.Client, log *slog.Logger) *GoogleNews {
	return &GoogleNews{client: client, logger: log, base: "https://news.google.com"}
}

func (g *GoogleNews) Source() domain.Source {
	return domain.SourceGoogleNews
}

func (g *GoogleNews) Fetch(ctx context.Context, req scanner.Request) scanner.Result {
	return scanner.RunChain(ctx, g.Source(), req, g.logger, []scanner.Strategy{
		{Name: "search", Run: g.search},
	})
}

func (g *GoogleNews) search(ctx context.Context, req scanner.Request) ([]scanner.Candidate, error) {
	query := req.Keyword
	if when := whenOperator(req.Window); when != "" {
		query += " " + when
	}
	searchURL := g.base + "/search?q=" + url.QueryEscape(query) + "&hl=zh-TW&gl=HK&ceid=HK:zh-TW"

	doc, err := g.client.Document(ctx, searchURL)
	if err != nil {
		return nil, err
	}

	var out []scanner.Candidate
	doc.Find("article").EachWithBreak(func(_ int, art *goquery.Selection) bool {
		title := strings.TrimSpace(art.Find("h3").First().Text())
		if title == "" || !scanner.ContainsFold(title, req.Keyword) {
			return true
		}
		href, _ := art.Find("a[href]").First().Attr("href")
		href = strings.TrimPrefix(href, ".")
		full := scanner.AbsoluteURL(g.base, href)
		if full == "" {
			return true
		}
		out = append(out, scanner.Candidate{Title: title, URL: full, Source: g.Source()})
		return req.Limit <= 0 || len(out) < req.Limit
	})
	return out, nil
}

// whenOperator maps the window onto the coarse buckets Google News accepts.
func whenOperator(window time.Duration) string {
	switch {
	case window <= time.Hour:
		return "when:1h"
	case window <= 24*time.Hour:
		return "when:1d"
	case window <= 7*24*time.Hour:
		return "when:7d"
	default:
		return ""
	}
}

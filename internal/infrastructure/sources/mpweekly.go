package sources

import (
	"context"
	"log/slog"
	"net/url"

	"vvnews/internal/domain"
	"vvnews/internal/scanner"
)

// MPWeekly searches mpweekly.com, falling back to the entertainment section.
type MPWeekly struct {
	client *scanner.Client
	logger *slog.Logger
	site   searchSite
}

// NewMPWeekly wires the shared HTTP client.
func NewMPWeekly(client *scanner.Client, log *slog.Logger) *MPWeekly {
	return &MPWeekly{
		client: client,
		logger: log,
		site: searchSite{
			source: domain.SourceMPWeekly,
			base:   "https://www.mpweekly.com",
			search: func(keyword string) []string {
				q := url.QueryEscape(keyword)
				return []string{
					"https://www.mpweekly.com/search?q=" + q,
					"https://www.mpweekly.com/search?keyword=" + q,
					"https://www.mpweekly.com/?s=" + q,
				}
			},
			listing: []string{"https://www.mpweekly.com/entertainment/"},
			allow:   []string{"/entertainment/", "/article/", "/post/"},
		},
	}
}

func (m *MPWeekly) Source() domain.Source {
	return domain.SourceMPWeekly
}

func (m *MPWeekly) Fetch(ctx context.Context, req scanner.Request) scanner.Result {
	return scanner.RunChain(ctx, m.Source(), req, m.logger, m.site.strategies(m.client))
}

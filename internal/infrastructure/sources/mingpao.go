package sources

import (
	"context"
	"log/slog"
	"net/url"

	"vvnews/internal/domain"
	"vvnews/internal/scanner"
)

// MingPao tries the known search-URL shapes of ol.mingpao.com (the exact API
// is undocumented and has changed before), then the front page.
type MingPao struct {
	client *scanner.Client
	logger *slog.Logger
	site   searchSite
}

// NewMingPao wires the shared HTTP client.
func NewMingPao(client *scanner.Client, log *slog.Logger) *MingPao {
	return &MingPao{
		client: client,
		logger: log,
		site: searchSite{
			source: domain.SourceMingPao,
			base:   "https://ol.mingpao.com",
			search: func(keyword string) []string {
				q := url.QueryEscape(keyword)
				return []string{
					"https://ol.mingpao.com/search?q=" + q,
					"https://www.mingpao.com/search?q=" + q,
					"https://ol.mingpao.com/ldy/search.php?keyword=" + q,
				}
			},
			listing: []string{"https://ol.mingpao.com/ldy/main.php"},
			allow:   []string{"/news/", "/article/", "/ldy/"},
		},
	}
}

func (m *MingPao) Source() domain.Source {
	return domain.SourceMingPao
}

func (m *MingPao) Fetch(ctx context.Context, req scanner.Request) scanner.Result {
	return scanner.RunChain(ctx, m.Source(), req, m.logger, m.site.strategies(m.client))
}

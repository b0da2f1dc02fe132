package sources

import (
	"context"
	"log/slog"
	"net/url"

	"vvnews/internal/domain"
	"vvnews/internal/scanner"
)

// WenWeiPo searches wenweipo.com, falling back to the entertainment section.
type WenWeiPo struct {
	client *scanner.Client
	logger *slog.Logger
	site   searchSite
}

// NewWenWeiPo wires the shared HTTP client.
func NewWenWeiPo(client *scanner.Client, log *slog.Logger) *WenWeiPo {
	return &WenWeiPo{
		client: client,
		logger: log,
		site: searchSite{
			source: domain.SourceWenWeiPo,
			base:   "https://www.wenweipo.com",
			search: func(keyword string) []string {
				q := url.QueryEscape(keyword)
				return []string{
					"https://www.wenweipo.com/search?q=" + q,
					"https://www.wenweipo.com/search?keyword=" + q,
					"https://www.wenweipo.com/?s=" + q,
				}
			},
			listing: []string{"https://www.wenweipo.com/ent"},
			allow:   []string{"/ent/", "/article/", "/news/"},
		},
	}
}

func (w *WenWeiPo) Source() domain.Source {
	return domain.SourceWenWeiPo
}

func (w *WenWeiPo) Fetch(ctx context.Context, req scanner.Request) scanner.Result {
	return scanner.RunChain(ctx, w.Source(), req, w.logger, w.site.strategies(w.client))
}

package sources

import (
	"context"
	"log/slog"
	"net/url"

	"vvnews/internal/domain"
	"vvnews/internal/scanner"
)

// SingTao searches stheadline.com, then falls back to the film-drama and
// entertainment sections and the realtime category lists.
type SingTao struct {
	client *scanner.Client
	logger *slog.Logger
	site   searchSite
}

// NewSingTao wires the shared HTTP client.
func NewSingTao(client *scanner.Client, log *slog.Logger) *SingTao {
	return &SingTao{
		client: client,
		logger: log,
		site: searchSite{
			source: domain.SourceSingTao,
			base:   "https://www.stheadline.com",
			search: func(keyword string) []string {
				return []string{"https://www.stheadline.com/search?q=" + url.QueryEscape(keyword)}
			},
			listing: []string{
				"https://www.stheadline.com/film-drama/",
				"https://www.stheadline.com/entertainment/",
				"https://std.stheadline.com/realtime/section-list.php?cat=12",
				"https://std.stheadline.com/realtime/section-list.php?cat=13",
				"https://www.stheadline.com/realtime/",
			},
		},
	}
}

func (s *SingTao) Source() domain.Source {
	return domain.SourceSingTao
}

func (s *SingTao) Fetch(ctx context.Context, req scanner.Request) scanner.Result {
	return scanner.RunChain(ctx, s.Source(), req, s.logger, s.site.strategies(s.client))
}

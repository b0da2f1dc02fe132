package sources

import (
	"context"
	"log/slog"

	"vvnews/internal/domain"
	"vvnews/internal/scanner"
)

// HK01 scans the hk01.com entertainment zone first; when it turns up
// nothing the adapter walks the sibling channels. The site exposes no
// machine-readable timestamp on listings, so candidates leave here without
// one (permissive window policy downstream).
type HK01 struct {
	client  *scanner.Client
	logger  *slog.Logger
	base    string
	primary []string
	backup  []string
}

// NewHK01 wires the shared HTTP client.
func NewHK01(client *scanner.Client, log *slog.Logger) *HK01 {
	return &HK01{
		client: client,
		logger: log,
		base:   "https://www.hk01.com",
		primary: []string{
			"https://www.hk01.com/zone/2/%E5%A8%9B%E6%A8%82",
		},
		backup: []string{
			"https://www.hk01.com/channel/22/%E5%8D%B3%E6%99%82%E5%A8%9B%E6%A8%82",
			"https://www.hk01.com/zone/1/%E6%B8%AF%E8%81%9E",
			"https://www.hk01.com/latest",
			"https://www.hk01.com/hot",
		},
	}
}

func (h *HK01) Source() domain.Source {
	return domain.SourceHK01
}

func (h *HK01) Fetch(ctx context.Context, req scanner.Request) scanner.Result {
	return scanner.RunChain(ctx, h.Source(), req, h.logger, []scanner.Strategy{
		{Name: "entertainment-zone", Run: h.scanPages(h.primary)},
		{Name: "alternate-channels", Run: h.scanPages(h.backup)},
	})
}

func (h *HK01) scanPages(pages []string) func(context.Context, scanner.Request) ([]scanner.Candidate, error) {
	ls := scanner.LinkScan{
		Base:         h.base,
		AllowPaths:   []string{"/article/", "/news/"},
		ExcludePaths: []string{"search"},
	}
	return func(ctx context.Context, req scanner.Request) ([]scanner.Candidate, error) {
		var lastErr error
		for _, page := range pages {
			doc, err := h.client.Document(ctx, page)
			if err != nil {
				lastErr = err
				continue
			}
			if cands := ls.Scan(doc, req.Keyword, h.Source()); len(cands) > 0 {
				return cands, nil
			}
		}
		return nil, lastErr
	}
}

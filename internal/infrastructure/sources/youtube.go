package sources

import (
	"context"
	"fmt"
	"log/slog"
	"regexp"
	"strings"
	"time"

	"github.com/mmcdole/gofeed"

	"vvnews/internal/domain"
	"vvnews/internal/pubtime"
	"vvnews/internal/scanner"
)

const youtubePerChannel = 5

var (
	channelPathExpr = regexp.MustCompile(`/channel/(UC[\w-]+)`)
	channelIDExpr   = regexp.MustCompile(`"channelId":"(UC[^"]+)"`)
	videoTitleExprs = []*regexp.Regexp{
		regexp.MustCompile(`<meta\s+name="title"\s+content="([^"]+)"`),
		regexp.MustCompile(`<title>([^<]+?)(?:\s*-\s*YouTube)?</title>`),
	}
)

// YouTube reads channel upload feeds. Channels may be configured as bare UC
// ids, /channel/ URLs, or @handles; handles cost one page fetch to resolve.
// Feed entry times are authoritative, so the window check happens here, but
// the source stays on the strict policy in case a feed omits them.
type YouTube struct {
	client   *scanner.Client
	logger   *slog.Logger
	parser   *gofeed.Parser
	channels []string

	// resolved handle -> channel id, filled lazily
	ids map[string]string
}

// NewYouTube wires the shared HTTP client into the feed parser. channels is
// the configured channel list in any accepted form.
func NewYouTube(client *scanner.Client, log *slog.Logger, channels []string) *YouTube {
	fp := gofeed.NewParser()
	fp.Client = client.HTTPClient()
	return &YouTube{
		client:   client,
		logger:   log,
		parser:   fp,
		channels: channels,
		ids:      make(map[string]string),
	}
}

func (y *YouTube) Source() domain.Source {
	return domain.SourceYouTube
}

func (y *YouTube) Fetch(ctx context.Context, req scanner.Request) scanner.Result {
	return scanner.RunChain(ctx, y.Source(), req, y.logger, []scanner.Strategy{
		{Name: "upload-feeds", Run: y.scanFeeds},
	})
}

func (y *YouTube) scanFeeds(ctx context.Context, req scanner.Request) ([]scanner.Candidate, error) {
	threshold := req.Threshold()
	var out []scanner.Candidate
	var lastErr error
	for _, ch := range y.channels {
		id, err := y.channelID(ctx, ch)
		if err != nil {
			y.logger.Debug("channel id unresolved", "source", y.Source(), "channel", ch, "error", err)
			lastErr = err
			continue
		}
		feed, err := y.parser.ParseURLWithContext("https://www.youtube.com/feeds/videos.xml?channel_id="+id, ctx)
		if err != nil {
			lastErr = fmt.Errorf("feed %s: %w", id, err)
			continue
		}
		taken := 0
		for _, item := range feed.Items {
			if taken >= youtubePerChannel {
				break
			}
			title := strings.TrimSpace(item.Title)
			if title == "" {
				continue
			}
			ts := entryTime(item)
			if ts != nil && ts.Before(threshold) {
				continue
			}
			if !scanner.ContainsFold(title, req.Keyword) {
				// Feed titles lag renames; the watch page has the real one.
				verified := y.verifyTitle(ctx, item.Link)
				if verified == "" || !scanner.ContainsFold(verified, req.Keyword) {
					continue
				}
				title = verified
			}
			out = append(out, scanner.Candidate{
				Title:       title,
				URL:         item.Link,
				Source:      y.Source(),
				PublishedAt: ts,
			})
			taken++
		}
	}
	if len(out) == 0 {
		return nil, lastErr
	}
	return out, nil
}

// channelID accepts a UC id, a channel URL, or an @handle and returns the
// canonical UC id, fetching the handle page when nothing cheaper works.
func (y *YouTube) channelID(ctx context.Context, channel string) (string, error) {
	channel = strings.TrimSpace(channel)
	if strings.HasPrefix(channel, "UC") && !strings.Contains(channel, "/") {
		return channel, nil
	}
	if m := channelPathExpr.FindStringSubmatch(channel); m != nil {
		return m[1], nil
	}
	if id, ok := y.ids[channel]; ok {
		return id, nil
	}

	handle := strings.TrimPrefix(channel, "https://www.youtube.com/")
	handle = strings.TrimPrefix(handle, "@")
	html, err := y.client.HTML(ctx, "https://www.youtube.com/@"+handle)
	if err != nil {
		return "", err
	}
	m := channelIDExpr.FindStringSubmatch(html)
	if m == nil {
		return "", fmt.Errorf("no channel id on handle page for %q", channel)
	}
	y.ids[channel] = m[1]
	return m[1], nil
}

// verifyTitle reads the current title off the watch page. Empty string means
// the page could not be read or carries no usable title.
func (y *YouTube) verifyTitle(ctx context.Context, videoURL string) string {
	if videoURL == "" {
		return ""
	}
	html, err := y.client.HTML(ctx, videoURL)
	if err != nil {
		return ""
	}
	for _, expr := range videoTitleExprs {
		if m := expr.FindStringSubmatch(html); m != nil {
			if title := strings.TrimSpace(m[1]); title != "" {
				return title
			}
		}
	}
	return ""
}

func entryTime(item *gofeed.Item) *time.Time {
	var ts *time.Time
	if item.PublishedParsed != nil {
		ts = item.PublishedParsed
	} else if item.UpdatedParsed != nil {
		ts = item.UpdatedParsed
	}
	if ts == nil {
		return nil
	}
	norm := pubtime.Normalize(*ts)
	return &norm
}

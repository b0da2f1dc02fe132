package domain

import "time"

// HongKong is the fixed zone every publish time is normalized to before
// window comparisons.
var HongKong = time.FixedZone("UTC+8", 8*60*60)

// Source identifies which adapter produced an item.
type Source string

const (
	SourceGoogleNews Source = "google-news"
	SourceHK01       Source = "hk01"
	SourceOnCC       Source = "oncc"
	SourceSingTao    Source = "singtao"
	SourceMingPao    Source = "mingpao"
	SourceMPWeekly   Source = "mpweekly"
	SourceWenWeiPo   Source = "wenweipo"
	SourceTVB        Source = "tvb"
	SourceYouTube    Source = "youtube"
	SourceAM730      Source = "am730"
)

// NewsItem is one discovered piece of content. URL is the canonical identity;
// two items with the same URL are the same item. PublishedAt is nil when no
// strategy could resolve a publish time.
type NewsItem struct {
	Title        string     `json:"title"`
	URL          string     `json:"url"`
	Source       Source     `json:"source"`
	Keyword      string     `json:"keyword"`
	DiscoveredAt time.Time  `json:"discovered_at"`
	PublishedAt  *time.Time `json:"publish_time,omitempty"`
}

// HasPublishTime reports whether a publish time was resolved.
func (n NewsItem) HasPublishTime() bool {
	return n.PublishedAt != nil && !n.PublishedAt.IsZero()
}

// SourceCount carries per-source candidate and admitted totals for one run.
type SourceCount struct {
	Candidates int `json:"candidates"`
	Admitted   int `json:"admitted"`
}

// RunReport aggregates the outcome of a single pipeline run. It is built once
// by the runner, consumed by the dispatcher and the run log, then discarded.
type RunReport struct {
	Keyword         string                `json:"keyword"`
	WindowStart     time.Time             `json:"window_start"`
	WindowEnd       time.Time             `json:"window_end"`
	TotalCandidates int                   `json:"total_candidates"`
	Admitted        []NewsItem            `json:"admitted_items"`
	PerSource       map[Source]SourceCount `json:"per_source_counts"`
	Notified        bool                  `json:"notified"`
}

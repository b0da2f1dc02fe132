package sources

import (
	"testing"
	"time"

	"vvnews/internal/domain"
	"vvnews/internal/scanner"
)

func TestScanEmbeddedJSONBothOrders(t *testing.T) {
	t.Parallel()

	content := `
		{"title":"明星王妍之出席首映禮現場報道","canonicalUrl":"/article/100"}
		{"url":"/article/200","title":"王妍之專訪內容完整版本刊出"}
		{"title":"完全無關的報道標題文字","url":"/article/300"}`

	got := scanEmbeddedJSON(content, "王妍之", "https://example.com", domain.SourceHK01)
	if len(got) != 2 {
		t.Fatalf("want 2 candidates, got %d: %+v", len(got), got)
	}
	urls := map[string]bool{}
	for _, c := range got {
		urls[c.URL] = true
		if c.Source != domain.SourceHK01 {
			t.Fatalf("wrong source on %+v", c)
		}
	}
	if !urls["https://example.com/article/100"] || !urls["https://example.com/article/200"] {
		t.Fatalf("wrong URLs extracted: %+v", got)
	}
}

func TestScanEmbeddedJSONEscapesKeyword(t *testing.T) {
	t.Parallel()

	// A keyword with regexp metacharacters must match literally only.
	content := `{"title":"report about a+b here today","url":"/article/1"}`
	if got := scanEmbeddedJSON(content, "a+b", "https://example.com", domain.SourceHK01); len(got) != 1 {
		t.Fatalf("literal keyword not matched: %+v", got)
	}
	if got := scanEmbeddedJSON(content, "aab", "https://example.com", domain.SourceHK01); len(got) != 0 {
		t.Fatalf("keyword treated as a pattern: %+v", got)
	}
}

func TestSlugTitle(t *testing.T) {
	t.Parallel()

	cases := []struct {
		url  string
		want string
	}{
		{"https://www.tvb.com/news/%E7%8E%8B%E5%A6%8D%E4%B9%8B%E6%96%B0%E5%8A%87%E9%96%8B%E6%8B%8D--123456", "王妍之新劇開拍"},
		{"https://www.tvb.com/news/%E7%8E%8B%E5%A6%8D%E4%B9%8B%E5%B0%88%E8%A8%AA-98765", "王妍之專訪"},
		{"https://www.tvb.com/news/short-1", ""},
	}
	for _, tc := range cases {
		if got := slugTitle(tc.url); got != tc.want {
			t.Fatalf("slugTitle(%q) = %q, want %q", tc.url, got, tc.want)
		}
	}
}

func TestWhenOperator(t *testing.T) {
	t.Parallel()

	cases := []struct {
		window time.Duration
		want   string
	}{
		{30 * time.Minute, "when:1h"},
		{time.Hour, "when:1h"},
		{3 * time.Hour, "when:1d"},
		{24 * time.Hour, "when:1d"},
		{3 * 24 * time.Hour, "when:7d"},
		{30 * 24 * time.Hour, ""},
	}
	for _, tc := range cases {
		if got := whenOperator(tc.window); got != tc.want {
			t.Fatalf("whenOperator(%s) = %q, want %q", tc.window, got, tc.want)
		}
	}
}

func TestRecentDays(t *testing.T) {
	t.Parallel()

	now := time.Date(2026, 3, 1, 12, 0, 0, 0, domain.HongKong)
	got := recentDays(now, 3)
	want := []string{"20260301", "20260228", "20260227"}
	if len(got) != 3 {
		t.Fatalf("want 3 days, got %v", got)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Fatalf("day %d = %q, want %q", i, got[i], want[i])
		}
	}
}

func TestKeepDatedURLs(t *testing.T) {
	t.Parallel()

	o := &OnCC{}
	days := []string{"20260301"}
	in := []scanner.Candidate{
		{URL: "https://hk.on.cc/hk/bkn/cnt/entertainment/20260301/bkn-x.html"},
		{URL: "https://hk.on.cc/hk/news/section/"},
		{URL: "https://hk.on.cc/hk/bkn/cnt/news/20250101/bkn-old.html"},
	}
	got := o.keepDatedURLs(in, days)
	if len(got) != 2 {
		t.Fatalf("want 2 article-like URLs, got %+v", got)
	}
}

func TestExtractHeadline(t *testing.T) {
	t.Parallel()

	html := `<html><head><title>王妍之亮相活動現場盛況｜東網娛樂</title></head>
		<body><div>noise</div></body></html>`
	got := extractHeadline(html, "王妍之")
	if got != "王妍之亮相活動現場盛況" {
		t.Fatalf("site suffix not stripped: %q", got)
	}

	if got := extractHeadline("<html><body><p>no headline</p></body></html>", "王妍之"); got != "" {
		t.Fatalf("headline invented: %q", got)
	}
}

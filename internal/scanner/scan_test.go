package scanner

import (
	"strings"
	"testing"

	"github.com/PuerkitoBio/goquery"

	"vvnews/internal/domain"
)

func docFrom(t *testing.T, html string) *goquery.Document {
	t.Helper()
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(html))
	if err != nil {
		t.Fatalf("parse html: %v", err)
	}
	return doc
}

func TestLinkScanMatchesKeyword(t *testing.T) {
	t.Parallel()

	doc := docFrom(t, `
		<a href="/article/1">明星王妍之出席電影首映禮活動</a>
		<a href="/article/2">完全無關的另一條新聞標題內容</a>
		<a href="/search?q=x">王妍之搜尋頁結果連結不應入選</a>
		<a href="/article/3" title="王妍之接受訪問談及新劇拍攝心得">short</a>`)

	ls := LinkScan{
		Base:         "https://example.com",
		AllowPaths:   []string{"/article/"},
		ExcludePaths: []string{"search"},
	}
	got := ls.Scan(doc, "王妍之", domain.SourceHK01)
	if len(got) != 2 {
		t.Fatalf("want 2 candidates, got %d: %+v", len(got), got)
	}
	if got[0].URL != "https://example.com/article/1" {
		t.Fatalf("relative href not absolutized: %q", got[0].URL)
	}
	if got[1].URL != "https://example.com/article/3" {
		t.Fatalf("title-attribute match lost: %+v", got[1])
	}
}

func TestLinkScanTitleLengthBounds(t *testing.T) {
	t.Parallel()

	doc := docFrom(t, `<a href="/article/1">王妍之</a>`)
	ls := LinkScan{Base: "https://example.com", AllowPaths: []string{"/article/"}}
	if got := ls.Scan(doc, "王妍之", domain.SourceHK01); len(got) != 0 {
		t.Fatalf("too-short title admitted: %+v", got)
	}
}

func TestAbsoluteURL(t *testing.T) {
	t.Parallel()

	cases := []struct {
		href string
		want string
	}{
		{"https://other.com/a", "https://other.com/a"},
		{"http://other.com/a", "http://other.com/a"},
		{"/article/1", "https://base.com/article/1"},
		{"javascript:void(0)", ""},
		{"#anchor", ""},
		{"", ""},
	}
	for _, tc := range cases {
		if got := AbsoluteURL("https://base.com", tc.href); got != tc.want {
			t.Fatalf("AbsoluteURL(%q) = %q, want %q", tc.href, got, tc.want)
		}
	}
}

func TestContainsFold(t *testing.T) {
	t.Parallel()

	if !ContainsFold("Breaking: WONG Interview", "wong") {
		t.Fatalf("case-insensitive match failed")
	}
	if !ContainsFold("王妍之最新消息", "王妍之") {
		t.Fatalf("CJK match failed")
	}
	if ContainsFold("unrelated", "wong") {
		t.Fatalf("false positive")
	}
}

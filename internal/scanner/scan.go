package scanner

import (
	"strings"

	"github.com/PuerkitoBio/goquery"

	"vvnews/internal/domain"
)

// LinkScan configures a listing scan over all hyperlinks of a page: keep
// links whose visible text or title/alt attribute contains the keyword and
// whose target matches the allow-list while avoiding the exclude-list.
type LinkScan struct {
	Base         string   // origin used to absolutize relative hrefs
	AllowPaths   []string // at least one must appear in the href (empty: any)
	ExcludePaths []string // none may appear in the href
	MinTitleLen  int      // reject anchor text shorter than this (0: 10)
	MaxTitleLen  int      // reject anchor text longer than this (0: 300)
}

// Scan walks every anchor of doc and returns keyword-matching candidates
// labeled with src. The caller is responsible for capping and dedup.
func (ls LinkScan) Scan(doc *goquery.Document, keyword string, src domain.Source) []Candidate {
	minLen, maxLen := ls.MinTitleLen, ls.MaxTitleLen
	if minLen == 0 {
		minLen = 10
	}
	if maxLen == 0 {
		maxLen = 300
	}

	var out []Candidate
	doc.Find("a[href]").Each(func(_ int, a *goquery.Selection) {
		href, _ := a.Attr("href")
		if href == "" || !ls.hrefAllowed(href) {
			return
		}

		title, _ := a.Attr("title")
		alt, _ := a.Attr("alt")
		for _, text := range []string{strings.TrimSpace(a.Text()), strings.TrimSpace(title), strings.TrimSpace(alt)} {
			if text == "" || len(text) < minLen || len(text) > maxLen {
				continue
			}
			if !ContainsFold(text, keyword) {
				continue
			}
			full := AbsoluteURL(ls.Base, href)
			if full == "" {
				continue
			}
			out = append(out, Candidate{Title: text, URL: full, Source: src})
			break
		}
	})
	return out
}

func (ls LinkScan) hrefAllowed(href string) bool {
	lower := strings.ToLower(href)
	for _, bad := range ls.ExcludePaths {
		if strings.Contains(lower, strings.ToLower(bad)) {
			return false
		}
	}
	if len(ls.AllowPaths) == 0 {
		return true
	}
	for _, good := range ls.AllowPaths {
		if strings.Contains(lower, strings.ToLower(good)) {
			return true
		}
	}
	return false
}

// AbsoluteURL resolves href against the base origin. Adapters normalize
// relative paths before a candidate ever leaves them; anything that is
// neither absolute nor root-relative is dropped.
func AbsoluteURL(base, href string) string {
	switch {
	case strings.HasPrefix(href, "http://"), strings.HasPrefix(href, "https://"):
		return href
	case strings.HasPrefix(href, "/"):
		return strings.TrimSuffix(base, "/") + href
	default:
		return ""
	}
}

// ContainsFold reports whether s contains substr case-insensitively.
func ContainsFold(s, substr string) bool {
	return strings.Contains(strings.ToLower(s), strings.ToLower(substr))
}

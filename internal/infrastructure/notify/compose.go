package notify

import (
	"fmt"
	"strings"

	"vvnews/internal/domain"
)

const stampLayout = "2006-01-02 15:04"

// Compose renders a run report into a plain-text message, grouped by source
// in the report's admission order.
func Compose(report *domain.RunReport, to []string) Message {
	subject := fmt.Sprintf("VVNews: %d new items for %s", len(report.Admitted), report.Keyword)

	var b strings.Builder
	fmt.Fprintf(&b, "Keyword: %s\n", report.Keyword)
	fmt.Fprintf(&b, "Window: %s .. %s\n",
		report.WindowStart.In(domain.HongKong).Format(stampLayout),
		report.WindowEnd.In(domain.HongKong).Format(stampLayout))
	fmt.Fprintf(&b, "Admitted %d of %d candidates\n\n",
		len(report.Admitted), report.TotalCandidates)

	var order []domain.Source
	grouped := make(map[domain.Source][]domain.NewsItem)
	for _, item := range report.Admitted {
		if _, seen := grouped[item.Source]; !seen {
			order = append(order, item.Source)
		}
		grouped[item.Source] = append(grouped[item.Source], item)
	}

	for _, src := range order {
		items := grouped[src]
		fmt.Fprintf(&b, "[%s] %d item(s)\n", src, len(items))
		for _, item := range items {
			fmt.Fprintf(&b, "  - %s\n    %s\n", item.Title, item.URL)
			if item.HasPublishTime() {
				fmt.Fprintf(&b, "    published %s\n",
					item.PublishedAt.In(domain.HongKong).Format(stampLayout))
			}
		}
		b.WriteString("\n")
	}

	b.WriteString("Sent by vvnews\n")
	return Message{Subject: subject, Body: b.String(), To: to}
}

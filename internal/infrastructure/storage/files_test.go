package storage

import (
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"vvnews/internal/domain"
)

func sampleReport() *domain.RunReport {
	at := time.Date(2026, 3, 1, 10, 0, 0, 0, domain.HongKong)
	return &domain.RunReport{
		Keyword:         "kw",
		WindowStart:     at.Add(-3 * time.Hour),
		WindowEnd:       at,
		TotalCandidates: 1,
		Admitted: []domain.NewsItem{
			{Title: "t", URL: "https://x/1", Source: domain.SourceHK01, Keyword: "kw", DiscoveredAt: at},
		},
		PerSource: map[domain.Source]domain.SourceCount{
			domain.SourceHK01: {Candidates: 1, Admitted: 1},
		},
		Notified: true,
	}
}

func TestSaveResults(t *testing.T) {
	t.Parallel()

	s := NewFileStore(t.TempDir())
	path, err := s.SaveResults(sampleReport())
	if err != nil {
		t.Fatalf("save results: %v", err)
	}
	name := filepath.Base(path)
	if !strings.HasPrefix(name, "vvnews_results_") || !strings.HasSuffix(name, ".json") {
		t.Fatalf("unexpected artifact name %q", name)
	}

	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("read artifact: %v", err)
	}
	var got domain.RunReport
	if err := json.Unmarshal(data, &got); err != nil {
		t.Fatalf("artifact not valid JSON: %v", err)
	}
	if got.Keyword != "kw" || len(got.Admitted) != 1 {
		t.Fatalf("round trip lost data: %+v", got)
	}
}

func TestSaveRunLog(t *testing.T) {
	t.Parallel()

	s := NewFileStore(t.TempDir())
	path, err := s.SaveRunLog(sampleReport())
	if err != nil {
		t.Fatalf("save run log: %v", err)
	}
	if !strings.HasPrefix(filepath.Base(path), "vvnews_runlog_") {
		t.Fatalf("unexpected run log name %q", path)
	}

	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("read run log: %v", err)
	}
	var got map[string]any
	if err := json.Unmarshal(data, &got); err != nil {
		t.Fatalf("run log not valid JSON: %v", err)
	}
	if got["admitted"].(float64) != 1 || got["notified"] != true {
		t.Fatalf("run log summary wrong: %v", got)
	}
}

func TestSaveFailedMessage(t *testing.T) {
	t.Parallel()

	s := NewFileStore(t.TempDir())
	path, err := s.SaveFailedMessage("subject line", "body text")
	if err != nil {
		t.Fatalf("save backup: %v", err)
	}
	name := filepath.Base(path)
	if !strings.HasPrefix(name, "email_failed_") || !strings.HasSuffix(name, ".txt") {
		t.Fatalf("unexpected backup name %q", name)
	}

	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("read backup: %v", err)
	}
	content := string(data)
	if !strings.Contains(content, "subject line") || !strings.Contains(content, "body text") {
		t.Fatalf("backup lost content:\n%s", content)
	}
}

func TestCreatesResultsDir(t *testing.T) {
	t.Parallel()

	dir := filepath.Join(t.TempDir(), "nested", "results")
	s := NewFileStore(dir)
	if _, err := s.SaveRunLog(sampleReport()); err != nil {
		t.Fatalf("save into missing dir: %v", err)
	}
	if _, err := os.Stat(dir); err != nil {
		t.Fatalf("results dir not created: %v", err)
	}
}

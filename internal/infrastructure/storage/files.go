package storage

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"vvnews/internal/domain"
	"vvnews/internal/ports"
)

const tsLayout = "20060102_150405"

// FileStore writes per-run artifacts under a results directory: a full
// results file when anything was admitted, a compact run log every run, and
// a plain-text backup when every notification provider failed.
type FileStore struct {
	dir string
	now func() time.Time
}

var _ ports.ArtifactStore = (*FileStore)(nil)

func NewFileStore(dir string) *FileStore {
	return &FileStore{dir: dir, now: time.Now}
}

func (s *FileStore) SaveResults(report *domain.RunReport) (string, error) {
	name := fmt.Sprintf("vvnews_results_%s.json", s.stamp())
	return s.writeJSON(name, report)
}

// runLog is the per-run summary kept even for empty runs.
type runLog struct {
	Keyword     string                               `json:"keyword"`
	RanAt       string                               `json:"ran_at"`
	WindowStart string                               `json:"window_start"`
	WindowEnd   string                               `json:"window_end"`
	Candidates  int                                  `json:"total_candidates"`
	Admitted    int                                  `json:"admitted"`
	Notified    bool                                 `json:"notified"`
	PerSource   map[domain.Source]domain.SourceCount `json:"per_source_counts"`
}

func (s *FileStore) SaveRunLog(report *domain.RunReport) (string, error) {
	name := fmt.Sprintf("vvnews_runlog_%s.json", s.stamp())
	return s.writeJSON(name, runLog{
		Keyword:     report.Keyword,
		RanAt:       s.now().In(domain.HongKong).Format(time.RFC3339),
		WindowStart: report.WindowStart.In(domain.HongKong).Format(time.RFC3339),
		WindowEnd:   report.WindowEnd.In(domain.HongKong).Format(time.RFC3339),
		Candidates:  report.TotalCandidates,
		Admitted:    len(report.Admitted),
		Notified:    report.Notified,
		PerSource:   report.PerSource,
	})
}

// SaveFailedMessage stores an undeliverable notification as plain text.
func (s *FileStore) SaveFailedMessage(subject, body string) (string, error) {
	if err := os.MkdirAll(s.dir, 0o755); err != nil {
		return "", fmt.Errorf("create results dir: %w", err)
	}
	path := filepath.Join(s.dir, fmt.Sprintf("email_failed_%s.txt", s.stamp()))
	content := "Subject: " + subject + "\n\n" + body
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		return "", fmt.Errorf("write backup: %w", err)
	}
	return path, nil
}

func (s *FileStore) writeJSON(name string, v any) (string, error) {
	if err := os.MkdirAll(s.dir, 0o755); err != nil {
		return "", fmt.Errorf("create results dir: %w", err)
	}
	data, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return "", fmt.Errorf("marshal %s: %w", name, err)
	}
	path := filepath.Join(s.dir, name)
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return "", fmt.Errorf("write %s: %w", name, err)
	}
	return path, nil
}

func (s *FileStore) stamp() string {
	return s.now().In(domain.HongKong).Format(tsLayout)
}

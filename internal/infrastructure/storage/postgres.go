package storage

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	sq "github.com/Masterminds/squirrel"
	_ "github.com/lib/pq"

	"vvnews/internal/domain"
	"vvnews/internal/ports"
)

// PostgresStore remembers which URLs were already notified, so restarts and
// overlapping windows do not re-send the same items. The table is created on
// first use.
type PostgresStore struct {
	db  *sql.DB
	sb  sq.StatementBuilderType
	now func() time.Time
}

var _ ports.NotifiedStore = (*PostgresStore)(nil)

func NewPostgresStore(ctx context.Context, dsn string) (*PostgresStore, error) {
	db, err := sql.Open("postgres", dsn)
	if err != nil {
		return nil, fmt.Errorf("open postgres: %w", err)
	}
	if err := db.PingContext(ctx); err != nil {
		db.Close()
		return nil, fmt.Errorf("ping postgres: %w", err)
	}
	s := &PostgresStore{
		db:  db,
		sb:  sq.StatementBuilder.PlaceholderFormat(sq.Dollar),
		now: time.Now,
	}
	if err := s.migrate(ctx); err != nil {
		db.Close()
		return nil, err
	}
	return s, nil
}

func (s *PostgresStore) migrate(ctx context.Context) error {
	_, err := s.db.ExecContext(ctx, `
		CREATE TABLE IF NOT EXISTS notified_urls (
			url         TEXT PRIMARY KEY,
			source      TEXT NOT NULL,
			keyword     TEXT NOT NULL,
			notified_at TIMESTAMPTZ NOT NULL
		)`)
	if err != nil {
		return fmt.Errorf("create notified_urls: %w", err)
	}
	return nil
}

func (s *PostgresStore) Seen(ctx context.Context, urls []string) (map[string]bool, error) {
	seen := make(map[string]bool, len(urls))
	if len(urls) == 0 {
		return seen, nil
	}
	query, args, err := s.sb.
		Select("url").
		From("notified_urls").
		Where(sq.Eq{"url": urls}).
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("build seen query: %w", err)
	}
	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("query notified_urls: %w", err)
	}
	defer rows.Close()

	for rows.Next() {
		var u string
		if err := rows.Scan(&u); err != nil {
			return nil, fmt.Errorf("scan notified url: %w", err)
		}
		seen[u] = true
	}
	return seen, rows.Err()
}

func (s *PostgresStore) MarkNotified(ctx context.Context, items []domain.NewsItem) error {
	if len(items) == 0 {
		return nil
	}
	b := s.sb.
		Insert("notified_urls").
		Columns("url", "source", "keyword", "notified_at").
		Suffix("ON CONFLICT (url) DO NOTHING")
	at := s.now().UTC()
	for _, item := range items {
		b = b.Values(item.URL, string(item.Source), item.Keyword, at)
	}
	query, args, err := b.ToSql()
	if err != nil {
		return fmt.Errorf("build insert: %w", err)
	}
	if _, err := s.db.ExecContext(ctx, query, args...); err != nil {
		return fmt.Errorf("insert notified_urls: %w", err)
	}
	return nil
}

func (s *PostgresStore) Close() error {
	return s.db.Close()
}

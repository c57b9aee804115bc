// Package catalog is a local SQLite-backed catalog and alternate-title
// store. It implements the matcher's Catalog interface, letting bulk
// matching run against a synced local copy instead of hitting remote
// metadata providers per release.
package catalog

import (
	"context"
	"database/sql"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	_ "modernc.org/sqlite"

	"github.com/fetcharr/fetcharr/internal/matcher"
	"github.com/fetcharr/fetcharr/internal/parser"
)

// Store is the catalog database handle.
type Store struct {
	db   *sql.DB
	path string
}

// Open opens or creates the catalog at the default location.
func Open() (*Store, error) {
	configDir, err := os.UserConfigDir()
	if err != nil {
		return nil, fmt.Errorf("failed to get config dir: %w", err)
	}
	return OpenPath(filepath.Join(configDir, "fetcharr", "catalog.db"))
}

// OpenPath opens or creates the catalog at a specific path.
func OpenPath(path string) (*Store, error) {
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return nil, fmt.Errorf("failed to create catalog directory: %w", err)
	}

	// WAL mode for concurrent matcher lookups during sync
	db, err := sql.Open("sqlite", path+"?_journal_mode=WAL&_busy_timeout=5000")
	if err != nil {
		return nil, fmt.Errorf("failed to open catalog: %w", err)
	}

	if err := db.Ping(); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to ping catalog: %w", err)
	}

	s := &Store{db: db, path: path}
	if err := applyMigrations(db); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to migrate catalog: %w", err)
	}
	return s, nil
}

// OpenInMemory opens an in-memory catalog for testing.
func OpenInMemory() (*Store, error) {
	db, err := sql.Open("sqlite", ":memory:?_cache=shared")
	if err != nil {
		return nil, fmt.Errorf("failed to open in-memory catalog: %w", err)
	}

	if err := db.Ping(); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to ping in-memory catalog: %w", err)
	}

	s := &Store{db: db, path: ":memory:"}
	if err := applyMigrations(db); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to migrate in-memory catalog: %w", err)
	}
	return s, nil
}

// Close closes the underlying database.
func (s *Store) Close() error {
	return s.db.Close()
}

// DB returns the underlying sql.DB for advanced operations.
func (s *Store) DB() *sql.DB {
	return s.db
}

// Upsert inserts or updates a catalog entry keyed by external ID.
func (s *Store) Upsert(ctx context.Context, e matcher.Entry) error {
	if e.ExternalID == "" {
		return fmt.Errorf("entry has no external id")
	}
	_, err := s.db.ExecContext(ctx, `
		INSERT INTO entries (external_id, title, title_normalized, year, content_type)
		VALUES (?, ?, ?, ?, ?)
		ON CONFLICT(external_id) DO UPDATE SET
			title = excluded.title,
			title_normalized = excluded.title_normalized,
			year = excluded.year,
			content_type = excluded.content_type,
			updated_at = CURRENT_TIMESTAMP`,
		e.ExternalID, e.Title, parser.CleanTitle(e.Title), e.Year, e.Type.String())
	if err != nil {
		return fmt.Errorf("failed to upsert entry %s: %w", e.ExternalID, err)
	}
	return nil
}

// AddAlias records an alternate title (foreign title, historical rename) for
// an existing entry.
func (s *Store) AddAlias(ctx context.Context, externalID, alias string) error {
	res, err := s.db.ExecContext(ctx, `
		INSERT INTO aliases (entry_id, alias, alias_normalized)
		SELECT id, ?, ? FROM entries WHERE external_id = ?
		ON CONFLICT(entry_id, alias_normalized) DO NOTHING`,
		alias, parser.CleanTitle(alias), externalID)
	if err != nil {
		return fmt.Errorf("failed to add alias for %s: %w", externalID, err)
	}
	if n, err := res.RowsAffected(); err == nil && n == 0 {
		// distinguish "duplicate alias" from "entry missing"
		var exists int
		if err := s.db.QueryRowContext(ctx,
			`SELECT COUNT(1) FROM entries WHERE external_id = ?`, externalID).Scan(&exists); err == nil && exists == 0 {
			return fmt.Errorf("no entry with external id %s", externalID)
		}
	}
	return nil
}

// Search finds entries whose normalized title contains the term's leading
// token, narrowed by the filters. It deliberately over-returns; the matcher
// strategies do the precise scoring.
func (s *Store) Search(ctx context.Context, term string, f matcher.Filters) ([]matcher.Entry, error) {
	clean := parser.CleanTitle(term)
	if clean == "" {
		return nil, nil
	}
	token := clean
	if i := strings.IndexByte(clean, ' '); i > 0 {
		token = clean[:i]
	}

	query := `SELECT external_id, title, year, content_type FROM entries
		WHERE (title_normalized = ? OR title_normalized LIKE ?)`
	args := []interface{}{clean, "%" + token + "%"}

	if f.Year != 0 {
		query += ` AND year = ?`
		args = append(args, f.Year)
	}
	if f.Type != matcher.ContentUnknown {
		query += ` AND content_type = ?`
		args = append(args, f.Type.String())
	}
	query += ` ORDER BY title_normalized LIMIT 100`

	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("catalog search failed: %w", err)
	}
	defer rows.Close()
	return scanEntries(rows)
}

// Aliases finds entries registered under the given alternate title.
func (s *Store) Aliases(ctx context.Context, term string) ([]matcher.Entry, error) {
	clean := parser.CleanTitle(term)
	if clean == "" {
		return nil, nil
	}

	rows, err := s.db.QueryContext(ctx, `
		SELECT e.external_id, e.title, e.year, e.content_type
		FROM aliases a
		JOIN entries e ON e.id = a.entry_id
		WHERE a.alias_normalized = ?
		ORDER BY e.title_normalized LIMIT 100`, clean)
	if err != nil {
		return nil, fmt.Errorf("catalog alias lookup failed: %w", err)
	}
	defer rows.Close()
	return scanEntries(rows)
}

// Count returns the number of catalog entries.
func (s *Store) Count(ctx context.Context) (int, error) {
	var n int
	if err := s.db.QueryRowContext(ctx, `SELECT COUNT(1) FROM entries`).Scan(&n); err != nil {
		return 0, fmt.Errorf("catalog count failed: %w", err)
	}
	return n, nil
}

func scanEntries(rows *sql.Rows) ([]matcher.Entry, error) {
	var out []matcher.Entry
	for rows.Next() {
		var e matcher.Entry
		var contentType string
		if err := rows.Scan(&e.ExternalID, &e.Title, &e.Year, &contentType); err != nil {
			return nil, fmt.Errorf("failed to scan catalog row: %w", err)
		}
		e.Type = parseContentType(contentType)
		out = append(out, e)
	}
	return out, rows.Err()
}

func parseContentType(s string) matcher.ContentType {
	switch s {
	case "series":
		return matcher.ContentSeries
	case "anime":
		return matcher.ContentAnime
	case "movie":
		return matcher.ContentMovie
	case "music-artist":
		return matcher.ContentMusicArtist
	default:
		return matcher.ContentUnknown
	}
}

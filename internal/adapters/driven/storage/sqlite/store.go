package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"time"

	_ "modernc.org/sqlite" // SQLite driver

	"github.com/custodia-labs/falcon-go/internal/adapters/driven/storage/sqlite/migrations"
	"github.com/custodia-labs/falcon-go/internal/core/domain"
	"github.com/custodia-labs/falcon-go/internal/core/ports/driven"
)

// Ensure Store implements the TokenCache interface.
var _ driven.TokenCache = (*Store)(nil)

// DatabaseFile is the file name created inside the data directory.
const DatabaseFile = "tokens.db"

// Store is a SQLite token cache.
type Store struct {
	db   *sql.DB
	path string
	now  func() time.Time
}

// NewStore creates a store in dataDir.
// If dataDir is empty, defaults to ~/.falcon/data.
func NewStore(dataDir string) (*Store, error) {
	if dataDir == "" {
		home, err := os.UserHomeDir()
		if err != nil {
			return nil, fmt.Errorf("getting home directory: %w", err)
		}
		dataDir = filepath.Join(home, ".falcon", "data")
	}

	if err := os.MkdirAll(dataDir, 0700); err != nil {
		return nil, fmt.Errorf("creating data directory: %w", err)
	}

	dbPath := filepath.Join(dataDir, DatabaseFile)

	db, err := sql.Open("sqlite", dbPath+"?_pragma=journal_mode(WAL)&_pragma=busy_timeout(5000)")
	if err != nil {
		return nil, fmt.Errorf("opening database: %w", err)
	}

	s := &Store{
		db:   db,
		path: dbPath,
		now:  time.Now,
	}

	if err := s.migrate(migrations.FS); err != nil {
		db.Close()
		return nil, fmt.Errorf("running migrations: %w", err)
	}

	return s, nil
}

// Close closes the database connection.
func (s *Store) Close() error {
	return s.db.Close()
}

// Path returns the database file path.
func (s *Store) Path() string {
	return s.path
}

// migrate runs all pending migrations and records each applied version.
func (s *Store) migrate(fsys fs.FS) error {
	_, err := s.db.Exec(`
		CREATE TABLE IF NOT EXISTS schema_migrations (
			version INTEGER PRIMARY KEY,
			applied_at DATETIME DEFAULT CURRENT_TIMESTAMP
		)
	`)
	if err != nil {
		return fmt.Errorf("creating schema_migrations table: %w", err)
	}

	var currentVersion int
	row := s.db.QueryRow("SELECT COALESCE(MAX(version), 0) FROM schema_migrations")
	if err := row.Scan(&currentVersion); err != nil {
		return fmt.Errorf("getting current version: %w", err)
	}

	entries, err := fs.ReadDir(fsys, ".")
	if err != nil {
		return fmt.Errorf("reading migrations directory: %w", err)
	}

	var upFiles []string
	for _, entry := range entries {
		if strings.HasSuffix(entry.Name(), ".up.sql") {
			upFiles = append(upFiles, entry.Name())
		}
	}
	sort.Strings(upFiles)

	for _, name := range upFiles {
		// "001_token_cache.up.sql" -> 1
		var version int
		if _, err := fmt.Sscanf(name, "%d_", &version); err != nil {
			continue
		}
		if version <= currentVersion {
			continue
		}

		content, err := fs.ReadFile(fsys, name)
		if err != nil {
			return fmt.Errorf("reading migration %s: %w", name, err)
		}
		if _, err := s.db.Exec(string(content)); err != nil {
			return fmt.Errorf("executing migration %s: %w", name, err)
		}
		if _, err := s.db.Exec("INSERT INTO schema_migrations (version) VALUES (?)", version); err != nil {
			return fmt.Errorf("recording migration %s: %w", name, err)
		}
	}

	return nil
}

// Load retrieves the cached token for key.
func (s *Store) Load(ctx context.Context, key string) (*domain.CachedToken, error) {
	row := s.db.QueryRowContext(ctx, `
		SELECT token, issued_at, ttl_ms, base_url, updated_at
		FROM token_cache WHERE cache_key = ?
	`, key)

	var (
		tok                        domain.CachedToken
		issuedAt, ttlMS, updatedAt int64
	)
	err := row.Scan(&tok.Value, &issuedAt, &ttlMS, &tok.BaseURL, &updatedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, domain.ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("loading token: %w", err)
	}
	tok.IssuedAt = time.UnixMilli(issuedAt).UTC()
	tok.TTL = time.Duration(ttlMS) * time.Millisecond
	tok.UpdatedAt = time.UnixMilli(updatedAt).UTC()
	return &tok, nil
}

// Save stores or replaces the token for key.
func (s *Store) Save(ctx context.Context, key string, token domain.CachedToken) error {
	if token.UpdatedAt.IsZero() {
		token.UpdatedAt = s.now()
	}
	_, err := s.db.ExecContext(ctx, `
		INSERT INTO token_cache (cache_key, token, issued_at, ttl_ms, base_url, updated_at)
		VALUES (?, ?, ?, ?, ?, ?)
		ON CONFLICT(cache_key) DO UPDATE SET
			token = excluded.token,
			issued_at = excluded.issued_at,
			ttl_ms = excluded.ttl_ms,
			base_url = excluded.base_url,
			updated_at = excluded.updated_at
	`, key, token.Value, token.IssuedAt.UnixMilli(), token.TTL.Milliseconds(),
		token.BaseURL, token.UpdatedAt.UnixMilli())
	if err != nil {
		return fmt.Errorf("saving token: %w", err)
	}
	return nil
}

// Delete removes the token for key.
func (s *Store) Delete(ctx context.Context, key string) error {
	if _, err := s.db.ExecContext(ctx, "DELETE FROM token_cache WHERE cache_key = ?", key); err != nil {
		return fmt.Errorf("deleting token: %w", err)
	}
	return nil
}

// Purge removes every entry last written before cutoff and returns the
// number of rows deleted.
func (s *Store) Purge(ctx context.Context, cutoff time.Time) (int64, error) {
	res, err := s.db.ExecContext(ctx, "DELETE FROM token_cache WHERE updated_at < ?", cutoff.UnixMilli())
	if err != nil {
		return 0, fmt.Errorf("purging tokens: %w", err)
	}
	return res.RowsAffected()
}

package sqlite

import (
	"context"
	"database/sql"
	"embed"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"time"

	_ "modernc.org/sqlite" // SQLite driver

	"github.com/dlaporte/trailcache/internal/adapters/driven/storage/sqlite/migrations"
	"github.com/dlaporte/trailcache/internal/core/domain"
	"github.com/dlaporte/trailcache/internal/core/ports/driven"
	"github.com/dlaporte/trailcache/internal/logger"
)

// Store is a unified SQLite-based storage that provides access to
// the snapshot archive and credential vault through wrapper types.
type Store struct {
	db   *sql.DB
	path string
}

// NewStore creates a new SQLite store at the specified data directory.
// If dataDir is empty, defaults to ~/.trailcache/data/cache.db.
func NewStore(dataDir string) (*Store, error) {
	if dataDir == "" {
		home, err := os.UserHomeDir()
		if err != nil {
			return nil, fmt.Errorf("getting home directory: %w", err)
		}
		dataDir = filepath.Join(home, ".trailcache", "data")
	}

	// Ensure directory exists
	if err := os.MkdirAll(dataDir, 0700); err != nil {
		return nil, fmt.Errorf("creating data directory: %w", err)
	}

	dbPath := filepath.Join(dataDir, "cache.db")

	// Open database with WAL mode for better concurrency
	db, err := sql.Open("sqlite", dbPath+"?_pragma=journal_mode(WAL)&_pragma=busy_timeout(5000)")
	if err != nil {
		return nil, fmt.Errorf("opening database: %w", err)
	}

	s := &Store{
		db:   db,
		path: dbPath,
	}

	// Run migrations
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

// SnapshotArchive returns a SnapshotArchive interface backed by this store.
func (s *Store) SnapshotArchive() driven.SnapshotArchive {
	return &snapshotArchive{store: s}
}

// CredentialVault returns a CredentialVault interface backed by this store.
func (s *Store) CredentialVault() driven.CredentialVault {
	return &credentialVault{store: s}
}

// migrate runs all pending migrations.
func (s *Store) migrate(fsys embed.FS) error {
	// Ensure schema_migrations table exists
	_, err := s.db.Exec(`
		CREATE TABLE IF NOT EXISTS schema_migrations (
			version INTEGER PRIMARY KEY,
			applied_at DATETIME DEFAULT CURRENT_TIMESTAMP
		)
	`)
	if err != nil {
		return fmt.Errorf("creating schema_migrations table: %w", err)
	}

	// Get current version
	var currentVersion int
	row := s.db.QueryRow("SELECT COALESCE(MAX(version), 0) FROM schema_migrations")
	if err := row.Scan(&currentVersion); err != nil {
		return fmt.Errorf("getting current version: %w", err)
	}

	// Find all up migrations
	entries, err := fs.ReadDir(fsys, ".")
	if err != nil {
		return fmt.Errorf("reading migrations directory: %w", err)
	}

	var upFiles []string
	for _, entry := range entries {
		name := entry.Name()
		if strings.HasSuffix(name, ".up.sql") {
			upFiles = append(upFiles, name)
		}
	}
	sort.Strings(upFiles)

	for _, name := range upFiles {
		// Extract version number (e.g., "001_initial.up.sql" -> 1)
		var version int
		if _, err := fmt.Sscanf(name, "%d_", &version); err != nil {
			continue // Skip files that don't match pattern
		}

		if version <= currentVersion {
			continue // Already applied
		}

		content, err := fs.ReadFile(fsys, name)
		if err != nil {
			return fmt.Errorf("reading migration %s: %w", name, err)
		}

		if _, err := s.db.Exec(string(content)); err != nil {
			return fmt.Errorf("executing migration %s: %w", name, err)
		}

		if _, err := s.db.Exec(
			"INSERT INTO schema_migrations (version) VALUES (?)", version,
		); err != nil {
			return fmt.Errorf("recording migration %s: %w", name, err)
		}
	}

	return nil
}

// ==================== Snapshot Archive ====================

// snapshotArchive implements driven.SnapshotArchive.
type snapshotArchive struct {
	store *Store
}

var _ driven.SnapshotArchive = (*snapshotArchive)(nil)

// Save durably stores one snapshot, replacing any prior copy for its kind.
// The upsert runs in its own SQLite transaction: a failure leaves the prior
// row intact.
func (a *snapshotArchive) Save(ctx context.Context, snap domain.Snapshot) error {
	payload, err := domain.EncodePayload(snap.Payload)
	if err != nil {
		return fmt.Errorf("encoding payload: %w", err)
	}

	var reason, detail sql.NullString
	if snap.LastError != nil {
		reason = sql.NullString{String: string(snap.LastError.Reason), Valid: true}
		detail = sql.NullString{String: snap.LastError.Detail, Valid: snap.LastError.Detail != ""}
	}

	_, err = a.store.db.ExecContext(ctx, `
		INSERT INTO snapshots (kind, state, payload, fetched_at, last_attempt_at, error_reason, error_detail, updated_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?)
		ON CONFLICT(kind) DO UPDATE SET
			state = excluded.state,
			payload = excluded.payload,
			fetched_at = excluded.fetched_at,
			last_attempt_at = excluded.last_attempt_at,
			error_reason = excluded.error_reason,
			error_detail = excluded.error_detail,
			updated_at = excluded.updated_at
	`, string(snap.Kind), string(snap.State), payload,
		nullTime(snap.FetchedAt), nullTime(snap.LastAttemptAt),
		reason, detail, time.Now().UTC())
	if err != nil {
		return fmt.Errorf("saving %s snapshot: %w", snap.Kind, err)
	}
	return nil
}

// LoadAll reconstructs every stored snapshot. Rows that fail to decode are
// skipped with a warning so one corrupt payload never blocks startup.
func (a *snapshotArchive) LoadAll(ctx context.Context) (map[domain.Kind]domain.Snapshot, error) {
	rows, err := a.store.db.QueryContext(ctx, `
		SELECT kind, state, payload, fetched_at, last_attempt_at, error_reason, error_detail
		FROM snapshots
	`)
	if err != nil {
		return nil, fmt.Errorf("querying snapshots: %w", err)
	}
	defer rows.Close()

	out := make(map[domain.Kind]domain.Snapshot)
	for rows.Next() {
		var (
			kind, state    string
			payload        []byte
			fetchedAt      sql.NullTime
			lastAttemptAt  sql.NullTime
			reason, detail sql.NullString
		)
		if err := rows.Scan(&kind, &state, &payload, &fetchedAt, &lastAttemptAt, &reason, &detail); err != nil {
			return nil, fmt.Errorf("scanning snapshot row: %w", err)
		}

		k, err := domain.ParseKind(kind)
		if err != nil {
			logger.Warn("archive: skipping snapshot with unknown kind %q", kind)
			continue
		}

		decoded, err := domain.DecodePayload(k, payload)
		if err != nil {
			logger.Warn("archive: skipping corrupt %s payload: %v", k, err)
			continue
		}

		snap := domain.Snapshot{
			Kind:    k,
			State:   domain.SnapshotState(state),
			Payload: decoded,
		}
		if fetchedAt.Valid {
			snap.FetchedAt = fetchedAt.Time.UTC()
		}
		if lastAttemptAt.Valid {
			snap.LastAttemptAt = lastAttemptAt.Time.UTC()
		}
		if reason.Valid {
			snap.LastError = &domain.FetchFailure{
				Reason: domain.FailureReason(reason.String),
				Detail: detail.String,
			}
		}
		out[k] = snap
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating snapshot rows: %w", err)
	}
	return out, nil
}

// Delete removes one kind's durable snapshot.
func (a *snapshotArchive) Delete(ctx context.Context, kind domain.Kind) error {
	if _, err := a.store.db.ExecContext(ctx,
		"DELETE FROM snapshots WHERE kind = ?", string(kind),
	); err != nil {
		return fmt.Errorf("deleting %s snapshot: %w", kind, err)
	}
	return nil
}

// DeleteAll removes every durable snapshot.
func (a *snapshotArchive) DeleteAll(ctx context.Context) error {
	if _, err := a.store.db.ExecContext(ctx, "DELETE FROM snapshots"); err != nil {
		return fmt.Errorf("deleting snapshots: %w", err)
	}
	return nil
}

// ==================== Credential Vault ====================

// credentialVault implements driven.CredentialVault.
type credentialVault struct {
	store *Store
}

var _ driven.CredentialVault = (*credentialVault)(nil)

// Get retrieves the stored credentials.
func (v *credentialVault) Get(ctx context.Context) (*domain.Credentials, error) {
	row := v.store.db.QueryRowContext(ctx,
		"SELECT username, password, updated_at FROM credentials WHERE id = 1")

	var creds domain.Credentials
	if err := row.Scan(&creds.Username, &creds.Password, &creds.UpdatedAt); err != nil {
		if err == sql.ErrNoRows {
			return nil, domain.ErrCredentialsNotFound
		}
		return nil, fmt.Errorf("reading credentials: %w", err)
	}
	creds.UpdatedAt = creds.UpdatedAt.UTC()
	return &creds, nil
}

// Save stores credentials, replacing any prior set.
func (v *credentialVault) Save(ctx context.Context, creds domain.Credentials) error {
	if _, err := v.store.db.ExecContext(ctx, `
		INSERT INTO credentials (id, username, password, updated_at)
		VALUES (1, ?, ?, ?)
		ON CONFLICT(id) DO UPDATE SET
			username = excluded.username,
			password = excluded.password,
			updated_at = excluded.updated_at
	`, creds.Username, creds.Password, time.Now().UTC()); err != nil {
		return fmt.Errorf("saving credentials: %w", err)
	}
	return nil
}

// Delete removes stored credentials.
func (v *credentialVault) Delete(ctx context.Context) error {
	if _, err := v.store.db.ExecContext(ctx, "DELETE FROM credentials WHERE id = 1"); err != nil {
		return fmt.Errorf("deleting credentials: %w", err)
	}
	return nil
}

// nullTime maps a zero time onto SQL NULL so "never" round-trips.
func nullTime(t time.Time) sql.NullTime {
	if t.IsZero() {
		return sql.NullTime{}
	}
	return sql.NullTime{Time: t.UTC(), Valid: true}
}

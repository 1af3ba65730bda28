package db

import (
	"context"
	"database/sql"
	"embed"
	"fmt"
	"io/fs"
	"slices"
	"strconv"
	"strings"
	"time"

	"github.com/rs/zerolog/log"
)

//go:embed migrations/*.sql
var embeddedMigrations embed.FS

// Migration is one schema version with its up and down SQL.
type Migration struct {
	Version int
	Name    string
	UpSQL   string
	DownSQL string
}

// MigrationStatus pairs a migration with when it was applied. AppliedAt is
// zero for pending migrations.
type MigrationStatus struct {
	Migration
	AppliedAt time.Time
}

// Applied reports whether the migration has been applied.
func (s MigrationStatus) Applied() bool { return !s.AppliedAt.IsZero() }

type direction string

const (
	up   direction = "up"
	down direction = "down"
)

// migrationFile is the parsed form of "NNNN_name.{up,down}.sql".
type migrationFile struct {
	version int
	name    string
	dir     direction
}

// Migrator applies versioned SQL migrations read from an fs.FS and tracks them
// in the schema_migrations table.
type Migrator struct {
	conn *sql.DB
	fsys fs.FS
}

// NewMigrator returns a migrator for the migrations embedded in the binary.
func NewMigrator(conn *sql.DB) *Migrator {
	fsys, err := fs.Sub(embeddedMigrations, "migrations")
	if err != nil {
		panic(err) // the embed pattern guarantees the directory
	}
	return &Migrator{conn: conn, fsys: fsys}
}

// Migrations loads and pairs the migration files, sorted by version.
func (m *Migrator) Migrations() ([]Migration, error) {
	entries, err := fs.ReadDir(m.fsys, ".")
	if err != nil {
		return nil, fmt.Errorf("read migrations: %w", err)
	}

	byVersion := make(map[int]*Migration)
	for _, entry := range entries {
		if entry.IsDir() {
			continue
		}

		f, err := parseFilename(entry.Name())
		if err != nil {
			return nil, fmt.Errorf("invalid migration filename %q: %w", entry.Name(), err)
		}
		content, err := fs.ReadFile(m.fsys, entry.Name())
		if err != nil {
			return nil, fmt.Errorf("read %s: %w", entry.Name(), err)
		}

		mig, ok := byVersion[f.version]
		if !ok {
			mig = &Migration{Version: f.version, Name: f.name}
			byVersion[f.version] = mig
		}

		slot := &mig.UpSQL
		if f.dir == down {
			slot = &mig.DownSQL
		}
		if *slot != "" {
			return nil, fmt.Errorf("duplicate %s migration for version %04d", f.dir, f.version)
		}
		*slot = string(content)
	}

	migrations := make([]Migration, 0, len(byVersion))
	for _, mig := range byVersion {
		switch {
		case mig.UpSQL == "":
			return nil, fmt.Errorf("migration %04d has down file but no up file", mig.Version)
		case mig.DownSQL == "":
			return nil, fmt.Errorf("migration %04d has up file but no down file", mig.Version)
		}
		migrations = append(migrations, *mig)
	}

	slices.SortFunc(migrations, func(a, b Migration) int { return a.Version - b.Version })
	return migrations, nil
}

// Up applies every pending migration in version order and returns how many
// were applied.
func (m *Migrator) Up(ctx context.Context) (int, error) {
	statuses, err := m.Status(ctx)
	if err != nil {
		return 0, err
	}

	n := 0
	for _, s := range statuses {
		if s.Applied() {
			continue
		}

		log.Info().Int("version", s.Version).Str("name", s.Name).Msg("applying migration")
		err := m.inTx(ctx, s.UpSQL,
			"INSERT INTO schema_migrations (version, name, applied_at) VALUES (?, ?, ?)",
			s.Version, s.Name, time.Now().UnixNano())
		if err != nil {
			return n, fmt.Errorf("migration %04d (%s): %w", s.Version, s.Name, err)
		}
		n++
	}
	return n, nil
}

// Down reverts the last n applied migrations, newest first.
func (m *Migrator) Down(ctx context.Context, n int) error {
	if n <= 0 {
		return fmt.Errorf("n must be positive, got %d", n)
	}

	statuses, err := m.Status(ctx)
	if err != nil {
		return err
	}

	var applied []MigrationStatus
	for _, s := range slices.Backward(statuses) {
		if s.Applied() {
			applied = append(applied, s)
		}
	}
	if n > len(applied) {
		return fmt.Errorf("requested %d down migrations but only %d are applied", n, len(applied))
	}

	for _, s := range applied[:n] {
		log.Info().Int("version", s.Version).Str("name", s.Name).Msg("reverting migration")
		err := m.inTx(ctx, s.DownSQL, "DELETE FROM schema_migrations WHERE version = ?", s.Version)
		if err != nil {
			return fmt.Errorf("revert migration %04d (%s): %w", s.Version, s.Name, err)
		}
	}
	return nil
}

// Status lists every known migration with its applied time.
func (m *Migrator) Status(ctx context.Context) ([]MigrationStatus, error) {
	migrations, err := m.Migrations()
	if err != nil {
		return nil, err
	}

	applied, err := m.appliedAt(ctx)
	if err != nil {
		return nil, err
	}

	statuses := make([]MigrationStatus, len(migrations))
	for i, mig := range migrations {
		statuses[i] = MigrationStatus{Migration: mig, AppliedAt: applied[mig.Version]}
	}
	return statuses, nil
}

// appliedAt returns applied versions mapped to their apply time, creating the
// tracking table on first use.
func (m *Migrator) appliedAt(ctx context.Context) (map[int]time.Time, error) {
	_, err := m.conn.ExecContext(ctx, `
		CREATE TABLE IF NOT EXISTS schema_migrations (
			version    INTEGER PRIMARY KEY,
			name       TEXT NOT NULL,
			applied_at INTEGER NOT NULL
		)
	`)
	if err != nil {
		return nil, fmt.Errorf("create schema_migrations table: %w", err)
	}

	rows, err := m.conn.QueryContext(ctx, "SELECT version, applied_at FROM schema_migrations")
	if err != nil {
		return nil, fmt.Errorf("query applied versions: %w", err)
	}
	defer func() { _ = rows.Close() }()

	applied := make(map[int]time.Time)
	for rows.Next() {
		var (
			version int
			at      int64
		)
		if err := rows.Scan(&version, &at); err != nil {
			return nil, fmt.Errorf("scan version: %w", err)
		}
		applied[version] = time.Unix(0, at)
	}
	return applied, rows.Err()
}

// inTx runs the migration SQL and the bookkeeping statement atomically.
func (m *Migrator) inTx(ctx context.Context, migrationSQL, record string, args ...any) error {
	tx, err := m.conn.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin transaction: %w", err)
	}
	defer func() { _ = tx.Rollback() }()

	if _, err := tx.ExecContext(ctx, migrationSQL); err != nil {
		return fmt.Errorf("execute SQL: %w", err)
	}
	if _, err := tx.ExecContext(ctx, record, args...); err != nil {
		return fmt.Errorf("record migration: %w", err)
	}
	return tx.Commit()
}

// parseFilename parses "NNNN_name.up.sql" or "NNNN_name.down.sql".
func parseFilename(filename string) (migrationFile, error) {
	var f migrationFile

	base, ok := strings.CutSuffix(filename, ".up.sql")
	f.dir = up
	if !ok {
		base, ok = strings.CutSuffix(filename, ".down.sql")
		f.dir = down
	}
	if !ok {
		return f, fmt.Errorf("expected .up.sql or .down.sql suffix, got %q", filename)
	}

	num, name, ok := strings.Cut(base, "_")
	if !ok || name == "" {
		return f, fmt.Errorf("expected format NNNN_name.{up,down}.sql")
	}

	version, err := strconv.Atoi(num)
	if err != nil {
		return f, fmt.Errorf("version %q is not a valid integer: %w", num, err)
	}
	if version <= 0 {
		return f, fmt.Errorf("version must be positive, got %d", version)
	}

	f.version, f.name = version, name
	return f, nil
}

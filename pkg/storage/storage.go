package storage

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/starcheat/starcheat/pkg/directives"
	_ "modernc.org/sqlite"
)

// ErrPresetNotFound is returned when a named preset does not exist.
var ErrPresetNotFound = errors.New("preset not found")

type DB struct {
	sql *sql.DB
}

func Open(path string) (*DB, error) {
	dsn := "file:" + path + "?_pragma=busy_timeout(5000)&_pragma=journal_mode(WAL)"
	db, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, err
	}
	if err := db.Ping(); err != nil {
		return nil, err
	}
	// Ensure schema exists for convenience.
	if _, err := db.Exec(`
CREATE TABLE IF NOT EXISTS presets (
  id          INTEGER PRIMARY KEY,
  name        TEXT NOT NULL,
  channel     TEXT NOT NULL,
  directives  TEXT NOT NULL,
  created_at  DATETIME NOT NULL DEFAULT CURRENT_TIMESTAMP,
  updated_at  DATETIME NOT NULL DEFAULT CURRENT_TIMESTAMP,
  UNIQUE(name, channel)
);
CREATE TABLE IF NOT EXISTS appearance_changes (
  id          INTEGER PRIMARY KEY,
  occurred_at DATETIME NOT NULL DEFAULT CURRENT_TIMESTAMP,
  player      TEXT NOT NULL,
  channel     TEXT NOT NULL,
  old_value   TEXT NOT NULL,
  new_value   TEXT NOT NULL
);
CREATE INDEX IF NOT EXISTS idx_changes_time ON appearance_changes(occurred_at);
CREATE INDEX IF NOT EXISTS idx_changes_player ON appearance_changes(player, occurred_at);
    `); err != nil {
		return nil, err
	}
	return &DB{sql: db}, nil
}

func (d *DB) Close() error {
	if d == nil || d.sql == nil {
		return nil
	}
	return d.sql.Close()
}

// SavePreset stores or overwrites a named directive string for a channel.
func (d *DB) SavePreset(ctx context.Context, p Preset) error {
	name := NormalizePresetName(p.Name)
	if name == "" {
		return errors.New("preset name is empty")
	}
	if _, err := directives.Parse(p.Directives); err != nil {
		return fmt.Errorf("preset %q: %w", name, err)
	}
	_, err := d.sql.ExecContext(ctx, `
INSERT INTO presets(name, channel, directives) VALUES(?,?,?)
ON CONFLICT(name, channel) DO UPDATE SET directives = excluded.directives, updated_at = CURRENT_TIMESTAMP`,
		name, string(p.Channel), p.Directives)
	return err
}

// GetPreset loads a preset by name and channel.
func (d *DB) GetPreset(ctx context.Context, name string, ch directives.Channel) (Preset, error) {
	row := d.sql.QueryRowContext(ctx, "SELECT name, channel, directives, created_at, updated_at FROM presets WHERE name = ? AND channel = ?", NormalizePresetName(name), string(ch))
	p, err := scanPreset(row)
	if errors.Is(err, sql.ErrNoRows) {
		return Preset{}, fmt.Errorf("%w: %s/%s", ErrPresetNotFound, name, ch)
	}
	return p, err
}

// ListPresets returns presets, optionally restricted to one channel.
func (d *DB) ListPresets(ctx context.Context, ch directives.Channel) ([]Preset, error) {
	q := "SELECT name, channel, directives, created_at, updated_at FROM presets"
	args := []interface{}{}
	if ch != "" {
		q += " WHERE channel = ?"
		args = append(args, string(ch))
	}
	q += " ORDER BY channel, name"
	rows, err := d.sql.QueryContext(ctx, q, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []Preset
	for rows.Next() {
		p, err := scanPreset(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, p)
	}
	return out, rows.Err()
}

// DeletePreset removes a preset.
func (d *DB) DeletePreset(ctx context.Context, name string, ch directives.Channel) error {
	res, err := d.sql.ExecContext(ctx, "DELETE FROM presets WHERE name = ? AND channel = ?", NormalizePresetName(name), string(ch))
	if err != nil {
		return err
	}
	rows, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if rows == 0 {
		return fmt.Errorf("%w: %s/%s", ErrPresetNotFound, name, ch)
	}
	return nil
}

type scanner interface {
	Scan(dest ...interface{}) error
}

func scanPreset(s scanner) (Preset, error) {
	var (
		p                Preset
		channel          string
		created, updated string
	)
	if err := s.Scan(&p.Name, &channel, &p.Directives, &created, &updated); err != nil {
		return Preset{}, err
	}
	p.Channel = directives.Channel(channel)
	p.CreatedAt = parseTimestamp(created)
	p.UpdatedAt = parseTimestamp(updated)
	return p, nil
}

// RecordChanges appends committed channel changes to the history.
func (d *DB) RecordChanges(ctx context.Context, changes []Change) error {
	if len(changes) == 0 {
		return nil
	}
	tx, err := d.sql.BeginTx(ctx, &sql.TxOptions{})
	if err != nil {
		return err
	}
	defer func() {
		if err != nil {
			_ = tx.Rollback()
		}
	}()
	for _, c := range changes {
		_, err = tx.ExecContext(ctx, `INSERT INTO appearance_changes(occurred_at, player, channel, old_value, new_value) VALUES(CURRENT_TIMESTAMP, ?, ?, ?, ?)`, c.Player, string(c.Channel), c.Before, c.After)
		if err != nil {
			return err
		}
	}
	err = tx.Commit()
	return err
}

// ListRecentChanges returns the most recent N changes, optionally for a
// single player.
func (d *DB) ListRecentChanges(ctx context.Context, playerName string, limit int) ([]Change, error) {
	if limit <= 0 {
		limit = 50
	}
	q := "SELECT occurred_at, player, channel, old_value, new_value FROM appearance_changes"
	args := []interface{}{}
	if playerName != "" {
		q += " WHERE player = ?"
		args = append(args, playerName)
	}
	q += " ORDER BY occurred_at DESC, id DESC LIMIT ?"
	args = append(args, limit)
	rows, err := d.sql.QueryContext(ctx, q, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	changes := []Change{}
	for rows.Next() {
		var c Change
		var occurredAtStr, channel string
		if err := rows.Scan(&occurredAtStr, &c.Player, &channel, &c.Before, &c.After); err != nil {
			return nil, err
		}
		c.OccurredAt = parseTimestamp(occurredAtStr)
		c.Channel = directives.Channel(channel)
		changes = append(changes, c)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return changes, nil
}

// parseTimestamp reads SQLite CURRENT_TIMESTAMP values.
// Try "2006-01-02 15:04:05" then RFC3339
func parseTimestamp(s string) time.Time {
	if t, err := time.Parse("2006-01-02 15:04:05", s); err == nil {
		return t
	}
	if t, err := time.Parse(time.RFC3339, s); err == nil {
		return t
	}
	return time.Time{}
}

// NormalizePresetName trims and lower-cases a preset name.
func NormalizePresetName(s string) string {
	return strings.ToLower(strings.TrimSpace(s))
}

package store

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"math/rand"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/oklog/ulid/v2"
	_ "modernc.org/sqlite"

	"github.com/rcliao/daybook/internal/model"
	"github.com/rcliao/daybook/internal/textmetrics"
)

// SQLiteStore implements Store using SQLite.
type SQLiteStore struct {
	db      *sql.DB
	entropy io.Reader
}

var _ Store = (*SQLiteStore)(nil)

// NewSQLiteStore opens or creates a SQLite database at the given path.
func NewSQLiteStore(dbPath string) (*SQLiteStore, error) {
	dir := filepath.Dir(dbPath)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("create db dir: %w", err)
	}

	db, err := sql.Open("sqlite", dbPath+"?_pragma=journal_mode(wal)&_pragma=foreign_keys(on)&_pragma=busy_timeout(5000)")
	if err != nil {
		return nil, fmt.Errorf("open db: %w", err)
	}

	s := &SQLiteStore{
		db:      db,
		entropy: &ulid.LockedMonotonicReader{
			MonotonicReader: ulid.Monotonic(rand.New(rand.NewSource(time.Now().UnixNano())), 0),
		},
	}

	if err := s.migrate(); err != nil {
		db.Close()
		return nil, fmt.Errorf("migrate: %w", err)
	}

	return s, nil
}

func (s *SQLiteStore) newID() string {
	return ulid.MustNew(ulid.Timestamp(time.Now()), s.entropy).String()
}

func (s *SQLiteStore) migrate() error {
	schema := `
	CREATE TABLE IF NOT EXISTS entries (
		seq               INTEGER PRIMARY KEY,
		id                TEXT NOT NULL UNIQUE,
		title             TEXT NOT NULL DEFAULT '',
		content           TEXT NOT NULL DEFAULT '',
		plain_content     TEXT,
		mood              TEXT,
		tags              TEXT,
		word_count        INTEGER NOT NULL DEFAULT 0,
		created_at        TEXT NOT NULL,
		updated_at        TEXT NOT NULL,
		location_name     TEXT,
		latitude          REAL,
		longitude         REAL,
		weather_condition TEXT,
		temperature_c     REAL
	);
	CREATE INDEX IF NOT EXISTS idx_entries_created ON entries(created_at DESC);
	CREATE INDEX IF NOT EXISTS idx_entries_mood ON entries(mood);

	CREATE TABLE IF NOT EXISTS goals (
		id            TEXT PRIMARY KEY,
		title         TEXT NOT NULL,
		description   TEXT NOT NULL DEFAULT '',
		frequency     TEXT NOT NULL DEFAULT 'daily',
		reminder_time TEXT,
		reminder_days TEXT,
		active        INTEGER NOT NULL DEFAULT 1,
		created_at    TEXT NOT NULL,
		updated_at    TEXT NOT NULL
	);
	CREATE INDEX IF NOT EXISTS idx_goals_active ON goals(active);

	CREATE TABLE IF NOT EXISTS goal_checkins (
		id         TEXT PRIMARY KEY,
		goal_id    TEXT NOT NULL REFERENCES goals(id) ON DELETE CASCADE,
		date       TEXT NOT NULL,
		completed  INTEGER NOT NULL DEFAULT 1,
		note       TEXT,
		created_at TEXT NOT NULL,
		UNIQUE (goal_id, date)
	);
	CREATE INDEX IF NOT EXISTS idx_checkins_goal ON goal_checkins(goal_id, completed);

	CREATE VIRTUAL TABLE IF NOT EXISTS entries_fts USING fts5(
		title,
		content,
		tags
	);
	`
	if _, err := s.db.Exec(schema); err != nil {
		return err
	}

	// The index is synchronized from Go; drop triggers left by older schemas
	// so rows are not indexed twice.
	for _, trg := range []string{"entries_ai", "entries_ad", "entries_au"} {
		if _, err := s.db.Exec(`DROP TRIGGER IF EXISTS ` + trg); err != nil {
			return fmt.Errorf("drop trigger %s: %w", trg, err)
		}
	}
	return nil
}

// Close closes the database.
func (s *SQLiteStore) Close() error {
	return s.db.Close()
}

func (s *SQLiteStore) CreateEntry(ctx context.Context, p CreateEntryParams) (*model.Entry, error) {
	now := time.Now().UTC()
	e := &model.Entry{
		ID:           s.newID(),
		Title:        strings.TrimSpace(p.Title),
		Content:      p.Content,
		PlainContent: p.PlainContent,
		Mood:         strings.TrimSpace(p.Mood),
		Tags:         normalizeTags(p.Tags),
		CreatedAt:    now,
		UpdatedAt:    now,
		Location:     p.Location,
		Weather:      p.Weather,
	}
	e.WordCount = textmetrics.WordCount(textmetrics.PlainContent(e.PlainContent, e.Content))

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return nil, err
	}
	defer tx.Rollback()

	if err := insertEntry(ctx, tx, e); err != nil {
		return nil, err
	}
	if err := tx.Commit(); err != nil {
		return nil, err
	}
	return e, nil
}

// insertEntry writes e with its own timestamps and indexes it on the same
// transaction.
func insertEntry(ctx context.Context, tx execer, e *model.Entry) error {
	res, err := tx.ExecContext(ctx,
		`INSERT INTO entries (id, title, content, plain_content, mood, tags, word_count, created_at, updated_at,
		                      location_name, latitude, longitude, weather_condition, temperature_c)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		append([]any{e.ID, e.Title, e.Content, nullableString(e.PlainContent), nullableString(e.Mood),
			tagsJSON(e.Tags), e.WordCount, e.CreatedAt.UTC().Format(time.RFC3339), e.UpdatedAt.UTC().Format(time.RFC3339)},
			contextArgs(e)...)...)
	if err != nil {
		return fmt.Errorf("insert entry: %w", err)
	}
	seq, err := res.LastInsertId()
	if err != nil {
		return fmt.Errorf("insert entry: %w", err)
	}
	return indexEntry(ctx, tx, seq, e)
}

func (s *SQLiteStore) UpdateEntry(ctx context.Context, p UpdateEntryParams) (*model.Entry, error) {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return nil, err
	}
	defer tx.Rollback()

	seq, e, err := getEntryTx(ctx, tx, p.ID)
	if err != nil {
		return nil, err
	}

	if p.Title != nil {
		e.Title = strings.TrimSpace(*p.Title)
	}
	if p.Content != nil {
		e.Content = *p.Content
	}
	if p.PlainContent != nil {
		e.PlainContent = *p.PlainContent
	}
	if p.Mood != nil {
		e.Mood = strings.TrimSpace(*p.Mood)
	}
	if p.Tags != nil {
		e.Tags = normalizeTags(p.Tags)
	}
	if p.Location != nil {
		e.Location = p.Location
	}
	if p.Weather != nil {
		e.Weather = p.Weather
	}
	e.WordCount = textmetrics.WordCount(textmetrics.PlainContent(e.PlainContent, e.Content))
	e.UpdatedAt = time.Now().UTC()

	_, err = tx.ExecContext(ctx,
		`UPDATE entries SET title = ?, content = ?, plain_content = ?, mood = ?, tags = ?, word_count = ?, updated_at = ?,
		                    location_name = ?, latitude = ?, longitude = ?, weather_condition = ?, temperature_c = ?
		 WHERE seq = ?`,
		append(append([]any{e.Title, e.Content, nullableString(e.PlainContent), nullableString(e.Mood),
			tagsJSON(e.Tags), e.WordCount, e.UpdatedAt.Format(time.RFC3339)},
			contextArgs(e)...), seq)...)
	if err != nil {
		return nil, fmt.Errorf("update entry: %w", err)
	}

	if err := reindexEntry(ctx, tx, seq, e); err != nil {
		return nil, err
	}

	if err := tx.Commit(); err != nil {
		return nil, err
	}
	return e, nil
}

func (s *SQLiteStore) DeleteEntry(ctx context.Context, id string) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer tx.Rollback()

	var seq int64
	err = tx.QueryRowContext(ctx, `SELECT seq FROM entries WHERE id = ?`, id).Scan(&seq)
	if errors.Is(err, sql.ErrNoRows) {
		return fmt.Errorf("entry %s: %w", id, ErrNotFound)
	}
	if err != nil {
		return err
	}

	if _, err := tx.ExecContext(ctx, `DELETE FROM entries WHERE seq = ?`, seq); err != nil {
		return fmt.Errorf("delete entry: %w", err)
	}
	if err := unindexEntry(ctx, tx, seq); err != nil {
		return err
	}
	return tx.Commit()
}

func (s *SQLiteStore) GetEntry(ctx context.Context, id string) (*model.Entry, error) {
	row := s.db.QueryRowContext(ctx, `SELECT `+entryColumns+` FROM entries e WHERE e.id = ?`, id)
	e, err := scanEntry(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("entry %s: %w", id, ErrNotFound)
	}
	if err != nil {
		return nil, err
	}
	return &e, nil
}

func (s *SQLiteStore) ListEntries(ctx context.Context, p ListEntriesParams) ([]model.Entry, error) {
	limit := p.Limit
	if limit <= 0 {
		limit = 20
	}

	where := []string{"1 = 1"}
	var args []any
	if p.Mood != "" {
		where = append(where, "e.mood = ?")
		args = append(args, p.Mood)
	}
	if p.Tag != "" {
		where = append(where, "EXISTS (SELECT 1 FROM json_each(e.tags) t WHERE t.value = ? COLLATE NOCASE)")
		args = append(args, strings.TrimSpace(p.Tag))
	}
	args = append(args, limit)

	query := fmt.Sprintf(`SELECT %s FROM entries e WHERE %s ORDER BY e.created_at DESC, e.seq DESC LIMIT ?`,
		entryColumns, strings.Join(where, " AND "))
	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var entries []model.Entry
	for rows.Next() {
		e, err := scanEntry(rows)
		if err != nil {
			return nil, err
		}
		entries = append(entries, e)
	}
	return entries, rows.Err()
}

const entryColumns = `e.id, e.title, e.content, e.plain_content, e.mood, e.tags, e.word_count, e.created_at, e.updated_at,
	e.location_name, e.latitude, e.longitude, e.weather_condition, e.temperature_c`

func getEntryTx(ctx context.Context, tx *sql.Tx, id string) (int64, *model.Entry, error) {
	var seq int64
	if err := tx.QueryRowContext(ctx, `SELECT seq FROM entries WHERE id = ?`, id).Scan(&seq); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return 0, nil, fmt.Errorf("entry %s: %w", id, ErrNotFound)
		}
		return 0, nil, err
	}
	e, err := scanEntry(tx.QueryRowContext(ctx, `SELECT `+entryColumns+` FROM entries e WHERE e.seq = ?`, seq))
	if err != nil {
		return 0, nil, err
	}
	return seq, &e, nil
}

type scanner interface {
	Scan(dest ...any) error
}

func scanEntry(row scanner) (model.Entry, error) {
	var e model.Entry
	var plain, mood, tags, locName, weatherCond sql.NullString
	var lat, lon, temp sql.NullFloat64
	var createdAt, updatedAt string

	err := row.Scan(&e.ID, &e.Title, &e.Content, &plain, &mood, &tags, &e.WordCount, &createdAt, &updatedAt,
		&locName, &lat, &lon, &weatherCond, &temp)
	if err != nil {
		return e, err
	}

	e.CreatedAt, _ = time.Parse(time.RFC3339, createdAt)
	e.UpdatedAt, _ = time.Parse(time.RFC3339, updatedAt)
	e.PlainContent = plain.String
	e.Mood = mood.String
	if tags.Valid {
		json.Unmarshal([]byte(tags.String), &e.Tags)
	}
	if lat.Valid && lon.Valid {
		e.Location = &model.Location{Name: locName.String, Latitude: lat.Float64, Longitude: lon.Float64}
	}
	if weatherCond.Valid {
		e.Weather = &model.Weather{Condition: weatherCond.String, TempC: temp.Float64}
	}
	return e, nil
}

// contextArgs returns the location and weather column values of an entry.
func contextArgs(e *model.Entry) []any {
	var locName, weatherCond *string
	var lat, lon, temp *float64
	if e.Location != nil {
		locName = nullableString(e.Location.Name)
		lat, lon = &e.Location.Latitude, &e.Location.Longitude
	}
	if e.Weather != nil {
		weatherCond = &e.Weather.Condition
		temp = &e.Weather.TempC
	}
	return []any{locName, lat, lon, weatherCond, temp}
}

// normalizeTags trims, drops empties and removes duplicates while keeping order.
func normalizeTags(tags []string) []string {
	if len(tags) == 0 {
		return nil
	}
	seen := make(map[string]bool, len(tags))
	out := make([]string, 0, len(tags))
	for _, t := range tags {
		t = strings.TrimSpace(t)
		if t == "" || seen[strings.ToLower(t)] {
			continue
		}
		seen[strings.ToLower(t)] = true
		out = append(out, t)
	}
	if len(out) == 0 {
		return nil
	}
	return out
}

func tagsJSON(tags []string) *string {
	if len(tags) == 0 {
		return nil
	}
	b, _ := json.Marshal(tags)
	s := string(b)
	return &s
}

func nullableString(s string) *string {
	if s == "" {
		return nil
	}
	return &s
}

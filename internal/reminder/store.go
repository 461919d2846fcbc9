package reminder

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"

	_ "modernc.org/sqlite"
)

// Store provides SQLite-backed storage for reminders. Every single-record
// mutation is one SQL statement, so it is atomic with respect to the
// scheduler and the interactive surfaces sharing the database.
type Store struct {
	db  *sql.DB
	loc *time.Location
	now func() time.Time
}

// NewStore opens (or creates) the SQLite database at dbPath and ensures the
// reminders table exists. Due-times read back from the database are
// expressed in loc (time.Local when nil).
func NewStore(dbPath string, loc *time.Location) (*Store, error) {
	if loc == nil {
		loc = time.Local
	}

	db, err := sql.Open("sqlite", dbPath+"?_pragma=busy_timeout(5000)")
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	// Enable WAL mode for better concurrency
	if _, err := db.Exec("PRAGMA journal_mode=WAL"); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to set WAL mode: %w", err)
	}

	if err := createTable(db); err != nil {
		db.Close()
		return nil, err
	}
	if err := migrate(db); err != nil {
		db.Close()
		return nil, err
	}
	if err := createIndex(db); err != nil {
		db.Close()
		return nil, err
	}

	return &Store{db: db, loc: loc, now: time.Now}, nil
}

func createTable(db *sql.DB) error {
	_, err := db.Exec(`
		CREATE TABLE IF NOT EXISTS reminders (
			id            INTEGER PRIMARY KEY AUTOINCREMENT,
			title         TEXT    NOT NULL,
			description   TEXT    NOT NULL DEFAULT '',
			due_at        TEXT    NOT NULL,
			due_unix      INTEGER NOT NULL,
			category      TEXT    NOT NULL DEFAULT '',
			recurrence    TEXT    NOT NULL DEFAULT 'none',
			status        TEXT    NOT NULL DEFAULT 'pending',
			main_fired    INTEGER NOT NULL DEFAULT 0,
			advance_fired INTEGER NOT NULL DEFAULT 0,
			created_at    TEXT    NOT NULL,
			updated_at    TEXT    NOT NULL
		)
	`)
	if err != nil {
		return fmt.Errorf("failed to create table: %w", err)
	}
	return nil
}

// createIndex runs after migrate so older tables already have due_unix.
func createIndex(db *sql.DB) error {
	if _, err := db.Exec(`CREATE INDEX IF NOT EXISTS idx_reminders_status_due ON reminders (status, due_unix)`); err != nil {
		return fmt.Errorf("failed to create index: %w", err)
	}
	return nil
}

// optionalColumns were added after the first schema; databases created by
// older builds get them with their defaults.
var optionalColumns = []struct {
	name string
	ddl  string
}{
	{"due_unix", "due_unix INTEGER NOT NULL DEFAULT 0"},
	{"category", "category TEXT NOT NULL DEFAULT ''"},
	{"recurrence", "recurrence TEXT NOT NULL DEFAULT 'none'"},
	{"advance_fired", "advance_fired INTEGER NOT NULL DEFAULT 0"},
}

func migrate(db *sql.DB) error {
	rows, err := db.Query(`PRAGMA table_info(reminders)`)
	if err != nil {
		return fmt.Errorf("failed to inspect table: %w", err)
	}
	existing := make(map[string]bool)
	for rows.Next() {
		var (
			cid       int
			name      string
			ctype     string
			notNull   int
			dfltValue sql.NullString
			pk        int
		)
		if err := rows.Scan(&cid, &name, &ctype, &notNull, &dfltValue, &pk); err != nil {
			rows.Close()
			return fmt.Errorf("failed to scan table info: %w", err)
		}
		existing[name] = true
	}
	rows.Close()
	if err := rows.Err(); err != nil {
		return fmt.Errorf("failed to read table info: %w", err)
	}

	for _, col := range optionalColumns {
		if existing[col.name] {
			continue
		}
		if _, err := db.Exec("ALTER TABLE reminders ADD COLUMN " + col.ddl); err != nil {
			return fmt.Errorf("failed to add column %s: %w", col.name, err)
		}
	}

	if !existing["due_unix"] {
		// due_at is RFC 3339, which strftime understands including the offset.
		if _, err := db.Exec(`UPDATE reminders SET due_unix = CAST(strftime('%s', due_at) AS INTEGER)`); err != nil {
			return fmt.Errorf("failed to backfill due_unix: %w", err)
		}
	}
	return nil
}

// Close closes the underlying database connection.
func (s *Store) Close() error {
	return s.db.Close()
}

// Location returns the time zone due-times are expressed in.
func (s *Store) Location() *time.Location {
	return s.loc
}

// Create validates r and inserts it as a new pending reminder with both
// fired flags cleared. It returns the assigned id.
func (s *Store) Create(ctx context.Context, r Reminder) (int64, error) {
	if r.Recurrence == "" {
		r.Recurrence = RecurNone
	}
	if err := Validate(r); err != nil {
		return 0, err
	}
	rec, _ := ParseRecurrence(string(r.Recurrence))

	now := s.now().UTC()
	due := r.DueAt.In(s.loc).Truncate(time.Minute)

	result, err := s.db.ExecContext(ctx, `
		INSERT INTO reminders (title, description, due_at, due_unix, category, recurrence,
			status, main_fired, advance_fired, created_at, updated_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, 0, 0, ?, ?)
	`, strings.TrimSpace(r.Title), r.Description, formatTime(due), due.Unix(), r.Category, string(rec),
		string(StatusPending), formatTime(now), formatTime(now))
	if err != nil {
		return 0, fmt.Errorf("failed to insert reminder: %w", err)
	}

	id, err := result.LastInsertId()
	if err != nil {
		return 0, fmt.Errorf("failed to get inserted ID: %w", err)
	}
	return id, nil
}

const selectColumns = `id, title, description, due_at, category, recurrence, status,
	main_fired, advance_fired, created_at, updated_at`

// Get returns a single reminder by id, or ErrNotFound.
func (s *Store) Get(ctx context.Context, id int64) (Reminder, error) {
	row := s.db.QueryRowContext(ctx, `SELECT `+selectColumns+` FROM reminders WHERE id = ?`, id)

	r, err := s.scanReminder(row)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return Reminder{}, fmt.Errorf("reminder %d: %w", id, ErrNotFound)
		}
		return Reminder{}, fmt.Errorf("failed to get reminder: %w", err)
	}
	return r, nil
}

// ListPending returns a snapshot of every pending reminder ordered by
// due-time, then id.
func (s *Store) ListPending(ctx context.Context) ([]Reminder, error) {
	return s.List(ctx, StatusPending)
}

// List returns reminders, optionally filtered by status. Pass an empty
// status to list all.
func (s *Store) List(ctx context.Context, status Status) ([]Reminder, error) {
	var (
		rows *sql.Rows
		err  error
	)
	if status != "" {
		rows, err = s.db.QueryContext(ctx, `SELECT `+selectColumns+` FROM reminders
			WHERE status = ? ORDER BY due_unix ASC, id ASC`, string(status))
	} else {
		rows, err = s.db.QueryContext(ctx, `SELECT `+selectColumns+` FROM reminders
			ORDER BY due_unix ASC, id ASC`)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to list reminders: %w", err)
	}
	defer rows.Close()

	return s.scanReminders(rows)
}

// ListRange returns reminders whose due-time lies in [from, to], optionally
// filtered by status. A zero from means no lower bound.
func (s *Store) ListRange(ctx context.Context, from, to time.Time, status Status) ([]Reminder, error) {
	lower := int64(-1 << 62)
	if !from.IsZero() {
		lower = from.Unix()
	}

	query := `SELECT ` + selectColumns + ` FROM reminders WHERE due_unix >= ? AND due_unix <= ?`
	args := []interface{}{lower, to.Unix()}
	if status != "" {
		query += ` AND status = ?`
		args = append(args, string(status))
	}
	query += ` ORDER BY due_unix ASC, id ASC`

	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to list reminders by due-time: %w", err)
	}
	defer rows.Close()

	return s.scanReminders(rows)
}

// Recent returns the most recently created reminders, newest first.
func (s *Store) Recent(ctx context.Context, limit int) ([]Reminder, error) {
	if limit <= 0 {
		limit = 50
	}
	rows, err := s.db.QueryContext(ctx, `SELECT `+selectColumns+` FROM reminders
		ORDER BY created_at DESC, id DESC LIMIT ?`, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to list recent reminders: %w", err)
	}
	defer rows.Close()

	return s.scanReminders(rows)
}

// UpdateFields holds optional fields for a partial update. Nil pointers are
// left untouched.
//
// Changing DueAt without setting MainFired/AdvanceFired resets both flags:
// the fired state belongs to one occurrence, and a new due-time is a new
// occurrence.
//
// IfDueAt and IfPending turn the update into a compare-and-set: the row is
// only written if its current due-time equals *IfDueAt and/or it is still
// pending. A miss is reported as ErrConflict.
type UpdateFields struct {
	Title        *string
	Description  *string
	DueAt        *time.Time
	Category     *string
	Recurrence   *Recurrence
	Status       *Status
	MainFired    *bool
	AdvanceFired *bool

	IfDueAt   *time.Time
	IfPending bool
}

// Update applies a partial update to a reminder atomically and returns the
// stored result.
func (s *Store) Update(ctx context.Context, id int64, fields UpdateFields) (Reminder, error) {
	setClauses := []string{}
	args := []interface{}{}

	if fields.Title != nil {
		title := strings.TrimSpace(*fields.Title)
		if title == "" {
			return Reminder{}, &ValidationError{Field: "title", Msg: "must not be empty"}
		}
		setClauses = append(setClauses, "title = ?")
		args = append(args, title)
	}
	if fields.Description != nil {
		setClauses = append(setClauses, "description = ?")
		args = append(args, *fields.Description)
	}
	if fields.DueAt != nil {
		if fields.DueAt.IsZero() {
			return Reminder{}, &ValidationError{Field: "due_at", Msg: "is required"}
		}
		due := fields.DueAt.In(s.loc).Truncate(time.Minute)
		setClauses = append(setClauses, "due_at = ?", "due_unix = ?")
		args = append(args, formatTime(due), due.Unix())
		if fields.MainFired == nil {
			setClauses = append(setClauses, "main_fired = 0")
		}
		if fields.AdvanceFired == nil {
			setClauses = append(setClauses, "advance_fired = 0")
		}
	}
	if fields.Category != nil {
		setClauses = append(setClauses, "category = ?")
		args = append(args, *fields.Category)
	}
	if fields.Recurrence != nil {
		rec, err := ParseRecurrence(string(*fields.Recurrence))
		if err != nil {
			return Reminder{}, err
		}
		setClauses = append(setClauses, "recurrence = ?")
		args = append(args, string(rec))

		// A one-off that already fired would otherwise stay fired forever
		// once it becomes recurring. Explicit flags and a new due-time win.
		if rec != RecurNone && fields.DueAt == nil {
			if fields.MainFired == nil {
				setClauses = append(setClauses, "main_fired = CASE WHEN recurrence = 'none' THEN 0 ELSE main_fired END")
			}
			if fields.AdvanceFired == nil {
				setClauses = append(setClauses, "advance_fired = CASE WHEN recurrence = 'none' THEN 0 ELSE advance_fired END")
			}
		}
	}
	if fields.Status != nil {
		st, err := ParseStatus(string(*fields.Status))
		if err != nil {
			return Reminder{}, err
		}
		setClauses = append(setClauses, "status = ?")
		args = append(args, string(st))
	}
	if fields.MainFired != nil {
		setClauses = append(setClauses, "main_fired = ?")
		args = append(args, boolToInt(*fields.MainFired))
	}
	if fields.AdvanceFired != nil {
		setClauses = append(setClauses, "advance_fired = ?")
		args = append(args, boolToInt(*fields.AdvanceFired))
	}

	if len(setClauses) == 0 {
		return s.Get(ctx, id)
	}

	setClauses = append(setClauses, "updated_at = ?")
	args = append(args, formatTime(s.now().UTC()))

	query := "UPDATE reminders SET " + strings.Join(setClauses, ", ") + " WHERE id = ?"
	args = append(args, id)

	guarded := false
	if fields.IfDueAt != nil {
		query += " AND due_unix = ?"
		args = append(args, fields.IfDueAt.Truncate(time.Minute).Unix())
		guarded = true
	}
	if fields.IfPending {
		query += " AND status = ?"
		args = append(args, string(StatusPending))
		guarded = true
	}

	result, err := s.db.ExecContext(ctx, query, args...)
	if err != nil {
		return Reminder{}, fmt.Errorf("failed to update reminder: %w", err)
	}

	n, _ := result.RowsAffected()
	if n == 0 {
		if _, err := s.Get(ctx, id); err != nil {
			return Reminder{}, err
		}
		if guarded {
			return Reminder{}, fmt.Errorf("reminder %d: %w", id, ErrConflict)
		}
	}

	return s.Get(ctx, id)
}

// Complete marks a reminder as completed. A completed reminder never fires.
func (s *Store) Complete(ctx context.Context, id int64) error {
	status := StatusCompleted
	_, err := s.Update(ctx, id, UpdateFields{Status: &status})
	return err
}

// Delete removes a reminder by id.
func (s *Store) Delete(ctx context.Context, id int64) error {
	result, err := s.db.ExecContext(ctx, `DELETE FROM reminders WHERE id = ?`, id)
	if err != nil {
		return fmt.Errorf("failed to delete reminder: %w", err)
	}

	n, _ := result.RowsAffected()
	if n == 0 {
		return fmt.Errorf("reminder %d: %w", id, ErrNotFound)
	}
	return nil
}

type rowScanner interface {
	Scan(dest ...interface{}) error
}

func (s *Store) scanReminders(rows *sql.Rows) ([]Reminder, error) {
	var reminders []Reminder
	for rows.Next() {
		r, err := s.scanReminder(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan reminder: %w", err)
		}
		reminders = append(reminders, r)
	}
	return reminders, rows.Err()
}

func (s *Store) scanReminder(row rowScanner) (Reminder, error) {
	var (
		r                           Reminder
		dueAt, createdAt, updatedAt string
		recurrence, status          string
		mainFired, advanceFired     int
	)

	if err := row.Scan(&r.ID, &r.Title, &r.Description, &dueAt, &r.Category,
		&recurrence, &status, &mainFired, &advanceFired,
		&createdAt, &updatedAt); err != nil {
		return Reminder{}, err
	}

	due, err := time.Parse(time.RFC3339, dueAt)
	if err != nil {
		return Reminder{}, fmt.Errorf("reminder %d has malformed due_at %q: %w", r.ID, dueAt, err)
	}
	r.DueAt = due.In(s.loc)
	r.Recurrence = Recurrence(recurrence)
	r.Status = Status(status)
	r.MainFired = mainFired != 0
	r.AdvanceFired = advanceFired != 0
	r.CreatedAt, _ = time.Parse(time.RFC3339, createdAt)
	r.UpdatedAt, _ = time.Parse(time.RFC3339, updatedAt)

	return r, nil
}

func formatTime(t time.Time) string {
	return t.Format(time.RFC3339)
}

func boolToInt(b bool) int {
	if b {
		return 1
	}
	return 0
}

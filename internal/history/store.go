package history

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	_ "modernc.org/sqlite"

	"cinepick/internal/language"
	"cinepick/internal/recommend"
	"cinepick/internal/services"
)

// DefaultListLimit bounds List when the caller passes no limit.
const DefaultListLimit = 20

// Store persists recommendation runs in SQLite.
type Store struct {
	db   *sql.DB
	path string
}

// Entry summarizes one stored run.
type Entry struct {
	RequestID   string          `json:"request_id"`
	Text        string          `json:"text"`
	Language    language.Option `json:"language"`
	Year        string          `json:"year,omitempty"`
	Suggestions int             `json:"suggestions"`
	Matched     int             `json:"matched"`
	CreatedAt   time.Time       `json:"created_at"`
}

// Open creates or connects to the history database at path.
func Open(path string) (*Store, error) {
	path = strings.TrimSpace(path)
	if path == "" {
		return nil, errors.New("history: database path required")
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return nil, fmt.Errorf("create history dir: %w", err)
	}

	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("open sqlite db: %w", err)
	}

	pragmas := []string{
		"PRAGMA journal_mode=WAL",
		"PRAGMA busy_timeout = 5000",
	}
	for _, pragma := range pragmas {
		if _, execErr := db.Exec(pragma); execErr != nil {
			_ = db.Close()
			return nil, fmt.Errorf("apply pragma %q: %w", pragma, execErr)
		}
	}

	store := &Store{db: db, path: path}
	if err := store.initSchema(context.Background()); err != nil {
		_ = db.Close()
		return nil, err
	}
	return store, nil
}

// Path returns the database file location.
func (s *Store) Path() string {
	if s == nil {
		return ""
	}
	return s.path
}

// Close closes the underlying database connection.
func (s *Store) Close() error {
	if s == nil || s.db == nil {
		return nil
	}
	return s.db.Close()
}

// Save records a completed run. Saving the same request ID twice replaces the
// earlier row.
func (s *Store) Save(ctx context.Context, result recommend.Result) error {
	if strings.TrimSpace(result.RequestID) == "" {
		return errors.New("history: request id required")
	}
	outcomes := result.Outcomes
	if outcomes == nil {
		outcomes = []recommend.Outcome{}
	}
	outcomesJSON, err := json.Marshal(outcomes)
	if err != nil {
		return fmt.Errorf("marshal outcomes: %w", err)
	}
	created := result.CreatedAt
	if created.IsZero() {
		created = time.Now()
	}

	_, err = s.db.ExecContext(
		ctx,
		`INSERT OR REPLACE INTO runs (
            request_id, request_text, language_code, language_label, year,
            raw_output, suggestions, matched, outcomes_json, created_at
        ) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		result.RequestID,
		result.Request.Text,
		nullableString(result.Request.Language.Code),
		nullableString(result.Request.Language.Label),
		nullableString(result.Year),
		result.RawOutput,
		len(result.Outcomes),
		result.Matched(),
		string(outcomesJSON),
		created.UTC().Format(time.RFC3339Nano),
	)
	if err != nil {
		return fmt.Errorf("insert run: %w", err)
	}
	return nil
}

// List returns the most recent runs, newest first.
func (s *Store) List(ctx context.Context, limit int) ([]Entry, error) {
	if limit <= 0 {
		limit = DefaultListLimit
	}
	rows, err := s.db.QueryContext(
		ctx,
		`SELECT request_id, request_text, language_code, language_label, year,
                suggestions, matched, created_at
         FROM runs ORDER BY created_at DESC, rowid DESC LIMIT ?`,
		limit,
	)
	if err != nil {
		return nil, fmt.Errorf("list runs: %w", err)
	}
	defer rows.Close()

	var entries []Entry
	for rows.Next() {
		var (
			entry                       Entry
			code, label, year, createdAt sql.NullString
		)
		if err := rows.Scan(&entry.RequestID, &entry.Text, &code, &label, &year,
			&entry.Suggestions, &entry.Matched, &createdAt); err != nil {
			return nil, fmt.Errorf("scan run: %w", err)
		}
		entry.Language = language.Option{Code: code.String, Label: label.String}
		entry.Year = year.String
		entry.CreatedAt = parseTime(createdAt)
		entries = append(entries, entry)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate runs: %w", err)
	}
	return entries, nil
}

// Get loads a full run by request ID. A missing run reports services.ErrNotFound.
func (s *Store) Get(ctx context.Context, requestID string) (recommend.Result, error) {
	row := s.db.QueryRowContext(
		ctx,
		`SELECT request_id, request_text, language_code, language_label, year,
                raw_output, outcomes_json, created_at
         FROM runs WHERE request_id = ?`,
		requestID,
	)
	var (
		result                       recommend.Result
		code, label, year, createdAt sql.NullString
		outcomesJSON                 string
	)
	err := row.Scan(&result.RequestID, &result.Request.Text, &code, &label, &year,
		&result.RawOutput, &outcomesJSON, &createdAt)
	if errors.Is(err, sql.ErrNoRows) {
		return recommend.Result{}, services.Wrap(services.ErrNotFound, "history", "get", fmt.Sprintf("no run %q", requestID), nil)
	}
	if err != nil {
		return recommend.Result{}, fmt.Errorf("get run: %w", err)
	}
	result.Request.Language = language.Option{Code: code.String, Label: label.String}
	result.Year = year.String
	result.CreatedAt = parseTime(createdAt)
	if err := json.Unmarshal([]byte(outcomesJSON), &result.Outcomes); err != nil {
		return recommend.Result{}, fmt.Errorf("decode outcomes: %w", err)
	}
	return result, nil
}

// Clear removes every stored run and returns how many were deleted.
func (s *Store) Clear(ctx context.Context) (int64, error) {
	res, err := s.db.ExecContext(ctx, `DELETE FROM runs`)
	if err != nil {
		return 0, fmt.Errorf("clear runs: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return 0, fmt.Errorf("rows affected: %w", err)
	}
	return n, nil
}

func nullableString(value string) any {
	if strings.TrimSpace(value) == "" {
		return nil
	}
	return value
}

func parseTime(value sql.NullString) time.Time {
	if !value.Valid || value.String == "" {
		return time.Time{}
	}
	t, err := time.Parse(time.RFC3339Nano, value.String)
	if err != nil {
		return time.Time{}
	}
	return t
}

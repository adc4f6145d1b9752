package database

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/google/uuid"
	_ "modernc.org/sqlite" // SQLite driver

	"github.com/nao1215/qrguard/internal/model"
)

// FileName is the database file created inside the data directory.
const FileName = "qrguard.db"

var (
	// ErrEmptyBatch is returned when saving a batch without cases.
	ErrEmptyBatch = errors.New("case batch is empty")

	// ErrBatchNotFound is returned when no batch matches the given ID.
	ErrBatchNotFound = errors.New("case batch not found")
)

// Library stores fraud case batches and quiz answers.
type Library struct {
	db     *sql.DB
	dbPath string
}

// Options configures Library behavior.
type Options struct {
	// CreateIfNotExists creates the database file if it doesn't exist.
	CreateIfNotExists bool

	// EnableWAL enables Write-Ahead Logging.
	EnableWAL bool
}

// DefaultOptions returns the default database options.
func DefaultOptions() Options {
	return Options{
		CreateIfNotExists: true,
		EnableWAL:         true,
	}
}

// Open opens or creates the library in dbDir.
func Open(dbDir string, opts Options) (*Library, error) {
	dbPath := filepath.Join(dbDir, FileName)

	if !opts.CreateIfNotExists {
		if _, err := os.Stat(dbPath); os.IsNotExist(err) {
			return nil, fmt.Errorf("database not found at %s (use CreateIfNotExists option to create)", dbPath)
		} else if err != nil {
			return nil, fmt.Errorf("failed to check database path: %w", err)
		}
	} else {
		if err := os.MkdirAll(dbDir, 0750); err != nil {
			return nil, fmt.Errorf("failed to create database directory: %w", err)
		}
	}

	// mode=rw refuses to create a missing file, mode=rwc creates it.
	dsn := dbPath + "?mode=rw"
	if opts.CreateIfNotExists {
		dsn = dbPath + "?mode=rwc"
	}

	db, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	// SQLite only supports one writer.
	db.SetMaxOpenConns(1)
	db.SetMaxIdleConns(1)
	db.SetConnMaxLifetime(time.Hour)

	lib := &Library{
		db:     db,
		dbPath: dbPath,
	}

	if opts.EnableWAL {
		if _, err := db.ExecContext(context.Background(), "PRAGMA journal_mode=WAL"); err != nil {
			_ = db.Close()
			return nil, fmt.Errorf("failed to enable WAL mode: %w", err)
		}
	}

	if err := lib.createTables(); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("failed to create tables: %w", err)
	}

	return lib, nil
}

// Path returns the database file path.
func (l *Library) Path() string {
	return l.dbPath
}

// Close closes the database connection.
func (l *Library) Close() error {
	return l.db.Close()
}

func (l *Library) createTables() error {
	schema := `
	CREATE TABLE IF NOT EXISTS case_batches (
		seq INTEGER PRIMARY KEY AUTOINCREMENT,
		id TEXT NOT NULL UNIQUE,
		created_at TEXT NOT NULL,
		case_count INTEGER NOT NULL
	);

	CREATE TABLE IF NOT EXISTS fraud_cases (
		batch_id TEXT NOT NULL REFERENCES case_batches(id) ON DELETE CASCADE,
		position INTEGER NOT NULL,
		case_id TEXT NOT NULL,
		title TEXT NOT NULL,
		description TEXT NOT NULL,
		loss_amount TEXT NOT NULL,
		technique TEXT NOT NULL,
		prevention TEXT NOT NULL,
		PRIMARY KEY (batch_id, position)
	);

	CREATE TABLE IF NOT EXISTS quiz_answers (
		id INTEGER PRIMARY KEY AUTOINCREMENT,
		question TEXT NOT NULL,
		options_json TEXT NOT NULL,
		correct_index INTEGER NOT NULL,
		choice INTEGER NOT NULL,
		correct INTEGER NOT NULL,
		answered_at TEXT NOT NULL
	);
	`

	_, err := l.db.ExecContext(context.Background(), schema)
	return err
}

// CaseBatch is a stored batch of fraud cases.
type CaseBatch struct {
	ID        string            `json:"id"`
	CreatedAt time.Time         `json:"createdAt"`
	Cases     []model.FraudCase `json:"cases"`
}

// CaseBatchSummary describes a stored batch without its cases.
type CaseBatchSummary struct {
	ID        string    `json:"id"`
	CreatedAt time.Time `json:"createdAt"`
	Count     int       `json:"count"`
}

// SaveCaseBatch stores cases as a new batch and returns its ID.
func (l *Library) SaveCaseBatch(ctx context.Context, cases []model.FraudCase) (string, error) {
	if len(cases) == 0 {
		return "", ErrEmptyBatch
	}

	id := uuid.NewString()
	now := time.Now().UTC().Format(time.RFC3339Nano)

	err := withBusyRetry(ctx, func(ctx context.Context) error {
		return l.insertCaseBatch(ctx, id, now, cases)
	})
	if err != nil {
		return "", err
	}
	return id, nil
}

func (l *Library) insertCaseBatch(ctx context.Context, id, createdAt string, cases []model.FraudCase) error {
	tx, err := l.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback() //nolint:errcheck // no-op after commit

	if _, err := tx.ExecContext(ctx,
		`INSERT INTO case_batches (id, created_at, case_count) VALUES (?, ?, ?)`,
		id, createdAt, len(cases),
	); err != nil {
		return fmt.Errorf("failed to save case batch: %w", err)
	}

	for i, c := range cases {
		if _, err := tx.ExecContext(ctx, `
		INSERT INTO fraud_cases (batch_id, position, case_id, title, description, loss_amount, technique, prevention)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?)`,
			id, i, c.ID, c.Title, c.Description, c.LossAmount, c.Technique, c.Prevention,
		); err != nil {
			return fmt.Errorf("failed to save case %q: %w", c.ID, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit case batch: %w", err)
	}
	return nil
}

// ListCaseBatches returns all stored batches, newest first.
func (l *Library) ListCaseBatches(ctx context.Context) ([]CaseBatchSummary, error) {
	rows, err := l.db.QueryContext(ctx,
		`SELECT id, created_at, case_count FROM case_batches ORDER BY seq DESC`)
	if err != nil {
		return nil, fmt.Errorf("failed to list case batches: %w", err)
	}
	defer rows.Close()

	summaries := make([]CaseBatchSummary, 0)
	for rows.Next() {
		var s CaseBatchSummary
		var createdAt string
		if err := rows.Scan(&s.ID, &createdAt, &s.Count); err != nil {
			return nil, fmt.Errorf("failed to scan case batch: %w", err)
		}
		s.CreatedAt = parseTimestamp(createdAt)
		summaries = append(summaries, s)
	}
	return summaries, rows.Err()
}

// GetCaseBatch returns the batch with the given ID, cases in their
// original order.
func (l *Library) GetCaseBatch(ctx context.Context, id string) (*CaseBatch, error) {
	var createdAt string
	err := l.db.QueryRowContext(ctx,
		`SELECT created_at FROM case_batches WHERE id = ?`, id,
	).Scan(&createdAt)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("%w: %s", ErrBatchNotFound, id)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get case batch: %w", err)
	}

	rows, err := l.db.QueryContext(ctx, `
	SELECT case_id, title, description, loss_amount, technique, prevention
	FROM fraud_cases WHERE batch_id = ? ORDER BY position`, id)
	if err != nil {
		return nil, fmt.Errorf("failed to get cases: %w", err)
	}
	defer rows.Close()

	batch := &CaseBatch{
		ID:        id,
		CreatedAt: parseTimestamp(createdAt),
		Cases:     make([]model.FraudCase, 0),
	}
	for rows.Next() {
		var c model.FraudCase
		if err := rows.Scan(&c.ID, &c.Title, &c.Description, &c.LossAmount, &c.Technique, &c.Prevention); err != nil {
			return nil, fmt.Errorf("failed to scan case: %w", err)
		}
		batch.Cases = append(batch.Cases, c)
	}
	return batch, rows.Err()
}

// LatestCaseBatch returns the most recently saved batch.
func (l *Library) LatestCaseBatch(ctx context.Context) (*CaseBatch, error) {
	var id string
	err := l.db.QueryRowContext(ctx,
		`SELECT id FROM case_batches ORDER BY seq DESC LIMIT 1`,
	).Scan(&id)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrBatchNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get latest case batch: %w", err)
	}
	return l.GetCaseBatch(ctx, id)
}

// QuizStats summarizes recorded quiz answers.
type QuizStats struct {
	Answered int `json:"answered"`
	Correct  int `json:"correct"`
}

// Accuracy returns the share of correct answers in [0, 1].
func (s QuizStats) Accuracy() float64 {
	if s.Answered == 0 {
		return 0
	}
	return float64(s.Correct) / float64(s.Answered)
}

// RecordQuizAnswer stores one answer to question.
func (l *Library) RecordQuizAnswer(ctx context.Context, question model.QuizQuestion, choice int, correct bool) error {
	optionsJSON, err := json.Marshal(question.Options)
	if err != nil {
		return fmt.Errorf("failed to serialize options: %w", err)
	}

	answeredAt := time.Now().UTC().Format(time.RFC3339Nano)
	err = withBusyRetry(ctx, func(ctx context.Context) error {
		_, err := l.db.ExecContext(ctx, `
		INSERT INTO quiz_answers (question, options_json, correct_index, choice, correct, answered_at)
		VALUES (?, ?, ?, ?, ?, ?)`,
			question.Question,
			string(optionsJSON),
			question.CorrectIndex,
			choice,
			correct,
			answeredAt,
		)
		return err
	})
	if err != nil {
		return fmt.Errorf("failed to record quiz answer: %w", err)
	}
	return nil
}

// QuizStats returns the answer tally.
func (l *Library) QuizStats(ctx context.Context) (QuizStats, error) {
	var s QuizStats
	err := l.db.QueryRowContext(ctx,
		`SELECT COUNT(*), COALESCE(SUM(correct), 0) FROM quiz_answers`,
	).Scan(&s.Answered, &s.Correct)
	if err != nil {
		return QuizStats{}, fmt.Errorf("failed to read quiz stats: %w", err)
	}
	return s, nil
}

// timestampFormats contains the timestamp formats that SQLite may return.
// The order matters: more specific formats should come first.
var timestampFormats = []string{
	time.RFC3339Nano,
	time.RFC3339,
	"2006-01-02 15:04:05",
	"2006-01-02T15:04:05",
	"2006-01-02 15:04:05.999",
}

// parseTimestamp parses s with the first matching format, or returns the
// zero time.
func parseTimestamp(s string) time.Time {
	for _, format := range timestampFormats {
		if t, err := time.Parse(format, s); err == nil {
			return t
		}
	}
	return time.Time{}
}

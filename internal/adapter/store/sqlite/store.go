package sqlite

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/bkyoung/prompt-eval/internal/store"
	_ "github.com/mattn/go-sqlite3"
)

// Store implements the store.Store interface using SQLite.
type Store struct {
	db *sql.DB
}

// NewStore creates a new SQLite store at the given path.
// Use ":memory:" for in-memory database (useful for testing).
func NewStore(dbPath string) (*Store, error) {
	db, err := sql.Open("sqlite3", dbPath)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	// Enable foreign keys
	if _, err := db.Exec("PRAGMA foreign_keys = ON"); err != nil {
		return nil, fmt.Errorf("failed to enable foreign keys: %w", err)
	}

	s := &Store{db: db}

	if err := s.createSchema(); err != nil {
		return nil, fmt.Errorf("failed to create schema: %w", err)
	}

	return s, nil
}

// createSchema creates all tables and indexes if they don't exist.
func (s *Store) createSchema() error {
	schema := `
	-- Stores metadata about each suite run
	CREATE TABLE IF NOT EXISTS runs (
		run_id TEXT PRIMARY KEY,
		timestamp INTEGER NOT NULL,
		suite TEXT NOT NULL,
		config_hash TEXT NOT NULL,
		total_cases INTEGER NOT NULL,
		passed_count INTEGER NOT NULL,
		correct_count INTEGER NOT NULL,
		pass_rate REAL NOT NULL,
		accuracy REAL NOT NULL
	);

	-- Individual case outcomes within a run
	CREATE TABLE IF NOT EXISTS case_results (
		result_id TEXT PRIMARY KEY,
		run_id TEXT NOT NULL,
		case_id TEXT NOT NULL,
		output TEXT NOT NULL,
		passed INTEGER NOT NULL,
		expected INTEGER NOT NULL,
		correct INTEGER NOT NULL,
		created_at INTEGER NOT NULL,
		FOREIGN KEY (run_id) REFERENCES runs(run_id) ON DELETE CASCADE
	);

	-- Per-criterion outcomes within a case result
	CREATE TABLE IF NOT EXISTS criterion_results (
		id INTEGER PRIMARY KEY AUTOINCREMENT,
		result_id TEXT NOT NULL,
		criterion_id TEXT NOT NULL,
		kind TEXT NOT NULL,
		passed INTEGER NOT NULL,
		message TEXT,
		FOREIGN KEY (result_id) REFERENCES case_results(result_id) ON DELETE CASCADE
	);

	-- Indexes for performance
	CREATE INDEX IF NOT EXISTS idx_case_results_run ON case_results(run_id);
	CREATE INDEX IF NOT EXISTS idx_criterion_results_result ON criterion_results(result_id);
	CREATE INDEX IF NOT EXISTS idx_runs_timestamp ON runs(timestamp DESC);
	`

	_, err := s.db.Exec(schema)
	return err
}

// CreateRun stores a new suite run.
func (s *Store) CreateRun(ctx context.Context, run store.Run) error {
	query := `
		INSERT INTO runs (run_id, timestamp, suite, config_hash, total_cases, passed_count, correct_count, pass_rate, accuracy)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)
	`

	_, err := s.db.ExecContext(ctx, query,
		run.RunID,
		run.Timestamp.Unix(),
		run.Suite,
		run.ConfigHash,
		run.TotalCases,
		run.PassedCount,
		run.CorrectCount,
		run.PassRate,
		run.Accuracy,
	)

	if err != nil {
		return fmt.Errorf("failed to create run: %w", err)
	}

	return nil
}

// GetRun retrieves a run by ID.
func (s *Store) GetRun(ctx context.Context, runID string) (store.Run, error) {
	query := `
		SELECT run_id, timestamp, suite, config_hash, total_cases, passed_count, correct_count, pass_rate, accuracy
		FROM runs
		WHERE run_id = ?
	`

	var run store.Run
	var timestamp int64

	err := s.db.QueryRowContext(ctx, query, runID).Scan(
		&run.RunID,
		&timestamp,
		&run.Suite,
		&run.ConfigHash,
		&run.TotalCases,
		&run.PassedCount,
		&run.CorrectCount,
		&run.PassRate,
		&run.Accuracy,
	)

	if err != nil {
		if err == sql.ErrNoRows {
			return store.Run{}, fmt.Errorf("run not found: %s", runID)
		}
		return store.Run{}, fmt.Errorf("failed to get run: %w", err)
	}

	run.Timestamp = time.Unix(timestamp, 0)
	return run, nil
}

// ListRuns retrieves the most recent runs, limited by the given count.
func (s *Store) ListRuns(ctx context.Context, limit int) ([]store.Run, error) {
	query := `
		SELECT run_id, timestamp, suite, config_hash, total_cases, passed_count, correct_count, pass_rate, accuracy
		FROM runs
		ORDER BY timestamp DESC
		LIMIT ?
	`

	rows, err := s.db.QueryContext(ctx, query, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to list runs: %w", err)
	}
	defer rows.Close()

	var runs []store.Run
	for rows.Next() {
		var run store.Run
		var timestamp int64

		if err := rows.Scan(
			&run.RunID,
			&timestamp,
			&run.Suite,
			&run.ConfigHash,
			&run.TotalCases,
			&run.PassedCount,
			&run.CorrectCount,
			&run.PassRate,
			&run.Accuracy,
		); err != nil {
			return nil, fmt.Errorf("failed to scan run: %w", err)
		}

		run.Timestamp = time.Unix(timestamp, 0)
		runs = append(runs, run)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating runs: %w", err)
	}

	return runs, nil
}

// SaveCaseResults stores multiple case results in a single transaction,
// including their per-criterion outcomes.
func (s *Store) SaveCaseResults(ctx context.Context, results []store.CaseResultRecord) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	caseStmt, err := tx.PrepareContext(ctx, `
		INSERT INTO case_results (result_id, run_id, case_id, output, passed, expected, correct, created_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?)
	`)
	if err != nil {
		return fmt.Errorf("failed to prepare case statement: %w", err)
	}
	defer caseStmt.Close()

	criterionStmt, err := tx.PrepareContext(ctx, `
		INSERT INTO criterion_results (result_id, criterion_id, kind, passed, message)
		VALUES (?, ?, ?, ?, ?)
	`)
	if err != nil {
		return fmt.Errorf("failed to prepare criterion statement: %w", err)
	}
	defer criterionStmt.Close()

	for _, result := range results {
		if _, err := caseStmt.ExecContext(ctx,
			result.ResultID,
			result.RunID,
			result.CaseID,
			result.Output,
			boolToInt(result.Passed),
			boolToInt(result.Expected),
			boolToInt(result.Correct),
			result.CreatedAt.Unix(),
		); err != nil {
			return fmt.Errorf("failed to insert case result: %w", err)
		}

		for _, criterion := range result.Criteria {
			if _, err := criterionStmt.ExecContext(ctx,
				result.ResultID,
				criterion.CriterionID,
				criterion.Kind,
				boolToInt(criterion.Passed),
				criterion.Message,
			); err != nil {
				return fmt.Errorf("failed to insert criterion result: %w", err)
			}
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit transaction: %w", err)
	}

	return nil
}

// GetCaseResultsByRun retrieves all case results for a given run, with their
// criterion outcomes populated.
func (s *Store) GetCaseResultsByRun(ctx context.Context, runID string) ([]store.CaseResultRecord, error) {
	query := `
		SELECT result_id, run_id, case_id, output, passed, expected, correct, created_at
		FROM case_results
		WHERE run_id = ?
		ORDER BY result_id ASC
	`

	rows, err := s.db.QueryContext(ctx, query, runID)
	if err != nil {
		return nil, fmt.Errorf("failed to get case results by run: %w", err)
	}
	defer rows.Close()

	var results []store.CaseResultRecord
	for rows.Next() {
		var result store.CaseResultRecord
		var passed, expected, correct int
		var createdAt int64

		if err := rows.Scan(
			&result.ResultID,
			&result.RunID,
			&result.CaseID,
			&result.Output,
			&passed,
			&expected,
			&correct,
			&createdAt,
		); err != nil {
			return nil, fmt.Errorf("failed to scan case result: %w", err)
		}

		result.Passed = passed == 1
		result.Expected = expected == 1
		result.Correct = correct == 1
		result.CreatedAt = time.Unix(createdAt, 0)
		results = append(results, result)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating case results: %w", err)
	}

	for i := range results {
		criteria, err := s.GetCriterionResults(ctx, results[i].ResultID)
		if err != nil {
			return nil, err
		}
		results[i].Criteria = criteria
	}

	return results, nil
}

// GetCriterionResults retrieves all criterion outcomes for a given case result.
func (s *Store) GetCriterionResults(ctx context.Context, resultID string) ([]store.CriterionRecord, error) {
	query := `
		SELECT result_id, criterion_id, kind, passed, message
		FROM criterion_results
		WHERE result_id = ?
		ORDER BY id ASC
	`

	rows, err := s.db.QueryContext(ctx, query, resultID)
	if err != nil {
		return nil, fmt.Errorf("failed to get criterion results: %w", err)
	}
	defer rows.Close()

	var criteria []store.CriterionRecord
	for rows.Next() {
		var criterion store.CriterionRecord
		var passed int

		if err := rows.Scan(
			&criterion.ResultID,
			&criterion.CriterionID,
			&criterion.Kind,
			&passed,
			&criterion.Message,
		); err != nil {
			return nil, fmt.Errorf("failed to scan criterion result: %w", err)
		}

		criterion.Passed = passed == 1
		criteria = append(criteria, criterion)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating criterion results: %w", err)
	}

	return criteria, nil
}

// Close closes the database connection.
func (s *Store) Close() error {
	return s.db.Close()
}

func boolToInt(b bool) int {
	if b {
		return 1
	}
	return 0
}

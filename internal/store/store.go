package store

import (
	"context"
	"time"
)

// Store defines the persistence layer interface for suite run history.
type Store interface {
	// Run management
	CreateRun(ctx context.Context, run Run) error
	GetRun(ctx context.Context, runID string) (Run, error)
	ListRuns(ctx context.Context, limit int) ([]Run, error)

	// Case result persistence
	SaveCaseResults(ctx context.Context, results []CaseResultRecord) error
	GetCaseResultsByRun(ctx context.Context, runID string) ([]CaseResultRecord, error)

	// Criterion result persistence
	GetCriterionResults(ctx context.Context, resultID string) ([]CriterionRecord, error)

	// Utility
	Close() error
}

// Run represents a single suite execution.
type Run struct {
	RunID        string
	Timestamp    time.Time
	Suite        string
	ConfigHash   string
	TotalCases   int
	PassedCount  int
	CorrectCount int
	PassRate     float64
	Accuracy     float64
}

// CaseResultRecord stores the outcome of one evaluated test case.
type CaseResultRecord struct {
	ResultID  string
	RunID     string
	CaseID    string
	Output    string
	Passed    bool
	Expected  bool
	Correct   bool
	Criteria  []CriterionRecord
	CreatedAt time.Time
}

// CriterionRecord stores one criterion outcome within a case result.
type CriterionRecord struct {
	ResultID    string
	CriterionID string
	Kind        string
	Passed      bool
	Message     string
}

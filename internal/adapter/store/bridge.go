package store

import (
	"context"

	"github.com/bkyoung/prompt-eval/internal/store"
	"github.com/bkyoung/prompt-eval/internal/usecase/rubric"
)

// Bridge adapts store.Store to rubric.Store interface.
// This avoids circular dependencies between packages.
type Bridge struct {
	store store.Store
}

// NewBridge creates a new store adapter.
func NewBridge(s store.Store) *Bridge {
	return &Bridge{store: s}
}

// CreateRun converts and saves a run record.
func (b *Bridge) CreateRun(ctx context.Context, run rubric.StoreRun) error {
	storeRun := store.Run{
		RunID:        run.RunID,
		Timestamp:    run.Timestamp,
		Suite:        run.Suite,
		ConfigHash:   run.ConfigHash,
		TotalCases:   run.TotalCases,
		PassedCount:  run.PassedCount,
		CorrectCount: run.CorrectCount,
		PassRate:     run.PassRate,
		Accuracy:     run.Accuracy,
	}
	return b.store.CreateRun(ctx, storeRun)
}

// SaveCaseResults converts and saves case result records.
func (b *Bridge) SaveCaseResults(ctx context.Context, results []rubric.StoreCaseResult) error {
	records := make([]store.CaseResultRecord, len(results))
	for i, result := range results {
		criteria := make([]store.CriterionRecord, len(result.Criteria))
		for j, criterion := range result.Criteria {
			criteria[j] = store.CriterionRecord{
				ResultID:    result.ResultID,
				CriterionID: criterion.CriterionID,
				Kind:        criterion.Kind,
				Passed:      criterion.Passed,
				Message:     criterion.Message,
			}
		}
		records[i] = store.CaseResultRecord{
			ResultID:  result.ResultID,
			RunID:     result.RunID,
			CaseID:    result.CaseID,
			Output:    result.Output,
			Passed:    result.Passed,
			Expected:  result.Expected,
			Correct:   result.Correct,
			Criteria:  criteria,
			CreatedAt: result.CreatedAt,
		}
	}
	return b.store.SaveCaseResults(ctx, records)
}

// Close closes the underlying store.
func (b *Bridge) Close() error {
	return b.store.Close()
}

package rubric_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/bkyoung/prompt-eval/internal/domain"
	"github.com/bkyoung/prompt-eval/internal/usecase/rubric"
)

func TestRunSuite(t *testing.T) {
	criteria := []domain.Criterion{
		{ID: "json", Name: "Valid JSON", Kind: domain.KindJSON},
		{ID: "fields", Name: "Required fields", Kind: domain.KindContains, Config: "name"},
	}

	t.Run("separates pass rate from accuracy", func(t *testing.T) {
		suite := domain.Suite{
			Name:     "calibration",
			Criteria: criteria,
			Cases: []domain.TestCase{
				// Satisfies the rubric, labeled pass: passed and correct.
				{ID: "a", Output: `{"name":"x"}`, ExpectedPass: true},
				// Fails the rubric, labeled fail: failed but correct.
				{ID: "b", Output: `not json`, ExpectedPass: false},
				// Satisfies the rubric, labeled fail: the rubric is miscalibrated here.
				{ID: "c", Output: `{"name":"y"}`, ExpectedPass: false},
				// Fails the rubric, labeled pass: also miscalibrated.
				{ID: "d", Output: `{"title":"z"}`, ExpectedPass: true},
			},
		}

		report := rubric.RunSuite(suite)

		assert.Equal(t, "calibration", report.Suite)
		require.Len(t, report.Cases, 4)
		assert.Equal(t, 2, report.PassedCount)
		assert.Equal(t, 2, report.CorrectCount)
		assert.InDelta(t, 0.5, report.PassRate, 1e-9)
		assert.InDelta(t, 0.5, report.Accuracy, 1e-9)

		assert.True(t, report.Cases[0].Correct)
		assert.True(t, report.Cases[1].Correct)
		assert.False(t, report.Cases[2].Correct)
		assert.False(t, report.Cases[3].Correct)
	})

	t.Run("empty suite reports zero rates", func(t *testing.T) {
		report := rubric.RunSuite(domain.Suite{Name: "empty", Criteria: criteria})

		assert.Empty(t, report.Cases)
		assert.Zero(t, report.PassRate)
		assert.Zero(t, report.Accuracy)
	})

	t.Run("a malformed criterion never aborts the batch", func(t *testing.T) {
		suite := domain.Suite{
			Name: "resilient",
			Criteria: []domain.Criterion{
				{ID: "bad", Kind: domain.KindRegex, Config: `[broken`},
			},
			Cases: []domain.TestCase{
				{ID: "a", Output: "one", ExpectedPass: false},
				{ID: "b", Output: "two", ExpectedPass: false},
			},
		}

		report := rubric.RunSuite(suite)

		require.Len(t, report.Cases, 2)
		assert.Equal(t, 0, report.PassedCount)
		assert.InDelta(t, 1.0, report.Accuracy, 1e-9)
	})

	t.Run("reports preserve case order", func(t *testing.T) {
		suite := domain.Suite{
			Criteria: criteria,
			Cases: []domain.TestCase{
				{ID: "first", Output: `{"name":"x"}`, ExpectedPass: true},
				{ID: "second", Output: `{"name":"y"}`, ExpectedPass: true},
			},
		}

		report := rubric.RunSuite(suite)

		require.Len(t, report.Cases, 2)
		assert.Equal(t, "first", report.Cases[0].Case.ID)
		assert.Equal(t, "second", report.Cases[1].Case.ID)
	})
}

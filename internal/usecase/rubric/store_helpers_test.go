package rubric

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"github.com/bkyoung/prompt-eval/internal/store"
)

func TestGenerateRunID(t *testing.T) {
	timestamp := time.Date(2026, 3, 14, 9, 26, 53, 0, time.UTC)

	t.Run("format", func(t *testing.T) {
		runID := generateRunID(timestamp, "calibration")
		assert.Regexp(t, `^run-20260314T092653Z-[0-9a-f]{6}$`, runID)
	})

	t.Run("distinct suites get distinct ids", func(t *testing.T) {
		a := generateRunID(timestamp, "calibration")
		b := generateRunID(timestamp, "smoke")
		assert.NotEqual(t, a, b)
	})
}

func TestGenerateResultID(t *testing.T) {
	assert.Equal(t, "result-run-x-0003", generateResultID("run-x", 3))
	assert.Equal(t, "result-run-x-0042", generateResultID("run-x", 42))
}

func TestCalculateConfigHash(t *testing.T) {
	base := SuiteRequest{SuitePath: "a.yaml", SuiteName: "n", OutputDir: "out"}

	t.Run("deterministic", func(t *testing.T) {
		assert.Equal(t, calculateConfigHash(base), calculateConfigHash(base))
	})

	t.Run("sensitive to every field", func(t *testing.T) {
		hash := calculateConfigHash(base)
		for _, variant := range []SuiteRequest{
			{SuitePath: "b.yaml", SuiteName: "n", OutputDir: "out"},
			{SuitePath: "a.yaml", SuiteName: "m", OutputDir: "out"},
			{SuitePath: "a.yaml", SuiteName: "n", OutputDir: "elsewhere"},
		} {
			assert.NotEqual(t, hash, calculateConfigHash(variant))
		}
	})

	t.Run("short hex digest", func(t *testing.T) {
		assert.Regexp(t, `^[0-9a-f]{8}$`, calculateConfigHash(base))
	})
}

// The store package generates the same IDs independently when backfilling or
// migrating history. Both sides must stay in lockstep or lookups break.
func TestIDGenerationMatchesStorePackage(t *testing.T) {
	timestamp := time.Date(2026, 3, 14, 9, 26, 53, 0, time.UTC)

	assert.Equal(t, store.GenerateRunID(timestamp, "calibration"), generateRunID(timestamp, "calibration"))
	assert.Equal(t, store.GenerateResultID("run-y", 7), generateResultID("run-y", 7))
}

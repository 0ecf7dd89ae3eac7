package store_test

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"github.com/bkyoung/prompt-eval/internal/store"
)

func TestGenerateRunID(t *testing.T) {
	t.Run("IDs are time-prefixed", func(t *testing.T) {
		ts := time.Date(2025, 10, 21, 14, 30, 52, 0, time.UTC)
		id := store.GenerateRunID(ts, "calibration")

		assert.Contains(t, id, "run-20251021T143052Z-")
	})

	t.Run("different timestamps yield different IDs", func(t *testing.T) {
		ts1 := time.Date(2025, 10, 21, 14, 30, 52, 0, time.UTC)
		ts2 := ts1.Add(time.Nanosecond)

		id1 := store.GenerateRunID(ts1, "calibration")
		id2 := store.GenerateRunID(ts2, "calibration")

		assert.NotEqual(t, id1, id2)
	})

	t.Run("different suites yield different IDs", func(t *testing.T) {
		ts := time.Date(2025, 10, 21, 14, 30, 52, 0, time.UTC)

		assert.NotEqual(t,
			store.GenerateRunID(ts, "suite-a"),
			store.GenerateRunID(ts, "suite-b"),
		)
	})
}

func TestGenerateResultID(t *testing.T) {
	id := store.GenerateResultID("run-x", 7)
	assert.Equal(t, "result-run-x-0007", id)
}

func TestCalculateConfigHash(t *testing.T) {
	t.Run("deterministic for equal configs", func(t *testing.T) {
		config := map[string]string{"suite": "a", "output": "out"}

		h1, err := store.CalculateConfigHash(config)
		assert.NoError(t, err)
		h2, err := store.CalculateConfigHash(config)
		assert.NoError(t, err)

		assert.Equal(t, h1, h2)
	})

	t.Run("different configs hash differently", func(t *testing.T) {
		h1, _ := store.CalculateConfigHash(map[string]string{"suite": "a"})
		h2, _ := store.CalculateConfigHash(map[string]string{"suite": "b"})

		assert.NotEqual(t, h1, h2)
	})
}

package determinism_test

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/bkyoung/prompt-eval/internal/determinism"
)

func TestGenerateSeed(t *testing.T) {
	t.Run("generates consistent seed for same inputs", func(t *testing.T) {
		seed1 := determinism.GenerateSeed("sandwich", "default")
		seed2 := determinism.GenerateSeed("sandwich", "default")

		assert.Equal(t, seed1, seed2, "seed should be deterministic for same inputs")
	})

	t.Run("generates different seeds for different inputs", func(t *testing.T) {
		seed1 := determinism.GenerateSeed("sandwich", "default")
		seed2 := determinism.GenerateSeed("sandwich", "extended")

		assert.NotEqual(t, seed1, seed2, "different inputs should produce different seeds")
	})

	t.Run("generates different seeds when inputs are swapped", func(t *testing.T) {
		seed1 := determinism.GenerateSeed("a", "b")
		seed2 := determinism.GenerateSeed("b", "a")

		assert.NotEqual(t, seed1, seed2, "swapped inputs should produce different seeds")
	})

	t.Run("handles empty strings", func(t *testing.T) {
		seed1 := determinism.GenerateSeed("", "")
		seed2 := determinism.GenerateSeed("", "")

		assert.Equal(t, seed1, seed2, "empty strings should still produce deterministic seed")
	})

	t.Run("fits in int64", func(t *testing.T) {
		seed := determinism.GenerateSeed("sandwich", "default")

		assert.LessOrEqual(t, seed, uint64(math.MaxInt64))
	})
}

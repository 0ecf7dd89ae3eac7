package rubric_test

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/bkyoung/prompt-eval/internal/domain"
	"github.com/bkyoung/prompt-eval/internal/usecase/rubric"
)

func TestEvaluate_JSON(t *testing.T) {
	criteria := []domain.Criterion{{ID: "c1", Name: "Valid JSON", Kind: domain.KindJSON}}

	t.Run("passes for valid JSON object", func(t *testing.T) {
		result := rubric.Evaluate(`{"a":1}`, criteria)

		assert.True(t, result.Passed)
		require.Len(t, result.Criteria, 1)
		assert.Equal(t, "Valid JSON", result.Criteria[0].Message)
	})

	t.Run("passes for valid JSON array", func(t *testing.T) {
		result := rubric.Evaluate(`[1,2,3]`, criteria)
		assert.True(t, result.Passed)
	})

	t.Run("fails for malformed JSON with the documented message", func(t *testing.T) {
		result := rubric.Evaluate(`{"a":1`, criteria)

		assert.False(t, result.Passed)
		require.Len(t, result.Criteria, 1)
		assert.Equal(t, "Invalid JSON", result.Criteria[0].Message)
	})

	t.Run("fails for plain prose", func(t *testing.T) {
		result := rubric.Evaluate("the answer is 42", criteria)
		assert.False(t, result.Passed)
	})
}

func TestEvaluate_Contains(t *testing.T) {
	criterion := func(config string) []domain.Criterion {
		return []domain.Criterion{{ID: "c1", Name: "Required fields", Kind: domain.KindContains, Config: config}}
	}

	t.Run("passes when every quoted field is present", func(t *testing.T) {
		result := rubric.Evaluate(`{"name":"x","priority":"high"}`, criterion("name,priority"))
		assert.True(t, result.Passed)
	})

	t.Run("fails and names the missing field", func(t *testing.T) {
		result := rubric.Evaluate(`{"name":"x"}`, criterion("name,priority"))

		assert.False(t, result.Passed)
		require.Len(t, result.Criteria, 1)
		assert.Contains(t, result.Criteria[0].Message, "priority")
		assert.NotContains(t, result.Criteria[0].Message, "name,")
	})

	t.Run("reports every missing field", func(t *testing.T) {
		result := rubric.Evaluate(`{}`, criterion("name, priority"))

		require.Len(t, result.Criteria, 1)
		assert.Contains(t, result.Criteria[0].Message, "name")
		assert.Contains(t, result.Criteria[0].Message, "priority")
	})

	t.Run("trims whitespace around field names", func(t *testing.T) {
		result := rubric.Evaluate(`{"name":"x","priority":1}`, criterion(" name , priority "))
		assert.True(t, result.Passed)
	})

	t.Run("requires the field to be quoted", func(t *testing.T) {
		result := rubric.Evaluate(`name: x`, criterion("name"))
		assert.False(t, result.Passed)
	})

	t.Run("fails closed on an empty field list", func(t *testing.T) {
		result := rubric.Evaluate(`{"a":1}`, criterion(" , "))
		assert.False(t, result.Passed)
	})
}

func TestEvaluate_Regex(t *testing.T) {
	criterion := func(config string) []domain.Criterion {
		return []domain.Criterion{{ID: "c1", Name: "Pattern", Kind: domain.KindRegex, Config: config}}
	}

	t.Run("passes when the pattern matches anywhere", func(t *testing.T) {
		result := rubric.Evaluate("status: DONE", criterion(`DON[EU]`))
		assert.True(t, result.Passed)
	})

	t.Run("fails when the pattern does not match", func(t *testing.T) {
		result := rubric.Evaluate("status: PENDING", criterion(`DONE`))
		assert.False(t, result.Passed)
	})

	t.Run("malformed pattern fails with a descriptive message", func(t *testing.T) {
		result := rubric.Evaluate("anything", criterion(`[unclosed`))

		assert.False(t, result.Passed)
		require.Len(t, result.Criteria, 1)
		assert.Contains(t, result.Criteria[0].Message, "Invalid regex pattern")
	})
}

func TestEvaluate_Length(t *testing.T) {
	criterion := func(config string) []domain.Criterion {
		return []domain.Criterion{{ID: "c1", Name: "Length", Kind: domain.KindLength, Config: config}}
	}

	t.Run("boundary values pass inclusively", func(t *testing.T) {
		atMin := rubric.Evaluate(strings.Repeat("x", 3), criterion("3-5"))
		atMax := rubric.Evaluate(strings.Repeat("x", 5), criterion("3-5"))

		assert.True(t, atMin.Passed)
		assert.True(t, atMax.Passed)
	})

	t.Run("values just outside the range fail", func(t *testing.T) {
		belowMin := rubric.Evaluate(strings.Repeat("x", 2), criterion("3-5"))
		aboveMax := rubric.Evaluate(strings.Repeat("x", 6), criterion("3-5"))

		assert.False(t, belowMin.Passed)
		assert.False(t, aboveMax.Passed)
	})

	t.Run("malformed range fails with a descriptive message", func(t *testing.T) {
		for _, config := range []string{"", "abc", "5", "5-x", "10-2"} {
			result := rubric.Evaluate("hello", criterion(config))
			assert.False(t, result.Passed, "config %q should fail", config)
			assert.Contains(t, result.Criteria[0].Message, "Invalid length range")
		}
	})
}

func TestEvaluate_UnknownKind(t *testing.T) {
	criteria := []domain.Criterion{{ID: "c1", Name: "Mystery", Kind: "sentiment"}}

	result := rubric.Evaluate("anything", criteria)

	assert.False(t, result.Passed)
	require.Len(t, result.Criteria, 1)
	assert.Equal(t, "Unknown criterion type", result.Criteria[0].Message)
}

func TestEvaluate_Aggregation(t *testing.T) {
	t.Run("one failing criterion fails the aggregate", func(t *testing.T) {
		criteria := []domain.Criterion{
			{ID: "c1", Kind: domain.KindJSON},
			{ID: "c2", Kind: domain.KindContains, Config: "missing"},
		}

		result := rubric.Evaluate(`{"a":1}`, criteria)

		assert.False(t, result.Passed)
		require.Len(t, result.Criteria, 2)
		assert.True(t, result.Criteria[0].Passed)
		assert.False(t, result.Criteria[1].Passed)
	})

	t.Run("a bad criterion does not abort the rest", func(t *testing.T) {
		criteria := []domain.Criterion{
			{ID: "c1", Kind: domain.KindRegex, Config: `[broken`},
			{ID: "c2", Kind: domain.KindJSON},
		}

		result := rubric.Evaluate(`{"a":1}`, criteria)

		require.Len(t, result.Criteria, 2)
		assert.False(t, result.Criteria[0].Passed)
		assert.True(t, result.Criteria[1].Passed)
	})

	t.Run("no criteria yields a pass with no results", func(t *testing.T) {
		result := rubric.Evaluate("anything", nil)

		assert.True(t, result.Passed)
		assert.Empty(t, result.Criteria)
	})

	t.Run("evaluation is idempotent", func(t *testing.T) {
		criteria := []domain.Criterion{
			{ID: "c1", Kind: domain.KindJSON},
			{ID: "c2", Kind: domain.KindLength, Config: "1-100"},
		}

		first := rubric.Evaluate(`{"a":1}`, criteria)
		second := rubric.Evaluate(`{"a":1}`, criteria)

		assert.Equal(t, first, second)
	})

	t.Run("results preserve criterion order", func(t *testing.T) {
		criteria := []domain.Criterion{
			{ID: "first", Kind: domain.KindJSON},
			{ID: "second", Kind: domain.KindLength, Config: "0-10"},
			{ID: "third", Kind: domain.KindRegex, Config: "a"},
		}

		result := rubric.Evaluate(`{"a":1}`, criteria)

		require.Len(t, result.Criteria, 3)
		assert.Equal(t, "first", result.Criteria[0].CriterionID)
		assert.Equal(t, "second", result.Criteria[1].CriterionID)
		assert.Equal(t, "third", result.Criteria[2].CriterionID)
	})
}

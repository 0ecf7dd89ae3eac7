package rubric

import (
	"fmt"
	"regexp"
	"strconv"
	"strings"

	"github.com/valyala/fastjson"

	"github.com/bkyoung/prompt-eval/internal/domain"
)

// Evaluate applies every criterion to the candidate output and aggregates the
// results. The aggregate passes only if every criterion passes. Each check is
// isolated: a malformed criterion config becomes a failed result with a
// descriptive message and never aborts the remaining checks.
func Evaluate(output string, criteria []domain.Criterion) domain.EvaluationResult {
	results := make([]domain.CriterionResult, 0, len(criteria))
	passed := true

	for _, criterion := range criteria {
		result := evaluateCriterion(output, criterion)
		if !result.Passed {
			passed = false
		}
		results = append(results, result)
	}

	return domain.EvaluationResult{Passed: passed, Criteria: results}
}

func evaluateCriterion(output string, criterion domain.Criterion) domain.CriterionResult {
	result := domain.CriterionResult{
		CriterionID:   criterion.ID,
		CriterionName: criterion.Name,
		Kind:          criterion.Kind,
	}

	switch criterion.Kind {
	case domain.KindJSON:
		result.Passed, result.Message = checkJSON(output)
	case domain.KindContains:
		result.Passed, result.Message = checkContains(output, criterion.Config)
	case domain.KindRegex:
		result.Passed, result.Message = checkRegex(output, criterion.Config)
	case domain.KindLength:
		result.Passed, result.Message = checkLength(output, criterion.Config)
	default:
		// Fail closed: an unrecognized kind must never count as a pass.
		result.Passed = false
		result.Message = "Unknown criterion type"
	}

	return result
}

// checkJSON verifies the output is syntactically valid JSON. No schema
// validation happens here; see the schema use case for structural checks.
func checkJSON(output string) (bool, string) {
	if err := fastjson.Validate(output); err != nil {
		return false, "Invalid JSON"
	}
	return true, "Valid JSON"
}

// checkContains requires every configured field name to appear in the output
// wrapped in double quotes, approximating a JSON key check without parsing.
func checkContains(output, config string) (bool, string) {
	fields := splitFields(config)
	if len(fields) == 0 {
		return false, "No required fields configured"
	}

	var missing []string
	for _, field := range fields {
		if !strings.Contains(output, `"`+field+`"`) {
			missing = append(missing, field)
		}
	}

	if len(missing) > 0 {
		return false, fmt.Sprintf("Missing required fields: %s", strings.Join(missing, ", "))
	}
	return true, "All required fields present"
}

func splitFields(config string) []string {
	parts := strings.Split(config, ",")
	fields := make([]string, 0, len(parts))
	for _, part := range parts {
		trimmed := strings.TrimSpace(part)
		if trimmed != "" {
			fields = append(fields, trimmed)
		}
	}
	return fields
}

func checkRegex(output, config string) (bool, string) {
	pattern, err := regexp.Compile(config)
	if err != nil {
		return false, fmt.Sprintf("Invalid regex pattern: %v", err)
	}
	if !pattern.MatchString(output) {
		return false, fmt.Sprintf("Pattern %q not found in output", config)
	}
	return true, "Pattern matched"
}

// checkLength parses config as "min-max" and checks the output's length in
// Unicode code points against the inclusive range.
func checkLength(output, config string) (bool, string) {
	minLen, maxLen, ok := parseLengthRange(config)
	if !ok {
		return false, fmt.Sprintf("Invalid length range %q (want \"min-max\")", config)
	}

	length := len([]rune(output))
	if length < minLen || length > maxLen {
		return false, fmt.Sprintf("Length %d outside range %d-%d", length, minLen, maxLen)
	}
	return true, fmt.Sprintf("Length %d within range %d-%d", length, minLen, maxLen)
}

func parseLengthRange(config string) (minLen, maxLen int, ok bool) {
	lower, upper, found := strings.Cut(config, "-")
	if !found {
		return 0, 0, false
	}

	minLen, err := strconv.Atoi(strings.TrimSpace(lower))
	if err != nil {
		return 0, 0, false
	}
	maxLen, err = strconv.Atoi(strings.TrimSpace(upper))
	if err != nil {
		return 0, 0, false
	}
	if minLen < 0 || maxLen < minLen {
		return 0, 0, false
	}
	return minLen, maxLen, true
}

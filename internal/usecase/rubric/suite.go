package rubric

import (
	"github.com/bkyoung/prompt-eval/internal/domain"
)

// RunSuite evaluates every test case against the shared rubric. Alongside the
// per-case pass/fail it computes whether each verdict matched the human
// label, then aggregates both into the pass rate and the accuracy. Results
// are recomputed from scratch on every call; nothing is cached.
func RunSuite(suite domain.Suite) domain.SuiteReport {
	report := domain.SuiteReport{
		Suite: suite.Name,
		Cases: make([]domain.CaseReport, 0, len(suite.Cases)),
	}

	for _, testCase := range suite.Cases {
		result := Evaluate(testCase.Output, suite.Criteria)
		correct := result.Passed == testCase.ExpectedPass

		if result.Passed {
			report.PassedCount++
		}
		if correct {
			report.CorrectCount++
		}

		report.Cases = append(report.Cases, domain.CaseReport{
			Case:    testCase,
			Result:  result,
			Correct: correct,
		})
	}

	if total := len(suite.Cases); total > 0 {
		report.PassRate = float64(report.PassedCount) / float64(total)
		report.Accuracy = float64(report.CorrectCount) / float64(total)
	}

	return report
}

package cli

import (
	"fmt"
	"io"

	"github.com/bkyoung/prompt-eval/internal/domain"
	"github.com/bkyoung/prompt-eval/internal/usecase/rubric"
)

// marks returns the pass/fail markers for result lines. Check marks only show
// on a real terminal; piped output gets plain words.
func marks() (pass, fail string) {
	if rubric.IsOutputTerminal() {
		return "✓", "✗"
	}
	return "PASS", "FAIL"
}

func renderSuiteResult(out io.Writer, result rubric.SuiteResult) {
	pass, fail := marks()
	report := result.Report

	fmt.Fprintf(out, "Suite: %s (%s)\n", report.Suite, result.RunID)
	for _, caseReport := range report.Cases {
		mark := fail
		if caseReport.Result.Passed {
			mark = pass
		}
		note := ""
		if !caseReport.Correct {
			note = "  [unexpected]"
		}
		fmt.Fprintf(out, "  %s %s%s\n", mark, caseReport.Case.ID, note)
		for _, criterion := range caseReport.Result.Criteria {
			if !criterion.Passed {
				fmt.Fprintf(out, "      %s: %s\n", criterion.CriterionName, criterion.Message)
			}
		}
	}

	fmt.Fprintf(out, "Pass rate: %.1f%% (%d/%d)\n", report.PassRate*100, report.PassedCount, len(report.Cases))
	fmt.Fprintf(out, "Accuracy:  %.1f%% (%d/%d)\n", report.Accuracy*100, report.CorrectCount, len(report.Cases))
	if result.MarkdownPath != "" {
		fmt.Fprintf(out, "Markdown report: %s\n", result.MarkdownPath)
	}
	if result.JSONPath != "" {
		fmt.Fprintf(out, "JSON report: %s\n", result.JSONPath)
	}
}

func renderSimulation(out io.Writer, result domain.SimulationResult) {
	if result.Blocked {
		fmt.Fprintln(out, "Outcome: BLOCKED")
	} else {
		fmt.Fprintln(out, "Outcome: COMPROMISED")
	}
	fmt.Fprintf(out, "Response: %s\n", result.Response)
	fmt.Fprintf(out, "Protection score: %d\n", result.ProtectionScore)
	fmt.Fprintf(out, "Attack strength:  %d\n", result.AttackStrength)
	fmt.Fprintf(out, "Reasoning: %s\n", result.Reasoning)
}

func renderProbe(out io.Writer, report domain.ProbeReport) {
	pass, fail := marks()

	fmt.Fprintf(out, "Strategy: %s\n", report.Strategy.Name)
	for _, result := range report.Results {
		mark := fail
		outcome := "breached"
		if result.Result.Blocked {
			mark = pass
			outcome = "blocked"
		}
		fmt.Fprintf(out, "  %s %s (%s): %s\n", mark, result.Vector.Name, result.Vector.Severity, outcome)
	}

	fmt.Fprintf(out, "Blocked %d/%d vectors\n", report.BlockedCount, len(report.Results))
	for _, severity := range []string{domain.SeverityHigh, domain.SeverityMedium, domain.SeverityLow} {
		if count, ok := report.BrokenBySeverity[severity]; ok && count > 0 {
			fmt.Fprintf(out, "  breached %s: %d\n", severity, count)
		}
	}
}

func renderScorecard(out io.Writer, card domain.TemplateScorecard) {
	pass, fail := marks()

	if card.Strategy != "" {
		fmt.Fprintf(out, "Template: %s\n", card.Strategy)
	}
	for _, signal := range card.Signals {
		if signal.Hit {
			fmt.Fprintf(out, "  %s %s\n", pass, signal.Description)
			continue
		}
		fmt.Fprintf(out, "  %s %s\n", fail, signal.Description)
		if signal.Suggestion != "" {
			fmt.Fprintf(out, "      hint: %s\n", signal.Suggestion)
		}
	}
	fmt.Fprintf(out, "Score: %d/%d\n", card.Score, card.MaxScore)
}

func renderSchemaResult(out io.Writer, result domain.SchemaResult) {
	if result.Valid {
		fmt.Fprintln(out, "Output conforms to schema")
		return
	}

	if !result.ValidJSON {
		fmt.Fprintln(out, "Output is not valid JSON")
	}
	for _, issue := range result.Issues {
		fmt.Fprintf(out, "  %s: %s\n", issue.Field, issue.Problem)
	}
}

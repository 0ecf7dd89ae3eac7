package markdown

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"

	"github.com/bkyoung/prompt-eval/internal/domain"
)

type clock func() string

// Writer renders evaluation reports into Markdown files.
type Writer struct {
	now clock
}

// NewWriter constructs a Markdown writer with a timestamp supplier.
func NewWriter(now clock) *Writer {
	return &Writer{now: now}
}

// WriteSuite persists a suite report to disk as Markdown.
func (w *Writer) WriteSuite(ctx context.Context, artifact domain.SuiteArtifact) (string, error) {
	if err := os.MkdirAll(artifact.OutputDir, 0o755); err != nil {
		return "", fmt.Errorf("create output dir: %w", err)
	}

	filename := fmt.Sprintf("%s_%s.md", sanitise(artifact.Suite), w.now())
	path := filepath.Join(artifact.OutputDir, filename)

	content := buildSuiteContent(artifact)
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		return "", fmt.Errorf("write markdown: %w", err)
	}

	return path, nil
}

// WriteProbe persists a probe report to disk as Markdown.
func (w *Writer) WriteProbe(ctx context.Context, artifact domain.ProbeArtifact) (string, error) {
	if err := os.MkdirAll(artifact.OutputDir, 0o755); err != nil {
		return "", fmt.Errorf("create output dir: %w", err)
	}

	filename := fmt.Sprintf("%s_probe_%s.md", sanitise(artifact.Strategy), w.now())
	path := filepath.Join(artifact.OutputDir, filename)

	content := buildProbeContent(artifact)
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		return "", fmt.Errorf("write markdown: %w", err)
	}

	return path, nil
}

func buildSuiteContent(artifact domain.SuiteArtifact) string {
	var builder strings.Builder
	report := artifact.Report

	builder.WriteString("# Suite Evaluation Report\n\n")
	builder.WriteString(fmt.Sprintf("- Suite: %s\n", report.Suite))
	builder.WriteString(fmt.Sprintf("- Run: %s\n", artifact.RunID))
	builder.WriteString(fmt.Sprintf("- Cases: %d\n", len(report.Cases)))
	builder.WriteString(fmt.Sprintf("- Pass rate: %.1f%% (%d passed)\n", report.PassRate*100, report.PassedCount))
	builder.WriteString(fmt.Sprintf("- Accuracy: %.1f%% (%d matched expectations)\n\n", report.Accuracy*100, report.CorrectCount))

	if len(report.Cases) == 0 {
		builder.WriteString("No test cases evaluated.\n")
		return builder.String()
	}

	builder.WriteString("## Cases\n\n")
	for _, caseReport := range report.Cases {
		builder.WriteString(fmt.Sprintf("### %s (%s)\n", caseReport.Case.ID, verdict(caseReport.Result.Passed)))
		builder.WriteString(fmt.Sprintf("- Expected: %s\n", verdict(caseReport.Case.ExpectedPass)))
		if caseReport.Correct {
			builder.WriteString("- Prediction: correct\n")
		} else {
			builder.WriteString("- Prediction: incorrect\n")
		}
		for _, criterion := range caseReport.Result.Criteria {
			builder.WriteString(fmt.Sprintf("- %s [%s]: %s\n", criterion.CriterionName, criterion.Kind, criterion.Message))
		}
		builder.WriteString("\n")
	}

	return builder.String()
}

func buildProbeContent(artifact domain.ProbeArtifact) string {
	var builder strings.Builder
	caser := cases.Title(language.English)
	report := artifact.Report

	builder.WriteString("# Defense Probe Report\n\n")
	builder.WriteString(fmt.Sprintf("- Strategy: %s\n", report.Strategy.Name))
	builder.WriteString(fmt.Sprintf("- Vectors: %d\n", len(report.Results)))
	builder.WriteString(fmt.Sprintf("- Blocked: %d/%d\n\n", report.BlockedCount, len(report.Results)))

	if len(report.BrokenBySeverity) > 0 {
		builder.WriteString("## Breaches By Severity\n\n")
		for _, severity := range []string{domain.SeverityHigh, domain.SeverityMedium, domain.SeverityLow} {
			if count, ok := report.BrokenBySeverity[severity]; ok {
				builder.WriteString(fmt.Sprintf("- %s: %d\n", caser.String(severity), count))
			}
		}
		builder.WriteString("\n")
	}

	builder.WriteString("## Vectors\n\n")
	for _, result := range report.Results {
		outcome := "breached"
		if result.Result.Blocked {
			outcome = "blocked"
		}
		builder.WriteString(fmt.Sprintf("### %s (%s, %s)\n", result.Vector.Name, caser.String(result.Vector.Severity), outcome))
		builder.WriteString(fmt.Sprintf("- Protection score: %d\n", result.Result.ProtectionScore))
		builder.WriteString(fmt.Sprintf("- Attack strength: %d\n", result.Result.AttackStrength))
		builder.WriteString(fmt.Sprintf("- Reasoning: %s\n", result.Result.Reasoning))
		builder.WriteString("\n")
	}

	return builder.String()
}

func verdict(passed bool) string {
	if passed {
		return "pass"
	}
	return "fail"
}

func sanitise(value string) string {
	if value == "" {
		return "unknown"
	}
	value = strings.ToLower(value)
	value = strings.ReplaceAll(value, string(filepath.Separator), "-")
	value = strings.ReplaceAll(value, " ", "-")
	return value
}

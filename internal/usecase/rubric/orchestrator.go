package rubric

import (
	"context"
	"fmt"
	"path/filepath"
	"strings"
	"time"

	"github.com/bkyoung/prompt-eval/internal/domain"
)

// SuiteLoader abstracts how suite definitions are read.
type SuiteLoader interface {
	LoadSuite(path string) (domain.Suite, error)
}

// MarkdownWriter persists a suite report to disk as Markdown.
type MarkdownWriter interface {
	WriteSuite(ctx context.Context, artifact domain.SuiteArtifact) (string, error)
}

// JSONWriter persists a suite report to disk as JSON.
type JSONWriter interface {
	WriteSuite(ctx context.Context, artifact domain.SuiteArtifact) (string, error)
}

// Redactor defines the outbound port for secret redaction. Candidate outputs
// can embed real credentials; artifacts and history records pass through the
// redactor before leaving the process.
type Redactor interface {
	Redact(input string) (string, error)
}

// Store defines the outbound port for persisting run history. Persistence is
// purely a ledger: stored results never feed back into evaluation.
type Store interface {
	CreateRun(ctx context.Context, run StoreRun) error
	SaveCaseResults(ctx context.Context, results []StoreCaseResult) error
	Close() error
}

// StoreRun represents a suite run for persistence.
type StoreRun struct {
	RunID        string
	Timestamp    time.Time
	Suite        string
	ConfigHash   string
	TotalCases   int
	PassedCount  int
	CorrectCount int
	PassRate     float64
	Accuracy     float64
}

// StoreCaseResult represents one evaluated test case for persistence.
type StoreCaseResult struct {
	ResultID  string
	RunID     string
	CaseID    string
	Output    string
	Passed    bool
	Expected  bool
	Correct   bool
	Criteria  []StoreCriterionResult
	CreatedAt time.Time
}

// StoreCriterionResult represents one criterion outcome for persistence.
type StoreCriterionResult struct {
	CriterionID string
	Kind        string
	Passed      bool
	Message     string
}

// OrchestratorDeps captures the collaborators for suite runs. Only Loader is
// required; every other port is optional and skipped when nil.
type OrchestratorDeps struct {
	Loader   SuiteLoader
	Markdown MarkdownWriter
	JSON     JSONWriter
	Store    Store
	Logger   Logger
	Redactor Redactor
}

// Orchestrator loads a suite, evaluates it, and fans the report out to
// artifacts and history. Evaluation itself stays pure; the orchestrator owns
// all I/O around it.
type Orchestrator struct {
	deps OrchestratorDeps
}

// NewOrchestrator constructs an orchestrator from its dependencies.
func NewOrchestrator(deps OrchestratorDeps) *Orchestrator {
	return &Orchestrator{deps: deps}
}

// SuiteRequest describes one suite run.
type SuiteRequest struct {
	SuitePath string
	SuiteName string // optional override for the name in the file
	OutputDir string // empty disables artifact writing
}

// SuiteResult is the outcome of one suite run.
type SuiteResult struct {
	RunID        string
	Report       domain.SuiteReport
	MarkdownPath string
	JSONPath     string
}

// RunSuiteFile executes the full suite pipeline: load, evaluate, redact,
// write artifacts, persist history.
func (o *Orchestrator) RunSuiteFile(ctx context.Context, req SuiteRequest) (SuiteResult, error) {
	if o.deps.Loader == nil {
		return SuiteResult{}, fmt.Errorf("no suite loader configured")
	}

	suite, err := o.deps.Loader.LoadSuite(req.SuitePath)
	if err != nil {
		return SuiteResult{}, fmt.Errorf("load suite %s: %w", req.SuitePath, err)
	}

	if req.SuiteName != "" {
		suite.Name = req.SuiteName
	}
	if suite.Name == "" {
		suite.Name = strings.TrimSuffix(filepath.Base(req.SuitePath), filepath.Ext(req.SuitePath))
	}

	report := RunSuite(suite)

	now := time.Now()
	runID := generateRunID(now, suite.Name)
	result := SuiteResult{RunID: runID, Report: report}

	shared := o.redactReport(ctx, report)

	if req.OutputDir != "" {
		artifact := domain.SuiteArtifact{
			OutputDir: req.OutputDir,
			Suite:     suite.Name,
			RunID:     runID,
			Report:    shared,
		}
		if o.deps.Markdown != nil {
			path, err := o.deps.Markdown.WriteSuite(ctx, artifact)
			if err != nil {
				return SuiteResult{}, fmt.Errorf("write markdown report: %w", err)
			}
			result.MarkdownPath = path
		}
		if o.deps.JSON != nil {
			path, err := o.deps.JSON.WriteSuite(ctx, artifact)
			if err != nil {
				return SuiteResult{}, fmt.Errorf("write json report: %w", err)
			}
			result.JSONPath = path
		}
	}

	o.saveRun(ctx, runID, now, calculateConfigHash(req), shared)

	o.logInfo(ctx, "suite run complete", map[string]interface{}{
		"runId":    runID,
		"suite":    suite.Name,
		"cases":    len(report.Cases),
		"passRate": report.PassRate,
		"accuracy": report.Accuracy,
	})

	return result, nil
}

// redactReport returns a copy of the report with candidate outputs scrubbed.
// The in-memory report handed back to the caller stays untouched.
func (o *Orchestrator) redactReport(ctx context.Context, report domain.SuiteReport) domain.SuiteReport {
	if o.deps.Redactor == nil {
		return report
	}

	redacted := report
	redacted.Cases = make([]domain.CaseReport, len(report.Cases))
	copy(redacted.Cases, report.Cases)

	for i := range redacted.Cases {
		scrubbed, err := o.deps.Redactor.Redact(redacted.Cases[i].Case.Output)
		if err != nil {
			o.logWarning(ctx, "redaction failed, keeping raw output out of artifacts", map[string]interface{}{
				"caseId": redacted.Cases[i].Case.ID,
				"error":  err.Error(),
			})
			scrubbed = ""
		}
		redacted.Cases[i].Case.Output = scrubbed
	}

	return redacted
}

// saveRun persists the run; store failures degrade to warnings because a
// history miss should never fail an otherwise successful evaluation.
func (o *Orchestrator) saveRun(ctx context.Context, runID string, timestamp time.Time, configHash string, report domain.SuiteReport) {
	if o.deps.Store == nil {
		return
	}

	run := StoreRun{
		RunID:        runID,
		Timestamp:    timestamp,
		Suite:        report.Suite,
		ConfigHash:   configHash,
		TotalCases:   len(report.Cases),
		PassedCount:  report.PassedCount,
		CorrectCount: report.CorrectCount,
		PassRate:     report.PassRate,
		Accuracy:     report.Accuracy,
	}
	if err := o.deps.Store.CreateRun(ctx, run); err != nil {
		o.logWarning(ctx, "failed to save run", map[string]interface{}{
			"runId": runID,
			"error": err.Error(),
		})
		return
	}

	results := make([]StoreCaseResult, len(report.Cases))
	for i, caseReport := range report.Cases {
		criteria := make([]StoreCriterionResult, len(caseReport.Result.Criteria))
		for j, criterion := range caseReport.Result.Criteria {
			criteria[j] = StoreCriterionResult{
				CriterionID: criterion.CriterionID,
				Kind:        string(criterion.Kind),
				Passed:      criterion.Passed,
				Message:     criterion.Message,
			}
		}
		results[i] = StoreCaseResult{
			ResultID:  generateResultID(runID, i),
			RunID:     runID,
			CaseID:    caseReport.Case.ID,
			Output:    caseReport.Case.Output,
			Passed:    caseReport.Result.Passed,
			Expected:  caseReport.Case.ExpectedPass,
			Correct:   caseReport.Correct,
			Criteria:  criteria,
			CreatedAt: timestamp,
		}
	}

	if err := o.deps.Store.SaveCaseResults(ctx, results); err != nil {
		o.logWarning(ctx, "failed to save case results", map[string]interface{}{
			"runId": runID,
			"error": err.Error(),
		})
	}
}

func (o *Orchestrator) logInfo(ctx context.Context, message string, fields map[string]interface{}) {
	if o.deps.Logger != nil {
		o.deps.Logger.LogInfo(ctx, message, fields)
	}
}

func (o *Orchestrator) logWarning(ctx context.Context, message string, fields map[string]interface{}) {
	if o.deps.Logger != nil {
		o.deps.Logger.LogWarning(ctx, message, fields)
	}
}

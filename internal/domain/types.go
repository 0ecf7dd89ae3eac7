package domain

import (
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"strings"
)

const (
	SeverityHigh   = "high"
	SeverityMedium = "medium"
	SeverityLow    = "low"
)

// CriterionKind identifies the check a criterion applies to a candidate output.
// The set is closed: evaluation of any other value fails, never silently passes.
type CriterionKind string

const (
	KindJSON     CriterionKind = "json"
	KindContains CriterionKind = "contains"
	KindRegex    CriterionKind = "regex"
	KindLength   CriterionKind = "length"
)

// KnownKind reports whether kind is one of the supported criterion kinds.
func KnownKind(kind CriterionKind) bool {
	switch kind {
	case KindJSON, KindContains, KindRegex, KindLength:
		return true
	default:
		return false
	}
}

// Criterion is a single declarative check applied to a candidate output string.
// Config is kind-specific: comma-separated field names for contains, a regex
// pattern for regex, a "min-max" range for length, and unused for json.
type Criterion struct {
	ID     string        `json:"id" yaml:"id"`
	Name   string        `json:"name" yaml:"name"`
	Kind   CriterionKind `json:"kind" yaml:"kind"`
	Config string        `json:"config,omitempty" yaml:"config,omitempty"`
}

// TestCase pairs a candidate output with the human-labeled expectation of
// whether it should satisfy the rubric. Input is informational only.
type TestCase struct {
	ID           string `json:"id" yaml:"id,omitempty"`
	Input        string `json:"input" yaml:"input"`
	Output       string `json:"output" yaml:"output"`
	ExpectedPass bool   `json:"expectedPass" yaml:"expectPass"`
}

// TestCaseInput captures the information required to create a TestCase.
type TestCaseInput struct {
	Input        string
	Output       string
	ExpectedPass bool
}

// NewTestCase constructs a TestCase with a deterministic ID.
func NewTestCase(input TestCaseInput) TestCase {
	return TestCase{
		ID:           hashTestCase(input),
		Input:        input.Input,
		Output:       input.Output,
		ExpectedPass: input.ExpectedPass,
	}
}

func hashTestCase(input TestCaseInput) string {
	payload := fmt.Sprintf("%s|%s|%t", input.Input, input.Output, input.ExpectedPass)
	sum := sha256.Sum256([]byte(payload))
	return hex.EncodeToString(sum[:])[:16]
}

// Suite is an ordered rubric plus the test cases it is checked against.
type Suite struct {
	Name     string      `json:"name"`
	Criteria []Criterion `json:"criteria"`
	Cases    []TestCase  `json:"cases"`
}

// CriterionResult is the outcome of applying one criterion to one output.
type CriterionResult struct {
	CriterionID   string        `json:"criterionId"`
	CriterionName string        `json:"criterionName"`
	Kind          CriterionKind `json:"kind"`
	Passed        bool          `json:"passed"`
	Message       string        `json:"message"`
}

// EvaluationResult aggregates per-criterion results for a single output.
// Passed is true only if every criterion passed.
type EvaluationResult struct {
	Passed   bool              `json:"passed"`
	Criteria []CriterionResult `json:"criteria"`
}

// CaseReport couples a test case with its evaluation and whether the rubric
// verdict matched the human label.
type CaseReport struct {
	Case    TestCase         `json:"case"`
	Result  EvaluationResult `json:"result"`
	Correct bool             `json:"correct"`
}

// SuiteReport is the batch outcome for a whole suite. PassRate measures how
// many outputs satisfied the rubric; Accuracy measures how often the rubric's
// verdict agreed with the human label, which is the signal that the rubric
// itself is well calibrated.
type SuiteReport struct {
	Suite        string       `json:"suite"`
	Cases        []CaseReport `json:"cases"`
	PassedCount  int          `json:"passedCount"`
	CorrectCount int          `json:"correctCount"`
	PassRate     float64      `json:"passRate"`
	Accuracy     float64      `json:"accuracy"`
}

// UserInputPlaceholder marks where untrusted input is spliced into a
// defense template.
const UserInputPlaceholder = "{user_input}"

// DefenseStrategy is a prompt template meant to resist injection. The
// template is opaque text: it is rendered for display but never sent to a
// real model.
type DefenseStrategy struct {
	ID       string `json:"id" yaml:"id"`
	Name     string `json:"name" yaml:"name"`
	Template string `json:"template" yaml:"template"`
}

// HasPlaceholder reports whether the template contains the user-input slot.
func (s DefenseStrategy) HasPlaceholder() bool {
	return strings.Contains(s.Template, UserInputPlaceholder)
}

// Render splices userInput into the template for display purposes.
func (s DefenseStrategy) Render(userInput string) string {
	return strings.ReplaceAll(s.Template, UserInputPlaceholder, userInput)
}

// AttackVector is a sample adversarial input used to probe a defense
// template. Severity is descriptive metadata and plays no part in scoring.
type AttackVector struct {
	Name     string `json:"name" yaml:"name"`
	Input    string `json:"input" yaml:"input"`
	Severity string `json:"severity" yaml:"severity"`
}

// SignalHit records one heuristic indicator that fired during simulation.
type SignalHit struct {
	ID     string `json:"id"`
	Weight int    `json:"weight"`
}

// SimulationResult is the outcome of one simulated attack against one
// template. The decision is heuristic: blocked iff the protection score
// strictly exceeds the attack strength, so ties favor the attacker.
type SimulationResult struct {
	Blocked         bool        `json:"blocked"`
	Response        string      `json:"response"`
	Reasoning       string      `json:"reasoning"`
	ProtectionScore int         `json:"protectionScore"`
	AttackStrength  int         `json:"attackStrength"`
	ProtectionHits  []SignalHit `json:"protectionHits,omitempty"`
	AttackHits      []SignalHit `json:"attackHits,omitempty"`
}

// ProbeResult pairs an attack vector with its simulation outcome.
type ProbeResult struct {
	Vector AttackVector     `json:"vector"`
	Result SimulationResult `json:"result"`
}

// ProbeReport is the outcome of running a strategy against a whole catalog.
type ProbeReport struct {
	Strategy         DefenseStrategy `json:"strategy"`
	Results          []ProbeResult   `json:"results"`
	BlockedCount     int             `json:"blockedCount"`
	BrokenBySeverity map[string]int  `json:"brokenBySeverity,omitempty"`
}

// SignalCheck is one hygiene signal in a template scorecard.
type SignalCheck struct {
	ID          string `json:"id"`
	Description string `json:"description"`
	Hit         bool   `json:"hit"`
	Suggestion  string `json:"suggestion,omitempty"`
}

// TemplateScorecard summarizes how many hygiene signals a template carries.
type TemplateScorecard struct {
	Strategy string        `json:"strategy,omitempty"`
	Signals  []SignalCheck `json:"signals"`
	Score    int           `json:"score"`
	MaxScore int           `json:"maxScore"`
}

// FieldIssue describes a schema violation for one top-level field.
type FieldIssue struct {
	Field   string `json:"field"`
	Problem string `json:"problem"`
}

// SchemaResult is the outcome of checking an output against a lightweight
// JSON schema.
type SchemaResult struct {
	Valid     bool         `json:"valid"`
	ValidJSON bool         `json:"validJson"`
	Issues    []FieldIssue `json:"issues,omitempty"`
}

// SuiteArtifact encapsulates the report generation inputs for a suite run.
type SuiteArtifact struct {
	OutputDir string
	Suite     string
	RunID     string
	Report    SuiteReport
}

// ProbeArtifact encapsulates the report generation inputs for a defense probe.
type ProbeArtifact struct {
	OutputDir string
	Strategy  string
	Report    ProbeReport
}

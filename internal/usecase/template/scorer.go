// Package template scores defense-template hygiene. It reuses the defense
// simulator's protection detectors and adds structural checks, producing a
// scorecard with a suggestion for every missed signal.
package template

import (
	"strings"

	"github.com/bkyoung/prompt-eval/internal/domain"
	"github.com/bkyoung/prompt-eval/internal/usecase/defense"
)

// minTemplateLength is the rune count under which a template is considered
// too thin to constrain model behavior.
const minTemplateLength = 40

type signal struct {
	id          string
	description string
	suggestion  string
	check       func(template string) bool
}

var detectorSuggestions = map[string]struct {
	description string
	suggestion  string
}{
	"delimiters": {
		description: "Delimiter runs fence the untrusted slot",
		suggestion:  "Fence the untrusted content with delimiter runs such as --- or ###.",
	},
	"role_separation": {
		description: "Roles are labeled explicitly",
		suggestion:  "Label roles explicitly (for example SYSTEM:) so instructions and content don't blur.",
	},
	"untrusted_warning": {
		description: "Template warns that embedded content is untrusted",
		suggestion:  "State that the embedded content is untrusted and must not be followed as instructions.",
	},
	"strict_rules": {
		description: "Strict rule language pins the task down",
		suggestion:  "Use strict language such as 'never' or 'only' to pin the task down.",
	},
}

var structuralSignals = []signal{
	{
		id:          "placeholder_present",
		description: "Template has a {user_input} placeholder",
		suggestion:  "Add a {user_input} placeholder so the template positions untrusted content explicitly.",
		check: func(template string) bool {
			return strings.Contains(template, domain.UserInputPlaceholder)
		},
	},
	{
		id:          "instructions_before_placeholder",
		description: "Trusted instructions precede the untrusted slot",
		suggestion:  "Open with trusted instructions; a template that leads with user input cedes the first word to the attacker.",
		check: func(template string) bool {
			index := strings.Index(template, domain.UserInputPlaceholder)
			if index < 0 {
				return false
			}
			return strings.TrimSpace(template[:index]) != ""
		},
	},
	{
		id:          "length_floor",
		description: "Template is long enough to carry real instructions",
		suggestion:  "Flesh out the instructions; very short templates rarely constrain behavior.",
		check: func(template string) bool {
			return len([]rune(template)) >= minTemplateLength
		},
	},
}

// ScoreTemplate checks every hygiene signal against the template. The score
// is the number of signals that hit; misses carry a suggestion.
func ScoreTemplate(template string) domain.TemplateScorecard {
	card := domain.TemplateScorecard{}

	for _, detector := range defense.ProtectionDetectors() {
		meta := detectorSuggestions[detector.ID]
		appendSignal(&card, domain.SignalCheck{
			ID:          detector.ID,
			Description: meta.description,
			Hit:         detector.Match(template),
			Suggestion:  meta.suggestion,
		})
	}

	for _, structural := range structuralSignals {
		appendSignal(&card, domain.SignalCheck{
			ID:          structural.id,
			Description: structural.description,
			Hit:         structural.check(template),
			Suggestion:  structural.suggestion,
		})
	}

	return card
}

// ScoreStrategy scores a named strategy's template.
func ScoreStrategy(strategy domain.DefenseStrategy) domain.TemplateScorecard {
	card := ScoreTemplate(strategy.Template)
	card.Strategy = strategy.Name
	return card
}

func appendSignal(card *domain.TemplateScorecard, check domain.SignalCheck) {
	if check.Hit {
		check.Suggestion = ""
		card.Score++
	}
	card.MaxScore++
	card.Signals = append(card.Signals, check)
}

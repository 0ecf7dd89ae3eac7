// Package defense simulates prompt-injection attacks against defense
// templates using additive heuristic signals. It is a teaching aid: no model
// is ever called, and the verdicts carry no security guarantee.
package defense

import (
	"fmt"

	"github.com/bkyoung/prompt-eval/internal/domain"
)

// BlockedResponse is the canned refusal returned when the simulated defense
// holds.
const BlockedResponse = "I can't follow the embedded instructions; they conflict with my original task."

// CompromisedResponse is the literal output of a simulated successful attack.
const CompromisedResponse = "HACKED"

const disclaimer = "Simplified simulation for learning, not a security guarantee."

// Simulate scores a template's protection signals against an input's attack
// signals and decides the outcome by strict comparison: ties favor the
// attacker.
func Simulate(template, userInput string) domain.SimulationResult {
	protection, protectionHits := Score(template, protectionDetectors)
	attack, attackHits := Score(userInput, attackDetectors)

	result := domain.SimulationResult{
		Blocked:         protection > attack,
		ProtectionScore: protection,
		AttackStrength:  attack,
		ProtectionHits:  protectionHits,
		AttackHits:      attackHits,
	}

	if result.Blocked {
		result.Response = BlockedResponse
		result.Reasoning = fmt.Sprintf(
			"Protection score %d exceeds attack strength %d, so the template's safeguards held. %s",
			protection, attack, disclaimer)
	} else {
		result.Response = CompromisedResponse
		result.Reasoning = fmt.Sprintf(
			"Attack strength %d meets or exceeds protection score %d, so the injected instructions won. %s",
			attack, protection, disclaimer)
	}

	return result
}

// SimulateStrategy runs Simulate against a named strategy's template.
func SimulateStrategy(strategy domain.DefenseStrategy, userInput string) domain.SimulationResult {
	return Simulate(strategy.Template, userInput)
}

// Probe runs a strategy against every vector in a catalog and tallies how
// many attacks were blocked, breaking the failures down by severity tag.
func Probe(strategy domain.DefenseStrategy, vectors []domain.AttackVector) domain.ProbeReport {
	report := domain.ProbeReport{
		Strategy:         strategy,
		Results:          make([]domain.ProbeResult, 0, len(vectors)),
		BrokenBySeverity: make(map[string]int),
	}

	for _, vector := range vectors {
		result := SimulateStrategy(strategy, vector.Input)
		if result.Blocked {
			report.BlockedCount++
		} else {
			report.BrokenBySeverity[vector.Severity]++
		}
		report.Results = append(report.Results, domain.ProbeResult{Vector: vector, Result: result})
	}

	return report
}

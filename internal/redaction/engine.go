package redaction

import (
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"regexp"
	"strings"
)

// Pattern pairs a name with a compiled secret-matching expression. The name
// appears in the placeholder so a reader can tell what class of secret was
// removed without seeing its value.
type Pattern struct {
	Name string
	re   *regexp.Regexp
}

// Engine performs regex-based secret detection and redaction. Candidate
// outputs under evaluation can embed real credentials pasted from a user's
// session, so everything that leaves the process goes through here first.
type Engine struct {
	patterns []Pattern
}

// NewEngine creates a redaction engine with the default secret patterns.
func NewEngine() *Engine {
	return &Engine{patterns: defaultPatterns()}
}

// NewEngineWithPatterns creates an engine with extra named patterns appended
// to the defaults. Invalid expressions are rejected.
func NewEngineWithPatterns(extra map[string]string) (*Engine, error) {
	patterns := defaultPatterns()
	for name, expr := range extra {
		re, err := regexp.Compile(expr)
		if err != nil {
			return nil, fmt.Errorf("compile redaction pattern %q: %w", name, err)
		}
		patterns = append(patterns, Pattern{Name: name, re: re})
	}
	return &Engine{patterns: patterns}, nil
}

// Redact scans input for secrets and replaces them with stable placeholders.
// The same secret always maps to the same placeholder, so diffs between two
// redacted artifacts stay meaningful.
func (e *Engine) Redact(input string) (string, error) {
	result := input
	seen := make(map[string]string) // secret -> placeholder

	for _, pattern := range e.patterns {
		for _, match := range pattern.re.FindAllString(result, -1) {
			if _, done := seen[match]; done {
				continue
			}
			seen[match] = placeholder(pattern.Name, match)
		}
	}

	for secret, replacement := range seen {
		result = strings.ReplaceAll(result, secret, replacement)
	}

	return result, nil
}

// IsRedacted reports whether the content contains redaction placeholders.
func (e *Engine) IsRedacted(content string) bool {
	return strings.Contains(content, "<REDACTED:")
}

// PatternNames lists the active pattern names in registration order.
func (e *Engine) PatternNames() []string {
	names := make([]string, len(e.patterns))
	for i, pattern := range e.patterns {
		names[i] = pattern.Name
	}
	return names
}

// placeholder creates a stable, unique replacement for a secret.
func placeholder(name, secret string) string {
	hash := sha256.Sum256([]byte(secret))
	return fmt.Sprintf("<REDACTED:%s:%s>", name, hex.EncodeToString(hash[:])[:8])
}

// defaultPatterns returns the built-in secret detectors.
func defaultPatterns() []Pattern {
	specs := []struct {
		name string
		expr string
	}{
		// OpenAI API keys (flexible length for testing and real keys)
		{"openai-key", `sk-[a-zA-Z0-9]{20,}`},
		// Anthropic API keys
		{"anthropic-key", `sk-ant-[a-zA-Z0-9\-]{20,}`},
		// AWS Access Key ID
		{"aws-access-key", `AKIA[0-9A-Z]{16}`},
		// GitHub tokens
		{"github-token", `gh[posr]_[a-zA-Z0-9]{20,}`},
		// Google API keys
		{"google-key", `AIza[0-9A-Za-z\-_]{35}`},
		// JWT tokens (basic pattern)
		{"jwt", `eyJ[a-zA-Z0-9_-]+\.eyJ[a-zA-Z0-9_-]+\.[a-zA-Z0-9_-]+`},
		// Private keys (PEM format)
		{"private-key", `-----BEGIN\s+(?:RSA|EC|OPENSSH|DSA|ENCRYPTED)\s+PRIVATE\s+KEY-----[\s\S]*?-----END\s+(?:RSA|EC|OPENSSH|DSA|ENCRYPTED)\s+PRIVATE\s+KEY-----`},
		// Slack tokens
		{"slack-token", `xox[baprs]-[a-zA-Z0-9\-]{10,}`},
		// Generic bearer tokens (after "Bearer " keyword)
		{"bearer-token", `Bearer\s+[a-zA-Z0-9_\-\.]+`},
	}

	patterns := make([]Pattern, 0, len(specs))
	for _, spec := range specs {
		patterns = append(patterns, Pattern{Name: spec.name, re: regexp.MustCompile(spec.expr)})
	}
	return patterns
}

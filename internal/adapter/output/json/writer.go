package json

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/bkyoung/prompt-eval/internal/domain"
)

// Writer implements the rubric.JSONWriter interface.
type Writer struct {
	now func() string
}

// NewWriter creates a new JSON writer.
func NewWriter(now func() string) *Writer {
	return &Writer{now: now}
}

// WriteSuite persists a suite report to disk as a JSON file.
func (w *Writer) WriteSuite(ctx context.Context, artifact domain.SuiteArtifact) (string, error) {
	outputDir := filepath.Join(artifact.OutputDir, sanitise(artifact.Suite), w.now())
	if err := os.MkdirAll(outputDir, 0755); err != nil {
		return "", fmt.Errorf("failed to create output directory: %w", err)
	}

	filePath := filepath.Join(outputDir, fmt.Sprintf("suite-%s.json", artifact.RunID))
	if err := encodeTo(filePath, artifact.Report); err != nil {
		return "", err
	}

	return filePath, nil
}

// WriteProbe persists a probe report to disk as a JSON file.
func (w *Writer) WriteProbe(ctx context.Context, artifact domain.ProbeArtifact) (string, error) {
	outputDir := filepath.Join(artifact.OutputDir, sanitise(artifact.Strategy), w.now())
	if err := os.MkdirAll(outputDir, 0755); err != nil {
		return "", fmt.Errorf("failed to create output directory: %w", err)
	}

	filePath := filepath.Join(outputDir, "probe.json")
	if err := encodeTo(filePath, artifact.Report); err != nil {
		return "", err
	}

	return filePath, nil
}

// sanitise keeps report names from nesting or escaping the output layout.
func sanitise(value string) string {
	if value == "" {
		return "unknown"
	}
	value = strings.ToLower(value)
	value = strings.ReplaceAll(value, string(filepath.Separator), "-")
	value = strings.ReplaceAll(value, " ", "-")
	return value
}

func encodeTo(filePath string, report interface{}) error {
	file, err := os.Create(filePath)
	if err != nil {
		return fmt.Errorf("failed to create json file: %w", err)
	}
	defer file.Close()

	encoder := json.NewEncoder(file)
	encoder.SetIndent("", "  ")

	if err := encoder.Encode(report); err != nil {
		return fmt.Errorf("failed to encode report to json: %w", err)
	}

	return nil
}

package rubric

import (
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"time"
)

// calculateConfigHash creates a deterministic hash of the SuiteRequest so a
// stored run records which settings produced it.
func calculateConfigHash(req SuiteRequest) string {
	configStr := fmt.Sprintf("%s|%s|%s", req.SuitePath, req.SuiteName, req.OutputDir)
	hash := sha256.Sum256([]byte(configStr))
	return hex.EncodeToString(hash[:8])
}

// ID generation is intentionally duplicated from internal/store/util.go: this
// package defines the Store port and must not import the adapter-side store
// package. A sync test in both packages keeps the implementations identical.

// generateRunID creates a unique, time-ordered run ID.
func generateRunID(timestamp time.Time, suite string) string {
	ts := timestamp.UTC().Format("20060102T150405Z")

	input := fmt.Sprintf("%s|%d", suite, timestamp.UnixNano())
	hash := sha256.Sum256([]byte(input))
	shortHash := hex.EncodeToString(hash[:3])

	return fmt.Sprintf("run-%s-%s", ts, shortHash)
}

// generateResultID creates a unique ID for a stored case result.
func generateResultID(runID string, index int) string {
	return fmt.Sprintf("result-%s-%04d", runID, index)
}

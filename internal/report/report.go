// Package report renders run results for humans (colored console output) and
// machines (a JSON artifact).
package report

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/catcheck/catcheck/internal/suite"
)

// Report is the persisted run artifact.
type Report struct {
	GeneratedAt time.Time          `json:"generated_at"`
	Summary     suite.Summary      `json:"summary"`
	Results     []suite.CaseResult `json:"results"`
}

// New assembles a Report from a finished run.
func New(results []suite.CaseResult, sum suite.Summary) *Report {
	return &Report{
		GeneratedAt: time.Now().UTC(),
		Summary:     sum,
		Results:     results,
	}
}

// WriteJSON persists the report at path, creating parent directories as
// needed.
func (r *Report) WriteJSON(path string) error {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("prepare report directory for %q: %w", path, err)
	}
	b, err := json.MarshalIndent(r, "", "  ")
	if err != nil {
		return fmt.Errorf("marshal report: %w", err)
	}
	if err := os.WriteFile(path, b, 0o644); err != nil {
		return fmt.Errorf("write report %q: %w", path, err)
	}
	return nil
}

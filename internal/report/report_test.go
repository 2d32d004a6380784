package report

import (
	"bytes"
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/fatih/color"

	"github.com/catcheck/catcheck/internal/suite"
)

func sampleRun() ([]suite.CaseResult, suite.Summary) {
	results := []suite.CaseResult{
		{Name: "passes", Passed: true, Status: 200, LatencyMS: 12},
		{Name: "fails", Status: 500, Failures: []string{"expected status 200 but received 500 (Internal Server Error)"}},
		{Name: "skipped", Skipped: true, SkipWhy: "api key not configured"},
	}
	sum := suite.Summary{
		RunID: "run-1", Total: 3, Passed: 1, Failed: 1, Skipped: 1,
		DurationMS: 120, Failing: []string{"fails"},
	}
	return results, sum
}

func TestWriteJSON(t *testing.T) {
	results, sum := sampleRun()
	path := filepath.Join(t.TempDir(), "out", "report.json")

	if err := New(results, sum).WriteJSON(path); err != nil {
		t.Fatal(err)
	}

	raw, err := os.ReadFile(path)
	if err != nil {
		t.Fatal(err)
	}
	var got Report
	if err := json.Unmarshal(raw, &got); err != nil {
		t.Fatalf("report is not valid JSON: %v", err)
	}
	if got.Summary.Failed != 1 || len(got.Results) != 3 {
		t.Fatalf("unexpected report contents: %+v", got.Summary)
	}
	if got.Results[1].Failures[0] == "" {
		t.Fatal("failure detail must survive the round trip")
	}
}

func TestPrinterShowsEveryFailureDetail(t *testing.T) {
	color.NoColor = true
	results, sum := sampleRun()
	var buf bytes.Buffer
	(&Printer{Out: &buf}).Print(results, sum)

	out := buf.String()
	for _, want := range []string{
		"PASS passes",
		"FAIL fails",
		"expected status 200 but received 500",
		"SKIP skipped (api key not configured)",
		"3 total, 1 passed, 1 failed, 1 skipped",
	} {
		if !strings.Contains(out, want) {
			t.Fatalf("console output missing %q:\n%s", want, out)
		}
	}
}

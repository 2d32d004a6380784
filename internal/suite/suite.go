package suite

import (
	"context"
	"fmt"
	"time"

	"github.com/catcheck/catcheck/internal/client"
	"github.com/catcheck/catcheck/internal/schema"
)

// Check records assertion failures for one case. A failed expectation is
// appended with full detail and the case keeps running, so one run reports
// every problem at once.
type Check struct {
	failures []string
	status   int
}

// Failf records a single failure.
func (c *Check) Failf(format string, args ...any) {
	c.failures = append(c.failures, fmt.Sprintf(format, args...))
}

// ExpectStatus asserts the exact response status.
func (c *Check) ExpectStatus(res *client.Result, want int) {
	c.status = res.Status
	if res.Status != want {
		c.Failf("expected status %d but received %d (%s)", want, res.Status, res.StatusText)
	}
}

// ExpectOK asserts the 2xx success flag.
func (c *Check) ExpectOK(res *client.Result) {
	c.status = res.Status
	if !res.OK {
		c.Failf("expected a successful status but received %d (%s)", res.Status, res.StatusText)
	}
}

// ExpectNotOK asserts a non-2xx outcome.
func (c *Check) ExpectNotOK(res *client.Result) {
	c.status = res.Status
	if res.OK {
		c.Failf("expected a failure status but received %d (%s)", res.Status, res.StatusText)
	}
}

// ExpectSchema validates value against node and records every mismatch.
func (c *Check) ExpectSchema(value any, node *schema.Node) {
	res := schema.Validate(value, node)
	c.failures = append(c.failures, res.Errors...)
}

// ExpectField asserts a field is present on an object body and returns it.
func (c *Check) ExpectField(value any, name string) (any, bool) {
	obj, ok := value.(map[string]any)
	if !ok {
		c.Failf("expected an object body but got %s", schema.KindOf(value))
		return nil, false
	}
	v, present := obj[name]
	if !present {
		c.Failf("Missing required field: %s", name)
		return nil, false
	}
	return v, true
}

// Failed reports whether any expectation failed so far.
func (c *Check) Failed() bool { return len(c.failures) > 0 }

// Case is one end-to-end scenario. Run returning an error means the case was
// aborted before its assertions could complete, typically by a transport
// failure. A non-empty Skip marks the case skipped without running it.
type Case struct {
	Name string
	Skip string
	Run  func(ctx context.Context, c *Check) error
}

// CaseResult is the recorded outcome of one case.
type CaseResult struct {
	Name     string        `json:"name"`
	Passed   bool          `json:"passed"`
	Skipped  bool          `json:"skipped,omitempty"`
	SkipWhy  string        `json:"skip_reason,omitempty"`
	Failures []string      `json:"failures,omitempty"`
	Status   int           `json:"status,omitempty"`
	Latency  time.Duration `json:"-"`

	LatencyMS int64 `json:"latency_ms"`
}

// Summary aggregates a whole run.
type Summary struct {
	RunID      string   `json:"run_id"`
	Total      int      `json:"total"`
	Passed     int      `json:"passed"`
	Failed     int      `json:"failed"`
	Skipped    int      `json:"skipped"`
	DurationMS int64    `json:"duration_ms"`
	Failing    []string `json:"failing,omitempty"`
}

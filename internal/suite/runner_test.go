package suite

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/catcheck/catcheck/internal/client"
	"github.com/catcheck/catcheck/internal/schema"
)

func TestRunnerCountsOutcomes(t *testing.T) {
	cases := []Case{
		{Name: "passes", Run: func(ctx context.Context, c *Check) error { return nil }},
		{Name: "fails", Run: func(ctx context.Context, c *Check) error {
			c.Failf("boom")
			return nil
		}},
		{Name: "skipped", Skip: "no api key configured"},
	}

	r := NewRunner(2, time.Second, nil)
	results, sum := r.Run(context.Background(), cases)

	if sum.Total != 3 || sum.Passed != 1 || sum.Failed != 1 || sum.Skipped != 1 {
		t.Fatalf("unexpected summary: %+v", sum)
	}
	if len(sum.Failing) != 1 || sum.Failing[0] != "fails" {
		t.Fatalf("unexpected failing list: %v", sum.Failing)
	}
	if sum.RunID == "" {
		t.Fatal("expected a run id")
	}

	// Declaration order survives parallel completion.
	if results[0].Name != "passes" || results[1].Name != "fails" || results[2].Name != "skipped" {
		t.Fatalf("results out of order: %v", results)
	}
	if !results[2].Skipped || results[2].SkipWhy != "no api key configured" {
		t.Fatalf("skip not recorded: %+v", results[2])
	}
}

func TestRunnerTransportAbortFailsCase(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))
	server.Close()

	c := client.New(client.Options{BaseURL: server.URL})
	cases := []Case{{
		Name: "unreachable",
		Run: func(ctx context.Context, chk *Check) error {
			res, err := c.Get(ctx, "/")
			if err != nil {
				return err
			}
			chk.ExpectOK(res)
			return nil
		},
	}}

	r := NewRunner(1, time.Second, nil)
	results, sum := r.Run(context.Background(), cases)
	if sum.Failed != 1 {
		t.Fatalf("expected one failure, got %+v", sum)
	}
	if len(results[0].Failures) != 1 || !strings.Contains(results[0].Failures[0], "transport error") {
		t.Fatalf("expected transport failure detail, got %v", results[0].Failures)
	}
}

func TestRunnerReportsEveryFailureDetail(t *testing.T) {
	cases := []Case{{
		Name: "detailed",
		Run: func(ctx context.Context, c *Check) error {
			c.ExpectSchema(map[string]any{"id": 5}, schema.Object([]string{"id", "url"},
				schema.Prop("id", schema.String()),
			))
			return nil
		},
	}}

	r := NewRunner(1, 0, nil)
	results, _ := r.Run(context.Background(), cases)
	if len(results[0].Failures) != 2 {
		t.Fatalf("expected both mismatches carried over, got %v", results[0].Failures)
	}
	if results[0].Failures[0] != "Missing required field: url" {
		t.Fatalf("unexpected first failure: %q", results[0].Failures[0])
	}
	if results[0].Failures[1] != "Expected string but got integer" {
		t.Fatalf("unexpected second failure: %q", results[0].Failures[1])
	}
}

func TestCheckExpectField(t *testing.T) {
	chk := &Check{}
	v, ok := chk.ExpectField(map[string]any{"id": float64(7)}, "id")
	if !ok || v.(float64) != 7 {
		t.Fatalf("expected field lookup to succeed, got %v %t", v, ok)
	}
	if chk.Failed() {
		t.Fatalf("unexpected failures: %v", chk.failures)
	}

	_, ok = chk.ExpectField(map[string]any{}, "id")
	if ok || !chk.Failed() {
		t.Fatal("expected missing field to fail")
	}
	if chk.failures[0] != "Missing required field: id" {
		t.Fatalf("unexpected message: %q", chk.failures[0])
	}

	chk = &Check{}
	_, ok = chk.ExpectField([]any{}, "id")
	if ok || chk.failures[0] != "expected an object body but got array" {
		t.Fatalf("unexpected message: %v", chk.failures)
	}
}

func TestRunnerHonorsCaseTimeout(t *testing.T) {
	cases := []Case{{
		Name: "slow",
		Run: func(ctx context.Context, c *Check) error {
			select {
			case <-ctx.Done():
				return ctx.Err()
			case <-time.After(5 * time.Second):
				return nil
			}
		},
	}}

	r := NewRunner(1, 50*time.Millisecond, nil)
	start := time.Now()
	_, sum := r.Run(context.Background(), cases)
	if sum.Failed != 1 {
		t.Fatalf("expected timeout to fail the case: %+v", sum)
	}
	if time.Since(start) > 2*time.Second {
		t.Fatal("case timeout not applied")
	}
}

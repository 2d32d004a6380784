package suite

import (
	"context"
	"log/slog"
	"sort"
	"sync"
	"time"

	"github.com/google/uuid"
)

// Runner executes cases on a fixed pool of workers. Cases share nothing
// mutable; results are collected over a channel and correlated by name, not
// by completion order.
type Runner struct {
	workers     int
	caseTimeout time.Duration
	logger      *slog.Logger
}

func NewRunner(workers int, caseTimeout time.Duration, logger *slog.Logger) *Runner {
	if workers < 1 {
		workers = 1
	}
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}
	return &Runner{workers: workers, caseTimeout: caseTimeout, logger: logger}
}

type indexedResult struct {
	idx int
	res CaseResult
}

// Run executes all cases and returns their results in declaration order
// together with the run summary.
func (r *Runner) Run(ctx context.Context, cases []Case) ([]CaseResult, Summary) {
	start := time.Now()
	runID := uuid.NewString()
	r.logger.Info("run start", "run_id", runID, "cases", len(cases), "workers", r.workers)

	jobs := make(chan int)
	out := make(chan indexedResult)

	var wg sync.WaitGroup
	for w := 0; w < r.workers; w++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for idx := range jobs {
				out <- indexedResult{idx: idx, res: r.runOne(ctx, cases[idx])}
			}
		}()
	}

	go func() {
		for i := range cases {
			select {
			case <-ctx.Done():
				close(jobs)
				return
			case jobs <- i:
			}
		}
		close(jobs)
	}()

	go func() {
		wg.Wait()
		close(out)
	}()

	collected := make([]indexedResult, 0, len(cases))
	for ir := range out {
		collected = append(collected, ir)
	}
	sort.Slice(collected, func(i, j int) bool { return collected[i].idx < collected[j].idx })

	results := make([]CaseResult, 0, len(collected))
	sum := Summary{RunID: runID}
	for _, ir := range collected {
		results = append(results, ir.res)
		sum.Total++
		switch {
		case ir.res.Skipped:
			sum.Skipped++
		case ir.res.Passed:
			sum.Passed++
		default:
			sum.Failed++
			sum.Failing = append(sum.Failing, ir.res.Name)
		}
	}
	sum.DurationMS = time.Since(start).Milliseconds()

	r.logger.Info("run complete", "run_id", runID,
		"total", sum.Total, "passed", sum.Passed, "failed", sum.Failed, "skipped", sum.Skipped,
		"duration_ms", sum.DurationMS)
	return results, sum
}

func (r *Runner) runOne(ctx context.Context, cs Case) CaseResult {
	if cs.Skip != "" {
		r.logger.Info("case skipped", "case", cs.Name, "reason", cs.Skip)
		return CaseResult{Name: cs.Name, Skipped: true, SkipWhy: cs.Skip}
	}

	caseCtx := ctx
	if r.caseTimeout > 0 {
		var cancel context.CancelFunc
		caseCtx, cancel = context.WithTimeout(ctx, r.caseTimeout)
		defer cancel()
	}

	r.logger.Debug("case start", "case", cs.Name)
	chk := &Check{}
	start := time.Now()
	err := cs.Run(caseCtx, chk)
	latency := time.Since(start)

	cr := CaseResult{
		Name:      cs.Name,
		Failures:  chk.failures,
		Status:    chk.status,
		Latency:   latency,
		LatencyMS: latency.Milliseconds(),
	}
	if err != nil {
		// Aborted mid-case; report the abort alongside whatever already failed.
		cr.Failures = append(cr.Failures, err.Error())
	}
	cr.Passed = err == nil && !chk.Failed()

	if cr.Passed {
		r.logger.Debug("case passed", "case", cs.Name, "latency_ms", cr.LatencyMS)
	} else {
		r.logger.Warn("case failed", "case", cs.Name, "failures", len(cr.Failures))
	}
	return cr
}

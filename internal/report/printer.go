package report

import (
	"fmt"
	"io"
	"time"

	"github.com/fatih/color"

	"github.com/catcheck/catcheck/internal/suite"
)

// Printer writes a human-readable run report to Out.
type Printer struct {
	Out io.Writer
}

func (p *Printer) Print(results []suite.CaseResult, sum suite.Summary) {
	green := color.New(color.FgGreen).SprintFunc()
	red := color.New(color.FgRed).SprintFunc()
	yellow := color.New(color.FgYellow).SprintFunc()
	bold := color.New(color.FgWhite, color.Bold).SprintFunc()

	fmt.Fprintf(p.Out, "%s run %s\n", bold("catcheck"), sum.RunID)

	for _, res := range results {
		switch {
		case res.Skipped:
			fmt.Fprintf(p.Out, "  %s %s (%s)\n", yellow("SKIP"), res.Name, res.SkipWhy)
		case res.Passed:
			fmt.Fprintf(p.Out, "  %s %s (%dms)\n", green("PASS"), res.Name, res.LatencyMS)
		default:
			fmt.Fprintf(p.Out, "  %s %s (status=%d, %dms)\n", red("FAIL"), res.Name, res.Status, res.LatencyMS)
			for _, f := range res.Failures {
				fmt.Fprintf(p.Out, "       - %s\n", red(f))
			}
		}
	}

	line := fmt.Sprintf("%d total, %d passed, %d failed, %d skipped in %s",
		sum.Total, sum.Passed, sum.Failed, sum.Skipped,
		time.Duration(sum.DurationMS)*time.Millisecond)
	if sum.Failed > 0 {
		fmt.Fprintf(p.Out, "%s\n", red(line))
	} else {
		fmt.Fprintf(p.Out, "%s\n", green(line))
	}
}

package doctor

import (
	"encoding/json"
	"fmt"
	"io"
	"strings"
)

// Report summarizes a doctor run.
type Report struct {
	Passed  int            `json:"passed"`
	Warned  int            `json:"warned"`
	Failed  int            `json:"failed"`
	Fixed   int            `json:"fixed"`
	Results []*CheckResult `json:"results"`
}

// Healthy reports whether no check failed. Warnings are healthy: the
// watchdog still runs, possibly on the fallback monitor.
func (r *Report) Healthy() bool {
	return r.Failed == 0
}

// Doctor runs registered checks in registration order.
type Doctor struct {
	checks []Check
}

// Register adds a check to the doctor's check list.
func (d *Doctor) Register(c Check) {
	d.checks = append(d.checks, c)
}

// Run executes all registered checks. When fix is true, non-OK checks
// that support it are remediated and re-run. If w is non-nil each
// result is printed as it completes.
func (d *Doctor) Run(ctx *CheckContext, w io.Writer, fix bool) *Report {
	r := &Report{}
	for _, c := range d.checks {
		result := c.Run(ctx)
		if fix && result.Status != StatusOK && c.CanFix() {
			result = fixAndRerun(c, ctx, result)
		}
		if w != nil {
			printResult(w, result, ctx.Verbose)
		}
		r.add(result)
	}
	return r
}

// fixAndRerun applies c.Fix and returns the verified result. A failed
// fix keeps the original result and records the error.
func fixAndRerun(c Check, ctx *CheckContext, before *CheckResult) *CheckResult {
	if err := c.Fix(ctx); err != nil {
		before.FixError = err.Error()
		return before
	}
	after := c.Run(ctx)
	after.Fixed = after.Status == StatusOK
	return after
}

func (r *Report) add(res *CheckResult) {
	r.Results = append(r.Results, res)
	switch {
	case res.Fixed:
		r.Fixed++
		r.Passed++
	case res.Status == StatusOK:
		r.Passed++
	case res.Status == StatusWarning:
		r.Warned++
	case res.Status == StatusError:
		r.Failed++
	}
}

func statusIcon(r *CheckResult) string {
	switch {
	case r.Fixed, r.Status == StatusOK:
		return "✓"
	case r.Status == StatusWarning:
		return "⚠"
	default:
		return "✗"
	}
}

// printResult writes a single check result line to w.
func printResult(w io.Writer, r *CheckResult, verbose bool) {
	suffix := ""
	if r.Fixed {
		suffix = " (fixed)"
	}
	fmt.Fprintf(w, "  %s %s — %s%s\n", statusIcon(r), r.Name, r.Message, suffix) //nolint:errcheck // best-effort output
	if verbose {
		for _, d := range r.Details {
			fmt.Fprintf(w, "      %s\n", d) //nolint:errcheck // best-effort output
		}
	}
	if r.FixError != "" {
		fmt.Fprintf(w, "      fix failed: %s\n", r.FixError) //nolint:errcheck // best-effort output
	}
	if r.FixHint != "" && r.Status != StatusOK && !r.Fixed {
		fmt.Fprintf(w, "      hint: %s\n", r.FixHint) //nolint:errcheck // best-effort output
	}
}

// PrintSummary writes the final summary line to w.
func PrintSummary(w io.Writer, r *Report) {
	var parts []string
	if r.Passed > 0 {
		parts = append(parts, fmt.Sprintf("%d passed", r.Passed))
	}
	if r.Warned > 0 {
		parts = append(parts, fmt.Sprintf("%d warnings", r.Warned))
	}
	if r.Failed > 0 {
		parts = append(parts, fmt.Sprintf("%d failed", r.Failed))
	}
	if r.Fixed > 0 {
		parts = append(parts, fmt.Sprintf("%d fixed", r.Fixed))
	}
	if len(parts) == 0 {
		fmt.Fprintln(w, "\nNo checks ran.") //nolint:errcheck // best-effort output
		return
	}
	fmt.Fprintf(w, "\n%s\n", strings.Join(parts, ", ")) //nolint:errcheck // best-effort output
}

// WriteJSON writes r as an indented JSON document.
func WriteJSON(w io.Writer, r *Report) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(r)
}

package harness

import (
	"bytes"
	"fmt"
	"io"
	"time"

	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/jedib0t/go-pretty/v6/text"
)

// StepResult is the outcome of one step.
type StepResult struct {
	Name     string
	To       State
	Duration time.Duration
	Err      error
}

// Report is the outcome of one scenario run.
type Report struct {
	RunID    string
	Scenario string
	// Final is StateVerified on success and StateFailed otherwise.
	Final State
	// FailedIn is the state the run was in when it failed.
	FailedIn State
	Err      error
	Steps    []StepResult
	Started  time.Time
	Duration time.Duration
}

// Passed reports whether the scenario reached StateVerified.
func (r *Report) Passed() bool { return r.Final == StateVerified && r.Err == nil }

// FormatReports renders a summary table of reports.
func FormatReports(w io.Writer, reports []*Report) {
	t := table.NewWriter()
	t.SetOutputMirror(w)
	t.SetTitle("uiprobe")
	t.AppendHeader(table.Row{"SCENARIO", "RESULT", "STATE", "STEPS", "DURATION", "ERROR"})
	t.SetColumnConfigs([]table.ColumnConfig{
		{Name: "STEPS", Align: text.AlignRight},
		{Name: "DURATION", Align: text.AlignRight},
		{Name: "ERROR", WidthMax: 80, WidthMaxEnforcer: text.WrapSoft},
	})

	passed := 0
	var total time.Duration
	for _, r := range reports {
		result, state, errText := "PASS", r.Final.String(), ""
		if r.Passed() {
			passed++
		} else {
			result = "FAIL"
			state = r.FailedIn.String()
			if r.Err != nil {
				errText = r.Err.Error()
			}
		}
		total += r.Duration
		t.AppendRow(table.Row{r.Scenario, result, state, len(r.Steps), r.Duration.Round(time.Millisecond), errText})
	}

	t.SetStyle(table.StyleLight)
	t.AppendFooter(table.Row{"TOTAL", fmt.Sprintf("%d/%d", passed, len(reports)), "", "", total.Round(time.Millisecond), ""})
	t.Render()
}

// FormatReportsString is FormatReports into a string.
func FormatReportsString(reports []*Report) string {
	var buf bytes.Buffer
	FormatReports(&buf, reports)
	return buf.String()
}

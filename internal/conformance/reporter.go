package conformance

import (
	"encoding/json"
	"fmt"
	"io"

	"github.com/fatih/color"
)

var (
	consoleFailedColor  = color.New(color.FgRed)
	consoleDetailColor  = color.New(color.FgYellow)
	consoleAbortedColor = color.New(color.Bold, color.FgRed)
	allPassedColor      = color.New(color.FgGreen)
)

// Reporter receives scenario events as the run progresses.
type Reporter interface {
	ScenarioStarted(id ScenarioID)
	ScenarioFinished(res ScenarioResult)
	RunFinished(results Results)
}

// NullReporter discards all events.
type NullReporter struct{}

func (NullReporter) ScenarioStarted(ScenarioID)      {}
func (NullReporter) ScenarioFinished(ScenarioResult) {}
func (NullReporter) RunFinished(Results)             {}

// ConsoleReporter prints human-readable progress.
type ConsoleReporter struct {
	Out     io.Writer
	Verbose bool
}

func (c ConsoleReporter) ScenarioStarted(id ScenarioID) {
	if c.Verbose {
		fmt.Fprintf(c.Out, "[%s]\n", id)
	}
}

func (c ConsoleReporter) ScenarioFinished(res ScenarioResult) {
	if res.Passed {
		if c.Verbose {
			fmt.Fprintf(c.Out, "  ok: %s (%s)\n", res.ID, res.Duration)
		}
		return
	}
	_, _ = consoleFailedColor.Fprintf(c.Out, "  FAILED: %s\n", res.ID)
	for _, f := range res.Failures {
		_, _ = consoleDetailColor.Fprintf(c.Out, "    %s\n", f)
	}
}

func (c ConsoleReporter) RunFinished(results Results) {
	if results.Aborted != "" {
		_, _ = consoleAbortedColor.Fprintf(c.Out, "RUN ABORTED: %s\n", results.Aborted)
	}
	if results.OK() {
		_, _ = allPassedColor.Fprintf(c.Out, "All %d scenarios passed\n", results.Total())
		return
	}
	_, _ = consoleFailedColor.Fprintf(c.Out, "FAILED SCENARIOS (%d of %d):\n", results.Failed, results.Total())
	for _, f := range results.Failures() {
		_, _ = consoleFailedColor.Fprintf(c.Out, "  * %s\n", f.ID)
	}
}

// JSONReporter writes the final results as one JSON document.
type JSONReporter struct {
	Out io.Writer
}

func (JSONReporter) ScenarioStarted(ScenarioID)      {}
func (JSONReporter) ScenarioFinished(ScenarioResult) {}

func (j JSONReporter) RunFinished(results Results) {
	enc := json.NewEncoder(j.Out)
	enc.SetIndent("", "  ")
	_ = enc.Encode(results)
}

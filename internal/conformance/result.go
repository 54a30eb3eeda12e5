package conformance

import (
	"fmt"
	"strings"
	"time"
)

// ScenarioID is the hierarchical name of a scenario, e.g.
// schema/type/email.
type ScenarioID []string

func (id ScenarioID) String() string {
	return strings.Join(id, "/")
}

// Plus returns a child ID without aliasing the receiver.
func (id ScenarioID) Plus(name string) ScenarioID {
	return append(append(ScenarioID(nil), id...), name)
}

// ScenarioResult records the verdict of one scenario.
type ScenarioResult struct {
	ID       string        `json:"id"`
	Passed   bool          `json:"passed"`
	Failures []string      `json:"failures,omitempty"`
	Duration time.Duration `json:"duration_ns"`
}

// Results holds the outcome of a run.
type Results struct {
	Scenarios []ScenarioResult `json:"scenarios"`
	Passed    int              `json:"passed"`
	Failed    int              `json:"failed"`
	Aborted   string           `json:"aborted,omitempty"`
}

// OK reports whether every scenario passed and the run was not aborted.
func (r Results) OK() bool {
	return r.Failed == 0 && r.Aborted == ""
}

// Total is the number of scenarios that ran.
func (r Results) Total() int {
	return len(r.Scenarios)
}

// Failures returns the failed scenarios.
func (r Results) Failures() []ScenarioResult {
	var out []ScenarioResult
	for _, s := range r.Scenarios {
		if !s.Passed {
			out = append(out, s)
		}
	}
	return out
}

func (r *Results) add(res ScenarioResult) {
	r.Scenarios = append(r.Scenarios, res)
	if res.Passed {
		r.Passed++
	} else {
		r.Failed++
	}
}

func (r *Results) merge(other Results) {
	for _, s := range other.Scenarios {
		r.add(s)
	}
	if other.Aborted != "" {
		r.Aborted = other.Aborted
	}
}

// scope collects assertion failures for one scenario.
type scope struct {
	failures []string
}

func (s *scope) Failf(format string, args ...any) {
	s.failures = append(s.failures, fmt.Sprintf(format, args...))
}

func (s *scope) failed() bool { return len(s.failures) > 0 }

package doctor

import "time"

// Check is a single diagnostic.
type Check interface {
	// Name identifies the checked subject, such as "location:/usr/share/openscad".
	Name() string
	Category() string
	Run() *CheckResult
}

// Runner runs checks in registration order.
type Runner struct {
	checks []Check
}

func NewRunner() *Runner {
	return &Runner{checks: make([]Check, 0)}
}

func (r *Runner) AddCheck(c Check) {
	r.checks = append(r.checks, c)
}

func (r *Runner) AddChecks(cs ...Check) {
	r.checks = append(r.checks, cs...)
}

// Run executes every check. Checks returning nil are left out of the
// report.
func (r *Runner) Run() *Report {
	report := &Report{
		Timestamp: time.Now().UTC(),
		Results:   make([]*CheckResult, 0, len(r.checks)),
	}
	for _, c := range r.checks {
		if res := c.Run(); res != nil {
			report.Results = append(report.Results, res)
			report.Summary.add(res.Status)
		}
	}
	return report
}

// Report is the outcome of a Runner.Run.
type Report struct {
	Timestamp time.Time      `json:"timestamp" yaml:"timestamp" toml:"timestamp"`
	Results   []*CheckResult `json:"results" yaml:"results" toml:"results"`
	Summary   Summary        `json:"summary" yaml:"summary" toml:"summary"`
}

func (r *Report) HasErrors() bool   { return r.Summary.Errors > 0 }
func (r *Report) HasWarnings() bool { return r.Summary.Warnings > 0 }

// Worst returns the highest severity in the report, SeverityPass when empty.
func (r *Report) Worst() Severity {
	worst := SeverityPass
	for _, res := range r.Results {
		worst = max(worst, res.Status)
	}
	return worst
}

// AtLeast returns the results with a status of floor or worse, in order.
func (r *Report) AtLeast(floor Severity) []*CheckResult {
	var out []*CheckResult
	for _, res := range r.Results {
		if res.Status >= floor {
			out = append(out, res)
		}
	}
	return out
}

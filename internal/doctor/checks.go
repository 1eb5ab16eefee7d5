package doctor

import (
	"fmt"
	"io"
	"path/filepath"
	"strings"

	"github.com/spf13/afero"

	"github.com/thoreinstein/resindex/internal/errors"
	"github.com/thoreinstein/resindex/internal/location"
	"github.com/thoreinstein/resindex/internal/resource"
	"github.com/thoreinstein/resindex/pkg/docreader"
)

// LocationCheck verifies that a resolved location can be scanned.
type LocationCheck struct {
	loc location.Location
	fs  afero.Fs
}

var _ Check = (*LocationCheck)(nil)

// NewLocationCheck creates a check for loc against the OS file system.
func NewLocationCheck(loc location.Location) *LocationCheck {
	return &LocationCheck{loc: loc, fs: afero.NewOsFs()}
}

// Name returns the unique identifier for this check.
func (c *LocationCheck) Name() string {
	return "location:" + c.loc.DisplayName
}

// Category returns the grouping for this check.
func (c *LocationCheck) Category() string {
	return "location"
}

// Run reports disabled and missing locations as informational and
// unreadable ones as errors.
func (c *LocationCheck) Run() *CheckResult {
	result := &CheckResult{
		Name:     c.Name(),
		Category: c.Category(),
		Details: map[string]any{
			"tier":   c.loc.Tier.String(),
			"source": c.loc.Source.String(),
		},
	}
	if c.loc.Path != "" {
		result.Details["path"] = c.loc.Path
	}

	switch {
	case c.loc.Path == "":
		result.Status = SeverityInfo
		result.Message = "variable not set"
		result.Details["variable"] = c.loc.Template
		return result
	case !c.loc.Enabled:
		result.Status = SeverityInfo
		result.Message = "disabled"
		return result
	case !c.loc.Exists:
		result.Status = SeverityInfo
		result.Message = "not found"
		return result
	}

	f, err := c.fs.Open(c.loc.Path)
	if err == nil {
		_, err = f.Readdirnames(1)
		f.Close()
		if errors.Is(err, io.EOF) {
			err = nil
		}
	}
	if err != nil {
		result.Status = SeverityError
		result.Message = fmt.Sprintf("not readable: %v", err)
		result.FixHint = "chmod u+rx " + c.loc.Path
		return result
	}

	result.Status = SeverityPass
	result.Message = "readable"
	return result
}

// DocumentCheck verifies that a JSON resource parses.
type DocumentCheck struct {
	res resource.DiscoveredResource
}

var _ Check = (*DocumentCheck)(nil)

// NewDocumentCheck creates a check for r.
func NewDocumentCheck(r resource.DiscoveredResource) *DocumentCheck {
	return &DocumentCheck{res: r}
}

// Name returns the unique identifier for this check.
func (c *DocumentCheck) Name() string {
	return "document:" + c.res.Path
}

// Category returns the grouping for this check.
func (c *DocumentCheck) Category() string {
	return "document"
}

// Run parses the document and reports the position of the first syntax
// error.
func (c *DocumentCheck) Run() *CheckResult {
	result := &CheckResult{
		Name:     c.Name(),
		Category: c.Category(),
		Details: map[string]any{
			"path": c.res.Path,
			"type": c.res.Type.String(),
		},
	}

	_, err := docreader.ReadFile(c.res.Path)
	var syn *docreader.SyntaxError
	switch {
	case err == nil:
		result.Status = SeverityPass
		result.Message = "valid"
	case errors.As(err, &syn):
		result.Status = SeverityError
		result.Message = fmt.Sprintf("line %d, column %d: %v", syn.Line, syn.Column, syn.Err)
		result.Details["line"] = syn.Line
		result.Details["column"] = syn.Column
	case errors.Is(err, docreader.ErrFileTooLarge):
		result.Status = SeverityWarning
		result.Message = "too large to check"
	default:
		result.Status = SeverityError
		result.Message = err.Error()
	}
	return result
}

// LocationChecks returns one check per location.
func LocationChecks(locs []location.Location) []Check {
	checks := make([]Check, 0, len(locs))
	for _, l := range locs {
		checks = append(checks, NewLocationCheck(l))
	}
	return checks
}

// DocumentChecks returns a check for every resource stored as JSON.
func DocumentChecks(rs []resource.DiscoveredResource) []Check {
	var checks []Check
	for _, r := range rs {
		if strings.EqualFold(filepath.Ext(r.Path), ".json") {
			checks = append(checks, NewDocumentCheck(r))
		}
	}
	return checks
}

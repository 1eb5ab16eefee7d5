package location

import (
	"log/slog"
	"os"
	"strings"

	"github.com/spf13/afero"

	"github.com/thoreinstein/resindex/internal/logging"
	"github.com/thoreinstein/resindex/internal/paths"
	"github.com/thoreinstein/resindex/internal/resource"
)

// notSetName is the display name of an unset machine variable entry.
const notSetName = "(not set)"

// Resolver computes resource locations for one application identity.
type Resolver struct {
	id            Identity
	platform      Platform
	env           paths.Env
	processEnv    paths.LookupFunc
	defaults      paths.Env
	siblings      []string
	extra         []string
	disabled      []string
	machineEnvVar string
	fs            afero.Fs
	logger        *slog.Logger
}

// Option configures a Resolver.
type Option func(*Resolver)

// WithPlatform selects the template set. Defaults to CurrentPlatform().
func WithPlatform(p Platform) Option {
	return func(r *Resolver) { r.platform = p }
}

// WithEnv sets variables that take precedence over the process environment.
func WithEnv(env paths.Env) Option {
	return func(r *Resolver) { r.env = r.env.Merge(env) }
}

// WithProcessEnv replaces the process environment lookup.
func WithProcessEnv(lookup paths.LookupFunc) Option {
	return func(r *Resolver) { r.processEnv = lookup }
}

// WithDefaults replaces the fallback variable table consulted last.
// Defaults to paths.DefaultVariables().
func WithDefaults(env paths.Env) Option {
	return func(r *Resolver) { r.defaults = env }
}

// WithSiblings adds sibling installation directories to the Installation tier.
func WithSiblings(dirs ...string) Option {
	return func(r *Resolver) { r.siblings = append(r.siblings, dirs...) }
}

// WithExtraPaths adds user paths after the User tier templates.
func WithExtraPaths(dirs ...string) Option {
	return func(r *Resolver) { r.extra = append(r.extra, dirs...) }
}

// WithDisabled marks paths as disabled. They are still resolved and listed.
func WithDisabled(dirs ...string) Option {
	return func(r *Resolver) { r.disabled = append(r.disabled, dirs...) }
}

// WithMachineEnvVar overrides the machine-wide variable name.
func WithMachineEnvVar(name string) Option {
	return func(r *Resolver) { r.machineEnvVar = name }
}

// WithFs sets the file system used for existence checks.
func WithFs(fsys afero.Fs) Option {
	return func(r *Resolver) { r.fs = fsys }
}

// WithLogger sets the resolver logger.
func WithLogger(logger *slog.Logger) Option {
	return func(r *Resolver) { r.logger = logger }
}

// New creates a Resolver for id.
func New(id Identity, opts ...Option) *Resolver {
	r := &Resolver{
		id:         id,
		platform:   CurrentPlatform(),
		env:        paths.Env{},
		processEnv: os.LookupEnv,
		fs:         afero.NewOsFs(),
	}
	for _, opt := range opts {
		opt(r)
	}
	if r.defaults == nil {
		r.defaults = paths.DefaultVariables()
	}
	if r.machineEnvVar == "" {
		r.machineEnvVar = id.MachineEnvVar()
	}
	r.logger = logging.OrDiscard(r.logger)
	return r
}

// Platform returns the platform whose templates are used.
func (r *Resolver) Platform() Platform {
	return r.platform
}

// MachineEnvVar returns the machine-wide variable consulted.
func (r *Resolver) MachineEnvVar() string {
	return r.machineEnvVar
}

func (r *Resolver) lookup() paths.LookupFunc {
	return paths.Chain(r.env.Lookup, r.processEnv, r.defaults.Lookup)
}

// Resolve returns every location, Installation tier first, then Machine,
// then User. Within a tier the first occurrence of a path wins.
func (r *Resolver) Resolve() []Location {
	var out []Location
	for _, tier := range resource.AllTiers() {
		out = append(out, r.ResolveTier(tier)...)
	}
	return out
}

// ResolveTier returns the locations of one tier in precedence order.
func (r *Resolver) ResolveTier(tier resource.Tier) []Location {
	var locs []Location
	switch tier {
	case resource.TierInstallation:
		locs = r.installation()
	case resource.TierMachine:
		locs = r.machine()
	case resource.TierUser:
		locs = r.user()
	default:
		return nil
	}
	return r.finish(tier, locs)
}

func (r *Resolver) installation() []Location {
	folder := r.id.folder() + r.id.Suffix
	var out []Location
	for _, tmpl := range installationTemplates[r.platform] {
		if loc, ok := r.fromTemplate(tmpl, folder, SourceTemplate); ok {
			if r.id.Channel != "" {
				loc.DisplayName += " (" + r.id.Channel + ")"
			}
			out = append(out, loc)
		}
	}
	for _, dir := range r.siblings {
		if loc, ok := r.fromTemplate(dir, "", SourceSibling); ok {
			out = append(out, loc)
		}
	}
	return out
}

func (r *Resolver) machine() []Location {
	folder := r.id.folder()
	var out []Location
	for _, tmpl := range machineTemplates[r.platform] {
		if tmpl != dataDirsTemplate {
			if loc, ok := r.fromTemplate(tmpl, folder, SourceTemplate); ok {
				out = append(out, loc)
			}
			continue
		}
		expanded := r.expand(tmpl)
		for _, dir := range strings.Split(expanded, ":") {
			if dir == "" {
				continue
			}
			if loc, ok := r.fromExpanded(tmpl, strings.TrimSuffix(dir, "/")+"/", folder, SourceTemplate); ok {
				out = append(out, loc)
			}
		}
	}
	return append(out, r.machineEnvLocation())
}

// machineEnvLocation returns the entry for the machine-wide variable: its
// value verbatim when set, otherwise a disabled placeholder.
func (r *Resolver) machineEnvLocation() Location {
	tmpl := "${" + r.machineEnvVar + "}"
	value, ok := paths.Chain(r.env.Lookup, r.processEnv)(r.machineEnvVar)
	if ok && strings.TrimSpace(value) != "" {
		if loc, ok := r.fromExpanded(tmpl, value, "", SourceMachineEnv); ok {
			return loc
		}
	}
	return Location{
		DisplayName: notSetName,
		Source:      SourceMachineEnv,
		Template:    tmpl,
	}
}

func (r *Resolver) user() []Location {
	folder := r.id.folder()
	var out []Location
	for _, tmpl := range userTemplates[r.platform] {
		if loc, ok := r.fromTemplate(tmpl, folder, SourceTemplate); ok {
			out = append(out, loc)
		}
	}
	for _, dir := range r.extra {
		if loc, ok := r.fromTemplate(dir, "", SourceExtra); ok {
			out = append(out, loc)
		}
	}
	return out
}

func (r *Resolver) expand(tmpl string) string {
	expanded, missing := paths.ExpandWith(tmpl, r.lookup())
	if len(missing) > 0 {
		r.logger.Debug("undefined variables in location template", "template", tmpl, "missing", missing)
	}
	return expanded
}

func (r *Resolver) fromTemplate(tmpl, folder string, src Source) (Location, bool) {
	return r.fromExpanded(tmpl, r.expand(tmpl), folder, src)
}

// fromExpanded applies the folder-append rule and cleans the result.
func (r *Resolver) fromExpanded(tmpl, expanded, folder string, src Source) (Location, bool) {
	if folder != "" {
		expanded = paths.AppendFolder(expanded, folder)
	}
	p, err := paths.CleanPath(expanded)
	if err != nil {
		r.logger.Debug("skipping location template", "template", tmpl, "error", err)
		return Location{}, false
	}
	return Location{
		Path:        p,
		DisplayName: p,
		Enabled:     true,
		Source:      src,
		Template:    tmpl,
	}, true
}

// finish stamps the tier, applies the disabled list, drops duplicate paths
// and checks existence.
func (r *Resolver) finish(tier resource.Tier, locs []Location) []Location {
	disabled := make(map[string]bool, len(r.disabled))
	for _, d := range r.disabled {
		expanded, _ := paths.ExpandWith(d, r.lookup())
		if p, err := paths.CleanPath(expanded); err == nil {
			disabled[p] = true
		}
	}

	seen := make(map[string]bool, len(locs))
	out := make([]Location, 0, len(locs))
	for _, loc := range locs {
		loc.Tier = tier
		if loc.Path != "" {
			if seen[loc.Path] {
				continue
			}
			seen[loc.Path] = true
			if disabled[loc.Path] {
				loc.Enabled = false
			}
			loc.Exists, _ = afero.DirExists(r.fs, loc.Path)
		}
		r.logger.Debug("resolved location", "tier", tier, "path", loc.Path, "enabled", loc.Enabled, "exists", loc.Exists)
		out = append(out, loc)
	}
	return out
}

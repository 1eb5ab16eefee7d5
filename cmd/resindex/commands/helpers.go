package commands

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"strings"

	"github.com/fatih/color"
	"github.com/spf13/afero"

	"github.com/thoreinstein/resindex/internal/config"
	"github.com/thoreinstein/resindex/internal/errors"
	"github.com/thoreinstein/resindex/internal/inventory"
	"github.com/thoreinstein/resindex/internal/location"
	"github.com/thoreinstein/resindex/internal/logging"
	"github.com/thoreinstein/resindex/internal/paths"
	"github.com/thoreinstein/resindex/internal/resource"
	"github.com/thoreinstein/resindex/internal/store"
	"github.com/thoreinstein/resindex/pkg/docreader"
)

// Output formats accepted by --output.
const (
	outputTable = "table"
	outputJSON  = "json"
	outputYAML  = "yaml"
	outputTOML  = "toml"
)

// Terminal styles. fatih/color disables them when stdout is not a terminal
// or NO_COLOR is set.
var (
	headerStyle = color.New(color.FgCyan, color.Bold)
	boldStyle   = color.New(color.Bold)
	nameStyle   = color.New(color.FgGreen)
	dimStyle    = color.New(color.FgHiBlack)
	warnStyle   = color.New(color.FgYellow)
	errorStyle  = color.New(color.FgRed)
)

// currentConfig returns the loaded configuration or the defaults.
func currentConfig() *config.Config {
	if loadedConfig != nil {
		return loadedConfig
	}
	return config.Default()
}

// newResolver builds a resolver from the configuration and global flags.
func newResolver(logger *slog.Logger) *location.Resolver {
	cfg := currentConfig()
	opts := append(cfg.ResolverOptions(), location.WithLogger(logger))
	if platformFlag != "" {
		if p, err := location.ParsePlatform(platformFlag); err == nil {
			opts = append(opts, location.WithPlatform(p))
		}
	}
	return location.New(cfg.Identity(), opts...)
}

// explicitLocations parses --location tier=path values.
func explicitLocations(specs []string) ([]location.Location, error) {
	fsys := afero.NewOsFs()
	locs := make([]location.Location, 0, len(specs))
	for _, spec := range specs {
		tierName, dir, ok := strings.Cut(spec, "=")
		if !ok {
			return nil, errors.Newf("invalid location %q: expected tier=path", spec)
		}
		tier, err := resource.ParseTier(tierName)
		if err != nil {
			return nil, err
		}
		p, err := paths.CleanPath(paths.Expand(dir, nil))
		if err != nil {
			return nil, err
		}
		exists, _ := afero.DirExists(fsys, p)
		locs = append(locs, location.Location{
			Path:        p,
			DisplayName: p,
			Enabled:     true,
			Exists:      exists,
			Tier:        tier,
			Source:      location.SourceExtra,
			Template:    dir,
		})
	}
	return locs, nil
}

// resolveLocations returns the explicit locations when given, otherwise
// the resolved ones.
func resolveLocations(logger *slog.Logger) ([]location.Location, error) {
	if len(locationFlags) > 0 {
		return explicitLocations(locationFlags)
	}
	return newResolver(logger).Resolve(), nil
}

// loadInventory scans the locations into a fresh store.
func loadInventory(ctx context.Context) (*store.Store, *inventory.Summary, error) {
	logger := logging.FromContext(ctx)
	locs, err := resolveLocations(logger)
	if err != nil {
		return nil, nil, errors.NewUserError(err, "Use --location tier=path")
	}

	st := store.New(store.WithLogger(logger))
	svc := inventory.New(nil, st, inventory.WithLogger(logger))
	sum, err := svc.RefreshLocations(ctx, locs)
	if err != nil {
		return nil, nil, errors.NewSystemError(err, "")
	}
	return st, sum, nil
}

// reportScanErrors prints scan failures as warnings.
func reportScanErrors(w io.Writer, sum *inventory.Summary) {
	for _, e := range sum.Errors {
		fmt.Fprintln(w, warnStyle.Sprintf("warning: %v", e))
	}
}

// writeStructured encodes v to w in a non-table output format.
func writeStructured(w io.Writer, format string, v any) error {
	var (
		data []byte
		err  error
	)
	switch format {
	case outputJSON:
		data, err = docreader.MarshalJSON(v)
	case outputYAML:
		data, err = docreader.MarshalYAML(v)
	case outputTOML:
		data, err = docreader.MarshalTOML(v)
	default:
		return errors.NewUserError(errors.Newf("unknown output format %q", format), "Valid formats: table, json, yaml, toml")
	}
	if err != nil {
		return err
	}
	_, err = w.Write(data)
	return err
}

// validOutput checks an --output value.
func validOutput(format string) error {
	switch format {
	case outputTable, outputJSON, outputYAML, outputTOML:
		return nil
	default:
		return errors.NewUserError(errors.Newf("unknown output format %q", format), "Valid formats: table, json, yaml, toml")
	}
}

// truncate shortens a string to maxLen runes, adding "..." if truncated.
func truncate(s string, maxLen int) string {
	runes := []rune(s)
	if len(runes) <= maxLen {
		return s
	}
	if maxLen <= 3 {
		return string(runes[:maxLen])
	}
	return string(runes[:maxLen-3]) + "..."
}

package inventory

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/thoreinstein/resindex/internal/errors"
	"github.com/thoreinstein/resindex/internal/location"
	"github.com/thoreinstein/resindex/internal/logging"
	"github.com/thoreinstein/resindex/internal/paths"
	"github.com/thoreinstein/resindex/internal/resource"
	"github.com/thoreinstein/resindex/internal/store"
	"github.com/thoreinstein/resindex/internal/tree"
)

func touch(t *testing.T, root string, files ...string) {
	t.Helper()
	for _, f := range files {
		full := filepath.Join(root, filepath.FromSlash(f))
		require.NoError(t, os.MkdirAll(filepath.Dir(full), 0o755))
		require.NoError(t, os.WriteFile(full, []byte("{}"), 0o644))
	}
}

// newFixture lays out an installation and a personal location and returns
// a resolver that finds exactly those two.
func newFixture(t *testing.T) (root string, r *location.Resolver) {
	t.Helper()
	root = t.TempDir()
	touch(t, root,
		"inst/OpenSCAD/templates/a.json",
		"inst/OpenSCAD/templates/b.json",
		"pers/Jeff/Documents/OpenSCAD/templates/c.json",
	)

	r = location.New(location.Identity{Application: "OpenSCAD"},
		location.WithPlatform(location.PlatformLinux),
		location.WithProcessEnv(func(string) (string, bool) { return "", false }),
		location.WithDefaults(paths.Env{
			"EXEDIR":          filepath.Join(root, "inst", "OpenSCAD"),
			"XDG_DATA_DIRS":   filepath.Join(root, "none"),
			"XDG_DATA_HOME":   filepath.Join(root, "pers", "Jeff", "Documents"),
			"XDG_CONFIG_HOME": filepath.Join(root, "config"),
		}),
	)
	return root, r
}

func TestService_EndToEnd(t *testing.T) {
	root, r := newFixture(t)
	st := store.New()
	ix := tree.New(st)
	defer ix.Close()

	svc := New(r, st, WithLogger(logging.ForTest(t)))
	sum, err := svc.Refresh(context.Background())
	require.NoError(t, err)

	assert.Equal(t, 3, sum.Total)
	assert.Empty(t, sum.Errors)
	assert.Equal(t, 2, sum.ByTier[resource.TierInstallation])
	assert.Equal(t, 1, sum.ByTier[resource.TierUser])
	assert.Equal(t, 3, sum.ByType[resource.TypeTemplates])
	assert.Equal(t, 3, st.CountByType(resource.TypeTemplates))

	tiers := ix.Children(ix.Root())
	require.Len(t, tiers, 2)

	inst := ix.Children(tiers[0])
	require.Len(t, inst, 1)
	assert.Equal(t, filepath.Join(root, "inst", "OpenSCAD"), ix.Data(inst[0], tree.ColumnPath))
	assert.Equal(t, 2, ix.RowCount(inst[0]))

	user := ix.Children(tiers[1])
	require.Len(t, user, 1)
	assert.Equal(t, filepath.Join(root, "pers", "Jeff", "Documents", "OpenSCAD"), ix.Data(user[0], tree.ColumnPath))
	assert.Equal(t, 1, ix.RowCount(user[0]))
	assert.Equal(t, 3, ix.LeafCount())

	var skipped int
	for _, lr := range sum.Locations {
		if lr.Skipped {
			skipped++
		}
	}
	assert.Equal(t, len(sum.Locations)-2, skipped)
}

func TestService_RefreshReplacesContents(t *testing.T) {
	root, r := newFixture(t)
	st := store.New()
	svc := New(r, st)

	_, err := svc.Refresh(context.Background())
	require.NoError(t, err)

	require.NoError(t, os.Remove(filepath.Join(root, "inst", "OpenSCAD", "templates", "a.json")))
	sum, err := svc.Refresh(context.Background())
	require.NoError(t, err)

	assert.Equal(t, 2, sum.Total)
	_, ok := st.FindByPath(filepath.Join(root, "inst", "OpenSCAD", "templates", "a.json"))
	assert.False(t, ok)
}

func TestService_ScanErrorsAreCollected(t *testing.T) {
	root := t.TempDir()
	touch(t, root, "good/templates/t.json")
	st := store.New()
	svc := New(nil, st, WithConcurrency(1))

	// Exists is stale: the directory vanished after resolution.
	locs := []location.Location{
		{Path: filepath.Join(root, "gone"), Tier: resource.TierMachine, Enabled: true, Exists: true},
		{Path: filepath.Join(root, "good"), Tier: resource.TierUser, Enabled: true, Exists: true},
	}
	sum, err := svc.RefreshLocations(context.Background(), locs)
	require.NoError(t, err)

	require.Len(t, sum.Errors, 1)
	assert.True(t, errors.Is(sum.Errors[0], resource.ErrLocationNotFound))
	assert.Equal(t, 1, sum.Total)
	assert.Error(t, sum.Locations[0].Err)
	assert.NoError(t, sum.Locations[1].Err)
}

func TestService_ResolutionOrderIsInsertionOrder(t *testing.T) {
	root := t.TempDir()
	touch(t, root, "one/fonts/z.ttf", "two/fonts/a.ttf", "three/fonts/m.ttf")
	st := store.New()
	svc := New(nil, st)

	var locs []location.Location
	for _, name := range []string{"one", "two", "three"} {
		locs = append(locs, location.Location{Path: filepath.Join(root, name), Tier: resource.TierUser, Enabled: true, Exists: true})
	}
	_, err := svc.RefreshLocations(context.Background(), locs)
	require.NoError(t, err)

	got := st.ResourcesOfType(resource.TypeFonts)
	require.Len(t, got, 3)
	assert.Equal(t, []string{"z", "a", "m"}, []string{got[0].Name, got[1].Name, got[2].Name})
}

func TestService_CanceledContext(t *testing.T) {
	root := t.TempDir()
	touch(t, root, "loc/templates/t.json")
	st := store.New()
	st.AddResource(resource.DiscoveredResource{Path: "/keep/templates/k.json", Type: resource.TypeTemplates})

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := New(nil, st).RefreshLocations(ctx, []location.Location{
		{Path: filepath.Join(root, "loc"), Tier: resource.TierUser, Enabled: true, Exists: true},
	})
	assert.ErrorIs(t, err, context.Canceled)
	assert.Equal(t, 1, st.TotalCount(), "store untouched")
}

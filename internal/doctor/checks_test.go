package doctor

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/spf13/afero"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/thoreinstein/resindex/internal/location"
	"github.com/thoreinstein/resindex/internal/resource"
)

func TestLocationCheck_Run(t *testing.T) {
	dir := t.TempDir()

	tests := []struct {
		name    string
		loc     location.Location
		want    Severity
		message string
	}{
		{
			name:    "readable",
			loc:     location.Location{Path: dir, DisplayName: "user", Enabled: true, Exists: true},
			want:    SeverityPass,
			message: "readable",
		},
		{
			name:    "unset variable",
			loc:     location.Location{DisplayName: "(not set)", Template: "${OPENSCAD_RESOURCE_PATH}", Source: location.SourceMachineEnv},
			want:    SeverityInfo,
			message: "variable not set",
		},
		{
			name:    "disabled",
			loc:     location.Location{Path: dir, DisplayName: "user", Exists: true},
			want:    SeverityInfo,
			message: "disabled",
		},
		{
			name:    "missing",
			loc:     location.Location{Path: filepath.Join(dir, "nope"), DisplayName: "user", Enabled: true},
			want:    SeverityInfo,
			message: "not found",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := NewLocationCheck(tt.loc).Run()
			assert.Equal(t, tt.want, got.Status)
			assert.Equal(t, tt.message, got.Message)
			assert.Equal(t, "location", got.Category)
			assert.Equal(t, "location:"+tt.loc.DisplayName, got.Name)
		})
	}
}

func TestLocationCheck_Unreadable(t *testing.T) {
	fsys := afero.NewMemMapFs()
	require.NoError(t, afero.WriteFile(fsys, "/res/file", []byte("x"), 0o644))

	// A plain file cannot be listed as a directory.
	c := &LocationCheck{
		loc: location.Location{Path: "/res/file", DisplayName: "user", Enabled: true, Exists: true},
		fs:  fsys,
	}
	got := c.Run()
	assert.Equal(t, SeverityError, got.Status)
	assert.Equal(t, "chmod u+rx /res/file", got.FixHint)
}

func TestDocumentCheck_Run(t *testing.T) {
	dir := t.TempDir()
	write := func(name, content string) resource.DiscoveredResource {
		p := filepath.Join(dir, name)
		require.NoError(t, os.WriteFile(p, []byte(content), 0o644))
		return resource.DiscoveredResource{Path: p, Name: name, Type: resource.TypeEditorColors}
	}

	t.Run("valid with comments", func(t *testing.T) {
		got := NewDocumentCheck(write("ok.json", "{\n  // dark\n  \"name\": \"Nature\"\n}\n")).Run()
		assert.Equal(t, SeverityPass, got.Status)
	})

	t.Run("syntax error", func(t *testing.T) {
		got := NewDocumentCheck(write("bad.json", "{\n  \"name\" \"Nature\"\n}\n")).Run()
		assert.Equal(t, SeverityError, got.Status)
		assert.Equal(t, 2, got.Details["line"])
		assert.Contains(t, got.Message, "line 2")
	})

	t.Run("missing file", func(t *testing.T) {
		got := NewDocumentCheck(resource.DiscoveredResource{Path: filepath.Join(dir, "gone.json")}).Run()
		assert.Equal(t, SeverityError, got.Status)
	})
}

func TestDocumentChecks_FiltersJSON(t *testing.T) {
	rs := []resource.DiscoveredResource{
		{Path: "/a/x.json"},
		{Path: "/a/y.scad"},
		{Path: "/a/Z.JSON"},
	}
	checks := DocumentChecks(rs)
	require.Len(t, checks, 2)
	assert.Equal(t, "document:/a/x.json", checks[0].Name())
	assert.Equal(t, "document:/a/Z.JSON", checks[1].Name())
}

func TestLocationChecks(t *testing.T) {
	checks := LocationChecks([]location.Location{{DisplayName: "a"}, {DisplayName: "b"}})
	require.Len(t, checks, 2)
	assert.Equal(t, "location:b", checks[1].Name())
}

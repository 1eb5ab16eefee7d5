package resource

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/thoreinstein/resindex/internal/errors"
)

func TestTypeTable_ConcreteTypesHaveExtensions(t *testing.T) {
	table := DefaultTypes()
	for _, typ := range AllTypes() {
		info := table.Info(typ)
		if info.Container {
			continue
		}
		assert.NotEmptyf(t, info.Extensions, "%s has no primary extensions", typ)
		assert.NotEmptyf(t, info.Subfolder, "%s has no sub-folder", typ)
	}
}

func TestTypeTable_InfoIsACopy(t *testing.T) {
	info := DefaultTypes().Info(TypeTemplates)
	info.Extensions[0] = ".bogus"

	assert.True(t, DefaultTypes().Matches(TypeTemplates, "a.json"))
	assert.False(t, DefaultTypes().Matches(TypeTemplates, "a.bogus"))
}

func TestTypeTable_Matches(t *testing.T) {
	table := DefaultTypes()
	assert.True(t, table.Matches(TypeFonts, "Liberation.TTF"))
	assert.False(t, table.Matches(TypeFonts, "readme.txt"))
	assert.False(t, table.Matches(TypeTemplates, "noext"))
	assert.True(t, table.IsAttachment(TypeExamples, "logo.png"))
	assert.False(t, table.IsAttachment(TypeTemplates, "logo.png"))
}

func TestTypeTable_Relations(t *testing.T) {
	table := DefaultTypes()
	assert.True(t, table.CanContain(TypeLibraries, TypeExamples))
	assert.True(t, table.CanContain(TypeColorSchemes, TypeEditorColors))
	assert.False(t, table.CanContain(TypeTemplates, TypeExamples))
	assert.True(t, table.IsContainer(TypeColorSchemes))
	assert.True(t, table.IsContainer(TypeGroup))
	assert.True(t, table.IsRecursive(TypeTemplates))
	assert.False(t, table.IsRecursive(TypeFonts))
	assert.NotContains(t, AllTopLevelTypes(), TypeColorSchemes)
}

func TestParseType(t *testing.T) {
	tests := []struct {
		in      string
		want    Type
		wantErr bool
	}{
		{"templates", TypeTemplates, false},
		{"Editor-Colors", TypeEditorColors, false},
		{"color-schemes/render", TypeRenderColors, false},
		{"locale", TypeTranslations, false},
		{" fonts ", TypeFonts, false},
		{"widgets", TypeUnknown, true},
	}
	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			got, err := ParseType(tt.in)
			if tt.wantErr {
				require.Error(t, err)
				assert.True(t, errors.Is(err, errors.ErrUnknownType))
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestTier(t *testing.T) {
	assert.Less(t, TierInstallation, TierMachine)
	assert.Less(t, TierMachine, TierUser)

	got, err := ParseTier("USER")
	require.NoError(t, err)
	assert.Equal(t, TierUser, got)

	_, err = ParseTier("global")
	assert.True(t, errors.Is(err, errors.ErrUnknownTier))
	assert.Equal(t, "Machine", TierMachine.Title())
}

func TestDiscoveredResource_JSON(t *testing.T) {
	r := DiscoveredResource{Path: "/x/templates/a.json", Name: "a", Type: TypeTemplates, Tier: TierUser}
	data, err := json.Marshal(r)
	require.NoError(t, err)

	var raw map[string]any
	require.NoError(t, json.Unmarshal(data, &raw))
	assert.Equal(t, "templates", raw["type"])
	assert.Equal(t, "user", raw["tier"])

	var back DiscoveredResource
	require.NoError(t, json.Unmarshal(data, &back))
	assert.Equal(t, r.Type, back.Type)
	assert.Equal(t, r.Tier, back.Tier)
}

func TestDiscoveredResource_LibraryName(t *testing.T) {
	tests := []struct {
		path   string
		key    string
		want   string
		wantOK bool
	}{
		{"/u/OpenSCAD/libraries/BOSL2/std.scad", "", "BOSL2", true},
		{"/u/OpenSCAD/libraries/BOSL2/examples/demo.scad", "", "BOSL2", true},
		{"/u/OpenSCAD/libraries/single.scad", "", "", false},
		{"/u/OpenSCAD/templates/a.json", "", "", false},
		{`C:\OpenSCAD\libraries\MCAD\gears.scad`, "", "MCAD", true},
		{"/u/OpenSCAD/libraries/BOSL2/std.scad", "/u/OpenSCAD", "BOSL2", true},
		{`C:\OpenSCAD\libraries\MCAD\gears.scad`, `C:\OpenSCAD`, "MCAD", true},
		// Only the part below the scan root counts.
		{"/srv/libraries/shared/OpenSCAD/templates/a.json", "/srv/libraries/shared/OpenSCAD", "", false},
		{"/srv/libraries/shared/OpenSCAD/libraries/x/a.scad", "/srv/libraries/shared/OpenSCAD", "x", true},
		{"/u/OpenSCAD/templates/libraries/foo/b.json", "/u/OpenSCAD", "", false},
		{"/u/OpenSCAD/libraries/single.scad", "/u/OpenSCAD", "", false},
		// Outside the scan root the whole path is searched.
		{"/elsewhere/libraries/lib/a.scad", "/u/OpenSCAD", "lib", true},
	}
	for _, tt := range tests {
		got, ok := DiscoveredResource{Path: tt.path, LocationKey: tt.key}.LibraryName()
		if got != tt.want || ok != tt.wantOK {
			t.Errorf("LibraryName(%q, key %q) = %q, %v; want %q, %v", tt.path, tt.key, got, ok, tt.want, tt.wantOK)
		}
	}
}

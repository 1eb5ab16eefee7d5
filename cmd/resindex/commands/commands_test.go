package commands

import (
	"bytes"
	"context"
	"encoding/json"
	"path/filepath"
	"strings"
	"testing"

	"github.com/ktr0731/go-fuzzyfinder"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/thoreinstein/resindex/internal/errors"
	"github.com/thoreinstein/resindex/internal/resource"
)

func TestRunLocations(t *testing.T) {
	root := t.TempDir()
	missing := filepath.Join(root, "missing")
	setFlag(t, &locationFlags, []string{"user=" + root, "installation=" + missing})
	setFlag(t, &locationsOutput, outputTable)

	var out bytes.Buffer
	require.NoError(t, runLocationsWithWriter(testContext(t), &out))

	lines := strings.Split(strings.TrimSpace(out.String()), "\n")
	require.Len(t, lines, 3)
	assert.Contains(t, lines[0], "TIER")
	assert.Contains(t, lines[1], "User")
	assert.Contains(t, lines[1], "ok")
	assert.Contains(t, lines[2], "Installation")
	assert.Contains(t, lines[2], "missing")
}

func TestRunLocations_ResolvedFromPlatform(t *testing.T) {
	setFlag(t, &locationFlags, nil)
	setFlag(t, &platformFlag, "linux")
	setFlag(t, &locationsOutput, outputJSON)

	var out bytes.Buffer
	require.NoError(t, runLocationsWithWriter(testContext(t), &out))

	var report struct {
		Locations []struct {
			Tier   string `json:"tier"`
			Source string `json:"source"`
		} `json:"locations"`
	}
	require.NoError(t, json.Unmarshal(out.Bytes(), &report))
	require.NotEmpty(t, report.Locations)
	assert.Equal(t, "installation", report.Locations[0].Tier)
}

func TestRunTree(t *testing.T) {
	createTestResources(t)
	setFlag(t, &treeDepth, 0)
	setFlag(t, &treePaths, false)

	var out bytes.Buffer
	require.NoError(t, runTreeWithWriter(testContext(t), &out, &bytes.Buffer{}))

	got := out.String()
	assert.True(t, strings.HasPrefix(got, "User\n"), "output:\n%s", got)
	assert.Contains(t, got, "  BOSL2 (1)\n")
	assert.Contains(t, got, "    std [BOSL2]\n")
	assert.Contains(t, got, "4 resources")
}

func TestRunTree_Depth(t *testing.T) {
	createTestResources(t)
	setFlag(t, &treeDepth, 1)

	var out bytes.Buffer
	require.NoError(t, runTreeWithWriter(testContext(t), &out, &bytes.Buffer{}))

	got := out.String()
	assert.Contains(t, got, "User\n")
	assert.NotContains(t, got, "BOSL2")
}

func TestRunTree_Empty(t *testing.T) {
	setFlag(t, &locationFlags, []string{"user=" + t.TempDir()})

	var out bytes.Buffer
	require.NoError(t, runTreeWithWriter(testContext(t), &out, &bytes.Buffer{}))
	assert.Equal(t, "No resources found.\n", out.String())
}

func TestRunFind(t *testing.T) {
	root := createTestResources(t)
	setFlag(t, &findOutput, outputTable)

	var out bytes.Buffer
	target := filepath.Join(root, "libraries", "BOSL2", "std.scad")
	require.NoError(t, runFindWithWriter(testContext(t), &out, target))

	got := out.String()
	assert.Contains(t, got, "std")
	assert.Contains(t, got, "libraries")
	assert.Contains(t, got, "Library:  BOSL2")
}

func TestRunFind_NotFound(t *testing.T) {
	root := createTestResources(t)
	setFlag(t, &findOutput, outputTable)

	err := runFindWithWriter(testContext(t), &bytes.Buffer{}, filepath.Join(root, "templates", "notes.txt"))
	require.Error(t, err)
	assert.True(t, errors.Is(err, errors.ErrNotFound))

	var exitErr *errors.ExitError
	require.ErrorAs(t, err, &exitErr)
	assert.Equal(t, errors.ExitUser, exitErr.Code)
}

func TestRunPick(t *testing.T) {
	root := createTestResources(t)
	setFlag(t, &pickType, "templates")

	var offered []resource.DiscoveredResource
	setFlag(t, &finder, func(rs []resource.DiscoveredResource) (int, error) {
		offered = rs
		return 0, nil
	})

	var out bytes.Buffer
	require.NoError(t, runPickWithWriter(testContext(t), &out, &bytes.Buffer{}))

	require.Len(t, offered, 1)
	assert.Equal(t, filepath.Join(root, "templates", "box.json")+"\n", out.String())
}

func TestRunPick_Abort(t *testing.T) {
	createTestResources(t)
	setFlag(t, &pickType, "")
	setFlag(t, &finder, func([]resource.DiscoveredResource) (int, error) {
		return -1, fuzzyfinder.ErrAbort
	})

	var out bytes.Buffer
	require.NoError(t, runPickWithWriter(testContext(t), &out, &bytes.Buffer{}))
	assert.Empty(t, out.String())
}

func TestPickPreview(t *testing.T) {
	got := pickPreview(resource.DiscoveredResource{
		Name:        "logo",
		Path:        "/res/examples/Basics/logo.scad",
		Category:    "Basics",
		Type:        resource.TypeExamples,
		Tier:        resource.TierInstallation,
		LocationKey: "/res",
	})
	assert.Contains(t, got, "Category: Basics")
	assert.Contains(t, got, "Tier:     Installation")
	assert.True(t, strings.HasSuffix(got, "/res/examples/Basics/logo.scad"))
}

func TestRunCheck(t *testing.T) {
	createTestResources(t)
	setFlag(t, &checkOutput, outputTable)
	setFlag(t, &checkVerbose, false)

	var out bytes.Buffer
	err := runCheckWithWriter(testContext(t), &out)

	var exitErr *errors.ExitError
	require.ErrorAs(t, err, &exitErr)
	assert.Equal(t, errors.ExitUser, exitErr.Code)

	got := out.String()
	assert.Contains(t, got, "bad.json: line 2, column")
	assert.NotContains(t, got, "box.json")
	assert.Contains(t, got, "Summary: 2 passed, 0 info, 0 warnings, 1 errors")
}

func TestRunCheck_AllValid(t *testing.T) {
	root := t.TempDir()
	writeFiles(t, root, map[string]string{
		"templates/box.json": "{\n  // comment\n  \"title\": \"Box\",\n}\n",
	})
	setFlag(t, &locationFlags, []string{"user=" + root})
	setFlag(t, &checkOutput, outputTable)
	setFlag(t, &checkVerbose, true)

	var out bytes.Buffer
	require.NoError(t, runCheckWithWriter(testContext(t), &out))

	got := out.String()
	assert.Contains(t, got, "✓ [document]")
	assert.Contains(t, got, "Summary: 2 passed")
}

func TestRunTypes(t *testing.T) {
	setFlag(t, &typesOutput, outputTable)

	var out bytes.Buffer
	require.NoError(t, runTypesWithWriter(&out))

	lines := strings.Split(strings.TrimSpace(out.String()), "\n")
	require.Len(t, lines, len(resource.AllTopLevelTypes())+1)
	assert.Contains(t, lines[0], "SUBFOLDER")
	assert.Contains(t, out.String(), "color-schemes/editor")
	assert.Contains(t, out.String(), "*.ttf *.otf")
}

func TestRunTypes_YAML(t *testing.T) {
	setFlag(t, &typesOutput, outputYAML)

	var out bytes.Buffer
	require.NoError(t, runTypesWithWriter(&out))
	assert.True(t, strings.HasPrefix(out.String(), "types:\n  - type: examples\n"), "output:\n%s", out.String())
}

func TestRunVersion(t *testing.T) {
	var out bytes.Buffer
	runVersionWithWriter(&out)

	for _, want := range []string{"resindex version", "commit:", "built:", "go:", "platform:"} {
		assert.Contains(t, out.String(), want)
	}
}

func TestRunPick_Edit(t *testing.T) {
	root := createTestResources(t)
	setFlag(t, &pickType, "fonts")
	setFlag(t, &pickEdit, true)
	setFlag(t, &finder, func([]resource.DiscoveredResource) (int, error) { return 0, nil })

	var opened string
	setFlag(t, &openEditor, func(_ context.Context, path string) error {
		opened = path
		return nil
	})

	var out bytes.Buffer
	require.NoError(t, runPickWithWriter(testContext(t), &out, &bytes.Buffer{}))
	assert.Empty(t, out.String())
	assert.Equal(t, filepath.Join(root, "fonts", "Liberation.ttf"), opened)
}

func TestRunCheck_FailOn(t *testing.T) {
	setFlag(t, &locationFlags, []string{"user=" + filepath.Join(t.TempDir(), "missing")})
	setFlag(t, &checkOutput, outputTable)
	setFlag(t, &checkVerbose, false)

	setFlag(t, &checkFailOn, "error")
	var out bytes.Buffer
	require.NoError(t, runCheckWithWriter(testContext(t), &out))
	assert.Equal(t, "Summary: 0 passed, 1 info, 0 warnings, 0 errors\n", out.String())

	setFlag(t, &checkFailOn, "info")
	err := runCheckWithWriter(testContext(t), &bytes.Buffer{})
	var exitErr *errors.ExitError
	require.ErrorAs(t, err, &exitErr)

	setFlag(t, &checkFailOn, "fatal")
	require.Error(t, runCheckWithWriter(testContext(t), &bytes.Buffer{}))
}

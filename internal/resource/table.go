package resource

import (
	"slices"
	"strings"
)

// TypeInfo describes one resource type.
type TypeInfo struct {
	Type Type

	// Subfolder is the folder, relative to a location root, holding
	// resources of this type. It may span two segments
	// ("color-schemes/editor").
	Subfolder string

	// Description is a short human label.
	Description string

	// Recursive types are scanned below their sub-folder; flat types only
	// consider files directly inside it.
	Recursive bool

	// Container types never hold files themselves.
	Container bool

	// Extensions are the primary file extensions (lower case, with dot).
	Extensions []string

	// Attachments are auxiliary extensions that accompany a primary file
	// with the same stem, such as a preview image next to an example.
	Attachments []string

	// SubTypes are the types that may be nested inside this one.
	SubTypes []Type
}

// TypeTable is an immutable lookup table of TypeInfo.
type TypeTable struct {
	infos       map[Type]TypeInfo
	bySubfolder map[string]Type
	topLevel    []Type
}

// NewTypeTable builds a table from infos. topLevel lists the types a full
// location scan visits, in order.
func NewTypeTable(infos []TypeInfo, topLevel []Type) *TypeTable {
	t := &TypeTable{
		infos:       make(map[Type]TypeInfo, len(infos)),
		bySubfolder: make(map[string]Type, len(infos)),
		topLevel:    slices.Clone(topLevel),
	}
	for _, info := range infos {
		info.Extensions = normalizeExts(info.Extensions)
		info.Attachments = normalizeExts(info.Attachments)
		info.SubTypes = slices.Clone(info.SubTypes)
		t.infos[info.Type] = info
		if info.Subfolder != "" {
			t.bySubfolder[info.Subfolder] = info.Type
		}
	}
	return t
}

func normalizeExts(exts []string) []string {
	out := make([]string, 0, len(exts))
	for _, e := range exts {
		e = strings.ToLower(strings.TrimSpace(e))
		if e == "" {
			continue
		}
		if !strings.HasPrefix(e, ".") {
			e = "." + e
		}
		out = append(out, e)
	}
	return out
}

var sceneAttachments = []string{".json", ".png", ".dat", ".stl", ".dxf", ".svg"}

// defaultTypes is built once at package initialization and never modified.
var defaultTypes = NewTypeTable([]TypeInfo{
	{Type: TypeUnknown, Description: "Unknown", Container: true},
	{Type: TypeGroup, Description: "Group", Container: true},
	{
		Type:        TypeExamples,
		Subfolder:   "examples",
		Description: "Examples",
		Recursive:   true,
		Extensions:  []string{".scad"},
		Attachments: sceneAttachments,
	},
	{
		Type:        TypeTests,
		Subfolder:   "tests",
		Description: "Tests",
		Recursive:   true,
		Extensions:  []string{".scad"},
		Attachments: sceneAttachments,
	},
	{
		Type:        TypeFonts,
		Subfolder:   "fonts",
		Description: "Fonts",
		Extensions:  []string{".ttf", ".otf"},
	},
	{
		Type:        TypeColorSchemes,
		Subfolder:   "color-schemes",
		Description: "Color schemes",
		Container:   true,
		SubTypes:    []Type{TypeEditorColors, TypeRenderColors},
	},
	{
		Type:        TypeEditorColors,
		Subfolder:   "color-schemes/editor",
		Description: "Editor color schemes",
		Extensions:  []string{".json"},
	},
	{
		Type:        TypeRenderColors,
		Subfolder:   "color-schemes/render",
		Description: "Render color schemes",
		Extensions:  []string{".json"},
	},
	{
		Type:        TypeShaders,
		Subfolder:   "shaders",
		Description: "Shaders",
		Extensions:  []string{".frag", ".vert"},
	},
	{
		Type:        TypeTemplates,
		Subfolder:   "templates",
		Description: "Templates",
		Recursive:   true,
		Extensions:  []string{".json"},
	},
	{
		Type:        TypeLibraries,
		Subfolder:   "libraries",
		Description: "Libraries",
		Recursive:   true,
		Extensions:  []string{".scad"},
		SubTypes: []Type{
			TypeExamples, TypeTests, TypeFonts, TypeEditorColors, TypeRenderColors,
			TypeShaders, TypeTemplates, TypeTranslations,
		},
	},
	{
		Type:        TypeTranslations,
		Subfolder:   "locale",
		Description: "Translations",
		Recursive:   true,
		Extensions:  []string{".mo", ".po"},
	},
	{Type: TypeNewResources, Description: "New resources", Container: true},
}, []Type{
	TypeExamples, TypeTests, TypeFonts, TypeEditorColors, TypeRenderColors,
	TypeShaders, TypeTemplates, TypeLibraries, TypeTranslations,
})

// DefaultTypes returns the shared built-in type table.
func DefaultTypes() *TypeTable {
	return defaultTypes
}

// AllTopLevelTypes returns the types scanned for a whole location, in order.
func AllTopLevelTypes() []Type {
	return defaultTypes.TopLevel()
}

// Info returns the description of t. Unknown types report as TypeUnknown.
func (tt *TypeTable) Info(t Type) TypeInfo {
	info, ok := tt.infos[t]
	if !ok {
		info = tt.infos[TypeUnknown]
	}
	info.Extensions = slices.Clone(info.Extensions)
	info.Attachments = slices.Clone(info.Attachments)
	info.SubTypes = slices.Clone(info.SubTypes)
	return info
}

// TopLevel returns the scannable top-level types in order.
func (tt *TypeTable) TopLevel() []Type {
	return slices.Clone(tt.topLevel)
}

// Subfolder returns the folder for t relative to a location root, or "".
func (tt *TypeTable) Subfolder(t Type) string {
	return tt.infos[t].Subfolder
}

// BySubfolder returns the type stored in the given sub-folder, or TypeUnknown.
func (tt *TypeTable) BySubfolder(sub string) Type {
	sub = strings.Trim(strings.ReplaceAll(sub, `\`, "/"), "/")
	if t, ok := tt.bySubfolder[sub]; ok {
		return t
	}
	return TypeUnknown
}

// IsContainer reports whether t never holds files directly.
func (tt *TypeTable) IsContainer(t Type) bool {
	info, ok := tt.infos[t]
	return !ok || info.Container
}

// IsRecursive reports whether t is scanned below its sub-folder.
func (tt *TypeTable) IsRecursive(t Type) bool {
	return tt.infos[t].Recursive
}

// CanContain reports whether child may be nested inside parent.
func (tt *TypeTable) CanContain(parent, child Type) bool {
	return slices.Contains(tt.infos[parent].SubTypes, child)
}

// Matches reports whether name carries one of t's primary extensions.
// Matching ignores case.
func (tt *TypeTable) Matches(t Type, name string) bool {
	return slices.Contains(tt.infos[t].Extensions, extOf(name))
}

// IsAttachment reports whether name carries one of t's attachment extensions.
func (tt *TypeTable) IsAttachment(t Type, name string) bool {
	return slices.Contains(tt.infos[t].Attachments, extOf(name))
}

// Filters returns glob patterns ("*.json") for t's primary extensions.
func (tt *TypeTable) Filters(t Type) []string {
	exts := tt.infos[t].Extensions
	out := make([]string, len(exts))
	for i, e := range exts {
		out[i] = "*" + e
	}
	return out
}

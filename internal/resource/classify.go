package resource

import (
	"path/filepath"
	"strings"
)

// Classifier maps paths to resource types using a TypeTable. It holds no
// mutable state and is safe for concurrent use.
type Classifier struct {
	types *TypeTable
}

// NewClassifier returns a Classifier over types, or over DefaultTypes when
// types is nil.
func NewClassifier(types *TypeTable) *Classifier {
	if types == nil {
		types = DefaultTypes()
	}
	return &Classifier{types: types}
}

var defaultClassifier = NewClassifier(nil)

// Classify returns the type of the file at p using the default table.
func Classify(p string) Type { return defaultClassifier.Classify(p) }

// ClassifyRelative classifies p using only the part below root.
func ClassifyRelative(root, p string) Type { return defaultClassifier.ClassifyRelative(root, p) }

// ClassifyFolder returns the type whose sub-folder is name.
func ClassifyFolder(name string) Type { return defaultClassifier.ClassifyFolder(name) }

// SubfolderOf returns the sub-folder of t in the default table.
func SubfolderOf(t Type) string { return defaultTypes.Subfolder(t) }

// FiltersOf returns the file name globs of t in the default table.
func FiltersOf(t Type) []string { return defaultTypes.Filters(t) }

// Classify returns the type of the file at p, judged by its directory
// segments. The innermost segment naming a known sub-folder wins;
// two-segment sub-folders such as "color-schemes/editor" are matched before
// their single-segment parent. Paths with no known segment are TypeUnknown.
// Files directly below "color-schemes" classify as the TypeColorSchemes
// container.
func (c *Classifier) Classify(p string) Type {
	segs := splitSegments(p)
	if len(segs) < 2 {
		return TypeUnknown
	}
	return c.classifyDirs(segs[:len(segs)-1])
}

// ClassifyRelative is Classify restricted to the segments of p below root.
// When p is not below root the whole path is used.
func (c *Classifier) ClassifyRelative(root, p string) Type {
	rel, err := filepath.Rel(filepath.FromSlash(root), filepath.FromSlash(p))
	if err != nil || rel == ".." || strings.HasPrefix(filepath.ToSlash(rel), "../") {
		return c.Classify(p)
	}
	return c.Classify(rel)
}

// ClassifyFolder returns the type whose sub-folder equals name
// ("templates", "color-schemes/render"), or TypeUnknown.
func (c *Classifier) ClassifyFolder(name string) Type {
	return c.types.BySubfolder(name)
}

func (c *Classifier) classifyDirs(dirs []string) Type {
	for i := len(dirs) - 1; i >= 0; i-- {
		if i > 0 {
			if t, ok := c.types.bySubfolder[dirs[i-1]+"/"+dirs[i]]; ok {
				return t
			}
		}
		if t, ok := c.types.bySubfolder[dirs[i]]; ok {
			return t
		}
	}
	return TypeUnknown
}

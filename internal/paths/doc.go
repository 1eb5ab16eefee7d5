// Package paths expands resource location templates into concrete,
// absolute directories.
//
// # Templates
//
// A template is a path that may contain environment placeholders in either
// of two syntaxes, freely mixed:
//
//	${XDG_DATA_HOME}/
//	%APPDATA%/
//
// [Expand] substitutes placeholders from a caller-supplied [Env] first and
// the process environment second. Undefined variables expand to the empty
// string. After substitution every backslash becomes a forward slash, and a
// trailing separator is kept so that [AppendFolder] can decide whether the
// template names a parent directory ("append the application folder") or a
// complete path ("use verbatim"). [CleanPath] is applied last.
//
//	p := paths.Expand("${XDG_DATA_HOME}/", env) // "/home/jeff/.local/share/"
//	p = paths.AppendFolder(p, "openscad")       // "/home/jeff/.local/share/openscad"
//	p, err := paths.CleanPath(p)
//
// # XDG defaults
//
// [DefaultVariables] seeds the XDG variables, HOME and EXEDIR from
// github.com/adrg/xdg and the running executable so templates resolve even
// when the process environment leaves them unset.
package paths

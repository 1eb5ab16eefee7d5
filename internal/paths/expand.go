package paths

import (
	"os"
	"regexp"
	"strings"
)

// placeholderRe matches ${NAME} or %NAME%. Windows names such as
// ProgramFiles(x86) are allowed in the percent form.
var placeholderRe = regexp.MustCompile(`\$\{([A-Za-z_][A-Za-z0-9_]*)\}|%([A-Za-z_][A-Za-z0-9_()]*)%`)

// Env is a variable table that takes precedence over the process environment.
type Env map[string]string

// Lookup implements LookupFunc over the table.
func (e Env) Lookup(name string) (string, bool) {
	v, ok := e[name]
	return v, ok
}

// Merge returns a new table with other's entries layered over e's.
func (e Env) Merge(other Env) Env {
	out := make(Env, len(e)+len(other))
	for k, v := range e {
		out[k] = v
	}
	for k, v := range other {
		out[k] = v
	}
	return out
}

// LookupFunc resolves a variable name to its value.
type LookupFunc func(name string) (string, bool)

// Chain returns a LookupFunc consulting each lookup in order and returning
// the first defined value.
func Chain(lookups ...LookupFunc) LookupFunc {
	return func(name string) (string, bool) {
		for _, lookup := range lookups {
			if lookup == nil {
				continue
			}
			if v, ok := lookup(name); ok {
				return v, true
			}
		}
		return "", false
	}
}

// Expand substitutes ${NAME} and %NAME% placeholders in template, consulting
// env before the process environment. Undefined variables become "".
// Backslashes in the result are normalized to forward slashes.
func Expand(template string, env Env) string {
	s, _ := ExpandReport(template, env)
	return s
}

// ExpandReport is Expand that also returns the names of undefined variables,
// in order of first appearance.
func ExpandReport(template string, env Env) (string, []string) {
	return ExpandWith(template, Chain(env.Lookup, os.LookupEnv))
}

// ExpandWith expands template using only lookup. It performs no I/O of its
// own and returns the names of undefined variables.
func ExpandWith(template string, lookup LookupFunc) (string, []string) {
	var missing []string
	seen := make(map[string]bool)

	out := placeholderRe.ReplaceAllStringFunc(template, func(match string) string {
		sub := placeholderRe.FindStringSubmatch(match)
		name := sub[1]
		if name == "" {
			name = sub[2]
		}
		if lookup != nil {
			if v, ok := lookup(name); ok {
				return v
			}
		}
		if !seen[name] {
			seen[name] = true
			missing = append(missing, name)
		}
		return ""
	})

	return strings.ReplaceAll(out, `\`, "/"), missing
}

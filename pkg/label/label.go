// Package label interpolates row fields into display templates.
//
// Templates use {field} placeholders:
//
//	label.Format("{name} ({area} m²)", dataset.Row{"name": "'Lobby'", "area": 42.0})
//	// Lobby (42 m²)
//
// String values lose one pair of surrounding single or double quotes, since
// some query backends return literal-quoted strings. Missing fields resolve to
// the empty string. Format never fails.
package label

import (
	"regexp"

	"github.com/matzehuels/rowgraph/pkg/dataset"
)

var placeholderRe = regexp.MustCompile(`\{([^{}]+)\}`)

// Format substitutes every {field} placeholder in template with the row's value.
func Format(template string, row dataset.Row) string {
	if template == "" {
		return ""
	}
	return placeholderRe.ReplaceAllStringFunc(template, func(m string) string {
		field := m[1 : len(m)-1]
		v, ok := row[field]
		if !ok {
			return ""
		}
		if s, isString := v.(string); isString {
			return Unquote(s)
		}
		return dataset.Stringify(v)
	})
}

// Fields returns the placeholder names used by template, in order of appearance.
func Fields(template string) []string {
	matches := placeholderRe.FindAllStringSubmatch(template, -1)
	out := make([]string, 0, len(matches))
	for _, m := range matches {
		out = append(out, m[1])
	}
	return out
}

// Unquote strips one pair of matching surrounding quote characters.
func Unquote(s string) string {
	if len(s) >= 2 {
		first, last := s[0], s[len(s)-1]
		if first == last && (first == '"' || first == '\'') {
			return s[1 : len(s)-1]
		}
	}
	return s
}

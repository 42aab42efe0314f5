// Package tmpl renders text templates used to generate project files.
package tmpl

import (
	"bytes"
	"fmt"
	"strconv"
	"strings"
	"text/template"
)

// quote returns s as a double-quoted string literal. The escaping is valid
// for both TOML basic strings and YAML double-quoted scalars.
func quote(s string) string {
	return strconv.Quote(s)
}

// comment prefixes every line of s with "# ".
func comment(s string) string {
	lines := strings.Split(strings.TrimRight(s, "\n"), "\n")
	for i, l := range lines {
		if l == "" {
			lines[i] = "#"
			continue
		}
		lines[i] = "# " + l
	}
	return strings.Join(lines, "\n")
}

var funcs = template.FuncMap{
	"quote":   quote,
	"comment": comment,
	"join":    strings.Join,
	"lower":   strings.ToLower,
}

// Render executes a Go template string with the given data.
// Returns an error if the template is invalid or references undefined keys.
//
// Available template functions:
//   - quote: Double-quote a string for TOML or YAML
//   - comment: Prefix each line with "# "
//   - join: Join string slice with separator (e.g., join .Labels ", ")
//   - lower: Lowercase a string
func Render(tmpl string, data any) (string, error) {
	t, err := template.New("").Funcs(funcs).Option("missingkey=error").Parse(tmpl)
	if err != nil {
		return "", fmt.Errorf("parse template: %w", err)
	}

	var buf bytes.Buffer
	if err := t.Execute(&buf, data); err != nil {
		return "", fmt.Errorf("execute template: %w", err)
	}

	return buf.String(), nil
}

package templates

import (
	"bytes"
	"fmt"
	"maps"
	"text/template"
)

// Delims are the left and right action delimiters of a template.
type Delims struct {
	Left  string
	Right string
}

// DefaultDelims are used when a Delims value is incomplete.
var DefaultDelims = Delims{Left: "<%", Right: "%>"}

func (d Delims) orDefault() Delims {
	if d.Left == "" || d.Right == "" {
		return DefaultDelims
	}
	return d
}

// Template is a parsed page template ready for repeated execution.
type Template struct {
	tpl *template.Template
}

// Parse compiles source with the given delimiters.
func Parse(name, source string, delims Delims) (*Template, error) {
	d := delims.orDefault()
	tpl, err := template.New(name).Delims(d.Left, d.Right).Option("missingkey=error").Parse(source)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrTemplateParse, err)
	}
	return &Template{tpl: tpl}, nil
}

// Execute substitutes data, with extra merged over it. Values are inserted
// verbatim.
func (t *Template) Execute(data, extra map[string]string) (string, error) {
	merged := make(map[string]string, len(data)+len(extra))
	maps.Copy(merged, data)
	maps.Copy(merged, extra)

	var buf bytes.Buffer
	if err := t.tpl.Execute(&buf, merged); err != nil {
		return "", fmt.Errorf("%w: %v", ErrUnresolvedPlaceholder, err)
	}
	return buf.String(), nil
}

// Compose parses source and executes it once.
func Compose(source string, data map[string]string, delims Delims, extra map[string]string) (string, error) {
	t, err := Parse("page", source, delims)
	if err != nil {
		return "", err
	}
	return t.Execute(data, extra)
}

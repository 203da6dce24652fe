package display

import (
	"bytes"
	"fmt"
	"text/template"

	"github.com/Masterminds/sprig/v3"
)

// templateFuncs is sprig plus the local text helpers.
var templateFuncs = func() template.FuncMap {
	funcs := sprig.TxtFuncMap()
	funcs["reflow"] = WrapWidth
	funcs["titlecase"] = Title
	return funcs
}()

// ExpandTemplate expands a template string using the provided data.
func ExpandTemplate(tmplStr string, data any) (string, error) {
	tmpl, err := template.New("").Funcs(templateFuncs).Parse(tmplStr)
	if err != nil {
		return "", fmt.Errorf("parsing template: %w", err)
	}

	var buf bytes.Buffer
	err = tmpl.Execute(&buf, data)
	if err != nil {
		return "", fmt.Errorf("executing template: %w", err)
	}

	return buf.String(), nil
}

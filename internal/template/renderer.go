package template

import (
	"bytes"
	"fmt"
	"io/fs"
	"regexp"
	"strings"
	"text/template"

	"github.com/iancoleman/strcase"
	"github.com/jinzhu/inflection"
)

// Template action delimiters. Angular's {{ }} passes through untouched.
const (
	leftDelim  = "[["
	rightDelim = "]]"
)

// templateFuncMap provides custom functions available in all templates.
var templateFuncMap = template.FuncMap{
	"camel":  strcase.ToLowerCamel,
	"pascal": strcase.ToCamel,
	"kebab":  strcase.ToKebab,
	"snake":  strcase.ToSnake,
	"upper":  strings.ToUpper,
	"lower":  strings.ToLower,
	"plural": inflection.Plural,
	// filterType maps a Java primary key type to a Hibernate filter parameter type.
	"filterType": func(pkType string) string {
		if pkType == "String" {
			return "string"
		}
		return "long"
	},
}

// unexpandedTokenPattern detects template syntax left in rendered output:
// [[.Field]] actions and the <%= %> tags of EJS templates.
var unexpandedTokenPattern = regexp.MustCompile(`\[\[-?\s*\.?[A-Za-z_][A-Za-z0-9_.]*\s*-?\]\]|<%[=-]?\s*[A-Za-z_]`)

// Renderer renders text/template files with strict mode enabled.
type Renderer interface {
	// Render parses the named template and executes it with data. It returns
	// ErrMissingTemplateKey if a key is missing and ErrUnexpandedToken if
	// template syntax remains after rendering.
	Render(templateName string, data any) ([]byte, error)
}

// renderer is the concrete implementation of Renderer.
type renderer struct {
	fsys fs.FS
}

// NewRenderer creates a Renderer backed by the given filesystem.
func NewRenderer(fsys fs.FS) Renderer {
	return &renderer{fsys: fsys}
}

// Render parses and executes a template with strict mode (missingkey=error).
func (r *renderer) Render(templateName string, data any) ([]byte, error) {
	content, err := fs.ReadFile(r.fsys, templateName)
	if err != nil {
		return nil, fmt.Errorf("%w: %s", ErrTemplateNotFound, templateName)
	}

	tmpl, err := template.New(templateName).
		Delims(leftDelim, rightDelim).
		Funcs(templateFuncMap).
		Option("missingkey=error").
		Parse(string(content))
	if err != nil {
		return nil, fmt.Errorf("template parse %q: %w", templateName, err)
	}

	var buf bytes.Buffer
	if err := tmpl.Execute(&buf, data); err != nil {
		return nil, fmt.Errorf("%w: %s: %v", ErrMissingTemplateKey, templateName, err)
	}

	result := buf.Bytes()
	if loc := unexpandedTokenPattern.Find(result); loc != nil {
		return nil, fmt.Errorf("%w: %s: found %q", ErrUnexpandedToken, templateName, string(loc))
	}
	return result, nil
}

package render

import (
	"bytes"
	"embed"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path"
	"path/filepath"
	"strings"
	"text/template"

	"github.com/oshokin/zircon-gn/internal/version"
)

// Names of the templates every renderer provides.
const (
	SourceLibrary   = "source_library"
	CompiledLibrary = "compiled_library"
	Sysroot         = "sysroot"

	templateExt = ".gn.tmpl"
)

// ErrUnknownTemplate is returned when rendering a template that was never loaded.
var ErrUnknownTemplate = errors.New("unknown template")

//go:embed templates/*.gn.tmpl
var embedded embed.FS

// Renderer renders records through named templates.
type Renderer struct {
	templates map[string]*template.Template
}

// New loads the built-in templates, preferring files found in overrideDir.
// An empty overrideDir uses the built-in templates only.
func New(overrideDir string) (*Renderer, error) {
	r := &Renderer{templates: make(map[string]*template.Template)}

	for _, name := range []string{SourceLibrary, CompiledLibrary, Sysroot} {
		text, err := lookup(overrideDir, name)
		if err != nil {
			return nil, err
		}

		tmpl, err := template.New(name).Funcs(funcs()).Option("missingkey=error").Parse(text)
		if err != nil {
			return nil, fmt.Errorf("parse template %s: %w", name, err)
		}

		r.templates[name] = tmpl
	}

	return r, nil
}

// Render executes the named template with data.
func (r *Renderer) Render(name string, data any) ([]byte, error) {
	tmpl, ok := r.templates[name]
	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrUnknownTemplate, name)
	}

	var buf bytes.Buffer
	if err := tmpl.Execute(&buf, data); err != nil {
		return nil, fmt.Errorf("render %s: %w", name, err)
	}

	return buf.Bytes(), nil
}

func lookup(overrideDir, name string) (string, error) {
	file := name + templateExt

	if overrideDir != "" {
		contents, err := os.ReadFile(filepath.Join(overrideDir, file))
		if err == nil {
			return string(contents), nil
		}

		if !errors.Is(err, fs.ErrNotExist) {
			return "", fmt.Errorf("read template %s: %w", file, err)
		}
	}

	contents, err := embedded.ReadFile(path.Join("templates", file))
	if err != nil {
		return "", fmt.Errorf("read built-in template %s: %w", file, err)
	}

	return string(contents), nil
}

func funcs() template.FuncMap {
	return template.FuncMap{
		"banner":  version.Banner,
		"quote":   quote,
		"dep":     dep,
		"libname": libname,
	}
}

// gnEscaper escapes the characters GN treats specially inside string literals.
var gnEscaper = strings.NewReplacer(`\`, `\\`, `"`, `\"`, `$`, `\$`)

// quote renders s as a GN string literal.
func quote(s string) string {
	return `"` + gnEscaper.Replace(s) + `"`
}

// dep renders the label of a sibling library directory.
func dep(name string) string {
	return quote("../" + name)
}

// libname strips the lib prefix and the extension of an artifact, libfdio.so -> fdio.
func libname(file string) string {
	base := path.Base(filepath.ToSlash(file))
	base = strings.TrimPrefix(base, "lib")

	if i := strings.Index(base, "."); i > 0 {
		base = base[:i]
	}

	return base
}

package generator

import (
	"path"
	"strconv"
	"strings"

	"github.com/seitarof/gen-mapper/internal/parser"
)

// Import is one referenced declaration.
type Import struct {
	Path   string
	Name   string
	Symbol string
}

// ImportSet collects the declarations referenced by one generation pass.
// Symbols named like a type parameter of a generated-for record are never
// imported.
type ImportSet struct {
	entries    []Import
	seen       map[Import]bool
	typeParams map[string]bool
}

// NewImportSet returns an empty set.
func NewImportSet() *ImportSet {
	return &ImportSet{
		seen:       map[Import]bool{},
		typeParams: map[string]bool{},
	}
}

// Add registers one declaration. Builtins carry no package and are ignored.
func (s *ImportSet) Add(pkgPath, pkgName, symbol string) {
	if pkgPath == "" {
		return
	}
	imp := Import{Path: pkgPath, Name: packageName(pkgPath, pkgName), Symbol: symbol}
	if s.seen[imp] {
		return
	}
	s.seen[imp] = true
	s.entries = append(s.entries, imp)
}

// AddType registers t and every type nested in its arguments.
func (s *ImportSet) AddType(t parser.TypeDescriptor) {
	if t.Kind == parser.KindNamed {
		s.Add(t.Package, t.PackageName, t.Name)
	}
	for _, arg := range t.Arguments {
		if arg.Type != nil {
			s.AddType(*arg.Type)
		}
	}
}

// SuppressTypeParameters excludes the given parameter names from the
// rendered imports.
func (s *ImportSet) SuppressTypeParameters(params []parser.TypeParameterDescriptor) {
	for _, p := range params {
		s.typeParams[p.Name] = true
	}
}

// HasTypeParameters reports whether any generated-for record is generic.
func (s *ImportSet) HasTypeParameters() bool {
	return len(s.typeParams) > 0
}

// Imports returns the registered declarations in first-seen order,
// without suppressed symbols.
func (s *ImportSet) Imports() []Import {
	out := make([]Import, 0, len(s.entries))
	for _, imp := range s.entries {
		if s.typeParams[imp.Symbol] {
			continue
		}
		out = append(out, imp)
	}
	return out
}

// Format renders the import block followed by a blank line. Paths are
// deduplicated in first-seen order.
func (s *ImportSet) Format() string {
	seen := map[string]bool{}
	var lines []string
	for _, imp := range s.Imports() {
		if seen[imp.Path] {
			continue
		}
		seen[imp.Path] = true
		line := strconv.Quote(imp.Path)
		if imp.Name != path.Base(imp.Path) {
			line = imp.Name + " " + line
		}
		lines = append(lines, "\t"+line)
	}
	if len(lines) == 0 {
		return ""
	}
	return "import (\n" + strings.Join(lines, "\n") + "\n)\n\n"
}

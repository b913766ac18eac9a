package generator

import (
	"path/filepath"
	"strings"

	"github.com/seitarof/gen-mapper/internal/parser"
)

// Placement is where the mapping file of one record is written.
type Placement struct {
	PackagePath string
	PackageName string
	Dir         string
	FileName    string
}

// Path returns the file path of the generated file.
func (p Placement) Path() string {
	return filepath.Join(p.Dir, p.FileName)
}

// PlacementFor places the mapping file of owner in a sub-package named
// after the lower-cased annotation, in a file named "<Owner><Annotation>.go".
func PlacementFor(owner *parser.RecordDescriptor, annotation string) Placement {
	if annotation == "" {
		annotation = parser.DefaultAnnotation
	}
	pkgName := strings.ToLower(annotation)
	pkgPath := pkgName
	if owner.Package != "" {
		pkgPath = owner.Package + "/" + pkgName
	}
	return Placement{
		PackagePath: pkgPath,
		PackageName: pkgName,
		Dir:         filepath.Join(owner.Dir, pkgName),
		FileName:    owner.Name + annotation + ".go",
	}
}

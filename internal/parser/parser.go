package parser

import (
	"go/ast"
	"go/token"
	"go/types"
	"path/filepath"

	"github.com/cockroachdb/errors"
	"golang.org/x/tools/go/packages"
)

// Parser builds the descriptor snapshot for one processing pass.
type Parser interface {
	Parse(patterns ...string) (*Universe, error)
}

type parserImpl struct {
	annotation string
}

// annotated is a discovered declaration awaiting description.
type annotated struct {
	pkg    *packages.Package
	obj    *types.TypeName
	target string
}

// New returns the go/packages backed parser. Records are discovered by the
// "//<annotation>:target <ref>" doc-comment directive.
func New(annotation string) Parser {
	if annotation == "" {
		annotation = DefaultAnnotation
	}
	return &parserImpl{annotation: annotation}
}

func (p *parserImpl) Parse(patterns ...string) (*Universe, error) {
	if len(patterns) == 0 {
		patterns = []string{"./..."}
	}
	cache := map[string]*packages.Package{}

	roots, err := p.load(patterns...)
	if err != nil {
		return nil, err
	}
	for _, pkg := range roots {
		cache[pkg.PkgPath] = pkg
	}

	u := NewUniverse()
	var found []annotated
	for _, pkg := range roots {
		decls, problems := p.discover(pkg)
		found = append(found, decls...)
		u.Problems = append(u.Problems, problems...)
	}

	// Counterparts may live outside the requested patterns.
	for _, a := range found {
		pkgPath, _ := splitQualified(a.target)
		if pkgPath == "" {
			continue
		}
		if _, ok := cache[pkgPath]; ok {
			continue
		}
		pkgs, err := p.load(pkgPath)
		if err != nil || len(pkgs) == 0 {
			continue
		}
		cache[pkgPath] = pkgs[0]
	}

	typesPkgs := make([]*types.Package, 0, len(cache))
	for _, pkg := range roots {
		typesPkgs = append(typesPkgs, pkg.Types)
	}
	for path, pkg := range cache {
		if !isRoot(roots, path) {
			typesPkgs = append(typesPkgs, pkg.Types)
		}
	}
	b := newBuilder(typesPkgs)

	for _, a := range found {
		rec, err := b.describeRecord(a.pkg, a.obj)
		if err != nil {
			u.Problems = append(u.Problems, err)
			continue
		}
		rec.Target = a.target
		u.Add(rec)
	}
	for _, a := range found {
		if _, ok := u.Lookup(a.target); ok {
			continue
		}
		pkgPath, name := splitQualified(a.target)
		pkg, ok := cache[pkgPath]
		if !ok || pkg.Types == nil {
			continue
		}
		tn, ok := pkg.Types.Scope().Lookup(name).(*types.TypeName)
		if !ok {
			continue
		}
		if rec, err := b.describeRecord(pkg, tn); err == nil {
			u.Add(rec)
		}
	}
	return u, nil
}

func (p *parserImpl) load(patterns ...string) ([]*packages.Package, error) {
	cfg := &packages.Config{
		Mode: packages.NeedName |
			packages.NeedFiles |
			packages.NeedSyntax |
			packages.NeedTypes |
			packages.NeedTypesInfo |
			packages.NeedImports |
			packages.NeedModule,
	}

	pkgs, err := packages.Load(cfg, patterns...)
	if err != nil {
		return nil, errors.Wrapf(err, "load packages %v", patterns)
	}
	if packages.PrintErrors(pkgs) > 0 {
		return nil, errors.Newf("packages %v have compilation errors", patterns)
	}
	if len(pkgs) == 0 {
		return nil, errors.Newf("no packages matched %v", patterns)
	}
	return pkgs, nil
}

// discover finds annotated type declarations in pkg. Annotated types that
// are not structs are reported as problems.
func (p *parserImpl) discover(pkg *packages.Package) ([]annotated, []error) {
	if pkg.Types == nil {
		return nil, nil
	}
	prefix := directivePrefix(p.annotation)
	var out []annotated
	var problems []error
	for _, file := range pkg.Syntax {
		// Generated mappers are outputs, never sources.
		if ast.IsGenerated(file) {
			continue
		}
		for _, decl := range file.Decls {
			gen, ok := decl.(*ast.GenDecl)
			if !ok || gen.Tok != token.TYPE {
				continue
			}
			for _, spec := range gen.Specs {
				ts, ok := spec.(*ast.TypeSpec)
				if !ok {
					continue
				}
				groups := []*ast.CommentGroup{ts.Doc}
				if len(gen.Specs) == 1 {
					groups = append(groups, gen.Doc)
				}
				ref, ok := findDirective(prefix, groups...)
				if !ok {
					continue
				}
				tn, ok := pkg.Types.Scope().Lookup(ts.Name.Name).(*types.TypeName)
				if !ok {
					continue
				}
				if _, isStruct := extractStructType(tn.Type()); !isStruct {
					problems = append(problems, errors.WithHintf(
						errors.Wrapf(ErrUnsupportedDeclaration, "%s.%s is not a struct type", pkg.PkgPath, tn.Name()),
						"%s can only annotate struct types", p.annotation,
					))
					continue
				}
				if ref == "" {
					problems = append(problems, errors.WithHint(
						errors.Wrapf(ErrUnresolvableDeclaration, "%s.%s: empty mapping target", pkg.PkgPath, tn.Name()),
						"name the counterpart as <import/path>.<Type>",
					))
					continue
				}
				out = append(out, annotated{
					pkg:    pkg,
					obj:    tn,
					target: resolveTargetRef(ref, pkg.PkgPath),
				})
			}
		}
	}
	return out, problems
}

// describeRecord builds the descriptor of a named struct type.
func (b *builder) describeRecord(pkg *packages.Package, tn *types.TypeName) (*RecordDescriptor, error) {
	st, ok := extractStructType(tn.Type())
	if !ok {
		return nil, errors.Wrapf(ErrUnsupportedDeclaration, "%s.%s is not a struct type", pkg.PkgPath, tn.Name())
	}

	rec := &RecordDescriptor{
		Package:     pkg.PkgPath,
		PackageName: pkg.Name,
		Name:        tn.Name(),
		Dir:         packageDir(pkg),
	}
	rec.Fields, rec.Inherited = b.flattenFields(st)

	if named, ok := types.Unalias(tn.Type()).(*types.Named); ok {
		params := named.TypeParams()
		for i := 0; i < params.Len(); i++ {
			rec.TypeParameters = append(rec.TypeParameters, b.describeTypeParam(params.At(i)))
		}
	}
	return rec, nil
}

// describeTypeParam returns the parameter with its bound. The "any"
// constraint leaves the parameter unbounded.
func (b *builder) describeTypeParam(tp *types.TypeParam) TypeParameterDescriptor {
	d := TypeParameterDescriptor{Name: tp.Obj().Name()}
	constraint := tp.Constraint()
	if iface, ok := constraint.Underlying().(*types.Interface); ok && iface.Empty() {
		return d
	}
	bound := b.describe(constraint)
	d.Bound = &bound
	return d
}

func extractStructType(t types.Type) (*types.Struct, bool) {
	switch v := t.(type) {
	case *types.Alias:
		return extractStructType(types.Unalias(v))
	case *types.Named:
		return extractStructType(v.Underlying())
	case *types.Struct:
		return v, true
	default:
		return nil, false
	}
}

func packageDir(pkg *packages.Package) string {
	if len(pkg.GoFiles) > 0 {
		return filepath.Dir(pkg.GoFiles[0])
	}
	return ""
}

func isRoot(roots []*packages.Package, path string) bool {
	for _, r := range roots {
		if r.PkgPath == path {
			return true
		}
	}
	return false
}

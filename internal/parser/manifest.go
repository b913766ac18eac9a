package parser

import (
	"os"
	"path"

	"github.com/cockroachdb/errors"
	"gopkg.in/yaml.v3"
)

// manifestFile is the YAML form of a descriptor snapshot. It lets hosts
// other than the Go toolchain hand records to the generator.
type manifestFile struct {
	Records []manifestRecord    `yaml:"records"`
	Types   []manifestHierarchy `yaml:"types"`
}

type manifestRecord struct {
	Package        string              `yaml:"package"`
	PackageName    string              `yaml:"packageName"`
	Name           string              `yaml:"name"`
	Dir            string              `yaml:"dir"`
	Target         string              `yaml:"target"`
	Generated      bool                `yaml:"generated"`
	TypeParameters []manifestTypeParam `yaml:"typeParameters"`
	Fields         []manifestField     `yaml:"fields"`
	Inherited      []manifestField     `yaml:"inherited"`
}

type manifestTypeParam struct {
	Name  string        `yaml:"name"`
	Bound *manifestType `yaml:"bound"`
}

type manifestField struct {
	Name    string       `yaml:"name"`
	Alias   string       `yaml:"alias"`
	Default bool         `yaml:"default"`
	Type    manifestType `yaml:"type"`
}

type manifestType struct {
	Kind        string        `yaml:"kind"`
	Package     string        `yaml:"package"`
	PackageName string        `yaml:"packageName"`
	Name        string        `yaml:"name"`
	Len         int64         `yaml:"len"`
	Nullable    bool          `yaml:"nullable"`
	Args        []manifestArg `yaml:"args"`
}

type manifestArg struct {
	Wildcard bool          `yaml:"wildcard"`
	Type     *manifestType `yaml:"type"`
}

type manifestHierarchy struct {
	Package    string         `yaml:"package"`
	Name       string         `yaml:"name"`
	Supertypes []manifestType `yaml:"supertypes"`
}

var manifestKinds = map[string]TypeKind{
	"":        KindNamed,
	"named":   KindNamed,
	"param":   KindTypeParam,
	"slice":   KindSlice,
	"array":   KindArray,
	"map":     KindMap,
	"other":   KindOther,
	"invalid": KindInvalid,
}

type manifestParser struct {
	outDir string
}

// NewManifest returns a parser reading YAML descriptor manifests. Records
// without a dir are placed under outDir.
func NewManifest(outDir string) Parser {
	if outDir == "" {
		outDir = "."
	}
	return &manifestParser{outDir: outDir}
}

func (p *manifestParser) Parse(files ...string) (*Universe, error) {
	if len(files) == 0 {
		return nil, errors.New("no manifest files given")
	}
	u := NewUniverse()
	for _, name := range files {
		data, err := os.ReadFile(name)
		if err != nil {
			return nil, errors.Wrapf(err, "read manifest %q", name)
		}
		if err := p.decode(data, u); err != nil {
			return nil, errors.Wrapf(err, "manifest %q", name)
		}
	}
	return u, nil
}

// ParseManifest decodes one manifest document into a fresh snapshot.
func ParseManifest(data []byte, outDir string) (*Universe, error) {
	p := &manifestParser{outDir: outDir}
	u := NewUniverse()
	if err := p.decode(data, u); err != nil {
		return nil, err
	}
	return u, nil
}

func (p *manifestParser) decode(data []byte, u *Universe) error {
	var mf manifestFile
	if err := yaml.Unmarshal(data, &mf); err != nil {
		return errors.Wrap(err, "decode yaml")
	}

	c := &manifestConverter{
		hierarchy: map[string][]manifestType{},
		visiting:  map[string]bool{},
	}
	for _, h := range mf.Types {
		key := qualify(h.Package, h.Name)
		c.hierarchy[key] = append(c.hierarchy[key], h.Supertypes...)
	}

	for _, mr := range mf.Records {
		rec, err := c.record(mr)
		if err != nil {
			return err
		}
		if rec.Dir == "" {
			rec.Dir = p.outDir
		}
		if !u.Add(rec) {
			return errors.Newf("record %s declared twice", rec.QualifiedName())
		}
	}
	return nil
}

type manifestConverter struct {
	hierarchy map[string][]manifestType
	visiting  map[string]bool
}

func (c *manifestConverter) record(mr manifestRecord) (*RecordDescriptor, error) {
	if mr.Name == "" {
		return nil, errors.New("record without name")
	}
	rec := &RecordDescriptor{
		Package:     mr.Package,
		PackageName: packageNameOf(mr.Package, mr.PackageName),
		Name:        mr.Name,
		Dir:         mr.Dir,
		Generated:   mr.Generated,
		Target:      mr.Target,
	}
	seen := map[string]bool{}
	for _, f := range mr.Fields {
		if seen[f.Name] {
			return nil, errors.Newf("record %s: duplicate field %q", rec.QualifiedName(), f.Name)
		}
		seen[f.Name] = true
		rec.Fields = append(rec.Fields, c.field(f))
	}
	for _, f := range mr.Inherited {
		if seen[f.Name] {
			continue
		}
		seen[f.Name] = true
		rec.Inherited = append(rec.Inherited, c.field(f))
	}
	for _, tp := range mr.TypeParameters {
		d := TypeParameterDescriptor{Name: tp.Name}
		if tp.Bound != nil {
			bound := c.typ(*tp.Bound)
			d.Bound = &bound
		}
		rec.TypeParameters = append(rec.TypeParameters, d)
	}
	return rec, nil
}

func (c *manifestConverter) field(f manifestField) FieldDescriptor {
	return FieldDescriptor{
		Name:       f.Name,
		Alias:      f.Alias,
		HasDefault: f.Default,
		Type:       c.typ(f.Type),
	}
}

func (c *manifestConverter) typ(mt manifestType) TypeDescriptor {
	kind, ok := manifestKinds[mt.Kind]
	if !ok {
		kind = KindInvalid
	}
	d := TypeDescriptor{
		Kind:     kind,
		Name:     mt.Name,
		Len:      mt.Len,
		Nullable: mt.Nullable,
	}
	if kind == KindNamed {
		d.Package = mt.Package
		d.PackageName = packageNameOf(mt.Package, mt.PackageName)
	}
	for _, a := range mt.Args {
		switch {
		case a.Wildcard:
			d.Arguments = append(d.Arguments, Wildcard())
		case a.Type != nil:
			d.Arguments = append(d.Arguments, Concrete(c.typ(*a.Type)))
		default:
			d.Arguments = append(d.Arguments, TypeArgument{})
		}
	}
	if kind == KindNamed {
		d.Supertypes = c.supertypes(d.QualifiedName())
	}
	return d
}

func (c *manifestConverter) supertypes(key string) []TypeDescriptor {
	if c.visiting[key] {
		return nil
	}
	c.visiting[key] = true
	defer delete(c.visiting, key)

	var out []TypeDescriptor
	for _, st := range c.hierarchy[key] {
		out = append(out, c.typ(st))
	}
	return out
}

func packageNameOf(pkgPath, explicit string) string {
	if explicit != "" || pkgPath == "" {
		return explicit
	}
	return path.Base(pkgPath)
}

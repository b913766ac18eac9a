package parser

import "strconv"

// RecordDescriptor is an immutable snapshot of one named struct type.
type RecordDescriptor struct {
	Package     string
	PackageName string
	Name        string
	Dir         string

	// Fields are the own exported fields, in declaration order.
	Fields []FieldDescriptor

	// Inherited are the fields promoted from embedded structs.
	Inherited []FieldDescriptor

	TypeParameters []TypeParameterDescriptor

	// Generated marks records produced by a generator; they are never
	// dereferenced as mapping sources themselves.
	Generated bool

	// Target is the qualified name of the mapping counterpart named by the
	// annotation, or empty when the record is not annotated.
	Target string
}

// QualifiedName returns "<package path>.<name>".
func (r *RecordDescriptor) QualifiedName() string {
	return qualify(r.Package, r.Name)
}

// Type returns the record as a type reference. Type parameters are applied
// as bare parameter references.
func (r *RecordDescriptor) Type() TypeDescriptor {
	t := TypeDescriptor{
		Kind:        KindNamed,
		Package:     r.Package,
		PackageName: r.PackageName,
		Name:        r.Name,
	}
	for _, p := range r.TypeParameters {
		arg := TypeDescriptor{Kind: KindTypeParam, Name: p.Name}
		t.Arguments = append(t.Arguments, TypeArgument{Type: &arg})
	}
	return t
}

// Field returns the field with the given name.
func (r *RecordDescriptor) Field(name string) (FieldDescriptor, bool) {
	for _, f := range r.Fields {
		if f.Name == name {
			return f, true
		}
	}
	return FieldDescriptor{}, false
}

// Properties returns every readable field: own fields first, then
// promoted ones. This is the order in which mapping candidates are scanned.
func (r *RecordDescriptor) Properties() []FieldDescriptor {
	out := make([]FieldDescriptor, 0, len(r.Fields)+len(r.Inherited))
	out = append(out, r.Fields...)
	return append(out, r.Inherited...)
}

// FieldDescriptor describes one mappable field.
type FieldDescriptor struct {
	Name string
	Type TypeDescriptor

	// HasDefault reports whether the target may omit the field.
	HasDefault bool

	// Alias overrides Name during matching. Empty means no alias.
	Alias string
}

// TypeDescriptor is a resolved type reference.
type TypeDescriptor struct {
	Kind        TypeKind
	Package     string
	PackageName string
	Name        string
	Nullable    bool
	Arguments   []TypeArgument

	// Len is the length of array types.
	Len int64

	// Supertypes lists the declared supertypes of a named type.
	Supertypes []TypeDescriptor
}

// QualifiedName returns the declaration identity of the type. Composite
// kinds are identified by their constructor, their element types live in
// Arguments.
func (t TypeDescriptor) QualifiedName() string {
	switch t.Kind {
	case KindSlice:
		return "[]"
	case KindArray:
		return "[" + strconv.FormatInt(t.Len, 10) + "]"
	case KindMap:
		return "map"
	case KindTypeParam, KindOther, KindInvalid:
		return t.Name
	default:
		return qualify(t.Package, t.Name)
	}
}

// WithNullable returns a copy of t with the given nullability.
func (t TypeDescriptor) WithNullable(nullable bool) TypeDescriptor {
	t.Nullable = nullable
	return t
}

// Resolved reports whether t and all of its nested arguments are closed
// type references.
func (t TypeDescriptor) Resolved() bool {
	if t.Kind == KindInvalid {
		return false
	}
	for _, arg := range t.Arguments {
		if arg.Wildcard {
			continue
		}
		if arg.Type == nil || !arg.Type.Resolved() {
			return false
		}
	}
	return true
}

// TypeArgument is one generic argument position: a concrete type or a
// wildcard.
type TypeArgument struct {
	Wildcard bool
	Type     *TypeDescriptor
}

// Concrete wraps t in a concrete type argument.
func Concrete(t TypeDescriptor) TypeArgument {
	return TypeArgument{Type: &t}
}

// Wildcard returns an unconstrained argument position.
func Wildcard() TypeArgument {
	return TypeArgument{Wildcard: true}
}

// TypeParameterDescriptor is a generic parameter declared on a record.
type TypeParameterDescriptor struct {
	Name  string
	Bound *TypeDescriptor
}

// TypeKind is coarse-grained type category.
type TypeKind int

const (
	KindNamed TypeKind = iota
	KindTypeParam
	KindSlice
	KindArray
	KindMap
	KindOther
	KindInvalid
)

func qualify(pkgPath, name string) string {
	if pkgPath == "" {
		return name
	}
	return pkgPath + "." + name
}

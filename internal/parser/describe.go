package parser

import (
	"go/types"
	"sort"
)

// builder converts go/types objects into descriptors. Supertypes are
// memoized per declaration; a declaration currently being described yields
// no supertypes, which keeps the snapshot acyclic.
type builder struct {
	interfaces []*types.Named
	supers     map[*types.TypeName][]TypeDescriptor
	visiting   map[*types.TypeName]bool
}

func newBuilder(pkgs []*types.Package) *builder {
	return &builder{
		interfaces: collectInterfaces(pkgs),
		supers:     map[*types.TypeName][]TypeDescriptor{},
		visiting:   map[*types.TypeName]bool{},
	}
}

// collectInterfaces gathers the non-empty, non-generic named interfaces
// declared in pkgs and their direct imports, ordered by qualified name.
func collectInterfaces(pkgs []*types.Package) []*types.Named {
	seenPkg := map[string]bool{}
	var out []*types.Named
	visit := func(p *types.Package) {
		if p == nil || seenPkg[p.Path()] {
			return
		}
		seenPkg[p.Path()] = true
		scope := p.Scope()
		for _, name := range scope.Names() {
			tn, ok := scope.Lookup(name).(*types.TypeName)
			if !ok || tn.IsAlias() {
				continue
			}
			named, ok := tn.Type().(*types.Named)
			if !ok || named.TypeParams().Len() > 0 {
				continue
			}
			iface, ok := named.Underlying().(*types.Interface)
			if !ok || iface.Empty() || !iface.IsMethodSet() {
				continue
			}
			out = append(out, named)
		}
	}
	for _, p := range pkgs {
		visit(p)
		if p == nil {
			continue
		}
		for _, imp := range p.Imports() {
			visit(imp)
		}
	}
	sort.SliceStable(out, func(i, j int) bool {
		return typeNameKey(out[i].Obj()) < typeNameKey(out[j].Obj())
	})
	return out
}

func typeNameKey(tn *types.TypeName) string {
	if tn.Pkg() == nil {
		return tn.Name()
	}
	return tn.Pkg().Path() + "." + tn.Name()
}

func (b *builder) describe(t types.Type) TypeDescriptor {
	switch v := t.(type) {
	case *types.Alias:
		return b.describe(types.Unalias(v))
	case *types.Pointer:
		elem := b.describe(v.Elem())
		if elem.Nullable {
			return other(t)
		}
		elem.Nullable = true
		return elem
	case *types.Basic:
		if v.Kind() == types.Invalid {
			return TypeDescriptor{Kind: KindInvalid, Name: v.Name()}
		}
		return TypeDescriptor{Kind: KindNamed, Name: v.Name()}
	case *types.TypeParam:
		return TypeDescriptor{Kind: KindTypeParam, Name: v.Obj().Name()}
	case *types.Slice:
		return TypeDescriptor{Kind: KindSlice, Arguments: []TypeArgument{Concrete(b.describe(v.Elem()))}}
	case *types.Array:
		return TypeDescriptor{Kind: KindArray, Len: v.Len(), Arguments: []TypeArgument{Concrete(b.describe(v.Elem()))}}
	case *types.Map:
		return TypeDescriptor{Kind: KindMap, Arguments: []TypeArgument{
			Concrete(b.describe(v.Key())),
			Concrete(b.describe(v.Elem())),
		}}
	case *types.Interface:
		if v.Empty() {
			return TypeDescriptor{Kind: KindNamed, Name: "any"}
		}
		return other(t)
	case *types.Named:
		return b.describeNamed(v)
	default:
		return other(t)
	}
}

func (b *builder) describeNamed(n *types.Named) TypeDescriptor {
	obj := n.Obj()
	d := TypeDescriptor{Kind: KindNamed, Name: obj.Name()}
	if obj.Pkg() != nil {
		d.Package = obj.Pkg().Path()
		d.PackageName = obj.Pkg().Name()
	}
	if args := n.TypeArgs(); args != nil {
		for i := 0; i < args.Len(); i++ {
			d.Arguments = append(d.Arguments, Concrete(b.describe(args.At(i))))
		}
	}
	d.Supertypes = b.supertypes(n)
	return d
}

// supertypes returns the declared supertypes of n: its embedded types and
// the known interfaces it implements.
func (b *builder) supertypes(n *types.Named) []TypeDescriptor {
	obj := n.Obj()
	if cached, ok := b.supers[obj]; ok && n.TypeArgs() == nil {
		return cached
	}
	if b.visiting[obj] {
		return nil
	}
	b.visiting[obj] = true
	defer delete(b.visiting, obj)

	var out []TypeDescriptor
	seen := map[string]bool{typeNameKey(obj): true}
	add := func(t types.Type) {
		named, ok := types.Unalias(derefType(t)).(*types.Named)
		if !ok {
			return
		}
		key := typeNameKey(named.Obj())
		if seen[key] {
			return
		}
		seen[key] = true
		out = append(out, b.describeNamed(named))
	}

	switch under := n.Underlying().(type) {
	case *types.Struct:
		for i := 0; i < under.NumFields(); i++ {
			if f := under.Field(i); f.Embedded() {
				add(f.Type())
			}
		}
	case *types.Interface:
		for i := 0; i < under.NumEmbeddeds(); i++ {
			add(under.EmbeddedType(i))
		}
	}

	generic := n.TypeParams().Len() > 0 && n.TypeArgs() == nil
	for _, iface := range b.interfaces {
		if generic || iface.Obj() == obj {
			continue
		}
		it, ok := iface.Underlying().(*types.Interface)
		if !ok {
			continue
		}
		if types.Implements(n, it) || types.Implements(types.NewPointer(n), it) {
			add(iface)
		}
	}

	if n.TypeArgs() == nil {
		b.supers[obj] = out
	}
	return out
}

func derefType(t types.Type) types.Type {
	if p, ok := t.(*types.Pointer); ok {
		return p.Elem()
	}
	return t
}

func other(t types.Type) TypeDescriptor {
	return TypeDescriptor{
		Kind: KindOther,
		Name: types.TypeString(t, func(p *types.Package) string { return p.Name() }),
	}
}

package parser

import (
	"sort"

	"go/types"
)

type fieldCandidate struct {
	field     FieldDescriptor
	path      string
	depth     int
	order     int
	ambiguous bool
}

// flattenFields splits a struct into its own exported fields (the
// constructor parameters of a composite literal) and the fields promoted
// from embedded structs. Promoted fields shadowed by a shallower field are
// dropped, and so are same-depth conflicts.
func (b *builder) flattenFields(st *types.Struct) (own []FieldDescriptor, inherited []FieldDescriptor) {
	ownNames := map[string]bool{}
	for i := 0; i < st.NumFields(); i++ {
		f := st.Field(i)
		if !f.Exported() {
			continue
		}
		own = append(own, b.describeField(f, st.Tag(i)))
		ownNames[f.Name()] = true
	}

	candidates := map[string]fieldCandidate{}
	order := 0
	for i := 0; i < st.NumFields(); i++ {
		f := st.Field(i)
		if !f.Embedded() {
			continue
		}
		embedded := resolveEmbeddedStruct(f.Type())
		if embedded == nil {
			continue
		}
		b.collectPromoted(embedded, f.Name(), 1, candidates, &order, map[*types.Struct]bool{st: true})
	}

	sorted := make([]fieldCandidate, 0, len(candidates))
	for name, cand := range candidates {
		if cand.ambiguous || ownNames[name] {
			continue
		}
		sorted = append(sorted, cand)
	}
	sort.Slice(sorted, func(i, j int) bool {
		if sorted[i].order == sorted[j].order {
			return sorted[i].field.Name < sorted[j].field.Name
		}
		return sorted[i].order < sorted[j].order
	})

	for _, cand := range sorted {
		inherited = append(inherited, cand.field)
	}
	return own, inherited
}

func (b *builder) collectPromoted(
	st *types.Struct,
	path string,
	depth int,
	out map[string]fieldCandidate,
	order *int,
	seen map[*types.Struct]bool,
) {
	if seen[st] {
		return
	}
	seen[st] = true
	defer delete(seen, st)

	for i := 0; i < st.NumFields(); i++ {
		f := st.Field(i)
		if f.Exported() {
			addCandidate(out, fieldCandidate{
				field: b.describeField(f, st.Tag(i)),
				path:  path + "." + f.Name(),
				depth: depth,
			}, order)
		}
		if !f.Embedded() {
			continue
		}
		if embedded := resolveEmbeddedStruct(f.Type()); embedded != nil {
			b.collectPromoted(embedded, path+"."+f.Name(), depth+1, out, order, seen)
		}
	}
}

func (b *builder) describeField(f *types.Var, tag string) FieldDescriptor {
	alias, hasDefault := parseFieldTag(tag)
	return FieldDescriptor{
		Name:       f.Name(),
		Type:       b.describe(f.Type()),
		HasDefault: hasDefault,
		Alias:      alias,
	}
}

func addCandidate(out map[string]fieldCandidate, cand fieldCandidate, order *int) {
	key := cand.field.Name
	existing, exists := out[key]
	if !exists || cand.depth < existing.depth {
		cand.order = *order
		*order = *order + 1
		out[key] = cand
		return
	}
	if cand.depth > existing.depth {
		return
	}
	if existing.path != cand.path {
		existing.ambiguous = true
		out[key] = existing
	}
}

func resolveEmbeddedStruct(t types.Type) *types.Struct {
	switch v := t.(type) {
	case *types.Alias:
		return resolveEmbeddedStruct(types.Unalias(v))
	case *types.Named:
		if st, ok := v.Underlying().(*types.Struct); ok {
			return st
		}
	case *types.Pointer:
		return resolveEmbeddedStruct(v.Elem())
	}
	return nil
}

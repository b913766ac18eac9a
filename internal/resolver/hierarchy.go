package resolver

import "github.com/seitarof/gen-mapper/internal/parser"

// IsSubtype reports whether candidate is bound itself or reaches bound
// through its declared supertypes, compared by qualified name.
func IsSubtype(candidate, bound parser.TypeDescriptor) bool {
	return isSubtype(candidate, bound.QualifiedName(), map[string]bool{})
}

func isSubtype(candidate parser.TypeDescriptor, bound string, seen map[string]bool) bool {
	name := candidate.QualifiedName()
	if name == bound {
		return true
	}
	if seen[name] {
		return false
	}
	seen[name] = true
	for _, st := range candidate.Supertypes {
		if isSubtype(st, bound, seen) {
			return true
		}
	}
	return false
}

package resolver

import "github.com/seitarof/gen-mapper/internal/parser"

// DefaultRules returns built-in rules in priority order.
func DefaultRules() []Rule {
	return []Rule{
		&NullabilityRule{},
		&IdentityRule{},
		&GenericPositionRule{},
		&ArgumentsRule{},
	}
}

// NullabilityRule: a nullable value never fills a non-null slot.
type NullabilityRule struct{}

func (r *NullabilityRule) Name() string { return "nullability" }

func (r *NullabilityRule) Try(source, target parser.TypeDescriptor, _ bool) (bool, bool) {
	if source.Nullable && !target.Nullable {
		return false, true
	}
	return false, false
}

// IdentityRule: outside generic positions both sides must name the same
// declaration. There is no subtype widening.
type IdentityRule struct{}

func (r *IdentityRule) Name() string { return "identity" }

func (r *IdentityRule) Try(source, target parser.TypeDescriptor, genericPosition bool) (bool, bool) {
	if genericPosition {
		return false, false
	}
	if source.QualifiedName() != target.QualifiedName() {
		return false, true
	}
	return false, false
}

// GenericPositionRule: the concrete argument of a generic slot is checked
// by the caller against the parameter bound.
type GenericPositionRule struct{}

func (r *GenericPositionRule) Name() string { return "generic-position" }

func (r *GenericPositionRule) Try(_, _ parser.TypeDescriptor, genericPosition bool) (bool, bool) {
	if genericPosition {
		return true, true
	}
	return false, false
}

// ArgumentsRule: generic arguments must match position by position.
type ArgumentsRule struct{}

func (r *ArgumentsRule) Name() string { return "arguments" }

func (r *ArgumentsRule) Try(source, target parser.TypeDescriptor, _ bool) (bool, bool) {
	return ArgumentsMatch(source.Arguments, target.Arguments), true
}

// ArgumentsMatch reports whether two argument lists have the same arity and,
// per position, identical declarations with compatible nullability and
// recursively matching arguments. A wildcard only matches a wildcard.
func ArgumentsMatch(a, b []parser.TypeArgument) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if !argumentMatches(a[i], b[i]) {
			return false
		}
	}
	return true
}

func argumentMatches(a, b parser.TypeArgument) bool {
	if a.Wildcard || b.Wildcard {
		return a.Wildcard && b.Wildcard
	}
	if a.Type == nil || b.Type == nil {
		return false
	}
	if a.Type.QualifiedName() != b.Type.QualifiedName() {
		return false
	}
	if a.Type.Nullable && b.Type.Nullable {
		return false
	}
	return ArgumentsMatch(a.Type.Arguments, b.Type.Arguments)
}

package matcher

import (
	"fmt"

	"github.com/cockroachdb/errors"

	"github.com/seitarof/gen-mapper/internal/parser"
	"github.com/seitarof/gen-mapper/internal/resolver"
)

// StructPair is an annotated record and its mapping counterpart.
type StructPair struct {
	Src *parser.RecordDescriptor
	Dst *parser.RecordDescriptor
}

// FieldMatch pairs a target field with the source field that fills it.
type FieldMatch struct {
	Target parser.FieldDescriptor
	Source parser.FieldDescriptor

	// Coercion is set when the source value is asserted into a generic
	// slot: the parameter bound for value slots, otherwise the parameter
	// itself carrying the target field's nullability.
	Coercion *parser.TypeDescriptor
}

// MatchResult is the outcome of matching one target against one source.
type MatchResult struct {
	Matched []FieldMatch
	// Missing lists target fields without a match and without a default,
	// in target declaration order.
	Missing  []parser.FieldDescriptor
	Warnings []Warning
}

// Warning is a non-fatal matching diagnostic.
type Warning struct {
	Record  string
	Field   string
	Message string
}

func (w Warning) String() string {
	if w.Field == "" {
		return w.Record + ": " + w.Message
	}
	return w.Record + "." + w.Field + ": " + w.Message
}

// StructMatcher resolves annotated records into record pairs.
type StructMatcher interface {
	MatchStructs(u *parser.Universe) ([]StructPair, []error)
}

// FieldMatcher matches the fields of a target record against a source.
type FieldMatcher interface {
	Match(target, source *parser.RecordDescriptor, typeParams []parser.TypeParameterDescriptor) MatchResult
}

type structMatcherImpl struct{}

type fieldMatcherImpl struct {
	resolver resolver.Resolver
}

// NewStructMatcher returns default struct matcher.
func NewStructMatcher() StructMatcher {
	return &structMatcherImpl{}
}

// NewFieldMatcher returns default field matcher.
func NewFieldMatcher(r resolver.Resolver) FieldMatcher {
	return &fieldMatcherImpl{resolver: r}
}

func (m *structMatcherImpl) MatchStructs(u *parser.Universe) ([]StructPair, []error) {
	var pairs []StructPair
	var errs []error
	for _, src := range u.Annotated() {
		dst, ok := u.Lookup(src.Target)
		if !ok {
			errs = append(errs, errors.WithHint(
				errors.Wrapf(parser.ErrUnresolvableDeclaration, "%s: mapping target %s", src.QualifiedName(), src.Target),
				"the target must be a struct type reachable from the loaded packages",
			))
			continue
		}
		pairs = append(pairs, StructPair{Src: src, Dst: dst})
	}
	return pairs, errs
}

func (m *fieldMatcherImpl) Match(
	target *parser.RecordDescriptor,
	source *parser.RecordDescriptor,
	typeParams []parser.TypeParameterDescriptor,
) MatchResult {
	var result MatchResult
	candidates := source.Properties()

	for _, tf := range target.Fields {
		param := referencedParam(tf.Type, typeParams)

		var match *FieldMatch
		for _, sf := range candidates {
			if !qualifies(tf, sf) {
				continue
			}
			if fm, ok := m.matchBound(tf, sf, param); ok {
				match = &fm
				break
			}
			if m.resolver.Assignable(sf.Type, tf.Type, param != nil) {
				fm := FieldMatch{Target: tf, Source: sf}
				if param != nil {
					label := parser.TypeDescriptor{Kind: parser.KindTypeParam, Name: param.Name, Nullable: tf.Type.Nullable}
					fm.Coercion = &label
				}
				match = &fm
				break
			}
			result.Warnings = append(result.Warnings, Warning{
				Record: target.QualifiedName(),
				Field:  tf.Name,
				Message: fmt.Sprintf(
					"candidate %s.%s found but its type %s is incompatible with %s",
					source.Name, sf.Name, sf.Type.QualifiedName(), tf.Type.QualifiedName(),
				),
			})
		}

		switch {
		case match != nil:
			result.Matched = append(result.Matched, *match)
		case tf.HasDefault:
		default:
			result.Missing = append(result.Missing, tf)
		}
	}

	if len(result.Missing) > 0 && len(result.Matched) == 0 {
		result.Warnings = append(result.Warnings, Warning{
			Record: target.QualifiedName(),
			Message: fmt.Sprintf(
				"no field of %s maps onto %s; every argument must be supplied explicitly (align names with %q tags)",
				source.QualifiedName(), target.Name, parser.TagKey,
			),
		})
	}
	return result
}

// matchBound accepts a candidate for a bounded generic slot when it is a
// subtype of the bound. Pointer slots are left to the plain parameter
// path: a pointer cannot be converted to a pointer to the bound.
func (m *fieldMatcherImpl) matchBound(
	tf parser.FieldDescriptor,
	sf parser.FieldDescriptor,
	param *parser.TypeParameterDescriptor,
) (FieldMatch, bool) {
	if param == nil || param.Bound == nil || tf.Type.Nullable {
		return FieldMatch{}, false
	}
	bound := *param.Bound
	if !resolver.IsSubtype(sf.Type, bound) {
		return FieldMatch{}, false
	}
	if !m.resolver.Assignable(sf.Type, bound, true) {
		return FieldMatch{}, false
	}
	return FieldMatch{Target: tf, Source: sf, Coercion: &bound}, true
}

// qualifies reports whether sf is a name or alias candidate for tf.
func qualifies(tf, sf parser.FieldDescriptor) bool {
	if sf.Name == tf.Name {
		return true
	}
	if sf.Alias != "" && sf.Alias == tf.Name {
		return true
	}
	return tf.Alias != "" && tf.Alias == sf.Name
}

// referencedParam returns the type parameter t names, if t is a bare
// reference to one.
func referencedParam(t parser.TypeDescriptor, params []parser.TypeParameterDescriptor) *parser.TypeParameterDescriptor {
	if len(t.Arguments) > 0 {
		return nil
	}
	if t.Kind != parser.KindTypeParam && t.Kind != parser.KindNamed {
		return nil
	}
	for i := range params {
		if params[i].Name == t.Name {
			return &params[i]
		}
	}
	return nil
}

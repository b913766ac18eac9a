package generator

import (
	"go/token"
	"strconv"
	"strings"
	"unicode"

	"github.com/cockroachdb/errors"

	"github.com/seitarof/gen-mapper/internal/matcher"
	"github.com/seitarof/gen-mapper/internal/parser"
	"github.com/seitarof/gen-mapper/internal/resolver"
)

// ErrUnresolvedType is returned when a mapping function would need a type
// that the snapshot could not resolve.
var ErrUnresolvedType = errors.New("unresolved type")

// sourceParam is the name of the mapped value inside generated functions.
const sourceParam = "src"

// Function is one synthesized mapping function.
type Function struct {
	Name   string
	Source *parser.RecordDescriptor
	Target *parser.RecordDescriptor
	Result matcher.MatchResult

	// Text is the unformatted Go declaration.
	Text string
}

// Synthesizer renders mapping functions from field matches.
type Synthesizer struct {
	matcher matcher.FieldMatcher
}

// NewSynthesizer returns a synthesizer using m to pair fields.
func NewSynthesizer(m matcher.FieldMatcher) *Synthesizer {
	return &Synthesizer{matcher: m}
}

// Synthesize builds the function mapping source onto target. Every
// referenced declaration is registered in imports.
func (s *Synthesizer) Synthesize(source, target *parser.RecordDescriptor, imports *ImportSet) (*Function, error) {
	result := s.matcher.Match(target, source, target.TypeParameters)
	for _, f := range result.Missing {
		if !f.Type.Resolved() {
			return nil, errors.WithHint(
				errors.Wrapf(ErrUnresolvedType, "%s.%s: type %s", target.QualifiedName(), f.Name, RenderType(f.Type)),
				"the field has no counterpart and must become a parameter, which needs a resolvable type",
			)
		}
	}

	imports.SuppressTypeParameters(target.TypeParameters)
	imports.AddType(source.Type())
	imports.AddType(target.Type())

	fn := &Function{
		Name:   resolver.DefaultConverterName(source.Package, source.Name, target.Package, target.Name),
		Source: source,
		Target: target,
		Result: result,
	}

	params := []string{sourceParam + " " + s.sourceType(source, imports)}
	names := newParamNames()
	for _, f := range result.Missing {
		imports.AddType(f.Type)
		params = append(params, names.next(f.Name)+" "+RenderType(f.Type))
	}
	targetType := RenderType(target.Type())

	var b strings.Builder
	b.WriteString("// " + fn.Name + " maps " + qualifiedIdent(source.Type()) + " onto " + qualifiedIdent(target.Type()) + ".\n")
	b.WriteString("func " + fn.Name + s.typeParamClause(target, imports))
	b.WriteString("(" + strings.Join(params, ", ") + ") " + targetType + " {\n")
	b.WriteString("\treturn " + targetType + "{\n")
	for _, m := range result.Matched {
		b.WriteString("\t\t" + m.Target.Name + ": " + assignment(m, imports) + ",\n")
	}
	names = newParamNames()
	for _, f := range result.Missing {
		b.WriteString("\t\t" + f.Name + ": " + names.next(f.Name) + ",\n")
	}
	b.WriteString("\t}\n}\n")
	fn.Text = b.String()
	return fn, nil
}

// typeParamClause declares the target's parameters with their bounds, so
// the instantiated result type is always valid.
func (s *Synthesizer) typeParamClause(target *parser.RecordDescriptor, imports *ImportSet) string {
	if len(target.TypeParameters) == 0 {
		return ""
	}
	parts := make([]string, 0, len(target.TypeParameters))
	for _, p := range target.TypeParameters {
		constraint := wildcardToken
		if p.Bound != nil {
			imports.AddType(*p.Bound)
			constraint = RenderType(*p.Bound)
		}
		parts = append(parts, p.Name+" "+constraint)
	}
	return "[" + strings.Join(parts, ", ") + "]"
}

// sourceType renders the source parameter type. A generic source is
// instantiated with the bound of its first parameter only.
func (s *Synthesizer) sourceType(source *parser.RecordDescriptor, imports *ImportSet) string {
	name := qualifiedIdent(source.Type())
	if len(source.TypeParameters) == 0 {
		return name
	}
	arg := wildcardToken
	if bound := source.TypeParameters[0].Bound; bound != nil {
		imports.AddType(*bound)
		arg = RenderType(*bound)
	}
	return name + "[" + arg + "]"
}

func assignment(m matcher.FieldMatch, imports *ImportSet) string {
	value := sourceParam + "." + m.Source.Name
	if m.Target.Type.Nullable && !m.Source.Type.Nullable {
		value = "&" + value
	}
	if m.Coercion == nil {
		return value
	}

	slot := RenderType(m.Target.Type)
	label := RenderType(*m.Coercion)
	imports.AddType(*m.Coercion)
	if label == slot {
		return "any(" + value + ").(" + slot + ")"
	}
	// Bound labels are never pointers: nullable slots take the parameter
	// path in the matcher.
	return "any(" + label + "(" + value + ")).(" + slot + ")"
}

// paramNames hands out parameter names derived from field names. Names
// never clash with keywords, the source parameter or each other.
type paramNames struct {
	used map[string]bool
}

func newParamNames() *paramNames {
	return &paramNames{used: map[string]bool{sourceParam: true}}
}

func (p *paramNames) next(field string) string {
	name := lowerCamel(field)
	if token.IsKeyword(name) {
		name += "Value"
	}
	candidate := name
	for i := 2; p.used[candidate]; i++ {
		candidate = name + strconv.Itoa(i)
	}
	p.used[candidate] = true
	return candidate
}

// lowerCamel lowers the leading upper-case run of an identifier, keeping
// the last letter of an initialism that starts the next word: "ID" becomes
// "id", "URLPath" becomes "urlPath".
func lowerCamel(name string) string {
	runes := []rune(name)
	n := 0
	for n < len(runes) && unicode.IsUpper(runes[n]) {
		n++
	}
	if n > 1 && n < len(runes) && unicode.IsLower(runes[n]) {
		n--
	}
	for i := 0; i < n; i++ {
		runes[i] = unicode.ToLower(runes[i])
	}
	return string(runes)
}

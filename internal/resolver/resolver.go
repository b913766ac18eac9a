package resolver

import (
	"github.com/seitarof/gen-mapper/internal/parser"
)

// Resolver decides whether a source type can fill a target slot.
type Resolver interface {
	Assignable(source, target parser.TypeDescriptor, genericPosition bool) bool
}

// Rule inspects one source/target pair. A rule that does not decide defers
// to the next rule in the chain.
type Rule interface {
	Name() string
	Try(source, target parser.TypeDescriptor, genericPosition bool) (assignable bool, decided bool)
}

type resolverImpl struct {
	rules []Rule
}

// New builds resolver with rule chain.
func New(rules ...Rule) Resolver {
	return &resolverImpl{rules: rules}
}

func (r *resolverImpl) Assignable(source, target parser.TypeDescriptor, genericPosition bool) bool {
	for _, rule := range r.rules {
		if ok, decided := rule.Try(source, target, genericPosition); decided {
			return ok
		}
	}
	return true
}

package parser

import "github.com/cockroachdb/errors"

var (
	// ErrUnsupportedDeclaration is reported for annotated declarations that
	// are not data-carrying struct types.
	ErrUnsupportedDeclaration = errors.New("unsupported declaration")
	// ErrUnresolvableDeclaration is reported when an annotation names a type
	// that does not resolve to a known record.
	ErrUnresolvableDeclaration = errors.New("unresolvable declaration")
)

// DefaultAnnotation is the annotation name used when none is configured.
const DefaultAnnotation = "Mapper"

// Universe is the descriptor snapshot of one processing pass.
type Universe struct {
	// Records holds every described record in discovery order.
	Records []*RecordDescriptor
	// Problems collects annotated declarations rejected by the host.
	Problems []error

	index map[string]*RecordDescriptor
}

// NewUniverse returns an empty snapshot.
func NewUniverse() *Universe {
	return &Universe{index: map[string]*RecordDescriptor{}}
}

// Add registers r unless a record with the same qualified name exists.
func (u *Universe) Add(r *RecordDescriptor) bool {
	key := r.QualifiedName()
	if _, ok := u.index[key]; ok {
		return false
	}
	u.index[key] = r
	u.Records = append(u.Records, r)
	return true
}

// Lookup finds a record by qualified name.
func (u *Universe) Lookup(qualifiedName string) (*RecordDescriptor, bool) {
	r, ok := u.index[qualifiedName]
	return r, ok
}

// Annotated returns the records that carry a mapping annotation.
func (u *Universe) Annotated() []*RecordDescriptor {
	out := make([]*RecordDescriptor, 0, len(u.Records))
	for _, r := range u.Records {
		if r.Target != "" && !r.Generated {
			out = append(out, r)
		}
	}
	return out
}

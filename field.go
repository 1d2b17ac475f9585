package skemadoc

import "iter"

// Slot is anything that can sit in a field position of a composite: a plain
// Field (which resolves to itself) or a *Var. Resolution returns the payload
// together with the role the payload's subtree must be processed under.
type Slot interface {
	Resolve(role Role) (Value, Role)
	// PossibleValues enumerates every payload the slot can resolve to,
	// ignoring roles. Plain fields yield themselves once.
	PossibleValues() iter.Seq[Value]
}

// Field is the uniform contract every schema node implements. All sequences
// are lazy, finite and restartable: the graph is immutable once declared, so
// repeated traversals yield identical results.
type Field interface {
	Slot

	// IterFields yields the immediate sub-fields of this field, visiting
	// every branch of every Var slot and skipping absent branches.
	IterFields() iter.Seq[Field]

	// Walk yields the field itself, then recursively the sub-fields of every
	// branch. Document references are expanded only when throughDocuments is
	// true and the target is not already in visited.
	Walk(throughDocuments bool, visited DocumentSet) iter.Seq[Field]

	// ResolveAndIterFields is the role-aware IterFields: every slot is
	// resolved against the role first and non-matching branches are dropped.
	ResolveAndIterFields(role Role) iter.Seq[Field]

	// ResolveAndWalk is the role-aware Walk. It drives schema emission and
	// recursion detection.
	ResolveAndWalk(role Role, throughDocuments bool, visited DocumentSet) iter.Seq[Field]

	// IsRequired reports whether the field is required in its enclosing
	// object.
	IsRequired() bool

	// DefinitionsAndSchema emits the schema fragment for this field under
	// the given role, together with any definitions collected beneath it.
	DefinitionsAndSchema(role Role, scope ResolutionScope, ordered bool, refs *RefSet) (*Definitions, any, error)
}

// Common is the keyword bag shared by every field kind. Zero values emit
// nothing.
type Common struct {
	Title       string
	Description string
	Enum        []any
	Default     any
}

func (c Common) apply(f *Fragment) {
	if c.Title != "" {
		f.Set("title", c.Title)
	}
	if c.Description != "" {
		f.Set("description", c.Description)
	}
	if len(c.Enum) > 0 {
		f.Set("enum", c.Enum)
	}
	if c.Default != nil {
		f.Set("default", c.Default)
	}
}

// ApplyCommon writes the common keywords into a fragment. It exists for
// field kinds implemented outside this package.
func ApplyCommon(f *Fragment, c Common) { c.apply(f) }

// SelfValues returns the possible-values sequence of a plain field: the
// field itself, once. It implements the Slot half of the contract for any
// unconditional field.
func SelfValues(f Field) iter.Seq[Value] {
	return func(yield func(Value) bool) {
		yield(ValueOf(f))
	}
}

// LeafFields returns the sub-field sequence of a field with no sub-fields.
// Leaf kinds use it to implement IterFields and ResolveAndIterFields.
func LeafFields() iter.Seq[Field] {
	return func(func(Field) bool) {}
}

// LeafWalk returns the walk sequence of a field with no sub-fields: the
// field itself and nothing else.
func LeafWalk(f Field) iter.Seq[Field] {
	return func(yield func(Field) bool) {
		yield(f)
	}
}

// DocumentSet guards document traversal against cycles. The zero value is
// usable: a nil set contains nothing.
type DocumentSet map[*Document]struct{}

// NewDocumentSet builds a set from the given documents.
func NewDocumentSet(dd ...*Document) DocumentSet {
	s := make(DocumentSet, len(dd))
	for _, d := range dd {
		s[d] = struct{}{}
	}
	return s
}

// Has reports membership.
func (s DocumentSet) Has(d *Document) bool {
	_, ok := s[d]
	return ok
}

// With returns a copy of the set extended by d; the receiver is unchanged.
func (s DocumentSet) With(d *Document) DocumentSet {
	next := make(DocumentSet, len(s)+1)
	for k := range s {
		next[k] = struct{}{}
	}
	next[d] = struct{}{}
	return next
}

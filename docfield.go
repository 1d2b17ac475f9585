package skemadoc

import (
	"iter"
	"strconv"
)

// DocumentField embeds another document as the payload of a field. It is the
// only field kind through which the graph can form cycles, so it is also the
// place where reference emission is decided: a target that is a recursion
// member or a shared reference document compiles to a $ref instead of an
// inline fragment.
type DocumentField struct {
	required bool
	asRef    bool

	target *Document
	self   bool
	lookup string

	// owner is set once, right after the owning document is built, and only
	// read afterwards. It backs self references.
	owner *Document
}

// DocumentOf returns a field embedding the given document.
func DocumentOf(d *Document) *DocumentField {
	if d == nil {
		panic("skemadoc: DocumentOf called with a nil document")
	}
	return &DocumentField{target: d}
}

// DocumentSelf returns a field embedding the document it is declared in. The
// target is bound when that document is built.
func DocumentSelf() *DocumentField {
	return &DocumentField{self: true}
}

// DocumentNamed returns a field embedding the document registered under the
// given qualified name. The name is looked up lazily, so forward and mutual
// references between documents work as long as both are built before the
// first compilation.
func DocumentNamed(qualifiedName string) *DocumentField {
	if qualifiedName == "" {
		panic("skemadoc: DocumentNamed called with an empty name")
	}
	return &DocumentField{lookup: qualifiedName}
}

// AsRef makes the field emit its target as a named definition plus a
// reference even when the target is neither recursive nor a member of the
// caller's reference set.
func (d *DocumentField) AsRef() *DocumentField {
	d.asRef = true
	return d
}

// Required marks the field as required in its enclosing object.
func (d *DocumentField) Required() *DocumentField {
	d.required = true
	return d
}

// Target returns the referenced document, resolving self and named
// references. It fails with unknown_document when the reference cannot be
// resolved yet.
func (d *DocumentField) Target() (*Document, error) {
	switch {
	case d.target != nil:
		return d.target, nil
	case d.self:
		if d.owner == nil {
			return nil, &GenerationError{
				Code:    CodeUnknownDocument,
				Message: "self reference is not bound to a document yet",
			}
		}
		return d.owner, nil
	case d.lookup != "":
		if doc, ok := LookupDocument(d.lookup); ok {
			return doc, nil
		}
		return nil, &GenerationError{
			Code:    CodeUnknownDocument,
			Message: "no document registered as " + strconv.Quote(d.lookup),
		}
	}
	return nil, &GenerationError{
		Code:    CodeUnknownDocument,
		Message: "document reference has no target",
	}
}

func (d *DocumentField) targetOrNil() *Document {
	t, err := d.Target()
	if err != nil {
		return nil
	}
	return t
}

func (d *DocumentField) bindOwner(owner *Document) {
	if d.self && d.owner == nil {
		d.owner = owner
	}
}

// Resolve implements Slot: a plain field resolves to itself.
func (d *DocumentField) Resolve(role Role) (Value, Role) { return ValueOf(d), role }

// PossibleValues implements Slot.
func (d *DocumentField) PossibleValues() iter.Seq[Value] { return SelfValues(d) }

// IterFields yields the target document's immediate fields. Deep expansion
// stays gated behind Walk's throughDocuments flag.
func (d *DocumentField) IterFields() iter.Seq[Field] {
	t := d.targetOrNil()
	if t == nil {
		return LeafFields()
	}
	return t.IterFields()
}

// Walk yields the field itself, then the target document's deep walk when
// document traversal is on and the target is not already being expanded.
func (d *DocumentField) Walk(through bool, visited DocumentSet) iter.Seq[Field] {
	return func(yield func(Field) bool) {
		if !yield(d) {
			return
		}
		if !through {
			return
		}
		t := d.targetOrNil()
		if t == nil || visited.Has(t) {
			return
		}
		for f := range t.Walk(through, visited.With(t)) {
			if !yield(f) {
				return
			}
		}
	}
}

// ResolveAndIterFields is the role-aware IterFields.
func (d *DocumentField) ResolveAndIterFields(role Role) iter.Seq[Field] {
	t := d.targetOrNil()
	if t == nil {
		return LeafFields()
	}
	return t.ResolveAndIterFields(t.propagatedRole(normalizeRole(role)))
}

// ResolveAndWalk is the role-aware Walk. The role entering the target is the
// active one when the target's RolesToPropagate matcher admits it, the
// default role otherwise.
func (d *DocumentField) ResolveAndWalk(role Role, through bool, visited DocumentSet) iter.Seq[Field] {
	role = normalizeRole(role)
	return func(yield func(Field) bool) {
		if !yield(d) {
			return
		}
		if !through {
			return
		}
		t := d.targetOrNil()
		if t == nil || visited.Has(t) {
			return
		}
		for f := range t.ResolveAndWalk(t.propagatedRole(role), through, visited.With(t)) {
			if !yield(f) {
				return
			}
		}
	}
}

// IsRequired implements Field.
func (d *DocumentField) IsRequired() bool { return d.required }

// DefinitionsAndSchema emits the fragment for the referenced document.
//
// A recursion member resolves to a bare reference: its definition is written
// by the wrap in the target's own GetDefinitionsAndSchema. A shared reference
// document compiles exactly once, at first encounter, into the bubbled-up
// definitions; the memo is marked before descending so cycles running through
// a shared document terminate. Everything else compiles inline under a scope
// derived from the target's id.
func (d *DocumentField) DefinitionsAndSchema(role Role, scope ResolutionScope, ordered bool, refs *RefSet) (*Definitions, any, error) {
	role = normalizeRole(role)
	target, err := d.Target()
	if err != nil {
		return nil, nil, err
	}
	defID := target.GetDefinitionID()
	subRole := target.propagatedRole(role)
	subScope := scope.Derive(target.opts.id)

	switch refs.kind(target) {
	case refCycle:
		return NewDefinitions(), scope.CreateRef(defID), nil

	case refShared:
		defs := NewDefinitions()
		if !refs.compiled(target) {
			refs.markCompiled(target)
			subDefs, fragment, err := target.GetDefinitionsAndSchema(subRole, subScope, ordered, refs)
			if err != nil {
				return nil, nil, err
			}
			if err := defs.Merge(subDefs); err != nil {
				return nil, nil, err
			}
			if _, isRef := fragment.(Ref); !isRef {
				if err := defs.Add(defID, target, fragment); err != nil {
					return nil, nil, err
				}
			}
		}
		return defs, scope.CreateRef(defID), nil
	}

	defs, fragment, err := target.GetDefinitionsAndSchema(subRole, subScope, ordered, refs)
	if err != nil {
		return nil, nil, err
	}
	if _, isRef := fragment.(Ref); isRef {
		// A recursive target already wrapped itself into a definition and
		// handed back the reference.
		return defs, fragment, nil
	}
	if d.asRef {
		if err := defs.Add(defID, target, fragment); err != nil {
			return nil, nil, err
		}
		return defs, scope.CreateRef(defID), nil
	}
	if target.opts.id != "" {
		fragment = fragmentWithID(fragment, target.opts.id, ordered)
	}
	return defs, fragment, nil
}

// fragmentWithID rebuilds a fragment with the document's id as its first key.
func fragmentWithID(fragment any, id string, ordered bool) any {
	out := NewFragment(ordered)
	out.Set("id", id)
	out.Merge(fragment)
	return out.Value()
}

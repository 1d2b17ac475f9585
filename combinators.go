package skemadoc

import "iter"

// NotField negates a single slot.
type NotField struct {
	common   Common
	required bool
	slot     Slot
}

// Not returns a field negating the given slot.
func Not(s Slot) *NotField {
	if s == nil {
		panic("skemadoc: Not called with a nil slot")
	}
	return &NotField{slot: s}
}

// Required marks the field as required in its enclosing object.
func (n *NotField) Required() *NotField {
	n.required = true
	return n
}

// Title sets the title keyword.
func (n *NotField) Title(s string) *NotField {
	n.common.Title = s
	return n
}

// Description sets the description keyword.
func (n *NotField) Description(s string) *NotField {
	n.common.Description = s
	return n
}

// Enum sets the enum keyword.
func (n *NotField) Enum(vv ...any) *NotField {
	n.common.Enum = vv
	return n
}

// Default sets the default keyword.
func (n *NotField) Default(v any) *NotField {
	n.common.Default = v
	return n
}

// Resolve implements Slot: a plain field resolves to itself.
func (n *NotField) Resolve(role Role) (Value, Role) { return ValueOf(n), role }

// PossibleValues implements Slot.
func (n *NotField) PossibleValues() iter.Seq[Value] { return SelfValues(n) }

// IterFields yields every branch of the negated slot.
func (n *NotField) IterFields() iter.Seq[Field] { return unionIterFields([]Slot{n.slot}) }

// Walk yields the field itself, then deep-walks the negated slot.
func (n *NotField) Walk(through bool, visited DocumentSet) iter.Seq[Field] {
	return walkComposite(n, []Slot{n.slot}, through, visited)
}

// ResolveAndIterFields yields the field the slot resolves to under role.
func (n *NotField) ResolveAndIterFields(role Role) iter.Seq[Field] {
	return resolveIterFields([]Slot{n.slot}, role)
}

// ResolveAndWalk is the role-aware Walk.
func (n *NotField) ResolveAndWalk(role Role, through bool, visited DocumentSet) iter.Seq[Field] {
	return resolveWalkComposite(n, []Slot{n.slot}, role, through, visited)
}

// IsRequired implements Field.
func (n *NotField) IsRequired() bool { return n.required }

// DefinitionsAndSchema emits the not fragment. An operand resolving to
// absent leaves nothing to negate and is an error rather than an implicit
// empty constraint.
func (n *NotField) DefinitionsAndSchema(role Role, scope ResolutionScope, ordered bool, refs *RefSet) (*Definitions, any, error) {
	role = normalizeRole(role)
	v, subRole := n.slot.Resolve(role)
	if v.IsAbsent() {
		return nil, nil, wrapStep(&GenerationError{
			Code:    CodeAbsentOperand,
			Message: "the negated slot resolved to absent",
		}, attributeStep("not"))
	}
	f, ok := v.Field()
	if !ok {
		return nil, nil, wrapStep(&GenerationError{
			Code:    CodeInvalidPayload,
			Message: "the negated slot cannot resolve to a tuple",
		}, attributeStep("not"))
	}
	defs := NewDefinitions()
	sub, err := compileInto(defs, f, subRole, scope, ordered, refs)
	if err != nil {
		return nil, nil, wrapStep(err, attributeStep("not"))
	}
	frag := NewFragment(ordered)
	n.common.apply(frag)
	frag.Set("not", sub)
	return defs, frag.Value(), nil
}

// OfField is the combinator composite: an ordered sequence of alternative
// slots under oneOf, anyOf or allOf.
type OfField struct {
	common   Common
	required bool
	keyword  string
	slots    []Slot
}

func newOfField(keyword string, slots []Slot) *OfField {
	for _, s := range slots {
		if s == nil {
			panic("skemadoc: " + keyword + " called with a nil slot")
		}
	}
	return &OfField{keyword: keyword, slots: slots}
}

// OneOf returns a field requiring exactly one alternative to hold.
func OneOf(ss ...Slot) *OfField { return newOfField("oneOf", ss) }

// AnyOf returns a field requiring at least one alternative to hold.
func AnyOf(ss ...Slot) *OfField { return newOfField("anyOf", ss) }

// AllOf returns a field requiring every alternative to hold.
func AllOf(ss ...Slot) *OfField { return newOfField("allOf", ss) }

// Required marks the field as required in its enclosing object.
func (o *OfField) Required() *OfField {
	o.required = true
	return o
}

// Title sets the title keyword.
func (o *OfField) Title(s string) *OfField {
	o.common.Title = s
	return o
}

// Description sets the description keyword.
func (o *OfField) Description(s string) *OfField {
	o.common.Description = s
	return o
}

// Enum sets the enum keyword.
func (o *OfField) Enum(vv ...any) *OfField {
	o.common.Enum = vv
	return o
}

// Default sets the default keyword.
func (o *OfField) Default(v any) *OfField {
	o.common.Default = v
	return o
}

// Resolve implements Slot: a plain field resolves to itself.
func (o *OfField) Resolve(role Role) (Value, Role) { return ValueOf(o), role }

// PossibleValues implements Slot.
func (o *OfField) PossibleValues() iter.Seq[Value] { return SelfValues(o) }

// IterFields yields every branch of every alternative.
func (o *OfField) IterFields() iter.Seq[Field] { return unionIterFields(o.slots) }

// Walk yields the field itself, then deep-walks every alternative.
func (o *OfField) Walk(through bool, visited DocumentSet) iter.Seq[Field] {
	return walkComposite(o, o.slots, through, visited)
}

// ResolveAndIterFields yields the fields the alternatives resolve to under
// role.
func (o *OfField) ResolveAndIterFields(role Role) iter.Seq[Field] {
	return resolveIterFields(o.slots, role)
}

// ResolveAndWalk is the role-aware Walk.
func (o *OfField) ResolveAndWalk(role Role, through bool, visited DocumentSet) iter.Seq[Field] {
	return resolveWalkComposite(o, o.slots, role, through, visited)
}

// IsRequired implements Field.
func (o *OfField) IsRequired() bool { return o.required }

// DefinitionsAndSchema emits the combinator fragment. Alternatives resolving
// to absent are dropped silently; a tuple payload expands into one
// alternative per member. Ending up with no alternatives at all is an error.
func (o *OfField) DefinitionsAndSchema(role Role, scope ResolutionScope, ordered bool, refs *RefSet) (*Definitions, any, error) {
	role = normalizeRole(role)
	var members []Field
	memberRoles := map[int]Role{}
	for _, slot := range o.slots {
		v, subRole := slot.Resolve(role)
		for _, f := range v.fields() {
			memberRoles[len(members)] = subRole
			members = append(members, f)
		}
	}
	if len(members) == 0 {
		return nil, nil, wrapStep(&GenerationError{
			Code:    CodeEmptyCombinator,
			Message: "every alternative resolved to absent",
		}, attributeStep(o.keyword))
	}
	defs := NewDefinitions()
	list := make([]any, 0, len(members))
	for i, f := range members {
		sub, err := compileInto(defs, f, memberRoles[i], scope, ordered, refs)
		if err != nil {
			return nil, nil, wrapStep(wrapStep(err, itemStep(i)), attributeStep(o.keyword))
		}
		list = append(list, sub)
	}
	frag := NewFragment(ordered)
	o.common.apply(frag)
	frag.Set(o.keyword, list)
	return defs, frag.Value(), nil
}

package skemadoc

import (
	"iter"

	"github.com/speakeasy-api/openapi/sequencedmap"
)

// slotMap is an insertion-ordered name-to-slot collection shared by object
// fields and document field sets.
type slotMap struct {
	m *sequencedmap.Map[string, Slot]
}

func newSlotMap() *slotMap {
	return &slotMap{m: sequencedmap.New[string, Slot]()}
}

func (s *slotMap) set(name string, slot Slot) { s.m.Set(name, slot) }

func (s *slotMap) get(name string) (Slot, bool) { return s.m.Get(name) }

func (s *slotMap) has(name string) bool { return s.m.Has(name) }

func (s *slotMap) len() int { return s.m.Len() }

func (s *slotMap) all() iter.Seq2[string, Slot] { return s.m.All() }

func (s *slotMap) clone() *slotMap {
	next := newSlotMap()
	for name, slot := range s.m.All() {
		next.set(name, slot)
	}
	return next
}

// ObjectField is the object composite: ordered named property slots,
// ordered pattern-property slots and an optional additional-properties
// slot. Documents compile through an implicit ObjectField.
type ObjectField struct {
	common       Common
	required     bool
	props        *slotMap
	patternProps *slotMap
	additional   any // nil, bool or Slot
	minProps     *int
	maxProps     *int
}

// Object returns an empty object field.
func Object() *ObjectField { return &ObjectField{} }

// Prop declares a named property slot, keeping declaration order. Declaring
// a name twice replaces the slot in place.
func (o *ObjectField) Prop(name string, s Slot) *ObjectField {
	if s == nil {
		panic("skemadoc: Prop called with a nil slot")
	}
	if o.props == nil {
		o.props = newSlotMap()
	}
	o.props.set(name, s)
	return o
}

// PatternProp declares a pattern-property slot.
func (o *ObjectField) PatternProp(pattern string, s Slot) *ObjectField {
	if s == nil {
		panic("skemadoc: PatternProp called with a nil slot")
	}
	if o.patternProps == nil {
		o.patternProps = newSlotMap()
	}
	o.patternProps.set(pattern, s)
	return o
}

// Additional constrains additional properties by a schema slot.
func (o *ObjectField) Additional(s Slot) *ObjectField {
	if s == nil {
		panic("skemadoc: Additional called with a nil slot")
	}
	o.additional = s
	return o
}

// AdditionalAllowed permits or forbids additional properties. Allowing them
// matches the JSON Schema default, so only false is emitted.
func (o *ObjectField) AdditionalAllowed(allowed bool) *ObjectField {
	o.additional = allowed
	return o
}

// MinProps sets minProperties.
func (o *ObjectField) MinProps(n int) *ObjectField {
	o.minProps = intp(n)
	return o
}

// MaxProps sets maxProperties.
func (o *ObjectField) MaxProps(n int) *ObjectField {
	o.maxProps = intp(n)
	return o
}

// Required marks the field as required in its enclosing object.
func (o *ObjectField) Required() *ObjectField {
	o.required = true
	return o
}

// Title sets the title keyword.
func (o *ObjectField) Title(s string) *ObjectField {
	o.common.Title = s
	return o
}

// Description sets the description keyword.
func (o *ObjectField) Description(s string) *ObjectField {
	o.common.Description = s
	return o
}

// Enum sets the enum keyword.
func (o *ObjectField) Enum(vv ...any) *ObjectField {
	o.common.Enum = vv
	return o
}

// Default sets the default keyword.
func (o *ObjectField) Default(v any) *ObjectField {
	o.common.Default = v
	return o
}

func (o *ObjectField) slots() []Slot {
	var out []Slot
	if o.props != nil {
		for _, s := range o.props.all() {
			out = append(out, s)
		}
	}
	if o.patternProps != nil {
		for _, s := range o.patternProps.all() {
			out = append(out, s)
		}
	}
	if s, ok := o.additional.(Slot); ok {
		out = append(out, s)
	}
	return out
}

// Resolve implements Slot: a plain field resolves to itself.
func (o *ObjectField) Resolve(role Role) (Value, Role) { return ValueOf(o), role }

// PossibleValues implements Slot.
func (o *ObjectField) PossibleValues() iter.Seq[Value] { return SelfValues(o) }

// IterFields yields every branch of every property, pattern and additional
// slot.
func (o *ObjectField) IterFields() iter.Seq[Field] { return unionIterFields(o.slots()) }

// Walk yields the object itself, then deep-walks every branch.
func (o *ObjectField) Walk(through bool, visited DocumentSet) iter.Seq[Field] {
	return walkComposite(o, o.slots(), through, visited)
}

// ResolveAndIterFields yields the fields the slots resolve to under role.
func (o *ObjectField) ResolveAndIterFields(role Role) iter.Seq[Field] {
	return resolveIterFields(o.slots(), role)
}

// ResolveAndWalk is the role-aware Walk.
func (o *ObjectField) ResolveAndWalk(role Role, through bool, visited DocumentSet) iter.Seq[Field] {
	return resolveWalkComposite(o, o.slots(), role, through, visited)
}

// IsRequired implements Field.
func (o *ObjectField) IsRequired() bool { return o.required }

// DefinitionsAndSchema emits the object fragment. Properties resolving to
// absent are omitted entirely, including from the required list; a property
// resolving to a tuple is an error.
func (o *ObjectField) DefinitionsAndSchema(role Role, scope ResolutionScope, ordered bool, refs *RefSet) (*Definitions, any, error) {
	role = normalizeRole(role)
	defs := NewDefinitions()
	frag := NewFragment(ordered)
	frag.Set("type", "object")
	o.common.apply(frag)

	if o.props != nil {
		propsFrag := NewFragment(ordered)
		var required []string
		for name, slot := range o.props.all() {
			v, subRole := slot.Resolve(role)
			if v.IsAbsent() {
				continue
			}
			f, ok := v.Field()
			if !ok {
				return nil, nil, wrapStep(&GenerationError{
					Code:    CodeInvalidPayload,
					Message: "a named property cannot resolve to a tuple",
				}, fieldStep(name))
			}
			sub, err := compileInto(defs, f, subRole, scope, ordered, refs)
			if err != nil {
				return nil, nil, wrapStep(err, fieldStep(name))
			}
			propsFrag.Set(name, sub)
			if f.IsRequired() {
				required = append(required, name)
			}
		}
		frag.Set("properties", propsFrag.Value())
		if len(required) > 0 {
			frag.Set("required", required)
		}
	}

	if o.patternProps != nil {
		patternFrag := NewFragment(ordered)
		for pattern, slot := range o.patternProps.all() {
			v, subRole := slot.Resolve(role)
			if v.IsAbsent() {
				continue
			}
			f, ok := v.Field()
			if !ok {
				return nil, nil, wrapStep(wrapStep(&GenerationError{
					Code:    CodeInvalidPayload,
					Message: "a pattern property cannot resolve to a tuple",
				}, fieldStep(pattern)), attributeStep("patternProperties"))
			}
			sub, err := compileInto(defs, f, subRole, scope, ordered, refs)
			if err != nil {
				return nil, nil, wrapStep(wrapStep(err, fieldStep(pattern)), attributeStep("patternProperties"))
			}
			patternFrag.Set(pattern, sub)
		}
		if patternFrag.Len() > 0 {
			frag.Set("patternProperties", patternFrag.Value())
		}
	}

	switch a := o.additional.(type) {
	case nil:
	case bool:
		if !a {
			frag.Set("additionalProperties", false)
		}
	case Slot:
		v, subRole := a.Resolve(role)
		if f, ok := v.Field(); ok {
			sub, err := compileInto(defs, f, subRole, scope, ordered, refs)
			if err != nil {
				return nil, nil, wrapStep(err, attributeStep("additionalProperties"))
			}
			frag.Set("additionalProperties", sub)
		} else if !v.IsAbsent() {
			return nil, nil, wrapStep(&GenerationError{
				Code:    CodeInvalidPayload,
				Message: "additionalProperties cannot resolve to a tuple",
			}, attributeStep("additionalProperties"))
		}
	}

	if o.minProps != nil {
		frag.Set("minProperties", *o.minProps)
	}
	if o.maxProps != nil {
		frag.Set("maxProperties", *o.maxProps)
	}
	return defs, frag.Value(), nil
}

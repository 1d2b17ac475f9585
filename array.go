package skemadoc

import "iter"

// ArrayField is the array composite. Zero item slots emit no items keyword,
// one slot emits a single-schema items, several slots emit a fixed tuple.
type ArrayField struct {
	common          Common
	required        bool
	items           []Slot
	additionalItems any // nil, bool or Slot
	minItems        *int
	maxItems        *int
	unique          bool
}

// Array returns an array field over the given item slots.
func Array(items ...Slot) *ArrayField {
	for _, s := range items {
		if s == nil {
			panic("skemadoc: Array called with a nil slot")
		}
	}
	return &ArrayField{items: items}
}

// AdditionalItems constrains items beyond the fixed tuple by a schema slot.
func (a *ArrayField) AdditionalItems(s Slot) *ArrayField {
	if s == nil {
		panic("skemadoc: AdditionalItems called with a nil slot")
	}
	a.additionalItems = s
	return a
}

// AdditionalItemsAllowed permits or forbids items beyond the fixed tuple.
// Allowing them matches the JSON Schema default, so only false is emitted.
func (a *ArrayField) AdditionalItemsAllowed(allowed bool) *ArrayField {
	a.additionalItems = allowed
	return a
}

// MinItems sets minItems.
func (a *ArrayField) MinItems(n int) *ArrayField {
	a.minItems = intp(n)
	return a
}

// MaxItems sets maxItems.
func (a *ArrayField) MaxItems(n int) *ArrayField {
	a.maxItems = intp(n)
	return a
}

// Unique sets uniqueItems.
func (a *ArrayField) Unique() *ArrayField {
	a.unique = true
	return a
}

// Required marks the field as required in its enclosing object.
func (a *ArrayField) Required() *ArrayField {
	a.required = true
	return a
}

// Title sets the title keyword.
func (a *ArrayField) Title(s string) *ArrayField {
	a.common.Title = s
	return a
}

// Description sets the description keyword.
func (a *ArrayField) Description(s string) *ArrayField {
	a.common.Description = s
	return a
}

// Enum sets the enum keyword.
func (a *ArrayField) Enum(vv ...any) *ArrayField {
	a.common.Enum = vv
	return a
}

// Default sets the default keyword.
func (a *ArrayField) Default(v any) *ArrayField {
	a.common.Default = v
	return a
}

func (a *ArrayField) slots() []Slot {
	out := make([]Slot, 0, len(a.items)+1)
	out = append(out, a.items...)
	if s, ok := a.additionalItems.(Slot); ok {
		out = append(out, s)
	}
	return out
}

// Resolve implements Slot: a plain field resolves to itself.
func (a *ArrayField) Resolve(role Role) (Value, Role) { return ValueOf(a), role }

// PossibleValues implements Slot.
func (a *ArrayField) PossibleValues() iter.Seq[Value] { return SelfValues(a) }

// IterFields yields every branch of the item and additional-items slots.
func (a *ArrayField) IterFields() iter.Seq[Field] { return unionIterFields(a.slots()) }

// Walk yields the array itself, then deep-walks every branch.
func (a *ArrayField) Walk(through bool, visited DocumentSet) iter.Seq[Field] {
	return walkComposite(a, a.slots(), through, visited)
}

// ResolveAndIterFields yields the fields the slots resolve to under role.
func (a *ArrayField) ResolveAndIterFields(role Role) iter.Seq[Field] {
	return resolveIterFields(a.slots(), role)
}

// ResolveAndWalk is the role-aware Walk.
func (a *ArrayField) ResolveAndWalk(role Role, through bool, visited DocumentSet) iter.Seq[Field] {
	return resolveWalkComposite(a, a.slots(), role, through, visited)
}

// IsRequired implements Field.
func (a *ArrayField) IsRequired() bool { return a.required }

// DefinitionsAndSchema emits the array fragment. Tuple members resolving to
// absent are dropped; when every member drops, the items keyword is omitted.
func (a *ArrayField) DefinitionsAndSchema(role Role, scope ResolutionScope, ordered bool, refs *RefSet) (*Definitions, any, error) {
	role = normalizeRole(role)
	defs := NewDefinitions()
	frag := NewFragment(ordered)
	frag.Set("type", "array")
	a.common.apply(frag)

	switch {
	case len(a.items) == 1:
		v, subRole := a.items[0].Resolve(role)
		switch {
		case v.IsAbsent():
		default:
			if f, ok := v.Field(); ok {
				sub, err := compileInto(defs, f, subRole, scope, ordered, refs)
				if err != nil {
					return nil, nil, wrapStep(err, attributeStep("items"))
				}
				frag.Set("items", sub)
				break
			}
			tuple, _ := v.Tuple()
			list, err := a.compileTuple(defs, tuple, subRole, scope, ordered, refs)
			if err != nil {
				return nil, nil, err
			}
			frag.Set("items", list)
		}
	case len(a.items) > 1:
		var members []Field
		memberRoles := map[int]Role{}
		for _, slot := range a.items {
			v, subRole := slot.Resolve(role)
			for _, f := range v.fields() {
				memberRoles[len(members)] = subRole
				members = append(members, f)
			}
		}
		if len(members) > 0 {
			list := make([]any, 0, len(members))
			for i, f := range members {
				sub, err := compileInto(defs, f, memberRoles[i], scope, ordered, refs)
				if err != nil {
					return nil, nil, wrapStep(wrapStep(err, itemStep(i)), attributeStep("items"))
				}
				list = append(list, sub)
			}
			frag.Set("items", list)
		}
	}

	switch add := a.additionalItems.(type) {
	case nil:
	case bool:
		if !add {
			frag.Set("additionalItems", false)
		}
	case Slot:
		v, subRole := add.Resolve(role)
		if f, ok := v.Field(); ok {
			sub, err := compileInto(defs, f, subRole, scope, ordered, refs)
			if err != nil {
				return nil, nil, wrapStep(err, attributeStep("additionalItems"))
			}
			frag.Set("additionalItems", sub)
		} else if !v.IsAbsent() {
			return nil, nil, wrapStep(&GenerationError{
				Code:    CodeInvalidPayload,
				Message: "additionalItems cannot resolve to a tuple",
			}, attributeStep("additionalItems"))
		}
	}

	if a.minItems != nil {
		frag.Set("minItems", *a.minItems)
	}
	if a.maxItems != nil {
		frag.Set("maxItems", *a.maxItems)
	}
	if a.unique {
		frag.Set("uniqueItems", true)
	}
	return defs, frag.Value(), nil
}

func (a *ArrayField) compileTuple(defs *Definitions, tuple []Field, role Role, scope ResolutionScope, ordered bool, refs *RefSet) ([]any, error) {
	list := make([]any, 0, len(tuple))
	for i, f := range tuple {
		sub, err := compileInto(defs, f, role, scope, ordered, refs)
		if err != nil {
			return nil, wrapStep(wrapStep(err, itemStep(i)), attributeStep("items"))
		}
		list = append(list, sub)
	}
	return list, nil
}

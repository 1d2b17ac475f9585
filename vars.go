package skemadoc

import "iter"

type valueKind int

const (
	valueAbsent valueKind = iota
	valueField
	valueTuple
)

// Value is the payload a slot resolves to: absent, a single field, or a
// fixed tuple of fields. A Value can never hold another Var, so recursive
// resolution terminates by construction.
type Value struct {
	kind  valueKind
	field Field
	tuple []Field
}

// Absent returns the absent payload. A slot resolving to it is treated as
// never declared: the surrounding keyword is omitted from the output.
func Absent() Value { return Value{} }

// ValueOf wraps a single field as a payload.
func ValueOf(f Field) Value {
	if f == nil {
		panic("skemadoc: ValueOf called with a nil field")
	}
	return Value{kind: valueField, field: f}
}

// TupleOf wraps a fixed sequence of fields as a payload. Tuples are valid in
// positions that accept a schema list (array items, combinator alternatives).
func TupleOf(ff ...Field) Value {
	if len(ff) == 0 {
		panic("skemadoc: TupleOf called without fields")
	}
	for _, f := range ff {
		if f == nil {
			panic("skemadoc: TupleOf called with a nil field")
		}
	}
	return Value{kind: valueTuple, tuple: ff}
}

// IsAbsent reports whether the payload is absent.
func (v Value) IsAbsent() bool { return v.kind == valueAbsent }

// Field returns the single-field payload, if that is what the value holds.
func (v Value) Field() (Field, bool) { return v.field, v.kind == valueField }

// Tuple returns the tuple payload, if that is what the value holds.
func (v Value) Tuple() ([]Field, bool) {
	if v.kind != valueTuple {
		return nil, false
	}
	return v.tuple, true
}

// fields returns every field the payload carries, regardless of kind.
func (v Value) fields() []Field {
	switch v.kind {
	case valueField:
		return []Field{v.field}
	case valueTuple:
		return v.tuple
	default:
		return nil
	}
}

// Case is one (matcher, payload) pair of a Var. Cases are evaluated in
// declaration order; the first matcher that accepts the role wins.
type Case struct {
	when  Matcher
	value Value
}

// On builds a case matching exactly one role.
func On(role Role, v Value) Case { return Case{when: Roles(role), value: v} }

// When builds a case with an arbitrary matcher.
func When(m Matcher, v Value) Case {
	if m == nil {
		panic("skemadoc: When called with a nil matcher")
	}
	return Case{when: m, value: v}
}

// Otherwise builds a catch-all case. Place it last: cases declared after it
// are unreachable.
func Otherwise(v Value) Case { return Case{when: AnyRole(), value: v} }

// Var is a role-conditional slot: an ordered case list resolving to exactly
// one payload per role. A Var with no matching case resolves to absent.
type Var struct {
	cases     []Case
	propagate Matcher
}

// NewVar builds a Var from ordered cases.
func NewVar(cases ...Case) *Var {
	for _, c := range cases {
		if c.when == nil {
			panic("skemadoc: NewVar called with an uninitialized case")
		}
	}
	return &Var{cases: cases, propagate: AnyRole()}
}

// Propagate restricts which roles continue into the resolved payload's own
// subtree. When the matcher rejects the active role, the payload is processed
// under DefaultRole instead. The match itself is always evaluated against the
// original role.
func (v *Var) Propagate(m Matcher) *Var {
	if m == nil {
		panic("skemadoc: Propagate called with a nil matcher")
	}
	v.propagate = m
	return v
}

// Resolve implements Slot: first matching case wins, no match resolves to
// absent. The returned role is the one the payload's subtree must be
// processed under.
func (v *Var) Resolve(role Role) (Value, Role) {
	role = normalizeRole(role)
	out := Absent()
	for _, c := range v.cases {
		if c.when.Matches(role) {
			out = c.value
			break
		}
	}
	if !v.propagate.Matches(role) {
		role = DefaultRole
	}
	return out, role
}

// PossibleValues implements Slot: every case payload in declaration order,
// with no role filtering.
func (v *Var) PossibleValues() iter.Seq[Value] {
	return func(yield func(Value) bool) {
		for _, c := range v.cases {
			if !yield(c.value) {
				return
			}
		}
	}
}

package skemadoc

import "iter"

// unionIterFields yields the non-absent fields of every possible value of
// every slot, in slot order. This is the role-free IterFields of a composite.
func unionIterFields(slots []Slot) iter.Seq[Field] {
	return func(yield func(Field) bool) {
		for _, s := range slots {
			for v := range s.PossibleValues() {
				for _, f := range v.fields() {
					if !yield(f) {
						return
					}
				}
			}
		}
	}
}

// resolveIterFields yields the fields each slot resolves to under role.
func resolveIterFields(slots []Slot, role Role) iter.Seq[Field] {
	role = normalizeRole(role)
	return func(yield func(Field) bool) {
		for _, s := range slots {
			v, _ := s.Resolve(role)
			for _, f := range v.fields() {
				if !yield(f) {
					return
				}
			}
		}
	}
}

// walkComposite yields self, then deep-walks every branch of every slot.
func walkComposite(self Field, slots []Slot, through bool, visited DocumentSet) iter.Seq[Field] {
	return func(yield func(Field) bool) {
		if !yield(self) {
			return
		}
		for _, s := range slots {
			for v := range s.PossibleValues() {
				for _, f := range v.fields() {
					for sub := range f.Walk(through, visited) {
						if !yield(sub) {
							return
						}
					}
				}
			}
		}
	}
}

// resolveWalkComposite is the role-aware walkComposite. The role a slot
// resolution hands back is the one its payload's subtree is walked under.
func resolveWalkComposite(self Field, slots []Slot, role Role, through bool, visited DocumentSet) iter.Seq[Field] {
	role = normalizeRole(role)
	return func(yield func(Field) bool) {
		if !yield(self) {
			return
		}
		for _, s := range slots {
			v, subRole := s.Resolve(role)
			for _, f := range v.fields() {
				for sub := range f.ResolveAndWalk(subRole, through, visited) {
					if !yield(sub) {
						return
					}
				}
			}
		}
	}
}

// skipFirst drops the first element of a sequence. Documents use it to hide
// their implicit object field from walks.
func skipFirst(seq iter.Seq[Field]) iter.Seq[Field] {
	return func(yield func(Field) bool) {
		first := true
		for f := range seq {
			if first {
				first = false
				continue
			}
			if !yield(f) {
				return
			}
		}
	}
}

func intp(n int) *int { return &n }

// compileInto compiles one field and folds its definitions into defs.
func compileInto(defs *Definitions, f Field, role Role, scope ResolutionScope, ordered bool, refs *RefSet) (any, error) {
	sub, fragment, err := f.DefinitionsAndSchema(role, scope, ordered, refs)
	if err != nil {
		return nil, err
	}
	if err := defs.Merge(sub); err != nil {
		return nil, err
	}
	return fragment, nil
}

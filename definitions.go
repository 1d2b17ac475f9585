package skemadoc

import (
	"iter"
	"strconv"

	"github.com/speakeasy-api/openapi/sequencedmap"
)

// Definitions collects the named fragments referenced from a schema. Entries
// keep insertion order so repeated compilations of the same graph serialize
// byte-identically, and each entry remembers which document produced it so
// id collisions between distinct documents are surfaced instead of silently
// overwritten.
type Definitions struct {
	m      *sequencedmap.Map[string, any]
	owners map[string]*Document
}

// NewDefinitions returns an empty definitions map.
func NewDefinitions() *Definitions {
	return &Definitions{
		m:      sequencedmap.New[string, any](),
		owners: map[string]*Document{},
	}
}

// Add stores a fragment under a definition id on behalf of a document.
// Adding the same document's id twice keeps the first fragment; adding an id
// already claimed by a different document fails with definition_collision.
func (d *Definitions) Add(id string, owner *Document, fragment any) error {
	if prev, ok := d.owners[id]; ok {
		if prev == owner {
			return nil
		}
		return &GenerationError{
			Code:    CodeDefinitionCollision,
			Message: "definition id " + strconv.Quote(id) + " is claimed by two distinct documents",
		}
	}
	d.owners[id] = owner
	d.m.Set(id, fragment)
	return nil
}

// Merge folds another definitions map into this one, entry by entry.
func (d *Definitions) Merge(other *Definitions) error {
	if other == nil {
		return nil
	}
	for id, fragment := range other.m.All() {
		if err := d.Add(id, other.owners[id], fragment); err != nil {
			return err
		}
	}
	return nil
}

// Len returns the number of definitions.
func (d *Definitions) Len() int { return d.m.Len() }

// Get returns the fragment stored under id.
func (d *Definitions) Get(id string) (any, bool) { return d.m.Get(id) }

// All yields id/fragment pairs in insertion order.
func (d *Definitions) All() iter.Seq2[string, any] { return d.m.All() }

// Value renders the map as the value of the "definitions" keyword: a *Dict
// when ordered, a plain map otherwise.
func (d *Definitions) Value(ordered bool) any {
	if ordered {
		out := NewDict()
		for id, fragment := range d.m.All() {
			out.Set(id, fragment)
		}
		return out
	}
	out := make(map[string]any, d.m.Len())
	for id, fragment := range d.m.All() {
		out[id] = fragment
	}
	return out
}

type refKind int

const (
	refShared refKind = iota + 1 // caller-supplied: compile once, reference everywhere
	refCycle                     // recursion member: reference only, definition added by its own wrap
)

// RefSet is the set of documents that must be emitted as references instead
// of inline fragments. Callers build one with NewRefSet to de-duplicate
// shared sub-schemas; the engine extends it internally when it detects
// recursion. A nil *RefSet is valid and empty.
type RefSet struct {
	kinds map[*Document]refKind
	done  map[*Document]bool
}

// NewRefSet builds a set of shared documents: each is compiled exactly once
// into the definitions map and every occurrence is replaced by a reference.
func NewRefSet(dd ...*Document) *RefSet {
	r := &RefSet{kinds: make(map[*Document]refKind, len(dd)), done: map[*Document]bool{}}
	for _, d := range dd {
		r.kinds[d] = refShared
	}
	return r
}

// Has reports whether d must be emitted as a reference.
func (r *RefSet) Has(d *Document) bool {
	if r == nil {
		return false
	}
	_, ok := r.kinds[d]
	return ok
}

func (r *RefSet) kind(d *Document) refKind {
	if r == nil {
		return 0
	}
	return r.kinds[d]
}

// withCycle returns a set that additionally treats d as a recursion member.
// The membership is cloned so the caller's set stays untouched, while the
// compile-once memo is shared across the whole top-level compilation.
func (r *RefSet) withCycle(d *Document) *RefSet {
	next := &RefSet{kinds: map[*Document]refKind{}, done: map[*Document]bool{}}
	if r != nil {
		for k, v := range r.kinds {
			next.kinds[k] = v
		}
		next.done = r.done
	}
	next.kinds[d] = refCycle
	return next
}

func (r *RefSet) compiled(d *Document) bool {
	if r == nil {
		return false
	}
	return r.done[d]
}

func (r *RefSet) markCompiled(d *Document) {
	if r == nil {
		return
	}
	r.done[d] = true
}

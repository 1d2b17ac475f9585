package skemadoc

import (
	"bytes"
	"iter"

	json "github.com/goccy/go-json"
	"github.com/speakeasy-api/openapi/sequencedmap"
	"gopkg.in/yaml.v3"
)

// Dict is an insertion-ordered string-to-value mapping. Ordered schema
// output is built from Dicts so that properties appear in declaration order
// when marshaled to JSON or YAML.
type Dict struct {
	m *sequencedmap.Map[string, any]
}

// NewDict returns an empty ordered mapping.
func NewDict() *Dict {
	return &Dict{m: sequencedmap.New[string, any]()}
}

// Set stores a key, keeping the position of an already present key.
func (d *Dict) Set(key string, v any) *Dict {
	d.m.Set(key, v)
	return d
}

// Get returns the value stored under key.
func (d *Dict) Get(key string) (any, bool) { return d.m.Get(key) }

// Has reports whether key is present.
func (d *Dict) Has(key string) bool { return d.m.Has(key) }

// Len returns the number of keys.
func (d *Dict) Len() int { return d.m.Len() }

// Keys yields the keys in insertion order.
func (d *Dict) Keys() iter.Seq[string] { return d.m.Keys() }

// All yields key/value pairs in insertion order.
func (d *Dict) All() iter.Seq2[string, any] { return d.m.All() }

// MarshalJSON writes the mapping as a JSON object in insertion order.
func (d *Dict) MarshalJSON() ([]byte, error) {
	var buf bytes.Buffer
	buf.WriteByte('{')
	first := true
	for k, v := range d.m.All() {
		if !first {
			buf.WriteByte(',')
		}
		first = false
		kb, err := json.Marshal(k)
		if err != nil {
			return nil, err
		}
		buf.Write(kb)
		buf.WriteByte(':')
		vb, err := json.Marshal(v)
		if err != nil {
			return nil, err
		}
		buf.Write(vb)
	}
	buf.WriteByte('}')
	return buf.Bytes(), nil
}

// MarshalYAML renders the mapping as a YAML mapping node in insertion order.
func (d *Dict) MarshalYAML() (any, error) {
	node := &yaml.Node{Kind: yaml.MappingNode}
	for k, v := range d.m.All() {
		keyNode := &yaml.Node{}
		keyNode.SetString(k)
		valNode := &yaml.Node{}
		if err := valNode.Encode(v); err != nil {
			return nil, err
		}
		node.Content = append(node.Content, keyNode, valNode)
	}
	return node, nil
}

// Fragment assembles one schema fragment, honoring the ordered flag of the
// active compilation: ordered fragments become Dicts, unordered fragments
// plain maps.
type Fragment struct {
	ordered bool
	d       *Dict
	m       map[string]any
}

// NewFragment returns an empty fragment.
func NewFragment(ordered bool) *Fragment {
	if ordered {
		return &Fragment{ordered: true, d: NewDict()}
	}
	return &Fragment{m: map[string]any{}}
}

// Set stores a keyword.
func (f *Fragment) Set(key string, v any) {
	if f.ordered {
		f.d.Set(key, v)
		return
	}
	f.m[key] = v
}

// Len returns the number of keywords set so far.
func (f *Fragment) Len() int {
	if f.ordered {
		return f.d.Len()
	}
	return len(f.m)
}

// Merge copies the keys of another fragment value into this one. It accepts
// the shapes emission produces: *Dict, map[string]any and Ref.
func (f *Fragment) Merge(v any) {
	switch src := v.(type) {
	case nil:
	case *Dict:
		for k, val := range src.All() {
			f.Set(k, val)
		}
	case map[string]any:
		for k, val := range src {
			f.Set(k, val)
		}
	case Ref:
		f.Set("$ref", src.Ref)
	}
}

// Value returns the assembled fragment: a *Dict when ordered, a
// map[string]any otherwise.
func (f *Fragment) Value() any {
	if f.ordered {
		return f.d
	}
	return f.m
}

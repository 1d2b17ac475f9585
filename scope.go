package skemadoc

import "net/url"

// ResolutionScope tracks where in the URI space a fragment is being emitted.
// It is an immutable pair: base is the URI the enclosing document declared,
// output is the URI the current fragment resolves to. The zero value is the
// scope of a document without an id.
type ResolutionScope struct {
	base   string
	output string
}

// NewResolutionScope builds a scope from explicit base and output URIs.
func NewResolutionScope(base, output string) ResolutionScope {
	return ResolutionScope{base: base, output: output}
}

// Base returns the base URI.
func (s ResolutionScope) Base() string { return s.base }

// Output returns the current output URI.
func (s ResolutionScope) Output() string { return s.output }

// Derive enters a nested document declaring the given id. An empty id leaves
// the scope unchanged; otherwise the id restarts the base and the output
// becomes the id resolved against the previous base.
func (s ResolutionScope) Derive(id string) ResolutionScope {
	if id == "" {
		return s
	}
	return ResolutionScope{base: id, output: resolveURI(s.base, id)}
}

// CreateRef builds the reference pointing at a definition, relative to the
// current output URI.
func (s ResolutionScope) CreateRef(definitionID string) Ref {
	if s.base == s.output {
		return Ref{Ref: "#/definitions/" + definitionID}
	}
	return Ref{Ref: s.output + "#/definitions/" + definitionID}
}

// withOutputReset anchors the output back at the base. Applied before
// compiling a recursive document so the reference that closes the cycle is
// resolvable from the document's own root rather than from whatever nested
// scope triggered the compile.
func (s ResolutionScope) withOutputReset() ResolutionScope {
	s.output = s.base
	return s
}

func resolveURI(base, ref string) string {
	if base == "" {
		return ref
	}
	bu, err := url.Parse(base)
	if err != nil {
		return ref
	}
	ru, err := url.Parse(ref)
	if err != nil {
		return ref
	}
	return bu.ResolveReference(ru).String()
}

// Ref is a JSON-Pointer reference fragment. Recursive and shared documents
// are emitted as a Ref in place of their inline schema.
type Ref struct {
	Ref string `json:"$ref" yaml:"$ref"`
}

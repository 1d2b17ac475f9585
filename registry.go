package skemadoc

import "sync"

// registry is the process-wide qualified-name index of built documents.
// Build populates it; DocumentNamed and diagnostics read it. Compilation
// never needs it: the graph carries direct references.
type registry struct {
	mu   sync.RWMutex
	docs map[string]*Document
}

var defaultRegistry = &registry{docs: map[string]*Document{}}

func (r *registry) put(d *Document) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.docs[d.QualifiedName()] = d
}

func (r *registry) lookup(name string) (*Document, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	d, ok := r.docs[name]
	return d, ok
}

func (r *registry) remove(name string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	delete(r.docs, name)
}

func (r *registry) clear() {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.docs = map[string]*Document{}
}

// LookupDocument returns the document built under the given qualified name.
// Rebuilding a document under a name already taken replaces the entry.
func LookupDocument(qualifiedName string) (*Document, bool) {
	return defaultRegistry.lookup(qualifiedName)
}

// RemoveDocument drops one document from the registry.
func RemoveDocument(qualifiedName string) {
	defaultRegistry.remove(qualifiedName)
}

// ClearRegistry empties the registry. Meant for tests that build throwaway
// documents.
func ClearRegistry() {
	defaultRegistry.clear()
}

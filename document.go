package skemadoc

import (
	"iter"
	"strconv"
)

// DefaultSchemaURI is the meta-schema generated documents declare unless the
// builder overrides it.
const DefaultSchemaURI = "http://json-schema.org/draft-04/schema#"

type documentOptions struct {
	id               string
	schemaURI        string
	definitionID     string
	rolesToPropagate Matcher
}

// Document is a named, ordered collection of field slots plus schema-level
// metadata. It compiles through an implicit object field built once from the
// merged field set. Documents are immutable after Build; compiling never
// mutates the graph, so concurrent compilations are safe.
type Document struct {
	name      string
	namespace string
	opts      documentOptions
	fields    *slotMap
	field     *ObjectField
}

type declaration struct {
	name  string
	slot  Slot   // direct declaration
	field Field  // scoped declaration
	scope *Scope // nil for direct declarations
}

type patternDecl struct {
	pattern string
	slot    Slot
}

// DocumentBuilder accumulates field declarations and options for a document.
// Declarations are validated by Build, which returns every misuse as an
// error instead of panicking.
type DocumentBuilder struct {
	name      string
	namespace string

	decls   []declaration
	scopes  []*Scope
	parents []*Document

	id           string
	schemaURI    string
	schemaURISet bool
	definitionID string
	propagate    Matcher

	additional    any
	additionalSet bool
	patterns      []patternDecl
	minProps      *int
	maxProps      *int
	common        Common
}

// New starts a document builder.
func New(name string) *DocumentBuilder {
	return &DocumentBuilder{name: name}
}

// Namespace qualifies the document name; the qualified name is
// "<namespace>.<name>" and keys the registry and the default definition id.
func (b *DocumentBuilder) Namespace(ns string) *DocumentBuilder {
	b.namespace = ns
	return b
}

// Field declares a named slot. Declaration order is the property order of
// the generated schema.
func (b *DocumentBuilder) Field(name string, s Slot) *DocumentBuilder {
	b.decls = append(b.decls, declaration{name: name, slot: s})
	return b
}

// Scope opens a role-scoped declaration group: its fields exist only for
// roles the matcher accepts. A name declared in several scopes merges into
// one Var with one case per scope, in scope-creation order.
func (b *DocumentBuilder) Scope(m Matcher) *Scope {
	if m == nil {
		panic("skemadoc: Scope called with a nil matcher")
	}
	s := &Scope{b: b, matcher: m}
	b.scopes = append(b.scopes, s)
	return s
}

// Extend merges the parents' field sets into this document, first parent
// first, so later parents and this document's own declarations override
// same-named fields. Overriding keeps the overridden field's position.
// Options are not inherited.
func (b *DocumentBuilder) Extend(parents ...*Document) *DocumentBuilder {
	b.parents = append(b.parents, parents...)
	return b
}

// ID sets the schema identifier URI.
func (b *DocumentBuilder) ID(id string) *DocumentBuilder {
	b.id = id
	return b
}

// SchemaURI overrides the meta-schema URI. Setting it to the empty string
// omits the $schema keyword entirely.
func (b *DocumentBuilder) SchemaURI(uri string) *DocumentBuilder {
	b.schemaURI = uri
	b.schemaURISet = true
	return b
}

// DefinitionID overrides the definitions key derived from the qualified
// name.
func (b *DocumentBuilder) DefinitionID(id string) *DocumentBuilder {
	b.definitionID = id
	return b
}

// RolesToPropagate controls which roles survive into this document when it
// is compiled through a document reference; roles the matcher rejects enter
// as DefaultRole. Default: every role survives.
func (b *DocumentBuilder) RolesToPropagate(m Matcher) *DocumentBuilder {
	if m == nil {
		panic("skemadoc: RolesToPropagate called with a nil matcher")
	}
	b.propagate = m
	return b
}

// AdditionalAllowed permits or forbids properties beyond the declared ones.
// Documents forbid them unless told otherwise.
func (b *DocumentBuilder) AdditionalAllowed(allowed bool) *DocumentBuilder {
	b.additional = allowed
	b.additionalSet = true
	return b
}

// Additional constrains additional properties by a schema slot.
func (b *DocumentBuilder) Additional(s Slot) *DocumentBuilder {
	b.additional = s
	b.additionalSet = true
	return b
}

// PatternProp declares a pattern-property slot.
func (b *DocumentBuilder) PatternProp(pattern string, s Slot) *DocumentBuilder {
	b.patterns = append(b.patterns, patternDecl{pattern: pattern, slot: s})
	return b
}

// MinProps sets minProperties.
func (b *DocumentBuilder) MinProps(n int) *DocumentBuilder {
	b.minProps = intp(n)
	return b
}

// MaxProps sets maxProperties.
func (b *DocumentBuilder) MaxProps(n int) *DocumentBuilder {
	b.maxProps = intp(n)
	return b
}

// Title sets the title keyword.
func (b *DocumentBuilder) Title(s string) *DocumentBuilder {
	b.common.Title = s
	return b
}

// Description sets the description keyword.
func (b *DocumentBuilder) Description(s string) *DocumentBuilder {
	b.common.Description = s
	return b
}

// Enum sets the enum keyword.
func (b *DocumentBuilder) Enum(vv ...any) *DocumentBuilder {
	b.common.Enum = vv
	return b
}

// Default sets the default keyword.
func (b *DocumentBuilder) Default(v any) *DocumentBuilder {
	b.common.Default = v
	return b
}

// Build validates the declarations, merges parent fields, synthesizes the
// implicit object field, registers the document and binds self references.
func (b *DocumentBuilder) Build() (*Document, error) {
	if b.name == "" {
		return nil, &GenerationError{
			Code:    CodeInvalidDeclaration,
			Message: "document name is empty",
		}
	}

	fields := newSlotMap()
	for _, parent := range b.parents {
		if parent == nil {
			return nil, &GenerationError{
				Code:    CodeInvalidDeclaration,
				Message: "document " + strconv.Quote(b.name) + " extends a nil document",
			}
		}
		for name, slot := range parent.fields.all() {
			fields.set(name, slot)
		}
	}

	plain := map[string]bool{}
	scoped := map[string]bool{}
	byScope := map[*Scope]map[string]Field{}
	for _, d := range b.decls {
		if d.name == "" {
			return nil, &GenerationError{
				Code:    CodeInvalidDeclaration,
				Message: "a field of document " + strconv.Quote(b.name) + " is declared with an empty name",
			}
		}
		if d.scope == nil {
			if d.slot == nil {
				return nil, &GenerationError{
					Code:    CodeInvalidDeclaration,
					Message: "field " + strconv.Quote(d.name) + " is declared with a nil slot",
				}
			}
			if plain[d.name] {
				return nil, &GenerationError{
					Code:    CodeDuplicateField,
					Message: "field " + strconv.Quote(d.name) + " is declared twice",
				}
			}
			if scoped[d.name] {
				return nil, &GenerationError{
					Code:    CodeDuplicateField,
					Message: "field " + strconv.Quote(d.name) + " is declared both directly and in a role scope",
				}
			}
			plain[d.name] = true
			continue
		}
		if d.field == nil {
			return nil, &GenerationError{
				Code:    CodeInvalidDeclaration,
				Message: "scoped field " + strconv.Quote(d.name) + " is declared with a nil field",
			}
		}
		if plain[d.name] {
			return nil, &GenerationError{
				Code:    CodeDuplicateField,
				Message: "field " + strconv.Quote(d.name) + " is declared both directly and in a role scope",
			}
		}
		group := byScope[d.scope]
		if group == nil {
			group = map[string]Field{}
			byScope[d.scope] = group
		}
		if _, dup := group[d.name]; dup {
			return nil, &GenerationError{
				Code:    CodeDuplicateField,
				Message: "field " + strconv.Quote(d.name) + " is declared twice in one role scope",
			}
		}
		group[d.name] = d.field
		scoped[d.name] = true
	}

	merged := map[string]bool{}
	for _, d := range b.decls {
		if d.scope == nil {
			fields.set(d.name, d.slot)
			continue
		}
		if merged[d.name] {
			continue
		}
		merged[d.name] = true
		var cases []Case
		for _, sc := range b.scopes {
			if f, ok := byScope[sc][d.name]; ok {
				cases = append(cases, When(sc.matcher, ValueOf(f)))
			}
		}
		fields.set(d.name, NewVar(cases...))
	}

	// The merged map becomes the property set as-is, so even an empty
	// document emits a properties keyword.
	obj := Object()
	obj.props = fields
	for _, p := range b.patterns {
		if p.slot == nil {
			return nil, &GenerationError{
				Code:    CodeInvalidDeclaration,
				Message: "pattern property " + strconv.Quote(p.pattern) + " is declared with a nil slot",
			}
		}
		obj.PatternProp(p.pattern, p.slot)
	}
	if b.additionalSet {
		switch v := b.additional.(type) {
		case bool:
			obj.AdditionalAllowed(v)
		case Slot:
			obj.Additional(v)
		}
	} else {
		obj.AdditionalAllowed(false)
	}
	if b.minProps != nil {
		obj.MinProps(*b.minProps)
	}
	if b.maxProps != nil {
		obj.MaxProps(*b.maxProps)
	}
	if b.common.Title != "" {
		obj.Title(b.common.Title)
	}
	if b.common.Description != "" {
		obj.Description(b.common.Description)
	}
	if len(b.common.Enum) > 0 {
		obj.Enum(b.common.Enum...)
	}
	if b.common.Default != nil {
		obj.Default(b.common.Default)
	}

	opts := documentOptions{
		id:               b.id,
		schemaURI:        DefaultSchemaURI,
		definitionID:     b.definitionID,
		rolesToPropagate: b.propagate,
	}
	if b.schemaURISet {
		opts.schemaURI = b.schemaURI
	}
	if opts.rolesToPropagate == nil {
		opts.rolesToPropagate = AnyRole()
	}

	doc := &Document{
		name:      b.name,
		namespace: b.namespace,
		opts:      opts,
		fields:    fields,
		field:     obj,
	}
	defaultRegistry.put(doc)
	for f := range doc.Walk(false, NewDocumentSet(doc)) {
		if df, ok := f.(*DocumentField); ok {
			df.bindOwner(doc)
		}
	}
	return doc, nil
}

// MustBuild is Build, panicking on error.
func (b *DocumentBuilder) MustBuild() *Document {
	doc, err := b.Build()
	if err != nil {
		panic(err)
	}
	return doc
}

// Scope collects field declarations bound to one role matcher.
type Scope struct {
	b       *DocumentBuilder
	matcher Matcher
}

// Field declares a field that exists only for roles this scope's matcher
// accepts.
func (s *Scope) Field(name string, f Field) *Scope {
	s.b.decls = append(s.b.decls, declaration{name: name, field: f, scope: s})
	return s
}

// Name returns the document name.
func (d *Document) Name() string { return d.name }

// Namespace returns the document namespace, which may be empty.
func (d *Document) Namespace() string { return d.namespace }

// QualifiedName returns "<namespace>.<name>", or the bare name when no
// namespace is set.
func (d *Document) QualifiedName() string {
	if d.namespace == "" {
		return d.name
	}
	return d.namespace + "." + d.name
}

// GetDefinitionID returns the key this document uses in the definitions
// section: the explicit override when set, the qualified name otherwise.
func (d *Document) GetDefinitionID() string {
	if d.opts.definitionID != "" {
		return d.opts.definitionID
	}
	return d.QualifiedName()
}

func (d *Document) propagatedRole(role Role) Role {
	if d.opts.rolesToPropagate.Matches(role) {
		return role
	}
	return DefaultRole
}

// IterFields yields the document's immediate fields, visiting every branch
// of every Var slot.
func (d *Document) IterFields() iter.Seq[Field] {
	return d.field.IterFields()
}

// Walk deep-walks the document's fields. The implicit object field itself is
// not yielded.
func (d *Document) Walk(through bool, visited DocumentSet) iter.Seq[Field] {
	return skipFirst(d.field.Walk(through, visited))
}

// ResolveAndIterFields is the role-aware IterFields.
func (d *Document) ResolveAndIterFields(role Role) iter.Seq[Field] {
	return d.field.ResolveAndIterFields(role)
}

// ResolveAndWalk is the role-aware Walk.
func (d *Document) ResolveAndWalk(role Role, through bool, visited DocumentSet) iter.Seq[Field] {
	return skipFirst(d.field.ResolveAndWalk(role, through, visited))
}

// ResolveField resolves one named slot against a role. The last return
// reports whether the document declares the name at all.
func (d *Document) ResolveField(name string, role Role) (Value, Role, bool) {
	slot, ok := d.fields.get(name)
	if !ok {
		return Absent(), normalizeRole(role), false
	}
	v, r := slot.Resolve(normalizeRole(role))
	return v, r, true
}

// IsRecursive reports whether the document can reach a reference back to
// itself under the given role. A self reference hidden behind a Var branch
// the role does not match does not count.
func (d *Document) IsRecursive(role Role) bool {
	for f := range d.ResolveAndWalk(role, true, NewDocumentSet(d)) {
		if df, ok := f.(*DocumentField); ok && df.targetOrNil() == d {
			return true
		}
	}
	return false
}

// GetDefinitionsAndSchema compiles the document into a schema fragment plus
// the definitions referenced from it. It is the composable primitive behind
// GetSchema: nested documents and reference sets call it with a derived
// scope and the shared RefSet.
//
// A document recursive under the role compiles with itself registered as a
// cycle member and the scope output reset to its base, then moves its
// fragment into the definitions and returns the closing reference instead.
func (d *Document) GetDefinitionsAndSchema(role Role, scope ResolutionScope, ordered bool, refs *RefSet) (*Definitions, any, error) {
	role = normalizeRole(role)
	recursive := d.IsRecursive(role)
	if recursive {
		refs = refs.withCycle(d)
		scope = scope.withOutputReset()
	}
	defs, fragment, err := d.field.DefinitionsAndSchema(role, scope, ordered, refs)
	if err != nil {
		return nil, nil, wrapStep(err, documentStep(d.QualifiedName(), role))
	}
	if recursive {
		defID := d.GetDefinitionID()
		if err := defs.Add(defID, d, fragment); err != nil {
			return nil, nil, wrapStep(err, documentStep(d.QualifiedName(), role))
		}
		return defs, scope.CreateRef(defID), nil
	}
	return defs, fragment, nil
}

type schemaConfig struct {
	role    Role
	ordered bool
}

// SchemaOption configures the convenience entry points.
type SchemaOption func(*schemaConfig)

// WithRole selects the role the schema is generated for.
func WithRole(role Role) SchemaOption {
	return func(c *schemaConfig) { c.role = role }
}

// WithOrdered makes the output preserve declaration order: mappings come
// back as *Dict instead of plain maps.
func WithOrdered() SchemaOption {
	return func(c *schemaConfig) { c.ordered = true }
}

func newSchemaConfig(opts []SchemaOption) schemaConfig {
	var cfg schemaConfig
	for _, opt := range opts {
		opt(&cfg)
	}
	cfg.role = normalizeRole(cfg.role)
	return cfg
}

// GetSchema compiles the document into a complete schema: the id and
// $schema keywords, the collected definitions, then the document fragment.
func (d *Document) GetSchema(opts ...SchemaOption) (any, error) {
	cfg := newSchemaConfig(opts)
	scope := NewResolutionScope(d.opts.id, d.opts.id)
	defs, fragment, err := d.GetDefinitionsAndSchema(cfg.role, scope, cfg.ordered, nil)
	if err != nil {
		return nil, err
	}
	out := NewFragment(cfg.ordered)
	if d.opts.id != "" {
		out.Set("id", d.opts.id)
	}
	if d.opts.schemaURI != "" {
		out.Set("$schema", d.opts.schemaURI)
	}
	if defs.Len() > 0 {
		out.Set("definitions", defs.Value(cfg.ordered))
	}
	out.Merge(fragment)
	return out.Value(), nil
}

// MustGetSchema is GetSchema, panicking on error.
func (d *Document) MustGetSchema(opts ...SchemaOption) any {
	schema, err := d.GetSchema(opts...)
	if err != nil {
		panic(err)
	}
	return schema
}

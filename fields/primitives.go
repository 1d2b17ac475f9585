// Package fields carries the scalar field kinds: string, number, integer,
// boolean and null attribute bags. They implement the skemadoc field
// contract from outside the engine package, the same way user-defined kinds
// would.
package fields

import (
	"iter"

	"github.com/skemadoc/skemadoc"
)

var (
	_ skemadoc.Field = (*StringField)(nil)
	_ skemadoc.Field = (*NumberField)(nil)
	_ skemadoc.Field = (*IntField)(nil)
	_ skemadoc.Field = (*BooleanField)(nil)
	_ skemadoc.Field = (*NullField)(nil)
)

// leaf implements the traversal half of the contract shared by every scalar
// kind: a leaf resolves to itself and has no sub-fields.
type leaf struct {
	self     skemadoc.Field
	required bool
	common   skemadoc.Common
}

func (l *leaf) Resolve(role skemadoc.Role) (skemadoc.Value, skemadoc.Role) {
	return skemadoc.ValueOf(l.self), role
}

func (l *leaf) PossibleValues() iter.Seq[skemadoc.Value] {
	return skemadoc.SelfValues(l.self)
}

func (l *leaf) IterFields() iter.Seq[skemadoc.Field] {
	return skemadoc.LeafFields()
}

func (l *leaf) Walk(through bool, visited skemadoc.DocumentSet) iter.Seq[skemadoc.Field] {
	return skemadoc.LeafWalk(l.self)
}

func (l *leaf) ResolveAndIterFields(role skemadoc.Role) iter.Seq[skemadoc.Field] {
	return skemadoc.LeafFields()
}

func (l *leaf) ResolveAndWalk(role skemadoc.Role, through bool, visited skemadoc.DocumentSet) iter.Seq[skemadoc.Field] {
	return skemadoc.LeafWalk(l.self)
}

func (l *leaf) IsRequired() bool { return l.required }

// numeric holds the shared number/integer constraint keywords. Pointers and
// flags emit only when set.
type numeric struct {
	minimum      *float64
	exclusiveMin bool
	maximum      *float64
	exclusiveMax bool
	multipleOf   *float64
}

func (n numeric) apply(frag *skemadoc.Fragment) {
	if n.minimum != nil {
		frag.Set("minimum", *n.minimum)
	}
	if n.exclusiveMin {
		frag.Set("exclusiveMinimum", true)
	}
	if n.maximum != nil {
		frag.Set("maximum", *n.maximum)
	}
	if n.exclusiveMax {
		frag.Set("exclusiveMaximum", true)
	}
	if n.multipleOf != nil {
		frag.Set("multipleOf", *n.multipleOf)
	}
}

func floatp(v float64) *float64 { return &v }
func intp(v int) *int           { return &v }

// StringField emits "type": "string" plus the string constraint keywords.
type StringField struct {
	leaf
	minLength *int
	maxLength *int
	pattern   string
	format    string
}

// String returns a string field.
func String() *StringField {
	f := &StringField{}
	f.leaf.self = f
	return f
}

// DateTime returns a string field with the date-time format.
func DateTime() *StringField { return String().Format("date-time") }

// Email returns a string field with the email format.
func Email() *StringField { return String().Format("email") }

// IPv4 returns a string field with the ipv4 format.
func IPv4() *StringField { return String().Format("ipv4") }

// URI returns a string field with the uri format.
func URI() *StringField { return String().Format("uri") }

// MinLength sets the minimum length.
func (f *StringField) MinLength(n int) *StringField {
	f.minLength = intp(n)
	return f
}

// MaxLength sets the maximum length.
func (f *StringField) MaxLength(n int) *StringField {
	f.maxLength = intp(n)
	return f
}

// Pattern constrains values to a regular expression.
func (f *StringField) Pattern(p string) *StringField {
	f.pattern = p
	return f
}

// Format sets the format keyword.
func (f *StringField) Format(format string) *StringField {
	f.format = format
	return f
}

// Required marks the field as required in its enclosing object.
func (f *StringField) Required() *StringField {
	f.leaf.required = true
	return f
}

// Title sets the title keyword.
func (f *StringField) Title(s string) *StringField {
	f.leaf.common.Title = s
	return f
}

// Description sets the description keyword.
func (f *StringField) Description(s string) *StringField {
	f.leaf.common.Description = s
	return f
}

// Enum sets the enum keyword.
func (f *StringField) Enum(vv ...any) *StringField {
	f.leaf.common.Enum = vv
	return f
}

// Default sets the default keyword.
func (f *StringField) Default(v any) *StringField {
	f.leaf.common.Default = v
	return f
}

// DefinitionsAndSchema emits the string fragment.
func (f *StringField) DefinitionsAndSchema(role skemadoc.Role, scope skemadoc.ResolutionScope, ordered bool, refs *skemadoc.RefSet) (*skemadoc.Definitions, any, error) {
	frag := skemadoc.NewFragment(ordered)
	frag.Set("type", "string")
	skemadoc.ApplyCommon(frag, f.leaf.common)
	if f.minLength != nil {
		frag.Set("minLength", *f.minLength)
	}
	if f.maxLength != nil {
		frag.Set("maxLength", *f.maxLength)
	}
	if f.pattern != "" {
		frag.Set("pattern", f.pattern)
	}
	if f.format != "" {
		frag.Set("format", f.format)
	}
	return skemadoc.NewDefinitions(), frag.Value(), nil
}

// NumberField emits "type": "number" plus the numeric constraint keywords.
type NumberField struct {
	leaf
	numeric
}

// Number returns a number field.
func Number() *NumberField {
	f := &NumberField{}
	f.leaf.self = f
	return f
}

// Minimum sets the minimum keyword.
func (f *NumberField) Minimum(v float64) *NumberField {
	f.numeric.minimum = floatp(v)
	return f
}

// ExclusiveMinimum marks the minimum as exclusive.
func (f *NumberField) ExclusiveMinimum() *NumberField {
	f.numeric.exclusiveMin = true
	return f
}

// Maximum sets the maximum keyword.
func (f *NumberField) Maximum(v float64) *NumberField {
	f.numeric.maximum = floatp(v)
	return f
}

// ExclusiveMaximum marks the maximum as exclusive.
func (f *NumberField) ExclusiveMaximum() *NumberField {
	f.numeric.exclusiveMax = true
	return f
}

// MultipleOf sets the multipleOf keyword.
func (f *NumberField) MultipleOf(v float64) *NumberField {
	f.numeric.multipleOf = floatp(v)
	return f
}

// Required marks the field as required in its enclosing object.
func (f *NumberField) Required() *NumberField {
	f.leaf.required = true
	return f
}

// Title sets the title keyword.
func (f *NumberField) Title(s string) *NumberField {
	f.leaf.common.Title = s
	return f
}

// Description sets the description keyword.
func (f *NumberField) Description(s string) *NumberField {
	f.leaf.common.Description = s
	return f
}

// Enum sets the enum keyword.
func (f *NumberField) Enum(vv ...any) *NumberField {
	f.leaf.common.Enum = vv
	return f
}

// Default sets the default keyword.
func (f *NumberField) Default(v any) *NumberField {
	f.leaf.common.Default = v
	return f
}

// DefinitionsAndSchema emits the number fragment.
func (f *NumberField) DefinitionsAndSchema(role skemadoc.Role, scope skemadoc.ResolutionScope, ordered bool, refs *skemadoc.RefSet) (*skemadoc.Definitions, any, error) {
	frag := skemadoc.NewFragment(ordered)
	frag.Set("type", "number")
	skemadoc.ApplyCommon(frag, f.leaf.common)
	f.numeric.apply(frag)
	return skemadoc.NewDefinitions(), frag.Value(), nil
}

// IntField emits "type": "integer" plus the numeric constraint keywords.
type IntField struct {
	leaf
	numeric
}

// Int returns an integer field.
func Int() *IntField {
	f := &IntField{}
	f.leaf.self = f
	return f
}

// Minimum sets the minimum keyword.
func (f *IntField) Minimum(v int) *IntField {
	f.numeric.minimum = floatp(float64(v))
	return f
}

// ExclusiveMinimum marks the minimum as exclusive.
func (f *IntField) ExclusiveMinimum() *IntField {
	f.numeric.exclusiveMin = true
	return f
}

// Maximum sets the maximum keyword.
func (f *IntField) Maximum(v int) *IntField {
	f.numeric.maximum = floatp(float64(v))
	return f
}

// ExclusiveMaximum marks the maximum as exclusive.
func (f *IntField) ExclusiveMaximum() *IntField {
	f.numeric.exclusiveMax = true
	return f
}

// MultipleOf sets the multipleOf keyword.
func (f *IntField) MultipleOf(v int) *IntField {
	f.numeric.multipleOf = floatp(float64(v))
	return f
}

// Required marks the field as required in its enclosing object.
func (f *IntField) Required() *IntField {
	f.leaf.required = true
	return f
}

// Title sets the title keyword.
func (f *IntField) Title(s string) *IntField {
	f.leaf.common.Title = s
	return f
}

// Description sets the description keyword.
func (f *IntField) Description(s string) *IntField {
	f.leaf.common.Description = s
	return f
}

// Enum sets the enum keyword.
func (f *IntField) Enum(vv ...any) *IntField {
	f.leaf.common.Enum = vv
	return f
}

// Default sets the default keyword.
func (f *IntField) Default(v any) *IntField {
	f.leaf.common.Default = v
	return f
}

// DefinitionsAndSchema emits the integer fragment.
func (f *IntField) DefinitionsAndSchema(role skemadoc.Role, scope skemadoc.ResolutionScope, ordered bool, refs *skemadoc.RefSet) (*skemadoc.Definitions, any, error) {
	frag := skemadoc.NewFragment(ordered)
	frag.Set("type", "integer")
	skemadoc.ApplyCommon(frag, f.leaf.common)
	f.numeric.apply(frag)
	return skemadoc.NewDefinitions(), frag.Value(), nil
}

// BooleanField emits "type": "boolean".
type BooleanField struct {
	leaf
}

// Bool returns a boolean field.
func Bool() *BooleanField {
	f := &BooleanField{}
	f.leaf.self = f
	return f
}

// Required marks the field as required in its enclosing object.
func (f *BooleanField) Required() *BooleanField {
	f.leaf.required = true
	return f
}

// Title sets the title keyword.
func (f *BooleanField) Title(s string) *BooleanField {
	f.leaf.common.Title = s
	return f
}

// Description sets the description keyword.
func (f *BooleanField) Description(s string) *BooleanField {
	f.leaf.common.Description = s
	return f
}

// Enum sets the enum keyword.
func (f *BooleanField) Enum(vv ...any) *BooleanField {
	f.leaf.common.Enum = vv
	return f
}

// Default sets the default keyword.
func (f *BooleanField) Default(v any) *BooleanField {
	f.leaf.common.Default = v
	return f
}

// DefinitionsAndSchema emits the boolean fragment.
func (f *BooleanField) DefinitionsAndSchema(role skemadoc.Role, scope skemadoc.ResolutionScope, ordered bool, refs *skemadoc.RefSet) (*skemadoc.Definitions, any, error) {
	frag := skemadoc.NewFragment(ordered)
	frag.Set("type", "boolean")
	skemadoc.ApplyCommon(frag, f.leaf.common)
	return skemadoc.NewDefinitions(), frag.Value(), nil
}

// NullField emits "type": "null".
type NullField struct {
	leaf
}

// Null returns a null field.
func Null() *NullField {
	f := &NullField{}
	f.leaf.self = f
	return f
}

// Required marks the field as required in its enclosing object.
func (f *NullField) Required() *NullField {
	f.leaf.required = true
	return f
}

// Title sets the title keyword.
func (f *NullField) Title(s string) *NullField {
	f.leaf.common.Title = s
	return f
}

// Description sets the description keyword.
func (f *NullField) Description(s string) *NullField {
	f.leaf.common.Description = s
	return f
}

// DefinitionsAndSchema emits the null fragment.
func (f *NullField) DefinitionsAndSchema(role skemadoc.Role, scope skemadoc.ResolutionScope, ordered bool, refs *skemadoc.RefSet) (*skemadoc.Definitions, any, error) {
	frag := skemadoc.NewFragment(ordered)
	frag.Set("type", "null")
	skemadoc.ApplyCommon(frag, f.leaf.common)
	return skemadoc.NewDefinitions(), frag.Value(), nil
}

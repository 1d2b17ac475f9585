package skemadoc_test

import (
	"bytes"
	"reflect"
	"testing"

	"github.com/skemadoc/skemadoc"
	"github.com/skemadoc/skemadoc/fields"
)

func TestIsRecursive(t *testing.T) {
	plain := skemadoc.New("Flat").
		Namespace("rec").
		Field("x", fields.String()).
		MustBuild()
	if plain.IsRecursive(skemadoc.DefaultRole) {
		t.Fatalf("flat document reported recursive")
	}

	node := skemadoc.New("Node").
		Namespace("rec").
		Field("next", skemadoc.DocumentSelf()).
		MustBuild()
	if !node.IsRecursive(skemadoc.DefaultRole) {
		t.Fatalf("self-referential document not reported recursive")
	}
}

func TestIsRecursive_RoleSensitive(t *testing.T) {
	b := skemadoc.New("CondNode").Namespace("rec")
	b.Field("child", skemadoc.NewVar(
		skemadoc.On("deep", skemadoc.ValueOf(skemadoc.DocumentSelf())),
	))
	doc := b.MustBuild()

	if !doc.IsRecursive("deep") {
		t.Fatalf("recursion behind a matching branch not detected")
	}
	if doc.IsRecursive(skemadoc.DefaultRole) {
		t.Fatalf("recursion behind a non-matching branch should not count")
	}
}

func TestGetSchema_SelfRecursive(t *testing.T) {
	tree := skemadoc.New("Tree").
		Namespace("rec").
		Field("value", fields.String().Required()).
		Field("children", skemadoc.Array(skemadoc.DocumentSelf())).
		MustBuild()

	schema, err := tree.GetSchema()
	if err != nil {
		t.Fatalf("GetSchema: %v", err)
	}
	assertSchema(t, schema, map[string]any{
		"$schema": "http://json-schema.org/draft-04/schema#",
		"definitions": map[string]any{
			"rec.Tree": map[string]any{
				"type": "object",
				"properties": map[string]any{
					"value": map[string]any{"type": "string"},
					"children": map[string]any{
						"type":  "array",
						"items": map[string]any{"$ref": "#/definitions/rec.Tree"},
					},
				},
				"required":             []any{"value"},
				"additionalProperties": false,
			},
		},
		"$ref": "#/definitions/rec.Tree",
	})
}

func TestGetSchema_RecursiveIsIdempotent(t *testing.T) {
	tree := skemadoc.New("IdemTree").
		Namespace("rec").
		Field("next", skemadoc.DocumentSelf()).
		MustBuild()

	first, err := tree.SchemaJSON(skemadoc.WithOrdered())
	if err != nil {
		t.Fatalf("first: %v", err)
	}
	second, err := tree.SchemaJSON(skemadoc.WithOrdered())
	if err != nil {
		t.Fatalf("second: %v", err)
	}
	if !bytes.Equal(first, second) {
		t.Fatalf("repeated generation differs\nfirst=%s\nsecond=%s", first, second)
	}
}

func TestGetSchema_MutualRecursion(t *testing.T) {
	a := skemadoc.New("Ping").
		Namespace("mutual").
		Field("pong", skemadoc.DocumentNamed("mutual.Pong")).
		MustBuild()
	b := skemadoc.New("Pong").
		Namespace("mutual").
		Field("ping", skemadoc.DocumentOf(a)).
		MustBuild()

	schema, err := a.GetSchema()
	if err != nil {
		t.Fatalf("GetSchema: %v", err)
	}
	assertSchema(t, schema, map[string]any{
		"$schema": "http://json-schema.org/draft-04/schema#",
		"definitions": map[string]any{
			"mutual.Ping": map[string]any{
				"type": "object",
				"properties": map[string]any{
					"pong": map[string]any{"$ref": "#/definitions/mutual.Pong"},
				},
				"additionalProperties": false,
			},
			"mutual.Pong": map[string]any{
				"type": "object",
				"properties": map[string]any{
					"ping": map[string]any{"$ref": "#/definitions/mutual.Ping"},
				},
				"additionalProperties": false,
			},
		},
		"$ref": "#/definitions/mutual.Ping",
	})

	// The same pair compiles symmetrically from the other side.
	fromB, err := b.GetSchema()
	if err != nil {
		t.Fatalf("GetSchema: %v", err)
	}
	if got := dig(t, normalize(t, fromB), "$ref"); got != "#/definitions/mutual.Pong" {
		t.Fatalf("$ref = %v", got)
	}
}

func TestRefSet_SharedDocumentCompiledOnce(t *testing.T) {
	addr := skemadoc.New("Address").
		Namespace("shared").
		Field("street", fields.String().Required()).
		MustBuild()
	person := skemadoc.New("Person").
		Namespace("shared").
		Field("home", skemadoc.DocumentOf(addr).Required()).
		Field("work", skemadoc.DocumentOf(addr)).
		MustBuild()

	refs := skemadoc.NewRefSet(addr)
	if !refs.Has(addr) || refs.Has(person) {
		t.Fatalf("membership is wrong")
	}

	defs, frag, err := person.GetDefinitionsAndSchema("", skemadoc.ResolutionScope{}, false, refs)
	if err != nil {
		t.Fatalf("GetDefinitionsAndSchema: %v", err)
	}
	if defs.Len() != 1 {
		t.Fatalf("definitions = %v", defs.Value(false))
	}
	if _, ok := defs.Get("shared.Address"); !ok {
		t.Fatalf("shared definition missing")
	}
	assertSchema(t, frag, map[string]any{
		"type": "object",
		"properties": map[string]any{
			"home": map[string]any{"$ref": "#/definitions/shared.Address"},
			"work": map[string]any{"$ref": "#/definitions/shared.Address"},
		},
		"required":             []any{"home"},
		"additionalProperties": false,
	})

	// The memo survives across calls sharing the set: a second document
	// referencing the address emits the reference without re-adding the
	// definition.
	company := skemadoc.New("Company").
		Namespace("shared").
		Field("hq", skemadoc.DocumentOf(addr)).
		MustBuild()
	defs2, frag2, err := company.GetDefinitionsAndSchema("", skemadoc.ResolutionScope{}, false, refs)
	if err != nil {
		t.Fatalf("second compile: %v", err)
	}
	if defs2.Len() != 0 {
		t.Fatalf("shared definition emitted twice: %v", defs2.Value(false))
	}
	if got := dig(t, normalize(t, frag2), "properties", "hq", "$ref"); got != "#/definitions/shared.Address" {
		t.Fatalf("hq ref = %v", got)
	}
}

func TestDocumentField_AsRef(t *testing.T) {
	item := skemadoc.New("Item").
		Namespace("asref").
		Field("sku", fields.String()).
		MustBuild()
	order := skemadoc.New("Order").
		Namespace("asref").
		Field("item", skemadoc.DocumentOf(item).AsRef()).
		MustBuild()

	schema, err := order.GetSchema()
	if err != nil {
		t.Fatalf("GetSchema: %v", err)
	}
	n := normalize(t, schema)
	if got := dig(t, n, "properties", "item", "$ref"); got != "#/definitions/asref.Item" {
		t.Fatalf("item ref = %v", got)
	}
	if got := dig(t, n, "definitions", "asref.Item", "type"); got != "object" {
		t.Fatalf("definition = %v", got)
	}
}

func TestDocumentNamed_Unknown(t *testing.T) {
	doc := skemadoc.New("Dangling").
		Namespace("lookup").
		Field("x", skemadoc.DocumentNamed("lookup.Missing")).
		MustBuild()

	_, err := doc.GetSchema()
	ge, ok := skemadoc.AsGenerationError(err)
	if !ok || ge.Code != skemadoc.CodeUnknownDocument {
		t.Fatalf("expected %s, got %v", skemadoc.CodeUnknownDocument, err)
	}
	if len(ge.Steps) != 2 || ge.Steps[0].Kind != skemadoc.StepDocument || ge.Steps[1].Name != "x" {
		t.Fatalf("steps = %v", ge.Steps)
	}
}

func TestNestedDocumentID_DerivedScope(t *testing.T) {
	inner := skemadoc.New("Inner").
		Namespace("scoped").
		ID("inner.json").
		Field("x", fields.String()).
		MustBuild()
	outer := skemadoc.New("Outer").
		Namespace("scoped").
		ID("http://example.com/outer.json").
		Field("inner", skemadoc.DocumentOf(inner)).
		MustBuild()

	schema, err := outer.GetSchema()
	if err != nil {
		t.Fatalf("GetSchema: %v", err)
	}
	n := normalize(t, schema)
	if got := dig(t, n, "id"); got != "http://example.com/outer.json" {
		t.Fatalf("outer id = %v", got)
	}
	// The nested fragment opens with the inner document's own id.
	if got := dig(t, n, "properties", "inner", "id"); got != "inner.json" {
		t.Fatalf("inner id = %v", got)
	}
	if got := dig(t, n, "properties", "inner", "properties", "x", "type"); got != "string" {
		t.Fatalf("inner x = %v", got)
	}
}

func TestRecursiveDocumentWithID(t *testing.T) {
	linked := skemadoc.New("Linked").
		Namespace("scopedrec").
		ID("http://example.com/linked.json").
		Field("next", skemadoc.DocumentSelf()).
		MustBuild()

	schema, err := linked.GetSchema()
	if err != nil {
		t.Fatalf("GetSchema: %v", err)
	}
	n := normalize(t, schema)
	if got := dig(t, n, "$ref"); got != "#/definitions/scopedrec.Linked" {
		t.Fatalf("$ref = %v", got)
	}
	if got := dig(t, n, "definitions", "scopedrec.Linked", "properties", "next", "$ref"); got != "#/definitions/scopedrec.Linked" {
		t.Fatalf("next ref = %v", got)
	}
}

func TestRoleGatedRecursion_DefinitionsOnlyWhenNeeded(t *testing.T) {
	b := skemadoc.New("MaybeDeep").Namespace("gated")
	b.Field("label", fields.String())
	b.Field("child", skemadoc.NewVar(
		skemadoc.On("deep", skemadoc.ValueOf(skemadoc.DocumentSelf())),
	))
	doc := b.MustBuild()

	flat, err := doc.GetSchema()
	if err != nil {
		t.Fatalf("flat: %v", err)
	}
	nf := normalize(t, flat).(map[string]any)
	if _, ok := nf["definitions"]; ok {
		t.Fatalf("flat view should not carry definitions: %v", nf)
	}
	if _, ok := nf["$ref"]; ok {
		t.Fatalf("flat view should inline the document: %v", nf)
	}

	deep, err := doc.GetSchema(skemadoc.WithRole("deep"))
	if err != nil {
		t.Fatalf("deep: %v", err)
	}
	nd := normalize(t, deep)
	if got := dig(t, nd, "$ref"); got != "#/definitions/gated.MaybeDeep" {
		t.Fatalf("$ref = %v", got)
	}
	if got := dig(t, nd, "definitions", "gated.MaybeDeep", "properties", "child", "$ref"); got != "#/definitions/gated.MaybeDeep" {
		t.Fatalf("child ref = %v", got)
	}
}

func TestGetDefinitionsAndSchema_PlainDocumentInline(t *testing.T) {
	doc := skemadoc.New("Inline").
		Namespace("plainrec").
		Field("x", fields.Int()).
		MustBuild()

	defs, frag, err := doc.GetDefinitionsAndSchema("", skemadoc.ResolutionScope{}, false, nil)
	if err != nil {
		t.Fatalf("GetDefinitionsAndSchema: %v", err)
	}
	if defs.Len() != 0 {
		t.Fatalf("plain document produced definitions: %v", defs.Value(false))
	}
	if !reflect.DeepEqual(normalize(t, frag), normalize(t, map[string]any{
		"type": "object",
		"properties": map[string]any{
			"x": map[string]any{"type": "integer"},
		},
		"additionalProperties": false,
	})) {
		t.Fatalf("fragment = %v", frag)
	}
}

package skemadoc_test

import (
	"strings"
	"testing"

	json "github.com/goccy/go-json"
	"gopkg.in/yaml.v3"

	"github.com/skemadoc/skemadoc"
	"github.com/skemadoc/skemadoc/fields"
)

func encodingFixture(t *testing.T) *skemadoc.Document {
	t.Helper()
	return skemadoc.New("Event").
		Namespace("encode").
		Field("kind", fields.String().Required()).
		Field("count", fields.Int()).
		MustBuild()
}

func TestEncodeJSON_OrderedOutput(t *testing.T) {
	doc := encodingFixture(t)
	schema, err := doc.GetSchema(skemadoc.WithOrdered())
	if err != nil {
		t.Fatalf("GetSchema: %v", err)
	}
	data, err := skemadoc.EncodeJSON(schema)
	if err != nil {
		t.Fatalf("EncodeJSON: %v", err)
	}
	want := `{"$schema":"http://json-schema.org/draft-04/schema#","type":"object","properties":{"kind":{"type":"string"},"count":{"type":"integer"}},"required":["kind"],"additionalProperties":false}`
	if string(data) != want {
		t.Fatalf("encoded schema mismatch\n got=%s\nwant=%s", data, want)
	}
}

func TestEncodeJSONIndent(t *testing.T) {
	doc := encodingFixture(t)
	schema, err := doc.GetSchema(skemadoc.WithOrdered())
	if err != nil {
		t.Fatalf("GetSchema: %v", err)
	}
	data, err := skemadoc.EncodeJSONIndent(schema, "  ")
	if err != nil {
		t.Fatalf("EncodeJSONIndent: %v", err)
	}
	out := string(data)
	if !strings.HasPrefix(out, "{\n") {
		t.Fatalf("indented output does not open a block:\n%s", out)
	}
	if !strings.Contains(out, `"kind"`) || !strings.Contains(out, `"count"`) {
		t.Fatalf("indented output lost keys:\n%s", out)
	}
}

func TestSchemaYAML_OrderAndContent(t *testing.T) {
	doc := encodingFixture(t)
	data, err := doc.SchemaYAML(skemadoc.WithOrdered())
	if err != nil {
		t.Fatalf("SchemaYAML: %v", err)
	}
	out := string(data)

	// Content survives a round trip.
	var decoded map[string]any
	if err := yaml.Unmarshal(data, &decoded); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}
	if decoded["type"] != "object" {
		t.Fatalf("type = %v", decoded["type"])
	}
	props, ok := decoded["properties"].(map[string]any)
	if !ok {
		t.Fatalf("properties = %v", decoded["properties"])
	}
	if _, ok := props["kind"]; !ok {
		t.Fatalf("kind missing: %v", props)
	}

	// Declaration order is preserved in the rendered text.
	schemaIdx := strings.Index(out, "$schema:")
	typeIdx := strings.Index(out, "type: object")
	kindIdx := strings.Index(out, "kind:")
	countIdx := strings.Index(out, "count:")
	if schemaIdx == -1 || typeIdx == -1 || kindIdx == -1 || countIdx == -1 {
		t.Fatalf("keys missing from output:\n%s", out)
	}
	if !(schemaIdx < typeIdx && typeIdx < kindIdx && kindIdx < countIdx) {
		t.Fatalf("key order not preserved:\n%s", out)
	}
}

func TestSchemaJSON_UnorderedStillValid(t *testing.T) {
	doc := encodingFixture(t)
	data, err := doc.SchemaJSON()
	if err != nil {
		t.Fatalf("SchemaJSON: %v", err)
	}
	got := decodeJSON(t, data)
	if dig(t, got, "properties", "kind", "type") != "string" {
		t.Fatalf("schema = %v", got)
	}
}

func decodeJSON(t *testing.T, data []byte) any {
	t.Helper()
	var out any
	if err := json.Unmarshal(data, &out); err != nil {
		t.Fatalf("decode: %v", err)
	}
	return out
}

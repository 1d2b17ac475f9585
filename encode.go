package skemadoc

import (
	json "github.com/goccy/go-json"
	"gopkg.in/yaml.v3"
)

// EncodeJSON marshals a generated schema to JSON. Schemas generated with
// WithOrdered marshal their mappings in declaration order.
func EncodeJSON(schema any) ([]byte, error) {
	return json.Marshal(schema)
}

// EncodeJSONIndent is EncodeJSON with indentation.
func EncodeJSONIndent(schema any, indent string) ([]byte, error) {
	return json.MarshalIndent(schema, "", indent)
}

// EncodeYAML marshals a generated schema to YAML, keeping declaration order
// for ordered schemas.
func EncodeYAML(schema any) ([]byte, error) {
	return yaml.Marshal(schema)
}

// SchemaJSON compiles the document and renders the schema as JSON.
func (d *Document) SchemaJSON(opts ...SchemaOption) ([]byte, error) {
	schema, err := d.GetSchema(opts...)
	if err != nil {
		return nil, err
	}
	return EncodeJSON(schema)
}

// SchemaYAML compiles the document and renders the schema as YAML.
func (d *Document) SchemaYAML(opts ...SchemaOption) ([]byte, error) {
	schema, err := d.GetSchema(opts...)
	if err != nil {
		return nil, err
	}
	return EncodeYAML(schema)
}

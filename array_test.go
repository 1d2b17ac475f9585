package skemadoc_test

import (
	"testing"

	"github.com/skemadoc/skemadoc"
	"github.com/skemadoc/skemadoc/fields"
)

func TestArray_SingleItem(t *testing.T) {
	arr := skemadoc.Array(fields.String()).
		MinItems(1).
		MaxItems(10).
		Unique()

	assertSchema(t, compileField(t, arr, ""), map[string]any{
		"type":        "array",
		"items":       map[string]any{"type": "string"},
		"minItems":    1,
		"maxItems":    10,
		"uniqueItems": true,
	})
}

func TestArray_NoItems(t *testing.T) {
	assertSchema(t, compileField(t, skemadoc.Array(), ""), map[string]any{
		"type": "array",
	})
}

func TestArray_SingleSlotTuplePayload(t *testing.T) {
	arr := skemadoc.Array(skemadoc.NewVar(
		skemadoc.Otherwise(skemadoc.TupleOf(fields.String(), fields.Int())),
	))
	assertSchema(t, compileField(t, arr, ""), map[string]any{
		"type": "array",
		"items": []any{
			map[string]any{"type": "string"},
			map[string]any{"type": "integer"},
		},
	})
}

func TestArray_FixedTupleFlattening(t *testing.T) {
	arr := skemadoc.Array(
		fields.String(),
		skemadoc.NewVar(
			skemadoc.On("web", skemadoc.TupleOf(fields.Int(), fields.Bool())),
			skemadoc.On("none", skemadoc.Absent()),
			skemadoc.Otherwise(skemadoc.ValueOf(fields.Number())),
		),
		fields.Null(),
	)

	// Under web the middle slot expands to two members.
	assertSchema(t, compileField(t, arr, "web"), map[string]any{
		"type": "array",
		"items": []any{
			map[string]any{"type": "string"},
			map[string]any{"type": "integer"},
			map[string]any{"type": "boolean"},
			map[string]any{"type": "null"},
		},
	})

	// Under none the middle slot drops out without leaving a hole.
	assertSchema(t, compileField(t, arr, "none"), map[string]any{
		"type": "array",
		"items": []any{
			map[string]any{"type": "string"},
			map[string]any{"type": "null"},
		},
	})

	assertSchema(t, compileField(t, arr, ""), map[string]any{
		"type": "array",
		"items": []any{
			map[string]any{"type": "string"},
			map[string]any{"type": "number"},
			map[string]any{"type": "null"},
		},
	})
}

func TestArray_AllMembersAbsentOmitsItems(t *testing.T) {
	arr := skemadoc.Array(
		skemadoc.NewVar(skemadoc.On("web", skemadoc.ValueOf(fields.String()))),
		skemadoc.NewVar(skemadoc.On("web", skemadoc.ValueOf(fields.Int()))),
	)
	assertSchema(t, compileField(t, arr, "mobile"), map[string]any{
		"type": "array",
	})
}

func TestArray_SingleSlotAbsentOmitsItems(t *testing.T) {
	arr := skemadoc.Array(skemadoc.NewVar(
		skemadoc.On("web", skemadoc.ValueOf(fields.String())),
	))
	assertSchema(t, compileField(t, arr, "mobile"), map[string]any{
		"type": "array",
	})
}

func TestArray_AdditionalItems(t *testing.T) {
	forbidden := skemadoc.Array(fields.String(), fields.Int()).
		AdditionalItemsAllowed(false)
	assertSchema(t, compileField(t, forbidden, ""), map[string]any{
		"type": "array",
		"items": []any{
			map[string]any{"type": "string"},
			map[string]any{"type": "integer"},
		},
		"additionalItems": false,
	})

	allowed := skemadoc.Array(fields.String()).AdditionalItemsAllowed(true)
	assertSchema(t, compileField(t, allowed, ""), map[string]any{
		"type":  "array",
		"items": map[string]any{"type": "string"},
	})

	schema := skemadoc.Array(fields.String()).AdditionalItems(fields.Bool())
	assertSchema(t, compileField(t, schema, ""), map[string]any{
		"type":            "array",
		"items":           map[string]any{"type": "string"},
		"additionalItems": map[string]any{"type": "boolean"},
	})

	invalid := skemadoc.Array(fields.String()).AdditionalItems(skemadoc.NewVar(
		skemadoc.Otherwise(skemadoc.TupleOf(fields.Int(), fields.Bool())),
	))
	ge := compileErr(t, invalid, "")
	if ge.Code != skemadoc.CodeInvalidPayload {
		t.Fatalf("code = %s", ge.Code)
	}
}

func TestArray_MemberErrorCarriesItemStep(t *testing.T) {
	bad := skemadoc.Object().Prop("x", skemadoc.NewVar(
		skemadoc.Otherwise(skemadoc.TupleOf(fields.String(), fields.Int())),
	))
	arr := skemadoc.Array(fields.String(), bad)

	ge := compileErr(t, arr, "")
	if ge.Code != skemadoc.CodeInvalidPayload {
		t.Fatalf("code = %s", ge.Code)
	}
	// Trail: attribute "items" -> item 1 -> field "x".
	if len(ge.Steps) != 3 {
		t.Fatalf("steps = %v", ge.Steps)
	}
	if ge.Steps[0].Kind != skemadoc.StepAttribute || ge.Steps[0].Name != "items" {
		t.Fatalf("steps = %v", ge.Steps)
	}
	if ge.Steps[1].Kind != skemadoc.StepItem || ge.Steps[1].Name != "1" {
		t.Fatalf("steps = %v", ge.Steps)
	}
	if ge.Steps[2].Kind != skemadoc.StepField || ge.Steps[2].Name != "x" {
		t.Fatalf("steps = %v", ge.Steps)
	}
}

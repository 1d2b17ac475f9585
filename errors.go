package skemadoc

import (
	"errors"
	"fmt"
	"strings"
)

// Error codes carried by GenerationError.
const (
	CodeDefinitionCollision = "definition_collision"
	CodeAbsentOperand       = "absent_operand"
	CodeEmptyCombinator     = "empty_combinator"
	CodeInvalidPayload      = "invalid_payload"
	CodeUnknownDocument     = "unknown_document"
	CodeDuplicateField      = "duplicate_field"
	CodeInvalidDeclaration  = "invalid_declaration"
)

// Step kinds for the processing trail.
const (
	StepDocument  = "document"
	StepField     = "field"
	StepAttribute = "attribute"
	StepItem      = "item"
)

// Step is one entry of the processing trail: which document, field,
// attribute or item was being compiled when the failure occurred.
type Step struct {
	Kind string // One of the step kinds listed above.
	Name string // Document qualified name, field name, attribute keyword or item index.
	Role Role   // Set on document steps only.
}

func (s Step) String() string {
	switch s.Kind {
	case StepDocument:
		if s.Role != "" {
			return fmt.Sprintf("Document(%s)[role=%s]", s.Name, s.Role)
		}
		return fmt.Sprintf("Document(%s)", s.Name)
	case StepField:
		return fmt.Sprintf("field %q", s.Name)
	case StepAttribute:
		return fmt.Sprintf("attribute %q", s.Name)
	case StepItem:
		return "item " + s.Name
	default:
		return s.Name
	}
}

// GenerationError reports a schema compilation failure, located by the
// processing trail from the outermost document down to the failing node.
type GenerationError struct {
	Code    string // One of the codes listed above.
	Message string
	Steps   []Step // Outermost first.
	Cause   error  // Optional: underlying error.
}

// Error renders the code, message and trail.
func (e *GenerationError) Error() string {
	b := &strings.Builder{}
	b.WriteString(e.Code)
	if e.Message != "" {
		b.WriteString(": ")
		b.WriteString(e.Message)
	}
	if len(e.Steps) > 0 {
		b.WriteString(" (at ")
		for i, s := range e.Steps {
			if i > 0 {
				b.WriteString(" -> ")
			}
			b.WriteString(s.String())
		}
		b.WriteString(")")
	}
	return b.String()
}

// Unwrap exposes the underlying cause to errors.Is/errors.As.
func (e *GenerationError) Unwrap() error { return e.Cause }

// AsGenerationError extracts a *GenerationError using errors.As internally.
func AsGenerationError(err error) (*GenerationError, bool) {
	if err == nil {
		return nil, false
	}
	var ge *GenerationError
	if errors.As(err, &ge) {
		return ge, true
	}
	return nil, false
}

// wrapStep prepends a trail step to err. Errors that are not generation
// errors are wrapped into one so the trail survives arbitrary causes.
func wrapStep(err error, s Step) error {
	if err == nil {
		return nil
	}
	var ge *GenerationError
	if errors.As(err, &ge) {
		ge.Steps = append([]Step{s}, ge.Steps...)
		return ge
	}
	return &GenerationError{
		Code:    CodeInvalidDeclaration,
		Message: err.Error(),
		Steps:   []Step{s},
		Cause:   err,
	}
}

func documentStep(name string, role Role) Step {
	return Step{Kind: StepDocument, Name: name, Role: role}
}

func fieldStep(name string) Step     { return Step{Kind: StepField, Name: name} }
func attributeStep(name string) Step { return Step{Kind: StepAttribute, Name: name} }
func itemStep(index int) Step        { return Step{Kind: StepItem, Name: fmt.Sprintf("%d", index)} }

package classify

import "context"

// Capability is the external service that answers a prompt with JSON text
// constrained to the prompt's schema.
type Capability interface {
	// Generate submits the prompt and returns the raw response text.
	// Any error is treated as a transport failure.
	Generate(ctx context.Context, prompt Prompt) (string, error)
}

// CapabilityFunc adapts a function to the Capability interface.
type CapabilityFunc func(ctx context.Context, prompt Prompt) (string, error)

// Generate implements Capability.
func (f CapabilityFunc) Generate(ctx context.Context, prompt Prompt) (string, error) {
	return f(ctx, prompt)
}

// Prompt is one request to the capability.
type Prompt struct {
	// Instruction is the text part of the request.
	Instruction string

	// Image is an optional inline image sent before the instruction.
	Image *InlineImage

	// Schema constrains the JSON response.
	Schema *Schema
}

// InlineImage is raw encoded image bytes with their MIME type.
type InlineImage struct {
	Data     []byte
	MIMEType string
}

// SchemaType is the JSON type of a schema node.
type SchemaType string

// Schema node types understood by the capability.
const (
	TypeObject  SchemaType = "OBJECT"
	TypeArray   SchemaType = "ARRAY"
	TypeString  SchemaType = "STRING"
	TypeInteger SchemaType = "INTEGER"
)

// Schema describes the expected JSON response. It is a provider-neutral
// subset of OpenAPI schema objects.
type Schema struct {
	Type        SchemaType
	Description string
	Enum        []string
	Items       *Schema
	Properties  map[string]*Schema

	// Required lists property names that must be present.
	Required []string
}

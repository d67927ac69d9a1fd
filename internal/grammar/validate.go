package grammar

import (
	"fmt"

	"github.com/xeipuuv/gojsonschema"
)

const headerSchemaJSON = `{
  "type": "array",
  "items": {
    "type": "object",
    "required": ["kind", "properties"],
    "properties": {
      "kind": {"type": "string", "minLength": 1},
      "properties": {"type": "array", "items": {"type": "string"}}
    },
    "additionalProperties": false
  }
}`

// ValidateHeader checks that raw is a syntactically well-formed grammar
// document before Schema ever tries to interpret it — a corrupt or foreign
// header is rejected here rather than surfacing as a confusing downstream
// UnknownKind or index-out-of-range failure.
func ValidateHeader(raw []byte) error {
	schemaLoader := gojsonschema.NewStringLoader(headerSchemaJSON)
	docLoader := gojsonschema.NewBytesLoader(raw)

	result, err := gojsonschema.Validate(schemaLoader, docLoader)
	if err != nil {
		return fmt.Errorf("%w: %v", ErrMalformedHeader, err)
	}

	if !result.Valid() {
		msgs := make([]string, 0, len(result.Errors()))
		for _, e := range result.Errors() {
			msgs = append(msgs, e.String())
		}

		return fmt.Errorf("%w: %v", ErrMalformedHeader, msgs)
	}

	return nil
}

package dataset

import (
	"errors"
	"fmt"
	"sync"

	"github.com/kaptinlin/jsonschema"
)

// ErrSchemaViolation is returned by ValidateJSON when a document does not
// have the shape ReadJSON accepts.
var ErrSchemaViolation = errors.New("dataset json: schema validation failed")

// JSONSchema describes the dataset representation read by ReadJSON.
const JSONSchema = `{
  "type": "array",
  "items": {
    "type": "object",
    "required": ["timestamp"],
    "properties": {
      "timestamp": {"type": ["string", "integer"]},
      "data": {
        "type": "object",
        "additionalProperties": {"type": ["null", "boolean", "string", "number"]}
      }
    }
  }
}`

var compiledSchema = sync.OnceValues(func() (*jsonschema.Schema, error) {
	return jsonschema.NewCompiler().Compile([]byte(JSONSchema))
})

// ValidateJSON checks data against JSONSchema without building a Dataset.
//
// It catches shape errors (nested values, missing timestamps) up front and
// reports all of them at once; ReadJSON still validates timestamp syntax.
func ValidateJSON(data []byte) error {
	schema, err := compiledSchema()
	if err != nil {
		return fmt.Errorf("compile dataset schema: %w", err)
	}

	result := schema.ValidateJSON(data)
	if result.IsValid() {
		return nil
	}

	return fmt.Errorf("%w: %v", ErrSchemaViolation, result.Errors)
}

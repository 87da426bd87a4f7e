package suggest

import (
	"encoding/json"
	"errors"
	"fmt"
	"strings"

	"github.com/xeipuuv/gojsonschema"
)

// ErrMalformedResponse marks a generator payload that could not be parsed into
// suggestion records. It is recoverable: the caller surfaces it and the paper
// tree stays untouched.
var ErrMalformedResponse = errors.New("malformed suggestion payload")

// recordsSchema constrains the generator payload: an array of question records
// with a known type tag and non-empty question text.
const recordsSchema = `{
  "type": "array",
  "items": {
    "type": "object",
    "required": ["type", "question"],
    "properties": {
      "type": {
        "type": "string",
        "enum": ["MCQ", "Short Answer", "Long Answer", "Case Study", "Fill in the Blanks", "Match the Following"]
      },
      "question": {"type": "string", "minLength": 1},
      "marks": {"type": "integer", "minimum": 0},
      "options": {"type": "array", "items": {"type": "string"}},
      "correctAnswer": {"type": "string"},
      "pairs": {
        "type": "array",
        "items": {
          "type": "object",
          "required": ["term", "definition"],
          "properties": {
            "term": {"type": "string"},
            "definition": {"type": "string"}
          }
        }
      }
    }
  }
}`

var schemaLoader = gojsonschema.NewStringLoader(recordsSchema)

// ParsePayload validates raw generator output against the record schema and
// decodes it. Any failure wraps ErrMalformedResponse.
func ParsePayload(raw string) ([]Record, error) {
	raw = StripFences(raw)

	result, err := gojsonschema.Validate(schemaLoader, gojsonschema.NewStringLoader(raw))
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrMalformedResponse, err)
	}
	if !result.Valid() {
		msgs := make([]string, 0, len(result.Errors()))
		for _, e := range result.Errors() {
			msgs = append(msgs, e.String())
		}
		return nil, fmt.Errorf("%w: %s", ErrMalformedResponse, strings.Join(msgs, "; "))
	}

	var records []Record
	if err := json.Unmarshal([]byte(raw), &records); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrMalformedResponse, err)
	}
	return records, nil
}

// StripFences removes a surrounding markdown code fence, which chat models
// often wrap JSON in despite instructions.
func StripFences(s string) string {
	s = strings.TrimSpace(s)
	if !strings.HasPrefix(s, "```") {
		return s
	}
	s = strings.TrimPrefix(s, "```json")
	s = strings.TrimPrefix(s, "```")
	s = strings.TrimSuffix(strings.TrimSpace(s), "```")
	return strings.TrimSpace(s)
}

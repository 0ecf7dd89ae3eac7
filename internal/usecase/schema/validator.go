// Package schema checks candidate outputs against lightweight declarative
// schemas: required top-level fields and their expected JSON types. It is a
// structural sanity check, not a full JSON Schema implementation.
package schema

import (
	"fmt"

	"github.com/valyala/fastjson"

	"github.com/bkyoung/prompt-eval/internal/domain"
)

// FieldSpec names one required top-level field and its expected type.
// Type is one of object, array, string, number, boolean, null, or any.
type FieldSpec struct {
	Name string `json:"name" yaml:"name"`
	Type string `json:"type" yaml:"type"`
}

// Schema is an ordered list of required top-level fields.
type Schema struct {
	Name   string      `json:"name,omitempty" yaml:"name,omitempty"`
	Fields []FieldSpec `json:"fields" yaml:"fields"`
}

var parserPool fastjson.ParserPool

// Validate parses the output and checks every field spec. A syntactically
// invalid output short-circuits with ValidJSON=false; otherwise each missing
// or mistyped field becomes one issue and never aborts the remaining checks.
func Validate(output string, schema Schema) domain.SchemaResult {
	parser := parserPool.Get()
	defer parserPool.Put(parser)

	value, err := parser.Parse(output)
	if err != nil {
		return domain.SchemaResult{
			Valid:     false,
			ValidJSON: false,
			Issues:    []domain.FieldIssue{{Problem: "Invalid JSON"}},
		}
	}

	result := domain.SchemaResult{Valid: true, ValidJSON: true}

	if len(schema.Fields) > 0 && value.Type() != fastjson.TypeObject {
		result.Valid = false
		result.Issues = append(result.Issues, domain.FieldIssue{
			Problem: fmt.Sprintf("Expected a JSON object, got %s", typeName(value.Type())),
		})
		return result
	}

	for _, field := range schema.Fields {
		issue, ok := checkField(value, field)
		if !ok {
			result.Valid = false
			result.Issues = append(result.Issues, issue)
		}
	}

	return result
}

func checkField(value *fastjson.Value, field FieldSpec) (domain.FieldIssue, bool) {
	child := value.Get(field.Name)
	if child == nil {
		return domain.FieldIssue{Field: field.Name, Problem: "Missing required field"}, false
	}

	if field.Type == "" || field.Type == "any" {
		return domain.FieldIssue{}, true
	}

	actual := typeName(child.Type())
	if actual != field.Type {
		return domain.FieldIssue{
			Field:   field.Name,
			Problem: fmt.Sprintf("Expected type %s, got %s", field.Type, actual),
		}, false
	}
	return domain.FieldIssue{}, true
}

func typeName(t fastjson.Type) string {
	switch t {
	case fastjson.TypeObject:
		return "object"
	case fastjson.TypeArray:
		return "array"
	case fastjson.TypeString:
		return "string"
	case fastjson.TypeNumber:
		return "number"
	case fastjson.TypeTrue, fastjson.TypeFalse:
		return "boolean"
	case fastjson.TypeNull:
		return "null"
	default:
		return "unknown"
	}
}

// Package workflow enforces the generated-workflow JSON contract that the
// prompt composer instructs the LLM to emit and the execution engine
// consumes.
package workflow

import (
	"encoding/json"
	"errors"
	"strings"

	"github.com/xeipuuv/gojsonschema"

	cerrors "fluxo-ai/internal/common/errors"
	"fluxo-ai/internal/models"
)

var (
	ErrNoJSONFound     = errors.New("NO_JSON_FOUND")
	ErrInvalidWorkflow = errors.New("INVALID_WORKFLOW_JSON")
)

const schemaJSON = `{
  "$schema": "http://json-schema.org/draft-07/schema#",
  "type": "object",
  "required": ["id", "name", "description", "nodes", "edges"],
  "properties": {
    "id": {"type": "string", "minLength": 1},
    "name": {"type": "string", "minLength": 1},
    "description": {"type": "string"},
    "nodes": {
      "type": "array",
      "minItems": 1,
      "items": {
        "type": "object",
        "required": ["id", "type", "name"],
        "properties": {
          "id": {"type": "string", "minLength": 1},
          "type": {"enum": ["trigger", "action", "condition", "delay"]},
          "name": {"type": "string"},
          "description": {"type": "string"},
          "config": {"type": "object"},
          "position": {
            "type": "object",
            "properties": {
              "x": {"type": "number"},
              "y": {"type": "number"}
            }
          }
        }
      }
    },
    "edges": {
      "type": "array",
      "items": {
        "type": "object",
        "required": ["id", "source", "target"],
        "properties": {
          "id": {"type": "string", "minLength": 1},
          "source": {"type": "string", "minLength": 1},
          "target": {"type": "string", "minLength": 1},
          "type": {"enum": ["default", "conditional"]},
          "condition": {"type": "string"}
        }
      }
    },
    "estimatedROI": {
      "type": "object",
      "properties": {
        "timeSaved": {"type": "string"},
        "costSaved": {"type": "string"},
        "complexity": {"type": "string"}
      }
    },
    "suggestedIntegrations": {"type": "array", "items": {"type": "string"}},
    "tags": {"type": "array", "items": {"type": "string"}}
  }
}`

var schemaLoader = gojsonschema.NewStringLoader(schemaJSON)

// Validate checks raw JSON against the contract and decodes it. Failures
// return a taxonomy error that still matches ErrInvalidWorkflow with
// errors.Is.
func Validate(raw []byte) (*models.GeneratedWorkflow, error) {
	result, err := gojsonschema.Validate(schemaLoader, gojsonschema.NewBytesLoader(raw))
	if err != nil {
		return nil, cerrors.NewInvalidWorkflowJSONError(err.Error()).WithCause(ErrInvalidWorkflow)
	}
	if !result.Valid() {
		details := make([]string, 0, len(result.Errors()))
		for _, e := range result.Errors() {
			details = append(details, e.String())
		}
		return nil, cerrors.NewInvalidWorkflowJSONError(strings.Join(details, "; ")).WithCause(ErrInvalidWorkflow)
	}

	var wf models.GeneratedWorkflow
	if err := json.Unmarshal(raw, &wf); err != nil {
		return nil, cerrors.NewInvalidWorkflowJSONError(err.Error()).WithCause(ErrInvalidWorkflow)
	}
	return &wf, nil
}

// ExtractJSON finds the first balanced top-level JSON object in text.
// LLMs occasionally wrap the object in prose or code fences despite the
// JSON-only instruction.
func ExtractJSON(text string) ([]byte, error) {
	start := strings.IndexByte(text, '{')
	if start < 0 {
		return nil, ErrNoJSONFound
	}

	depth := 0
	inString := false
	escaped := false
	for i := start; i < len(text); i++ {
		ch := text[i]
		if inString {
			switch {
			case escaped:
				escaped = false
			case ch == '\\':
				escaped = true
			case ch == '"':
				inString = false
			}
			continue
		}
		switch ch {
		case '"':
			inString = true
		case '{':
			depth++
		case '}':
			depth--
			if depth == 0 {
				return []byte(text[start : i+1]), nil
			}
		}
	}
	return nil, ErrNoJSONFound
}

// FromLLMText extracts and validates a generated workflow from raw LLM
// output.
func FromLLMText(text string) (*models.GeneratedWorkflow, error) {
	raw, err := ExtractJSON(text)
	if err != nil {
		return nil, err
	}
	return Validate(raw)
}

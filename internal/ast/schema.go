package ast

import (
	"bytes"
	"encoding/json"
	"fmt"
	"strings"
	"sync"

	jsonschema "github.com/santhosh-tekuri/jsonschema/v5"
)

const envelopeSchemaURL = "ojc://schema/envelope.json"

// envelopeSchema checks the outer shape of a parser envelope. Node bodies are
// checked only for the fields every node has; kind-specific structure is
// enforced by the decoder.
const envelopeSchema = `{
  "$schema": "http://json-schema.org/draft-07/schema#",
  "type": "object",
  "required": ["path"],
  "properties": {
    "path": {"type": "string"},
    "source": {"type": ["string", "null"]},
    "program": {"$ref": "#/definitions/node"},
    "comments": {
      "type": ["array", "null"],
      "items": {
        "type": "object",
        "required": ["type", "value", "start", "end"],
        "properties": {
          "type": {"enum": ["Block", "Line"]},
          "value": {"type": "string"},
          "start": {"type": "integer", "minimum": 0},
          "end": {"type": "integer", "minimum": 0}
        }
      }
    },
    "error": {
      "type": ["object", "null"],
      "required": ["message"],
      "properties": {
        "message": {"type": "string"},
        "pos": {"type": "integer", "minimum": 0}
      }
    }
  },
  "anyOf": [
    {"required": ["program"]},
    {"required": ["error"], "properties": {"error": {"type": "object"}}}
  ],
  "definitions": {
    "node": {
      "type": "object",
      "required": ["type", "start", "end"],
      "properties": {
        "type": {"type": "string", "minLength": 1},
        "start": {"type": "integer", "minimum": 0},
        "end": {"type": "integer", "minimum": 0},
        "objj": {"type": ["object", "null"]}
      }
    }
  }
}`

var (
	schemaOnce     sync.Once
	compiledSchema *jsonschema.Schema
	schemaErr      error
)

func loadEnvelopeSchema() (*jsonschema.Schema, error) {
	schemaOnce.Do(func() {
		compiler := jsonschema.NewCompiler()
		if err := compiler.AddResource(envelopeSchemaURL, strings.NewReader(envelopeSchema)); err != nil {
			schemaErr = err
			return
		}
		compiledSchema, schemaErr = compiler.Compile(envelopeSchemaURL)
	})
	return compiledSchema, schemaErr
}

// ValidateEnvelope checks raw JSON against the envelope schema.
func ValidateEnvelope(data []byte) error {
	schema, err := loadEnvelopeSchema()
	if err != nil {
		return fmt.Errorf("envelope schema: %w", err)
	}
	dec := json.NewDecoder(bytes.NewReader(data))
	dec.UseNumber()
	var v any
	if err := dec.Decode(&v); err != nil {
		return fmt.Errorf("%w: %w", ErrMalformedTree, err)
	}
	if err := schema.Validate(v); err != nil {
		return fmt.Errorf("%w: %w", ErrMalformedTree, err)
	}
	return nil
}

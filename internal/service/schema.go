package service

import (
	"fmt"
	"strings"

	"github.com/xeipuuv/gojsonschema"
)

const setUtilitySchema = `{
  "type": "object",
  "required": ["utility"],
  "properties": {
    "name": {"type": "string"},
    "currencyUnit": {"type": "string"},
    "utility": {
      "type": "object",
      "additionalProperties": {
        "type": "object",
        "required": ["parameters"],
        "properties": {
          "parameters": {
            "type": "object",
            "required": ["unitcost"],
            "properties": {"unitcost": {"type": "number", "minimum": 0}}
          }
        }
      }
    }
  }
}`

const startRoundSchema = `{
  "type": "object",
  "properties": {
    "roundDuration": {"type": "number", "minimum": 0}
  }
}`

const receiveMessageSchema = `{
  "type": "object",
  "properties": {
    "text": {"type": "string"},
    "speaker": {"type": "string"},
    "addressee": {"type": ["string", "null"]},
    "role": {"enum": ["buyer", "seller", null]},
    "environmentUUID": {"type": ["string", "null"]}
  }
}`

const receiveRejectionSchema = `{
  "type": "object",
  "properties": {
    "rationale": {"type": "string"},
    "addressee": {"type": ["string", "null"]},
    "bid": {
      "type": ["object", "null"],
      "properties": {"type": {"type": "string"}}
    }
  }
}`

// bodySchemas holds the compiled request schemas
type bodySchemas struct {
	setUtility       *gojsonschema.Schema
	startRound       *gojsonschema.Schema
	receiveMessage   *gojsonschema.Schema
	receiveRejection *gojsonschema.Schema
}

func compileSchemas() (*bodySchemas, error) {
	compile := func(name, src string) (*gojsonschema.Schema, error) {
		schema, err := gojsonschema.NewSchema(gojsonschema.NewStringLoader(src))
		if err != nil {
			return nil, fmt.Errorf("compile %s schema: %w", name, err)
		}
		return schema, nil
	}

	var (
		s   bodySchemas
		err error
	)
	if s.setUtility, err = compile("setUtility", setUtilitySchema); err != nil {
		return nil, err
	}
	if s.startRound, err = compile("startRound", startRoundSchema); err != nil {
		return nil, err
	}
	if s.receiveMessage, err = compile("receiveMessage", receiveMessageSchema); err != nil {
		return nil, err
	}
	if s.receiveRejection, err = compile("receiveRejection", receiveRejectionSchema); err != nil {
		return nil, err
	}
	return &s, nil
}

// validateBody checks a JSON body against a schema
func validateBody(schema *gojsonschema.Schema, body []byte) error {
	result, err := schema.Validate(gojsonschema.NewBytesLoader(body))
	if err != nil {
		return err
	}
	if result.Valid() {
		return nil
	}

	msgs := make([]string, 0, len(result.Errors()))
	for _, e := range result.Errors() {
		msgs = append(msgs, e.String())
	}
	return fmt.Errorf("%s", strings.Join(msgs, "; "))
}

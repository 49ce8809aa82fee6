package notebook

import (
	"errors"
	"strings"
	"sync"

	"github.com/santhosh-tekuri/jsonschema/v5"
)

// structureSchema constrains only the parts of the notebook format the
// converter reads. Metadata, attachments and unknown keys pass through.
const structureSchema = `{
  "$schema": "https://json-schema.org/draft/2020-12/schema",
  "type": "object",
  "properties": {
    "cells": {
      "type": "array",
      "items": {
        "type": "object",
        "properties": {
          "cell_type": {"type": "string"},
          "source": {"$ref": "#/$defs/multiline"},
          "outputs": {
            "type": "array",
            "items": {
              "type": "object",
              "required": ["output_type"],
              "properties": {
                "output_type": {"type": "string"},
                "text": {"$ref": "#/$defs/multiline"},
                "data": {
                  "type": "object",
                  "properties": {"text/plain": {"$ref": "#/$defs/multiline"}}
                },
                "ename": {"type": ["string", "null"]},
                "evalue": {"type": "string"}
              }
            }
          }
        }
      }
    }
  },
  "$defs": {
    "multiline": {
      "oneOf": [
        {"type": "null"},
        {"type": "string"},
        {"type": "array", "items": {"type": "string"}}
      ]
    }
  }
}`

const schemaURL = "notebook-structure.json"

var compiledSchema = sync.OnceValues(func() (*jsonschema.Schema, error) {
	compiler := jsonschema.NewCompiler()
	compiler.Draft = jsonschema.Draft2020
	if err := compiler.AddResource(schemaURL, strings.NewReader(structureSchema)); err != nil {
		return nil, err
	}
	return compiler.Compile(schemaURL)
})

// validateStructure checks a decoded JSON document against structureSchema.
func validateStructure(doc any) error {
	schema, err := compiledSchema()
	if err != nil {
		return err
	}
	return schema.Validate(doc)
}

// schemaIssues lists the leaf violations of a validation error as
// "location: message" strings.
func schemaIssues(err error) []string {
	var verr *jsonschema.ValidationError
	if !errors.As(err, &verr) {
		return []string{err.Error()}
	}
	var issues []string
	var walk func(*jsonschema.ValidationError)
	walk = func(node *jsonschema.ValidationError) {
		if len(node.Causes) == 0 {
			location := node.InstanceLocation
			if location == "" {
				location = "/"
			}
			issues = append(issues, location+": "+strings.TrimSpace(node.Message))
			return
		}
		for _, cause := range node.Causes {
			walk(cause)
		}
	}
	walk(verr)
	return issues
}

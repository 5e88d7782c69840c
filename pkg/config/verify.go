package config

import (
	_ "embed"
	"encoding/json"
	"fmt"
	"sort"
	"strings"

	"github.com/invopop/jsonschema"
)

//go:embed schema.json
var embeddedSchema string

// VerifyAgainstEmbeddedSchema checks the config against the embedded JSON schema: every config key must be
// declared by the schema and every required key must be present
func VerifyAgainstEmbeddedSchema(cfg *Config) error {
	var schema map[string]any
	if err := json.Unmarshal([]byte(embeddedSchema), &schema); err != nil {
		return fmt.Errorf("parse embedded schema: %w", err)
	}

	// convert config to JSON for validation
	configData, err := json.Marshal(cfg)
	if err != nil {
		return fmt.Errorf("marshal config: %w", err)
	}
	var configMap map[string]any
	if err := json.Unmarshal(configData, &configMap); err != nil {
		return fmt.Errorf("unmarshal config: %w", err)
	}

	defs, _ := schema["$defs"].(map[string]any)
	return verifyObject("", configMap, resolve(schema, defs), defs)
}

// verifyObject walks obj together with its schema
func verifyObject(prefix string, obj map[string]any, schema map[string]any, defs map[string]any) error {
	if schema == nil {
		return fmt.Errorf("no schema for %q", strings.TrimSuffix(prefix, "."))
	}
	props, _ := schema["properties"].(map[string]any)

	if required, ok := schema["required"].([]any); ok {
		for _, r := range required {
			key, _ := r.(string)
			if _, found := obj[key]; !found {
				return fmt.Errorf("%s%s is required", prefix, key)
			}
		}
	}

	keys := make([]string, 0, len(obj))
	for k := range obj {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	for _, key := range keys {
		propSchema, ok := props[key].(map[string]any)
		if !ok {
			return fmt.Errorf("%s%s is not defined in schema", prefix, key)
		}
		nested, isObj := obj[key].(map[string]any)
		if !isObj {
			continue
		}
		if err := verifyObject(prefix+key+".", nested, resolve(propSchema, defs), defs); err != nil {
			return err
		}
	}
	return nil
}

// resolve follows a local $ref to its definition
func resolve(schema map[string]any, defs map[string]any) map[string]any {
	ref, ok := schema["$ref"].(string)
	if !ok {
		return schema
	}
	def, _ := defs[strings.TrimPrefix(ref, "#/$defs/")].(map[string]any)
	return def
}

// GenerateSchema generates a JSON schema for the Config struct
func GenerateSchema() (*jsonschema.Schema, error) {
	return jsonschema.Reflect(&Config{}), nil
}

// Package openapi embeds the OpenAPI 3.1 document for the hangar HTTP API.
// The YAML file is the source; the JSON form is derived from it at startup.
package openapi

import (
	_ "embed"

	"github.com/goccy/go-yaml"
)

// SpecYAML contains the OpenAPI document in YAML format.
// Served at: GET /api/v1/openapi.yaml
//
//go:embed openapi.yaml
var SpecYAML []byte

// SpecJSON contains the OpenAPI document in JSON format.
// Served at: GET /api/v1/openapi.json
var SpecJSON = mustJSON(SpecYAML)

func mustJSON(doc []byte) []byte {
	out, err := yaml.YAMLToJSON(doc)
	if err != nil {
		panic("openapi: embedded document is not valid YAML: " + err.Error())
	}
	return out
}

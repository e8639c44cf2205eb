// SPDX-License-Identifier: MIT
// Copyright (c) 2025 Vladyslav Kazantsev
package definition

import (
	"encoding/json"

	"github.com/swaggest/jsonschema-go"
)

// Schema returns the JSON schema of the YAML definition format, indented for
// editors that consume it directly.
func Schema() (string, error) {
	r := jsonschema.Reflector{}

	schema, err := r.Reflect(File{}, jsonschema.InlineRefs)
	if err != nil {
		return "", err
	}
	schema.WithTitle("buildchain definition file")

	out, err := json.MarshalIndent(schema, "", "  ")
	if err != nil {
		return "", err
	}
	return string(out), nil
}

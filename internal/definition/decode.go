// SPDX-License-Identifier: MIT
// Copyright (c) 2025 Vladyslav Kazantsev
package definition

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"path"
	"strings"

	"github.com/hashicorp/hcl/v2/gohcl"
	"github.com/hashicorp/hcl/v2/hclparse"
	"gopkg.in/yaml.v3"
)

// Syntax is the concrete syntax of a definition file.
type Syntax string

const (
	SyntaxHCL  Syntax = "hcl"
	SyntaxYAML Syntax = "yaml"
)

// Extensions lists the file extensions the loader discovers.
var Extensions = []string{".hcl", ".yaml", ".yml"}

// syntaxFor picks the syntax from a file name or URL path. Unknown extensions
// are read as YAML.
func syntaxFor(name string) Syntax {
	if strings.EqualFold(path.Ext(name), ".hcl") {
		return SyntaxHCL
	}
	return SyntaxYAML
}

// Decode parses src as a definition file in the given syntax. name is used in
// diagnostics only.
func Decode(name string, src []byte, syntax Syntax) (*File, error) {
	switch syntax {
	case SyntaxHCL:
		return decodeHCL(name, src)
	case SyntaxYAML:
		return decodeYAML(name, src)
	default:
		return nil, malformedf(name, "unsupported syntax %q", syntax)
	}
}

func decodeHCL(name string, src []byte) (*File, error) {
	parser := hclparse.NewParser()
	hclFile, diags := parser.ParseHCL(src, name)
	if diags.HasErrors() {
		return nil, &LoadError{Source: name, Err: fmt.Errorf("failed to parse HCL: %w", diags)}
	}

	var f File
	diags = gohcl.DecodeBody(hclFile.Body, nil, &f)
	if diags.HasErrors() {
		return nil, &LoadError{Source: name, Err: fmt.Errorf("failed to decode HCL: %w", diags)}
	}
	return &f, nil
}

func decodeYAML(name string, src []byte) (*File, error) {
	var f File
	dec := yaml.NewDecoder(bytes.NewReader(src))
	dec.KnownFields(true)
	if err := dec.Decode(&f); err != nil {
		if errors.Is(err, io.EOF) {
			return &f, nil
		}
		return nil, &LoadError{Source: name, Err: fmt.Errorf("failed to decode YAML: %w", err)}
	}
	return &f, nil
}

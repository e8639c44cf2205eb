// SPDX-License-Identifier: MIT
// Copyright (c) 2025 Vladyslav Kazantsev

// Package cmdtemplate renders project build commands. Commands use HCL
// template syntax, so "mvn install -Drev=${git.sha}" substitutes the resolved
// commit of the project's mapped branch.
package cmdtemplate

import (
	"context"
	"fmt"
	"strings"

	"github.com/hashicorp/hcl/v2"
	"github.com/hashicorp/hcl/v2/hclsyntax"
	"github.com/specialistvlad/buildchain/internal/ctxlog"
	"github.com/specialistvlad/buildchain/internal/model"
	"github.com/zclconf/go-cty/cty"
	"github.com/zclconf/go-cty/cty/convert"
	"github.com/zclconf/go-cty/cty/gocty"
)

// Vars are the values a command template can refer to.
type Vars struct {
	Project *model.Project
	// Branch is the branch the project is built from.
	Branch string
	// Dir is the absolute working directory of the step.
	Dir     string
	Trigger model.Trigger
	// Ref is the marker-prefixed short commit of Branch. Empty when it was
	// not resolved, in which case the git variable is absent.
	Ref string
	// Marker is the prefix carried by Ref.
	Marker string
}

// IsTemplate reports whether s contains template sequences.
func IsTemplate(s string) bool {
	return strings.Contains(s, "${") || strings.Contains(s, "%{")
}

// Render evaluates the template against vars. Plain strings are returned
// unchanged without parsing.
func Render(ctx context.Context, tmpl string, vars Vars) (string, error) {
	if !IsTemplate(tmpl) {
		return tmpl, nil
	}

	expr, diags := hclsyntax.ParseTemplate([]byte(tmpl), "command", hcl.InitialPos)
	if diags.HasErrors() {
		return "", fmt.Errorf("failed to parse command template: %w", diags)
	}

	evalCtx := EvalContext(vars)
	ctxlog.Trace(ctx, "Rendering command template.", "template", tmpl, "vars", len(evalCtx.Variables))

	val, diags := expr.Value(evalCtx)
	if diags.HasErrors() {
		return "", fmt.Errorf("failed to evaluate command template: %w", diags)
	}
	if val.IsNull() || !val.IsWhollyKnown() {
		return "", fmt.Errorf("command template evaluated to an unusable %s value", val.Type().FriendlyName())
	}

	str, err := convert.Convert(val, cty.String)
	if err != nil {
		return "", fmt.Errorf("cannot convert %s to string: %w", val.Type().FriendlyName(), err)
	}
	var out string
	if err := gocty.FromCtyValue(str, &out); err != nil {
		return "", err
	}
	return out, nil
}

// EvalContext builds the HCL evaluation context exposed to templates.
func EvalContext(vars Vars) *hcl.EvalContext {
	project := map[string]cty.Value{
		"branch": cty.StringVal(vars.Branch),
		"dir":    cty.StringVal(vars.Dir),
		"name":   cty.StringVal(""),
		"url":    cty.StringVal(""),
	}
	if vars.Project != nil {
		project["name"] = cty.StringVal(vars.Project.Name)
		project["url"] = cty.StringVal(vars.Project.URL)
	}

	t := vars.Trigger
	variables := map[string]cty.Value{
		"project": cty.ObjectVal(project),
		"trigger": cty.ObjectVal(map[string]cty.Value{
			"project": cty.StringVal(t.Project),
			"event":   cty.StringVal(string(t.Event)),
			"ref":     cty.StringVal(t.Ref),
			"owner":   cty.StringVal(t.Owner),
			"repo":    cty.StringVal(t.Repo),
		}),
	}

	if vars.Ref != "" {
		variables["git"] = cty.ObjectVal(map[string]cty.Value{
			"ref":    cty.StringVal(vars.Ref),
			"sha":    cty.StringVal(strings.TrimPrefix(vars.Ref, vars.Marker)),
			"branch": cty.StringVal(vars.Branch),
		})
	}
	return &hcl.EvalContext{Variables: variables}
}

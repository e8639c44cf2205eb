// SPDX-License-Identifier: MIT
// Copyright (c) 2025 Vladyslav Kazantsev
package app

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"strconv"

	"github.com/hashicorp/hcl/v2/hclwrite"
	"github.com/specialistvlad/buildchain/internal/chain"
	"github.com/specialistvlad/buildchain/internal/dag"
	"github.com/zclconf/go-cty/cty"
	"gopkg.in/yaml.v3"
)

// listGroup is the serialized form of a precedence group.
type listGroup struct {
	Precedence int      `json:"precedence" yaml:"precedence"`
	Projects   []string `json:"projects" yaml:"projects"`
}

// list prints every declared project by precedence.
func (a *App) list(ctx context.Context) error {
	catalog, err := a.load(ctx)
	if err != nil {
		return err
	}
	graph, err := dag.BuildAll(ctx, catalog)
	if err != nil {
		return fmt.Errorf("failed to build dependency graph: %w", err)
	}
	groups, err := chain.Precedence(graph, a.config.SkipGroup)
	if err != nil {
		return err
	}

	out := make([]listGroup, 0, len(groups))
	for _, g := range groups {
		out = append(out, listGroup{Precedence: g.Precedence, Projects: g.Names()})
	}
	return writeListing(a.outW, a.config.ListFormat, a.config.SkipGroup, out)
}

func writeListing(w io.Writer, format string, flat bool, groups []listGroup) error {
	switch format {
	case FormatJSON:
		enc := json.NewEncoder(w)
		enc.SetIndent("", "  ")
		return enc.Encode(groups)
	case FormatYAML:
		enc := yaml.NewEncoder(w)
		enc.SetIndent(2)
		if err := enc.Encode(groups); err != nil {
			return err
		}
		return enc.Close()
	case FormatHCL:
		f := hclwrite.NewEmptyFile()
		body := f.Body()
		for i, g := range groups {
			if i > 0 {
				body.AppendNewline()
			}
			names := make([]cty.Value, 0, len(g.Projects))
			for _, p := range g.Projects {
				names = append(names, cty.StringVal(p))
			}
			block := body.AppendNewBlock("group", []string{strconv.Itoa(g.Precedence)})
			block.Body().SetAttributeValue("projects", cty.ListVal(names))
		}
		_, err := f.WriteTo(w)
		return err
	default:
		for _, g := range groups {
			for _, p := range g.Projects {
				var err error
				if flat {
					_, err = fmt.Fprintln(w, p)
				} else {
					_, err = fmt.Fprintf(w, "%d\t%s\n", g.Precedence, p)
				}
				if err != nil {
					return err
				}
			}
		}
		return nil
	}
}

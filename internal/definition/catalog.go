// SPDX-License-Identifier: MIT
// Copyright (c) 2025 Vladyslav Kazantsev
package definition

import (
	"context"
	"fmt"
	"strings"

	"github.com/specialistvlad/buildchain/internal/model"
)

// Source retrieves a project's declaration by (possibly partial) identity.
// Implementations return an error wrapping ErrNotFound when nothing matches.
type Source interface {
	Lookup(ctx context.Context, id model.Identity) (*model.Project, error)
}

// Catalog is an in-memory Source built from loaded definition files. It keeps
// declarations in load order.
type Catalog struct {
	projects []*model.Project
	byKey    map[string]*model.Project
	next     int
}

// NewCatalog returns an empty catalog.
func NewCatalog() *Catalog {
	return &Catalog{byKey: make(map[string]*model.Project)}
}

// Lookup implements Source.
func (c *Catalog) Lookup(_ context.Context, id model.Identity) (*model.Project, error) {
	if id.URL != "" {
		if p, ok := c.byKey[id.Key()]; ok {
			return p, nil
		}
	}

	var matches []*model.Project
	for _, p := range c.projects {
		if p.Matches(id) {
			matches = append(matches, p)
		}
	}
	switch len(matches) {
	case 0:
		return nil, fmt.Errorf("%w: %s", ErrNotFound, id)
	case 1:
		return matches[0], nil
	default:
		urls := make([]string, 0, len(matches))
		for _, m := range matches {
			urls = append(urls, m.URL)
		}
		return nil, fmt.Errorf("%w: %s matches %s", ErrAmbiguous, id.Name, strings.Join(urls, ", "))
	}
}

// Projects returns every declared project in load order.
func (c *Catalog) Projects() []*model.Project {
	out := make([]*model.Project, len(c.projects))
	copy(out, c.projects)
	return out
}

// Len returns the number of distinct projects.
func (c *Catalog) Len() int { return len(c.projects) }

// Add appends a project declaration, merging it into an existing declaration
// with the same identity. On merge, later non-empty scalar fields win,
// references are unioned and a later reference's non-empty mappings replace
// the earlier ones.
func (c *Catalog) Add(p *model.Project) {
	key := p.Identity().Key()
	existing, ok := c.byKey[key]
	if !ok {
		p.Order = c.next
		c.next++
		c.projects = append(c.projects, p)
		c.byKey[key] = p
		return
	}

	if p.DefaultBranch != "" {
		existing.DefaultBranch = p.DefaultBranch
	}
	if p.Command != "" {
		existing.Command = p.Command
	}
	if p.Dir != "" {
		existing.Dir = p.Dir
	}
	existing.Parents = mergeRefs(existing.Parents, p.Parents)
	existing.Children = mergeRefs(existing.Children, p.Children)
	existing.Source = existing.Source + "," + p.Source
}

func mergeRefs(into, from []model.DependencyRef) []model.DependencyRef {
	for _, ref := range from {
		merged := false
		for i := range into {
			if strings.EqualFold(into[i].Project, ref.Project) && strings.EqualFold(into[i].URL, ref.URL) {
				if len(ref.Mappings) > 0 {
					into[i].Mappings = ref.Mappings
				}
				merged = true
				break
			}
		}
		if !merged {
			into = append(into, ref)
		}
	}
	return into
}

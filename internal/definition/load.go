// SPDX-License-Identifier: MIT
// Copyright (c) 2025 Vladyslav Kazantsev
package definition

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"os"
	"strings"
	"time"

	"github.com/specialistvlad/buildchain/internal/ctxlog"
	"github.com/specialistvlad/buildchain/internal/fsutil"
	"github.com/specialistvlad/buildchain/internal/model"
)

const maxRemoteDefinitionSize = 10 << 20

// Loader reads definition files from local paths and http(s) URLs.
type Loader struct {
	client *http.Client
	token  string
}

// LoaderOption configures a Loader.
type LoaderOption func(*Loader)

// WithHTTPClient replaces the client used for remote definitions.
func WithHTTPClient(c *http.Client) LoaderOption {
	return func(l *Loader) { l.client = c }
}

// WithToken sets a bearer token sent with remote definition requests.
func WithToken(token string) LoaderOption {
	return func(l *Loader) { l.token = token }
}

// NewLoader creates a new definition loader.
func NewLoader(opts ...LoaderOption) *Loader {
	l := &Loader{client: &http.Client{Timeout: 30 * time.Second}}
	for _, opt := range opts {
		opt(l)
	}
	return l
}

// Load reads every location into a single Catalog. Locations are processed in
// order; directories are walked in lexical order.
func (l *Loader) Load(ctx context.Context, locations ...string) (*Catalog, error) {
	logger := ctxlog.FromContext(ctx)
	logger.Debug("Definition loader started.", "location_count", len(locations))

	catalog := NewCatalog()
	for _, loc := range locations {
		if isRemote(loc) {
			src, err := l.fetch(ctx, loc)
			if err != nil {
				return nil, err
			}
			if err := l.addFile(ctx, catalog, loc, src, syntaxFor(remotePath(loc))); err != nil {
				return nil, err
			}
			continue
		}

		files, err := fsutil.FindFilesByExtension(loc, Extensions...)
		if err != nil {
			return nil, &LoadError{Source: loc, Err: err}
		}
		if len(files) == 0 {
			logger.Warn("No definition files found in location.", "location", loc)
		}
		for _, file := range files {
			src, err := os.ReadFile(file)
			if err != nil {
				return nil, &LoadError{Source: file, Err: err}
			}
			if err := l.addFile(ctx, catalog, file, src, syntaxFor(file)); err != nil {
				return nil, err
			}
		}
	}

	logger.Debug("Definition loading complete.", "projects", catalog.Len())
	return catalog, nil
}

func (l *Loader) addFile(ctx context.Context, catalog *Catalog, source string, src []byte, syntax Syntax) error {
	f, err := Decode(source, src, syntax)
	if err != nil {
		return err
	}
	if err := checkVersion(ctx, source, f.Version); err != nil {
		return err
	}
	for _, decl := range f.Projects {
		p, err := translateProject(source, decl)
		if err != nil {
			return err
		}
		catalog.Add(p)
	}
	ctxlog.FromContext(ctx).Debug("Definition file loaded.", "source", source, "syntax", syntax, "projects", len(f.Projects))
	return nil
}

// translateProject converts a declaration into the format-agnostic model and
// applies defaults.
func translateProject(source string, d *ProjectDecl) (*model.Project, error) {
	if d == nil || strings.TrimSpace(d.Name) == "" {
		return nil, malformedf(source, "project name is required")
	}
	p := &model.Project{
		Name:          d.Name,
		URL:           d.URL,
		DefaultBranch: d.DefaultBranch,
		Command:       d.Command,
		Dir:           d.Dir,
		Source:        source,
	}
	if p.URL == "" {
		p.URL = DefaultURL(p.Name)
	}
	if p.DefaultBranch == "" {
		p.DefaultBranch = "main"
	}

	var err error
	if p.Parents, err = translateRefs(source, p, d.Parents); err != nil {
		return nil, err
	}
	if p.Children, err = translateRefs(source, p, d.Children); err != nil {
		return nil, err
	}
	return p, nil
}

func translateRefs(source string, owner *model.Project, decls []*RefDecl) ([]model.DependencyRef, error) {
	refs := make([]model.DependencyRef, 0, len(decls))
	for _, d := range decls {
		if d == nil || strings.TrimSpace(d.Project) == "" {
			return nil, malformedf(source, "project %s: reference without a project name", owner.Name)
		}
		ref := model.DependencyRef{Project: d.Project, URL: d.URL}
		if owner.Matches(ref.Identity()) {
			return nil, malformedf(source, "project %s references itself", owner.Name)
		}
		for _, m := range d.Mappings {
			mapping := model.BranchMapping{Source: m.Source, Target: m.Target}
			if mapping.Target == "" {
				return nil, malformedf(source, "project %s: mapping for %s has no target", owner.Name, d.Project)
			}
			for _, name := range m.Flows {
				flow, err := model.ParseFlow(name)
				if err != nil {
					return nil, malformedf(source, "project %s: %v", owner.Name, err)
				}
				mapping.Flows = append(mapping.Flows, flow)
			}
			ref.Mappings = append(ref.Mappings, mapping)
		}
		refs = append(refs, ref)
	}
	return refs, nil
}

// DefaultURL derives the repository URL of a project named "<owner>/<repo>".
func DefaultURL(name string) string {
	if strings.Count(name, "/") != 1 {
		return ""
	}
	return "https://github.com/" + name
}

func isRemote(loc string) bool {
	return strings.HasPrefix(loc, "http://") || strings.HasPrefix(loc, "https://")
}

func remotePath(loc string) string {
	u, err := url.Parse(loc)
	if err != nil {
		return loc
	}
	return u.Path
}

func (l *Loader) fetch(ctx context.Context, loc string) ([]byte, error) {
	logger := ctxlog.FromContext(ctx)
	logger.Debug("Fetching remote definition.", "url", loc)

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, loc, nil)
	if err != nil {
		return nil, &LoadError{Source: loc, Err: err}
	}
	if l.token != "" {
		req.Header.Set("Authorization", "Bearer "+l.token)
	}

	resp, err := l.client.Do(req)
	if err != nil {
		return nil, &LoadError{Source: loc, Err: err}
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, &LoadError{Source: loc, Err: fmt.Errorf("unexpected status %s", resp.Status)}
	}
	body, err := io.ReadAll(io.LimitReader(resp.Body, maxRemoteDefinitionSize))
	if err != nil {
		return nil, &LoadError{Source: loc, Err: err}
	}
	return body, nil
}

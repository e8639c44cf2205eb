// SPDX-License-Identifier: MIT
// Copyright (c) 2025 Vladyslav Kazantsev

// Package gitref resolves remote branches to short commit identifiers with
// read-only "git ls-remote" calls. Lookups are advisory: every failure is
// logged and reported as "not resolved", never as an error.
package gitref

import (
	"bufio"
	"bytes"
	"context"
	"net/url"
	"os"
	"os/exec"
	"strings"
	"time"

	"github.com/specialistvlad/buildchain/internal/ctxlog"
)

const (
	// Marker prefixes every resolved reference.
	Marker = "@"
	// DefaultHashLength is the length of the returned commit prefix.
	DefaultHashLength = 7
)

// Resolver looks up remote branch heads.
type Resolver struct {
	git     string
	token   string
	timeout time.Duration
}

// Option configures a Resolver.
type Option func(*Resolver)

// WithToken authenticates https lookups with a token.
func WithToken(token string) Option {
	return func(r *Resolver) { r.token = token }
}

// WithTimeout bounds a single lookup.
func WithTimeout(d time.Duration) Option {
	return func(r *Resolver) { r.timeout = d }
}

// WithGitBinary overrides the git executable.
func WithGitBinary(path string) Option {
	return func(r *Resolver) { r.git = path }
}

// NewResolver returns a Resolver using the git binary on PATH.
func NewResolver(opts ...Option) *Resolver {
	r := &Resolver{git: "git", timeout: 30 * time.Second}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

// ResolveRemoteSha returns the marker-prefixed first hashLength characters of
// the commit branch points at in the repository at repoURL. A hashLength of
// zero or less selects DefaultHashLength. The second result is false when the
// lookup failed for any reason.
func (r *Resolver) ResolveRemoteSha(ctx context.Context, repoURL, branch string, hashLength int) (string, bool) {
	logger := ctxlog.FromContext(ctx).With("repository", repoURL, "branch", branch)
	if hashLength <= 0 {
		hashLength = DefaultHashLength
	}

	ctx, cancel := context.WithTimeout(ctx, r.timeout)
	defer cancel()

	cmd := exec.CommandContext(ctx, r.git, "ls-remote", "--heads", r.authenticated(repoURL), branch)
	cmd.Env = append(os.Environ(), "GIT_TERMINAL_PROMPT=0")
	var stdout, stderr bytes.Buffer
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr

	if err := cmd.Run(); err != nil {
		logger.Warn("Cannot resolve remote branch, continuing without it.",
			"error", err, "stderr", r.redact(strings.TrimSpace(stderr.String())))
		return "", false
	}

	want := "refs/heads/" + branch
	sc := bufio.NewScanner(&stdout)
	for sc.Scan() {
		sha, ref, ok := strings.Cut(sc.Text(), "\t")
		if !ok || ref != want {
			continue
		}
		if len(sha) < hashLength {
			logger.Warn("Remote returned a malformed commit id.", "sha", sha)
			return "", false
		}
		out := Marker + sha[:hashLength]
		logger.Debug("Resolved remote branch.", "ref", out)
		return out, true
	}

	logger.Warn("Remote branch not found, continuing without it.")
	return "", false
}

// authenticated embeds the token into https URLs.
func (r *Resolver) authenticated(repoURL string) string {
	if r.token == "" {
		return repoURL
	}
	u, err := url.Parse(repoURL)
	if err != nil || u.Scheme != "https" || u.User != nil {
		return repoURL
	}
	u.User = url.UserPassword("x-access-token", r.token)
	return u.String()
}

// redact removes the token from text that may echo the remote URL.
func (r *Resolver) redact(s string) string {
	if r.token == "" {
		return s
	}
	return strings.ReplaceAll(s, r.token, "***")
}

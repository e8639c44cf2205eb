// SPDX-License-Identifier: MIT
// Copyright (c) 2025 Vladyslav Kazantsev

// Package trigger turns the two entry modes into a model.Trigger: a pull
// request or branch URL given on the command line, or the environment of a
// hosted GitHub Actions job.
package trigger

import (
	"fmt"
	"net/url"
	"strconv"
	"strings"

	"github.com/specialistvlad/buildchain/internal/model"
)

// ClientError reports malformed trigger input.
type ClientError struct {
	Input string
	Msg   string
}

func (e *ClientError) Error() string {
	if e.Input == "" {
		return "invalid trigger: " + e.Msg
	}
	return fmt.Sprintf("invalid trigger %q: %s", e.Input, e.Msg)
}

func clientErr(input, format string, args ...any) error {
	return &ClientError{Input: input, Msg: fmt.Sprintf(format, args...)}
}

// ParseURL parses https://<host>/<owner>/<repo>/pull/<number> and
// https://<host>/<owner>/<repo>/tree/<branch>. Branch names may contain
// slashes.
func ParseURL(raw string) (model.Trigger, error) {
	u, err := url.Parse(strings.TrimSpace(raw))
	if err != nil {
		return model.Trigger{}, clientErr(raw, "%v", err)
	}
	if u.Scheme != "https" && u.Scheme != "http" {
		return model.Trigger{}, clientErr(raw, "expected an http(s) URL")
	}
	if u.Host == "" {
		return model.Trigger{}, clientErr(raw, "missing host")
	}

	parts := strings.Split(strings.Trim(u.Path, "/"), "/")
	if len(parts) < 4 || parts[0] == "" || parts[1] == "" {
		return model.Trigger{}, clientErr(raw, "expected /<owner>/<repo>/(pull|tree)/<ref>")
	}
	owner, repo, kind := parts[0], strings.TrimSuffix(parts[1], ".git"), parts[2]

	t := model.Trigger{Project: owner + "/" + repo, Owner: owner, Repo: repo}
	switch kind {
	case "pull":
		if len(parts) != 4 {
			return model.Trigger{}, clientErr(raw, "unexpected path after the pull request number")
		}
		if n, err := strconv.Atoi(parts[3]); err != nil || n <= 0 {
			return model.Trigger{}, clientErr(raw, "pull request number %q is not a positive integer", parts[3])
		}
		t.Event = model.EventPullRequest
		t.Ref = parts[3]
	case "tree":
		branch, err := url.PathUnescape(strings.Join(parts[3:], "/"))
		if err != nil || branch == "" {
			return model.Trigger{}, clientErr(raw, "invalid branch")
		}
		t.Event = model.EventPush
		t.Ref = branch
	default:
		return model.Trigger{}, clientErr(raw, "unsupported path segment %q, expected pull or tree", kind)
	}
	return t, nil
}

// FromEnv builds the trigger of a hosted GitHub Actions job.
func FromEnv(getenv func(string) string) (model.Trigger, error) {
	repository := getenv("GITHUB_REPOSITORY")
	owner, repo, ok := strings.Cut(repository, "/")
	if !ok || owner == "" || repo == "" || strings.Contains(repo, "/") {
		return model.Trigger{}, clientErr(repository, "GITHUB_REPOSITORY must be <owner>/<repo>")
	}
	t := model.Trigger{Project: repository, Owner: owner, Repo: repo}

	switch event := getenv("GITHUB_EVENT_NAME"); event {
	case "pull_request", "pull_request_target":
		t.Event = model.EventPullRequest
		t.Ref = getenv("GITHUB_HEAD_REF")
		t.BaseBranch = getenv("GITHUB_BASE_REF")
	case "push":
		t.Event = model.EventPush
		t.Ref = getenv("GITHUB_REF_NAME")
		if t.Ref == "" {
			return model.Trigger{}, clientErr(event, "GITHUB_REF_NAME is empty")
		}
	default:
		return model.Trigger{}, clientErr(event, "unsupported GITHUB_EVENT_NAME, expected pull_request or push")
	}
	return t, nil
}

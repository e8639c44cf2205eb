// SPDX-License-Identifier: MIT
// Copyright (c) 2025 Vladyslav Kazantsev
package definition

import (
	"context"

	"github.com/Masterminds/semver/v3"
	"github.com/specialistvlad/buildchain/internal/ctxlog"
)

// SupportedVersions is the constraint every definition file version must meet.
const SupportedVersions = ">= 2.0.0-0, < 3.0.0-0"

var supported = mustConstraint(SupportedVersions)

func mustConstraint(c string) *semver.Constraints {
	constraint, err := semver.NewConstraint(c)
	if err != nil {
		panic(err)
	}
	return constraint
}

// checkVersion validates the declared version of a definition file. A missing
// version is accepted with a warning.
func checkVersion(ctx context.Context, source, version string) error {
	if version == "" {
		ctxlog.FromContext(ctx).Warn("Definition file declares no version, assuming a supported one.", "source", source)
		return nil
	}
	v, err := semver.NewVersion(version)
	if err != nil {
		return malformedf(source, "invalid version %q: %v", version, err)
	}
	if !supported.Check(v) {
		return malformedf(source, "unsupported version %s: must satisfy %s", v, SupportedVersions)
	}
	return nil
}

// SPDX-License-Identifier: MPL-2.0

package pkginfo

import (
	"bytes"
	"context"
	"strings"
)

// vcsDescribedVersion derives a version string from the git checkout at dir
// by running `git describe --tags --always`. The substitution is strictly
// best effort: any failure (no git binary, not a repository, no tags, empty
// output) returns "" and the caller keeps the sentinel.
func vcsDescribedVersion(ctx context.Context, dir string) string {
	if dir == "" {
		return ""
	}

	cmd := execCommand(ctx, "git", "-C", dir, "describe", "--tags", "--always")
	var stdout bytes.Buffer
	cmd.Stdout = &stdout

	if err := cmd.Run(); err != nil {
		return ""
	}
	return strings.TrimSpace(stdout.String())
}

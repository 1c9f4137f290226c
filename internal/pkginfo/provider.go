// SPDX-License-Identifier: MPL-2.0

package pkginfo

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"os/exec"
	"strings"

	"instdirs-cli/pkg/types"

	"golang.org/x/mod/semver"
)

// DevelopmentVersionSentinel is the version pip reports for editable
// installs that carry no real version metadata.
const DevelopmentVersionSentinel = "0.0.0"

// ErrPackageNotFound is the sentinel error wrapped by PackageNotFoundError.
var ErrPackageNotFound = errors.New("package not found")

// execCommand creates the exec.Cmd for every pip/git invocation. Tests swap
// this for a recorder so no real binary is spawned.
var execCommand = exec.CommandContext

type (
	// Package is an immutable metadata snapshot of one installed package.
	Package struct {
		Name       types.PackageName
		Version    string
		Location   string
		Summary    string
		Homepage   string
		Author     string
		License    string
		Requires   []string
		RequiredBy []string

		// python is the interpreter the snapshot was taken with, kept for
		// the on-demand outdated probe.
		python string
	}

	// Provider returns metadata snapshots for installed packages.
	Provider interface {
		// Show returns the metadata snapshot for the named package, or a
		// PackageNotFoundError when the package manager does not know it.
		Show(ctx context.Context, name string) (*Package, error)
	}

	// PackageNotFoundError is returned when the named package is unknown to
	// the package manager. Fatal; never retried.
	PackageNotFoundError struct {
		Name string
	}

	// PipProvider implements Provider by shelling out to pip through the
	// configured Python interpreter.
	PipProvider struct {
		// Python is the interpreter used for pip queries (e.g. "python3").
		Python string
	}
)

// Error implements the error interface.
func (e *PackageNotFoundError) Error() string {
	return fmt.Sprintf("package %q is not installed according to the package manager", e.Name)
}

// Unwrap returns ErrPackageNotFound so callers can use errors.Is for programmatic detection.
func (e *PackageNotFoundError) Unwrap() error { return ErrPackageNotFound }

// NewPipProvider creates a pip-backed Provider using the given Python
// interpreter ("python3" when empty).
func NewPipProvider(python string) *PipProvider {
	if python == "" {
		python = "python3"
	}
	return &PipProvider{Python: python}
}

// Show runs `pip show` for the package and parses its key/value block. The
// development-version sentinel is substituted with a VCS-derived version
// when one can be obtained from the install location.
func (p *PipProvider) Show(ctx context.Context, name string) (*Package, error) {
	cmd := execCommand(ctx, p.Python, "-m", "pip", "show", name, "--no-color")
	var stdout, stderr bytes.Buffer
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr

	if err := cmd.Run(); err != nil {
		var exitErr *exec.ExitError
		if errors.As(err, &exitErr) {
			return nil, &PackageNotFoundError{Name: name}
		}
		return nil, fmt.Errorf("failed to query package manager: %w", err)
	}

	pkg := parsePipShow(stdout.String())
	pkg.python = p.Python
	if pkg.Name == "" {
		pkg.Name = types.NormalizePackageName(name)
	}

	if pkg.Version == DevelopmentVersionSentinel {
		if v := vcsDescribedVersion(ctx, pkg.Location); v != "" {
			pkg.Version = v
		}
	}
	return pkg, nil
}

// parsePipShow parses the `Key: value` block printed by pip show. The
// Requires and Required-by lists are comma separated.
func parsePipShow(out string) *Package {
	pkg := &Package{}
	for _, line := range strings.Split(out, "\n") {
		key, value, found := strings.Cut(line, ":")
		if !found {
			continue
		}
		value = strings.TrimSpace(value)
		switch strings.ToLower(strings.TrimSpace(key)) {
		case "name":
			pkg.Name = types.NormalizePackageName(value)
		case "version":
			pkg.Version = value
		case "location":
			pkg.Location = value
		case "summary":
			pkg.Summary = value
		case "home-page":
			pkg.Homepage = value
		case "author":
			pkg.Author = value
		case "license":
			pkg.License = value
		case "requires":
			pkg.Requires = splitCommaList(value)
		case "required-by":
			pkg.RequiredBy = splitCommaList(value)
		}
	}
	return pkg
}

func splitCommaList(value string) []string {
	if value == "" {
		return nil
	}
	parts := strings.Split(value, ",")
	out := make([]string, 0, len(parts))
	for _, part := range parts {
		if trimmed := strings.TrimSpace(part); trimmed != "" {
			out = append(out, trimmed)
		}
	}
	return out
}

// outdatedEntry mirrors one element of `pip list --outdated --format=json`.
type outdatedEntry struct {
	Name          string `json:"name"`
	Version       string `json:"version"`
	LatestVersion string `json:"latest_version"`
}

// NewerVersionAvailable probes the package index for a newer release and
// returns the latest version when one exists. The probe is slow (it hits
// the network through pip), so it is never called implicitly.
func (p *Package) NewerVersionAvailable(ctx context.Context) (bool, string, error) {
	python := p.python
	if python == "" {
		python = "python3"
	}
	cmd := execCommand(ctx, python, "-m", "pip", "list", "--outdated", "--format=json", "--no-color")
	var stdout bytes.Buffer
	cmd.Stdout = &stdout

	if err := cmd.Run(); err != nil {
		return false, "", fmt.Errorf("failed to probe for newer versions: %w", err)
	}

	var entries []outdatedEntry
	if err := json.Unmarshal(stdout.Bytes(), &entries); err != nil {
		return false, "", fmt.Errorf("failed to parse outdated package list: %w", err)
	}

	for _, entry := range entries {
		if types.NormalizePackageName(entry.Name) == p.Name {
			return true, entry.LatestVersion, nil
		}
	}
	return false, "", nil
}

// CompareVersions reports the semver ordering of two version strings
// (-1, 0, +1), tolerating versions without the canonical "v" prefix.
// Non-semver versions compare by string equality only: unequal strings
// order as a change in unknown direction (+1).
func CompareVersions(a, b string) int {
	va, vb := canonicalSemver(a), canonicalSemver(b)
	if va != "" && vb != "" {
		return semver.Compare(va, vb)
	}
	if a == b {
		return 0
	}
	return 1
}

func canonicalSemver(v string) string {
	if v == "" {
		return ""
	}
	if !strings.HasPrefix(v, "v") {
		v = "v" + v
	}
	if !semver.IsValid(v) {
		return ""
	}
	return v
}

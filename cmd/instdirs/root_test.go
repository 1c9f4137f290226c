// SPDX-License-Identifier: MPL-2.0

package cmd

import (
	"errors"
	"strings"
	"testing"

	"instdirs-cli/internal/issue"
)

func TestGetVersionString(t *testing.T) {
	originalVersion := Version
	originalCommit := Commit
	originalBuildDate := BuildDate
	defer func() {
		Version = originalVersion
		Commit = originalCommit
		BuildDate = originalBuildDate
	}()

	Version = "dev"
	if got := getVersionString(); got != "dev (built from source)" {
		t.Errorf("getVersionString() = %q", got)
	}

	Version = "1.2.3"
	Commit = "abc1234"
	BuildDate = "2026-01-02"
	got := getVersionString()
	for _, want := range []string{"1.2.3", "abc1234", "2026-01-02"} {
		if !strings.Contains(got, want) {
			t.Errorf("getVersionString() = %q, missing %q", got, want)
		}
	}
}

func TestFormatErrorForDisplay(t *testing.T) {
	t.Parallel()

	plain := errors.New("plain failure")
	if got := formatErrorForDisplay(plain, false); got != "plain failure" {
		t.Errorf("formatErrorForDisplay() = %q", got)
	}

	actionable := issue.NewErrorContext().
		WithOperation("install directives").
		WithResource("my_pkg").
		WithSuggestion("Run with --verbose for details").
		Wrap(plain).
		Build()

	got := formatErrorForDisplay(actionable, false)
	if !strings.Contains(got, "install directives") || !strings.Contains(got, "Run with --verbose") {
		t.Errorf("formatErrorForDisplay() = %q, want operation and suggestion", got)
	}

	verbose := formatErrorForDisplay(actionable, true)
	if !strings.Contains(verbose, "Error chain:") {
		t.Errorf("verbose format %q should include the error chain", verbose)
	}
}

func TestRunInfo_RequiresPackageUnlessIssues(t *testing.T) {
	originalIssues := infoIssues
	defer func() { infoIssues = originalIssues }()
	infoIssues = false

	err := runInfo(infoCmd, nil)
	var exitErr *ExitError
	if !errors.As(err, &exitErr) || exitErr.Code != ExitUsage {
		t.Fatalf("runInfo() without a package = %v, want a usage ExitError", err)
	}
}

func TestRootCommand_ArgValidation(t *testing.T) {
	t.Parallel()

	if err := rootCmd.Args(rootCmd, []string{"my_pkg"}); err == nil {
		t.Error("one argument should fail validation")
	}
	if err := rootCmd.Args(rootCmd, []string{"my_pkg", "install"}); err != nil {
		t.Errorf("two arguments should pass validation, got %v", err)
	}
}

// SPDX-License-Identifier: MPL-2.0

package cmd

import (
	"errors"
	"fmt"
	"os"
	"slices"
	"strings"

	"instdirs-cli/internal/config"
	"instdirs-cli/internal/issue"
	"instdirs-cli/internal/pkginfo"
	"instdirs-cli/pkg/directives"
	"instdirs-cli/pkg/types"

	"github.com/spf13/cobra"
)

var (
	// infoOutdated adds the (slow, network-bound) newer-version probe.
	infoOutdated bool
	// infoIssues renders the catalog of known issues instead of package info.
	infoIssues bool

	infoCmd = &cobra.Command{
		Use:   "info [package]",
		Short: "Show a package's metadata snapshot and directive state",
		Long: `Show the metadata snapshot instdirs takes of a package (name, version,
location, dependencies) together with its directive state: whether install
was run and which version was recorded.

With --outdated the package index is queried for a newer release. With
--issues the catalog of known issues and their remedies is rendered instead.`,
		Args: cobra.MaximumNArgs(1),
		RunE: runInfo,
	}
)

func init() {
	infoCmd.Flags().BoolVar(&infoOutdated, "outdated", false, "query the package index for a newer release")
	infoCmd.Flags().BoolVar(&infoIssues, "issues", false, "render the catalog of known issues")
}

func runInfo(cmd *cobra.Command, args []string) error {
	if infoIssues {
		return renderIssueCatalog()
	}

	if len(args) == 0 {
		return &ExitError{Code: ExitUsage, Err: errors.New("a package name is required unless --issues is set")}
	}

	pkg := types.NormalizePackageName(args[0])
	if ok, errs := pkg.IsValid(); !ok {
		return asExitError(errs[0])
	}

	ctx := cmd.Context()
	cfg, err := loadConfig(ctx)
	if err != nil {
		return &ExitError{Code: ExitConfiguration, Err: err}
	}
	logger := newLogger(cfg)

	info, err := pkginfo.NewPipProvider(cfg.Python.Interpreter()).Show(ctx, args[0])
	if err != nil {
		fmt.Fprintln(os.Stderr, ErrorStyle.Render("Error: ")+formatErrorForDisplay(err, verbose))
		return asExitError(err)
	}

	printPackageInfo(info)

	if err := printDirectiveState(cfg, pkg); err != nil {
		logger.Warn("could not read directive state", "package", pkg, "error", err)
	}

	if infoOutdated {
		outdated, latest, err := info.NewerVersionAvailable(ctx)
		switch {
		case err != nil:
			fmt.Fprintln(os.Stderr, WarningStyle.Render("Warning: ")+formatErrorForDisplay(err, verbose))
		case outdated:
			fmt.Println(infoLabelStyle.Render("Latest") + WarningStyle.Render(latest+" (newer than installed)"))
		default:
			fmt.Println(infoLabelStyle.Render("Latest") + SuccessStyle.Render("up to date"))
		}
	}

	return nil
}

// printPackageInfo renders the metadata snapshot as a styled card.
func printPackageInfo(info *pkginfo.Package) {
	fmt.Println(TitleStyle.Render(string(info.Name)) + SubtitleStyle.Render(" "+info.Version))
	if info.Summary != "" {
		fmt.Println(SubtitleStyle.Render(info.Summary))
	}
	fmt.Println()

	printField("Location", info.Location)
	printField("Homepage", info.Homepage)
	printField("Author", info.Author)
	printField("License", info.License)
	printField("Requires", strings.Join(info.Requires, ", "))
	printField("Required by", strings.Join(info.RequiredBy, ", "))
}

// printDirectiveState reports whether install directives were run for the
// package, and at which version.
func printDirectiveState(cfg *config.Config, pkg types.PackageName) error {
	stateRoot, err := cfg.StateRoot.Resolve()
	if err != nil {
		return err
	}

	engine, err := directives.NewEngine(pkg, "unknown", stateRoot)
	if err != nil {
		return err
	}

	if !engine.Installed() {
		printField("Directives", "not installed")
		return nil
	}
	version, err := engine.InstalledVersion()
	if err != nil {
		return err
	}
	printField("Directives", "installed (version "+version+")")
	return nil
}

func printField(label, value string) {
	if value == "" {
		return
	}
	fmt.Println(infoLabelStyle.Render(label) + infoValueStyle.Render(value))
}

// renderIssueCatalog glamour-renders every known issue, ordered by ID.
func renderIssueCatalog() error {
	catalog := issue.Values()
	slices.SortFunc(catalog, func(a, b *issue.Issue) int {
		return int(a.Id()) - int(b.Id())
	})

	for _, entry := range catalog {
		rendered, err := entry.Render("dark")
		if err != nil {
			return fmt.Errorf("failed to render issue %d: %w", entry.Id(), err)
		}
		fmt.Print(rendered)
	}
	return nil
}

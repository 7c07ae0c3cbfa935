// Package cmd is the thin cobra CLI front end (`cmd/jsflow`) that exposes
// the taint analysis engine: `scan` for a file or project and `version`.
// The spec treats the CLI as an external collaborator of the analysis core
// (spec.md §1), so this package stays a thin wrapper around internal/engine
// and output rather than a design target in its own right.
package cmd

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/tainthound/jsflow/output"
)

var (
	verboseFlag bool
	// Version is the jsflow release version, overridden at build time via
	// -ldflags, matching the teacher's cmd/version.go convention.
	Version   = "0.1.0"
	GitCommit = "HEAD"
)

var rootCmd = &cobra.Command{
	Use:   "jsflow",
	Short: "Type-based taint analysis for JavaScript and TypeScript",
	Long: `jsflow finds injection-class vulnerabilities (SQL injection, command
injection, path traversal, XSS, code injection, SSRF) in a JavaScript or
TypeScript source tree by tracing untrusted data from sources to dangerous
sinks over a type-based taint lattice.`,
	PersistentPreRun: func(cmd *cobra.Command, _ []string) {
		verboseFlag, _ = cmd.Flags().GetBool("verbose") //nolint:all

		if cmd.Name() == "help" || (len(os.Args) == 1 || (len(os.Args) == 2 && (os.Args[1] == "--help" || os.Args[1] == "-h"))) {
			noBanner, _ := cmd.Flags().GetBool("no-banner")
			logger := output.NewLogger(output.VerbosityDefault)
			if output.ShouldShowBanner(logger.IsTTY(), noBanner) {
				output.PrintBanner(logger.GetWriter(), Version, output.DefaultBannerOptions())
			} else if logger.IsTTY() && !noBanner {
				fmt.Fprintln(os.Stderr, output.GetCompactBanner(Version))
				fmt.Fprintln(os.Stderr)
			}
		}
	},
}

// Execute runs the root command.
func Execute() error {
	return rootCmd.Execute()
}

func init() {
	rootCmd.PersistentFlags().Bool("verbose", false, "Verbose output")
	rootCmd.PersistentFlags().Bool("no-banner", false, "Disable startup banner")
}

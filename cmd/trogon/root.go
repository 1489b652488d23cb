// SPDX-License-Identifier: MPL-2.0

// The trogon binary demonstrates the command builder on a bundled sample
// CLI and can serve it over SSH.
package main

import (
	"context"
	"errors"
	"fmt"
	"os"

	"github.com/charmbracelet/fang"
	"github.com/spf13/cobra"

	"github.com/jrcribb/trogon/internal/config"
	"github.com/jrcribb/trogon/internal/issue"
)

var (
	// Version is the semantic version (set via -ldflags).
	Version = "dev"
	// Commit is the git commit hash (set via -ldflags).
	Commit = "unknown"
	// BuildDate is the build timestamp (set via -ldflags).
	BuildDate = "unknown"

	// verbose enables verbose error output.
	verbose bool
	// cfgFile allows specifying a custom config file.
	cfgFile string

	// rootCmd represents the base command when called without any subcommands.
	rootCmd = &cobra.Command{
		Use:   "trogon",
		Short: "An interactive form builder for command-line apps",
		Long: TitleStyle.Render("trogon") + SubtitleStyle.Render(" - An interactive form builder for command-line apps") + `

trogon inspects a CLI's command tree and opens a full-screen form for
picking a command and filling in its options, flags, and arguments. The
assembled invocation is previewed live and run on commit.

` + SubtitleStyle.Render("Examples:") + `
  trogon demo               Open the builder on the bundled sample CLI
  trogon schema             Dump the sample CLI's discovered schema
  trogon serve --port 2222  Serve the builder over SSH`,
	}
)

func init() {
	cobra.OnInitialize(initRootConfig)

	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "enable verbose output")
	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "", "config file (default is $HOME/.config/trogon/config.cue)")

	rootCmd.AddCommand(demoCmd)
	rootCmd.AddCommand(schemaCmd)
	rootCmd.AddCommand(serveCmd)
}

// getVersionString returns a formatted version string for display.
func getVersionString() string {
	if Version == "dev" {
		return "dev (built from source)"
	}
	return fmt.Sprintf("%s (commit: %s, built: %s)", Version, Commit, BuildDate)
}

// Execute runs the root command. It is called by main.main().
func Execute() {
	if err := fang.Execute(
		context.Background(),
		rootCmd,
		fang.WithVersion(getVersionString()),
		fang.WithNotifySignal(os.Interrupt),
	); err != nil {
		var ae *issue.ActionableError
		if errors.As(err, &ae) && ae.HasSuggestions() {
			fmt.Fprintln(os.Stderr, ErrorStyle.Render(ae.Format(verbose)))
		}
		os.Exit(1)
	}
}

// initRootConfig points the config loader at an explicit file when the
// --config flag was given.
func initRootConfig() {
	if cfgFile != "" {
		config.SetConfigFileOverride(cfgFile)
	}
}

// loadConfig reads the configuration, falling back to defaults on a missing
// file. Errors are actionable and surfaced to the user as-is.
func loadConfig() (*config.Config, error) {
	return config.Load()
}

// SPDX-License-Identifier: MPL-2.0

// Package trogon turns a cobra CLI into an interactive command builder.
// Calling AddTUI on a root command injects a "tui" subcommand that opens a
// full-screen form over the CLI's command tree; closing the form with
// close-and-run replaces the process with the assembled invocation.
package trogon

import (
	"errors"
	"os"
	"os/exec"

	"github.com/spf13/cobra"
	"golang.org/x/term"

	"github.com/jrcribb/trogon/internal/config"
	"github.com/jrcribb/trogon/internal/issue"
	"github.com/jrcribb/trogon/internal/logging"
	"github.com/jrcribb/trogon/internal/tui"
	"github.com/jrcribb/trogon/pkg/schema"
)

type (
	// Option configures the injected tui subcommand.
	Option func(*options)

	options struct {
		appName       string
		declaredOrder *bool
		showHidden    bool
		cfg           *config.Config
	}

	// Relaunch is the terminal action of a committed builder session: the
	// argv to hand back to the host CLI.
	Relaunch struct {
		Argv []string
	}
)

// WithAppName overrides the name shown in the builder header. Defaults to
// the root command's name.
func WithAppName(name string) Option {
	return func(o *options) { o.appName = name }
}

// WithDeclaredOrder forces the serializer's argument ordering, overriding
// the configuration file.
func WithDeclaredOrder(on bool) Option {
	return func(o *options) { o.declaredOrder = &on }
}

// WithHidden includes hidden commands and flags in the builder.
func WithHidden() Option {
	return func(o *options) { o.showHidden = true }
}

// WithConfig supplies a configuration instead of loading one from disk.
func WithConfig(cfg *config.Config) Option {
	return func(o *options) { o.cfg = cfg }
}

// AddTUI injects the "tui" subcommand into root.
func AddTUI(root *cobra.Command, opts ...Option) {
	o := &options{}
	for _, opt := range opts {
		opt(o)
	}
	root.AddCommand(newTUICommand(root, o))
}

func newTUICommand(root *cobra.Command, o *options) *cobra.Command {
	return &cobra.Command{
		Use:   "tui",
		Short: "Open an interactive form for building and running commands",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return runBuilder(root, o)
		},
	}
}

func runBuilder(root *cobra.Command, o *options) error {
	if !term.IsTerminal(int(os.Stdout.Fd())) {
		return issue.NewContext().
			WithOperation("start command builder").
			WithSuggestion("Run from an interactive terminal").
			Wrap(errors.New("stdout is not a terminal")).
			BuildError()
	}

	cfg := o.cfg
	if cfg == nil {
		var err error
		if cfg, err = config.Load(); err != nil {
			return err
		}
	}
	logger := logging.New(cfg.Log)

	discoverOpts := []schema.DiscoverOption{schema.WithSkipCommands("tui")}
	if o.showHidden || cfg.UI.ShowHidden {
		discoverOpts = append(discoverOpts, schema.WithHidden())
	}
	tree, err := schema.Discover(root, discoverOpts...)
	if err != nil {
		return err
	}

	appName := o.appName
	if appName == "" {
		appName = root.Name()
	}
	declaredOrder := cfg.Serializer.DeclaredOrder
	if o.declaredOrder != nil {
		declaredOrder = *o.declaredOrder
	}

	res, err := tui.Run(tui.Options{
		AppName:       appName,
		Root:          tree,
		DeclaredOrder: declaredOrder,
		ColorScheme:   cfg.UI.ColorScheme,
		Logger:        logger,
	})
	if err != nil {
		return err
	}
	if res == nil {
		// Quit without committing.
		return nil
	}

	logger.Info("relaunching", "argv", res.Argv)
	return (&Relaunch{Argv: res.Argv}).Exec()
}

// Exec hands control to the assembled invocation. On unix the current
// process is replaced; on windows the command runs as a child and Exec
// returns its error.
func (r *Relaunch) Exec() error {
	if len(r.Argv) == 0 {
		return issue.Wrap(errors.New("empty argv"), "relaunch command")
	}
	path, err := exec.LookPath(r.Argv[0])
	if err != nil {
		return issue.NewContext().
			WithOperation("relaunch command").
			WithResource(r.Argv[0]).
			WithSuggestion("Ensure the executable is on PATH").
			Wrap(err).
			BuildError()
	}
	return execReplace(path, r.Argv)
}

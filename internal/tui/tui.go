// SPDX-License-Identifier: MPL-2.0

package tui

import (
	"errors"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/jrcribb/trogon/internal/issue"
)

// Run starts the builder on the controlling terminal and blocks until the
// user commits or quits. A nil Result means the user quit without running.
func Run(opts Options) (*Result, error) {
	if opts.Root == nil {
		return nil, issue.NewContext().
			WithOperation("start command builder").
			WithResource("command schema").
			WithSuggestion("Discover the command tree before launching the builder").
			Wrap(errors.New("no command schema provided")).
			BuildError()
	}

	m := NewModel(opts)
	p := tea.NewProgram(m, tea.WithAltScreen())
	final, err := p.Run()
	if err != nil {
		return nil, issue.Wrap(err, "run command builder")
	}

	fm, ok := final.(*Model)
	if !ok || !fm.Committed() {
		return nil, nil
	}
	inv := fm.Preview()
	return &Result{Argv: inv.Argv, DisplayString: inv.DisplayString}, nil
}

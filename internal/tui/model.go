// SPDX-License-Identifier: MPL-2.0

// Package tui implements the interactive command builder screen: a command
// tree on the left, a generated form for the selected command on the right,
// and a live invocation preview at the bottom.
//
// The core stays synchronous: every accepted edit mutates the session data
// and the preview is recomputed in the same Update call, so what is shown
// always reflects the latest mutation.
package tui

import (
	"fmt"
	"io"
	"strings"

	"github.com/jrcribb/trogon/pkg/invocation"
	"github.com/jrcribb/trogon/pkg/schema"
	"github.com/jrcribb/trogon/pkg/session"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/textinput"
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/log"
)

type (
	// Options configures a builder session.
	Options struct {
		// AppName is shown in the header and used for the root prompt.
		AppName string
		// Root is the discovered schema tree.
		Root *schema.CommandSchema
		// DeclaredOrder passes through to the serializer.
		DeclaredOrder bool
		// ColorScheme selects the palette ("charm", "dracula", "base16").
		ColorScheme string
		// Logger receives session debug entries. Nil discards them.
		Logger *log.Logger
	}

	// Result is the committed invocation, nil when the user quit instead.
	Result struct {
		Argv          []string
		DisplayString string
	}

	focusArea int

	// treeNode is one visible row of the flattened command tree.
	treeNode struct {
		cmd   *schema.CommandSchema
		depth int
	}

	// Model is the bubbletea model for the builder.
	Model struct {
		opts    Options
		grouped bool
		keys    KeyMap
		help    help.Model
		styles  styles
		logger  *log.Logger

		nodes  []treeNode
		cursor int

		selected *schema.CommandSchema
		data     *session.UserCommandData
		fields   []*field
		fieldIdx int

		focus   focusArea
		preview invocation.Invocation
		warn    string

		infoView viewport.Model
		showInfo bool

		width, height int
		committed     bool
	}
)

const (
	focusTree focusArea = iota
	focusForm
)

// NewModel builds the initial model with the root (or its first leaf)
// selected and the preview reflecting defaults only.
func NewModel(opts Options) *Model {
	logger := opts.Logger
	if logger == nil {
		logger = log.New(io.Discard)
	}

	m := &Model{
		opts:    opts,
		grouped: opts.Root.IsGroup(),
		keys:    DefaultKeyMap(),
		help:    help.New(),
		styles:  newStyles(opts.ColorScheme),
		logger:  logger,
	}
	m.nodes = flatten(opts.Root)

	m.focus = focusForm
	if m.grouped {
		m.focus = focusTree
	}
	m.selectNode(m.nodes[m.cursor].cmd)
	return m
}

// flatten lists the tree depth-first, one row per command.
func flatten(root *schema.CommandSchema) []treeNode {
	var nodes []treeNode
	var walk func(c *schema.CommandSchema, depth int)
	walk = func(c *schema.CommandSchema, depth int) {
		nodes = append(nodes, treeNode{cmd: c, depth: depth})
		for _, ch := range c.Children {
			walk(ch, depth+1)
		}
	}
	walk(root, 0)
	return nodes
}

// selectNode replaces the session state for a newly selected command. The
// swap is a single step: data, fields and preview all move to the new node
// together, so the preview can never mix two commands' values.
func (m *Model) selectNode(cmd *schema.CommandSchema) {
	m.selected = cmd
	m.data = session.New(cmd)
	m.fields = make([]*field, 0, len(cmd.Parameters))
	for i := range cmd.Parameters {
		m.fields = append(m.fields, newField(&cmd.Parameters[i]))
	}
	m.fieldIdx = 0
	m.warn = ""
	if m.focus == focusForm {
		m.focusField(0)
	}
	m.refreshPreview()
	m.logger.Debug("selected command", "path", pathString(cmd))
}

func pathString(cmd *schema.CommandSchema) string {
	var names []string
	for _, n := range cmd.Path() {
		names = append(names, n.Name)
	}
	return strings.Join(names, " ")
}

// refreshPreview recomputes the invocation from the current data.
func (m *Model) refreshPreview() {
	m.preview = invocation.Serialize(m.selected.Path(), m.data, invocation.Options{
		IncludeRoot:   true,
		DeclaredOrder: m.opts.DeclaredOrder,
	})
}

// Preview returns the invocation currently shown.
func (m *Model) Preview() invocation.Invocation { return m.preview }

// Committed reports whether the user chose close-and-run.
func (m *Model) Committed() bool { return m.committed }

// Init implements tea.Model.
func (m *Model) Init() tea.Cmd {
	return textinput.Blink
}

// Update implements tea.Model.
func (m *Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width, m.height = msg.Width, msg.Height
		m.help.Width = msg.Width
		m.infoView = viewport.New(msg.Width-4, max(3, msg.Height-6))
		if m.showInfo {
			m.infoView.SetContent(m.infoContent())
		}
		return m, nil

	case tea.KeyMsg:
		return m.updateKey(msg)
	}

	return m, m.updateFocusedInput(msg)
}

func (m *Model) updateKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	if m.showInfo {
		switch {
		case key.Matches(msg, m.keys.Info), key.Matches(msg, m.keys.Quit):
			m.showInfo = false
			return m, nil
		default:
			var cmd tea.Cmd
			m.infoView, cmd = m.infoView.Update(msg)
			return m, cmd
		}
	}

	switch {
	case key.Matches(msg, m.keys.Quit):
		return m, tea.Quit

	case key.Matches(msg, m.keys.Run):
		if missing := m.preview.MissingRequired; len(missing) > 0 {
			m.warn = fmt.Sprintf("required: %s", strings.Join(missing, ", "))
			return m, nil
		}
		m.committed = true
		m.logger.Info("committed invocation", "display", m.preview.DisplayString)
		return m, tea.Quit

	case key.Matches(msg, m.keys.Info):
		m.showInfo = true
		m.infoView.SetContent(m.infoContent())
		return m, nil

	case key.Matches(msg, m.keys.NextPane):
		if m.grouped {
			m.switchFocus()
		}
		return m, m.currentFieldFocusCmd()

	case key.Matches(msg, m.keys.FocusTree):
		if m.grouped && m.focus != focusTree {
			m.switchFocus()
		}
		return m, nil
	}

	if m.focus == focusTree {
		return m, m.updateTree(msg)
	}
	return m, m.updateForm(msg)
}

func (m *Model) switchFocus() {
	if m.focus == focusTree {
		m.focus = focusForm
		m.focusField(m.fieldIdx)
		return
	}
	m.blurFields()
	m.focus = focusTree
}

func (m *Model) currentFieldFocusCmd() tea.Cmd {
	if m.focus != focusForm || len(m.fields) == 0 {
		return nil
	}
	return textinput.Blink
}

func (m *Model) updateTree(msg tea.KeyMsg) tea.Cmd {
	switch {
	case key.Matches(msg, m.keys.Up):
		if m.cursor > 0 {
			m.cursor--
			m.selectNode(m.nodes[m.cursor].cmd)
		}
	case key.Matches(msg, m.keys.Down):
		if m.cursor < len(m.nodes)-1 {
			m.cursor++
			m.selectNode(m.nodes[m.cursor].cmd)
		}
	}
	return nil
}

func (m *Model) updateForm(msg tea.KeyMsg) tea.Cmd {
	if len(m.fields) == 0 {
		return nil
	}
	f := m.fields[m.fieldIdx]

	switch {
	case key.Matches(msg, m.keys.Up):
		if m.fieldIdx > 0 {
			m.focusField(m.fieldIdx - 1)
		}
		return nil

	case key.Matches(msg, m.keys.Down):
		if m.fieldIdx < len(m.fields)-1 {
			m.focusField(m.fieldIdx + 1)
		}
		return nil

	case key.Matches(msg, m.keys.ClearField):
		f.clear(m.data)
		m.afterEdit()
		return nil
	}

	switch {
	case f.param.Kind == schema.KindFlag:
		if key.Matches(msg, m.keys.Toggle) {
			f.toggle(m.data)
			m.afterEdit()
		}
		return nil

	case f.param.Type == schema.TypeChoice && !f.param.Multiple:
		switch {
		case key.Matches(msg, m.keys.PrevChoice):
			f.cycle(m.data, -1)
			m.afterEdit()
		case key.Matches(msg, m.keys.NextChoice):
			f.cycle(m.data, +1)
			m.afterEdit()
		}
		return nil

	default:
		if f.param.Multiple {
			switch {
			case key.Matches(msg, m.keys.AddValue):
				f.appendValue(m.data)
				m.afterEdit()
				return nil
			case key.Matches(msg, m.keys.DropValue):
				f.dropValue(m.data)
				m.afterEdit()
				return nil
			}
		}
		var cmd tea.Cmd
		f.input, cmd = f.input.Update(msg)
		f.syncText(m.data)
		m.afterEdit()
		return cmd
	}
}

// afterEdit recomputes the preview and clears a stale commit warning once
// the command becomes complete.
func (m *Model) afterEdit() {
	m.refreshPreview()
	if len(m.preview.MissingRequired) == 0 {
		m.warn = ""
	}
}

func (m *Model) updateFocusedInput(msg tea.Msg) tea.Cmd {
	if m.focus != focusForm || len(m.fields) == 0 {
		return nil
	}
	f := m.fields[m.fieldIdx]
	if !f.isTextual() {
		return nil
	}
	var cmd tea.Cmd
	f.input, cmd = f.input.Update(msg)
	return cmd
}

func (m *Model) focusField(idx int) {
	m.blurFields()
	m.fieldIdx = idx
	if len(m.fields) > 0 {
		m.fields[idx].focus()
	}
}

func (m *Model) blurFields() {
	for _, f := range m.fields {
		f.blur()
	}
}

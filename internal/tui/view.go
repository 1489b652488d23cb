// SPDX-License-Identifier: MPL-2.0

package tui

import (
	"fmt"
	"strings"

	"github.com/jrcribb/trogon/pkg/schema"

	"github.com/charmbracelet/glamour"
	"github.com/charmbracelet/lipgloss"
)

const sidebarWidth = 28

// View implements tea.Model.
func (m *Model) View() string {
	if m.width == 0 {
		return ""
	}
	if m.showInfo {
		return m.viewInfo()
	}

	header := m.viewHeader()
	footer := m.viewFooter()
	bodyHeight := max(1, m.height-lipgloss.Height(header)-lipgloss.Height(footer))

	form := m.viewForm(m.formWidth(), bodyHeight)
	var body string
	if m.grouped {
		tree := m.styles.sidebar.
			Width(sidebarWidth).
			Height(bodyHeight).
			Render(m.viewTree(bodyHeight))
		body = lipgloss.JoinHorizontal(lipgloss.Top, tree, form)
	} else {
		// A single-command CLI has nothing to navigate; hide the tree.
		body = form
	}

	return lipgloss.JoinVertical(lipgloss.Left, header, body, footer)
}

func (m *Model) formWidth() int {
	if m.grouped {
		return max(20, m.width-sidebarWidth-2)
	}
	return m.width
}

func (m *Model) viewHeader() string {
	title := m.styles.title.Render(m.opts.AppName)
	doc := firstLine(m.selected.Docstring)
	sub := m.styles.subtitle.Render(fmt.Sprintf("%s — %s", pathString(m.selected), doc))
	return title + "\n" + sub + "\n"
}

func firstLine(s string) string {
	s = strings.TrimSpace(s)
	if i := strings.IndexByte(s, '\n'); i >= 0 {
		s = s[:i]
	}
	return s
}

func (m *Model) viewTree(height int) string {
	// Keep the cursor visible by sliding a window over the rows.
	start := 0
	if m.cursor >= height {
		start = m.cursor - height + 1
	}

	var b strings.Builder
	for i := start; i < len(m.nodes) && i-start < height; i++ {
		n := m.nodes[i]
		label := strings.Repeat("  ", n.depth) + n.cmd.Name
		if n.cmd.IsGroup() {
			label += " ▸"
		}

		style := m.styles.treeItem
		if n.cmd.IsGroup() {
			style = m.styles.treeGroup
		}
		if i == m.cursor {
			style = m.styles.treeCursor
		}
		b.WriteString(style.Render(label))
		if i < len(m.nodes)-1 {
			b.WriteByte('\n')
		}
	}
	return b.String()
}

func (m *Model) viewForm(width, height int) string {
	var sections []string
	if len(m.fields) == 0 {
		sections = append(sections, m.styles.hint.Render("This command takes no parameters."))
	}
	for i, f := range m.fields {
		sections = append(sections, m.viewField(f, i == m.fieldIdx && m.focus == focusForm))
	}

	form := strings.Join(sections, "\n")
	previewBox := m.viewPreview(width)

	formHeight := max(1, height-lipgloss.Height(previewBox))
	form = lipgloss.NewStyle().Width(width).Height(formHeight).MaxHeight(formHeight).Render(form)
	return lipgloss.JoinVertical(lipgloss.Left, form, previewBox)
}

func (m *Model) viewField(f *field, focused bool) string {
	labelStyle := m.styles.label
	if focused {
		labelStyle = m.styles.labelFocused
	}

	label := f.param.Name
	if f.param.Kind != schema.KindArgument {
		label = f.param.FlagToken()
	}
	line := labelStyle.Render(label)
	if f.param.Required {
		line += m.styles.required.Render("*")
	}
	if f.param.Help != "" {
		line += "  " + m.styles.hint.Render(firstLine(f.param.Help))
	}

	var widget string
	switch {
	case f.param.Kind == schema.KindFlag:
		box := "[ ]"
		if f.on {
			box = "[x]"
		}
		widget = m.styles.valueChip.Render(box)

	case f.param.Type == schema.TypeChoice && !f.param.Multiple:
		widget = m.viewChoices(f)

	case f.param.Multiple:
		var parts []string
		for _, v := range f.values {
			parts = append(parts, m.styles.valueChip.Render("["+v+"]"))
		}
		parts = append(parts, f.input.View())
		widget = strings.Join(parts, " ")

	default:
		widget = f.input.View()
	}

	out := line + "\n  " + widget
	if f.errMsg != "" {
		out += "\n  " + m.styles.errText.Render("✗ "+f.errMsg)
	}
	return out + "\n"
}

func (m *Model) viewChoices(f *field) string {
	var parts []string
	for i, c := range f.param.Choices {
		if i == f.choice {
			parts = append(parts, m.styles.valueChip.Render("● "+c))
			continue
		}
		parts = append(parts, m.styles.subtitle.Render("○ "+c))
	}
	return strings.Join(parts, "  ")
}

func (m *Model) viewPreview(width int) string {
	line := m.styles.prompt.Render("$ ") + m.styles.preview.Render(m.preview.DisplayString)
	if m.warn != "" {
		line += "\n" + m.styles.warn.Render("⚠ "+m.warn)
	}
	return m.styles.previewBox.Width(max(10, width-2)).Render(line)
}

func (m *Model) viewFooter() string {
	return m.help.View(m.keys)
}

func (m *Model) viewInfo() string {
	title := m.styles.title.Render(pathString(m.selected))
	hint := m.styles.hint.Render("ctrl+i or esc to close")
	return lipgloss.JoinVertical(lipgloss.Left, title, m.infoView.View(), hint)
}

// infoContent renders the selected command's docstring as markdown.
func (m *Model) infoContent() string {
	doc := m.selected.Docstring
	if doc == "" {
		doc = "*No documentation.*"
	}

	r, err := glamour.NewTermRenderer(
		glamour.WithAutoStyle(),
		glamour.WithWordWrap(max(20, m.width-6)),
	)
	if err != nil {
		return doc
	}
	out, err := r.Render(doc)
	if err != nil {
		return doc
	}
	return out
}

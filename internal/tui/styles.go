// SPDX-License-Identifier: MPL-2.0

package tui

import "github.com/charmbracelet/lipgloss"

type (
	// palette is the color set behind a scheme name.
	palette struct {
		primary   lipgloss.Color
		muted     lipgloss.Color
		success   lipgloss.Color
		errc      lipgloss.Color
		warning   lipgloss.Color
		highlight lipgloss.Color
	}

	// styles holds the pre-built lipgloss styles for one palette.
	styles struct {
		title        lipgloss.Style
		subtitle     lipgloss.Style
		label        lipgloss.Style
		labelFocused lipgloss.Style
		required     lipgloss.Style
		hint         lipgloss.Style
		errText      lipgloss.Style
		warn         lipgloss.Style
		treeItem     lipgloss.Style
		treeGroup    lipgloss.Style
		treeCursor   lipgloss.Style
		prompt       lipgloss.Style
		preview      lipgloss.Style
		previewBox   lipgloss.Style
		sidebar      lipgloss.Style
		valueChip    lipgloss.Style
	}
)

func schemePalette(name string) palette {
	switch name {
	case "dracula":
		return palette{
			primary:   lipgloss.Color("#BD93F9"),
			muted:     lipgloss.Color("#6272A4"),
			success:   lipgloss.Color("#50FA7B"),
			errc:      lipgloss.Color("#FF5555"),
			warning:   lipgloss.Color("#F1FA8C"),
			highlight: lipgloss.Color("#8BE9FD"),
		}
	case "base16":
		return palette{
			primary:   lipgloss.Color("5"),
			muted:     lipgloss.Color("8"),
			success:   lipgloss.Color("2"),
			errc:      lipgloss.Color("1"),
			warning:   lipgloss.Color("3"),
			highlight: lipgloss.Color("4"),
		}
	default: // charm
		return palette{
			primary:   lipgloss.Color("#7C3AED"),
			muted:     lipgloss.Color("#6B7280"),
			success:   lipgloss.Color("#10B981"),
			errc:      lipgloss.Color("#EF4444"),
			warning:   lipgloss.Color("#F59E0B"),
			highlight: lipgloss.Color("#3B82F6"),
		}
	}
}

func newStyles(scheme string) styles {
	p := schemePalette(scheme)
	return styles{
		title:        lipgloss.NewStyle().Bold(true).Foreground(p.primary),
		subtitle:     lipgloss.NewStyle().Foreground(p.muted),
		label:        lipgloss.NewStyle().Foreground(p.highlight),
		labelFocused: lipgloss.NewStyle().Bold(true).Foreground(p.primary),
		required:     lipgloss.NewStyle().Foreground(p.errc),
		hint:         lipgloss.NewStyle().Foreground(p.muted).Italic(true),
		errText:      lipgloss.NewStyle().Foreground(p.errc),
		warn:         lipgloss.NewStyle().Foreground(p.warning),
		treeItem:     lipgloss.NewStyle(),
		treeGroup:    lipgloss.NewStyle().Foreground(p.highlight),
		treeCursor:   lipgloss.NewStyle().Bold(true).Foreground(p.primary).Reverse(true),
		prompt:       lipgloss.NewStyle().Bold(true).Foreground(p.success),
		preview:      lipgloss.NewStyle().Foreground(p.highlight),
		previewBox: lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(p.muted).
			Padding(0, 1),
		sidebar: lipgloss.NewStyle().
			Border(lipgloss.NormalBorder(), false, true, false, false).
			BorderForeground(p.muted).
			PaddingRight(1),
		valueChip: lipgloss.NewStyle().Foreground(p.success),
	}
}

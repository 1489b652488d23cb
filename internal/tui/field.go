// SPDX-License-Identifier: MPL-2.0

package tui

import (
	"errors"
	"strings"

	"github.com/jrcribb/trogon/pkg/schema"
	"github.com/jrcribb/trogon/pkg/session"

	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
)

// field is one form entry: the schema parameter plus its widget state. The
// UserCommandData stays authoritative; the field only mirrors it for
// rendering and pushes edits through the validating setters.
type field struct {
	param *schema.ParameterSchema

	// input is the text widget for options and arguments.
	input textinput.Model
	// on mirrors the stored state of a flag.
	on bool
	// choice indexes param.Choices; -1 means unfilled.
	choice int
	// values mirrors the stored sequence of a multi-value parameter.
	values []string
	// errMsg is the rejection reason of the last failed edit, shown next
	// to the field until a subsequent edit succeeds.
	errMsg string
	// lastRaw tracks the text last pushed into the data record so a
	// pass-through keystroke (cursor movement) does not re-apply it.
	lastRaw string
}

func newField(p *schema.ParameterSchema) *field {
	f := &field{param: p, choice: -1}

	if p.Kind == schema.KindFlag {
		f.on = len(p.Default) == 1 && p.Default[0] == "true"
		return f
	}
	if p.Type == schema.TypeChoice && !p.Multiple {
		if len(p.Default) == 1 {
			for i, c := range p.Choices {
				if c == p.Default[0] {
					f.choice = i
				}
			}
		}
		return f
	}

	ti := textinput.New()
	ti.Prompt = ""
	ti.Placeholder = fieldPlaceholder(p)
	f.input = ti
	return f
}

func fieldPlaceholder(p *schema.ParameterSchema) string {
	if len(p.Default) > 0 {
		return strings.Join(p.Default, ", ")
	}
	return string(p.Type)
}

// isTextual reports whether the field routes keystrokes into a textinput.
func (f *field) isTextual() bool {
	return f.param.Kind != schema.KindFlag &&
		!(f.param.Type == schema.TypeChoice && !f.param.Multiple)
}

func (f *field) focus() tea.Cmd {
	if f.isTextual() {
		return f.input.Focus()
	}
	return nil
}

func (f *field) blur() {
	if f.isTextual() {
		f.input.Blur()
	}
}

// toggle flips a flag and stores the new state.
func (f *field) toggle(data *session.UserCommandData) {
	f.on = !f.on
	if err := data.SetBool(f.param.Name, f.on); err != nil {
		f.errMsg = validationReason(err)
		f.on = !f.on
		return
	}
	f.errMsg = ""
}

// cycle moves a choice field by delta and stores the selected value.
func (f *field) cycle(data *session.UserCommandData, delta int) {
	n := len(f.param.Choices)
	if n == 0 {
		return
	}
	next := (f.choice + delta + n) % n
	if f.choice < 0 {
		next = 0
		if delta < 0 {
			next = n - 1
		}
	}
	if err := data.Set(f.param.Name, f.param.Choices[next]); err != nil {
		f.errMsg = validationReason(err)
		return
	}
	f.choice = next
	f.errMsg = ""
}

// appendValue pushes the text widget's content onto a multi-value
// parameter's sequence and clears the widget on success.
func (f *field) appendValue(data *session.UserCommandData) {
	raw := f.input.Value()
	if raw == "" {
		return
	}
	if err := data.Append(f.param.Name, raw); err != nil {
		f.errMsg = validationReason(err)
		return
	}
	f.values, _ = data.GetStrings(f.param.Name)
	f.input.SetValue("")
	f.lastRaw = ""
	f.errMsg = ""
}

// dropValue removes the last value of a multi-value parameter.
func (f *field) dropValue(data *session.UserCommandData) {
	if len(f.values) == 0 {
		return
	}
	rest := f.values[:len(f.values)-1]
	if len(rest) == 0 {
		data.Unset(f.param.Name)
		f.values = nil
		f.errMsg = ""
		return
	}
	if err := data.SetAll(f.param.Name, rest); err != nil {
		f.errMsg = validationReason(err)
		return
	}
	f.values = rest
	f.errMsg = ""
}

// clear reverts the field to unfilled.
func (f *field) clear(data *session.UserCommandData) {
	data.Unset(f.param.Name)
	f.values = nil
	f.on = false
	f.choice = -1
	f.errMsg = ""
	f.lastRaw = ""
	if f.isTextual() {
		f.input.SetValue("")
	}
}

// syncText applies the text widget's current content to the data record.
// Empty text means unfilled, which is distinct from an explicit empty value;
// explicit empties are rare enough that the form treats blank as unset.
// On rejection the record keeps its previous value and the field shows why.
func (f *field) syncText(data *session.UserCommandData) {
	if f.param.Multiple {
		// Multi-value fields commit on AddValue, not per keystroke.
		return
	}
	raw := f.input.Value()
	if raw == f.lastRaw {
		return
	}
	f.lastRaw = raw

	if raw == "" {
		data.Unset(f.param.Name)
		f.errMsg = ""
		return
	}
	if err := data.Set(f.param.Name, raw); err != nil {
		f.errMsg = validationReason(err)
		return
	}
	f.errMsg = ""
}

func validationReason(err error) string {
	var ve *session.ValidationError
	if errors.As(err, &ve) {
		return ve.Reason
	}
	return err.Error()
}

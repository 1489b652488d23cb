// SPDX-License-Identifier: MPL-2.0

// Package session holds the mutable per-session state of the command
// builder: the values the user has entered for the currently selected
// command. A UserCommandData is bound to exactly one CommandSchema node and
// is replaced wholesale when a different node is selected; values never leak
// across selections.
package session

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/jrcribb/trogon/pkg/schema"

	"github.com/spf13/cast"
)

type (
	// UserCommandData records the values entered for one selected command,
	// keyed by parameter name. Entries are stored already coerced to the
	// parameter's value type: bool for flags, []string for multi-value
	// parameters, string otherwise. Partial entry is expected; required
	// parameters may stay unfilled until commit.
	//
	// One writer (the form) and any number of readers (serializer, preview)
	// share an instance on the session goroutine; no locking is needed.
	UserCommandData struct {
		command *schema.CommandSchema
		values  map[string]any
	}

	// ValidationError reports a rejected mutation: the raw value failed type
	// coercion or fell outside the parameter's closed choice set. The
	// previously stored value is always retained.
	ValidationError struct {
		// Field is the parameter name the mutation targeted.
		Field string
		// Reason is a short, user-displayable explanation.
		Reason string
		// Err is the underlying coercion error, if any.
		Err error
	}
)

// Error implements the error interface.
func (e *ValidationError) Error() string {
	return fmt.Sprintf("invalid value for %q: %s", e.Field, e.Reason)
}

// Unwrap returns the underlying coercion error.
func (e *ValidationError) Unwrap() error { return e.Err }

// New creates an empty data record bound to the given command. Defaults are
// not materialized here; the serializer falls back to schema defaults for
// unfilled parameters.
func New(command *schema.CommandSchema) *UserCommandData {
	return &UserCommandData{
		command: command,
		values:  make(map[string]any),
	}
}

// Command returns the schema node this data is bound to.
func (d *UserCommandData) Command() *schema.CommandSchema { return d.command }

// Get returns the stored value for a parameter: bool for flags, []string for
// multi-value parameters, string otherwise. ok is false when unfilled.
func (d *UserCommandData) Get(name string) (value any, ok bool) {
	value, ok = d.values[name]
	return value, ok
}

// GetBool returns the stored flag state.
func (d *UserCommandData) GetBool(name string) (value, ok bool) {
	v, ok := d.values[name].(bool)
	return v, ok
}

// GetString returns the stored value of a single-valued parameter.
func (d *UserCommandData) GetString(name string) (value string, ok bool) {
	v, ok := d.values[name].(string)
	return v, ok
}

// GetStrings returns the stored values of a multi-valued parameter in the
// order they were added.
func (d *UserCommandData) GetStrings(name string) (values []string, ok bool) {
	v, ok := d.values[name].([]string)
	return v, ok
}

// Set stores a coerced value for a single-valued parameter. For flags the
// raw text must parse as a boolean. The previous value is retained when the
// returned error is non-nil.
func (d *UserCommandData) Set(name, raw string) error {
	p, err := d.param(name)
	if err != nil {
		return err
	}
	if p.Multiple {
		return &ValidationError{Field: name, Reason: "accepts multiple values; use SetAll or Append"}
	}

	if p.Kind == schema.KindFlag {
		v, err := strconv.ParseBool(raw)
		if err != nil {
			return &ValidationError{Field: name, Reason: fmt.Sprintf("%q is not a boolean", raw), Err: err}
		}
		d.values[name] = v
		return nil
	}

	norm, err := normalize(p, raw)
	if err != nil {
		return err
	}
	d.values[name] = norm
	return nil
}

// SetBool stores the state of a flag parameter.
func (d *UserCommandData) SetBool(name string, value bool) error {
	p, err := d.param(name)
	if err != nil {
		return err
	}
	if p.Kind != schema.KindFlag {
		return &ValidationError{Field: name, Reason: "not a flag"}
	}
	d.values[name] = value
	return nil
}

// SetAll replaces the value sequence of a multi-valued parameter. Each raw
// value is coerced independently; the first failure rejects the whole
// mutation and the previous sequence is retained.
func (d *UserCommandData) SetAll(name string, raw []string) error {
	p, err := d.param(name)
	if err != nil {
		return err
	}
	if !p.Multiple {
		return &ValidationError{Field: name, Reason: "accepts a single value; use Set"}
	}

	norm := make([]string, 0, len(raw))
	for _, r := range raw {
		n, err := normalize(p, r)
		if err != nil {
			return err
		}
		norm = append(norm, n)
	}
	d.values[name] = norm
	return nil
}

// Append adds one value to the end of a multi-valued parameter's sequence.
func (d *UserCommandData) Append(name, raw string) error {
	p, err := d.param(name)
	if err != nil {
		return err
	}
	if !p.Multiple {
		return &ValidationError{Field: name, Reason: "accepts a single value; use Set"}
	}

	n, err := normalize(p, raw)
	if err != nil {
		return err
	}
	prev, _ := d.values[name].([]string)
	d.values[name] = append(prev, n)
	return nil
}

// Unset removes the entry, reverting the parameter to unfilled. Unfilled is
// distinct from an explicit empty value for a text parameter.
func (d *UserCommandData) Unset(name string) {
	delete(d.values, name)
}

// Len returns the number of filled parameters.
func (d *UserCommandData) Len() int { return len(d.values) }

// MissingRequired lists required parameters that are unfilled and have no
// default, in declaration order. A non-empty result is a warning for the
// caller, not an error: serialization still proceeds.
func (d *UserCommandData) MissingRequired() []string {
	var missing []string
	for i := range d.command.Parameters {
		p := &d.command.Parameters[i]
		if !p.Required || len(p.Default) > 0 {
			continue
		}
		if _, ok := d.values[p.Name]; !ok {
			missing = append(missing, p.Name)
		}
	}
	return missing
}

func (d *UserCommandData) param(name string) (*schema.ParameterSchema, error) {
	p := d.command.Parameter(name)
	if p == nil {
		return nil, &ValidationError{
			Field:  name,
			Reason: fmt.Sprintf("command %q has no such parameter", d.command.Name),
		}
	}
	return p, nil
}

// normalize coerces raw text to the parameter's value type and returns its
// canonical textual form: integers are re-rendered without leading zeros,
// floats in their shortest representation, paths and plain strings as given.
func normalize(p *schema.ParameterSchema, raw string) (string, error) {
	switch p.Type {
	case schema.TypeInt:
		v, err := cast.ToInt64E(strings.TrimSpace(raw))
		if err != nil {
			return "", &ValidationError{Field: p.Name, Reason: fmt.Sprintf("%q is not an integer", raw), Err: err}
		}
		return strconv.FormatInt(v, 10), nil

	case schema.TypeFloat:
		v, err := cast.ToFloat64E(strings.TrimSpace(raw))
		if err != nil {
			return "", &ValidationError{Field: p.Name, Reason: fmt.Sprintf("%q is not a number", raw), Err: err}
		}
		return strconv.FormatFloat(v, 'g', -1, 64), nil

	case schema.TypeChoice:
		for _, c := range p.Choices {
			if raw == c {
				return raw, nil
			}
		}
		return "", &ValidationError{
			Field:  p.Name,
			Reason: fmt.Sprintf("%q is not one of: %s", raw, strings.Join(p.Choices, ", ")),
		}

	default:
		return raw, nil
	}
}

// SPDX-License-Identifier: MPL-2.0

package schema

import (
	"errors"
	"fmt"
	"strings"

	"github.com/jrcribb/trogon/internal/issue"

	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
)

// ChoicesAnnotation is the pflag annotation key carrying the closed set of
// legal values for a flag. Set it with MarkFlagChoices.
const ChoicesAnnotation = "trogon_annotation_choices"

// Sentinel errors wrapped by the ActionableError that Discover returns.
var (
	// ErrDuplicateCommand reports two sibling subcommands sharing a name.
	ErrDuplicateCommand = errors.New("duplicate sibling command name")
	// ErrConflictingKind reports a flag whose declarations contradict each
	// other, such as a boolean flag declared to accept multiple values.
	ErrConflictingKind = errors.New("conflicting parameter kind")
	// ErrBadArgumentToken reports a positional placeholder in a Use line
	// that does not follow the <name> / [name] convention.
	ErrBadArgumentToken = errors.New("malformed positional argument token")
)

type (
	// DiscoverOption adjusts how Discover walks the command tree.
	DiscoverOption func(*discoverOptions)

	discoverOptions struct {
		includeHidden bool
		skip          map[string]bool
	}
)

// WithHidden includes hidden commands and hidden flags in the schema.
func WithHidden() DiscoverOption {
	return func(o *discoverOptions) { o.includeHidden = true }
}

// WithSkipCommands excludes subcommands by name at any depth. Discover
// always skips cobra's auto-installed "help" and "completion" commands.
func WithSkipCommands(names ...string) DiscoverOption {
	return func(o *discoverOptions) {
		for _, n := range names {
			o.skip[n] = true
		}
	}
}

// MarkFlagChoices restricts a flag to a closed set of legal values. The
// restriction is carried as a flag annotation so Discover can surface it and
// the form can enforce it.
func MarkFlagChoices(cmd *cobra.Command, name string, choices ...string) error {
	return cmd.Flags().SetAnnotation(name, ChoicesAnnotation, choices)
}

// Discover walks a cobra command tree depth-first and produces the
// equivalent CommandSchema tree. Flags keep their declaration order;
// subcommands keep the order cobra exposes through Commands(), which is its
// help/display order. Positional arguments are read from each command's Use line
// following the usual cobra placeholder convention: "<name>" is a required
// argument, "[name]" an optional one, and a trailing "..." marks a
// variadic argument.
//
// Discovery fails fast on a malformed definition (duplicate sibling names,
// a boolean flag declared as a slice, an unparseable placeholder); no
// partial tree is ever returned.
func Discover(root *cobra.Command, opts ...DiscoverOption) (*CommandSchema, error) {
	o := discoverOptions{skip: map[string]bool{}}
	for _, opt := range opts {
		opt(&o)
	}

	cs, err := discoverCommand(root, nil, &o)
	if err != nil {
		return nil, issue.NewContext().
			WithOperation("discover command schema").
			WithResource(root.Name()).
			WithSuggestion("Fix the command definition; the schema cannot be partially built").
			Wrap(err).
			BuildError()
	}
	return cs, nil
}

func discoverCommand(cmd *cobra.Command, parent *CommandSchema, o *discoverOptions) (*CommandSchema, error) {
	cs := &CommandSchema{
		Name:      cmd.Name(),
		Docstring: commandDocstring(cmd),
		parent:    parent,
	}

	params, err := discoverFlags(cmd, o)
	if err != nil {
		return nil, fmt.Errorf("command %q: %w", cmd.Name(), err)
	}

	args, err := parseUseArguments(cmd.Use)
	if err != nil {
		return nil, fmt.Errorf("command %q: %w", cmd.Name(), err)
	}
	cs.Parameters = append(params, args...)

	seen := make(map[string]bool, len(cmd.Commands()))
	for _, sub := range cmd.Commands() {
		if skipCommand(sub, o) {
			continue
		}
		if seen[sub.Name()] {
			return nil, fmt.Errorf("command %q: %w: %q", cmd.Name(), ErrDuplicateCommand, sub.Name())
		}
		seen[sub.Name()] = true

		child, err := discoverCommand(sub, cs, o)
		if err != nil {
			return nil, err
		}
		cs.Children = append(cs.Children, child)
	}

	return cs, nil
}

func commandDocstring(cmd *cobra.Command) string {
	if cmd.Long != "" {
		return cmd.Long
	}
	return cmd.Short
}

func skipCommand(cmd *cobra.Command, o *discoverOptions) bool {
	name := cmd.Name()
	if name == "help" || name == "completion" || o.skip[name] {
		return true
	}
	return cmd.Hidden && !o.includeHidden
}

// discoverFlags maps the command's own (non-inherited) flags to parameter
// schemas in declaration order.
func discoverFlags(cmd *cobra.Command, o *discoverOptions) ([]ParameterSchema, error) {
	fs := cmd.NonInheritedFlags()

	// pflag sorts lexicographically by default; declaration order must win
	// so the form and the serializer stay consistent with --help output.
	sorted := fs.SortFlags
	fs.SortFlags = false
	defer func() { fs.SortFlags = sorted }()

	var (
		params  []ParameterSchema
		flagErr error
	)
	fs.VisitAll(func(f *pflag.Flag) {
		if flagErr != nil {
			return
		}
		if f.Name == "help" || (f.Hidden && !o.includeHidden) || f.Deprecated != "" {
			return
		}
		p, err := flagParameter(f)
		if err != nil {
			flagErr = err
			return
		}
		params = append(params, p)
	})
	if flagErr != nil {
		return nil, flagErr
	}
	return params, nil
}

func flagParameter(f *pflag.Flag) (ParameterSchema, error) {
	valueType := f.Value.Type()

	if valueType == "bool" {
		def := []string(nil)
		if f.DefValue == "true" {
			def = []string{"true"}
		}
		return ParameterSchema{
			Name:      f.Name,
			Shorthand: f.Shorthand,
			Kind:      KindFlag,
			Type:      TypeBool,
			Default:   def,
			Help:      f.Usage,
		}, nil
	}

	multiple := strings.HasSuffix(valueType, "Slice") || strings.HasSuffix(valueType, "Array")
	base := strings.TrimSuffix(strings.TrimSuffix(valueType, "Slice"), "Array")
	if base == "bool" {
		return ParameterSchema{}, fmt.Errorf("%w: flag %q is boolean but accepts multiple values", ErrConflictingKind, f.Name)
	}

	p := ParameterSchema{
		Name:      f.Name,
		Shorthand: f.Shorthand,
		Kind:      KindOption,
		Type:      flagValueType(base, f),
		Multiple:  multiple,
		Required:  len(f.Annotations[cobra.BashCompOneRequiredFlag]) > 0,
		Default:   flagDefault(f, multiple),
		Choices:   f.Annotations[ChoicesAnnotation],
		Help:      f.Usage,
	}
	return p, nil
}

func flagValueType(base string, f *pflag.Flag) ValueType {
	if len(f.Annotations[ChoicesAnnotation]) > 0 {
		return TypeChoice
	}
	if len(f.Annotations[cobra.BashCompFilenameExt]) > 0 ||
		len(f.Annotations[cobra.BashCompSubdirsInDir]) > 0 {
		return TypePath
	}

	switch base {
	case "int", "int8", "int16", "int32", "int64",
		"uint", "uint8", "uint16", "uint32", "uint64", "count":
		return TypeInt
	case "float32", "float64":
		return TypeFloat
	default:
		return TypeString
	}
}

// flagDefault extracts the declared default, treating pflag's zero values
// ("", "0", "[]") as "no default" so unset options are not pre-filled with
// noise.
func flagDefault(f *pflag.Flag, multiple bool) []string {
	dv := f.DefValue
	if multiple {
		inner := strings.TrimSuffix(strings.TrimPrefix(dv, "["), "]")
		if inner == "" {
			return nil
		}
		return strings.Split(inner, ",")
	}
	switch dv {
	case "", "0", "false":
		return nil
	}
	return []string{dv}
}

// parseUseArguments extracts positional parameters from a cobra Use line.
// The first word is the command name; each subsequent word must be a
// placeholder: "<name>" (required), "[name]" (optional), with an optional
// trailing "..." for variadic arguments. The literal "[flags]" is ignored.
func parseUseArguments(use string) ([]ParameterSchema, error) {
	words := strings.Fields(use)
	if len(words) <= 1 {
		return nil, nil
	}

	var (
		params []ParameterSchema
		seen   = map[string]bool{}
	)
	for _, w := range words[1:] {
		if w == "[flags]" {
			continue
		}

		tok := w
		multiple := strings.HasSuffix(tok, "...")
		tok = strings.TrimSuffix(tok, "...")

		var name string
		var required bool
		switch {
		case strings.HasPrefix(tok, "<") && strings.HasSuffix(tok, ">"):
			name = strings.TrimSuffix(tok[1:len(tok)-1], "...")
			required = true
		case strings.HasPrefix(tok, "[") && strings.HasSuffix(tok, "]"):
			name = strings.TrimSuffix(tok[1:len(tok)-1], "...")
		default:
			return nil, fmt.Errorf("%w: %q", ErrBadArgumentToken, w)
		}
		if name == "" || seen[name] {
			return nil, fmt.Errorf("%w: %q", ErrBadArgumentToken, w)
		}
		seen[name] = true

		params = append(params, ParameterSchema{
			Name:     name,
			Kind:     KindArgument,
			Type:     TypeString,
			Multiple: multiple,
			Required: required,
		})
	}
	return params, nil
}

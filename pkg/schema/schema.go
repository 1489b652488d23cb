// SPDX-License-Identifier: MPL-2.0

// Package schema models a CLI command tree as immutable, type-aware data.
//
// A CommandSchema describes one command node: its name, documentation, the
// parameters it accepts, and its subcommands. The tree is built once by
// Discover from a cobra command graph and never mutated afterwards, so it can
// be shared by reference across any number of readers (form renderer, preview
// renderer, serializer).
package schema

import "encoding/json"

type (
	// ParameterKind classifies how a parameter appears on the command line.
	ParameterKind int

	// ValueType is the semantic primitive a parameter's raw text must coerce to.
	ValueType string

	// ParameterSchema is the immutable description of a single parameter of a
	// single command: the long name, how it is passed, what its values look
	// like, and any constraints declared on it.
	ParameterSchema struct {
		// Name is the canonical long identifier: the option's long flag name,
		// or the positional argument's placeholder name.
		Name string `json:"name"`
		// Shorthand is the single-letter alias, if the flag declares one.
		Shorthand string `json:"shorthand,omitempty"`
		// Kind is how the parameter is spelled on the command line.
		Kind ParameterKind `json:"kind"`
		// Type is the value type raw input must coerce to. Ignored for flags.
		Type ValueType `json:"type"`
		// Multiple reports whether the parameter accepts more than one value.
		Multiple bool `json:"multiple,omitempty"`
		// Required reports whether the invocation is incomplete without it.
		Required bool `json:"required,omitempty"`
		// Default holds the declared default value(s) in textual form.
		// Empty means no default.
		Default []string `json:"default,omitempty"`
		// Choices is the closed set of legal values when Type is TypeChoice.
		Choices []string `json:"choices,omitempty"`
		// Help is the parameter's usage text, for display only.
		Help string `json:"help,omitempty"`
	}

	// CommandSchema is one node of the command tree. Parameters and Children
	// preserve declaration order; sibling names are unique within a node.
	CommandSchema struct {
		// Name is the command identifier as typed on the command line.
		Name string `json:"name"`
		// Docstring is the command's description, for display only.
		Docstring string `json:"docstring,omitempty"`
		// Parameters lists the command's own parameters in declaration order.
		Parameters []ParameterSchema `json:"parameters,omitempty"`
		// Children lists subcommands in declaration order. Empty for leaves.
		Children []*CommandSchema `json:"children,omitempty"`

		parent *CommandSchema
	}
)

const (
	// KindFlag is a boolean switch: presence or absence only, no value token.
	KindFlag ParameterKind = iota
	// KindOption is a named parameter that takes one or more value tokens.
	KindOption
	// KindArgument is a positional parameter identified by position, not name.
	KindArgument
)

const (
	// TypeString accepts any text.
	TypeString ValueType = "string"
	// TypeInt accepts integer text; values are normalized (no leading zeros).
	TypeInt ValueType = "int"
	// TypeFloat accepts floating-point text.
	TypeFloat ValueType = "float"
	// TypeBool is the value type of flags.
	TypeBool ValueType = "bool"
	// TypePath accepts filesystem paths; values are passed through as given.
	TypePath ValueType = "path"
	// TypeChoice restricts values to the parameter's Choices set.
	TypeChoice ValueType = "choice"
)

// String returns the lower-case name of the kind.
func (k ParameterKind) String() string {
	switch k {
	case KindFlag:
		return "flag"
	case KindOption:
		return "option"
	case KindArgument:
		return "argument"
	default:
		return "unknown"
	}
}

// MarshalJSON renders the kind as its string name.
func (k ParameterKind) MarshalJSON() ([]byte, error) {
	return json.Marshal(k.String())
}

// FlagToken returns the parameter's command-line token ("--name").
// Meaningful for flags and options only.
func (p *ParameterSchema) FlagToken() string {
	return "--" + p.Name
}

// Parameter returns the parameter with the given name, or nil.
func (c *CommandSchema) Parameter(name string) *ParameterSchema {
	for i := range c.Parameters {
		if c.Parameters[i].Name == name {
			return &c.Parameters[i]
		}
	}
	return nil
}

// Child returns the direct subcommand with the given name, or nil.
func (c *CommandSchema) Child(name string) *CommandSchema {
	for _, ch := range c.Children {
		if ch.Name == name {
			return ch
		}
	}
	return nil
}

// Path returns the root-to-node chain, ending at c.
func (c *CommandSchema) Path() []*CommandSchema {
	var path []*CommandSchema
	for n := c; n != nil; n = n.parent {
		path = append(path, n)
	}
	for i, j := 0, len(path)-1; i < j; i, j = i+1, j-1 {
		path[i], path[j] = path[j], path[i]
	}
	return path
}

// Parent returns the node's parent, or nil for the root.
func (c *CommandSchema) Parent() *CommandSchema { return c.parent }

// IsGroup reports whether the command has subcommands.
func (c *CommandSchema) IsGroup() bool { return len(c.Children) > 0 }

// Walk visits c and every descendant in depth-first order. It stops early
// if fn returns false.
func (c *CommandSchema) Walk(fn func(*CommandSchema) bool) bool {
	if !fn(c) {
		return false
	}
	for _, ch := range c.Children {
		if !ch.Walk(fn) {
			return false
		}
	}
	return true
}

// SPDX-License-Identifier: MPL-2.0

// Package invocation turns a selected command path and the user's entered
// values back into the exact invocation that would have been typed: a flat
// argument vector for process execution and a shell-quoted display string
// for the live preview.
//
// Serialization is a pure, stateless transform. It never fails for a
// well-formed schema: required-but-unfilled parameters are reported on the
// result rather than raised, so a live preview can always render an
// incomplete command and the caller decides whether it is complete enough
// to run.
package invocation

import (
	"strconv"
	"strings"

	"github.com/jrcribb/trogon/pkg/schema"
	"github.com/jrcribb/trogon/pkg/session"

	"mvdan.cc/sh/v3/syntax"
)

type (
	// Options controls serialization shape.
	Options struct {
		// IncludeRoot emits the root command's own name as the first token.
		// A single-command CLI typically omits it, since invoking the
		// program already implies it; a caller that relaunches via the
		// argument vector includes it so argv[0] is the executable name.
		IncludeRoot bool

		// DeclaredOrder emits parameters strictly in declaration order.
		// When false (the default), options are emitted before positional
		// arguments to match conventional CLI grammar regardless of how the
		// definition interleaved them.
		DeclaredOrder bool
	}

	// Invocation is the serializer output: a derived value, never stored.
	Invocation struct {
		// Argv is the full invocation including the command-path prefix.
		Argv []string

		// DisplayString is Argv joined with single spaces, with shell-safe
		// minimal quoting applied to any token a POSIX shell would split or
		// interpret. Re-tokenizing it yields exactly Argv.
		DisplayString string

		// MissingRequired lists required parameters that have neither a
		// stored value nor a default. Non-empty means the invocation is
		// incomplete; it is the caller's job to block commit and warn.
		MissingRequired []string
	}
)

// Serialize renders the invocation for the leaf command of path, using the
// values in data and falling back to schema defaults for unfilled
// parameters. path is the root-to-node chain of the selected command.
func Serialize(path []*schema.CommandSchema, data *session.UserCommandData, opts Options) Invocation {
	if len(path) == 0 {
		return Invocation{}
	}

	var argv []string
	if opts.IncludeRoot {
		argv = append(argv, path[0].Name)
	}
	for _, node := range path[1:] {
		argv = append(argv, node.Name)
	}

	leaf := path[len(path)-1]
	if opts.DeclaredOrder {
		for i := range leaf.Parameters {
			argv = append(argv, parameterTokens(&leaf.Parameters[i], data)...)
		}
	} else {
		for i := range leaf.Parameters {
			if leaf.Parameters[i].Kind != schema.KindArgument {
				argv = append(argv, parameterTokens(&leaf.Parameters[i], data)...)
			}
		}
		for i := range leaf.Parameters {
			if leaf.Parameters[i].Kind == schema.KindArgument {
				argv = append(argv, parameterTokens(&leaf.Parameters[i], data)...)
			}
		}
	}

	return Invocation{
		Argv:            argv,
		DisplayString:   displayString(argv),
		MissingRequired: data.MissingRequired(),
	}
}

// parameterTokens renders one parameter's contribution to argv. Unfilled
// parameters without defaults contribute nothing.
func parameterTokens(p *schema.ParameterSchema, data *session.UserCommandData) []string {
	switch p.Kind {
	case schema.KindFlag:
		on, ok := data.GetBool(p.Name)
		if !ok {
			on = len(p.Default) == 1 && p.Default[0] == "true"
		}
		if on {
			return []string{p.FlagToken()}
		}
		return nil

	case schema.KindOption:
		if p.Multiple {
			values, ok := data.GetStrings(p.Name)
			if !ok {
				values = p.Default
			}
			tokens := make([]string, 0, 2*len(values))
			for _, v := range values {
				tokens = append(tokens, p.FlagToken(), v)
			}
			return tokens
		}
		v, ok := data.GetString(p.Name)
		if !ok {
			if len(p.Default) == 0 {
				return nil
			}
			v = p.Default[0]
		}
		return []string{p.FlagToken(), v}

	case schema.KindArgument:
		if p.Multiple {
			values, ok := data.GetStrings(p.Name)
			if !ok {
				values = p.Default
			}
			return values
		}
		v, ok := data.GetString(p.Name)
		if !ok {
			if len(p.Default) == 0 {
				return nil
			}
			v = p.Default[0]
		}
		return []string{v}

	default:
		return nil
	}
}

// displayString joins argv with spaces, quoting each token minimally so a
// POSIX shell tokenizer round-trips the string to the original vector.
func displayString(argv []string) string {
	var b strings.Builder
	for i, tok := range argv {
		if i > 0 {
			b.WriteByte(' ')
		}
		b.WriteString(quoteToken(tok))
	}
	return b.String()
}

func quoteToken(tok string) string {
	q, err := syntax.Quote(tok, syntax.LangPOSIX)
	if err != nil {
		// Only possible for tokens a shell cannot represent at all
		// (NUL bytes, invalid UTF-8); shown Go-quoted for display.
		return strconv.Quote(tok)
	}
	return q
}

// SPDX-License-Identifier: MPL-2.0

package main

import (
	"encoding/json"
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/jrcribb/trogon/internal/issue"
	"github.com/jrcribb/trogon/pkg/schema"
)

var (
	schemaFormat string

	schemaCmd = &cobra.Command{
		Use:   "schema",
		Short: "Dump the sample CLI's discovered schema",
		Long: `Discovers the bundled sample CLI's command tree and prints it,
either as indented text or as JSON for machine consumption.`,
		Args: cobra.NoArgs,
		RunE: runSchema,
	}
)

func init() {
	schemaCmd.Flags().StringVarP(&schemaFormat, "format", "f", "text", "output format (text|json)")
	mustMarkChoices(schemaCmd, "format", "text", "json")
}

func runSchema(cmd *cobra.Command, _ []string) error {
	tree, err := schema.Discover(newSampleCLI())
	if err != nil {
		return err
	}

	switch schemaFormat {
	case "json":
		out, err := json.MarshalIndent(tree, "", "  ")
		if err != nil {
			return issue.Wrap(err, "encode schema")
		}
		cmd.Println(string(out))
		return nil

	case "text":
		var b strings.Builder
		writeSchemaText(&b, tree, 0)
		cmd.Print(b.String())
		return nil

	default:
		return fmt.Errorf("unknown format %q", schemaFormat)
	}
}

func writeSchemaText(b *strings.Builder, c *schema.CommandSchema, depth int) {
	indent := strings.Repeat("  ", depth)

	fmt.Fprintf(b, "%s%s", indent, c.Name)
	if c.Docstring != "" {
		fmt.Fprintf(b, "  # %s", firstDocLine(c.Docstring))
	}
	b.WriteByte('\n')

	for i := range c.Parameters {
		p := &c.Parameters[i]
		fmt.Fprintf(b, "%s  %s (%s, %s", indent, parameterLabel(p), p.Kind, p.Type)
		if p.Multiple {
			b.WriteString(", multiple")
		}
		if p.Required {
			b.WriteString(", required")
		}
		if len(p.Default) > 0 {
			fmt.Fprintf(b, ", default=%s", strings.Join(p.Default, ","))
		}
		if len(p.Choices) > 0 {
			fmt.Fprintf(b, ", choices=%s", strings.Join(p.Choices, "|"))
		}
		b.WriteString(")\n")
	}

	for _, child := range c.Children {
		writeSchemaText(b, child, depth+1)
	}
}

func parameterLabel(p *schema.ParameterSchema) string {
	if p.Kind == schema.KindArgument {
		return p.Name
	}
	return p.FlagToken()
}

func firstDocLine(s string) string {
	s = strings.TrimSpace(s)
	if i := strings.IndexByte(s, '\n'); i >= 0 {
		s = s[:i]
	}
	return s
}

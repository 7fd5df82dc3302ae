package cli

import (
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/fatih/color"
	"github.com/plaid-labs/plaid-vision/internal/vision"
	"github.com/spf13/cobra"
	"golang.org/x/term"
	"gopkg.in/yaml.v3"
)

// Output formats accepted by the schema command.
const (
	formatText       = "text"
	formatYAML       = "yaml"
	formatJSONSchema = "json-schema"
)

func newSchemaCmd(root *rootOptions) *cobra.Command {
	var format string

	cmd := &cobra.Command{
		Use:   "schema",
		Short: "Print the fields a vision document must contain",
		Long: `Print the fields a vision document must contain

The text and yaml formats are derived from the rules the validator runs. The
json-schema format prints the embedded JSON Schema used by --json-schema.`,
		Example: `  plaid-vision schema
  plaid-vision schema --format yaml
  plaid-vision schema --format json-schema > vision.schema.json`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, _, err := loadConfig(cmd, root)
			if err != nil {
				fmt.Fprintf(cmd.ErrOrStderr(), "Error: %v\n", err)
				return NewExitError(ExitInvalidArguments)
			}

			out := cmd.OutOrStdout()
			schema := vision.NewValidator(vision.CurrentVersion).Describe()

			switch format {
			case formatText:
				printSchema(schema, out, newPalette(useColor(cfg.Color, out)))
				return nil
			case formatYAML:
				enc := yaml.NewEncoder(out)
				enc.SetIndent(2)
				if err := enc.Encode(schema); err != nil {
					return fail(cmd, fmt.Errorf("encoding schema: %w", err))
				}
				return enc.Close()
			case formatJSONSchema:
				_, err := out.Write(vision.JSONSchemaSource())
				return err
			default:
				fmt.Fprintf(cmd.ErrOrStderr(), "Error: unknown format %q (valid: %s, %s, %s)\n",
					format, formatText, formatYAML, formatJSONSchema)
				return NewExitError(ExitInvalidArguments)
			}
		},
	}

	cmd.Flags().StringVarP(&format, "format", "f", formatText, "Output format: text, yaml or json-schema")
	return cmd
}

// palette holds the colors used by text output.
type palette struct {
	heading  *color.Color
	name     *color.Color
	required *color.Color
	comment  *color.Color
}

func newPalette(enabled bool) palette {
	p := palette{
		heading:  color.New(color.FgCyan, color.Bold),
		name:     color.New(color.FgGreen),
		required: color.New(color.FgYellow),
		comment:  color.New(color.Faint),
	}
	for _, c := range []*color.Color{p.heading, p.name, p.required, p.comment} {
		if enabled {
			c.EnableColor()
		} else {
			c.DisableColor()
		}
	}
	return p
}

// useColor resolves the color setting. "auto" colors only a terminal and
// respects NO_COLOR.
func useColor(mode string, out io.Writer) bool {
	switch mode {
	case "always":
		return true
	case "never":
		return false
	}
	if os.Getenv("NO_COLOR") != "" {
		return false
	}
	f, ok := out.(*os.File)
	return ok && term.IsTerminal(int(f.Fd()))
}

// printSchema prints the schema as an indented field list.
func printSchema(schema *vision.Schema, out io.Writer, p palette) {
	fmt.Fprintf(out, "%s\n", p.heading.Sprintf("Vision document schema %s", schema.Version))
	fmt.Fprintf(out, "%s\n\n", strings.Repeat("=", 40))
	fmt.Fprintf(out, "%s\n\n", schema.Description)

	fmt.Fprintf(out, "Fields:\n")
	fmt.Fprintf(out, "%s\n", strings.Repeat("-", 40))

	for _, field := range schema.Fields {
		printSchemaField(field, "", out, p)
	}
}

// printSchemaField prints a single schema field with indentation.
func printSchemaField(field vision.SchemaField, indent string, out io.Writer, p palette) {
	required := ""
	if field.Required {
		required = p.required.Sprint(" (required)")
	}

	typeStr := string(field.Type)
	if len(field.Enum) > 0 {
		typeStr = fmt.Sprintf("enum[%s]", strings.Join(field.Enum, ", "))
	}

	fmt.Fprintf(out, "%s%s: %s%s\n", indent, p.name.Sprint(field.Name), typeStr, required)

	if field.Description != "" {
		fmt.Fprintf(out, "%s  %s\n", indent, p.comment.Sprintf("# %s", field.Description))
	}

	for _, child := range field.Children {
		printSchemaField(child, indent+"  ", out, p)
	}
}

// Package cli provides the Cobra commands of plaid-vision: the root command
// validates or migrates a vision document, and the schema, migrations and
// version subcommands describe what the tool enforces.
package cli

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/charmbracelet/log"
	"github.com/plaid-labs/plaid-vision/internal/config"
	"github.com/plaid-labs/plaid-vision/internal/logging"
	"github.com/plaid-labs/plaid-vision/internal/migration"
	"github.com/plaid-labs/plaid-vision/internal/report"
	"github.com/plaid-labs/plaid-vision/internal/store"
	"github.com/plaid-labs/plaid-vision/internal/vision"
	"github.com/spf13/cobra"
)

type rootOptions struct {
	configPath string
	debug      bool
	migrate    bool
	jsonSchema bool
}

// Execute runs the root command against os.Args.
func Execute() error {
	return execute(newRootCmd(), os.Args[1:])
}

// execute runs cmd with args. Failures of the root command itself, such as
// a bad flag value, are still reported as a JSON report on stdout.
// Subcommand usage errors exit with ExitInvalidArguments.
func execute(cmd *cobra.Command, args []string) error {
	cmd.SetArgs(rootArgs(cmd, args))

	executed, err := cmd.ExecuteC()
	if err == nil {
		return nil
	}
	var ee *exitError
	if errors.As(err, &ee) {
		return err
	}
	if executed == nil || executed == cmd {
		return writeReport(cmd, report.Failure(fmt.Sprintf("Invalid arguments: %v", err)))
	}
	fmt.Fprintf(cmd.ErrOrStderr(), "Error: %v\n", err)
	fmt.Fprintf(cmd.ErrOrStderr(), "Run '%s --help' for usage.\n", executed.CommandPath())
	return NewExitError(ExitInvalidArguments)
}

func newRootCmd() *cobra.Command {
	opts := &rootOptions{}

	cmd := &cobra.Command{
		Use:   "plaid-vision [--migrate] [path]",
		Short: "Validate and migrate PLAID vision documents",
		Long: `Validate and migrate PLAID vision documents

Checks a vision.json file against the current schema and prints a single JSON
report to stdout. Documents written by older releases are reported with the
migrations they need; pass --migrate to upgrade the file in place.`,
		Example: `  # Validate ./vision.json
  plaid-vision

  # Validate a specific file
  plaid-vision docs/vision.json

  # Upgrade an older document, then validate it
  plaid-vision --migrate docs/vision.json`,
		Args:          cobra.ArbitraryArgs,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runValidate(cmd, args, opts)
		},
	}

	cmd.PersistentFlags().StringVarP(&opts.configPath, "config", "c", config.DefaultLocalConfigPath, "Path to config file")
	cmd.PersistentFlags().BoolVarP(&opts.debug, "debug", "d", false, "Enable debug logging")
	cmd.Flags().BoolVar(&opts.migrate, "migrate", false, "Apply pending migrations and rewrite the document")
	cmd.Flags().BoolVar(&opts.jsonSchema, "json-schema", false, "Also check the document against the embedded JSON Schema")

	cmd.AddCommand(newSchemaCmd(opts))
	cmd.AddCommand(newMigrationsCmd())
	cmd.AddCommand(newVersionCmd())
	return cmd
}

// rootArgs rewrites args for the root command. Unknown flags are dropped so
// they cannot consume the path as their value, and positional arguments are
// moved behind "--" so a file named like a subcommand is still validated.
// Args that dispatch to a subcommand, or end in a flag missing its value,
// are returned unchanged.
func rootArgs(cmd *cobra.Command, args []string) []string {
	cmd.InitDefaultHelpFlag()

	flags := []string{}
	var positional []string
	for i := 0; i < len(args); i++ {
		arg := args[i]
		switch {
		case arg == "--":
			positional = append(positional, args[i+1:]...)
			i = len(args)
		case strings.HasPrefix(arg, "-") && arg != "-":
			known, takesValue := flagInfo(cmd, arg)
			if !known {
				continue
			}
			if takesValue && i+1 == len(args) {
				return args
			}
			flags = append(flags, arg)
			if takesValue {
				i++
				flags = append(flags, args[i])
			}
		default:
			positional = append(positional, arg)
		}
	}

	if len(positional) > 0 && isSubcommand(cmd, positional[0]) && !isFile(positional[0]) {
		return args
	}
	if len(positional) == 0 {
		return flags
	}
	return append(append(flags, "--"), positional...)
}

// flagInfo reports whether arg names a flag of cmd and whether that flag
// takes its value from the next argument.
func flagInfo(cmd *cobra.Command, arg string) (known, takesValue bool) {
	long := strings.HasPrefix(arg, "--")
	name, _, inline := strings.Cut(strings.TrimLeft(arg, "-"), "=")
	if name == "" {
		return false, false
	}

	local, persistent := cmd.Flags().Lookup, cmd.PersistentFlags().Lookup
	if !long {
		inline = inline || len(name) > 1
		name = name[:1]
		local, persistent = cmd.Flags().ShorthandLookup, cmd.PersistentFlags().ShorthandLookup
	}

	f := local(name)
	if f == nil {
		f = persistent(name)
	}
	if f == nil {
		return false, false
	}
	return true, f.NoOptDefVal == "" && !inline
}

func isSubcommand(cmd *cobra.Command, name string) bool {
	if name == "help" || name == "completion" || strings.HasPrefix(name, "__complete") {
		return true
	}
	for _, sub := range cmd.Commands() {
		if sub.Name() == name || sub.HasAlias(name) {
			return true
		}
	}
	return false
}

func isFile(path string) bool {
	info, err := os.Stat(path)
	return err == nil && info.Mode().IsRegular()
}

// loadConfig loads configuration and builds the stderr logger.
func loadConfig(cmd *cobra.Command, opts *rootOptions) (*config.Configuration, *log.Logger, error) {
	cfg, err := config.Load(opts.configPath)
	if err != nil {
		return nil, nil, err
	}

	logOpts := logging.DefaultOptions()
	logOpts.Level = cfg.LogLevel
	if opts.debug {
		logOpts.Level = "debug"
	}
	logger, err := logging.New(cmd.ErrOrStderr(), logOpts)
	if err != nil {
		return nil, nil, err
	}
	return cfg, logger, nil
}

func runValidate(cmd *cobra.Command, args []string, opts *rootOptions) error {
	cfg, logger, err := loadConfig(cmd, opts)
	if err != nil {
		return writeReport(cmd, report.Failure(fmt.Sprintf("Invalid configuration: %v", err)))
	}

	path := cfg.Document
	if len(args) > 0 {
		path = args[0]
	}
	if len(args) > 1 {
		logger.Warn("ignoring extra arguments", "args", args[1:])
	}

	registry, err := migration.Default()
	if err != nil {
		return writeReport(cmd, report.Failure(fmt.Sprintf("Invalid migration registry: %v", err)))
	}
	driver := migration.NewDriver(registry, migration.WithLogger(logger))

	runnerOpts := []report.RunnerOption{report.WithLogger(logger)}
	if opts.jsonSchema || cfg.JSONSchema {
		schema, err := vision.CompileJSONSchema()
		if err != nil {
			return writeReport(cmd, report.Failure(err.Error()))
		}
		runnerOpts = append(runnerOpts, report.WithSchemaCheck(schema))
	}

	runner := report.NewRunner(vision.NewValidator(vision.CurrentVersion), driver, store.New(), runnerOpts...)
	return writeReport(cmd, runner.Run(path, opts.migrate))
}

// writeReport prints rep to stdout and returns the matching exit error.
func writeReport(cmd *cobra.Command, rep *report.Report) error {
	if err := writeJSON(cmd.OutOrStdout(), rep); err != nil {
		return fail(cmd, fmt.Errorf("writing report: %w", err))
	}
	if code := rep.ExitCode(); code != ExitSuccess {
		return NewExitError(code)
	}
	return nil
}

// fail reports an internal error on stderr and exits with ExitValidationFailed.
func fail(cmd *cobra.Command, err error) error {
	fmt.Fprintf(cmd.ErrOrStderr(), "Error: %v\n", err)
	return NewExitError(ExitValidationFailed)
}

// writeJSON prints v as 2-space indented JSON followed by a newline.
func writeJSON(w io.Writer, v any) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	enc.SetEscapeHTML(false)
	return enc.Encode(v)
}

// Package cli exposes the catalog operations as cobra commands.
package cli

import (
	"io"
	"os"

	"github.com/spf13/cobra"
)

// Version is overridden at build time with -ldflags.
var Version = "dev"

type globalFlags struct {
	configPath string
	logLevel   string
	logFormat  string
	quiet      bool
}

// NewRootCmd builds the command tree. Running the root command without a
// subcommand performs the operation selected by the config flags.
func NewRootCmd(stdout, stderr io.Writer) *cobra.Command {
	g := &globalFlags{}
	root := &cobra.Command{
		Use:   "tsgpt",
		Short: "Translate Qt Linguist catalogs with an LLM",
		Long: `tsgpt fills empty translations of a Qt Linguist .ts catalog through an
LLM chat endpoint, and round-trips catalogs through CSV for manual review.

Without a subcommand the operation is picked from the config file:
clear_translation, then import_from_csv, otherwise translate.

Examples:
  tsgpt -c config.json                 Run as configured
  tsgpt translate --write-back         Fill empty translations and save
  tsgpt export review.csv              Dump the catalog for review
  tsgpt import review.csv --write-back Apply reviewed translations
  tsgpt init --template app.ts --lang de_DE app_de.ts`,
		Version:       Version,
		SilenceUsage:  true,
		SilenceErrors: true,
		Args:          cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return runConfigured(cmd, g, nil)
		},
	}
	root.SetOut(stdout)
	root.SetErr(stderr)

	pf := root.PersistentFlags()
	pf.StringVarP(&g.configPath, "config", "c", "config.json", "Path to the config file (JSON or TOML)")
	pf.StringVar(&g.logLevel, "log-level", "", "Log level: debug, info, warn, error (overrides config)")
	pf.StringVar(&g.logFormat, "log-format", "", "Log format: text or json (overrides config)")
	pf.BoolVarP(&g.quiet, "quiet", "q", false, "Disable the progress bar")

	root.AddCommand(
		newTranslateCmd(g),
		newResetCmd(g),
		newImportCmd(g),
		newExportCmd(g),
		newInitCmd(),
		newCacheCmd(g),
	)
	return root
}

// Execute runs the command tree against the process arguments.
func Execute() error {
	root := NewRootCmd(os.Stdout, os.Stderr)
	err := root.Execute()
	if err != nil {
		printError(root.ErrOrStderr(), err)
	}
	return err
}

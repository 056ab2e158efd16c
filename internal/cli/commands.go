package cli

import (
	"github.com/spf13/cobra"

	"tsgpt/internal/adapters/catalog/ts"
	"tsgpt/internal/config"
	"tsgpt/internal/domain"
	"tsgpt/internal/usecase/catalog"
)

func newTranslateCmd(g *globalFlags) *cobra.Command {
	var (
		writeBack bool
		exportTo  string
		batch     int
	)
	cmd := &cobra.Command{
		Use:   "translate",
		Short: "Send empty translations to the configured provider",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return runConfigured(cmd, g, func(cfg *config.Config) {
				cfg.ClearTranslation, cfg.ImportFromCSV = false, false
				if cmd.Flags().Changed("write-back") {
					cfg.WriteBackToTS = writeBack
				}
				if exportTo != "" {
					cfg.CSVToExport, cfg.ExportToCSV = exportTo, true
				}
				if batch > 0 {
					cfg.APICallSize = batch
				}
			})
		},
	}
	cmd.Flags().BoolVarP(&writeBack, "write-back", "w", false, "Save the catalog after translating")
	cmd.Flags().StringVar(&exportTo, "export", "", "Also export the result to this CSV file")
	cmd.Flags().IntVar(&batch, "batch-size", 0, "Phrases per request (overrides api_call_size)")
	return cmd
}

func newResetCmd(g *globalFlags) *cobra.Command {
	return &cobra.Command{
		Use:   "reset",
		Short: "Clear every translation and save the catalog",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return runConfigured(cmd, g, func(cfg *config.Config) {
				cfg.ClearTranslation = true
			})
		},
	}
}

func newImportCmd(g *globalFlags) *cobra.Command {
	var writeBack bool
	cmd := &cobra.Command{
		Use:   "import [file.csv]",
		Short: "Apply translations from a CSV file",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runConfigured(cmd, g, func(cfg *config.Config) {
				cfg.ClearTranslation, cfg.ImportFromCSV = false, true
				if len(args) == 1 {
					cfg.CSVToImport = args[0]
				}
				if cmd.Flags().Changed("write-back") {
					cfg.WriteBackToTS = writeBack
				}
			})
		},
	}
	cmd.Flags().BoolVarP(&writeBack, "write-back", "w", false, "Save the catalog after importing")
	return cmd
}

func newExportCmd(g *globalFlags) *cobra.Command {
	return &cobra.Command{
		Use:   "export [file.csv]",
		Short: "Write the catalog to a CSV file",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runMode(cmd, g, domain.ModeExport, func(cfg *config.Config) {
				if len(args) == 1 {
					cfg.CSVToExport = args[0]
				}
				cfg.ExportToCSV = true
			})
		},
	}
}

func newInitCmd() *cobra.Command {
	var template, lang string
	cmd := &cobra.Command{
		Use:   "init <new.ts>",
		Short: "Create a catalog for a new locale from a template",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if _, err := config.ParseLanguageCode(lang); err != nil {
				return err
			}
			if err := catalog.New(ts.New()).Seed(template, args[0], lang); err != nil {
				return err
			}
			cmd.Printf("created %s (%s) from %s\n", args[0], lang, template)
			return nil
		},
	}
	cmd.Flags().StringVarP(&template, "template", "t", "", "Template catalog to copy")
	cmd.Flags().StringVarP(&lang, "lang", "l", "", "Language code of the new catalog, e.g. de_DE")
	_ = cmd.MarkFlagRequired("template")
	_ = cmd.MarkFlagRequired("lang")
	return cmd
}

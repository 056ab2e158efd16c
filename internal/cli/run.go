package cli

import (
	"context"
	"database/sql"
	"log/slog"

	"github.com/spf13/cobra"

	"tsgpt/internal/adapters/catalog/ts"
	"tsgpt/internal/adapters/db/sqlite"
	csvcodec "tsgpt/internal/adapters/interchange/csv"
	"tsgpt/internal/adapters/llm/factory"
	"tsgpt/internal/adapters/prompt"
	"tsgpt/internal/config"
	"tsgpt/internal/domain"
	"tsgpt/internal/logging"
	"tsgpt/internal/ports"
	"tsgpt/internal/usecase/catalog"
	"tsgpt/internal/usecase/interchange"
	"tsgpt/internal/usecase/jobs"
	"tsgpt/internal/usecase/translator"
)

func runConfigured(cmd *cobra.Command, g *globalFlags, mutate func(*config.Config)) error {
	return runMode(cmd, g, "", mutate)
}

// runMode loads the config, lets the command adjust it, wires the runner and
// prints the summary. An empty mode means the config decides.
func runMode(cmd *cobra.Command, g *globalFlags, mode domain.Mode, mutate func(*config.Config)) error {
	cfg, err := loadConfig(g, mutate)
	if err != nil {
		return err
	}
	if mode == "" {
		mode = cfg.Mode()
	}
	logger := logging.Setup(pick(g.logLevel, cfg.LogLevel), pick(g.logFormat, cfg.LogFormat), cmd.ErrOrStderr())

	ctx := cmd.Context()
	runner, closeFn, err := wire(ctx, cfg, mode, logger)
	if err != nil {
		return err
	}
	defer closeFn()
	if mode == domain.ModeTranslate && !g.quiet {
		runner.SetEmitter(newProgress(cmd.ErrOrStderr()))
	}

	rep, err := runner.Run(ctx, optionsFromConfig(cfg, mode))
	printSummary(cmd.OutOrStdout(), rep)
	return err
}

func loadConfig(g *globalFlags, mutate func(*config.Config)) (*config.Config, error) {
	cfg, err := config.Load(g.configPath)
	if err != nil {
		return nil, err
	}
	if mutate != nil {
		mutate(cfg)
		if err := cfg.Validate(); err != nil {
			return nil, err
		}
	}
	return cfg, nil
}

// wire builds the runner for mode. The translator and the translation memory
// are only set up when the mode needs them.
func wire(ctx context.Context, cfg *config.Config, mode domain.Mode, logger *slog.Logger) (*jobs.Runner, func(), error) {
	noop := func() {}
	rows, err := csvcodec.WithSeparator(cfg.CSVSeparator)
	if err != nil {
		return nil, noop, err
	}
	d := jobs.Deps{
		Store:       catalog.New(ts.New()),
		Interchange: interchange.New(rows, logger),
		Logger:      logger,
	}
	if mode != domain.ModeTranslate {
		return jobs.NewRunner(d), noop, nil
	}

	prompts := prompt.New()
	if cfg.SystemPromptPath != "" {
		if err := prompts.Override(prompt.RoleSystem, cfg.SystemPromptPath); err != nil {
			return nil, noop, err
		}
	}
	client, err := factory.FromProvider(cfg.Provider, prompts)
	if err != nil {
		return nil, noop, err
	}
	var tr ports.Translator = client
	closeFn := noop
	if cfg.CachePath != "" {
		db, err := sqlite.Init(ctx, cfg.CachePath)
		if err != nil {
			return nil, noop, err
		}
		closeFn = func() { closeDB(db, logger) }
		tr = translator.NewMemory(client, sqlite.NewCacheRepo(db), logger)
	}
	d.Translator = tr
	return jobs.NewRunner(d), closeFn, nil
}

func closeDB(db *sql.DB, logger *slog.Logger) {
	if err := db.Close(); err != nil {
		logger.Warn("close translation memory", "error", err)
	}
}

func optionsFromConfig(cfg *config.Config, mode domain.Mode) jobs.Options {
	return jobs.Options{
		Mode:         mode,
		CatalogPath:  cfg.TSFilePath,
		TemplatePath: cfg.TemplateTSFile,
		Language:     cfg.Lang,
		LanguageCode: cfg.LangPostfix,
		BatchSize:    cfg.APICallSize,
		ImportPath:   cfg.CSVToImport,
		ExportPath:   cfg.CSVToExport,
		WriteBack:    cfg.WriteBackToTS,
		Export:       cfg.ExportToCSV,
	}
}

func pick(flag, cfg string) string {
	if flag != "" {
		return flag
	}
	return cfg
}

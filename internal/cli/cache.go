package cli

import (
	"github.com/spf13/cobra"

	"tsgpt/internal/adapters/db/sqlite"
	"tsgpt/internal/domain"
)

func newCacheCmd(g *globalFlags) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "cache",
		Short: "Inspect the translation memory",
	}
	cmd.AddCommand(&cobra.Command{
		Use:   "stats",
		Short: "Print the number of remembered translations",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			cfg, err := loadConfig(g, nil)
			if err != nil {
				return err
			}
			if cfg.CachePath == "" {
				return domain.ConfigErrorf("cache_path is not set")
			}
			db, err := sqlite.Init(cmd.Context(), cfg.CachePath)
			if err != nil {
				return err
			}
			defer db.Close()
			n, err := sqlite.NewCacheRepo(db).Count(cmd.Context())
			if err != nil {
				return err
			}
			cmd.Printf("%s: %d entries\n", cfg.CachePath, n)
			return nil
		},
	})
	return cmd
}

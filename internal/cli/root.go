// Package cli implements the knowledge-base maintenance commands.
package cli

import (
	"os"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"jce-assistant/internal/config"
	"jce-assistant/internal/knowledge"
	"jce-assistant/internal/platform/logger"
)

type rootOptions struct {
	configFile string
}

// NewRootCommand builds the jce-ingest command tree.
func NewRootCommand() *cobra.Command {
	opts := &rootOptions{}
	cmd := &cobra.Command{
		Use:           "jce-ingest",
		Short:         "Maintain the JCE knowledge base",
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			if opts.configFile != "" {
				return os.Setenv("CONFIG_FILE", opts.configFile)
			}
			return nil
		},
	}
	cmd.PersistentFlags().StringVar(&opts.configFile, "config", "", "path to the TOML config file")

	cmd.AddCommand(newRunCommand(), newSummaryCommand(), newSearchCommand())
	return cmd
}

// loadStore reads configuration and the persisted knowledge store.
func loadStore() (*config.Config, *knowledge.Store, error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, nil, err
	}
	store := knowledge.NewStore(cfg.Knowledge.StorePath)
	if err := store.Load(); err != nil {
		return nil, nil, err
	}
	return cfg, store, nil
}

func newLogger(cfg *config.Config) *zap.Logger {
	log, err := logger.New(cfg.Log.Level, "console")
	if err != nil {
		return zap.NewNop()
	}
	return log
}

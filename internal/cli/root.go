package cli

import (
	"github.com/labelwise/backend/config"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

// NewRootCmd builds the labelwise command tree. Running it without a
// subcommand starts the server.
func NewRootCmd() *cobra.Command {
	root := &cobra.Command{
		Use:   "labelwise",
		Short: "Label scanning and product comparison backend",
		Long: `Labelwise reads ingredient lists off food label photos, scores each
product for health and sustainability, and compares products side by side.

Analysis runs in one of three modes, chosen by configuration:

1. Mock (LABELWISE_ANALYSIS_USE_MOCK_DATA=true): canned data, no network
2. Direct (LABELWISE_ANALYSIS_USE_LOCAL_API=true plus a local key): calls Gemini
3. Proxy (default): calls the analysis proxy, which holds the Gemini key

Any failed remote call falls back to mock output flagged as degraded.`,
		SilenceUsage: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runServe(cmd)
		},
	}

	root.AddCommand(newServeCmd(), newCompareCmd(), newVersionCmd())
	return root
}

// Execute runs the root command
func Execute() error {
	return NewRootCmd().Execute()
}

// loadConfig loads configuration and builds the logger
func loadConfig() (*config.Config, *zap.Logger, error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, nil, err
	}

	logger, err := config.NewLogger(cfg.Log)
	if err != nil {
		return nil, nil, err
	}

	return cfg, logger, nil
}

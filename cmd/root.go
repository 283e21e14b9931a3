package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/sells-group/leads-checker/internal/config"
)

var cfg *config.Config

var rootCmd = &cobra.Command{
	Use:   "leads-checker",
	Short: "Reconcile prospective leads against HubSpot deals and alignment exports",
	Long:  "Classifies each new lead as new, existing, or double-check by matching email domains and fuzzy company names against the deals and company-alignment reference exports.",
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		c, err := config.Load()
		if err != nil {
			return fmt.Errorf("load config: %w", err)
		}
		cfg = c

		if err := config.InitLogger(cfg.Log); err != nil {
			return fmt.Errorf("init logger: %w", err)
		}

		return nil
	},
	PersistentPostRun: func(cmd *cobra.Command, args []string) {
		_ = zap.L().Sync()
	},
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

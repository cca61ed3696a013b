package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/autokosten/autokosten-cli/internal/config"
)

var cfg *config.Config

var rootCmd = &cobra.Command{
	Use:   "autokosten",
	Short: "Vehicle cost-of-ownership calculator for Dutch private buyers with business use",
	Long:  "Resolves vehicles from the RDW open-data registry, assesses bijtelling, and calculates the full annual cost of buying privately while driving partly for business.",
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		c, err := config.Load()
		if err != nil {
			return fmt.Errorf("load config: %w", err)
		}
		if err := c.Validate(); err != nil {
			return err
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

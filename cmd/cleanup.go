package cmd

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"
)

var cleanupCmd = &cobra.Command{
	Use:   "cleanup <asset-id>",
	Short: "Remove all renditions and remote objects for an asset",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		assetID := args[0]

		orchestrator, cleanup, err := buildOrchestrator()
		if err != nil {
			return err
		}
		defer cleanup()

		if err := orchestrator.Cleanup(context.Background(), assetID); err != nil {
			return err
		}

		fmt.Printf("asset %s cleaned up\n", assetID)
		return nil
	},
}

func init() {
	rootCmd.AddCommand(cleanupCmd)
}

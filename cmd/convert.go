package cmd

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"
)

var convertCmd = &cobra.Command{
	Use:   "convert <asset-id>",
	Short: "Convert one asset into HLS renditions",
	Long:  `Run the conversion pipeline for a single asset: encode every quality tier, upload the renditions and record them. Useful for manual retriggers.`,
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		assetID := args[0]

		orchestrator, cleanup, err := buildOrchestrator()
		if err != nil {
			return err
		}
		defer cleanup()

		result, err := orchestrator.ConvertWithRetry(context.Background(), assetID)
		if err != nil {
			return err
		}

		fmt.Printf("asset %s: %d/%d tiers converted in %s\n",
			result.AssetID, result.Succeeded, result.Attempted, result.Elapsed.Round(0))
		for _, tier := range result.Tiers {
			if tier.Err != nil {
				fmt.Printf("  %-8s FAILED: %v\n", tier.Quality, tier.Err)
				continue
			}
			fmt.Printf("  %-8s %d segments  %s\n", tier.Quality, tier.SegmentCount, tier.PlaylistURL)
		}
		return nil
	},
}

func init() {
	rootCmd.AddCommand(convertCmd)
}

package cmd

import (
	"context"

	"WaveFM/config"
	"WaveFM/logger"
	"WaveFM/storage"

	"github.com/spf13/cobra"
)

var bucketPrefix string

var bucketCmd = &cobra.Command{
	Use:   "bucket",
	Short: "Report object storage contents",
	Long:  `List the objects stored under a prefix with aggregate size and count, for operator inspection.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg := config.Load()

		logger.InitLogger(logger.Config{
			Level: logger.LogLevel(cfg.LogLevel),
		})

		if err := storage.InitMinio(cfg); err != nil {
			return err
		}

		return storage.PrintBucketStatus(context.Background(), bucketPrefix)
	},
}

func init() {
	bucketCmd.Flags().StringVarP(&bucketPrefix, "prefix", "p", "hls/", "key prefix to report on")
	rootCmd.AddCommand(bucketCmd)
}

package cmd

import (
	"context"

	"github.com/narvas12/mercor-assessment/internal/pipeline"

	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

var compressCmd = &cobra.Command{
	Use:   "compress <applicant-id>",
	Short: "Gather an applicant's child records into the compressed JSON document",
	Args:  cobra.ExactArgs(1),
	Run: func(_ *cobra.Command, args []string) {
		compress(args[0])
	},
}

func init() {
	rootCmd.AddCommand(compressCmd)
}

func compress(applicantID string) {
	ctx := context.Background()
	logger := newLogger()

	config, err := getConfig()
	if err != nil {
		logger.Fatal("getting a config", zap.Error(err))
	}

	store, err := newStore(config, logger)
	if err != nil {
		logger.Fatal("building the store", zap.Error(err))
	}

	compressor := pipeline.NewCompressor(store, logger)
	if _, err := compressor.Compress(ctx, applicantID); err != nil {
		logger.Fatal("compressing applicant", zap.String("applicant_id", applicantID), zap.Error(err))
	}
}

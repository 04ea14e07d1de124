package cmd

import (
	"context"

	"github.com/narvas12/mercor-assessment/internal/pipeline"

	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

var shortlistCmd = &cobra.Command{
	Use:   "shortlist",
	Short: "Apply the eligibility rules to every applicant and record leads for the passing ones",
	Run: func(_ *cobra.Command, _ []string) {
		runShortlist()
	},
}

func init() {
	rootCmd.AddCommand(shortlistCmd)
}

func runShortlist() {
	ctx := context.Background()
	logger := newLogger()

	config, err := getConfig()
	if err != nil {
		logger.Fatal("getting a config", zap.Error(err))
	}

	if config == nil || config.Criteria == nil {
		logger.Fatal("criteria section is required to shortlist applicants")
	}

	store, err := newStore(config, logger)
	if err != nil {
		logger.Fatal("building the store", zap.Error(err))
	}

	shortlister := pipeline.NewShortlister(store, *config.Criteria, logger)
	if _, err := shortlister.Run(ctx); err != nil {
		logger.Fatal("shortlisting applicants", zap.Error(err))
	}
}

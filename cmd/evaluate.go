package cmd

import (
	"context"

	"github.com/narvas12/mercor-assessment/internal/pipeline"

	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

var evaluateCmd = &cobra.Command{
	Use:   "evaluate",
	Short: "Send applicant documents to the LLM and write summaries, scores and follow-ups back",
	Run: func(cmd *cobra.Command, _ []string) {
		evaluate(cmd)
	},
}

func init() {
	rootCmd.AddCommand(evaluateCmd)

	evaluateCmd.Flags().String("applicant-id", "", "evaluate a single applicant instead of the whole population")
}

func evaluate(cmd *cobra.Command) {
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

	aiEvaluator, err := newAIEvaluator(ctx, config.AI, logger)
	if err != nil {
		logger.Fatal("building the llm evaluator", zap.Error(err))
	}

	runner := pipeline.NewLLMEvaluator(store, aiEvaluator, logger)

	if applicantID := cmd.Flag("applicant-id").Value.String(); applicantID != "" {
		evaluation, err := runner.EvaluateOne(ctx, applicantID)
		if err != nil {
			logger.Fatal("evaluating applicant", zap.String("applicant_id", applicantID), zap.Error(err))
		}

		logger.Info("applicant evaluated",
			zap.String("applicant_id", applicantID),
			zap.Float64("score", evaluation.Score),
			zap.String("summary", evaluation.Summary),
		)
		return
	}

	if _, err := runner.EvaluateAll(ctx); err != nil {
		logger.Fatal("evaluating applicants", zap.Error(err))
	}
}

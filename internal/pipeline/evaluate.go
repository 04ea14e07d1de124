package pipeline

import (
	"context"
	"fmt"

	"github.com/narvas12/mercor-assessment/internal/ai"
	"github.com/narvas12/mercor-assessment/internal/document"

	"go.uber.org/zap"
)

// LLMEvaluator drives language-model evaluation over applicants and writes
// the summary, score and follow-up fields back onto their records.
type LLMEvaluator struct {
	store     Store
	evaluator ai.Evaluator
	logger    *zap.Logger
}

func NewLLMEvaluator(store Store, evaluator ai.Evaluator, logger *zap.Logger) *LLMEvaluator {
	return &LLMEvaluator{
		store:     store,
		evaluator: evaluator,
		logger:    logger,
	}
}

// EvaluateAll processes the whole applicant population sequentially,
// returning how many applicants were evaluated. Applicants that already
// carry a score for an unchanged document are skipped; the change check
// compares the stored document against the value read at the start of the
// iteration. Per-record failures are logged and skipped.
func (e *LLMEvaluator) EvaluateAll(ctx context.Context) (int, error) {
	population, err := e.store.ListApplicants(ctx)
	if err != nil {
		return 0, err
	}

	e.logger.Info("fetched applicants", zap.Int("count", len(population)))

	evaluated := 0
	for _, applicant := range population {
		logger := e.logger.With(zap.String("applicant_id", applicant.ApplicantID))

		if applicant.ApplicantID == "" {
			logger.Warn("skipping record without applicant id")
			continue
		}

		compressed := applicant.CompressedJSON
		if applicant.LLMScore != 0 && applicant.CompressedJSON == compressed {
			logger.Info("skipping applicant, already evaluated")
			continue
		}

		if err := e.evaluateApplicant(ctx, applicant.ApplicantID, logger); err != nil {
			logger.Error("evaluating applicant", zap.Error(err))
			continue
		}

		evaluated++
	}

	e.logger.Info("finished evaluating applicants", zap.Int("evaluated", evaluated))
	return evaluated, nil
}

// EvaluateOne runs the evaluation for a single applicant.
func (e *LLMEvaluator) EvaluateOne(ctx context.Context, applicantID string) (*ai.Evaluation, error) {
	logger := e.logger.With(zap.String("applicant_id", applicantID))

	evaluation, _, err := e.evaluate(ctx, applicantID, logger)
	if err != nil {
		return nil, err
	}

	return evaluation, nil
}

func (e *LLMEvaluator) evaluateApplicant(ctx context.Context, applicantID string, logger *zap.Logger) error {
	_, recordID, err := e.evaluate(ctx, applicantID, logger)
	if err != nil {
		return err
	}

	logger.Debug("updated evaluation fields", zap.String("record_id", recordID))
	return nil
}

func (e *LLMEvaluator) evaluate(ctx context.Context, applicantID string, logger *zap.Logger) (*ai.Evaluation, string, error) {
	bundle, err := e.store.Bundle(ctx, applicantID)
	if err != nil {
		return nil, "", fmt.Errorf("fetching applicant data: %w", err)
	}

	compressed := bundle.Applicant.CompressedJSON
	if compressed == "" {
		compressed = "{}"
	}

	doc, err := document.Parse([]byte(compressed))
	if err != nil {
		return nil, "", fmt.Errorf("stored document: %w", err)
	}

	logger.Info("sending applicant document to llm")

	evaluation, err := e.evaluator.Evaluate(ctx, doc)
	if err != nil {
		return nil, "", fmt.Errorf("llm evaluation: %w", err)
	}

	recordID := bundle.Applicant.RecordID
	if err := e.store.UpdateEvaluation(ctx, recordID, evaluation.Summary, evaluation.Score, evaluation.FollowUps); err != nil {
		return nil, "", fmt.Errorf("updating evaluation fields: %w", err)
	}

	logger.Info("applicant evaluated", zap.Float64("score", evaluation.Score))
	return evaluation, recordID, nil
}

package cmd

import (
	"context"
	"errors"
	"fmt"
	"log"
	"strings"

	"github.com/narvas12/mercor-assessment/internal/ai"
	"github.com/narvas12/mercor-assessment/internal/ai/gemini"
	"github.com/narvas12/mercor-assessment/internal/airtable"
	"github.com/narvas12/mercor-assessment/internal/applicants"
	"github.com/narvas12/mercor-assessment/internal/logger"
	"github.com/narvas12/mercor-assessment/internal/secrets"

	"github.com/spf13/viper"
	"go.uber.org/zap"
)

// newLogger builds the logger every command starts with. There is no way to
// report problems without it, so failure is fatal.
func newLogger() *zap.Logger {
	l, err := logger.New(viper.GetBool("json"), viper.GetBool("debug"))
	if err != nil {
		log.Fatalf("creating a logger: %s", err)
	}
	return l
}

// newStore builds the applicant store from the airtable section of the
// config.
func newStore(config *Config, logger *zap.Logger) (*applicants.Store, error) {
	if config == nil || config.Airtable == nil {
		return nil, errors.New("airtable configuration is required")
	}

	if config.Airtable.BaseID == "" {
		return nil, errors.New("airtable.base-id is required")
	}

	token, err := secrets.Load(secrets.Source{
		Name: "airtable api key",
		File: config.Airtable.APIKeyFile,
	})
	if err != nil {
		return nil, fmt.Errorf("%w (set airtable.api-key-file or AIRTABLE_API_KEY_FILE)", err)
	}

	client := airtable.New(airtable.Config{
		Token:             token,
		BaseID:            config.Airtable.BaseID,
		MaxRetries:        config.Airtable.MaxRetries,
		BackoffBase:       config.Airtable.BackoffBase,
		RequestsPerSecond: config.Airtable.RequestsPerSecond,
	}, logger)

	return applicants.NewStore(client, config.Airtable.Tables, logger), nil
}

func newAIEvaluator(ctx context.Context, cfg *AIConfig, logger *zap.Logger) (ai.Evaluator, error) {
	if cfg == nil || cfg.Gemini == nil {
		return nil, errors.New("ai.gemini configuration is required")
	}

	provider := strings.TrimSpace(strings.ToLower(cfg.Provider))
	if provider != "" && provider != "gemini" {
		return nil, fmt.Errorf("unsupported ai provider: %s", cfg.Provider)
	}

	apiKey, err := secrets.Load(secrets.Source{
		Name: "gemini api key",
		File: cfg.Gemini.APIKeyFile,
	})
	if err != nil {
		return nil, fmt.Errorf("%w (set ai.gemini.api-key-file or GEMINI_API_KEY_FILE)", err)
	}

	generator, err := gemini.NewGenerator(ctx, apiKey, cfg.Gemini.Model, cfg.Gemini.CircuitBreaker)
	if err != nil {
		return nil, err
	}

	evalLogger := logger.With(
		zap.String("provider", "gemini"),
		zap.String("model", cfg.Gemini.Model),
	)

	return gemini.NewEvaluator(generator, evalLogger, cfg.Gemini.MaxAttempts, cfg.Gemini.MaxLogLength), nil
}

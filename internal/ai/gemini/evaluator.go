package gemini

import (
	"context"
	"encoding/json"
	"fmt"
	"math"
	"strconv"
	"strings"
	"unicode/utf8"

	_ "embed"

	"github.com/narvas12/mercor-assessment/internal/ai"
	"github.com/narvas12/mercor-assessment/internal/document"
	"github.com/narvas12/mercor-assessment/internal/utils"

	"go.uber.org/zap"
)

type contentGenerator interface {
	GenerateContent(ctx context.Context, prompt string) (string, error)
}

//go:embed prompt.md
var promptTemplate string

const (
	defaultMaxAttempts  = 3
	defaultMaxLogLength = 200

	failedSummary = "Evaluation failed"
)

// Evaluator turns applicant documents into structured evaluations via a
// content generator.
type Evaluator struct {
	generator   contentGenerator
	logger      *zap.Logger
	maxAttempts int
	maxLogLen   int
}

func NewEvaluator(generator contentGenerator, logger *zap.Logger, maxAttempts, maxLogLength int) *Evaluator {
	if maxAttempts <= 0 {
		maxAttempts = defaultMaxAttempts
	}
	if maxLogLength <= 0 {
		maxLogLength = defaultMaxLogLength
	}

	return &Evaluator{
		generator:   generator,
		logger:      logger,
		maxAttempts: maxAttempts,
		maxLogLen:   maxLogLength,
	}
}

// Evaluate sends the document to the model and parses the reply. Failed calls
// consume attempts; a reply that cannot be parsed is not retried and becomes
// the summary of a zero-score fallback. When every call fails, a fixed
// fallback is returned. The only error path is a document that cannot be
// serialized.
func (e *Evaluator) Evaluate(ctx context.Context, doc *document.Document) (*ai.Evaluation, error) {
	if doc == nil {
		return nil, fmt.Errorf("document is required")
	}

	docJSON, err := json.MarshalIndent(doc, "", "  ")
	if err != nil {
		return nil, fmt.Errorf("marshal document: %w", err)
	}

	prompt := buildPrompt(string(docJSON))

	e.logger.Debug("gemini evaluate request",
		zap.Int("prompt_length", utf8.RuneCountInString(prompt)),
		zap.String("prompt_preview", utils.TruncateForLog(prompt, e.maxLogLen)),
	)

	for attempt := 1; attempt <= e.maxAttempts; attempt++ {
		raw, err := e.generator.GenerateContent(ctx, prompt)
		if err != nil {
			e.logger.Warn("llm call failed",
				zap.Int("attempt", attempt),
				zap.Int("max_attempts", e.maxAttempts),
				zap.Error(err),
			)
			continue
		}

		e.logger.Debug("gemini evaluate response",
			zap.Int("response_length", utf8.RuneCountInString(raw)),
			zap.String("response_preview", utils.TruncateForLog(raw, e.maxLogLen)),
		)

		cleaned := extractJSON(raw)

		var data map[string]any
		if err := json.Unmarshal([]byte(cleaned), &data); err != nil {
			// A malformed reply is not re-requested: the raw text becomes the
			// summary of a zero-score result.
			e.logger.Warn("llm reply is not valid JSON, returning raw text",
				zap.Int("attempt", attempt),
				zap.String("reply_preview", utils.TruncateForLog(raw, e.maxLogLen)),
			)
			return &ai.Evaluation{
				Summary:   strings.TrimSpace(raw),
				Score:     0,
				FollowUps: []string{},
				Raw:       raw,
			}, nil
		}

		score := coerceFloat(data["score"])
		if math.IsNaN(score) {
			score = 0
		}

		return &ai.Evaluation{
			Summary:   coerceString(data["summary"]),
			Score:     score,
			FollowUps: coerceStrings(data["follow_ups"]),
			Raw:       raw,
		}, nil
	}

	e.logger.Error("all llm attempts failed, returning fallback",
		zap.Int("max_attempts", e.maxAttempts),
	)

	return &ai.Evaluation{
		Summary:   failedSummary,
		Score:     0,
		FollowUps: []string{},
	}, nil
}

func buildPrompt(docJSON string) string {
	template := promptTemplate
	if strings.TrimSpace(template) == "" {
		template = "Applicant:\n{{APPLICANT_JSON}}\n\nJSON Response:"
	}
	return strings.ReplaceAll(template, "{{APPLICANT_JSON}}", docJSON)
}

func extractJSON(raw string) string {
	raw = strings.TrimSpace(raw)
	if strings.HasPrefix(raw, "```") {
		raw = strings.TrimPrefix(raw, "```json")
		raw = strings.TrimPrefix(raw, "```")
		raw = strings.TrimSpace(raw)
		if idx := strings.LastIndex(raw, "```"); idx != -1 {
			raw = raw[:idx]
		}
	}
	raw = strings.Trim(raw, "`")
	return strings.TrimSpace(raw)
}

func coerceFloat(v any) float64 {
	switch val := v.(type) {
	case float64:
		return val
	case int:
		return float64(val)
	case string:
		trimmed := strings.TrimSpace(val)
		if trimmed == "" {
			return math.NaN()
		}
		f, err := strconv.ParseFloat(trimmed, 64)
		if err != nil {
			return math.NaN()
		}
		return f
	default:
		return math.NaN()
	}
}

func coerceString(v any) string {
	switch val := v.(type) {
	case string:
		return strings.TrimSpace(val)
	case fmt.Stringer:
		return strings.TrimSpace(val.String())
	default:
		if v == nil {
			return ""
		}
		bytes, err := json.Marshal(v)
		if err != nil {
			return fmt.Sprintf("%v", v)
		}
		return string(bytes)
	}
}

func coerceStrings(v any) []string {
	switch val := v.(type) {
	case nil:
		return []string{}
	case []string:
		return val
	case []any:
		values := make([]string, 0, len(val))
		for _, item := range val {
			if s := coerceString(item); s != "" {
				values = append(values, s)
			}
		}
		return values
	case string:
		trimmed := strings.TrimSpace(val)
		if trimmed == "" {
			return []string{}
		}
		return []string{trimmed}
	default:
		return []string{}
	}
}

package ai

import (
	"context"

	"github.com/narvas12/mercor-assessment/internal/document"
)

// Evaluation is the structured result of a language-model review of an
// applicant document.
type Evaluation struct {
	Summary   string
	Score     float64
	FollowUps []string
	Raw       string
}

type Evaluator interface {
	Evaluate(ctx context.Context, doc *document.Document) (*Evaluation, error)
}

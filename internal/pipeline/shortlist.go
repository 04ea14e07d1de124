package pipeline

import (
	"context"

	"github.com/narvas12/mercor-assessment/internal/applicants"
	"github.com/narvas12/mercor-assessment/internal/document"
	"github.com/narvas12/mercor-assessment/internal/shortlist"

	"go.uber.org/zap"
)

// Shortlister runs the eligibility rules over every applicant and records a
// lead for each positive decision.
type Shortlister struct {
	store    Store
	criteria shortlist.Criteria
	logger   *zap.Logger
}

func NewShortlister(store Store, criteria shortlist.Criteria, logger *zap.Logger) *Shortlister {
	return &Shortlister{
		store:    store,
		criteria: criteria,
		logger:   logger,
	}
}

// Run processes the whole applicant population sequentially and returns the
// number of applicants shortlisted. Per-record problems are logged and
// skipped; only listing the population can fail the run.
func (s *Shortlister) Run(ctx context.Context) (int, error) {
	population, err := s.store.ListApplicants(ctx)
	if err != nil {
		return 0, err
	}

	s.logger.Info("fetched applicants", zap.Int("count", len(population)))

	shortlisted := 0
	for _, applicant := range population {
		logger := s.logger.With(zap.String("applicant_id", applicant.ApplicantID))

		if applicant.CompressedJSON == "" {
			logger.Warn("skipping applicant without compressed json")
			continue
		}

		doc, err := document.Parse([]byte(applicant.CompressedJSON))
		if err != nil {
			logger.Error("invalid compressed json", zap.Error(err))
			continue
		}

		evaluation := shortlist.Evaluate(doc, s.criteria)
		if !evaluation.Shortlisted() {
			logger.Info("applicant not shortlisted",
				zap.Int("experience_count", evaluation.ExperienceCount),
				zap.Bool("meets_compensation", evaluation.MeetsCompensation),
				zap.Bool("eligible_location", evaluation.EligibleLocation),
				zap.Bool("meets_availability", evaluation.MeetsAvailability),
			)
			continue
		}

		// The lead carries the stored JSON as-is, not a re-serialization.
		lead := applicants.ShortlistedLead{
			ApplicantRecordID: applicant.RecordID,
			CompressedJSON:    applicant.CompressedJSON,
			ScoreReason:       evaluation.ScoreReason(),
		}
		if err := s.store.CreateShortlistedLead(ctx, lead); err != nil {
			logger.Error("creating shortlist record", zap.Error(err))
			continue
		}

		logger.Info("shortlisted applicant", zap.String("score_reason", evaluation.ScoreReason()))
		shortlisted++
	}

	s.logger.Info("finished shortlisting", zap.Int("shortlisted", shortlisted))
	return shortlisted, nil
}

package pipeline

import (
	"context"
	"fmt"

	"github.com/narvas12/mercor-assessment/internal/applicants"
	"github.com/narvas12/mercor-assessment/internal/document"

	"go.uber.org/zap"
)

// Compressor flattens an applicant's normalized child records into one
// denormalized document stored on the applicant.
type Compressor struct {
	store  Store
	logger *zap.Logger
}

func NewCompressor(store Store, logger *zap.Logger) *Compressor {
	return &Compressor{store: store, logger: logger}
}

// Compress gathers the applicant's child records and overwrites the stored
// document. Four reads, then exactly one write; the previous value is
// replaced unconditionally. Missing child records become empty sections.
func (c *Compressor) Compress(ctx context.Context, applicantID string) (*document.Document, error) {
	bundle, err := c.store.Bundle(ctx, applicantID)
	if err != nil {
		return nil, err
	}

	doc := buildDocument(bundle)

	data, err := doc.Marshal()
	if err != nil {
		return nil, fmt.Errorf("marshal document: %w", err)
	}

	if err := c.store.UpdateCompressedJSON(ctx, bundle.Applicant.RecordID, string(data)); err != nil {
		return nil, fmt.Errorf("update compressed json: %w", err)
	}

	c.logger.Info("compressed applicant data",
		zap.String("applicant_id", applicantID),
		zap.Int("experience_entries", len(doc.Experience)),
	)

	return doc, nil
}

func buildDocument(bundle *applicants.Bundle) *document.Document {
	doc := &document.Document{
		Experience: make([]document.Experience, 0, len(bundle.Experience)),
	}

	if bundle.Personal != nil {
		doc.Personal = document.Personal{
			FullName: bundle.Personal.FullName,
			Email:    bundle.Personal.Email,
			Location: bundle.Personal.Location,
			LinkedIn: bundle.Personal.LinkedIn,
		}
	}

	// Order follows the store's return order; it carries no meaning.
	for _, experience := range bundle.Experience {
		doc.Experience = append(doc.Experience, document.Experience{
			Company:      experience.Company,
			Title:        experience.Title,
			Start:        experience.Start,
			End:          experience.End,
			Technologies: experience.Technologies,
		})
	}

	if bundle.Salary != nil {
		doc.Salary = document.Salary{
			PreferredRate: bundle.Salary.PreferredRate,
			MinimumRate:   bundle.Salary.MinimumRate,
			Currency:      document.Currency(bundle.Salary.Currency),
			Availability:  bundle.Salary.Availability,
		}
	}

	doc.Normalize()
	return doc
}

package pipeline

import (
	"context"
	"fmt"

	"github.com/narvas12/mercor-assessment/internal/document"

	"go.uber.org/zap"
)

// Decompressor reconciles a denormalized document back into the normalized
// child tables: single-valued children are upserted, the experience table is
// rebuilt.
type Decompressor struct {
	store  Store
	logger *zap.Logger
}

func NewDecompressor(store Store, logger *zap.Logger) *Decompressor {
	return &Decompressor{store: store, logger: logger}
}

// Decompress applies the document to the applicant's child tables. The
// Applicant ID must resolve before any mutation is attempted.
func (d *Decompressor) Decompress(ctx context.Context, applicantID string, doc *document.Document) error {
	applicant, err := d.store.FindApplicant(ctx, applicantID)
	if err != nil {
		return fmt.Errorf("resolving applicant %q: %w", applicantID, err)
	}

	recordID := applicant.RecordID
	doc.Normalize()

	if err := d.store.UpsertPersonal(ctx, recordID, doc.Personal); err != nil {
		return fmt.Errorf("personal details: %w", err)
	}

	if err := d.rebuildExperience(ctx, recordID, doc.Experience); err != nil {
		return fmt.Errorf("work experience: %w", err)
	}

	if err := d.store.UpsertSalary(ctx, recordID, doc.Salary); err != nil {
		return fmt.Errorf("salary preferences: %w", err)
	}

	d.logger.Info("decompressed document into child tables",
		zap.String("applicant_id", applicantID),
		zap.String("record_id", recordID),
		zap.Int("experience_entries", len(doc.Experience)),
	)

	return nil
}

// rebuildExperience replaces every stored experience row with the document's
// entries, in document order. The rebuild is delete-all then create-all and
// is not atomic: a failure mid-sequence leaves a partial set behind. A
// staging strategy (create new rows, then delete old ones) would close that
// window but changes what a concurrent reader observes, so any such change
// belongs behind this boundary.
func (d *Decompressor) rebuildExperience(ctx context.Context, applicantRecordID string, entries []document.Experience) error {
	existing, err := d.store.ListExperienceByLink(ctx, applicantRecordID)
	if err != nil {
		return err
	}

	for _, record := range existing {
		if err := d.store.DeleteExperience(ctx, record.ID); err != nil {
			return fmt.Errorf("delete row %s: %w", record.ID, err)
		}
	}

	for _, entry := range entries {
		if err := d.store.CreateExperience(ctx, applicantRecordID, entry); err != nil {
			return fmt.Errorf("create row for %q: %w", entry.Company, err)
		}
	}

	return nil
}

// Package pipeline contains the four batch/single-record workflows operating
// on the applicant population: compress, decompress, shortlist and LLM
// evaluation. The workflows are independent; they share only the store.
package pipeline

import (
	"context"

	"github.com/narvas12/mercor-assessment/internal/airtable"
	"github.com/narvas12/mercor-assessment/internal/applicants"
	"github.com/narvas12/mercor-assessment/internal/document"
)

// Store is the applicant-centric persistence surface the workflows depend on.
// *applicants.Store implements it; tests substitute fakes.
type Store interface {
	FindApplicant(ctx context.Context, applicantID string) (*applicants.Applicant, error)
	ListApplicants(ctx context.Context) ([]*applicants.Applicant, error)
	Bundle(ctx context.Context, applicantID string) (*applicants.Bundle, error)
	UpdateCompressedJSON(ctx context.Context, recordID, compressed string) error

	UpsertPersonal(ctx context.Context, applicantRecordID string, personal document.Personal) error
	UpsertSalary(ctx context.Context, applicantRecordID string, salary document.Salary) error
	ListExperienceByLink(ctx context.Context, applicantRecordID string) ([]airtable.Record, error)
	DeleteExperience(ctx context.Context, recordID string) error
	CreateExperience(ctx context.Context, applicantRecordID string, experience document.Experience) error

	CreateShortlistedLead(ctx context.Context, lead applicants.ShortlistedLead) error
	UpdateEvaluation(ctx context.Context, recordID, summary string, score float64, followUps []string) error
}

package pipeline

import (
	"context"
	"fmt"

	"github.com/narvas12/mercor-assessment/internal/ai"
	"github.com/narvas12/mercor-assessment/internal/airtable"
	"github.com/narvas12/mercor-assessment/internal/applicants"
	"github.com/narvas12/mercor-assessment/internal/document"
)

type writtenEvaluation struct {
	summary   string
	score     float64
	followUps []string
}

// fakeStore records every mutation so tests can assert on call order and
// payloads.
type fakeStore struct {
	applicantsByID   map[string]*applicants.Applicant
	bundlesByID      map[string]*applicants.Bundle
	experienceByLink map[string][]airtable.Record

	listErr   error
	deleteErr error

	updatedJSON       map[string]string
	upsertedPersonal  map[string]document.Personal
	upsertedSalary    map[string]document.Salary
	deletedExperience []string
	createdExperience []document.Experience
	leads             []applicants.ShortlistedLead
	evaluations       map[string]writtenEvaluation
}

func newFakeStore() *fakeStore {
	return &fakeStore{
		applicantsByID:   map[string]*applicants.Applicant{},
		bundlesByID:      map[string]*applicants.Bundle{},
		experienceByLink: map[string][]airtable.Record{},
		updatedJSON:      map[string]string{},
		upsertedPersonal: map[string]document.Personal{},
		upsertedSalary:   map[string]document.Salary{},
		evaluations:      map[string]writtenEvaluation{},
	}
}

func (f *fakeStore) FindApplicant(_ context.Context, applicantID string) (*applicants.Applicant, error) {
	applicant, ok := f.applicantsByID[applicantID]
	if !ok {
		return nil, fmt.Errorf("%w: applicant %q", airtable.ErrNotFound, applicantID)
	}
	return applicant, nil
}

func (f *fakeStore) ListApplicants(context.Context) ([]*applicants.Applicant, error) {
	if f.listErr != nil {
		return nil, f.listErr
	}

	// Stable order keeps assertions simple.
	var ids []string
	for id := range f.applicantsByID {
		ids = append(ids, id)
	}
	for i := 0; i < len(ids); i++ {
		for j := i + 1; j < len(ids); j++ {
			if ids[j] < ids[i] {
				ids[i], ids[j] = ids[j], ids[i]
			}
		}
	}

	population := make([]*applicants.Applicant, 0, len(ids))
	for _, id := range ids {
		population = append(population, f.applicantsByID[id])
	}
	return population, nil
}

func (f *fakeStore) Bundle(_ context.Context, applicantID string) (*applicants.Bundle, error) {
	bundle, ok := f.bundlesByID[applicantID]
	if !ok {
		return nil, fmt.Errorf("%w: applicant %q", airtable.ErrNotFound, applicantID)
	}
	return bundle, nil
}

func (f *fakeStore) UpdateCompressedJSON(_ context.Context, recordID, compressed string) error {
	f.updatedJSON[recordID] = compressed
	return nil
}

func (f *fakeStore) UpsertPersonal(_ context.Context, applicantRecordID string, personal document.Personal) error {
	f.upsertedPersonal[applicantRecordID] = personal
	return nil
}

func (f *fakeStore) UpsertSalary(_ context.Context, applicantRecordID string, salary document.Salary) error {
	f.upsertedSalary[applicantRecordID] = salary
	return nil
}

func (f *fakeStore) ListExperienceByLink(_ context.Context, applicantRecordID string) ([]airtable.Record, error) {
	return f.experienceByLink[applicantRecordID], nil
}

func (f *fakeStore) DeleteExperience(_ context.Context, recordID string) error {
	if f.deleteErr != nil {
		return f.deleteErr
	}
	f.deletedExperience = append(f.deletedExperience, recordID)
	return nil
}

func (f *fakeStore) CreateExperience(_ context.Context, _ string, experience document.Experience) error {
	f.createdExperience = append(f.createdExperience, experience)
	return nil
}

func (f *fakeStore) CreateShortlistedLead(_ context.Context, lead applicants.ShortlistedLead) error {
	f.leads = append(f.leads, lead)
	return nil
}

func (f *fakeStore) UpdateEvaluation(_ context.Context, recordID, summary string, score float64, followUps []string) error {
	f.evaluations[recordID] = writtenEvaluation{
		summary:   summary,
		score:     score,
		followUps: followUps,
	}
	return nil
}

type stubEvaluator struct {
	evaluation *ai.Evaluation
	err        error
	calls      int
	lastDoc    *document.Document
}

func (s *stubEvaluator) Evaluate(_ context.Context, doc *document.Document) (*ai.Evaluation, error) {
	s.calls++
	s.lastDoc = doc
	if s.err != nil {
		return nil, s.err
	}
	return s.evaluation, nil
}

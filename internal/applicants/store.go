package applicants

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/narvas12/mercor-assessment/internal/airtable"
	"github.com/narvas12/mercor-assessment/internal/document"

	"go.uber.org/zap"
)

// Store exposes the applicant-centric operations the workflows need on top of
// the generic table client.
type Store struct {
	client *airtable.Client
	tables Tables
	logger *zap.Logger
}

func NewStore(client *airtable.Client, tables Tables, logger *zap.Logger) *Store {
	return &Store{
		client: client,
		tables: tables,
		logger: logger,
	}
}

// Bundle aggregates an applicant with its child records. Missing child
// records are nil or empty, never an error.
type Bundle struct {
	Applicant  *Applicant
	Personal   *PersonalDetails
	Experience []*WorkExperience
	Salary     *SalaryPreferences
}

// FindApplicant resolves a human-assigned Applicant ID to its record.
// Returns airtable.ErrNotFound when the ID is unknown.
func (s *Store) FindApplicant(ctx context.Context, applicantID string) (*Applicant, error) {
	record, err := s.client.FindOneByField(ctx, s.tables.Applicants, FieldApplicantID, applicantID)
	if err != nil {
		return nil, err
	}

	return DecodeApplicant(record)
}

// ListApplicants returns every applicant in the base.
func (s *Store) ListApplicants(ctx context.Context) ([]*Applicant, error) {
	records, err := s.client.List(ctx, s.tables.Applicants, "")
	if err != nil {
		return nil, err
	}

	applicants := make([]*Applicant, 0, len(records))
	for i := range records {
		applicant, err := DecodeApplicant(&records[i])
		if err != nil {
			return nil, err
		}
		applicants = append(applicants, applicant)
	}

	return applicants, nil
}

// Bundle runs the four independent queries for one applicant. The applicant
// itself must exist; absent child records map to nil/empty results.
func (s *Store) Bundle(ctx context.Context, applicantID string) (*Bundle, error) {
	applicant, err := s.FindApplicant(ctx, applicantID)
	if err != nil {
		return nil, err
	}

	bundle := &Bundle{Applicant: applicant}

	filter := airtable.EqualsFormula(FieldApplicantID, applicantID)

	personal, err := s.client.List(ctx, s.tables.PersonalDetails, filter)
	if err != nil {
		return nil, fmt.Errorf("personal details: %w", err)
	}
	if len(personal) > 0 {
		if bundle.Personal, err = decodePersonalDetails(&personal[0]); err != nil {
			return nil, err
		}
	}

	experience, err := s.client.List(ctx, s.tables.WorkExperience, filter)
	if err != nil {
		return nil, fmt.Errorf("work experience: %w", err)
	}
	bundle.Experience = make([]*WorkExperience, 0, len(experience))
	for i := range experience {
		row, err := decodeWorkExperience(&experience[i])
		if err != nil {
			return nil, err
		}
		bundle.Experience = append(bundle.Experience, row)
	}

	salary, err := s.client.List(ctx, s.tables.SalaryPreferences, filter)
	if err != nil {
		return nil, fmt.Errorf("salary preferences: %w", err)
	}
	if len(salary) > 0 {
		if bundle.Salary, err = decodeSalaryPreferences(&salary[0]); err != nil {
			return nil, err
		}
	}

	return bundle, nil
}

// UpdateCompressedJSON overwrites the applicant's stored document
// unconditionally.
func (s *Store) UpdateCompressedJSON(ctx context.Context, recordID, compressed string) error {
	_, err := s.client.Update(ctx, s.tables.Applicants, recordID, map[string]any{
		FieldCompressedJSON: compressed,
	})
	return err
}

// UpsertPersonal updates the applicant's personal details row in place, or
// creates it when absent. Child rows are linked by the applicant record ID.
func (s *Store) UpsertPersonal(ctx context.Context, applicantRecordID string, personal document.Personal) error {
	payload := map[string]any{
		FieldFullName:    personal.FullName,
		FieldEmail:       personal.Email,
		FieldLocation:    personal.Location,
		FieldLinkedIn:    personal.LinkedIn,
		FieldApplicantID: []string{applicantRecordID},
	}

	return s.upsertChild(ctx, s.tables.PersonalDetails, applicantRecordID, payload)
}

// UpsertSalary updates the applicant's salary preferences row in place, or
// creates it when absent.
func (s *Store) UpsertSalary(ctx context.Context, applicantRecordID string, salary document.Salary) error {
	payload := map[string]any{
		FieldPreferredRate: salary.PreferredRate,
		FieldMinimumRate:   salary.MinimumRate,
		FieldCurrency:      string(salary.Currency),
		FieldAvailability:  salary.Availability,
		FieldApplicantID:   []string{applicantRecordID},
	}

	return s.upsertChild(ctx, s.tables.SalaryPreferences, applicantRecordID, payload)
}

func (s *Store) upsertChild(ctx context.Context, table, applicantRecordID string, payload map[string]any) error {
	existing, err := s.client.List(ctx, table, airtable.EqualsFormula(FieldApplicantID, applicantRecordID))
	if err != nil {
		return err
	}

	if len(existing) > 0 {
		_, err = s.client.Update(ctx, table, existing[0].ID, payload)
		return err
	}

	_, err = s.client.Create(ctx, table, payload)
	return err
}

// ListExperienceByLink returns the stored work experience rows linked to the
// applicant record.
func (s *Store) ListExperienceByLink(ctx context.Context, applicantRecordID string) ([]airtable.Record, error) {
	return s.client.List(ctx, s.tables.WorkExperience, airtable.EqualsFormula(FieldApplicantID, applicantRecordID))
}

// DeleteExperience removes one work experience row.
func (s *Store) DeleteExperience(ctx context.Context, recordID string) error {
	return s.client.Delete(ctx, s.tables.WorkExperience, recordID)
}

// CreateExperience inserts one work experience row linked to the applicant
// record.
func (s *Store) CreateExperience(ctx context.Context, applicantRecordID string, experience document.Experience) error {
	technologies := experience.Technologies
	if technologies == nil {
		technologies = []string{}
	}

	_, err := s.client.Create(ctx, s.tables.WorkExperience, map[string]any{
		FieldCompany:      experience.Company,
		FieldTitle:        experience.Title,
		FieldStart:        experience.Start,
		FieldEnd:          experience.End,
		FieldTechnologies: technologies,
		FieldApplicantID:  []string{applicantRecordID},
	})
	return err
}

// CreateShortlistedLead appends one shortlisting decision. Re-running the
// evaluator on an already-shortlisted applicant creates a duplicate.
func (s *Store) CreateShortlistedLead(ctx context.Context, lead ShortlistedLead) error {
	_, err := s.client.Create(ctx, s.tables.ShortlistedLeads, map[string]any{
		FieldApplicantID:    []string{lead.ApplicantRecordID},
		FieldCompressedJSON: lead.CompressedJSON,
		FieldScoreReason:    lead.ScoreReason,
	})
	return err
}

// UpdateEvaluation writes the LLM result fields on the applicant record.
// Follow-ups are stored newline-joined.
func (s *Store) UpdateEvaluation(ctx context.Context, recordID, summary string, score float64, followUps []string) error {
	_, err := s.client.Update(ctx, s.tables.Applicants, recordID, map[string]any{
		FieldLLMSummary:   summary,
		FieldLLMScore:     score,
		FieldLLMFollowUps: strings.Join(followUps, "\n"),
	})
	return err
}

// IsNotFound reports whether the error denotes an unknown applicant or
// record.
func IsNotFound(err error) bool {
	return errors.Is(err, airtable.ErrNotFound)
}

package applicants

import (
	"fmt"

	"github.com/narvas12/mercor-assessment/internal/airtable"

	"github.com/mitchellh/mapstructure"
)

// Applicant is the anchor record all child tables reference. ApplicantID is
// the stable human-assigned identifier, distinct from RecordID which is the
// store's internal one.
type Applicant struct {
	RecordID        string  `mapstructure:"-"`
	ApplicantID     string  `mapstructure:"Applicant ID"`
	CompressedJSON  string  `mapstructure:"Compressed JSON"`
	ShortlistStatus string  `mapstructure:"Shortlist Status"`
	LLMSummary      string  `mapstructure:"LLM Summary"`
	LLMScore        float64 `mapstructure:"LLM Score"`
	LLMFollowUps    string  `mapstructure:"LLM Follow-Ups"`
}

type PersonalDetails struct {
	RecordID string `mapstructure:"-"`
	FullName string `mapstructure:"Full Name"`
	Email    string `mapstructure:"Email"`
	Location string `mapstructure:"Location"`
	LinkedIn string `mapstructure:"LinkedIn"`
}

type WorkExperience struct {
	RecordID     string   `mapstructure:"-"`
	Company      string   `mapstructure:"Company"`
	Title        string   `mapstructure:"Title"`
	Start        string   `mapstructure:"Start"`
	End          string   `mapstructure:"End"`
	Technologies []string `mapstructure:"Technologies"`
}

// ShortlistedLead is one positive shortlisting decision. Rows are
// append-only.
type ShortlistedLead struct {
	RecordID          string `mapstructure:"-"`
	ApplicantRecordID string `mapstructure:"-"`
	CompressedJSON    string `mapstructure:"Compressed JSON"`
	ScoreReason       string `mapstructure:"Score Reason"`
}

type SalaryPreferences struct {
	RecordID      string  `mapstructure:"-"`
	PreferredRate float64 `mapstructure:"Preferred Rate"`
	MinimumRate   float64 `mapstructure:"Minimum Rate"`
	Currency      string  `mapstructure:"Currency"`
	Availability  int     `mapstructure:"Availability"`
}

// decodeFields maps a record's field map onto a typed struct. Weak typing
// tolerates the store returning numbers for identifier fields.
func decodeFields(record *airtable.Record, target any) error {
	cfg := &mapstructure.DecoderConfig{
		Result:           target,
		WeaklyTypedInput: true,
	}

	decoder, err := mapstructure.NewDecoder(cfg)
	if err != nil {
		return err
	}

	if err := decoder.Decode(record.Fields); err != nil {
		return fmt.Errorf("decode record %s: %w", record.ID, err)
	}

	return nil
}

// DecodeApplicant builds a typed Applicant from a raw record.
func DecodeApplicant(record *airtable.Record) (*Applicant, error) {
	var applicant Applicant
	if err := decodeFields(record, &applicant); err != nil {
		return nil, err
	}
	applicant.RecordID = record.ID
	return &applicant, nil
}

func decodePersonalDetails(record *airtable.Record) (*PersonalDetails, error) {
	var details PersonalDetails
	if err := decodeFields(record, &details); err != nil {
		return nil, err
	}
	details.RecordID = record.ID
	return &details, nil
}

func decodeWorkExperience(record *airtable.Record) (*WorkExperience, error) {
	var experience WorkExperience
	if err := decodeFields(record, &experience); err != nil {
		return nil, err
	}
	experience.RecordID = record.ID
	if experience.Technologies == nil {
		experience.Technologies = []string{}
	}
	return &experience, nil
}

func decodeSalaryPreferences(record *airtable.Record) (*SalaryPreferences, error) {
	var salary SalaryPreferences
	if err := decodeFields(record, &salary); err != nil {
		return nil, err
	}
	salary.RecordID = record.ID
	return &salary, nil
}

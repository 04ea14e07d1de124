package applicants

// Airtable field names used across the five tables.
const (
	FieldApplicantID     = "Applicant ID"
	FieldCompressedJSON  = "Compressed JSON"
	FieldShortlistStatus = "Shortlist Status"
	FieldLLMSummary      = "LLM Summary"
	FieldLLMScore        = "LLM Score"
	FieldLLMFollowUps    = "LLM Follow-Ups"

	FieldFullName = "Full Name"
	FieldEmail    = "Email"
	FieldLocation = "Location"
	FieldLinkedIn = "LinkedIn"

	FieldCompany      = "Company"
	FieldTitle        = "Title"
	FieldStart        = "Start"
	FieldEnd          = "End"
	FieldTechnologies = "Technologies"

	FieldPreferredRate = "Preferred Rate"
	FieldMinimumRate   = "Minimum Rate"
	FieldCurrency      = "Currency"
	FieldAvailability  = "Availability"

	FieldScoreReason = "Score Reason"
)

// Tables names the five tables of the base. Values come from configuration
// since bases may use display names or table IDs.
type Tables struct {
	Applicants        string `mapstructure:"applicants"`
	PersonalDetails   string `mapstructure:"personal-details"`
	WorkExperience    string `mapstructure:"work-experience"`
	SalaryPreferences string `mapstructure:"salary-preferences"`
	ShortlistedLeads  string `mapstructure:"shortlisted-leads"`
}

// Package shortlist implements the deterministic eligibility rules applied to
// denormalized applicant documents.
package shortlist

import (
	"fmt"
	"strings"

	"github.com/narvas12/mercor-assessment/internal/document"
)

// Criteria is the configured rule set. Tier1Companies is loaded and carried
// for forward compatibility but not consulted by the decision.
type Criteria struct {
	MaxHourlyRate     float64  `mapstructure:"max-hourly-rate"`
	MinAvailability   int      `mapstructure:"min-availability"`
	MinExperience     int      `mapstructure:"min-experience"`
	EligibleLocations []string `mapstructure:"eligible-locations"`
	Tier1Companies    []string `mapstructure:"tier-1-companies"`
}

// Evaluation holds the four factors behind a shortlisting decision.
type Evaluation struct {
	ExperienceCount   int
	MeetsExperience   bool
	MeetsCompensation bool
	EligibleLocation  bool
	MeetsAvailability bool

	preferredRate float64
	currency      string
	availability  int
}

// Evaluate applies the rule set to the document. It is a pure function: no
// I/O, no mutation of the inputs.
func Evaluate(doc *document.Document, criteria Criteria) *Evaluation {
	// Experience is counted, not summed into a duration. A coarse proxy.
	count := len(doc.Experience)

	return &Evaluation{
		ExperienceCount:   count,
		MeetsExperience:   count >= criteria.MinExperience,
		MeetsCompensation: doc.Salary.PreferredRate <= criteria.MaxHourlyRate,
		EligibleLocation:  locationEligible(doc.Personal.Location, criteria.EligibleLocations),
		MeetsAvailability: doc.Salary.Availability >= criteria.MinAvailability,

		preferredRate: doc.Salary.PreferredRate,
		currency:      string(doc.Salary.Currency),
		availability:  doc.Salary.Availability,
	}
}

// Shortlisted reports the conjunction of all four factors.
func (e *Evaluation) Shortlisted() bool {
	return e.MeetsExperience &&
		e.MeetsCompensation &&
		e.EligibleLocation &&
		e.MeetsAvailability
}

// ScoreReason renders the human-readable justification recorded on a
// shortlisted lead.
func (e *Evaluation) ScoreReason() string {
	return fmt.Sprintf("%d yrs exp; Rate %v%s OK; Availability %dh/wk; Location eligible",
		e.ExperienceCount, e.preferredRate, e.currency, e.availability)
}

// locationEligible matches case-insensitively on substring containment, so
// "Remote, United Kingdom" matches the eligible location "United Kingdom".
func locationEligible(location string, eligible []string) bool {
	lowered := strings.ToLower(location)
	for _, candidate := range eligible {
		if candidate == "" {
			continue
		}
		if strings.Contains(lowered, strings.ToLower(candidate)) {
			return true
		}
	}
	return false
}

package shortlist

import (
	"testing"

	"github.com/narvas12/mercor-assessment/internal/document"
)

func testCriteria() Criteria {
	return Criteria{
		MaxHourlyRate:     100,
		MinAvailability:   20,
		MinExperience:     4,
		EligibleLocations: []string{"United States", "Germany", "India"},
	}
}

func testDocument() *document.Document {
	return &document.Document{
		Personal: document.Personal{
			FullName: "Ada Lovelace",
			Location: "Berlin, Germany",
		},
		Experience: []document.Experience{
			{Company: "Acme"},
			{Company: "Globex"},
			{Company: "Initech"},
			{Company: "Umbrella"},
			{Company: "Hooli"},
		},
		Salary: document.Salary{
			PreferredRate: 90,
			MinimumRate:   70,
			Currency:      "USD",
			Availability:  25,
		},
	}
}

func TestEvaluateShortlistsOnConjunction(t *testing.T) {
	evaluation := Evaluate(testDocument(), testCriteria())

	if !evaluation.Shortlisted() {
		t.Fatalf("expected shortlist, got %+v", evaluation)
	}

	if evaluation.ExperienceCount != 5 {
		t.Fatalf("expected experience count 5, got %d", evaluation.ExperienceCount)
	}
}

func TestEvaluateRateAloneFlipsDecision(t *testing.T) {
	doc := testDocument()
	doc.Salary.PreferredRate = 150

	evaluation := Evaluate(doc, testCriteria())

	if evaluation.Shortlisted() {
		t.Fatalf("expected rejection on rate, got %+v", evaluation)
	}

	if evaluation.MeetsCompensation {
		t.Fatalf("expected compensation factor to fail")
	}

	if !evaluation.MeetsExperience || !evaluation.EligibleLocation || !evaluation.MeetsAvailability {
		t.Fatalf("expected other factors unchanged, got %+v", evaluation)
	}
}

func TestEvaluateEachFactorGates(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(*document.Document)
	}{
		{
			name: "too few experience entries",
			mutate: func(doc *document.Document) {
				doc.Experience = doc.Experience[:3]
			},
		},
		{
			name: "availability below minimum",
			mutate: func(doc *document.Document) {
				doc.Salary.Availability = 10
			},
		},
		{
			name: "ineligible location",
			mutate: func(doc *document.Document) {
				doc.Personal.Location = "Sydney, Australia"
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			doc := testDocument()
			tt.mutate(doc)

			if Evaluate(doc, testCriteria()).Shortlisted() {
				t.Fatalf("expected rejection")
			}
		})
	}
}

func TestLocationMatchIsSubstringCaseInsensitive(t *testing.T) {
	doc := testDocument()
	doc.Personal.Location = "remote - UNITED STATES"

	evaluation := Evaluate(doc, testCriteria())

	if !evaluation.EligibleLocation {
		t.Fatalf("expected substring case-insensitive match")
	}
}

func TestScoreReasonFormat(t *testing.T) {
	evaluation := Evaluate(testDocument(), testCriteria())

	reason := evaluation.ScoreReason()
	expected := "5 yrs exp; Rate 90USD OK; Availability 25h/wk; Location eligible"
	if reason != expected {
		t.Fatalf("unexpected score reason: %q", reason)
	}
}

func TestTier1CompaniesDoNotAffectDecision(t *testing.T) {
	criteria := testCriteria()
	criteria.Tier1Companies = []string{"Acme"}

	doc := testDocument()
	doc.Salary.PreferredRate = 150

	if Evaluate(doc, criteria).Shortlisted() {
		t.Fatalf("tier-1 companies must not influence the decision")
	}

	if got := Evaluate(testDocument(), criteria); !got.Shortlisted() {
		t.Fatalf("expected shortlist regardless of tier-1 list, got %+v", got)
	}
}

func TestEmptyLocationNeverMatches(t *testing.T) {
	doc := testDocument()
	doc.Personal.Location = ""

	if Evaluate(doc, testCriteria()).EligibleLocation {
		t.Fatalf("expected empty location to be ineligible")
	}

	criteria := testCriteria()
	criteria.EligibleLocations = []string{""}
	doc.Personal.Location = "Berlin, Germany"
	if Evaluate(doc, criteria).EligibleLocation {
		t.Fatalf("empty eligible-location entries must be ignored")
	}
}

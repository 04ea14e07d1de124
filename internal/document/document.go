// Package document defines the denormalized applicant document stored in the
// Compressed JSON field: one personal section, an ordered experience list and
// one salary section.
package document

import (
	"encoding/json"
	"errors"
	"fmt"
)

// ErrMalformed marks stored documents that cannot be parsed as valid JSON.
var ErrMalformed = errors.New("malformed document")

type Document struct {
	Personal   Personal     `json:"personal"`
	Experience []Experience `json:"experience"`
	Salary     Salary       `json:"salary"`
}

type Personal struct {
	FullName string `json:"full_name"`
	Email    string `json:"email"`
	Location string `json:"location"`
	LinkedIn string `json:"linkedin"`
}

type Experience struct {
	Company      string   `json:"company"`
	Title        string   `json:"title"`
	Start        string   `json:"start"`
	End          string   `json:"end"`
	Technologies []string `json:"technologies"`
}

type Salary struct {
	PreferredRate float64  `json:"preferred_rate"`
	MinimumRate   float64  `json:"minimum_rate"`
	Currency      Currency `json:"currency"`
	Availability  int      `json:"availability"`
}

// Currency tolerates both a scalar string and the one-element list some
// stored documents carry. It always marshals back to a scalar.
type Currency string

func (c *Currency) UnmarshalJSON(data []byte) error {
	var scalar string
	if err := json.Unmarshal(data, &scalar); err == nil {
		*c = Currency(scalar)
		return nil
	}

	var list []string
	if err := json.Unmarshal(data, &list); err == nil {
		if len(list) > 0 {
			*c = Currency(list[0])
		}
		return nil
	}

	if string(data) == "null" {
		*c = ""
		return nil
	}

	return fmt.Errorf("currency must be a string or a list of strings, got %s", data)
}

// Parse decodes and normalizes a stored document. Invalid JSON is reported
// as ErrMalformed so callers can treat it as a recoverable per-record
// condition.
func Parse(data []byte) (*Document, error) {
	var doc Document
	if err := json.Unmarshal(data, &doc); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrMalformed, err)
	}

	doc.Normalize()
	return &doc, nil
}

// Normalize maps absent optional fields to their empty-value forms so a
// document round-trips to the same bytes after the first pass: nil lists
// become empty lists, never null.
func (d *Document) Normalize() {
	if d.Experience == nil {
		d.Experience = []Experience{}
	}
	for i := range d.Experience {
		if d.Experience[i].Technologies == nil {
			d.Experience[i].Technologies = []string{}
		}
	}
}

// Marshal serializes the document in its normalized form.
func (d *Document) Marshal() ([]byte, error) {
	d.Normalize()
	return json.Marshal(d)
}

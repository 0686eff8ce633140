package domain

import (
	"encoding/json"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// Sentinel values stored in place of fields that could not be extracted.
// Each sentinel always co-occurs with a validation error on the same document.
const (
	SentinelUnknown = "unknown"
	SentinelError   = "error"
)

// AgreementNumber is the supplementary agreement identifier together with
// a tag telling whether it was actually found.
type AgreementNumber struct {
	State AgreementState `json:"state"`
	Value string         `json:"value,omitempty"`
}

// KnownAgreement returns an agreement number that was found in the text.
func KnownAgreement(value string) AgreementNumber {
	return AgreementNumber{State: AgreementKnown, Value: value}
}

// UnknownAgreement returns the placeholder used when no number was found.
func UnknownAgreement() AgreementNumber {
	return AgreementNumber{State: AgreementUnknown}
}

// ErrorAgreement returns the placeholder used on degraded records.
func ErrorAgreement() AgreementNumber {
	return AgreementNumber{State: AgreementError}
}

// IsKnown reports whether the number was extracted from the text.
func (a AgreementNumber) IsKnown() bool {
	return a.State == AgreementKnown
}

// String returns the number, or the sentinel for unknown and error states.
func (a AgreementNumber) String() string {
	switch a.State {
	case AgreementKnown:
		return a.Value
	case AgreementError:
		return SentinelError
	default:
		return SentinelUnknown
	}
}

// Deviation is the permitted deviation assigned to one plan table.
// An empty Value means no deviation could be determined.
type Deviation struct {
	Value        string `json:"value,omitempty"`
	ManualReview bool   `json:"manual_review,omitempty"`
}

// PlanEntry is one monthly quantity of a procurement plan.
type PlanEntry struct {
	Month    int                 `db:"month" json:"month"`
	Year     int                 `db:"year" json:"year"`
	Quantity decimal.NullDecimal `db:"quantity" json:"quantity"`
	// Buyer is empty when the entry applies to all buyers of the document.
	Buyer     string `db:"buyer" json:"buyer,omitempty"`
	Product   string `db:"product" json:"product,omitempty"`
	Deviation string `db:"deviation" json:"deviation,omitempty"`
}

// ParsedDocument is the extraction result for a single source document.
// The extraction engine never mutates a document after returning it.
type ParsedDocument struct {
	SourceID         string          `json:"source_id"`
	AgreementNumber  AgreementNumber `json:"agreement_number"`
	Year             int             `json:"year"`
	YearDefaulted    bool            `json:"year_defaulted"`
	Buyers           []string        `json:"buyers"`
	AllowedDeviation *string         `json:"allowed_deviation"`
	Deviations       []Deviation     `json:"deviations"`
	MonthlyPlans     []PlanEntry     `json:"monthly_plans"`
	ValidationErrors []string        `json:"validation_errors"`
}

// HasErrors reports whether any data-quality problem was recorded.
func (d *ParsedDocument) HasErrors() bool {
	return len(d.ValidationErrors) > 0
}

// MonthlyTotals sums plan quantities per month (index 0 is January).
// Null quantities are ignored.
func (d *ParsedDocument) MonthlyTotals() [12]decimal.Decimal {
	var totals [12]decimal.Decimal
	for _, p := range d.MonthlyPlans {
		if p.Month < 1 || p.Month > 12 || !p.Quantity.Valid {
			continue
		}
		totals[p.Month-1] = totals[p.Month-1].Add(p.Quantity.Decimal)
	}
	return totals
}

// Clone returns a deep copy of the document.
func (d *ParsedDocument) Clone() *ParsedDocument {
	c := *d
	c.Buyers = append([]string(nil), d.Buyers...)
	c.Deviations = append([]Deviation(nil), d.Deviations...)
	c.MonthlyPlans = append([]PlanEntry(nil), d.MonthlyPlans...)
	c.ValidationErrors = append([]string(nil), d.ValidationErrors...)
	if d.AllowedDeviation != nil {
		v := *d.AllowedDeviation
		c.AllowedDeviation = &v
	}
	return &c
}

// Document is a persisted extraction result.
type Document struct {
	ID               uuid.UUID       `db:"id" json:"id"`
	SourceID         string          `db:"source_id" json:"source_id"`
	AgreementNumber  string          `db:"agreement_number" json:"agreement_number"`
	AgreementState   AgreementState  `db:"agreement_state" json:"agreement_state"`
	Year             int             `db:"year" json:"year"`
	YearDefaulted    bool            `db:"year_defaulted" json:"year_defaulted"`
	Buyers           json.RawMessage `db:"buyers" json:"buyers"`
	AllowedDeviation *string         `db:"allowed_deviation" json:"allowed_deviation"`
	Deviations       json.RawMessage `db:"deviations" json:"deviations"`
	ValidationErrors json.RawMessage `db:"validation_errors" json:"validation_errors"`
	ContentHash      string          `db:"content_hash" json:"content_hash"`
	CreatedAt        time.Time       `db:"created_at" json:"created_at"`
	UpdatedAt        time.Time       `db:"updated_at" json:"updated_at"`
	Plans            []PlanEntry     `db:"-" json:"monthly_plans"`
}

// NewDocument converts an extraction result into its persisted form.
func NewDocument(parsed *ParsedDocument, contentHash string) (*Document, error) {
	buyers, err := json.Marshal(nonNil(parsed.Buyers))
	if err != nil {
		return nil, err
	}
	deviations, err := json.Marshal(parsed.Deviations)
	if err != nil {
		return nil, err
	}
	if parsed.Deviations == nil {
		deviations = []byte("[]")
	}
	errs, err := json.Marshal(nonNil(parsed.ValidationErrors))
	if err != nil {
		return nil, err
	}
	return &Document{
		ID:               uuid.New(),
		SourceID:         parsed.SourceID,
		AgreementNumber:  parsed.AgreementNumber.Value,
		AgreementState:   parsed.AgreementNumber.State,
		Year:             parsed.Year,
		YearDefaulted:    parsed.YearDefaulted,
		Buyers:           buyers,
		AllowedDeviation: parsed.AllowedDeviation,
		Deviations:       deviations,
		ValidationErrors: errs,
		ContentHash:      contentHash,
		Plans:            append([]PlanEntry(nil), parsed.MonthlyPlans...),
	}, nil
}

// Parsed converts a stored document back into an extraction result.
func (d *Document) Parsed() (*ParsedDocument, error) {
	out := &ParsedDocument{
		SourceID:         d.SourceID,
		AgreementNumber:  AgreementNumber{State: d.AgreementState, Value: d.AgreementNumber},
		Year:             d.Year,
		YearDefaulted:    d.YearDefaulted,
		AllowedDeviation: d.AllowedDeviation,
		MonthlyPlans:     append([]PlanEntry(nil), d.Plans...),
	}
	if err := unmarshalOptional(d.Buyers, &out.Buyers); err != nil {
		return nil, err
	}
	if err := unmarshalOptional(d.Deviations, &out.Deviations); err != nil {
		return nil, err
	}
	if err := unmarshalOptional(d.ValidationErrors, &out.ValidationErrors); err != nil {
		return nil, err
	}
	return out, nil
}

func unmarshalOptional(raw json.RawMessage, v interface{}) error {
	if len(raw) == 0 {
		return nil
	}
	return json.Unmarshal(raw, v)
}

func nonNil(s []string) []string {
	if s == nil {
		return []string{}
	}
	return s
}

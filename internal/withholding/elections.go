package withholding

import "time"

// W4Elections is the employee's federal W-4 snapshot. Dollar fields are
// annual cents as entered on the form.
type W4Elections struct {
	FilingStatus     FilingStatus `json:"filing_status"`
	MultipleJobs     bool         `json:"multiple_jobs"`
	DependentsCredit int64        `json:"dependents_credit"`
	OtherIncome      int64        `json:"other_income"`
	Deductions       int64        `json:"deductions"`
	ExtraWithholding int64        `json:"extra_withholding"` // per period
}

// DE4Elections is the employee's California DE-4 snapshot.
type DE4Elections struct {
	FilingStatus     FilingStatus `json:"filing_status"`
	Allowances       int          `json:"allowances"`
	ExtraWithholding int64        `json:"extra_withholding"` // per period
}

// Exemptions flags statutory exemptions. A set flag zeroes the
// corresponding tax unconditionally.
type Exemptions struct {
	FUTA   bool `json:"futa"`
	FICA   bool `json:"fica"`
	SUIETT bool `json:"sui_ett"`
	SDI    bool `json:"sdi"`
}

// ElectionSnapshot is the full tax-election state denormalized onto a
// payroll record at approval time, so historical recomputation stays
// stable if the employee later changes elections.
type ElectionSnapshot struct {
	EffectiveDate time.Time     `json:"effective_date"`
	W4            *W4Elections  `json:"w4,omitempty"`
	DE4           *DE4Elections `json:"de4,omitempty"`
	Exemptions    Exemptions    `json:"exemptions"`
}

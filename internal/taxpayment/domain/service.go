package domain

import (
	"context"
	"time"

	"github.com/bwmarrin/snowflake"
)

// MarkPaidRequest records that one obligation was remitted.
type MarkPaidRequest struct {
	CompanyID          snowflake.ID `json:"company_id"`
	Type               PaymentType  `json:"type"`
	PaymentID          snowflake.ID `json:"payment_id"`
	PaidDate           time.Time    `json:"paid_date"`
	PaymentMethod      string       `json:"payment_method"`
	ConfirmationNumber string       `json:"confirmation_number"`
}

// YearPayments bundles every obligation of one company-year.
type YearPayments struct {
	Federal941 []Federal941Payment `json:"federal_941"`
	Federal940 []Federal940Payment `json:"federal_940"`
	CAPitSdi   []CAPitSdiPayment   `json:"ca_pit_sdi"`
	CASuiEtt   []CASuiEttPayment   `json:"ca_sui_ett"`
}

type Service interface {
	// SyncPeriod recomputes the obligations a pay date contributes to:
	// the month's 941 deposit and PIT/SDI remittance, the quarter's
	// UI/ETT contribution and the year's FUTA deposits. Paid
	// obligations are left untouched.
	SyncPeriod(ctx context.Context, companyID snowflake.ID, payDate time.Time) error

	// MarkPaid settles one obligation and refreshes the filing the
	// obligation feeds into.
	MarkPaid(ctx context.Context, req MarkPaidRequest) error

	ListYear(ctx context.Context, companyID snowflake.ID, year int) (*YearPayments, error)
}

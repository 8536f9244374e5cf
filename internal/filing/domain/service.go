package domain

import (
	"context"

	"github.com/bwmarrin/snowflake"
)

// MarkFiledRequest transitions one computed filing to filed.
type MarkFiledRequest struct {
	CompanyID snowflake.ID `json:"company_id"`
	Type      FilingType   `json:"type"`
	FilingID  snowflake.ID `json:"filing_id"`
	FiledBy   string       `json:"filed_by"`
}

// QuarterFilings bundles every return for one company-quarter; the 940
// is the year's annual return and is nil until payroll exists for the
// year.
type QuarterFilings struct {
	Form941 *Form941Filing `json:"form_941,omitempty"`
	Form940 *Form940Filing `json:"form_940,omitempty"`
	De9     *De9Filing     `json:"de9,omitempty"`
	De9c    *De9cFiling    `json:"de9c,omitempty"`
}

type Service interface {
	// RecomputeQuarter refreshes the 941, DE-9 and DE-9C for the
	// quarter plus the year's 940 from approved payroll.
	RecomputeQuarter(ctx context.Context, companyID snowflake.ID, year, quarter int) error
	// RecomputeForm941 refreshes only the quarter's 941.
	RecomputeForm941(ctx context.Context, companyID snowflake.ID, year, quarter int) error
	// RecomputeForm940 refreshes only the year's 940.
	RecomputeForm940(ctx context.Context, companyID snowflake.ID, year int) error
	// RecomputeDe9 refreshes only the quarter's DE-9.
	RecomputeDe9(ctx context.Context, companyID snowflake.ID, year, quarter int) error

	GetQuarter(ctx context.Context, companyID snowflake.ID, year, quarter int) (*QuarterFilings, error)
	GetForm941(ctx context.Context, companyID snowflake.ID, year, quarter int) (*Form941Filing, error)
	GetForm940(ctx context.Context, companyID snowflake.ID, year int) (*Form940Filing, error)
	GetDe9(ctx context.Context, companyID snowflake.ID, year, quarter int) (*De9Filing, error)
	GetDe9c(ctx context.Context, companyID snowflake.ID, year, quarter int) (*De9cFiling, error)

	// MarkFiled flips the filing to filed and settles the pending
	// payment obligations the filed return covers.
	MarkFiled(ctx context.Context, req MarkFiledRequest) error
}

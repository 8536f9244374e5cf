// Package domain contains persistence models for compliance filings.
package domain

import (
	"time"

	"github.com/bwmarrin/snowflake"
	"gorm.io/datatypes"
)

// FilingStatus represents the filing lifecycle. The transition is
// one-directional: computed filings become filed and stay filed.
type FilingStatus string

const (
	FilingStatusComputed FilingStatus = "computed"
	FilingStatusFiled    FilingStatus = "filed"
)

// FilingType discriminates the four supported returns.
type FilingType string

const (
	FilingTypeForm941 FilingType = "form941"
	FilingTypeForm940 FilingType = "form940"
	FilingTypeDe9     FilingType = "de9"
	FilingTypeDe9c    FilingType = "de9c"
)

// DepositScheduleType classifies a 941 filer's federal deposit schedule.
type DepositScheduleType string

const (
	DepositScheduleMonthly    DepositScheduleType = "monthly"
	DepositScheduleSemiweekly DepositScheduleType = "semiweekly"
)

// DepositLiability is one row of the semiweekly (Schedule B) liability
// breakdown: the liability incurred on a single pay date.
type DepositLiability struct {
	Date   time.Time `json:"date"`
	Amount int64     `json:"amount"`
}

// EmployeeWageRow is one DE-9C continuation line.
type EmployeeWageRow struct {
	EmployeeID   snowflake.ID `json:"employee_id"`
	FirstName    string       `json:"first_name"`
	LastName     string       `json:"last_name"`
	SSN          string       `json:"ssn"`
	WagePlanCode string       `json:"wage_plan_code"`
	SubjectWages int64        `json:"subject_wages"`
	PITWages     int64        `json:"pit_wages"`
	PITWithheld  int64        `json:"pit_withheld"`
}

// Form941Filing is the quarterly federal return. Company header fields
// are denormalized so the form renders without joins. Once filed, the
// status/filed_at/filed_by markers are immutable; computed line values
// may still refresh from later recomputes.
type Form941Filing struct {
	ID        snowflake.ID `gorm:"primaryKey" json:"id"`
	CompanyID snowflake.ID `gorm:"not null;uniqueIndex:ux_form941_period" json:"company_id"`
	Year      int          `gorm:"not null;uniqueIndex:ux_form941_period" json:"year"`
	Quarter   int          `gorm:"not null;uniqueIndex:ux_form941_period" json:"quarter"`

	CompanyName  string `gorm:"type:text;not null" json:"company_name"`
	EIN          string `gorm:"type:text;not null" json:"ein"`
	AddressLine1 string `gorm:"type:text" json:"address_line1"`
	City         string `gorm:"type:text" json:"city"`
	State        string `gorm:"type:text" json:"state"`
	Zip          string `gorm:"type:text" json:"zip"`

	NumEmployees             int   `gorm:"not null;default:0" json:"num_employees"`
	TotalWages               int64 `gorm:"not null;default:0" json:"total_wages"`
	FederalIncomeTaxWithheld int64 `gorm:"not null;default:0" json:"federal_income_tax_withheld"`
	SocialSecurityWages      int64 `gorm:"not null;default:0" json:"social_security_wages"`
	SocialSecurityTax        int64 `gorm:"not null;default:0" json:"social_security_tax"`
	MedicareWages            int64 `gorm:"not null;default:0" json:"medicare_wages"`
	MedicareTax              int64 `gorm:"not null;default:0" json:"medicare_tax"`
	AdditionalMedicareWages  int64 `gorm:"not null;default:0" json:"additional_medicare_wages"`
	AdditionalMedicareTax    int64 `gorm:"not null;default:0" json:"additional_medicare_tax"`
	FractionsOfCents         int64 `gorm:"not null;default:0" json:"fractions_of_cents"`
	TotalTax                 int64 `gorm:"not null;default:0" json:"total_tax"`

	DepositSchedule DepositScheduleType `gorm:"type:text;not null;default:'monthly'" json:"deposit_schedule"`
	Month1Liability int64               `gorm:"not null;default:0" json:"month1_liability"`
	Month2Liability int64               `gorm:"not null;default:0" json:"month2_liability"`
	Month3Liability int64               `gorm:"not null;default:0" json:"month3_liability"`

	SemiweeklySchedule datatypes.JSONType[[]DepositLiability] `gorm:"type:jsonb" json:"semiweekly_schedule"`

	Month1Deposits int64 `gorm:"not null;default:0" json:"month1_deposits"`
	Month2Deposits int64 `gorm:"not null;default:0" json:"month2_deposits"`
	Month3Deposits int64 `gorm:"not null;default:0" json:"month3_deposits"`
	TotalDeposits  int64 `gorm:"not null;default:0" json:"total_deposits"`
	BalanceDue     int64 `gorm:"not null;default:0" json:"balance_due"`
	Overpayment    int64 `gorm:"not null;default:0" json:"overpayment"`

	Status     FilingStatus                       `gorm:"type:text;not null;default:'computed';index" json:"status"`
	FiledAt    *time.Time                         `gorm:"" json:"filed_at,omitempty"`
	FiledBy    string                             `gorm:"type:text" json:"filed_by,omitempty"`
	PayrollIDs datatypes.JSONSlice[snowflake.ID]  `gorm:"type:jsonb" json:"payroll_ids"`
	ComputedAt time.Time                          `gorm:"not null" json:"computed_at"`

	CreatedAt time.Time `gorm:"not null;default:CURRENT_TIMESTAMP" json:"created_at"`
	UpdatedAt time.Time `gorm:"not null;default:CURRENT_TIMESTAMP" json:"updated_at"`
}

func (Form941Filing) TableName() string { return "form_941_filings" }

// Form940Filing is the annual federal unemployment return.
type Form940Filing struct {
	ID        snowflake.ID `gorm:"primaryKey" json:"id"`
	CompanyID snowflake.ID `gorm:"not null;uniqueIndex:ux_form940_period" json:"company_id"`
	Year      int          `gorm:"not null;uniqueIndex:ux_form940_period" json:"year"`

	CompanyName  string `gorm:"type:text;not null" json:"company_name"`
	EIN          string `gorm:"type:text;not null" json:"ein"`
	AddressLine1 string `gorm:"type:text" json:"address_line1"`
	City         string `gorm:"type:text" json:"city"`
	State        string `gorm:"type:text" json:"state"`
	Zip          string `gorm:"type:text" json:"zip"`

	TotalWages       int64 `gorm:"not null;default:0" json:"total_wages"`
	ExemptWages      int64 `gorm:"not null;default:0" json:"exempt_wages"`
	ExcessWages      int64 `gorm:"not null;default:0" json:"excess_wages"`
	FUTATaxableWages int64 `gorm:"column:futa_taxable_wages;not null;default:0" json:"futa_taxable_wages"`
	FUTALiability    int64 `gorm:"column:futa_liability;not null;default:0" json:"futa_liability"`
	CreditReduction  int64 `gorm:"not null;default:0" json:"credit_reduction"`
	TotalTax         int64 `gorm:"not null;default:0" json:"total_tax"`

	Quarter1Liability int64 `gorm:"not null;default:0" json:"quarter1_liability"`
	Quarter2Liability int64 `gorm:"not null;default:0" json:"quarter2_liability"`
	Quarter3Liability int64 `gorm:"not null;default:0" json:"quarter3_liability"`
	Quarter4Liability int64 `gorm:"not null;default:0" json:"quarter4_liability"`

	// RequiresQuarterlyDeposits is re-derived from the whole year's
	// approved payroll on every recompute, never accumulated.
	RequiresQuarterlyDeposits bool `gorm:"not null;default:false" json:"requires_quarterly_deposits"`

	TotalDeposits int64 `gorm:"not null;default:0" json:"total_deposits"`
	BalanceDue    int64 `gorm:"not null;default:0" json:"balance_due"`
	Overpayment   int64 `gorm:"not null;default:0" json:"overpayment"`

	Status     FilingStatus                      `gorm:"type:text;not null;default:'computed';index" json:"status"`
	FiledAt    *time.Time                        `gorm:"" json:"filed_at,omitempty"`
	FiledBy    string                            `gorm:"type:text" json:"filed_by,omitempty"`
	PayrollIDs datatypes.JSONSlice[snowflake.ID] `gorm:"type:jsonb" json:"payroll_ids"`
	ComputedAt time.Time                         `gorm:"not null" json:"computed_at"`

	CreatedAt time.Time `gorm:"not null;default:CURRENT_TIMESTAMP" json:"created_at"`
	UpdatedAt time.Time `gorm:"not null;default:CURRENT_TIMESTAMP" json:"updated_at"`
}

func (Form940Filing) TableName() string { return "form_940_filings" }

// De9Filing is the California quarterly contribution return.
type De9Filing struct {
	ID        snowflake.ID `gorm:"primaryKey" json:"id"`
	CompanyID snowflake.ID `gorm:"not null;uniqueIndex:ux_de9_period" json:"company_id"`
	Year      int          `gorm:"not null;uniqueIndex:ux_de9_period" json:"year"`
	Quarter   int          `gorm:"not null;uniqueIndex:ux_de9_period" json:"quarter"`

	CompanyName string `gorm:"type:text;not null" json:"company_name"`
	CAEDDNumber string `gorm:"column:ca_edd_number;type:text" json:"ca_edd_number"`

	TotalSubjectWages int64   `gorm:"not null;default:0" json:"total_subject_wages"`
	UITaxableWages    int64   `gorm:"column:ui_taxable_wages;not null;default:0" json:"ui_taxable_wages"`
	UIRate            float64 `gorm:"column:ui_rate;type:numeric(6,4);not null;default:0" json:"ui_rate"`
	UIContributions   int64   `gorm:"column:ui_contributions;not null;default:0" json:"ui_contributions"`
	ETTContributions  int64   `gorm:"column:ett_contributions;not null;default:0" json:"ett_contributions"`
	SDITaxableWages   int64   `gorm:"column:sdi_taxable_wages;not null;default:0" json:"sdi_taxable_wages"`
	SDIWithheld       int64   `gorm:"column:sdi_withheld;not null;default:0" json:"sdi_withheld"`
	PITWithheld       int64   `gorm:"column:pit_withheld;not null;default:0" json:"pit_withheld"`
	Subtotal          int64   `gorm:"not null;default:0" json:"subtotal"`
	TotalDeposits     int64   `gorm:"not null;default:0" json:"total_deposits"`
	BalanceDue        int64   `gorm:"not null;default:0" json:"balance_due"`
	Overpayment       int64   `gorm:"not null;default:0" json:"overpayment"`

	Status     FilingStatus                      `gorm:"type:text;not null;default:'computed';index" json:"status"`
	FiledAt    *time.Time                        `gorm:"" json:"filed_at,omitempty"`
	FiledBy    string                            `gorm:"type:text" json:"filed_by,omitempty"`
	PayrollIDs datatypes.JSONSlice[snowflake.ID] `gorm:"type:jsonb" json:"payroll_ids"`
	ComputedAt time.Time                         `gorm:"not null" json:"computed_at"`

	CreatedAt time.Time `gorm:"not null;default:CURRENT_TIMESTAMP" json:"created_at"`
	UpdatedAt time.Time `gorm:"not null;default:CURRENT_TIMESTAMP" json:"updated_at"`
}

func (De9Filing) TableName() string { return "de9_filings" }

// De9cFiling is the California quarterly wage detail continuation.
// It has no associated payment obligations.
type De9cFiling struct {
	ID        snowflake.ID `gorm:"primaryKey" json:"id"`
	CompanyID snowflake.ID `gorm:"not null;uniqueIndex:ux_de9c_period" json:"company_id"`
	Year      int          `gorm:"not null;uniqueIndex:ux_de9c_period" json:"year"`
	Quarter   int          `gorm:"not null;uniqueIndex:ux_de9c_period" json:"quarter"`

	CompanyName string `gorm:"type:text;not null" json:"company_name"`
	CAEDDNumber string `gorm:"column:ca_edd_number;type:text" json:"ca_edd_number"`

	Month1Employees int `gorm:"not null;default:0" json:"month1_employees"`
	Month2Employees int `gorm:"not null;default:0" json:"month2_employees"`
	Month3Employees int `gorm:"not null;default:0" json:"month3_employees"`

	EmployeeRows datatypes.JSONType[[]EmployeeWageRow] `gorm:"type:jsonb" json:"employee_rows"`

	TotalSubjectWages int64 `gorm:"not null;default:0" json:"total_subject_wages"`
	TotalPITWages     int64 `gorm:"column:total_pit_wages;not null;default:0" json:"total_pit_wages"`
	TotalPITWithheld  int64 `gorm:"column:total_pit_withheld;not null;default:0" json:"total_pit_withheld"`

	Status     FilingStatus                      `gorm:"type:text;not null;default:'computed';index" json:"status"`
	FiledAt    *time.Time                        `gorm:"" json:"filed_at,omitempty"`
	FiledBy    string                            `gorm:"type:text" json:"filed_by,omitempty"`
	PayrollIDs datatypes.JSONSlice[snowflake.ID] `gorm:"type:jsonb" json:"payroll_ids"`
	ComputedAt time.Time                         `gorm:"not null" json:"computed_at"`

	CreatedAt time.Time `gorm:"not null;default:CURRENT_TIMESTAMP" json:"created_at"`
	UpdatedAt time.Time `gorm:"not null;default:CURRENT_TIMESTAMP" json:"updated_at"`
}

func (De9cFiling) TableName() string { return "de9c_filings" }

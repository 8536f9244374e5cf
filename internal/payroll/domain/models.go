// Package domain contains persistence models for pay-period records.
package domain

import (
	"time"

	"github.com/bwmarrin/snowflake"
	"github.com/smallbiznis/taxrail/internal/withholding"
	"gorm.io/datatypes"
)

// ApprovalStatus represents the payroll record lifecycle.
type ApprovalStatus string

const (
	ApprovalStatusPending  ApprovalStatus = "pending"
	ApprovalStatusApproved ApprovalStatus = "approved"
)

// PayrollRecord is an immutable snapshot of one employee's pay period.
// Only approved records feed the tax engine. Money fields are cents.
// Employee identity fields are denormalized so DE-9C rows render without
// joins; the election snapshot is captured at approval time so historical
// recomputation is stable even if the employee later changes elections.
type PayrollRecord struct {
	ID         snowflake.ID `gorm:"primaryKey" json:"id"`
	CompanyID  snowflake.ID `gorm:"not null;index:idx_payroll_company_paydate" json:"company_id"`
	EmployeeID snowflake.ID `gorm:"not null;index" json:"employee_id"`

	EmployeeFirstName string `gorm:"type:text;not null" json:"employee_first_name"`
	EmployeeLastName  string `gorm:"type:text;not null" json:"employee_last_name"`
	EmployeeSSN       string `gorm:"column:employee_ssn;type:text;not null" json:"-"`
	WagePlanCode      string `gorm:"type:text;not null;default:'S'" json:"wage_plan_code"`

	PeriodStart time.Time              `gorm:"not null" json:"period_start"`
	PeriodEnd   time.Time              `gorm:"not null" json:"period_end"`
	PayDate     time.Time              `gorm:"not null;index:idx_payroll_company_paydate" json:"pay_date"`
	PeriodType  withholding.PeriodType `gorm:"type:text;not null" json:"period_type"`

	RegularPay    int64 `gorm:"not null;default:0" json:"regular_pay"`
	OvertimePay   int64 `gorm:"not null;default:0" json:"overtime_pay"`
	BonusPay      int64 `gorm:"not null;default:0" json:"bonus_pay"`
	CommissionPay int64 `gorm:"not null;default:0" json:"commission_pay"`
	GrossPay      int64 `gorm:"not null;default:0" json:"gross_pay"`

	FederalIncomeTax int64 `gorm:"not null;default:0" json:"federal_income_tax"`
	SocialSecurity   int64 `gorm:"not null;default:0" json:"social_security"`
	Medicare         int64 `gorm:"not null;default:0" json:"medicare"`
	CAPIT            int64 `gorm:"column:ca_pit;not null;default:0" json:"ca_pit"`
	CASDI            int64 `gorm:"column:ca_sdi;not null;default:0" json:"ca_sdi"`

	EmployerSocialSecurity int64 `gorm:"not null;default:0" json:"employer_social_security"`
	EmployerMedicare       int64 `gorm:"not null;default:0" json:"employer_medicare"`
	FUTA                   int64 `gorm:"column:futa;not null;default:0" json:"futa"`
	CASUI                  int64 `gorm:"column:ca_sui;not null;default:0" json:"ca_sui"`
	CAETT                  int64 `gorm:"column:ca_ett;not null;default:0" json:"ca_ett"`

	OtherDeductions int64 `gorm:"not null;default:0" json:"other_deductions"`
	NetPay          int64 `gorm:"not null;default:0" json:"net_pay"`

	ApprovalStatus ApprovalStatus `gorm:"type:text;not null;default:'pending';index" json:"approval_status"`
	ApprovedAt     *time.Time     `gorm:"" json:"approved_at,omitempty"`

	Elections datatypes.JSONType[withholding.ElectionSnapshot] `gorm:"type:jsonb" json:"elections"`

	CreatedAt time.Time `gorm:"not null;default:CURRENT_TIMESTAMP" json:"created_at"`
	UpdatedAt time.Time `gorm:"not null;default:CURRENT_TIMESTAMP" json:"updated_at"`
}

func (PayrollRecord) TableName() string { return "payroll_records" }

// EmployeeTaxTotal is the sum withheld from the employee this period.
func (p *PayrollRecord) EmployeeTaxTotal() int64 {
	return p.FederalIncomeTax + p.SocialSecurity + p.Medicare + p.CAPIT + p.CASDI
}

// EmployerTaxTotal is the employer liability on top of gross.
func (p *PayrollRecord) EmployerTaxTotal() int64 {
	return p.EmployerSocialSecurity + p.EmployerMedicare + p.FUTA + p.CASUI + p.CAETT
}

// Federal941Liability is the record's contribution to the quarter's 941
// tax liability: withheld income tax plus both halves of FICA.
func (p *PayrollRecord) Federal941Liability() int64 {
	return p.FederalIncomeTax +
		p.SocialSecurity + p.EmployerSocialSecurity +
		p.Medicare + p.EmployerMedicare
}

// YTDTotals aggregates approved payroll for one employee from the start
// of a year up to a cutoff. The zero value is the valid "no history" case.
type YTDTotals struct {
	Gross            int64 `json:"gross"`
	FederalIncomeTax int64 `json:"federal_income_tax"`
	SocialSecurity   int64 `json:"social_security"`
	Medicare         int64 `json:"medicare"`
	CAPIT            int64 `json:"ca_pit"`
	CASDI            int64 `json:"ca_sdi"`
	EmployerTaxes    int64 `json:"employer_taxes"`
	OtherDeductions  int64 `json:"other_deductions"`
	NetPay           int64 `json:"net_pay"`
}

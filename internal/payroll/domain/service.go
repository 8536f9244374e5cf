package domain

import (
	"context"
	"time"

	"github.com/bwmarrin/snowflake"
	"github.com/smallbiznis/taxrail/internal/withholding"
)

// Service is the payroll entry point of the tax engine: creating pending
// records and approving them, which computes withholding and triggers the
// downstream payment sync and filing recompute.
type Service interface {
	Create(ctx context.Context, req CreateRequest) (*PayrollRecord, error)
	Get(ctx context.Context, companyID, id snowflake.ID) (*PayrollRecord, error)
	Approve(ctx context.Context, req ApproveRequest) (*PayrollRecord, error)
	YTD(ctx context.Context, companyID, employeeID snowflake.ID, cutoff time.Time) (YTDTotals, error)
}

type CreateRequest struct {
	CompanyID  snowflake.ID `json:"company_id"`
	EmployeeID snowflake.ID `json:"employee_id"`

	EmployeeFirstName string `json:"employee_first_name"`
	EmployeeLastName  string `json:"employee_last_name"`
	EmployeeSSN       string `json:"employee_ssn"`
	WagePlanCode      string `json:"wage_plan_code"`

	PeriodStart time.Time              `json:"period_start"`
	PeriodEnd   time.Time              `json:"period_end"`
	PayDate     time.Time              `json:"pay_date"`
	PeriodType  withholding.PeriodType `json:"period_type"`

	RegularPay      int64 `json:"regular_pay"`
	OvertimePay     int64 `json:"overtime_pay"`
	BonusPay        int64 `json:"bonus_pay"`
	CommissionPay   int64 `json:"commission_pay"`
	OtherDeductions int64 `json:"other_deductions"`
}

// ApproveRequest carries the employee's current tax elections, supplied
// by the employee-management collaborator at approval time.
type ApproveRequest struct {
	CompanyID snowflake.ID                 `json:"company_id"`
	PayrollID snowflake.ID                 `json:"payroll_id"`
	Elections withholding.ElectionSnapshot `json:"elections"`
}

package domain

import (
	"context"
	"time"

	"github.com/bwmarrin/snowflake"
)

// Repository reads and writes payroll records. Every query is scoped by
// company in the filter itself, never by client-side post-filtering.
type Repository interface {
	Insert(ctx context.Context, rec *PayrollRecord) error
	FindByID(ctx context.Context, companyID, id snowflake.ID) (*PayrollRecord, error)

	// HasOverlappingPeriod reports whether the employee already has a
	// record whose [PeriodStart, PeriodEnd] range intersects the given one.
	HasOverlappingPeriod(ctx context.Context, companyID, employeeID snowflake.ID, start, end time.Time) (bool, error)

	// ListApprovedByPayDate returns approved records with pay_date in
	// [start, end), ordered by pay_date then id.
	ListApprovedByPayDate(ctx context.Context, companyID snowflake.ID, start, end time.Time) ([]PayrollRecord, error)

	// ListApprovedForEmployeeBefore returns the employee's approved
	// records with pay_date in [Jan 1 of cutoff's year, cutoff).
	ListApprovedForEmployeeBefore(ctx context.Context, companyID, employeeID snowflake.ID, cutoff time.Time) ([]PayrollRecord, error)

	// Approve writes the computed tax fields and flips the record to
	// approved. The status condition lives in the UPDATE itself; a record
	// that is already approved is left untouched and ErrAlreadyApproved
	// is returned.
	Approve(ctx context.Context, rec *PayrollRecord) error
}

package domain

import "errors"

var (
	ErrNotFound        = errors.New("payroll_not_found")
	ErrPeriodOverlap   = errors.New("payroll_period_overlap")
	ErrAlreadyApproved = errors.New("payroll_already_approved")
	ErrInvalidPeriod   = errors.New("invalid_payroll_period")
	ErrInvalidGross    = errors.New("invalid_gross_pay")
)

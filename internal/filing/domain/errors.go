package domain

import "errors"

var (
	ErrNotFound          = errors.New("filing_not_found")
	ErrInvalidFilingType = errors.New("invalid_filing_type")
	ErrInvalidPeriod     = errors.New("invalid_filing_period")
	ErrAlreadyFiled      = errors.New("filing_already_filed")
)

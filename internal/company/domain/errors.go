package domain

import "errors"

var (
	ErrNotFound             = errors.New("company_not_found")
	ErrInvalidCompany       = errors.New("invalid_company")
	ErrInvalidRate          = errors.New("invalid_tax_rate")
	ErrInvalidEffectiveDate = errors.New("invalid_effective_date")
	ErrMissingTaxRates      = errors.New("missing_company_tax_rates")
)

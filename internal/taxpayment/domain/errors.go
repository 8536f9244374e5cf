package domain

import "errors"

var (
	ErrNotFound           = errors.New("tax_payment_not_found")
	ErrInvalidPaymentType = errors.New("invalid_payment_type")
	ErrAlreadyPaid        = errors.New("tax_payment_already_paid")
)

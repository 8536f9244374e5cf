package domain

import (
	"context"
	"time"

	"github.com/bwmarrin/snowflake"
)

type Repository interface {
	Create(ctx context.Context, company *Company) error
	FindByID(ctx context.Context, id snowflake.ID) (*Company, error)
	AddTaxRate(ctx context.Context, rate *CompanyTaxRate) error
	// RateAsOf returns the rate assignment in force for the given date, or
	// nil when the company has no rate configured yet.
	RateAsOf(ctx context.Context, companyID snowflake.ID, asOf time.Time) (*CompanyTaxRate, error)
}

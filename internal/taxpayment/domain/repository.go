package domain

import (
	"context"
	"time"

	"github.com/bwmarrin/snowflake"
)

// Repository persists the four obligation streams. Find methods return
// (nil, nil) when no row exists.
//
// Upsert methods create missing rows and refresh pending ones; a paid
// row is never modified, the refresh is silently skipped. MarkPaid
// methods flip status conditionally and report ErrAlreadyPaid when the
// row was already paid. The settle methods back the filing cascade:
// they flip every still-pending obligation in a set of periods.
type Repository interface {
	FindFederal941(ctx context.Context, companyID snowflake.ID, year, month int) (*Federal941Payment, error)
	FindFederal941ByID(ctx context.Context, companyID, id snowflake.ID) (*Federal941Payment, error)
	ListFederal941ByYear(ctx context.Context, companyID snowflake.ID, year int) ([]Federal941Payment, error)
	UpsertFederal941(ctx context.Context, p *Federal941Payment) error
	MarkFederal941Paid(ctx context.Context, companyID, id snowflake.ID, paidDate time.Time, method, confirmation string) error
	SettleFederal941Months(ctx context.Context, companyID snowflake.ID, year int, months []int, paidDate time.Time) error

	FindFederal940(ctx context.Context, companyID snowflake.ID, year, quarter int) (*Federal940Payment, error)
	FindFederal940ByID(ctx context.Context, companyID, id snowflake.ID) (*Federal940Payment, error)
	ListFederal940ByYear(ctx context.Context, companyID snowflake.ID, year int) ([]Federal940Payment, error)
	UpsertFederal940(ctx context.Context, p *Federal940Payment) error
	MarkFederal940Paid(ctx context.Context, companyID, id snowflake.ID, paidDate time.Time, method, confirmation string) error
	SettleFederal940Year(ctx context.Context, companyID snowflake.ID, year int, paidDate time.Time) error

	FindCAPitSdi(ctx context.Context, companyID snowflake.ID, year, month int) (*CAPitSdiPayment, error)
	FindCAPitSdiByID(ctx context.Context, companyID, id snowflake.ID) (*CAPitSdiPayment, error)
	ListCAPitSdiByYear(ctx context.Context, companyID snowflake.ID, year int) ([]CAPitSdiPayment, error)
	UpsertCAPitSdi(ctx context.Context, p *CAPitSdiPayment) error
	MarkCAPitSdiPaid(ctx context.Context, companyID, id snowflake.ID, paidDate time.Time, method, confirmation string) error
	SettleCAPitSdiMonths(ctx context.Context, companyID snowflake.ID, year int, months []int, paidDate time.Time) error

	FindCASuiEtt(ctx context.Context, companyID snowflake.ID, year, quarter int) (*CASuiEttPayment, error)
	FindCASuiEttByID(ctx context.Context, companyID, id snowflake.ID) (*CASuiEttPayment, error)
	ListCASuiEttByYear(ctx context.Context, companyID snowflake.ID, year int) ([]CASuiEttPayment, error)
	UpsertCASuiEtt(ctx context.Context, p *CASuiEttPayment) error
	MarkCASuiEttPaid(ctx context.Context, companyID, id snowflake.ID, paidDate time.Time, method, confirmation string) error
	SettleCASuiEttQuarter(ctx context.Context, companyID snowflake.ID, year, quarter int, paidDate time.Time) error
}

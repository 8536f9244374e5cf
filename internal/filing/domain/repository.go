package domain

import (
	"context"
	"time"

	"github.com/bwmarrin/snowflake"
)

// Repository persists the four filing types. Find methods return
// (nil, nil) when no row exists for the period.
//
// Upsert methods write every computed line but never touch the
// status/filed_at/filed_by columns, so refreshing a filed return
// cannot un-file it. MarkFiled methods flip status conditionally and
// report ErrAlreadyFiled when the row was already filed.
type Repository interface {
	FindForm941(ctx context.Context, companyID snowflake.ID, year, quarter int) (*Form941Filing, error)
	FindForm941ByID(ctx context.Context, companyID, id snowflake.ID) (*Form941Filing, error)
	ListForm941ByYear(ctx context.Context, companyID snowflake.ID, year int) ([]Form941Filing, error)
	UpsertForm941(ctx context.Context, f *Form941Filing) error
	MarkForm941Filed(ctx context.Context, companyID, id snowflake.ID, filedAt time.Time, filedBy string) error

	FindForm940(ctx context.Context, companyID snowflake.ID, year int) (*Form940Filing, error)
	FindForm940ByID(ctx context.Context, companyID, id snowflake.ID) (*Form940Filing, error)
	UpsertForm940(ctx context.Context, f *Form940Filing) error
	MarkForm940Filed(ctx context.Context, companyID, id snowflake.ID, filedAt time.Time, filedBy string) error

	FindDe9(ctx context.Context, companyID snowflake.ID, year, quarter int) (*De9Filing, error)
	FindDe9ByID(ctx context.Context, companyID, id snowflake.ID) (*De9Filing, error)
	ListDe9ByYear(ctx context.Context, companyID snowflake.ID, year int) ([]De9Filing, error)
	UpsertDe9(ctx context.Context, f *De9Filing) error
	MarkDe9Filed(ctx context.Context, companyID, id snowflake.ID, filedAt time.Time, filedBy string) error

	FindDe9c(ctx context.Context, companyID snowflake.ID, year, quarter int) (*De9cFiling, error)
	FindDe9cByID(ctx context.Context, companyID, id snowflake.ID) (*De9cFiling, error)
	ListDe9cByYear(ctx context.Context, companyID snowflake.ID, year int) ([]De9cFiling, error)
	UpsertDe9c(ctx context.Context, f *De9cFiling) error
	MarkDe9cFiled(ctx context.Context, companyID, id snowflake.ID, filedAt time.Time, filedBy string) error
}

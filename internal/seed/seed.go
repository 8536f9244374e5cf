package seed

import (
	"context"
	"errors"
	"time"

	"github.com/bwmarrin/snowflake"
	companydomain "github.com/smallbiznis/taxrail/internal/company/domain"
	"github.com/smallbiznis/taxrail/internal/config"
	"go.uber.org/fx"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

const (
	defaultCompanyName = "Demo Payroll Co"
	defaultCompanyEIN  = "12-3456789"
	defaultEDDNumber   = "123-4567-8"
	defaultUIRate      = 0.034
)

// EnsureDemoCompany seeds a demo employer with a current CA rate
// assignment so a fresh dev database can run payroll immediately.
func EnsureDemoCompany(db *gorm.DB, node *snowflake.Node) error {
	if db == nil {
		return errors.New("seed database handle is required")
	}

	ctx := context.Background()
	return db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		company, err := ensureCompanyTx(ctx, tx, node)
		if err != nil {
			return err
		}
		return ensureTaxRateTx(ctx, tx, node, company.ID)
	})
}

func ensureCompanyTx(ctx context.Context, tx *gorm.DB, node *snowflake.Node) (companydomain.Company, error) {
	var company companydomain.Company
	err := tx.WithContext(ctx).Where("ein = ?", defaultCompanyEIN).First(&company).Error
	if err == nil {
		return company, nil
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		return company, err
	}
	now := time.Now().UTC()
	company = companydomain.Company{
		ID:           node.Generate(),
		Name:         defaultCompanyName,
		EIN:          defaultCompanyEIN,
		CAEDDNumber:  defaultEDDNumber,
		AddressLine1: "100 Market St",
		City:         "San Francisco",
		State:        "CA",
		Zip:          "94105",
		CreatedAt:    now,
		UpdatedAt:    now,
	}
	if err := tx.WithContext(ctx).Create(&company).Error; err != nil {
		return company, err
	}
	return company, nil
}

func ensureTaxRateTx(ctx context.Context, tx *gorm.DB, node *snowflake.Node, companyID snowflake.ID) error {
	var rate companydomain.CompanyTaxRate
	err := tx.WithContext(ctx).Where("company_id = ?", companyID).First(&rate).Error
	if err == nil {
		return nil
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		return err
	}
	now := time.Now().UTC()
	rate = companydomain.CompanyTaxRate{
		ID:            node.Generate(),
		CompanyID:     companyID,
		UIRate:        defaultUIRate,
		ETTSubject:    true,
		EffectiveFrom: time.Date(now.Year(), time.January, 1, 0, 0, 0, 0, time.UTC),
		CreatedAt:     now,
	}
	return tx.WithContext(ctx).Create(&rate).Error
}

// Module seeds the demo employer on startup outside production.
var Module = fx.Module("seed",
	fx.Invoke(func(cfg config.Config, db *gorm.DB, node *snowflake.Node, log *zap.Logger) error {
		if cfg.IsProduction() {
			return nil
		}
		if err := EnsureDemoCompany(db, node); err != nil {
			return err
		}
		log.Info("seeded demo company", zap.String("ein", defaultCompanyEIN))
		return nil
	}),
)

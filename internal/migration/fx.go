package migration

import (
	companydomain "github.com/smallbiznis/taxrail/internal/company/domain"
	"github.com/smallbiznis/taxrail/internal/config"
	filingdomain "github.com/smallbiznis/taxrail/internal/filing/domain"
	payrolldomain "github.com/smallbiznis/taxrail/internal/payroll/domain"
	taxpaymentdomain "github.com/smallbiznis/taxrail/internal/taxpayment/domain"
	"go.uber.org/fx"
	"gorm.io/gorm"
)

var Module = fx.Module("migrations",
	fx.Invoke(func(conn *gorm.DB, cfg config.Config) error {
		if cfg.DBType != "postgres" {
			// Non-postgres deployments (sqlite dev mode) fall back to
			// schema sync; the SQL migrations are postgres-dialect.
			return conn.AutoMigrate(
				&companydomain.Company{},
				&companydomain.CompanyTaxRate{},
				&payrolldomain.PayrollRecord{},
				&taxpaymentdomain.Federal941Payment{},
				&taxpaymentdomain.Federal940Payment{},
				&taxpaymentdomain.CAPitSdiPayment{},
				&taxpaymentdomain.CASuiEttPayment{},
				&filingdomain.Form941Filing{},
				&filingdomain.Form940Filing{},
				&filingdomain.De9Filing{},
				&filingdomain.De9cFiling{},
			)
		}

		sqlDB, err := conn.DB()
		if err != nil {
			return err
		}
		return RunMigrations(sqlDB)
	}),
)

package repository

import (
	"context"
	"time"

	"github.com/bwmarrin/snowflake"
	"github.com/smallbiznis/taxrail/internal/filing/domain"
	"gorm.io/gorm"
)

type repository struct {
	db *gorm.DB
}

func NewRepository(db *gorm.DB) domain.Repository {
	return &repository{db: db}
}

func (r *repository) FindForm941(ctx context.Context, companyID snowflake.ID, year, quarter int) (*domain.Form941Filing, error) {
	var f domain.Form941Filing
	err := r.db.WithContext(ctx).
		Where("company_id = ? AND year = ? AND quarter = ?", companyID, year, quarter).
		Limit(1).
		Find(&f).Error
	if err != nil {
		return nil, err
	}
	if f.ID == 0 {
		return nil, nil
	}
	return &f, nil
}

func (r *repository) FindForm941ByID(ctx context.Context, companyID, id snowflake.ID) (*domain.Form941Filing, error) {
	var f domain.Form941Filing
	err := r.db.WithContext(ctx).
		Where("company_id = ? AND id = ?", companyID, id).
		Limit(1).
		Find(&f).Error
	if err != nil {
		return nil, err
	}
	if f.ID == 0 {
		return nil, nil
	}
	return &f, nil
}

func (r *repository) ListForm941ByYear(ctx context.Context, companyID snowflake.ID, year int) ([]domain.Form941Filing, error) {
	var fs []domain.Form941Filing
	err := r.db.WithContext(ctx).
		Where("company_id = ? AND year = ?", companyID, year).
		Order("quarter ASC").
		Find(&fs).Error
	if err != nil {
		return nil, err
	}
	return fs, nil
}

// UpsertForm941 writes every computed line. The update deliberately
// never names status, filed_at or filed_by, so refreshing a filed
// return leaves the filed markers untouched.
func (r *repository) UpsertForm941(ctx context.Context, f *domain.Form941Filing) error {
	existing, err := r.FindForm941(ctx, f.CompanyID, f.Year, f.Quarter)
	if err != nil {
		return err
	}
	if existing == nil {
		return r.db.WithContext(ctx).Create(f).Error
	}
	f.ID = existing.ID
	f.Status = existing.Status
	f.FiledAt = existing.FiledAt
	f.FiledBy = existing.FiledBy
	return r.db.WithContext(ctx).
		Model(&domain.Form941Filing{}).
		Where("id = ?", existing.ID).
		Updates(map[string]interface{}{
			"company_name":                f.CompanyName,
			"ein":                         f.EIN,
			"address_line1":               f.AddressLine1,
			"city":                        f.City,
			"state":                       f.State,
			"zip":                         f.Zip,
			"num_employees":               f.NumEmployees,
			"total_wages":                 f.TotalWages,
			"federal_income_tax_withheld": f.FederalIncomeTaxWithheld,
			"social_security_wages":       f.SocialSecurityWages,
			"social_security_tax":         f.SocialSecurityTax,
			"medicare_wages":              f.MedicareWages,
			"medicare_tax":                f.MedicareTax,
			"additional_medicare_wages":   f.AdditionalMedicareWages,
			"additional_medicare_tax":     f.AdditionalMedicareTax,
			"fractions_of_cents":          f.FractionsOfCents,
			"total_tax":                   f.TotalTax,
			"deposit_schedule":            f.DepositSchedule,
			"month1_liability":            f.Month1Liability,
			"month2_liability":            f.Month2Liability,
			"month3_liability":            f.Month3Liability,
			"semiweekly_schedule":         f.SemiweeklySchedule,
			"month1_deposits":             f.Month1Deposits,
			"month2_deposits":             f.Month2Deposits,
			"month3_deposits":             f.Month3Deposits,
			"total_deposits":              f.TotalDeposits,
			"balance_due":                 f.BalanceDue,
			"overpayment":                 f.Overpayment,
			"payroll_ids":                 f.PayrollIDs,
			"computed_at":                 f.ComputedAt,
			"updated_at":                  time.Now().UTC(),
		}).Error
}

func (r *repository) MarkForm941Filed(ctx context.Context, companyID, id snowflake.ID, filedAt time.Time, filedBy string) error {
	return r.markFiled(ctx, &domain.Form941Filing{}, companyID, id, filedAt, filedBy)
}

func (r *repository) FindForm940(ctx context.Context, companyID snowflake.ID, year int) (*domain.Form940Filing, error) {
	var f domain.Form940Filing
	err := r.db.WithContext(ctx).
		Where("company_id = ? AND year = ?", companyID, year).
		Limit(1).
		Find(&f).Error
	if err != nil {
		return nil, err
	}
	if f.ID == 0 {
		return nil, nil
	}
	return &f, nil
}

func (r *repository) FindForm940ByID(ctx context.Context, companyID, id snowflake.ID) (*domain.Form940Filing, error) {
	var f domain.Form940Filing
	err := r.db.WithContext(ctx).
		Where("company_id = ? AND id = ?", companyID, id).
		Limit(1).
		Find(&f).Error
	if err != nil {
		return nil, err
	}
	if f.ID == 0 {
		return nil, nil
	}
	return &f, nil
}

func (r *repository) UpsertForm940(ctx context.Context, f *domain.Form940Filing) error {
	existing, err := r.FindForm940(ctx, f.CompanyID, f.Year)
	if err != nil {
		return err
	}
	if existing == nil {
		return r.db.WithContext(ctx).Create(f).Error
	}
	f.ID = existing.ID
	f.Status = existing.Status
	f.FiledAt = existing.FiledAt
	f.FiledBy = existing.FiledBy
	return r.db.WithContext(ctx).
		Model(&domain.Form940Filing{}).
		Where("id = ?", existing.ID).
		Updates(map[string]interface{}{
			"company_name":                f.CompanyName,
			"ein":                         f.EIN,
			"address_line1":               f.AddressLine1,
			"city":                        f.City,
			"state":                       f.State,
			"zip":                         f.Zip,
			"total_wages":                 f.TotalWages,
			"exempt_wages":                f.ExemptWages,
			"excess_wages":                f.ExcessWages,
			"futa_taxable_wages":          f.FUTATaxableWages,
			"futa_liability":              f.FUTALiability,
			"credit_reduction":            f.CreditReduction,
			"total_tax":                   f.TotalTax,
			"quarter1_liability":          f.Quarter1Liability,
			"quarter2_liability":          f.Quarter2Liability,
			"quarter3_liability":          f.Quarter3Liability,
			"quarter4_liability":          f.Quarter4Liability,
			"requires_quarterly_deposits": f.RequiresQuarterlyDeposits,
			"total_deposits":              f.TotalDeposits,
			"balance_due":                 f.BalanceDue,
			"overpayment":                 f.Overpayment,
			"payroll_ids":                 f.PayrollIDs,
			"computed_at":                 f.ComputedAt,
			"updated_at":                  time.Now().UTC(),
		}).Error
}

func (r *repository) MarkForm940Filed(ctx context.Context, companyID, id snowflake.ID, filedAt time.Time, filedBy string) error {
	return r.markFiled(ctx, &domain.Form940Filing{}, companyID, id, filedAt, filedBy)
}

func (r *repository) FindDe9(ctx context.Context, companyID snowflake.ID, year, quarter int) (*domain.De9Filing, error) {
	var f domain.De9Filing
	err := r.db.WithContext(ctx).
		Where("company_id = ? AND year = ? AND quarter = ?", companyID, year, quarter).
		Limit(1).
		Find(&f).Error
	if err != nil {
		return nil, err
	}
	if f.ID == 0 {
		return nil, nil
	}
	return &f, nil
}

func (r *repository) FindDe9ByID(ctx context.Context, companyID, id snowflake.ID) (*domain.De9Filing, error) {
	var f domain.De9Filing
	err := r.db.WithContext(ctx).
		Where("company_id = ? AND id = ?", companyID, id).
		Limit(1).
		Find(&f).Error
	if err != nil {
		return nil, err
	}
	if f.ID == 0 {
		return nil, nil
	}
	return &f, nil
}

func (r *repository) ListDe9ByYear(ctx context.Context, companyID snowflake.ID, year int) ([]domain.De9Filing, error) {
	var fs []domain.De9Filing
	err := r.db.WithContext(ctx).
		Where("company_id = ? AND year = ?", companyID, year).
		Order("quarter ASC").
		Find(&fs).Error
	if err != nil {
		return nil, err
	}
	return fs, nil
}

func (r *repository) UpsertDe9(ctx context.Context, f *domain.De9Filing) error {
	existing, err := r.FindDe9(ctx, f.CompanyID, f.Year, f.Quarter)
	if err != nil {
		return err
	}
	if existing == nil {
		return r.db.WithContext(ctx).Create(f).Error
	}
	f.ID = existing.ID
	f.Status = existing.Status
	f.FiledAt = existing.FiledAt
	f.FiledBy = existing.FiledBy
	return r.db.WithContext(ctx).
		Model(&domain.De9Filing{}).
		Where("id = ?", existing.ID).
		Updates(map[string]interface{}{
			"company_name":        f.CompanyName,
			"ca_edd_number":       f.CAEDDNumber,
			"total_subject_wages": f.TotalSubjectWages,
			"ui_taxable_wages":    f.UITaxableWages,
			"ui_rate":             f.UIRate,
			"ui_contributions":    f.UIContributions,
			"ett_contributions":   f.ETTContributions,
			"sdi_taxable_wages":   f.SDITaxableWages,
			"sdi_withheld":        f.SDIWithheld,
			"pit_withheld":        f.PITWithheld,
			"subtotal":            f.Subtotal,
			"total_deposits":      f.TotalDeposits,
			"balance_due":         f.BalanceDue,
			"overpayment":         f.Overpayment,
			"payroll_ids":         f.PayrollIDs,
			"computed_at":         f.ComputedAt,
			"updated_at":          time.Now().UTC(),
		}).Error
}

func (r *repository) MarkDe9Filed(ctx context.Context, companyID, id snowflake.ID, filedAt time.Time, filedBy string) error {
	return r.markFiled(ctx, &domain.De9Filing{}, companyID, id, filedAt, filedBy)
}

func (r *repository) FindDe9c(ctx context.Context, companyID snowflake.ID, year, quarter int) (*domain.De9cFiling, error) {
	var f domain.De9cFiling
	err := r.db.WithContext(ctx).
		Where("company_id = ? AND year = ? AND quarter = ?", companyID, year, quarter).
		Limit(1).
		Find(&f).Error
	if err != nil {
		return nil, err
	}
	if f.ID == 0 {
		return nil, nil
	}
	return &f, nil
}

func (r *repository) FindDe9cByID(ctx context.Context, companyID, id snowflake.ID) (*domain.De9cFiling, error) {
	var f domain.De9cFiling
	err := r.db.WithContext(ctx).
		Where("company_id = ? AND id = ?", companyID, id).
		Limit(1).
		Find(&f).Error
	if err != nil {
		return nil, err
	}
	if f.ID == 0 {
		return nil, nil
	}
	return &f, nil
}

func (r *repository) ListDe9cByYear(ctx context.Context, companyID snowflake.ID, year int) ([]domain.De9cFiling, error) {
	var fs []domain.De9cFiling
	err := r.db.WithContext(ctx).
		Where("company_id = ? AND year = ?", companyID, year).
		Order("quarter ASC").
		Find(&fs).Error
	if err != nil {
		return nil, err
	}
	return fs, nil
}

func (r *repository) UpsertDe9c(ctx context.Context, f *domain.De9cFiling) error {
	existing, err := r.FindDe9c(ctx, f.CompanyID, f.Year, f.Quarter)
	if err != nil {
		return err
	}
	if existing == nil {
		return r.db.WithContext(ctx).Create(f).Error
	}
	f.ID = existing.ID
	f.Status = existing.Status
	f.FiledAt = existing.FiledAt
	f.FiledBy = existing.FiledBy
	return r.db.WithContext(ctx).
		Model(&domain.De9cFiling{}).
		Where("id = ?", existing.ID).
		Updates(map[string]interface{}{
			"company_name":        f.CompanyName,
			"ca_edd_number":       f.CAEDDNumber,
			"month1_employees":    f.Month1Employees,
			"month2_employees":    f.Month2Employees,
			"month3_employees":    f.Month3Employees,
			"employee_rows":       f.EmployeeRows,
			"total_subject_wages": f.TotalSubjectWages,
			"total_pit_wages":     f.TotalPITWages,
			"total_pit_withheld":  f.TotalPITWithheld,
			"payroll_ids":         f.PayrollIDs,
			"computed_at":         f.ComputedAt,
			"updated_at":          time.Now().UTC(),
		}).Error
}

func (r *repository) MarkDe9cFiled(ctx context.Context, companyID, id snowflake.ID, filedAt time.Time, filedBy string) error {
	return r.markFiled(ctx, &domain.De9cFiling{}, companyID, id, filedAt, filedBy)
}

// markFiled flips one computed filing to filed. The status condition is
// part of the UPDATE itself so two concurrent mark-filed calls cannot
// both win.
func (r *repository) markFiled(ctx context.Context, model interface{}, companyID, id snowflake.ID, filedAt time.Time, filedBy string) error {
	result := r.db.WithContext(ctx).
		Model(model).
		Where("company_id = ? AND id = ? AND status = ?", companyID, id, domain.FilingStatusComputed).
		Updates(map[string]interface{}{
			"status":     domain.FilingStatusFiled,
			"filed_at":   filedAt.UTC(),
			"filed_by":   filedBy,
			"updated_at": time.Now().UTC(),
		})
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return domain.ErrAlreadyFiled
	}
	return nil
}

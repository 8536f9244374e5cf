package repository

import (
	"context"
	"time"

	"github.com/bwmarrin/snowflake"
	"github.com/smallbiznis/taxrail/internal/payroll/domain"
	"gorm.io/gorm"
)

type repository struct {
	db *gorm.DB
}

func NewRepository(db *gorm.DB) domain.Repository {
	return &repository{db: db}
}

func (r *repository) Insert(ctx context.Context, rec *domain.PayrollRecord) error {
	return r.db.WithContext(ctx).Create(rec).Error
}

func (r *repository) FindByID(ctx context.Context, companyID, id snowflake.ID) (*domain.PayrollRecord, error) {
	var rec domain.PayrollRecord
	err := r.db.WithContext(ctx).
		Where("company_id = ? AND id = ?", companyID, id).
		Limit(1).
		Find(&rec).Error
	if err != nil {
		return nil, err
	}
	if rec.ID == 0 {
		return nil, nil
	}
	return &rec, nil
}

func (r *repository) HasOverlappingPeriod(ctx context.Context, companyID, employeeID snowflake.ID, start, end time.Time) (bool, error) {
	var count int64
	err := r.db.WithContext(ctx).
		Model(&domain.PayrollRecord{}).
		Where("company_id = ? AND employee_id = ?", companyID, employeeID).
		Where("period_start <= ? AND period_end >= ?", end.UTC(), start.UTC()).
		Count(&count).Error
	if err != nil {
		return false, err
	}
	return count > 0, nil
}

func (r *repository) ListApprovedByPayDate(ctx context.Context, companyID snowflake.ID, start, end time.Time) ([]domain.PayrollRecord, error) {
	var recs []domain.PayrollRecord
	err := r.db.WithContext(ctx).
		Where("company_id = ? AND approval_status = ?", companyID, domain.ApprovalStatusApproved).
		Where("pay_date >= ? AND pay_date < ?", start.UTC(), end.UTC()).
		Order("pay_date ASC, id ASC").
		Find(&recs).Error
	if err != nil {
		return nil, err
	}
	return recs, nil
}

func (r *repository) ListApprovedForEmployeeBefore(ctx context.Context, companyID, employeeID snowflake.ID, cutoff time.Time) ([]domain.PayrollRecord, error) {
	yearStart := time.Date(cutoff.UTC().Year(), time.January, 1, 0, 0, 0, 0, time.UTC)

	var recs []domain.PayrollRecord
	err := r.db.WithContext(ctx).
		Where("company_id = ? AND employee_id = ? AND approval_status = ?", companyID, employeeID, domain.ApprovalStatusApproved).
		Where("pay_date >= ? AND pay_date < ?", yearStart, cutoff.UTC()).
		Order("pay_date ASC, id ASC").
		Find(&recs).Error
	if err != nil {
		return nil, err
	}
	return recs, nil
}

func (r *repository) Approve(ctx context.Context, rec *domain.PayrollRecord) error {
	// The pending-status condition is part of the UPDATE itself so two
	// concurrent approvals cannot both win.
	result := r.db.WithContext(ctx).
		Model(&domain.PayrollRecord{}).
		Where("company_id = ? AND id = ? AND approval_status = ?", rec.CompanyID, rec.ID, domain.ApprovalStatusPending).
		Updates(map[string]interface{}{
			"federal_income_tax":       rec.FederalIncomeTax,
			"social_security":          rec.SocialSecurity,
			"medicare":                 rec.Medicare,
			"ca_pit":                   rec.CAPIT,
			"ca_sdi":                   rec.CASDI,
			"employer_social_security": rec.EmployerSocialSecurity,
			"employer_medicare":        rec.EmployerMedicare,
			"futa":                     rec.FUTA,
			"ca_sui":                   rec.CASUI,
			"ca_ett":                   rec.CAETT,
			"net_pay":                  rec.NetPay,
			"approval_status":          domain.ApprovalStatusApproved,
			"approved_at":              rec.ApprovedAt,
			"elections":                rec.Elections,
			"updated_at":               time.Now().UTC(),
		})
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return domain.ErrAlreadyApproved
	}
	return nil
}

package repository

import (
	"context"
	"time"

	"github.com/bwmarrin/snowflake"
	"github.com/smallbiznis/taxrail/internal/taxpayment/domain"
	"gorm.io/gorm"
)

type repository struct {
	db *gorm.DB
}

func NewRepository(db *gorm.DB) domain.Repository {
	return &repository{db: db}
}

func (r *repository) FindFederal941(ctx context.Context, companyID snowflake.ID, year, month int) (*domain.Federal941Payment, error) {
	var p domain.Federal941Payment
	err := r.db.WithContext(ctx).
		Where("company_id = ? AND year = ? AND month = ?", companyID, year, month).
		Limit(1).
		Find(&p).Error
	if err != nil {
		return nil, err
	}
	if p.ID == 0 {
		return nil, nil
	}
	return &p, nil
}

func (r *repository) FindFederal941ByID(ctx context.Context, companyID, id snowflake.ID) (*domain.Federal941Payment, error) {
	var p domain.Federal941Payment
	err := r.db.WithContext(ctx).
		Where("company_id = ? AND id = ?", companyID, id).
		Limit(1).
		Find(&p).Error
	if err != nil {
		return nil, err
	}
	if p.ID == 0 {
		return nil, nil
	}
	return &p, nil
}

func (r *repository) ListFederal941ByYear(ctx context.Context, companyID snowflake.ID, year int) ([]domain.Federal941Payment, error) {
	var ps []domain.Federal941Payment
	err := r.db.WithContext(ctx).
		Where("company_id = ? AND year = ?", companyID, year).
		Order("month ASC").
		Find(&ps).Error
	if err != nil {
		return nil, err
	}
	return ps, nil
}

// UpsertFederal941 creates or refreshes the month's obligation. The
// amount write carries the pending-status condition in the UPDATE itself
// so a concurrently paid row keeps its financial fields; bookkeeping
// fields (contributing payrolls, due date) refresh regardless of status.
func (r *repository) UpsertFederal941(ctx context.Context, p *domain.Federal941Payment) error {
	existing, err := r.FindFederal941(ctx, p.CompanyID, p.Year, p.Month)
	if err != nil {
		return err
	}
	if existing == nil {
		return r.db.WithContext(ctx).Create(p).Error
	}
	p.ID = existing.ID
	err = r.db.WithContext(ctx).
		Model(&domain.Federal941Payment{}).
		Where("id = ? AND status = ?", existing.ID, domain.PaymentStatusPending).
		Updates(map[string]interface{}{
			"amount":     p.Amount,
			"updated_at": time.Now().UTC(),
		}).Error
	if err != nil {
		return err
	}
	return r.db.WithContext(ctx).
		Model(&domain.Federal941Payment{}).
		Where("id = ?", existing.ID).
		Updates(map[string]interface{}{
			"due_date":    p.DueDate,
			"payroll_ids": p.PayrollIDs,
			"updated_at":  time.Now().UTC(),
		}).Error
}

func (r *repository) MarkFederal941Paid(ctx context.Context, companyID, id snowflake.ID, paidDate time.Time, method, confirmation string) error {
	return r.markPaid(ctx, &domain.Federal941Payment{}, companyID, id, paidDate, method, confirmation)
}

func (r *repository) SettleFederal941Months(ctx context.Context, companyID snowflake.ID, year int, months []int, paidDate time.Time) error {
	return r.db.WithContext(ctx).
		Model(&domain.Federal941Payment{}).
		Where("company_id = ? AND year = ? AND month IN ? AND status = ?", companyID, year, months, domain.PaymentStatusPending).
		Updates(map[string]interface{}{
			"status":     domain.PaymentStatusPaid,
			"paid_date":  paidDate.UTC(),
			"updated_at": time.Now().UTC(),
		}).Error
}

func (r *repository) FindFederal940(ctx context.Context, companyID snowflake.ID, year, quarter int) (*domain.Federal940Payment, error) {
	var p domain.Federal940Payment
	err := r.db.WithContext(ctx).
		Where("company_id = ? AND year = ? AND quarter = ?", companyID, year, quarter).
		Limit(1).
		Find(&p).Error
	if err != nil {
		return nil, err
	}
	if p.ID == 0 {
		return nil, nil
	}
	return &p, nil
}

func (r *repository) FindFederal940ByID(ctx context.Context, companyID, id snowflake.ID) (*domain.Federal940Payment, error) {
	var p domain.Federal940Payment
	err := r.db.WithContext(ctx).
		Where("company_id = ? AND id = ?", companyID, id).
		Limit(1).
		Find(&p).Error
	if err != nil {
		return nil, err
	}
	if p.ID == 0 {
		return nil, nil
	}
	return &p, nil
}

func (r *repository) ListFederal940ByYear(ctx context.Context, companyID snowflake.ID, year int) ([]domain.Federal940Payment, error) {
	var ps []domain.Federal940Payment
	err := r.db.WithContext(ctx).
		Where("company_id = ? AND year = ?", companyID, year).
		Order("quarter ASC").
		Find(&ps).Error
	if err != nil {
		return nil, err
	}
	return ps, nil
}

func (r *repository) UpsertFederal940(ctx context.Context, p *domain.Federal940Payment) error {
	existing, err := r.FindFederal940(ctx, p.CompanyID, p.Year, p.Quarter)
	if err != nil {
		return err
	}
	if existing == nil {
		return r.db.WithContext(ctx).Create(p).Error
	}
	p.ID = existing.ID
	err = r.db.WithContext(ctx).
		Model(&domain.Federal940Payment{}).
		Where("id = ? AND status = ?", existing.ID, domain.PaymentStatusPending).
		Updates(map[string]interface{}{
			"amount":                     p.Amount,
			"requires_immediate_payment": p.RequiresImmediatePayment,
			"updated_at":                 time.Now().UTC(),
		}).Error
	if err != nil {
		return err
	}
	return r.db.WithContext(ctx).
		Model(&domain.Federal940Payment{}).
		Where("id = ?", existing.ID).
		Updates(map[string]interface{}{
			"due_date":    p.DueDate,
			"payroll_ids": p.PayrollIDs,
			"updated_at":  time.Now().UTC(),
		}).Error
}

func (r *repository) MarkFederal940Paid(ctx context.Context, companyID, id snowflake.ID, paidDate time.Time, method, confirmation string) error {
	return r.markPaid(ctx, &domain.Federal940Payment{}, companyID, id, paidDate, method, confirmation)
}

func (r *repository) SettleFederal940Year(ctx context.Context, companyID snowflake.ID, year int, paidDate time.Time) error {
	return r.db.WithContext(ctx).
		Model(&domain.Federal940Payment{}).
		Where("company_id = ? AND year = ? AND status = ?", companyID, year, domain.PaymentStatusPending).
		Updates(map[string]interface{}{
			"status":     domain.PaymentStatusPaid,
			"paid_date":  paidDate.UTC(),
			"updated_at": time.Now().UTC(),
		}).Error
}

func (r *repository) FindCAPitSdi(ctx context.Context, companyID snowflake.ID, year, month int) (*domain.CAPitSdiPayment, error) {
	var p domain.CAPitSdiPayment
	err := r.db.WithContext(ctx).
		Where("company_id = ? AND year = ? AND month = ?", companyID, year, month).
		Limit(1).
		Find(&p).Error
	if err != nil {
		return nil, err
	}
	if p.ID == 0 {
		return nil, nil
	}
	return &p, nil
}

func (r *repository) FindCAPitSdiByID(ctx context.Context, companyID, id snowflake.ID) (*domain.CAPitSdiPayment, error) {
	var p domain.CAPitSdiPayment
	err := r.db.WithContext(ctx).
		Where("company_id = ? AND id = ?", companyID, id).
		Limit(1).
		Find(&p).Error
	if err != nil {
		return nil, err
	}
	if p.ID == 0 {
		return nil, nil
	}
	return &p, nil
}

func (r *repository) ListCAPitSdiByYear(ctx context.Context, companyID snowflake.ID, year int) ([]domain.CAPitSdiPayment, error) {
	var ps []domain.CAPitSdiPayment
	err := r.db.WithContext(ctx).
		Where("company_id = ? AND year = ?", companyID, year).
		Order("month ASC").
		Find(&ps).Error
	if err != nil {
		return nil, err
	}
	return ps, nil
}

func (r *repository) UpsertCAPitSdi(ctx context.Context, p *domain.CAPitSdiPayment) error {
	existing, err := r.FindCAPitSdi(ctx, p.CompanyID, p.Year, p.Month)
	if err != nil {
		return err
	}
	if existing == nil {
		return r.db.WithContext(ctx).Create(p).Error
	}
	p.ID = existing.ID
	err = r.db.WithContext(ctx).
		Model(&domain.CAPitSdiPayment{}).
		Where("id = ? AND status = ?", existing.ID, domain.PaymentStatusPending).
		Updates(map[string]interface{}{
			"pit_amount": p.PITAmount,
			"sdi_amount": p.SDIAmount,
			"amount":     p.Amount,
			"updated_at": time.Now().UTC(),
		}).Error
	if err != nil {
		return err
	}
	return r.db.WithContext(ctx).
		Model(&domain.CAPitSdiPayment{}).
		Where("id = ?", existing.ID).
		Updates(map[string]interface{}{
			"due_date":    p.DueDate,
			"payroll_ids": p.PayrollIDs,
			"updated_at":  time.Now().UTC(),
		}).Error
}

func (r *repository) MarkCAPitSdiPaid(ctx context.Context, companyID, id snowflake.ID, paidDate time.Time, method, confirmation string) error {
	return r.markPaid(ctx, &domain.CAPitSdiPayment{}, companyID, id, paidDate, method, confirmation)
}

func (r *repository) SettleCAPitSdiMonths(ctx context.Context, companyID snowflake.ID, year int, months []int, paidDate time.Time) error {
	return r.db.WithContext(ctx).
		Model(&domain.CAPitSdiPayment{}).
		Where("company_id = ? AND year = ? AND month IN ? AND status = ?", companyID, year, months, domain.PaymentStatusPending).
		Updates(map[string]interface{}{
			"status":     domain.PaymentStatusPaid,
			"paid_date":  paidDate.UTC(),
			"updated_at": time.Now().UTC(),
		}).Error
}

func (r *repository) FindCASuiEtt(ctx context.Context, companyID snowflake.ID, year, quarter int) (*domain.CASuiEttPayment, error) {
	var p domain.CASuiEttPayment
	err := r.db.WithContext(ctx).
		Where("company_id = ? AND year = ? AND quarter = ?", companyID, year, quarter).
		Limit(1).
		Find(&p).Error
	if err != nil {
		return nil, err
	}
	if p.ID == 0 {
		return nil, nil
	}
	return &p, nil
}

func (r *repository) FindCASuiEttByID(ctx context.Context, companyID, id snowflake.ID) (*domain.CASuiEttPayment, error) {
	var p domain.CASuiEttPayment
	err := r.db.WithContext(ctx).
		Where("company_id = ? AND id = ?", companyID, id).
		Limit(1).
		Find(&p).Error
	if err != nil {
		return nil, err
	}
	if p.ID == 0 {
		return nil, nil
	}
	return &p, nil
}

func (r *repository) ListCASuiEttByYear(ctx context.Context, companyID snowflake.ID, year int) ([]domain.CASuiEttPayment, error) {
	var ps []domain.CASuiEttPayment
	err := r.db.WithContext(ctx).
		Where("company_id = ? AND year = ?", companyID, year).
		Order("quarter ASC").
		Find(&ps).Error
	if err != nil {
		return nil, err
	}
	return ps, nil
}

func (r *repository) UpsertCASuiEtt(ctx context.Context, p *domain.CASuiEttPayment) error {
	existing, err := r.FindCASuiEtt(ctx, p.CompanyID, p.Year, p.Quarter)
	if err != nil {
		return err
	}
	if existing == nil {
		return r.db.WithContext(ctx).Create(p).Error
	}
	p.ID = existing.ID
	err = r.db.WithContext(ctx).
		Model(&domain.CASuiEttPayment{}).
		Where("id = ? AND status = ?", existing.ID, domain.PaymentStatusPending).
		Updates(map[string]interface{}{
			"sui_amount": p.SUIAmount,
			"ett_amount": p.ETTAmount,
			"amount":     p.Amount,
			"updated_at": time.Now().UTC(),
		}).Error
	if err != nil {
		return err
	}
	return r.db.WithContext(ctx).
		Model(&domain.CASuiEttPayment{}).
		Where("id = ?", existing.ID).
		Updates(map[string]interface{}{
			"due_date":    p.DueDate,
			"payroll_ids": p.PayrollIDs,
			"updated_at":  time.Now().UTC(),
		}).Error
}

func (r *repository) MarkCASuiEttPaid(ctx context.Context, companyID, id snowflake.ID, paidDate time.Time, method, confirmation string) error {
	return r.markPaid(ctx, &domain.CASuiEttPayment{}, companyID, id, paidDate, method, confirmation)
}

func (r *repository) SettleCASuiEttQuarter(ctx context.Context, companyID snowflake.ID, year, quarter int, paidDate time.Time) error {
	return r.db.WithContext(ctx).
		Model(&domain.CASuiEttPayment{}).
		Where("company_id = ? AND year = ? AND quarter = ? AND status = ?", companyID, year, quarter, domain.PaymentStatusPending).
		Updates(map[string]interface{}{
			"status":     domain.PaymentStatusPaid,
			"paid_date":  paidDate.UTC(),
			"updated_at": time.Now().UTC(),
		}).Error
}

// markPaid flips one pending obligation to paid. Two concurrent calls
// cannot both win: the status condition rides in the UPDATE.
func (r *repository) markPaid(ctx context.Context, model interface{}, companyID, id snowflake.ID, paidDate time.Time, method, confirmation string) error {
	result := r.db.WithContext(ctx).
		Model(model).
		Where("company_id = ? AND id = ? AND status = ?", companyID, id, domain.PaymentStatusPending).
		Updates(map[string]interface{}{
			"status":              domain.PaymentStatusPaid,
			"paid_date":           paidDate.UTC(),
			"payment_method":      method,
			"confirmation_number": confirmation,
			"updated_at":          time.Now().UTC(),
		})
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return domain.ErrAlreadyPaid
	}
	return nil
}

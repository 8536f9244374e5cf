package repository

import (
	"context"
	"time"

	"github.com/bwmarrin/snowflake"
	"github.com/smallbiznis/taxrail/internal/company/domain"
	"gorm.io/gorm"
)

type repository struct {
	db *gorm.DB
}

func NewRepository(db *gorm.DB) domain.Repository {
	return &repository{db: db}
}

func (r *repository) Create(ctx context.Context, company *domain.Company) error {
	return r.db.WithContext(ctx).Create(company).Error
}

func (r *repository) FindByID(ctx context.Context, id snowflake.ID) (*domain.Company, error) {
	var company domain.Company
	err := r.db.WithContext(ctx).
		Where("id = ?", id).
		Limit(1).
		Find(&company).Error
	if err != nil {
		return nil, err
	}
	if company.ID == 0 {
		return nil, nil
	}
	return &company, nil
}

func (r *repository) AddTaxRate(ctx context.Context, rate *domain.CompanyTaxRate) error {
	return r.db.WithContext(ctx).Create(rate).Error
}

func (r *repository) RateAsOf(ctx context.Context, companyID snowflake.ID, asOf time.Time) (*domain.CompanyTaxRate, error) {
	var rate domain.CompanyTaxRate
	err := r.db.WithContext(ctx).
		Where("company_id = ? AND effective_from <= ?", companyID, asOf.UTC()).
		Order("effective_from DESC").
		Limit(1).
		Find(&rate).Error
	if err != nil {
		return nil, err
	}
	if rate.ID == 0 {
		return nil, nil
	}
	return &rate, nil
}

package domain

import (
	"time"

	"github.com/bwmarrin/snowflake"
)

// Company is the employer of record. Header fields are denormalized onto
// filings so a government form can be rendered without further joins.
type Company struct {
	ID           snowflake.ID `gorm:"primaryKey" json:"id"`
	Name         string       `gorm:"type:text;not null" json:"name"`
	EIN          string       `gorm:"type:text;not null" json:"ein"`
	CAEDDNumber  string       `gorm:"column:ca_edd_number;type:text" json:"ca_edd_number"`
	AddressLine1 string       `gorm:"type:text" json:"address_line1"`
	AddressLine2 string       `gorm:"type:text" json:"address_line2"`
	City         string       `gorm:"type:text" json:"city"`
	State        string       `gorm:"type:text" json:"state"`
	Zip          string       `gorm:"type:text" json:"zip"`
	CreatedAt    time.Time    `gorm:"not null;default:CURRENT_TIMESTAMP" json:"created_at"`
	UpdatedAt    time.Time    `gorm:"not null;default:CURRENT_TIMESTAMP" json:"updated_at"`
}

func (Company) TableName() string { return "companies" }

// CompanyTaxRate is one effective-dated CA UI/ETT rate assignment. The
// rate in force for a pay date is the newest row with effective_from on
// or before that date. Payroll cannot be approved without one.
type CompanyTaxRate struct {
	ID            snowflake.ID `gorm:"primaryKey" json:"id"`
	CompanyID     snowflake.ID `gorm:"not null;index" json:"company_id"`
	UIRate        float64      `gorm:"column:ui_rate;type:numeric(6,4);not null" json:"ui_rate"`
	ETTSubject    bool         `gorm:"column:ett_subject;not null;default:true" json:"ett_subject"`
	EffectiveFrom time.Time    `gorm:"column:effective_from;not null;index" json:"effective_from"`
	CreatedAt     time.Time    `gorm:"not null;default:CURRENT_TIMESTAMP" json:"created_at"`
}

func (CompanyTaxRate) TableName() string { return "company_tax_rates" }

func (r *CompanyTaxRate) Validate() error {
	if r.CompanyID == 0 {
		return ErrInvalidCompany
	}
	if r.UIRate <= 0 || r.UIRate >= 1 {
		return ErrInvalidRate
	}
	if r.EffectiveFrom.IsZero() {
		return ErrInvalidEffectiveDate
	}
	return nil
}

// Package domain contains persistence models for tax payment obligations.
package domain

import (
	"time"

	"github.com/bwmarrin/snowflake"
	"gorm.io/datatypes"
)

// PaymentStatus represents the obligation lifecycle. Paid obligations
// are immutable: the sync engine never touches them again.
type PaymentStatus string

const (
	PaymentStatusPending PaymentStatus = "pending"
	PaymentStatusPaid    PaymentStatus = "paid"
)

// PaymentType discriminates the four obligation streams.
type PaymentType string

const (
	PaymentTypeFederal941 PaymentType = "federal_941"
	PaymentTypeFederal940 PaymentType = "federal_940"
	PaymentTypeCAPitSdi   PaymentType = "ca_pit_sdi"
	PaymentTypeCASuiEtt   PaymentType = "ca_sui_ett"
)

// Federal941Payment is one month's federal deposit obligation: withheld
// income tax plus both halves of FICA for payrolls paid in the month.
type Federal941Payment struct {
	ID        snowflake.ID `gorm:"primaryKey" json:"id"`
	CompanyID snowflake.ID `gorm:"not null;uniqueIndex:ux_fed941_period" json:"company_id"`
	Year      int          `gorm:"not null;uniqueIndex:ux_fed941_period" json:"year"`
	Month     int          `gorm:"not null;uniqueIndex:ux_fed941_period" json:"month"`

	Amount  int64     `gorm:"not null;default:0" json:"amount"`
	DueDate time.Time `gorm:"not null" json:"due_date"`

	Status             PaymentStatus                     `gorm:"type:text;not null;default:'pending';index" json:"status"`
	PaidDate           *time.Time                        `gorm:"" json:"paid_date,omitempty"`
	PaymentMethod      string                            `gorm:"type:text" json:"payment_method,omitempty"`
	ConfirmationNumber string                            `gorm:"type:text" json:"confirmation_number,omitempty"`
	PayrollIDs         datatypes.JSONSlice[snowflake.ID] `gorm:"type:jsonb" json:"payroll_ids"`

	CreatedAt time.Time `gorm:"not null;default:CURRENT_TIMESTAMP" json:"created_at"`
	UpdatedAt time.Time `gorm:"not null;default:CURRENT_TIMESTAMP" json:"updated_at"`
}

func (Federal941Payment) TableName() string { return "federal_941_payments" }

// Federal940Payment is one quarter's federal unemployment deposit. The
// amount is the liability accrued and not yet due-deposited; the
// required flag is re-derived from the whole year on every sync.
type Federal940Payment struct {
	ID        snowflake.ID `gorm:"primaryKey" json:"id"`
	CompanyID snowflake.ID `gorm:"not null;uniqueIndex:ux_fed940_period" json:"company_id"`
	Year      int          `gorm:"not null;uniqueIndex:ux_fed940_period" json:"year"`
	Quarter   int          `gorm:"not null;uniqueIndex:ux_fed940_period" json:"quarter"`

	Amount  int64     `gorm:"not null;default:0" json:"amount"`
	DueDate time.Time `gorm:"not null" json:"due_date"`

	// RequiresImmediatePayment marks quarters whose accumulated
	// liability crossed the deposit threshold.
	RequiresImmediatePayment bool `gorm:"not null;default:false" json:"requires_immediate_payment"`

	Status             PaymentStatus                     `gorm:"type:text;not null;default:'pending';index" json:"status"`
	PaidDate           *time.Time                        `gorm:"" json:"paid_date,omitempty"`
	PaymentMethod      string                            `gorm:"type:text" json:"payment_method,omitempty"`
	ConfirmationNumber string                            `gorm:"type:text" json:"confirmation_number,omitempty"`
	PayrollIDs         datatypes.JSONSlice[snowflake.ID] `gorm:"type:jsonb" json:"payroll_ids"`

	CreatedAt time.Time `gorm:"not null;default:CURRENT_TIMESTAMP" json:"created_at"`
	UpdatedAt time.Time `gorm:"not null;default:CURRENT_TIMESTAMP" json:"updated_at"`
}

func (Federal940Payment) TableName() string { return "federal_940_payments" }

// CAPitSdiPayment is one month's California PIT and SDI remittance.
type CAPitSdiPayment struct {
	ID        snowflake.ID `gorm:"primaryKey" json:"id"`
	CompanyID snowflake.ID `gorm:"not null;uniqueIndex:ux_ca_pit_sdi_period" json:"company_id"`
	Year      int          `gorm:"not null;uniqueIndex:ux_ca_pit_sdi_period" json:"year"`
	Month     int          `gorm:"not null;uniqueIndex:ux_ca_pit_sdi_period" json:"month"`

	PITAmount int64     `gorm:"column:pit_amount;not null;default:0" json:"pit_amount"`
	SDIAmount int64     `gorm:"column:sdi_amount;not null;default:0" json:"sdi_amount"`
	Amount    int64     `gorm:"not null;default:0" json:"amount"`
	DueDate   time.Time `gorm:"not null" json:"due_date"`

	Status             PaymentStatus                     `gorm:"type:text;not null;default:'pending';index" json:"status"`
	PaidDate           *time.Time                        `gorm:"" json:"paid_date,omitempty"`
	PaymentMethod      string                            `gorm:"type:text" json:"payment_method,omitempty"`
	ConfirmationNumber string                            `gorm:"type:text" json:"confirmation_number,omitempty"`
	PayrollIDs         datatypes.JSONSlice[snowflake.ID] `gorm:"type:jsonb" json:"payroll_ids"`

	CreatedAt time.Time `gorm:"not null;default:CURRENT_TIMESTAMP" json:"created_at"`
	UpdatedAt time.Time `gorm:"not null;default:CURRENT_TIMESTAMP" json:"updated_at"`
}

func (CAPitSdiPayment) TableName() string { return "ca_pit_sdi_payments" }

// CASuiEttPayment is one quarter's California UI and ETT contribution.
type CASuiEttPayment struct {
	ID        snowflake.ID `gorm:"primaryKey" json:"id"`
	CompanyID snowflake.ID `gorm:"not null;uniqueIndex:ux_ca_sui_ett_period" json:"company_id"`
	Year      int          `gorm:"not null;uniqueIndex:ux_ca_sui_ett_period" json:"year"`
	Quarter   int          `gorm:"not null;uniqueIndex:ux_ca_sui_ett_period" json:"quarter"`

	SUIAmount int64     `gorm:"column:sui_amount;not null;default:0" json:"sui_amount"`
	ETTAmount int64     `gorm:"column:ett_amount;not null;default:0" json:"ett_amount"`
	Amount    int64     `gorm:"not null;default:0" json:"amount"`
	DueDate   time.Time `gorm:"not null" json:"due_date"`

	Status             PaymentStatus                     `gorm:"type:text;not null;default:'pending';index" json:"status"`
	PaidDate           *time.Time                        `gorm:"" json:"paid_date,omitempty"`
	PaymentMethod      string                            `gorm:"type:text" json:"payment_method,omitempty"`
	ConfirmationNumber string                            `gorm:"type:text" json:"confirmation_number,omitempty"`
	PayrollIDs         datatypes.JSONSlice[snowflake.ID] `gorm:"type:jsonb" json:"payroll_ids"`

	CreatedAt time.Time `gorm:"not null;default:CURRENT_TIMESTAMP" json:"created_at"`
	UpdatedAt time.Time `gorm:"not null;default:CURRENT_TIMESTAMP" json:"updated_at"`
}

func (CASuiEttPayment) TableName() string { return "ca_sui_ett_payments" }

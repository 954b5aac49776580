package payroll

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

const (
	StatusDraft       = "DRAFT"
	StatusProcessing  = "PROCESSING"
	StatusChecked     = "CHECKED"
	StatusRecommended = "RECOMMENDED"
	StatusApproved    = "APPROVED"
	StatusPaid        = "PAID"
	StatusCancelled   = "CANCELLED"
)

// PayrollPeriod is one payroll run. Totals are always derived from the item
// set, never accepted from input. Version backs the optimistic lock: every
// write must CAS on the version it last read. The period key index is partial:
// a cancelled run frees its (year, month, pay_period_number) slot for
// re-creation.
type PayrollPeriod struct {
	ID            uuid.UUID `gorm:"type:uuid;primaryKey;default:gen_random_uuid()"`
	PayrollNumber string    `gorm:"type:varchar(30);not null;uniqueIndex"`

	PeriodStart time.Time `gorm:"type:date;not null"`
	PeriodEnd   time.Time `gorm:"type:date;not null"`
	PaymentDate time.Time `gorm:"type:date;not null"`

	Year            int    `gorm:"not null;index:idx_period_key,unique,where:status <> 'CANCELLED'"`
	Month           int    `gorm:"not null;index:idx_period_key,unique"`
	PayPeriodNumber int    `gorm:"not null;index:idx_period_key,unique"`
	PayFrequency    string `gorm:"type:varchar(20);not null;default:'semi_monthly'"`

	Status string `gorm:"type:varchar(20);not null;default:'DRAFT';index"`

	TotalGrossPay   decimal.Decimal `gorm:"type:decimal(14,2);not null;default:0"`
	TotalDeductions decimal.Decimal `gorm:"type:decimal(14,2);not null;default:0"`
	TotalNetPay     decimal.Decimal `gorm:"type:decimal(14,2);not null;default:0"`

	PreparedBy    *uuid.UUID `gorm:"type:uuid"`
	PreparedAt    *time.Time
	CheckedBy     *uuid.UUID `gorm:"type:uuid"`
	CheckedAt     *time.Time
	RecommendedBy *uuid.UUID `gorm:"type:uuid"`
	RecommendedAt *time.Time
	ApprovedBy    *uuid.UUID `gorm:"type:uuid"`
	ApprovedAt    *time.Time
	PaidBy        *uuid.UUID `gorm:"type:uuid"`
	PaidAt        *time.Time
	CancelledAt   *time.Time

	Version int64 `gorm:"not null;default:1"`

	CreatedAt time.Time
	UpdatedAt time.Time

	Items []PayrollItem `gorm:"foreignKey:PayrollID"`
}

func (PayrollPeriod) TableName() string {
	return "payroll_periods"
}

// PayrollItem is one employee's reconciled breakdown inside a period. The
// (payroll_id, employee_id) unique index makes recomputation a replace, never
// a duplicate insert.
type PayrollItem struct {
	ID         uuid.UUID `gorm:"type:uuid;primaryKey;default:gen_random_uuid()"`
	PayrollID  uuid.UUID `gorm:"type:uuid;not null;index:idx_payroll_employee,unique"`
	EmployeeID uuid.UUID `gorm:"type:uuid;not null;index:idx_payroll_employee,unique"`

	Rate       decimal.Decimal `gorm:"type:decimal(14,2);not null;default:0"`
	DaysWorked int             `gorm:"not null;default:0"`

	BasicPay     decimal.Decimal `gorm:"type:decimal(14,2);not null;default:0"`
	OvertimePay  decimal.Decimal `gorm:"type:decimal(14,2);not null;default:0"`
	HolidayPay   decimal.Decimal `gorm:"type:decimal(14,2);not null;default:0"`
	NightDiffPay decimal.Decimal `gorm:"type:decimal(14,2);not null;default:0"`
	Allowances   decimal.Decimal `gorm:"type:decimal(14,2);not null;default:0"`
	Bonuses      decimal.Decimal `gorm:"type:decimal(14,2);not null;default:0"`
	Undertime    decimal.Decimal `gorm:"type:decimal(14,2);not null;default:0"`
	GrossPay     decimal.Decimal `gorm:"type:decimal(14,2);not null;default:0"`

	SSS             decimal.Decimal `gorm:"type:decimal(14,2);not null;default:0"`
	PhilHealth      decimal.Decimal `gorm:"type:decimal(14,2);not null;default:0"`
	Pagibig         decimal.Decimal `gorm:"type:decimal(14,2);not null;default:0"`
	WithholdingTax  decimal.Decimal `gorm:"type:decimal(14,2);not null;default:0"`
	LoanDeductions  decimal.Decimal `gorm:"type:decimal(14,2);not null;default:0"`
	OtherDeductions decimal.Decimal `gorm:"type:decimal(14,2);not null;default:0"`
	TotalDeductions decimal.Decimal `gorm:"type:decimal(14,2);not null;default:0"`

	NetPay decimal.Decimal `gorm:"type:decimal(14,2);not null;default:0"`

	CreatedAt time.Time
	UpdatedAt time.Time
}

func (PayrollItem) TableName() string {
	return "payroll_items"
}

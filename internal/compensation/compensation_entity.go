package compensation

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

const (
	LoanStatusActive    = "active"
	LoanStatusPaid      = "paid"
	LoanStatusCancelled = "cancelled"
)

const (
	AllowanceTypeAllowance = "allowance"
	AllowanceTypeBonus     = "bonus"
)

// EmployeeAllowance is a recurring earning addition. Amount is expressed in
// the row's own frequency; the earnings calculator normalizes it to the pay
// period being computed. Bonus rows are reported separately on the payslip
// but follow the same normalization.
type EmployeeAllowance struct {
	ID            uuid.UUID       `gorm:"type:uuid;primaryKey;default:gen_random_uuid()"`
	EmployeeID    uuid.UUID       `gorm:"type:uuid;not null;index"`
	Name          string          `gorm:"type:varchar(120);not null"`
	Type          string          `gorm:"type:varchar(20);not null;default:'allowance'"`
	Amount        decimal.Decimal `gorm:"type:decimal(14,2);not null"`
	Frequency     string          `gorm:"type:varchar(20);not null;default:'monthly'"`
	EffectiveFrom time.Time       `gorm:"type:date;not null"`
	EffectiveTo   *time.Time      `gorm:"type:date"`
	IsActive      bool            `gorm:"not null;default:true"`
	CreatedAt     time.Time
	UpdatedAt     time.Time
}

func (EmployeeAllowance) TableName() string {
	return "employee_allowances"
}

// EmployeeDeduction is a recurring or one-off deduction with a declining
// balance. Amount is the monthly installment.
type EmployeeDeduction struct {
	ID               uuid.UUID       `gorm:"type:uuid;primaryKey;default:gen_random_uuid()"`
	EmployeeID       uuid.UUID       `gorm:"type:uuid;not null;index"`
	Name             string          `gorm:"type:varchar(120);not null"`
	Amount           decimal.Decimal `gorm:"type:decimal(14,2);not null"`
	Balance          decimal.Decimal `gorm:"type:decimal(14,2);not null"`
	InstallmentsPaid int             `gorm:"not null;default:0"`
	IsActive         bool            `gorm:"not null;default:true"`
	CreatedAt        time.Time
	UpdatedAt        time.Time
}

func (EmployeeDeduction) TableName() string {
	return "employee_deductions"
}

// EmployeeLoan amortizes monthly; the per-period charge divides the
// amortization by the number of pay periods per month and is always capped
// at the remaining balance.
type EmployeeLoan struct {
	ID           uuid.UUID       `gorm:"type:uuid;primaryKey;default:gen_random_uuid()"`
	EmployeeID   uuid.UUID       `gorm:"type:uuid;not null;index"`
	LoanType     string          `gorm:"type:varchar(40);not null;default:'company'"`
	Principal    decimal.Decimal `gorm:"type:decimal(14,2);not null"`
	Balance      decimal.Decimal `gorm:"type:decimal(14,2);not null"`
	Amortization decimal.Decimal `gorm:"type:decimal(14,2);not null"`
	StartDate    time.Time       `gorm:"type:date;not null"`
	Status       string          `gorm:"type:varchar(20);not null;default:'active';index"`
	CreatedAt    time.Time
	UpdatedAt    time.Time
}

func (EmployeeLoan) TableName() string {
	return "employee_loans"
}

const (
	ChargeSourceLoan      = "loan"
	ChargeSourceDeduction = "deduction"
)

// PayrollCharge freezes one loan or deduction charge at the moment a payroll
// item is computed. Settlement posts these rows, never the live ledger, so a
// grant or amendment made after processing cannot settle against pay it was
// not withheld from.
type PayrollCharge struct {
	ID            uuid.UUID       `gorm:"type:uuid;primaryKey;default:gen_random_uuid()"`
	PayrollItemID uuid.UUID       `gorm:"type:uuid;not null;index"`
	EmployeeID    uuid.UUID       `gorm:"type:uuid;not null"`
	SourceType    string          `gorm:"type:varchar(20);not null"`
	SourceID      uuid.UUID       `gorm:"type:uuid;not null"`
	Amount        decimal.Decimal `gorm:"type:decimal(14,2);not null"`
	CreatedAt     time.Time
}

func (PayrollCharge) TableName() string {
	return "payroll_charges"
}

// LoanPayment records one settled per-period charge against a loan, written
// only when the owning payroll period reaches paid.
type LoanPayment struct {
	ID            uuid.UUID       `gorm:"type:uuid;primaryKey;default:gen_random_uuid()"`
	LoanID        uuid.UUID       `gorm:"type:uuid;not null;index"`
	PayrollItemID uuid.UUID       `gorm:"type:uuid;not null;index"`
	Amount        decimal.Decimal `gorm:"type:decimal(14,2);not null"`
	PaidAt        time.Time       `gorm:"not null"`
	CreatedAt     time.Time
}

func (LoanPayment) TableName() string {
	return "loan_payments"
}

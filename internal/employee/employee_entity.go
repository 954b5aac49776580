package employee

import (
	"time"

	"buildhr/internal/position"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

const (
	StatusActive   = "active"
	StatusInactive = "inactive"
)

const (
	PayFrequencyDaily       = "daily"
	PayFrequencySemiMonthly = "semi_monthly"
	PayFrequencyMonthly     = "monthly"
)

type Employee struct {
	ID             uuid.UUID          `gorm:"type:uuid;primaryKey;default:gen_random_uuid()"`
	EmployeeNumber string             `gorm:"type:varchar(30);not null;uniqueIndex"`
	FullName       string             `gorm:"type:varchar(160);not null"`
	Status         string             `gorm:"type:varchar(20);not null;default:'active';index"`
	PositionID     *uuid.UUID         `gorm:"type:uuid;index"`
	Position       *position.Position `gorm:"foreignKey:PositionID;references:ID"`
	ProjectID      *uuid.UUID         `gorm:"type:uuid;index"`
	ContractType   string             `gorm:"type:varchar(30);not null;default:'regular'"`
	PayFrequency   string             `gorm:"type:varchar(20);not null;default:'semi_monthly'"`

	// Monthly basic salary; the daily fallback divides by the configured
	// working days per month.
	BasicSalary     decimal.Decimal  `gorm:"type:decimal(14,2);not null;default:0"`
	CustomDailyRate *decimal.Decimal `gorm:"type:decimal(14,2)"`

	HasSSS           bool             `gorm:"not null;default:true"`
	HasPhilHealth    bool             `gorm:"not null;default:true"`
	HasPagibig       bool             `gorm:"not null;default:true"`
	CustomSSS        *decimal.Decimal `gorm:"type:decimal(14,2)"`
	CustomPhilHealth *decimal.Decimal `gorm:"type:decimal(14,2)"`
	CustomPagibig    *decimal.Decimal `gorm:"type:decimal(14,2)"`

	CreatedAt time.Time
	UpdatedAt time.Time
}

func (Employee) TableName() string {
	return "employees"
}

// EffectiveDailyRate resolves the three-tier rate: a per-employee override
// wins, then the position rate, then basic salary spread over the configured
// working days.
func (e *Employee) EffectiveDailyRate(workingDaysPerMonth decimal.Decimal) decimal.Decimal {
	if e.CustomDailyRate != nil && e.CustomDailyRate.IsPositive() {
		return *e.CustomDailyRate
	}
	if e.Position != nil && e.Position.DailyRate != nil && e.Position.DailyRate.IsPositive() {
		return *e.Position.DailyRate
	}
	if workingDaysPerMonth.IsPositive() {
		return e.BasicSalary.Div(workingDaysPerMonth)
	}
	return decimal.Zero
}

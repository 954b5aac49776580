package govrate

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

const (
	RateTypeSSS        = "sss"
	RateTypePhilHealth = "philhealth"
	RateTypePagibig    = "pagibig"
	RateTypeTax        = "tax"
)

const (
	PeriodTypeDaily       = "daily"
	PeriodTypeWeekly      = "weekly"
	PeriodTypeSemiMonthly = "semi_monthly"
	PeriodTypeMonthly     = "monthly"
	PeriodTypeAnnual      = "annual"
)

// GovernmentRate is one versioned bracket row. Contribution types (sss,
// philhealth, pagibig) leave PeriodType empty; tax brackets carry the period
// type their floors/ceilings are expressed in. MaxSalary null means the
// bracket is open-ended at the top.
type GovernmentRate struct {
	ID             uuid.UUID        `gorm:"type:uuid;primaryKey;default:gen_random_uuid()"`
	Seq            int64            `gorm:"autoIncrement;uniqueIndex"`
	RateType       string           `gorm:"type:varchar(20);not null;index:idx_rate_type_effective"`
	PeriodType     string           `gorm:"type:varchar(20);not null;default:''"`
	MinSalary      decimal.Decimal  `gorm:"type:decimal(14,2);not null"`
	MaxSalary      *decimal.Decimal `gorm:"type:decimal(14,2)"`
	EmployeeRate   decimal.Decimal  `gorm:"type:decimal(10,4);not null;default:0"`
	EmployerRate   decimal.Decimal  `gorm:"type:decimal(10,4);not null;default:0"`
	EmployeeAmount decimal.Decimal  `gorm:"type:decimal(14,2);not null;default:0"`
	EmployerAmount decimal.Decimal  `gorm:"type:decimal(14,2);not null;default:0"`
	BaseTax        decimal.Decimal  `gorm:"type:decimal(14,2);not null;default:0"`
	EffectiveDate  time.Time        `gorm:"type:date;not null;index:idx_rate_type_effective"`
	EndDate        *time.Time       `gorm:"type:date"`
	IsActive       bool             `gorm:"not null;default:true"`
	CreatedAt      time.Time
	UpdatedAt      time.Time
}

func (GovernmentRate) TableName() string {
	return "government_rates"
}

// Bracket is the resolved, read-only view handed to the calculators.
type Bracket struct {
	Seq            int64
	RateType       string
	PeriodType     string
	MinSalary      decimal.Decimal
	MaxSalary      *decimal.Decimal
	EmployeeRate   decimal.Decimal
	EmployerRate   decimal.Decimal
	EmployeeAmount decimal.Decimal
	EmployerAmount decimal.Decimal
	BaseTax        decimal.Decimal
	EffectiveDate  time.Time
}

func toBracket(r GovernmentRate) Bracket {
	return Bracket{
		Seq:            r.Seq,
		RateType:       r.RateType,
		PeriodType:     r.PeriodType,
		MinSalary:      r.MinSalary,
		MaxSalary:      r.MaxSalary,
		EmployeeRate:   r.EmployeeRate,
		EmployerRate:   r.EmployerRate,
		EmployeeAmount: r.EmployeeAmount,
		EmployerAmount: r.EmployerAmount,
		BaseTax:        r.BaseTax,
		EffectiveDate:  r.EffectiveDate,
	}
}

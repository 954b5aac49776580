package payconfig

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// PayConfig is one named, administrator-editable numeric setting. Unset keys
// fall back to the seeded defaults below.
type PayConfig struct {
	ID          uuid.UUID       `gorm:"type:uuid;primaryKey;default:gen_random_uuid()"`
	Key         string          `gorm:"type:varchar(60);not null;uniqueIndex"`
	Value       decimal.Decimal `gorm:"type:decimal(10,4);not null"`
	Description string          `gorm:"type:text"`
	CreatedAt   time.Time
	UpdatedAt   time.Time
}

func (PayConfig) TableName() string {
	return "pay_configs"
}

const (
	KeyOTRegular               = "ot_regular"
	KeyOTSunday                = "ot_sunday"
	KeyOTRegularHoliday        = "ot_regular_holiday"
	KeyOTRegularHolidaySunday  = "ot_regular_holiday_sunday"
	KeyOTSpecialHoliday        = "ot_special_holiday"
	KeyHolidayRegular          = "holiday_regular"
	KeyHolidaySpecial          = "holiday_special"
	KeyHoursPerDay             = "hours_per_day"
	KeyWorkingDaysPerMonth     = "working_days_per_month"
	KeyNightDifferentialUplift = "night_differential"
)

// Multipliers is the typed view handed to the earnings calculator.
type Multipliers struct {
	OTRegular              decimal.Decimal
	OTSunday               decimal.Decimal
	OTRegularHoliday       decimal.Decimal
	OTRegularHolidaySunday decimal.Decimal
	OTSpecialHoliday       decimal.Decimal
	HolidayRegular         decimal.Decimal
	HolidaySpecial         decimal.Decimal
	HoursPerDay            decimal.Decimal
	WorkingDaysPerMonth    decimal.Decimal
	NightDifferential      decimal.Decimal
}

// defaults follow the DOLE premium schedule; administrators override per key.
func defaults() map[string]decimal.Decimal {
	return map[string]decimal.Decimal{
		KeyOTRegular:               decimal.NewFromFloat(1.25),
		KeyOTSunday:                decimal.NewFromFloat(1.69),
		KeyOTRegularHoliday:        decimal.NewFromFloat(2.60),
		KeyOTRegularHolidaySunday:  decimal.NewFromFloat(3.38),
		KeyOTSpecialHoliday:        decimal.NewFromFloat(1.69),
		KeyHolidayRegular:          decimal.NewFromFloat(1.00),
		KeyHolidaySpecial:          decimal.NewFromFloat(0.30),
		KeyHoursPerDay:             decimal.NewFromInt(8),
		KeyWorkingDaysPerMonth:     decimal.NewFromInt(26),
		KeyNightDifferentialUplift: decimal.NewFromFloat(0.10),
	}
}

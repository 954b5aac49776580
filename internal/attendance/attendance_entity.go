package attendance

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

const (
	DayTypeRegular              = "regular"
	DayTypeSunday               = "sunday"
	DayTypeRegularHoliday       = "regular_holiday"
	DayTypeRegularHolidaySunday = "regular_holiday_sunday"
	DayTypeSpecialHoliday       = "special_holiday"
)

// Attendance is one employee-day with hours already classified by the import
// pipeline. The payroll engine reads these rows as-is; it never reinterprets
// raw punches.
type Attendance struct {
	ID             uuid.UUID       `gorm:"type:uuid;primaryKey;default:gen_random_uuid()"`
	EmployeeID     uuid.UUID       `gorm:"type:uuid;not null;index:idx_employee_workdate,unique"`
	WorkDate       time.Time       `gorm:"type:date;not null;index:idx_employee_workdate,unique"`
	DayType        string          `gorm:"type:varchar(30);not null;default:'regular'"`
	RegularHours   decimal.Decimal `gorm:"type:decimal(5,2);not null;default:0"`
	OvertimeHours  decimal.Decimal `gorm:"type:decimal(5,2);not null;default:0"`
	HolidayHours   decimal.Decimal `gorm:"type:decimal(5,2);not null;default:0"`
	UndertimeHours decimal.Decimal `gorm:"type:decimal(5,2);not null;default:0"`
	NightDiffHours decimal.Decimal `gorm:"type:decimal(5,2);not null;default:0"`
	Source         string          `gorm:"type:varchar(30);not null;default:'IMPORT'"`
	CreatedAt      time.Time
	UpdatedAt      time.Time
}

func (Attendance) TableName() string {
	return "attendances"
}

// PeriodSummary is the aggregate the calculators consume. Overtime is also
// bucketed per day type because each bucket carries its own multiplier.
type PeriodSummary struct {
	DaysWorked        int
	RegularHours      decimal.Decimal
	OvertimeHours     decimal.Decimal
	HolidayHours      decimal.Decimal
	UndertimeHours    decimal.Decimal
	NightDiffHours    decimal.Decimal
	OvertimeByDayType map[string]decimal.Decimal
	RegularHolidays   int
	SpecialHolidays   int
}

package attendance

import "github.com/shopspring/decimal"

type AttendanceResponse struct {
	ID             string          `json:"id"`
	EmployeeID     string          `json:"employee_id"`
	WorkDate       string          `json:"work_date"`
	DayType        string          `json:"day_type"`
	RegularHours   decimal.Decimal `json:"regular_hours"`
	OvertimeHours  decimal.Decimal `json:"overtime_hours"`
	HolidayHours   decimal.Decimal `json:"holiday_hours"`
	UndertimeHours decimal.Decimal `json:"undertime_hours"`
	NightDiffHours decimal.Decimal `json:"night_diff_hours"`
	Source         string          `json:"source"`
}

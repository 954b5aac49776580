package payroll

import (
	"buildhr/internal/attendance"
	"buildhr/internal/compensation"
	"buildhr/internal/employee"
	"buildhr/internal/payconfig"

	"github.com/shopspring/decimal"
)

// Earnings is the typed result of the earnings side of one employee's
// computation. Every field is already rounded to two decimals, half up.
type Earnings struct {
	Rate               decimal.Decimal
	DaysWorked         int
	BasicPay           decimal.Decimal
	OvertimePay        decimal.Decimal
	HolidayPay         decimal.Decimal
	NightDiffPay       decimal.Decimal
	Allowances         decimal.Decimal
	Bonuses            decimal.Decimal
	UndertimeDeduction decimal.Decimal
	GrossPay           decimal.Decimal
}

// EarningsCalculator computes the earnings side from an attendance summary
// and the configured multipliers.
type EarningsCalculator struct {
	cfg payconfig.Multipliers
}

func NewEarningsCalculator(cfg payconfig.Multipliers) *EarningsCalculator {
	return &EarningsCalculator{cfg: cfg}
}

func (c *EarningsCalculator) Compute(
	emp *employee.Employee,
	summary attendance.PeriodSummary,
	ledger []compensation.EmployeeAllowance,
	periodFrequency string,
) Earnings {
	dailyRate := emp.EffectiveDailyRate(c.cfg.WorkingDaysPerMonth)
	// Hourly rate stays unrounded until it lands in a monetary result.
	hourlyRate := dailyRate.Div(c.cfg.HoursPerDay)
	days := decimal.NewFromInt(int64(summary.DaysWorked))

	e := Earnings{
		Rate:       dailyRate.Round(2),
		DaysWorked: summary.DaysWorked,
		BasicPay:   dailyRate.Mul(days).Round(2),
	}

	for dayType, hours := range summary.OvertimeByDayType {
		pay := hours.Mul(hourlyRate).Mul(c.overtimeMultiplier(dayType)).Round(2)
		e.OvertimePay = e.OvertimePay.Add(pay)
	}

	regularHolidayPay := dailyRate.
		Mul(decimal.NewFromInt(int64(summary.RegularHolidays))).
		Mul(c.cfg.HolidayRegular).Round(2)
	specialHolidayPay := dailyRate.
		Mul(decimal.NewFromInt(int64(summary.SpecialHolidays))).
		Mul(c.cfg.HolidaySpecial).Round(2)
	e.HolidayPay = regularHolidayPay.Add(specialHolidayPay)

	e.NightDiffPay = summary.NightDiffHours.Mul(hourlyRate).Mul(c.cfg.NightDifferential).Round(2)

	for _, row := range ledger {
		amount := normalizeToFrequency(row.Amount, row.Frequency, periodFrequency, summary.DaysWorked)
		if row.Type == compensation.AllowanceTypeBonus {
			e.Bonuses = e.Bonuses.Add(amount)
		} else {
			e.Allowances = e.Allowances.Add(amount)
		}
	}

	e.UndertimeDeduction = summary.UndertimeHours.Mul(hourlyRate).Round(2)

	e.GrossPay = e.BasicPay.
		Add(e.OvertimePay).
		Add(e.HolidayPay).
		Add(e.NightDiffPay).
		Add(e.Allowances).
		Add(e.Bonuses).
		Sub(e.UndertimeDeduction)

	return e
}

func (c *EarningsCalculator) overtimeMultiplier(dayType string) decimal.Decimal {
	switch dayType {
	case attendance.DayTypeSunday:
		return c.cfg.OTSunday
	case attendance.DayTypeRegularHoliday:
		return c.cfg.OTRegularHoliday
	case attendance.DayTypeRegularHolidaySunday:
		return c.cfg.OTRegularHolidaySunday
	case attendance.DayTypeSpecialHoliday:
		return c.cfg.OTSpecialHoliday
	default:
		return c.cfg.OTRegular
	}
}

// normalizeToFrequency converts a ledger amount from its own frequency to the
// period's pay frequency: a monthly amount contributes half to a semi-monthly
// period, a daily amount contributes per day actually worked.
func normalizeToFrequency(amount decimal.Decimal, from, to string, daysWorked int) decimal.Decimal {
	if from == to {
		return amount.Round(2)
	}

	switch from {
	case employee.PayFrequencyDaily:
		return amount.Mul(decimal.NewFromInt(int64(daysWorked))).Round(2)
	case employee.PayFrequencyMonthly:
		if to == employee.PayFrequencySemiMonthly {
			return amount.Div(decimal.NewFromInt(2)).Round(2)
		}
	case employee.PayFrequencySemiMonthly:
		if to == employee.PayFrequencyMonthly {
			return amount.Mul(decimal.NewFromInt(2)).Round(2)
		}
	}
	return amount.Round(2)
}

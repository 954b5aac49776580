package payroll

import (
	"testing"

	"buildhr/internal/attendance"
	"buildhr/internal/compensation"
	"buildhr/internal/employee"
	"buildhr/internal/payconfig"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
)

func testMultipliers() payconfig.Multipliers {
	return payconfig.Multipliers{
		OTRegular:              decimal.NewFromFloat(1.25),
		OTSunday:               decimal.NewFromFloat(1.69),
		OTRegularHoliday:       decimal.NewFromFloat(2.60),
		OTRegularHolidaySunday: decimal.NewFromFloat(3.38),
		OTSpecialHoliday:       decimal.NewFromFloat(1.69),
		HolidayRegular:         decimal.NewFromFloat(1.00),
		HolidaySpecial:         decimal.NewFromFloat(0.30),
		HoursPerDay:            decimal.NewFromInt(8),
		WorkingDaysPerMonth:    decimal.NewFromInt(26),
		NightDifferential:      decimal.NewFromFloat(0.10),
	}
}

func dec(s string) decimal.Decimal {
	d, _ := decimal.NewFromString(s)
	return d
}

func testEmployee(dailyRate string) *employee.Employee {
	rate := dec(dailyRate)
	return &employee.Employee{
		ID:              uuid.New(),
		EmployeeNumber:  "EMP-000001",
		Status:          employee.StatusActive,
		PayFrequency:    employee.PayFrequencySemiMonthly,
		CustomDailyRate: &rate,
	}
}

func TestComputeBasicPay(t *testing.T) {
	calc := NewEarningsCalculator(testMultipliers())

	e := calc.Compute(testEmployee("650"), attendance.PeriodSummary{DaysWorked: 12}, nil, employee.PayFrequencySemiMonthly)

	assert.True(t, e.BasicPay.Equal(dec("7800")), "got %s", e.BasicPay)
	assert.True(t, e.GrossPay.Equal(dec("7800")))
	assert.Equal(t, 12, e.DaysWorked)
}

func TestComputeOvertimePerDayType(t *testing.T) {
	calc := NewEarningsCalculator(testMultipliers())

	// 650/day, 81.25/hour. Regular OT 2h at 1.25 = 203.13 (half up),
	// Sunday OT 1h at 1.69 = 137.31.
	summary := attendance.PeriodSummary{
		DaysWorked: 10,
		OvertimeByDayType: map[string]decimal.Decimal{
			attendance.DayTypeRegular: decimal.NewFromInt(2),
			attendance.DayTypeSunday:  decimal.NewFromInt(1),
		},
	}

	e := calc.Compute(testEmployee("650"), summary, nil, employee.PayFrequencySemiMonthly)

	assert.True(t, e.OvertimePay.Equal(dec("340.44")), "got %s", e.OvertimePay)
}

func TestComputeHolidayPay(t *testing.T) {
	calc := NewEarningsCalculator(testMultipliers())

	summary := attendance.PeriodSummary{
		DaysWorked:      11,
		RegularHolidays: 1,
		SpecialHolidays: 1,
	}

	e := calc.Compute(testEmployee("650"), summary, nil, employee.PayFrequencySemiMonthly)

	// One regular holiday at 100% plus one special at 30%.
	assert.True(t, e.HolidayPay.Equal(dec("845")), "got %s", e.HolidayPay)
}

func TestComputeNightDifferential(t *testing.T) {
	calc := NewEarningsCalculator(testMultipliers())

	summary := attendance.PeriodSummary{
		DaysWorked:     10,
		NightDiffHours: decimal.NewFromInt(8),
	}

	e := calc.Compute(testEmployee("650"), summary, nil, employee.PayFrequencySemiMonthly)

	// 8h x 81.25 x 10% = 65.00
	assert.True(t, e.NightDiffPay.Equal(dec("65")), "got %s", e.NightDiffPay)
}

func TestComputeUndertimeReducesGross(t *testing.T) {
	calc := NewEarningsCalculator(testMultipliers())

	summary := attendance.PeriodSummary{
		DaysWorked:     10,
		UndertimeHours: decimal.NewFromInt(3),
	}

	e := calc.Compute(testEmployee("650"), summary, nil, employee.PayFrequencySemiMonthly)

	assert.True(t, e.UndertimeDeduction.Equal(dec("243.75")), "got %s", e.UndertimeDeduction)
	assert.True(t, e.GrossPay.Equal(dec("6256.25")), "got %s", e.GrossPay)
}

func TestComputeAllowancesAndBonusesNormalized(t *testing.T) {
	calc := NewEarningsCalculator(testMultipliers())

	ledger := []compensation.EmployeeAllowance{
		{Type: compensation.AllowanceTypeAllowance, Frequency: employee.PayFrequencyMonthly, Amount: dec("2000")},
		{Type: compensation.AllowanceTypeAllowance, Frequency: employee.PayFrequencyDaily, Amount: dec("50")},
		{Type: compensation.AllowanceTypeBonus, Frequency: employee.PayFrequencySemiMonthly, Amount: dec("500")},
	}

	e := calc.Compute(testEmployee("650"), attendance.PeriodSummary{DaysWorked: 10}, ledger, employee.PayFrequencySemiMonthly)

	// Monthly 2000 halves to 1000, daily 50 x 10 days = 500.
	assert.True(t, e.Allowances.Equal(dec("1500")), "got %s", e.Allowances)
	assert.True(t, e.Bonuses.Equal(dec("500")), "got %s", e.Bonuses)
}

func TestComputeRateFallsBackToBasicSalary(t *testing.T) {
	calc := NewEarningsCalculator(testMultipliers())

	emp := &employee.Employee{
		ID:           uuid.New(),
		Status:       employee.StatusActive,
		PayFrequency: employee.PayFrequencySemiMonthly,
		BasicSalary:  dec("16900"),
	}

	e := calc.Compute(emp, attendance.PeriodSummary{DaysWorked: 13}, nil, employee.PayFrequencySemiMonthly)

	// 16900 / 26 = 650/day.
	assert.True(t, e.Rate.Equal(dec("650")), "got %s", e.Rate)
	assert.True(t, e.BasicPay.Equal(dec("8450")), "got %s", e.BasicPay)
}

func TestComputeZeroDaysWorked(t *testing.T) {
	calc := NewEarningsCalculator(testMultipliers())

	e := calc.Compute(testEmployee("650"), attendance.PeriodSummary{}, nil, employee.PayFrequencySemiMonthly)

	assert.True(t, e.BasicPay.IsZero())
	assert.True(t, e.GrossPay.IsZero())
}

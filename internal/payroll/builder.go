package payroll

import (
	"context"
	"time"

	"buildhr/internal/attendance"
	"buildhr/internal/compensation"
	"buildhr/internal/employee"

	"github.com/google/uuid"
)

// ItemInput carries everything a single employee's computation needs. The
// caller resolves it up front so building an item never touches the database.
type ItemInput struct {
	Employee   *employee.Employee
	Summary    attendance.PeriodSummary
	Allowances []compensation.EmployeeAllowance
	Loans      []compensation.EmployeeLoan
	Deductions []compensation.EmployeeDeduction
}

// ItemBuilder turns one employee's inputs into a PayrollItem. The same inputs
// always produce the same item, which is what makes recomputing a period a
// pure replace.
type ItemBuilder struct {
	earnings   *EarningsCalculator
	deductions *DeductionCalculator
}

func NewItemBuilder(earnings *EarningsCalculator, deductions *DeductionCalculator) *ItemBuilder {
	return &ItemBuilder{earnings: earnings, deductions: deductions}
}

func (b *ItemBuilder) Build(
	ctx context.Context,
	payrollID uuid.UUID,
	in ItemInput,
	periodFrequency string,
	asOf time.Time,
) (PayrollItem, []compensation.PayrollCharge, []string, error) {
	e := b.earnings.Compute(in.Employee, in.Summary, in.Allowances, periodFrequency)

	d, err := b.deductions.Compute(ctx, in.Employee, e.GrossPay, in.Loans, in.Deductions, periodFrequency, asOf)
	if err != nil {
		return PayrollItem{}, nil, nil, err
	}

	item := PayrollItem{
		PayrollID:  payrollID,
		EmployeeID: in.Employee.ID,

		Rate:       e.Rate,
		DaysWorked: e.DaysWorked,

		BasicPay:     e.BasicPay,
		OvertimePay:  e.OvertimePay,
		HolidayPay:   e.HolidayPay,
		NightDiffPay: e.NightDiffPay,
		Allowances:   e.Allowances,
		Bonuses:      e.Bonuses,
		Undertime:    e.UndertimeDeduction,
		GrossPay:     e.GrossPay,

		SSS:             d.SSS,
		PhilHealth:      d.PhilHealth,
		Pagibig:         d.Pagibig,
		WithholdingTax:  d.WithholdingTax,
		LoanDeductions:  d.LoanDeductions,
		OtherDeductions: d.OtherDeductions,
		TotalDeductions: d.Total,

		// Net pay may go negative when deductions exceed earnings; the
		// period stays in processing until someone fixes the inputs, so the
		// number is kept honest rather than clamped.
		NetPay: e.GrossPay.Sub(d.Total),
	}

	return item, d.Charges, d.Warnings, nil
}

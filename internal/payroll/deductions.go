package payroll

import (
	"context"
	"errors"
	"fmt"
	"time"

	"buildhr/internal/compensation"
	"buildhr/internal/employee"
	"buildhr/internal/govrate"
	govrateerrors "buildhr/internal/govrate/errors"

	"github.com/shopspring/decimal"
)

// Deductions is the typed result of the deduction side of one employee's
// computation. Charges carries the per-loan and per-deduction lines frozen
// for later settlement. Warnings record every fallback taken so a payroll
// run is never silently wrong.
type Deductions struct {
	SSS             decimal.Decimal
	PhilHealth      decimal.Decimal
	Pagibig         decimal.Decimal
	WithholdingTax  decimal.Decimal
	LoanDeductions  decimal.Decimal
	OtherDeductions decimal.Decimal
	Total           decimal.Decimal
	Charges         []compensation.PayrollCharge
	Warnings        []string
}

// DeductionCalculator computes statutory contributions, withholding tax, and
// ledger charges. Contribution brackets are monthly, so period amounts derive
// from a monthly salary estimate of periodGross x periodsPerMonth -- a
// documented approximation for irregular periods.
type DeductionCalculator struct {
	resolver govrate.Resolver
}

func NewDeductionCalculator(resolver govrate.Resolver) *DeductionCalculator {
	return &DeductionCalculator{resolver: resolver}
}

func (c *DeductionCalculator) Compute(
	ctx context.Context,
	emp *employee.Employee,
	grossPay decimal.Decimal,
	loans []compensation.EmployeeLoan,
	otherDeductions []compensation.EmployeeDeduction,
	periodFrequency string,
	asOf time.Time,
) (Deductions, error) {
	d := Deductions{}
	periodsPerMonth := compensation.PeriodsPerMonth(periodFrequency)
	monthlyEstimate := grossPay.Mul(periodsPerMonth)

	var err error
	d.SSS, err = c.contribution(ctx, &d, govrate.RateTypeSSS,
		emp.HasSSS, emp.CustomSSS, monthlyEstimate, periodsPerMonth, asOf, legacySSS)
	if err != nil {
		return Deductions{}, err
	}
	d.PhilHealth, err = c.contribution(ctx, &d, govrate.RateTypePhilHealth,
		emp.HasPhilHealth, emp.CustomPhilHealth, monthlyEstimate, periodsPerMonth, asOf, legacyPhilHealth)
	if err != nil {
		return Deductions{}, err
	}
	d.Pagibig, err = c.contribution(ctx, &d, govrate.RateTypePagibig,
		emp.HasPagibig, emp.CustomPagibig, monthlyEstimate, periodsPerMonth, asOf, legacyPagibig)
	if err != nil {
		return Deductions{}, err
	}

	taxable := grossPay.Sub(d.SSS).Sub(d.PhilHealth).Sub(d.Pagibig)
	d.WithholdingTax, err = c.withholdingTax(ctx, &d, taxable, periodFrequency, periodsPerMonth, asOf)
	if err != nil {
		return Deductions{}, err
	}

	for _, loan := range loans {
		due := compensation.LoanChargeDue(loan, periodsPerMonth)
		if !due.IsPositive() {
			continue
		}
		d.LoanDeductions = d.LoanDeductions.Add(due)
		d.Charges = append(d.Charges, compensation.PayrollCharge{
			EmployeeID: emp.ID,
			SourceType: compensation.ChargeSourceLoan,
			SourceID:   loan.ID,
			Amount:     due,
		})
	}
	for _, ded := range otherDeductions {
		due := compensation.DeductionChargeDue(ded, periodsPerMonth)
		if !due.IsPositive() {
			continue
		}
		d.OtherDeductions = d.OtherDeductions.Add(due)
		d.Charges = append(d.Charges, compensation.PayrollCharge{
			EmployeeID: emp.ID,
			SourceType: compensation.ChargeSourceDeduction,
			SourceID:   ded.ID,
			Amount:     due,
		})
	}

	d.Total = d.SSS.
		Add(d.PhilHealth).
		Add(d.Pagibig).
		Add(d.WithholdingTax).
		Add(d.LoanDeductions).
		Add(d.OtherDeductions)

	return d, nil
}

// contribution applies the shared fund rules: a disabled flag always wins, a
// custom override wins over the table, then the bracket's fixed amount or
// percentage applies, pro-rated from monthly to the period. Percentage
// brackets contribute on the salary clamped into the bracket's monthly band,
// so the top-row fallback caps at its ceiling. When the table has no bracket
// the per-fund legacy ladder runs instead and a warning is recorded.
func (c *DeductionCalculator) contribution(
	ctx context.Context,
	d *Deductions,
	rateType string,
	enabled bool,
	override *decimal.Decimal,
	monthlyEstimate decimal.Decimal,
	periodsPerMonth decimal.Decimal,
	asOf time.Time,
	legacy func(monthly decimal.Decimal) decimal.Decimal,
) (decimal.Decimal, error) {
	if !enabled {
		return decimal.Zero, nil
	}
	if override != nil {
		return override.Round(2), nil
	}

	bracket, err := c.resolver.Resolve(ctx, rateType, "", monthlyEstimate, asOf)
	if err != nil {
		if errors.Is(err, govrateerrors.ErrBracketNotFound) {
			d.Warnings = append(d.Warnings, fmt.Sprintf(
				"%s: no bracket for monthly salary %s as of %s, legacy default applied",
				rateType, monthlyEstimate.StringFixed(2), asOf.Format("2006-01-02"),
			))
			monthly := legacy(monthlyEstimate)
			return monthly.Div(periodsPerMonth).Round(2), nil
		}
		return decimal.Zero, err
	}

	monthly := bracket.EmployeeAmount
	if !monthly.IsPositive() {
		base := monthlyEstimate
		if base.LessThan(bracket.MinSalary) {
			base = bracket.MinSalary
		}
		if bracket.MaxSalary != nil && base.GreaterThan(*bracket.MaxSalary) {
			base = *bracket.MaxSalary
		}
		monthly = base.Mul(bracket.EmployeeRate)
	}
	return monthly.Div(periodsPerMonth).Round(2), nil
}

// withholdingTax applies the progressive formula over the bracket matched by
// the period-typed taxable amount: base + (taxable - floor) x rate.
func (c *DeductionCalculator) withholdingTax(
	ctx context.Context,
	d *Deductions,
	taxable decimal.Decimal,
	periodFrequency string,
	periodsPerMonth decimal.Decimal,
	asOf time.Time,
) (decimal.Decimal, error) {
	if !taxable.IsPositive() {
		return decimal.Zero, nil
	}

	bracket, err := c.resolver.Resolve(ctx, govrate.RateTypeTax, periodFrequency, taxable, asOf)
	if err != nil {
		if errors.Is(err, govrateerrors.ErrBracketNotFound) {
			d.Warnings = append(d.Warnings, fmt.Sprintf(
				"tax: no %s bracket for taxable %s as of %s, legacy default applied",
				periodFrequency, taxable.StringFixed(2), asOf.Format("2006-01-02"),
			))
			return legacyWithholdingTax(taxable, periodsPerMonth), nil
		}
		return decimal.Zero, err
	}

	tax := bracket.BaseTax.Add(taxable.Sub(bracket.MinSalary).Mul(bracket.EmployeeRate)).Round(2)
	if tax.IsNegative() {
		return decimal.Zero, nil
	}
	return tax, nil
}

// Legacy ladders. These are the hardcoded constants the table-driven rates
// replaced; they survive only as last-resort defaults and every use is
// surfaced as a warning.

func legacySSS(monthly decimal.Decimal) decimal.Decimal {
	msc := clamp(monthly, decimal.NewFromInt(4000), decimal.NewFromInt(30000))
	return msc.Mul(decimal.NewFromFloat(0.045))
}

func legacyPhilHealth(monthly decimal.Decimal) decimal.Decimal {
	base := clamp(monthly, decimal.NewFromInt(10000), decimal.NewFromInt(100000))
	// 5% premium, employee share half.
	return base.Mul(decimal.NewFromFloat(0.05)).Div(decimal.NewFromInt(2))
}

func legacyPagibig(monthly decimal.Decimal) decimal.Decimal {
	base := clamp(monthly, decimal.Zero, decimal.NewFromInt(10000))
	rate := decimal.NewFromFloat(0.02)
	if base.LessThanOrEqual(decimal.NewFromInt(1500)) {
		rate = decimal.NewFromFloat(0.01)
	}
	return base.Mul(rate)
}

func legacyWithholdingTax(taxable, periodsPerMonth decimal.Decimal) decimal.Decimal {
	// First rung of the legacy ladder: the annual exemption periodized, 20%
	// on the excess.
	periodsPerYear := periodsPerMonth.Mul(decimal.NewFromInt(12))
	exempt := decimal.NewFromInt(250000).Div(periodsPerYear)
	if taxable.LessThanOrEqual(exempt) {
		return decimal.Zero
	}
	return taxable.Sub(exempt).Mul(decimal.NewFromFloat(0.20)).Round(2)
}

func clamp(v, min, max decimal.Decimal) decimal.Decimal {
	if v.LessThan(min) {
		return min
	}
	if v.GreaterThan(max) {
		return max
	}
	return v
}

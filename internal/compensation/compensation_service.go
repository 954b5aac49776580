package compensation

import (
	"context"
	"database/sql"
	"time"

	"buildhr/internal/shared/apperror"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

var two = decimal.NewFromInt(2)

// LoanChargeDue is the per-period loan charge: the monthly amortization
// spread over the pay periods in a month, capped at the remaining balance.
// The deduction calculator freezes this amount into the item's charge lines
// at processing time; settlement posts the frozen lines.
func LoanChargeDue(l EmployeeLoan, periodsPerMonth decimal.Decimal) decimal.Decimal {
	if !periodsPerMonth.IsPositive() || !l.Balance.IsPositive() {
		return decimal.Zero
	}
	due := l.Amortization.Div(periodsPerMonth).Round(2)
	if due.GreaterThan(l.Balance) {
		return l.Balance
	}
	return due
}

// DeductionChargeDue mirrors LoanChargeDue for declining-balance deductions.
func DeductionChargeDue(d EmployeeDeduction, periodsPerMonth decimal.Decimal) decimal.Decimal {
	if !periodsPerMonth.IsPositive() || !d.Balance.IsPositive() {
		return decimal.Zero
	}
	due := d.Amount.Div(periodsPerMonth).Round(2)
	if due.GreaterThan(d.Balance) {
		return d.Balance
	}
	return due
}

// PeriodsPerMonth maps a pay frequency to how many periods make one month.
func PeriodsPerMonth(payFrequency string) decimal.Decimal {
	switch payFrequency {
	case "semi_monthly":
		return two
	default:
		return decimal.NewFromInt(1)
	}
}

//go:generate mockgen -source=compensation_service.go -destination=mock/compensation_service_mock.go -package=mock
type Service interface {
	GetEmployeeLedger(ctx context.Context, employeeID string, periodStart, periodEnd time.Time) (LedgerResponse, error)
	GrantAllowance(ctx context.Context, employeeID string, req CreateAllowanceRequest) (AllowanceResponse, error)
	GrantDeduction(ctx context.Context, employeeID string, req CreateDeductionRequest) (DeductionResponse, error)
	GrantLoan(ctx context.Context, employeeID string, req CreateLoanRequest) (LoanResponse, error)
	Settle(ctx context.Context, tx *sql.Tx, payrollItemID string, paidAt time.Time) error
}

type service struct {
	db   *sql.DB
	repo Repository
}

func NewService(db *sql.DB, repo Repository) Service {
	return &service{db: db, repo: repo}
}

func (s *service) GetEmployeeLedger(ctx context.Context, employeeID string, periodStart, periodEnd time.Time) (LedgerResponse, error) {
	allowances, err := s.repo.FindActiveAllowances(ctx, employeeID, periodStart, periodEnd)
	if err != nil {
		return LedgerResponse{}, err
	}
	deductions, err := s.repo.FindActiveDeductions(ctx, employeeID)
	if err != nil {
		return LedgerResponse{}, err
	}
	loans, err := s.repo.FindActiveLoans(ctx, employeeID)
	if err != nil {
		return LedgerResponse{}, err
	}

	return mapToLedgerResponse(employeeID, allowances, deductions, loans), nil
}

func (s *service) GrantAllowance(ctx context.Context, employeeID string, req CreateAllowanceRequest) (AllowanceResponse, error) {
	empID, err := uuid.Parse(employeeID)
	if err != nil {
		return AllowanceResponse{}, apperror.InvalidField("employee_id")
	}
	if !req.Amount.IsPositive() {
		return AllowanceResponse{}, apperror.InvalidField("amount")
	}
	effectiveFrom, err := time.Parse("2006-01-02", req.EffectiveFrom)
	if err != nil {
		return AllowanceResponse{}, apperror.InvalidField("effective_from")
	}
	var effectiveTo *time.Time
	if req.EffectiveTo != nil && *req.EffectiveTo != "" {
		d, err := time.Parse("2006-01-02", *req.EffectiveTo)
		if err != nil {
			return AllowanceResponse{}, apperror.InvalidField("effective_to")
		}
		if d.Before(effectiveFrom) {
			return AllowanceResponse{}, apperror.InvalidField("effective_to")
		}
		effectiveTo = &d
	}

	rowType := req.Type
	if rowType == "" {
		rowType = AllowanceTypeAllowance
	}
	frequency := req.Frequency
	if frequency == "" {
		frequency = "monthly"
	}

	row := &EmployeeAllowance{
		ID:            uuid.New(),
		EmployeeID:    empID,
		Name:          req.Name,
		Type:          rowType,
		Amount:        req.Amount,
		Frequency:     frequency,
		EffectiveFrom: effectiveFrom,
		EffectiveTo:   effectiveTo,
		IsActive:      true,
	}
	if err := s.create(ctx, func(repo Repository) error {
		return repo.CreateAllowance(ctx, row)
	}); err != nil {
		return AllowanceResponse{}, err
	}

	return mapToAllowanceResponse(*row), nil
}

func (s *service) GrantDeduction(ctx context.Context, employeeID string, req CreateDeductionRequest) (DeductionResponse, error) {
	empID, err := uuid.Parse(employeeID)
	if err != nil {
		return DeductionResponse{}, apperror.InvalidField("employee_id")
	}
	if !req.Amount.IsPositive() {
		return DeductionResponse{}, apperror.InvalidField("amount")
	}
	if !req.Balance.IsPositive() {
		return DeductionResponse{}, apperror.InvalidField("balance")
	}

	row := &EmployeeDeduction{
		ID:         uuid.New(),
		EmployeeID: empID,
		Name:       req.Name,
		Amount:     req.Amount,
		Balance:    req.Balance,
		IsActive:   true,
	}
	if err := s.create(ctx, func(repo Repository) error {
		return repo.CreateDeduction(ctx, row)
	}); err != nil {
		return DeductionResponse{}, err
	}

	return mapToDeductionResponse(*row), nil
}

func (s *service) GrantLoan(ctx context.Context, employeeID string, req CreateLoanRequest) (LoanResponse, error) {
	empID, err := uuid.Parse(employeeID)
	if err != nil {
		return LoanResponse{}, apperror.InvalidField("employee_id")
	}
	if !req.Principal.IsPositive() {
		return LoanResponse{}, apperror.InvalidField("principal")
	}
	if !req.Amortization.IsPositive() || req.Amortization.GreaterThan(req.Principal) {
		return LoanResponse{}, apperror.InvalidField("amortization")
	}
	startDate, err := time.Parse("2006-01-02", req.StartDate)
	if err != nil {
		return LoanResponse{}, apperror.InvalidField("start_date")
	}

	loanType := req.LoanType
	if loanType == "" {
		loanType = "company"
	}

	// A new loan opens with the full principal outstanding.
	row := &EmployeeLoan{
		ID:           uuid.New(),
		EmployeeID:   empID,
		LoanType:     loanType,
		Principal:    req.Principal,
		Balance:      req.Principal,
		Amortization: req.Amortization,
		StartDate:    startDate,
		Status:       LoanStatusActive,
	}
	if err := s.create(ctx, func(repo Repository) error {
		return repo.CreateLoan(ctx, row)
	}); err != nil {
		return LoanResponse{}, err
	}

	return mapToLoanResponse(*row), nil
}

func (s *service) create(ctx context.Context, write func(repo Repository) error) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer tx.Rollback()

	if err := write(s.repo.WithTx(tx)); err != nil {
		return err
	}
	return tx.Commit()
}

// Settle posts the charge lines frozen with a payroll item against their loan
// and deduction balances. Runs inside the caller's transaction: settlement
// belongs to the paid transition, never to draft computation. A ledger row
// without a frozen line is left alone, since nothing was withheld for it.
func (s *service) Settle(
	ctx context.Context,
	tx *sql.Tx,
	payrollItemID string,
	paidAt time.Time,
) error {
	qtx := s.repo.WithTx(tx)

	itemID, err := uuid.Parse(payrollItemID)
	if err != nil {
		return err
	}

	charges, err := qtx.FindCharges(ctx, payrollItemID)
	if err != nil {
		return err
	}
	for _, charge := range charges {
		switch charge.SourceType {
		case ChargeSourceLoan:
			if err := settleLoanCharge(ctx, qtx, charge, itemID, paidAt); err != nil {
				return err
			}
		case ChargeSourceDeduction:
			if err := settleDeductionCharge(ctx, qtx, charge); err != nil {
				return err
			}
		}
	}

	return nil
}

func settleLoanCharge(ctx context.Context, repo Repository, charge PayrollCharge, itemID uuid.UUID, paidAt time.Time) error {
	loan, err := repo.FindLoan(ctx, charge.SourceID.String())
	if err != nil {
		return err
	}

	// The frozen amount was capped at the balance when it was computed; the
	// cap here only matters if the balance moved underneath it.
	due := charge.Amount
	if due.GreaterThan(loan.Balance) {
		due = loan.Balance
	}
	if !due.IsPositive() {
		return nil
	}

	loan.Balance = loan.Balance.Sub(due)
	if !loan.Balance.IsPositive() {
		loan.Balance = decimal.Zero
		loan.Status = LoanStatusPaid
	}
	if err := repo.UpdateLoan(ctx, loan); err != nil {
		return err
	}
	return repo.CreateLoanPayment(ctx, &LoanPayment{
		LoanID:        loan.ID,
		PayrollItemID: itemID,
		Amount:        due,
		PaidAt:        paidAt,
	})
}

func settleDeductionCharge(ctx context.Context, repo Repository, charge PayrollCharge) error {
	d, err := repo.FindDeduction(ctx, charge.SourceID.String())
	if err != nil {
		return err
	}

	due := charge.Amount
	if due.GreaterThan(d.Balance) {
		due = d.Balance
	}
	if !due.IsPositive() {
		return nil
	}

	d.Balance = d.Balance.Sub(due)
	d.InstallmentsPaid++
	if !d.Balance.IsPositive() {
		d.Balance = decimal.Zero
		d.IsActive = false
	}
	return repo.UpdateDeduction(ctx, d)
}

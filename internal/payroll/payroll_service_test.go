package payroll_test

import (
	"context"
	"database/sql"
	"errors"
	"testing"
	"time"

	"buildhr/internal/attendance"
	"buildhr/internal/compensation"
	"buildhr/internal/employee"
	"buildhr/internal/govrate"
	govrateerrors "buildhr/internal/govrate/errors"
	"buildhr/internal/messaging/kafka"
	"buildhr/internal/payconfig"
	"buildhr/internal/payroll"
	payrollerrors "buildhr/internal/payroll/errors"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

func dec(s string) decimal.Decimal {
	d, _ := decimal.NewFromString(s)
	return d
}

// --- fakes ---

type fakePayrollRepository struct {
	withTxFn               func(tx *sql.Tx) payroll.Repository
	createFn               func(ctx context.Context, p *payroll.PayrollPeriod) error
	findByIDFn             func(ctx context.Context, id string) (*payroll.PayrollPeriod, error)
	findAllFn              func(ctx context.Context, filter payroll.ListFilter) ([]payroll.PayrollPeriod, error)
	hasOverlappingPeriodFn func(ctx context.Context, periodStart, periodEnd time.Time, excludeID *string) (bool, error)
	existsPeriodKeyFn      func(ctx context.Context, year, month, payPeriodNumber int) (bool, error)
	updateWithVersionFn    func(ctx context.Context, p *payroll.PayrollPeriod, expectedVersion int64) (bool, error)
	replaceItemsFn         func(ctx context.Context, payrollID uuid.UUID, items []payroll.PayrollItem, charges []compensation.PayrollCharge) error
	findItemsFn            func(ctx context.Context, payrollID uuid.UUID) ([]payroll.PayrollItem, error)
	countItemsFn           func(ctx context.Context, payrollID uuid.UUID) (int64, error)
}

func (f *fakePayrollRepository) WithTx(tx *sql.Tx) payroll.Repository {
	if f.withTxFn != nil {
		return f.withTxFn(tx)
	}
	return f
}

func (f *fakePayrollRepository) Create(ctx context.Context, p *payroll.PayrollPeriod) error {
	if f.createFn != nil {
		return f.createFn(ctx, p)
	}
	return nil
}

func (f *fakePayrollRepository) FindByID(ctx context.Context, id string) (*payroll.PayrollPeriod, error) {
	if f.findByIDFn != nil {
		return f.findByIDFn(ctx, id)
	}
	return nil, gorm.ErrRecordNotFound
}

func (f *fakePayrollRepository) FindAll(ctx context.Context, filter payroll.ListFilter) ([]payroll.PayrollPeriod, error) {
	if f.findAllFn != nil {
		return f.findAllFn(ctx, filter)
	}
	return nil, nil
}

func (f *fakePayrollRepository) HasOverlappingPeriod(ctx context.Context, periodStart, periodEnd time.Time, excludeID *string) (bool, error) {
	if f.hasOverlappingPeriodFn != nil {
		return f.hasOverlappingPeriodFn(ctx, periodStart, periodEnd, excludeID)
	}
	return false, nil
}

func (f *fakePayrollRepository) ExistsPeriodKey(ctx context.Context, year, month, payPeriodNumber int) (bool, error) {
	if f.existsPeriodKeyFn != nil {
		return f.existsPeriodKeyFn(ctx, year, month, payPeriodNumber)
	}
	return false, nil
}

func (f *fakePayrollRepository) UpdateWithVersion(ctx context.Context, p *payroll.PayrollPeriod, expectedVersion int64) (bool, error) {
	if f.updateWithVersionFn != nil {
		return f.updateWithVersionFn(ctx, p, expectedVersion)
	}
	return true, nil
}

func (f *fakePayrollRepository) ReplaceItems(ctx context.Context, payrollID uuid.UUID, items []payroll.PayrollItem, charges []compensation.PayrollCharge) error {
	if f.replaceItemsFn != nil {
		return f.replaceItemsFn(ctx, payrollID, items, charges)
	}
	return nil
}

func (f *fakePayrollRepository) FindItems(ctx context.Context, payrollID uuid.UUID) ([]payroll.PayrollItem, error) {
	if f.findItemsFn != nil {
		return f.findItemsFn(ctx, payrollID)
	}
	return nil, nil
}

func (f *fakePayrollRepository) CountItems(ctx context.Context, payrollID uuid.UUID) (int64, error) {
	if f.countItemsFn != nil {
		return f.countItemsFn(ctx, payrollID)
	}
	return 0, nil
}

type fakeEmployeeRepository struct {
	findByIDFn  func(ctx context.Context, id string) (*employee.Employee, error)
	findByIDsFn func(ctx context.Context, ids []string) ([]employee.Employee, error)
	findActive  func(ctx context.Context, filter employee.RosterFilter) ([]employee.Employee, error)
}

func (f *fakeEmployeeRepository) FindByID(ctx context.Context, id string) (*employee.Employee, error) {
	if f.findByIDFn != nil {
		return f.findByIDFn(ctx, id)
	}
	return nil, gorm.ErrRecordNotFound
}

func (f *fakeEmployeeRepository) FindByIDs(ctx context.Context, ids []string) ([]employee.Employee, error) {
	if f.findByIDsFn != nil {
		return f.findByIDsFn(ctx, ids)
	}
	return nil, nil
}

func (f *fakeEmployeeRepository) FindActive(ctx context.Context, filter employee.RosterFilter) ([]employee.Employee, error) {
	if f.findActive != nil {
		return f.findActive(ctx, filter)
	}
	return nil, nil
}

type fakeAttendanceService struct {
	summarizeFn func(ctx context.Context, employeeID string, periodStart, periodEnd time.Time) (attendance.PeriodSummary, error)
}

func (f *fakeAttendanceService) Summarize(ctx context.Context, employeeID string, periodStart, periodEnd time.Time) (attendance.PeriodSummary, error) {
	if f.summarizeFn != nil {
		return f.summarizeFn(ctx, employeeID, periodStart, periodEnd)
	}
	return attendance.PeriodSummary{}, nil
}

func (f *fakeAttendanceService) GetByEmployee(ctx context.Context, employeeID string, periodStart, periodEnd time.Time) ([]attendance.AttendanceResponse, error) {
	return nil, nil
}

type fakeCompensationRepository struct {
	findActiveAllowancesFn func(ctx context.Context, employeeID string, periodStart, periodEnd time.Time) ([]compensation.EmployeeAllowance, error)
	findActiveDeductionsFn func(ctx context.Context, employeeID string) ([]compensation.EmployeeDeduction, error)
	findActiveLoansFn      func(ctx context.Context, employeeID string) ([]compensation.EmployeeLoan, error)
}

func (f *fakeCompensationRepository) WithTx(tx *sql.Tx) compensation.Repository { return f }

func (f *fakeCompensationRepository) FindActiveAllowances(ctx context.Context, employeeID string, periodStart, periodEnd time.Time) ([]compensation.EmployeeAllowance, error) {
	if f.findActiveAllowancesFn != nil {
		return f.findActiveAllowancesFn(ctx, employeeID, periodStart, periodEnd)
	}
	return nil, nil
}

func (f *fakeCompensationRepository) FindActiveDeductions(ctx context.Context, employeeID string) ([]compensation.EmployeeDeduction, error) {
	if f.findActiveDeductionsFn != nil {
		return f.findActiveDeductionsFn(ctx, employeeID)
	}
	return nil, nil
}

func (f *fakeCompensationRepository) FindActiveLoans(ctx context.Context, employeeID string) ([]compensation.EmployeeLoan, error) {
	if f.findActiveLoansFn != nil {
		return f.findActiveLoansFn(ctx, employeeID)
	}
	return nil, nil
}

func (f *fakeCompensationRepository) FindLoan(ctx context.Context, id string) (*compensation.EmployeeLoan, error) {
	return nil, gorm.ErrRecordNotFound
}

func (f *fakeCompensationRepository) FindDeduction(ctx context.Context, id string) (*compensation.EmployeeDeduction, error) {
	return nil, gorm.ErrRecordNotFound
}

func (f *fakeCompensationRepository) FindCharges(ctx context.Context, payrollItemID string) ([]compensation.PayrollCharge, error) {
	return nil, nil
}

func (f *fakeCompensationRepository) CreateAllowance(ctx context.Context, a *compensation.EmployeeAllowance) error {
	return nil
}

func (f *fakeCompensationRepository) CreateDeduction(ctx context.Context, d *compensation.EmployeeDeduction) error {
	return nil
}

func (f *fakeCompensationRepository) CreateLoan(ctx context.Context, l *compensation.EmployeeLoan) error {
	return nil
}

func (f *fakeCompensationRepository) UpdateDeduction(ctx context.Context, d *compensation.EmployeeDeduction) error {
	return nil
}

func (f *fakeCompensationRepository) UpdateLoan(ctx context.Context, l *compensation.EmployeeLoan) error {
	return nil
}

func (f *fakeCompensationRepository) CreateLoanPayment(ctx context.Context, p *compensation.LoanPayment) error {
	return nil
}

type fakeCompensationService struct {
	settleFn func(ctx context.Context, tx *sql.Tx, payrollItemID string, paidAt time.Time) error
}

func (f *fakeCompensationService) GetEmployeeLedger(ctx context.Context, employeeID string, periodStart, periodEnd time.Time) (compensation.LedgerResponse, error) {
	return compensation.LedgerResponse{}, nil
}

func (f *fakeCompensationService) GrantAllowance(ctx context.Context, employeeID string, req compensation.CreateAllowanceRequest) (compensation.AllowanceResponse, error) {
	return compensation.AllowanceResponse{}, nil
}

func (f *fakeCompensationService) GrantDeduction(ctx context.Context, employeeID string, req compensation.CreateDeductionRequest) (compensation.DeductionResponse, error) {
	return compensation.DeductionResponse{}, nil
}

func (f *fakeCompensationService) GrantLoan(ctx context.Context, employeeID string, req compensation.CreateLoanRequest) (compensation.LoanResponse, error) {
	return compensation.LoanResponse{}, nil
}

func (f *fakeCompensationService) Settle(ctx context.Context, tx *sql.Tx, payrollItemID string, paidAt time.Time) error {
	if f.settleFn != nil {
		return f.settleFn(ctx, tx, payrollItemID, paidAt)
	}
	return nil
}

type fakePayconfigService struct{}

func (f *fakePayconfigService) Multipliers(ctx context.Context) (payconfig.Multipliers, error) {
	return payconfig.Multipliers{
		OTRegular:              dec("1.25"),
		OTSunday:               dec("1.69"),
		OTRegularHoliday:       dec("2.60"),
		OTRegularHolidaySunday: dec("3.38"),
		OTSpecialHoliday:       dec("1.69"),
		HolidayRegular:         dec("1.00"),
		HolidaySpecial:         dec("0.30"),
		HoursPerDay:            dec("8"),
		WorkingDaysPerMonth:    dec("26"),
		NightDifferential:      dec("0.10"),
	}, nil
}

func (f *fakePayconfigService) GetAll(ctx context.Context) ([]payconfig.ConfigResponse, error) {
	return nil, nil
}

func (f *fakePayconfigService) Set(ctx context.Context, req payconfig.SetConfigRequest) (payconfig.ConfigResponse, error) {
	return payconfig.ConfigResponse{}, nil
}

type fakeResolver struct {
	resolveFn func(ctx context.Context, rateType, periodType string, salary decimal.Decimal, asOf time.Time) (govrate.Bracket, error)
}

func (f *fakeResolver) Resolve(ctx context.Context, rateType, periodType string, salary decimal.Decimal, asOf time.Time) (govrate.Bracket, error) {
	if f.resolveFn != nil {
		return f.resolveFn(ctx, rateType, periodType, salary, asOf)
	}
	return govrate.Bracket{}, govrateerrors.ErrBracketNotFound
}

func (f *fakeResolver) Invalidate(rateType string) {}

type fakeCounterRepository struct {
	next int64
}

func (f *fakeCounterRepository) GetNextValue(ctx context.Context, counterType string) (int64, error) {
	f.next++
	return f.next, nil
}

type fakeOutboxRepository struct {
	events []kafka.OutboxEvent
}

func (f *fakeOutboxRepository) WithTx(tx *sql.Tx) kafka.OutboxRepository { return f }

func (f *fakeOutboxRepository) Create(ctx context.Context, event kafka.OutboxEvent) error {
	f.events = append(f.events, event)
	return nil
}

func (f *fakeOutboxRepository) ListPending(ctx context.Context, limit int) ([]kafka.OutboxEvent, error) {
	return nil, nil
}

func (f *fakeOutboxRepository) MarkSent(ctx context.Context, id string) error { return nil }

func (f *fakeOutboxRepository) MarkFailed(ctx context.Context, id string, reason string) error {
	return nil
}

// --- harness ---

type serviceDeps struct {
	db        *sql.DB
	sqlMock   sqlmock.Sqlmock
	service   payroll.Service
	repo      *fakePayrollRepository
	employees *fakeEmployeeRepository
	comp      *fakeCompensationRepository
	settle    *fakeCompensationService
	outbox    *fakeOutboxRepository
}

func setupServiceTest(t *testing.T) *serviceDeps {
	t.Helper()

	db, sqlMock, err := sqlmock.New()
	assert.NoError(t, err)
	t.Cleanup(func() { db.Close() })

	deps := &serviceDeps{
		db:        db,
		sqlMock:   sqlMock,
		repo:      &fakePayrollRepository{},
		employees: &fakeEmployeeRepository{},
		comp:      &fakeCompensationRepository{},
		settle:    &fakeCompensationService{},
		outbox:    &fakeOutboxRepository{},
	}

	deps.service = payroll.NewService(
		db,
		deps.repo,
		deps.employees,
		&fakeAttendanceService{
			summarizeFn: func(context.Context, string, time.Time, time.Time) (attendance.PeriodSummary, error) {
				return attendance.PeriodSummary{DaysWorked: 10}, nil
			},
		},
		deps.comp,
		deps.settle,
		&fakePayconfigService{},
		&fakeResolver{
			resolveFn: func(_ context.Context, rateType, _ string, _ decimal.Decimal, _ time.Time) (govrate.Bracket, error) {
				return govrate.Bracket{EmployeeAmount: dec("200"), MinSalary: dec("0")}, nil
			},
		},
		&fakeCounterRepository{next: 6},
		deps.outbox,
		zap.NewNop(),
	)

	return deps
}

func expectTx(t *testing.T, mock sqlmock.Sqlmock, commit bool) {
	t.Helper()
	mock.ExpectBegin()
	if commit {
		mock.ExpectCommit()
	} else {
		mock.ExpectRollback()
	}
}

func draftPeriod() *payroll.PayrollPeriod {
	return &payroll.PayrollPeriod{
		ID:              uuid.New(),
		PayrollNumber:   "PAY-2026-000001",
		PeriodStart:     time.Date(2026, 2, 1, 0, 0, 0, 0, time.UTC),
		PeriodEnd:       time.Date(2026, 2, 15, 0, 0, 0, 0, time.UTC),
		PaymentDate:     time.Date(2026, 2, 20, 0, 0, 0, 0, time.UTC),
		Year:            2026,
		Month:           2,
		PayPeriodNumber: 1,
		PayFrequency:    employee.PayFrequencySemiMonthly,
		Status:          payroll.StatusDraft,
		Version:         1,
	}
}

func rosterOf(n int) []employee.Employee {
	rate := dec("650")
	roster := make([]employee.Employee, 0, n)
	for i := 0; i < n; i++ {
		roster = append(roster, employee.Employee{
			ID:              uuid.New(),
			EmployeeNumber:  "EMP-00000" + string(rune('1'+i)),
			Status:          employee.StatusActive,
			PayFrequency:    employee.PayFrequencySemiMonthly,
			CustomDailyRate: &rate,
			HasSSS:          true,
			HasPhilHealth:   true,
			HasPagibig:      true,
		})
	}
	return roster
}

// --- CreatePeriod ---

func TestCreatePeriodSuccess(t *testing.T) {
	deps := setupServiceTest(t)
	actor := uuid.New().String()

	var created *payroll.PayrollPeriod
	deps.repo.createFn = func(_ context.Context, p *payroll.PayrollPeriod) error {
		created = p
		return nil
	}

	expectTx(t, deps.sqlMock, true)

	resp, err := deps.service.CreatePeriod(context.Background(), actor, payroll.CreatePeriodRequest{
		PeriodStart:     "2026-02-01",
		PeriodEnd:       "2026-02-15",
		PaymentDate:     "2026-02-20",
		PayPeriodNumber: 1,
	})

	assert.NoError(t, err)
	assert.Equal(t, payroll.StatusDraft, resp.Status)
	assert.Equal(t, "PAY-2026-000007", resp.PayrollNumber)
	assert.Equal(t, int64(1), resp.Version)
	assert.Equal(t, 2026, resp.Year)
	assert.Equal(t, 2, resp.Month)
	assert.Equal(t, "semi_monthly", resp.PayFrequency)
	assert.NotNil(t, created)
	assert.Len(t, deps.outbox.events, 1)
	assert.Equal(t, "payroll_period_created", deps.outbox.events[0].EventType)
	assert.NoError(t, deps.sqlMock.ExpectationsWereMet())
}

func TestCreatePeriodOverlapRejected(t *testing.T) {
	deps := setupServiceTest(t)
	deps.repo.hasOverlappingPeriodFn = func(context.Context, time.Time, time.Time, *string) (bool, error) {
		return true, nil
	}

	expectTx(t, deps.sqlMock, false)

	_, err := deps.service.CreatePeriod(context.Background(), uuid.New().String(), payroll.CreatePeriodRequest{
		PeriodStart:     "2026-02-01",
		PeriodEnd:       "2026-02-15",
		PaymentDate:     "2026-02-20",
		PayPeriodNumber: 1,
	})

	assert.True(t, errors.Is(err, payrollerrors.ErrPeriodOverlap))
}

func TestCreatePeriodDuplicateKeyRejected(t *testing.T) {
	deps := setupServiceTest(t)
	deps.repo.existsPeriodKeyFn = func(_ context.Context, year, month, ppn int) (bool, error) {
		assert.Equal(t, 2026, year)
		assert.Equal(t, 2, month)
		assert.Equal(t, 1, ppn)
		return true, nil
	}

	expectTx(t, deps.sqlMock, false)

	_, err := deps.service.CreatePeriod(context.Background(), uuid.New().String(), payroll.CreatePeriodRequest{
		PeriodStart:     "2026-02-01",
		PeriodEnd:       "2026-02-15",
		PaymentDate:     "2026-02-20",
		PayPeriodNumber: 1,
	})

	assert.True(t, errors.Is(err, payrollerrors.ErrDuplicatePeriodKey))
}

func TestCreatePeriodValidation(t *testing.T) {
	deps := setupServiceTest(t)

	_, err := deps.service.CreatePeriod(context.Background(), "not-a-uuid", payroll.CreatePeriodRequest{
		PeriodStart: "2026-02-01", PeriodEnd: "2026-02-15", PaymentDate: "2026-02-20", PayPeriodNumber: 1,
	})
	assert.True(t, errors.Is(err, payrollerrors.ErrInvalidActorID))

	actor := uuid.New().String()

	_, err = deps.service.CreatePeriod(context.Background(), actor, payroll.CreatePeriodRequest{
		PeriodStart: "02/01/2026", PeriodEnd: "2026-02-15", PaymentDate: "2026-02-20", PayPeriodNumber: 1,
	})
	assert.True(t, errors.Is(err, payrollerrors.ErrInvalidDateFormat))

	_, err = deps.service.CreatePeriod(context.Background(), actor, payroll.CreatePeriodRequest{
		PeriodStart: "2026-02-15", PeriodEnd: "2026-02-01", PaymentDate: "2026-02-20", PayPeriodNumber: 1,
	})
	assert.True(t, errors.Is(err, payrollerrors.ErrInvalidDateRange))

	_, err = deps.service.CreatePeriod(context.Background(), actor, payroll.CreatePeriodRequest{
		PeriodStart: "2026-02-01", PeriodEnd: "2026-02-15", PaymentDate: "2026-02-20", PayPeriodNumber: 3,
	})
	assert.True(t, errors.Is(err, payrollerrors.ErrInvalidPayPeriodNumber))
}

// --- Process ---

func TestProcessComputesItemsAndTotals(t *testing.T) {
	deps := setupServiceTest(t)
	period := draftPeriod()

	deps.repo.findByIDFn = func(_ context.Context, id string) (*payroll.PayrollPeriod, error) {
		assert.Equal(t, period.ID.String(), id)
		return period, nil
	}
	deps.employees.findActive = func(context.Context, employee.RosterFilter) ([]employee.Employee, error) {
		return rosterOf(2), nil
	}

	var replaced []payroll.PayrollItem
	deps.repo.replaceItemsFn = func(_ context.Context, payrollID uuid.UUID, items []payroll.PayrollItem, _ []compensation.PayrollCharge) error {
		assert.Equal(t, period.ID, payrollID)
		replaced = items
		return nil
	}
	var casVersion int64
	deps.repo.updateWithVersionFn = func(_ context.Context, p *payroll.PayrollPeriod, expected int64) (bool, error) {
		casVersion = expected
		return true, nil
	}

	expectTx(t, deps.sqlMock, true)

	resp, err := deps.service.Process(context.Background(), uuid.New().String(), period.ID.String(), 1, payroll.ProcessRequest{Version: 1})

	assert.NoError(t, err)
	assert.Equal(t, payroll.StatusProcessing, resp.Status)
	assert.Len(t, replaced, 2)
	assert.Equal(t, int64(1), casVersion)

	// 10 days x 650 = 6500 gross; the 200 monthly fixed amount per fund halves
	// to 100 for a semi-monthly period, and the zero-rate tax bracket adds 0.
	item := resp.Items[0]
	assert.True(t, item.GrossPay.Equal(dec("6500")), "gross %s", item.GrossPay)
	assert.True(t, item.SSS.Equal(dec("100")), "sss %s", item.SSS)
	assert.True(t, item.TotalDeductions.Equal(dec("300")), "deductions %s", item.TotalDeductions)
	assert.True(t, item.NetPay.Equal(dec("6200")), "net %s", item.NetPay)

	assert.True(t, resp.TotalGrossPay.Equal(dec("13000")))
	assert.True(t, resp.TotalNetPay.Equal(dec("12400")))

	assert.Len(t, deps.outbox.events, 1)
	assert.Equal(t, "payroll_period_processed", deps.outbox.events[0].EventType)
}

func TestProcessVersionConflict(t *testing.T) {
	deps := setupServiceTest(t)
	period := draftPeriod()

	deps.repo.findByIDFn = func(context.Context, string) (*payroll.PayrollPeriod, error) {
		return period, nil
	}
	deps.employees.findActive = func(context.Context, employee.RosterFilter) ([]employee.Employee, error) {
		return rosterOf(1), nil
	}
	deps.repo.updateWithVersionFn = func(context.Context, *payroll.PayrollPeriod, int64) (bool, error) {
		return false, nil
	}

	expectTx(t, deps.sqlMock, false)

	_, err := deps.service.Process(context.Background(), uuid.New().String(), period.ID.String(), 1, payroll.ProcessRequest{Version: 1})

	assert.True(t, errors.Is(err, payrollerrors.ErrVersionConflict))
}

func TestProcessRejectsLockedStatus(t *testing.T) {
	deps := setupServiceTest(t)
	period := draftPeriod()
	period.Status = payroll.StatusChecked

	deps.repo.findByIDFn = func(context.Context, string) (*payroll.PayrollPeriod, error) {
		return period, nil
	}

	_, err := deps.service.Process(context.Background(), uuid.New().String(), period.ID.String(), 1, payroll.ProcessRequest{Version: 1})

	assert.True(t, errors.Is(err, payrollerrors.ErrInvalidTransition))
}

func TestProcessEmptyRoster(t *testing.T) {
	deps := setupServiceTest(t)
	period := draftPeriod()

	deps.repo.findByIDFn = func(context.Context, string) (*payroll.PayrollPeriod, error) {
		return period, nil
	}
	deps.employees.findActive = func(context.Context, employee.RosterFilter) ([]employee.Employee, error) {
		return nil, nil
	}

	_, err := deps.service.Process(context.Background(), uuid.New().String(), period.ID.String(), 1, payroll.ProcessRequest{Version: 1})

	assert.True(t, errors.Is(err, payrollerrors.ErrEmptyRoster))
}

func TestProcessExplicitRosterMustExist(t *testing.T) {
	deps := setupServiceTest(t)
	period := draftPeriod()

	deps.repo.findByIDFn = func(context.Context, string) (*payroll.PayrollPeriod, error) {
		return period, nil
	}
	deps.employees.findByIDsFn = func(_ context.Context, ids []string) ([]employee.Employee, error) {
		return rosterOf(1), nil
	}

	_, err := deps.service.Process(context.Background(), uuid.New().String(), period.ID.String(), 1, payroll.ProcessRequest{
		Version:     1,
		EmployeeIDs: []string{uuid.New().String(), uuid.New().String()},
	})

	assert.True(t, errors.Is(err, payrollerrors.ErrInvalidEmployeeID))
}

func TestProcessFreezesChargeLines(t *testing.T) {
	deps := setupServiceTest(t)
	period := draftPeriod()
	roster := rosterOf(1)
	loanID := uuid.New()

	deps.repo.findByIDFn = func(context.Context, string) (*payroll.PayrollPeriod, error) {
		return period, nil
	}
	deps.employees.findActive = func(context.Context, employee.RosterFilter) ([]employee.Employee, error) {
		return roster, nil
	}
	deps.comp.findActiveLoansFn = func(context.Context, string) ([]compensation.EmployeeLoan, error) {
		return []compensation.EmployeeLoan{{ID: loanID, Amortization: dec("2000"), Balance: dec("10000")}}, nil
	}

	var items []payroll.PayrollItem
	var charges []compensation.PayrollCharge
	deps.repo.replaceItemsFn = func(_ context.Context, _ uuid.UUID, gotItems []payroll.PayrollItem, gotCharges []compensation.PayrollCharge) error {
		items = gotItems
		charges = gotCharges
		return nil
	}

	expectTx(t, deps.sqlMock, true)

	_, err := deps.service.Process(context.Background(), uuid.New().String(), period.ID.String(), 1, payroll.ProcessRequest{Version: 1})

	assert.NoError(t, err)
	assert.Len(t, items, 1)
	assert.Len(t, charges, 1)
	assert.Equal(t, compensation.ChargeSourceLoan, charges[0].SourceType)
	assert.Equal(t, loanID, charges[0].SourceID)
	assert.Equal(t, roster[0].ID, charges[0].EmployeeID)
	assert.Equal(t, items[0].ID, charges[0].PayrollItemID)
	// The semi-monthly charge halves the 2000 amortization, and the item
	// carries the same amount as a loan deduction.
	assert.True(t, charges[0].Amount.Equal(dec("1000")), "charge %s", charges[0].Amount)
	assert.True(t, items[0].LoanDeductions.Equal(dec("1000")), "loans %s", items[0].LoanDeductions)
}

func TestProcessTwiceYieldsSameItemsAndTotals(t *testing.T) {
	deps := setupServiceTest(t)
	period := draftPeriod()
	roster := rosterOf(2)

	deps.repo.findByIDFn = func(context.Context, string) (*payroll.PayrollPeriod, error) {
		return period, nil
	}
	deps.employees.findActive = func(context.Context, employee.RosterFilter) ([]employee.Employee, error) {
		return roster, nil
	}
	deps.comp.findActiveLoansFn = func(context.Context, string) ([]compensation.EmployeeLoan, error) {
		return []compensation.EmployeeLoan{{ID: uuid.New(), Amortization: dec("2000"), Balance: dec("10000")}}, nil
	}

	var runs [][]payroll.PayrollItem
	deps.repo.replaceItemsFn = func(_ context.Context, _ uuid.UUID, items []payroll.PayrollItem, _ []compensation.PayrollCharge) error {
		runs = append(runs, items)
		return nil
	}

	expectTx(t, deps.sqlMock, true)
	first, err := deps.service.Process(context.Background(), uuid.New().String(), period.ID.String(), 1, payroll.ProcessRequest{Version: 1})
	assert.NoError(t, err)

	// The first run left the period in PROCESSING; recomputing over the same
	// inputs must replace the item set with an identical one.
	expectTx(t, deps.sqlMock, true)
	second, err := deps.service.Process(context.Background(), uuid.New().String(), period.ID.String(), 1, payroll.ProcessRequest{Version: 1})
	assert.NoError(t, err)

	assert.Len(t, runs, 2)
	assert.Len(t, runs[0], len(runs[1]))
	for i := range runs[0] {
		assert.Equal(t, runs[0][i].EmployeeID, runs[1][i].EmployeeID)
		assert.True(t, runs[0][i].GrossPay.Equal(runs[1][i].GrossPay))
		assert.True(t, runs[0][i].TotalDeductions.Equal(runs[1][i].TotalDeductions))
		assert.True(t, runs[0][i].NetPay.Equal(runs[1][i].NetPay))
	}
	assert.True(t, first.TotalGrossPay.Equal(second.TotalGrossPay))
	assert.True(t, first.TotalDeductions.Equal(second.TotalDeductions))
	assert.True(t, first.TotalNetPay.Equal(second.TotalNetPay))
	assert.NoError(t, deps.sqlMock.ExpectationsWereMet())
}

// --- stage transitions ---

func TestCheckTransition(t *testing.T) {
	deps := setupServiceTest(t)
	period := draftPeriod()
	period.Status = payroll.StatusProcessing
	period.Items = []payroll.PayrollItem{{ID: uuid.New(), EmployeeID: uuid.New(), NetPay: dec("5000")}}

	deps.repo.findByIDFn = func(context.Context, string) (*payroll.PayrollPeriod, error) {
		return period, nil
	}

	expectTx(t, deps.sqlMock, true)

	resp, err := deps.service.Check(context.Background(), uuid.New().String(), period.ID.String(), 1)

	assert.NoError(t, err)
	assert.Equal(t, payroll.StatusChecked, resp.Status)
	assert.NotNil(t, resp.Checked)
	assert.Len(t, deps.outbox.events, 1)
	assert.Equal(t, "payroll_period_checked", deps.outbox.events[0].EventType)
}

func TestCheckRequiresItems(t *testing.T) {
	deps := setupServiceTest(t)
	period := draftPeriod()
	period.Status = payroll.StatusProcessing

	deps.repo.findByIDFn = func(context.Context, string) (*payroll.PayrollPeriod, error) {
		return period, nil
	}

	_, err := deps.service.Check(context.Background(), uuid.New().String(), period.ID.String(), 1)

	assert.True(t, errors.Is(err, payrollerrors.ErrNoItems))
}

func TestCancelAfterCheckRejected(t *testing.T) {
	deps := setupServiceTest(t)
	period := draftPeriod()
	period.Status = payroll.StatusApproved
	period.Items = []payroll.PayrollItem{{ID: uuid.New()}}

	deps.repo.findByIDFn = func(context.Context, string) (*payroll.PayrollPeriod, error) {
		return period, nil
	}

	_, err := deps.service.Cancel(context.Background(), uuid.New().String(), period.ID.String(), 1)

	assert.True(t, errors.Is(err, payrollerrors.ErrCancelOnlyEditable))
}

func TestMarkPaidSettlesEachItem(t *testing.T) {
	deps := setupServiceTest(t)
	period := draftPeriod()
	period.Status = payroll.StatusApproved
	period.Items = []payroll.PayrollItem{
		{ID: uuid.New(), EmployeeID: uuid.New(), NetPay: dec("5000")},
		{ID: uuid.New(), EmployeeID: uuid.New(), NetPay: dec("6000")},
	}

	deps.repo.findByIDFn = func(context.Context, string) (*payroll.PayrollPeriod, error) {
		return period, nil
	}

	var settled []string
	deps.settle.settleFn = func(_ context.Context, _ *sql.Tx, payrollItemID string, paidAt time.Time) error {
		assert.False(t, paidAt.IsZero())
		settled = append(settled, payrollItemID)
		return nil
	}

	expectTx(t, deps.sqlMock, true)

	resp, err := deps.service.MarkPaid(context.Background(), uuid.New().String(), period.ID.String(), 1)

	assert.NoError(t, err)
	assert.Equal(t, payroll.StatusPaid, resp.Status)
	assert.Len(t, settled, 2)
	assert.Len(t, deps.outbox.events, 1)
	assert.Equal(t, "payroll_period_paid", deps.outbox.events[0].EventType)
}

func TestMarkPaidSettleFailureRollsBack(t *testing.T) {
	deps := setupServiceTest(t)
	period := draftPeriod()
	period.Status = payroll.StatusApproved
	period.Items = []payroll.PayrollItem{{ID: uuid.New(), EmployeeID: uuid.New()}}

	deps.repo.findByIDFn = func(context.Context, string) (*payroll.PayrollPeriod, error) {
		return period, nil
	}
	deps.settle.settleFn = func(context.Context, *sql.Tx, string, time.Time) error {
		return errors.New("ledger write failed")
	}

	expectTx(t, deps.sqlMock, false)

	_, err := deps.service.MarkPaid(context.Background(), uuid.New().String(), period.ID.String(), 1)

	assert.Error(t, err)
	assert.Empty(t, deps.outbox.events)
}

// --- reads ---

func TestGetByIDNotFound(t *testing.T) {
	deps := setupServiceTest(t)

	_, err := deps.service.GetByID(context.Background(), uuid.New().String())

	assert.True(t, errors.Is(err, payrollerrors.ErrPeriodNotFound))
}

func TestGetAllPassesFilter(t *testing.T) {
	deps := setupServiceTest(t)

	var got payroll.ListFilter
	deps.repo.findAllFn = func(_ context.Context, filter payroll.ListFilter) ([]payroll.PayrollPeriod, error) {
		got = filter
		return []payroll.PayrollPeriod{*draftPeriod()}, nil
	}

	resp, err := deps.service.GetAll(context.Background(), payroll.ListFilter{Status: payroll.StatusDraft, Year: 2026})

	assert.NoError(t, err)
	assert.Len(t, resp, 1)
	assert.Equal(t, payroll.StatusDraft, got.Status)
	assert.Equal(t, 2026, got.Year)
}

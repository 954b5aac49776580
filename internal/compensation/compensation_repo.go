package compensation

import (
	"context"
	"database/sql"
	"time"

	"gorm.io/gorm"
)

//go:generate mockgen -source=compensation_repo.go -destination=mock/compensation_repo_mock.go -package=mock
type Repository interface {
	WithTx(tx *sql.Tx) Repository
	FindActiveAllowances(ctx context.Context, employeeID string, periodStart, periodEnd time.Time) ([]EmployeeAllowance, error)
	FindActiveDeductions(ctx context.Context, employeeID string) ([]EmployeeDeduction, error)
	FindActiveLoans(ctx context.Context, employeeID string) ([]EmployeeLoan, error)
	FindLoan(ctx context.Context, id string) (*EmployeeLoan, error)
	FindDeduction(ctx context.Context, id string) (*EmployeeDeduction, error)
	FindCharges(ctx context.Context, payrollItemID string) ([]PayrollCharge, error)
	CreateAllowance(ctx context.Context, a *EmployeeAllowance) error
	CreateDeduction(ctx context.Context, d *EmployeeDeduction) error
	CreateLoan(ctx context.Context, l *EmployeeLoan) error
	UpdateDeduction(ctx context.Context, d *EmployeeDeduction) error
	UpdateLoan(ctx context.Context, l *EmployeeLoan) error
	CreateLoanPayment(ctx context.Context, p *LoanPayment) error
}

type repository struct {
	db *gorm.DB
}

func NewRepository(db *gorm.DB) Repository {
	return &repository{db: db}
}

// WithTx rebinds the session to the caller's transaction, so every statement
// issued through the returned repository joins it.
func (r *repository) WithTx(tx *sql.Tx) Repository {
	session := r.db.Session(&gorm.Session{Context: context.Background()})
	session.Statement.ConnPool = tx
	return &repository{db: session}
}

// Active allowances whose effective window overlaps the period. A row with a
// null effective_to is open-ended.
func (r *repository) FindActiveAllowances(ctx context.Context, employeeID string, periodStart, periodEnd time.Time) ([]EmployeeAllowance, error) {
	var rows []EmployeeAllowance
	err := r.db.WithContext(ctx).
		Where("employee_id = ?", employeeID).
		Where("is_active = true").
		Where("effective_from <= ?", periodEnd.Format("2006-01-02")).
		Where("effective_to IS NULL OR effective_to >= ?", periodStart.Format("2006-01-02")).
		Order("name ASC").
		Find(&rows).Error
	return rows, err
}

func (r *repository) FindActiveDeductions(ctx context.Context, employeeID string) ([]EmployeeDeduction, error) {
	var rows []EmployeeDeduction
	err := r.db.WithContext(ctx).
		Where("employee_id = ?", employeeID).
		Where("is_active = true").
		Where("balance > 0").
		Order("name ASC").
		Find(&rows).Error
	return rows, err
}

func (r *repository) FindActiveLoans(ctx context.Context, employeeID string) ([]EmployeeLoan, error) {
	var rows []EmployeeLoan
	err := r.db.WithContext(ctx).
		Where("employee_id = ?", employeeID).
		Where("status = ?", LoanStatusActive).
		Where("balance > 0").
		Order("start_date ASC").
		Find(&rows).Error
	return rows, err
}

func (r *repository) FindLoan(ctx context.Context, id string) (*EmployeeLoan, error) {
	var l EmployeeLoan
	err := r.db.WithContext(ctx).First(&l, "id = ?", id).Error
	return &l, err
}

func (r *repository) FindDeduction(ctx context.Context, id string) (*EmployeeDeduction, error) {
	var d EmployeeDeduction
	err := r.db.WithContext(ctx).First(&d, "id = ?", id).Error
	return &d, err
}

func (r *repository) FindCharges(ctx context.Context, payrollItemID string) ([]PayrollCharge, error) {
	var rows []PayrollCharge
	err := r.db.WithContext(ctx).
		Where("payroll_item_id = ?", payrollItemID).
		Order("created_at ASC").
		Find(&rows).Error
	return rows, err
}

func (r *repository) CreateAllowance(ctx context.Context, a *EmployeeAllowance) error {
	return r.db.WithContext(ctx).Create(a).Error
}

func (r *repository) CreateDeduction(ctx context.Context, d *EmployeeDeduction) error {
	return r.db.WithContext(ctx).Create(d).Error
}

func (r *repository) CreateLoan(ctx context.Context, l *EmployeeLoan) error {
	return r.db.WithContext(ctx).Create(l).Error
}

func (r *repository) UpdateDeduction(ctx context.Context, d *EmployeeDeduction) error {
	return r.db.WithContext(ctx).Save(d).Error
}

func (r *repository) UpdateLoan(ctx context.Context, l *EmployeeLoan) error {
	return r.db.WithContext(ctx).Save(l).Error
}

func (r *repository) CreateLoanPayment(ctx context.Context, p *LoanPayment) error {
	return r.db.WithContext(ctx).Create(p).Error
}

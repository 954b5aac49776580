package payroll

import (
	"context"
	"database/sql"
	"time"

	"buildhr/internal/compensation"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// ListFilter narrows the period listing. Zero values mean "any".
type ListFilter struct {
	Status string
	Year   int
	Month  int
}

//go:generate mockgen -source=payroll_repo.go -destination=mock/payroll_repo_mock.go -package=mock
type Repository interface {
	WithTx(tx *sql.Tx) Repository
	Create(ctx context.Context, period *PayrollPeriod) error
	FindByID(ctx context.Context, id string) (*PayrollPeriod, error)
	FindAll(ctx context.Context, filter ListFilter) ([]PayrollPeriod, error)
	HasOverlappingPeriod(ctx context.Context, periodStart, periodEnd time.Time, excludeID *string) (bool, error)
	ExistsPeriodKey(ctx context.Context, year, month, payPeriodNumber int) (bool, error)
	UpdateWithVersion(ctx context.Context, period *PayrollPeriod, expectedVersion int64) (bool, error)
	ReplaceItems(ctx context.Context, payrollID uuid.UUID, items []PayrollItem, charges []compensation.PayrollCharge) error
	FindItems(ctx context.Context, payrollID uuid.UUID) ([]PayrollItem, error)
	CountItems(ctx context.Context, payrollID uuid.UUID) (int64, error)
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

func (r *repository) Create(ctx context.Context, period *PayrollPeriod) error {
	return r.db.WithContext(ctx).Create(period).Error
}

func (r *repository) FindByID(ctx context.Context, id string) (*PayrollPeriod, error) {
	var period PayrollPeriod
	err := r.db.WithContext(ctx).
		Preload("Items", func(db *gorm.DB) *gorm.DB {
			return db.Order("payroll_items.created_at ASC")
		}).
		First(&period, "id = ?", id).Error
	return &period, err
}

func (r *repository) FindAll(ctx context.Context, filter ListFilter) ([]PayrollPeriod, error) {
	var periods []PayrollPeriod
	q := r.db.WithContext(ctx).Model(&PayrollPeriod{})
	if filter.Status != "" {
		q = q.Where("status = ?", filter.Status)
	}
	if filter.Year != 0 {
		q = q.Where("year = ?", filter.Year)
	}
	if filter.Month != 0 {
		q = q.Where("month = ?", filter.Month)
	}
	err := q.Order("period_start DESC").Find(&periods).Error
	return periods, err
}

// HasOverlappingPeriod reports whether any non-cancelled period intersects
// [periodStart, periodEnd], regardless of pay frequency: two runs may never
// cover the same day twice.
func (r *repository) HasOverlappingPeriod(
	ctx context.Context,
	periodStart, periodEnd time.Time,
	excludeID *string,
) (bool, error) {
	q := r.db.WithContext(ctx).
		Model(&PayrollPeriod{}).
		Where("status <> ?", StatusCancelled).
		Where("NOT (period_end < ? OR period_start > ?)", periodStart, periodEnd)

	if excludeID != nil && *excludeID != "" {
		q = q.Where("id <> ?", *excludeID)
	}

	var count int64
	err := q.Count(&count).Error
	return count > 0, err
}

func (r *repository) ExistsPeriodKey(ctx context.Context, year, month, payPeriodNumber int) (bool, error) {
	var count int64
	err := r.db.WithContext(ctx).
		Model(&PayrollPeriod{}).
		Where("year = ? AND month = ? AND pay_period_number = ?", year, month, payPeriodNumber).
		Where("status <> ?", StatusCancelled).
		Count(&count).Error
	return count > 0, err
}

// UpdateWithVersion persists the period only if nobody else advanced it
// first. The version check and bump happen in one statement; zero rows
// affected means the caller lost the race.
func (r *repository) UpdateWithVersion(ctx context.Context, period *PayrollPeriod, expectedVersion int64) (bool, error) {
	period.Version = expectedVersion + 1
	res := r.db.WithContext(ctx).
		Model(&PayrollPeriod{}).
		Where("id = ? AND version = ?", period.ID, expectedVersion).
		Select("*").
		Omit("created_at").
		Updates(period)
	if res.Error != nil {
		return false, res.Error
	}
	return res.RowsAffected > 0, nil
}

// ReplaceItems swaps the full item set of a period, along with the charge
// lines frozen per item: recomputation overwrites, it never appends.
func (r *repository) ReplaceItems(ctx context.Context, payrollID uuid.UUID, items []PayrollItem, charges []compensation.PayrollCharge) error {
	db := r.db.WithContext(ctx)
	itemIDs := db.Model(&PayrollItem{}).Select("id").Where("payroll_id = ?", payrollID)
	if err := db.Where("payroll_item_id IN (?)", itemIDs).Delete(&compensation.PayrollCharge{}).Error; err != nil {
		return err
	}
	if err := db.Where("payroll_id = ?", payrollID).Delete(&PayrollItem{}).Error; err != nil {
		return err
	}
	if len(items) > 0 {
		if err := db.Create(&items).Error; err != nil {
			return err
		}
	}
	if len(charges) > 0 {
		if err := db.Create(&charges).Error; err != nil {
			return err
		}
	}
	return nil
}

func (r *repository) FindItems(ctx context.Context, payrollID uuid.UUID) ([]PayrollItem, error) {
	var items []PayrollItem
	err := r.db.WithContext(ctx).
		Where("payroll_id = ?", payrollID).
		Order("created_at ASC").
		Find(&items).Error
	return items, err
}

func (r *repository) CountItems(ctx context.Context, payrollID uuid.UUID) (int64, error) {
	var count int64
	err := r.db.WithContext(ctx).
		Model(&PayrollItem{}).
		Where("payroll_id = ?", payrollID).
		Count(&count).Error
	return count, err
}

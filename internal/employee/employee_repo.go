package employee

import (
	"context"

	"gorm.io/gorm"
)

// RosterFilter narrows the employee set for a payroll run. Zero values mean
// no filtering on that dimension.
type RosterFilter struct {
	ProjectID    string
	ContractType string
	PositionID   string
}

//go:generate mockgen -source=employee_repo.go -destination=mock/employee_repo_mock.go -package=mock
type Repository interface {
	FindByID(ctx context.Context, id string) (*Employee, error)
	FindByIDs(ctx context.Context, ids []string) ([]Employee, error)
	FindActive(ctx context.Context, filter RosterFilter) ([]Employee, error)
}

type repository struct {
	db *gorm.DB
}

func NewRepository(db *gorm.DB) Repository {
	return &repository{db: db}
}

func (r *repository) FindByID(ctx context.Context, id string) (*Employee, error) {
	var e Employee
	err := r.db.WithContext(ctx).
		Preload("Position").
		First(&e, "id = ?", id).Error
	return &e, err
}

func (r *repository) FindByIDs(ctx context.Context, ids []string) ([]Employee, error) {
	var rows []Employee
	err := r.db.WithContext(ctx).
		Preload("Position").
		Where("id IN ?", ids).
		Find(&rows).Error
	return rows, err
}

func (r *repository) FindActive(ctx context.Context, filter RosterFilter) ([]Employee, error) {
	q := r.db.WithContext(ctx).
		Preload("Position").
		Where("status = ?", StatusActive)

	if filter.ProjectID != "" {
		q = q.Where("project_id = ?", filter.ProjectID)
	}
	if filter.ContractType != "" {
		q = q.Where("contract_type = ?", filter.ContractType)
	}
	if filter.PositionID != "" {
		q = q.Where("position_id = ?", filter.PositionID)
	}

	var rows []Employee
	err := q.Order("employee_number ASC").Find(&rows).Error
	return rows, err
}

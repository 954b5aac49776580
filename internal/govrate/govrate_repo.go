package govrate

import (
	"context"
	"database/sql"

	"gorm.io/gorm"
)

//go:generate mockgen -source=govrate_repo.go -destination=mock/govrate_repo_mock.go -package=mock
type Repository interface {
	WithTx(tx *sql.Tx) Repository
	Create(ctx context.Context, rate *GovernmentRate) error
	FindByID(ctx context.Context, id string) (*GovernmentRate, error)
	FindAll(ctx context.Context, rateType string) ([]GovernmentRate, error)
	FindActiveByType(ctx context.Context, rateType string) ([]GovernmentRate, error)
	Update(ctx context.Context, rate *GovernmentRate) error
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

func (r *repository) Create(ctx context.Context, rate *GovernmentRate) error {
	return r.db.WithContext(ctx).Create(rate).Error
}

func (r *repository) FindByID(ctx context.Context, id string) (*GovernmentRate, error) {
	var rate GovernmentRate
	err := r.db.WithContext(ctx).First(&rate, "id = ?", id).Error
	return &rate, err
}

func (r *repository) FindAll(ctx context.Context, rateType string) ([]GovernmentRate, error) {
	var rows []GovernmentRate
	q := r.db.WithContext(ctx)
	if rateType != "" {
		q = q.Where("rate_type = ?", rateType)
	}
	err := q.Order("rate_type ASC, effective_date DESC, min_salary ASC").Find(&rows).Error
	return rows, err
}

func (r *repository) FindActiveByType(ctx context.Context, rateType string) ([]GovernmentRate, error) {
	var rows []GovernmentRate
	err := r.db.WithContext(ctx).
		Where("rate_type = ?", rateType).
		Where("is_active = true").
		Order("effective_date DESC, seq ASC").
		Find(&rows).Error
	return rows, err
}

func (r *repository) Update(ctx context.Context, rate *GovernmentRate) error {
	return r.db.WithContext(ctx).Save(rate).Error
}

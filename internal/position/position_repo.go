package position

import (
	"context"

	"gorm.io/gorm"
)

//go:generate mockgen -source=position_repo.go -destination=mock/position_repo_mock.go -package=mock
type Repository interface {
	FindByID(ctx context.Context, id string) (*Position, error)
	FindAll(ctx context.Context) ([]Position, error)
}

type repository struct {
	db *gorm.DB
}

func NewRepository(db *gorm.DB) Repository {
	return &repository{db: db}
}

func (r *repository) FindByID(ctx context.Context, id string) (*Position, error) {
	var p Position
	err := r.db.WithContext(ctx).First(&p, "id = ?", id).Error
	return &p, err
}

func (r *repository) FindAll(ctx context.Context) ([]Position, error) {
	var rows []Position
	err := r.db.WithContext(ctx).Order("name ASC").Find(&rows).Error
	return rows, err
}

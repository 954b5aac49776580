package payconfig

import (
	"context"
	"database/sql"
	"net/http"

	"buildhr/internal/shared/apperror"

	"github.com/shopspring/decimal"
)

var ErrUnknownConfigKey = apperror.New(
	apperror.CodeInvalidInput,
	"unknown pay config key",
	http.StatusBadRequest,
)

//go:generate mockgen -source=payconfig_service.go -destination=mock/payconfig_service_mock.go -package=mock
type Service interface {
	Multipliers(ctx context.Context) (Multipliers, error)
	GetAll(ctx context.Context) ([]ConfigResponse, error)
	Set(ctx context.Context, req SetConfigRequest) (ConfigResponse, error)
}

type service struct {
	db   *sql.DB
	repo Repository
}

func NewService(db *sql.DB, repo Repository) Service {
	return &service{db: db, repo: repo}
}

// Multipliers merges stored overrides over the seeded defaults so the
// calculators always receive a complete set.
func (s *service) Multipliers(ctx context.Context) (Multipliers, error) {
	values := defaults()

	rows, err := s.repo.FindAll(ctx)
	if err != nil {
		return Multipliers{}, err
	}
	for _, row := range rows {
		if _, known := values[row.Key]; known {
			values[row.Key] = row.Value
		}
	}

	return Multipliers{
		OTRegular:              values[KeyOTRegular],
		OTSunday:               values[KeyOTSunday],
		OTRegularHoliday:       values[KeyOTRegularHoliday],
		OTRegularHolidaySunday: values[KeyOTRegularHolidaySunday],
		OTSpecialHoliday:       values[KeyOTSpecialHoliday],
		HolidayRegular:         values[KeyHolidayRegular],
		HolidaySpecial:         values[KeyHolidaySpecial],
		HoursPerDay:            values[KeyHoursPerDay],
		WorkingDaysPerMonth:    values[KeyWorkingDaysPerMonth],
		NightDifferential:      values[KeyNightDifferentialUplift],
	}, nil
}

func (s *service) GetAll(ctx context.Context) ([]ConfigResponse, error) {
	values := defaults()
	descriptions := map[string]string{}

	rows, err := s.repo.FindAll(ctx)
	if err != nil {
		return nil, err
	}
	for _, row := range rows {
		if _, known := values[row.Key]; known {
			values[row.Key] = row.Value
			descriptions[row.Key] = row.Description
		}
	}

	res := make([]ConfigResponse, 0, len(values))
	for _, key := range orderedKeys() {
		res = append(res, ConfigResponse{
			Key:         key,
			Value:       values[key],
			Description: descriptions[key],
		})
	}
	return res, nil
}

func (s *service) Set(ctx context.Context, req SetConfigRequest) (ConfigResponse, error) {
	if _, known := defaults()[req.Key]; !known {
		return ConfigResponse{}, ErrUnknownConfigKey
	}
	if req.Value.LessThan(decimal.Zero) {
		return ConfigResponse{}, apperror.InvalidField("Value")
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return ConfigResponse{}, err
	}
	defer tx.Rollback()

	qtx := s.repo.WithTx(tx)

	cfg := &PayConfig{
		Key:         req.Key,
		Value:       req.Value,
		Description: req.Description,
	}
	if err := qtx.Upsert(ctx, cfg); err != nil {
		return ConfigResponse{}, err
	}
	if err := tx.Commit(); err != nil {
		return ConfigResponse{}, err
	}

	return ConfigResponse{Key: cfg.Key, Value: cfg.Value, Description: cfg.Description}, nil
}

func orderedKeys() []string {
	return []string{
		KeyOTRegular,
		KeyOTSunday,
		KeyOTRegularHoliday,
		KeyOTRegularHolidaySunday,
		KeyOTSpecialHoliday,
		KeyHolidayRegular,
		KeyHolidaySpecial,
		KeyHoursPerDay,
		KeyWorkingDaysPerMonth,
		KeyNightDifferentialUplift,
	}
}

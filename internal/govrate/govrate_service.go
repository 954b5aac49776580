package govrate

import (
	"context"
	"database/sql"
	"time"

	govrateerrors "buildhr/internal/govrate/errors"
)

//go:generate mockgen -source=govrate_service.go -destination=mock/govrate_service_mock.go -package=mock
type Service interface {
	Create(ctx context.Context, req CreateRateRequest) (RateResponse, error)
	GetAll(ctx context.Context, rateType string) ([]RateResponse, error)
	Update(ctx context.Context, id string, req UpdateRateRequest) (RateResponse, error)
	Deactivate(ctx context.Context, id string) (RateResponse, error)
}

type service struct {
	db       *sql.DB
	repo     Repository
	resolver Resolver
}

func NewService(db *sql.DB, repo Repository, resolver Resolver) Service {
	return &service{db: db, repo: repo, resolver: resolver}
}

func (s *service) Create(ctx context.Context, req CreateRateRequest) (RateResponse, error) {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return RateResponse{}, err
	}
	defer tx.Rollback()

	qtx := s.repo.WithTx(tx)

	effectiveDate, err := parseDate(req.EffectiveDate)
	if err != nil {
		return RateResponse{}, err
	}
	var endDate *time.Time
	if req.EndDate != nil && *req.EndDate != "" {
		d, err := parseDate(*req.EndDate)
		if err != nil {
			return RateResponse{}, err
		}
		if !effectiveDate.Before(d) {
			return RateResponse{}, govrateerrors.ErrInvalidEffectiveRange
		}
		endDate = &d
	}

	if req.MaxSalary != nil && !req.MinSalary.LessThan(*req.MaxSalary) {
		return RateResponse{}, govrateerrors.ErrInvalidSalaryRange
	}
	if req.RateType == RateTypeTax && req.PeriodType == "" {
		return RateResponse{}, govrateerrors.ErrInvalidPeriodType
	}

	rate := &GovernmentRate{
		RateType:       req.RateType,
		PeriodType:     req.PeriodType,
		MinSalary:      req.MinSalary,
		MaxSalary:      req.MaxSalary,
		EmployeeRate:   req.EmployeeRate,
		EmployerRate:   req.EmployerRate,
		EmployeeAmount: req.EmployeeAmount,
		EmployerAmount: req.EmployerAmount,
		BaseTax:        req.BaseTax,
		EffectiveDate:  effectiveDate,
		EndDate:        endDate,
		IsActive:       true,
	}

	if err := s.checkOverlap(ctx, qtx, rate, ""); err != nil {
		return RateResponse{}, err
	}

	if err := qtx.Create(ctx, rate); err != nil {
		return RateResponse{}, err
	}
	if err := tx.Commit(); err != nil {
		return RateResponse{}, err
	}

	s.resolver.Invalidate(rate.RateType)
	return mapToResponse(*rate), nil
}

func (s *service) GetAll(ctx context.Context, rateType string) ([]RateResponse, error) {
	if rateType != "" && !validRateType(rateType) {
		return nil, govrateerrors.ErrInvalidRateType
	}
	rows, err := s.repo.FindAll(ctx, rateType)
	if err != nil {
		return nil, err
	}
	res := make([]RateResponse, len(rows))
	for i, row := range rows {
		res[i] = mapToResponse(row)
	}
	return res, nil
}

func (s *service) Update(ctx context.Context, id string, req UpdateRateRequest) (RateResponse, error) {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return RateResponse{}, err
	}
	defer tx.Rollback()

	qtx := s.repo.WithTx(tx)

	rate, err := qtx.FindByID(ctx, id)
	if err != nil {
		return RateResponse{}, govrateerrors.ErrRateNotFound
	}

	if req.MaxSalary != nil {
		rate.MaxSalary = req.MaxSalary
	}
	if req.EmployeeRate != nil {
		rate.EmployeeRate = *req.EmployeeRate
	}
	if req.EmployerRate != nil {
		rate.EmployerRate = *req.EmployerRate
	}
	if req.EmployeeAmount != nil {
		rate.EmployeeAmount = *req.EmployeeAmount
	}
	if req.EmployerAmount != nil {
		rate.EmployerAmount = *req.EmployerAmount
	}
	if req.BaseTax != nil {
		rate.BaseTax = *req.BaseTax
	}
	if req.EndDate != nil && *req.EndDate != "" {
		d, err := parseDate(*req.EndDate)
		if err != nil {
			return RateResponse{}, err
		}
		if !rate.EffectiveDate.Before(d) {
			return RateResponse{}, govrateerrors.ErrInvalidEffectiveRange
		}
		rate.EndDate = &d
	}

	if rate.MaxSalary != nil && !rate.MinSalary.LessThan(*rate.MaxSalary) {
		return RateResponse{}, govrateerrors.ErrInvalidSalaryRange
	}
	if err := s.checkOverlap(ctx, qtx, rate, rate.ID.String()); err != nil {
		return RateResponse{}, err
	}

	if err := qtx.Update(ctx, rate); err != nil {
		return RateResponse{}, err
	}
	if err := tx.Commit(); err != nil {
		return RateResponse{}, err
	}

	s.resolver.Invalidate(rate.RateType)
	return mapToResponse(*rate), nil
}

func (s *service) Deactivate(ctx context.Context, id string) (RateResponse, error) {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return RateResponse{}, err
	}
	defer tx.Rollback()

	qtx := s.repo.WithTx(tx)

	rate, err := qtx.FindByID(ctx, id)
	if err != nil {
		return RateResponse{}, govrateerrors.ErrRateNotFound
	}

	rate.IsActive = false
	if err := qtx.Update(ctx, rate); err != nil {
		return RateResponse{}, err
	}
	if err := tx.Commit(); err != nil {
		return RateResponse{}, err
	}

	s.resolver.Invalidate(rate.RateType)
	return mapToResponse(*rate), nil
}

// checkOverlap enforces the table invariant: among active rows of one type
// and period type, salary ranges must not intersect while their effective
// windows intersect. Exactly one bracket must match any (salary, date) pair.
func (s *service) checkOverlap(ctx context.Context, repo Repository, candidate *GovernmentRate, excludeID string) error {
	rows, err := repo.FindActiveByType(ctx, candidate.RateType)
	if err != nil {
		return err
	}

	for i := range rows {
		row := &rows[i]
		if row.ID.String() == excludeID || row.PeriodType != candidate.PeriodType {
			continue
		}
		if !dateWindowsIntersect(candidate.EffectiveDate, candidate.EndDate, row.EffectiveDate, row.EndDate) {
			continue
		}
		if salaryRangesIntersect(candidate, row) {
			return govrateerrors.ErrBracketOverlap
		}
	}
	return nil
}

func dateWindowsIntersect(aStart time.Time, aEnd *time.Time, bStart time.Time, bEnd *time.Time) bool {
	if aEnd != nil && !bStart.Before(*aEnd) {
		return false
	}
	if bEnd != nil && !aStart.Before(*bEnd) {
		return false
	}
	return true
}

func salaryRangesIntersect(a, b *GovernmentRate) bool {
	// Ranges are [min, max); a nil max is unbounded.
	if a.MaxSalary != nil && !b.MinSalary.LessThan(*a.MaxSalary) {
		return false
	}
	if b.MaxSalary != nil && !a.MinSalary.LessThan(*b.MaxSalary) {
		return false
	}
	return true
}

func validRateType(t string) bool {
	switch t {
	case RateTypeSSS, RateTypePhilHealth, RateTypePagibig, RateTypeTax:
		return true
	}
	return false
}

func parseDate(v string) (time.Time, error) {
	t, err := time.Parse("2006-01-02", v)
	if err != nil {
		return time.Time{}, govrateerrors.ErrInvalidDateFormat
	}
	return t, nil
}

func mapToResponse(rate GovernmentRate) RateResponse {
	resp := RateResponse{
		ID:             rate.ID.String(),
		Seq:            rate.Seq,
		RateType:       rate.RateType,
		PeriodType:     rate.PeriodType,
		MinSalary:      rate.MinSalary,
		MaxSalary:      rate.MaxSalary,
		EmployeeRate:   rate.EmployeeRate,
		EmployerRate:   rate.EmployerRate,
		EmployeeAmount: rate.EmployeeAmount,
		EmployerAmount: rate.EmployerAmount,
		BaseTax:        rate.BaseTax,
		EffectiveDate:  rate.EffectiveDate.Format("2006-01-02"),
		IsActive:       rate.IsActive,
	}
	if rate.EndDate != nil {
		v := rate.EndDate.Format("2006-01-02")
		resp.EndDate = &v
	}
	return resp
}

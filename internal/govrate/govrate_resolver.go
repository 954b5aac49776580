package govrate

import (
	"context"
	"sync"
	"time"

	govrateerrors "buildhr/internal/govrate/errors"

	"github.com/shopspring/decimal"
	"golang.org/x/sync/singleflight"
)

//go:generate mockgen -source=govrate_resolver.go -destination=mock/govrate_resolver_mock.go -package=mock

// Resolver answers "which bracket applies to this salary on this date". For
// contribution types pass an empty periodType; tax lookups pass the period
// type the taxable amount is expressed in.
type Resolver interface {
	Resolve(ctx context.Context, rateType, periodType string, salary decimal.Decimal, asOf time.Time) (Bracket, error)
	Invalidate(rateType string)
}

type resolver struct {
	repo  Repository
	group singleflight.Group

	mu    sync.RWMutex
	cache map[string][]GovernmentRate
}

func NewResolver(repo Repository) Resolver {
	return &resolver{
		repo:  repo,
		cache: map[string][]GovernmentRate{},
	}
}

func (r *resolver) Resolve(
	ctx context.Context,
	rateType, periodType string,
	salary decimal.Decimal,
	asOf time.Time,
) (Bracket, error) {
	rows, err := r.activeRows(ctx, rateType)
	if err != nil {
		return Bracket{}, err
	}

	// Rows arrive ordered effective_date DESC, seq ASC, so the first match
	// already satisfies the tie-break policy: latest effective date first,
	// then first-inserted.
	var ceiling *GovernmentRate
	for i := range rows {
		row := &rows[i]
		if !inEffect(row, asOf) || row.PeriodType != periodType {
			continue
		}
		if salary.LessThan(row.MinSalary) {
			continue
		}
		if row.MaxSalary == nil || salary.LessThan(*row.MaxSalary) {
			return toBracket(*row), nil
		}
		// Salary at or above this bracket's ceiling: remember the
		// highest-bound bracket as the open-ended fallback.
		if ceiling == nil || row.MinSalary.GreaterThan(ceiling.MinSalary) {
			ceiling = row
		}
	}

	if ceiling != nil {
		return toBracket(*ceiling), nil
	}

	return Bracket{}, govrateerrors.ErrBracketNotFound
}

// Invalidate drops the cached rows for a type. Called by the admin service
// after every write.
func (r *resolver) Invalidate(rateType string) {
	r.mu.Lock()
	delete(r.cache, rateType)
	r.mu.Unlock()
}

func (r *resolver) activeRows(ctx context.Context, rateType string) ([]GovernmentRate, error) {
	r.mu.RLock()
	rows, ok := r.cache[rateType]
	r.mu.RUnlock()
	if ok {
		return rows, nil
	}

	// singleflight collapses concurrent cold-cache loads for the same type
	// into one query.
	v, err, _ := r.group.Do(rateType, func() (any, error) {
		loaded, err := r.repo.FindActiveByType(ctx, rateType)
		if err != nil {
			return nil, err
		}
		r.mu.Lock()
		r.cache[rateType] = loaded
		r.mu.Unlock()
		return loaded, nil
	})
	if err != nil {
		return nil, err
	}
	return v.([]GovernmentRate), nil
}

func inEffect(row *GovernmentRate, asOf time.Time) bool {
	if row.EffectiveDate.After(asOf) {
		return false
	}
	if row.EndDate != nil && !asOf.Before(*row.EndDate) {
		return false
	}
	return true
}

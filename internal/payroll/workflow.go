package payroll

import (
	"time"

	payrollerrors "buildhr/internal/payroll/errors"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// transitionRule defines one edge of the period lifecycle:
//
//	DRAFT -> PROCESSING -> CHECKED -> RECOMMENDED -> APPROVED -> PAID
//
// with CANCELLED reachable from DRAFT and PROCESSING only. PROCESSING may be
// re-entered from itself (idempotent recompute); every other edge is one-way.
type transitionRule struct {
	from         map[string]bool
	requireItems bool
	stamp        func(p *PayrollPeriod, actor uuid.UUID, at time.Time)
}

var transitionRules = map[string]transitionRule{
	StatusProcessing: {
		from: map[string]bool{StatusDraft: true, StatusProcessing: true},
		stamp: func(p *PayrollPeriod, actor uuid.UUID, at time.Time) {
			p.PreparedBy, p.PreparedAt = &actor, &at
		},
	},
	StatusChecked: {
		from:         map[string]bool{StatusProcessing: true},
		requireItems: true,
		stamp: func(p *PayrollPeriod, actor uuid.UUID, at time.Time) {
			p.CheckedBy, p.CheckedAt = &actor, &at
		},
	},
	StatusRecommended: {
		from:         map[string]bool{StatusChecked: true},
		requireItems: true,
		stamp: func(p *PayrollPeriod, actor uuid.UUID, at time.Time) {
			p.RecommendedBy, p.RecommendedAt = &actor, &at
		},
	},
	StatusApproved: {
		from:         map[string]bool{StatusRecommended: true},
		requireItems: true,
		stamp: func(p *PayrollPeriod, actor uuid.UUID, at time.Time) {
			p.ApprovedBy, p.ApprovedAt = &actor, &at
		},
	},
	StatusPaid: {
		from:         map[string]bool{StatusApproved: true},
		requireItems: true,
		stamp: func(p *PayrollPeriod, actor uuid.UUID, at time.Time) {
			p.PaidBy, p.PaidAt = &actor, &at
		},
	},
	StatusCancelled: {
		from: map[string]bool{StatusDraft: true, StatusProcessing: true},
		stamp: func(p *PayrollPeriod, _ uuid.UUID, at time.Time) {
			p.CancelledAt = &at
		},
	},
}

// CanTransition reports whether the edge exists, without applying it.
func CanTransition(from, to string) bool {
	rule, ok := transitionRules[to]
	return ok && rule.from[from]
}

// applyTransition validates the guard, stamps the stage actor and timestamp,
// and moves the status. Totals and version are handled by the caller, which
// owns the item set and the CAS write.
func applyTransition(p *PayrollPeriod, to string, actor uuid.UUID, itemCount int, now time.Time) error {
	rule, ok := transitionRules[to]
	if !ok || !rule.from[p.Status] {
		if to == StatusCancelled {
			return payrollerrors.ErrCancelOnlyEditable.WithDetails(map[string]any{
				"period_id": p.ID.String(),
				"status":    p.Status,
			})
		}
		return payrollerrors.ErrInvalidTransition.WithDetails(map[string]any{
			"period_id": p.ID.String(),
			"status":    p.Status,
			"requested": to,
		})
	}
	if rule.requireItems && itemCount == 0 {
		return payrollerrors.ErrNoItems.WithDetails(map[string]any{
			"period_id": p.ID.String(),
		})
	}

	rule.stamp(p, actor, now)
	p.Status = to
	return nil
}

// recomputeTotals derives the period totals from the current item set. They
// are never trusted from input.
func recomputeTotals(p *PayrollPeriod, items []PayrollItem) {
	gross, deductions, net := decimal.Zero, decimal.Zero, decimal.Zero
	for _, item := range items {
		gross = gross.Add(item.GrossPay)
		deductions = deductions.Add(item.TotalDeductions)
		net = net.Add(item.NetPay)
	}
	p.TotalGrossPay = gross
	p.TotalDeductions = deductions
	p.TotalNetPay = net
}

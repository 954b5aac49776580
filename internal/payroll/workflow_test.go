package payroll

import (
	"errors"
	"testing"
	"time"

	payrollerrors "buildhr/internal/payroll/errors"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
)

func TestCanTransition(t *testing.T) {
	allowed := []struct{ from, to string }{
		{StatusDraft, StatusProcessing},
		{StatusProcessing, StatusProcessing},
		{StatusProcessing, StatusChecked},
		{StatusChecked, StatusRecommended},
		{StatusRecommended, StatusApproved},
		{StatusApproved, StatusPaid},
		{StatusDraft, StatusCancelled},
		{StatusProcessing, StatusCancelled},
	}
	for _, tc := range allowed {
		assert.True(t, CanTransition(tc.from, tc.to), "%s -> %s should be allowed", tc.from, tc.to)
	}

	denied := []struct{ from, to string }{
		{StatusDraft, StatusChecked},
		{StatusDraft, StatusPaid},
		{StatusChecked, StatusProcessing},
		{StatusChecked, StatusCancelled},
		{StatusApproved, StatusCancelled},
		{StatusPaid, StatusCancelled},
		{StatusPaid, StatusProcessing},
		{StatusCancelled, StatusProcessing},
		{StatusApproved, StatusApproved},
	}
	for _, tc := range denied {
		assert.False(t, CanTransition(tc.from, tc.to), "%s -> %s should be denied", tc.from, tc.to)
	}
}

func TestApplyTransitionStampsStage(t *testing.T) {
	actor := uuid.New()
	now := time.Date(2026, 3, 15, 9, 0, 0, 0, time.UTC)

	p := &PayrollPeriod{ID: uuid.New(), Status: StatusProcessing}
	err := applyTransition(p, StatusChecked, actor, 3, now)

	assert.NoError(t, err)
	assert.Equal(t, StatusChecked, p.Status)
	assert.Equal(t, actor, *p.CheckedBy)
	assert.Equal(t, now, *p.CheckedAt)
	assert.Nil(t, p.RecommendedBy)
}

func TestApplyTransitionRequiresItems(t *testing.T) {
	p := &PayrollPeriod{ID: uuid.New(), Status: StatusProcessing}
	err := applyTransition(p, StatusChecked, uuid.New(), 0, time.Now())

	assert.Error(t, err)
	assert.True(t, errors.Is(err, payrollerrors.ErrNoItems))
	assert.Equal(t, StatusProcessing, p.Status)
}

func TestApplyTransitionInvalidEdge(t *testing.T) {
	p := &PayrollPeriod{ID: uuid.New(), Status: StatusDraft}
	err := applyTransition(p, StatusApproved, uuid.New(), 2, time.Now())

	assert.True(t, errors.Is(err, payrollerrors.ErrInvalidTransition))
}

func TestApplyTransitionCancelAfterCheckRejected(t *testing.T) {
	for _, status := range []string{StatusChecked, StatusRecommended, StatusApproved, StatusPaid} {
		p := &PayrollPeriod{ID: uuid.New(), Status: status}
		err := applyTransition(p, StatusCancelled, uuid.New(), 2, time.Now())

		assert.True(t, errors.Is(err, payrollerrors.ErrCancelOnlyEditable), "status %s", status)
		assert.Equal(t, status, p.Status)
	}
}

func TestApplyTransitionReprocessKeepsLatestPreparer(t *testing.T) {
	first := uuid.New()
	second := uuid.New()

	p := &PayrollPeriod{ID: uuid.New(), Status: StatusDraft}
	assert.NoError(t, applyTransition(p, StatusProcessing, first, 1, time.Now()))
	assert.NoError(t, applyTransition(p, StatusProcessing, second, 1, time.Now()))

	assert.Equal(t, second, *p.PreparedBy)
}

func TestRecomputeTotals(t *testing.T) {
	p := &PayrollPeriod{}
	items := []PayrollItem{
		{
			GrossPay:        decimal.NewFromFloat(15000),
			TotalDeductions: decimal.NewFromFloat(2500.50),
			NetPay:          decimal.NewFromFloat(12499.50),
		},
		{
			GrossPay:        decimal.NewFromFloat(8000),
			TotalDeductions: decimal.NewFromFloat(1000),
			NetPay:          decimal.NewFromFloat(7000),
		},
	}

	recomputeTotals(p, items)

	assert.True(t, p.TotalGrossPay.Equal(decimal.NewFromFloat(23000)))
	assert.True(t, p.TotalDeductions.Equal(decimal.NewFromFloat(3500.50)))
	assert.True(t, p.TotalNetPay.Equal(decimal.NewFromFloat(19499.50)))
}

func TestRecomputeTotalsEmptyItems(t *testing.T) {
	p := &PayrollPeriod{
		TotalGrossPay: decimal.NewFromInt(999),
		TotalNetPay:   decimal.NewFromInt(999),
	}

	recomputeTotals(p, nil)

	assert.True(t, p.TotalGrossPay.IsZero())
	assert.True(t, p.TotalDeductions.IsZero())
	assert.True(t, p.TotalNetPay.IsZero())
}

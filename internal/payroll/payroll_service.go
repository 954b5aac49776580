package payroll

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"buildhr/internal/attendance"
	"buildhr/internal/compensation"
	"buildhr/internal/employee"
	"buildhr/internal/events"
	"buildhr/internal/govrate"
	"buildhr/internal/messaging/kafka"
	"buildhr/internal/payconfig"
	payrollerrors "buildhr/internal/payroll/errors"
	"buildhr/internal/shared/contextutil"
	"buildhr/internal/shared/counter"

	"github.com/google/uuid"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

const payrollNumberCounter = "payroll_number"

//go:generate mockgen -source=payroll_service.go -destination=mock/payroll_service_mock.go -package=mock
type Service interface {
	CreatePeriod(ctx context.Context, actorID string, req CreatePeriodRequest) (PeriodResponse, error)
	Process(ctx context.Context, actorID, id string, version int64, req ProcessRequest) (PeriodResponse, error)
	Check(ctx context.Context, actorID, id string, version int64) (PeriodResponse, error)
	Recommend(ctx context.Context, actorID, id string, version int64) (PeriodResponse, error)
	Approve(ctx context.Context, actorID, id string, version int64) (PeriodResponse, error)
	MarkPaid(ctx context.Context, actorID, id string, version int64) (PeriodResponse, error)
	Cancel(ctx context.Context, actorID, id string, version int64) (PeriodResponse, error)
	GetAll(ctx context.Context, filter ListFilter) ([]PeriodResponse, error)
	GetByID(ctx context.Context, id string) (PeriodResponse, error)
}

type service struct {
	db           *sql.DB
	repo         Repository
	employees    employee.Repository
	attendance   attendance.Service
	compensation compensation.Repository
	settlements  compensation.Service
	payconfig    payconfig.Service
	resolver     govrate.Resolver
	counter      counter.Repository
	outbox       kafka.OutboxRepository
	logger       *zap.Logger
}

func NewService(
	db *sql.DB,
	repo Repository,
	employees employee.Repository,
	attendanceSvc attendance.Service,
	compensationRepo compensation.Repository,
	settlements compensation.Service,
	payconfigSvc payconfig.Service,
	resolver govrate.Resolver,
	counterRepo counter.Repository,
	outbox kafka.OutboxRepository,
	logger *zap.Logger,
) Service {
	return &service{
		db:           db,
		repo:         repo,
		employees:    employees,
		attendance:   attendanceSvc,
		compensation: compensationRepo,
		settlements:  settlements,
		payconfig:    payconfigSvc,
		resolver:     resolver,
		counter:      counterRepo,
		outbox:       outbox,
		logger:       logger,
	}
}

func (s *service) CreatePeriod(
	ctx context.Context,
	actorID string,
	req CreatePeriodRequest,
) (PeriodResponse, error) {
	actor, err := uuid.Parse(actorID)
	if err != nil {
		return PeriodResponse{}, payrollerrors.ErrInvalidActorID
	}

	periodStart, err := parseDate(req.PeriodStart)
	if err != nil {
		return PeriodResponse{}, err
	}
	periodEnd, err := parseDate(req.PeriodEnd)
	if err != nil {
		return PeriodResponse{}, err
	}
	paymentDate, err := parseDate(req.PaymentDate)
	if err != nil {
		return PeriodResponse{}, err
	}
	if periodEnd.Before(periodStart) {
		return PeriodResponse{}, payrollerrors.ErrInvalidDateRange
	}
	if req.PayPeriodNumber < 1 || req.PayPeriodNumber > 2 {
		return PeriodResponse{}, payrollerrors.ErrInvalidPayPeriodNumber
	}

	payFrequency := req.PayFrequency
	if payFrequency == "" {
		payFrequency = "semi_monthly"
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return PeriodResponse{}, err
	}
	defer tx.Rollback()

	qtx := s.repo.WithTx(tx)

	overlap, err := qtx.HasOverlappingPeriod(ctx, periodStart, periodEnd, nil)
	if err != nil {
		return PeriodResponse{}, err
	}
	if overlap {
		return PeriodResponse{}, payrollerrors.ErrPeriodOverlap
	}

	exists, err := qtx.ExistsPeriodKey(ctx, periodStart.Year(), int(periodStart.Month()), req.PayPeriodNumber)
	if err != nil {
		return PeriodResponse{}, err
	}
	if exists {
		return PeriodResponse{}, payrollerrors.ErrDuplicatePeriodKey
	}

	nextVal, err := s.counter.GetNextValue(ctx, payrollNumberCounter)
	if err != nil {
		return PeriodResponse{}, err
	}

	now := time.Now().UTC()
	period := &PayrollPeriod{
		ID:              uuid.New(),
		PayrollNumber:   fmt.Sprintf("PAY-%d-%06d", periodStart.Year(), nextVal),
		PeriodStart:     periodStart,
		PeriodEnd:       periodEnd,
		PaymentDate:     paymentDate,
		Year:            periodStart.Year(),
		Month:           int(periodStart.Month()),
		PayPeriodNumber: req.PayPeriodNumber,
		PayFrequency:    payFrequency,
		Status:          StatusDraft,
		PreparedBy:      &actor,
		PreparedAt:      &now,
		Version:         1,
	}

	if err := qtx.Create(ctx, period); err != nil {
		s.log(ctx).Error("create payroll period persist failed", zap.Error(err))
		return PeriodResponse{}, mapRepositoryError(err)
	}

	if err := s.queueEvent(ctx, tx, period, events.PayrollPeriodCreated, actorID); err != nil {
		return PeriodResponse{}, err
	}

	if err := tx.Commit(); err != nil {
		return PeriodResponse{}, err
	}

	s.log(ctx).Info("payroll period created",
		zap.String("payroll_id", period.ID.String()),
		zap.String("payroll_number", period.PayrollNumber),
	)

	return mapToPeriodResponse(*period, false), nil
}

// Process computes (or recomputes) every item of a period. The run is
// all-or-nothing: every employee's inputs are resolved and computed before
// anything is written, and the write replaces the previous item set under the
// version check.
func (s *service) Process(
	ctx context.Context,
	actorID, id string,
	version int64,
	req ProcessRequest,
) (PeriodResponse, error) {
	actor, err := uuid.Parse(actorID)
	if err != nil {
		return PeriodResponse{}, payrollerrors.ErrInvalidActorID
	}

	period, err := s.findPeriod(ctx, id)
	if err != nil {
		return PeriodResponse{}, err
	}
	if !CanTransition(period.Status, StatusProcessing) {
		return PeriodResponse{}, payrollerrors.ErrInvalidTransition.WithDetails(map[string]any{
			"payroll_id": id,
			"status":     period.Status,
		})
	}

	roster, err := s.resolveRoster(ctx, req)
	if err != nil {
		return PeriodResponse{}, err
	}

	multipliers, err := s.payconfig.Multipliers(ctx)
	if err != nil {
		return PeriodResponse{}, err
	}
	builder := NewItemBuilder(
		NewEarningsCalculator(multipliers),
		NewDeductionCalculator(s.resolver),
	)

	items := make([]PayrollItem, 0, len(roster))
	var charges []compensation.PayrollCharge
	var warnings []string
	for i := range roster {
		emp := &roster[i]
		input, err := s.resolveItemInput(ctx, emp, period)
		if err != nil {
			return PeriodResponse{}, err
		}

		item, itemCharges, itemWarnings, err := builder.Build(ctx, period.ID, input, period.PayFrequency, period.PeriodEnd)
		if err != nil {
			return PeriodResponse{}, err
		}
		item.ID = uuid.New()
		for ci := range itemCharges {
			itemCharges[ci].PayrollItemID = item.ID
		}
		items = append(items, item)
		charges = append(charges, itemCharges...)
		for _, w := range itemWarnings {
			warnings = append(warnings, fmt.Sprintf("%s: %s", emp.EmployeeNumber, w))
		}
	}

	now := time.Now().UTC()
	if err := applyTransition(period, StatusProcessing, actor, len(items), now); err != nil {
		return PeriodResponse{}, err
	}
	period.Items = items
	recomputeTotals(period, items)

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return PeriodResponse{}, err
	}
	defer tx.Rollback()

	qtx := s.repo.WithTx(tx)

	if err := qtx.ReplaceItems(ctx, period.ID, items, charges); err != nil {
		s.log(ctx).Error("replace payroll items failed",
			zap.String("payroll_id", id),
			zap.Error(err),
		)
		return PeriodResponse{}, err
	}

	ok, err := qtx.UpdateWithVersion(ctx, period, version)
	if err != nil {
		return PeriodResponse{}, err
	}
	if !ok {
		return PeriodResponse{}, payrollerrors.ErrVersionConflict
	}

	if err := s.queueEvent(ctx, tx, period, events.PayrollPeriodProcessed, actorID); err != nil {
		return PeriodResponse{}, err
	}

	if err := tx.Commit(); err != nil {
		return PeriodResponse{}, err
	}

	s.log(ctx).Info("payroll period processed",
		zap.String("payroll_id", id),
		zap.Int("item_count", len(items)),
		zap.Int("warning_count", len(warnings)),
	)

	resp := mapToPeriodResponse(*period, true)
	resp.Warnings = warnings
	return resp, nil
}

func (s *service) Check(ctx context.Context, actorID, id string, version int64) (PeriodResponse, error) {
	return s.transition(ctx, actorID, id, version, StatusChecked, events.PayrollPeriodChecked)
}

func (s *service) Recommend(ctx context.Context, actorID, id string, version int64) (PeriodResponse, error) {
	return s.transition(ctx, actorID, id, version, StatusRecommended, events.PayrollPeriodRecommended)
}

func (s *service) Approve(ctx context.Context, actorID, id string, version int64) (PeriodResponse, error) {
	return s.transition(ctx, actorID, id, version, StatusApproved, events.PayrollPeriodApproved)
}

func (s *service) Cancel(ctx context.Context, actorID, id string, version int64) (PeriodResponse, error) {
	return s.transition(ctx, actorID, id, version, StatusCancelled, events.PayrollPeriodCancelled)
}

// MarkPaid is the only transition with side effects beyond the period itself:
// the charge lines frozen with each item settle against their loan and
// deduction balances inside the same transaction, so a version conflict rolls
// the whole settlement back.
func (s *service) MarkPaid(ctx context.Context, actorID, id string, version int64) (PeriodResponse, error) {
	actor, err := uuid.Parse(actorID)
	if err != nil {
		return PeriodResponse{}, payrollerrors.ErrInvalidActorID
	}

	period, err := s.findPeriod(ctx, id)
	if err != nil {
		return PeriodResponse{}, err
	}

	now := time.Now().UTC()
	if err := applyTransition(period, StatusPaid, actor, len(period.Items), now); err != nil {
		return PeriodResponse{}, err
	}
	recomputeTotals(period, period.Items)

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return PeriodResponse{}, err
	}
	defer tx.Rollback()

	qtx := s.repo.WithTx(tx)

	ok, err := qtx.UpdateWithVersion(ctx, period, version)
	if err != nil {
		return PeriodResponse{}, err
	}
	if !ok {
		return PeriodResponse{}, payrollerrors.ErrVersionConflict
	}

	for _, item := range period.Items {
		if err := s.settlements.Settle(ctx, tx, item.ID.String(), now); err != nil {
			s.log(ctx).Error("settle compensation failed",
				zap.String("payroll_id", id),
				zap.String("employee_id", item.EmployeeID.String()),
				zap.Error(err),
			)
			return PeriodResponse{}, err
		}
	}

	if err := s.queueEvent(ctx, tx, period, events.PayrollPeriodPaid, actorID); err != nil {
		return PeriodResponse{}, err
	}

	if err := tx.Commit(); err != nil {
		return PeriodResponse{}, err
	}

	s.log(ctx).Info("payroll period paid",
		zap.String("payroll_id", id),
		zap.Int("item_count", len(period.Items)),
	)

	return mapToPeriodResponse(*period, true), nil
}

func (s *service) GetAll(ctx context.Context, filter ListFilter) ([]PeriodResponse, error) {
	periods, err := s.repo.FindAll(ctx, filter)
	if err != nil {
		return nil, err
	}
	return mapToListResponse(periods), nil
}

func (s *service) GetByID(ctx context.Context, id string) (PeriodResponse, error) {
	period, err := s.findPeriod(ctx, id)
	if err != nil {
		return PeriodResponse{}, err
	}
	return mapToPeriodResponse(*period, true), nil
}

func (s *service) transition(
	ctx context.Context,
	actorID, id string,
	version int64,
	to, eventType string,
) (PeriodResponse, error) {
	actor, err := uuid.Parse(actorID)
	if err != nil {
		return PeriodResponse{}, payrollerrors.ErrInvalidActorID
	}

	period, err := s.findPeriod(ctx, id)
	if err != nil {
		return PeriodResponse{}, err
	}

	now := time.Now().UTC()
	if err := applyTransition(period, to, actor, len(period.Items), now); err != nil {
		return PeriodResponse{}, err
	}
	recomputeTotals(period, period.Items)

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return PeriodResponse{}, err
	}
	defer tx.Rollback()

	qtx := s.repo.WithTx(tx)

	ok, err := qtx.UpdateWithVersion(ctx, period, version)
	if err != nil {
		return PeriodResponse{}, err
	}
	if !ok {
		return PeriodResponse{}, payrollerrors.ErrVersionConflict
	}

	if err := s.queueEvent(ctx, tx, period, eventType, actorID); err != nil {
		return PeriodResponse{}, err
	}

	if err := tx.Commit(); err != nil {
		return PeriodResponse{}, err
	}

	s.log(ctx).Info("payroll period transitioned",
		zap.String("payroll_id", id),
		zap.String("status", to),
	)

	return mapToPeriodResponse(*period, false), nil
}

func (s *service) findPeriod(ctx context.Context, id string) (*PayrollPeriod, error) {
	if _, err := uuid.Parse(id); err != nil {
		return nil, payrollerrors.ErrPeriodNotFound
	}
	period, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, mapRepositoryError(err)
	}
	return period, nil
}

// resolveRoster turns the request into a concrete employee list. An explicit
// id list must match existing employees exactly; every listed employee is
// included even when inactive, since a run can cover someone's final period.
func (s *service) resolveRoster(ctx context.Context, req ProcessRequest) ([]employee.Employee, error) {
	if len(req.EmployeeIDs) > 0 {
		roster, err := s.employees.FindByIDs(ctx, req.EmployeeIDs)
		if err != nil {
			return nil, err
		}
		if len(roster) != len(req.EmployeeIDs) {
			return nil, payrollerrors.ErrInvalidEmployeeID.WithDetails(map[string]any{
				"requested": len(req.EmployeeIDs),
				"found":     len(roster),
			})
		}
		return roster, nil
	}

	roster, err := s.employees.FindActive(ctx, employee.RosterFilter{
		ProjectID:    req.ProjectID,
		ContractType: req.ContractType,
		PositionID:   req.PositionID,
	})
	if err != nil {
		return nil, err
	}
	if len(roster) == 0 {
		return nil, payrollerrors.ErrEmptyRoster
	}
	return roster, nil
}

func (s *service) resolveItemInput(ctx context.Context, emp *employee.Employee, period *PayrollPeriod) (ItemInput, error) {
	empID := emp.ID.String()

	summary, err := s.attendance.Summarize(ctx, empID, period.PeriodStart, period.PeriodEnd)
	if err != nil {
		return ItemInput{}, err
	}
	allowances, err := s.compensation.FindActiveAllowances(ctx, empID, period.PeriodStart, period.PeriodEnd)
	if err != nil {
		return ItemInput{}, err
	}
	loans, err := s.compensation.FindActiveLoans(ctx, empID)
	if err != nil {
		return ItemInput{}, err
	}
	deductions, err := s.compensation.FindActiveDeductions(ctx, empID)
	if err != nil {
		return ItemInput{}, err
	}

	return ItemInput{
		Employee:   emp,
		Summary:    summary,
		Allowances: allowances,
		Loans:      loans,
		Deductions: deductions,
	}, nil
}

func (s *service) queueEvent(ctx context.Context, tx *sql.Tx, period *PayrollPeriod, eventType, actorID string) error {
	if s.outbox == nil {
		return nil
	}

	rid := contextutil.GetRequestID(ctx)
	event := events.PayrollPeriodEvent{
		EventType:     eventType,
		RequestID:     rid,
		PayrollID:     period.ID.String(),
		PayrollNumber: period.PayrollNumber,
		Status:        period.Status,
		ActorID:       actorID,
		ItemCount:     len(period.Items),
		NetTotal:      period.TotalNetPay.StringFixed(2),
		OccurredAt:    time.Now().UTC(),
	}
	payload, err := json.Marshal(event)
	if err != nil {
		return err
	}

	return s.outbox.WithTx(tx).Create(ctx, kafka.OutboxEvent{
		ID:            uuid.NewString(),
		RequestID:     rid,
		AggregateType: "payroll_period",
		AggregateID:   period.ID.String(),
		EventType:     eventType,
		Topic:         events.PayrollPeriodTopic,
		Payload:       payload,
		Status:        kafka.OutboxStatusPending,
	})
}

func (s *service) log(ctx context.Context) *zap.Logger {
	return contextutil.GetLogger(ctx, s.logger)
}

func parseDate(value string) (time.Time, error) {
	d, err := time.Parse("2006-01-02", value)
	if err != nil {
		return time.Time{}, payrollerrors.ErrInvalidDateFormat
	}
	return d, nil
}

func mapRepositoryError(err error) error {
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return payrollerrors.ErrPeriodNotFound
	}
	if isUniqueViolation(err) {
		return payrollerrors.ErrDuplicatePeriodKey
	}
	return err
}

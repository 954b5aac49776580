package payrollerrors

import (
	"net/http"

	"buildhr/internal/shared/apperror"
)

var (
	ErrInvalidActorID = apperror.New(
		apperror.CodeInvalidInput,
		"invalid actor id",
		http.StatusBadRequest,
	)
	ErrInvalidEmployeeID = apperror.New(
		apperror.CodeInvalidInput,
		"invalid employee id",
		http.StatusBadRequest,
	)
	ErrInvalidDateFormat = apperror.New(
		apperror.CodeInvalidInput,
		"invalid date format, expected YYYY-MM-DD",
		http.StatusBadRequest,
	)
	ErrInvalidDateRange = apperror.New(
		apperror.CodeInvalidInput,
		"period_start must be before or equal period_end",
		http.StatusBadRequest,
	)
	ErrInvalidPayPeriodNumber = apperror.New(
		apperror.CodeInvalidInput,
		"pay_period_number must be 1 or 2",
		http.StatusBadRequest,
	)
	ErrPeriodOverlap = apperror.New(
		apperror.CodeConflict,
		"a payroll period already covers part of this date range",
		http.StatusConflict,
	)
	ErrDuplicatePeriodKey = apperror.New(
		apperror.CodeConflict,
		"a payroll period already exists for this year, month, and pay period number",
		http.StatusConflict,
	)
	ErrPeriodNotFound = apperror.New(
		apperror.CodeNotFound,
		"payroll period not found",
		http.StatusNotFound,
	)
	ErrEmptyRoster = apperror.New(
		apperror.CodeInvalidInput,
		"no employees match the requested roster",
		http.StatusBadRequest,
	)
	ErrInvalidTransition = apperror.New(
		apperror.CodeInvalidState,
		"invalid payroll status transition",
		http.StatusConflict,
	)
	ErrNoItems = apperror.New(
		apperror.CodeInvalidState,
		"payroll period has no computed items",
		http.StatusConflict,
	)
	ErrCancelOnlyEditable = apperror.New(
		apperror.CodeInvalidState,
		"payroll can only be cancelled while status is DRAFT or PROCESSING",
		http.StatusConflict,
	)
	ErrVersionConflict = apperror.New(
		apperror.CodeConflict,
		"payroll period was modified by another request, refetch and retry",
		http.StatusConflict,
	)
)

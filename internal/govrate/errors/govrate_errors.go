package govrateerrors

import (
	"net/http"

	"buildhr/internal/shared/apperror"
)

var (
	ErrBracketNotFound = apperror.New(
		apperror.CodeNotFound,
		"no bracket matches the given type, salary, and date",
		http.StatusNotFound,
	)
	ErrRateNotFound = apperror.New(
		apperror.CodeNotFound,
		"government rate not found",
		http.StatusNotFound,
	)
	ErrInvalidRateType = apperror.New(
		apperror.CodeInvalidInput,
		"rate_type must be one of sss, philhealth, pagibig, tax",
		http.StatusBadRequest,
	)
	ErrInvalidPeriodType = apperror.New(
		apperror.CodeInvalidInput,
		"period_type must be one of daily, weekly, semi_monthly, monthly, annual",
		http.StatusBadRequest,
	)
	ErrInvalidSalaryRange = apperror.New(
		apperror.CodeInvalidInput,
		"min_salary must be lower than max_salary",
		http.StatusBadRequest,
	)
	ErrInvalidDateFormat = apperror.New(
		apperror.CodeInvalidInput,
		"invalid date format, expected YYYY-MM-DD",
		http.StatusBadRequest,
	)
	ErrInvalidEffectiveRange = apperror.New(
		apperror.CodeInvalidInput,
		"effective_date must be before end_date",
		http.StatusBadRequest,
	)
	ErrBracketOverlap = apperror.New(
		apperror.CodeConflict,
		"an active bracket of this type already covers part of this salary range and date window",
		http.StatusConflict,
	)
)

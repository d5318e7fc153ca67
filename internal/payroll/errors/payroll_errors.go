package payrollerrors

import (
	"net/http"

	"github.com/Toretto00/salary-calculator/internal/shared/apperror"
)

var (
	ErrSalaryRecordNotFound = apperror.New(
		apperror.CodeNotFound,
		"Salary record not found",
		http.StatusNotFound,
	)
	ErrSalaryAlreadyCalculated = apperror.New(
		apperror.CodeConflict,
		"Salary for this period is already calculated. Pass confirm_overwrite to recalculate.",
		http.StatusConflict,
	)
	ErrInvalidRecordID = apperror.New(
		apperror.CodeInvalidInput,
		"invalid salary record id",
		http.StatusBadRequest,
	)
	ErrInvalidPeriod = apperror.New(
		apperror.CodeInvalidInput,
		"invalid period, month must be 1-12 and year 2000 or later",
		http.StatusBadRequest,
	)
	ErrNoEmployees = apperror.New(
		apperror.CodeInvalidInput,
		"employee_ids must not be empty",
		http.StatusBadRequest,
	)
)

package attendanceerrors

import (
	"net/http"

	"github.com/Toretto00/salary-calculator/internal/shared/apperror"
)

var (
	ErrAlreadyCheckedIn = apperror.New(
		apperror.CodeConflict,
		"You are already checked in. Please check out first.",
		http.StatusConflict,
	)
	ErrNoActiveCheckIn = apperror.New(
		apperror.CodeInvalidState,
		"No active check-in found. Please check in first.",
		http.StatusBadRequest,
	)
	ErrAttendanceNotFound = apperror.New(
		apperror.CodeNotFound,
		"Attendance record not found",
		http.StatusNotFound,
	)
	ErrInvalidEmployeeID = apperror.New(
		apperror.CodeInvalidInput,
		"invalid employee id",
		http.StatusBadRequest,
	)
	ErrInvalidDateRange = apperror.New(
		apperror.CodeInvalidInput,
		"invalid date range, expected YYYY-MM-DD start and end",
		http.StatusBadRequest,
	)
)

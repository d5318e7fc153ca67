package attendance

import (
	"errors"
	"strings"

	attendanceerrors "github.com/Toretto00/salary-calculator/internal/attendance/errors"

	"github.com/jackc/pgx/v5/pgconn"
	"gorm.io/gorm"
)

func mapRepositoryError(err error) error {
	if err == nil {
		return nil
	}

	if errors.Is(err, gorm.ErrRecordNotFound) {
		return attendanceerrors.ErrAttendanceNotFound
	}

	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) && pgErr.Code == "23505" {
		if pgErr.ConstraintName == "uq_attendance_open" {
			return attendanceerrors.ErrAlreadyCheckedIn
		}
	}
	if strings.Contains(err.Error(), "uq_attendance_open") {
		return attendanceerrors.ErrAlreadyCheckedIn
	}

	return err
}

package payroll

import (
	"errors"
	"strings"

	payrollerrors "github.com/Toretto00/salary-calculator/internal/payroll/errors"

	"github.com/jackc/pgx/v5/pgconn"
	"gorm.io/gorm"
)

func mapRepositoryError(err error) error {
	if err == nil {
		return nil
	}

	if errors.Is(err, gorm.ErrRecordNotFound) {
		return payrollerrors.ErrSalaryRecordNotFound
	}

	if isPeriodConflict(err) {
		return payrollerrors.ErrSalaryAlreadyCalculated
	}

	return err
}

func isPeriodConflict(err error) bool {
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) && pgErr.Code == "23505" {
		return pgErr.ConstraintName == "uq_salary_employee_period"
	}
	return strings.Contains(err.Error(), "uq_salary_employee_period")
}

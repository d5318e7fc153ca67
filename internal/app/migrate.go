package app

import (
	"github.com/Toretto00/salary-calculator/internal/attendance"
	"github.com/Toretto00/salary-calculator/internal/auth"
	"github.com/Toretto00/salary-calculator/internal/employee"
	"github.com/Toretto00/salary-calculator/internal/payroll"

	"gorm.io/gorm"
)

// migrate keeps the schema in sync on startup. Entities go through gorm,
// the two raw-SQL tables (counters, outbox) get explicit DDL because no
// entity maps them.
func migrate(db *gorm.DB) error {
	if err := db.AutoMigrate(
		&auth.User{},
		&employee.Employee{},
		&attendance.Attendance{},
		&payroll.SalaryRecord{},
	); err != nil {
		return err
	}

	if err := db.Exec(`
		CREATE TABLE IF NOT EXISTS counters (
			counter_type VARCHAR(50) PRIMARY KEY,
			last_value   BIGINT NOT NULL DEFAULT 0,
			updated_at   TIMESTAMPTZ NOT NULL DEFAULT now()
		)
	`).Error; err != nil {
		return err
	}

	return db.Exec(`
		CREATE TABLE IF NOT EXISTS outbox_events (
			id             UUID PRIMARY KEY,
			request_id     VARCHAR(64),
			aggregate_type VARCHAR(50) NOT NULL,
			aggregate_id   UUID NOT NULL,
			event_type     VARCHAR(100) NOT NULL,
			topic          VARCHAR(200) NOT NULL,
			payload        JSONB NOT NULL,
			status         VARCHAR(20) NOT NULL DEFAULT 'pending',
			retry_count    INT NOT NULL DEFAULT 0,
			error_message  VARCHAR(500),
			next_retry_at  TIMESTAMPTZ,
			processed_at   TIMESTAMPTZ,
			created_at     TIMESTAMPTZ NOT NULL DEFAULT now(),
			updated_at     TIMESTAMPTZ NOT NULL DEFAULT now()
		)
	`).Error
}

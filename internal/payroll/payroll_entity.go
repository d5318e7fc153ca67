package payroll

import (
	"time"

	"github.com/google/uuid"
)

// SalaryRecord is the persisted outcome of one employee-month calculation.
// The composite unique index is the idempotency anchor: a second calculation
// for the same (employee, month, year) can only land as an explicit
// overwrite, never as a silent duplicate.
//
// Inputs are snapshotted alongside the results so a record stays explainable
// after the employee profile changes.
type SalaryRecord struct {
	ID         uuid.UUID `gorm:"type:uuid;primaryKey"`
	EmployeeID uuid.UUID `gorm:"type:uuid;not null;uniqueIndex:uq_salary_employee_period"`
	Month      int       `gorm:"not null;uniqueIndex:uq_salary_employee_period;index:idx_salary_period"`
	Year       int       `gorm:"not null;uniqueIndex:uq_salary_employee_period;index:idx_salary_period"`

	// Input snapshot
	GrossSalary       float64 `gorm:"not null;default:0"`
	WorkingDays       float64 `gorm:"not null;default:0"`
	DaysOff           float64 `gorm:"not null;default:0"`
	Dependents        int     `gorm:"not null;default:0"`
	Probation         bool    `gorm:"not null;default:false"`
	Nationality       string  `gorm:"type:varchar(50);not null;default:'vietnamese'"`
	OvertimeSoonHours float64 `gorm:"not null;default:0"`
	OvertimeLateHours float64 `gorm:"not null;default:0"`
	Bonus             float64 `gorm:"not null;default:0"`

	AllowanceFood      float64 `gorm:"not null;default:0"`
	AllowanceClothes   float64 `gorm:"not null;default:0"`
	AllowanceParking   float64 `gorm:"not null;default:0"`
	AllowanceFuel      float64 `gorm:"not null;default:0"`
	AllowanceHouseRent float64 `gorm:"not null;default:0"`
	AllowancePhone     float64 `gorm:"not null;default:0"`

	// Derived figures
	EffectiveGross    float64 `gorm:"not null;default:0"`
	AdjustedSalary    float64 `gorm:"not null;default:0"`
	HourlyRate        float64 `gorm:"not null;default:0"`
	OvertimeSoonPay   float64 `gorm:"not null;default:0"`
	OvertimeLatePay   float64 `gorm:"not null;default:0"`
	OvertimePay       float64 `gorm:"not null;default:0"`
	TotalAllowances   float64 `gorm:"not null;default:0"`
	TaxableAllowances float64 `gorm:"not null;default:0"`
	PersonalRelief    float64 `gorm:"not null;default:0"`
	DependentRelief   float64 `gorm:"not null;default:0"`
	SocialInsurance   float64 `gorm:"not null;default:0"`
	HealthInsurance   float64 `gorm:"not null;default:0"`
	AccidentInsurance float64 `gorm:"not null;default:0"`
	TotalInsurance    float64 `gorm:"not null;default:0"`
	TaxableIncome     float64 `gorm:"not null;default:0"`
	Tax               float64 `gorm:"not null;default:0"`
	NetSalary         float64 `gorm:"not null;default:0"`

	CreatedAt time.Time
	UpdatedAt time.Time
}

func (SalaryRecord) TableName() string {
	return "salary_records"
}

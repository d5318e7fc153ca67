package employee

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Allowances is the fixed block of six monthly stipends. Amounts are whole
// VND; food and clothes are only taxable above their exemption thresholds.
type Allowances struct {
	Food      int64 `gorm:"not null;default:0"`
	Clothes   int64 `gorm:"not null;default:0"`
	Parking   int64 `gorm:"not null;default:0"`
	Fuel      int64 `gorm:"not null;default:0"`
	HouseRent int64 `gorm:"column:house_rent;not null;default:0"`
	Phone     int64 `gorm:"not null;default:0"`
}

type Employee struct {
	ID             uuid.UUID `gorm:"type:uuid;primaryKey"`
	EmployeeNumber string    `gorm:"type:varchar(20);not null;uniqueIndex:uq_employee_number"`
	FullName       string    `gorm:"column:full_name;not null"`
	Email          string    `gorm:"uniqueIndex:uq_employee_email"`
	Position       string    `gorm:"type:varchar(120)"`

	// Payroll profile
	Salary      int64      `gorm:"type:bigint;not null;default:0"`
	Dependents  int        `gorm:"not null;default:0"`
	Probation   bool       `gorm:"not null;default:false"`
	Nationality string     `gorm:"type:varchar(30);not null;default:'vietnamese'"`
	Allowances  Allowances `gorm:"embedded;embeddedPrefix:allowance_"`

	CreatedAt time.Time
	UpdatedAt time.Time
	DeletedAt gorm.DeletedAt `gorm:"index"`
}

func (Employee) TableName() string {
	return "employees"
}

package attendance

import (
	"time"

	"github.com/google/uuid"
)

const (
	StatusIncomplete = "incomplete"
	StatusPresent    = "present"
)

// Attendance is one check-in event, closed once by check-out. The partial
// unique index keeps at most one open record (check_out_at IS NULL) per
// employee, so the single-open invariant holds even across racing requests.
type Attendance struct {
	ID             uuid.UUID `gorm:"type:uuid;primaryKey"`
	EmployeeID     uuid.UUID `gorm:"type:uuid;not null;index;uniqueIndex:uq_attendance_open,where:check_out_at IS NULL"`
	AttendanceDate time.Time `gorm:"type:date;not null;index"`

	CheckInAt     time.Time `gorm:"not null"`
	CheckInNotes  string    `gorm:"type:text"`
	CheckOutAt    *time.Time
	CheckOutNotes string `gorm:"type:text"`

	// Derived at check-out
	WorkingHours float64 `gorm:"not null;default:0"`
	Overtime     float64 `gorm:"not null;default:0"`
	Status       string  `gorm:"type:varchar(20);not null;default:'incomplete'"`

	CreatedAt time.Time
	UpdatedAt time.Time
}

func (Attendance) TableName() string {
	return "attendances"
}

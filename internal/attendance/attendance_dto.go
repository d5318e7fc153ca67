package attendance

type CheckInRequest struct {
	Notes string `json:"notes"`
}

type CheckOutRequest struct {
	Notes string `json:"notes"`
}

type AttendanceResponse struct {
	ID             string  `json:"id"`
	EmployeeID     string  `json:"employee_id"`
	AttendanceDate string  `json:"attendance_date"`
	CheckInAt      string  `json:"check_in_at"`
	CheckInNotes   string  `json:"check_in_notes,omitempty"`
	CheckOutAt     *string `json:"check_out_at,omitempty"`
	CheckOutNotes  string  `json:"check_out_notes,omitempty"`
	WorkingHours   float64 `json:"working_hours"`
	Overtime       float64 `json:"overtime"`
	Status         string  `json:"status"`
}

type TodayStatusResponse struct {
	Status     string              `json:"status"` // not-checked-in | checked-in | checked-out
	Attendance *AttendanceResponse `json:"attendance,omitempty"`
}

type RangeSummaryResponse struct {
	Records []AttendanceResponse `json:"records"`
	Summary RangeSummaryTotals   `json:"summary"`
}

type RangeSummaryTotals struct {
	TotalHours         float64 `json:"totalHours"`
	TotalOvertimeHours float64 `json:"totalOvertimeHours"`
	PresentDays        int     `json:"presentDays"`
	TotalRecords       int     `json:"totalRecords"`
}

type StatsResponse struct {
	FullDays         int     `json:"fullDays"`
	HalfDays         int     `json:"halfDays"`
	WorkDays         float64 `json:"workDays"`
	Absences         float64 `json:"absences"`
	TotalWorkingDays int     `json:"totalWorkingDays"`
}

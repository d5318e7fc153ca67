package payroll

// BatchCalculateRequest drives one calculation run. WorkingDays and DaysOff
// are optional overrides, when absent both are derived from attendance.
// Overtime hours and bonus apply uniformly to every listed employee.
type BatchCalculateRequest struct {
	EmployeeIDs []string `json:"employee_ids" binding:"required,min=1,dive,uuid"`
	Month       int      `json:"month" binding:"required,min=1,max=12"`
	Year        int      `json:"year" binding:"required,min=2000"`

	WorkingDays *float64 `json:"working_days" binding:"omitempty,gt=0"`
	DaysOff     *float64 `json:"days_off" binding:"omitempty,gte=0"`

	OvertimeSoonHours float64 `json:"overtime_soon_hours" binding:"gte=0"`
	OvertimeLateHours float64 `json:"overtime_late_hours" binding:"gte=0"`
	Bonus             float64 `json:"bonus" binding:"gte=0"`

	ConfirmOverwrite bool `json:"confirm_overwrite"`
}

type UpdateSalaryRequest struct {
	WorkingDays       *float64 `json:"working_days" binding:"omitempty,gt=0"`
	DaysOff           *float64 `json:"days_off" binding:"omitempty,gte=0"`
	OvertimeSoonHours *float64 `json:"overtime_soon_hours" binding:"omitempty,gte=0"`
	OvertimeLateHours *float64 `json:"overtime_late_hours" binding:"omitempty,gte=0"`
	Bonus             *float64 `json:"bonus" binding:"omitempty,gte=0"`
}

// BatchFailure reports one employee that could not be calculated. The run
// keeps going for the rest of the batch.
type BatchFailure struct {
	EmployeeID string `json:"employeeId"`
	Message    string `json:"message"`
	RecordID   string `json:"recordId,omitempty"`
}

// BatchCalculateResponse reports the whole run: Success is true as soon as
// any employee went through.
type BatchCalculateResponse struct {
	Success  bool                   `json:"success"`
	Message  string                 `json:"message"`
	Results  []SalaryRecordResponse `json:"results"`
	Failures []BatchFailure         `json:"errors"`
}

// AllowanceBreakdown is the per-allowance snapshot taken at calculation time,
// so a record keeps its meaning after the employee profile changes.
type AllowanceBreakdown struct {
	Food      float64 `json:"food"`
	Clothes   float64 `json:"clothes"`
	Parking   float64 `json:"parking"`
	Fuel      float64 `json:"fuel"`
	HouseRent float64 `json:"house_rent"`
	Phone     float64 `json:"phone"`
}

type SalaryRecordResponse struct {
	ID             string `json:"id"`
	EmployeeID     string `json:"employee_id"`
	EmployeeName   string `json:"employee_name,omitempty"`
	EmployeeNumber string `json:"employee_number,omitempty"`
	Month          int    `json:"month"`
	Year           int    `json:"year"`

	GrossSalary       float64 `json:"gross_salary"`
	WorkingDays       float64 `json:"working_days"`
	DaysOff           float64 `json:"days_off"`
	Dependents        int     `json:"dependents"`
	Probation         bool    `json:"probation"`
	Nationality       string  `json:"nationality"`
	OvertimeSoonHours float64 `json:"overtime_soon_hours"`
	OvertimeLateHours float64 `json:"overtime_late_hours"`
	Bonus             float64 `json:"bonus"`

	Allowances AllowanceBreakdown `json:"allowances"`

	EffectiveGross    float64 `json:"effective_gross"`
	AdjustedSalary    float64 `json:"adjusted_salary"`
	HourlyRate        float64 `json:"hourly_rate"`
	OvertimeSoonPay   float64 `json:"overtime_soon_pay"`
	OvertimeLatePay   float64 `json:"overtime_late_pay"`
	OvertimePay       float64 `json:"overtime_pay"`
	TotalAllowances   float64 `json:"total_allowances"`
	TaxableAllowances float64 `json:"taxable_allowances"`
	PersonalRelief    float64 `json:"personal_relief"`
	DependentRelief   float64 `json:"dependent_relief"`
	SocialInsurance   float64 `json:"social_insurance"`
	HealthInsurance   float64 `json:"health_insurance"`
	AccidentInsurance float64 `json:"accident_insurance"`
	TotalInsurance    float64 `json:"total_insurance"`
	TaxableIncome     float64 `json:"taxable_income"`
	Tax               float64 `json:"tax"`
	NetSalary         float64 `json:"net_salary"`

	CreatedAt string `json:"created_at"`
	UpdatedAt string `json:"updated_at"`
}

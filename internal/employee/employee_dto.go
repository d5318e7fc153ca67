package employee

type AllowancesPayload struct {
	Food      int64 `json:"food" binding:"min=0"`
	Clothes   int64 `json:"clothes" binding:"min=0"`
	Parking   int64 `json:"parking" binding:"min=0"`
	Fuel      int64 `json:"fuel" binding:"min=0"`
	HouseRent int64 `json:"houseRent" binding:"min=0"`
	Phone     int64 `json:"phone" binding:"min=0"`
}

type CreateEmployeeRequest struct {
	EmployeeNumber string             `json:"employee_number"`
	FullName       string             `json:"fullname" binding:"required"`
	Email          string             `json:"email" binding:"required,email"`
	Position       string             `json:"position"`
	Salary         int64              `json:"salary" binding:"min=0"`
	Dependents     int                `json:"dependents" binding:"min=0"`
	Probation      string             `json:"probation" binding:"omitempty,oneof=yes no"`
	Nationality    string             `json:"nationality"`
	Allowances     *AllowancesPayload `json:"allowances"`
}

type UpdateEmployeeRequest struct {
	FullName    string             `json:"fullname" binding:"required"`
	Email       string             `json:"email" binding:"required,email"`
	Position    string             `json:"position"`
	Salary      int64              `json:"salary" binding:"min=0"`
	Dependents  int                `json:"dependents" binding:"min=0"`
	Probation   string             `json:"probation" binding:"omitempty,oneof=yes no"`
	Nationality string             `json:"nationality"`
	Allowances  *AllowancesPayload `json:"allowances"`
}

type EmployeeResponse struct {
	ID             string            `json:"id"`
	EmployeeNumber string            `json:"employee_number"`
	FullName       string            `json:"fullname"`
	Email          string            `json:"email"`
	Position       string            `json:"position,omitempty"`
	Salary         int64             `json:"salary"`
	Dependents     int               `json:"dependents"`
	Probation      string            `json:"probation"`
	Nationality    string            `json:"nationality"`
	Allowances     AllowancesPayload `json:"allowances"`
}

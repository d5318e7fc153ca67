package payroll

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/Toretto00/salary-calculator/internal/attendance"
	"github.com/Toretto00/salary-calculator/internal/employee"
	"github.com/Toretto00/salary-calculator/internal/events"
	"github.com/Toretto00/salary-calculator/internal/messaging/kafka"
	payrollerrors "github.com/Toretto00/salary-calculator/internal/payroll/errors"
	"github.com/Toretto00/salary-calculator/internal/shared/contextutil"

	"github.com/google/uuid"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

// EmployeeDirectory is the slice of the employee service the calculator
// needs: profile lookups only.
type EmployeeDirectory interface {
	GetByID(ctx context.Context, id string) (employee.EmployeeResponse, error)
}

// AttendanceStatsProvider supplies the derived period stats when the request
// does not override working days.
type AttendanceStatsProvider interface {
	MonthlyStats(ctx context.Context, employeeID string, month, year int) (attendance.StatsResponse, error)
}

//go:generate mockgen -source=payroll_service.go -destination=mock/payroll_service_mock.go -package=mock
type Service interface {
	Calculate(ctx context.Context, req BatchCalculateRequest) (BatchCalculateResponse, error)
	GetAll(ctx context.Context) ([]SalaryRecordResponse, error)
	GetByPeriod(ctx context.Context, month, year int) ([]SalaryRecordResponse, error)
	GetByEmployee(ctx context.Context, employeeID string) ([]SalaryRecordResponse, error)
	GetByID(ctx context.Context, id string) (SalaryRecordResponse, error)
	Update(ctx context.Context, id string, req UpdateSalaryRequest) (SalaryRecordResponse, error)
	Delete(ctx context.Context, id string) error
	ExportExcel(ctx context.Context, month, year int) ([]byte, error)
	Payslip(ctx context.Context, id string) ([]byte, error)
}

type service struct {
	db        *sql.DB
	repo      Repository
	employees EmployeeDirectory
	stats     AttendanceStatsProvider
	outbox    kafka.OutboxRepository
	policy    Policy
	logger    *zap.Logger
}

func NewService(
	db *sql.DB,
	repo Repository,
	employees EmployeeDirectory,
	stats AttendanceStatsProvider,
	outboxRepo kafka.OutboxRepository,
	policy Policy,
	logger ...*zap.Logger,
) Service {
	l := zap.L().Named("payroll.service")
	if len(logger) > 0 && logger[0] != nil {
		l = logger[0].Named("payroll.service")
	}
	return &service{
		db:        db,
		repo:      repo,
		employees: employees,
		stats:     stats,
		outbox:    outboxRepo,
		policy:    policy,
		logger:    l,
	}
}

// Calculate runs the batch. Employees fail individually, one bad id or an
// already-calculated period never aborts the rest of the run.
func (s *service) Calculate(ctx context.Context, req BatchCalculateRequest) (BatchCalculateResponse, error) {
	rid := contextutil.GetRequestID(ctx)
	s.logger.Info("salary calculation requested",
		zap.String("request_id", rid),
		zap.Int("employees", len(req.EmployeeIDs)),
		zap.Int("month", req.Month),
		zap.Int("year", req.Year),
		zap.Bool("confirm_overwrite", req.ConfirmOverwrite),
	)

	if len(req.EmployeeIDs) == 0 {
		return BatchCalculateResponse{}, payrollerrors.ErrNoEmployees
	}

	resp := BatchCalculateResponse{
		Results:  []SalaryRecordResponse{},
		Failures: []BatchFailure{},
	}

	for _, employeeID := range req.EmployeeIDs {
		result, failure := s.calculateOne(ctx, employeeID, req)
		if failure != nil {
			resp.Failures = append(resp.Failures, *failure)
			continue
		}
		resp.Results = append(resp.Results, *result)
	}

	resp.Success = len(resp.Results) > 0
	resp.Message = fmt.Sprintf("successfully calculated %d salary records", len(resp.Results))

	s.logger.Info("salary calculation finished",
		zap.String("request_id", rid),
		zap.Int("succeeded", len(resp.Results)),
		zap.Int("failed", len(resp.Failures)),
	)
	return resp, nil
}

func (s *service) calculateOne(
	ctx context.Context,
	employeeID string,
	req BatchCalculateRequest,
) (*SalaryRecordResponse, *BatchFailure) {
	emp, err := s.employees.GetByID(ctx, employeeID)
	if err != nil {
		return nil, &BatchFailure{EmployeeID: employeeID, Message: "employee not found"}
	}

	workingDays, daysOff, err := s.resolvePeriodDays(ctx, employeeID, req)
	if err != nil {
		s.logger.Error("resolve period days failed",
			zap.String("employee_id", employeeID),
			zap.Error(err),
		)
		return nil, &BatchFailure{EmployeeID: employeeID, Message: "could not derive attendance for period"}
	}

	input := inputFromProfile(emp, workingDays, daysOff, req)
	result := Calculate(s.policy, input)

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		s.logger.Error("calculate begin tx failed", zap.Error(err))
		return nil, &BatchFailure{EmployeeID: employeeID, Message: "internal error"}
	}
	defer tx.Rollback()

	qtx := s.repo.WithTx(tx)

	rec := buildRecord(emp, req, input, result)

	existing, err := qtx.FindByEmployeeAndPeriod(ctx, employeeID, req.Month, req.Year)
	switch {
	case err == nil && !req.ConfirmOverwrite:
		return nil, &BatchFailure{
			EmployeeID: employeeID,
			Message:    "salary already calculated for this period",
			RecordID:   existing.ID.String(),
		}
	case err == nil:
		rec.ID = existing.ID
		rec.CreatedAt = existing.CreatedAt
		if err := qtx.Upsert(ctx, rec); err != nil {
			s.logger.Error("overwrite salary record failed", zap.Error(err))
			return nil, &BatchFailure{EmployeeID: employeeID, Message: "could not persist salary record"}
		}
	case errors.Is(err, gorm.ErrRecordNotFound):
		if err := qtx.Create(ctx, rec); err != nil {
			// A concurrent run inserted between the check and the insert.
			if isPeriodConflict(err) && !req.ConfirmOverwrite {
				failure := &BatchFailure{
					EmployeeID: employeeID,
					Message:    "salary already calculated for this period",
				}
				// The failed insert poisoned the tx, read the winner outside it.
				if winner, lookupErr := s.repo.FindByEmployeeAndPeriod(ctx, employeeID, req.Month, req.Year); lookupErr == nil {
					failure.RecordID = winner.ID.String()
				}
				return nil, failure
			}
			if isPeriodConflict(err) {
				if err := qtx.Upsert(ctx, rec); err != nil {
					s.logger.Error("overwrite salary record failed", zap.Error(err))
					return nil, &BatchFailure{EmployeeID: employeeID, Message: "could not persist salary record"}
				}
			} else {
				s.logger.Error("create salary record failed", zap.Error(err))
				return nil, &BatchFailure{EmployeeID: employeeID, Message: "could not persist salary record"}
			}
		}
	default:
		s.logger.Error("period lookup failed", zap.Error(err))
		return nil, &BatchFailure{EmployeeID: employeeID, Message: "could not persist salary record"}
	}

	if s.outbox != nil {
		if err := s.enqueueCalculatedEvent(ctx, tx, rec); err != nil {
			s.logger.Error("enqueue salary event failed", zap.Error(err))
			return nil, &BatchFailure{EmployeeID: employeeID, Message: "could not persist salary record"}
		}
	}

	if err := tx.Commit(); err != nil {
		s.logger.Error("calculate commit failed", zap.Error(err))
		return nil, &BatchFailure{EmployeeID: employeeID, Message: "could not persist salary record"}
	}

	resp := mapRecordToResponse(*rec)
	resp.EmployeeName = emp.FullName
	resp.EmployeeNumber = emp.EmployeeNumber
	return &resp, nil
}

func (s *service) resolvePeriodDays(
	ctx context.Context,
	employeeID string,
	req BatchCalculateRequest,
) (workingDays, daysOff float64, err error) {
	if req.WorkingDays != nil {
		workingDays = *req.WorkingDays
		if req.DaysOff != nil {
			daysOff = *req.DaysOff
		}
		return workingDays, daysOff, nil
	}

	stats, err := s.stats.MonthlyStats(ctx, employeeID, req.Month, req.Year)
	if err != nil {
		return 0, 0, err
	}

	workingDays = float64(stats.TotalWorkingDays)
	daysOff = stats.Absences
	if req.DaysOff != nil {
		daysOff = *req.DaysOff
	}
	return workingDays, daysOff, nil
}

func (s *service) enqueueCalculatedEvent(ctx context.Context, tx *sql.Tx, rec *SalaryRecord) error {
	rid := contextutil.GetRequestID(ctx)
	event := events.SalaryCalculatedEvent{
		EventType:  "salary_calculated",
		RequestID:  rid,
		RecordID:   rec.ID.String(),
		EmployeeID: rec.EmployeeID.String(),
		Month:      rec.Month,
		Year:       rec.Year,
		NetSalary:  rec.NetSalary,
		OccurredAt: time.Now().UTC(),
	}
	payload, err := json.Marshal(event)
	if err != nil {
		return err
	}

	return s.outbox.WithTx(tx).Create(ctx, kafka.NewEvent(
		rid, "salary_record", rec.ID.String(), event.EventType, events.SalaryCalculatedTopic, payload,
	))
}

func (s *service) GetAll(ctx context.Context) ([]SalaryRecordResponse, error) {
	rows, err := s.repo.FindAll(ctx)
	if err != nil {
		s.logger.Error("list salary records failed", zap.Error(err))
		return nil, mapRepositoryError(err)
	}
	return mapRecordsToResponse(rows), nil
}

func (s *service) GetByPeriod(ctx context.Context, month, year int) ([]SalaryRecordResponse, error) {
	if month < 1 || month > 12 || year < 2000 {
		return nil, payrollerrors.ErrInvalidPeriod
	}
	rows, err := s.repo.FindByPeriod(ctx, month, year)
	if err != nil {
		s.logger.Error("list period salary records failed", zap.Error(err))
		return nil, mapRepositoryError(err)
	}
	return mapRecordsToResponse(rows), nil
}

func (s *service) GetByEmployee(ctx context.Context, employeeID string) ([]SalaryRecordResponse, error) {
	rows, err := s.repo.FindAllByEmployee(ctx, employeeID)
	if err != nil {
		s.logger.Error("list employee salary records failed", zap.Error(err))
		return nil, mapRepositoryError(err)
	}
	return mapRecordsToResponse(rows), nil
}

func (s *service) GetByID(ctx context.Context, id string) (SalaryRecordResponse, error) {
	if _, err := uuid.Parse(id); err != nil {
		return SalaryRecordResponse{}, payrollerrors.ErrInvalidRecordID
	}
	rec, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return SalaryRecordResponse{}, mapRepositoryError(err)
	}
	return mapRecordToResponse(*rec), nil
}

// Update recalculates a stored record with adjusted inputs. The employee
// profile is re-read so a corrected salary or allowance flows in, while the
// period key stays fixed.
func (s *service) Update(ctx context.Context, id string, req UpdateSalaryRequest) (SalaryRecordResponse, error) {
	if _, err := uuid.Parse(id); err != nil {
		return SalaryRecordResponse{}, payrollerrors.ErrInvalidRecordID
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		s.logger.Error("update salary begin tx failed", zap.Error(err))
		return SalaryRecordResponse{}, err
	}
	defer tx.Rollback()

	qtx := s.repo.WithTx(tx)

	rec, err := qtx.FindByID(ctx, id)
	if err != nil {
		return SalaryRecordResponse{}, mapRepositoryError(err)
	}

	emp, err := s.employees.GetByID(ctx, rec.EmployeeID.String())
	if err != nil {
		return SalaryRecordResponse{}, err
	}

	if req.WorkingDays != nil {
		rec.WorkingDays = *req.WorkingDays
	}
	if req.DaysOff != nil {
		rec.DaysOff = *req.DaysOff
	}
	if req.OvertimeSoonHours != nil {
		rec.OvertimeSoonHours = *req.OvertimeSoonHours
	}
	if req.OvertimeLateHours != nil {
		rec.OvertimeLateHours = *req.OvertimeLateHours
	}
	if req.Bonus != nil {
		rec.Bonus = *req.Bonus
	}

	input := inputFromProfile(emp, rec.WorkingDays, rec.DaysOff, BatchCalculateRequest{
		OvertimeSoonHours: rec.OvertimeSoonHours,
		OvertimeLateHours: rec.OvertimeLateHours,
		Bonus:             rec.Bonus,
	})
	applyResult(rec, input, Calculate(s.policy, input))

	if err := qtx.Update(ctx, rec); err != nil {
		s.logger.Error("update salary persist failed", zap.Error(err))
		return SalaryRecordResponse{}, mapRepositoryError(err)
	}

	if err := tx.Commit(); err != nil {
		s.logger.Error("update salary commit failed", zap.Error(err))
		return SalaryRecordResponse{}, err
	}

	s.logger.Info("salary record recalculated", zap.String("record_id", id))

	resp := mapRecordToResponse(*rec)
	resp.EmployeeName = emp.FullName
	resp.EmployeeNumber = emp.EmployeeNumber
	return resp, nil
}

func (s *service) Delete(ctx context.Context, id string) error {
	if _, err := uuid.Parse(id); err != nil {
		return payrollerrors.ErrInvalidRecordID
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		s.logger.Error("delete salary begin tx failed", zap.Error(err))
		return err
	}
	defer tx.Rollback()

	if err := s.repo.WithTx(tx).Delete(ctx, id); err != nil {
		return mapRepositoryError(err)
	}

	if err := tx.Commit(); err != nil {
		s.logger.Error("delete salary commit failed", zap.Error(err))
		return err
	}

	s.logger.Info("salary record deleted", zap.String("record_id", id))
	return nil
}

func inputFromProfile(emp employee.EmployeeResponse, workingDays, daysOff float64, req BatchCalculateRequest) Input {
	return Input{
		GrossSalary: float64(emp.Salary),
		WorkingDays: workingDays,
		DaysOff:     daysOff,
		Dependents:  emp.Dependents,
		Probation:   emp.Probation == "yes",
		Vietnamese:  emp.Nationality == "vietnamese",
		Allowances: AllowanceInput{
			Food:      float64(emp.Allowances.Food),
			Clothes:   float64(emp.Allowances.Clothes),
			Parking:   float64(emp.Allowances.Parking),
			Fuel:      float64(emp.Allowances.Fuel),
			HouseRent: float64(emp.Allowances.HouseRent),
			Phone:     float64(emp.Allowances.Phone),
		},
		OvertimeSoonHours: req.OvertimeSoonHours,
		OvertimeLateHours: req.OvertimeLateHours,
		Bonus:             req.Bonus,
	}
}

func buildRecord(emp employee.EmployeeResponse, req BatchCalculateRequest, input Input, result Result) *SalaryRecord {
	rec := &SalaryRecord{
		ID:         uuid.New(),
		EmployeeID: uuid.MustParse(emp.ID),
		Month:      req.Month,
		Year:       req.Year,
	}
	applyResult(rec, input, result)
	return rec
}

func applyResult(rec *SalaryRecord, input Input, result Result) {
	rec.GrossSalary = input.GrossSalary
	rec.WorkingDays = input.WorkingDays
	rec.DaysOff = input.DaysOff
	rec.Dependents = input.Dependents
	rec.Probation = input.Probation
	rec.Nationality = "foreign"
	if input.Vietnamese {
		rec.Nationality = "vietnamese"
	}
	rec.OvertimeSoonHours = input.OvertimeSoonHours
	rec.OvertimeLateHours = input.OvertimeLateHours
	rec.Bonus = input.Bonus

	rec.AllowanceFood = input.Allowances.Food
	rec.AllowanceClothes = input.Allowances.Clothes
	rec.AllowanceParking = input.Allowances.Parking
	rec.AllowanceFuel = input.Allowances.Fuel
	rec.AllowanceHouseRent = input.Allowances.HouseRent
	rec.AllowancePhone = input.Allowances.Phone

	rec.EffectiveGross = result.EffectiveGross
	rec.AdjustedSalary = result.AdjustedSalary
	rec.HourlyRate = result.HourlyRate
	rec.OvertimeSoonPay = result.OvertimeSoonPay
	rec.OvertimeLatePay = result.OvertimeLatePay
	rec.OvertimePay = result.OvertimePay
	rec.TotalAllowances = result.TotalAllowances
	rec.TaxableAllowances = result.TaxableAllowances
	rec.PersonalRelief = result.PersonalRelief
	rec.DependentRelief = result.DependentRelief
	rec.SocialInsurance = result.SocialInsurance
	rec.HealthInsurance = result.HealthInsurance
	rec.AccidentInsurance = result.AccidentInsurance
	rec.TotalInsurance = result.TotalInsurance
	rec.TaxableIncome = result.TaxableIncome
	rec.Tax = result.Tax
	rec.NetSalary = result.NetSalary
}

func mapRecordToResponse(rec SalaryRecord) SalaryRecordResponse {
	return SalaryRecordResponse{
		ID:         rec.ID.String(),
		EmployeeID: rec.EmployeeID.String(),
		Month:      rec.Month,
		Year:       rec.Year,

		GrossSalary:       rec.GrossSalary,
		WorkingDays:       rec.WorkingDays,
		DaysOff:           rec.DaysOff,
		Dependents:        rec.Dependents,
		Probation:         rec.Probation,
		Nationality:       rec.Nationality,
		OvertimeSoonHours: rec.OvertimeSoonHours,
		OvertimeLateHours: rec.OvertimeLateHours,
		Bonus:             rec.Bonus,

		Allowances: AllowanceBreakdown{
			Food:      rec.AllowanceFood,
			Clothes:   rec.AllowanceClothes,
			Parking:   rec.AllowanceParking,
			Fuel:      rec.AllowanceFuel,
			HouseRent: rec.AllowanceHouseRent,
			Phone:     rec.AllowancePhone,
		},

		EffectiveGross:    rec.EffectiveGross,
		AdjustedSalary:    rec.AdjustedSalary,
		HourlyRate:        rec.HourlyRate,
		OvertimeSoonPay:   rec.OvertimeSoonPay,
		OvertimeLatePay:   rec.OvertimeLatePay,
		OvertimePay:       rec.OvertimePay,
		TotalAllowances:   rec.TotalAllowances,
		TaxableAllowances: rec.TaxableAllowances,
		PersonalRelief:    rec.PersonalRelief,
		DependentRelief:   rec.DependentRelief,
		SocialInsurance:   rec.SocialInsurance,
		HealthInsurance:   rec.HealthInsurance,
		AccidentInsurance: rec.AccidentInsurance,
		TotalInsurance:    rec.TotalInsurance,
		TaxableIncome:     rec.TaxableIncome,
		Tax:               rec.Tax,
		NetSalary:         rec.NetSalary,

		CreatedAt: rec.CreatedAt.Format(time.RFC3339),
		UpdatedAt: rec.UpdatedAt.Format(time.RFC3339),
	}
}

func mapRecordsToResponse(rows []SalaryRecord) []SalaryRecordResponse {
	resp := make([]SalaryRecordResponse, len(rows))
	for i, rec := range rows {
		resp[i] = mapRecordToResponse(rec)
	}
	return resp
}

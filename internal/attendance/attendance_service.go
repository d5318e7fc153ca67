package attendance

import (
	"context"
	"database/sql"
	"errors"
	"math"
	"time"

	attendanceerrors "github.com/Toretto00/salary-calculator/internal/attendance/errors"
	"github.com/Toretto00/salary-calculator/internal/shared/contextutil"

	"github.com/google/uuid"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

//go:generate mockgen -source=attendance_service.go -destination=mock/attendance_service_mock.go -package=mock
type Service interface {
	CheckIn(ctx context.Context, employeeID string, req CheckInRequest) (AttendanceResponse, error)
	CheckOut(ctx context.Context, employeeID string, req CheckOutRequest) (AttendanceResponse, error)
	TodayStatus(ctx context.Context, employeeID string) (TodayStatusResponse, error)
	History(ctx context.Context, employeeID string) ([]AttendanceResponse, error)
	RangeSummary(ctx context.Context, employeeID string, start, end *time.Time) (RangeSummaryResponse, error)
	MonthlyStats(ctx context.Context, employeeID string, month, year int) (StatsResponse, error)
}

type service struct {
	db     *sql.DB
	repo   Repository
	policy StatsPolicy
	now    func() time.Time
	logger *zap.Logger
}

func NewService(db *sql.DB, repo Repository, policy StatsPolicy, logger ...*zap.Logger) Service {
	l := zap.L().Named("attendance.service")
	if len(logger) > 0 && logger[0] != nil {
		l = logger[0].Named("attendance.service")
	}
	return &service{
		db:     db,
		repo:   repo,
		policy: policy,
		now:    func() time.Time { return time.Now().UTC() },
		logger: l,
	}
}

func (s *service) CheckIn(
	ctx context.Context,
	employeeID string,
	req CheckInRequest,
) (AttendanceResponse, error) {
	rid := contextutil.GetRequestID(ctx)
	s.logger.Debug("check-in requested",
		zap.String("request_id", rid),
		zap.String("employee_id", employeeID),
	)

	empID, err := uuid.Parse(employeeID)
	if err != nil {
		return AttendanceResponse{}, attendanceerrors.ErrInvalidEmployeeID
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		s.logger.Error("check-in begin tx failed", zap.String("request_id", rid), zap.Error(err))
		return AttendanceResponse{}, err
	}
	defer tx.Rollback()

	qtx := s.repo.WithTx(tx)

	// Fast path check for a friendlier error. The partial unique index on the
	// open record is what actually guarantees the invariant under races.
	if _, err := qtx.FindOpenByEmployee(ctx, employeeID); err == nil {
		return AttendanceResponse{}, attendanceerrors.ErrAlreadyCheckedIn
	} else if !errors.Is(err, gorm.ErrRecordNotFound) {
		s.logger.Error("check-in open lookup failed", zap.Error(err))
		return AttendanceResponse{}, mapRepositoryError(err)
	}

	now := s.now()
	rec := &Attendance{
		ID:             uuid.New(),
		EmployeeID:     empID,
		AttendanceDate: time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, time.UTC),
		CheckInAt:      now,
		CheckInNotes:   req.Notes,
		Status:         StatusIncomplete,
	}

	if err := qtx.Create(ctx, rec); err != nil {
		s.logger.Error("check-in persist failed", zap.Error(err))
		return AttendanceResponse{}, mapRepositoryError(err)
	}

	if err := tx.Commit(); err != nil {
		s.logger.Error("check-in commit failed", zap.String("request_id", rid), zap.Error(err))
		return AttendanceResponse{}, err
	}

	s.logger.Info("check-in success",
		zap.String("request_id", rid),
		zap.String("employee_id", employeeID),
		zap.String("attendance_id", rec.ID.String()),
	)
	return mapAttendanceToResponse(*rec), nil
}

func (s *service) CheckOut(
	ctx context.Context,
	employeeID string,
	req CheckOutRequest,
) (AttendanceResponse, error) {
	rid := contextutil.GetRequestID(ctx)
	s.logger.Debug("check-out requested",
		zap.String("request_id", rid),
		zap.String("employee_id", employeeID),
	)

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		s.logger.Error("check-out begin tx failed", zap.String("request_id", rid), zap.Error(err))
		return AttendanceResponse{}, err
	}
	defer tx.Rollback()

	qtx := s.repo.WithTx(tx)

	rec, err := qtx.FindOpenByEmployee(ctx, employeeID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return AttendanceResponse{}, attendanceerrors.ErrNoActiveCheckIn
		}
		s.logger.Error("check-out open lookup failed", zap.Error(err))
		return AttendanceResponse{}, mapRepositoryError(err)
	}

	now := s.now()
	hours := round2(now.Sub(rec.CheckInAt).Hours())
	if hours < 0 {
		hours = 0
	}

	rec.CheckOutAt = &now
	rec.CheckOutNotes = req.Notes
	rec.WorkingHours = hours
	rec.Overtime = round2(math.Max(0, hours-8))
	rec.Status = StatusPresent

	if err := qtx.Update(ctx, rec); err != nil {
		s.logger.Error("check-out persist failed", zap.Error(err))
		return AttendanceResponse{}, mapRepositoryError(err)
	}

	if err := tx.Commit(); err != nil {
		s.logger.Error("check-out commit failed", zap.String("request_id", rid), zap.Error(err))
		return AttendanceResponse{}, err
	}

	s.logger.Info("check-out success",
		zap.String("request_id", rid),
		zap.String("employee_id", employeeID),
		zap.Float64("working_hours", rec.WorkingHours),
	)
	return mapAttendanceToResponse(*rec), nil
}

func (s *service) TodayStatus(ctx context.Context, employeeID string) (TodayStatusResponse, error) {
	if open, err := s.repo.FindOpenByEmployee(ctx, employeeID); err == nil {
		resp := mapAttendanceToResponse(*open)
		return TodayStatusResponse{Status: "checked-in", Attendance: &resp}, nil
	} else if !errors.Is(err, gorm.ErrRecordNotFound) {
		s.logger.Error("today status open lookup failed", zap.Error(err))
		return TodayStatusResponse{}, mapRepositoryError(err)
	}

	rec, err := s.repo.FindByEmployeeAndDate(ctx, employeeID, s.now())
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return TodayStatusResponse{Status: "not-checked-in"}, nil
		}
		s.logger.Error("today status lookup failed", zap.Error(err))
		return TodayStatusResponse{}, mapRepositoryError(err)
	}

	resp := mapAttendanceToResponse(*rec)
	return TodayStatusResponse{Status: "checked-out", Attendance: &resp}, nil
}

func (s *service) History(ctx context.Context, employeeID string) ([]AttendanceResponse, error) {
	rows, err := s.repo.FindAllByEmployee(ctx, employeeID)
	if err != nil {
		s.logger.Error("attendance history failed", zap.Error(err))
		return nil, mapRepositoryError(err)
	}
	return mapAttendanceListToResponse(rows), nil
}

func (s *service) RangeSummary(
	ctx context.Context,
	employeeID string,
	start, end *time.Time,
) (RangeSummaryResponse, error) {
	rows, err := s.repo.FindByEmployeeAndRange(ctx, employeeID, start, end)
	if err != nil {
		s.logger.Error("attendance range summary failed", zap.Error(err))
		return RangeSummaryResponse{}, mapRepositoryError(err)
	}

	resp := RangeSummaryResponse{Records: mapAttendanceListToResponse(rows)}
	for _, rec := range rows {
		resp.Summary.TotalHours += rec.WorkingHours
		resp.Summary.TotalOvertimeHours += rec.Overtime
		if rec.Status == StatusPresent {
			resp.Summary.PresentDays++
		}
	}
	resp.Summary.TotalHours = round2(resp.Summary.TotalHours)
	resp.Summary.TotalOvertimeHours = round2(resp.Summary.TotalOvertimeHours)
	resp.Summary.TotalRecords = len(rows)
	return resp, nil
}

// MonthlyStats never fails the caller on a storage error. Payroll still needs
// a usable period shape, so it degrades to zeroed counts with the correct
// total of working days.
func (s *service) MonthlyStats(
	ctx context.Context,
	employeeID string,
	month, year int,
) (StatsResponse, error) {
	rows, err := s.repo.FindByEmployeeAndMonth(ctx, employeeID, month, year)
	if err != nil {
		s.logger.Warn("attendance stats degraded to zeroed counts",
			zap.String("employee_id", employeeID),
			zap.Int("month", month),
			zap.Int("year", year),
			zap.Error(err),
		)
		return StatsResponse{TotalWorkingDays: WorkingDaysInMonth(month, year)}, nil
	}

	stats := ComputeStats(rows, month, year, s.now(), s.policy)
	return StatsResponse{
		FullDays:         stats.FullDays,
		HalfDays:         stats.HalfDays,
		WorkDays:         stats.WorkDays,
		Absences:         stats.Absences,
		TotalWorkingDays: stats.TotalWorkingDays,
	}, nil
}

func round2(v float64) float64 {
	return math.Round(v*100) / 100
}

func mapAttendanceToResponse(a Attendance) AttendanceResponse {
	resp := AttendanceResponse{
		ID:             a.ID.String(),
		EmployeeID:     a.EmployeeID.String(),
		AttendanceDate: a.AttendanceDate.Format("2006-01-02"),
		CheckInAt:      a.CheckInAt.Format(time.RFC3339),
		CheckInNotes:   a.CheckInNotes,
		CheckOutNotes:  a.CheckOutNotes,
		WorkingHours:   a.WorkingHours,
		Overtime:       a.Overtime,
		Status:         a.Status,
	}
	if a.CheckOutAt != nil {
		out := a.CheckOutAt.Format(time.RFC3339)
		resp.CheckOutAt = &out
	}
	return resp
}

func mapAttendanceListToResponse(rows []Attendance) []AttendanceResponse {
	resp := make([]AttendanceResponse, len(rows))
	for i, rec := range rows {
		resp[i] = mapAttendanceToResponse(rec)
	}
	return resp
}

package payroll

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"testing"

	"github.com/Toretto00/salary-calculator/internal/attendance"
	"github.com/Toretto00/salary-calculator/internal/employee"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

type fakeSalaryRepo struct {
	byPeriod map[string]*SalaryRecord
	byID     map[string]*SalaryRecord
	upserted int
}

func newFakeSalaryRepo() *fakeSalaryRepo {
	return &fakeSalaryRepo{
		byPeriod: map[string]*SalaryRecord{},
		byID:     map[string]*SalaryRecord{},
	}
}

func periodKey(employeeID string, month, year int) string {
	return fmt.Sprintf("%s:%d:%d", employeeID, month, year)
}

func (f *fakeSalaryRepo) WithTx(tx *sql.Tx) Repository { return f }

func (f *fakeSalaryRepo) Create(ctx context.Context, rec *SalaryRecord) error {
	key := periodKey(rec.EmployeeID.String(), rec.Month, rec.Year)
	if _, ok := f.byPeriod[key]; ok {
		return errors.New(`duplicate key value violates unique constraint "uq_salary_employee_period"`)
	}
	f.byPeriod[key] = rec
	f.byID[rec.ID.String()] = rec
	return nil
}

func (f *fakeSalaryRepo) Upsert(ctx context.Context, rec *SalaryRecord) error {
	f.upserted++
	f.byPeriod[periodKey(rec.EmployeeID.String(), rec.Month, rec.Year)] = rec
	f.byID[rec.ID.String()] = rec
	return nil
}

func (f *fakeSalaryRepo) FindByID(ctx context.Context, id string) (*SalaryRecord, error) {
	if rec, ok := f.byID[id]; ok {
		return rec, nil
	}
	return nil, gorm.ErrRecordNotFound
}

func (f *fakeSalaryRepo) FindByEmployeeAndPeriod(ctx context.Context, employeeID string, month, year int) (*SalaryRecord, error) {
	if rec, ok := f.byPeriod[periodKey(employeeID, month, year)]; ok {
		return rec, nil
	}
	return nil, gorm.ErrRecordNotFound
}

func (f *fakeSalaryRepo) FindByPeriod(ctx context.Context, month, year int) ([]SalaryRecord, error) {
	var rows []SalaryRecord
	for _, rec := range f.byPeriod {
		if rec.Month == month && rec.Year == year {
			rows = append(rows, *rec)
		}
	}
	return rows, nil
}

func (f *fakeSalaryRepo) FindAll(ctx context.Context) ([]SalaryRecord, error) {
	var rows []SalaryRecord
	for _, rec := range f.byPeriod {
		rows = append(rows, *rec)
	}
	return rows, nil
}

func (f *fakeSalaryRepo) FindAllByEmployee(ctx context.Context, employeeID string) ([]SalaryRecord, error) {
	var rows []SalaryRecord
	for _, rec := range f.byPeriod {
		if rec.EmployeeID.String() == employeeID {
			rows = append(rows, *rec)
		}
	}
	return rows, nil
}

func (f *fakeSalaryRepo) Update(ctx context.Context, rec *SalaryRecord) error {
	f.byID[rec.ID.String()] = rec
	f.byPeriod[periodKey(rec.EmployeeID.String(), rec.Month, rec.Year)] = rec
	return nil
}

func (f *fakeSalaryRepo) Delete(ctx context.Context, id string) error {
	rec, ok := f.byID[id]
	if !ok {
		return gorm.ErrRecordNotFound
	}
	delete(f.byID, id)
	delete(f.byPeriod, periodKey(rec.EmployeeID.String(), rec.Month, rec.Year))
	return nil
}

type fakeDirectory struct {
	employees map[string]employee.EmployeeResponse
}

func (f *fakeDirectory) GetByID(ctx context.Context, id string) (employee.EmployeeResponse, error) {
	if emp, ok := f.employees[id]; ok {
		return emp, nil
	}
	return employee.EmployeeResponse{}, errors.New("not found")
}

type fakeStats struct {
	stats attendance.StatsResponse
	err   error
}

func (f *fakeStats) MonthlyStats(ctx context.Context, employeeID string, month, year int) (attendance.StatsResponse, error) {
	if f.err != nil {
		return attendance.StatsResponse{}, f.err
	}
	return f.stats, nil
}

func seedEmployee(dir *fakeDirectory, salary int64) string {
	id := uuid.NewString()
	dir.employees[id] = employee.EmployeeResponse{
		ID:             id,
		EmployeeNumber: "EMP-000042",
		FullName:       "Nguyen Van A",
		Salary:         salary,
		Dependents:     1,
		Probation:      "no",
		Nationality:    "vietnamese",
	}
	return id
}

func newPayrollTestService(t *testing.T, repo Repository, dir EmployeeDirectory, stats AttendanceStatsProvider) (*service, sqlmock.Sqlmock) {
	t.Helper()
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })
	mock.MatchExpectationsInOrder(false)

	svc := NewService(db, repo, dir, stats, nil, DefaultPolicy(), zap.NewNop()).(*service)
	return svc, mock
}

func defaultStats() *fakeStats {
	return &fakeStats{stats: attendance.StatsResponse{
		FullDays:         20,
		HalfDays:         0,
		WorkDays:         20,
		Absences:         2,
		TotalWorkingDays: 22,
	}}
}

func TestCalculate_CreatesRecordFromAttendance(t *testing.T) {
	repo := newFakeSalaryRepo()
	dir := &fakeDirectory{employees: map[string]employee.EmployeeResponse{}}
	empID := seedEmployee(dir, 22_000_000)
	svc, mock := newPayrollTestService(t, repo, dir, defaultStats())
	mock.ExpectBegin()
	mock.ExpectCommit()

	resp, err := svc.Calculate(context.Background(), BatchCalculateRequest{
		EmployeeIDs: []string{empID},
		Month:       3,
		Year:        2025,
	})
	require.NoError(t, err)

	require.Len(t, resp.Results, 1)
	require.Empty(t, resp.Failures)

	got := resp.Results[0]
	assert.Equal(t, empID, got.EmployeeID)
	assert.Equal(t, "Nguyen Van A", got.EmployeeName)
	assert.Equal(t, 22.0, got.WorkingDays)
	assert.Equal(t, 2.0, got.DaysOff)
	// 22M over 22 days with 2 days off
	assert.InDelta(t, 20_000_000, got.AdjustedSalary, 0.01)
	assert.Greater(t, got.NetSalary, 0.0)
}

func TestCalculate_UnknownEmployeeFailsOnlyThatEntry(t *testing.T) {
	repo := newFakeSalaryRepo()
	dir := &fakeDirectory{employees: map[string]employee.EmployeeResponse{}}
	empID := seedEmployee(dir, 20_000_000)
	ghost := uuid.NewString()
	svc, mock := newPayrollTestService(t, repo, dir, defaultStats())
	mock.ExpectBegin()
	mock.ExpectCommit()

	resp, err := svc.Calculate(context.Background(), BatchCalculateRequest{
		EmployeeIDs: []string{ghost, empID},
		Month:       3,
		Year:        2025,
	})
	require.NoError(t, err)

	require.Len(t, resp.Results, 1)
	require.Len(t, resp.Failures, 1)
	assert.Equal(t, ghost, resp.Failures[0].EmployeeID)
	assert.Equal(t, empID, resp.Results[0].EmployeeID)
}

func TestCalculate_SecondRunConflictsWithoutOverwrite(t *testing.T) {
	repo := newFakeSalaryRepo()
	dir := &fakeDirectory{employees: map[string]employee.EmployeeResponse{}}
	empID := seedEmployee(dir, 20_000_000)
	svc, mock := newPayrollTestService(t, repo, dir, defaultStats())
	mock.ExpectBegin()
	mock.ExpectCommit()
	mock.ExpectBegin()
	mock.ExpectRollback()

	req := BatchCalculateRequest{EmployeeIDs: []string{empID}, Month: 3, Year: 2025}

	first, err := svc.Calculate(context.Background(), req)
	require.NoError(t, err)
	require.Len(t, first.Results, 1)

	second, err := svc.Calculate(context.Background(), req)
	require.NoError(t, err)

	require.Empty(t, second.Results)
	require.Len(t, second.Failures, 1)
	assert.Equal(t, first.Results[0].ID, second.Failures[0].RecordID)
	assert.Contains(t, second.Failures[0].Message, "already calculated")
}

func TestCalculate_OverwriteReplacesRecordInPlace(t *testing.T) {
	repo := newFakeSalaryRepo()
	dir := &fakeDirectory{employees: map[string]employee.EmployeeResponse{}}
	empID := seedEmployee(dir, 20_000_000)
	svc, mock := newPayrollTestService(t, repo, dir, defaultStats())
	mock.ExpectBegin()
	mock.ExpectCommit()
	mock.ExpectBegin()
	mock.ExpectCommit()

	req := BatchCalculateRequest{EmployeeIDs: []string{empID}, Month: 3, Year: 2025}

	first, err := svc.Calculate(context.Background(), req)
	require.NoError(t, err)

	req.Bonus = 5_000_000
	req.ConfirmOverwrite = true
	second, err := svc.Calculate(context.Background(), req)
	require.NoError(t, err)

	require.Len(t, second.Results, 1)
	assert.Equal(t, first.Results[0].ID, second.Results[0].ID)
	assert.Greater(t, second.Results[0].NetSalary, first.Results[0].NetSalary)
	assert.Equal(t, 1, repo.upserted)
}

func TestCalculate_WorkingDaysOverrideSkipsAttendance(t *testing.T) {
	repo := newFakeSalaryRepo()
	dir := &fakeDirectory{employees: map[string]employee.EmployeeResponse{}}
	empID := seedEmployee(dir, 20_000_000)
	stats := &fakeStats{err: errors.New("attendance down")}
	svc, mock := newPayrollTestService(t, repo, dir, stats)
	mock.ExpectBegin()
	mock.ExpectCommit()

	wd := 20.0
	off := 1.0
	resp, err := svc.Calculate(context.Background(), BatchCalculateRequest{
		EmployeeIDs: []string{empID},
		Month:       3,
		Year:        2025,
		WorkingDays: &wd,
		DaysOff:     &off,
	})
	require.NoError(t, err)

	require.Len(t, resp.Results, 1)
	assert.Equal(t, 20.0, resp.Results[0].WorkingDays)
	assert.Equal(t, 1.0, resp.Results[0].DaysOff)
}

func TestUpdate_RecalculatesWithNewInputs(t *testing.T) {
	repo := newFakeSalaryRepo()
	dir := &fakeDirectory{employees: map[string]employee.EmployeeResponse{}}
	empID := seedEmployee(dir, 20_000_000)
	svc, mock := newPayrollTestService(t, repo, dir, defaultStats())
	mock.ExpectBegin()
	mock.ExpectCommit()
	mock.ExpectBegin()
	mock.ExpectCommit()

	created, err := svc.Calculate(context.Background(), BatchCalculateRequest{
		EmployeeIDs: []string{empID},
		Month:       3,
		Year:        2025,
	})
	require.NoError(t, err)
	recordID := created.Results[0].ID

	bonus := 3_000_000.0
	updated, err := svc.Update(context.Background(), recordID, UpdateSalaryRequest{Bonus: &bonus})
	require.NoError(t, err)

	assert.Equal(t, recordID, updated.ID)
	assert.Equal(t, 3_000_000.0, updated.Bonus)
	assert.Greater(t, updated.NetSalary, created.Results[0].NetSalary)
}

func TestCalculate_BatchSuccessFlagAndMessage(t *testing.T) {
	repo := newFakeSalaryRepo()
	dir := &fakeDirectory{employees: map[string]employee.EmployeeResponse{}}
	empID := seedEmployee(dir, 20_000_000)
	svc, mock := newPayrollTestService(t, repo, dir, defaultStats())
	mock.ExpectBegin()
	mock.ExpectCommit()

	resp, err := svc.Calculate(context.Background(), BatchCalculateRequest{
		EmployeeIDs: []string{empID, uuid.NewString()},
		Month:       3,
		Year:        2025,
	})
	require.NoError(t, err)

	assert.True(t, resp.Success)
	assert.Equal(t, "successfully calculated 1 salary records", resp.Message)

	allFailed, err := svc.Calculate(context.Background(), BatchCalculateRequest{
		EmployeeIDs: []string{uuid.NewString()},
		Month:       4,
		Year:        2025,
	})
	require.NoError(t, err)

	assert.False(t, allFailed.Success)
	require.Empty(t, allFailed.Results)
	require.Len(t, allFailed.Failures, 1)
}

func TestCalculate_SnapshotsAllowancesAndReliefs(t *testing.T) {
	repo := newFakeSalaryRepo()
	dir := &fakeDirectory{employees: map[string]employee.EmployeeResponse{}}
	empID := seedEmployee(dir, 20_000_000)
	emp := dir.employees[empID]
	emp.Allowances = employee.AllowancesPayload{
		Food:      800_000,
		Clothes:   400_000,
		Parking:   200_000,
		Fuel:      300_000,
		HouseRent: 1_000_000,
		Phone:     150_000,
	}
	dir.employees[empID] = emp
	svc, mock := newPayrollTestService(t, repo, dir, defaultStats())
	mock.ExpectBegin()
	mock.ExpectCommit()

	resp, err := svc.Calculate(context.Background(), BatchCalculateRequest{
		EmployeeIDs:       []string{empID},
		Month:             3,
		Year:              2025,
		OvertimeSoonHours: 4,
		OvertimeLateHours: 2,
	})
	require.NoError(t, err)
	require.Len(t, resp.Results, 1)

	got := resp.Results[0]
	assert.Equal(t, 800_000.0, got.Allowances.Food)
	assert.Equal(t, 400_000.0, got.Allowances.Clothes)
	assert.Equal(t, 1_000_000.0, got.Allowances.HouseRent)
	assert.Equal(t, 150_000.0, got.Allowances.Phone)
	assert.InDelta(t, 2_850_000, got.TotalAllowances, 0.01)
	assert.InDelta(t, 11_000_000, got.PersonalRelief, 0.01)
	assert.InDelta(t, 4_400_000, got.DependentRelief, 0.01)
	assert.Greater(t, got.HourlyRate, 0.0)
	assert.InDelta(t, got.OvertimeSoonPay+got.OvertimeLatePay, got.OvertimePay, 0.01)

	// The record keeps the per-allowance snapshot, not just the sum.
	stored := repo.byID[got.ID]
	require.NotNil(t, stored)
	assert.Equal(t, 800_000.0, stored.AllowanceFood)
	assert.Equal(t, 200_000.0, stored.AllowanceParking)
	assert.Equal(t, 300_000.0, stored.AllowanceFuel)
	assert.Equal(t, got.PersonalRelief, stored.PersonalRelief)
	assert.Equal(t, got.OvertimeSoonPay, stored.OvertimeSoonPay)
}

// racingSalaryRepo hides the period record from the next N lookups, so the
// pre-check misses and the unique index catches the duplicate instead.
type racingSalaryRepo struct {
	*fakeSalaryRepo
	hideLookups int
}

func (r *racingSalaryRepo) WithTx(tx *sql.Tx) Repository { return r }

func (r *racingSalaryRepo) FindByEmployeeAndPeriod(ctx context.Context, employeeID string, month, year int) (*SalaryRecord, error) {
	if r.hideLookups > 0 {
		r.hideLookups--
		return nil, gorm.ErrRecordNotFound
	}
	return r.fakeSalaryRepo.FindByEmployeeAndPeriod(ctx, employeeID, month, year)
}

func TestCalculate_LostRaceReportsWinningRecordID(t *testing.T) {
	repo := &racingSalaryRepo{fakeSalaryRepo: newFakeSalaryRepo()}
	dir := &fakeDirectory{employees: map[string]employee.EmployeeResponse{}}
	empID := seedEmployee(dir, 20_000_000)
	svc, mock := newPayrollTestService(t, repo, dir, defaultStats())
	mock.ExpectBegin()
	mock.ExpectCommit()
	mock.ExpectBegin()
	mock.ExpectRollback()

	req := BatchCalculateRequest{EmployeeIDs: []string{empID}, Month: 3, Year: 2025}

	first, err := svc.Calculate(context.Background(), req)
	require.NoError(t, err)
	require.Len(t, first.Results, 1)

	repo.hideLookups = 1
	second, err := svc.Calculate(context.Background(), req)
	require.NoError(t, err)

	require.Len(t, second.Failures, 1)
	assert.Contains(t, second.Failures[0].Message, "already calculated")
	assert.Equal(t, first.Results[0].ID, second.Failures[0].RecordID)
}

func TestDelete_AllowsRecalculation(t *testing.T) {
	repo := newFakeSalaryRepo()
	dir := &fakeDirectory{employees: map[string]employee.EmployeeResponse{}}
	empID := seedEmployee(dir, 20_000_000)
	svc, mock := newPayrollTestService(t, repo, dir, defaultStats())
	mock.ExpectBegin()
	mock.ExpectCommit()
	mock.ExpectBegin()
	mock.ExpectCommit()
	mock.ExpectBegin()
	mock.ExpectCommit()

	req := BatchCalculateRequest{EmployeeIDs: []string{empID}, Month: 3, Year: 2025}

	first, err := svc.Calculate(context.Background(), req)
	require.NoError(t, err)

	require.NoError(t, svc.Delete(context.Background(), first.Results[0].ID))

	second, err := svc.Calculate(context.Background(), req)
	require.NoError(t, err)
	require.Len(t, second.Results, 1)
	require.Empty(t, second.Failures)
}

package attendance

import (
	"context"
	"database/sql"
	"errors"
	"testing"
	"time"

	attendanceerrors "github.com/Toretto00/salary-calculator/internal/attendance/errors"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

type fakeRepo struct {
	open      *Attendance
	openErr   error
	createErr error
	updateErr error
	created   *Attendance
	updated   *Attendance
	monthRows []Attendance
	monthErr  error
	rangeRows []Attendance
}

func (f *fakeRepo) WithTx(tx *sql.Tx) Repository { return f }

func (f *fakeRepo) Create(ctx context.Context, a *Attendance) error {
	if f.createErr != nil {
		return f.createErr
	}
	f.created = a
	return nil
}

func (f *fakeRepo) FindOpenByEmployee(ctx context.Context, employeeID string) (*Attendance, error) {
	if f.openErr != nil {
		return nil, f.openErr
	}
	if f.open == nil {
		return nil, gorm.ErrRecordNotFound
	}
	return f.open, nil
}

func (f *fakeRepo) FindByEmployeeAndDate(ctx context.Context, employeeID string, date time.Time) (*Attendance, error) {
	return nil, gorm.ErrRecordNotFound
}

func (f *fakeRepo) FindByEmployeeAndMonth(ctx context.Context, employeeID string, month, year int) ([]Attendance, error) {
	if f.monthErr != nil {
		return nil, f.monthErr
	}
	return f.monthRows, nil
}

func (f *fakeRepo) FindByEmployeeAndRange(ctx context.Context, employeeID string, start, end *time.Time) ([]Attendance, error) {
	return f.rangeRows, nil
}

func (f *fakeRepo) FindAllByEmployee(ctx context.Context, employeeID string) ([]Attendance, error) {
	return f.rangeRows, nil
}

func (f *fakeRepo) Update(ctx context.Context, a *Attendance) error {
	if f.updateErr != nil {
		return f.updateErr
	}
	f.updated = a
	return nil
}

func newTestService(t *testing.T, repo Repository) (*service, sqlmock.Sqlmock) {
	t.Helper()
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })

	svc := NewService(db, repo, DefaultStatsPolicy(), zap.NewNop()).(*service)
	return svc, mock
}

func TestCheckIn_CreatesOpenRecord(t *testing.T) {
	repo := &fakeRepo{}
	svc, mock := newTestService(t, repo)
	mock.ExpectBegin()
	mock.ExpectCommit()

	now := time.Date(2025, time.March, 14, 8, 30, 0, 0, time.UTC)
	svc.now = func() time.Time { return now }

	empID := uuid.New()
	resp, err := svc.CheckIn(context.Background(), empID.String(), CheckInRequest{Notes: "on site"})
	require.NoError(t, err)

	require.NotNil(t, repo.created)
	assert.Equal(t, empID, repo.created.EmployeeID)
	assert.Equal(t, StatusIncomplete, repo.created.Status)
	assert.Equal(t, "2025-03-14", resp.AttendanceDate)
	assert.Equal(t, "on site", resp.CheckInNotes)
	assert.Nil(t, resp.CheckOutAt)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestCheckIn_RejectsWhenAlreadyOpen(t *testing.T) {
	repo := &fakeRepo{open: &Attendance{ID: uuid.New()}}
	svc, mock := newTestService(t, repo)
	mock.ExpectBegin()
	mock.ExpectRollback()

	_, err := svc.CheckIn(context.Background(), uuid.NewString(), CheckInRequest{})
	assert.ErrorIs(t, err, attendanceerrors.ErrAlreadyCheckedIn)
	assert.Nil(t, repo.created)
}

func TestCheckIn_RejectsInvalidEmployeeID(t *testing.T) {
	svc, _ := newTestService(t, &fakeRepo{})

	_, err := svc.CheckIn(context.Background(), "not-a-uuid", CheckInRequest{})
	assert.ErrorIs(t, err, attendanceerrors.ErrInvalidEmployeeID)
}

func TestCheckOut_ComputesHoursAndOvertime(t *testing.T) {
	checkIn := time.Date(2025, time.March, 14, 8, 0, 0, 0, time.UTC)
	repo := &fakeRepo{open: &Attendance{
		ID:             uuid.New(),
		EmployeeID:     uuid.New(),
		AttendanceDate: time.Date(2025, time.March, 14, 0, 0, 0, 0, time.UTC),
		CheckInAt:      checkIn,
		Status:         StatusIncomplete,
	}}
	svc, mock := newTestService(t, repo)
	mock.ExpectBegin()
	mock.ExpectCommit()

	svc.now = func() time.Time { return checkIn.Add(9*time.Hour + 30*time.Minute) }

	resp, err := svc.CheckOut(context.Background(), repo.open.EmployeeID.String(), CheckOutRequest{Notes: "done"})
	require.NoError(t, err)

	assert.Equal(t, 9.5, resp.WorkingHours)
	assert.Equal(t, 1.5, resp.Overtime)
	assert.Equal(t, StatusPresent, resp.Status)
	require.NotNil(t, repo.updated)
	require.NotNil(t, repo.updated.CheckOutAt)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestCheckOut_ShortDayHasNoOvertime(t *testing.T) {
	checkIn := time.Date(2025, time.March, 14, 9, 0, 0, 0, time.UTC)
	repo := &fakeRepo{open: &Attendance{
		ID:        uuid.New(),
		CheckInAt: checkIn,
	}}
	svc, mock := newTestService(t, repo)
	mock.ExpectBegin()
	mock.ExpectCommit()

	svc.now = func() time.Time { return checkIn.Add(5 * time.Hour) }

	resp, err := svc.CheckOut(context.Background(), uuid.NewString(), CheckOutRequest{})
	require.NoError(t, err)

	assert.Equal(t, 5.0, resp.WorkingHours)
	assert.Equal(t, 0.0, resp.Overtime)
}

func TestCheckOut_RequiresOpenRecord(t *testing.T) {
	repo := &fakeRepo{}
	svc, mock := newTestService(t, repo)
	mock.ExpectBegin()
	mock.ExpectRollback()

	_, err := svc.CheckOut(context.Background(), uuid.NewString(), CheckOutRequest{})
	assert.ErrorIs(t, err, attendanceerrors.ErrNoActiveCheckIn)
}

func TestTodayStatus_CheckedIn(t *testing.T) {
	repo := &fakeRepo{open: &Attendance{
		ID:        uuid.New(),
		CheckInAt: time.Now().UTC(),
		Status:    StatusIncomplete,
	}}
	svc, _ := newTestService(t, repo)

	resp, err := svc.TodayStatus(context.Background(), uuid.NewString())
	require.NoError(t, err)

	assert.Equal(t, "checked-in", resp.Status)
	require.NotNil(t, resp.Attendance)
}

func TestTodayStatus_NotCheckedIn(t *testing.T) {
	svc, _ := newTestService(t, &fakeRepo{})

	resp, err := svc.TodayStatus(context.Background(), uuid.NewString())
	require.NoError(t, err)

	assert.Equal(t, "not-checked-in", resp.Status)
	assert.Nil(t, resp.Attendance)
}

func TestMonthlyStats_DegradesOnStorageError(t *testing.T) {
	repo := &fakeRepo{monthErr: errors.New("connection refused")}
	svc, _ := newTestService(t, repo)

	resp, err := svc.MonthlyStats(context.Background(), uuid.NewString(), 3, 2025)
	require.NoError(t, err)

	assert.Equal(t, 0, resp.FullDays)
	assert.Equal(t, 0.0, resp.WorkDays)
	assert.Equal(t, 21, resp.TotalWorkingDays)
}

func TestMonthlyStats_UsesRecords(t *testing.T) {
	repo := &fakeRepo{monthRows: []Attendance{
		record(day(2025, time.March, 3), 8),
		record(day(2025, time.March, 4), 5),
	}}
	svc, _ := newTestService(t, repo)
	svc.now = func() time.Time { return day(2025, time.April, 1) }

	resp, err := svc.MonthlyStats(context.Background(), uuid.NewString(), 3, 2025)
	require.NoError(t, err)

	assert.Equal(t, 1, resp.FullDays)
	assert.Equal(t, 1, resp.HalfDays)
	assert.Equal(t, 1.5, resp.WorkDays)
	assert.Equal(t, 19.5, resp.Absences)
}

func TestRangeSummary_Totals(t *testing.T) {
	repo := &fakeRepo{rangeRows: []Attendance{
		{WorkingHours: 8.5, Overtime: 0.5, Status: StatusPresent},
		{WorkingHours: 4, Status: StatusPresent},
		{Status: StatusIncomplete},
	}}
	svc, _ := newTestService(t, repo)

	resp, err := svc.RangeSummary(context.Background(), uuid.NewString(), nil, nil)
	require.NoError(t, err)

	assert.Equal(t, 12.5, resp.Summary.TotalHours)
	assert.Equal(t, 0.5, resp.Summary.TotalOvertimeHours)
	assert.Equal(t, 2, resp.Summary.PresentDays)
	assert.Equal(t, 3, resp.Summary.TotalRecords)
}

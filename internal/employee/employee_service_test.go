package employee

import (
	"context"
	"database/sql"
	"testing"

	employeeerrors "github.com/Toretto00/salary-calculator/internal/employee/errors"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

type fakeEmployeeRepo struct {
	created   []*Employee
	createErr error
	byID      map[string]*Employee
	updated   *Employee
}

func (f *fakeEmployeeRepo) WithTx(tx *sql.Tx) Repository { return f }

func (f *fakeEmployeeRepo) Create(ctx context.Context, empl *Employee) error {
	if f.createErr != nil {
		return f.createErr
	}
	f.created = append(f.created, empl)
	return nil
}

func (f *fakeEmployeeRepo) FindAll(ctx context.Context) ([]Employee, error) {
	var out []Employee
	for _, e := range f.byID {
		out = append(out, *e)
	}
	return out, nil
}

func (f *fakeEmployeeRepo) FindOptions(ctx context.Context) ([]Employee, error) {
	return f.FindAll(ctx)
}

func (f *fakeEmployeeRepo) FindByID(ctx context.Context, id string) (*Employee, error) {
	if e, ok := f.byID[id]; ok {
		return e, nil
	}
	return nil, gorm.ErrRecordNotFound
}

func (f *fakeEmployeeRepo) Update(ctx context.Context, empl *Employee) error {
	f.updated = empl
	return nil
}

func (f *fakeEmployeeRepo) Delete(ctx context.Context, id string) error {
	return nil
}

type fakeCounter struct {
	next int64
}

func (f *fakeCounter) GetNextValue(ctx context.Context, counterType string) (int64, error) {
	f.next++
	return f.next, nil
}

func newEmployeeTestService(t *testing.T, repo Repository) (Service, sqlmock.Sqlmock) {
	t.Helper()
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })

	svc := NewService(db, repo, &fakeCounter{next: 41}, nil, zap.NewNop())
	return svc, mock
}

func TestCreateEmployee_GeneratesNumber(t *testing.T) {
	repo := &fakeEmployeeRepo{byID: map[string]*Employee{}}
	svc, mock := newEmployeeTestService(t, repo)
	mock.ExpectBegin()
	mock.ExpectCommit()

	resp, err := svc.Create(context.Background(), CreateEmployeeRequest{
		FullName:    "Nguyen Van A",
		Email:       "a@example.com",
		Salary:      20_000_000,
		Dependents:  1,
		Probation:   "no",
		Nationality: "vietnamese",
		Allowances:  &AllowancesPayload{Food: 800_000},
	})
	require.NoError(t, err)

	assert.Equal(t, "EMP-000042", resp.EmployeeNumber)
	assert.Equal(t, "no", resp.Probation)
	assert.Equal(t, int64(800_000), resp.Allowances.Food)
	require.Len(t, repo.created, 1)
	assert.False(t, repo.created[0].Probation)
}

func TestCreateEmployee_DefaultsNationality(t *testing.T) {
	repo := &fakeEmployeeRepo{byID: map[string]*Employee{}}
	svc, mock := newEmployeeTestService(t, repo)
	mock.ExpectBegin()
	mock.ExpectCommit()

	resp, err := svc.Create(context.Background(), CreateEmployeeRequest{
		FullName: "Jane Doe",
		Email:    "jane@example.com",
	})
	require.NoError(t, err)

	assert.Equal(t, "vietnamese", resp.Nationality)
}

func TestCreateEmployee_DuplicateEmailMapsToConflict(t *testing.T) {
	repo := &fakeEmployeeRepo{
		byID: map[string]*Employee{},
		createErr: &pgconn.PgError{
			Code:           "23505",
			ConstraintName: "uq_employee_email",
		},
	}
	svc, mock := newEmployeeTestService(t, repo)
	mock.ExpectBegin()
	mock.ExpectRollback()

	_, err := svc.Create(context.Background(), CreateEmployeeRequest{
		FullName: "Nguyen Van A",
		Email:    "a@example.com",
	})
	assert.ErrorIs(t, err, employeeerrors.ErrEmployeeAlreadyExists)
}

func TestGetEmployeeByID_NotFound(t *testing.T) {
	repo := &fakeEmployeeRepo{byID: map[string]*Employee{}}
	svc, _ := newEmployeeTestService(t, repo)

	_, err := svc.GetByID(context.Background(), "8f1c9d4e-0000-0000-0000-000000000000")
	assert.ErrorIs(t, err, employeeerrors.ErrEmployeeNotFound)
}

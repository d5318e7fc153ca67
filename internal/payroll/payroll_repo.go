package payroll

import (
	"context"
	"database/sql"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

//go:generate mockgen -source=payroll_repo.go -destination=mock/payroll_repo_mock.go -package=mock
type Repository interface {
	WithTx(tx *sql.Tx) Repository
	Create(ctx context.Context, rec *SalaryRecord) error
	Upsert(ctx context.Context, rec *SalaryRecord) error
	FindByID(ctx context.Context, id string) (*SalaryRecord, error)
	FindByEmployeeAndPeriod(ctx context.Context, employeeID string, month, year int) (*SalaryRecord, error)
	FindByPeriod(ctx context.Context, month, year int) ([]SalaryRecord, error)
	FindAll(ctx context.Context) ([]SalaryRecord, error)
	FindAllByEmployee(ctx context.Context, employeeID string) ([]SalaryRecord, error)
	Update(ctx context.Context, rec *SalaryRecord) error
	Delete(ctx context.Context, id string) error
}

type repository struct {
	db *gorm.DB
	tx *sql.Tx
}

func NewRepository(db *gorm.DB) Repository {
	return &repository{db: db}
}

func (r *repository) WithTx(tx *sql.Tx) Repository {
	return &repository{db: r.db, tx: tx}
}

func (r *repository) Create(ctx context.Context, rec *SalaryRecord) error {
	return r.db.WithContext(ctx).Create(rec).Error
}

// Upsert replaces an existing period record in one statement, so an
// overwrite cannot race a concurrent insert into a duplicate.
func (r *repository) Upsert(ctx context.Context, rec *SalaryRecord) error {
	return r.db.WithContext(ctx).Clauses(clause.OnConflict{
		Columns: []clause.Column{{Name: "employee_id"}, {Name: "month"}, {Name: "year"}},
		UpdateAll: true,
	}).Create(rec).Error
}

func (r *repository) FindByID(ctx context.Context, id string) (*SalaryRecord, error) {
	var rec SalaryRecord
	err := r.db.WithContext(ctx).Where("id = ?", id).First(&rec).Error
	return &rec, err
}

func (r *repository) FindByEmployeeAndPeriod(ctx context.Context, employeeID string, month, year int) (*SalaryRecord, error) {
	var rec SalaryRecord
	err := r.db.WithContext(ctx).
		Where("employee_id = ? AND month = ? AND year = ?", employeeID, month, year).
		First(&rec).Error
	return &rec, err
}

func (r *repository) FindByPeriod(ctx context.Context, month, year int) ([]SalaryRecord, error) {
	var rows []SalaryRecord
	err := r.db.WithContext(ctx).
		Where("month = ? AND year = ?", month, year).
		Order("created_at ASC").
		Find(&rows).Error
	return rows, err
}

func (r *repository) FindAll(ctx context.Context) ([]SalaryRecord, error) {
	var rows []SalaryRecord
	err := r.db.WithContext(ctx).
		Order("year DESC, month DESC, created_at ASC").
		Find(&rows).Error
	return rows, err
}

func (r *repository) FindAllByEmployee(ctx context.Context, employeeID string) ([]SalaryRecord, error) {
	var rows []SalaryRecord
	err := r.db.WithContext(ctx).
		Where("employee_id = ?", employeeID).
		Order("year DESC, month DESC").
		Find(&rows).Error
	return rows, err
}

func (r *repository) Update(ctx context.Context, rec *SalaryRecord) error {
	return r.db.WithContext(ctx).Save(rec).Error
}

func (r *repository) Delete(ctx context.Context, id string) error {
	res := r.db.WithContext(ctx).Where("id = ?", id).Delete(&SalaryRecord{})
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return res.Error
}

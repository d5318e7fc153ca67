package payroll

import (
	"bytes"
	"context"
	"testing"

	"github.com/Toretto00/salary-calculator/internal/employee"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"
)

func TestExportExcel_ItemizesAllowances(t *testing.T) {
	repo := newFakeSalaryRepo()
	dir := &fakeDirectory{employees: map[string]employee.EmployeeResponse{}}
	empID := seedEmployee(dir, 20_000_000)
	emp := dir.employees[empID]
	emp.Allowances = employee.AllowancesPayload{Food: 800_000, Phone: 150_000}
	dir.employees[empID] = emp
	svc, mock := newPayrollTestService(t, repo, dir, defaultStats())
	mock.ExpectBegin()
	mock.ExpectCommit()

	_, err := svc.Calculate(context.Background(), BatchCalculateRequest{
		EmployeeIDs: []string{empID},
		Month:       3,
		Year:        2025,
	})
	require.NoError(t, err)

	data, err := svc.ExportExcel(context.Background(), 3, 2025)
	require.NoError(t, err)

	f, err := excelize.OpenReader(bytes.NewReader(data))
	require.NoError(t, err)
	defer f.Close()

	rows, err := f.GetRows("Salary 03-2025", excelize.Options{RawCellValue: true})
	require.NoError(t, err)
	require.Len(t, rows, 2)
	assert.Equal(t, exportHeaders, rows[0])

	col := map[string]int{}
	for i, h := range rows[0] {
		col[h] = i
	}
	assert.Equal(t, "800000", rows[1][col["Food"]])
	assert.Equal(t, "150000", rows[1][col["Phone"]])
	assert.Equal(t, "0", rows[1][col["Clothes"]])
	assert.Equal(t, "950000", rows[1][col["Total Allowances"]])
}

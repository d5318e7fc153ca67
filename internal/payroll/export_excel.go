package payroll

import (
	"bytes"
	"context"
	"fmt"

	"github.com/xuri/excelize/v2"
	"go.uber.org/zap"
)

var exportHeaders = []string{
	"Employee Number",
	"Employee Name",
	"Gross Salary",
	"Working Days",
	"Days Off",
	"Adjusted Salary",
	"Overtime Pay",
	"Food",
	"Clothes",
	"Parking",
	"Fuel",
	"House Rent",
	"Phone",
	"Total Allowances",
	"Bonus",
	"Social Insurance",
	"Health Insurance",
	"Accident Insurance",
	"Taxable Income",
	"Tax",
	"Net Salary",
}

// ExportExcel renders every record of the period into one worksheet, one row
// per employee, VND amounts with thousand separators.
func (s *service) ExportExcel(ctx context.Context, month, year int) ([]byte, error) {
	records, err := s.GetByPeriod(ctx, month, year)
	if err != nil {
		return nil, err
	}

	f := excelize.NewFile()
	defer f.Close()

	sheet := fmt.Sprintf("Salary %02d-%d", month, year)
	index, err := f.NewSheet(sheet)
	if err != nil {
		return nil, err
	}
	f.SetActiveSheet(index)
	f.DeleteSheet("Sheet1")

	headerStyle, err := f.NewStyle(&excelize.Style{
		Font: &excelize.Font{Bold: true, Color: "FFFFFF"},
		Fill: excelize.Fill{Type: "pattern", Color: []string{"4472C4"}, Pattern: 1},
		Alignment: &excelize.Alignment{
			Horizontal: "center",
			Vertical:   "center",
		},
	})
	if err != nil {
		return nil, err
	}

	vndFormat := "#,##0"
	moneyStyle, err := f.NewStyle(&excelize.Style{CustomNumFmt: &vndFormat})
	if err != nil {
		return nil, err
	}

	for col, header := range exportHeaders {
		cell, _ := excelize.CoordinatesToCellName(col+1, 1)
		if err := f.SetCellValue(sheet, cell, header); err != nil {
			return nil, err
		}
	}
	lastHeaderCell, _ := excelize.CoordinatesToCellName(len(exportHeaders), 1)
	if err := f.SetCellStyle(sheet, "A1", lastHeaderCell, headerStyle); err != nil {
		return nil, err
	}

	for i, rec := range records {
		name := rec.EmployeeName
		number := rec.EmployeeNumber
		if name == "" {
			if emp, err := s.employees.GetByID(ctx, rec.EmployeeID); err == nil {
				name = emp.FullName
				number = emp.EmployeeNumber
			} else {
				s.logger.Warn("export could not resolve employee",
					zap.String("employee_id", rec.EmployeeID),
					zap.Error(err),
				)
				name = rec.EmployeeID
			}
		}

		row := i + 2
		values := []interface{}{
			number,
			name,
			rec.GrossSalary,
			rec.WorkingDays,
			rec.DaysOff,
			rec.AdjustedSalary,
			rec.OvertimePay,
			rec.Allowances.Food,
			rec.Allowances.Clothes,
			rec.Allowances.Parking,
			rec.Allowances.Fuel,
			rec.Allowances.HouseRent,
			rec.Allowances.Phone,
			rec.TotalAllowances,
			rec.Bonus,
			rec.SocialInsurance,
			rec.HealthInsurance,
			rec.AccidentInsurance,
			rec.TaxableIncome,
			rec.Tax,
			rec.NetSalary,
		}
		for col, v := range values {
			cell, _ := excelize.CoordinatesToCellName(col+1, row)
			if err := f.SetCellValue(sheet, cell, v); err != nil {
				return nil, err
			}
		}

		moneyStart, _ := excelize.CoordinatesToCellName(3, row)
		moneyEnd, _ := excelize.CoordinatesToCellName(len(exportHeaders), row)
		if err := f.SetCellStyle(sheet, moneyStart, moneyEnd, moneyStyle); err != nil {
			return nil, err
		}
	}

	if err := f.SetColWidth(sheet, "A", "B", 24); err != nil {
		return nil, err
	}
	lastCol, _ := excelize.ColumnNumberToName(len(exportHeaders))
	if err := f.SetColWidth(sheet, "C", lastCol, 16); err != nil {
		return nil, err
	}

	var buf bytes.Buffer
	if err := f.Write(&buf); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

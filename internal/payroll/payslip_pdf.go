package payroll

import (
	"bytes"
	"context"
	"fmt"
	"strings"

	"golang.org/x/text/language"
	"golang.org/x/text/message"
)

// Payslip renders a single record as a minimal one-page PDF. The document is
// plain PDF 1.4 text objects, enough for a printable payslip without an
// external renderer.
func (s *service) Payslip(ctx context.Context, id string) ([]byte, error) {
	rec, err := s.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}

	name := rec.EmployeeID
	number := ""
	if emp, err := s.employees.GetByID(ctx, rec.EmployeeID); err == nil {
		name = emp.FullName
		number = emp.EmployeeNumber
	}

	p := message.NewPrinter(language.English)
	vnd := func(v float64) string {
		return p.Sprintf("%.0f VND", v)
	}

	lines := []string{
		fmt.Sprintf("PAYSLIP %02d/%d", rec.Month, rec.Year),
		"",
		fmt.Sprintf("Employee: %s (%s)", name, number),
		"",
		fmt.Sprintf("Gross salary:        %s", vnd(rec.GrossSalary)),
		fmt.Sprintf("Working days:        %.1f (off %.1f)", rec.WorkingDays, rec.DaysOff),
		fmt.Sprintf("Adjusted salary:     %s", vnd(rec.AdjustedSalary)),
		fmt.Sprintf("Overtime pay:        %s", vnd(rec.OvertimePay)),
		fmt.Sprintf("Allowances:          %s", vnd(rec.TotalAllowances)),
		fmt.Sprintf("Bonus:               %s", vnd(rec.Bonus)),
		"",
		fmt.Sprintf("Social insurance:    -%s", vnd(rec.SocialInsurance)),
		fmt.Sprintf("Health insurance:    -%s", vnd(rec.HealthInsurance)),
		fmt.Sprintf("Accident insurance:  -%s", vnd(rec.AccidentInsurance)),
		fmt.Sprintf("Taxable income:      %s", vnd(rec.TaxableIncome)),
		fmt.Sprintf("Personal income tax: -%s", vnd(rec.Tax)),
		"",
		fmt.Sprintf("NET SALARY:          %s", vnd(rec.NetSalary)),
	}

	return buildSimplePayslipPDF(lines)
}

func buildSimplePayslipPDF(lines []string) ([]byte, error) {
	if len(lines) == 0 {
		lines = []string{"Payslip"}
	}

	var content strings.Builder
	content.WriteString("BT\n/F1 12 Tf\n14 TL\n50 800 Td\n")
	for i, line := range lines {
		escaped := pdfEscape(line)
		if i == 0 {
			content.WriteString(fmt.Sprintf("(%s) Tj\n", escaped))
			continue
		}
		content.WriteString(fmt.Sprintf("T* (%s) Tj\n", escaped))
	}
	content.WriteString("ET")

	stream := content.String()
	objects := []string{
		"1 0 obj\n<< /Type /Catalog /Pages 2 0 R >>\nendobj\n",
		"2 0 obj\n<< /Type /Pages /Kids [3 0 R] /Count 1 >>\nendobj\n",
		"3 0 obj\n<< /Type /Page /Parent 2 0 R /MediaBox [0 0 595 842] /Resources << /Font << /F1 4 0 R >> >> /Contents 5 0 R >>\nendobj\n",
		"4 0 obj\n<< /Type /Font /Subtype /Type1 /BaseFont /Courier >>\nendobj\n",
		fmt.Sprintf("5 0 obj\n<< /Length %d >>\nstream\n%s\nendstream\nendobj\n", len(stream), stream),
	}

	var out bytes.Buffer
	out.WriteString("%PDF-1.4\n")
	offsets := make([]int, 0, len(objects)+1)
	offsets = append(offsets, 0)

	for _, obj := range objects {
		offsets = append(offsets, out.Len())
		out.WriteString(obj)
	}

	xrefStart := out.Len()
	out.WriteString(fmt.Sprintf("xref\n0 %d\n", len(offsets)))
	out.WriteString("0000000000 65535 f \n")
	for i := 1; i < len(offsets); i++ {
		out.WriteString(fmt.Sprintf("%010d 00000 n \n", offsets[i]))
	}
	out.WriteString(fmt.Sprintf("trailer\n<< /Size %d /Root 1 0 R >>\nstartxref\n%d\n%%%%EOF", len(offsets), xrefStart))

	return out.Bytes(), nil
}

func pdfEscape(v string) string {
	replacer := strings.NewReplacer("\\", "\\\\", "(", "\\(", ")", "\\)")
	return replacer.Replace(v)
}

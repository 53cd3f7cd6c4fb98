package payroll

import (
	"fmt"

	"github.com/cmlabs-hris/smallbiz-hr-backend/internal/domain/payroll"
	"github.com/cmlabs-hris/smallbiz-hr-backend/internal/pkg/validator"
	"github.com/cmlabs-hris/smallbiz-hr-backend/internal/service/hours"
	"github.com/shopspring/decimal"
	"github.com/xuri/excelize/v2"
)

const exportSheet = "Payroll"

var exportHeader = []interface{}{
	"Employee ID", "Employee", "Regular Hours", "Overtime Hours", "Hourly Rate",
	"Overtime Rate", "Gross Pay", "Deductions", "Net Pay", "Status",
}

// WriteWorkbook renders a period's entries as an xlsx workbook with one sheet, one row per
// entry and a totals row.
func WriteWorkbook(period payroll.PayrollPeriod, entries []payroll.PayrollEntry) ([]byte, error) {
	f := excelize.NewFile()
	defer f.Close()

	if err := f.SetSheetName("Sheet1", exportSheet); err != nil {
		return nil, fmt.Errorf("failed to name sheet: %w", err)
	}

	title := fmt.Sprintf("Payroll %s to %s (%s)",
		period.StartDate.Format(validator.DateLayout),
		period.EndDate.Format(validator.DateLayout),
		period.Status,
	)
	if err := f.SetCellValue(exportSheet, "A1", title); err != nil {
		return nil, err
	}
	if err := f.SetSheetRow(exportSheet, "A2", &exportHeader); err != nil {
		return nil, err
	}

	bold, err := f.NewStyle(&excelize.Style{Font: &excelize.Font{Bold: true}})
	if err != nil {
		return nil, err
	}
	if err := f.SetCellStyle(exportSheet, "A1", "J2", bold); err != nil {
		return nil, err
	}

	money := func(d decimal.Decimal) float64 {
		return d.Round(hours.CurrencyPlaces).InexactFloat64()
	}

	row := 3
	for _, e := range entries {
		name := ""
		if e.EmployeeName != nil {
			name = *e.EmployeeName
		}
		values := []interface{}{
			e.EmployeeID,
			name,
			e.RegularHours.InexactFloat64(),
			e.OvertimeHours.InexactFloat64(),
			money(e.HourlyRate),
			money(e.OvertimeRate),
			money(e.GrossPay),
			money(e.Deductions),
			money(e.NetPay),
			string(e.Status),
		}
		cell, err := excelize.CoordinatesToCellName(1, row)
		if err != nil {
			return nil, err
		}
		if err := f.SetSheetRow(exportSheet, cell, &values); err != nil {
			return nil, err
		}
		row++
	}

	summary := hours.PayrollSummary(entries)
	totals := []interface{}{
		"Total",
		fmt.Sprintf("%d entries", summary.EntryCount),
		summary.TotalHours.InexactFloat64(),
		nil,
		nil,
		nil,
		money(summary.TotalGross),
		nil,
		money(summary.TotalNet),
		nil,
	}
	cell, err := excelize.CoordinatesToCellName(1, row)
	if err != nil {
		return nil, err
	}
	if err := f.SetSheetRow(exportSheet, cell, &totals); err != nil {
		return nil, err
	}
	end, err := excelize.CoordinatesToCellName(len(exportHeader), row)
	if err != nil {
		return nil, err
	}
	if err := f.SetCellStyle(exportSheet, cell, end, bold); err != nil {
		return nil, err
	}

	buf, err := f.WriteToBuffer()
	if err != nil {
		return nil, fmt.Errorf("failed to write workbook: %w", err)
	}
	return buf.Bytes(), nil
}

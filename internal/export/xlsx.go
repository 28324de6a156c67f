package export

import (
	"fmt"
	"io"

	"github.com/xuri/excelize/v2"

	"solarhub/internal/domain"
	"solarhub/internal/savings"
)

const (
	SummarySheet   = "Summary"
	ScheduleSheet  = "Schedule"
	BreakdownSheet = "Slab Breakdown"
)

// WriteSavingsWorkbook writes an XLSX workbook with the projection summary,
// the full yearly schedule and the first-year slab breakdown.
func WriteSavingsWorkbook(w io.Writer, app *domain.Application, p savings.Projection) error {
	f := excelize.NewFile()
	defer func() { _ = f.Close() }()

	if err := f.SetSheetName(f.GetSheetName(0), SummarySheet); err != nil {
		return fmt.Errorf("export.WriteSavingsWorkbook: %w", err)
	}
	if err := writeSummary(f, app, p); err != nil {
		return fmt.Errorf("export.WriteSavingsWorkbook: summary: %w", err)
	}
	if err := writeSchedule(f, p); err != nil {
		return fmt.Errorf("export.WriteSavingsWorkbook: schedule: %w", err)
	}
	if err := writeBreakdown(f, p); err != nil {
		return fmt.Errorf("export.WriteSavingsWorkbook: breakdown: %w", err)
	}

	if err := f.Write(w); err != nil {
		return fmt.Errorf("export.WriteSavingsWorkbook: write: %w", err)
	}
	return nil
}

func writeSummary(f *excelize.File, app *domain.Application, p savings.Projection) error {
	rows := [][]interface{}{
		{"Project", app.ProjectName},
		{"Facility Type", string(p.FacilityType)},
		{"Monthly Consumption (kWh)", p.MonthlyKwh},
		{"Current Monthly Bill (AED)", p.MonthlyBill},
		{"Horizon (years)", p.HorizonYears},
		{"Total Savings (AED)", p.TotalSavings},
		{"Annual Savings at Horizon (AED)", p.AnnualSavings},
		{"Monthly Savings at Horizon (AED)", p.MonthlySavings},
	}
	if err := setRows(f, SummarySheet, rows); err != nil {
		return err
	}
	return f.SetColWidth(SummarySheet, "A", "A", 34)
}

func writeSchedule(f *excelize.File, p savings.Projection) error {
	if _, err := f.NewSheet(ScheduleSheet); err != nil {
		return err
	}
	rows := [][]interface{}{{"Year", "Production Factor", "Inflation Factor", "Annual Savings (AED)", "Cumulative (AED)"}}
	for _, y := range p.Yearly {
		rows = append(rows, []interface{}{y.Year, y.ProductionFactor, y.InflationFactor, y.AnnualSavings, y.Cumulative})
	}
	if err := setRows(f, ScheduleSheet, rows); err != nil {
		return err
	}
	return f.SetColWidth(ScheduleSheet, "A", "E", 20)
}

func writeBreakdown(f *excelize.File, p savings.Projection) error {
	if _, err := f.NewSheet(BreakdownSheet); err != nil {
		return err
	}
	rows := [][]interface{}{{"Slab (kWh)", "Rate (AED/kWh)", "kWh", "Cost (AED)", "VAT (AED)", "Total (AED)", "Annual (AED)"}}
	for _, s := range p.Breakdown {
		rows = append(rows, []interface{}{s.Range, s.Rate, s.Kwh, s.Cost, s.VAT, s.Total, s.AnnualTotal})
	}
	if err := setRows(f, BreakdownSheet, rows); err != nil {
		return err
	}
	return f.SetColWidth(BreakdownSheet, "A", "G", 16)
}

func setRows(f *excelize.File, sheet string, rows [][]interface{}) error {
	for i, row := range rows {
		cell, err := excelize.CoordinatesToCellName(1, i+1)
		if err != nil {
			return err
		}
		if err := f.SetSheetRow(sheet, cell, &row); err != nil {
			return err
		}
	}
	return nil
}

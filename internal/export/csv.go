// Package export renders applications and savings projections as
// spreadsheet downloads.
package export

import (
	"encoding/csv"
	"io"
	"strconv"
	"time"

	"solarhub/internal/domain"
	"solarhub/internal/offer"
	"solarhub/internal/tariff"
	"solarhub/internal/workflow"
)

// UTF-8 BOM bytes for Excel compatibility on Windows.
var BOM = []byte{0xEF, 0xBB, 0xBF}

// columns defines the CSV header row.
var columns = []string{
	"Application ID",
	"Project Name",
	"Owner ID",
	"Facility Type",
	"System Type",
	"Location",
	"Status",
	"Progress (%)",
	"Monthly kWh",
	"Estimated Monthly Bill (AED)",
	"Attachments",
	"Created At",
	"Updated At",
}

// CSVWriter wraps csv.Writer for exporting applications.
type CSVWriter struct {
	csv     *csv.Writer
	tariffs *tariff.Model
}

// NewCSVWriter creates a CSVWriter that writes to w. Bills are estimated
// with tariffs.
func NewCSVWriter(w io.Writer, tariffs *tariff.Model) *CSVWriter {
	return &CSVWriter{csv: csv.NewWriter(w), tariffs: tariffs}
}

// WriteHeader writes the header row.
func (w *CSVWriter) WriteHeader() error {
	return w.csv.Write(columns)
}

// WriteApplications converts a batch of applications to rows and writes them.
func (w *CSVWriter) WriteApplications(apps []domain.Application) error {
	for i := range apps {
		if err := w.csv.Write(w.applicationToRow(&apps[i])); err != nil {
			return err
		}
	}
	return nil
}

// Flush flushes the underlying csv.Writer buffer.
func (w *CSVWriter) Flush() {
	w.csv.Flush()
}

// Error returns any error from the underlying csv.Writer.
func (w *CSVWriter) Error() error {
	return w.csv.Error()
}

// applicationToRow fills every column. Progress is left empty when the
// stored status is not a catalog member; kWh and bill are empty when the
// load profile carries no number.
func (w *CSVWriter) applicationToRow(app *domain.Application) []string {
	row := make([]string, len(columns))

	row[0] = app.ID.String()
	row[1] = app.ProjectName
	row[2] = app.OwnerID.String()
	row[3] = string(app.FacilityType)
	row[4] = string(app.SystemType)
	row[5] = app.Location
	row[6] = string(app.Status)
	if frac, err := workflow.ApplicationFlow.ProgressFraction(app.Status); err == nil {
		row[7] = strconv.Itoa(int(frac*100 + 0.5))
	}
	if kwh := offer.ParseLoadProfile(app.LoadProfile); kwh > 0 {
		row[8] = strconv.FormatFloat(kwh, 'f', -1, 64)
		row[9] = formatMoney(w.tariffs.MonthlyBill(kwh, app.FacilityType))
	}
	row[10] = strconv.Itoa(len(app.Files.Bills) + len(app.Files.Photos) + len(app.Files.LoadData))
	row[11] = app.CreatedAt.Format(time.RFC3339)
	row[12] = app.UpdatedAt.Format(time.RFC3339)

	return row
}

func formatMoney(v float64) string {
	return strconv.FormatFloat(v, 'f', 2, 64)
}

package export_test

import (
	"bytes"
	"encoding/csv"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"

	"solarhub/internal/domain"
	"solarhub/internal/export"
	"solarhub/internal/savings"
	"solarhub/internal/tariff"
)

func TestCSVWriter_Rows(t *testing.T) {
	created := time.Date(2026, 3, 1, 9, 30, 0, 0, time.UTC)
	apps := []domain.Application{
		{
			ID:           uuid.New(),
			OwnerID:      uuid.New(),
			ProjectName:  "Al Quoz warehouse",
			FacilityType: domain.FacilityCommercial,
			SystemType:   domain.SystemOnGrid,
			Location:     "Dubai",
			Status:       domain.StatusMatched,
			LoadProfile:  "2,500 kWh",
			Files:        domain.ApplicationFiles{Bills: []domain.FileRef{{Name: "a.pdf"}}, Photos: []domain.FileRef{{Name: "b.png"}}},
			CreatedAt:    created,
			UpdatedAt:    created,
		},
		{
			ID:          uuid.New(),
			ProjectName: "Unknown load",
			Status:      "Archived",
			CreatedAt:   created,
			UpdatedAt:   created,
		},
	}

	var buf bytes.Buffer
	w := export.NewCSVWriter(&buf, tariff.NewModel())
	require.NoError(t, w.WriteHeader())
	require.NoError(t, w.WriteApplications(apps))
	w.Flush()
	require.NoError(t, w.Error())

	rows, err := csv.NewReader(&buf).ReadAll()
	require.NoError(t, err)
	require.Len(t, rows, 3)

	assert.Equal(t, "Application ID", rows[0][0])
	assert.Len(t, rows[0], 13)

	first := rows[1]
	assert.Equal(t, "Al Quoz warehouse", first[1])
	assert.Equal(t, "Matched", first[6])
	assert.Equal(t, "50", first[7])
	assert.Equal(t, "2500", first[8])
	// (2000*0.23 + 500*0.28) * 1.05
	assert.Equal(t, "630.00", first[9])
	assert.Equal(t, "2", first[10])
	assert.Equal(t, "2026-03-01T09:30:00Z", first[11])

	second := rows[2]
	assert.Empty(t, second[7])
	assert.Empty(t, second[8])
	assert.Empty(t, second[9])
	assert.Equal(t, "0", second[10])
}

func TestWriteSavingsWorkbook(t *testing.T) {
	app := &domain.Application{ProjectName: "Villa", FacilityType: domain.FacilityResidentialVilla}
	p := savings.NewProjector(tariff.NewModel()).Project(3000, app.FacilityType, 10)

	var buf bytes.Buffer
	require.NoError(t, export.WriteSavingsWorkbook(&buf, app, p))

	f, err := excelize.OpenReader(&buf)
	require.NoError(t, err)
	defer func() { _ = f.Close() }()

	assert.Equal(t, []string{export.SummarySheet, export.ScheduleSheet, export.BreakdownSheet}, f.GetSheetList())

	schedule, err := f.GetRows(export.ScheduleSheet)
	require.NoError(t, err)
	assert.Len(t, schedule, savings.MaxYears+1)
	assert.Equal(t, "Year", schedule[0][0])
	assert.Equal(t, "25", schedule[savings.MaxYears][0])

	breakdown, err := f.GetRows(export.BreakdownSheet)
	require.NoError(t, err)
	assert.Len(t, breakdown, len(p.Breakdown)+1)
	assert.Equal(t, "1-2000", breakdown[1][0])

	name, err := f.GetCellValue(export.SummarySheet, "B1")
	require.NoError(t, err)
	assert.Equal(t, "Villa", name)
}

func TestBuildFilename(t *testing.T) {
	assert.Equal(t, "Al_Quoz_warehouse", export.SanitizeFilename("Al Quoz / warehouse!"))
	assert.Equal(t, "export", export.SanitizeFilename("***"))

	name := export.BuildFilename("Villa savings", "xlsx")
	assert.Regexp(t, `^Villa_savings_\d{4}-\d{2}-\d{2}\.xlsx$`, name)
}

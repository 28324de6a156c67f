package offer_test

import (
	"math"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"solarhub/internal/domain"
	"solarhub/internal/offer"
)

func TestParseLoadProfile(t *testing.T) {
	tests := []struct {
		in   string
		want float64
	}{
		{"1500", 1500},
		{"1,500", 1500},
		{"1,500 kWh/month", 1500},
		{"approx 2500.5 kWh", 2500.5},
		{"", 0},
		{"n/a", 0},
		{"1.2.3", 0},
		{"-300", 300},
		{"10,000,000 kWh", offer.MaxMonthlyKwh},
		{"10000001", 0},
		{"1" + strings.Repeat("0", 30), 0},
		{"1" + strings.Repeat("0", 400), 0},
	}

	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			assert.Equal(t, tt.want, offer.ParseLoadProfile(tt.in))
		})
	}
}

func TestRequiredSystemSizeKw(t *testing.T) {
	assert.Equal(t, offer.MinSystemSizeKw, offer.RequiredSystemSizeKw(0))
	assert.Equal(t, offer.MinSystemSizeKw, offer.RequiredSystemSizeKw(-10))
	// 1500*12/1600 = 11.25
	assert.Equal(t, 12, offer.RequiredSystemSizeKw(1500))
	// 4000*12/1600 = 30 exactly
	assert.Equal(t, 30, offer.RequiredSystemSizeKw(4000))
	assert.Equal(t, 1, offer.RequiredSystemSizeKw(1))
	assert.Equal(t, 75000, offer.RequiredSystemSizeKw(offer.MaxMonthlyKwh))
	assert.Equal(t, offer.MinSystemSizeKw, offer.RequiredSystemSizeKw(1e30))
	assert.Equal(t, offer.MinSystemSizeKw, offer.RequiredSystemSizeKw(math.Inf(1)))
	assert.Equal(t, offer.MinSystemSizeKw, offer.RequiredSystemSizeKw(math.NaN()))
}

func TestGenerate_OversizedConsumptionFallsBackToFloor(t *testing.T) {
	huge := offer.ParseLoadProfile("1" + strings.Repeat("0", 30))
	for _, kwh := range []float64{huge, 1e30, math.Inf(1)} {
		q := offer.NewGenerator(nil).Generate(offer.Request{MonthlyKwh: kwh, FacilityType: domain.FacilityCommercial})
		assert.Equal(t, 0.0, q.MonthlyKwh)
		assert.Equal(t, offer.MinSystemSizeKw, q.RequiredKw)
		for _, o := range q.Offers {
			assert.Positive(t, o.SystemSizeKw)
			assert.Positive(t, o.TotalCost)
			assert.Positive(t, o.TimelineDays)
		}
	}
}

func TestVolumeDiscount_CliffEdges(t *testing.T) {
	assert.Equal(t, 0.0, offer.VolumeDiscount(19))
	assert.Equal(t, 0.05, offer.VolumeDiscount(20))
	assert.Equal(t, 0.05, offer.VolumeDiscount(49))
	assert.Equal(t, 0.10, offer.VolumeDiscount(50))
	assert.Equal(t, 0.10, offer.VolumeDiscount(99))
	assert.Equal(t, 0.15, offer.VolumeDiscount(100))
}

func TestTierOf(t *testing.T) {
	assert.Equal(t, offer.TierResidential, offer.TierOf(domain.FacilityResidentialFlat))
	assert.Equal(t, offer.TierIndustrial, offer.TierOf(domain.FacilityIndustrialLight))
	assert.Equal(t, offer.TierIndustrial, offer.TierOf(domain.FacilityAgriculturalLivestock))
	assert.Equal(t, offer.TierCommercial, offer.TierOf(domain.FacilityHotel))
	assert.Equal(t, offer.TierCommercial, offer.TierOf(domain.FacilityOther))
}

func TestGenerate_CommercialOnGrid(t *testing.T) {
	q := offer.NewGenerator(nil).Generate(offer.Request{
		MonthlyKwh:   1500,
		FacilityType: domain.FacilityCommercial,
	})

	assert.Equal(t, 12, q.RequiredKw)
	assert.Equal(t, 3800.0, q.BasePricePerKw)
	assert.Equal(t, 0.0, q.Discount)
	assert.Equal(t, 1.0, q.Multiplier)
	require.Len(t, q.Offers, 3)

	sunpeak := q.Offers[0]
	assert.Equal(t, "SunPeak Energy", sunpeak.Name)
	assert.Equal(t, 12.0, sunpeak.SystemSizeKw)
	assert.Equal(t, 45600.0, sunpeak.TotalCost)
	assert.Equal(t, 25, sunpeak.WarrantyYears)
	assert.Equal(t, 31, sunpeak.TimelineDays)
	assert.Equal(t, 4.8, sunpeak.Score)

	desert := q.Offers[1]
	assert.Equal(t, 12.6, desert.SystemSizeKw)
	// 12.6 * 3800 * 0.95
	assert.Equal(t, 45486.0, desert.TotalCost)
	assert.Equal(t, 46, desert.TimelineDays)

	green := q.Offers[2]
	assert.Equal(t, 13.2, green.SystemSizeKw)
	assert.Equal(t, 26, green.TimelineDays)
	assert.Equal(t, 30, green.WarrantyYears)
}

func TestGenerate_ZeroConsumptionUsesFloor(t *testing.T) {
	q := offer.NewGenerator(nil).Generate(offer.Request{FacilityType: domain.FacilityResidentialVilla})
	assert.Equal(t, 10, q.RequiredKw)
	assert.Equal(t, 10.0, q.Offers[0].SystemSizeKw)
	assert.Equal(t, 42000.0, q.Offers[0].TotalCost)
	assert.Equal(t, 31, q.Offers[0].TimelineDays)
}

func TestGenerate_DiscountAndSystemType(t *testing.T) {
	// 8000*12/1600 = 60 kWp, 10% discount, hybrid x1.25
	q := offer.NewGenerator(nil).Generate(offer.Request{
		MonthlyKwh:   8000,
		FacilityType: domain.FacilityIndustrialHeavy,
		SystemType:   domain.SystemHybrid,
	})
	assert.Equal(t, 60, q.RequiredKw)
	assert.Equal(t, 0.10, q.Discount)
	assert.Equal(t, 1.25, q.Multiplier)
	assert.Equal(t, 60*3400*0.9*1.25, q.Offers[0].TotalCost)
	assert.Equal(t, 36, q.Offers[0].TimelineDays)

	offGrid := offer.NewGenerator(nil).Generate(offer.Request{
		MonthlyKwh:   8000,
		FacilityType: domain.FacilityIndustrialHeavy,
		SystemType:   domain.SystemOffGrid,
	})
	assert.Greater(t, offGrid.Offers[0].TotalCost, q.Offers[0].TotalCost)
}

func TestGenerate_Deterministic(t *testing.T) {
	g := offer.NewGenerator(nil)
	req := offer.Request{MonthlyKwh: 3333, FacilityType: domain.FacilityHealthcare, SystemType: domain.SystemOffGrid}
	assert.Equal(t, g.Generate(req), g.Generate(req))
}

func TestGenerate_CustomVendors(t *testing.T) {
	g := offer.NewGenerator([]offer.Vendor{{Name: "Solo", SizeMultiplier: 1, PriceMultiplier: 1, WarrantyYears: 10, BaseDays: 5, Score: 3}})
	q := g.Generate(offer.Request{MonthlyKwh: 1600, FacilityType: domain.FacilityCommercial})
	require.Len(t, q.Offers, 1)
	assert.Equal(t, "Solo", q.Offers[0].Name)
	assert.Equal(t, 6, q.Offers[0].TimelineDays)
}

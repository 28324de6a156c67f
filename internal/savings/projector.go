// Package savings projects long-term electricity savings from a solar installation.
package savings

import (
	"math"

	"solarhub/internal/domain"
	"solarhub/internal/tariff"
)

const (
	// MaxYears is the length of the projected curve.
	MaxYears = 25
	// DefaultHorizon is the horizon used when the caller does not choose one.
	DefaultHorizon = 10
	// DegradationRate is the compounding annual loss of panel output.
	DegradationRate = 0.005
	// InflationRate is the compounding annual increase of the utility unit price.
	InflationRate = 0.03
)

// Year is one point on the projected curve.
type Year struct {
	Year             int     `json:"year"`
	ProductionFactor float64 `json:"production_factor"`
	InflationFactor  float64 `json:"inflation_factor"`
	AnnualSavings    float64 `json:"annual_savings"`
	Cumulative       float64 `json:"cumulative"`
}

// Projection summarizes savings over a horizon. When Available is false
// the consumption was unusable and every other field is zero.
type Projection struct {
	Available      bool                `json:"available"`
	MonthlyKwh     float64             `json:"monthly_kwh"`
	FacilityType   domain.FacilityType `json:"facility_type"`
	HorizonYears   int                 `json:"horizon_years"`
	MonthlyBill    float64             `json:"monthly_bill"`
	TotalSavings   float64             `json:"total_savings"`
	AnnualSavings  float64             `json:"annual_savings"`
	MonthlySavings float64             `json:"monthly_savings"`
	Breakdown      []tariff.SlabCharge `json:"breakdown,omitempty"`
	Yearly         []Year              `json:"yearly,omitempty"`
}

// Projector computes savings projections against a tariff model.
type Projector struct {
	tariffs *tariff.Model
}

// NewProjector creates a projector backed by tariffs.
func NewProjector(tariffs *tariff.Model) *Projector {
	return &Projector{tariffs: tariffs}
}

// ClampHorizon bounds years to [1, MaxYears].
func ClampHorizon(years int) int {
	switch {
	case years < 1:
		return 1
	case years > MaxYears:
		return MaxYears
	default:
		return years
	}
}

// Project returns the savings projection for a monthly consumption over
// horizonYears. Non-positive consumption, or consumption so large that any
// figure stops being finite, yields an unavailable projection.
func (p *Projector) Project(monthlyKwh float64, facility domain.FacilityType, horizonYears int) Projection {
	if monthlyKwh <= 0 || math.IsNaN(monthlyKwh) || math.IsInf(monthlyKwh, 0) {
		return Projection{}
	}
	horizon := ClampHorizon(horizonYears)

	yearly := make([]Year, 0, MaxYears)
	cumulative := 0.0
	for i := 1; i <= MaxYears; i++ {
		production := math.Pow(1-DegradationRate, float64(i-1))
		inflation := math.Pow(1+InflationRate, float64(i-1))
		annual := p.tariffs.MonthlyBill(monthlyKwh*production, facility) * inflation * 12
		cumulative += annual
		yearly = append(yearly, Year{
			Year:             i,
			ProductionFactor: production,
			InflationFactor:  inflation,
			AnnualSavings:    annual,
			Cumulative:       cumulative,
		})
	}

	bill := p.tariffs.MonthlyBill(monthlyKwh, facility)
	if !finite(cumulative) || !finite(bill) {
		return Projection{}
	}

	at := yearly[horizon-1]
	return Projection{
		Available:      true,
		MonthlyKwh:     monthlyKwh,
		FacilityType:   facility,
		HorizonYears:   horizon,
		MonthlyBill:    bill,
		TotalSavings:   at.Cumulative,
		AnnualSavings:  at.AnnualSavings,
		MonthlySavings: at.AnnualSavings / 12,
		Breakdown:      p.tariffs.Breakdown(monthlyKwh, facility),
		Yearly:         yearly,
	}
}

func finite(v float64) bool {
	return !math.IsNaN(v) && !math.IsInf(v, 0)
}

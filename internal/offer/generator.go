// Package offer derives installer offers from a facility's consumption.
package offer

import (
	"math"
	"strconv"
	"strings"

	"solarhub/internal/domain"
)

const (
	// SpecificYield is the annual energy produced per installed kWp (kWh/kWp/year).
	SpecificYield = 1600
	// MinSystemSizeKw is used when no consumption is known.
	MinSystemSizeKw = 10
	// MaxMonthlyKwh is the largest monthly consumption accepted from free
	// text. Larger figures are treated as unknown.
	MaxMonthlyKwh = 10_000_000
)

// PricingTier selects the base price per kWp.
type PricingTier string

const (
	TierResidential PricingTier = "residential"
	TierCommercial  PricingTier = "commercial"
	TierIndustrial  PricingTier = "industrial"
)

var basePricePerKw = map[PricingTier]float64{
	TierResidential: 4200,
	TierCommercial:  3800,
	TierIndustrial:  3400,
}

// TierOf maps a facility type to its pricing tier.
func TierOf(f domain.FacilityType) PricingTier {
	switch f {
	case domain.FacilityResidentialVilla, domain.FacilityResidentialFlat:
		return TierResidential
	case domain.FacilityIndustrialLight, domain.FacilityIndustrialHeavy,
		domain.FacilityAgriculturalFarm, domain.FacilityAgriculturalLivestock:
		return TierIndustrial
	default:
		return TierCommercial
	}
}

// BasePricePerKw returns the undiscounted AED price per kWp for f.
func BasePricePerKw(f domain.FacilityType) float64 {
	return basePricePerKw[TierOf(f)]
}

// VolumeDiscount returns the discount fraction for a required system size.
func VolumeDiscount(requiredKw int) float64 {
	switch {
	case requiredKw >= 100:
		return 0.15
	case requiredKw >= 50:
		return 0.10
	case requiredKw >= 20:
		return 0.05
	default:
		return 0
	}
}

// SystemMultiplier returns the price multiplier for the grid topology.
// Unspecified system types are priced as on-grid.
func SystemMultiplier(s domain.SystemType) float64 {
	switch s {
	case domain.SystemHybrid:
		return 1.25
	case domain.SystemOffGrid:
		return 1.40
	default:
		return 1.0
	}
}

// ParseLoadProfile extracts monthly kWh from free text by dropping every
// character that is not a digit or '.'. Unparsable input and values above
// MaxMonthlyKwh yield 0.
func ParseLoadProfile(s string) float64 {
	var b strings.Builder
	for _, r := range s {
		if (r >= '0' && r <= '9') || r == '.' {
			b.WriteRune(r)
		}
	}
	v, err := strconv.ParseFloat(b.String(), 64)
	if err != nil || math.IsNaN(v) || v < 0 || v > MaxMonthlyKwh {
		return 0
	}
	return v
}

// RequiredSystemSizeKw returns the whole kWp needed to cover monthlyKwh.
// Consumption outside (0, MaxMonthlyKwh] gets the MinSystemSizeKw floor.
func RequiredSystemSizeKw(monthlyKwh float64) int {
	if !(monthlyKwh > 0 && monthlyKwh <= MaxMonthlyKwh) {
		return MinSystemSizeKw
	}
	annual := monthlyKwh * 12
	return int(math.Ceil(annual / SpecificYield))
}

// Vendor is an installer profile used to synthesize offers.
type Vendor struct {
	Name            string
	SizeMultiplier  float64
	PriceMultiplier float64
	WarrantyYears   int
	BaseDays        int
	Score           float64
}

// DefaultVendors is the fixed installer roster.
var DefaultVendors = []Vendor{
	{Name: "SunPeak Energy", SizeMultiplier: 1.00, PriceMultiplier: 1.00, WarrantyYears: 25, BaseDays: 30, Score: 4.8},
	{Name: "Desert Sun Installers", SizeMultiplier: 1.05, PriceMultiplier: 0.95, WarrantyYears: 20, BaseDays: 45, Score: 4.5},
	{Name: "GreenGrid Solar", SizeMultiplier: 1.10, PriceMultiplier: 1.08, WarrantyYears: 30, BaseDays: 25, Score: 4.7},
}

// Offer is an installer quote for an application.
type Offer struct {
	Name          string  `json:"name"`
	SystemSizeKw  float64 `json:"system_size_kw"`
	TotalCost     float64 `json:"total_cost"`
	WarrantyYears int     `json:"warranty_years"`
	TimelineDays  int     `json:"timeline_days"`
	Score         float64 `json:"score"`
}

// Request carries the inputs for offer generation.
type Request struct {
	MonthlyKwh   float64
	FacilityType domain.FacilityType
	SystemType   domain.SystemType
}

// Quote summarizes the sizing used for a set of offers.
type Quote struct {
	MonthlyKwh     float64 `json:"monthly_kwh"`
	RequiredKw     int     `json:"required_kw"`
	PricingTier    string  `json:"pricing_tier"`
	BasePricePerKw float64 `json:"base_price_per_kw"`
	Discount       float64 `json:"discount"`
	Multiplier     float64 `json:"system_multiplier"`
	Offers         []Offer `json:"offers"`
}

// Generator synthesizes offers from a vendor roster.
type Generator struct {
	vendors []Vendor
}

// NewGenerator creates a generator. A nil roster uses DefaultVendors.
func NewGenerator(vendors []Vendor) *Generator {
	if vendors == nil {
		vendors = DefaultVendors
	}
	return &Generator{vendors: vendors}
}

// Generate returns one offer per vendor. The result depends only on req.
func (g *Generator) Generate(req Request) Quote {
	kwh := req.MonthlyKwh
	if !(kwh >= 0 && kwh <= MaxMonthlyKwh) {
		kwh = 0
	}
	required := RequiredSystemSizeKw(kwh)
	base := BasePricePerKw(req.FacilityType)
	discount := VolumeDiscount(required)
	mult := SystemMultiplier(req.SystemType)
	pricePerKw := base * (1 - discount) * mult

	offers := make([]Offer, 0, len(g.vendors))
	for _, v := range g.vendors {
		size := roundTo(float64(required)*v.SizeMultiplier, 1)
		offers = append(offers, Offer{
			Name:          v.Name,
			SystemSizeKw:  size,
			TotalCost:     math.Round(size * pricePerKw * v.PriceMultiplier),
			WarrantyYears: v.WarrantyYears,
			TimelineDays:  v.BaseDays + required/10,
			Score:         v.Score,
		})
	}

	return Quote{
		MonthlyKwh:     kwh,
		RequiredKw:     required,
		PricingTier:    string(TierOf(req.FacilityType)),
		BasePricePerKw: base,
		Discount:       discount,
		Multiplier:     mult,
		Offers:         offers,
	}
}

func roundTo(v float64, places int) float64 {
	p := math.Pow(10, float64(places))
	return math.Round(v*p) / p
}

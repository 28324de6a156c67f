// Package tariff implements tiered (slab) electricity pricing.
package tariff

import (
	"fmt"
	"math"

	"solarhub/internal/domain"
)

// DefaultVATRate is applied on top of the energy charge.
const DefaultVATRate = 0.05

// Category selects the pricing table used for a facility.
type Category string

const (
	CategoryResidential  Category = "residential"
	CategoryCommercial   Category = "commercial"
	CategoryIndustrial   Category = "industrial"
	CategoryAgricultural Category = "agricultural"
	CategoryDefault      Category = "default"
)

// CategoryOf maps a facility type to its pricing category.
func CategoryOf(f domain.FacilityType) Category {
	switch f {
	case domain.FacilityResidentialVilla, domain.FacilityResidentialFlat:
		return CategoryResidential
	case domain.FacilityCommercial, domain.FacilityHotel, domain.FacilityGovernment,
		domain.FacilityEducational, domain.FacilityHealthcare, domain.FacilityWaterTanker:
		return CategoryCommercial
	case domain.FacilityIndustrialLight, domain.FacilityIndustrialHeavy:
		return CategoryIndustrial
	case domain.FacilityAgriculturalFarm, domain.FacilityAgriculturalLivestock:
		return CategoryAgricultural
	default:
		return CategoryDefault
	}
}

// Slab is a consumption range billed at a flat unit rate.
// Min and Max are inclusive kWh bounds; Max of 0 means unbounded.
type Slab struct {
	Min  float64 `yaml:"min" json:"min"`
	Max  float64 `yaml:"max" json:"max"`
	Rate float64 `yaml:"rate" json:"rate"`
}

// Unbounded reports whether the slab has no upper limit.
func (s Slab) Unbounded() bool { return s.Max == 0 }

// Capacity is the number of kWh the slab can absorb.
func (s Slab) Capacity() float64 {
	if s.Unbounded() {
		return math.Inf(1)
	}
	return s.Max - s.Min + 1
}

// Label renders the slab range, e.g. "2001-4000" or "6001+".
func (s Slab) Label() string {
	if s.Unbounded() {
		return fmt.Sprintf("%.0f+", s.Min)
	}
	return fmt.Sprintf("%.0f-%.0f", s.Min, s.Max)
}

// Table is an ordered list of slabs covering [1, inf).
type Table []Slab

// Validate checks that the table starts at 1, is contiguous, has
// non-negative rates and that only the last slab is unbounded.
func (t Table) Validate() error {
	if len(t) == 0 {
		return fmt.Errorf("table has no slabs")
	}
	if t[0].Min != 1 {
		return fmt.Errorf("first slab must start at 1, got %v", t[0].Min)
	}
	for i, s := range t {
		if s.Rate < 0 {
			return fmt.Errorf("slab %d: negative rate %v", i, s.Rate)
		}
		last := i == len(t)-1
		if s.Unbounded() {
			if !last {
				return fmt.Errorf("slab %d: only the last slab may be unbounded", i)
			}
			continue
		}
		if s.Max < s.Min {
			return fmt.Errorf("slab %d: max %v below min %v", i, s.Max, s.Min)
		}
		if last {
			return fmt.Errorf("slab %d: last slab must be unbounded", i)
		}
		if next := t[i+1].Min; next != s.Max+1 {
			return fmt.Errorf("slab %d: next slab starts at %v, want %v", i, next, s.Max+1)
		}
	}
	return nil
}

// Charge returns the pre-VAT energy charge for kwh, allocating lowest slab first.
func (t Table) Charge(kwh float64) float64 {
	total := 0.0
	for _, a := range t.allocate(kwh) {
		total += a.kwh * a.slab.Rate
	}
	return total
}

type allocation struct {
	slab Slab
	kwh  float64
}

func (t Table) allocate(kwh float64) []allocation {
	if kwh <= 0 {
		return nil
	}
	out := make([]allocation, 0, len(t))
	remaining := kwh
	for i, s := range t {
		if remaining <= 0 {
			break
		}
		used := remaining
		if i < len(t)-1 {
			used = math.Min(remaining, s.Capacity())
		}
		out = append(out, allocation{slab: s, kwh: used})
		remaining -= used
	}
	return out
}

// SlabCharge is one row of a bill breakdown.
type SlabCharge struct {
	Range       string  `json:"range"`
	Rate        float64 `json:"rate"`
	Kwh         float64 `json:"kwh"`
	Cost        float64 `json:"cost"`
	VAT         float64 `json:"vat"`
	Total       float64 `json:"total"`
	AnnualTotal float64 `json:"annual_total"`
}

// Model holds the pricing tables for every category.
type Model struct {
	tables  map[Category]Table
	vatRate float64
}

// NewModel returns a model populated with the default tables.
func NewModel() *Model {
	return &Model{tables: DefaultTables(), vatRate: DefaultVATRate}
}

// VATRate returns the VAT fraction applied to bills.
func (m *Model) VATRate() float64 { return m.vatRate }

// Table returns the pricing table for category c, falling back to the default table.
func (m *Model) Table(c Category) Table {
	if t, ok := m.tables[c]; ok {
		return t
	}
	return m.tables[CategoryDefault]
}

// TableFor returns the pricing table applied to facility type f.
func (m *Model) TableFor(f domain.FacilityType) Table {
	return m.Table(CategoryOf(f))
}

// MonthlyBill returns the VAT-inclusive bill for a month of consumption.
// Non-positive consumption yields 0.
func (m *Model) MonthlyBill(monthlyKwh float64, f domain.FacilityType) float64 {
	if monthlyKwh <= 0 {
		return 0
	}
	return m.TableFor(f).Charge(monthlyKwh) * (1 + m.vatRate)
}

// Breakdown returns the per-slab allocation of a monthly bill. The Total
// column sums to MonthlyBill for the same inputs.
func (m *Model) Breakdown(monthlyKwh float64, f domain.FacilityType) []SlabCharge {
	allocs := m.TableFor(f).allocate(monthlyKwh)
	rows := make([]SlabCharge, 0, len(allocs))
	for _, a := range allocs {
		cost := a.kwh * a.slab.Rate
		vat := cost * m.vatRate
		rows = append(rows, SlabCharge{
			Range:       a.slab.Label(),
			Rate:        a.slab.Rate,
			Kwh:         a.kwh,
			Cost:        cost,
			VAT:         vat,
			Total:       cost + vat,
			AnnualTotal: (cost + vat) * 12,
		})
	}
	return rows
}

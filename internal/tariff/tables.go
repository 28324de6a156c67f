package tariff

// DefaultTables returns fresh copies of the built-in pricing tables (AED/kWh).
func DefaultTables() map[Category]Table {
	tiered := func() Table {
		return Table{
			{Min: 1, Max: 2000, Rate: 0.23},
			{Min: 2001, Max: 4000, Rate: 0.28},
			{Min: 4001, Max: 6000, Rate: 0.32},
			{Min: 6001, Rate: 0.38},
		}
	}
	return map[Category]Table{
		CategoryResidential: tiered(),
		CategoryCommercial:  tiered(),
		CategoryIndustrial: {
			{Min: 1, Max: 10000, Rate: 0.23},
			{Min: 10001, Rate: 0.38},
		},
		CategoryAgricultural: {
			{Min: 1, Max: 6000, Rate: 0.16},
			{Min: 6001, Rate: 0.20},
		},
		CategoryDefault: {
			{Min: 1, Rate: 0.30},
		},
	}
}

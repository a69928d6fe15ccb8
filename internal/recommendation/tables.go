package recommendation

// AdjustmentTables holds the static per-dimension multiplier lookups consumed
// by the ContextualAdjuster. Tables are pure data; DefaultTables returns the
// production values and tests inject reduced ones.
type AdjustmentTables struct {
	// Weather maps a weather condition to destination-attribute multipliers.
	Weather map[Weather]map[string]float64

	// TimeOfDay maps a part of day to category multipliers.
	TimeOfDay map[TimeOfDay]map[CategoryID]float64

	// Weekend and Weekday map category multipliers by day class.
	Weekend map[CategoryID]float64
	Weekday map[CategoryID]float64
}

// DefaultTables returns the production adjustment tables. Multipliers sit in
// the 0.3–1.5 range; anything not listed is a 1.0 no-op.
func DefaultTables() AdjustmentTables {
	return AdjustmentTables{
		Weather: map[Weather]map[string]float64{
			WeatherSunny: {
				"outdoor":  1.3,
				"beach":    1.4,
				"terrace":  1.2,
				"indoor":   0.9,
			},
			WeatherCloudy: {
				"outdoor": 0.9,
				"indoor":  1.1,
			},
			WeatherRainy: {
				"indoor":  1.4,
				"covered": 1.2,
				"outdoor": 0.4,
				"beach":   0.3,
			},
			WeatherSnowy: {
				"indoor":       1.3,
				"winter_sport": 1.5,
				"outdoor":      0.5,
				"beach":        0.3,
			},
		},
		TimeOfDay: map[TimeOfDay]map[CategoryID]float64{
			TimeMorning: {
				"cafes":     1.3,
				"parks":     1.2,
				"hiking":    1.2,
				"markets":   1.2,
				"nightlife": 0.3,
				"bars":      0.5,
			},
			TimeAfternoon: {
				"museums":   1.2,
				"shopping":  1.2,
				"parks":     1.1,
				"nightlife": 0.5,
			},
			TimeEvening: {
				"restaurants": 1.3,
				"nightlife":   1.5,
				"bars":        1.4,
				"theaters":    1.3,
				"museums":     0.7,
				"hiking":      0.4,
			},
		},
		Weekend: map[CategoryID]float64{
			"markets":   1.3,
			"nightlife": 1.2,
			"parks":     1.1,
			"museums":   0.9, // crowded
		},
		Weekday: map[CategoryID]float64{
			"museums":   1.1,
			"galleries": 1.1,
			"nightlife": 0.8,
		},
	}
}

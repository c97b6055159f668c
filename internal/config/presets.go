package config

import "sort"

var Presets = map[string]*Config{
	"posdef": {
		Name: "posdef", Samples: 100000, Runs: 1, Precision: PrecisionFloat64,
		Covariance: [][]float64{
			{2, -1, 2},
			{-1, 1, -3},
			{2, -3, 11},
		},
		Mean: []float64{1, 1, 1},
	},
	"correlated": {
		Name: "correlated", Seed: 2023, Samples: 100000, Runs: 1, Precision: PrecisionFloat64,
		Covariance: [][]float64{
			{1, 0.5, 0.2},
			{0.5, 2, 0.3},
			{0.2, 0.3, 1.5},
		},
		Mean: []float64{-1, 0, 4},
	},
	"cholesky6": {
		Name: "cholesky6", Samples: 50000, Runs: 1, Precision: PrecisionFloat64,
		Covariance: [][]float64{
			{5, 4, 3, 2, 4, 2},
			{4, 7, 4, 2, 1, 4},
			{3, 4, 3, 1, 1, 1},
			{2, 2, 1, 3, 1, 2},
			{4, 1, 1, 1, 6, 2},
			{2, 4, 1, 2, 2, 6},
		},
	},
	"survey": {
		Name: "survey", Samples: 100000, Runs: 1, Precision: PrecisionFloat64,
		Observations: [][]float64{
			{75, 10.5, 45},
			{65, 12.8, 65},
			{22, 7.3, 74},
			{15, 2.1, 76},
			{18, 9.2, 56},
		},
	},
	"growth": {
		Name: "growth", Samples: 100000, Runs: 1, Precision: PrecisionFloat32,
		Observations: [][]float64{
			{5, 3.5, 20, 3.6, 22},
			{7, 3.11, 25, 3.101, 27},
			{9, 4.1, 26, 4.3, 28},
			{11, 4.7, 32, 4.7, 32},
			{13, 4.11, 35, 4.11, 40},
			{15, 5.1, 40, 5.2, 45},
			{17, 5.2, 45, 5.4, 50},
			{19, 5.3, 48, 5.7, 55},
			{21, 5.5, 50, 5.9, 64},
			{23, 5.55, 51, 5.9, 67},
			{25, 5.55, 55, 5.9, 70},
		},
	},
}

// GetPreset returns a copy of the named preset, or nil.
func GetPreset(name string) *Config {
	cfg, ok := Presets[name]
	if !ok {
		return nil
	}
	c := *cfg
	return &c
}

// ListPresets returns the preset names in sorted order.
func ListPresets() []string {
	names := make([]string, 0, len(Presets))
	for name := range Presets {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

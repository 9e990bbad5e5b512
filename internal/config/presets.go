package config

// Presets are ready-made solve configurations for common coil setups.
// Coil files still come from the caller; presets fix the volume and
// resolution choices.
var Presets = map[string]*Config{
	// Tight volume between a 5 cm Helmholtz pair.
	"helmholtz": {
		CoilResolution:   0.5,
		VolumeResolution: 0.25,
		BoxSize:          [3]float64{4, 4, 4},
		StartPoint:       [3]float64{-2, -2, -2},
		DataDir:          DefaultDataDir,
	},
	// Wider gradient region of an anti-Helmholtz trap.
	"trap": {
		CoilResolution:   0.5,
		VolumeResolution: 0.5,
		BoxSize:          [3]float64{8, 8, 8},
		StartPoint:       [3]float64{-4, -4, -4},
		DataDir:          DefaultDataDir,
	},
	// Coarse one-shot survey of a whole coil assembly.
	"survey": {
		CoilResolution:   1,
		VolumeResolution: 1,
		BoxSize:          [3]float64{20, 20, 20},
		StartPoint:       [3]float64{-10, -10, -10},
		DataDir:          DefaultDataDir,
	},
	// Fine sampling for field-uniformity studies near the center.
	"uniformity": {
		CoilResolution:   0.25,
		VolumeResolution: 0.1,
		BoxSize:          [3]float64{2, 2, 2},
		StartPoint:       [3]float64{-1, -1, -1},
		DataDir:          DefaultDataDir,
	},
}

// GetPreset returns a copy of a named preset, or nil.
func GetPreset(name string) *Config {
	cfg, ok := Presets[name]
	if !ok {
		return nil
	}
	c := *cfg
	return &c
}

// ListPresets returns the available preset names.
func ListPresets() []string {
	names := make([]string, 0, len(Presets))
	for name := range Presets {
		names = append(names, name)
	}
	return names
}

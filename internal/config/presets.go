package config

import "sort"

// Presets are named, ready-to-run configurations.
var Presets = map[string]*Config{
	// The original tuned sedan corner.
	"sedan": DefaultConfig(),

	// Stiff setup with a wide damper range.
	"sport": {
		Integrator: "heun",
		Controller: "skyhook",
		Dt:         0.005,
		DelaySteps: 2,
		Vehicle:    VehicleConfig{Ms: 320, Mu: 45, Ks: 32000, Kt: 230000, CMin: 500, CMax: 5000},
		Gains:      GainsConfig{SkyhookLF: 4200, SkyhookHF: 5000, Ground: 400, Accel: 150, Passive: 1500},
		Filter:     FilterConfig{BodyCutoffHz: 2.0, WheelCutoffHz: 7.0, AccelLowHz: 0.5, AccelHighHz: 10.0},
		Weights:    WeightsConfig{RMSDisp: 0.5, PeakDisp: 1.0, RMSJerk: 0.5, PeakJerk: 1.0},
	},

	// Fine-step validation setup: light wheel, damper free to open fully.
	"benchmark": {
		Integrator: "heun",
		Controller: "skyhook",
		Dt:         0.001,
		DelaySteps: 1,
		Vehicle:    VehicleConfig{Ms: 250, Mu: 35, Ks: 16000, Kt: 190000, CMin: 0, CMax: 3000},
		Gains:      GainsConfig{SkyhookLF: 3600, SkyhookHF: 4000, Ground: 250, Accel: 120, Passive: 1200},
		Filter:     FilterConfig{BodyCutoffHz: 1.6, WheelCutoffHz: 5.2, AccelLowHz: 0.5, AccelHighHz: 8.0},
		Weights:    WeightsConfig{RMSDisp: 0.5, PeakDisp: 1.0, RMSJerk: 0.5, PeakJerk: 1.0},
	},
}

func GetPreset(name string) *Config {
	return Presets[name]
}

func ListPresets() []string {
	names := make([]string, 0, len(Presets))
	for name := range Presets {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

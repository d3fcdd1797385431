// Package config loads and saves run configurations.
package config

import (
	"os"

	"gopkg.in/yaml.v3"

	"suspensim/internal/control"
	"suspensim/internal/metrics"
	"suspensim/internal/qcar"
	"suspensim/internal/sim"
)

const (
	DefaultDt         = 0.005
	DefaultDelaySteps = 4
	DefaultIntegrator = "heun"
	DefaultController = "skyhook"
)

type Config struct {
	Integrator string        `yaml:"integrator"`
	Controller string        `yaml:"controller"`
	Dt         float64       `yaml:"dt"`
	DelaySteps int           `yaml:"delay_steps"`
	Vehicle    VehicleConfig `yaml:"vehicle"`
	Gains      GainsConfig   `yaml:"gains"`
	Filter     FilterConfig  `yaml:"filter"`
	Weights    WeightsConfig `yaml:"weights"`
}

type VehicleConfig struct {
	Ms   float64 `yaml:"ms"`
	Mu   float64 `yaml:"mu"`
	Ks   float64 `yaml:"ks"`
	Kt   float64 `yaml:"kt"`
	CMin float64 `yaml:"c_min"`
	CMax float64 `yaml:"c_max"`
}

type GainsConfig struct {
	SkyhookLF float64 `yaml:"skyhook_lf"`
	SkyhookHF float64 `yaml:"skyhook_hf"`
	Ground    float64 `yaml:"ground"`
	Accel     float64 `yaml:"accel"`
	Passive   float64 `yaml:"passive"` // coefficient for the passive baseline
}

type FilterConfig struct {
	BodyCutoffHz  float64 `yaml:"body_cutoff_hz"`
	WheelCutoffHz float64 `yaml:"wheel_cutoff_hz"`
	AccelLowHz    float64 `yaml:"accel_low_hz"`
	AccelHighHz   float64 `yaml:"accel_high_hz"`
}

type WeightsConfig struct {
	RMSDisp  float64 `yaml:"rms_disp"`
	PeakDisp float64 `yaml:"peak_disp"`
	RMSJerk  float64 `yaml:"rms_jerk"`
	PeakJerk float64 `yaml:"peak_jerk"`
}

func DefaultConfig() *Config {
	p := qcar.DefaultParams()
	g := control.DefaultGains()
	w := metrics.DefaultWeights()
	return &Config{
		Integrator: DefaultIntegrator,
		Controller: DefaultController,
		Dt:         DefaultDt,
		DelaySteps: DefaultDelaySteps,
		Vehicle: VehicleConfig{
			Ms: p.Ms, Mu: p.Mu, Ks: p.Ks, Kt: p.Kt, CMin: p.CMin, CMax: p.CMax,
		},
		Gains: GainsConfig{
			SkyhookLF: g.SkyhookLF,
			SkyhookHF: g.SkyhookHF,
			Ground:    g.Ground,
			Accel:     g.Accel,
			Passive:   p.CMin,
		},
		Filter: FilterConfig{
			BodyCutoffHz:  control.DefaultBodyCutoffHz,
			WheelCutoffHz: control.DefaultWheelCutoffHz,
			AccelLowHz:    0.5,
			AccelHighHz:   8.0,
		},
		Weights: WeightsConfig{
			RMSDisp: w.RMSDisp, PeakDisp: w.PeakDisp, RMSJerk: w.RMSJerk, PeakJerk: w.PeakJerk,
		},
	}
}

func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	cfg := DefaultConfig()
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, err
	}
	return cfg, nil
}

func Save(path string, cfg *Config) error {
	data, err := yaml.Marshal(cfg)
	if err != nil {
		return err
	}
	return os.WriteFile(path, data, 0644)
}

// Params maps the vehicle section onto the model parameters.
func (c *Config) Params() qcar.Params {
	return qcar.Params{
		Ms:   c.Vehicle.Ms,
		Mu:   c.Vehicle.Mu,
		Ks:   c.Vehicle.Ks,
		Kt:   c.Vehicle.Kt,
		CMin: c.Vehicle.CMin,
		CMax: c.Vehicle.CMax,
	}
}

func (c *Config) ControlGains() control.Gains {
	return control.Gains{
		SkyhookLF: c.Gains.SkyhookLF,
		SkyhookHF: c.Gains.SkyhookHF,
		Ground:    c.Gains.Ground,
		Accel:     c.Gains.Accel,
	}
}

func (c *Config) SimConfig() sim.Config {
	return sim.Config{Dt: c.Dt, DelaySteps: c.DelaySteps}
}

func (c *Config) MetricWeights() metrics.Weights {
	return metrics.Weights{
		RMSDisp:  c.Weights.RMSDisp,
		PeakDisp: c.Weights.PeakDisp,
		RMSJerk:  c.Weights.RMSJerk,
		PeakJerk: c.Weights.PeakJerk,
	}
}

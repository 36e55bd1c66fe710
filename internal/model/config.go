package model

import "runtime"

// DefaultsConfig holds the fallback intrinsic settings applied to views whose
// metadata cannot fully determine a focal length. Negative values mean unset.
type DefaultsConfig struct {
	FocalLengthPx float64 `yaml:"focal_length_px"`
	FieldOfView   float64 `yaml:"field_of_view"`
	CameraModel   string  `yaml:"camera_model"`
	PPx           float64 `yaml:"ppx"`
	PPy           float64 `yaml:"ppy"`
}

// Config is the full tool configuration, overridable from flags, environment
// and the config file.
type Config struct {
	Defaults        DefaultsConfig `yaml:"defaults"`
	GroupingMode    int            `yaml:"grouping_mode"`
	AllowIncomplete bool           `yaml:"allow_incomplete"`
	AllowSingleView bool           `yaml:"allow_single_view"`
	Workers         int            `yaml:"workers"`
}

// DefaultConfig returns the built-in defaults: pinhole model, parameter
// grouping by metadata with a folder fallback, one worker per CPU.
func DefaultConfig() *Config {
	return &Config{
		Defaults: DefaultsConfig{
			FocalLengthPx: -1,
			FieldOfView:   -1,
			CameraModel:   "",
			PPx:           -1,
			PPy:           -1,
		},
		GroupingMode:    2,
		AllowIncomplete: false,
		AllowSingleView: false,
		Workers:         runtime.NumCPU(),
	}
}

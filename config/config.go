// Package config is for app wide settings that are unmarshalled
// from Viper (see: /cmd)
package config

import (
	"log"

	"github.com/spf13/viper"
)

// SearchConfig bounds the growth of the structure tree
type SearchConfig struct {
	// the maximum number of structures retained per search depth
	BeamWidth int `mapstructure:"beam-width"`

	// the global cap on the number of structures ever created
	MaxStructures int `mapstructure:"max-structures"`

	// the shortest helix (number of stacked pairs) accepted as a candidate
	MinHelixLength int `mapstructure:"min-helix-length"`

	// the shortest unpaired loop allowed between paired positions
	MinLoopSize int `mapstructure:"min-loop-size"`

	// the number of final structures to report
	TopK int `mapstructure:"top-k"`

	// the number of top-ranked correlation lags scanned for helices
	// at each expansion step
	MaxLags int `mapstructure:"max-lags"`

	// the number of worker goroutines expanding the frontier.
	// 0 means one per available CPU
	Workers int `mapstructure:"workers"`
}

// PairingConfig weighs the base pair classes in the complementarity
// encoding. Heavier pairs dominate the correlation signal
type PairingConfig struct {
	// weight of an A-U pair
	AU float64 `mapstructure:"au"`

	// weight of a G-C pair
	GC float64 `mapstructure:"gc"`

	// weight of a G-U wobble pair
	GU float64 `mapstructure:"gu"`
}

// EnergyConfig is for the built-in stacking energy model
type EnergyConfig struct {
	// the penalty added for every closed hairpin loop
	LoopPenalty float64 `mapstructure:"loop-penalty"`
}

// Config is the root-level settings struct and is a mix
// of settings available in a settings file and those
// available from the command line
type Config struct {
	// search bounds
	Search SearchConfig `mapstructure:"search"`

	// base pair weights
	Pairing PairingConfig `mapstructure:"pairing"`

	// built-in energy model settings
	Energy EnergyConfig `mapstructure:"energy"`
}

// SetDefaults registers the default value of every setting with Viper.
// Called before flag binding so the CLI can override them
func SetDefaults() {
	viper.SetDefault("search.beam-width", 16)
	viper.SetDefault("search.max-structures", 1000)
	viper.SetDefault("search.min-helix-length", 3)
	viper.SetDefault("search.min-loop-size", 3)
	viper.SetDefault("search.top-k", 1)
	viper.SetDefault("search.max-lags", 100)
	viper.SetDefault("search.workers", 0)
	viper.SetDefault("pairing.au", 2.0)
	viper.SetDefault("pairing.gc", 3.0)
	viper.SetDefault("pairing.gu", 1.0)
	viper.SetDefault("energy.loop-penalty", 3.0)
}

// New returns a new Config struct populated by Viper settings
// (either from a local settings file) and/or command line arguments
func New() *Config {
	SetDefaults()

	var c Config
	if err := viper.Unmarshal(&c); err != nil {
		log.Fatalf("unable to decode settings into struct: %v", err)
	}

	return &c
}

// Default returns a Config with every setting at its default value,
// without consulting Viper. Used by tests and library callers
func Default() *Config {
	return &Config{
		Search: SearchConfig{
			BeamWidth:      16,
			MaxStructures:  1000,
			MinHelixLength: 3,
			MinLoopSize:    3,
			TopK:           1,
			MaxLags:        100,
		},
		Pairing: PairingConfig{
			AU: 2.0,
			GC: 3.0,
			GU: 1.0,
		},
		Energy: EnergyConfig{
			LoopPenalty: 3.0,
		},
	}
}

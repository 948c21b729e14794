// Copyright 2024 The ProbeChain Authors
// This file is part of the ProbeChain.

// Package config loads the optional TOML tuning file nscheme accepts via
// --config. Grounded on cmd/gprobe/config.go's naoina/toml-based load/dump
// pair and its deprecated-field warning pattern.
package config

import (
	"os"

	"github.com/naoina/toml"

	"github.com/nojima/nscheme/internal/heap"
	"github.com/nojima/nscheme/internal/nslog"
)

// Config holds the tunable knobs SPEC_FULL.md §6 adds on top of spec.md's
// required CLI surface. Every field has a default equal to the spec's own
// literal constant; absent --config, these defaults apply unchanged.
type Config struct {
	// InitialGCThreshold overrides heap.InitialThreshold.
	InitialGCThreshold int `toml:"initial_gc_threshold"`

	// TraceStyle selects how --trace renders: "table" (via
	// olekukonko/tablewriter), "plain" (tab-separated), or "" (the
	// default: table when stdout is a terminal, plain otherwise).
	TraceStyle string `toml:"trace_style"`

	// OptimizerPasses caps the optimizer's fixpoint loop. spec.md §4.4
	// fixes this at 7; values above 7 are clamped down to 7, never raised.
	OptimizerPasses int `toml:"optimizer_passes"`

	// Deprecated is kept only to demonstrate (and test) the
	// warn-then-ignore handling of a field a future version of this file
	// format removes, mirroring cmd/gprobe/config.go's own handling of
	// deprecated fields.
	Deprecated string `toml:"deprecated,omitempty"`
}

// Default returns the configuration used when no --config file is given.
func Default() Config {
	return Config{
		InitialGCThreshold: heap.InitialThreshold,
		TraceStyle:         "",
		OptimizerPasses:    7,
	}
}

// Load reads and parses a TOML config file at path, starting from Default()
// so any field the file omits keeps its default value.
func Load(path string, logger nslog.Logger) (Config, error) {
	cfg := Default()

	data, err := os.ReadFile(path)
	if err != nil {
		return cfg, err
	}
	if err := toml.Unmarshal(data, &cfg); err != nil {
		return cfg, err
	}

	if cfg.Deprecated != "" {
		logger.Warn("config field is deprecated and has no effect", "name", "deprecated")
	}
	if cfg.OptimizerPasses > 7 || cfg.OptimizerPasses <= 0 {
		cfg.OptimizerPasses = 7
	}
	return cfg, nil
}

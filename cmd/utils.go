package cmd

import (
	"github.com/encodeous/dvsim/state"
)

// loadTopology reads the topology from path, or falls back to a built-in topology
func loadTopology(path, builtin string) (*state.TopologyCfg, error) {
	var cfg *state.TopologyCfg
	var err error
	if path != "" {
		cfg, err = state.ReadTopology(path)
	} else {
		cfg, err = state.BuiltinTopology(builtin)
	}
	if err != nil {
		return nil, err
	}
	err = state.TopologyValidator(cfg)
	if err != nil {
		return nil, err
	}
	return cfg, nil
}

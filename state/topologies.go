package state

import (
	"fmt"
	"maps"
	"slices"
)

// BookTopology is the three router example of the textbook (Kurose & Ross, fig 5.6)
func BookTopology() *TopologyCfg {
	return &TopologyCfg{
		Name:  "book",
		Nodes: []NodeId{"x", "y", "z"},
		Links: []LinkCfg{
			{"x", "y", 2},
			{"x", "z", 7},
			{"y", "z", 1},
		},
		StartOrder: []NodeId{"z", "y", "x"},
	}
}

// HomeworkTopology is the six router network u..z
func HomeworkTopology() *TopologyCfg {
	return &TopologyCfg{
		Name:  "homework",
		Nodes: []NodeId{"u", "v", "w", "x", "y", "z"},
		Links: []LinkCfg{
			{"u", "v", 3},
			{"u", "x", 1},
			{"u", "w", 7},
			{"v", "x", 1},
			{"v", "w", 1},
			{"w", "x", 4},
			{"w", "y", 5},
			{"w", "z", 6},
			{"x", "y", 2},
			{"y", "z", 3},
		},
	}
}

var builtinTopologies = map[string]func() *TopologyCfg{
	"book":     BookTopology,
	"homework": HomeworkTopology,
}

func BuiltinTopologyNames() []string {
	return slices.Sorted(maps.Keys(builtinTopologies))
}

func BuiltinTopology(name string) (*TopologyCfg, error) {
	fn, ok := builtinTopologies[name]
	if !ok {
		return nil, fmt.Errorf("unknown topology %s, expected one of %v", name, BuiltinTopologyNames())
	}
	return fn(), nil
}

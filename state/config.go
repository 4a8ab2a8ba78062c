package state

import (
	"cmp"
	"fmt"
	"os"
	"slices"

	"github.com/goccy/go-yaml"
)

// LinkCfg is an undirected link. Both endpoints learn the same cost.
type LinkCfg struct {
	A    NodeId `yaml:"a"`
	B    NodeId `yaml:"b"`
	Cost Cost   `yaml:"cost"`
}

// TopologyCfg describes a whole simulated network
type TopologyCfg struct {
	Name  string    `yaml:"name,omitempty"`
	Nodes []NodeId  `yaml:"nodes"`
	Links []LinkCfg `yaml:"links"`
	// StartOrder is the order the driver starts routers in, defaults to Nodes
	StartOrder []NodeId `yaml:"start_order,omitempty"`
}

func ReadTopology(path string) (*TopologyCfg, error) {
	file, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	return ParseTopology(file)
}

func ParseTopology(data []byte) (*TopologyCfg, error) {
	var cfg TopologyCfg
	err := yaml.Unmarshal(data, &cfg)
	if err != nil {
		return nil, fmt.Errorf("failed to parse topology: %w", err)
	}
	return &cfg, nil
}

func (c *TopologyCfg) Marshal() ([]byte, error) {
	return yaml.Marshal(c)
}

// Edges returns every link as a sorted pair together with its cost
func (c *TopologyCfg) Edges() []Triple[NodeId, NodeId, Cost] {
	edges := make([]Triple[NodeId, NodeId, Cost], 0, len(c.Links))
	for _, l := range c.Links {
		p := MakeSortedPair(l.A, l.B)
		edges = append(edges, Triple[NodeId, NodeId, Cost]{p.V1, p.V2, l.Cost})
	}
	slices.SortFunc(edges, func(a, b Triple[NodeId, NodeId, Cost]) int {
		if c := cmp.Compare(a.V1, b.V1); c != 0 {
			return c
		}
		return cmp.Compare(a.V2, b.V2)
	})
	return edges
}

// GetNeighbours returns the neighbours of id with their link costs, in link order
func (c *TopologyCfg) GetNeighbours(id NodeId) []Pair[NodeId, Cost] {
	neighs := make([]Pair[NodeId, Cost], 0)
	for _, l := range c.Links {
		if l.A == id {
			neighs = append(neighs, Pair[NodeId, Cost]{l.B, l.Cost})
		} else if l.B == id {
			neighs = append(neighs, Pair[NodeId, Cost]{l.A, l.Cost})
		}
	}
	return neighs
}

func (c *TopologyCfg) GetStartOrder() []NodeId {
	if len(c.StartOrder) != 0 {
		return c.StartOrder
	}
	return c.Nodes
}

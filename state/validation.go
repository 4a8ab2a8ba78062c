package state

import (
	"fmt"
	"regexp"
	"slices"
)

var namePattern, _ = regexp.Compile("^[0-9a-z._-]+$")

func NameValidator(s string) error {
	if !namePattern.MatchString(s) {
		return fmt.Errorf("%s is not a valid name, must match pattern %s", s, namePattern.String())
	}
	if len(s) > 100 {
		return fmt.Errorf("len(\"%s\") = %d > 100 is too long", s, len(s))
	}
	return nil
}

func CostValidator(c Cost) error {
	if c == 0 {
		return fmt.Errorf("%w: link cost must be positive", ErrInvalidConfig)
	}
	if c >= INF {
		return fmt.Errorf("%w: link cost %d must be less than %d", ErrInvalidConfig, c, INF)
	}
	return nil
}

func TopologyValidator(cfg *TopologyCfg) error {
	if len(cfg.Nodes) == 0 {
		return fmt.Errorf("%w: topology has no nodes", ErrInvalidConfig)
	}
	for i, node := range cfg.Nodes {
		err := NameValidator(string(node))
		if err != nil {
			return err
		}
		if slices.Contains(cfg.Nodes[:i], node) {
			return fmt.Errorf("%w: duplicate node %s", ErrInvalidConfig, node)
		}
	}
	nodeRel := make([]Pair[NodeId, NodeId], 0)
	for _, link := range cfg.Links {
		if link.A == link.B {
			return fmt.Errorf("%w: link from %s to itself", ErrInvalidConfig, link.A)
		}
		if !slices.Contains(cfg.Nodes, link.A) {
			return fmt.Errorf("%w: node %s not defined", ErrInvalidConfig, link.A)
		}
		if !slices.Contains(cfg.Nodes, link.B) {
			return fmt.Errorf("%w: node %s not defined", ErrInvalidConfig, link.B)
		}
		edge := MakeSortedPair(link.A, link.B)
		if slices.Contains(nodeRel, edge) {
			return fmt.Errorf("%w: duplicate link found: %s, %s", ErrInvalidConfig, edge.V1, edge.V2)
		}
		if err := CostValidator(link.Cost); err != nil {
			return fmt.Errorf("link %s, %s: %w", link.A, link.B, err)
		}
		nodeRel = append(nodeRel, edge)
	}
	if len(cfg.StartOrder) != 0 {
		order := slices.Clone(cfg.StartOrder)
		nodes := slices.Clone(cfg.Nodes)
		slices.Sort(order)
		slices.Sort(nodes)
		if !slices.Equal(order, nodes) {
			return fmt.Errorf("%w: start order must list every node exactly once", ErrInvalidConfig)
		}
	}
	return nil
}

package core

import (
	"io"
	"strings"

	"github.com/encodeous/dvsim/state"
	"github.com/olekukonko/tablewriter"
)

func newTable(w io.Writer, header []string) *tablewriter.Table {
	table := tablewriter.NewWriter(w)
	table.SetAutoWrapText(false)
	table.SetBorder(false)
	table.SetHeaderLine(false)
	table.SetCenterSeparator("")
	table.SetColumnSeparator("")
	table.SetRowSeparator("")
	table.SetHeaderAlignment(tablewriter.ALIGN_LEFT)
	table.SetAlignment(tablewriter.ALIGN_LEFT)
	table.SetHeader(header)
	return table
}

func vectorRow(from string, all []state.NodeId, vec *state.DistanceVector) []string {
	row := []string{from}
	for _, dst := range all {
		if vec == nil {
			row = append(row, "-")
		} else {
			row = append(row, vec.Get(dst).String())
		}
	}
	return row
}

// RenderRoutingTable prints the last vector heard from every neighbour, followed by the router's own vector
func RenderRoutingTable(snap state.RouterSnapshot) string {
	sb := strings.Builder{}
	header := []string{"FROM"}
	for _, dst := range snap.AllNodes {
		header = append(header, string(dst))
	}
	rows := make([][]string, 0, len(snap.Neighbours)+1)
	for _, n := range snap.Neighbours {
		rows = append(rows, vectorRow(string(n.Id), snap.AllNodes, n.Last))
	}
	rows = append(rows, vectorRow(string(snap.Id)+" (self)", snap.AllNodes, snap.Vector))

	table := newTable(&sb, header)
	table.AppendBulk(rows)
	table.Render()
	return sb.String()
}

func RenderDistanceVector(snap state.RouterSnapshot) string {
	sb := strings.Builder{}
	table := newTable(&sb, []string{"DST", "COST"})
	for _, dst := range snap.AllNodes {
		table.Append([]string{string(dst), snap.Vector.Get(dst).String()})
	}
	table.Render()
	return sb.String()
}

// RenderForwardingTable prints the next hop and total cost for every destination
func RenderForwardingTable(snap state.RouterSnapshot) string {
	sb := strings.Builder{}
	table := newTable(&sb, []string{"DST", "NEXT HOP", "COST"})
	for _, dst := range snap.AllNodes {
		nh, cost, ok := snap.Route(dst)
		if !ok {
			table.Append([]string{string(dst), "-", state.INF.String()})
			continue
		}
		table.Append([]string{string(dst), string(nh), cost.String()})
	}
	table.Render()
	return sb.String()
}

// RenderSnapshot prints the routing table, distance vector and forwarding table of a router
func RenderSnapshot(snap state.RouterSnapshot) string {
	sb := strings.Builder{}
	sb.WriteString("Routing table of " + string(snap.Id) + ":\n")
	sb.WriteString(RenderRoutingTable(snap))
	sb.WriteString("\nDistance vector of " + string(snap.Id) + ":\n")
	sb.WriteString(RenderDistanceVector(snap))
	sb.WriteString("\nForwarding table of " + string(snap.Id) + ":\n")
	sb.WriteString(RenderForwardingTable(snap))
	return sb.String()
}

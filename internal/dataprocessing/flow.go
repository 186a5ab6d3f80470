package dataprocessing

import (
	"sort"

	"mpidash/pkg/contracts/domain"
)

// NoDataNode labels the single node of an empty transition graph.
const NoDataNode = "No data"

type statusPair struct {
	from, to string
}

// BuildTransitionGraph counts start_status to end_status transitions. Nodes
// are the sorted union of statuses seen; self loops are kept. Projects missing
// either status are skipped, and a graph with no edges collapses to a single
// NoDataNode.
func BuildTransitionGraph(records []domain.Project) domain.TransitionGraph {
	weights := make(map[statusPair]int)
	statuses := make(map[string]struct{})
	for i := range records {
		p := &records[i]
		if p.StartStatus == "" || p.EndStatus == "" {
			continue
		}
		weights[statusPair{p.StartStatus, p.EndStatus}]++
		statuses[p.StartStatus] = struct{}{}
		statuses[p.EndStatus] = struct{}{}
	}
	if len(weights) == 0 {
		return domain.TransitionGraph{Nodes: []string{NoDataNode}, Edges: []domain.TransitionEdge{}}
	}

	nodes := make([]string, 0, len(statuses))
	for s := range statuses {
		nodes = append(nodes, s)
	}
	sort.Strings(nodes)
	index := make(map[string]int, len(nodes))
	for i, n := range nodes {
		index[n] = i
	}

	pairs := make([]statusPair, 0, len(weights))
	for pair := range weights {
		pairs = append(pairs, pair)
	}
	sort.Slice(pairs, func(a, b int) bool {
		if pairs[a].from != pairs[b].from {
			return pairs[a].from < pairs[b].from
		}
		return pairs[a].to < pairs[b].to
	})

	edges := make([]domain.TransitionEdge, len(pairs))
	for i, pair := range pairs {
		edges[i] = domain.TransitionEdge{
			Source: index[pair.from],
			Target: index[pair.to],
			Weight: weights[pair],
		}
	}
	return domain.TransitionGraph{Nodes: nodes, Edges: edges}
}

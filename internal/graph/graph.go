// Package graph holds the in-memory view of one tenant's blocking relation
// and answers reachability questions over it.
package graph

import (
	"sort"

	"github.com/mesh-intelligence/taskboard/pkg/types"
)

// Graph is a directed graph over task ids. Adj maps a blocking task to the
// tasks it blocks; RevAdj is the inverse.
type Graph struct {
	Adj    map[string][]string
	RevAdj map[string][]string
}

// FromDependencies builds a Graph from a tenant's dependency rows. Duplicate
// edges collapse into one and adjacency lists are sorted so traversals are
// deterministic.
func FromDependencies(deps []*types.Dependency) *Graph {
	g := &Graph{
		Adj:    make(map[string][]string),
		RevAdj: make(map[string][]string),
	}

	edgeSet := make(map[[2]string]bool, len(deps))
	for _, d := range deps {
		key := [2]string{d.BlockingTaskID, d.BlockedTaskID}
		if edgeSet[key] {
			continue
		}
		edgeSet[key] = true
		g.Adj[d.BlockingTaskID] = append(g.Adj[d.BlockingTaskID], d.BlockedTaskID)
		g.RevAdj[d.BlockedTaskID] = append(g.RevAdj[d.BlockedTaskID], d.BlockingTaskID)
	}

	for k := range g.Adj {
		sort.Strings(g.Adj[k])
	}
	for k := range g.RevAdj {
		sort.Strings(g.RevAdj[k])
	}
	return g
}

// Reachable returns every node reachable from start by following Adj, found
// with one breadth-first traversal. start itself is included only when it
// lies on a cycle.
func (g *Graph) Reachable(start string) map[string]bool {
	seen := make(map[string]bool)
	queue := []string{start}
	for len(queue) > 0 {
		node := queue[0]
		queue = queue[1:]
		for _, next := range g.Adj[node] {
			if seen[next] {
				continue
			}
			seen[next] = true
			queue = append(queue, next)
		}
	}
	return seen
}

// Path returns the shortest path from -> ... -> to along Adj, or nil when to
// is not reachable. A path from a node to itself has length one.
func (g *Graph) Path(from, to string) []string {
	if from == to {
		return []string{from}
	}

	parent := map[string]string{from: ""}
	queue := []string{from}
	for len(queue) > 0 {
		node := queue[0]
		queue = queue[1:]
		for _, next := range g.Adj[node] {
			if _, ok := parent[next]; ok {
				continue
			}
			parent[next] = node
			if next == to {
				return walkBack(parent, from, to)
			}
			queue = append(queue, next)
		}
	}
	return nil
}

// WouldCycle reports whether adding the edge blocking -> blocked closes a
// cycle, and if so returns the existing path blocked -> ... -> blocking.
func (g *Graph) WouldCycle(blocking, blocked string) ([]string, bool) {
	path := g.Path(blocked, blocking)
	return path, path != nil
}

// walkBack reconstructs the path to `to` from the BFS parent map.
func walkBack(parent map[string]string, from, to string) []string {
	path := []string{to}
	for cur := to; cur != from; {
		cur = parent[cur]
		path = append(path, cur)
	}
	for i, j := 0, len(path)-1; i < j; i, j = i+1, j-1 {
		path[i], path[j] = path[j], path[i]
	}
	return path
}

// FindCycle returns one cycle as a node path that starts and ends on the same
// node, or nil if the graph is acyclic. Uses DFS with coloring: white
// (unvisited), gray (on the stack), black (done).
func (g *Graph) FindCycle() []string {
	const (
		white = 0
		gray  = 1
		black = 2
	)

	color := make(map[string]int)
	parent := make(map[string]string)

	var dfs func(node string) []string
	dfs = func(node string) []string {
		color[node] = gray
		for _, next := range g.Adj[node] {
			if color[next] == gray {
				cycle := []string{next}
				for cur := node; cur != next; cur = parent[cur] {
					cycle = append(cycle, cur)
				}
				cycle = append(cycle, next)
				for i, j := 0, len(cycle)-1; i < j; i, j = i+1, j-1 {
					cycle[i], cycle[j] = cycle[j], cycle[i]
				}
				return cycle
			}
			if color[next] == white {
				parent[next] = node
				if cycle := dfs(next); cycle != nil {
					return cycle
				}
			}
		}
		color[node] = black
		return nil
	}

	ids := make([]string, 0, len(g.Adj))
	for id := range g.Adj {
		ids = append(ids, id)
	}
	sort.Strings(ids)

	for _, id := range ids {
		if color[id] == white {
			if cycle := dfs(id); cycle != nil {
				return cycle
			}
		}
	}
	return nil
}

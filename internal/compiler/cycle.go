package compiler

import (
	"fmt"
	"strings"

	"github.com/quillform/quillform/internal/schema"
)

// CycleWarning reports a dependency cycle among conditional rules.
//
// Cycles are warnings, not errors: the engine evaluates conditions against
// answers, not against other resolved effects, so a cycle cannot hang
// evaluation. But mutually dependent visibility rules are almost always an
// authoring mistake, so the compiler surfaces them.
type CycleWarning struct {
	Path    []string `json:"path"`    // Cycle path: ["a", "b", "a"]
	Message string   `json:"message"` // Human-readable description
}

// AnalyzeCycles performs static dependency analysis on a definition tree.
//
// The algorithm:
//  1. Build a field → field dependency graph: an edge A → B exists when a
//     rule on A has a condition targeting B
//  2. Find strongly connected components with Tarjan's algorithm
//  3. Report each SCC larger than one node, and each self-loop, as a
//     potential cycle
//
// A rule-free form, or one whose dependencies form a DAG, returns no
// warnings.
func AnalyzeCycles(tree []schema.Field) []CycleWarning {
	graph := buildDependencyGraph(tree)
	if len(graph) == 0 {
		return nil
	}

	sccs := tarjanSCC(graph)

	var warnings []CycleWarning
	for _, scc := range sccs {
		if len(scc) > 1 || (len(scc) == 1 && hasSelfLoop(scc[0], graph)) {
			warnings = append(warnings, cycleSCCToWarning(scc, graph))
		}
	}
	return warnings
}

// dependencyGraph maps field id → the ids its rules depend on.
type dependencyGraph map[string][]string

func buildDependencyGraph(tree []schema.Field) dependencyGraph {
	graph := make(dependencyGraph)
	var walk func(fields []schema.Field)
	walk = func(fields []schema.Field) {
		for _, f := range fields {
			if graph[f.ID] == nil && len(f.Rules) > 0 {
				graph[f.ID] = []string{}
			}
			for _, rule := range f.Rules {
				for _, cond := range rule.Conditions {
					if cond.TargetID != "" {
						graph[f.ID] = append(graph[f.ID], cond.TargetID)
					}
				}
			}
			if len(f.Children) > 0 {
				walk(f.Children)
			}
		}
	}
	walk(tree)
	return graph
}

// hasSelfLoop checks if a node has an edge to itself.
func hasSelfLoop(node string, graph dependencyGraph) bool {
	for _, neighbor := range graph[node] {
		if neighbor == node {
			return true
		}
	}
	return false
}

// tarjanSCC finds strongly connected components using Tarjan's algorithm.
//
// Returns a list of SCCs, where each SCC is a list of field ids.
// Single-node SCCs without self-loops are NOT cycles.
func tarjanSCC(graph dependencyGraph) [][]string {
	var (
		index   = 0
		stack   []string
		indices = make(map[string]int)
		lowlink = make(map[string]int)
		onStack = make(map[string]bool)
		sccs    [][]string
	)

	var strongConnect func(string)
	strongConnect = func(v string) {
		indices[v] = index
		lowlink[v] = index
		index++
		stack = append(stack, v)
		onStack[v] = true

		for _, w := range graph[v] {
			if _, visited := indices[w]; !visited {
				strongConnect(w)
				lowlink[v] = min(lowlink[v], lowlink[w])
			} else if onStack[w] {
				lowlink[v] = min(lowlink[v], indices[w])
			}
		}

		if lowlink[v] == indices[v] {
			var scc []string
			for {
				w := stack[len(stack)-1]
				stack = stack[:len(stack)-1]
				onStack[w] = false
				scc = append(scc, w)
				if w == v {
					break
				}
			}
			sccs = append(sccs, scc)
		}
	}

	for node := range graph {
		if _, visited := indices[node]; !visited {
			strongConnect(node)
		}
	}

	return sccs
}

// cycleSCCToWarning converts an SCC to a CycleWarning.
func cycleSCCToWarning(scc []string, graph dependencyGraph) CycleWarning {
	if len(scc) == 1 {
		id := scc[0]
		return CycleWarning{
			Path:    []string{id, id},
			Message: fmt.Sprintf("field %s has a rule conditioned on itself", id),
		}
	}

	path := reconstructCyclePath(scc, graph)
	return CycleWarning{
		Path:    path,
		Message: fmt.Sprintf("rule dependency cycle: %s", strings.Join(path, " -> ")),
	}
}

// reconstructCyclePath builds a cycle path through an SCC, starting at the
// first member and following in-SCC edges until it returns to the start.
func reconstructCyclePath(scc []string, graph dependencyGraph) []string {
	if len(scc) == 0 {
		return nil
	}

	sccSet := make(map[string]bool)
	for _, node := range scc {
		sccSet[node] = true
	}

	start := scc[0]
	current := start
	path := []string{current}
	visited := make(map[string]bool)

	for {
		visited[current] = true

		var next string
		for _, neighbor := range graph[current] {
			if sccSet[neighbor] && (!visited[neighbor] || neighbor == start) {
				next = neighbor
				break
			}
		}
		if next == "" {
			break
		}

		path = append(path, next)
		if next == start {
			break
		}
		current = next
	}

	return path
}

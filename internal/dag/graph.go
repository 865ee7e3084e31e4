package dag

import (
	"fmt"
	"sort"
)

// Graph is an adjacency view over a connections map (task -> dependencies).
// Edges to names that are not keys of the map are kept aside as dangling.
type Graph struct {
	nodes      []string
	known      map[string]bool
	adjList    map[string][]string // task -> tasks that depend on it
	revAdjList map[string][]string // task -> tasks it depends on
	dangling   map[string][]string
}

// NewGraph builds a Graph from a connections map. Node order is sorted so
// every traversal is deterministic.
func NewGraph(connections map[string][]string) *Graph {
	g := &Graph{
		nodes:      make([]string, 0, len(connections)),
		known:      make(map[string]bool, len(connections)),
		adjList:    make(map[string][]string, len(connections)),
		revAdjList: make(map[string][]string, len(connections)),
		dangling:   make(map[string][]string),
	}

	for name := range connections {
		g.nodes = append(g.nodes, name)
		g.known[name] = true
	}
	sort.Strings(g.nodes)

	for _, name := range g.nodes {
		g.adjList[name] = []string{}
		g.revAdjList[name] = []string{}
	}

	for _, name := range g.nodes {
		for _, dep := range connections[name] {
			if !g.known[dep] {
				g.dangling[name] = append(g.dangling[name], dep)
				continue
			}
			g.revAdjList[name] = append(g.revAdjList[name], dep)
			g.adjList[dep] = append(g.adjList[dep], name)
		}
	}

	return g
}

// Nodes returns the task names in sorted order
func (g *Graph) Nodes() []string {
	out := make([]string, len(g.nodes))
	copy(out, g.nodes)
	return out
}

// Has reports whether name is a node of the graph
func (g *Graph) Has(name string) bool {
	return g.known[name]
}

// Dangling returns the dependency names of task that are not nodes
func (g *Graph) Dangling(taskID string) []string {
	return g.dangling[taskID]
}

// GetImmediateDependencies returns direct dependencies of a task
func (g *Graph) GetImmediateDependencies(taskID string) ([]string, error) {
	if !g.known[taskID] {
		return nil, fmt.Errorf("task not found: %s", taskID)
	}
	return g.revAdjList[taskID], nil
}

// GetImmediateDependents returns tasks that directly depend on this task
func (g *Graph) GetImmediateDependents(taskID string) ([]string, error) {
	if !g.known[taskID] {
		return nil, fmt.Errorf("task not found: %s", taskID)
	}
	return g.adjList[taskID], nil
}

// GetUpstreamTasks returns all tasks that this task depends on (directly or indirectly)
func (g *Graph) GetUpstreamTasks(taskID string) ([]string, error) {
	if !g.known[taskID] {
		return nil, fmt.Errorf("task not found: %s", taskID)
	}
	return g.closure(taskID, g.revAdjList), nil
}

// GetDownstreamTasks returns all tasks that depend on this task (directly or indirectly)
func (g *Graph) GetDownstreamTasks(taskID string) ([]string, error) {
	if !g.known[taskID] {
		return nil, fmt.Errorf("task not found: %s", taskID)
	}
	return g.closure(taskID, g.adjList), nil
}

func (g *Graph) closure(taskID string, edges map[string][]string) []string {
	reached := make(map[string]bool)
	visited := make(map[string]bool)

	var dfs func(string)
	dfs = func(id string) {
		if visited[id] {
			return
		}
		visited[id] = true

		for _, next := range edges[id] {
			reached[next] = true
			dfs(next)
		}
	}

	dfs(taskID)

	// A task on a cycle can reach itself.
	delete(reached, taskID)

	result := make([]string, 0, len(reached))
	for id := range reached {
		result = append(result, id)
	}
	sort.Strings(result)

	return result
}

// GetRootTasks returns all tasks with no dependencies
func (g *Graph) GetRootTasks() []string {
	var roots []string
	for _, taskID := range g.nodes {
		if len(g.revAdjList[taskID]) == 0 {
			roots = append(roots, taskID)
		}
	}
	return roots
}

// GetLeafTasks returns all tasks that no other task depends on
func (g *Graph) GetLeafTasks() []string {
	var leaves []string
	for _, taskID := range g.nodes {
		if len(g.adjList[taskID]) == 0 {
			leaves = append(leaves, taskID)
		}
	}
	return leaves
}

// TopologicalSort returns tasks in dependency order using Kahn's algorithm
func (g *Graph) TopologicalSort() ([]string, error) {
	inDegree := make(map[string]int, len(g.nodes))
	var queue []string

	for _, taskID := range g.nodes {
		inDegree[taskID] = len(g.revAdjList[taskID])
		if inDegree[taskID] == 0 {
			queue = append(queue, taskID)
		}
	}

	var result []string
	for len(queue) > 0 {
		taskID := queue[0]
		queue = queue[1:]
		result = append(result, taskID)

		for _, neighbor := range g.adjList[taskID] {
			inDegree[neighbor]--
			if inDegree[neighbor] == 0 {
				queue = append(queue, neighbor)
			}
		}
	}

	if len(result) != len(g.nodes) {
		return nil, fmt.Errorf("cycle detected in DAG")
	}

	return result, nil
}

// Levels assigns each task the maximum over its dependencies of their level
// plus one; tasks without dependencies sit at level 0. The second result
// lists tasks as their levels were settled. Two tasks on one level never
// depend on each other, so within a level this is the order of first
// visitation, which callers use as the rank. Cycles do not loop: a
// dependency still being resolved contributes nothing.
func (g *Graph) Levels() (map[string]int, []string) {
	levels := make(map[string]int, len(g.nodes))
	inProgress := make(map[string]bool)
	order := make([]string, 0, len(g.nodes))

	var resolve func(string) int
	resolve = func(taskID string) int {
		if level, ok := levels[taskID]; ok {
			return level
		}
		inProgress[taskID] = true

		level := 0
		for _, dep := range g.revAdjList[taskID] {
			if inProgress[dep] {
				continue
			}
			if l := resolve(dep) + 1; l > level {
				level = l
			}
		}

		delete(inProgress, taskID)
		levels[taskID] = level
		order = append(order, taskID)
		return level
	}

	for _, taskID := range g.nodes {
		if _, ok := levels[taskID]; !ok {
			resolve(taskID)
		}
	}

	return levels, order
}

// GetTaskCount returns the total number of tasks in the graph
func (g *Graph) GetTaskCount() int {
	return len(g.nodes)
}

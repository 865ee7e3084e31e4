package dag

import (
	"fmt"

	"github.com/GreedyKomodoDragon/Kontroler/pkg/models"
)

// cycleDetector runs white/gray/black DFS over task name -> runAfter.
//
// When a back edge is found the traversal for the current root stops and
// every task still on the stack stays marked. Later roots that reach one of
// those tasks are reported too.
type cycleDetector struct {
	order   []string
	edges   map[string][]string
	visited map[string]bool
	onStack map[string]bool
}

type dfsFrame struct {
	name string
	next int
}

func newCycleDetector(tasks []models.TaskSpec) *cycleDetector {
	d := &cycleDetector{
		edges:   make(map[string][]string, len(tasks)),
		visited: make(map[string]bool, len(tasks)),
		onStack: make(map[string]bool, len(tasks)),
	}

	// First appearance fixes the order, the last task with a name wins.
	for _, task := range tasks {
		if _, seen := d.edges[task.Name]; !seen {
			d.order = append(d.order, task.Name)
		}
		deps := task.RunAfter
		if deps == nil {
			deps = []string{}
		}
		d.edges[task.Name] = deps
	}

	return d
}

func (d *cycleDetector) enter(name string) {
	d.visited[name] = true
	d.onStack[name] = true
}

func (d *cycleDetector) hasCycle(root string) bool {
	if d.onStack[root] {
		return true
	}
	if d.visited[root] {
		return false
	}

	d.enter(root)
	stack := []dfsFrame{{name: root}}

	for len(stack) > 0 {
		top := &stack[len(stack)-1]
		deps := d.edges[top.name]

		if top.next < len(deps) {
			dep := deps[top.next]
			top.next++

			if d.onStack[dep] {
				return true
			}
			if d.visited[dep] {
				continue
			}

			d.enter(dep)
			stack = append(stack, dfsFrame{name: dep})
			continue
		}

		delete(d.onStack, top.name)
		stack = stack[:len(stack)-1]
	}

	return false
}

func detectCycles(tasks []models.TaskSpec) []string {
	d := newCycleDetector(tasks)

	var errors []string
	for _, name := range d.order {
		if d.hasCycle(name) {
			errors = append(errors, fmt.Sprintf("Cyclic dependency detected involving task \"%s\".", name))
		}
	}

	return errors
}

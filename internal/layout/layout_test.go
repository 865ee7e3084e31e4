package layout

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var pipeline = map[string][]string{
	"task1":  {},
	"task2":  {"task1"},
	"task3":  {"task1"},
	"task4":  {"task2"},
	"task5":  {"task2"},
	"task6":  {"task3"},
	"task7":  {"task4", "task5"},
	"task8":  {"task5"},
	"task9":  {"task6"},
	"task10": {"task7", "task8"},
	"task11": {"task9", "task10"},
	"task12": {"task10"},
}

var container = Options{Width: 800, Height: 400}

func TestCompute_LevelsRespectEdges(t *testing.T) {
	l := Compute(pipeline, container)
	require.Len(t, l.Nodes, len(pipeline))

	for task, deps := range pipeline {
		node, ok := l.Node(task)
		require.True(t, ok, task)
		for _, dep := range deps {
			depNode, ok := l.Node(dep)
			require.True(t, ok, dep)
			assert.Less(t, depNode.Level, node.Level, "%s -> %s", dep, task)
		}
	}

	task11, _ := l.Node("task11")
	assert.Equal(t, 5, task11.Level, "longest path wins")
	assert.Equal(t, 5, l.MaxLevel)
}

func TestCompute_Idempotent(t *testing.T) {
	first := Compute(pipeline, container)
	second := Compute(pipeline, container)
	assert.Equal(t, first.Nodes, second.Nodes)
	assert.Equal(t, first.Edges, second.Edges)
}

func TestCompute_Coordinates(t *testing.T) {
	l := Compute(map[string][]string{
		"extract": {},
		"load":    {"extract"},
	}, container)

	extract, ok := l.Node("extract")
	require.True(t, ok)
	load, ok := l.Node("load")
	require.True(t, ok)

	assert.Equal(t, 0, extract.Level)
	assert.Equal(t, 1, load.Level)

	// x is inverted: level 0 sits in the rightmost column
	assert.Equal(t, 100.0+DefaultMargin, extract.X)
	assert.Equal(t, DefaultMargin, load.X)
	assert.Equal(t, DefaultMargin, extract.Y)
	assert.Equal(t, DefaultMargin, load.Y)

	assert.Equal(t, []Edge{{From: "extract", To: "load"}}, l.Edges)
}

func TestCompute_RanksWithinLevel(t *testing.T) {
	l := Compute(map[string][]string{
		"a": {},
		"b": {},
		"c": {"a", "b"},
	}, Options{Width: 800, Height: 400, RowHeight: 80})

	a, _ := l.Node("a")
	b, _ := l.Node("b")
	assert.Equal(t, 0, a.Rank)
	assert.Equal(t, 1, b.Rank)
	assert.Equal(t, DefaultMargin+80, b.Y)
}

func TestCompute_Empty(t *testing.T) {
	assert.True(t, Compute(nil, container).Empty())
	assert.True(t, Compute(map[string][]string{}, container).Empty())
	assert.True(t, Compute(pipeline, Options{}).Empty(), "zero-size container")
	assert.True(t, Compute(pipeline, Options{Width: 800}).Empty())
}

func TestCompute_UnknownDependency(t *testing.T) {
	l := Compute(map[string][]string{
		"a": {"ghost"},
		"b": {"a"},
	}, container)

	_, ok := l.Node("ghost")
	assert.False(t, ok)

	a, _ := l.Node("a")
	assert.Equal(t, 0, a.Level)

	_, ok = l.Curve(Edge{From: "ghost", To: "a"})
	assert.False(t, ok)
	_, ok = l.Curve(Edge{From: "a", To: "b"})
	assert.True(t, ok)
}

func TestCompute_CycleTerminates(t *testing.T) {
	l := Compute(map[string][]string{
		"a": {"b"},
		"b": {"a"},
	}, container)
	assert.Len(t, l.Nodes, 2)
}

func TestCompute_ExplicitLevelWidth(t *testing.T) {
	l := Compute(map[string][]string{
		"a": {},
		"b": {"a"},
	}, Options{Width: 800, Height: 400, LevelWidth: 150, Margin: 10})

	a, _ := l.Node("a")
	assert.Equal(t, 160.0, a.X)
}

func TestBezier_Distance(t *testing.T) {
	line := Bezier{
		P0: Point{X: 0, Y: 0},
		P1: Point{X: 10, Y: 0},
		P2: Point{X: 20, Y: 0},
		P3: Point{X: 30, Y: 0},
	}

	assert.InDelta(t, 0, line.Distance(Point{X: 15, Y: 0}), 1e-9)
	assert.InDelta(t, 5, line.Distance(Point{X: 15, Y: 5}), 1e-9)
	assert.InDelta(t, 5, line.Distance(Point{X: -3, Y: 4}), 1e-9)
	assert.Equal(t, Point{X: 30, Y: 0}, line.At(1))
}

package models

import (
	"encoding/json"
	"testing"
)

func TestStatus_IsTerminal(t *testing.T) {
	tests := []struct {
		name     string
		status   Status
		expected bool
	}{
		{"Success is terminal", StatusSuccess, true},
		{"Failed is terminal", StatusFailed, true},
		{"Pending is not terminal", StatusPending, false},
		{"Running is not terminal", StatusRunning, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := tt.status.IsTerminal()
			if got != tt.expected {
				t.Errorf("IsTerminal() = %v, want %v", got, tt.expected)
			}
		})
	}
}

func TestDagFormObj_Connections(t *testing.T) {
	form := DagFormObj{
		Name: "etl",
		Tasks: []TaskSpec{
			{Name: "extract"},
			{Name: "load", RunAfter: []string{"extract"}},
		},
	}

	conns := form.Connections()
	if len(conns) != 2 {
		t.Fatalf("expected 2 connections, got %d", len(conns))
	}
	if len(conns["extract"]) != 0 {
		t.Errorf("extract should have no dependencies, got %v", conns["extract"])
	}
	if len(conns["load"]) != 1 || conns["load"][0] != "extract" {
		t.Errorf("load should depend on extract, got %v", conns["load"])
	}

	conns["load"][0] = "changed"
	if form.Tasks[1].RunAfter[0] != "extract" {
		t.Error("Connections must not alias task runAfter slices")
	}
}

func TestDagFormObj_Clone(t *testing.T) {
	original := DagFormObj{
		Name: "etl",
		Tasks: []TaskSpec{
			{Name: "a", Command: []string{"echo"}, RetryCodes: []int{1}, Parameters: []string{"p1"}},
		},
		Parameters: []DagParameterSpec{{ID: "p1", Name: "param"}},
	}

	clone := original.Clone()
	clone.Tasks[0].Command[0] = "ls"
	clone.Tasks[0].RetryCodes[0] = 2
	clone.Parameters[0].Name = "other"

	if original.Tasks[0].Command[0] != "echo" {
		t.Error("clone shares command slice")
	}
	if original.Tasks[0].RetryCodes[0] != 1 {
		t.Error("clone shares retry codes slice")
	}
	if original.Parameters[0].Name != "param" {
		t.Error("clone shares parameter slice")
	}
	if clone.Tasks[0].Args != nil {
		t.Error("nil args should stay nil after clone")
	}
}

func TestDagFormObj_JSONShape(t *testing.T) {
	form := DagFormObj{
		Name:      "etl",
		Namespace: "default",
		Tasks:     []TaskSpec{{Name: "a", Image: "alpine", BackoffLimit: 1}},
	}

	data, err := json.Marshal(form)
	if err != nil {
		t.Fatalf("marshal failed: %v", err)
	}

	var decoded map[string]interface{}
	if err := json.Unmarshal(data, &decoded); err != nil {
		t.Fatalf("unmarshal failed: %v", err)
	}
	if _, ok := decoded["schedule"]; ok {
		t.Error("empty schedule should be omitted")
	}
	task := decoded["tasks"].([]interface{})[0].(map[string]interface{})
	if task["backoffLimit"].(float64) != 1 {
		t.Errorf("unexpected backoffLimit %v", task["backoffLimit"])
	}
}

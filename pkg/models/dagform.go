package models

// DagParameterSpec is a named value, or secret reference, assignable to tasks by ID
type DagParameterSpec struct {
	ID       string `json:"id" yaml:"id"`
	Name     string `json:"name" yaml:"name"`
	IsSecret bool   `json:"isSecret" yaml:"isSecret"`
	Value    string `json:"value" yaml:"value"`
}

// TaskSpec is one container step of a DAG being authored.
//
// Command, Args and RetryCodes distinguish nil (never set, or cleared by
// malformed input) from an empty slice.
type TaskSpec struct {
	Name         string   `json:"name" yaml:"name"`
	Command      []string `json:"command" yaml:"command"`
	Args         []string `json:"args" yaml:"args"`
	Script       string   `json:"script,omitempty" yaml:"script,omitempty"`
	Image        string   `json:"image" yaml:"image"`
	RunAfter     []string `json:"runAfter,omitempty" yaml:"runAfter,omitempty"`
	BackoffLimit int      `json:"backoffLimit" yaml:"backoffLimit"`
	RetryCodes   []int    `json:"retryCodes" yaml:"retryCodes"`
	Parameters   []string `json:"parameters,omitempty" yaml:"parameters,omitempty"`
	PodTemplate  string   `json:"podTemplate,omitempty" yaml:"podTemplate,omitempty"`
}

// DagFormObj is the payload submitted to create a DAG
type DagFormObj struct {
	Name       string             `json:"name" yaml:"name"`
	Namespace  string             `json:"namespace" yaml:"namespace"`
	Schedule   string             `json:"schedule,omitempty" yaml:"schedule,omitempty"`
	Tasks      []TaskSpec         `json:"tasks" yaml:"tasks"`
	Parameters []DagParameterSpec `json:"parameters,omitempty" yaml:"parameters,omitempty"`
}

// TaskNames returns the task names in declaration order
func (d *DagFormObj) TaskNames() []string {
	names := make([]string, len(d.Tasks))
	for i, task := range d.Tasks {
		names[i] = task.Name
	}
	return names
}

// Connections returns the task name -> runAfter map used for visualisation.
// Later tasks win when names repeat.
func (d *DagFormObj) Connections() map[string][]string {
	connections := make(map[string][]string, len(d.Tasks))
	for _, task := range d.Tasks {
		deps := make([]string, len(task.RunAfter))
		copy(deps, task.RunAfter)
		connections[task.Name] = deps
	}
	return connections
}

// Clone returns a deep copy that shares no slices with d
func (d DagFormObj) Clone() DagFormObj {
	out := d
	if d.Tasks != nil {
		out.Tasks = make([]TaskSpec, len(d.Tasks))
		for i, task := range d.Tasks {
			out.Tasks[i] = task.Clone()
		}
	}
	if d.Parameters != nil {
		out.Parameters = make([]DagParameterSpec, len(d.Parameters))
		copy(out.Parameters, d.Parameters)
	}
	return out
}

// Clone returns a deep copy of the task
func (t TaskSpec) Clone() TaskSpec {
	out := t
	out.Command = cloneStrings(t.Command)
	out.Args = cloneStrings(t.Args)
	out.RunAfter = cloneStrings(t.RunAfter)
	out.Parameters = cloneStrings(t.Parameters)
	if t.RetryCodes != nil {
		out.RetryCodes = make([]int, len(t.RetryCodes))
		copy(out.RetryCodes, t.RetryCodes)
	}
	return out
}

func cloneStrings(in []string) []string {
	if in == nil {
		return nil
	}
	out := make([]string, len(in))
	copy(out, in)
	return out
}

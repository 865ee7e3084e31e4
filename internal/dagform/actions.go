package dagform

// Action is one edit of a DAG form. The set is closed: only the types in this
// file implement it.
type Action interface {
	isAction()
}

// TaskField names an editable field of a task
type TaskField string

const (
	TaskFieldName         TaskField = "name"
	TaskFieldCommand      TaskField = "command"
	TaskFieldArgs         TaskField = "args"
	TaskFieldImage        TaskField = "image"
	TaskFieldBackoffLimit TaskField = "backoffLimit"
	TaskFieldRetryCodes   TaskField = "retryCodes"
	TaskFieldPodTemplate  TaskField = "podTemplate"
	TaskFieldScript       TaskField = "script"
)

// DagField names an editable top level field of the form
type DagField string

const (
	DagFieldName      DagField = "name"
	DagFieldNamespace DagField = "namespace"
	DagFieldSchedule  DagField = "schedule"
)

// AddTask appends a task with empty defaults
type AddTask struct{}

// DeleteTask removes a task and strips its name from every runAfter list
type DeleteTask struct {
	Index int
}

// SetTaskField replaces one task field from raw input text. Command and args
// expect a JSON array of strings, retryCodes a JSON array of integers and
// backoffLimit a non-negative integer; anything else clears the field.
type SetTaskField struct {
	Index int
	Field TaskField
	Value string
}

// AddRunAfter appends a predecessor name to a task. Empty names are ignored;
// duplicates and self references are left for validation.
type AddRunAfter struct {
	Index       int
	Predecessor string
}

// RemoveRunAfter removes every occurrence of a predecessor from a task
type RemoveRunAfter struct {
	Index       int
	Predecessor string
}

// AddParameterToTask assigns a parameter to a task once
type AddParameterToTask struct {
	Index       int
	ParameterID string
}

// RemoveParameterFromTask unassigns a parameter from a task
type RemoveParameterFromTask struct {
	Index       int
	ParameterID string
}

// AddParameter appends a parameter with the given ID and empty values
type AddParameter struct {
	ID string
}

// DeleteParameter removes a parameter and unassigns it from every task
type DeleteParameter struct {
	Index int
}

// RenameParameter changes a parameter's name, keeping its ID
type RenameParameter struct {
	Index int
	Name  string
}

// ToggleSecret flips whether a parameter value is a secret reference
type ToggleSecret struct {
	Index int
}

// SetParameterValue replaces a parameter's value
type SetParameterValue struct {
	Index int
	Value string
}

// SetDagField replaces the DAG name, namespace or schedule
type SetDagField struct {
	Field DagField
	Value string
}

func (AddTask) isAction()                 {}
func (DeleteTask) isAction()              {}
func (SetTaskField) isAction()            {}
func (AddRunAfter) isAction()             {}
func (RemoveRunAfter) isAction()          {}
func (AddParameterToTask) isAction()      {}
func (RemoveParameterFromTask) isAction() {}
func (AddParameter) isAction()            {}
func (DeleteParameter) isAction()         {}
func (RenameParameter) isAction()         {}
func (ToggleSecret) isAction()            {}
func (SetParameterValue) isAction()       {}
func (SetDagField) isAction()             {}

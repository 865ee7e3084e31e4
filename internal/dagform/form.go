package dagform

import (
	"strconv"

	"github.com/GreedyKomodoDragon/Kontroler/pkg/models"
	"github.com/google/uuid"
)

// Form is the authoring state of one DAG. It is not safe for concurrent use;
// each authoring session owns its own Form.
type Form struct {
	state models.DagFormObj
	newID func() string
}

// NewForm creates an empty form in the given namespace
func NewForm(namespace string) *Form {
	return FromState(models.DagFormObj{
		Namespace:  namespace,
		Tasks:      []models.TaskSpec{},
		Parameters: []models.DagParameterSpec{},
	})
}

// FromState wraps an existing DAG form
func FromState(state models.DagFormObj) *Form {
	return &Form{state: state, newID: uuid.NewString}
}

// State returns the current form. The result shares memory with the form
// and must be treated as read-only; use Submission for a private copy.
func (f *Form) State() models.DagFormObj {
	return f.state
}

// Submission returns a deep copy of the form ready to be sent to the backend
func (f *Form) Submission() models.DagFormObj {
	return f.state.Clone()
}

// Dispatch applies an action
func (f *Form) Dispatch(action Action) {
	f.state = Reduce(f.state, action)
}

// AddTask appends an empty task
func (f *Form) AddTask() {
	f.Dispatch(AddTask{})
}

// DeleteTask removes the task at index and drops it from other tasks' runAfter
func (f *Form) DeleteTask(index int) {
	f.Dispatch(DeleteTask{Index: index})
}

// AddParameter appends a parameter with a fresh ID and returns that ID
func (f *Form) AddParameter() string {
	id := f.newID()
	f.Dispatch(AddParameter{ID: id})
	return id
}

// RenameParameter changes the name of the parameter at index
func (f *Form) RenameParameter(index int, name string) {
	f.Dispatch(RenameParameter{Index: index, Name: name})
}

// ToggleParameterSecret flips the secret flag of the parameter at index
func (f *Form) ToggleParameterSecret(index int) {
	f.Dispatch(ToggleSecret{Index: index})
}

// SetParameterValue sets the value of the parameter at index
func (f *Form) SetParameterValue(index int, value string) {
	f.Dispatch(SetParameterValue{Index: index, Value: value})
}

// DeleteParameter removes the parameter at index and unassigns it everywhere
func (f *Form) DeleteParameter(index int) {
	f.Dispatch(DeleteParameter{Index: index})
}

// AddRunAfter makes the task at index run after predecessor
func (f *Form) AddRunAfter(index int, predecessor string) {
	f.Dispatch(AddRunAfter{Index: index, Predecessor: predecessor})
}

// AddParameterToTask assigns a parameter to the task at index
func (f *Form) AddParameterToTask(index int, parameterID string) {
	f.Dispatch(AddParameterToTask{Index: index, ParameterID: parameterID})
}

// SetName sets the DAG name
func (f *Form) SetName(name string) {
	f.Dispatch(SetDagField{Field: DagFieldName, Value: name})
}

// SetSchedule sets the DAG cron schedule
func (f *Form) SetSchedule(schedule string) {
	f.Dispatch(SetDagField{Field: DagFieldSchedule, Value: schedule})
}

// SetTaskName sets the name of the task at index
func (f *Form) SetTaskName(index int, name string) {
	f.Dispatch(SetTaskField{Index: index, Field: TaskFieldName, Value: name})
}

// SetTaskCommand sets the command of the task at index
func (f *Form) SetTaskCommand(index int, command []string) {
	f.Dispatch(SetTaskField{Index: index, Field: TaskFieldCommand, Value: FormatStringArray(command)})
}

// SetTaskArgs sets the args of the task at index
func (f *Form) SetTaskArgs(index int, args []string) {
	f.Dispatch(SetTaskField{Index: index, Field: TaskFieldArgs, Value: FormatStringArray(args)})
}

// SetTaskImage sets the image of the task at index
func (f *Form) SetTaskImage(index int, image string) {
	f.Dispatch(SetTaskField{Index: index, Field: TaskFieldImage, Value: image})
}

// SetTaskBackoffLimit sets the retry limit of the task at index
func (f *Form) SetTaskBackoffLimit(index int, limit int) {
	if limit < 0 {
		limit = 0
	}
	f.Dispatch(SetTaskField{Index: index, Field: TaskFieldBackoffLimit, Value: strconv.Itoa(limit)})
}

// SetTaskRetryCodes sets the exit codes that trigger a retry
func (f *Form) SetTaskRetryCodes(index int, codes []int) {
	f.Dispatch(SetTaskField{Index: index, Field: TaskFieldRetryCodes, Value: FormatIntArray(codes)})
}

// SetTaskPodTemplate sets the pod template overlay of the task at index
func (f *Form) SetTaskPodTemplate(index int, podTemplate string) {
	f.Dispatch(SetTaskField{Index: index, Field: TaskFieldPodTemplate, Value: podTemplate})
}

// SetTaskScript sets the shell script of the task at index
func (f *Form) SetTaskScript(index int, script string) {
	f.Dispatch(SetTaskField{Index: index, Field: TaskFieldScript, Value: script})
}

// SetTaskFieldText sets a task field from raw input text, see SetTaskField
func (f *Form) SetTaskFieldText(index int, field TaskField, text string) {
	f.Dispatch(SetTaskField{Index: index, Field: field, Value: text})
}

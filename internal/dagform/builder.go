package dagform

import (
	"github.com/GreedyKomodoDragon/Kontroler/internal/dag"
	"github.com/GreedyKomodoDragon/Kontroler/pkg/models"
)

// Builder provides a fluent API for assembling DAG forms in code
type Builder struct {
	form *Form
}

// NewBuilder creates a new DAG form builder
func NewBuilder(name string) *Builder {
	f := NewForm("default")
	f.SetName(name)
	return &Builder{form: f}
}

// Namespace sets the namespace the DAG is created in
func (b *Builder) Namespace(namespace string) *Builder {
	b.form.Dispatch(SetDagField{Field: DagFieldNamespace, Value: namespace})
	return b
}

// Schedule sets the cron schedule for the DAG
func (b *Builder) Schedule(cronExpr string) *Builder {
	b.form.SetSchedule(cronExpr)
	return b
}

// Parameter adds a parameter and returns the builder; the generated ID can be
// looked up with ParameterID
func (b *Builder) Parameter(name, value string, secret bool) *Builder {
	b.form.AddParameter()
	index := len(b.form.State().Parameters) - 1
	b.form.RenameParameter(index, name)
	b.form.SetParameterValue(index, value)
	if secret {
		b.form.ToggleParameterSecret(index)
	}
	return b
}

// ParameterID returns the ID of the first parameter called name
func (b *Builder) ParameterID(name string) string {
	for _, p := range b.form.State().Parameters {
		if p.Name == name {
			return p.ID
		}
	}
	return ""
}

// Task adds a task to the DAG
func (b *Builder) Task(name string, taskBuilder *TaskBuilder) *Builder {
	b.form.AddTask()
	index := len(b.form.State().Tasks) - 1
	taskBuilder.apply(b, index, name)
	return b
}

// Form returns the assembled form without validating it
func (b *Builder) Form() models.DagFormObj {
	return b.form.Submission()
}

// Build returns the assembled form and the validation errors, if any
func (b *Builder) Build() (models.DagFormObj, []string) {
	form := b.form.Submission()
	return form, dag.ValidateDagFormObj(form)
}

// MustBuild builds the form and panics if it does not validate (useful for testing)
func (b *Builder) MustBuild() models.DagFormObj {
	form, errors := b.Build()
	if len(errors) > 0 {
		panic(errors)
	}
	return form
}

// TaskBuilder provides a fluent API for building tasks
type TaskBuilder struct {
	image        string
	command      []string
	args         []string
	script       string
	runAfter     []string
	backoffLimit int
	retryCodes   []int
	parameters   []string
	podTemplate  string
}

// ContainerTask creates a task builder running command in image
func ContainerTask(image string, command ...string) *TaskBuilder {
	return &TaskBuilder{
		image:      image,
		command:    command,
		args:       []string{},
		retryCodes: []int{},
	}
}

// ScriptTask creates a task builder running a shell script in image
func ScriptTask(image, script string) *TaskBuilder {
	tb := ContainerTask(image, "sh", "-c")
	tb.script = script
	return tb
}

// Args sets the container arguments
func (tb *TaskBuilder) Args(args ...string) *TaskBuilder {
	tb.args = append(tb.args, args...)
	return tb
}

// RunAfter sets task dependencies
func (tb *TaskBuilder) RunAfter(names ...string) *TaskBuilder {
	tb.runAfter = append(tb.runAfter, names...)
	return tb
}

// Retries sets the backoff limit and the exit codes that trigger a retry
func (tb *TaskBuilder) Retries(limit int, codes ...int) *TaskBuilder {
	tb.backoffLimit = limit
	tb.retryCodes = append(tb.retryCodes, codes...)
	return tb
}

// Parameters assigns parameters by name; names must be added to the DAG first
func (tb *TaskBuilder) Parameters(names ...string) *TaskBuilder {
	tb.parameters = append(tb.parameters, names...)
	return tb
}

// PodTemplate sets the pod template overlay
func (tb *TaskBuilder) PodTemplate(podTemplate string) *TaskBuilder {
	tb.podTemplate = podTemplate
	return tb
}

func (tb *TaskBuilder) apply(b *Builder, index int, name string) {
	f := b.form
	f.SetTaskName(index, name)
	f.SetTaskImage(index, tb.image)
	f.SetTaskCommand(index, tb.command)
	f.SetTaskArgs(index, tb.args)
	f.SetTaskScript(index, tb.script)
	f.SetTaskBackoffLimit(index, tb.backoffLimit)
	f.SetTaskRetryCodes(index, tb.retryCodes)
	f.SetTaskPodTemplate(index, tb.podTemplate)
	for _, dep := range tb.runAfter {
		f.AddRunAfter(index, dep)
	}
	for _, param := range tb.parameters {
		if id := b.ParameterID(param); id != "" {
			f.AddParameterToTask(index, id)
		}
	}
}

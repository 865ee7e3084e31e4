package dagform

import (
	"slices"

	"github.com/GreedyKomodoDragon/Kontroler/pkg/models"
)

// NewTask returns a task with empty defaults
func NewTask() models.TaskSpec {
	return models.TaskSpec{
		RunAfter:   []string{},
		Parameters: []string{},
	}
}

// Reduce applies action to state and returns the new state. state is never
// modified; slices that an action does not touch are shared between the old
// and new state. Out of range indexes leave the state unchanged.
func Reduce(state models.DagFormObj, action Action) models.DagFormObj {
	switch a := action.(type) {
	case AddTask:
		next := state
		next.Tasks = append(slices.Clip(state.Tasks), NewTask())
		return next

	case DeleteTask:
		if !inRange(a.Index, len(state.Tasks)) {
			return state
		}
		removed := state.Tasks[a.Index].Name
		tasks := make([]models.TaskSpec, 0, len(state.Tasks)-1)
		for i, task := range state.Tasks {
			if i == a.Index {
				continue
			}
			if slices.Contains(task.RunAfter, removed) {
				task.RunAfter = without(task.RunAfter, removed)
			}
			tasks = append(tasks, task)
		}
		next := state
		next.Tasks = tasks
		return next

	case SetTaskField:
		return updateTask(state, a.Index, func(task *models.TaskSpec) {
			setTaskField(task, a.Field, a.Value)
		})

	case AddRunAfter:
		if a.Predecessor == "" {
			return state
		}
		return updateTask(state, a.Index, func(task *models.TaskSpec) {
			task.RunAfter = append(slices.Clip(task.RunAfter), a.Predecessor)
		})

	case RemoveRunAfter:
		return updateTask(state, a.Index, func(task *models.TaskSpec) {
			task.RunAfter = without(task.RunAfter, a.Predecessor)
		})

	case AddParameterToTask:
		if a.ParameterID == "" {
			return state
		}
		if inRange(a.Index, len(state.Tasks)) && slices.Contains(state.Tasks[a.Index].Parameters, a.ParameterID) {
			return state
		}
		return updateTask(state, a.Index, func(task *models.TaskSpec) {
			task.Parameters = append(slices.Clip(task.Parameters), a.ParameterID)
		})

	case RemoveParameterFromTask:
		return updateTask(state, a.Index, func(task *models.TaskSpec) {
			task.Parameters = without(task.Parameters, a.ParameterID)
		})

	case AddParameter:
		next := state
		next.Parameters = append(slices.Clip(state.Parameters), models.DagParameterSpec{ID: a.ID})
		return next

	case DeleteParameter:
		if !inRange(a.Index, len(state.Parameters)) {
			return state
		}
		id := state.Parameters[a.Index].ID
		next := state
		next.Parameters = slices.Delete(slices.Clone(state.Parameters), a.Index, a.Index+1)
		next.Tasks = make([]models.TaskSpec, len(state.Tasks))
		for i, task := range state.Tasks {
			if slices.Contains(task.Parameters, id) {
				task.Parameters = without(task.Parameters, id)
			}
			next.Tasks[i] = task
		}
		return next

	case RenameParameter:
		return updateParameter(state, a.Index, func(p *models.DagParameterSpec) {
			p.Name = a.Name
		})

	case ToggleSecret:
		return updateParameter(state, a.Index, func(p *models.DagParameterSpec) {
			p.IsSecret = !p.IsSecret
		})

	case SetParameterValue:
		return updateParameter(state, a.Index, func(p *models.DagParameterSpec) {
			p.Value = a.Value
		})

	case SetDagField:
		next := state
		switch a.Field {
		case DagFieldName:
			next.Name = a.Value
		case DagFieldNamespace:
			next.Namespace = a.Value
		case DagFieldSchedule:
			next.Schedule = a.Value
		}
		return next
	}

	return state
}

func setTaskField(task *models.TaskSpec, field TaskField, value string) {
	switch field {
	case TaskFieldName:
		task.Name = value
	case TaskFieldCommand:
		task.Command = ParseStringArray(value)
	case TaskFieldArgs:
		task.Args = ParseStringArray(value)
	case TaskFieldImage:
		task.Image = value
	case TaskFieldBackoffLimit:
		task.BackoffLimit = ParseBackoffLimit(value)
	case TaskFieldRetryCodes:
		task.RetryCodes = ParseIntArray(value)
	case TaskFieldPodTemplate:
		task.PodTemplate = value
	case TaskFieldScript:
		task.Script = value
	}
}

func updateTask(state models.DagFormObj, index int, fn func(*models.TaskSpec)) models.DagFormObj {
	if !inRange(index, len(state.Tasks)) {
		return state
	}
	next := state
	next.Tasks = slices.Clone(state.Tasks)
	fn(&next.Tasks[index])
	return next
}

func updateParameter(state models.DagFormObj, index int, fn func(*models.DagParameterSpec)) models.DagFormObj {
	if !inRange(index, len(state.Parameters)) {
		return state
	}
	next := state
	next.Parameters = slices.Clone(state.Parameters)
	fn(&next.Parameters[index])
	return next
}

// without returns a fresh slice with every occurrence of value removed
func without(values []string, value string) []string {
	out := make([]string, 0, len(values))
	for _, v := range values {
		if v != value {
			out = append(out, v)
		}
	}
	return out
}

func inRange(index, length int) bool {
	return index >= 0 && index < length
}

package dag

import (
	"fmt"
	"regexp"

	"github.com/GreedyKomodoDragon/Kontroler/pkg/models"
)

const (
	ErrInvalidName     = "Invalid DAG name: should contain only alphabetic characters."
	ErrInvalidSchedule = "Invalid schedule: should be empty or a valid cron string."
	ErrNoTasks         = "You must provide at least one task for a dag"
)

var (
	namePattern = regexp.MustCompile(`^[a-zA-Z]+$`)

	// Only bare "*" or numbers up to two digits per field. Steps, ranges and
	// lists are rejected.
	cronPattern = regexp.MustCompile(`^(\*|([0-5]?\d))( (\*|([0-5]?\d))){4}$`)
)

// Validator checks a DAG form before it is submitted to the backend
type Validator struct{}

// NewValidator creates a new DAG validator
func NewValidator() *Validator {
	return &Validator{}
}

// ValidateDagFormObj validates a DAG form with the default validator
func ValidateDagFormObj(form models.DagFormObj) []string {
	return NewValidator().Validate(form)
}

// IsValidName reports whether name is an acceptable DAG name
func IsValidName(name string) bool {
	return namePattern.MatchString(name)
}

// IsValidCron reports whether schedule matches the accepted five field pattern
func IsValidCron(schedule string) bool {
	return cronPattern.MatchString(schedule)
}

// Validate returns every problem found in the form, in check order. An
// empty result means the form can be submitted. The form is not modified.
func (v *Validator) Validate(form models.DagFormObj) []string {
	errors := []string{}

	if !IsValidName(form.Name) {
		errors = append(errors, ErrInvalidName)
	}

	if form.Schedule != "" && !IsValidCron(form.Schedule) {
		errors = append(errors, ErrInvalidSchedule)
	}

	if len(form.Tasks) == 0 {
		errors = append(errors, ErrNoTasks)
	}

	taskNames := make(map[string]bool, len(form.Tasks))
	for _, task := range form.Tasks {
		taskNames[task.Name] = true
	}

	for _, task := range form.Tasks {
		errors = append(errors, v.checkTask(task, taskNames)...)
	}

	errors = append(errors, detectCycles(form.Tasks)...)

	return errors
}

func (v *Validator) checkTask(task models.TaskSpec, taskNames map[string]bool) []string {
	var errors []string

	if len(task.Command) == 0 {
		errors = append(errors, fmt.Sprintf("Task \"%s\" is missing a command. Must be an array of strings", task.Name))
	}

	if task.Args == nil {
		errors = append(errors, fmt.Sprintf("Task \"%s\": args is invalid, must be a array of strings", task.Name))
	}

	if task.RetryCodes == nil {
		errors = append(errors, fmt.Sprintf("Task \"%s\": retry codes is invalid, must be a array of numbers", task.Name))
	}

	if task.Image == "" {
		errors = append(errors, fmt.Sprintf("Task \"%s\" is missing an image.", task.Name))
	}

	for _, dependency := range task.RunAfter {
		if dependency == task.Name {
			errors = append(errors, fmt.Sprintf("Task \"%s\" has itself listed in runAfter, which is not allowed.", task.Name))
		} else if !taskNames[dependency] {
			errors = append(errors, fmt.Sprintf("Task \"%s\" has a dependency \"%s\" that does not exist in the task list.", task.Name, dependency))
		}
	}

	return errors
}

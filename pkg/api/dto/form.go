package dto

import (
	"fmt"
	"time"

	"github.com/GreedyKomodoDragon/Kontroler/internal/dagform"
	"github.com/GreedyKomodoDragon/Kontroler/internal/session"
	"github.com/GreedyKomodoDragon/Kontroler/pkg/models"
	"github.com/google/uuid"
)

// Action types accepted by the form actions endpoint
const (
	ActionAddTask                 = "addTask"
	ActionDeleteTask              = "deleteTask"
	ActionSetTaskField            = "setTaskField"
	ActionAddRunAfter             = "addRunAfter"
	ActionRemoveRunAfter          = "removeRunAfter"
	ActionAddParameterToTask      = "addParameterToTask"
	ActionRemoveParameterFromTask = "removeParameterFromTask"
	ActionAddParameter            = "addParameter"
	ActionDeleteParameter         = "deleteParameter"
	ActionRenameParameter         = "renameParameter"
	ActionToggleSecret            = "toggleSecret"
	ActionSetParameterValue       = "setParameterValue"
	ActionSetDagField             = "setDagField"
)

// CreateFormRequest starts an authoring session, optionally from an existing
// DAG document in YAML or JSON.
type CreateFormRequest struct {
	Namespace string `json:"namespace" validate:"omitempty,max=63"`
	Document  string `json:"document"`
	Format    string `json:"format" validate:"omitempty,oneof=yaml json"`
}

// ActionRequest is one form edit. Index addresses a task for task actions
// and a parameter for parameter actions.
type ActionRequest struct {
	Type        string `json:"type" validate:"required,oneof=addTask deleteTask setTaskField addRunAfter removeRunAfter addParameterToTask removeParameterFromTask addParameter deleteParameter renameParameter toggleSecret setParameterValue setDagField"`
	Index       *int   `json:"index" validate:"omitempty,min=0"`
	Field       string `json:"field" validate:"omitempty,oneof=name namespace schedule command args image backoffLimit retryCodes podTemplate script"`
	Value       string `json:"value"`
	Predecessor string `json:"predecessor"`
	ParameterID string `json:"parameterId"`
	Name        string `json:"name"`
}

// ToAction converts the request into a form action
func (r ActionRequest) ToAction() (dagform.Action, error) {
	index := func() (int, error) {
		if r.Index == nil {
			return 0, fmt.Errorf("index is required for %s", r.Type)
		}
		return *r.Index, nil
	}

	switch r.Type {
	case ActionAddTask:
		return dagform.AddTask{}, nil
	case ActionAddParameter:
		id := r.ParameterID
		if id == "" {
			id = uuid.NewString()
		}
		return dagform.AddParameter{ID: id}, nil
	case ActionSetDagField:
		switch dagform.DagField(r.Field) {
		case dagform.DagFieldName, dagform.DagFieldNamespace, dagform.DagFieldSchedule:
			return dagform.SetDagField{Field: dagform.DagField(r.Field), Value: r.Value}, nil
		}
		return nil, fmt.Errorf("field %q is not a DAG field", r.Field)
	}

	i, err := index()
	if err != nil {
		return nil, err
	}

	switch r.Type {
	case ActionDeleteTask:
		return dagform.DeleteTask{Index: i}, nil
	case ActionSetTaskField:
		switch field := dagform.TaskField(r.Field); field {
		case dagform.TaskFieldName, dagform.TaskFieldCommand, dagform.TaskFieldArgs, dagform.TaskFieldImage,
			dagform.TaskFieldBackoffLimit, dagform.TaskFieldRetryCodes, dagform.TaskFieldPodTemplate, dagform.TaskFieldScript:
			return dagform.SetTaskField{Index: i, Field: field, Value: r.Value}, nil
		}
		return nil, fmt.Errorf("field %q is not a task field", r.Field)
	case ActionAddRunAfter:
		return dagform.AddRunAfter{Index: i, Predecessor: r.Predecessor}, nil
	case ActionRemoveRunAfter:
		return dagform.RemoveRunAfter{Index: i, Predecessor: r.Predecessor}, nil
	case ActionAddParameterToTask:
		return dagform.AddParameterToTask{Index: i, ParameterID: r.ParameterID}, nil
	case ActionRemoveParameterFromTask:
		return dagform.RemoveParameterFromTask{Index: i, ParameterID: r.ParameterID}, nil
	case ActionDeleteParameter:
		return dagform.DeleteParameter{Index: i}, nil
	case ActionRenameParameter:
		return dagform.RenameParameter{Index: i, Name: r.Name}, nil
	case ActionToggleSecret:
		return dagform.ToggleSecret{Index: i}, nil
	case ActionSetParameterValue:
		return dagform.SetParameterValue{Index: i, Value: r.Value}, nil
	}

	return nil, fmt.Errorf("unknown action type %q", r.Type)
}

// FormResponse is the current state of an authoring session
type FormResponse struct {
	ID        string            `json:"id"`
	Form      models.DagFormObj `json:"form"`
	Errors    []string          `json:"errors"`
	UpdatedAt time.Time         `json:"updatedAt"`
	Version   int64             `json:"version"`
}

// ToFormResponse renders a session together with its validation errors
func ToFormResponse(s *session.Session, errors []string) FormResponse {
	return FormResponse{
		ID:        s.ID,
		Form:      s.Form,
		Errors:    errors,
		UpdatedAt: s.UpdatedAt,
		Version:   s.Version,
	}
}

// ValidateResponse lists the problems blocking submission
type ValidateResponse struct {
	Valid  bool     `json:"valid"`
	Errors []string `json:"errors"`
}

// SubmitResponse is returned when the backend accepted a DAG
type SubmitResponse struct {
	Message string `json:"message"`
}

// SchedulePreviewQuery selects how many upcoming runs to show, optionally for
// a schedule other than the form's.
type SchedulePreviewQuery struct {
	N        int    `form:"n" validate:"omitempty,min=1,max=50"`
	Schedule string `form:"schedule" validate:"omitempty,cron"`
}

// SchedulePreviewResponse lists upcoming run times
type SchedulePreviewResponse struct {
	Schedule string      `json:"schedule"`
	Times    []time.Time `json:"times"`
}

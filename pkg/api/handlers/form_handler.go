package handlers

import (
	"errors"
	"net/http"
	"time"

	"github.com/GreedyKomodoDragon/Kontroler/internal/auth"
	"github.com/GreedyKomodoDragon/Kontroler/internal/client"
	"github.com/GreedyKomodoDragon/Kontroler/internal/dag"
	"github.com/GreedyKomodoDragon/Kontroler/internal/dagform"
	"github.com/GreedyKomodoDragon/Kontroler/internal/session"
	"github.com/GreedyKomodoDragon/Kontroler/pkg/api/dto"
	"github.com/GreedyKomodoDragon/Kontroler/pkg/api/middleware"
	"github.com/gin-gonic/gin"
)

const (
	defaultNamespace    = "default"
	defaultPreviewCount = 5
)

// FormHandler serves DAG authoring sessions
type FormHandler struct {
	store    session.Store
	backend  client.Client
	parser   *dagform.Parser
	reporter auth.ErrorReporter
	now      func() time.Time
}

// NewFormHandler creates a new form handler. Submission failures are sent to
// reporter as well as returned to the caller.
func NewFormHandler(store session.Store, backend client.Client, reporter auth.ErrorReporter) *FormHandler {
	return &FormHandler{
		store:    store,
		backend:  backend,
		parser:   dagform.NewParser(),
		reporter: reporter,
		now:      time.Now,
	}
}

// CreateForm handles POST /api/v1/forms
// @Summary Start an authoring session
// @Tags forms
// @Accept json
// @Produce json
// @Param form body dto.CreateFormRequest false "Namespace and optional document to import"
// @Success 201 {object} dto.FormResponse
// @Failure 400 {object} dto.ErrorResponse
// @Router /api/v1/forms [post]
func (h *FormHandler) CreateForm(c *gin.Context) {
	var req dto.CreateFormRequest
	if c.Request.ContentLength != 0 && !middleware.BindAndValidate(c, &req) {
		return
	}

	namespace := req.Namespace
	if namespace == "" {
		namespace = defaultNamespace
	}

	form := dagform.NewForm(namespace).State()
	if req.Document != "" {
		var err error
		if req.Format == "json" {
			form, err = h.parser.ParseJSON([]byte(req.Document))
		} else {
			form, err = h.parser.ParseYAML([]byte(req.Document))
		}
		if err != nil {
			middleware.AbortWithError(c, http.StatusBadRequest, "INVALID_DOCUMENT", err.Error())
			return
		}
		if req.Namespace != "" {
			form.Namespace = req.Namespace
		}
	}

	s := session.New(middleware.GetAuthState(c).Username(), form)
	if err := h.store.Save(c.Request.Context(), s); err != nil {
		middleware.AbortWithError(c, http.StatusInternalServerError, "SESSION_SAVE_FAILED", err.Error())
		return
	}

	c.JSON(http.StatusCreated, dto.ToFormResponse(s, dag.ValidateDagFormObj(s.Form)))
}

// GetForm handles GET /api/v1/forms/:id
// @Summary Get an authoring session
// @Tags forms
// @Produce json
// @Param id path string true "Session ID"
// @Success 200 {object} dto.FormResponse
// @Failure 404 {object} dto.ErrorResponse
// @Router /api/v1/forms/{id} [get]
func (h *FormHandler) GetForm(c *gin.Context) {
	s, ok := h.loadSession(c)
	if !ok {
		return
	}

	c.JSON(http.StatusOK, dto.ToFormResponse(s, dag.ValidateDagFormObj(s.Form)))
}

// ApplyAction handles POST /api/v1/forms/:id/actions
// @Summary Apply one edit to an authoring session
// @Tags forms
// @Accept json
// @Produce json
// @Param id path string true "Session ID"
// @Param action body dto.ActionRequest true "Form action"
// @Success 200 {object} dto.FormResponse
// @Failure 400 {object} dto.ErrorResponse
// @Failure 404 {object} dto.ErrorResponse
// @Failure 409 {object} dto.ErrorResponse
// @Router /api/v1/forms/{id}/actions [post]
func (h *FormHandler) ApplyAction(c *gin.Context) {
	var req dto.ActionRequest
	if !middleware.BindAndValidate(c, &req) {
		return
	}

	action, err := req.ToAction()
	if err != nil {
		middleware.AbortWithError(c, http.StatusBadRequest, "INVALID_ACTION", err.Error())
		return
	}

	s, ok := h.loadSession(c)
	if !ok {
		return
	}

	form := dagform.FromState(s.Form)
	form.Dispatch(action)
	s.Form = form.State()

	if err := h.store.Save(c.Request.Context(), s); err != nil {
		if errors.Is(err, session.ErrConflict) {
			middleware.AbortWithError(c, http.StatusConflict, "SESSION_CONFLICT", "The form was changed by another request, reload it and retry")
			return
		}
		middleware.AbortWithError(c, http.StatusInternalServerError, "SESSION_SAVE_FAILED", err.Error())
		return
	}

	c.JSON(http.StatusOK, dto.ToFormResponse(s, dag.ValidateDagFormObj(s.Form)))
}

// ValidateForm handles POST /api/v1/forms/:id/validate
// @Summary Validate an authoring session
// @Tags forms
// @Produce json
// @Param id path string true "Session ID"
// @Success 200 {object} dto.ValidateResponse
// @Failure 404 {object} dto.ErrorResponse
// @Router /api/v1/forms/{id}/validate [post]
func (h *FormHandler) ValidateForm(c *gin.Context) {
	s, ok := h.loadSession(c)
	if !ok {
		return
	}

	errs := dag.ValidateDagFormObj(s.Form)
	c.JSON(http.StatusOK, dto.ValidateResponse{Valid: len(errs) == 0, Errors: errs})
}

// SubmitForm handles POST /api/v1/forms/:id/submit
// @Summary Submit an authoring session to the backend
// @Description Validates the form and creates the DAG. The session is removed
// @Description on success and kept unchanged on any failure.
// @Tags forms
// @Produce json
// @Param id path string true "Session ID"
// @Success 201 {object} dto.SubmitResponse
// @Failure 422 {object} dto.ValidateResponse
// @Failure 404 {object} dto.ErrorResponse
// @Router /api/v1/forms/{id}/submit [post]
func (h *FormHandler) SubmitForm(c *gin.Context) {
	s, ok := h.loadSession(c)
	if !ok {
		return
	}

	if errs := dag.ValidateDagFormObj(s.Form); len(errs) > 0 {
		c.JSON(http.StatusUnprocessableEntity, dto.ValidateResponse{Valid: false, Errors: errs})
		return
	}

	message, err := h.backend.CreateDag(c.Request.Context(), dagform.FromState(s.Form).Submission())
	if err != nil {
		var apiErr *client.APIError
		if errors.As(err, &apiErr) {
			h.reporter.Report(apiErr.Message)
		} else {
			h.reporter.Report(err.Error())
		}
		middleware.AbortWithBackendError(c, err)
		return
	}

	if err := h.store.Delete(c.Request.Context(), s.ID); err != nil {
		_ = c.Error(err)
	}

	c.JSON(http.StatusCreated, dto.SubmitResponse{Message: message})
}

// DeleteForm handles DELETE /api/v1/forms/:id
// @Summary Abandon an authoring session
// @Tags forms
// @Param id path string true "Session ID"
// @Success 204
// @Failure 404 {object} dto.ErrorResponse
// @Router /api/v1/forms/{id} [delete]
func (h *FormHandler) DeleteForm(c *gin.Context) {
	s, ok := h.loadSession(c)
	if !ok {
		return
	}

	if err := h.store.Delete(c.Request.Context(), s.ID); err != nil {
		middleware.AbortWithError(c, http.StatusInternalServerError, "SESSION_DELETE_FAILED", err.Error())
		return
	}

	c.Status(http.StatusNoContent)
}

// PreviewSchedule handles GET /api/v1/forms/:id/schedule/preview
// @Summary Upcoming run times of the form's schedule
// @Tags forms
// @Produce json
// @Param id path string true "Session ID"
// @Param n query int false "Number of runs" default(5)
// @Param schedule query string false "Schedule to preview instead of the form's"
// @Success 200 {object} dto.SchedulePreviewResponse
// @Failure 400 {object} dto.ErrorResponse
// @Router /api/v1/forms/{id}/schedule/preview [get]
func (h *FormHandler) PreviewSchedule(c *gin.Context) {
	var query dto.SchedulePreviewQuery
	if !middleware.BindQueryAndValidate(c, &query) {
		return
	}
	if query.N == 0 {
		query.N = defaultPreviewCount
	}

	s, ok := h.loadSession(c)
	if !ok {
		return
	}

	schedule := query.Schedule
	if schedule == "" {
		schedule = s.Form.Schedule
	}

	times, err := dagform.SchedulePreview(schedule, h.now(), query.N)
	if err != nil {
		middleware.AbortWithError(c, http.StatusBadRequest, "INVALID_SCHEDULE", err.Error())
		return
	}
	if times == nil {
		times = []time.Time{}
	}

	c.JSON(http.StatusOK, dto.SchedulePreviewResponse{Schedule: schedule, Times: times})
}

// ExportForm handles GET /api/v1/forms/:id/export
// @Summary Download the form as a YAML document
// @Tags forms
// @Produce application/yaml
// @Param id path string true "Session ID"
// @Success 200 {string} string
// @Router /api/v1/forms/{id}/export [get]
func (h *FormHandler) ExportForm(c *gin.Context) {
	s, ok := h.loadSession(c)
	if !ok {
		return
	}

	data, err := dagform.Marshal(s.Form)
	if err != nil {
		middleware.AbortWithError(c, http.StatusInternalServerError, "EXPORT_FAILED", err.Error())
		return
	}

	c.Data(http.StatusOK, "application/yaml", data)
}

// loadSession fetches the session named in the path. Sessions owned by
// another user are reported as missing.
func (h *FormHandler) loadSession(c *gin.Context) (*session.Session, bool) {
	s, err := h.store.Get(c.Request.Context(), c.Param("id"))
	if errors.Is(err, session.ErrNotFound) || (err == nil && s.Owner != middleware.GetAuthState(c).Username()) {
		middleware.AbortWithError(c, http.StatusNotFound, "SESSION_NOT_FOUND", "Authoring session not found")
		return nil, false
	}
	if err != nil {
		middleware.AbortWithError(c, http.StatusInternalServerError, "SESSION_LOAD_FAILED", err.Error())
		return nil, false
	}
	return s, true
}

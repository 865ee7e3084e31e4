package client

import (
	"context"
	"fmt"
	"net/http"
	"net/url"
	"strconv"

	"github.com/GreedyKomodoDragon/Kontroler/pkg/models"
)

func (c *client) CreateDag(ctx context.Context, form models.DagFormObj) (string, error) {
	var resp struct {
		Message string `json:"message"`
	}
	err := c.call(ctx, http.MethodPost, c.apipath(c.api, "api", "v1", "dag", "create"), form, &resp, MessageFor{
		StatusNetwork:                  "Network error occurred while creating DAG.",
		http.StatusBadRequest:          "The DAG definition was rejected as malformed.",
		http.StatusForbidden:           "You do not have permission to create DAGs, must be at least an 'Editor'",
		http.StatusNotFound:            fmt.Sprintf("Namespace '%s' not found.", form.Namespace),
		http.StatusConflict:            fmt.Sprintf("DAG '%s' conflicts with an existing DAG, please try again.", form.Name),
		http.StatusInternalServerError: "Server error occurred while creating DAG.",
	})
	if err != nil {
		return "", err
	}
	return resp.Message, nil
}

// GetDagNames searches DAG names containing term. An empty term matches
// nothing and makes no call.
func (c *client) GetDagNames(ctx context.Context, term string) ([]string, error) {
	if term == "" {
		return []string{}, nil
	}

	var resp struct {
		Names []string `json:"names"`
	}
	target := c.apipath(c.api, "api", "v1", "dag", "names") + "?" + url.Values{"term": {term}}.Encode()
	if err := c.call(ctx, http.MethodGet, target, nil, &resp, nil); err != nil {
		return nil, err
	}
	if resp.Names == nil {
		return []string{}, nil
	}
	return resp.Names, nil
}

// GetDagParameters returns the parameters of a DAG. An empty name makes no
// call.
func (c *client) GetDagParameters(ctx context.Context, name string) ([]models.Parameter, error) {
	if name == "" {
		return []models.Parameter{}, nil
	}

	var resp struct {
		Parameters []models.Parameter `json:"parameters"`
	}
	target := c.apipath(c.api, "api", "v1", "dag", "parameters") + "?" + url.Values{"name": {name}}.Encode()
	if err := c.call(ctx, http.MethodGet, target, nil, &resp, MessageFor{
		http.StatusNotFound: fmt.Sprintf("DAG '%s' not found.", name),
	}); err != nil {
		return nil, err
	}
	if resp.Parameters == nil {
		return []models.Parameter{}, nil
	}
	return resp.Parameters, nil
}

func (c *client) GetDags(ctx context.Context, page int) ([]models.Dag, error) {
	var resp struct {
		Dags []models.Dag `json:"dags"`
	}
	target := c.apipath(c.api, "api", "v1", "dag", "meta", strconv.Itoa(page))
	if err := c.call(ctx, http.MethodGet, target, nil, &resp, nil); err != nil {
		return nil, err
	}
	return resp.Dags, nil
}

func (c *client) GetDagRuns(ctx context.Context, page int) ([]models.DagRunMeta, error) {
	var runs []models.DagRunMeta
	target := c.apipath(c.api, "api", "v1", "dag", "runs", strconv.Itoa(page))
	if err := c.call(ctx, http.MethodGet, target, nil, &runs, nil); err != nil {
		return nil, err
	}
	return runs, nil
}

func (c *client) GetDagRunAll(ctx context.Context, runID int) (models.DagRunAll, error) {
	var run models.DagRunAll
	target := c.apipath(c.api, "api", "v1", "dag", "run", "all", strconv.Itoa(runID))
	if err := c.call(ctx, http.MethodGet, target, nil, &run, MessageFor{
		http.StatusNotFound: fmt.Sprintf("DAG run %d not found.", runID),
	}); err != nil {
		return models.DagRunAll{}, err
	}
	return run, nil
}

func (c *client) GetTaskRunDetails(ctx context.Context, runID, taskID int) (models.TaskRunDetails, error) {
	var details models.TaskRunDetails
	target := c.apipath(c.api, "api", "v1", "dag", "run", "task", strconv.Itoa(runID), strconv.Itoa(taskID))
	if err := c.call(ctx, http.MethodGet, target, nil, &details, MessageFor{
		http.StatusNotFound: fmt.Sprintf("Task %d not found in DAG run %d.", taskID, runID),
	}); err != nil {
		return models.TaskRunDetails{}, err
	}
	return details, nil
}

func (c *client) GetTaskDetails(ctx context.Context, taskID int) (models.TaskDetails, error) {
	var details models.TaskDetails
	target := c.apipath(c.api, "api", "v1", "dag", "task", strconv.Itoa(taskID))
	if err := c.call(ctx, http.MethodGet, target, nil, &details, MessageFor{
		http.StatusNotFound: fmt.Sprintf("Task %d not found.", taskID),
	}); err != nil {
		return models.TaskDetails{}, err
	}
	return details, nil
}

func (c *client) GetDashboardStats(ctx context.Context) (models.DashboardStats, error) {
	var stats models.DashboardStats
	if err := c.call(ctx, http.MethodGet, c.apipath(c.api, "api", "v1", "stats", "dashboard"), nil, &stats, nil); err != nil {
		return models.DashboardStats{}, err
	}
	return stats, nil
}

func (c *client) CreateDagRun(ctx context.Context, form models.DagRunForm) error {
	return c.call(ctx, http.MethodPost, c.apipath(c.api, "api", "v1", "dag", "run", "create"), form, nil, MessageFor{
		StatusNetwork:                  "Network error occurred while creating DAG run.",
		http.StatusForbidden:           "You do not have permission to create DAG runs, must be at least an 'Editor'",
		http.StatusNotFound:            fmt.Sprintf("DAG '%s' not found in namespace '%s'.", form.Name, form.Namespace),
		http.StatusInternalServerError: "Server error occurred while creating DAG run.",
	})
}

func (c *client) DeleteDag(ctx context.Context, namespace, name string) error {
	return c.call(ctx, http.MethodDelete, c.apipath(c.api, "api", "v1", "dag", "dag", namespace, name), nil, nil, MessageFor{
		StatusNetwork:                  "Network error occurred while deleting DAG",
		http.StatusForbidden:           "You don't have permission to delete this DAG",
		http.StatusNotFound:            fmt.Sprintf("DAG '%s' not found in namespace '%s'", name, namespace),
		http.StatusConflict:            "The DAG has been modified, please try again",
		http.StatusInternalServerError: "Failed to delete DAG",
	})
}

func (c *client) CheckAuth(ctx context.Context) (models.AuthCheck, error) {
	var check models.AuthCheck
	if err := c.call(ctx, http.MethodGet, c.apipath(c.auth, "api", "v1", "auth", "check"), nil, &check, nil); err != nil {
		return models.AuthCheck{}, err
	}
	return check, nil
}

package dto

import "github.com/GreedyKomodoDragon/Kontroler/pkg/models"

// NamesResponse lists DAG names matching a search term
type NamesResponse struct {
	Names []string `json:"names"`
}

// ParametersResponse lists the parameters of a DAG
type ParametersResponse struct {
	Parameters []models.Parameter `json:"parameters"`
}

// CreateRunRequest starts a run of an existing DAG
type CreateRunRequest struct {
	Name       string            `json:"name" validate:"required,dagname"`
	RunName    string            `json:"runName" validate:"required,max=63"`
	Namespace  string            `json:"namespace" validate:"required,max=63"`
	Parameters map[string]string `json:"parameters"`
}

// ToDagRunForm converts the request to the backend payload
func (r CreateRunRequest) ToDagRunForm() models.DagRunForm {
	params := r.Parameters
	if params == nil {
		params = map[string]string{}
	}
	return models.DagRunForm{
		Name:       r.Name,
		RunName:    r.RunName,
		Namespace:  r.Namespace,
		Parameters: params,
	}
}

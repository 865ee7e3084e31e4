package dagform

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/GreedyKomodoDragon/Kontroler/pkg/models"
	"github.com/goccy/go-yaml"
	"github.com/google/uuid"
)

// Parser reads DAG form documents written outside the dashboard
type Parser struct {
	newID func() string
}

// NewParser creates a new DAG form parser
func NewParser() *Parser {
	return &Parser{newID: uuid.NewString}
}

// ParseFile parses a DAG form from a .yaml, .yml or .json file
func (p *Parser) ParseFile(path string) (models.DagFormObj, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return models.DagFormObj{}, fmt.Errorf("failed to read file: %w", err)
	}

	switch strings.ToLower(filepath.Ext(path)) {
	case ".json":
		return p.ParseJSON(data)
	default:
		return p.ParseYAML(data)
	}
}

// ParseYAML parses a DAG form from YAML bytes
func (p *Parser) ParseYAML(data []byte) (models.DagFormObj, error) {
	var form models.DagFormObj
	if err := yaml.Unmarshal(data, &form); err != nil {
		return models.DagFormObj{}, fmt.Errorf("failed to unmarshal YAML: %w", err)
	}

	return p.normalize(form), nil
}

// ParseJSON parses a DAG form from JSON bytes
func (p *Parser) ParseJSON(data []byte) (models.DagFormObj, error) {
	var form models.DagFormObj
	if err := json.Unmarshal(data, &form); err != nil {
		return models.DagFormObj{}, fmt.Errorf("failed to unmarshal JSON: %w", err)
	}

	return p.normalize(form), nil
}

// normalize gives every parameter an ID and lets task parameter references
// use either the ID or the parameter name.
func (p *Parser) normalize(form models.DagFormObj) models.DagFormObj {
	if form.Namespace == "" {
		form.Namespace = "default"
	}

	ids := make(map[string]bool, len(form.Parameters))
	byName := make(map[string]string, len(form.Parameters))
	for i := range form.Parameters {
		if form.Parameters[i].ID == "" {
			form.Parameters[i].ID = p.newID()
		}
		ids[form.Parameters[i].ID] = true
		if _, seen := byName[form.Parameters[i].Name]; !seen {
			byName[form.Parameters[i].Name] = form.Parameters[i].ID
		}
	}

	for i := range form.Tasks {
		refs := form.Tasks[i].Parameters
		for j, ref := range refs {
			if ids[ref] {
				continue
			}
			if id, ok := byName[ref]; ok {
				refs[j] = id
			}
		}
	}

	return form
}

// Marshal renders a DAG form as YAML
func Marshal(form models.DagFormObj) ([]byte, error) {
	data, err := yaml.Marshal(form)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal YAML: %w", err)
	}
	return data, nil
}

package dagform

import (
	"encoding/json"
	"fmt"
	"strings"

	"github.com/goccy/go-yaml"
)

// PodTemplateYAML renders a task's pod template overlay as YAML for display.
// JSON input is converted; input that is already YAML is checked and returned
// unchanged.
func PodTemplateYAML(podTemplate string) (string, error) {
	trimmed := strings.TrimSpace(podTemplate)
	if trimmed == "" {
		return "", nil
	}

	if json.Valid([]byte(trimmed)) {
		out, err := yaml.JSONToYAML([]byte(trimmed))
		if err != nil {
			return "", fmt.Errorf("failed to convert pod template: %w", err)
		}
		return string(out), nil
	}

	var probe interface{}
	if err := yaml.Unmarshal([]byte(trimmed), &probe); err != nil {
		return "", fmt.Errorf("pod template is neither JSON nor YAML: %w", err)
	}
	return podTemplate, nil
}

package layout

import "github.com/GreedyKomodoDragon/Kontroler/pkg/models"

const (
	ColorSuccess = "#10B981"
	ColorRunning = "#3B82F6"
	ColorNeutral = "#6B7280"
	ColorFailed  = "#EF4444"

	colorEdge        = "#FFFFFF"
	colorEdgeHover   = "#F59E0B"
	colorBorder      = "#34495E"
	colorSelected    = "#F0F8FF"
	edgeWidth        = 2.0
	edgeWidthHovered = 4.0
)

// StatusColor picks the fill for a task. Tasks with no recorded status are
// neutral; any status that is not pending, running or success is a failure.
func StatusColor(taskInfo map[string]models.TaskInfo, taskID string) string {
	info, ok := taskInfo[taskID]
	if !ok {
		return ColorNeutral
	}

	switch info.Status {
	case models.StatusSuccess:
		return ColorSuccess
	case models.StatusRunning:
		return ColorRunning
	case models.StatusPending, "":
		return ColorNeutral
	default:
		return ColorFailed
	}
}

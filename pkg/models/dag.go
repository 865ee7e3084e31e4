package models

// Dag is the summary of a DAG definition as listed by the backend
type Dag struct {
	DagID       string              `json:"dagId"`
	Name        string              `json:"name"`
	Schedule    string              `json:"schedule"`
	Version     int                 `json:"version"`
	Active      bool                `json:"active"`
	NextTime    string              `json:"nexttime"`
	Connections map[string][]string `json:"connections"`
}

// DagRunMeta is one row of the DAG run listing
type DagRunMeta struct {
	ID              int    `json:"id"`
	DagID           int    `json:"dagId"`
	Status          Status `json:"status"`
	SuccessfulCount int    `json:"successfulCount"`
	FailedCount     int    `json:"failedCount"`
}

// DagRunGraph is the dependency graph of a run together with per-task status
type DagRunGraph struct {
	Connections map[string][]string `json:"connections"`
	TaskInfo    map[string]TaskInfo `json:"taskInfo"`
}

// DagRunAll combines run metadata and its graph
type DagRunAll struct {
	ID              int                 `json:"id"`
	DagID           int                 `json:"dagId"`
	Status          Status              `json:"status"`
	SuccessfulCount int                 `json:"successfulCount"`
	FailedCount     int                 `json:"failedCount"`
	Connections     map[string][]string `json:"connections"`
	TaskInfo        map[string]TaskInfo `json:"taskInfo"`
}

// Graph returns the run's dependency graph
func (r *DagRunAll) Graph() DagRunGraph {
	return DagRunGraph{Connections: r.Connections, TaskInfo: r.TaskInfo}
}

// TaskInfo carries the execution status of a task within a run
type TaskInfo struct {
	ID     int    `json:"id,omitempty"`
	Status Status `json:"status"`
}

// TaskPod is a pod created for one attempt of a task
type TaskPod struct {
	PodUID   string `json:"podUID"`
	Status   string `json:"status"`
	Name     string `json:"name"`
	ExitCode int    `json:"exitCode"`
}

// TaskRunDetails describes a task inside a specific run
type TaskRunDetails struct {
	ID       int       `json:"id"`
	Status   Status    `json:"status"`
	Attempts int       `json:"attempts"`
	Pods     []TaskPod `json:"pods"`
}

// TaskDetails describes the static definition of a task
type TaskDetails struct {
	ID           int      `json:"id"`
	Name         string   `json:"name"`
	Command      []string `json:"command"`
	Args         []string `json:"args"`
	Script       string   `json:"script,omitempty"`
	Image        string   `json:"image"`
	BackoffLimit int      `json:"backoffLimit"`
	RetryCodes   []int    `json:"retryCodes"`
	Parameters   []string `json:"parameters"`
	PodTemplate  string   `json:"podTemplate,omitempty"`
}

// DagTaskDetails is one row of the task listing page
type DagTaskDetails struct {
	ID          int      `json:"id"`
	Name        string   `json:"name"`
	Image       string   `json:"image"`
	Command     []string `json:"command"`
	Args        []string `json:"args"`
	Script      string   `json:"script,omitempty"`
	PodTemplate string   `json:"podTemplate,omitempty"`
}

// DashboardStats holds the counters shown on the landing page
type DashboardStats struct {
	DagCount          int            `json:"dag_count"`
	SuccessfulDagRuns int            `json:"successful_dag_runs"`
	FailedDagRuns     int            `json:"failed_dag_runs"`
	TotalDagRuns      int            `json:"total_dag_runs"`
	ActiveDagRuns     int            `json:"active_dag_runs"`
	DagTypeCounts     map[string]int `json:"dag_type_counts"`
	TaskOutcomes      map[string]int `json:"task_outcomes"`
}

// DagRunForm is the payload that starts a run of an existing DAG
type DagRunForm struct {
	Name       string            `json:"name"`
	RunName    string            `json:"runName"`
	Parameters map[string]string `json:"parameters"`
	Namespace  string            `json:"namespace"`
}

// User is an account known to the backend
type User struct {
	Username string `json:"username"`
	Role     string `json:"role"`
}

// AuthCheck is the backend's answer to a session check
type AuthCheck struct {
	Username string `json:"username"`
	Role     string `json:"role"`
}

// Status represents the execution status of a DAG run or task
type Status string

const (
	StatusPending Status = "pending"
	StatusRunning Status = "running"
	StatusSuccess Status = "success"
	StatusFailed  Status = "failed"
)

// IsTerminal returns true if no further transitions are expected
func (s Status) IsTerminal() bool {
	return s == StatusSuccess || s == StatusFailed
}

// Parameter is a DAG parameter as reported for pre-filling a run form
type Parameter struct {
	ID           int    `json:"id"`
	Name         string `json:"name"`
	IsSecret     bool   `json:"isSecret"`
	DefaultValue string `json:"defaultValue"`
}

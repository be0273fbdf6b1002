package platform

import "time"

// Project is a platform project.
type Project struct {
	ID          string   `json:"id"`
	Name        string   `json:"name"`
	Owner       string   `json:"ownerUsername"`
	Description string   `json:"description,omitempty"`
	Visibility  string   `json:"visibility,omitempty"`
	Tags        []Tag    `json:"tags,omitempty"`
	Collabs     []string `json:"collaborators,omitempty"`
}

// Tag is a project tag.
type Tag struct {
	ID   string `json:"id,omitempty"`
	Name string `json:"name"`
}

// Collaborator is a project collaborator entry.
type Collaborator struct {
	ID    string `json:"id,omitempty"`
	Email string `json:"email,omitempty"`
	Role  string `json:"projectRole,omitempty"`
}

// Run is a job execution on the platform.
type Run struct {
	ID             string    `json:"id"`
	ProjectID      string    `json:"projectId,omitempty"`
	Title          string    `json:"title,omitempty"`
	Command        []string  `json:"command,omitempty"`
	Status         string    `json:"status"`
	StartedAt      time.Time `json:"started,omitempty"`
	CompletedAt    time.Time `json:"completed,omitempty"`
	HardwareTierID string    `json:"hardwareTierId,omitempty"`
}

// Terminal run statuses as reported by the platform.
const (
	RunStatusSucceeded = "Succeeded"
	RunStatusFailed    = "Failed"
	RunStatusStopped   = "Stopped"
	RunStatusError     = "Error"
)

// RunTerminal reports whether a run status is terminal.
func RunTerminal(status string) bool {
	switch status {
	case RunStatusSucceeded, RunStatusFailed, RunStatusStopped, RunStatusError:
		return true
	}
	return false
}

// Dataset is a platform dataset.
type Dataset struct {
	ID          string `json:"id"`
	Name        string `json:"name"`
	ProjectID   string `json:"projectId,omitempty"`
	Description string `json:"description,omitempty"`
	SizeBytes   int64  `json:"sizeInBytes,omitempty"`
}

// DatasetSnapshot is a point-in-time snapshot of a dataset.
type DatasetSnapshot struct {
	ID        string    `json:"id"`
	DatasetID string    `json:"datasetId"`
	CreatedAt time.Time `json:"createdAt,omitempty"`
}

// FileEntry is one entry in a project file listing.
type FileEntry struct {
	Path      string `json:"path"`
	Name      string `json:"name,omitempty"`
	Size      int64  `json:"size,omitempty"`
	Directory bool   `json:"isDir,omitempty"`
}

// Workspace is an interactive compute environment (notebook, IDE).
type Workspace struct {
	ID             string `json:"id"`
	Name           string `json:"name"`
	ProjectID      string `json:"projectId,omitempty"`
	TemplateName   string `json:"workspaceTemplateName,omitempty"`
	HardwareTierID string `json:"hardwareTierId,omitempty"`
	State          string `json:"state,omitempty"`
}

// WorkspaceSession is a running (or provisioning) workspace session.
type WorkspaceSession struct {
	ID          string `json:"id"`
	WorkspaceID string `json:"workspaceId,omitempty"`
	State       string `json:"state"`
}

// SessionRunning is the terminal "ready" state of a workspace session.
const SessionRunning = "Running"

// Environment is a compute environment definition.
type Environment struct {
	ID               string `json:"id"`
	Name             string `json:"name"`
	Visibility       string `json:"visibility,omitempty"`
	LatestRevisionID string `json:"latestRevisionId,omitempty"`
}

// EnvironmentRevision is one revision (image build) of an environment.
type EnvironmentRevision struct {
	ID          string `json:"id"`
	Number      int    `json:"number,omitempty"`
	BuildStatus string `json:"status"`
}

// Revision build statuses.
const (
	BuildSucceeded = "Succeeded"
	BuildFailed    = "Failed"
)

// HardwareTier is a named compute-resource profile.
type HardwareTier struct {
	ID        string  `json:"id"`
	Name      string  `json:"name"`
	Cores     float64 `json:"cores,omitempty"`
	MemoryGiB float64 `json:"memory,omitempty"`
	IsDefault bool    `json:"isDefault,omitempty"`
	// Model API tiers host model endpoints and are never valid targets
	// for jobs or workspaces.
	IsModelAPI bool `json:"isModelApi,omitempty"`
}

// Model is a published model.
type Model struct {
	ID     string `json:"id"`
	Name   string `json:"name"`
	Status string `json:"status,omitempty"`
}

// App is a published app.
type App struct {
	ID     string `json:"id"`
	Name   string `json:"name"`
	Status string `json:"status,omitempty"`
}

// AdminExecution is one row from the admin executions listing.
type AdminExecution struct {
	ID        string `json:"id"`
	Status    string `json:"status,omitempty"`
	Kind      string `json:"executionType,omitempty"`
	StartedBy string `json:"startedBy,omitempty"`
}

// AdminNode is one compute node from the admin infrastructure listing.
type AdminNode struct {
	Name     string                 `json:"name"`
	Role     string                 `json:"role,omitempty"`
	Capacity map[string]interface{} `json:"capacity,omitempty"`
}

// Organization is one entry from the admin organizations listing.
type Organization struct {
	ID   string `json:"id"`
	Name string `json:"name"`
}

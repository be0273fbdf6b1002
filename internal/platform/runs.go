package platform

import (
	"context"
	"fmt"
	"net/http"
)

// ListRuns returns the runs of a project.
func (c *Client) ListRuns(ctx context.Context, owner, project string) ([]Run, error) {
	path := "/v1/projects/" + escapePathSegment(owner) + "/" + escapePathSegment(project) + "/runs"
	var result struct {
		Data []Run `json:"data"`
	}
	if err := c.do(ctx, http.MethodGet, path, nil, nil, &result); err != nil {
		return nil, fmt.Errorf("failed to list runs for %s/%s: %w", owner, project, err)
	}
	return result.Data, nil
}

// StartRunRequest describes a job to start.
type StartRunRequest struct {
	Command          []string `json:"command"`
	Title            string   `json:"title,omitempty"`
	CommitID         string   `json:"commitId,omitempty"`
	HardwareTierID   string   `json:"hardwareTierId,omitempty"`
	HardwareTierName string   `json:"hardwareTierName,omitempty"`
	EnvironmentID    string   `json:"environmentId,omitempty"`
	IsDirect         bool     `json:"isDirect,omitempty"`
}

// StartRun starts a job in the given project.
func (c *Client) StartRun(ctx context.Context, owner, project string, req StartRunRequest) (*Run, error) {
	path := "/v1/projects/" + escapePathSegment(owner) + "/" + escapePathSegment(project) + "/runs"
	var run Run
	if err := c.do(ctx, http.MethodPost, path, nil, req, &run); err != nil {
		return nil, fmt.Errorf("failed to start run in %s/%s: %w", owner, project, err)
	}
	return &run, nil
}

// RunStatus fetches the current status of a run.
func (c *Client) RunStatus(ctx context.Context, owner, project, runID string) (*Run, error) {
	path := "/v1/projects/" + escapePathSegment(owner) + "/" + escapePathSegment(project) + "/runs/" + escapePathSegment(runID)
	var run Run
	if err := c.do(ctx, http.MethodGet, path, nil, nil, &run); err != nil {
		return nil, fmt.Errorf("failed to get status of run %s: %w", runID, err)
	}
	return &run, nil
}

// StopRun stops a running job.
func (c *Client) StopRun(ctx context.Context, owner, project, runID string) error {
	path := "/v1/projects/" + escapePathSegment(owner) + "/" + escapePathSegment(project) + "/runs/" + escapePathSegment(runID) + "/stop"
	if err := c.do(ctx, http.MethodPost, path, nil, nil, nil); err != nil {
		return fmt.Errorf("failed to stop run %s: %w", runID, err)
	}
	return nil
}

// RunLogs fetches the stdout of a run. The platform answers with either a
// JSON envelope or plain text depending on version, so this decodes into
// the generic map shape.
func (c *Client) RunLogs(ctx context.Context, owner, project, runID string) (map[string]interface{}, error) {
	path := "/v1/projects/" + escapePathSegment(owner) + "/" + escapePathSegment(project) + "/runs/" + escapePathSegment(runID) + "/stdout"
	result, err := c.Request(ctx, http.MethodGet, path, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to get logs of run %s: %w", runID, err)
	}
	return result, nil
}

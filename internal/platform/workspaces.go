package platform

import (
	"context"
	"fmt"
	"net/http"
	"net/url"
)

// ListWorkspaces returns the workspaces of a project.
func (c *Client) ListWorkspaces(ctx context.Context, projectID string) ([]Workspace, error) {
	query := url.Values{}
	query.Set("projectId", projectID)

	var workspaces []Workspace
	if err := c.do(ctx, http.MethodGet, "/v4/workspaces", query, nil, &workspaces); err != nil {
		return nil, fmt.Errorf("failed to list workspaces: %w", err)
	}
	return workspaces, nil
}

// CreateWorkspaceRequest describes a workspace to create.
type CreateWorkspaceRequest struct {
	ProjectID      string `json:"projectId"`
	Name           string `json:"name"`
	TemplateName   string `json:"workspaceTemplateName"`
	HardwareTierID string `json:"hardwareTierId,omitempty"`
	EnvironmentID  string `json:"environmentId,omitempty"`
}

// CreateWorkspace creates a workspace in the given project.
func (c *Client) CreateWorkspace(ctx context.Context, req CreateWorkspaceRequest) (*Workspace, error) {
	if req.TemplateName == "" {
		req.TemplateName = "Jupyter"
	}
	var workspace Workspace
	if err := c.do(ctx, http.MethodPost, "/v4/workspaces", nil, req, &workspace); err != nil {
		return nil, fmt.Errorf("failed to create workspace %s: %w", req.Name, err)
	}
	return &workspace, nil
}

// DeleteWorkspace removes a workspace by ID.
func (c *Client) DeleteWorkspace(ctx context.Context, workspaceID string) error {
	path := "/v4/workspaces/" + escapePathSegment(workspaceID)
	if err := c.do(ctx, http.MethodDelete, path, nil, nil, nil); err != nil {
		return fmt.Errorf("failed to delete workspace %s: %w", workspaceID, err)
	}
	return nil
}

// StartWorkspaceSession starts an interactive session on a workspace.
// Provisioning is asynchronous: the returned session is typically still
// starting, and callers poll SessionStatus until it reaches "Running".
func (c *Client) StartWorkspaceSession(ctx context.Context, workspaceID string) (*WorkspaceSession, error) {
	path := "/v4/workspaces/" + escapePathSegment(workspaceID) + "/sessions"
	var session WorkspaceSession
	if err := c.do(ctx, http.MethodPost, path, nil, nil, &session); err != nil {
		return nil, fmt.Errorf("failed to start session on workspace %s: %w", workspaceID, err)
	}
	return &session, nil
}

// SessionStatus fetches the current state of a workspace session.
func (c *Client) SessionStatus(ctx context.Context, workspaceID, sessionID string) (*WorkspaceSession, error) {
	path := "/v4/workspaces/" + escapePathSegment(workspaceID) + "/sessions/" + escapePathSegment(sessionID)
	var session WorkspaceSession
	if err := c.do(ctx, http.MethodGet, path, nil, nil, &session); err != nil {
		return nil, fmt.Errorf("failed to get session %s: %w", sessionID, err)
	}
	return &session, nil
}

// StopWorkspaceSession stops a running workspace session.
func (c *Client) StopWorkspaceSession(ctx context.Context, workspaceID, sessionID string) error {
	path := "/v4/workspaces/" + escapePathSegment(workspaceID) + "/sessions/" + escapePathSegment(sessionID) + "/stop"
	if err := c.do(ctx, http.MethodPost, path, nil, nil, nil); err != nil {
		return fmt.Errorf("failed to stop session %s: %w", sessionID, err)
	}
	return nil
}

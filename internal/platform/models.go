package platform

import (
	"context"
	"fmt"
	"net/http"
	"net/url"
)

// ListModels returns published models, optionally filtered by project.
func (c *Client) ListModels(ctx context.Context, projectID string) ([]Model, error) {
	var query url.Values
	if projectID != "" {
		query = url.Values{}
		query.Set("projectId", projectID)
	}
	var models []Model
	if err := c.do(ctx, http.MethodGet, "/v4/models", query, nil, &models); err != nil {
		return nil, fmt.Errorf("failed to list models: %w", err)
	}
	return models, nil
}

// PublishModelRequest describes a model to publish from project code.
type PublishModelRequest struct {
	ProjectID     string `json:"projectId"`
	Name          string `json:"name"`
	File          string `json:"file"`
	Function      string `json:"function"`
	Description   string `json:"description,omitempty"`
	EnvironmentID string `json:"environmentId,omitempty"`
}

// PublishModel publishes a model endpoint from a file/function in the project.
func (c *Client) PublishModel(ctx context.Context, req PublishModelRequest) (*Model, error) {
	var model Model
	if err := c.do(ctx, http.MethodPost, "/v4/models", nil, req, &model); err != nil {
		return nil, fmt.Errorf("failed to publish model %s: %w", req.Name, err)
	}
	return &model, nil
}

// ModelEndpointState fetches the deployment state of a model endpoint.
func (c *Client) ModelEndpointState(ctx context.Context, modelID string) (map[string]interface{}, error) {
	path := "/v4/models/" + escapePathSegment(modelID) + "/endpointState"
	state, err := c.Request(ctx, http.MethodGet, path, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to get endpoint state of model %s: %w", modelID, err)
	}
	return state, nil
}

// ListApps returns published apps for a project.
func (c *Client) ListApps(ctx context.Context, projectID string) ([]App, error) {
	query := url.Values{}
	query.Set("projectId", projectID)
	var apps []App
	if err := c.do(ctx, http.MethodGet, "/v4/apps", query, nil, &apps); err != nil {
		return nil, fmt.Errorf("failed to list apps: %w", err)
	}
	return apps, nil
}

// PublishApp publishes an app from the project.
func (c *Client) PublishApp(ctx context.Context, projectID, name string) (*App, error) {
	body := map[string]string{"projectId": projectID, "name": name}
	var app App
	if err := c.do(ctx, http.MethodPost, "/v4/apps", nil, body, &app); err != nil {
		return nil, fmt.Errorf("failed to publish app %s: %w", name, err)
	}
	return &app, nil
}

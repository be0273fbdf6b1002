package platform

import (
	"context"
	"fmt"
	"net/http"
)

// ListEnvironments returns all compute environments visible to the API key.
func (c *Client) ListEnvironments(ctx context.Context) ([]Environment, error) {
	var environments []Environment
	if err := c.do(ctx, http.MethodGet, "/v4/environments", nil, nil, &environments); err != nil {
		return nil, fmt.Errorf("failed to list environments: %w", err)
	}
	return environments, nil
}

// GetEnvironment fetches an environment by ID.
func (c *Client) GetEnvironment(ctx context.Context, environmentID string) (*Environment, error) {
	path := "/v4/environments/" + escapePathSegment(environmentID)
	var environment Environment
	if err := c.do(ctx, http.MethodGet, path, nil, nil, &environment); err != nil {
		return nil, fmt.Errorf("failed to get environment %s: %w", environmentID, err)
	}
	return &environment, nil
}

// CreateEnvironmentRevision starts a new revision build for an environment.
// The build is asynchronous; callers poll RevisionStatus until the build
// reaches "Succeeded" or "Failed".
func (c *Client) CreateEnvironmentRevision(ctx context.Context, environmentID, baseImage string) (*EnvironmentRevision, error) {
	path := "/v4/environments/" + escapePathSegment(environmentID) + "/revisions"
	body := map[string]string{"baseImage": baseImage}
	var revision EnvironmentRevision
	if err := c.do(ctx, http.MethodPost, path, nil, body, &revision); err != nil {
		return nil, fmt.Errorf("failed to create revision for environment %s: %w", environmentID, err)
	}
	return &revision, nil
}

// RevisionStatus fetches the build status of an environment revision.
func (c *Client) RevisionStatus(ctx context.Context, environmentID, revisionID string) (*EnvironmentRevision, error) {
	path := "/v4/environments/" + escapePathSegment(environmentID) + "/revisions/" + escapePathSegment(revisionID)
	var revision EnvironmentRevision
	if err := c.do(ctx, http.MethodGet, path, nil, nil, &revision); err != nil {
		return nil, fmt.Errorf("failed to get revision %s: %w", revisionID, err)
	}
	return &revision, nil
}

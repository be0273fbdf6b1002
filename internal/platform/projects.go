package platform

import (
	"context"
	"fmt"
	"net/http"
	"net/url"
)

// ListProjects returns all projects visible to the API key.
func (c *Client) ListProjects(ctx context.Context) ([]Project, error) {
	var projects []Project
	if err := c.do(ctx, http.MethodGet, "/v4/projects", nil, nil, &projects); err != nil {
		return nil, fmt.Errorf("failed to list projects: %w", err)
	}
	return projects, nil
}

// GetProject looks up a project by owner and name.
func (c *Client) GetProject(ctx context.Context, owner, name string) (*Project, error) {
	query := url.Values{}
	query.Set("name", name)
	query.Set("ownerUsername", owner)

	var projects []Project
	if err := c.do(ctx, http.MethodGet, "/v4/projects", query, nil, &projects); err != nil {
		return nil, fmt.Errorf("failed to look up project %s/%s: %w", owner, name, err)
	}
	for i := range projects {
		if projects[i].Name == name {
			return &projects[i], nil
		}
	}
	return nil, &APIError{
		StatusCode: http.StatusNotFound,
		Method:     http.MethodGet,
		Path:       "/v4/projects",
		Body:       fmt.Sprintf("project %s/%s not found", owner, name),
	}
}

// CreateProjectRequest is the payload for CreateProject.
type CreateProjectRequest struct {
	Name        string   `json:"name"`
	Description string   `json:"description,omitempty"`
	Visibility  string   `json:"visibility,omitempty"`
	OwnerID     string   `json:"ownerId,omitempty"`
	Collabs     []string `json:"collaborators"`
	Tags        []string `json:"tags"`
}

// CreateProject creates a new private project. A 409 means the project
// already exists; callers treat that as success via IsConflict.
func (c *Client) CreateProject(ctx context.Context, req CreateProjectRequest) (*Project, error) {
	if req.Visibility == "" {
		req.Visibility = "Private"
	}
	if req.Collabs == nil {
		req.Collabs = []string{}
	}
	if req.Tags == nil {
		req.Tags = []string{}
	}

	var project Project
	if err := c.do(ctx, http.MethodPost, "/v4/projects", nil, req, &project); err != nil {
		return nil, fmt.Errorf("failed to create project %s: %w", req.Name, err)
	}
	return &project, nil
}

// DeleteProject removes a project by ID.
func (c *Client) DeleteProject(ctx context.Context, projectID string) error {
	path := "/v4/projects/" + escapePathSegment(projectID)
	if err := c.do(ctx, http.MethodDelete, path, nil, nil, nil); err != nil {
		return fmt.Errorf("failed to delete project %s: %w", projectID, err)
	}
	return nil
}

// AddCollaborator adds a collaborator to a project by email.
func (c *Client) AddCollaborator(ctx context.Context, projectID, email, role string) error {
	path := "/v4/projects/" + escapePathSegment(projectID) + "/collaborators"
	body := Collaborator{Email: email, Role: role}
	if err := c.do(ctx, http.MethodPost, path, nil, body, nil); err != nil {
		return fmt.Errorf("failed to add collaborator %s: %w", email, err)
	}
	return nil
}

// RemoveCollaborator removes a collaborator from a project.
func (c *Client) RemoveCollaborator(ctx context.Context, projectID, collaboratorID string) error {
	path := "/v4/projects/" + escapePathSegment(projectID) + "/collaborators/" + escapePathSegment(collaboratorID)
	if err := c.do(ctx, http.MethodDelete, path, nil, nil, nil); err != nil {
		return fmt.Errorf("failed to remove collaborator %s: %w", collaboratorID, err)
	}
	return nil
}

// AddTag attaches a tag to a project.
func (c *Client) AddTag(ctx context.Context, projectID, tag string) error {
	path := "/v4/projects/" + escapePathSegment(projectID) + "/tags"
	body := map[string][]string{"tagNames": {tag}}
	if err := c.do(ctx, http.MethodPost, path, nil, body, nil); err != nil {
		return fmt.Errorf("failed to tag project %s: %w", projectID, err)
	}
	return nil
}

// RemoveTag detaches a tag from a project.
func (c *Client) RemoveTag(ctx context.Context, projectID, tagID string) error {
	path := "/v4/projects/" + escapePathSegment(projectID) + "/tags/" + escapePathSegment(tagID)
	if err := c.do(ctx, http.MethodDelete, path, nil, nil, nil); err != nil {
		return fmt.Errorf("failed to remove tag %s: %w", tagID, err)
	}
	return nil
}

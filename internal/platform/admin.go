package platform

import (
	"context"
	"fmt"
	"net/http"
)

// Admin introspection endpoints. These require elevated permissions and
// are absent in some deployments; callers classify the resulting 403/404
// with IsRestricted/IsNotFound instead of failing hard.

// AdminExecutions lists current executions across the whole deployment.
func (c *Client) AdminExecutions(ctx context.Context) ([]AdminExecution, error) {
	var executions []AdminExecution
	if err := c.do(ctx, http.MethodGet, "/v4/admin/executions", nil, nil, &executions); err != nil {
		return nil, fmt.Errorf("failed to list admin executions: %w", err)
	}
	return executions, nil
}

// AdminNodes lists the compute nodes of the deployment.
func (c *Client) AdminNodes(ctx context.Context) ([]AdminNode, error) {
	var nodes []AdminNode
	if err := c.do(ctx, http.MethodGet, "/v4/admin/nodes", nil, nil, &nodes); err != nil {
		return nil, fmt.Errorf("failed to list admin nodes: %w", err)
	}
	return nodes, nil
}

// AdminInfrastructure fetches the deployment infrastructure summary.
func (c *Client) AdminInfrastructure(ctx context.Context) (map[string]interface{}, error) {
	result, err := c.Request(ctx, http.MethodGet, "/v4/admin/infrastructure", nil)
	if err != nil {
		return nil, fmt.Errorf("failed to get admin infrastructure: %w", err)
	}
	return result, nil
}

// AdminOrganizations lists the organizations of the deployment.
func (c *Client) AdminOrganizations(ctx context.Context) ([]Organization, error) {
	var orgs []Organization
	if err := c.do(ctx, http.MethodGet, "/v4/admin/organizations", nil, nil, &orgs); err != nil {
		return nil, fmt.Errorf("failed to list organizations: %w", err)
	}
	return orgs, nil
}

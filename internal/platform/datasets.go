package platform

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"net/url"
)

// ListDatasets returns the datasets of a project.
func (c *Client) ListDatasets(ctx context.Context, projectID string) ([]Dataset, error) {
	query := url.Values{}
	query.Set("projectId", projectID)

	var datasets []Dataset
	if err := c.do(ctx, http.MethodGet, "/v4/datasets", query, nil, &datasets); err != nil {
		return nil, fmt.Errorf("failed to list datasets: %w", err)
	}
	return datasets, nil
}

// GetDataset fetches a dataset by ID.
func (c *Client) GetDataset(ctx context.Context, datasetID string) (*Dataset, error) {
	var dataset Dataset
	path := "/v4/datasets/" + escapePathSegment(datasetID)
	if err := c.do(ctx, http.MethodGet, path, nil, nil, &dataset); err != nil {
		return nil, fmt.Errorf("failed to get dataset %s: %w", datasetID, err)
	}
	return &dataset, nil
}

// CreateDataset creates a dataset in the given project.
func (c *Client) CreateDataset(ctx context.Context, projectID, name, description string) (*Dataset, error) {
	body := map[string]string{
		"projectId":   projectID,
		"name":        name,
		"description": description,
	}
	var dataset Dataset
	if err := c.do(ctx, http.MethodPost, "/v4/datasets", nil, body, &dataset); err != nil {
		return nil, fmt.Errorf("failed to create dataset %s: %w", name, err)
	}
	return &dataset, nil
}

// DeleteDataset removes a dataset by ID.
func (c *Client) DeleteDataset(ctx context.Context, datasetID string) error {
	path := "/v4/datasets/" + escapePathSegment(datasetID)
	if err := c.do(ctx, http.MethodDelete, path, nil, nil, nil); err != nil {
		return fmt.Errorf("failed to delete dataset %s: %w", datasetID, err)
	}
	return nil
}

// UploadDatasetFile uploads a file into a dataset.
func (c *Client) UploadDatasetFile(ctx context.Context, datasetID, fileName string, content io.Reader) error {
	path := "/v4/datasets/" + escapePathSegment(datasetID) + "/files"
	if err := c.doMultipart(ctx, http.MethodPost, path, "file", fileName, content, nil, nil); err != nil {
		return fmt.Errorf("failed to upload %s to dataset %s: %w", fileName, datasetID, err)
	}
	return nil
}

// DatasetSnapshots lists the snapshots of a dataset.
func (c *Client) DatasetSnapshots(ctx context.Context, datasetID string) ([]DatasetSnapshot, error) {
	path := "/v4/datasets/" + escapePathSegment(datasetID) + "/snapshots"
	var snapshots []DatasetSnapshot
	if err := c.do(ctx, http.MethodGet, path, nil, nil, &snapshots); err != nil {
		return nil, fmt.Errorf("failed to list snapshots of dataset %s: %w", datasetID, err)
	}
	return snapshots, nil
}

package platform

import (
	"context"
	"fmt"
	"io"
	"net/http"
)

func projectFilesPath(owner, project string) string {
	return "/v1/projects/" + escapePathSegment(owner) + "/" + escapePathSegment(project) + "/files"
}

// BrowseFiles lists the files of a project under the given path prefix.
// An empty prefix lists the project root.
func (c *Client) BrowseFiles(ctx context.Context, owner, project, prefix string) ([]FileEntry, error) {
	path := projectFilesPath(owner, project)
	if prefix != "" {
		path += "/" + escapeFilePath(prefix)
	}
	var entries []FileEntry
	if err := c.do(ctx, http.MethodGet, path, nil, nil, &entries); err != nil {
		return nil, fmt.Errorf("failed to browse files of %s/%s: %w", owner, project, err)
	}
	return entries, nil
}

// UploadFile uploads a file into the project at the given path.
func (c *Client) UploadFile(ctx context.Context, owner, project, filePath string, content io.Reader) error {
	path := projectFilesPath(owner, project) + "/" + escapeFilePath(filePath)
	if err := c.doMultipart(ctx, http.MethodPut, path, "file", filePath, content, nil, nil); err != nil {
		return fmt.Errorf("failed to upload %s to %s/%s: %w", filePath, owner, project, err)
	}
	return nil
}

// MoveFile renames or moves a file within the project.
func (c *Client) MoveFile(ctx context.Context, owner, project, fromPath, toPath string) error {
	path := projectFilesPath(owner, project) + "/" + escapeFilePath(fromPath) + "/move"
	body := map[string]string{"targetPath": toPath}
	if err := c.do(ctx, http.MethodPost, path, nil, body, nil); err != nil {
		return fmt.Errorf("failed to move %s to %s: %w", fromPath, toPath, err)
	}
	return nil
}

// DeleteFile removes a file from the project.
func (c *Client) DeleteFile(ctx context.Context, owner, project, filePath string) error {
	path := projectFilesPath(owner, project) + "/" + escapeFilePath(filePath)
	if err := c.do(ctx, http.MethodDelete, path, nil, nil, nil); err != nil {
		return fmt.Errorf("failed to delete %s from %s/%s: %w", filePath, owner, project, err)
	}
	return nil
}

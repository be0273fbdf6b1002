package perf

import (
	"bytes"
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"

	"uatharness/internal/platform"
	"uatharness/pkg/logging"
)

// WorkspaceStorm creates cfg.Requests workspaces concurrently in the
// given project, then deletes everything it managed to create. The
// deletes run after aggregation so cleanup time never skews latencies.
func WorkspaceStorm(ctx context.Context, client *platform.Client, projectID, hardwareTier string, cfg LoadConfig) *LoadResult {
	tierID := ""
	if hardwareTier != "" {
		if tiers, err := client.ListHardwareTiers(ctx); err == nil {
			tierID = platform.ResolveHardwareTier(hardwareTier, tiers)
		}
	}

	created := make([]string, cfg.withDefaults().Requests)
	result := RunCount(ctx, "workspace.create", cfg, func(ctx context.Context, index int) error {
		workspace, err := client.CreateWorkspace(ctx, platform.CreateWorkspaceRequest{
			ProjectID:      projectID,
			Name:           fmt.Sprintf("perf-ws-%d-%s", index, uuid.NewString()[:8]),
			HardwareTierID: tierID,
		})
		if err != nil {
			return err
		}
		created[index] = workspace.ID
		return nil
	})

	for _, id := range created {
		if id == "" {
			continue
		}
		if err := client.DeleteWorkspace(ctx, id); err != nil {
			logging.Warn("perf", "failed to delete workspace %s: %v", id, err)
		}
	}
	return result
}

// JobBurst starts cfg.Requests short jobs concurrently and stops any
// that are still going afterwards.
func JobBurst(ctx context.Context, client *platform.Client, owner, project, command, hardwareTier string, cfg LoadConfig) *LoadResult {
	tierID := ""
	if hardwareTier != "" {
		if tiers, err := client.ListHardwareTiers(ctx); err == nil {
			tierID = platform.ResolveHardwareTier(hardwareTier, tiers)
		}
	}

	started := make([]string, cfg.withDefaults().Requests)
	result := RunCount(ctx, "run.start", cfg, func(ctx context.Context, index int) error {
		run, err := client.StartRun(ctx, owner, project, platform.StartRunRequest{
			Command:        []string{command},
			Title:          fmt.Sprintf("perf job %d", index),
			HardwareTierID: tierID,
		})
		if err != nil {
			return err
		}
		started[index] = run.ID
		return nil
	})

	for _, id := range started {
		if id == "" {
			continue
		}
		run, err := client.RunStatus(ctx, owner, project, id)
		if err != nil || platform.RunTerminal(run.Status) {
			continue
		}
		if err := client.StopRun(ctx, owner, project, id); err != nil {
			logging.Warn("perf", "failed to stop run %s: %v", id, err)
		}
	}
	return result
}

// UploadThroughput uploads cfg.Requests generated files of fileSizeMB
// megabytes each into the project and deletes them afterwards.
// Multiplying the resulting Throughput by the file size gives MB/s.
func UploadThroughput(ctx context.Context, client *platform.Client, owner, project string, fileSizeMB int, cfg LoadConfig) *LoadResult {
	if fileSizeMB <= 0 {
		fileSizeMB = 1
	}
	payload := bytes.Repeat([]byte("0123456789abcdef"), fileSizeMB*1024*1024/16)

	uploaded := make([]string, cfg.withDefaults().Requests)
	result := RunCount(ctx, "file.upload", cfg, func(ctx context.Context, index int) error {
		name := fmt.Sprintf("perf-upload-%d-%s.bin", index, uuid.NewString()[:8])
		if err := client.UploadFile(ctx, owner, project, name, bytes.NewReader(payload)); err != nil {
			return err
		}
		uploaded[index] = name
		return nil
	})

	for _, name := range uploaded {
		if name == "" {
			continue
		}
		if err := client.DeleteFile(ctx, owner, project, name); err != nil {
			logging.Warn("perf", "failed to delete uploaded file %s: %v", name, err)
		}
	}
	return result
}

// APIStress hammers cheap read endpoints for cfg.Duration, rotating
// between project, hardware tier, and environment listings.
func APIStress(ctx context.Context, client *platform.Client, cfg LoadConfig) *LoadResult {
	if cfg.Duration <= 0 {
		cfg.Duration = 30 * time.Second
	}
	return RunDuration(ctx, "api.read", cfg, func(ctx context.Context, index int) error {
		switch index % 3 {
		case 0:
			_, err := client.ListProjects(ctx)
			return err
		case 1:
			_, err := client.ListHardwareTiers(ctx)
			return err
		default:
			_, err := client.ListEnvironments(ctx)
			return err
		}
	})
}

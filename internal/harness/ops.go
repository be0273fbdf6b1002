package harness

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"

	"uatharness/internal/platform"
)

// BuiltinRegistry returns a registry populated with every operation the
// shipped scenarios use. Operation names follow a "resource.verb" scheme.
func BuiltinRegistry() *Registry {
	r := NewRegistry()

	r.Register("project.list", opProjectList)
	r.Register("project.get", opProjectGet)
	r.Register("project.ensure", opProjectEnsure)
	r.Register("project.delete", opProjectDelete)
	r.Register("project.add_tag", opProjectAddTag)
	r.Register("project.add_collaborator", opProjectAddCollaborator)

	r.Register("run.list", opRunList)
	r.Register("run.start", opRunStart)
	r.Register("run.status", opRunStatus)
	r.Register("run.stop", opRunStop)
	r.Register("run.logs", opRunLogs)
	r.Register("run.wait", opRunWait)

	r.Register("dataset.list", opDatasetList)
	r.Register("dataset.create", opDatasetCreate)
	r.Register("dataset.delete", opDatasetDelete)
	r.Register("dataset.upload", opDatasetUpload)
	r.Register("dataset.snapshots", opDatasetSnapshots)

	r.Register("file.browse", opFileBrowse)
	r.Register("file.upload", opFileUpload)
	r.Register("file.move", opFileMove)
	r.Register("file.delete", opFileDelete)

	r.Register("workspace.list", opWorkspaceList)
	r.Register("workspace.create", opWorkspaceCreate)
	r.Register("workspace.delete", opWorkspaceDelete)
	r.Register("workspace.session_start", opWorkspaceSessionStart)
	r.Register("workspace.session_stop", opWorkspaceSessionStop)
	r.Register("workspace.wait_running", opWorkspaceWaitRunning)

	r.Register("environment.list", opEnvironmentList)
	r.Register("environment.get", opEnvironmentGet)
	r.Register("environment.build_revision", opEnvironmentBuildRevision)
	r.Register("environment.wait_build", opEnvironmentWaitBuild)

	r.Register("hardware.list", opHardwareList)
	r.Register("hardware.resolve", opHardwareResolve)

	r.Register("model.list", opModelList)
	r.Register("model.publish", opModelPublish)
	r.Register("model.endpoint_state", opModelEndpointState)
	r.Register("app.list", opAppList)
	r.Register("app.publish", opAppPublish)

	r.Register("admin.executions", opAdminExecutions)
	r.Register("admin.nodes", opAdminNodes)
	r.Register("admin.infrastructure", opAdminInfrastructure)
	r.Register("admin.organizations", opAdminOrganizations)

	r.Register("api.request", opAPIRequest)
	r.Register("util.unique_name", opUtilUniqueName)

	return r
}

func opProjectList(ctx context.Context, deps *Deps, args map[string]interface{}) (interface{}, error) {
	return deps.Client.ListProjects(ctx)
}

func opProjectGet(ctx context.Context, deps *Deps, args map[string]interface{}) (interface{}, error) {
	owner, err := requiredStringArg(args, "user_name")
	if err != nil {
		return nil, err
	}
	name, err := requiredStringArg(args, "project_name")
	if err != nil {
		return nil, err
	}
	return deps.Client.GetProject(ctx, owner, name)
}

// opProjectEnsure fetches the project, creating it if it does not exist.
// A create conflict means someone else created it first, which is fine.
func opProjectEnsure(ctx context.Context, deps *Deps, args map[string]interface{}) (interface{}, error) {
	owner, err := requiredStringArg(args, "user_name")
	if err != nil {
		return nil, err
	}
	name, err := requiredStringArg(args, "project_name")
	if err != nil {
		return nil, err
	}

	project, err := deps.Client.GetProject(ctx, owner, name)
	if err == nil {
		return project, nil
	}
	if !platform.IsNotFound(err) {
		return nil, err
	}

	created, err := deps.Client.CreateProject(ctx, platform.CreateProjectRequest{
		Name:        name,
		Description: stringArg(args, "description", "UAT harness test project"),
	})
	if err != nil {
		if platform.IsConflict(err) {
			return deps.Client.GetProject(ctx, owner, name)
		}
		return nil, err
	}
	return created, nil
}

func opProjectDelete(ctx context.Context, deps *Deps, args map[string]interface{}) (interface{}, error) {
	projectID, err := requiredStringArg(args, "project_id")
	if err != nil {
		return nil, err
	}
	return nil, deps.Client.DeleteProject(ctx, projectID)
}

func opProjectAddTag(ctx context.Context, deps *Deps, args map[string]interface{}) (interface{}, error) {
	projectID, err := requiredStringArg(args, "project_id")
	if err != nil {
		return nil, err
	}
	tag, err := requiredStringArg(args, "tag")
	if err != nil {
		return nil, err
	}
	return nil, deps.Client.AddTag(ctx, projectID, tag)
}

func opProjectAddCollaborator(ctx context.Context, deps *Deps, args map[string]interface{}) (interface{}, error) {
	projectID, err := requiredStringArg(args, "project_id")
	if err != nil {
		return nil, err
	}
	email, err := requiredStringArg(args, "email")
	if err != nil {
		return nil, err
	}
	return nil, deps.Client.AddCollaborator(ctx, projectID, email, stringArg(args, "role", "Contributor"))
}

func opRunList(ctx context.Context, deps *Deps, args map[string]interface{}) (interface{}, error) {
	owner, err := requiredStringArg(args, "user_name")
	if err != nil {
		return nil, err
	}
	name, err := requiredStringArg(args, "project_name")
	if err != nil {
		return nil, err
	}
	return deps.Client.ListRuns(ctx, owner, name)
}

func opRunStart(ctx context.Context, deps *Deps, args map[string]interface{}) (interface{}, error) {
	owner, err := requiredStringArg(args, "user_name")
	if err != nil {
		return nil, err
	}
	name, err := requiredStringArg(args, "project_name")
	if err != nil {
		return nil, err
	}
	command, err := requiredStringArg(args, "command")
	if err != nil {
		return nil, err
	}

	req := platform.StartRunRequest{
		Command:  strings.Fields(command),
		Title:    stringArg(args, "title", "UAT harness job"),
		IsDirect: boolArg(args, "direct", false),
	}
	if tier := stringArg(args, "hardware_tier", deps.Config.DefaultHardwareTier); tier != "" {
		tiers, err := deps.Client.ListHardwareTiers(ctx)
		if err != nil {
			return nil, fmt.Errorf("failed to resolve hardware tier %q: %w", tier, err)
		}
		req.HardwareTierID = platform.ResolveHardwareTier(tier, tiers)
	}
	return deps.Client.StartRun(ctx, owner, name, req)
}

func opRunStatus(ctx context.Context, deps *Deps, args map[string]interface{}) (interface{}, error) {
	owner, name, runID, err := runIdentity(args)
	if err != nil {
		return nil, err
	}
	return deps.Client.RunStatus(ctx, owner, name, runID)
}

func opRunStop(ctx context.Context, deps *Deps, args map[string]interface{}) (interface{}, error) {
	owner, name, runID, err := runIdentity(args)
	if err != nil {
		return nil, err
	}
	return nil, deps.Client.StopRun(ctx, owner, name, runID)
}

func opRunLogs(ctx context.Context, deps *Deps, args map[string]interface{}) (interface{}, error) {
	owner, name, runID, err := runIdentity(args)
	if err != nil {
		return nil, err
	}
	return deps.Client.RunLogs(ctx, owner, name, runID)
}

// opRunWait polls the run until it reaches a terminal status. A run that
// finishes in a non-succeeded state is a failure; a run still going at
// the deadline is reported as a timeout.
func opRunWait(ctx context.Context, deps *Deps, args map[string]interface{}) (interface{}, error) {
	owner, name, runID, err := runIdentity(args)
	if err != nil {
		return nil, err
	}
	cfg := PollConfig{
		Interval: durationArg(args, "interval", 10*time.Second),
		Timeout:  durationArg(args, "timeout", 10*time.Minute),
	}

	var last *platform.Run
	result := Poll(ctx, cfg, func(ctx context.Context) (bool, error) {
		run, err := deps.Client.RunStatus(ctx, owner, name, runID)
		if err != nil {
			return false, err
		}
		last = run
		return platform.RunTerminal(run.Status), nil
	})

	if !result.Satisfied {
		return nil, fmt.Errorf("run %s did not finish within %s (%d checks, last error: %v)",
			runID, cfg.Timeout, result.Attempts, result.LastErr)
	}
	if last.Status != platform.RunStatusSucceeded {
		return nil, fmt.Errorf("run %s finished with status %s", runID, last.Status)
	}
	return last, nil
}

func runIdentity(args map[string]interface{}) (owner, name, runID string, err error) {
	if owner, err = requiredStringArg(args, "user_name"); err != nil {
		return
	}
	if name, err = requiredStringArg(args, "project_name"); err != nil {
		return
	}
	runID, err = requiredStringArg(args, "run_id")
	return
}

func opDatasetList(ctx context.Context, deps *Deps, args map[string]interface{}) (interface{}, error) {
	return deps.Client.ListDatasets(ctx, stringArg(args, "project_id", ""))
}

func opDatasetCreate(ctx context.Context, deps *Deps, args map[string]interface{}) (interface{}, error) {
	projectID, err := requiredStringArg(args, "project_id")
	if err != nil {
		return nil, err
	}
	name, err := requiredStringArg(args, "name")
	if err != nil {
		return nil, err
	}
	return deps.Client.CreateDataset(ctx, projectID, name, stringArg(args, "description", ""))
}

func opDatasetDelete(ctx context.Context, deps *Deps, args map[string]interface{}) (interface{}, error) {
	datasetID, err := requiredStringArg(args, "dataset_id")
	if err != nil {
		return nil, err
	}
	return nil, deps.Client.DeleteDataset(ctx, datasetID)
}

func opDatasetUpload(ctx context.Context, deps *Deps, args map[string]interface{}) (interface{}, error) {
	datasetID, err := requiredStringArg(args, "dataset_id")
	if err != nil {
		return nil, err
	}
	fileName, err := requiredStringArg(args, "file_name")
	if err != nil {
		return nil, err
	}
	content := stringArg(args, "content", "")
	return nil, deps.Client.UploadDatasetFile(ctx, datasetID, fileName, strings.NewReader(content))
}

func opDatasetSnapshots(ctx context.Context, deps *Deps, args map[string]interface{}) (interface{}, error) {
	datasetID, err := requiredStringArg(args, "dataset_id")
	if err != nil {
		return nil, err
	}
	return deps.Client.DatasetSnapshots(ctx, datasetID)
}

func opFileBrowse(ctx context.Context, deps *Deps, args map[string]interface{}) (interface{}, error) {
	owner, name, err := projectIdentity(args)
	if err != nil {
		return nil, err
	}
	return deps.Client.BrowseFiles(ctx, owner, name, stringArg(args, "prefix", ""))
}

func opFileUpload(ctx context.Context, deps *Deps, args map[string]interface{}) (interface{}, error) {
	owner, name, err := projectIdentity(args)
	if err != nil {
		return nil, err
	}
	path, err := requiredStringArg(args, "path")
	if err != nil {
		return nil, err
	}
	content := stringArg(args, "content", "")
	return nil, deps.Client.UploadFile(ctx, owner, name, path, strings.NewReader(content))
}

func opFileMove(ctx context.Context, deps *Deps, args map[string]interface{}) (interface{}, error) {
	owner, name, err := projectIdentity(args)
	if err != nil {
		return nil, err
	}
	from, err := requiredStringArg(args, "from")
	if err != nil {
		return nil, err
	}
	to, err := requiredStringArg(args, "to")
	if err != nil {
		return nil, err
	}
	return nil, deps.Client.MoveFile(ctx, owner, name, from, to)
}

func opFileDelete(ctx context.Context, deps *Deps, args map[string]interface{}) (interface{}, error) {
	owner, name, err := projectIdentity(args)
	if err != nil {
		return nil, err
	}
	path, err := requiredStringArg(args, "path")
	if err != nil {
		return nil, err
	}
	return nil, deps.Client.DeleteFile(ctx, owner, name, path)
}

func projectIdentity(args map[string]interface{}) (owner, name string, err error) {
	if owner, err = requiredStringArg(args, "user_name"); err != nil {
		return
	}
	name, err = requiredStringArg(args, "project_name")
	return
}

func opWorkspaceList(ctx context.Context, deps *Deps, args map[string]interface{}) (interface{}, error) {
	return deps.Client.ListWorkspaces(ctx, stringArg(args, "project_id", ""))
}

func opWorkspaceCreate(ctx context.Context, deps *Deps, args map[string]interface{}) (interface{}, error) {
	projectID, err := requiredStringArg(args, "project_id")
	if err != nil {
		return nil, err
	}
	name, err := requiredStringArg(args, "name")
	if err != nil {
		return nil, err
	}

	req := platform.CreateWorkspaceRequest{
		ProjectID:    projectID,
		Name:         name,
		TemplateName: stringArg(args, "template", ""),
	}
	if tier := stringArg(args, "hardware_tier", deps.Config.DefaultHardwareTier); tier != "" {
		tiers, err := deps.Client.ListHardwareTiers(ctx)
		if err != nil {
			return nil, fmt.Errorf("failed to resolve hardware tier %q: %w", tier, err)
		}
		req.HardwareTierID = platform.ResolveHardwareTier(tier, tiers)
	}
	return deps.Client.CreateWorkspace(ctx, req)
}

func opWorkspaceDelete(ctx context.Context, deps *Deps, args map[string]interface{}) (interface{}, error) {
	workspaceID, err := requiredStringArg(args, "workspace_id")
	if err != nil {
		return nil, err
	}
	return nil, deps.Client.DeleteWorkspace(ctx, workspaceID)
}

func opWorkspaceSessionStart(ctx context.Context, deps *Deps, args map[string]interface{}) (interface{}, error) {
	workspaceID, err := requiredStringArg(args, "workspace_id")
	if err != nil {
		return nil, err
	}
	return deps.Client.StartWorkspaceSession(ctx, workspaceID)
}

func opWorkspaceSessionStop(ctx context.Context, deps *Deps, args map[string]interface{}) (interface{}, error) {
	workspaceID, err := requiredStringArg(args, "workspace_id")
	if err != nil {
		return nil, err
	}
	sessionID, err := requiredStringArg(args, "session_id")
	if err != nil {
		return nil, err
	}
	return nil, deps.Client.StopWorkspaceSession(ctx, workspaceID, sessionID)
}

// opWorkspaceWaitRunning polls a workspace session until it is Running.
func opWorkspaceWaitRunning(ctx context.Context, deps *Deps, args map[string]interface{}) (interface{}, error) {
	workspaceID, err := requiredStringArg(args, "workspace_id")
	if err != nil {
		return nil, err
	}
	sessionID, err := requiredStringArg(args, "session_id")
	if err != nil {
		return nil, err
	}
	cfg := PollConfig{
		Interval: durationArg(args, "interval", 10*time.Second),
		Timeout:  durationArg(args, "timeout", 5*time.Minute),
	}

	var last *platform.WorkspaceSession
	result := Poll(ctx, cfg, func(ctx context.Context) (bool, error) {
		session, err := deps.Client.SessionStatus(ctx, workspaceID, sessionID)
		if err != nil {
			return false, err
		}
		last = session
		return session.State == platform.SessionRunning, nil
	})

	if !result.Satisfied {
		state := "unknown"
		if last != nil {
			state = last.State
		}
		return nil, fmt.Errorf("workspace session %s not running after %s (state %s, last error: %v)",
			sessionID, cfg.Timeout, state, result.LastErr)
	}
	return last, nil
}

func opEnvironmentList(ctx context.Context, deps *Deps, args map[string]interface{}) (interface{}, error) {
	return deps.Client.ListEnvironments(ctx)
}

func opEnvironmentGet(ctx context.Context, deps *Deps, args map[string]interface{}) (interface{}, error) {
	environmentID, err := requiredStringArg(args, "environment_id")
	if err != nil {
		return nil, err
	}
	return deps.Client.GetEnvironment(ctx, environmentID)
}

func opEnvironmentBuildRevision(ctx context.Context, deps *Deps, args map[string]interface{}) (interface{}, error) {
	environmentID, err := requiredStringArg(args, "environment_id")
	if err != nil {
		return nil, err
	}
	return deps.Client.CreateEnvironmentRevision(ctx, environmentID, stringArg(args, "base_image", ""))
}

// opEnvironmentWaitBuild polls an environment revision build to completion.
func opEnvironmentWaitBuild(ctx context.Context, deps *Deps, args map[string]interface{}) (interface{}, error) {
	environmentID, err := requiredStringArg(args, "environment_id")
	if err != nil {
		return nil, err
	}
	revisionID, err := requiredStringArg(args, "revision_id")
	if err != nil {
		return nil, err
	}
	cfg := PollConfig{
		Interval: durationArg(args, "interval", 15*time.Second),
		Timeout:  durationArg(args, "timeout", 20*time.Minute),
	}

	var last *platform.EnvironmentRevision
	result := Poll(ctx, cfg, func(ctx context.Context) (bool, error) {
		revision, err := deps.Client.RevisionStatus(ctx, environmentID, revisionID)
		if err != nil {
			return false, err
		}
		last = revision
		return revision.BuildStatus == platform.BuildSucceeded || revision.BuildStatus == platform.BuildFailed, nil
	})

	if !result.Satisfied {
		return nil, fmt.Errorf("environment revision %s still building after %s (last error: %v)",
			revisionID, cfg.Timeout, result.LastErr)
	}
	if last.BuildStatus == platform.BuildFailed {
		return nil, fmt.Errorf("environment revision %s build failed", revisionID)
	}
	return last, nil
}

func opHardwareList(ctx context.Context, deps *Deps, args map[string]interface{}) (interface{}, error) {
	return deps.Client.ListHardwareTiers(ctx)
}

func opHardwareResolve(ctx context.Context, deps *Deps, args map[string]interface{}) (interface{}, error) {
	name := stringArg(args, "tier", deps.Config.DefaultHardwareTier)
	tiers, err := deps.Client.ListHardwareTiers(ctx)
	if err != nil {
		return nil, err
	}
	return map[string]interface{}{
		"requested": name,
		"resolved":  platform.ResolveHardwareTier(name, tiers),
	}, nil
}

func opModelList(ctx context.Context, deps *Deps, args map[string]interface{}) (interface{}, error) {
	return deps.Client.ListModels(ctx, stringArg(args, "project_id", ""))
}

func opModelPublish(ctx context.Context, deps *Deps, args map[string]interface{}) (interface{}, error) {
	projectID, err := requiredStringArg(args, "project_id")
	if err != nil {
		return nil, err
	}
	name, err := requiredStringArg(args, "name")
	if err != nil {
		return nil, err
	}
	return deps.Client.PublishModel(ctx, platform.PublishModelRequest{
		ProjectID:   projectID,
		Name:        name,
		File:        stringArg(args, "file", "model.py"),
		Function:    stringArg(args, "function", "predict"),
		Description: stringArg(args, "description", ""),
	})
}

func opModelEndpointState(ctx context.Context, deps *Deps, args map[string]interface{}) (interface{}, error) {
	modelID, err := requiredStringArg(args, "model_id")
	if err != nil {
		return nil, err
	}
	return deps.Client.ModelEndpointState(ctx, modelID)
}

func opAppList(ctx context.Context, deps *Deps, args map[string]interface{}) (interface{}, error) {
	return deps.Client.ListApps(ctx, stringArg(args, "project_id", ""))
}

func opAppPublish(ctx context.Context, deps *Deps, args map[string]interface{}) (interface{}, error) {
	projectID, err := requiredStringArg(args, "project_id")
	if err != nil {
		return nil, err
	}
	name, err := requiredStringArg(args, "name")
	if err != nil {
		return nil, err
	}
	return deps.Client.PublishApp(ctx, projectID, name)
}

func opAdminExecutions(ctx context.Context, deps *Deps, args map[string]interface{}) (interface{}, error) {
	return deps.Client.AdminExecutions(ctx)
}

func opAdminNodes(ctx context.Context, deps *Deps, args map[string]interface{}) (interface{}, error) {
	return deps.Client.AdminNodes(ctx)
}

func opAdminInfrastructure(ctx context.Context, deps *Deps, args map[string]interface{}) (interface{}, error) {
	return deps.Client.AdminInfrastructure(ctx)
}

func opAdminOrganizations(ctx context.Context, deps *Deps, args map[string]interface{}) (interface{}, error) {
	return deps.Client.AdminOrganizations(ctx)
}

// opAPIRequest is a generic escape hatch for endpoints without a typed
// wrapper. Scenarios use it sparingly.
func opAPIRequest(ctx context.Context, deps *Deps, args map[string]interface{}) (interface{}, error) {
	path, err := requiredStringArg(args, "path")
	if err != nil {
		return nil, err
	}
	method := strings.ToUpper(stringArg(args, "method", "GET"))
	return deps.Client.Request(ctx, method, path, args["body"])
}

// opUtilUniqueName produces a collision-free resource name so repeated
// scenario runs never trip over leftovers from a previous run.
func opUtilUniqueName(ctx context.Context, deps *Deps, args map[string]interface{}) (interface{}, error) {
	prefix := stringArg(args, "prefix", "uat")
	name := fmt.Sprintf("%s-%s-%s", prefix, time.Now().UTC().Format("20060102-150405"), uuid.NewString()[:8])
	return map[string]interface{}{"name": name}, nil
}

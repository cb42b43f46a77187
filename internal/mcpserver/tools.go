package mcpserver

import (
	"context"
	"encoding/json"
	"fmt"
	"sort"

	"github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"

	"ddalabctl/internal/backend"
	"ddalabctl/internal/cli"
	"ddalabctl/internal/envedit"
	"ddalabctl/internal/pathselect"
	"ddalabctl/pkg/logging"
)

// Tools holds the DDALAB tool definitions and their handlers.
type Tools struct {
	backend backend.Backend
}

// NewTools creates the tool set for b.
func NewTools(b backend.Backend) *Tools {
	return &Tools{backend: b}
}

// ServerTools pairs every tool with its handler.
func (t *Tools) ServerTools() []server.ServerTool {
	return []server.ServerTool{
		{Tool: mcp.NewTool("ddalab_status",
			mcp.WithDescription("Show whether the DDALAB stack is running and the state of each service"),
		), Handler: t.HandleStatus},
		{Tool: mcp.NewTool("ddalab_logs",
			mcp.WithDescription("Fetch the recent logs of the DDALAB stack"),
		), Handler: t.HandleLogs},
		{Tool: mcp.NewTool("ddalab_service_action",
			mcp.WithDescription("Start, stop or restart one DDALAB service"),
			mcp.WithString("name", mcp.Required(), mcp.Description("Service name as shown by ddalab_status")),
			mcp.WithString("action", mcp.Required(), mcp.Description("start, stop or restart"), mcp.Enum("start", "stop", "restart")),
		), Handler: t.HandleServiceAction},
		{Tool: mcp.NewTool("ddalab_stack_action",
			mcp.WithDescription("Start, stop or restart the whole DDALAB stack"),
			mcp.WithString("action", mcp.Required(), mcp.Description("start, stop or restart"), mcp.Enum("start", "stop", "restart")),
		), Handler: t.HandleStackAction},
		{Tool: mcp.NewTool("ddalab_backup",
			mcp.WithDescription("Create a database backup of the running stack"),
		), Handler: t.HandleBackup},
		{Tool: mcp.NewTool("ddalab_update",
			mcp.WithDescription("Pull and apply the latest DDALAB release"),
		), Handler: t.HandleUpdate},
		{Tool: mcp.NewTool("ddalab_paths_list",
			mcp.WithDescription("List known and discovered installation paths"),
		), Handler: t.HandlePathsList},
		{Tool: mcp.NewTool("ddalab_path_validate",
			mcp.WithDescription("Check whether a directory is a DDALAB installation"),
			mcp.WithString("path", mcp.Required(), mcp.Description("Directory to check")),
		), Handler: t.HandlePathValidate},
		{Tool: mcp.NewTool("ddalab_path_select",
			mcp.WithDescription("Make a directory the active DDALAB installation"),
			mcp.WithString("path", mcp.Required(), mcp.Description("Directory to select")),
		), Handler: t.HandlePathSelect},
		{Tool: mcp.NewTool("ddalab_env_config",
			mcp.WithDescription("Show the URL the DDALAB web interface is served on"),
		), Handler: t.HandleEnvConfig},
		{Tool: mcp.NewTool("ddalab_env_file",
			mcp.WithDescription("Show the variables of the installation's env file. Secret values are redacted unless show_secrets is true"),
			mcp.WithBoolean("show_secrets", mcp.Description("Include secret values")),
		), Handler: t.HandleEnvFile},
		{Tool: mcp.NewTool("ddalab_env_validate",
			mcp.WithDescription("Validate the env file with the given values applied, without saving"),
			mcp.WithObject("values", mcp.Description("Map of variable name to new value")),
		), Handler: t.HandleEnvValidate},
		{Tool: mcp.NewTool("ddalab_env_set",
			mcp.WithDescription("Apply values to the env file and save it when it validates"),
			mcp.WithObject("values", mcp.Required(), mcp.Description("Map of variable name to new value")),
		), Handler: t.HandleEnvSet},
	}
}

// HandleStatus handles the ddalab_status tool
func (t *Tools) HandleStatus(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	status, err := t.backend.Status(ctx)
	if err != nil {
		return failed("get status", err), nil
	}
	return jsonResult(status)
}

// HandleLogs handles the ddalab_logs tool
func (t *Tools) HandleLogs(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	logs, err := t.backend.Logs(ctx)
	if err != nil {
		return failed("fetch logs", err), nil
	}
	if logs == "" {
		return mcp.NewToolResultText("No logs available"), nil
	}
	return mcp.NewToolResultText(logs), nil
}

// HandleServiceAction handles the ddalab_service_action tool
func (t *Tools) HandleServiceAction(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	name, err := request.RequireString("name")
	if err != nil {
		return mcp.NewToolResultError("name parameter is required"), nil
	}
	action, errResult := requireAction(request)
	if errResult != nil {
		return errResult, nil
	}
	if err := t.backend.ServiceAction(ctx, name, action); err != nil {
		return failed(fmt.Sprintf("%s %s", action, name), err), nil
	}
	logging.Info(subsystem, "Service %s: %s requested", name, action)
	return jsonResult(cli.OK("%s %s successfully", action, name))
}

// HandleStackAction handles the ddalab_stack_action tool
func (t *Tools) HandleStackAction(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	action, errResult := requireAction(request)
	if errResult != nil {
		return errResult, nil
	}
	if err := t.backend.StackAction(ctx, action); err != nil {
		return failed(fmt.Sprintf("%s DDALAB", action), err), nil
	}
	logging.Info(subsystem, "Stack %s requested", action)
	return jsonResult(cli.OK("DDALAB %s initiated", action))
}

// HandleBackup handles the ddalab_backup tool
func (t *Tools) HandleBackup(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	res, err := t.backend.Backup(ctx)
	if err != nil {
		return failed("create backup", err), nil
	}
	return jsonResult(res)
}

// HandleUpdate handles the ddalab_update tool
func (t *Tools) HandleUpdate(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	res, err := t.backend.Update(ctx)
	if err != nil {
		return failed("update DDALAB", err), nil
	}
	return jsonResult(res)
}

// HandlePathsList handles the ddalab_paths_list tool
func (t *Tools) HandlePathsList(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	current, candidates, err := pathselect.Load(ctx, t.backend)
	if err != nil {
		return failed("list paths", err), nil
	}
	return jsonResult(cli.CandidatesView{Selected: current, Candidates: candidates})
}

// HandlePathValidate handles the ddalab_path_validate tool
func (t *Tools) HandlePathValidate(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	path, errResult := requirePath(request)
	if errResult != nil {
		return errResult, nil
	}
	res, err := t.backend.ValidatePath(ctx, path)
	if err != nil {
		return failed("validate "+path, err), nil
	}
	return jsonResult(res)
}

// HandlePathSelect handles the ddalab_path_select tool
func (t *Tools) HandlePathSelect(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	path, errResult := requirePath(request)
	if errResult != nil {
		return errResult, nil
	}
	res, err := t.backend.SelectPath(ctx, path)
	if err != nil {
		return failed("select "+path, err), nil
	}
	if !res.Valid {
		data, _ := json.MarshalIndent(res, "", "  ")
		return mcp.NewToolResultError(string(data)), nil
	}
	logging.Info(subsystem, "Selected installation %s", path)
	return jsonResult(res)
}

// HandleEnvConfig handles the ddalab_env_config tool
func (t *Tools) HandleEnvConfig(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	cfg, err := t.backend.EnvConfig(ctx)
	if err != nil {
		return failed("get env config", err), nil
	}
	return jsonResult(cfg)
}

// HandleEnvFile handles the ddalab_env_file tool
func (t *Tools) HandleEnvFile(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	ed, err := t.loadEditor(ctx)
	if err != nil {
		return failed("load env file", err), nil
	}
	show, _ := request.GetArguments()["show_secrets"].(bool)
	return jsonResult(cli.NewEnvFileView(ed, show))
}

// HandleEnvValidate handles the ddalab_env_validate tool
func (t *Tools) HandleEnvValidate(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	ed, errResult := t.editorWithValues(ctx, request, false)
	if errResult != nil {
		return errResult, nil
	}
	res, err := t.backend.ValidateEnvFile(ctx, ed.Merged())
	if err != nil {
		return failed("validate env file", err), nil
	}
	return jsonResult(res)
}

// HandleEnvSet handles the ddalab_env_set tool
func (t *Tools) HandleEnvSet(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	ed, errResult := t.editorWithValues(ctx, request, true)
	if errResult != nil {
		return errResult, nil
	}
	res, err := t.backend.SaveEnvFile(ctx, ed.Merged())
	if err != nil {
		return failed("save env file", err), nil
	}
	if !res.Valid {
		data, _ := json.MarshalIndent(res, "", "  ")
		return mcp.NewToolResultError(string(data)), nil
	}
	logging.Info(subsystem, "Saved %d env values", ed.Pending())
	return jsonResult(cli.OK("Saved %d values", ed.Pending()))
}

func (t *Tools) loadEditor(ctx context.Context) (*envedit.Editor, error) {
	ef, err := t.backend.EnvFile(ctx)
	if err != nil {
		return nil, err
	}
	ed := envedit.NewEditor()
	ed.Load(ef)
	return ed, nil
}

// editorWithValues loads the env file and applies the "values" argument.
func (t *Tools) editorWithValues(ctx context.Context, request mcp.CallToolRequest, required bool) (*envedit.Editor, *mcp.CallToolResult) {
	values, err := stringMap(request.GetArguments()["values"])
	if err != nil {
		return nil, mcp.NewToolResultError(err.Error())
	}
	if required && len(values) == 0 {
		return nil, mcp.NewToolResultError("values parameter is required")
	}
	ed, err := t.loadEditor(ctx)
	if err != nil {
		return nil, failed("load env file", err)
	}
	keys := make([]string, 0, len(values))
	for k := range values {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	for _, k := range keys {
		if err := ed.Set(k, values[k]); err != nil {
			return nil, mcp.NewToolResultError(err.Error())
		}
	}
	return ed, nil
}

func stringMap(raw any) (map[string]string, error) {
	if raw == nil {
		return nil, nil
	}
	obj, ok := raw.(map[string]any)
	if !ok {
		return nil, fmt.Errorf("values must be an object")
	}
	out := make(map[string]string, len(obj))
	for k, v := range obj {
		switch val := v.(type) {
		case string:
			out[k] = val
		case bool, float64, int, int64:
			out[k] = fmt.Sprint(val)
		default:
			return nil, fmt.Errorf("value of %s must be a string", k)
		}
	}
	return out, nil
}

func requireAction(request mcp.CallToolRequest) (backend.Action, *mcp.CallToolResult) {
	raw, err := request.RequireString("action")
	if err != nil {
		return "", mcp.NewToolResultError("action parameter is required")
	}
	action, err := backend.ParseAction(raw)
	if err != nil {
		return "", mcp.NewToolResultError(err.Error())
	}
	return action, nil
}

func requirePath(request mcp.CallToolRequest) (string, *mcp.CallToolResult) {
	raw, err := request.RequireString("path")
	if err != nil {
		return "", mcp.NewToolResultError("path parameter is required")
	}
	path := pathselect.Normalize(raw)
	if path == "" {
		return "", mcp.NewToolResultError("path parameter is required")
	}
	return path, nil
}

func failed(what string, err error) *mcp.CallToolResult {
	logging.Error(subsystem, err, "Failed to %s", what)
	return mcp.NewToolResultError(fmt.Sprintf("Failed to %s: %v", what, err))
}

func jsonResult(v any) (*mcp.CallToolResult, error) {
	jsonData, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("Failed to format result: %v", err)), nil
	}
	return mcp.NewToolResultText(string(jsonData)), nil
}

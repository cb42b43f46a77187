package model

import (
	"ddalabctl/internal/backend"
	"ddalabctl/internal/opener"
	"ddalabctl/pkg/logging"
)

// ---- Housekeeping messages ----

// ClearStatusBarMsg removes the alert numbered Generation if it is still
// shown.
type ClearStatusBarMsg struct {
	Generation int
}

// NewLogEntryMsg carries one entry from the logging channel.
type NewLogEntryMsg struct {
	Entry logging.LogEntry
}

// PollTickMsg triggers a status fetch when Generation is current.
type PollTickMsg struct {
	Generation int
}

// ---- Dashboard data messages ----

// StatusMsg is the result of GET /status. Initial marks a step of the
// initial load.
type StatusMsg struct {
	Status  *backend.Status
	Err     error
	Initial bool
}

// CurrentPathMsg is the result of GET /paths during the initial load.
type CurrentPathMsg struct {
	Info    *backend.PathsInfo
	Err     error
	Initial bool
}

// EnvConfigMsg is the result of GET /env.
type EnvConfigMsg struct {
	Config  *backend.EnvConfig
	Err     error
	Initial bool
}

// ---- Action results ----

type ServiceActionMsg struct {
	Name   string
	Action backend.Action
	Err    error
}

type StackActionMsg struct {
	Action backend.Action
	Err    error
}

type BackupMsg struct {
	Result *backend.BackupResult
	Err    error
}

type UpdateMsg struct {
	Result *backend.UpdateResult
	Err    error
}

type BackendLogsMsg struct {
	Logs string
	Err  error
}

type OpenURLMsg struct {
	Result opener.Result
	Err    error
}

// ---- Path selector messages ----

type KnownPathsMsg struct {
	Info *backend.PathsInfo
	Err  error
}

type DiscoveredPathsMsg struct {
	Paths []string
	Err   error
}

// PathValidatedMsg answers the validation request numbered Seq.
type PathValidatedMsg struct {
	Seq    uint64
	Path   string
	Result *backend.PathValidationResult
	Err    error
}

type PathSelectedMsg struct {
	Path   string
	Result *backend.PathValidationResult
	Err    error
}

// ---- Env editor messages ----

type EnvFileLoadedMsg struct {
	File *backend.EnvFile
	Err  error
}

type EnvSavedMsg struct {
	Result *backend.ValidationResult
	Err    error
}

type EnvValidatedMsg struct {
	Result *backend.ValidationResult
	Err    error
}

type EnvExportedMsg struct {
	Path string
	Err  error
}

type EnvImportReadMsg struct {
	Path string
	Data []byte
	Err  error
}

package model

import (
	"bytes"
	"context"
	"os"
	"path/filepath"
	"time"

	tea "github.com/charmbracelet/bubbletea"

	"ddalabctl/internal/backend"
	"ddalabctl/internal/envedit"
	"ddalabctl/internal/opener"
	"ddalabctl/pkg/logging"
)

// ListenForLogEntriesCmd waits for the next log entry. A closed channel ends
// the listener.
func ListenForLogEntriesCmd(ch <-chan logging.LogEntry) tea.Cmd {
	if ch == nil {
		return nil
	}
	return func() tea.Msg {
		entry, ok := <-ch
		if !ok {
			return nil
		}
		return NewLogEntryMsg{Entry: entry}
	}
}

// PollTickCmd schedules the next status poll for generation.
func PollTickCmd(interval time.Duration, generation int) tea.Cmd {
	return tea.Tick(interval, func(time.Time) tea.Msg {
		return PollTickMsg{Generation: generation}
	})
}

func FetchStatusCmd(b backend.Backend, initial bool) tea.Cmd {
	return func() tea.Msg {
		st, err := b.Status(context.Background())
		return StatusMsg{Status: st, Err: err, Initial: initial}
	}
}

func FetchCurrentPathCmd(b backend.Backend, initial bool) tea.Cmd {
	return func() tea.Msg {
		info, err := b.Paths(context.Background())
		return CurrentPathMsg{Info: info, Err: err, Initial: initial}
	}
}

func FetchEnvConfigCmd(b backend.Backend, initial bool) tea.Cmd {
	return func() tea.Msg {
		cfg, err := b.EnvConfig(context.Background())
		return EnvConfigMsg{Config: cfg, Err: err, Initial: initial}
	}
}

// InitialLoadCmd fetches the current path, the status and the env config
// concurrently.
func InitialLoadCmd(b backend.Backend) tea.Cmd {
	return tea.Batch(
		FetchCurrentPathCmd(b, true),
		FetchStatusCmd(b, true),
		FetchEnvConfigCmd(b, true),
	)
}

func ServiceActionCmd(b backend.Backend, name string, action backend.Action) tea.Cmd {
	return func() tea.Msg {
		err := b.ServiceAction(context.Background(), name, action)
		return ServiceActionMsg{Name: name, Action: action, Err: err}
	}
}

func StackActionCmd(b backend.Backend, action backend.Action) tea.Cmd {
	return func() tea.Msg {
		err := b.StackAction(context.Background(), action)
		return StackActionMsg{Action: action, Err: err}
	}
}

func BackupCmd(b backend.Backend) tea.Cmd {
	return func() tea.Msg {
		res, err := b.Backup(context.Background())
		return BackupMsg{Result: res, Err: err}
	}
}

func UpdateCmd(b backend.Backend) tea.Cmd {
	return func() tea.Msg {
		res, err := b.Update(context.Background())
		return UpdateMsg{Result: res, Err: err}
	}
}

func FetchBackendLogsCmd(b backend.Backend) tea.Cmd {
	return func() tea.Msg {
		logs, err := b.Logs(context.Background())
		return BackendLogsMsg{Logs: logs, Err: err}
	}
}

func OpenURLCmd(o opener.URLOpener, url string) tea.Cmd {
	return func() tea.Msg {
		res, err := o.Open(url)
		return OpenURLMsg{Result: res, Err: err}
	}
}

// LoadPathCandidatesCmd fetches known and discovered paths as two
// independent requests.
func LoadPathCandidatesCmd(b backend.Backend) tea.Cmd {
	return tea.Batch(
		func() tea.Msg {
			info, err := b.Paths(context.Background())
			return KnownPathsMsg{Info: info, Err: err}
		},
		func() tea.Msg {
			paths, err := b.DiscoverPaths(context.Background())
			return DiscoveredPathsMsg{Paths: paths, Err: err}
		},
	)
}

func ValidatePathCmd(b backend.Backend, seq uint64, path string) tea.Cmd {
	return func() tea.Msg {
		res, err := b.ValidatePath(context.Background(), path)
		return PathValidatedMsg{Seq: seq, Path: path, Result: res, Err: err}
	}
}

func SelectPathCmd(b backend.Backend, path string) tea.Cmd {
	return func() tea.Msg {
		res, err := b.SelectPath(context.Background(), path)
		return PathSelectedMsg{Path: path, Result: res, Err: err}
	}
}

func LoadEnvFileCmd(b backend.Backend) tea.Cmd {
	return func() tea.Msg {
		ef, err := b.EnvFile(context.Background())
		return EnvFileLoadedMsg{File: ef, Err: err}
	}
}

// SaveEnvCmd sends vars, which the caller merged from the editor in the
// update loop.
func SaveEnvCmd(b backend.Backend, vars []backend.EnvVar) tea.Cmd {
	return func() tea.Msg {
		res, err := b.SaveEnvFile(context.Background(), vars)
		return EnvSavedMsg{Result: res, Err: err}
	}
}

func ValidateEnvCmd(b backend.Backend, vars []backend.EnvVar) tea.Cmd {
	return func() tea.Msg {
		res, err := b.ValidateEnvFile(context.Background(), vars)
		return EnvValidatedMsg{Result: res, Err: err}
	}
}

// ExportEnvCmd writes exp to dir using the dated export file name.
func ExportEnvCmd(dir string, exp envedit.Export) tea.Cmd {
	return func() tea.Msg {
		var buf bytes.Buffer
		if err := envedit.WriteExport(&buf, exp); err != nil {
			return EnvExportedMsg{Err: err}
		}
		path := filepath.Join(dir, envedit.ExportFileName(exp.ExportedAt))
		if err := os.WriteFile(path, buf.Bytes(), 0o600); err != nil {
			return EnvExportedMsg{Path: path, Err: err}
		}
		return EnvExportedMsg{Path: path}
	}
}

// ReadImportCmd reads an export file; parsing happens in the update loop.
func ReadImportCmd(path string) tea.Cmd {
	return func() tea.Msg {
		data, err := os.ReadFile(path)
		return EnvImportReadMsg{Path: path, Data: data, Err: err}
	}
}

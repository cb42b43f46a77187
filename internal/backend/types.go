package backend

import (
	"encoding/json"
	"fmt"
	"strings"
)

// ServiceState is the normalised state of a single compose service.
type ServiceState string

const (
	ServiceRunning ServiceState = "running"
	ServiceStopped ServiceState = "stopped"
	ServiceUnknown ServiceState = "unknown"
)

// UnmarshalJSON maps anything the backend reports that is not running or
// stopped onto ServiceUnknown.
func (s *ServiceState) UnmarshalJSON(data []byte) error {
	var raw string
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}
	*s = ParseServiceState(raw)
	return nil
}

// ParseServiceState normalises a raw status string.
func ParseServiceState(raw string) ServiceState {
	switch strings.ToLower(strings.TrimSpace(raw)) {
	case "running":
		return ServiceRunning
	case "stopped":
		return ServiceStopped
	default:
		return ServiceUnknown
	}
}

// Service is one entry of the compose stack.
type Service struct {
	Name   string       `json:"name" yaml:"name"`
	Status ServiceState `json:"status" yaml:"status"`
}

// Status is the aggregate stack status. It replaces the previous value
// wholesale on every fetch.
type Status struct {
	Running  bool      `json:"running" yaml:"running"`
	Services []Service `json:"services" yaml:"services"`
	Version  string    `json:"version" yaml:"version"`
	Path     string    `json:"path" yaml:"path"`
}

// RunningCount returns how many services report running.
func (s Status) RunningCount() int {
	n := 0
	for _, svc := range s.Services {
		if svc.Status == ServiceRunning {
			n++
		}
	}
	return n
}

// Action is a lifecycle verb accepted by the service and stack endpoints.
type Action string

const (
	ActionStart   Action = "start"
	ActionStop    Action = "stop"
	ActionRestart Action = "restart"
)

// ParseAction validates a user supplied action name.
func ParseAction(s string) (Action, error) {
	switch a := Action(strings.ToLower(s)); a {
	case ActionStart, ActionStop, ActionRestart:
		return a, nil
	default:
		return "", fmt.Errorf("unknown action %q (want start, stop or restart)", s)
	}
}

// EnvVar is a single entry of the managed .env file. LineNum is kept so the
// backend can write the file back in its original layout.
type EnvVar struct {
	Key      string `json:"key" yaml:"key"`
	Value    string `json:"value" yaml:"value"`
	Comment  string `json:"comment" yaml:"comment"`
	Section  string `json:"section" yaml:"section"`
	Required bool   `json:"required" yaml:"required"`
	Secret   bool   `json:"secret" yaml:"secret"`
	LineNum  int    `json:"line_num" yaml:"line_num"`
}

// EnvFile is the structured .env file as returned by GET /env/file.
type EnvFile struct {
	Variables []EnvVar `json:"variables" yaml:"variables"`
	Path      string   `json:"path" yaml:"path"`
	Modified  bool     `json:"modified" yaml:"modified"`
}

// UpdateEnvRequest is the body of PUT /env/file and POST /env/validate.
type UpdateEnvRequest struct {
	Variables []EnvVar `json:"variables"`
}

// ValidationError is a rejection. Key is empty when the backend reports a
// bare message that applies to the file as a whole.
type ValidationError struct {
	Key     string `json:"key,omitempty" yaml:"key,omitempty"`
	Message string `json:"message" yaml:"message"`
}

// UnmarshalJSON accepts both {"key":..,"message":..} and a bare string.
func (e *ValidationError) UnmarshalJSON(data []byte) error {
	var msg string
	if err := json.Unmarshal(data, &msg); err == nil {
		*e = ValidationError{Message: msg}
		return nil
	}
	type plain ValidationError
	var p plain
	if err := json.Unmarshal(data, &p); err != nil {
		return err
	}
	*e = ValidationError(p)
	return nil
}

// ValidationResult is the backend verdict on an env file.
type ValidationResult struct {
	Valid    bool              `json:"valid" yaml:"valid"`
	Errors   []ValidationError `json:"errors" yaml:"errors"`
	Warnings []string          `json:"warnings,omitempty" yaml:"warnings,omitempty"`
}

// GeneralErrors returns the messages not tied to a variable.
func (r *ValidationResult) GeneralErrors() []string {
	if r == nil || r.Valid {
		return nil
	}
	var out []string
	for _, e := range r.Errors {
		if e.Key == "" {
			out = append(out, e.Message)
		}
	}
	return out
}

// ErrorFor returns the first error reported for key.
func (r *ValidationResult) ErrorFor(key string) (ValidationError, bool) {
	if r == nil || r.Valid {
		return ValidationError{}, false
	}
	for _, e := range r.Errors {
		if e.Key == key {
			return e, true
		}
	}
	return ValidationError{}, false
}

// PathValidationResult is the verdict on a candidate installation path.
type PathValidationResult struct {
	Valid           bool   `json:"valid" yaml:"valid"`
	Path            string `json:"path" yaml:"path"`
	Message         string `json:"message" yaml:"message"`
	HasCompose      bool   `json:"has_compose" yaml:"has_compose"`
	HasDDALABScript bool   `json:"has_ddalab_script" yaml:"has_ddalab_script"`
}

// PathSelectionRequest is the body of /paths/validate and /paths/select.
type PathSelectionRequest struct {
	Path string `json:"path"`
}

// PathsInfo is the extension's path configuration (GET /paths). The
// discovered list is filled by GET /paths/discover.
type PathsInfo struct {
	SelectedPath    string   `json:"selected_path,omitempty" yaml:"selected_path,omitempty"`
	KnownPaths      []string `json:"known_paths,omitempty" yaml:"known_paths,omitempty"`
	DiscoveredPaths []string `json:"discovered_paths,omitempty" yaml:"discovered_paths,omitempty"`
}

// EnvConfig is the compact configuration derived from the env file.
type EnvConfig struct {
	URL    string `json:"url" yaml:"url"`
	Host   string `json:"host" yaml:"host"`
	Port   string `json:"port" yaml:"port"`
	Scheme string `json:"scheme" yaml:"scheme"`
	Domain string `json:"domain" yaml:"domain"`
}

// BackupResult is returned by POST /backup. Depending on how the backup ran
// either Filename or Output is set.
type BackupResult struct {
	Filename string `json:"filename,omitempty" yaml:"filename,omitempty"`
	Output   string `json:"output,omitempty" yaml:"output,omitempty"`
}

// Describe returns a one-line summary for alerts.
func (b BackupResult) Describe() string {
	if b.Filename != "" {
		return b.Filename
	}
	out := strings.TrimSpace(b.Output)
	if i := strings.LastIndexByte(out, '\n'); i >= 0 {
		out = out[i+1:]
	}
	if out == "" {
		return "completed"
	}
	return out
}

// UpdateResult is returned by POST /update.
type UpdateResult struct {
	Status  string `json:"status,omitempty" yaml:"status,omitempty"`
	Message string `json:"message,omitempty" yaml:"message,omitempty"`
}

type logsResponse struct {
	Logs string `json:"logs"`
}

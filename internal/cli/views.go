package cli

import (
	"fmt"
	"strings"

	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/jedib0t/go-pretty/v6/text"

	"ddalabctl/internal/backend"
	"ddalabctl/internal/doctor"
	"ddalabctl/internal/envedit"
	"ddalabctl/internal/pathselect"
)

// StatusView is the output of `ddalabctl status`.
type StatusView struct {
	Running  bool              `json:"running" yaml:"running"`
	Version  string            `json:"version" yaml:"version"`
	Path     string            `json:"path" yaml:"path"`
	Summary  string            `json:"services_running" yaml:"services_running"`
	Services []backend.Service `json:"services" yaml:"services"`
}

// NewStatusView wraps a backend status.
func NewStatusView(s *backend.Status) StatusView {
	return StatusView{
		Running:  s.Running,
		Version:  s.Version,
		Path:     s.Path,
		Summary:  fmt.Sprintf("%d/%d", s.RunningCount(), len(s.Services)),
		Services: s.Services,
	}
}

func (v StatusView) WriteTable(t table.Writer) {
	overall := "stopped"
	if v.Running {
		overall = "running"
	}
	t.SetTitle(fmt.Sprintf("DDALAB %s • %s services running • version %s", overall, v.Summary, dash(v.Version)))
	t.AppendHeader(header("service", "status"))
	for _, s := range v.Services {
		t.AppendRow(table.Row{s.Name, formatState(string(s.Status))})
	}
	if v.Path != "" {
		t.AppendFooter(table.Row{"path", v.Path})
	}
}

// CandidatesView lists installation paths.
type CandidatesView struct {
	Selected   string                 `json:"selected_path" yaml:"selected_path"`
	Candidates []pathselect.Candidate `json:"paths" yaml:"paths"`
}

func (v CandidatesView) WriteTable(t table.Writer) {
	t.AppendHeader(header("path", "known", "current"))
	for _, c := range v.Candidates {
		current := ""
		if c.Current {
			current = text.FgGreen.Sprint("✔")
		}
		t.AppendRow(table.Row{c.Path, formatBool(c.Known), current})
	}
	if len(v.Candidates) == 0 {
		t.AppendRow(table.Row{text.FgYellow.Sprint("No installations found"), "", ""})
	}
}

// PathResultView is the answer of validate and select.
type PathResultView backend.PathValidationResult

func (v PathResultView) WriteTable(t table.Writer) {
	state := "invalid"
	if v.Valid {
		state = "valid"
	}
	t.AppendRows([]table.Row{
		{"path", v.Path},
		{"result", formatState(state)},
		{"message", dash(v.Message)},
		{"docker-compose.yml", formatBool(v.HasCompose)},
		{"ddalab.sh", formatBool(v.HasDDALABScript)},
	})
}

// EnvConfigView is the output of `env show`.
type EnvConfigView backend.EnvConfig

func (v EnvConfigView) WriteTable(t table.Writer) {
	t.AppendRows([]table.Row{
		{"url", dash(v.URL)},
		{"scheme", dash(v.Scheme)},
		{"host", dash(v.Host)},
		{"port", dash(v.Port)},
		{"domain", dash(v.Domain)},
	})
}

// EnvFileView renders the grouped variables of an env file. Values of
// secrets are masked unless ShowSecrets is set.
type EnvFileView struct {
	Path        string            `json:"path" yaml:"path"`
	Modified    bool              `json:"modified" yaml:"modified"`
	Summary     envedit.Summary   `json:"summary" yaml:"summary"`
	Variables   []backend.EnvVar  `json:"variables" yaml:"variables"`
	Groups      []envedit.Group   `json:"-" yaml:"-"`
	ShowSecrets bool              `json:"-" yaml:"-"`
	Errors      map[string]string `json:"-" yaml:"-"`
}

// NewEnvFileView filters, sorts and groups the editor's variables. Secret
// values are replaced by the redaction marker unless showSecrets is set,
// in every output format.
func NewEnvFileView(ed *envedit.Editor, showSecrets bool) EnvFileView {
	v := EnvFileView{
		Summary:     ed.Summary(),
		Groups:      ed.Groups(),
		ShowSecrets: showSecrets,
	}
	if f := ed.File(); f != nil {
		v.Path = f.Path
		v.Modified = f.Modified
	}
	for _, g := range v.Groups {
		for _, ev := range g.Vars {
			ev.Value = ed.Effective(ev)
			if ev.Secret && !showSecrets {
				ev.Value = envedit.RedactedValue
			}
			v.Variables = append(v.Variables, ev)
		}
	}
	if vr := ed.Validation(); vr != nil {
		v.Errors = map[string]string{}
		for _, e := range vr.Errors {
			v.Errors[e.Key] = e.Message
		}
	}
	return v
}

func (v EnvFileView) WriteTable(t table.Writer) {
	t.SetTitle(fmt.Sprintf("%s • %d variables, %d required, %d secret, %d empty",
		dash(v.Path), v.Summary.Total, v.Summary.Required, v.Summary.Secret, v.Summary.Empty))
	t.AppendHeader(header("section", "key", "value", "flags"))
	values := map[string]string{}
	for _, ev := range v.Variables {
		values[ev.Key] = ev.Value
	}
	for _, g := range v.Groups {
		section := g.Section
		if section == "" {
			section = "General"
		}
		for i, ev := range g.Vars {
			name := ""
			if i == 0 {
				name = text.Bold.Sprint(section)
			}
			value := values[ev.Key]
			if ev.Secret && !v.ShowSecrets {
				value = envedit.MaskedValue
			}
			t.AppendRow(table.Row{name, ev.Key, truncate(value, 48), envFlags(ev, v.Errors[ev.Key])})
		}
		t.AppendSeparator()
	}
}

func envFlags(v backend.EnvVar, errMsg string) string {
	var flags []string
	if v.Required {
		flags = append(flags, text.FgRed.Sprint("required"))
	}
	if v.Secret {
		flags = append(flags, text.FgYellow.Sprint("secret"))
	}
	if errMsg != "" {
		flags = append(flags, text.FgRed.Sprint("✖ "+errMsg))
	}
	return strings.Join(flags, " ")
}

// ValidationView is the answer of save and validate.
type ValidationView backend.ValidationResult

func (v ValidationView) WriteTable(t table.Writer) {
	if v.Valid {
		t.AppendRow(table.Row{formatState("valid"), "Configuration is valid"})
		return
	}
	t.AppendHeader(header("key", "error"))
	for _, e := range v.Errors {
		t.AppendRow(table.Row{e.Key, text.FgRed.Sprint(e.Message)})
	}
	if len(v.Errors) == 0 {
		t.AppendRow(table.Row{"", text.FgRed.Sprint("Configuration is invalid")})
	}
	for _, w := range v.Warnings {
		t.AppendRow(table.Row{"", text.FgYellow.Sprint(w)})
	}
}

// Message is a one-line result such as "restart api successfully".
type Message struct {
	Status  string `json:"status" yaml:"status"`
	Message string `json:"message" yaml:"message"`
	Detail  string `json:"detail,omitempty" yaml:"detail,omitempty"`
}

// OK returns a successful Message.
func OK(format string, args ...any) Message {
	return Message{Status: "ok", Message: fmt.Sprintf(format, args...)}
}

func (m Message) Text() string {
	icon := text.FgGreen.Sprint("✔")
	if m.Status != "ok" {
		icon = text.FgRed.Sprint("✖")
	}
	out := icon + " " + m.Message
	if m.Detail != "" {
		out += "\n" + m.Detail
	}
	return out
}

// LogsView prints backend logs verbatim in table mode.
type LogsView struct {
	Logs string `json:"logs" yaml:"logs"`
}

func (v LogsView) Text() string {
	return strings.TrimRight(v.Logs, "\n")
}

// DoctorView renders a diagnostics report.
type DoctorView doctor.Report

func (v DoctorView) WriteTable(t table.Writer) {
	t.AppendHeader(header("check", "result", "detail"))
	for _, c := range v.Checks {
		t.AppendRow(table.Row{c.Name, formatSeverity(c.Severity), c.Detail})
	}
}

func formatSeverity(s doctor.Severity) string {
	switch s {
	case doctor.SeverityOK:
		return text.FgGreen.Sprint("✔ ok")
	case doctor.SeverityWarn:
		return text.FgYellow.Sprint("⚠ warn")
	default:
		return text.FgRed.Sprint("✖ fail")
	}
}

package cli

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/jedib0t/go-pretty/v6/text"
	"gopkg.in/yaml.v3"
)

// OutputFormat represents the output format for CLI commands
type OutputFormat string

const (
	OutputFormatTable OutputFormat = "table"
	OutputFormatJSON  OutputFormat = "json"
	OutputFormatYAML  OutputFormat = "yaml"
)

// ParseOutputFormat accepts table, json and yaml. Empty means table.
func ParseOutputFormat(s string) (OutputFormat, error) {
	switch f := OutputFormat(strings.ToLower(strings.TrimSpace(s))); f {
	case "":
		return OutputFormatTable, nil
	case OutputFormatTable, OutputFormatJSON, OutputFormatYAML:
		return f, nil
	default:
		return "", fmt.Errorf("unsupported output format %q (want table, json or yaml)", s)
	}
}

// Tabular is implemented by values with a table rendering.
type Tabular interface {
	WriteTable(t table.Writer)
}

// Texter is implemented by values rendered as plain lines in table mode.
type Texter interface {
	Text() string
}

// Printer writes command results in the selected format.
type Printer struct {
	Format OutputFormat
	Out    io.Writer
}

// NewPrinter returns a printer writing to stdout when out is nil.
func NewPrinter(format OutputFormat, out io.Writer) *Printer {
	if out == nil {
		out = os.Stdout
	}
	if format == "" {
		format = OutputFormatTable
	}
	return &Printer{Format: format, Out: out}
}

// Print renders v. In table mode v should implement Tabular or Texter;
// anything else is printed as YAML.
func (p *Printer) Print(v any) error {
	switch p.Format {
	case OutputFormatJSON:
		enc := json.NewEncoder(p.Out)
		enc.SetIndent("", "  ")
		return enc.Encode(v)
	case OutputFormatYAML:
		return p.outputYAML(v)
	case OutputFormatTable:
		switch tv := v.(type) {
		case Tabular:
			t := newTable(p.Out)
			tv.WriteTable(t)
			t.Render()
			return nil
		case Texter:
			_, err := fmt.Fprintln(p.Out, tv.Text())
			return err
		default:
			return p.outputYAML(v)
		}
	default:
		return fmt.Errorf("unsupported output format: %s", p.Format)
	}
}

func (p *Printer) outputYAML(v any) error {
	enc := yaml.NewEncoder(p.Out)
	enc.SetIndent(2)
	if err := enc.Encode(v); err != nil {
		return fmt.Errorf("failed to convert to YAML: %w", err)
	}
	return enc.Close()
}

func newTable(out io.Writer) table.Writer {
	t := table.NewWriter()
	t.SetOutputMirror(out)
	t.SetStyle(table.StyleRounded)
	return t
}

func header(cols ...string) table.Row {
	row := make(table.Row, len(cols))
	for i, c := range cols {
		row[i] = text.FgHiCyan.Sprint(strings.ToUpper(c))
	}
	return row
}

// formatState adds colour and an icon to a service or stack state.
func formatState(state string) string {
	switch strings.ToLower(state) {
	case "running", "healthy", "valid":
		return text.FgGreen.Sprint("● " + state)
	case "stopped":
		return text.FgRed.Sprint("○ " + state)
	case "invalid":
		return text.FgRed.Sprint("✖ " + state)
	default:
		return text.FgYellow.Sprint("? " + state)
	}
}

func formatBool(b bool) string {
	if b {
		return text.FgGreen.Sprint("yes")
	}
	return text.FgHiBlack.Sprint("no")
}

func dash(s string) string {
	if s == "" {
		return text.FgHiBlack.Sprint("-")
	}
	return s
}

func truncate(s string, n int) string {
	if r := []rune(s); len(r) > n {
		return string(r[:n-1]) + "…"
	}
	return s
}

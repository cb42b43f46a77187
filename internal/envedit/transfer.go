package envedit

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"sort"
	"time"

	"ddalabctl/internal/backend"
)

// RedactedValue replaces secret values in exported snapshots.
const RedactedValue = "***REDACTED***"

// ExportedVar is one variable in an exported snapshot.
type ExportedVar struct {
	Key      string `json:"key"`
	Value    string `json:"value"`
	Comment  string `json:"comment"`
	Section  string `json:"section"`
	Required bool   `json:"required"`
	Secret   bool   `json:"secret"`
}

// Export is the portable, redacted snapshot of an env file.
type Export struct {
	ExportedAt time.Time     `json:"exported_at"`
	Variables  []ExportedVar `json:"variables"`
}

// NewExport builds a redacted export of vars taken at now.
func NewExport(vars []backend.EnvVar, now time.Time) Export {
	out := Export{ExportedAt: now.UTC(), Variables: make([]ExportedVar, 0, len(vars))}
	for _, v := range vars {
		value := v.Value
		if v.Secret {
			value = RedactedValue
		}
		out.Variables = append(out.Variables, ExportedVar{
			Key:      v.Key,
			Value:    value,
			Comment:  v.Comment,
			Section:  v.Section,
			Required: v.Required,
			Secret:   v.Secret,
		})
	}
	return out
}

// ExportFileName is the default artifact name for an export taken at now.
func ExportFileName(now time.Time) string {
	return fmt.Sprintf("ddalab-config-%s.json", now.Format("2006-01-02"))
}

// WriteExport encodes an export as indented JSON.
func WriteExport(w io.Writer, exp Export) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(exp)
}

type importEntry struct {
	Key    string          `json:"key"`
	Value  json.RawMessage `json:"value"`
	Secret bool            `json:"secret"`
}

type importDoc struct {
	Variables []importEntry `json:"variables"`
}

// ParseImport decodes an exported snapshot and returns the values it may
// contribute: entries with an empty key, flagged secret, with a null value
// or carrying the redaction marker are skipped. Other non-string values are
// rejected.
func ParseImport(r io.Reader) (map[string]string, error) {
	var doc importDoc
	if err := json.NewDecoder(r).Decode(&doc); err != nil {
		return nil, fmt.Errorf("invalid configuration export: %w", err)
	}
	if doc.Variables == nil {
		return nil, fmt.Errorf("invalid configuration export: missing variables list")
	}
	values := map[string]string{}
	for _, entry := range doc.Variables {
		if entry.Key == "" || entry.Secret || bytes.Equal(bytes.TrimSpace(entry.Value), []byte("null")) {
			continue
		}
		var value string
		if len(entry.Value) > 0 {
			if err := json.Unmarshal(entry.Value, &value); err != nil {
				return nil, fmt.Errorf("invalid configuration export: value of %s is not a string", entry.Key)
			}
		}
		if value == RedactedValue {
			continue
		}
		values[entry.Key] = value
	}
	return values, nil
}

// Export returns a redacted snapshot of the loaded file. Pending edits are
// not included.
func (e *Editor) Export(now time.Time) Export {
	return NewExport(e.Vars(), now)
}

// Import parses an export and applies its values to the overlay. On error
// the overlay is unchanged. Keys missing from the loaded file are skipped
// and returned so the caller can report them. The count of applied values
// is returned.
func (e *Editor) Import(r io.Reader) (applied int, skipped []string, err error) {
	values, err := ParseImport(r)
	if err != nil {
		return 0, nil, err
	}
	for key, value := range values {
		v, ok := e.Lookup(key)
		if !ok {
			skipped = append(skipped, key)
			continue
		}
		if v.Secret {
			continue
		}
		e.overlay[key] = value
		applied++
	}
	if applied > 0 {
		e.validation = nil
	}
	sort.Strings(skipped)
	return applied, skipped, nil
}

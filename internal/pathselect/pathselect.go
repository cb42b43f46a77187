// Package pathselect holds the non-visual logic of the installation path
// picker: merging known and discovered paths, and ordering live validation
// results so that only the answer to the latest request is shown.
package pathselect

import (
	"context"
	"fmt"
	"strings"

	"golang.org/x/sync/errgroup"

	"ddalabctl/internal/backend"
)

// Candidate is one selectable installation path.
type Candidate struct {
	Path    string `json:"path" yaml:"path"`
	Known   bool   `json:"known" yaml:"known"`
	Current bool   `json:"current" yaml:"current"`
}

// Merge returns the union of known and discovered, known paths first, each
// path once. Empty entries are dropped.
func Merge(current string, known, discovered []string) []Candidate {
	knownSet := make(map[string]bool, len(known))
	for _, p := range known {
		knownSet[p] = true
	}
	seen := map[string]bool{}
	var out []Candidate
	add := func(p string) {
		if p == "" || seen[p] {
			return
		}
		seen[p] = true
		out = append(out, Candidate{Path: p, Known: knownSet[p], Current: current != "" && p == current})
	}
	for _, p := range known {
		add(p)
	}
	for _, p := range discovered {
		add(p)
	}
	return out
}

// Source is the subset of the backend used to list paths.
type Source interface {
	Paths(ctx context.Context) (*backend.PathsInfo, error)
	DiscoverPaths(ctx context.Context) ([]string, error)
}

// Load fetches the known and discovered paths concurrently and merges them.
// The selected path is returned alongside.
func Load(ctx context.Context, src Source) (current string, candidates []Candidate, err error) {
	var (
		info       *backend.PathsInfo
		discovered []string
	)
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		var err error
		info, err = src.Paths(gctx)
		if err != nil {
			return fmt.Errorf("failed to load known paths: %w", err)
		}
		return nil
	})
	g.Go(func() error {
		var err error
		discovered, err = src.DiscoverPaths(gctx)
		if err != nil {
			return fmt.Errorf("failed to discover paths: %w", err)
		}
		return nil
	})
	if err := g.Wait(); err != nil {
		return "", nil, err
	}
	return info.SelectedPath, Merge(info.SelectedPath, info.KnownPaths, discovered), nil
}

// Tracker numbers validation requests so stale answers can be dropped.
// The zero value is ready to use. It is not safe for concurrent use.
type Tracker struct {
	latest uint64
}

// Next returns the sequence number for a new request.
func (t *Tracker) Next() uint64 {
	t.latest++
	return t.latest
}

// Invalidate makes every outstanding request stale.
func (t *Tracker) Invalidate() {
	t.latest++
}

// Accept reports whether seq belongs to the latest issued request.
func (t *Tracker) Accept(seq uint64) bool {
	return seq == t.latest
}

// Latest returns the last issued sequence number.
func (t *Tracker) Latest() uint64 {
	return t.latest
}

// Normalize trims the user input. An empty result means there is nothing to
// validate.
func Normalize(input string) string {
	return strings.TrimSpace(input)
}

// ValidationFailed turns a transport error into an invalid result that the
// dialog can show in place of the backend answer.
func ValidationFailed(path string, err error) *backend.PathValidationResult {
	return &backend.PathValidationResult{
		Valid:   false,
		Path:    path,
		Message: "Failed to validate path: " + err.Error(),
	}
}

// SelectionFailed is ValidationFailed for /paths/select.
func SelectionFailed(path string, err error) *backend.PathValidationResult {
	return &backend.PathValidationResult{
		Valid:   false,
		Path:    path,
		Message: "Failed to select path: " + err.Error(),
	}
}

// Package doctor diagnoses why the dashboard cannot reach or control a
// DDALAB installation: the manager API, the Docker daemon and the backend
// container.
package doctor

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/docker/docker/api/types"
	"github.com/docker/docker/api/types/container"
	"github.com/docker/docker/api/types/filters"
	"github.com/docker/docker/client"

	"ddalabctl/internal/backend"
	"ddalabctl/pkg/logging"
)

const subsystem = "Doctor"

// checkTimeout bounds every single check.
const checkTimeout = 5 * time.Second

// Severity of a check result.
type Severity string

const (
	SeverityOK   Severity = "ok"
	SeverityWarn Severity = "warn"
	SeverityFail Severity = "fail"
)

// Check is the outcome of one diagnostic.
type Check struct {
	Name     string   `json:"name" yaml:"name"`
	Severity Severity `json:"severity" yaml:"severity"`
	Detail   string   `json:"detail" yaml:"detail"`
}

// Report collects all checks in the order they ran.
type Report struct {
	Checks []Check `json:"checks" yaml:"checks"`
}

// OK reports whether no check failed. Warnings do not count.
func (r Report) OK() bool {
	for _, c := range r.Checks {
		if c.Severity == SeverityFail {
			return false
		}
	}
	return true
}

func (r *Report) add(name string, sev Severity, format string, args ...any) {
	r.Checks = append(r.Checks, Check{Name: name, Severity: sev, Detail: fmt.Sprintf(format, args...)})
}

// DockerAPI is the part of the Docker client the doctor uses.
type DockerAPI interface {
	Ping(ctx context.Context) (types.Ping, error)
	ContainerList(ctx context.Context, options container.ListOptions) ([]container.Summary, error)
}

// NewDockerClient connects to the daemon configured in the environment
// (DOCKER_HOST and friends).
func NewDockerClient() (*client.Client, error) {
	cli, err := client.NewClientWithOpts(client.FromEnv, client.WithAPIVersionNegotiation())
	if err != nil {
		return nil, fmt.Errorf("failed to create docker client: %w", err)
	}
	return cli, nil
}

// Doctor runs the diagnostics. Docker may be nil when no client could be
// created; the docker checks then fail with dockerErr.
type Doctor struct {
	Backend   backend.Backend
	BaseURL   string
	Docker    DockerAPI
	DockerErr error
	Container string
}

// Run executes every check. It never stops early so the report shows all
// problems at once.
func (d *Doctor) Run(ctx context.Context) Report {
	var r Report
	d.checkBackend(ctx, &r)
	d.checkDocker(ctx, &r)
	return r
}

func (d *Doctor) checkBackend(ctx context.Context, r *Report) {
	ctx, cancel := context.WithTimeout(ctx, checkTimeout)
	defer cancel()

	status, err := d.Backend.Status(ctx)
	if err != nil {
		logging.Debug(subsystem, "Backend check failed: %v", err)
		r.add("manager API", SeverityFail, "%s unreachable: %v", d.BaseURL, err)
		r.add("installation", SeverityWarn, "skipped, manager API unreachable")
		return
	}
	version := status.Version
	if version == "" {
		version = "unknown"
	}
	r.add("manager API", SeverityOK, "%s reachable, DDALAB version %s", d.BaseURL, version)

	if status.Path == "" {
		r.add("installation", SeverityWarn, "no installation path selected (ddalabctl paths select <path>)")
		return
	}
	r.add("installation", SeverityOK, "%s, %d/%d services running", status.Path, status.RunningCount(), len(status.Services))
}

func (d *Doctor) checkDocker(ctx context.Context, r *Report) {
	if d.Docker == nil {
		err := d.DockerErr
		if err == nil {
			err = fmt.Errorf("no docker client")
		}
		r.add("docker daemon", SeverityFail, "%v", err)
		r.add("backend container", SeverityWarn, "skipped, docker unavailable")
		return
	}

	pingCtx, cancel := context.WithTimeout(ctx, checkTimeout)
	defer cancel()
	ping, err := d.Docker.Ping(pingCtx)
	if err != nil {
		r.add("docker daemon", SeverityFail, "not reachable: %v", err)
		r.add("backend container", SeverityWarn, "skipped, docker unavailable")
		return
	}
	r.add("docker daemon", SeverityOK, "reachable, API %s (%s)", ping.APIVersion, dash(ping.OSType))

	d.checkContainer(ctx, r)
}

func (d *Doctor) checkContainer(ctx context.Context, r *Report) {
	name := d.Container
	if name == "" {
		r.add("backend container", SeverityWarn, "no container name configured")
		return
	}

	listCtx, cancel := context.WithTimeout(ctx, checkTimeout)
	defer cancel()
	containers, err := d.Docker.ContainerList(listCtx, container.ListOptions{
		All:     true,
		Filters: filters.NewArgs(filters.Arg("name", name)),
	})
	if err != nil {
		r.add("backend container", SeverityFail, "failed to list containers: %v", err)
		return
	}

	c, ok := findByName(containers, name)
	if !ok {
		r.add("backend container", SeverityFail, "%s not found", name)
		return
	}
	if c.State != "running" {
		r.add("backend container", SeverityFail, "%s is %s (%s)", name, c.State, c.Status)
		return
	}
	r.add("backend container", SeverityOK, "%s %s (%s)", name, c.State, c.Status)
}

// findByName picks the container whose name is exactly name. The daemon's
// name filter also matches substrings.
func findByName(containers []container.Summary, name string) (container.Summary, bool) {
	for _, c := range containers {
		for _, n := range c.Names {
			if strings.TrimPrefix(n, "/") == name {
				return c, true
			}
		}
	}
	return container.Summary{}, false
}

func dash(s string) string {
	if s == "" {
		return "-"
	}
	return s
}

package backend

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"strings"
	"time"

	"ddalabctl/pkg/logging"

	"github.com/google/uuid"
)

const (
	apiPrefix       = "/api"
	requestIDHeader = "X-Request-ID"
	maxErrorBody    = 512
)

// Backend is the set of manager API operations used by the TUI, the CLI
// and the MCP server.
type Backend interface {
	Status(ctx context.Context) (*Status, error)
	Logs(ctx context.Context) (string, error)
	ServiceAction(ctx context.Context, name string, action Action) error
	StackAction(ctx context.Context, action Action) error
	Backup(ctx context.Context) (*BackupResult, error)
	Update(ctx context.Context) (*UpdateResult, error)
	Paths(ctx context.Context) (*PathsInfo, error)
	DiscoverPaths(ctx context.Context) ([]string, error)
	ValidatePath(ctx context.Context, path string) (*PathValidationResult, error)
	SelectPath(ctx context.Context, path string) (*PathValidationResult, error)
	EnvConfig(ctx context.Context) (*EnvConfig, error)
	EnvFile(ctx context.Context) (*EnvFile, error)
	SaveEnvFile(ctx context.Context, vars []EnvVar) (*ValidationResult, error)
	ValidateEnvFile(ctx context.Context, vars []EnvVar) (*ValidationResult, error)
}

// Client talks to a manager backend over HTTP.
type Client struct {
	baseURL    string
	httpClient *http.Client
}

var _ Backend = (*Client)(nil)

// NewClient creates a client for the backend at baseURL. The /api prefix is
// appended by the client and must not be part of baseURL.
func NewClient(baseURL string, timeout time.Duration) (*Client, error) {
	u, err := url.Parse(baseURL)
	if err != nil {
		return nil, fmt.Errorf("invalid backend URL %q: %w", baseURL, err)
	}
	if u.Scheme != "http" && u.Scheme != "https" {
		return nil, fmt.Errorf("invalid backend URL %q: scheme must be http or https", baseURL)
	}
	return &Client{
		baseURL:    strings.TrimRight(baseURL, "/"),
		httpClient: &http.Client{Timeout: timeout},
	}, nil
}

// BaseURL returns the backend root the client was created with.
func (c *Client) BaseURL() string {
	return c.baseURL
}

// do sends one request and returns the raw response body for 2xx answers.
// Any other status yields a *TransportError carrying a snippet of the body.
func (c *Client) do(ctx context.Context, method, path string, in any) ([]byte, *http.Response, error) {
	var body io.Reader
	if in != nil {
		data, err := json.Marshal(in)
		if err != nil {
			return nil, nil, &TransportError{Method: method, Path: path, Err: fmt.Errorf("encode request: %w", err)}
		}
		body = bytes.NewReader(data)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+apiPrefix+path, body)
	if err != nil {
		return nil, nil, &TransportError{Method: method, Path: path, Err: err}
	}
	reqID := uuid.NewString()
	req.Header.Set(requestIDHeader, reqID)
	req.Header.Set("Accept", "application/json")
	if in != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	start := time.Now()
	resp, err := c.httpClient.Do(req)
	if err != nil {
		logging.DebugAttrs("Backend", "request failed",
			slog.String("method", method),
			slog.String("path", path),
			slog.String("request_id", reqID),
			slog.Duration("elapsed", time.Since(start)),
			slog.String("error", err.Error()))
		return nil, nil, &TransportError{Method: method, Path: path, Err: err}
	}
	defer resp.Body.Close()

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, resp, &TransportError{Method: method, Path: path, StatusCode: resp.StatusCode, Err: err}
	}
	logging.DebugAttrs("Backend", "request done",
		slog.String("method", method),
		slog.String("path", path),
		slog.String("request_id", reqID),
		slog.Int("status", resp.StatusCode),
		slog.Duration("elapsed", time.Since(start)))

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return data, resp, &TransportError{
			Method:     method,
			Path:       path,
			StatusCode: resp.StatusCode,
			Body:       snippet(data),
			Err:        fmt.Errorf("unexpected status %s", resp.Status),
		}
	}
	return data, resp, nil
}

// doJSON performs a request and decodes a JSON answer into out.
func (c *Client) doJSON(ctx context.Context, method, path string, in, out any) error {
	data, _, err := c.do(ctx, method, path, in)
	if err != nil {
		return err
	}
	return decode(method, path, data, out)
}

func decode(method, path string, data []byte, out any) error {
	if out == nil {
		return nil
	}
	if err := json.Unmarshal(data, out); err != nil {
		return &TransportError{Method: method, Path: path, Err: fmt.Errorf("decode response: %w", err)}
	}
	return nil
}

func snippet(data []byte) string {
	s := strings.TrimSpace(string(data))
	if len(s) > maxErrorBody {
		s = s[:maxErrorBody] + "..."
	}
	return s
}

// Status fetches the aggregate stack status.
func (c *Client) Status(ctx context.Context) (*Status, error) {
	var st Status
	if err := c.doJSON(ctx, http.MethodGet, "/status", nil, &st); err != nil {
		return nil, err
	}
	return &st, nil
}

// Logs fetches recent log output. The backend answers either a JSON object
// {"logs": "..."} or the raw text.
func (c *Client) Logs(ctx context.Context) (string, error) {
	data, resp, err := c.do(ctx, http.MethodGet, "/logs", nil)
	if err != nil {
		return "", err
	}
	if strings.Contains(resp.Header.Get("Content-Type"), "application/json") || looksLikeJSONObject(data) {
		var lr logsResponse
		if err := json.Unmarshal(data, &lr); err == nil {
			return lr.Logs, nil
		}
	}
	return string(data), nil
}

func looksLikeJSONObject(data []byte) bool {
	t := bytes.TrimSpace(data)
	return len(t) > 0 && t[0] == '{'
}

// ServiceAction starts, stops or restarts a single service.
func (c *Client) ServiceAction(ctx context.Context, name string, action Action) error {
	if name == "" {
		return fmt.Errorf("service name is required")
	}
	path := fmt.Sprintf("/services/%s/%s", url.PathEscape(name), action)
	_, _, err := c.do(ctx, http.MethodPost, path, nil)
	return err
}

// StackAction starts, stops or restarts every service of the stack.
func (c *Client) StackAction(ctx context.Context, action Action) error {
	_, _, err := c.do(ctx, http.MethodPost, "/stack/"+string(action), nil)
	return err
}

// Backup asks the backend to create a database backup.
func (c *Client) Backup(ctx context.Context) (*BackupResult, error) {
	var br BackupResult
	if err := c.doJSON(ctx, http.MethodPost, "/backup", nil, &br); err != nil {
		return nil, err
	}
	return &br, nil
}

// Update pulls and restarts the managed application.
func (c *Client) Update(ctx context.Context) (*UpdateResult, error) {
	var ur UpdateResult
	if err := c.doJSON(ctx, http.MethodPost, "/update", nil, &ur); err != nil {
		return nil, err
	}
	return &ur, nil
}

// Paths returns the selected and known installation paths.
func (c *Client) Paths(ctx context.Context) (*PathsInfo, error) {
	var pi PathsInfo
	if err := c.doJSON(ctx, http.MethodGet, "/paths", nil, &pi); err != nil {
		return nil, err
	}
	return &pi, nil
}

// DiscoverPaths returns installation paths found by the backend scan.
func (c *Client) DiscoverPaths(ctx context.Context) ([]string, error) {
	var pi PathsInfo
	if err := c.doJSON(ctx, http.MethodGet, "/paths/discover", nil, &pi); err != nil {
		return nil, err
	}
	return pi.DiscoveredPaths, nil
}

// ValidatePath checks a candidate path without selecting it.
func (c *Client) ValidatePath(ctx context.Context, path string) (*PathValidationResult, error) {
	var res PathValidationResult
	if err := c.doJSON(ctx, http.MethodPost, "/paths/validate", PathSelectionRequest{Path: path}, &res); err != nil {
		return nil, err
	}
	return &res, nil
}

// SelectPath persists path as the installation in use. The backend rejects
// an invalid path with 400 and a PathValidationResult body; that case is
// returned as a result with Valid=false, not as an error.
func (c *Client) SelectPath(ctx context.Context, path string) (*PathValidationResult, error) {
	const p = "/paths/select"
	data, resp, err := c.do(ctx, http.MethodPost, p, PathSelectionRequest{Path: path})
	if err != nil {
		if resp == nil || resp.StatusCode != http.StatusBadRequest {
			return nil, err
		}
		var res PathValidationResult
		if decodeErr := json.Unmarshal(data, &res); decodeErr != nil || res.Valid {
			return nil, err
		}
		return &res, nil
	}
	var res PathValidationResult
	if err := decode(http.MethodPost, p, data, &res); err != nil {
		return nil, err
	}
	return &res, nil
}

// EnvConfig returns the compact configuration derived from the env file.
func (c *Client) EnvConfig(ctx context.Context) (*EnvConfig, error) {
	var ec EnvConfig
	if err := c.doJSON(ctx, http.MethodGet, "/env", nil, &ec); err != nil {
		return nil, err
	}
	return &ec, nil
}

// EnvFile returns the structured env file.
func (c *Client) EnvFile(ctx context.Context) (*EnvFile, error) {
	var ef EnvFile
	if err := c.doJSON(ctx, http.MethodGet, "/env/file", nil, &ef); err != nil {
		return nil, err
	}
	return &ef, nil
}

// SaveEnvFile writes vars back to the env file. A result with Valid=false
// means nothing was written.
func (c *Client) SaveEnvFile(ctx context.Context, vars []EnvVar) (*ValidationResult, error) {
	var vr ValidationResult
	if err := c.doJSON(ctx, http.MethodPut, "/env/file", UpdateEnvRequest{Variables: vars}, &vr); err != nil {
		return nil, err
	}
	return &vr, nil
}

// ValidateEnvFile runs the backend validation on vars without saving.
func (c *Client) ValidateEnvFile(ctx context.Context, vars []EnvVar) (*ValidationResult, error) {
	var vr ValidationResult
	if err := c.doJSON(ctx, http.MethodPost, "/env/validate", UpdateEnvRequest{Variables: vars}, &vr); err != nil {
		return nil, err
	}
	return &vr, nil
}

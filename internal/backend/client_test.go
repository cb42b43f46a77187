package backend

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gorilla/mux"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// fakeBackend is an in-memory stand-in for the manager API.
type fakeBackend struct {
	router   *mux.Router
	requests []string
	lastBody map[string]json.RawMessage
	ids      []string
}

func newFakeBackend() *fakeBackend {
	return &fakeBackend{router: mux.NewRouter(), lastBody: map[string]json.RawMessage{}}
}

func (fb *fakeBackend) record(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		fb.requests = append(fb.requests, r.Method+" "+r.URL.Path)
		fb.ids = append(fb.ids, r.Header.Get(requestIDHeader))
		if r.Body != nil {
			data, _ := io.ReadAll(r.Body)
			if json.Valid(data) {
				fb.lastBody[r.URL.Path] = data
			}
			r.Body = io.NopCloser(bytes.NewReader(data))
		}
		next.ServeHTTP(w, r)
	})
}

func (fb *fakeBackend) handle(method, path string, h http.HandlerFunc) {
	fb.router.Handle("/api"+path, fb.record(h)).Methods(method)
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func newTestClient(t *testing.T, fb *fakeBackend) *Client {
	t.Helper()
	srv := httptest.NewServer(fb.router)
	t.Cleanup(srv.Close)
	c, err := NewClient(srv.URL+"/", 5*time.Second)
	require.NoError(t, err)
	return c
}

func TestNewClient_RejectsBadURL(t *testing.T) {
	_, err := NewClient("ftp://example.com", time.Second)
	assert.Error(t, err)

	c, err := NewClient("http://localhost:8080/", time.Second)
	require.NoError(t, err)
	assert.Equal(t, "http://localhost:8080", c.BaseURL())
}

func TestStatus_NormalisesServiceState(t *testing.T) {
	fb := newFakeBackend()
	fb.handle(http.MethodGet, "/status", func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusOK, map[string]any{
			"running": true,
			"version": "1.2.3",
			"path":    "/opt/ddalab",
			"services": []map[string]string{
				{"name": "api", "status": "running"},
				{"name": "db", "status": "Stopped"},
				{"name": "worker", "status": "restarting"},
			},
		})
	})
	c := newTestClient(t, fb)

	st, err := c.Status(context.Background())
	require.NoError(t, err)
	assert.True(t, st.Running)
	assert.Equal(t, "/opt/ddalab", st.Path)
	require.Len(t, st.Services, 3)
	assert.Equal(t, ServiceRunning, st.Services[0].Status)
	assert.Equal(t, ServiceStopped, st.Services[1].Status)
	assert.Equal(t, ServiceUnknown, st.Services[2].Status)
	assert.Equal(t, 1, st.RunningCount())

	require.Len(t, fb.ids, 1)
	assert.NotEmpty(t, fb.ids[0])
}

func TestNon2xxIsTransportError(t *testing.T) {
	fb := newFakeBackend()
	fb.handle(http.MethodGet, "/status", func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "compose not found", http.StatusInternalServerError)
	})
	c := newTestClient(t, fb)

	_, err := c.Status(context.Background())
	require.Error(t, err)
	var te *TransportError
	require.True(t, errors.As(err, &te))
	assert.Equal(t, http.MethodGet, te.Method)
	assert.Equal(t, "/status", te.Path)
	assert.Equal(t, http.StatusInternalServerError, te.StatusCode)
	assert.Contains(t, te.Error(), "compose not found")
	assert.Equal(t, http.StatusInternalServerError, StatusCode(err))
}

func TestUndecodableBodyIsTransportError(t *testing.T) {
	fb := newFakeBackend()
	fb.handle(http.MethodGet, "/env", func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte("not json"))
	})
	c := newTestClient(t, fb)

	_, err := c.EnvConfig(context.Background())
	require.Error(t, err)
	assert.True(t, IsTransportError(err))
	assert.Zero(t, StatusCode(err))
}

func TestNetworkFailureIsTransportError(t *testing.T) {
	srv := httptest.NewServer(http.NotFoundHandler())
	url := srv.URL
	srv.Close()

	c, err := NewClient(url, time.Second)
	require.NoError(t, err)
	_, err = c.Paths(context.Background())
	require.Error(t, err)
	assert.True(t, IsTransportError(err))
}

func TestLogs_AcceptsJSONAndPlainText(t *testing.T) {
	tests := []struct {
		name    string
		handler http.HandlerFunc
		want    string
	}{
		{
			name: "json object",
			handler: func(w http.ResponseWriter, r *http.Request) {
				writeJSON(w, http.StatusOK, map[string]string{"logs": "line 1\nline 2"})
			},
			want: "line 1\nline 2",
		},
		{
			name: "plain text",
			handler: func(w http.ResponseWriter, r *http.Request) {
				w.Header().Set("Content-Type", "text/plain")
				_, _ = w.Write([]byte("raw output"))
			},
			want: "raw output",
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			fb := newFakeBackend()
			fb.handle(http.MethodGet, "/logs", tt.handler)
			c := newTestClient(t, fb)

			got, err := c.Logs(context.Background())
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestServiceAndStackActions(t *testing.T) {
	fb := newFakeBackend()
	ok := func(w http.ResponseWriter, r *http.Request) { writeJSON(w, http.StatusOK, map[string]string{"status": "ok"}) }
	fb.handle(http.MethodPost, "/services/{name}/{action}", ok)
	fb.handle(http.MethodPost, "/stack/{action}", ok)
	c := newTestClient(t, fb)

	require.NoError(t, c.ServiceAction(context.Background(), "ddalab-api", ActionRestart))
	require.NoError(t, c.StackAction(context.Background(), ActionStop))
	assert.Equal(t, []string{
		"POST /api/services/ddalab-api/restart",
		"POST /api/stack/stop",
	}, fb.requests)

	assert.Error(t, c.ServiceAction(context.Background(), "", ActionStart))
}

func TestBackupAndUpdate(t *testing.T) {
	fb := newFakeBackend()
	fb.handle(http.MethodPost, "/backup", func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusOK, map[string]string{"filename": "backup-2024.sql"})
	})
	fb.handle(http.MethodPost, "/update", func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusOK, map[string]string{"status": "success", "message": "Updated to 1.3.0"})
	})
	c := newTestClient(t, fb)

	br, err := c.Backup(context.Background())
	require.NoError(t, err)
	assert.Equal(t, "backup-2024.sql", br.Describe())

	ur, err := c.Update(context.Background())
	require.NoError(t, err)
	assert.Equal(t, "Updated to 1.3.0", ur.Message)
}

func TestPathsEndpoints(t *testing.T) {
	fb := newFakeBackend()
	fb.handle(http.MethodGet, "/paths", func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusOK, PathsInfo{SelectedPath: "/a", KnownPaths: []string{"/a", "/b"}})
	})
	fb.handle(http.MethodGet, "/paths/discover", func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusOK, PathsInfo{DiscoveredPaths: []string{"/b", "/c"}})
	})
	fb.handle(http.MethodPost, "/paths/validate", func(w http.ResponseWriter, r *http.Request) {
		var req PathSelectionRequest
		_ = json.NewDecoder(r.Body).Decode(&req)
		writeJSON(w, http.StatusOK, PathValidationResult{Valid: req.Path == "/a", Path: req.Path, HasCompose: true})
	})
	c := newTestClient(t, fb)

	pi, err := c.Paths(context.Background())
	require.NoError(t, err)
	assert.Equal(t, "/a", pi.SelectedPath)
	assert.Equal(t, []string{"/a", "/b"}, pi.KnownPaths)

	disc, err := c.DiscoverPaths(context.Background())
	require.NoError(t, err)
	assert.Equal(t, []string{"/b", "/c"}, disc)

	res, err := c.ValidatePath(context.Background(), "/a")
	require.NoError(t, err)
	assert.True(t, res.Valid)
	assert.Equal(t, "/a", res.Path)
}

func TestSelectPath_BadRequestIsDomainRejection(t *testing.T) {
	fb := newFakeBackend()
	fb.handle(http.MethodPost, "/paths/select", func(w http.ResponseWriter, r *http.Request) {
		var req PathSelectionRequest
		_ = json.NewDecoder(r.Body).Decode(&req)
		if req.Path == "/good" {
			writeJSON(w, http.StatusOK, PathValidationResult{Valid: true, Path: req.Path, Message: "Path selected"})
			return
		}
		writeJSON(w, http.StatusBadRequest, PathValidationResult{Valid: false, Path: req.Path, Message: "docker-compose.yml not found"})
	})
	c := newTestClient(t, fb)

	res, err := c.SelectPath(context.Background(), "/good")
	require.NoError(t, err)
	assert.True(t, res.Valid)

	res, err = c.SelectPath(context.Background(), "/bad")
	require.NoError(t, err)
	assert.False(t, res.Valid)
	assert.Equal(t, "docker-compose.yml not found", res.Message)
}

func TestSelectPath_BadRequestWithoutBodyIsTransportError(t *testing.T) {
	fb := newFakeBackend()
	fb.handle(http.MethodPost, "/paths/select", func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "bad request", http.StatusBadRequest)
	})
	c := newTestClient(t, fb)

	_, err := c.SelectPath(context.Background(), "/x")
	require.Error(t, err)
	assert.Equal(t, http.StatusBadRequest, StatusCode(err))
}

func TestEnvFileRoundTrip(t *testing.T) {
	fb := newFakeBackend()
	fb.handle(http.MethodGet, "/env/file", func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusOK, EnvFile{
			Path: "/opt/ddalab/.env",
			Variables: []EnvVar{
				{Key: "DB_PASSWORD", Value: "s3cret", Section: "Security", Secret: true, LineNum: 4},
			},
		})
	})
	fb.handle(http.MethodPut, "/env/file", func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusOK, ValidationResult{Valid: true})
	})
	fb.handle(http.MethodPost, "/env/validate", func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusOK, ValidationResult{
			Valid:  false,
			Errors: []ValidationError{{Key: "PORT", Message: "must be a number"}},
		})
	})
	c := newTestClient(t, fb)

	ef, err := c.EnvFile(context.Background())
	require.NoError(t, err)
	require.Len(t, ef.Variables, 1)
	assert.Equal(t, 4, ef.Variables[0].LineNum)
	assert.True(t, ef.Variables[0].Secret)

	vr, err := c.SaveEnvFile(context.Background(), ef.Variables)
	require.NoError(t, err)
	assert.True(t, vr.Valid)
	body := string(fb.lastBody["/api/env/file"])
	assert.True(t, strings.Contains(body, `"line_num":4`), body)

	vr, err = c.ValidateEnvFile(context.Background(), []EnvVar{{Key: "PORT", Value: "abc"}})
	require.NoError(t, err)
	assert.False(t, vr.Valid)
	e, ok := vr.ErrorFor("PORT")
	require.True(t, ok)
	assert.Equal(t, "must be a number", e.Message)
	_, ok = vr.ErrorFor("HOST")
	assert.False(t, ok)
}

func TestValidate_AcceptsBothErrorShapes(t *testing.T) {
	tests := []struct {
		name    string
		body    string
		wantKey string
		wantMsg string
	}{
		{
			name:    "keyed",
			body:    `{"valid":false,"errors":[{"key":"DB_PASSWORD","message":"is required"}]}`,
			wantKey: "DB_PASSWORD",
			wantMsg: "is required",
		},
		{
			name:    "bare strings",
			body:    `{"valid":false,"errors":["DB_PASSWORD is required"],"warnings":["DDALAB_PORT is unusual"],"variables":[]}`,
			wantMsg: "DB_PASSWORD is required",
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			fb := newFakeBackend()
			fb.handle(http.MethodPost, "/env/validate", func(w http.ResponseWriter, r *http.Request) {
				w.Header().Set("Content-Type", "application/json")
				_, _ = io.WriteString(w, tt.body)
			})
			c := newTestClient(t, fb)

			vr, err := c.ValidateEnvFile(context.Background(), []EnvVar{{Key: "DB_PASSWORD"}})
			require.NoError(t, err)
			assert.False(t, vr.Valid)
			require.Len(t, vr.Errors, 1)
			assert.Equal(t, tt.wantKey, vr.Errors[0].Key)
			assert.Equal(t, tt.wantMsg, vr.Errors[0].Message)

			if tt.wantKey == "" {
				assert.Equal(t, []string{tt.wantMsg}, vr.GeneralErrors())
				assert.Equal(t, []string{"DDALAB_PORT is unusual"}, vr.Warnings)
				_, ok := vr.ErrorFor("DB_PASSWORD")
				assert.False(t, ok)
			} else {
				assert.Empty(t, vr.GeneralErrors())
			}
		})
	}
}

func TestParseAction(t *testing.T) {
	for _, s := range []string{"start", "STOP", "restart"} {
		_, err := ParseAction(s)
		assert.NoError(t, err, s)
	}
	_, err := ParseAction("pause")
	assert.Error(t, err)
}

func TestBackupResultDescribe(t *testing.T) {
	assert.Equal(t, "f.sql", BackupResult{Filename: "f.sql"}.Describe())
	assert.Equal(t, "Backup written", BackupResult{Output: "dumping...\nBackup written\n"}.Describe())
	assert.Equal(t, "completed", BackupResult{}.Describe())
}

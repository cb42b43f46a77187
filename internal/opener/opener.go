// Package opener opens the DDALAB web UI from the terminal. Two strategies
// exist: launching the system browser and copying the URL to the clipboard.
// The strategy is picked once at startup from the ui.opener setting.
package opener

import (
	"fmt"
	"os/exec"
	"runtime"
	"strings"

	"github.com/atotto/clipboard"

	"ddalabctl/internal/config"
	"ddalabctl/pkg/logging"
)

// Method says how a URL was handed to the user.
type Method string

const (
	MethodBrowser   Method = "browser"
	MethodClipboard Method = "clipboard"
	MethodDisplay   Method = "display"
)

// Result describes a completed open.
type Result struct {
	URL    string
	Method Method
}

// Message returns the text shown to the user after an open.
func (r Result) Message() string {
	switch r.Method {
	case MethodBrowser:
		return "Opened " + r.URL + " in your browser"
	case MethodClipboard:
		return "Copied " + r.URL + " to the clipboard"
	default:
		return "Open " + r.URL + " in your browser"
	}
}

// URLOpener hands a URL to the user.
type URLOpener interface {
	Open(url string) (Result, error)
}

// For mocking in tests
var (
	startCommand = func(name string, args ...string) error {
		return exec.Command(name, args...).Start()
	}
	writeClipboard = clipboard.WriteAll
	goos           = runtime.GOOS
)

// BrowserOpener launches the platform URL handler.
type BrowserOpener struct{}

// Open starts the browser without waiting for it.
func (BrowserOpener) Open(url string) (Result, error) {
	var err error
	switch goos {
	case "darwin":
		err = startCommand("open", url)
	case "windows":
		err = startCommand("rundll32", "url.dll,FileProtocolHandler", url)
	default:
		err = startCommand("xdg-open", url)
	}
	if err != nil {
		return Result{}, fmt.Errorf("failed to launch browser: %w", err)
	}
	return Result{URL: url, Method: MethodBrowser}, nil
}

// ClipboardOpener copies the URL to the clipboard. When no clipboard is
// available the URL is returned for display and no error is reported.
type ClipboardOpener struct{}

// Open copies url.
func (ClipboardOpener) Open(url string) (Result, error) {
	if err := writeClipboard(url); err != nil {
		logging.Debug("Opener", "clipboard unavailable: %v", err)
		return Result{URL: url, Method: MethodDisplay}, nil
	}
	return Result{URL: url, Method: MethodClipboard}, nil
}

// fallbackOpener tries primary and uses secondary when it fails.
type fallbackOpener struct {
	primary   URLOpener
	secondary URLOpener
}

func (f fallbackOpener) Open(url string) (Result, error) {
	res, err := f.primary.Open(url)
	if err == nil {
		return res, nil
	}
	logging.Warn("Opener", "falling back to clipboard: %v", err)
	return f.secondary.Open(url)
}

// New returns the opener for mode (one of config.OpenerAuto,
// config.OpenerBrowser, config.OpenerClipboard).
func New(mode string) (URLOpener, error) {
	switch strings.ToLower(mode) {
	case "", config.OpenerAuto:
		return fallbackOpener{primary: BrowserOpener{}, secondary: ClipboardOpener{}}, nil
	case config.OpenerBrowser:
		return BrowserOpener{}, nil
	case config.OpenerClipboard:
		return ClipboardOpener{}, nil
	default:
		return nil, fmt.Errorf("unknown opener %q", mode)
	}
}

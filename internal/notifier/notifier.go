// Package notifier delivers desktop notifications through the companion
// tray app. The tray writes "port|pid|secret" to a lockfile and listens on
// localhost for JSON webhooks.
package notifier

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/mitchellh/go-ps"

	"github.com/julianstephens/eathmover/internal/constants"
	"github.com/julianstephens/eathmover/internal/logger"
)

var (
	userConfigDirFunc = os.UserConfigDir
	findProcessFunc   = ps.FindProcess
)

// ErrTrayNotRunning means no notification could be delivered because the
// tray app is absent. Callers usually ignore it.
var ErrTrayNotRunning = errors.New(constants.TrayExecutablePrefix + " is not running")

type Payload struct {
	Title      string `json:"title,omitempty"`
	Text       string `json:"text"`
	DurationMs uint32 `json:"duration_ms"`
}

type Notifier struct {
	client *http.Client
}

func New() *Notifier {
	return &Notifier{client: &http.Client{Timeout: 5 * time.Second}}
}

// Notify posts text to the tray app.
func (n *Notifier) Notify(ctx context.Context, title, text string) error {
	dir, err := TrayConfigDir()
	if err != nil {
		return err
	}
	ep, err := findTray(filepath.Join(dir, constants.NotifierLockfileName))
	if err != nil {
		return err
	}
	return n.send(ctx, ep, Payload{
		Title:      title,
		Text:       text,
		DurationMs: constants.NotificationDurationMs,
	})
}

// NotifyQuietly is Notify for fire-and-forget callers: failures are logged
// at debug level only.
func (n *Notifier) NotifyQuietly(ctx context.Context, title, text string) {
	if err := n.Notify(ctx, title, text); err != nil {
		logger.Debug("Notification not delivered", "title", title, "error", err)
	}
}

// TrayConfigDir returns the tray app's directory, honouring a custom
// lockfile_dir in its settings.json.
func TrayConfigDir() (string, error) {
	base, err := userConfigDirFunc()
	if err != nil {
		return "", fmt.Errorf("failed to get user config dir: %w", err)
	}
	dir := filepath.Join(base, constants.TrayAppIdentifier)

	data, err := os.ReadFile(filepath.Join(dir, "settings.json"))
	if err != nil {
		return dir, nil
	}
	var store struct {
		Settings struct {
			LockfileDir *string `json:"lockfile_dir"`
		} `json:"settings"`
	}
	if json.Unmarshal(data, &store) == nil && store.Settings.LockfileDir != nil && *store.Settings.LockfileDir != "" {
		return *store.Settings.LockfileDir, nil
	}
	return dir, nil
}

// TrayRunning reports whether a live tray app owns the lockfile.
func TrayRunning() bool {
	dir, err := TrayConfigDir()
	if err != nil {
		return false
	}
	_, err = findTray(filepath.Join(dir, constants.NotifierLockfileName))
	return err == nil
}

type endpoint struct {
	port   int
	secret string
}

func findTray(lockfilePath string) (endpoint, error) {
	content, err := os.ReadFile(lockfilePath)
	if err != nil {
		return endpoint{}, ErrTrayNotRunning
	}

	parts := strings.Split(strings.TrimSpace(string(content)), "|")
	if len(parts) != 3 {
		return endpoint{}, errors.New("lockfile is malformed")
	}
	port, err := strconv.Atoi(strings.TrimSpace(parts[0]))
	if err != nil {
		return endpoint{}, errors.New("invalid port number in lockfile")
	}
	if port < 1 || port > 65535 {
		return endpoint{}, fmt.Errorf("port number %d is outside valid range (1-65535)", port)
	}
	pid, err := strconv.Atoi(strings.TrimSpace(parts[1]))
	if err != nil {
		return endpoint{}, errors.New("invalid process ID in lockfile")
	}
	secret := strings.TrimSpace(parts[2])
	if secret == "" {
		return endpoint{}, errors.New("secret in lockfile is empty")
	}

	proc, err := findProcessFunc(pid)
	if err != nil || proc == nil {
		return endpoint{}, ErrTrayNotRunning
	}
	if !strings.HasPrefix(proc.Executable(), constants.TrayExecutablePrefix) {
		return endpoint{}, fmt.Errorf("process with PID %d is not %s (is %s)", pid, constants.TrayExecutablePrefix, proc.Executable())
	}
	return endpoint{port: port, secret: secret}, nil
}

func (n *Notifier) send(ctx context.Context, ep endpoint, payload Payload) error {
	body, err := json.Marshal(payload)
	if err != nil {
		return err
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, fmt.Sprintf("http://127.0.0.1:%d", ep.port), bytes.NewReader(body))
	if err != nil {
		return err
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set(constants.TraySecretHeader, ep.secret)

	res, err := n.client.Do(req)
	if err != nil {
		return err
	}
	defer res.Body.Close()

	if res.StatusCode == http.StatusOK {
		return nil
	}
	msg, _ := io.ReadAll(io.LimitReader(res.Body, 1024))
	return fmt.Errorf("notification failed with status %d: %s", res.StatusCode, string(msg))
}

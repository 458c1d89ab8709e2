package clients

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net"
	"net/http"
	"strings"
	"sync"
	"time"

	"go.uber.org/zap"
)

// Command is the intent token sent to the bridge. The vocabulary matches what
// the actuator firmware parses off the wire.
type Command string

const (
	CommandLock   Command = "LOCK"
	CommandUnlock Command = "UNLOCK"
)

// ConnectivityStatus is the controller's locally derived belief about bridge
// reachability. It is driven solely by health-check outcomes.
type ConnectivityStatus string

const (
	StatusUnknown ConnectivityStatus = "UNKNOWN"
	StatusOnline  ConnectivityStatus = "ONLINE"
	StatusOffline ConnectivityStatus = "OFFLINE"
)

// Health-check diagnostics. The misconfigured-endpoint message is distinct
// from the generic transport one so operators can tell a routing defect from
// a network outage.
const (
	DiagConnectionTimeout     = "Connection Timeout"
	DiagEndpointNotFound      = "Bridge Endpoint Not Found"
	DiagMisconfiguredEndpoint = "Endpoint returning HTML instead of status"
)

// Send errors surfaced to the user as transient notifications.
var (
	ErrSyncFailed    = errors.New("bridge sync failed")
	ErrBridgeOffline = errors.New("bridge offline")
)

const (
	defaultCheckTimeout  = 5 * time.Second
	defaultCheckInterval = 30 * time.Second
	defaultStatusPath    = "/api/status"
)

// HTTPDoer defines http.Client interface subset.
type HTTPDoer interface {
	Do(*http.Request) (*http.Response, error)
}

// Config parameterizes a BridgeClient.
type Config struct {
	BaseURL       string
	StatusPath    string
	StationID     string
	CheckTimeout  time.Duration
	CheckInterval time.Duration
}

// BridgeClient talks to the bridge service: it health-checks the status path
// on a schedule and sends intent changes on behalf of the session engine.
type BridgeClient struct {
	statusURL     string
	stationID     string
	client        HTTPDoer
	logger        *zap.Logger
	checkTimeout  time.Duration
	checkInterval time.Duration

	mu      sync.Mutex
	status  ConnectivityStatus
	lastErr string
}

// NewBridgeClient builds a client. Zero durations fall back to the defaults
// (5s check timeout, 30s interval).
func NewBridgeClient(cfg Config, client HTTPDoer, logger *zap.Logger) *BridgeClient {
	path := cfg.StatusPath
	if path == "" {
		path = defaultStatusPath
	}
	if !strings.HasPrefix(path, "/") {
		path = "/" + path
	}
	timeout := cfg.CheckTimeout
	if timeout <= 0 {
		timeout = defaultCheckTimeout
	}
	interval := cfg.CheckInterval
	if interval <= 0 {
		interval = defaultCheckInterval
	}

	return &BridgeClient{
		statusURL:     strings.TrimRight(cfg.BaseURL, "/") + path,
		stationID:     cfg.StationID,
		client:        client,
		logger:        logger,
		checkTimeout:  timeout,
		checkInterval: interval,
		status:        StatusUnknown,
	}
}

// Run health-checks once eagerly, then on the configured interval until ctx
// is cancelled.
func (c *BridgeClient) Run(ctx context.Context) {
	c.CheckStatus(ctx)

	ticker := time.NewTicker(c.checkInterval)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			c.CheckStatus(ctx)
		}
	}
}

// CheckStatus polls the bridge and classifies the outcome. Each invocation
// gets its own timeout so a hung call cannot block later checks.
func (c *BridgeClient) CheckStatus(ctx context.Context) ConnectivityStatus {
	ctx, cancel := context.WithTimeout(ctx, c.checkTimeout)
	defer cancel()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.statusURL, nil)
	if err != nil {
		return c.setOffline(DiagEndpointNotFound)
	}
	req.Header.Set("Cache-Control", "no-store")

	resp, err := c.client.Do(req)
	if err != nil {
		if isTimeout(err) {
			c.logger.Warn("bridge health check timed out")
			return c.setOffline(DiagConnectionTimeout)
		}
		c.logger.Warn("bridge health check failed", zap.Error(err))
		return c.setOffline(DiagEndpointNotFound)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		c.logger.Warn("bridge health check read failed", zap.Error(err))
		return c.setOffline(DiagEndpointNotFound)
	}
	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		c.logger.Warn("bridge health check returned error status", zap.Int("status", resp.StatusCode))
		return c.setOffline(DiagEndpointNotFound)
	}

	text := strings.TrimSpace(string(body))
	if isDocumentPayload(text) {
		// The status path resolved to a page instead of the bridge: a
		// routing defect, not an outage.
		c.logger.Error("bridge status path returned a document payload, routing misconfigured")
		return c.setOffline(DiagMisconfiguredEndpoint)
	}

	if text != string(CommandLock) && text != string(CommandUnlock) {
		// Lenient: any non-document 2xx payload still counts as reachable.
		c.logger.Warn("bridge responded with unexpected text", zap.String("body", text))
	}
	return c.setOnline()
}

// SendIntent posts an intent change. It never touches ConnectivityStatus;
// classifying reachability is CheckStatus's sole responsibility.
func (c *BridgeClient) SendIntent(ctx context.Context, cmd Command) error {
	payload, err := json.Marshal(map[string]string{
		"id":      c.stationID,
		"command": string(cmd),
	})
	if err != nil {
		return err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.statusURL, bytes.NewReader(payload))
	if err != nil {
		return err
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.client.Do(req)
	if err != nil {
		return fmt.Errorf("%w: %v", ErrBridgeOffline, err)
	}
	defer resp.Body.Close()
	_, _ = io.Copy(io.Discard, resp.Body)

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return fmt.Errorf("%w: status %d", ErrSyncFailed, resp.StatusCode)
	}

	c.logger.Info("bridge command sent", zap.String("command", string(cmd)))
	return nil
}

// Status returns the last known connectivity status and diagnostic (empty
// when healthy).
func (c *BridgeClient) Status() (ConnectivityStatus, string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.status, c.lastErr
}

func (c *BridgeClient) setOnline() ConnectivityStatus {
	c.mu.Lock()
	c.status = StatusOnline
	c.lastErr = ""
	c.mu.Unlock()
	return StatusOnline
}

func (c *BridgeClient) setOffline(diag string) ConnectivityStatus {
	c.mu.Lock()
	c.status = StatusOffline
	c.lastErr = diag
	c.mu.Unlock()
	return StatusOffline
}

func isTimeout(err error) bool {
	if errors.Is(err, context.DeadlineExceeded) {
		return true
	}
	var netErr net.Error
	return errors.As(err, &netErr) && netErr.Timeout()
}

func isDocumentPayload(text string) bool {
	lower := strings.ToLower(text)
	return strings.HasPrefix(lower, "<!doctype html") || strings.HasPrefix(lower, "<html")
}

// NewDefaultHTTPClient returns *http.Client with timeout.
func NewDefaultHTTPClient(timeout time.Duration) *http.Client {
	return &http.Client{Timeout: timeout}
}

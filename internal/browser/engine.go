package browser

import (
	"context"
	"fmt"
	"sync"

	"github.com/go-rod/rod"
	"github.com/go-rod/rod/lib/proto"
	"go.uber.org/zap"

	"github.com/ahrdadan/demo-e2e/internal/logging"
)

// process is a browser binary serving CDP.
type process interface {
	// launch starts the binary and returns its CDP control URL
	launch() (string, error)
	kill()
	endpoint() string
}

// Engine is a Driver over one browser process and the rod connection to it.
// A lost connection is repaired once per NewPage by relaunching the process.
type Engine struct {
	name string
	proc process
	log  *zap.Logger

	mu      sync.Mutex
	browser *rod.Browser
}

func newEngine(name string, proc process) *Engine {
	return &Engine{
		name: name,
		proc: proc,
		log:  logging.Named("browser").With(zap.String("engine", name)),
	}
}

// Name is the engine's browser name, "chrome" or "lightpanda"
func (e *Engine) Name() string { return e.name }

// Start launches the process and connects to it. It is a no-op when running.
func (e *Engine) Start() error {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.start()
}

func (e *Engine) start() error {
	if e.browser != nil {
		return nil
	}

	controlURL, err := e.proc.launch()
	if err != nil {
		return fmt.Errorf("failed to launch %s: %w", e.name, err)
	}

	b := rod.New().ControlURL(controlURL)
	if err := b.Connect(); err != nil {
		e.proc.kill()
		return fmt.Errorf("failed to connect to %s: %w", e.name, err)
	}

	e.browser = b
	e.log.Debug("Browser started", zap.String("endpoint", e.proc.endpoint()))
	return nil
}

// Stop closes the connection and kills the process.
func (e *Engine) Stop() error {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.stop()
	return nil
}

func (e *Engine) stop() {
	if e.browser == nil {
		return
	}
	if err := e.browser.Close(); err != nil {
		e.log.Warn("Failed to close browser", zap.Error(err))
	}
	e.proc.kill()
	e.browser = nil
	e.log.Debug("Browser stopped")
}

// IsRunning reports whether the engine holds a live connection
func (e *Engine) IsRunning() bool {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.browser != nil
}

// GetEndpoint returns the DevTools endpoint
func (e *Engine) GetEndpoint() string {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.proc.endpoint()
}

// NewPage opens a blank page bound to ctx, starting the engine if needed.
func (e *Engine) NewPage(ctx context.Context) (*rod.Page, error) {
	e.mu.Lock()
	defer e.mu.Unlock()

	if err := e.start(); err != nil {
		return nil, err
	}

	page, err := e.browser.Context(ctx).Page(proto.TargetCreateTarget{})
	if err == nil {
		return page, nil
	}
	if !isConnectionError(err) {
		return nil, fmt.Errorf("failed to create new page: %w", err)
	}

	e.log.Warn("Lost browser connection, relaunching", zap.Error(err))
	e.stop()
	if err := e.start(); err != nil {
		return nil, err
	}

	page, err = e.browser.Context(ctx).Page(proto.TargetCreateTarget{})
	if err != nil {
		return nil, fmt.Errorf("failed to create new page: %w", err)
	}
	return page, nil
}

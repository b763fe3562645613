package browser

import (
	"context"
	"fmt"

	"github.com/go-rod/rod"
	"github.com/go-rod/rod/lib/proto"
)

// PageOptions are applied to every page a session opens
type PageOptions struct {
	UserAgent string
	Headers   map[string]string
}

// Session is one browser process with one page, owned by a single test.
type Session struct {
	driver Driver
	page   *rod.Page
	cancel context.CancelFunc
}

// OpenSession starts the engine selected by opts and opens a sized page.
// The caller must Close the session.
func OpenSession(ctx context.Context, opts Options) (*Session, error) {
	driver, err := NewDriver(opts)
	if err != nil {
		return nil, err
	}
	return OpenSessionWithDriver(ctx, driver, opts)
}

// OpenSessionWithDriver opens a session on an already constructed driver.
func OpenSessionWithDriver(ctx context.Context, driver Driver, opts Options) (*Session, error) {
	if err := driver.Start(); err != nil {
		return nil, err
	}

	ctx, cancel := context.WithCancel(ctx)
	page, err := driver.NewPage(ctx)
	if err != nil {
		cancel()
		_ = driver.Stop()
		return nil, err
	}

	s := &Session{driver: driver, page: page, cancel: cancel}
	if err := s.configure(opts); err != nil {
		_ = s.Close()
		return nil, err
	}
	return s, nil
}

func (s *Session) configure(opts Options) error {
	if opts.WindowWidth > 0 && opts.WindowHeight > 0 {
		err := s.page.SetViewport(&proto.EmulationSetDeviceMetricsOverride{
			Width:  opts.WindowWidth,
			Height: opts.WindowHeight,
		})
		if err != nil {
			return fmt.Errorf("failed to set viewport: %w", err)
		}
	}

	if opts.Page.UserAgent != "" {
		if err := s.page.SetUserAgent(&proto.NetworkSetUserAgentOverride{UserAgent: opts.Page.UserAgent}); err != nil {
			return fmt.Errorf("failed to set user agent: %w", err)
		}
	}

	if len(opts.Page.Headers) > 0 {
		pairs := make([]string, 0, len(opts.Page.Headers)*2)
		for key, value := range opts.Page.Headers {
			pairs = append(pairs, key, value)
		}
		if _, err := s.page.SetExtraHeaders(pairs); err != nil {
			return fmt.Errorf("failed to set headers: %w", err)
		}
	}

	return nil
}

// Page returns the session's page
func (s *Session) Page() *rod.Page {
	return s.page
}

// Close closes the page and stops the browser
func (s *Session) Close() error {
	if s.page != nil {
		_ = s.page.Close()
	}
	s.cancel()
	return s.driver.Stop()
}

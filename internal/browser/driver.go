package browser

import (
	"context"
	"errors"
	"fmt"
	"net"
	"strings"

	"github.com/go-rod/rod"
)

// ErrUnsupportedBrowser is returned by NewDriver for browsers no engine can drive
var ErrUnsupportedBrowser = errors.New("unsupported browser")

// Driver is a browser process the suite can open pages in.
type Driver interface {
	Start() error
	Stop() error
	IsRunning() bool
	GetEndpoint() string
	NewPage(ctx context.Context) (*rod.Page, error)
}

// Options selects and configures a browser engine
type Options struct {
	Browser  string // chrome, chromium or lightpanda
	Headless bool

	ChromeBin string // empty uses rod's managed Chromium

	LightpandaHost string
	LightpandaPort int
	LightpandaDir  string // searched for, and receives, the Lightpanda binary

	WindowWidth  int
	WindowHeight int
	Page         PageOptions
}

// DefaultOptions returns options for a headed Chrome with a 1920x1080 window
func DefaultOptions() Options {
	return Options{
		Browser:        "chrome",
		LightpandaHost: "127.0.0.1",
		LightpandaPort: 9222,
		WindowWidth:    1920,
		WindowHeight:   1080,
	}
}

// NewDriver returns the engine named by opts.Browser. The driver is not started.
func NewDriver(opts Options) (Driver, error) {
	switch strings.ToLower(opts.Browser) {
	case "chrome", "chromium", "":
		return NewChrome(ChromeOptions{
			Bin:          opts.ChromeBin,
			Headless:     opts.Headless,
			WindowWidth:  opts.WindowWidth,
			WindowHeight: opts.WindowHeight,
		}), nil
	case "lightpanda":
		bin, err := LocateLightpanda(opts.LightpandaDir)
		if err != nil {
			return nil, err
		}
		return NewLightpanda(bin, opts.LightpandaHost, opts.LightpandaPort), nil
	default:
		return nil, fmt.Errorf("%w: %s", ErrUnsupportedBrowser, opts.Browser)
	}
}

func isConnectionError(err error) bool {
	if err == nil {
		return false
	}
	if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
		return false
	}
	if errors.Is(err, net.ErrClosed) {
		return true
	}

	msg := strings.ToLower(err.Error())
	return strings.Contains(msg, "use of closed network connection") ||
		strings.Contains(msg, "broken pipe") ||
		strings.Contains(msg, "connection reset by peer") ||
		strings.Contains(msg, "eof")
}

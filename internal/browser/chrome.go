package browser

import (
	"strconv"

	"github.com/go-rod/rod/lib/launcher"
)

// ChromeOptions configures a Chrome launch
type ChromeOptions struct {
	Bin          string
	Headless     bool
	WindowWidth  int
	WindowHeight int
}

// NewChrome returns an engine that launches Chrome through rod's launcher.
func NewChrome(opts ChromeOptions) *Engine {
	return newEngine("chrome", &chromeProcess{opts: opts})
}

// ChromeLauncher builds the rod launcher with the suite's Chrome switches.
func ChromeLauncher(opts ChromeOptions) *launcher.Launcher {
	l := launcher.New().
		Headless(opts.Headless).
		Set("no-sandbox").
		Set("disable-dev-shm-usage").
		Set("disable-gpu").
		Set("disable-extensions").
		Set("disable-infobars")

	if opts.WindowWidth > 0 && opts.WindowHeight > 0 {
		l.Set("window-size", strconv.Itoa(opts.WindowWidth)+","+strconv.Itoa(opts.WindowHeight))
	}
	if opts.Bin != "" {
		l.Bin(opts.Bin)
	}
	return l
}

type chromeProcess struct {
	opts       ChromeOptions
	launcher   *launcher.Launcher
	controlURL string
}

func (c *chromeProcess) launch() (string, error) {
	l := ChromeLauncher(c.opts)
	u, err := l.Launch()
	if err != nil {
		return "", err
	}
	c.launcher, c.controlURL = l, u
	return u, nil
}

// kill also removes the temporary profile directory.
func (c *chromeProcess) kill() {
	if c.launcher != nil {
		c.launcher.Kill()
		c.launcher.Cleanup()
	}
	c.launcher, c.controlURL = nil, ""
}

func (c *chromeProcess) endpoint() string { return c.controlURL }

// Package harness wires configuration, browser sessions, page objects and
// result reporting into Go tests. A suite's TestMain calls Run once; tests
// then ask for pages with the constructors in pages.go and mark themselves
// with Mark.
package harness

import (
	"context"
	"flag"
	"fmt"
	"net"
	"os"
	"path/filepath"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/ahrdadan/demo-e2e/internal/browser"
	"github.com/ahrdadan/demo-e2e/internal/config"
	"github.com/ahrdadan/demo-e2e/internal/demosite"
	"github.com/ahrdadan/demo-e2e/internal/logging"
	"github.com/ahrdadan/demo-e2e/internal/report"
)

// publishTimeout bounds connecting to NATS and publishing the report
const publishTimeout = 15 * time.Second

var (
	cfg      *config.Config
	recorder *report.Recorder
	lightDir string
)

// Runner is what Run needs from testing.M
type Runner interface {
	Run() int
}

// Run loads the config, applies command line flags, prepares output
// directories and logging, optionally starts the local replica, runs the
// tests and writes the run report. It returns the exit code for os.Exit.
func Run(m Runner) int {
	loaded, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "e2e: %v\n", err)
		return 1
	}
	loaded.RegisterFlags(flag.CommandLine)
	flag.Parse()

	code, err := run(m, loaded)
	if err != nil {
		fmt.Fprintf(os.Stderr, "e2e: %v\n", err)
		return 1
	}
	return code
}

func run(m Runner, c *config.Config) (int, error) {
	if err := c.EnsureDirectories(); err != nil {
		return 1, err
	}

	log, err := logging.Init(logging.Options{Dir: c.LogsDir, Level: c.LogLevel})
	if err != nil {
		return 1, err
	}
	defer logging.Sync()
	log = log.Named("harness")

	ctx := context.Background()
	if err := prepareBrowser(ctx, c); err != nil {
		return 1, err
	}

	if c.DemoSite {
		stop, err := startDemoSite(c)
		if err != nil {
			return 1, err
		}
		defer stop()
	}

	cfg = c
	recorder = report.NewRecorder(config.ReportTitle, c.Browser, c.Headless)

	log.Info("Starting test run",
		zap.String("browser", c.Browser),
		zap.Bool("headless", c.Headless),
		zap.String("blazedemo", c.BlazeDemoURL),
		zap.String("opencart", c.OpenCartURL),
		zap.Strings("markers", c.MarkerFilter()),
		zap.String("log_file", logging.File()),
	)

	code := m.Run()

	rep := recorder.Report()
	log.Info("Test run finished",
		zap.Int("total", rep.Summary.Total),
		zap.Int("passed", rep.Summary.Passed),
		zap.Int("failed", rep.Summary.Failed),
		zap.Int("skipped", rep.Summary.Skipped),
	)

	if path, err := recorder.WriteJSON(c.ReportsDir); err != nil {
		log.Error("Failed to write report", zap.Error(err))
	} else {
		log.Info("Report written", zap.String("path", path))
	}

	if c.NatsURL != "" {
		if err := publish(ctx, c, rep); err != nil {
			log.Warn("Failed to publish report", zap.String("url", c.NatsURL), zap.Error(err))
		}
	}
	return code, nil
}

// prepareBrowser makes sure the configured engine's binary is available.
func prepareBrowser(ctx context.Context, c *config.Config) error {
	switch strings.ToLower(c.Browser) {
	case "lightpanda":
		lightDir = filepath.Join(c.RootDir, "bin")
		if _, err := browser.EnsureLightpanda(ctx, lightDir); err != nil {
			return fmt.Errorf("lightpanda unavailable: %w", err)
		}
	case "chrome", "chromium", "":
		if c.ChromeBin == "" && c.ChromeRevision > 0 {
			bin, err := browser.InstallChrome(ctx, c.ChromeRevision, false)
			if err != nil {
				return err
			}
			c.ChromeBin = bin
		}
	default:
		return fmt.Errorf("%w: %s", browser.ErrUnsupportedBrowser, c.Browser)
	}
	return nil
}

// startDemoSite serves the replica on a free loopback port and points
// both site URLs at it.
func startDemoSite(c *config.Config) (func(), error) {
	srv, err := demosite.New(demosite.Options{Logger: logging.Named("demosite")})
	if err != nil {
		return nil, err
	}

	ln, err := net.Listen("tcp", "127.0.0.1:0")
	if err != nil {
		return nil, fmt.Errorf("failed to listen for demo site: %w", err)
	}
	go func() {
		if err := srv.Serve(ln); err != nil {
			logging.Named("demosite").Error("Demo site stopped", zap.Error(err))
		}
	}()

	base := "http://" + ln.Addr().String()
	c.BlazeDemoURL = base + demosite.BlazeDemoPrefix + "/"
	c.OpenCartURL = base + demosite.OpenCartPrefix + "/"

	return func() { _ = srv.Shutdown() }, nil
}

func publish(ctx context.Context, c *config.Config, rep *report.Report) error {
	ctx, cancel := context.WithTimeout(ctx, publishTimeout)
	defer cancel()

	pub, err := report.NewNATSPublisher(ctx, c.NatsURL, c.ReportSubject)
	if err != nil {
		return err
	}
	defer func() { _ = pub.Close() }()

	return pub.Publish(ctx, rep)
}

// Config returns the run's configuration. It panics before Run.
func Config() *config.Config {
	if cfg == nil {
		panic("harness: Config called before Run")
	}
	return cfg
}

// BrowserOptions derives session options from the config.
func BrowserOptions(c *config.Config) browser.Options {
	opts := browser.DefaultOptions()
	opts.Browser = c.Browser
	opts.Headless = c.Headless
	opts.ChromeBin = c.ChromeBin
	opts.LightpandaHost = c.LightpandaHost
	opts.LightpandaPort = c.LightpandaPort
	opts.LightpandaDir = lightDir
	opts.WindowWidth = c.WindowWidth
	opts.WindowHeight = c.WindowHeight
	opts.Page.UserAgent = c.UserAgent
	return opts
}

package config

import (
	"flag"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

const (
	// Version is the current version of the suite
	Version = "1"
	// AppName is the application name
	AppName = "Demo Sites E2E"
	// ReportTitle is the title written into run reports
	ReportTitle = "Demo Sites Automation Test Report"
)

// Config holds all settings for a test run
type Config struct {
	// Sites
	BlazeDemoURL string
	OpenCartURL  string

	// Browser
	Browser        string // chrome, chromium or lightpanda
	Headless       bool
	ChromeBin      string
	ChromeRevision int
	LightpandaHost string
	LightpandaPort int
	WindowWidth    int
	WindowHeight   int
	UserAgent      string

	// Timeouts
	ExplicitWait    time.Duration
	PageLoadTimeout time.Duration

	// Paths
	RootDir        string
	ScreenshotsDir string
	ReportsDir     string
	LogsDir        string
	TestDataDir    string

	// Run
	Markers  string // comma separated marker filter, empty runs everything
	LogLevel string
	DemoSite bool // serve the local storefront replica and point both URLs at it

	// Report publishing
	NatsURL       string
	ReportSubject string
}

// DefaultConfig returns the default configuration rooted at rootDir
func DefaultConfig(rootDir string) *Config {
	cfg := &Config{
		BlazeDemoURL:    "https://blazedemo.com/",
		OpenCartURL:     "https://demo.opencart.com/",
		Browser:         "chrome",
		Headless:        false,
		LightpandaHost:  "127.0.0.1",
		LightpandaPort:  9222,
		WindowWidth:     1920,
		WindowHeight:    1080,
		ExplicitWait:    15 * time.Second,
		PageLoadTimeout: 30 * time.Second,
		LogLevel:        "debug",
		ReportSubject:   "e2e.reports",
	}
	cfg.SetRootDir(rootDir)
	return cfg
}

// SetRootDir points every derived directory at rootDir
func (c *Config) SetRootDir(rootDir string) {
	c.RootDir = rootDir
	c.ScreenshotsDir = filepath.Join(rootDir, "screenshots")
	c.ReportsDir = filepath.Join(rootDir, "reports")
	c.LogsDir = filepath.Join(rootDir, "logs")
	c.TestDataDir = filepath.Join(rootDir, "test_data")
}

// Load builds the config from defaults, an optional .env file and the environment
func Load() (*Config, error) {
	root := os.Getenv("E2E_ROOT")
	if root == "" {
		found, err := FindRootDir()
		if err != nil {
			return nil, err
		}
		root = found
	}

	envPath := filepath.Join(root, ".env")
	if err := godotenv.Load(envPath); err != nil && !os.IsNotExist(err) {
		return nil, fmt.Errorf("failed to load %s: %w", envPath, err)
	}

	cfg := DefaultConfig(root)
	if err := cfg.applyEnv(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func (c *Config) applyEnv() error {
	if v := os.Getenv("BROWSER"); v != "" {
		c.Browser = v
	}
	if v := os.Getenv("HEADLESS"); v != "" {
		c.Headless = strings.EqualFold(v, "true")
	}
	if v := os.Getenv("BLAZEDEMO_URL"); v != "" {
		c.BlazeDemoURL = v
	}
	if v := os.Getenv("OPENCART_URL"); v != "" {
		c.OpenCartURL = v
	}
	if v := os.Getenv("CHROME_BIN"); v != "" {
		c.ChromeBin = v
	}
	if v := os.Getenv("CHROME_REVISION"); v != "" {
		rev, err := strconv.Atoi(v)
		if err != nil {
			return fmt.Errorf("invalid CHROME_REVISION %q: %w", v, err)
		}
		c.ChromeRevision = rev
	}
	if v := os.Getenv("USER_AGENT"); v != "" {
		c.UserAgent = v
	}
	if v := os.Getenv("E2E_DEMOSITE"); v != "" {
		c.DemoSite = strings.EqualFold(v, "true") || v == "1"
	}
	if v := os.Getenv("LIGHTPANDA_HOST"); v != "" {
		c.LightpandaHost = v
	}
	if v := os.Getenv("LIGHTPANDA_PORT"); v != "" {
		port, err := strconv.Atoi(v)
		if err != nil {
			return fmt.Errorf("invalid LIGHTPANDA_PORT %q: %w", v, err)
		}
		c.LightpandaPort = port
	}
	if v := os.Getenv("E2E_MARKERS"); v != "" {
		c.Markers = v
	}
	if v := os.Getenv("LOG_LEVEL"); v != "" {
		c.LogLevel = v
	}
	if v := os.Getenv("NATS_URL"); v != "" {
		c.NatsURL = v
	}
	if v := os.Getenv("REPORT_SUBJECT"); v != "" {
		c.ReportSubject = v
	}
	return nil
}

// RegisterFlags binds the command line options of a test binary to c.
// Values set on the command line win over the environment.
func (c *Config) RegisterFlags(fs *flag.FlagSet) {
	fs.StringVar(&c.Browser, "browser", c.Browser, "Browser to run tests on: chrome, chromium or lightpanda")
	fs.BoolVar(&c.Headless, "headless", c.Headless, "Run tests in headless mode")
	fs.StringVar(&c.Markers, "markers", c.Markers, "Only run tests carrying one of these comma separated markers")
	fs.StringVar(&c.BlazeDemoURL, "blazedemo-url", c.BlazeDemoURL, "BlazeDemo base URL")
	fs.StringVar(&c.OpenCartURL, "opencart-url", c.OpenCartURL, "OpenCart base URL")
	fs.BoolVar(&c.DemoSite, "demosite", c.DemoSite, "Run against the local storefront replica instead of the public demos")
	fs.StringVar(&c.UserAgent, "user-agent", c.UserAgent, "Override the browser user agent")
}

// EnsureDirectories creates the output directories if they don't exist
func (c *Config) EnsureDirectories() error {
	for _, dir := range []string{c.ScreenshotsDir, c.ReportsDir, c.LogsDir} {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("failed to create %s: %w", dir, err)
		}
	}
	return nil
}

// MarkerFilter returns the configured markers, lower-cased and trimmed
func (c *Config) MarkerFilter() []string {
	var markers []string
	for _, m := range strings.Split(c.Markers, ",") {
		m = strings.ToLower(strings.TrimSpace(m))
		if m != "" {
			markers = append(markers, m)
		}
	}
	return markers
}

// FindRootDir walks up from the working directory to the directory holding go.mod
func FindRootDir() (string, error) {
	dir, err := os.Getwd()
	if err != nil {
		return "", err
	}

	for {
		if _, err := os.Stat(filepath.Join(dir, "go.mod")); err == nil {
			return dir, nil
		}
		parent := filepath.Dir(dir)
		if parent == dir {
			return "", fmt.Errorf("go.mod not found above working directory")
		}
		dir = parent
	}
}

package harness

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ahrdadan/demo-e2e/internal/config"
	"github.com/ahrdadan/demo-e2e/internal/report"
)

type fakeRunner struct {
	code int
	run  func()
}

func (f fakeRunner) Run() int {
	if f.run != nil {
		f.run()
	}
	return f.code
}

func withConfig(t *testing.T, c *config.Config) {
	prevCfg, prevRec := cfg, recorder
	cfg = c
	recorder = report.NewRecorder(config.ReportTitle, c.Browser, c.Headless)
	t.Cleanup(func() { cfg, recorder = prevCfg, prevRec })
}

func TestSelected(t *testing.T) {
	assert.True(t, Selected(nil, []string{Smoke}))
	assert.True(t, Selected(nil, nil))
	assert.True(t, Selected([]string{"smoke"}, []string{Regression, Smoke}))
	assert.True(t, Selected([]string{"LOGIN"}, []string{Login}))
	assert.False(t, Selected([]string{"cart"}, []string{Smoke, Login}))
	assert.False(t, Selected([]string{"cart"}, nil))
}

func TestMarkRecordsResult(t *testing.T) {
	withConfig(t, config.DefaultConfig(t.TempDir()))

	t.Run("tagged", func(t *testing.T) {
		Mark(t, Smoke, Flights)
	})

	res, ok := recorder.Get("TestMarkRecordsResult/tagged")
	require.True(t, ok)
	assert.Equal(t, report.StatusPassed, res.Status)
	assert.Equal(t, []string{Smoke, Flights}, res.Markers)
}

func TestMarkSkipsFilteredTests(t *testing.T) {
	c := config.DefaultConfig(t.TempDir())
	c.Markers = "cart"
	withConfig(t, c)

	ran := false
	t.Run("login_only", func(t *testing.T) {
		Mark(t, Login)
		ran = true
	})

	assert.False(t, ran)
	res, ok := recorder.Get("TestMarkSkipsFilteredTests/login_only")
	require.True(t, ok)
	assert.Equal(t, report.StatusSkipped, res.Status)
}

func TestTrackIsIdempotent(t *testing.T) {
	withConfig(t, config.DefaultConfig(t.TempDir()))

	t.Run("twice", func(t *testing.T) {
		Track(t)
		Track(t)
		Mark(t, Regression)
	})

	assert.Equal(t, 1, recorder.Len())
}

func TestBrowserOptions(t *testing.T) {
	c := config.DefaultConfig(t.TempDir())
	c.Browser = "chromium"
	c.Headless = true
	c.ChromeBin = "/opt/chrome"
	c.UserAgent = "e2e-bot"
	c.WindowWidth, c.WindowHeight = 1280, 720

	opts := BrowserOptions(c)
	assert.Equal(t, "chromium", opts.Browser)
	assert.True(t, opts.Headless)
	assert.Equal(t, "/opt/chrome", opts.ChromeBin)
	assert.Equal(t, "e2e-bot", opts.Page.UserAgent)
	assert.Equal(t, 1280, opts.WindowWidth)
	assert.Equal(t, 720, opts.WindowHeight)
}

func TestRunWritesReport(t *testing.T) {
	prevCfg, prevRec := cfg, recorder
	t.Cleanup(func() { cfg, recorder = prevCfg, prevRec })

	c := config.DefaultConfig(t.TempDir())
	c.LogLevel = "info"

	code, err := run(fakeRunner{code: 3, run: func() {
		recorder.Record(report.Result{Name: "TestSomething", Status: report.StatusPassed})
	}}, c)
	require.NoError(t, err)
	assert.Equal(t, 3, code)

	reports, err := filepath.Glob(filepath.Join(c.ReportsDir, "report_*.json"))
	require.NoError(t, err)
	require.Len(t, reports, 1)

	data, err := os.ReadFile(reports[0])
	require.NoError(t, err)
	assert.Contains(t, string(data), "TestSomething")
}

func TestRunServesDemoSite(t *testing.T) {
	prevCfg, prevRec := cfg, recorder
	t.Cleanup(func() { cfg, recorder = prevCfg, prevRec })

	c := config.DefaultConfig(t.TempDir())
	c.DemoSite = true

	var blaze, shop string
	_, err := run(fakeRunner{run: func() {
		blaze, shop = Config().BlazeDemoURL, Config().OpenCartURL
	}}, c)
	require.NoError(t, err)

	assert.Regexp(t, `^http://127\.0\.0\.1:\d+/blazedemo/$`, blaze)
	assert.Regexp(t, `^http://127\.0\.0\.1:\d+/opencart/$`, shop)
}

func TestRunRejectsUnknownBrowser(t *testing.T) {
	c := config.DefaultConfig(t.TempDir())
	c.Browser = "firefox"

	_, err := run(fakeRunner{}, c)
	assert.Error(t, err)
}

// fakeTB stands in for a test whose failure must not fail the caller.
type fakeTB struct {
	testing.TB
	name     string
	failed   bool
	cleanups []func()
}

func (f *fakeTB) Name() string        { return f.name }
func (f *fakeTB) Helper()             {}
func (f *fakeTB) Cleanup(fn func())   { f.cleanups = append(f.cleanups, fn) }
func (f *fakeTB) Failed() bool        { return f.failed }
func (f *fakeTB) Skipped() bool       { return false }
func (f *fakeTB) Fatal(args ...any)   { f.failed = true }
func (f *fakeTB) Logf(string, ...any) {}

func (f *fakeTB) finish() {
	for i := len(f.cleanups) - 1; i >= 0; i-- {
		f.cleanups[i]()
	}
}

func TestSessionFailureRecordsError(t *testing.T) {
	c := config.DefaultConfig(t.TempDir())
	c.Browser = "firefox"
	withConfig(t, c)

	ft := &fakeTB{name: "TestSessionFailureRecordsError/firefox"}
	assert.Nil(t, Session(ft))
	assert.True(t, ft.failed)
	ft.finish()

	res, ok := recorder.Get(ft.name)
	require.True(t, ok)
	assert.Equal(t, report.StatusFailed, res.Status)
	assert.Contains(t, res.Error, "failed to open firefox session")
	assert.Contains(t, res.Error, "unsupported browser")
}

package harness

import (
	"context"
	"fmt"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/go-rod/rod"
	"go.uber.org/zap"

	"github.com/ahrdadan/demo-e2e/internal/browser"
	"github.com/ahrdadan/demo-e2e/internal/config"
	"github.com/ahrdadan/demo-e2e/internal/logging"
	"github.com/ahrdadan/demo-e2e/internal/report"
)

// Markers the suites use
const (
	Smoke        = "smoke"
	Regression   = "regression"
	Flights      = "flights"
	Purchase     = "purchase"
	Booking      = "booking"
	Login        = "login"
	Registration = "registration"
	Search       = "search"
	Cart         = "cart"
)

// FailurePrefix starts every failure screenshot name
const FailurePrefix = "FAILED_"

// testState is what the harness tracks for one running test.
type testState struct {
	mu         sync.Mutex
	start      time.Time
	markers    []string
	session    *browser.Session
	screenshot string
	err        string // harness-side failure, such as a browser that never started
}

var states sync.Map // testing.TB → *testState

// Track starts recording t's outcome; the result is stored when t ends.
// It is idempotent and called implicitly by Mark and Session.
func Track(t testing.TB) {
	stateOf(t)
}

func stateOf(t testing.TB) *testState {
	if st, ok := states.Load(t); ok {
		return st.(*testState)
	}

	st := &testState{start: time.Now()}
	if actual, loaded := states.LoadOrStore(t, st); loaded {
		return actual.(*testState)
	}

	t.Cleanup(func() {
		states.Delete(t)
		finish(t, st)
	})
	return st
}

func finish(t testing.TB, st *testState) {
	if recorder == nil {
		return
	}

	st.mu.Lock()
	res := report.Result{
		Name:       t.Name(),
		Markers:    st.markers,
		Duration:   time.Since(st.start),
		Screenshot: st.screenshot,
		Error:      st.err,
	}
	st.mu.Unlock()

	switch {
	case t.Skipped():
		res.Status = report.StatusSkipped
	case t.Failed():
		res.Status = report.StatusFailed
	default:
		res.Status = report.StatusPassed
	}
	recorder.Record(res)
}

// Mark tags t with markers and skips it unless the configured marker
// filter is empty or shares one of them.
func Mark(t testing.TB, markers ...string) {
	t.Helper()
	st := stateOf(t)

	st.mu.Lock()
	st.markers = append(st.markers, markers...)
	st.mu.Unlock()

	if cfg == nil {
		return
	}
	if !Selected(cfg.MarkerFilter(), markers) {
		t.Skipf("not selected by markers %q", cfg.Markers)
	}
}

// Selected reports whether a test carrying markers passes filter.
func Selected(filter, markers []string) bool {
	if len(filter) == 0 {
		return true
	}
	for _, want := range filter {
		for _, m := range markers {
			if strings.EqualFold(want, m) {
				return true
			}
		}
	}
	return false
}

// Session returns t's browser session, opening it on first use. The
// session is closed when t ends, after a FAILED_<test> screenshot when t
// failed.
func Session(t testing.TB) *browser.Session {
	t.Helper()
	st := stateOf(t)

	st.mu.Lock()
	defer st.mu.Unlock()
	if st.session != nil {
		return st.session
	}

	c := Config()
	sess, err := browser.OpenSession(context.Background(), BrowserOptions(c))
	if err != nil {
		st.err = fmt.Sprintf("failed to open %s session: %v", c.Browser, err)
		t.Fatal(st.err)
		return nil
	}
	st.session = sess

	t.Cleanup(func() { closeSession(t, c, st) })
	return sess
}

func closeSession(t testing.TB, c *config.Config, st *testState) {
	log := logging.Named("harness")

	st.mu.Lock()
	defer st.mu.Unlock()

	if t.Failed() {
		name := FailurePrefix + t.Name()
		page := st.session.Page()
		capture := report.CaptureFunc(func() ([]byte, error) { return page.Screenshot(false, nil) })
		path, err := report.TakeScreenshot(capture, c.ScreenshotsDir, name)
		if err != nil {
			log.Warn("Failed to take failure screenshot", zap.String("test", t.Name()), zap.Error(err))
			st.err = fmt.Sprintf("failed to take screenshot: %v", err)
		} else {
			st.screenshot = path
			t.Logf("Screenshot saved: %s", path)
		}
	}

	if err := st.session.Close(); err != nil {
		log.Warn("Failed to close browser session", zap.String("test", t.Name()), zap.Error(err))
	}
	st.session = nil
}

// Page returns the rod page of t's session
func Page(t testing.TB) *rod.Page {
	t.Helper()
	return Session(t).Page()
}

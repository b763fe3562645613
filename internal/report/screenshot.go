package report

import (
	"fmt"
	"os"
	"path/filepath"
	"time"
)

// TimestampLayout stamps screenshot and report file names
const TimestampLayout = "20060102_150405"

// Capturer is anything that can render the current page as PNG.
type Capturer interface {
	Screenshot() ([]byte, error)
}

// CaptureFunc adapts a plain function to Capturer
type CaptureFunc func() ([]byte, error)

func (f CaptureFunc) Screenshot() ([]byte, error) { return f() }

// TakeScreenshot saves a capture as dir/<name>_<YYYYMMDD_HHMMSS>.png and
// returns the path.
func TakeScreenshot(c Capturer, dir, name string) (string, error) {
	data, err := c.Screenshot()
	if err != nil {
		return "", err
	}

	if err := os.MkdirAll(dir, 0o755); err != nil {
		return "", fmt.Errorf("failed to create screenshot dir: %w", err)
	}

	path := filepath.Join(dir, fmt.Sprintf("%s_%s.png", sanitizeName(name), time.Now().Format(TimestampLayout)))
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return "", fmt.Errorf("failed to write screenshot: %w", err)
	}
	return path, nil
}

// sanitizeName keeps subtest names such as "TestCart/empty" on one path segment.
func sanitizeName(name string) string {
	out := []rune(name)
	for i, r := range out {
		switch r {
		case '/', '\\', ':', ' ', '*', '?', '"', '<', '>', '|':
			out[i] = '_'
		}
	}
	return string(out)
}

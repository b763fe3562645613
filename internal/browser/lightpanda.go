package browser

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"os"
	"os/exec"
	"path/filepath"
	"runtime"
	"strconv"
	"time"

	"github.com/go-rod/rod/lib/launcher"
	"go.uber.org/zap"
	"go.uber.org/zap/zapio"

	"github.com/ahrdadan/demo-e2e/internal/logging"
)

// LightpandaDownloadURL is the nightly Lightpanda build for linux/amd64
const LightpandaDownloadURL = "https://github.com/lightpanda-io/browser/releases/download/nightly/lightpanda-x86_64-linux"

// lightpandaReadyTimeout bounds how long a launch waits for the CDP server
const lightpandaReadyTimeout = 10 * time.Second

var lightpandaNames = []string{"lightpanda-x86_64-linux", "lightpanda"}

// NewLightpanda returns an engine serving CDP from the Lightpanda binary at
// bin on host:port. Lightpanda is always headless.
func NewLightpanda(bin, host string, port int) *Engine {
	return newEngine("lightpanda", &lightpandaProcess{bin: bin, host: host, port: port})
}

type lightpandaProcess struct {
	bin  string
	host string
	port int

	cmd    *exec.Cmd
	output *zapio.Writer
}

func (p *lightpandaProcess) launch() (string, error) {
	if runtime.GOOS != "linux" {
		return "", fmt.Errorf("lightpanda browser only supports linux, current OS: %s", runtime.GOOS)
	}

	p.output = &zapio.Writer{Log: logging.Named("lightpanda"), Level: zap.DebugLevel}
	p.cmd = exec.Command(p.bin, "serve", "--host", p.host, "--port", strconv.Itoa(p.port))
	p.cmd.Stdout = p.output
	p.cmd.Stderr = p.output
	if err := p.cmd.Start(); err != nil {
		p.cmd = nil
		return "", err
	}

	deadline := time.Now().Add(lightpandaReadyTimeout)
	for {
		u, err := launcher.ResolveURL(p.endpoint())
		if err == nil {
			return u, nil
		}
		if time.Now().After(deadline) {
			p.kill()
			return "", fmt.Errorf("not ready on %s: %w", p.endpoint(), err)
		}
		time.Sleep(200 * time.Millisecond)
	}
}

func (p *lightpandaProcess) kill() {
	if p.cmd != nil && p.cmd.Process != nil {
		_ = p.cmd.Process.Kill()
		_ = p.cmd.Wait()
	}
	if p.output != nil {
		_ = p.output.Close()
	}
	p.cmd, p.output = nil, nil
}

func (p *lightpandaProcess) endpoint() string {
	return fmt.Sprintf("ws://%s:%d", p.host, p.port)
}

// LocateLightpanda finds a Lightpanda binary in dir, dir/browser, ./browser
// or the working directory, making it executable when needed.
func LocateLightpanda(dir string) (string, error) {
	for _, d := range []string{dir, filepath.Join(dir, "browser"), "./browser", "."} {
		for _, name := range lightpandaNames {
			path := filepath.Join(d, name)
			info, err := os.Stat(path)
			if err != nil || info.IsDir() {
				continue
			}
			if info.Mode()&0o111 == 0 {
				if err := os.Chmod(path, info.Mode()|0o755); err != nil {
					return "", fmt.Errorf("failed to chmod %s: %w", path, err)
				}
			}
			return path, nil
		}
	}
	return "", fmt.Errorf("lightpanda browser binary not found under %s", dir)
}

// EnsureLightpanda returns the Lightpanda binary under dir, downloading the
// nightly build when none is found.
func EnsureLightpanda(ctx context.Context, dir string) (string, error) {
	if runtime.GOOS != "linux" {
		return "", fmt.Errorf("lightpanda browser only supports linux, current OS: %s", runtime.GOOS)
	}
	if path, err := LocateLightpanda(dir); err == nil {
		return path, nil
	}

	if err := os.MkdirAll(dir, 0o755); err != nil {
		return "", fmt.Errorf("failed to create %s: %w", dir, err)
	}
	dest := filepath.Join(dir, lightpandaNames[0])
	if err := download(ctx, LightpandaDownloadURL, dest); err != nil {
		return "", fmt.Errorf("failed to download lightpanda: %w", err)
	}

	logging.Named("browser").Info("Lightpanda browser installed", zap.String("path", dest))
	return dest, nil
}

// download fetches url into an executable file at dest. A partial file is
// removed.
func download(ctx context.Context, url, dest string) (err error) {
	logging.Named("browser").Info("Downloading", zap.String("url", url))

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return err
	}
	resp, err := http.DefaultClient.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("unexpected status %d", resp.StatusCode)
	}

	tmp := dest + ".part"
	out, err := os.OpenFile(tmp, os.O_CREATE|os.O_TRUNC|os.O_WRONLY, 0o755)
	if err != nil {
		return err
	}
	defer func() {
		if err != nil {
			_ = os.Remove(tmp)
		}
	}()

	if _, err = io.Copy(out, resp.Body); err != nil {
		_ = out.Close()
		return err
	}
	if err = out.Close(); err != nil {
		return err
	}
	return os.Rename(tmp, dest)
}

package browser

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"os/exec"
	"runtime"

	"github.com/go-rod/rod/lib/launcher"
	"go.uber.org/zap"

	"github.com/ahrdadan/demo-e2e/internal/logging"
)

// ErrNoPackageManager means the Chromium system libraries cannot be installed
var ErrNoPackageManager = errors.New("no supported package manager (apt-get, dnf)")

// Chromium's shared library dependencies per package manager.
var chromeDeps = map[string][]string{
	"apt-get": {
		"ca-certificates", "fonts-liberation", "libasound2", "libatk-bridge2.0-0",
		"libatk1.0-0", "libcups2", "libdbus-1-3", "libdrm2", "libgbm1", "libgtk-3-0",
		"libnspr4", "libnss3", "libxcomposite1", "libxdamage1", "libxrandr2",
		"libxkbcommon0", "libpango-1.0-0",
	},
	"dnf": {
		"alsa-lib", "atk", "cups-libs", "gtk3", "libXcomposite", "libXdamage",
		"libXrandr", "libxkbcommon", "nss", "nspr", "pango", "mesa-libgbm", "libdrm",
	},
}

// InstallChrome downloads the Chromium build rod pins (or revision, when
// positive) for the current OS/arch and returns the binary path. withDeps
// installs the system libraries first.
func InstallChrome(ctx context.Context, revision int, withDeps bool) (string, error) {
	if withDeps {
		if err := InstallChromeDependencies(ctx); err != nil {
			return "", err
		}
	}

	b := launcher.NewBrowser()
	b.Context = ctx
	if revision > 0 {
		b.Revision = revision
	}

	path, err := b.Get()
	if err != nil {
		return "", fmt.Errorf("failed to download chrome: %w", err)
	}
	logging.Named("browser").Info("Chrome installed", zap.String("path", path), zap.Int("revision", b.Revision))
	return path, nil
}

// InstallChromeDependencies installs Chromium's system libraries with
// apt-get or dnf. It does nothing outside Linux.
func InstallChromeDependencies(ctx context.Context) error {
	if runtime.GOOS != "linux" {
		return nil
	}

	for _, manager := range []string{"apt-get", "dnf"} {
		path, err := exec.LookPath(manager)
		if err != nil {
			continue
		}
		if manager == "apt-get" {
			if err := run(ctx, path, "update"); err != nil {
				return err
			}
			return run(ctx, path, append([]string{"install", "-y", "--no-install-recommends"}, chromeDeps[manager]...)...)
		}
		return run(ctx, path, append([]string{"install", "-y"}, chromeDeps[manager]...)...)
	}
	return ErrNoPackageManager
}

// run executes name and folds its combined output into the error.
func run(ctx context.Context, name string, args ...string) error {
	logging.Named("browser").Info("Running", zap.String("cmd", name), zap.Strings("args", args))

	var out bytes.Buffer
	cmd := exec.CommandContext(ctx, name, args...)
	cmd.Stdout = &out
	cmd.Stderr = &out
	if err := cmd.Run(); err != nil {
		return fmt.Errorf("%s %v failed: %w\n%s", name, args, err, out.String())
	}
	return nil
}

// Command browsers downloads the browser binaries the suite drives, so CI
// images can install them ahead of a run.
package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"

	"go.uber.org/zap"

	"github.com/ahrdadan/demo-e2e/internal/browser"
	"github.com/ahrdadan/demo-e2e/internal/config"
	"github.com/ahrdadan/demo-e2e/internal/logging"
)

func main() {
	chrome := flag.Bool("chrome", false, "Install a Chromium build")
	revision := flag.Int("revision", 0, "Chromium revision to install (0 uses rod's default)")
	withDeps := flag.Bool("with-deps", false, "Install Chromium's system libraries with apt-get (Linux)")
	lightpanda := flag.Bool("lightpanda", false, "Download the Lightpanda nightly")
	dir := flag.String("dir", "", "Directory for the Lightpanda binary (default <root>/bin)")
	flag.Parse()

	log, err := logging.Init(logging.Options{Level: "info"})
	if err != nil {
		fmt.Fprintf(os.Stderr, "browsers: %v\n", err)
		os.Exit(1)
	}
	defer logging.Sync()
	log = log.Named("browsers")

	if !*chrome && !*lightpanda {
		flag.Usage()
		os.Exit(2)
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	if *chrome {
		bin, err := browser.InstallChrome(ctx, *revision, *withDeps)
		if err != nil {
			log.Fatal("Failed to install Chrome", zap.Error(err))
		}
		log.Info("Chrome ready", zap.String("bin", bin))
	}

	if *lightpanda {
		target := *dir
		if target == "" {
			root, err := config.FindRootDir()
			if err != nil {
				log.Fatal("Failed to locate project root", zap.Error(err))
			}
			target = filepath.Join(root, "bin")
		}
		bin, err := browser.EnsureLightpanda(ctx, target)
		if err != nil {
			log.Fatal("Failed to install Lightpanda", zap.Error(err))
		}
		log.Info("Lightpanda ready", zap.String("bin", bin))
	}
}

// Command demosite serves the local BlazeDemo and OpenCart replica the
// suite can run against instead of the public sites.
package main

import (
	"flag"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"go.uber.org/zap"

	"github.com/ahrdadan/demo-e2e/internal/config"
	"github.com/ahrdadan/demo-e2e/internal/demosite"
	"github.com/ahrdadan/demo-e2e/internal/logging"
)

func main() {
	host := flag.String("host", "127.0.0.1", "Host to bind")
	port := flag.Int("port", 8080, "Port to listen on")
	ttl := flag.Duration("session-ttl", demosite.DefaultSessionTTL, "Idle time before a storefront session expires")
	logLevel := flag.String("log-level", "info", "Log level (debug, info, warn, error)")
	accessLog := flag.Bool("access-log", true, "Log every request")
	attempts := flag.Int("login-attempts", demosite.DefaultLoginAttempts, "Failed logins that lock an account for an hour")
	version := flag.Bool("version", false, "Show version information")
	flag.Parse()

	if *version {
		fmt.Printf("%s demosite v%s\n", config.AppName, config.Version)
		return
	}

	log, err := logging.Init(logging.Options{Level: *logLevel})
	if err != nil {
		fmt.Fprintf(os.Stderr, "demosite: %v\n", err)
		os.Exit(1)
	}
	defer logging.Sync()
	log = log.Named("demosite")

	srv, err := demosite.New(demosite.Options{
		SessionTTL:    *ttl,
		Logger:        log,
		AccessLog:     *accessLog,
		LoginAttempts: *attempts,
	})
	if err != nil {
		log.Fatal("Failed to create server", zap.Error(err))
	}

	// Graceful shutdown
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)

	go func() {
		<-quit
		log.Info("Shutting down server...")
		if err := srv.Shutdown(); err != nil {
			log.Error("Error during shutdown", zap.Error(err))
		}
	}()

	addr := fmt.Sprintf("%s:%d", *host, *port)
	log.Info("Starting server",
		zap.String("addr", addr),
		zap.String("blazedemo", "http://"+addr+demosite.BlazeDemoPrefix+"/"),
		zap.String("opencart", "http://"+addr+demosite.OpenCartPrefix+"/"),
		zap.Duration("session_ttl", *ttl),
	)

	if err := srv.Listen(addr); err != nil {
		log.Fatal("Failed to start server", zap.Error(err))
	}
}

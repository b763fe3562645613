// Package demosite serves a local replica of the BlazeDemo and OpenCart
// storefronts so the browser suites can run without reaching the public
// demo hosts.
//
// BlazeDemo lives under /blazedemo/ and OpenCart under /opencart/. The
// OpenCart pages submit their forms over fetch and answer with the same
// {redirect, success, error} JSON envelope the real storefront uses.
package demosite

import (
	"embed"
	"html/template"
	"net"
	"strings"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/cors"
	"github.com/gofiber/fiber/v2/middleware/recover"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

// AppName is reported by the Fiber app
const AppName = "demosite"

// requestIDKey holds the request's X-Request-ID in Ctx.Locals
const requestIDKey = "requestID"

// Path prefixes of the two storefronts
const (
	BlazeDemoPrefix = "/blazedemo"
	OpenCartPrefix  = "/opencart"
)

// DemoAccount is the customer every store starts with
var DemoAccount = Account{
	FirstName: "Demo",
	LastName:  "User",
	Email:     "demo@example.com",
	Password:  "demo123",
}

//go:embed templates/*.html
var templateFS embed.FS

// Options configures the replica
type Options struct {
	SessionTTL time.Duration
	Logger     *zap.Logger
	// AccessLog enables per-request logging
	AccessLog bool
	// LoginAttempts is how many failed logins lock an account for an hour
	LoginAttempts int
}

// Server owns the Fiber app and the storefront state.
type Server struct {
	app      *fiber.App
	store    *Store
	attempts *loginAttempts
	tmpl     *template.Template
	started  time.Time
	log      *zap.Logger
}

// New builds the replica with its routes mounted.
func New(opts Options) (*Server, error) {
	log := opts.Logger
	if log == nil {
		log = zap.NewNop()
	}

	tmpl, err := template.New("").Funcs(template.FuncMap{
		"money": money,
		"lower": strings.ToLower,
	}).ParseFS(templateFS, "templates/*.html")
	if err != nil {
		return nil, err
	}

	s := &Server{
		store:    NewStore(opts.SessionTTL, log, DemoAccount),
		attempts: newLoginAttempts(opts.LoginAttempts, loginWindow),
		tmpl:     tmpl,
		started:  time.Now(),
		log:      log,
	}

	s.app = fiber.New(fiber.Config{
		AppName:               AppName,
		ErrorHandler:          s.errorHandler,
		DisableStartupMessage: true,
		// Form values outlive the request as store and lockout keys.
		Immutable: true,
	})

	s.app.Use(recover.New())
	s.app.Use(cors.New())
	s.app.Use(RequestHeaders())
	if opts.AccessLog {
		s.app.Use(s.accessLog())
	}

	s.setupRoutes()
	return s, nil
}

// App exposes the Fiber app for Listen and app.Test.
func (s *Server) App() *fiber.App { return s.app }

// Store exposes the session and account store
func (s *Server) Store() *Store { return s.store }

// Serve accepts connections on ln until Shutdown.
func (s *Server) Serve(ln net.Listener) error {
	return s.app.Listener(ln)
}

// Listen serves on addr until Shutdown.
func (s *Server) Listen(addr string) error {
	return s.app.Listen(addr)
}

// Shutdown stops the listener and session eviction.
func (s *Server) Shutdown() error {
	s.store.Stop()
	return s.app.Shutdown()
}

func (s *Server) setupRoutes() {
	s.app.Get("/health", s.HealthCheck)
	s.app.Get("/", func(c *fiber.Ctx) error {
		return s.render(c, "index", nil)
	})

	bd := s.app.Group(BlazeDemoPrefix)
	bd.Get("/", s.blazeHome)
	bd.Get("/index.php", s.blazeHome)
	bd.Get("/home", s.blazeHome)
	bd.Get("/reserve.php", s.blazeReserve)
	bd.Post("/reserve.php", s.blazeReserve)
	bd.Post("/purchase.php", s.blazePurchase)
	bd.Post("/confirmation.php", s.blazeConfirmation)

	oc := s.app.Group(OpenCartPrefix, s.sessionMiddleware())
	oc.All("/", s.openCartDispatch)
	oc.All("/index.php", s.openCartDispatch)

	oc.Get("/image/:name", s.ocImage)

	s.app.Get("/playground", func(c *fiber.Ctx) error {
		return s.render(c, "playground", c.Query("step"))
	})
}

// render executes a named template as the response body.
func (s *Server) render(c *fiber.Ctx, name string, data any) error {
	c.Type("html", "utf-8")
	return s.tmpl.ExecuteTemplate(c, name, data)
}

// RequestHeaders sets hardening headers and a request id.
func RequestHeaders() fiber.Handler {
	return func(c *fiber.Ctx) error {
		c.Set("X-Content-Type-Options", "nosniff")
		c.Set("X-Frame-Options", "DENY")
		c.Set("Referrer-Policy", "strict-origin-when-cross-origin")

		requestID := c.Get("X-Request-ID")
		if requestID == "" {
			requestID = uuid.NewString()
		}
		c.Set("X-Request-ID", requestID)
		c.Locals(requestIDKey, requestID)

		return c.Next()
	}
}

func (s *Server) accessLog() fiber.Handler {
	return func(c *fiber.Ctx) error {
		start := time.Now()
		err := c.Next()
		s.log.Info("request",
			zap.String("method", c.Method()),
			zap.String("path", c.OriginalURL()),
			zap.Int("status", c.Response().StatusCode()),
			zap.Duration("latency", time.Since(start)),
			zap.Any("request_id", c.Locals(requestIDKey)),
		)
		return err
	}
}

package report

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/nats-io/nats.go"
	"github.com/nats-io/nats.go/jetstream"
	"go.uber.org/zap"

	"github.com/ahrdadan/demo-e2e/internal/logging"
)

const (
	// StreamName is the JetStream stream holding run reports
	StreamName = "E2E_REPORTS"
	// DefaultSubject is used when no subject is configured
	DefaultSubject = "e2e.reports"
)

// Publisher ships a finished report somewhere.
type Publisher interface {
	Publish(ctx context.Context, rep *Report) error
	Close() error
}

// NATSPublisher publishes reports to a JetStream stream, falling back to core
// NATS when the server has JetStream disabled.
type NATSPublisher struct {
	nc      *nats.Conn
	js      jetstream.JetStream
	subject string
	stream  bool
}

// NewNATSPublisher connects to url.
func NewNATSPublisher(ctx context.Context, url, subject string) (*NATSPublisher, error) {
	if subject == "" {
		subject = DefaultSubject
	}

	nc, err := nats.Connect(url,
		nats.Name("demo-e2e report publisher"),
		nats.Timeout(5*time.Second),
		nats.MaxReconnects(3),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to NATS: %w", err)
	}

	js, err := jetstream.New(nc)
	if err != nil {
		nc.Close()
		return nil, fmt.Errorf("failed to create JetStream context: %w", err)
	}

	p := &NATSPublisher{nc: nc, js: js, subject: subject}
	p.stream = p.setupStream(ctx) == nil
	return p, nil
}

func (p *NATSPublisher) setupStream(ctx context.Context) error {
	ctx, cancel := context.WithTimeout(ctx, 10*time.Second)
	defer cancel()

	_, err := p.js.CreateOrUpdateStream(ctx, jetstream.StreamConfig{
		Name:        StreamName,
		Description: "End-to-end run reports",
		Subjects:    []string{p.subject},
		Retention:   jetstream.LimitsPolicy,
		MaxAge:      30 * 24 * time.Hour,
		Storage:     jetstream.FileStorage,
	})
	if err != nil {
		logging.Named("report").Warn("JetStream unavailable, publishing on core NATS", zap.Error(err))
		return err
	}
	return nil
}

// Publish sends rep as JSON with the run id as message id.
func (p *NATSPublisher) Publish(ctx context.Context, rep *Report) error {
	data, err := json.Marshal(rep)
	if err != nil {
		return fmt.Errorf("failed to marshal report: %w", err)
	}

	if p.stream {
		if _, err := p.js.Publish(ctx, p.subject, data, jetstream.WithMsgID(rep.ID)); err != nil {
			return fmt.Errorf("failed to publish report: %w", err)
		}
		return nil
	}

	if err := p.nc.Publish(p.subject, data); err != nil {
		return fmt.Errorf("failed to publish report: %w", err)
	}
	return p.nc.FlushWithContext(ctx)
}

// Close drains the connection
func (p *NATSPublisher) Close() error {
	return p.nc.Drain()
}

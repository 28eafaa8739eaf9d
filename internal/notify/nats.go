package notify

import (
	"context"
	"encoding/json"
	"log/slog"
	"time"

	"github.com/nats-io/nats.go"
	"github.com/nats-io/nats.go/jetstream"

	"git.home.luguber.info/inful/blogbuilder/internal/foundation/errors"
	"git.home.luguber.info/inful/blogbuilder/internal/logfields"
	"git.home.luguber.info/inful/blogbuilder/internal/retry"
)

// DefaultSubject is used when no subject is configured.
const DefaultSubject = "blog.builds"

// NATSConfig configures a NATSPublisher.
type NATSConfig struct {
	URL     string
	Subject string
	// JetStream publishes through JetStream and waits for the stream's ack.
	// A stream covering Subject must exist.
	JetStream bool
	Timeout   time.Duration
	// Retry schedules further publish attempts; the zero Policy tries once.
	Retry retry.Policy
}

// NATSPublisher publishes build events as JSON on a NATS subject.
type NATSPublisher struct {
	conn    *nats.Conn
	js      jetstream.JetStream
	subject string
	timeout time.Duration
	retry   retry.Policy
}

// NewNATSPublisher connects to cfg.URL.
func NewNATSPublisher(cfg NATSConfig) (*NATSPublisher, error) {
	if cfg.URL == "" {
		return nil, errors.ConfigError("notify.nats_url is required").Build()
	}
	if cfg.Subject == "" {
		cfg.Subject = DefaultSubject
	}
	if cfg.Timeout <= 0 {
		cfg.Timeout = 5 * time.Second
	}

	conn, err := nats.Connect(cfg.URL,
		nats.Name("blogbuilder"),
		nats.Timeout(cfg.Timeout),
		nats.MaxReconnects(-1),
	)
	if err != nil {
		return nil, errors.WrapError(err, errors.CategoryNetwork, "failed to connect to NATS").
			WithContext("url", cfg.URL).
			Build()
	}

	p := &NATSPublisher{conn: conn, subject: cfg.Subject, timeout: cfg.Timeout, retry: cfg.Retry}
	if cfg.JetStream {
		js, err := jetstream.New(conn)
		if err != nil {
			conn.Close()
			return nil, errors.WrapError(err, errors.CategoryNetwork, "failed to create JetStream context").Build()
		}
		p.js = js
	}

	slog.Info("NATS build notifications enabled",
		slog.String("url", cfg.URL),
		slog.String("subject", cfg.Subject),
		slog.Bool("jetstream", cfg.JetStream))
	return p, nil
}

// PublishBuild publishes event on the configured subject.
func (p *NATSPublisher) PublishBuild(ctx context.Context, event BuildEvent) error {
	data, err := json.Marshal(event)
	if err != nil {
		return errors.WrapError(err, errors.CategoryInternal, "failed to marshal build event").Build()
	}

	err = p.retry.Do(ctx, func(ctx context.Context) error {
		return p.publish(ctx, data)
	})
	if err != nil {
		return errors.WrapError(err, errors.CategoryNetwork, "failed to publish build event").
			WithContext("subject", p.subject).
			Build()
	}

	slog.Debug("Published build event", logfields.BuildID(event.BuildID), logfields.Outcome(event.Outcome))
	return nil
}

func (p *NATSPublisher) publish(ctx context.Context, data []byte) error {
	ctx, cancel := context.WithTimeout(ctx, p.timeout)
	defer cancel()

	if p.js != nil {
		_, err := p.js.Publish(ctx, p.subject, data)
		return err
	}
	if err := p.conn.Publish(p.subject, data); err != nil {
		return err
	}
	return p.conn.FlushWithContext(ctx)
}

// Close drains and closes the connection.
func (p *NATSPublisher) Close() error {
	if p.conn == nil {
		return nil
	}
	if err := p.conn.Drain(); err != nil {
		p.conn.Close()
		return err
	}
	return nil
}

// New returns a NATSPublisher when cfg.URL is set and a NoopPublisher otherwise.
func New(cfg NATSConfig) (Publisher, error) {
	if cfg.URL == "" {
		return NoopPublisher{}, nil
	}
	return NewNATSPublisher(cfg)
}

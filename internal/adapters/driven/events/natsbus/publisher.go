// Package natsbus publishes interview session events to a NATS subject
// with OpenTelemetry trace propagation in the message headers.
package natsbus

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/nats-io/nats.go"
	"go.opentelemetry.io/otel"

	"github.com/custodia-labs/interview-pilot/internal/core/domain"
	"github.com/custodia-labs/interview-pilot/internal/core/ports/driven"
	"github.com/custodia-labs/interview-pilot/internal/logger"
)

// DefaultSubject receives a SessionSummary whenever a session ends.
const DefaultSubject = "interview.session.ended"

// Ensure Publisher implements the interface.
var _ driven.EventPublisher = (*Publisher)(nil)

// natsHeaderCarrier adapts nats.Msg headers for OTel TextMapCarrier.
type natsHeaderCarrier nats.Msg

func (c *natsHeaderCarrier) Get(key string) string {
	if c.Header == nil {
		return ""
	}
	return c.Header.Get(key)
}

func (c *natsHeaderCarrier) Set(key, val string) {
	if c.Header == nil {
		c.Header = make(nats.Header)
	}
	c.Header.Set(key, val)
}

func (c *natsHeaderCarrier) Keys() []string {
	if c.Header == nil {
		return nil
	}
	keys := make([]string, 0, len(c.Header))
	for k := range c.Header {
		keys = append(keys, k)
	}
	return keys
}

// Publisher sends session events over a NATS connection.
type Publisher struct {
	nc      *nats.Conn
	subject string
	owned   bool
}

// Connect dials url and returns a Publisher that owns the connection.
func Connect(url, subject string) (*Publisher, error) {
	nc, err := nats.Connect(url,
		nats.Name("interview-pilot"),
		nats.Timeout(5*time.Second),
		nats.MaxReconnects(-1),
		nats.DisconnectErrHandler(func(_ *nats.Conn, err error) {
			if err != nil {
				logger.Warn("nats disconnected: %v", err)
			}
		}),
		nats.ReconnectHandler(func(c *nats.Conn) {
			logger.Info("nats reconnected to %s", c.ConnectedUrl())
		}),
	)
	if err != nil {
		return nil, fmt.Errorf("nats: connect %s: %w", url, err)
	}
	p := NewPublisher(nc, subject)
	p.owned = true
	return p, nil
}

// NewPublisher wraps an existing connection. Close will not close it.
func NewPublisher(nc *nats.Conn, subject string) *Publisher {
	if subject == "" {
		subject = DefaultSubject
	}
	return &Publisher{nc: nc, subject: subject}
}

// Subject returns the subject events are published to.
func (p *Publisher) Subject() string {
	return p.subject
}

// PublishSessionEnded publishes the summary as JSON.
func (p *Publisher) PublishSessionEnded(ctx context.Context, summary domain.SessionSummary) error {
	return publish(ctx, p.nc, p.subject, summary)
}

// Close drains the connection if this publisher owns it.
func (p *Publisher) Close() error {
	if !p.owned {
		return nil
	}
	return p.nc.Drain()
}

// SubscribeSessionEnded delivers decoded summaries published on subject.
// Trace context is extracted from the headers and passed to the handler.
// Malformed messages are dropped.
func SubscribeSessionEnded(
	nc *nats.Conn, subject string, handler func(context.Context, domain.SessionSummary),
) (*nats.Subscription, error) {
	if subject == "" {
		subject = DefaultSubject
	}
	return nc.Subscribe(subject, func(msg *nats.Msg) {
		var summary domain.SessionSummary
		if err := json.Unmarshal(msg.Data, &summary); err != nil {
			logger.Debug("dropping malformed session event on %s: %v", msg.Subject, err)
			return
		}
		ctx := otel.GetTextMapPropagator().Extract(context.Background(), (*natsHeaderCarrier)(msg))
		handler(ctx, summary)
	})
}

// publish serializes v as JSON and injects the trace context from ctx.
func publish(ctx context.Context, nc *nats.Conn, subject string, v any) error {
	data, err := json.Marshal(v)
	if err != nil {
		return fmt.Errorf("nats: marshal %s: %w", subject, err)
	}
	msg := &nats.Msg{
		Subject: subject,
		Data:    data,
	}
	otel.GetTextMapPropagator().Inject(ctx, (*natsHeaderCarrier)(msg))
	if err := nc.PublishMsg(msg); err != nil {
		return fmt.Errorf("nats: publish %s: %w", subject, err)
	}
	return nil
}

package publisher

import (
	"context"
	"encoding/json"
	"time"

	"github.com/google/uuid"
	"github.com/nats-io/nats.go"

	"github.com/nezhnik/omonete-sub001/pkg/logger"
	"github.com/nezhnik/omonete-sub001/pkg/model"
)

// Publisher wraps a NATS connection and publishes pipeline events. A nil
// Publisher is valid and publishes nothing, so callers need no guards when
// NATS is not configured.
type Publisher struct {
	nc      *nats.Conn
	js      nats.JetStreamContext
	service string
}

// New creates a Publisher with JetStream enabled.
func New(nc *nats.Conn, service string) (*Publisher, error) {
	js, err := nc.JetStream()
	if err != nil {
		return nil, err
	}
	return &Publisher{nc: nc, js: js, service: service}, nil
}

// PublishEvent wraps the payload in the canonical envelope and publishes it.
func (p *Publisher) PublishEvent(ctx context.Context, subject, eventType string, payload any) error {
	if p == nil {
		return nil
	}

	data, err := json.Marshal(payload)
	if err != nil {
		logger.S().Errorw("publisher.marshal_failed",
			"subject", subject,
			"event_type", eventType,
			"error", err,
		)
		return err
	}

	env := &model.Envelope{
		ID:            uuid.New(),
		CorrelationID: uuid.New(),
		Topic:         subject,
		EventType:     eventType,
		Version:       "1.0.0",
		Timestamp:     time.Now().UTC(),
		Payload:       data,
	}

	body, err := json.Marshal(env)
	if err != nil {
		return err
	}

	msg := &nats.Msg{
		Subject: subject,
		Data:    body,
		Header: nats.Header{
			"event_type":     []string{eventType},
			"correlation_id": []string{env.CorrelationID.String()},
			"service":        []string{p.service},
			"content_type":   []string{"application/json"},
		},
	}

	if _, err := p.js.PublishMsg(msg); err != nil {
		logger.S().Errorw("publisher.publish_failed",
			"subject", subject,
			"event_type", eventType,
			"error", err,
		)
		return err
	}

	logger.S().Infow("publisher.publish_success",
		"subject", subject,
		"event_type", eventType,
	)
	return nil
}

// Connected reports whether the underlying connection is live.
func (p *Publisher) Connected() bool {
	return p != nil && p.nc != nil && p.nc.IsConnected()
}

func (p *Publisher) Close() {
	if p != nil && p.nc != nil && p.nc.IsConnected() {
		p.nc.Close()
	}
}

package infrastructure

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/nats-io/nats.go"
	log "github.com/sirupsen/logrus"

	"dotabet/domain/entities"
)

const outcomeSubjectPrefix = "dotabet.outcomes."

// NATSOutcomeSink mirrors every bet outcome onto the message bus for
// downstream consumers (statistics, audit). Subjects are per outcome kind:
// dotabet.outcomes.won, dotabet.outcomes.refunded and so on.
type NATSOutcomeSink struct {
	servers string
	nc      *nats.Conn
}

// NewNATSOutcomeSink creates a sink for the given server list.
func NewNATSOutcomeSink(servers string) *NATSOutcomeSink {
	return &NATSOutcomeSink{servers: servers}
}

// Connect establishes the NATS connection.
func (s *NATSOutcomeSink) Connect() error {
	opts := []nats.Option{
		nats.Name("dotabet"),
		nats.MaxReconnects(10),
		nats.ReconnectWait(2 * time.Second),
		nats.DisconnectErrHandler(func(nc *nats.Conn, err error) {
			if err != nil {
				log.WithError(err).Error("NATS disconnected with error")
			} else {
				log.Warn("NATS disconnected")
			}
		}),
		nats.ReconnectHandler(func(nc *nats.Conn) {
			log.Info("NATS reconnected")
		}),
	}

	nc, err := nats.Connect(s.servers, opts...)
	if err != nil {
		return fmt.Errorf("failed to connect to NATS: %w", err)
	}
	s.nc = nc

	log.WithField("servers", s.servers).Info("Connected to NATS")
	return nil
}

// Enqueue publishes the outcome as JSON.
func (s *NATSOutcomeSink) Enqueue(_ context.Context, outcome entities.Outcome) error {
	payload, err := json.Marshal(outcome)
	if err != nil {
		return fmt.Errorf("failed to marshal outcome: %w", err)
	}

	subject := outcomeSubjectPrefix + string(outcome.Kind)
	if err := s.nc.Publish(subject, payload); err != nil {
		return fmt.Errorf("failed to publish outcome to %s: %w", subject, err)
	}
	return nil
}

// Close drains and closes the connection.
func (s *NATSOutcomeSink) Close() {
	if s.nc != nil {
		if err := s.nc.Drain(); err != nil {
			log.WithError(err).Warn("Failed to drain NATS connection")
		}
	}
}

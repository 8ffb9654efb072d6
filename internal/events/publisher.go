// Package events publishes definition lifecycle notifications over MQTT.
//
// The publisher is the bridge between the definition manager and external
// tooling: every create, delete, move and update is announced on its own
// topic, and a retained registry summary gives late subscribers the
// current catalogue without a rescan.
package events

import (
	"encoding/json"
	"time"

	"github.com/emuforge/emuforge-core/internal/avd"
	"github.com/emuforge/emuforge-core/internal/infrastructure/mqtt"
)

// Broker is the publishing surface the publisher needs. Satisfied by
// *mqtt.Client.
type Broker interface {
	Publish(topic string, payload []byte, qos byte, retained bool) error
}

// Logger interface for optional logging support.
type Logger interface {
	Warn(msg string, args ...any)
}

type noopLogger struct{}

func (noopLogger) Warn(string, ...any) {}

// Publisher announces definition lifecycle events and registry summaries.
type Publisher struct {
	broker Broker
	qos    byte
	logger Logger
}

// NewPublisher creates a publisher sending at the given QoS level.
func NewPublisher(broker Broker, qos byte) *Publisher {
	return &Publisher{
		broker: broker,
		qos:    qos,
		logger: noopLogger{},
	}
}

// SetLogger sets the logger used for publish failures.
func (p *Publisher) SetLogger(logger Logger) {
	if logger != nil {
		p.logger = logger
	}
}

// definitionEventPayload is the JSON body for lifecycle event messages.
type definitionEventPayload struct {
	Name      string `json:"name"`
	Event     string `json:"event"`
	Timestamp string `json:"timestamp"`
}

// DefinitionEvent publishes a single lifecycle event. Failures are
// logged rather than returned: event delivery is best-effort and must
// never fail the lifecycle operation that triggered it.
func (p *Publisher) DefinitionEvent(name, event string) {
	payload, err := json.Marshal(definitionEventPayload{
		Name:      name,
		Event:     event,
		Timestamp: time.Now().UTC().Format(time.RFC3339),
	})
	if err != nil {
		p.logger.Warn("marshalling definition event", "name", name, "event", event, "error", err)
		return
	}

	topic := mqtt.Topics{}.DefinitionEvent(name, event)
	if err := p.broker.Publish(topic, payload, p.qos, false); err != nil {
		p.logger.Warn("publishing definition event", "topic", topic, "error", err)
	}
}

// summaryEntry is one definition in the registry summary.
type summaryEntry struct {
	Name   string `json:"name"`
	Status string `json:"status"`
}

// summaryPayload is the JSON body for registry summary messages.
type summaryPayload struct {
	Total       int            `json:"total"`
	Valid       int            `json:"valid"`
	Broken      int            `json:"broken"`
	Definitions []summaryEntry `json:"definitions"`
	Timestamp   string         `json:"timestamp"`
}

// PublishSummary publishes a retained snapshot of the registry so new
// subscribers see the current catalogue immediately.
func (p *Publisher) PublishSummary(infos []avd.Info) error {
	summary := summaryPayload{
		Definitions: make([]summaryEntry, 0, len(infos)),
		Timestamp:   time.Now().UTC().Format(time.RFC3339),
	}

	for _, info := range infos {
		summary.Total++
		if info.Status() == avd.StatusOK {
			summary.Valid++
		} else {
			summary.Broken++
		}
		summary.Definitions = append(summary.Definitions, summaryEntry{
			Name:   info.Name(),
			Status: info.Status().String(),
		})
	}

	payload, err := json.Marshal(summary)
	if err != nil {
		return err
	}

	return p.broker.Publish(mqtt.Topics{}.RegistrySummary(), payload, p.qos, true)
}

package events

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"
	"sync"
	"time"

	"agentedigitalapi/pkg/logger"

	"github.com/nats-io/nats.go"
)

// Subjects published by the API. The configured prefix is prepended.
const (
	SubjectIncidentCreated = "incidente.creado"
	SubjectIncidentDeleted = "incidente.eliminado"
	SubjectIncidentAnci    = "incidente.anci_transformado"
	SubjectReportGenerated = "informe_anci.generado"
	SubjectDeadlineOverdue = "plazo.vencido"
)

// Publisher emits domain events.
type Publisher interface {
	Publish(ctx context.Context, subject string, payload interface{}) error
	Close()
}

// Envelope wraps every payload on the wire.
type Envelope struct {
	Subject   string      `json:"subject"`
	Timestamp time.Time   `json:"timestamp"`
	Data      interface{} `json:"data"`
}

type natsPublisher struct {
	nc     *nats.Conn
	prefix string
}

// NewNATSPublisher connects to url. The connection retries in the background
// after the first successful connect.
func NewNATSPublisher(url, prefix string) (Publisher, error) {
	nc, err := nats.Connect(url,
		nats.Name("agentedigital-api"),
		nats.MaxReconnects(-1),
		nats.ReconnectWait(2*time.Second),
		nats.DisconnectErrHandler(func(_ *nats.Conn, err error) {
			if err != nil {
				logger.Warnf("NATS disconnected: %v", err)
			}
		}),
		nats.ReconnectHandler(func(c *nats.Conn) {
			logger.Infof("NATS reconnected to %s", c.ConnectedUrl())
		}),
	)
	if err != nil {
		return nil, fmt.Errorf("connect to NATS %s: %w", url, err)
	}
	logger.Infof("NATS publisher connected to %s", nc.ConnectedUrl())
	return &natsPublisher{nc: nc, prefix: prefix}, nil
}

func (p *natsPublisher) Publish(ctx context.Context, subject string, payload interface{}) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	full := qualify(p.prefix, subject)
	data, err := json.Marshal(Envelope{Subject: full, Timestamp: time.Now(), Data: payload})
	if err != nil {
		return fmt.Errorf("marshal event %s: %w", full, err)
	}
	if err := p.nc.Publish(full, data); err != nil {
		return fmt.Errorf("publish %s: %w", full, err)
	}
	logger.Debugf("Published event %s (%d bytes)", full, len(data))
	return nil
}

func (p *natsPublisher) Close() {
	if err := p.nc.Drain(); err != nil {
		logger.Warnf("NATS drain failed: %v", err)
		p.nc.Close()
	}
}

// LogPublisher only logs events. Used when no broker is configured.
type LogPublisher struct {
	prefix string
}

// NewLogPublisher creates a publisher that logs events and keeps nothing.
func NewLogPublisher(prefix string) *LogPublisher {
	return &LogPublisher{prefix: prefix}
}

func (p *LogPublisher) Publish(ctx context.Context, subject string, payload interface{}) error {
	logger.Debugf("Event %s (no broker configured)", qualify(p.prefix, subject))
	return nil
}

func (p *LogPublisher) Close() {}

// Recorder keeps published events in memory so tests can inspect them.
type Recorder struct {
	prefix string
	mu     sync.Mutex
	events []Envelope
}

// NewRecorder creates an in-memory publisher.
func NewRecorder(prefix string) *Recorder {
	return &Recorder{prefix: prefix}
}

func (r *Recorder) Publish(ctx context.Context, subject string, payload interface{}) error {
	full := qualify(r.prefix, subject)
	r.mu.Lock()
	r.events = append(r.events, Envelope{Subject: full, Timestamp: time.Now(), Data: payload})
	r.mu.Unlock()
	return nil
}

func (r *Recorder) Close() {}

// Events returns a copy of everything published so far.
func (r *Recorder) Events() []Envelope {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([]Envelope, len(r.events))
	copy(out, r.events)
	return out
}

func qualify(prefix, subject string) string {
	prefix = strings.TrimSuffix(prefix, ".")
	if prefix == "" {
		return subject
	}
	return prefix + "." + subject
}

var (
	defaultMu  sync.RWMutex
	defaultPub Publisher = NewLogPublisher("")
)

// SetDefault replaces the process-wide publisher.
func SetDefault(p Publisher) {
	if p == nil {
		return
	}
	defaultMu.Lock()
	defaultPub = p
	defaultMu.Unlock()
}

// Default returns the process-wide publisher.
func Default() Publisher {
	defaultMu.RLock()
	defer defaultMu.RUnlock()
	return defaultPub
}

// Emit publishes on the default publisher. Failures are logged, not returned.
func Emit(ctx context.Context, subject string, payload interface{}) {
	if err := Default().Publish(ctx, subject, payload); err != nil {
		logger.Warnf("Failed to publish event %s: %v", subject, err)
	}
}

// Setup installs a NATS publisher when url is set, otherwise a log publisher.
func Setup(url, prefix string) Publisher {
	if url == "" {
		p := NewLogPublisher(prefix)
		SetDefault(p)
		logger.Infof("NATS_URL not set, domain events are logged only")
		return p
	}
	p, err := NewNATSPublisher(url, prefix)
	if err != nil {
		logger.Warnf("Falling back to log publisher: %v", err)
		lp := NewLogPublisher(prefix)
		SetDefault(lp)
		return lp
	}
	SetDefault(p)
	return p
}

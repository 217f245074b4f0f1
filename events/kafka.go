package events

import (
	"context"
	"encoding/json"
	"fmt"
	"sync"
	"time"

	kafkago "github.com/segmentio/kafka-go"
	"github.com/segmentio/kafka-go/sasl"
	"github.com/segmentio/kafka-go/sasl/plain"
	"github.com/segmentio/kafka-go/sasl/scram"

	"github.com/kbukum/resultkit/logger"
	"github.com/kbukum/resultkit/resilience"
	"github.com/kbukum/resultkit/security"
)

// KafkaConfig configures the Kafka event publisher.
type KafkaConfig struct {
	Enabled      bool     `yaml:"enabled" mapstructure:"enabled"`
	Brokers      []string `yaml:"brokers" mapstructure:"brokers"`
	Topic        string   `yaml:"topic" mapstructure:"topic"`
	Compression  string   `yaml:"compression" mapstructure:"compression"` // none, gzip, snappy, lz4, zstd
	Retries      int      `yaml:"retries" mapstructure:"retries"`
	BatchSize    int      `yaml:"batch_size" mapstructure:"batch_size"`
	BatchTimeout string   `yaml:"batch_timeout" mapstructure:"batch_timeout"`
	WriteTimeout string   `yaml:"write_timeout" mapstructure:"write_timeout"`
	RequiredAcks int      `yaml:"required_acks" mapstructure:"required_acks"`

	EnableSASL    bool   `yaml:"enable_sasl" mapstructure:"enable_sasl"`
	SASLMechanism string `yaml:"sasl_mechanism" mapstructure:"sasl_mechanism"` // PLAIN, SCRAM-SHA-256, SCRAM-SHA-512
	Username      string `yaml:"username" mapstructure:"username"`
	Password      string `yaml:"password" mapstructure:"password"`

	TLS security.TLSConfig `yaml:"tls" mapstructure:"tls"`
}

// ApplyDefaults sets defaults for zero-valued fields.
func (c *KafkaConfig) ApplyDefaults() {
	if len(c.Brokers) == 0 {
		c.Brokers = []string{"localhost:9092"}
	}
	if c.Topic == "" {
		c.Topic = "result-events"
	}
	if c.Compression == "" {
		c.Compression = "snappy"
	}
	if c.Retries <= 0 {
		c.Retries = 3
	}
	if c.BatchSize <= 0 {
		c.BatchSize = 100
	}
	if c.BatchTimeout == "" {
		c.BatchTimeout = "1s"
	}
	if c.WriteTimeout == "" {
		c.WriteTimeout = "10s"
	}
	if c.RequiredAcks == 0 {
		c.RequiredAcks = -1 // all replicas
	}
	if c.SASLMechanism == "" && c.EnableSASL {
		c.SASLMechanism = "PLAIN"
	}
}

// Validate checks the config when the publisher is enabled.
func (c *KafkaConfig) Validate() error {
	if !c.Enabled {
		return nil
	}
	if len(c.Brokers) == 0 {
		return fmt.Errorf("events.kafka.brokers are required")
	}
	if c.Topic == "" {
		return fmt.Errorf("events.kafka.topic is required")
	}
	for _, d := range []struct{ name, val string }{
		{"batch_timeout", c.BatchTimeout},
		{"write_timeout", c.WriteTimeout},
	} {
		if _, err := time.ParseDuration(d.val); err != nil {
			return fmt.Errorf("invalid events.kafka.%s %q: %w", d.name, d.val, err)
		}
	}
	if err := c.TLS.Validate(); err != nil {
		return fmt.Errorf("events.kafka.%w", err)
	}
	if c.EnableSASL {
		if _, err := saslMechanism(c); err != nil {
			return err
		}
		if c.Username == "" {
			return fmt.Errorf("events.kafka.username is required with SASL")
		}
	}
	return nil
}

// MessageWriter is the subset of *kafka.Writer the publisher needs.
type MessageWriter interface {
	WriteMessages(ctx context.Context, msgs ...kafkago.Message) error
	Close() error
}

// KafkaPublisher writes events as JSON to a Kafka topic, keyed by event name.
type KafkaPublisher struct {
	writer  MessageWriter
	topic   string
	retry   resilience.RetryConfig
	breaker *resilience.Breaker
	log     *logger.Logger
	mu      sync.RWMutex
	closed  bool
}

// NewKafkaPublisher creates a publisher backed by a kafka-go Writer.
func NewKafkaPublisher(cfg KafkaConfig, log *logger.Logger) (*KafkaPublisher, error) {
	cfg.ApplyDefaults()
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("kafka publisher config: %w", err)
	}
	if !cfg.Enabled {
		return nil, fmt.Errorf("kafka publisher is disabled")
	}
	if log == nil {
		log = logger.GetGlobalLogger()
	}
	log = log.WithComponent("events.kafka")

	transport := &kafkago.Transport{}
	if cfg.EnableSASL {
		m, err := saslMechanism(&cfg)
		if err != nil {
			return nil, err
		}
		transport.SASL = m
	}
	tlsCfg, err := cfg.TLS.Client()
	if err != nil {
		return nil, fmt.Errorf("kafka publisher tls: %w", err)
	}
	transport.TLS = tlsCfg

	batchTimeout, _ := time.ParseDuration(cfg.BatchTimeout)
	writeTimeout, _ := time.ParseDuration(cfg.WriteTimeout)
	w := &kafkago.Writer{
		Addr:         kafkago.TCP(cfg.Brokers...),
		Topic:        cfg.Topic,
		Transport:    transport,
		Balancer:     &kafkago.Hash{},
		BatchSize:    cfg.BatchSize,
		BatchTimeout: batchTimeout,
		WriteTimeout: writeTimeout,
		RequiredAcks: kafkago.RequiredAcks(cfg.RequiredAcks),
		Compression:  compression(cfg.Compression),
		ErrorLogger: kafkago.LoggerFunc(func(msg string, args ...interface{}) {
			log.Error("writer: "+fmt.Sprintf(msg, args...))
		}),
	}

	log.Info("Kafka event publisher initialized", logger.Fields(
		"brokers", cfg.Brokers,
		"topic", cfg.Topic,
	))
	return NewKafkaPublisherWithWriter(w, cfg.Topic, cfg.Retries, log), nil
}

// NewKafkaPublisherWithWriter creates a publisher over an existing writer.
// The writer must already target topic.
func NewKafkaPublisherWithWriter(w MessageWriter, topic string, retries int, log *logger.Logger) *KafkaPublisher {
	if retries <= 0 {
		retries = 1
	}
	if log == nil {
		log = logger.GetGlobalLogger()
	}
	breaker := resilience.NewBreaker(resilience.BreakerConfig{
		Name:        "kafka:" + topic,
		MaxFailures: 5,
		CoolDown:    30 * time.Second,
		OnStateChange: func(name string, from, to resilience.State) {
			log.Warn("Kafka circuit state changed", logger.Fields(
				"circuit", name,
				"from", from.String(),
				"to", to.String(),
			))
		},
	})
	return &KafkaPublisher{
		writer: w,
		topic:  topic,
		retry: resilience.RetryConfig{
			MaxAttempts:    retries,
			InitialBackoff: 100 * time.Millisecond,
			MaxBackoff:     time.Second,
			BackoffFactor:  2.0,
		},
		breaker: breaker,
		log:     log,
	}
}

// Publish encodes e and writes it, retrying with exponential backoff. After
// repeated failed publishes the circuit opens and Publish fails fast with
// resilience.ErrCircuitOpen until the cool-down ends.
func (p *KafkaPublisher) Publish(ctx context.Context, e Event) error {
	p.mu.RLock()
	closed := p.closed
	p.mu.RUnlock()
	if closed {
		return fmt.Errorf("kafka publisher is closed")
	}

	data, err := json.Marshal(e)
	if err != nil {
		return fmt.Errorf("marshal event %s: %w", e.Name, err)
	}
	msg := kafkago.Message{
		Key:   []byte(e.Name),
		Value: data,
		Time:  e.OccurredAt,
		Headers: []kafkago.Header{
			{Key: "content-type", Value: []byte("application/json")},
			{Key: "event-id", Value: []byte(e.ID)},
		},
	}

	err = p.breaker.Execute(func() error {
		return resilience.RetryFunc(ctx, p.retry, func() error {
			return p.writer.WriteMessages(ctx, msg)
		})
	})
	if err != nil {
		return fmt.Errorf("publish %s to %s: %w", e.Name, p.topic, err)
	}
	return nil
}

// CircuitState reports whether the publisher is currently failing fast.
func (p *KafkaPublisher) CircuitState() resilience.State {
	return p.breaker.State()
}

// Close flushes and closes the writer. Safe to call multiple times.
func (p *KafkaPublisher) Close() error {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.closed {
		return nil
	}
	p.closed = true
	p.log.Info("Kafka event publisher closing")
	return p.writer.Close()
}

func saslMechanism(cfg *KafkaConfig) (sasl.Mechanism, error) {
	switch cfg.SASLMechanism {
	case "PLAIN":
		return plain.Mechanism{Username: cfg.Username, Password: cfg.Password}, nil
	case "SCRAM-SHA-256":
		return scram.Mechanism(scram.SHA256, cfg.Username, cfg.Password)
	case "SCRAM-SHA-512":
		return scram.Mechanism(scram.SHA512, cfg.Username, cfg.Password)
	default:
		return nil, fmt.Errorf("unsupported SASL mechanism: %s", cfg.SASLMechanism)
	}
}

func compression(name string) kafkago.Compression {
	switch name {
	case "gzip":
		return kafkago.Gzip
	case "lz4":
		return kafkago.Lz4
	case "zstd":
		return kafkago.Zstd
	case "none":
		return 0
	default:
		return kafkago.Snappy
	}
}

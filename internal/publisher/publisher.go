package publisher

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/ravkun27/nftix/internal/mintflow"
	"github.com/ravkun27/nftix/pkg/kafka"
	"github.com/ravkun27/nftix/pkg/logger"
	"github.com/ravkun27/nftix/pkg/retry"
)

const (
	EventTypeTicketMinted = "ticket.minted"
	defaultTopic          = "ticket.minted"
	sourceName            = "nftix"
)

// TicketMinted is the payload announced after a confirmed mint
type TicketMinted struct {
	ID         string    `json:"id"`
	Type       string    `json:"type"`
	EventID    string    `json:"eventId"`
	TokenID    string    `json:"tokenId"`
	TxHash     string    `json:"txHash"`
	Owner      string    `json:"owner"`
	MintedAt   time.Time `json:"mintedAt"`
	OccurredAt time.Time `json:"occurredAt"`
}

// Key partitions records by owner so one wallet's tickets stay ordered
func (e *TicketMinted) Key() string {
	return e.Owner
}

// NewTicketMinted builds the announcement for a receipt
func NewTicketMinted(r *mintflow.Receipt) *TicketMinted {
	return &TicketMinted{
		ID:         uuid.New().String(),
		Type:       EventTypeTicketMinted,
		EventID:    r.EventID,
		TokenID:    r.TokenID,
		TxHash:     r.TxHash,
		Owner:      r.Owner,
		MintedAt:   r.MintedAt,
		OccurredAt: time.Now().UTC(),
	}
}

// Publisher announces minted tickets
type Publisher interface {
	PublishTicketMinted(ctx context.Context, r *mintflow.Receipt) error
	Close() error
}

// producer is the subset of kafka.Producer used here
type producer interface {
	Produce(ctx context.Context, msg *kafka.Message) error
	Close()
}

// KafkaPublisher implements Publisher on a Kafka topic
type KafkaPublisher struct {
	producer producer
	topic    string
	policy   retry.Policy
	log      *logger.Logger
}

// Config contains configuration for the Kafka publisher
type Config struct {
	Brokers  []string
	Topic    string
	ClientID string
}

// NewKafkaPublisher connects a producer and returns a publisher on it
func NewKafkaPublisher(ctx context.Context, cfg *Config, log *logger.Logger) (*KafkaPublisher, error) {
	if cfg == nil {
		return nil, fmt.Errorf("publisher config is required")
	}

	clientID := cfg.ClientID
	if clientID == "" {
		clientID = "nftix-producer"
	}

	p, err := kafka.NewProducer(ctx, &kafka.ProducerConfig{
		Brokers:       cfg.Brokers,
		ClientID:      clientID,
		MaxRetries:    3,
		RetryInterval: 2 * time.Second,
		BatchSize:     100,
		LingerMs:      10,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create kafka producer: %w", err)
	}

	return newKafkaPublisher(p, cfg.Topic, log), nil
}

func newKafkaPublisher(p producer, topic string, log *logger.Logger) *KafkaPublisher {
	if topic == "" {
		topic = defaultTopic
	}
	if log == nil {
		log = logger.Nop()
	}
	return &KafkaPublisher{
		producer: p,
		topic:    topic,
		policy:   retry.DefaultPolicy(),
		log:      log.Named("publisher"),
	}
}

// PublishTicketMinted writes a ticket.minted record, retrying transient failures
func (p *KafkaPublisher) PublishTicketMinted(ctx context.Context, r *mintflow.Receipt) error {
	event := NewTicketMinted(r)

	value, err := json.Marshal(event)
	if err != nil {
		return fmt.Errorf("failed to marshal event: %w", err)
	}

	msg := &kafka.Message{
		Topic: p.topic,
		Key:   []byte(event.Key()),
		Value: value,
		Headers: map[string]string{
			"event_type":   event.Type,
			"event_id":     event.ID,
			"source":       sourceName,
			"content_type": "application/json",
		},
		Timestamp: event.OccurredAt,
	}

	err = retry.Do(ctx, p.policy, func(ctx context.Context) error {
		return p.producer.Produce(ctx, msg)
	}, func(try int, err error, wait time.Duration) {
		p.log.Warn("publish failed, retrying",
			zap.String("topic", p.topic),
			zap.Int("attempt", try),
			zap.Error(err),
		)
	})
	if err != nil {
		return fmt.Errorf("failed to publish %s event: %w", event.Type, err)
	}
	return nil
}

// Close closes the producer
func (p *KafkaPublisher) Close() error {
	if p.producer != nil {
		p.producer.Close()
	}
	return nil
}

// NoOpPublisher drops every event
type NoOpPublisher struct{}

// NewNoOpPublisher creates a NoOpPublisher
func NewNoOpPublisher() *NoOpPublisher {
	return &NoOpPublisher{}
}

// PublishTicketMinted is a no-op
func (p *NoOpPublisher) PublishTicketMinted(ctx context.Context, r *mintflow.Receipt) error {
	return nil
}

// Close is a no-op
func (p *NoOpPublisher) Close() error {
	return nil
}

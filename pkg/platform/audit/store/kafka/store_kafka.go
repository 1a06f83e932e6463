// Package kafka publishes audit events to a Kafka topic. Kafka is the source
// of truth for audit history in deployments that configure brokers; tests and
// single-node setups use the memory store instead.
package kafka

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/twmb/franz-go/pkg/kadm"
	"github.com/twmb/franz-go/pkg/kgo"

	audit "github.com/Loxfxgc/life-drop/pkg/platform/audit"
)

const defaultTopic = "lifedrop.audit"

// Store implements audit.Store on top of a franz-go producer.
type Store struct {
	client *kgo.Client
	topic  string
}

// payload is the JSON structure written to the topic.
type payload struct {
	Timestamp string `json:"timestamp"`
	UserID    string `json:"user_id,omitempty"`
	Action    string `json:"action"`
	Subject   string `json:"subject,omitempty"`
	Reason    string `json:"reason,omitempty"`
	RequestID string `json:"request_id,omitempty"`
	Device    string `json:"device,omitempty"`
	ActorID   string `json:"actor_id,omitempty"`
}

// Option configures the store.
type Option func(*Store)

// WithTopic overrides the audit topic name.
func WithTopic(topic string) Option {
	return func(s *Store) { s.topic = topic }
}

// New connects to the given brokers and ensures the audit topic exists.
func New(ctx context.Context, brokers []string, opts ...Option) (*Store, error) {
	client, err := kgo.NewClient(
		kgo.SeedBrokers(brokers...),
		kgo.ProducerBatchCompression(kgo.SnappyCompression()),
	)
	if err != nil {
		return nil, fmt.Errorf("create kafka client: %w", err)
	}

	s := &Store{client: client, topic: defaultTopic}
	for _, opt := range opts {
		opt(s)
	}

	if err := s.ensureTopic(ctx); err != nil {
		client.Close()
		return nil, err
	}
	return s, nil
}

// ensureTopic creates the audit topic when it is missing. Partition and
// replication defaults suit a single-broker development setup; production
// clusters pre-provision the topic.
func (s *Store) ensureTopic(ctx context.Context) error {
	adm := kadm.NewClient(s.client)
	details, err := adm.ListTopics(ctx, s.topic)
	if err != nil {
		return fmt.Errorf("list topics: %w", err)
	}
	if details.Has(s.topic) {
		return nil
	}
	if _, err := adm.CreateTopic(ctx, 1, 1, nil, s.topic); err != nil {
		return fmt.Errorf("create topic %s: %w", s.topic, err)
	}
	return nil
}

// Append produces the event and waits for the broker ack.
func (s *Store) Append(ctx context.Context, event audit.Event) error {
	body, err := json.Marshal(payload{
		Timestamp: event.Timestamp.Format(time.RFC3339Nano),
		UserID:    event.UserID,
		Action:    event.Action,
		Subject:   event.Subject,
		Reason:    event.Reason,
		RequestID: event.RequestID,
		Device:    event.Device,
		ActorID:   event.ActorID,
	})
	if err != nil {
		return fmt.Errorf("marshal audit payload: %w", err)
	}

	record := &kgo.Record{
		Topic: s.topic,
		Key:   []byte(event.UserID),
		Value: body,
	}
	if err := s.client.ProduceSync(ctx, record).FirstErr(); err != nil {
		return fmt.Errorf("produce audit event: %w", err)
	}
	return nil
}

// Close flushes pending records and releases the client.
func (s *Store) Close() {
	s.client.Close()
}

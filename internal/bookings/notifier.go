package bookings

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"cinetix/internal/pricing"
	"cinetix/pkg/logger"

	"github.com/IBM/sarama"
)

// Notifier publishes booking confirmations to downstream consumers (ticket
// email delivery, analytics). Publishing happens after the commit; a publish
// failure never rolls a booking back.
type Notifier interface {
	PublishBookingConfirmed(ctx context.Context, bill *Bill) error
	Close() error
}

// KafkaProducerConfig contains configuration for the Kafka booking notifier.
type KafkaProducerConfig struct {
	Brokers          []string
	ConfirmedTopic   string
	RetryMax         int
	TimeoutMs        int
	RequiredAcks     sarama.RequiredAcks
	CompressionType  sarama.CompressionCodec
	IdempotentWrites bool
	MaxMessageBytes  int
}

// DefaultKafkaProducerConfig returns a default producer configuration.
func DefaultKafkaProducerConfig() *KafkaProducerConfig {
	return &KafkaProducerConfig{
		Brokers:          []string{"localhost:9092"},
		ConfirmedTopic:   "booking-confirmed",
		RetryMax:         3,
		TimeoutMs:        10000,
		RequiredAcks:     sarama.WaitForAll,
		CompressionType:  sarama.CompressionSnappy,
		IdempotentWrites: true,
		MaxMessageBytes:  1000000,
	}
}

// BookingConfirmedEvent is the wire payload published for every committed
// booking, keyed by customer so one customer's bookings stay ordered.
type BookingConfirmedEvent struct {
	BillID      string        `json:"bill_id"`
	CustomerID  string        `json:"customer_id"`
	ShowtimeID  string        `json:"showtime_id"`
	Seats       []string      `json:"seats"`
	Total       pricing.Money `json:"total"`
	VoucherCode string        `json:"voucher_code,omitempty"`
	Gift        string        `json:"gift,omitempty"`
	BookedAt    time.Time     `json:"booked_at"`
}

// KafkaBookingNotifier publishes booking confirmations to Kafka.
type KafkaBookingNotifier struct {
	producer sarama.SyncProducer
	config   *KafkaProducerConfig
}

// NewKafkaBookingNotifier creates a Kafka-backed booking notifier.
func NewKafkaBookingNotifier(config *KafkaProducerConfig) (*KafkaBookingNotifier, error) {
	saramaConfig := sarama.NewConfig()

	saramaConfig.Producer.Return.Successes = true
	saramaConfig.Producer.Return.Errors = true
	saramaConfig.Producer.RequiredAcks = config.RequiredAcks
	saramaConfig.Producer.Compression = config.CompressionType
	saramaConfig.Producer.Retry.Max = config.RetryMax
	saramaConfig.Producer.Timeout = time.Duration(config.TimeoutMs) * time.Millisecond
	saramaConfig.Producer.Idempotent = config.IdempotentWrites
	saramaConfig.Producer.MaxMessageBytes = config.MaxMessageBytes

	if config.IdempotentWrites {
		saramaConfig.Net.MaxOpenRequests = 1
	}

	// Hash partitioner keeps each customer's confirmations on one partition.
	saramaConfig.Producer.Partitioner = sarama.NewHashPartitioner

	producer, err := sarama.NewSyncProducer(config.Brokers, saramaConfig)
	if err != nil {
		return nil, fmt.Errorf("failed to create Kafka producer: %w", err)
	}

	return &KafkaBookingNotifier{producer: producer, config: config}, nil
}

// PublishBookingConfirmed publishes one confirmation event for a committed bill.
func (n *KafkaBookingNotifier) PublishBookingConfirmed(ctx context.Context, bill *Bill) error {
	seatLabels := make([]string, 0, len(bill.Tickets))
	for _, t := range bill.Tickets {
		seatLabels = append(seatLabels, t.Seat().String())
	}

	event := BookingConfirmedEvent{
		BillID:      bill.ID.String(),
		CustomerID:  bill.CustomerID,
		ShowtimeID:  bill.ShowtimeID.String(),
		Seats:       seatLabels,
		Total:       bill.Total,
		VoucherCode: bill.VoucherCode,
		Gift:        bill.Gift,
		BookedAt:    bill.CreatedAt,
	}

	payload, err := json.Marshal(event)
	if err != nil {
		return fmt.Errorf("failed to marshal booking event: %w", err)
	}

	message := &sarama.ProducerMessage{
		Topic: n.config.ConfirmedTopic,
		Key:   sarama.StringEncoder(bill.CustomerID),
		Value: sarama.ByteEncoder(payload),
		Headers: []sarama.RecordHeader{
			{Key: []byte("bill_id"), Value: []byte(bill.ID.String())},
			{Key: []byte("showtime_id"), Value: []byte(bill.ShowtimeID.String())},
			{Key: []byte("created_at"), Value: []byte(bill.CreatedAt.Format(time.RFC3339))},
		},
		Timestamp: bill.CreatedAt,
	}

	partition, offset, err := n.producer.SendMessage(message)
	if err != nil {
		return fmt.Errorf("failed to publish booking confirmation: %w", err)
	}

	logger.GetDefault().Debug("booking confirmation published",
		"topic", n.config.ConfirmedTopic, "partition", partition, "offset", offset,
		"bill_id", bill.ID)
	return nil
}

// Close closes the underlying producer.
func (n *KafkaBookingNotifier) Close() error {
	if n.producer != nil {
		if err := n.producer.Close(); err != nil {
			return fmt.Errorf("failed to close Kafka producer: %w", err)
		}
	}
	return nil
}

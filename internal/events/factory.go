package events

import "fmt"

// NewFromBackend picks the publisher for EVENTS_BACKEND.
func NewFromBackend(backend string, kafkaBrokers []string, amqpURL string) (Publisher, error) {
	switch backend {
	case "", "none":
		return NopPublisher{}, nil
	case "kafka":
		return NewKafkaPublisher(kafkaBrokers)
	case "rabbitmq":
		return NewRabbitPublisher(amqpURL)
	default:
		return nil, fmt.Errorf("events: unknown backend %q", backend)
	}
}

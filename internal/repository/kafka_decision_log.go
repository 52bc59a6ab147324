package repository

import (
	"context"
	"fmt"
	"strconv"

	"RentRate/internal/domain/models"
	domrepo "RentRate/internal/domain/repository"
	pkgkafka "RentRate/pkg/kafka"
)

// KafkaDecisionLog publishes pricing decisions to a Kafka topic, keyed by
// branch so one branch's decisions stay ordered within a partition.
type KafkaDecisionLog struct {
	producer *pkgkafka.Producer
	topic    string
}

func NewKafkaDecisionLog(producer *pkgkafka.Producer, topic string) *KafkaDecisionLog {
	return &KafkaDecisionLog{producer: producer, topic: topic}
}

func (l *KafkaDecisionLog) PublishDecision(ctx context.Context, res *models.PricingResult) error {
	key := []byte(strconv.FormatInt(res.BranchID, 10))
	if err := l.producer.Publish(ctx, l.topic, key, res); err != nil {
		return fmt.Errorf("publish decision: %w", err)
	}
	return nil
}

var _ domrepo.DecisionPublisher = (*KafkaDecisionLog)(nil)

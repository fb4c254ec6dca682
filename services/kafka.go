package services

import (
	"encoding/json"
	"passkey_auth_ms/config"
	"passkey_auth_ms/dtos/request"

	"github.com/IBM/sarama"
)

// ISecurityEventPublisher emits audit events for the notification service.
// Every publish is best-effort: ceremony state is already committed by the
// time an event is sent, so producers must never fail the ceremony.
type ISecurityEventPublisher interface {
	PublishPasskeyRegistered(event *request.PasskeyRegisteredEvent) error
	PublishPasskeyRevoked(event *request.PasskeyRevokedEvent) error
	PublishPasskeyLogin(event *request.PasskeyLoginEvent) error
}

type KafkaEventPublisher struct {
}

func NewKafkaEventPublisher() ISecurityEventPublisher {
	return &KafkaEventPublisher{}
}

func (k *KafkaEventPublisher) PublishPasskeyRegistered(event *request.PasskeyRegisteredEvent) error {
	return sendToKafka("PasskeyRegisteredEvent", event)
}

func (k *KafkaEventPublisher) PublishPasskeyRevoked(event *request.PasskeyRevokedEvent) error {
	return sendToKafka("PasskeyRevokedEvent", event)
}

func (k *KafkaEventPublisher) PublishPasskeyLogin(event *request.PasskeyLoginEvent) error {
	return sendToKafka("PasskeyLoginEvent", event)
}

func sendToKafka(topic string, event interface{}) error {
	data, err := json.Marshal(event)
	if err != nil {
		return err
	}
	producer, err := sarama.NewSyncProducer(config.Conf.Application.Kafka.Brokers, nil)
	if err != nil {
		return err
	}
	defer producer.Close()

	msg := &sarama.ProducerMessage{
		Topic: topic,
		Value: sarama.StringEncoder(data),
	}
	if _, _, err := producer.SendMessage(msg); err != nil {
		return err
	}
	return nil
}

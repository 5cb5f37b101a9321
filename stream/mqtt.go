package stream

import (
	"errors"
	"log/slog"
	"time"

	mqtt "github.com/eclipse/paho.mqtt.golang"
)

// ErrPublishTimeout is returned when the broker does not acknowledge a
// publish in time.
var ErrPublishTimeout = errors.New("timed out waiting for publish")

// MqttPublisher publishes over a paho client.
type MqttPublisher struct {
	client  mqtt.Client
	qos     byte
	timeout time.Duration
}

// NewMqttPublisher creates a Publisher for client.
func NewMqttPublisher(client mqtt.Client, qos byte) *MqttPublisher {
	p := new(MqttPublisher)
	p.client = client
	p.qos = qos
	p.timeout = 5 * time.Second
	return p
}

// Publish sends payload and waits for the broker.
func (p *MqttPublisher) Publish(topic string, payload []byte) error {
	token := p.client.Publish(topic, p.qos, false, payload)
	if !token.WaitTimeout(p.timeout) {
		return ErrPublishTimeout
	}
	return token.Error()
}

// CommandSubscriber feeds commands received on the events topic to a
// Controller.
type CommandSubscriber struct {
	client     mqtt.Client
	topic      string
	controller *Controller
	logger     *slog.Logger
}

// NewCommandSubscriber creates a CommandSubscriber.
func NewCommandSubscriber(client mqtt.Client, topic string, controller *Controller, logger *slog.Logger) *CommandSubscriber {
	s := new(CommandSubscriber)
	s.client = client
	s.topic = topic
	s.controller = controller
	s.logger = logger
	if s.logger == nil {
		s.logger = slog.Default()
	}
	return s
}

func (s *CommandSubscriber) handleMessage(client mqtt.Client, msg mqtt.Message) {
	s.logger.Debug("Received command", "topic", msg.Topic(), "payload", string(msg.Payload()))
	s.handlePayload(msg.Payload())
}

func (s *CommandSubscriber) handlePayload(payload []byte) {
	cmd, err := DecodeCommand(payload)
	if err != nil {
		s.logger.Warn("Ignoring command", "error", err)
		return
	}
	if err := s.controller.Submit(cmd); err != nil {
		s.logger.Warn("Dropping command", "type", cmd.Type, "error", err)
	}
}

// Subscribe registers for commands. Call it from the client's OnConnect
// handler so the subscription survives reconnects.
func (s *CommandSubscriber) Subscribe() error {
	token := s.client.Subscribe(s.topic, 1, s.handleMessage)
	token.Wait()
	if err := token.Error(); err != nil {
		return err
	}
	s.logger.Info("Subscribed", "topic", s.topic)
	return nil
}

package controllers

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	mqtt "github.com/eclipse/paho.mqtt.golang"
	log "github.com/sirupsen/logrus"
	"gorm.io/gorm"
)

// Command is the payload accepted on the command topic.
type Command struct {
	Action string `json:"action"`
	ID     string `json:"id,omitempty"`
	// Status overrides the status the toggle direction is computed from.
	Status string `json:"status,omitempty"`
}

var ErrUnknownGuest = errors.New("unknown guest")

// MQTTSubscriber turns messages on the command topic into Refresh and Toggle calls.
type MQTTSubscriber struct {
	name       string
	manager    *Manager
	topic      string
	brokerURL  string
	username   string
	password   string
	retryDelay time.Duration
}

func NewMQTTSubscriber(name, brokerURL, topic, username, password string) *MQTTSubscriber {
	return &MQTTSubscriber{
		name:       name,
		topic:      topic,
		brokerURL:  brokerURL,
		username:   username,
		password:   password,
		retryDelay: 10 * time.Second,
	}
}

func (s *MQTTSubscriber) Setup(db *gorm.DB, manager *Manager) {
	s.manager = manager
}

func (s *MQTTSubscriber) String() string {
	return fmt.Sprintf("MQTTSubscriber[topic=%s]", s.topic)
}

func (s *MQTTSubscriber) Main(ctx context.Context) {
	opts := newClientOptions(s.brokerURL, s.username, s.password, "proxpeek-sub")
	opts.OnConnect = func(client mqtt.Client) {
		// Clean sessions lose subscriptions on reconnect.
		token := client.Subscribe(s.topic, 1, func(client mqtt.Client, msg mqtt.Message) {
			if err := s.handle(msg.Payload()); err != nil {
				log.Errorf("Rejected command on %s: %v", msg.Topic(), err)
			}
		})
		if token.Wait() && token.Error() != nil {
			log.Errorf("Failed to subscribe to topic: %v", token.Error())
			return
		}
		log.Infof("Successfully subscribed to topic: %s", s.topic)
	}
	client, ok := connectToMqttBroker(ctx, opts, s.retryDelay)
	if !ok {
		return
	}

	<-ctx.Done()
	log.Infof("MQTTSubscriber stopping...")
	if token := client.Unsubscribe(s.topic); token.Wait() && token.Error() != nil {
		log.Warnf("Failed to unsubscribe from topic: %v", token.Error())
	}
	client.Disconnect(250)
}

// handle parses and dispatches one command. It does not wait for the
// resulting operation.
func (s *MQTTSubscriber) handle(payload []byte) error {
	var cmd Command
	if err := json.Unmarshal(payload, &cmd); err != nil {
		return fmt.Errorf("invalid command payload: %w", err)
	}
	_, err := dispatch(s.manager, cmd)
	return err
}

func dispatch(manager *Manager, cmd Command) (*Operation, error) {
	switch cmd.Action {
	case "refresh":
		return manager.Refresh(), nil
	case "toggle":
		vm, ok := manager.Find(cmd.ID)
		if !ok {
			return nil, fmt.Errorf("%w: %q", ErrUnknownGuest, cmd.ID)
		}
		status := vm.Status
		if cmd.Status != "" {
			status = cmd.Status
		}
		return manager.Toggle(vm.ID, status, vm.Type), nil
	}
	return nil, fmt.Errorf("unknown action %q", cmd.Action)
}

var _ Task = (*MQTTSubscriber)(nil)
var _ Task = (*MqttPublisher)(nil)

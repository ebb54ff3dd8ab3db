package controllers

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	mqtt "github.com/eclipse/paho.mqtt.golang"
	log "github.com/sirupsen/logrus"
	"gorm.io/gorm"
)

// MqttPublisher publishes a retained JSON snapshot of the guest state every
// time it changes.
type MqttPublisher struct {
	name       string
	manager    *Manager
	client     mqtt.Client
	topic      string
	brokerURL  string
	username   string
	password   string
	retryDelay time.Duration
}

func NewMQTTPublisherTask(name, brokerURL, topic, username, password string) *MqttPublisher {
	return &MqttPublisher{
		name:       name,
		topic:      topic,
		brokerURL:  brokerURL,
		username:   username,
		password:   password,
		retryDelay: 5 * time.Second,
	}
}

func (m *MqttPublisher) Setup(db *gorm.DB, manager *Manager) {
	m.manager = manager
}

func (m *MqttPublisher) String() string {
	return m.name
}

func (m *MqttPublisher) Main(ctx context.Context) {
	opts := newClientOptions(m.brokerURL, m.username, m.password, "proxpeek-pub")
	client, ok := connectToMqttBroker(ctx, opts, m.retryDelay)
	if !ok {
		return
	}
	m.client = client
	defer m.client.Disconnect(250)

	updates, cancel := m.manager.Subscribe()
	defer cancel()

	m.publish(m.manager.Snapshot())
	for {
		select {
		case <-ctx.Done():
			log.Infof("Shutting down MQTT publisher...")
			return
		case snap := <-updates:
			m.publish(snap)
		}
	}
}

func statePayload(snap Snapshot) ([]byte, error) {
	return json.Marshal(snap)
}

func (m *MqttPublisher) publish(snap Snapshot) {
	payload, err := statePayload(snap)
	if err != nil {
		log.Errorf("Failed to marshal snapshot %d: %v", snap.Version, err)
		return
	}
	token := m.client.Publish(m.topic, 1, true, payload)
	token.Wait()
	if token.Error() != nil {
		log.Errorf("Failed to publish snapshot %d: %v", snap.Version, token.Error())
		return
	}
	log.Debugf("Published snapshot %d to %s", snap.Version, m.topic)
}

func newClientOptions(brokerURL, username, password, prefix string) *mqtt.ClientOptions {
	opts := mqtt.NewClientOptions()
	opts.AddBroker(brokerURL)
	opts.SetUsername(username)
	opts.SetPassword(password)
	opts.SetClientID(fmt.Sprintf("%s-%d", prefix, time.Now().UnixNano()))
	opts.SetCleanSession(true)
	opts.SetAutoReconnect(true)
	opts.SetKeepAlive(60 * time.Second)
	opts.OnConnectionLost = func(client mqtt.Client, err error) {
		log.Warnf("MQTT connection lost: %v", err)
	}
	return opts
}

// connectToMqttBroker retries until connected or ctx ends.
func connectToMqttBroker(ctx context.Context, opts *mqtt.ClientOptions, retryDelay time.Duration) (mqtt.Client, bool) {
	client := mqtt.NewClient(opts)
	for {
		token := client.Connect()
		if token.Wait() && token.Error() == nil {
			log.Infof("Connected to MQTT broker")
			return client, true
		}
		log.Warnf("Failed to connect to broker: %v. Retrying in %v...", token.Error(), retryDelay)
		select {
		case <-ctx.Done():
			return nil, false
		case <-time.After(retryDelay):
		}
	}
}

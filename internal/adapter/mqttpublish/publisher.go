// Package mqttpublish sends each run's report to an MQTT broker as JSON.
package mqttpublish

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/mtdoughty/check-Mikrotik-OS/internal/domain"

	mqtt "github.com/eclipse/paho.mqtt.golang"
	"github.com/sirupsen/logrus"
)

// client is the subset of mqtt.Client used by the publisher.
type client interface {
	Connect() mqtt.Token
	Publish(topic string, qos byte, retained bool, payload interface{}) mqtt.Token
	Disconnect(quiesce uint)
}

type Publisher struct {
	Config domain.MQTTConfig
	Log    *logrus.Entry

	newClient func(opts *mqtt.ClientOptions) client
}

func New(cfg domain.MQTTConfig, log *logrus.Entry) *Publisher {
	return &Publisher{
		Config: cfg,
		Log:    log,
		newClient: func(opts *mqtt.ClientOptions) client {
			return mqtt.NewClient(opts)
		},
	}
}

// Options builds the paho client options for a run.
func (p *Publisher) Options(runID string) *mqtt.ClientOptions {
	clientID := p.Config.ClientID
	if clientID == "" {
		clientID = "check_mikrotik_os-" + runID
	}
	opts := mqtt.NewClientOptions().
		AddBroker(p.Config.Broker).
		SetClientID(clientID).
		SetConnectTimeout(p.timeout()).
		SetAutoReconnect(false).
		SetConnectRetry(false).
		SetCleanSession(true)
	if p.Config.Username != "" {
		opts.SetUsername(p.Config.Username)
		opts.SetPassword(p.Config.Password)
	}
	return opts
}

// Topic expands the optional "{host}" placeholder in the configured topic.
func (p *Publisher) Topic(report domain.Report) string {
	return expandTopic(p.Config.Topic, report.Host)
}

func (p *Publisher) Publish(ctx context.Context, report domain.Report) error {
	payload, err := json.Marshal(report)
	if err != nil {
		return fmt.Errorf("encode report: %w", err)
	}

	c := p.newClient(p.Options(report.RunID))
	if err := wait(ctx, c.Connect(), p.timeout()); err != nil {
		return fmt.Errorf("connect to %s: %w", p.Config.Broker, err)
	}
	defer c.Disconnect(250)

	topic := p.Topic(report)
	if err := wait(ctx, c.Publish(topic, byte(p.Config.QoS), p.Config.Retain, payload), p.timeout()); err != nil {
		return fmt.Errorf("publish to %s: %w", topic, err)
	}

	p.logger().WithFields(logrus.Fields{"broker": p.Config.Broker, "topic": topic}).Info("Verdict published")
	return nil
}

func wait(ctx context.Context, tok mqtt.Token, timeout time.Duration) error {
	timer := time.NewTimer(timeout)
	defer timer.Stop()

	select {
	case <-tok.Done():
		return tok.Error()
	case <-timer.C:
		return errors.New("timed out")
	case <-ctx.Done():
		return ctx.Err()
	}
}

func (p *Publisher) timeout() time.Duration {
	if p.Config.Timeout > 0 {
		return p.Config.Timeout
	}
	return 5 * time.Second
}

func (p *Publisher) logger() *logrus.Entry {
	if p.Log != nil {
		return p.Log
	}
	return logrus.NewEntry(logrus.StandardLogger())
}

package nt

import (
	"time"

	"github.com/hashicorp/go-hclog"
)

// Option enables variadic option passing to the channel.
type Option func(*Channel)

// WithLogger sets the logger for the channel.
func WithLogger(l hclog.Logger) Option {
	return func(ch *Channel) {
		ch.l = l.Named("nt")
	}
}

// WithTableName overrides the table that keys are written to.
func WithTableName(name string) Option {
	return func(ch *Channel) {
		ch.tableName = name
	}
}

// MQTTOption configures the MQTT backed client.
type MQTTOption func(*MQTTClient)

// WithMQTTLogger sets the logger for the MQTT client.
func WithMQTTLogger(l hclog.Logger) MQTTOption {
	return func(c *MQTTClient) {
		c.l = l.Named("mqtt")
	}
}

// WithClientPrefix sets the prefix of the client ID presented to the
// broker.  A fresh suffix is generated for every session.
func WithClientPrefix(p string) MQTTOption {
	return func(c *MQTTClient) {
		c.prefix = p
	}
}

// WithConnectTimeout bounds how long each connection attempt may
// take.
func WithConnectTimeout(d time.Duration) MQTTOption {
	return func(c *MQTTClient) {
		c.timeout = d
	}
}

package domain

import "fmt"

func usage(msg string) error {
	return E("validate", msg, ErrUsage)
}

// Validate checks that the merged configuration describes a runnable check.
// Every failure wraps ErrUsage.
func (c Config) Validate() error {
	if c.Device.Host == "" {
		return usage("device host is required")
	}
	if c.Device.Port <= 0 || c.Device.Port > 65535 {
		return usage(fmt.Sprintf("device port %d out of range", c.Device.Port))
	}
	if err := c.Device.validateCredentials(); err != nil {
		return err
	}
	if c.Channel == "" {
		return usage("release channel is required (Current, Bugfix or ReleaseCandidate)")
	}
	ch, err := ParseReleaseChannel(c.Channel)
	if err != nil {
		return err
	}
	if c.Feed.BaseURL == "" {
		return usage("feed base_url is required")
	}
	if c.Feed.Paths[ch] == "" {
		return usage(fmt.Sprintf("no feed path configured for channel %s", ch))
	}
	if c.Check.GracePeriod <= 0 {
		return usage("check grace_period must be positive")
	}
	if c.Publish.MQTT.Enabled() {
		if c.Publish.MQTT.Topic == "" {
			return usage("publish.mqtt.topic is required when a broker is set")
		}
		if c.Publish.MQTT.QoS < 0 || c.Publish.MQTT.QoS > 2 {
			return usage(fmt.Sprintf("publish.mqtt.qos %d must be 0, 1 or 2", c.Publish.MQTT.QoS))
		}
	}
	return nil
}

func (d DeviceConfig) validateCredentials() error {
	switch d.SNMPVersion {
	case SNMPVersion1, SNMPVersion2c:
		if d.Community == "" {
			return usage("SNMP community string required for SNMP versions other than v3")
		}
	case SNMPVersion3:
		if d.V3.User == "" {
			return usage("SNMP v3 user name is required")
		}
		if d.V3.PrivPassphrase != "" && d.V3.AuthPassphrase == "" {
			return usage("SNMP v3 privacy requires an authentication passphrase")
		}
	case "":
		return usage("SNMP version is required")
	default:
		return usage(fmt.Sprintf("unsupported SNMP version %q (1, 2c or 3)", d.SNMPVersion))
	}
	return nil
}

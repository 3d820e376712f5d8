package domain

import "time"

// DefaultGracePeriod is how long a newly published RouterOS release is
// reported as Warning before it escalates to Critical.
const DefaultGracePeriod = 7 * 24 * time.Hour

// SNMP protocol versions accepted on the command line.
const (
	SNMPVersion1  = "1"
	SNMPVersion2c = "2c"
	SNMPVersion3  = "3"
)

// Config is the complete runtime configuration of one check.
type Config struct {
	Device  DeviceConfig  `yaml:"device,omitempty"`
	Channel string        `yaml:"channel,omitempty"`
	Feed    FeedConfig    `yaml:"feed,omitempty"`
	Check   CheckConfig   `yaml:"check,omitempty"`
	Publish PublishConfig `yaml:"publish,omitempty"`
	Log     LogConfig     `yaml:"log,omitempty"`
}

// DeviceConfig describes how to reach the router's SNMP agent.
type DeviceConfig struct {
	Host        string        `yaml:"host,omitempty"`
	Port        int           `yaml:"port,omitempty"`
	SNMPVersion string        `yaml:"snmp_version,omitempty"`
	Community   string        `yaml:"community,omitempty"`
	V3          SNMPv3Config  `yaml:"v3,omitempty"`
	Timeout     time.Duration `yaml:"timeout,omitempty"`
}

// SNMPv3Config holds the user-based security model parameters.
// The security level follows from which passphrases are set.
type SNMPv3Config struct {
	User           string `yaml:"user,omitempty"`
	AuthProtocol   string `yaml:"auth_protocol,omitempty"`
	AuthPassphrase string `yaml:"auth_passphrase,omitempty"`
	PrivProtocol   string `yaml:"priv_protocol,omitempty"`
	PrivPassphrase string `yaml:"priv_passphrase,omitempty"`
	ContextName    string `yaml:"context_name,omitempty"`
}

// FeedConfig locates the upstream "latest version" files.
type FeedConfig struct {
	BaseURL string                    `yaml:"base_url,omitempty"`
	Paths   map[ReleaseChannel]string `yaml:"paths,omitempty"`
	Timeout time.Duration             `yaml:"timeout,omitempty"`
}

// CheckConfig tunes the verdict rules.
type CheckConfig struct {
	// GracePeriod before an outstanding RouterOS upgrade becomes Critical.
	// Default: 7 days
	GracePeriod time.Duration `yaml:"grace_period,omitempty"`
}

// PublishConfig lists optional sinks for the finished verdict.
type PublishConfig struct {
	MQTT       MQTTConfig `yaml:"mqtt,omitempty"`
	ReportPath string     `yaml:"report_path,omitempty"`
}

// MQTTConfig configures verdict publishing. Publishing is disabled while
// Broker is empty.
type MQTTConfig struct {
	Broker   string        `yaml:"broker,omitempty"`
	Topic    string        `yaml:"topic,omitempty"`
	ClientID string        `yaml:"client_id,omitempty"`
	Username string        `yaml:"username,omitempty"`
	Password string        `yaml:"password,omitempty"`
	QoS      int           `yaml:"qos,omitempty"`
	Retain   bool          `yaml:"retain,omitempty"`
	Timeout  time.Duration `yaml:"timeout,omitempty"`
}

// Enabled reports whether a broker has been configured.
func (m MQTTConfig) Enabled() bool { return m.Broker != "" }

// LogConfig controls the diagnostic log on stderr.
type LogConfig struct {
	Level string `yaml:"level,omitempty"`
	File  string `yaml:"file,omitempty"`
}

// DefaultFeedPaths are the RouterOS v6 files under the upgrade server.
func DefaultFeedPaths() map[ReleaseChannel]string {
	return map[ReleaseChannel]string{
		ChannelCurrent:          "LATEST.6",
		ChannelBugfix:           "LATEST.6fix",
		ChannelReleaseCandidate: "LATEST.6rc",
	}
}

// DefaultConfig returns a configuration with everything but the device
// and channel filled in.
func DefaultConfig() Config {
	return Config{
		Device: DeviceConfig{
			Port:    161,
			Timeout: 5 * time.Second,
		},
		Feed: FeedConfig{
			BaseURL: "https://upgrade.mikrotik.com/routeros/",
			Paths:   DefaultFeedPaths(),
			Timeout: 10 * time.Second,
		},
		Check: CheckConfig{
			GracePeriod: DefaultGracePeriod,
		},
		Publish: PublishConfig{
			MQTT: MQTTConfig{
				Topic:   "check_mikrotik_os/verdict",
				Timeout: 5 * time.Second,
			},
		},
		Log: LogConfig{
			Level: "warning",
		},
	}
}

// Merge combines this config with defaults, preferring explicit values.
func (c *Config) Merge(defaults Config) Config {
	result := defaults

	// Device
	if c.Device.Host != "" {
		result.Device.Host = c.Device.Host
	}
	if c.Device.Port > 0 {
		result.Device.Port = c.Device.Port
	}
	if c.Device.SNMPVersion != "" {
		result.Device.SNMPVersion = c.Device.SNMPVersion
	}
	if c.Device.Community != "" {
		result.Device.Community = c.Device.Community
	}
	if c.Device.Timeout > 0 {
		result.Device.Timeout = c.Device.Timeout
	}
	result.Device.V3 = mergeV3(c.Device.V3, defaults.Device.V3)

	if c.Channel != "" {
		result.Channel = c.Channel
	}

	// Feed
	if c.Feed.BaseURL != "" {
		result.Feed.BaseURL = c.Feed.BaseURL
	}
	if c.Feed.Timeout > 0 {
		result.Feed.Timeout = c.Feed.Timeout
	}
	if len(c.Feed.Paths) > 0 {
		paths := make(map[ReleaseChannel]string, len(defaults.Feed.Paths)+len(c.Feed.Paths))
		for ch, p := range defaults.Feed.Paths {
			paths[ch] = p
		}
		for ch, p := range c.Feed.Paths {
			if p != "" {
				paths[ch] = p
			}
		}
		result.Feed.Paths = paths
	}

	// Check
	if c.Check.GracePeriod > 0 {
		result.Check.GracePeriod = c.Check.GracePeriod
	}

	// Publish
	m := c.Publish.MQTT
	if m.Broker != "" {
		result.Publish.MQTT.Broker = m.Broker
	}
	if m.Topic != "" {
		result.Publish.MQTT.Topic = m.Topic
	}
	if m.ClientID != "" {
		result.Publish.MQTT.ClientID = m.ClientID
	}
	if m.Username != "" {
		result.Publish.MQTT.Username = m.Username
	}
	if m.Password != "" {
		result.Publish.MQTT.Password = m.Password
	}
	if m.QoS > 0 {
		result.Publish.MQTT.QoS = m.QoS
	}
	if m.Retain {
		result.Publish.MQTT.Retain = true
	}
	if m.Timeout > 0 {
		result.Publish.MQTT.Timeout = m.Timeout
	}
	if c.Publish.ReportPath != "" {
		result.Publish.ReportPath = c.Publish.ReportPath
	}

	// Log
	if c.Log.Level != "" {
		result.Log.Level = c.Log.Level
	}
	if c.Log.File != "" {
		result.Log.File = c.Log.File
	}

	return result
}

func mergeV3(explicit, defaults SNMPv3Config) SNMPv3Config {
	result := defaults
	if explicit.User != "" {
		result.User = explicit.User
	}
	if explicit.AuthProtocol != "" {
		result.AuthProtocol = explicit.AuthProtocol
	}
	if explicit.AuthPassphrase != "" {
		result.AuthPassphrase = explicit.AuthPassphrase
	}
	if explicit.PrivProtocol != "" {
		result.PrivProtocol = explicit.PrivProtocol
	}
	if explicit.PrivPassphrase != "" {
		result.PrivPassphrase = explicit.PrivPassphrase
	}
	if explicit.ContextName != "" {
		result.ContextName = explicit.ContextName
	}
	return result
}

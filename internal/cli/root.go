// Package cli implements the check_mikrotik_os command line.
package cli

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"os/signal"
	"time"

	"github.com/mtdoughty/check-Mikrotik-OS/internal/adapter/jsonreport"
	"github.com/mtdoughty/check-Mikrotik-OS/internal/adapter/logger"
	"github.com/mtdoughty/check-Mikrotik-OS/internal/adapter/mikrotikfeed"
	"github.com/mtdoughty/check-Mikrotik-OS/internal/adapter/mqttpublish"
	"github.com/mtdoughty/check-Mikrotik-OS/internal/adapter/snmpquery"
	"github.com/mtdoughty/check-Mikrotik-OS/internal/adapter/yamlconfig"
	"github.com/mtdoughty/check-Mikrotik-OS/internal/domain"
	"github.com/mtdoughty/check-Mikrotik-OS/internal/usecase"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"
)

var (
	version = "1.0.0"
	commit  = "dev"
)

// newDevice is replaced in tests.
var newDevice = func(cfg domain.DeviceConfig, log *logrus.Entry) domain.DeviceQuery {
	return snmpquery.New(cfg, log)
}

type options struct {
	configPath  string
	overrides   domain.Config
	showVersion bool
}

// Execute runs the plugin with args and returns the process exit code.
// Exactly one result line is written to stdout.
func Execute(args []string, stdout, stderr io.Writer) int {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	code := 0
	cmd := newRootCommand(stdout, &code)
	cmd.SetArgs(args)
	cmd.SetOut(stdout)
	cmd.SetErr(stderr)

	if err := cmd.ExecuteContext(ctx); err != nil {
		v := domain.Verdict{Severity: domain.SeverityUnknown, Message: usageMessage(err)}
		fmt.Fprintln(stdout, v.String())
		return v.Severity.ExitCode()
	}
	return code
}

func newRootCommand(stdout io.Writer, code *int) *cobra.Command {
	opts := &options{}

	cmd := &cobra.Command{
		Use:   "check_mikrotik_os",
		Short: "Check whether a MikroTik router runs the latest RouterOS and RouterBOOT firmware",
		Long: `Nagios-compatible check comparing the RouterOS and RouterBOOT versions
reported over SNMP against MikroTik's published release for a channel.

Exit codes: 0 Ok, 1 Warning, 2 Critical, 3 Unknown.`,
		Args:          cobra.NoArgs,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			if opts.showVersion {
				fmt.Fprintf(stdout, "check_mikrotik_os v%s (%s)\n", version, commit)
				return nil
			}
			sev, err := run(cmd.Context(), opts, stdout)
			if err != nil {
				return err
			}
			*code = sev.ExitCode()
			return nil
		},
	}

	o := &opts.overrides
	f := cmd.Flags()
	f.StringVar(&opts.configPath, "config", "", "Path to a YAML configuration file")
	f.StringVarP(&o.Device.Host, "host", "H", "", "MikroTik router address (required)")
	f.IntVar(&o.Device.Port, "port", 0, "SNMP port (default 161)")
	f.StringVarP(&o.Device.SNMPVersion, "snmp-version", "v", "", "SNMP version: 1, 2c or 3 (required)")
	f.StringVarP(&o.Device.Community, "community", "C", "", "SNMP community string (v1 and v2c)")
	f.DurationVar(&o.Device.Timeout, "timeout", 0, "SNMP request timeout (default 5s)")
	f.StringVar(&o.Device.V3.User, "user", "", "SNMP v3 user name")
	f.StringVar(&o.Device.V3.AuthProtocol, "auth-proto", "", "SNMP v3 authentication protocol: MD5, SHA, SHA224, SHA256, SHA384, SHA512")
	f.StringVar(&o.Device.V3.AuthPassphrase, "auth-pass", "", "SNMP v3 authentication passphrase")
	f.StringVar(&o.Device.V3.PrivProtocol, "priv-proto", "", "SNMP v3 privacy protocol: DES, AES, AES192, AES256")
	f.StringVar(&o.Device.V3.PrivPassphrase, "priv-pass", "", "SNMP v3 privacy passphrase")
	f.StringVarP(&o.Channel, "channel", "c", "", "Release channel to check against: Current, Bugfix or ReleaseCandidate (required)")
	f.DurationVar(&o.Check.GracePeriod, "grace", 0, "Age after which a pending RouterOS upgrade becomes Critical (default 168h)")
	f.StringVar(&o.Publish.MQTT.Broker, "mqtt-broker", "", "Publish the verdict to this MQTT broker, e.g. tcp://broker:1883")
	f.StringVar(&o.Publish.MQTT.Topic, "mqtt-topic", "", "MQTT topic; {host} is replaced by the router address")
	f.StringVar(&o.Publish.ReportPath, "report", "", "Write the verdict as JSON to this file")
	f.StringVar(&o.Log.Level, "log-level", "", "Log level on stderr (default warning)")
	f.StringVar(&o.Log.File, "log-file", "", "Also append logs to this file")
	f.BoolVar(&opts.showVersion, "version", false, "Show version information")

	return cmd
}

// LoadConfig layers defaults, the optional config file and flag overrides.
func LoadConfig(configPath string, overrides domain.Config) (domain.Config, error) {
	base := domain.DefaultConfig()
	if configPath != "" {
		fileCfg, err := yamlconfig.LoadConfig(configPath)
		if err != nil {
			return domain.Config{}, domain.E("load config", err.Error(), domain.ErrUsage)
		}
		base = fileCfg.Merge(base)
	}
	cfg := overrides.Merge(base)
	if err := cfg.Validate(); err != nil {
		return domain.Config{}, err
	}
	if cfg.Device.SNMPVersion == domain.SNMPVersion3 {
		if _, err := snmpquery.NewGoSNMP(cfg.Device); err != nil {
			return domain.Config{}, err
		}
	}
	return cfg, nil
}

func run(ctx context.Context, opts *options, stdout io.Writer) (domain.Severity, error) {
	cfg, err := LoadConfig(opts.configPath, opts.overrides)
	if err != nil {
		return domain.SeverityUnknown, err
	}
	level, err := logger.ParseLevel(cfg.Log.Level)
	if err != nil {
		return domain.SeverityUnknown, domain.E("log level", err.Error(), domain.ErrUsage)
	}
	logger.SetLoggerToStructured(level, cfg.Log.File)

	channel, err := domain.ParseReleaseChannel(cfg.Channel)
	if err != nil {
		return domain.SeverityUnknown, err
	}

	runID := uuid.NewString()
	log := logrus.WithFields(logrus.Fields{"run_id": runID, "host": cfg.Device.Host})

	r := usecase.Runner{
		Feed:       mikrotikfeed.New(cfg.Feed, log),
		Device:     newDevice(cfg.Device, log),
		Publishers: publishers(cfg.Publish, log),
		Grace:      cfg.Check.GracePeriod,
		Now:        time.Now,
		Log:        log,
	}
	report := r.Run(ctx, usecase.Request{RunID: runID, Host: cfg.Device.Host, Channel: channel})

	fmt.Fprintln(stdout, report.Verdict.String())
	return report.Verdict.Severity, nil
}

func publishers(cfg domain.PublishConfig, log *logrus.Entry) []domain.VerdictPublisher {
	var out []domain.VerdictPublisher
	if cfg.MQTT.Enabled() {
		out = append(out, mqttpublish.New(cfg.MQTT, log))
	}
	if cfg.ReportPath != "" {
		out = append(out, jsonreport.New(cfg.ReportPath))
	}
	return out
}

func usageMessage(err error) string {
	var ce *domain.CheckError
	if errors.As(err, &ce) && errors.Is(err, domain.ErrUsage) {
		return ce.Msg
	}
	return err.Error()
}

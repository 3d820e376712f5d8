package cli

import (
	"bytes"
	"context"
	"fmt"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mtdoughty/check-Mikrotik-OS/internal/domain"
)

type stubDevice map[string]string

func (d stubDevice) Get(_ context.Context, oid string) (string, error) {
	v, ok := d[oid]
	if !ok {
		return "", domain.E("snmp get", "no such object", domain.ErrQuery)
	}
	return v, nil
}

func useDevice(t *testing.T, d domain.DeviceQuery) {
	t.Helper()
	orig := newDevice
	newDevice = func(domain.DeviceConfig, *logrus.Entry) domain.DeviceQuery { return d }
	t.Cleanup(func() { newDevice = orig })
}

func feedServer(t *testing.T, status int, body string) string {
	t.Helper()
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(status)
		_, _ = w.Write([]byte(body))
	}))
	t.Cleanup(srv.Close)
	return srv.URL
}

func writeFile(t *testing.T, name, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	require.NoError(t, os.WriteFile(path, []byte(content), 0644))
	return path
}

func execute(args ...string) (int, string) {
	var stdout, stderr bytes.Buffer
	code := Execute(args, &stdout, &stderr)
	return code, stdout.String()
}

func TestExecute_Version(t *testing.T) {
	code, out := execute("--version")
	assert.Equal(t, 0, code)
	assert.True(t, strings.HasPrefix(out, "check_mikrotik_os v"), out)
}

func TestExecute_UsageErrors(t *testing.T) {
	tests := []struct {
		name     string
		args     []string
		contains string
	}{
		{"missing host", []string{"-v", "2c", "-C", "public", "-c", "Current"}, "device host is required"},
		{"missing community", []string{"-H", "192.0.2.1", "-v", "2c", "-c", "Current"}, "SNMP community string required"},
		{"missing version", []string{"-H", "192.0.2.1", "-C", "public", "-c", "Current"}, "SNMP version is required"},
		{"missing channel", []string{"-H", "192.0.2.1", "-v", "2c", "-C", "public"}, "release channel is required"},
		{"unknown channel", []string{"-H", "192.0.2.1", "-v", "2c", "-C", "public", "-c", "Nightly"}, "unknown MikroTik release channel"},
		{"v3 without user", []string{"-H", "192.0.2.1", "-v", "3", "-c", "Current"}, "user name is required"},
		{"v3 bad auth protocol", []string{"-H", "192.0.2.1", "-v", "3", "--user", "u", "--auth-proto", "crc32", "--auth-pass", "x", "-c", "Current"}, "unsupported auth protocol"},
		{"unknown flag", []string{"--frobnicate"}, "unknown flag"},
		{"positional argument", []string{"-H", "h", "extra"}, "unknown command"},
		{"missing config file", []string{"--config", "/nonexistent/check.yaml"}, "failed to read config file"},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			code, out := execute(tc.args...)
			assert.Equal(t, 3, code)
			assert.True(t, strings.HasPrefix(out, "Unknown : "), out)
			assert.Contains(t, out, tc.contains)
			assert.Equal(t, 1, strings.Count(out, "\n"), "exactly one line of output")
		})
	}
}

func TestExecute_EndToEnd(t *testing.T) {
	published := time.Now().Add(-2 * 24 * time.Hour).Unix()
	base := feedServer(t, http.StatusOK, fmt.Sprintf("6.45.1 %d\n", published))
	cfgPath := writeFile(t, "check.yaml", "feed:\n  base_url: "+base+"\nlog:\n  level: error\n")
	reportPath := filepath.Join(t.TempDir(), "report.json")

	tests := []struct {
		name     string
		device   stubDevice
		code     int
		expected string
	}{
		{
			name: "up to date",
			device: stubDevice{
				domain.OIDRouterOSVersion: "6.45.1",
				domain.OIDCurrentFirmware: "6.45.1",
				domain.OIDUpgradeFirmware: "6.45.1",
			},
			code:     0,
			expected: "Ok : RouterOS and Firmware is up to date (6.45.1/6.45.1).\n",
		},
		{
			name: "recent upgrade pending",
			device: stubDevice{
				domain.OIDRouterOSVersion: "6.44.0",
				domain.OIDCurrentFirmware: "6.45.1",
				domain.OIDUpgradeFirmware: "6.45.1",
			},
			code:     1,
			expected: "Warning : Router upgrade from 6.44.0 to 6.45.1 is required Firmware is up to date (6.45.1).\n",
		},
		{
			name: "firmware behind",
			device: stubDevice{
				domain.OIDRouterOSVersion: "6.45.1",
				domain.OIDCurrentFirmware: "3.1",
				domain.OIDUpgradeFirmware: "3.2",
			},
			code:     2,
			expected: "Critical : RouterOS is up to date (6.45.1). Firmware Requires Upgrade (3.1 -> 3.2).\n",
		},
		{
			name: "query failure",
			device: stubDevice{
				domain.OIDRouterOSVersion: "6.45.1",
			},
			code: 3,
		},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			useDevice(t, tc.device)

			code, out := execute("-H", "192.0.2.1", "-v", "2c", "-C", "public", "-c", "Current",
				"--config", cfgPath, "--report", reportPath)

			assert.Equal(t, tc.code, code)
			if tc.expected != "" {
				assert.Equal(t, tc.expected, out)
			} else {
				assert.True(t, strings.HasPrefix(out, "Unknown : SNMP Communication Error"), out)
			}

			b, err := os.ReadFile(reportPath)
			require.NoError(t, err)
			assert.Contains(t, string(b), `"host": "192.0.2.1"`)
		})
	}
}

func TestExecute_FeedUnavailable(t *testing.T) {
	base := feedServer(t, http.StatusServiceUnavailable, "maintenance")
	cfgPath := writeFile(t, "check.yaml", "feed:\n  base_url: "+base+"\n")
	useDevice(t, stubDevice{})

	code, out := execute("-H", "192.0.2.1", "-v", "2c", "-C", "public", "-c", "Bugfix", "--config", cfgPath)

	assert.Equal(t, 3, code)
	assert.True(t, strings.HasPrefix(out, "Unknown : Could not retrieve latest RouterOS version from MikroTik website"), out)
}

func TestLoadConfig_Precedence(t *testing.T) {
	cfgPath := writeFile(t, "check.yaml", `
device:
  host: from-file
  snmp_version: 2c
  community: file-community
channel: Bugfix
check:
  grace_period: 72h
`)

	cfg, err := LoadConfig(cfgPath, domain.Config{Device: domain.DeviceConfig{Host: "from-flag"}})
	require.NoError(t, err)

	assert.Equal(t, "from-flag", cfg.Device.Host)
	assert.Equal(t, "file-community", cfg.Device.Community)
	assert.Equal(t, "Bugfix", cfg.Channel)
	assert.Equal(t, 72*time.Hour, cfg.Check.GracePeriod)
	assert.Equal(t, 161, cfg.Device.Port)
}

package domain

import (
	"fmt"
	"strings"
	"time"
)

// Component names used on findings.
const (
	ComponentRouterOS = "routeros"
	ComponentFirmware = "firmware"
)

// Finding is the outcome of one independent check. It is never mutated
// after construction.
type Finding struct {
	Component string   `json:"component"`
	Severity  Severity `json:"severity"`
	Message   string   `json:"message"`
}

func NewFinding(component string, sev Severity, message string) Finding {
	return Finding{Component: component, Severity: sev, Message: message}
}

// Aggregate folds the findings' severities with WorstOf, starting at Ok.
func Aggregate(findings ...Finding) Severity {
	sev := SeverityOk
	for _, f := range findings {
		sev = WorstOf(sev, f.Severity)
	}
	return sev
}

// Verdict is the single outcome of one evaluation run.
type Verdict struct {
	Severity Severity `json:"severity"`
	Message  string   `json:"message"`
}

// String renders the verdict as the plugin's stdout line.
func (v Verdict) String() string {
	return v.Severity.String() + " : " + v.Message
}

// UnknownVerdict builds the verdict for a run that could not complete.
func UnknownVerdict(format string, args ...any) Verdict {
	return Verdict{Severity: SeverityUnknown, Message: fmt.Sprintf(format, args...)}
}

// ReleaseChannel selects which upstream "latest version" feed is queried.
type ReleaseChannel string

const (
	ChannelCurrent          ReleaseChannel = "Current"
	ChannelBugfix           ReleaseChannel = "Bugfix"
	ChannelReleaseCandidate ReleaseChannel = "ReleaseCandidate"
)

// Channels lists the supported release channels in display order.
func Channels() []ReleaseChannel {
	return []ReleaseChannel{ChannelCurrent, ChannelBugfix, ChannelReleaseCandidate}
}

// ParseReleaseChannel resolves a channel name, ignoring case. The upstream
// aliases stable, fix/long-term and rc/testing are accepted as well.
func ParseReleaseChannel(s string) (ReleaseChannel, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "current", "stable":
		return ChannelCurrent, nil
	case "bugfix", "fix", "long-term":
		return ChannelBugfix, nil
	case "releasecandidate", "rc", "testing":
		return ChannelReleaseCandidate, nil
	}
	return "", E("parse channel", fmt.Sprintf("unknown MikroTik release channel %q", s), ErrUsage)
}

// Release is one entry of the upstream version feed.
type Release struct {
	Channel   ReleaseChannel `json:"channel"`
	Version   string         `json:"version"`
	Published time.Time      `json:"published"`
}

// DeviceVersions are the values read from the router.
type DeviceVersions struct {
	RouterOS        string `json:"routeros"`
	Firmware        string `json:"firmware"`
	UpgradeFirmware string `json:"upgrade_firmware"`
}

// Report is the full record of one run handed to publishers.
type Report struct {
	RunID     string          `json:"run_id"`
	Host      string          `json:"host"`
	Channel   ReleaseChannel  `json:"channel"`
	CheckedAt time.Time       `json:"checked_at"`
	Verdict   Verdict         `json:"verdict"`
	Findings  []Finding       `json:"findings,omitempty"`
	Release   *Release        `json:"release,omitempty"`
	Device    *DeviceVersions `json:"device,omitempty"`
}

package usecase

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/mtdoughty/check-Mikrotik-OS/internal/check"
	"github.com/mtdoughty/check-Mikrotik-OS/internal/domain"

	"github.com/sirupsen/logrus"
)

// Request identifies one check run.
type Request struct {
	RunID   string
	Host    string
	Channel domain.ReleaseChannel
}

// Runner performs the lookups of one run in order and turns them into a
// verdict. The first failing step ends the run with an Unknown verdict.
type Runner struct {
	Feed       domain.VersionFeed
	Device     domain.DeviceQuery
	Publishers []domain.VerdictPublisher
	Grace      time.Duration
	Now        func() time.Time
	Log        *logrus.Entry
}

func (r Runner) Run(ctx context.Context, req Request) domain.Report {
	log := r.logger().WithFields(logrus.Fields{
		"run_id":  req.RunID,
		"host":    req.Host,
		"channel": req.Channel,
	})
	log.Info("Starting check")

	report := r.evaluate(ctx, log, req)
	log.WithFields(logrus.Fields{
		"severity": report.Verdict.Severity,
		"message":  report.Verdict.Message,
	}).Info("Check finished")

	for _, p := range r.Publishers {
		if err := p.Publish(ctx, report); err != nil {
			log.WithError(err).Warn("Failed to publish verdict")
		}
	}
	return report
}

func (r Runner) evaluate(ctx context.Context, log *logrus.Entry, req Request) domain.Report {
	report := domain.Report{
		RunID:     req.RunID,
		Host:      req.Host,
		Channel:   req.Channel,
		CheckedAt: r.now(),
	}

	release, err := r.Feed.Latest(ctx, req.Channel)
	if err != nil {
		return fail(log, report, err)
	}
	report.Release = &release

	var dev domain.DeviceVersions
	lookups := []struct {
		oid string
		dst *string
	}{
		{domain.OIDRouterOSVersion, &dev.RouterOS},
		{domain.OIDCurrentFirmware, &dev.Firmware},
		{domain.OIDUpgradeFirmware, &dev.UpgradeFirmware},
	}
	for _, l := range lookups {
		v, err := r.Device.Get(ctx, l.oid)
		if err != nil {
			return fail(log.WithField("oid", domain.OIDName(l.oid)), report, err)
		}
		*l.dst = v
	}
	report.Device = &dev

	res, err := check.Evaluate(check.Input{
		CurrentSoftware: dev.RouterOS,
		LatestSoftware:  release.Version,
		SoftwareRelease: release.Published,
		CurrentFirmware: dev.Firmware,
		LatestFirmware:  dev.UpgradeFirmware,
		Now:             report.CheckedAt,
		Grace:           r.Grace,
	})
	if err != nil {
		return fail(log, report, err)
	}

	report.Verdict = res.Verdict
	report.Findings = res.Findings()
	return report
}

func fail(log *logrus.Entry, report domain.Report, err error) domain.Report {
	log.WithError(err).Error("Check aborted")
	report.Verdict = UnknownVerdict(err)
	return report
}

// UnknownVerdict renders a failed run as a single-line Unknown verdict.
func UnknownVerdict(err error) domain.Verdict {
	var headline string
	switch {
	case errors.Is(err, domain.ErrFeedUnavailable):
		headline = "Could not retrieve latest RouterOS version from MikroTik website"
	case errors.Is(err, domain.ErrQuery):
		headline = "SNMP Communication Error"
	case errors.Is(err, domain.ErrUnparsableVersion):
		headline = "Don't know how to handle version number"
	case errors.Is(err, domain.ErrUsage):
		headline = "Invalid invocation"
	default:
		headline = "Check failed"
	}
	return domain.UnknownVerdict("%s (%s)", headline, singleLine(err.Error()))
}

func singleLine(s string) string {
	return strings.Join(strings.Fields(s), " ")
}

func (r Runner) now() time.Time {
	if r.Now != nil {
		return r.Now()
	}
	return time.Now()
}

func (r Runner) logger() *logrus.Entry {
	if r.Log != nil {
		return r.Log
	}
	return logrus.NewEntry(logrus.StandardLogger())
}

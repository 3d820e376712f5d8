// Package check turns the router's reported versions and the upstream
// release into one verdict.
package check

import (
	"fmt"
	"time"

	"github.com/mtdoughty/check-Mikrotik-OS/internal/domain"
	"github.com/mtdoughty/check-Mikrotik-OS/internal/version"
)

// Input is everything one evaluation needs. Grace may be zero.
type Input struct {
	CurrentSoftware string
	LatestSoftware  string
	SoftwareRelease time.Time
	CurrentFirmware string
	LatestFirmware  string
	Now             time.Time
	Grace           time.Duration
}

// Result is the verdict together with the findings it was built from.
type Result struct {
	Verdict  domain.Verdict
	Software domain.Finding
	Firmware domain.Finding
}

// Findings returns both findings in reporting order.
func (r Result) Findings() []domain.Finding {
	return []domain.Finding{r.Software, r.Firmware}
}

// Evaluate compares software and firmware and merges the outcome. Any
// version that cannot be parsed aborts the evaluation with an error
// wrapping domain.ErrUnparsableVersion.
func Evaluate(in Input) (Result, error) {
	sw, err := softwareFinding(in)
	if err != nil {
		return Result{}, fmt.Errorf("routeros: %w", err)
	}
	fw, err := firmwareFinding(in)
	if err != nil {
		return Result{}, fmt.Errorf("firmware: %w", err)
	}

	res := Result{Software: sw, Firmware: fw}
	sev := domain.Aggregate(sw, fw)
	if sev == domain.SeverityOk {
		res.Verdict = domain.Verdict{
			Severity: sev,
			Message:  fmt.Sprintf("RouterOS and Firmware is up to date (%s/%s).", in.CurrentSoftware, in.CurrentFirmware),
		}
		return res, nil
	}

	// Both messages are kept, even when one of them reports Ok.
	res.Verdict = domain.Verdict{Severity: sev, Message: sw.Message + " " + fw.Message}
	return res, nil
}

func softwareFinding(in Input) (domain.Finding, error) {
	out, err := version.IsOutOfDate(in.CurrentSoftware, in.LatestSoftware)
	if err != nil {
		return domain.Finding{}, err
	}
	if !out {
		return domain.NewFinding(domain.ComponentRouterOS, domain.SeverityOk,
			fmt.Sprintf("RouterOS is up to date (%s).", in.CurrentSoftware)), nil
	}
	return domain.NewFinding(domain.ComponentRouterOS,
		ClassifyFreshness(in.SoftwareRelease, in.Now, in.Grace),
		fmt.Sprintf("Router upgrade from %s to %s is required", in.CurrentSoftware, in.LatestSoftware)), nil
}

func firmwareFinding(in Input) (domain.Finding, error) {
	out, err := version.IsOutOfDate(in.CurrentFirmware, in.LatestFirmware)
	if err != nil {
		return domain.Finding{}, err
	}
	if !out {
		return domain.NewFinding(domain.ComponentFirmware, domain.SeverityOk,
			fmt.Sprintf("Firmware is up to date (%s).", in.CurrentFirmware)), nil
	}
	// Firmware has no grace period.
	return domain.NewFinding(domain.ComponentFirmware, domain.SeverityCritical,
		fmt.Sprintf("Firmware Requires Upgrade (%s -> %s).", in.CurrentFirmware, in.LatestFirmware)), nil
}

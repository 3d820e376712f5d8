package domain

import "context"

// VersionFeed returns the latest published release for a channel.
type VersionFeed interface {
	Latest(ctx context.Context, channel ReleaseChannel) (Release, error)
}

// DeviceQuery fetches one scalar value from the managed device.
type DeviceQuery interface {
	Get(ctx context.Context, oid string) (string, error)
}

// VerdictPublisher forwards a finished run to an external sink.
type VerdictPublisher interface {
	Publish(ctx context.Context, report Report) error
}

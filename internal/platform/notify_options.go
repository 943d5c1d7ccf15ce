// Package platform delivers desktop notifications through the host's native
// notification service.
package platform

import "time"

// DefaultAppName identifies the sender when Options.AppName is empty.
const DefaultAppName = "pixelsuite"

// Options configures one notification.
type Options struct {
	// AppName is shown as the sending application where supported.
	AppName string
	// IconPath points to an image shown alongside the message, typically the
	// exported file itself.
	IconPath string
	// Timeout is how long the notification stays visible. Zero uses the
	// service default.
	Timeout time.Duration
}

func (o Options) appName() string {
	if o.AppName == "" {
		return DefaultAppName
	}
	return o.AppName
}

func (o Options) timeoutMillis() int32 {
	if o.Timeout <= 0 {
		return -1
	}
	return int32(o.Timeout / time.Millisecond)
}

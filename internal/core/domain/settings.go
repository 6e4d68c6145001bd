package domain

import (
	"fmt"
	"time"
)

// Renew window bounds. The API issues tokens for roughly 1800 seconds.
const (
	MinRenewWindow     = 120 * time.Second
	MaxRenewWindow     = 1200 * time.Second
	DefaultRenewWindow = MinRenewWindow
)

// Version is the SDK version reported in the user agent.
const Version = "0.1.0"

// DefaultUserAgent is sent when the caller does not configure one.
const DefaultUserAgent = "crowdstrike-falcon-go/" + Version

// Fixed limits shared by the dispatch pipeline.
const (
	// MaxDebugRecords bounds how many resources are written to debug logs.
	MaxDebugRecords = 100
	// GlobalAPIMaxReturn is the largest page size any list operation accepts.
	GlobalAPIMaxReturn = 5000
)

// Timeout is either a single total timeout or a connect/read pair.
// The zero value means no timeout.
type Timeout struct {
	Total   time.Duration `json:"total,omitempty"`
	Connect time.Duration `json:"connect,omitempty"`
	Read    time.Duration `json:"read,omitempty"`
}

// IsZero reports whether no timeout is configured.
func (t Timeout) IsZero() bool {
	return t.Total == 0 && t.Connect == 0 && t.Read == 0
}

// String returns a compact representation used as a cache key.
func (t Timeout) String() string {
	return fmt.Sprintf("%s/%s/%s", t.Total, t.Connect, t.Read)
}

// Proxy maps a URL scheme ("http", "https") to a proxy URL.
type Proxy map[string]string

// Connection holds the per-request transport settings.
type Connection struct {
	SSLVerify bool
	Proxy     Proxy
	Timeout   Timeout
	UserAgent string
}

// Settings is the connection configuration owned by an auth interface.
type Settings struct {
	// BaseURL is absolute with no trailing slash.
	BaseURL     string
	SSLVerify   bool
	Proxy       Proxy
	Timeout     Timeout
	UserAgent   string
	RenewWindow time.Duration
}

// ClampRenewWindow bounds w to [MinRenewWindow, MaxRenewWindow].
func ClampRenewWindow(w time.Duration) time.Duration {
	if w < MinRenewWindow {
		return MinRenewWindow
	}
	if w > MaxRenewWindow {
		return MaxRenewWindow
	}
	return w
}

// Connection returns the transport subset of the settings.
func (s Settings) Connection() Connection {
	return Connection{
		SSLVerify: s.SSLVerify,
		Proxy:     s.Proxy,
		Timeout:   s.Timeout,
		UserAgent: s.UserAgent,
	}
}

// EffectiveUserAgent returns the configured user agent or the default.
func (c Connection) EffectiveUserAgent() string {
	if c.UserAgent == "" {
		return DefaultUserAgent
	}
	return c.UserAgent
}

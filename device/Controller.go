// Package device is the bluetooth light controller used by the shell commands.
package device

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"
)

// Value ranges accepted by the light features
const (
	MinBrightness = 10
	MaxBrightness = 100
	MinColor      = 0
	MaxColor      = 255

	// MaxPasswordDigits is the length limit of a device password
	MaxPasswordDigits = 4
)

var (
	ErrNoAdapter          = errors.New("no bluetooth adapter installed")
	ErrAdapterNotFound    = errors.New("adapter not found")
	ErrDeviceNotFound     = errors.New("device not found")
	ErrUnsupportedFeature = errors.New("feature not supported by device")
	ErrNotAuthenticated   = errors.New("no password known for device")
	ErrClosed             = errors.New("controller is closed")
)

// RangeError reports a value outside the range a feature accepts
type RangeError struct {
	What     string
	Value    int
	Min, Max int
}

func (e *RangeError) Error() string {
	return fmt.Sprintf("%s %d is outside %d-%d", e.What, e.Value, e.Min, e.Max)
}

// Feature is a capability a device may offer
type Feature int

const (
	FeatureOnOff Feature = iota
	FeatureBrightness
	FeatureRGB
	FeaturePassword
)

func (f Feature) String() string {
	switch f {
	case FeatureOnOff:
		return "on/off switch"
	case FeatureBrightness:
		return "brightness level"
	case FeatureRGB:
		return "RGB"
	case FeaturePassword:
		return "device password"
	}
	return fmt.Sprintf("Feature(%d)", int(f))
}

// Adapter is a local bluetooth adapter
type Adapter struct {
	Name    string // e.g. hci0
	Address string
}

// Matches reports whether id is the name or the address of the adapter
func (a Adapter) Matches(id string) bool {
	return a.Name == id || strings.EqualFold(a.Address, id)
}

// Details describes a discovered device
type Details struct {
	MAC       string
	Name      string
	Kind      string
	Supported bool
	Features  []Feature
}

// Lines renders the details one property per line
func (d Details) Lines() []string {
	features := make([]string, 0, len(d.Features))
	for _, f := range d.Features {
		features = append(features, f.String())
	}
	return []string{
		"Name:      " + d.Name,
		"MAC:       " + d.MAC,
		"Kind:      " + d.Kind,
		fmt.Sprintf("Supported: %t", d.Supported),
		"Features:  " + strings.Join(features, ", "),
	}
}

// Device is a controllable light found by a scan
type Device interface {
	Details() Details
	Supports(f Feature) bool
	Switch(ctx context.Context, on bool) error
	Status(ctx context.Context) (bool, error)
	SetBrightness(ctx context.Context, level int) error
	SetRGB(ctx context.Context, red, green, blue int) error
	// Authenticate stores password for later writes to the device
	Authenticate(ctx context.Context, password string) error
}

// Controller gives access to adapters and discovered devices
type Controller interface {
	Adapters() []Adapter
	DefaultAdapter() (Adapter, error)
	SelectAdapter(id string) (Adapter, error)
	Scan(ctx context.Context, timeout time.Duration) error
	// RawDevices lists every device seen by a scan, unsupported ones on request
	RawDevices(includeUnsupported bool) []Details
	// Devices lists the supported devices seen by a scan
	Devices() []Details
	Device(mac string) (Device, error)
	Passwords() *PasswordBook
	Close() error
}

// ValidPassword reports whether password is numeric with at most MaxPasswordDigits digits
func ValidPassword(password string) bool {
	if password == "" || len(password) > MaxPasswordDigits {
		return false
	}
	for _, r := range password {
		if r < '0' || r > '9' {
			return false
		}
	}
	return true
}

// NormalizeMAC upper-cases a MAC address
func NormalizeMAC(mac string) string {
	return strings.ToUpper(strings.TrimSpace(mac))
}

package device

import (
	"context"
	"fmt"
	"io"
	"strings"
	"sync"
	"time"

	"blecmd/config"

	charmlog "github.com/charmbracelet/log"
	"golang.org/x/exp/slices"
)

// kindFeatures lists the features of each supported device kind
var kindFeatures = map[string][]Feature{
	"rgb":    {FeatureOnOff, FeatureBrightness, FeatureRGB, FeaturePassword},
	"dimmer": {FeatureOnOff, FeatureBrightness, FeaturePassword},
	"switch": {FeatureOnOff, FeaturePassword},
}

// Fleet is an in-memory Controller. Its devices come from the configuration
// and become visible once a scan has run.
type Fleet struct {
	mu        sync.RWMutex
	adapters  []Adapter
	selected  int               // index into adapters, -1 when there are none
	known     map[string]*light // every configured device, key is the normalized MAC
	found     map[string]*light // devices seen by a scan
	passwords *PasswordBook
	closed    bool

	logger *charmlog.Logger
	sleep  func(ctx context.Context, d time.Duration) error
}

// FleetOption configures a Fleet
type FleetOption func(*Fleet)

// WithFleetLogger sets the logger of the fleet
func WithFleetLogger(logger *charmlog.Logger) FleetOption {
	return func(f *Fleet) {
		if logger != nil {
			f.logger = logger
		}
	}
}

// WithSleep replaces the wait performed by Scan
func WithSleep(sleep func(ctx context.Context, d time.Duration) error) FleetOption {
	return func(f *Fleet) {
		if sleep != nil {
			f.sleep = sleep
		}
	}
}

// NewFleet creates a fleet from adapters and device descriptions
func NewFleet(adapters []config.SimulatedAdapter, devices []config.SimulatedDevice, defaultPassword string, opts ...FleetOption) *Fleet {
	f := &Fleet{
		selected:  -1,
		known:     make(map[string]*light),
		found:     make(map[string]*light),
		passwords: NewPasswordBook(defaultPassword),
		logger:    charmlog.New(io.Discard),
		sleep:     sleepContext,
	}
	for _, opt := range opts {
		opt(f)
	}

	for _, a := range adapters {
		f.adapters = append(f.adapters, Adapter{Name: a.Name, Address: a.Address})
	}
	if len(f.adapters) > 0 {
		f.selected = 0
	}

	for _, d := range devices {
		mac := NormalizeMAC(d.MAC)
		if mac == "" {
			f.logger.Warn("device without MAC address ignored", "name", d.Name)
			continue
		}
		kind := strings.ToLower(d.Kind)
		features := kindFeatures[kind]
		f.known[mac] = &light{
			fleet: f,
			details: Details{
				MAC:       mac,
				Name:      d.Name,
				Kind:      kind,
				Supported: d.Supported && len(features) > 0,
				Features:  slices.Clone(features),
			},
			brightness: MaxBrightness,
			red:        MaxColor,
			green:      MaxColor,
			blue:       MaxColor,
		}
	}
	return f
}

// FromConfig creates a fleet from the device section of cfg
func FromConfig(cfg *config.Config, opts ...FleetOption) *Fleet {
	return NewFleet(cfg.Device.Adapters, cfg.Device.Simulated, cfg.Device.DefaultPassword, opts...)
}

func sleepContext(ctx context.Context, d time.Duration) error {
	timer := time.NewTimer(d)
	defer timer.Stop()
	select {
	case <-timer.C:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

func (f *Fleet) Adapters() []Adapter {
	f.mu.RLock()
	defer f.mu.RUnlock()
	return slices.Clone(f.adapters)
}

func (f *Fleet) DefaultAdapter() (Adapter, error) {
	f.mu.RLock()
	defer f.mu.RUnlock()
	if f.closed {
		return Adapter{}, ErrClosed
	}
	if f.selected < 0 {
		return Adapter{}, ErrNoAdapter
	}
	return f.adapters[f.selected], nil
}

// SelectAdapter makes the adapter with the given name or address the default
func (f *Fleet) SelectAdapter(id string) (Adapter, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.closed {
		return Adapter{}, ErrClosed
	}
	i := slices.IndexFunc(f.adapters, func(a Adapter) bool { return a.Matches(id) })
	if i < 0 {
		return Adapter{}, fmt.Errorf("%w: %s", ErrAdapterNotFound, id)
	}
	f.selected = i
	f.logger.Info("adapter selected", "name", f.adapters[i].Name, "address", f.adapters[i].Address)
	return f.adapters[i], nil
}

// Scan waits for timeout, then makes every configured device visible
func (f *Fleet) Scan(ctx context.Context, timeout time.Duration) error {
	if _, err := f.DefaultAdapter(); err != nil {
		return err
	}
	f.logger.Info("scanning for devices", "timeout", timeout)
	if err := f.sleep(ctx, timeout); err != nil {
		return fmt.Errorf("scan interrupted: %w", err)
	}

	f.mu.Lock()
	defer f.mu.Unlock()
	for mac, l := range f.known {
		f.found[mac] = l
	}
	f.logger.Info("scan finished", "devices", len(f.found))
	return nil
}

func (f *Fleet) RawDevices(includeUnsupported bool) []Details {
	f.mu.RLock()
	defer f.mu.RUnlock()

	result := make([]Details, 0, len(f.found))
	for _, l := range f.found {
		if l.details.Supported || includeUnsupported {
			result = append(result, l.details)
		}
	}
	slices.SortFunc(result, func(a, b Details) int {
		return strings.Compare(a.MAC, b.MAC)
	})
	return result
}

func (f *Fleet) Devices() []Details {
	return f.RawDevices(false)
}

// Device returns a supported device seen by a scan
func (f *Fleet) Device(mac string) (Device, error) {
	f.mu.RLock()
	defer f.mu.RUnlock()
	if f.closed {
		return nil, ErrClosed
	}
	l, ok := f.found[NormalizeMAC(mac)]
	if !ok || !l.details.Supported {
		return nil, fmt.Errorf("%w: %s", ErrDeviceNotFound, mac)
	}
	return l, nil
}

func (f *Fleet) Passwords() *PasswordBook {
	return f.passwords
}

// Close forgets all scan results; later calls fail with ErrClosed
func (f *Fleet) Close() error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.closed {
		return ErrClosed
	}
	f.closed = true
	f.found = make(map[string]*light)
	f.logger.Info("controller closed")
	return nil
}

// light is a device of a Fleet
type light struct {
	fleet   *Fleet
	details Details

	mu         sync.Mutex
	on         bool
	brightness int
	red        int
	green      int
	blue       int
}

func (l *light) Details() Details {
	return l.details
}

func (l *light) Supports(f Feature) bool {
	return slices.Contains(l.details.Features, f)
}

// write checks the feature and the password before a change
func (l *light) write(ctx context.Context, f Feature) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	if !l.Supports(f) {
		return fmt.Errorf("%w: %s", ErrUnsupportedFeature, f)
	}
	if _, ok := l.fleet.passwords.Get(l.details.MAC); !ok {
		return fmt.Errorf("%w: %s", ErrNotAuthenticated, l.details.MAC)
	}
	return nil
}

func (l *light) Switch(ctx context.Context, on bool) error {
	if err := l.write(ctx, FeatureOnOff); err != nil {
		return err
	}
	l.mu.Lock()
	defer l.mu.Unlock()
	l.on = on
	l.fleet.logger.Debug("device switched", "mac", l.details.MAC, "on", on)
	return nil
}

func (l *light) Status(ctx context.Context) (bool, error) {
	if err := ctx.Err(); err != nil {
		return false, err
	}
	if !l.Supports(FeatureOnOff) {
		return false, fmt.Errorf("%w: %s", ErrUnsupportedFeature, FeatureOnOff)
	}
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.on, nil
}

func (l *light) SetBrightness(ctx context.Context, level int) error {
	if err := l.write(ctx, FeatureBrightness); err != nil {
		return err
	}
	if level < MinBrightness || level > MaxBrightness {
		return &RangeError{What: "brightness", Value: level, Min: MinBrightness, Max: MaxBrightness}
	}
	l.mu.Lock()
	defer l.mu.Unlock()
	l.brightness = level
	l.fleet.logger.Debug("brightness changed", "mac", l.details.MAC, "level", level)
	return nil
}

func (l *light) SetRGB(ctx context.Context, red, green, blue int) error {
	if err := l.write(ctx, FeatureRGB); err != nil {
		return err
	}
	for _, c := range []struct {
		name  string
		value int
	}{{"red", red}, {"green", green}, {"blue", blue}} {
		if c.value < MinColor || c.value > MaxColor {
			return &RangeError{What: c.name, Value: c.value, Min: MinColor, Max: MaxColor}
		}
	}
	l.mu.Lock()
	defer l.mu.Unlock()
	l.red, l.green, l.blue = red, green, blue
	l.fleet.logger.Debug("color changed", "mac", l.details.MAC, "red", red, "green", green, "blue", blue)
	return nil
}

func (l *light) Authenticate(ctx context.Context, password string) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	if !l.Supports(FeaturePassword) {
		return fmt.Errorf("%w: %s", ErrUnsupportedFeature, FeaturePassword)
	}
	if !ValidPassword(password) {
		return fmt.Errorf("password must be numeric with at most %d digits", MaxPasswordDigits)
	}
	l.fleet.passwords.Put(l.details.MAC, password)
	return nil
}

// state returns the current output of the light
func (l *light) state() (on bool, brightness, red, green, blue int) {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.on, l.brightness, l.red, l.green, l.blue
}

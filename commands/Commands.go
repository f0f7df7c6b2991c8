// Package commands provides the shell commands that control bluetooth lights.
package commands

import (
	"fmt"
	"strconv"
	"strings"
	"time"

	"blecmd/console"
	"blecmd/device"

	"github.com/c-bata/go-prompt"
)

// GroupAdapter is the help group of adapter commands
const GroupAdapter = "Adapter Action"

const errNoDevices = "No suitable devices found."

// All returns every device command bound to ctrl.
// scanTimeout is used by scan when no duration is given.
func All(ctrl device.Controller, scanTimeout time.Duration) []*console.Command {
	return []*console.Command{
		scanCommand(ctrl, scanTimeout),
		showDevicesCommand(ctrl),
		showDeviceDetailsCommand(ctrl),
		switchOnOffCommand(ctrl),
		setBrightnessCommand(ctrl),
		setRGBCommand(ctrl),
		setDevicePasswordCommand(ctrl),
		setDefaultDevicePasswordCommand(ctrl),
		selectAdapterCommand(ctrl),
	}
}

// Register adds every device command to r
func Register(r *console.Registry, ctrl device.Controller, scanTimeout time.Duration) error {
	for _, cmd := range All(ctrl, scanTimeout) {
		if err := r.Register(cmd); err != nil {
			return fmt.Errorf("registering %s: %w", cmd.Name, err)
		}
	}
	return nil
}

// deviceArg completes with the MAC addresses currently known to ctrl
func deviceArg(ctrl device.Controller) console.ArgSpec {
	return console.ArgSpec{
		Name:     "deviceMacAddress",
		Required: true,
		Source: console.EveryTime(func() []prompt.Suggest {
			devices := ctrl.Devices()
			suggests := make([]prompt.Suggest, 0, len(devices))
			for _, d := range devices {
				suggests = append(suggests, prompt.Suggest{Text: d.MAC, Description: d.Name + " (" + d.Kind + ")"})
			}
			return suggests
		}),
	}
}

// findDevice resolves a MAC address, returning error lines when it cannot
func findDevice(ctx *console.Context, ctrl device.Controller, mac string) (device.Device, []string) {
	if len(ctrl.Devices()) == 0 {
		return nil, ctx.Formatter.Error(errNoDevices)
	}
	d, err := ctrl.Device(mac)
	if err != nil {
		ctx.Logger.Debug("device lookup failed", "mac", mac, "err", err)
		return nil, ctx.Formatter.Errorf("No device with MAC address %s found.", mac)
	}
	return d, nil
}

// parseNumber accepts unsigned decimal numbers only
func parseNumber(s string) (int, bool) {
	if s == "" || strings.TrimLeft(s, "0123456789") != "" {
		return 0, false
	}
	n, err := strconv.Atoi(s)
	return n, err == nil
}

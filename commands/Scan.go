package commands

import (
	"strconv"
	"time"

	"blecmd/console"
	"blecmd/device"
)

func scanCommand(ctrl device.Controller, defaultTimeout time.Duration) *console.Command {
	return &console.Command{
		Name:        "scan",
		Description: "Scan for bluetooth devices. You can specify the scan time, if none is given the configured default is used.",
		Args: []console.ArgSpec{
			{Name: "scanTimeInSeconds"},
			{Name: "showUnsupported", Source: console.StaticList{
				{Text: "true", Description: "Show unsupported"},
				{Text: "false", Description: "Do not show unsupported (default)"},
			}},
		},
		Execute: func(ctx *console.Context, args []string) ([]string, error) {
			timeout := defaultTimeout
			showUnsupported := false
			if len(args) > 0 {
				if seconds, ok := parseNumber(args[0]); ok && seconds > 0 {
					timeout = time.Duration(seconds) * time.Second
				}
			}
			if len(args) > 1 {
				showUnsupported, _ = strconv.ParseBool(args[1])
			}

			ctx.Logger.Info("scan requested", "timeout", timeout, "showUnsupported", showUnsupported)
			if err := ctrl.Scan(ctx, timeout); err != nil {
				return ctx.Formatter.Errorf("Error while scanning for new devices: %v", err), nil
			}

			devices := ctrl.RawDevices(showUnsupported)
			if len(devices) == 0 {
				return []string{"No devices found"}, nil
			}
			var lines []string
			for _, d := range devices {
				lines = append(lines, d.Lines()...)
				lines = append(lines, "")
			}
			return lines, nil
		},
		Help: func(ctx *console.Context) []string {
			return []string{
				"",
				"scan [scanTimeInSeconds] [showUnsupported]",
				"  Blocks the shell while scanning. Found devices are listed afterwards.",
				"  showUnsupported=true also lists devices that cannot be controlled.",
				"",
			}
		},
	}
}

func showDevicesCommand(ctrl device.Controller) *console.Command {
	return &console.Command{
		Name:        "showDevices",
		Description: "List all previously found devices",
		Execute: func(ctx *console.Context, args []string) ([]string, error) {
			devices := ctrl.Devices()
			if len(devices) == 0 {
				return ctx.Formatter.Error(errNoDevices), nil
			}
			var lines []string
			for _, d := range devices {
				lines = append(lines, "\tMAC: "+d.MAC, "\t"+d.Name+" ("+d.Kind+")")
			}
			return lines, nil
		},
	}
}

func showDeviceDetailsCommand(ctrl device.Controller) *console.Command {
	return &console.Command{
		Name:        "showDeviceDetails",
		Description: "List all known bluetooth details of all found bluetooth devices",
		Execute: func(ctx *console.Context, args []string) ([]string, error) {
			devices := ctrl.RawDevices(false)
			if len(devices) == 0 {
				return ctx.Formatter.Error(errNoDevices), nil
			}
			var lines []string
			for _, d := range devices {
				lines = append(lines, "---------------------")
				lines = append(lines, d.Lines()...)
				lines = append(lines, "---------------------", "")
			}
			return lines, nil
		},
	}
}

package commands

import (
	"errors"
	"strconv"

	"blecmd/console"
	"blecmd/device"

	"github.com/c-bata/go-prompt"
)

// brightnessLevels suggests the allowed levels in steps of ten
func brightnessLevels() []prompt.Suggest {
	var levels []prompt.Suggest
	for l := device.MinBrightness; l <= device.MaxBrightness; l += 10 {
		levels = append(levels, prompt.Suggest{Text: strconv.Itoa(l)})
	}
	return levels
}

func switchOnOffCommand(ctrl device.Controller) *console.Command {
	return &console.Command{
		Name:        "switchOnOff",
		Description: "Turn on/off switchable device or get the current switch status",
		Args: []console.ArgSpec{
			deviceArg(ctrl),
			{Name: "operation", Required: true, Source: console.StaticList{
				{Text: "on", Description: "Switch device on"},
				{Text: "off", Description: "Switch device off"},
				{Text: "status", Description: "Get current device status"},
			}},
		},
		Execute: func(ctx *console.Context, args []string) ([]string, error) {
			operation := args[1]
			if operation != "on" && operation != "off" && operation != "status" {
				return ctx.Formatter.Error("The switch instruction has to be either 'on', 'off' or 'status'"), nil
			}
			d, errLines := findDevice(ctx, ctrl, args[0])
			if d == nil {
				return errLines, nil
			}
			if !d.Supports(device.FeatureOnOff) {
				return ctx.Formatter.Error("Device does not support on/off switch feature!"), nil
			}

			if operation == "status" {
				on, err := d.Status(ctx)
				if err != nil {
					ctx.Logger.Warn("reading switch status failed", "mac", args[0], "err", err)
					return ctx.Formatter.Error("Could not get device status"), nil
				}
				return ctx.Formatter.Success("Current device status: " + onOff(on)), nil
			}

			on := operation == "on"
			if err := d.Switch(ctx, on); err != nil {
				ctx.Logger.Warn("switching device failed", "mac", args[0], "err", err)
				return ctx.Formatter.Errorf("Could not switch device %s: %v", onOff(on), err), nil
			}
			return ctx.Formatter.Success("Successfully switched device " + onOff(on)), nil
		},
	}
}

func setBrightnessCommand(ctrl device.Controller) *console.Command {
	return &console.Command{
		Name:        "setBrightness",
		Description: "Change brightness of the given device. Values from 10-100 are allowed.",
		Args: []console.ArgSpec{
			deviceArg(ctrl),
			{Name: "level", Required: true, Source: console.NewCachedOnce(brightnessLevels)},
		},
		Execute: func(ctx *console.Context, args []string) ([]string, error) {
			level, ok := parseNumber(args[1])
			if !ok {
				return ctx.Formatter.Error("The brightness value has to be numeric"), nil
			}
			d, errLines := findDevice(ctx, ctrl, args[0])
			if d == nil {
				return errLines, nil
			}
			if !d.Supports(device.FeatureBrightness) {
				return ctx.Formatter.Error("Device does not support brightness level feature!"), nil
			}
			if level > device.MaxBrightness {
				return ctx.Formatter.Errorf("Given brightness value %d is higher than the allowed maximum of %d", level, device.MaxBrightness), nil
			}
			if level < device.MinBrightness {
				return ctx.Formatter.Errorf("Given brightness value %d is lower than the required minimum of %d", level, device.MinBrightness), nil
			}

			if err := d.SetBrightness(ctx, level); err != nil {
				ctx.Logger.Warn("changing brightness failed", "mac", args[0], "err", err)
				return ctx.Formatter.Errorf("Could not change brightness level to %d: %v", level, err), nil
			}
			return ctx.Formatter.Successf("Successfully changed brightness level to %d", level), nil
		},
	}
}

func setRGBCommand(ctrl device.Controller) *console.Command {
	return &console.Command{
		Name:        "setRGB",
		Description: "Set the RGB colors of the given device. Values from 0-255 are allowed.",
		Args: []console.ArgSpec{
			deviceArg(ctrl),
			{Name: "red", Required: true},
			{Name: "green", Required: true},
			{Name: "blue", Required: true},
		},
		Execute: func(ctx *console.Context, args []string) ([]string, error) {
			var rgb [3]int
			for i, channel := range []string{"red", "green", "blue"} {
				v, ok := parseNumber(args[i+1])
				if !ok {
					return ctx.Formatter.Errorf("The value for the %s channel has to be numeric", channel), nil
				}
				rgb[i] = v
			}
			d, errLines := findDevice(ctx, ctrl, args[0])
			if d == nil {
				return errLines, nil
			}
			if !d.Supports(device.FeatureRGB) {
				return ctx.Formatter.Error("Device does not support RGB feature!"), nil
			}

			red, green, blue := rgb[0], rgb[1], rgb[2]
			err := d.SetRGB(ctx, red, green, blue)
			var rangeErr *device.RangeError
			switch {
			case errors.As(err, &rangeErr):
				return ctx.Formatter.Errorf("One of the given color channel values (red = %d, green = %d, blue = %d) is outside the allowed range of %d-%d",
					red, green, blue, device.MinColor, device.MaxColor), nil
			case err != nil:
				ctx.Logger.Warn("changing color failed", "mac", args[0], "err", err)
				return ctx.Formatter.Errorf("Could not change RGB channels to red = %d, green = %d, blue = %d: %v", red, green, blue, err), nil
			}
			return ctx.Formatter.Successf("Successfully changed RGB levels to red = %d, green = %d, blue = %d", red, green, blue), nil
		},
	}
}

func onOff(on bool) string {
	if on {
		return "on"
	}
	return "off"
}

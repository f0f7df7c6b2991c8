package commands

import (
	"blecmd/console"
	"blecmd/device"

	"github.com/c-bata/go-prompt"
)

const errBadPassword = "The password should be a numeric value with a maximum of 4 digits."

func setDevicePasswordCommand(ctrl device.Controller) *console.Command {
	return &console.Command{
		Name:        "setDevicePassword",
		Description: "Setup the password required to control the device. Password has to be 4 digits.",
		Args: []console.ArgSpec{
			deviceArg(ctrl),
			{Name: "password_to_set", Required: true},
		},
		Execute: func(ctx *console.Context, args []string) ([]string, error) {
			if !device.ValidPassword(args[1]) {
				return ctx.Formatter.Error(errBadPassword), nil
			}
			d, errLines := findDevice(ctx, ctrl, args[0])
			if d == nil {
				return errLines, nil
			}
			if !d.Supports(device.FeaturePassword) {
				return ctx.Formatter.Error("Unable to set password, wrong device class!"), nil
			}
			if err := d.Authenticate(ctx, args[1]); err != nil {
				ctx.Logger.Warn("setting device password failed", "mac", args[0], "err", err)
				return ctx.Formatter.Error("Could not set/update password!"), nil
			}
			return ctx.Formatter.Success("Successfully updated/set password"), nil
		},
	}
}

func setDefaultDevicePasswordCommand(ctrl device.Controller) *console.Command {
	return &console.Command{
		Name:        "setDefaultDevicePassword",
		Description: "Setup the default password used for controlling a device if no specific password was set. Password has to be 4 digits.",
		Args:        []console.ArgSpec{{Name: "password_to_set", Required: true}},
		Execute: func(ctx *console.Context, args []string) ([]string, error) {
			if !device.ValidPassword(args[0]) {
				return ctx.Formatter.Error(errBadPassword), nil
			}
			ctrl.Passwords().SetDefault(args[0])
			return ctx.Formatter.Success("Successfully updated/set default password"), nil
		},
	}
}

func selectAdapterCommand(ctrl device.Controller) *console.Command {
	return &console.Command{
		Name:        "selectAdapter",
		Description: "Set the bluetooth adapter to use for communication by either the adapters' MAC address or the adapters' name (e.g. hci0)",
		Group:       GroupAdapter,
		Args: []console.ArgSpec{{
			Name:     "DeviceNameOrMac",
			Required: true,
			Source: console.EveryTime(func() []prompt.Suggest {
				adapters := ctrl.Adapters()
				suggests := make([]prompt.Suggest, 0, len(adapters))
				for _, a := range adapters {
					suggests = append(suggests, prompt.Suggest{Text: a.Name, Description: a.Address})
				}
				return suggests
			}),
		}},
		Execute: func(ctx *console.Context, args []string) ([]string, error) {
			adapter, err := ctrl.SelectAdapter(args[0])
			if err != nil {
				ctx.Logger.Debug("adapter selection failed", "id", args[0], "err", err)
				return ctx.Formatter.Errorf("No adapter with identifier '%s' found.", args[0]), nil
			}
			return ctx.Formatter.Successf("Adapter successfully set to %s [%s]", adapter.Name, adapter.Address), nil
		},
	}
}

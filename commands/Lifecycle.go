package commands

import (
	"fmt"

	"blecmd/console"
	"blecmd/console/format"
	"blecmd/device"
)

// Initializer reports the adapter in use and fails when there is none
func Initializer(ctrl device.Controller) *console.Lifecycle {
	return &console.Lifecycle{
		Execute: func(ctx *console.Context) ([]string, error) {
			adapter, err := ctrl.DefaultAdapter()
			if err != nil {
				return ctx.Formatter.Error("No bluetooth adapter installed"), fmt.Errorf("initializing controller: %w", err)
			}

			text := format.NewText("Using ").
				AppendStyled(adapter.Name, format.Yellow).
				AppendStyled(" [", format.Blue).
				AppendStyled(adapter.Address, format.Yellow).
				AppendStyled("]", format.Blue).
				Append(" as bluetooth adapter")
			ctx.Logger.Info("using adapter", "name", adapter.Name, "address", adapter.Address)
			return []string{ctx.Formatter.Render(text)}, nil
		},
	}
}

// Deinitializer closes the controller and reports the outcome
func Deinitializer(ctrl device.Controller) *console.Lifecycle {
	return &console.Lifecycle{
		Execute: func(ctx *console.Context) ([]string, error) {
			if err := ctrl.Close(); err != nil {
				ctx.Logger.Error("could not close bluetooth session", "err", err)
				return ctx.Formatter.Errorf("Could not close bluetooth session: %v", err), nil
			}
			return ctx.Formatter.Success("Closed bluetooth session"), nil
		},
	}
}

package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"os/signal"
	"syscall"
	"time"

	"blecmd/commands"
	"blecmd/config"
	"blecmd/console"
	"blecmd/console/format"
	"blecmd/device"
	"blecmd/log"

	"github.com/spf13/cobra"
)

func main() {
	if err := newRootCommand().Execute(); err != nil {
		os.Exit(1)
	}
}

func newRootCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:           "blecmd",
		Short:         "Interactive shell for bluetooth low energy lights",
		Args:          cobra.NoArgs,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, _ []string) error {
			args, err := config.ArgsFromFlags(cmd.Flags())
			if err != nil {
				return err
			}
			cfg, err := config.LoadConfig(args.ConfigFile)
			if err != nil {
				_, _ = fmt.Fprintf(os.Stderr, "Config error: %v\n", err)
				return err
			}
			cfg.ApplyCommandLineArgs(args)
			if err := cfg.Validate(); err != nil {
				_, _ = fmt.Fprintf(os.Stderr, "Config error: %v\n", err)
				return err
			}

			logger, err := log.NewLogger(cfg.Log.Filename, cfg.Debug)
			if err != nil {
				_, _ = fmt.Fprintf(os.Stderr, "Log setup error: %v\n", err)
				return err
			}
			log.SetLogger(logger)
			defer log.SetLogger(nil)

			ctx, cancel := context.WithCancel(cmd.Context())
			defer cancel()

			// SIGINT, SIGTERM
			signalCh := make(chan os.Signal, 1)
			signal.Notify(signalCh, syscall.SIGINT, syscall.SIGTERM)
			defer signal.Stop(signalCh)
			go func() {
				select {
				case sig := <-signalCh:
					log.GetLogger().Info("signal received, shutting down", "signal", sig)
					cancel()
				case <-ctx.Done():
				}
			}()

			// SIGHUP rotates the log file
			rotateSignalCh := make(chan os.Signal, 1)
			signal.Notify(rotateSignalCh, syscall.SIGHUP)
			defer signal.Stop(rotateSignalCh)
			go func() {
				for {
					select {
					case <-rotateSignalCh:
						if err := log.GetLogger().Rotate(); err != nil {
							_, _ = fmt.Fprintf(os.Stderr, "Log rotation error: %v\n", err)
						}
					case <-ctx.Done():
						return
					}
				}
			}()

			return run(ctx, cfg, os.Stdin, os.Stdout, os.Stderr)
		},
	}
	config.RegisterFlags(cmd.Flags())
	return cmd
}

// run wires the controller, the commands and the shell, and drives one session.
// A session ended by the operator or by cancellation is not an error.
func run(ctx context.Context, cfg *config.Config, in io.ReadCloser, out, errOut io.Writer, opts ...console.ShellOption) error {
	logger := log.GetLogger()

	fleet := device.FromConfig(cfg, device.WithFleetLogger(logger.Logger))

	registry := console.NewRegistry(
		console.WithHelpWidth(cfg.Help.Width),
		console.WithRegistryLogger(logger.Logger),
	)
	scanTimeout := time.Duration(cfg.Device.ScanTimeout) * time.Second
	if err := commands.Register(registry, fleet, scanTimeout); err != nil {
		return fmt.Errorf("registering commands: %w", err)
	}

	colorMode, err := format.ParseColorMode(cfg.Color)
	if err != nil {
		return err
	}

	opts = append([]console.ShellOption{
		console.WithHistoryFile(cfg.History.File),
		console.WithHistoryLimit(cfg.History.Limit),
		console.WithColor(colorMode),
		console.WithLogger(logger.Logger),
	}, opts...)
	shell, err := console.NewShell(registry, in, out, errOut, opts...)
	if err != nil {
		return err
	}

	if err := shell.Initialize(ctx, commands.Initializer(fleet), commands.Deinitializer(fleet)); err != nil {
		logger.Error("could not initialize shell", "err", err)
		return err
	}

	err = shell.Run(ctx, cfg.Prompt)
	switch {
	case err == nil, console.IsTermination(err), errors.Is(err, context.Canceled):
		logger.Info("session ended", "reason", err)
		return nil
	default:
		logger.Error("session failed", "err", err)
		_, _ = fmt.Fprintf(errOut, "%v\n", err)
		return err
	}
}

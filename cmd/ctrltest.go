package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"sort"
	"syscall"

	"ctrltest/pkg/app"
	"ctrltest/pkg/app/config"
	"ctrltest/pkg/input"
	"ctrltest/pkg/port"

	"github.com/urfave/cli/v2"
	"github.com/womat/debug"
)

func main() {
	exitCode := 1
	defer func() {
		os.Exit(exitCode)
	}()

	// cfg holds the application configuration
	cfg := config.NewConfig()

	cliApp := &cli.App{
		Name:    app.MODULE,
		Usage:   "controller test screen for PC-FX controller ports",
		Version: app.VERSION,
		Description: "Show the device type and the live state of the controllers on port 1 and 2." +
			"\n The ports are read from a static sample, a script, a joystick device or a" +
			"\n controller port wired to gpio, once per frame of the vertical sync.",
		UsageText: "ctrltest [--config <file>] [--log standard|debug|trace] [command]" +
			"\n\nEXAMPLE:" +
			"\n\tstart the test screen and use the configuration file ctrltest.yaml" +
			"\n\t\tctrltest --config /opt/ctrltest/ctrltest.yaml" +
			"\n\trender a pad on port 1 and a mouse on port 2 once" +
			"\n\t\tctrltest render 0xF0000000 0xD0000000",
		Flags: []cli.Flag{
			&cli.StringFlag{Name: "config", Aliases: []string{"c"}, Destination: &cfg.Flag.ConfigFile, Usage: "load configuration from `FILE`"},
			&cli.StringFlag{Name: "log", Aliases: []string{"l"}, Destination: &cfg.Flag.Debug, Usage: "`LEVEL` defines the log level (standard|debug|trace)"},
		},
		Commands: []*cli.Command{
			{
				Name:      "render",
				Usage:     "render one frame of both ports and print the screen",
				ArgsUsage: "<port 1 sample> [<port 2 sample>]",
				Action: func(ctx *cli.Context) error {
					return render(ctx, cfg)
				},
			},
			{
				Name:      "classify",
				Usage:     "print the device type of raw samples",
				ArgsUsage: "<sample>...",
				Action: func(ctx *cli.Context) error {
					return classify(ctx, cfg)
				},
			},
		},
		Action: func(ctx *cli.Context) error {
			if err := cfg.LoadConfig(); err != nil {
				return err
			}

			debug.SetDebug(cfg.Debug.File, cfg.Debug.Flag)
			defer func() {
				debug.InfoLog.Printf("closing debug file %s", cfg.Debug.FileString)
				_ = cfg.Debug.File.Close()
			}()

			a, err := app.New(cfg)
			defer func() {
				debug.InfoLog.Printf("closing app %s", app.Version())
				_ = a.Close()
			}()

			if err != nil {
				return err
			}

			// capture exit signals to ensure resources are released on exit.
			sigCtx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
			defer stop()

			debug.InfoLog.Printf("starting app %s", app.Version())
			if err = a.Run(sigCtx); err != nil {
				return err
			}

			// wait for an os.Interrupt signal (CTRL C)
			a.Wait()
			debug.InfoLog.Print("got signal, aborting...")
			return nil
		},
	}

	// we expect to have more command line flags in the future - sort them
	sort.Sort(cli.FlagsByName(cliApp.Flags))
	sort.Sort(cli.CommandsByName(cliApp.Commands))

	err := cliApp.Run(os.Args)
	if err != nil {
		debug.FatalLog.Print(err)
		exitCode = 1
		return
	}

	exitCode = 0
	return
}

// render prints the screen for the samples given as arguments.
func render(ctx *cli.Context, cfg *config.Config) error {
	if err := cfg.LoadConfig(); err != nil {
		return err
	}
	if ctx.NArg() < 1 || ctx.NArg() > 2 {
		return fmt.Errorf("render needs one or two samples")
	}

	one, err := input.ParseSample(ctx.Args().Get(0))
	if err != nil {
		return err
	}
	var two port.RawSample
	if ctx.NArg() == 2 {
		if two, err = input.ParseSample(ctx.Args().Get(1)); err != nil {
			return err
		}
	}

	text, err := app.RenderOnce(cfg.Tags, one, two)
	if err != nil {
		return err
	}
	_, err = fmt.Fprint(ctx.App.Writer, text)
	return err
}

// classify prints the device type of each sample given as argument.
func classify(ctx *cli.Context, cfg *config.Config) error {
	if err := cfg.LoadConfig(); err != nil {
		return err
	}
	if ctx.NArg() == 0 {
		return fmt.Errorf("classify needs at least one sample")
	}

	for _, arg := range ctx.Args().Slice() {
		s, err := input.ParseSample(arg)
		if err != nil {
			return err
		}
		t, err := app.Classify(cfg.Tags, s)
		if err != nil {
			return err
		}
		fmt.Fprintf(ctx.App.Writer, "%s %v\n", s.Hex(), t)
	}
	return nil
}

package app

import (
	"context"
	"fmt"

	"ctrltest/pkg/app/config"
	"ctrltest/pkg/frameclock"
	"ctrltest/pkg/input"
	"ctrltest/pkg/joystick"
	"ctrltest/pkg/port"
	"ctrltest/pkg/raspberry"

	"github.com/womat/debug"
)

// initPorts assigns the configured input source to each port.
func (app *App) initPorts(ctx context.Context) error {
	for n, pc := range app.config.Ports {
		r, err := app.newReader(ctx, port.Number(n), pc)
		if err != nil {
			return fmt.Errorf("port %d: %w", n, err)
		}
		if err = app.mux.Set(port.Number(n), r); err != nil {
			return err
		}
		debug.InfoLog.Printf("port %d: %s source", n, pc.Source)
	}
	return nil
}

func (app *App) newReader(ctx context.Context, n port.Number, pc config.PortConfig) (port.Reader, error) {
	switch pc.Source {
	case "static", "":
		s, err := staticSample(pc.Sample)
		if err != nil {
			return nil, err
		}
		return input.NewStatic(s), nil

	case "script":
		return input.LoadScript(pc.Script)

	case "joystick":
		m := joystick.DefaultMapping()
		if len(pc.Buttons) > 0 {
			b, err := joystick.ParseButtons(pc.Buttons)
			if err != nil {
				return nil, err
			}
			m.Buttons = b
		}
		// both axes zero keeps the default axes
		if pc.AxisX != 0 || pc.AxisY != 0 {
			m.AxisX, m.AxisY = uint8(pc.AxisX), uint8(pc.AxisY)
		}
		if pc.Deadzone > 0 {
			m.Deadzone = int16(pc.Deadzone)
		}
		return joystick.Open(ctx, pc.Device, m), nil

	case "gpio":
		chip, err := app.gpioChip()
		if err != nil {
			return nil, err
		}
		p, err := chip.NewPadPort(raspberry.PadLines{
			Latch:      pc.Gpio.Latch,
			Clock:      pc.Gpio.Clock,
			Data:       pc.Gpio.Data,
			ActiveLow:  pc.Gpio.ActiveLow,
			Terminator: pc.Gpio.Terminator,
			HalfPeriod: pc.Gpio.HalfPeriod,
		})
		if err != nil {
			return nil, err
		}
		app.closers = append(app.closers, p)
		return p, nil
	}

	return nil, fmt.Errorf("unknown source %q", pc.Source)
}

func staticSample(s string) (port.RawSample, error) {
	if s == "" {
		return 0, nil
	}
	return input.ParseSample(s)
}

// gpioChip opens the gpio chip on first use.
func (app *App) gpioChip() (*raspberry.Chip, error) {
	if app.chip != nil {
		return app.chip, nil
	}

	c, err := raspberry.Open()
	if err != nil {
		return nil, fmt.Errorf("can't open gpio: %w", err)
	}
	app.chip = c
	return c, nil
}

// initVSync starts the tick source of the frame clock.
func (app *App) initVSync(ctx context.Context) error {
	cfg := app.config.VSync

	switch cfg.Source {
	case "gpio":
		edge, err := raspberry.ParseEdge(cfg.Edge)
		if err != nil {
			return err
		}
		v, err := raspberry.OpenVSync(cfg.Gpio, edge, cfg.BounceTime, app.clock.OnVBlank)
		if err != nil {
			return err
		}
		app.closers = append(app.closers, v)
		go emulateVSync(ctx, v, app.config.FrameRate)
		debug.InfoLog.Printf("vsync on gpio %d, %s edge", cfg.Gpio, edge)

	case "ticker", "":
		t, err := frameclock.NewTicker(app.clock, app.config.FrameRate)
		if err != nil {
			return err
		}
		go t.Run(ctx)
		debug.InfoLog.Printf("vsync ticker every %v", t.Period())

	default:
		return fmt.Errorf("unknown vsync source %q", cfg.Source)
	}
	return nil
}

package app

import (
	"context"
	"fmt"
	"io"
	"net/url"
	"os"
	"sync"
	"sync/atomic"

	"ctrltest/pkg/app/config"
	"ctrltest/pkg/device"
	"ctrltest/pkg/frameclock"
	"ctrltest/pkg/input"
	"ctrltest/pkg/loop"
	"ctrltest/pkg/mqtt"
	"ctrltest/pkg/panel"
	"ctrltest/pkg/port"
	"ctrltest/pkg/raspberry"
	"ctrltest/pkg/screen"

	"github.com/gofiber/fiber/v2"
	"github.com/womat/debug"
)

// App is the main application struct.
// App is where the application is wired up.
type App struct {
	// web is the fiber web framework instance
	web *fiber.App

	// config is the application configuration
	config *config.Config

	// urlParsed contains the parsed Config.Url parameter
	// and makes it easier to get params out of e.g.
	// url: https://0.0.0.0:7844/?minTls=1.2&bodyLimit=50MB
	urlParsed *url.URL

	// mqtt is the handler to the mqtt broker
	mqtt *mqtt.Handler

	// chip is the gpio chip, opened when a port or the vsync uses gpio
	chip *raspberry.Chip
	// closers are the input and tick sources to release on Close
	closers []io.Closer

	classifier *device.Classifier
	mux        *input.Mux
	sampler    *port.Sampler
	clock      *frameclock.Clock
	plane      *screen.Plane
	renderer   *panel.Renderer
	terminal   *screen.Terminal
	loop       *loop.Loop

	// status is the state of both ports after the last rendered frame
	status atomic.Pointer[Status]
	// published is the state last sent to the mqtt broker per port
	published [len(port.Ports)]published

	// cancel stops the main loop and the sources
	cancel context.CancelFunc
	// done is closed when the main loop returned
	done chan struct{}
	// closeOnce makes Close safe to call more than once
	closeOnce sync.Once
}

// New checks the configuration and wires the frame clock, sampler and renderer.
func New(config *config.Config) (*App, error) {
	u, err := url.Parse(config.Webserver.URL)
	if err != nil {
		debug.ErrorLog.Printf("Error parsing url %q: %s", config.Webserver.URL, err.Error())
		return &App{}, err
	}

	c, err := NewClassifier(config.Tags)
	if err != nil {
		return &App{}, err
	}

	app := &App{
		config:     config,
		urlParsed:  u,
		web:        fiber.New(fiber.Config{DisableStartupMessage: true}),
		mqtt:       mqtt.New(),
		classifier: c,
		mux:        input.NewMux(),
		plane:      screen.NewPlane(),
		done:       make(chan struct{}),
	}

	app.sampler = port.NewSampler(app.mux, c)
	app.clock = frameclock.New(app.sampler.LatchAll)
	app.renderer = panel.New(app.plane, c, ScreenVersion())
	app.loop = loop.New(app.clock, app.sampler, app.renderer)
	app.loop.Observe(app.collect)

	return app, nil
}

// NewClassifier returns the default classification with the tag assignments of the configuration.
func NewClassifier(tags map[int]string) (*device.Classifier, error) {
	c := device.NewClassifier()
	for tag, name := range tags {
		k, err := device.ParseKind(name)
		if err != nil {
			return nil, fmt.Errorf("tag %#x: %w", tag, err)
		}
		if tag < 0 {
			return nil, fmt.Errorf("%w: %d", device.ErrInvalidTag, tag)
		}
		if err = c.Assign(uint8(tag), k); err != nil {
			return nil, err
		}
	}
	return c, nil
}

// Run starts the application. The main loop runs until ctx is done or Close is called.
func (app *App) Run(ctx context.Context) error {
	ctx, app.cancel = context.WithCancel(ctx)

	if err := app.init(ctx); err != nil {
		close(app.done)
		return err
	}

	go app.mqtt.Service()
	if app.urlParsed.Host != "" {
		go app.runWebServer()
	}

	go func() {
		defer close(app.done)
		if err := app.loop.Run(ctx); err != nil {
			debug.ErrorLog.Printf("main loop: %v", err)
		}
	}()

	return nil
}

// init initializes the application.
func (app *App) init(ctx context.Context) (err error) {
	if err = app.initPorts(ctx); err != nil {
		debug.ErrorLog.Printf("can't open ports: %v", err)
		return err
	}

	if err = app.initVSync(ctx); err != nil {
		debug.ErrorLog.Printf("can't start vsync: %v", err)
		return err
	}

	if err = app.mqtt.Connect(app.config.MQTT.Connection, MODULE); err != nil {
		debug.ErrorLog.Printf("can't open mqtt broker %v", err)
		return err
	}

	if app.config.Display.Terminal {
		app.terminal = screen.NewTerminal(app.plane, os.Stdout, os.Stdin)
		app.loop.Observe(app.present)
	}

	// initDefaultRoutes should be always called last because it may access things
	// which must be initialized before
	app.initDefaultRoutes()

	return nil
}

// present draws the frame's changes on the terminal.
func (app *App) present(loop.Frame) {
	if err := app.terminal.Present(); err != nil {
		debug.ErrorLog.Printf("terminal: %v", err)
	}
}

// Wait returns when the main loop stopped.
func (app *App) Wait() {
	<-app.done
}

// Close stops the main loop and releases all sources. Only the first call has an effect.
func (app *App) Close() error {
	app.closeOnce.Do(app.close)
	return nil
}

func (app *App) close() {
	if app.cancel != nil {
		app.cancel()
		<-app.done
	}

	if app.terminal != nil {
		_ = app.terminal.Close()
	}

	if app.web != nil {
		_ = app.web.Shutdown()
	}

	if app.mqtt != nil {
		close(app.mqtt.C)
		_ = app.mqtt.Disconnect()
	}

	for _, c := range app.closers {
		if err := c.Close(); err != nil {
			debug.ErrorLog.Printf("close: %v", err)
		}
	}

	if app.chip != nil {
		_ = app.chip.Close()
	}
}

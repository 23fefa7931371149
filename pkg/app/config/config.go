package config

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"time"

	"github.com/womat/debug"
	"gopkg.in/yaml.v2"
)

// Config defines the struct of global config and the struct of the configuration file
type Config struct {
	FrameRate float64            `yaml:"framerate"`
	VSync     VSyncConfig        `yaml:"vsync"`
	Ports     map[int]PortConfig `yaml:"ports"`
	// Tags assigns a device kind (none, pad, mouse, unknown) to a tag nibble.
	Tags      map[int]string  `yaml:"tags"`
	Display   DisplayConfig   `yaml:"display"`
	Flag      FlagConfig      `yaml:"-"`
	Debug     DebugConfig     `yaml:"debug"`
	Webserver WebserverConfig `yaml:"webserver"`
	MQTT      MQTTConfig      `yaml:"mqtt"`
}

// FlagConfig defines the configured flags (parameters)
type FlagConfig struct {
	Debug      string
	ConfigFile string
}

// VSyncConfig defines the tick source of the frame clock.
type VSyncConfig struct {
	// Source is ticker (timer at FrameRate) or gpio (vertical sync pin).
	Source        string        `yaml:"source"`
	Gpio          int           `yaml:"gpio"`
	Edge          string        `yaml:"edge"`
	BounceTimeInt int           `yaml:"bouncetime"`
	BounceTime    time.Duration `yaml:"-"`
}

// PortConfig defines the input source of a controller port.
type PortConfig struct {
	// Source is static, script, joystick or gpio.
	Source string `yaml:"source"`
	// Sample is the raw sample of a static source, e.g. 0xF0000000.
	Sample string `yaml:"sample"`
	// Script is the yaml file of a script source.
	Script string `yaml:"script"`
	// Device is the joystick device, e.g. /dev/input/js0.
	Device   string         `yaml:"device"`
	Buttons  map[int]string `yaml:"buttons"`
	AxisX    int            `yaml:"axisx"`
	AxisY    int            `yaml:"axisy"`
	Deadzone int            `yaml:"deadzone"`
	Gpio     GpioPortConfig `yaml:"gpio"`
}

// GpioPortConfig defines the gpio lines of a controller port.
type GpioPortConfig struct {
	Latch         int           `yaml:"latch"`
	Clock         int           `yaml:"clock"`
	Data          int           `yaml:"data"`
	ActiveLow     bool          `yaml:"activelow"`
	Terminator    string        `yaml:"terminator"`
	HalfPeriodInt int           `yaml:"halfperiod"`
	HalfPeriod    time.Duration `yaml:"-"`
}

// DisplayConfig defines the local output of the test screen.
type DisplayConfig struct {
	Terminal bool `yaml:"terminal"`
}

// WebserverConfig defines the struct of the webserver and webservice configuration and configuration file
type WebserverConfig struct {
	URL         string          `yaml:"url"`
	Webservices map[string]bool `yaml:"webservices"`
}

// MQTTConfig defines the struct of the mqtt client configuration and configuration file
type MQTTConfig struct {
	Connection  string        `yaml:"connection"`
	Interval    time.Duration `yaml:"-"`
	IntervalInt int           `yaml:"interval"`
	Topic       string        `yaml:"topic"`
}

// DebugConfig defines the struct of the debug configuration and configuration file
type DebugConfig struct {
	File       io.WriteCloser `yaml:"-"`
	Flag       int            `yaml:"-"`
	FlagString string         `yaml:"flag"`
	FileString string         `yaml:"file"`
}

// DefaultLogFile receives the log while the terminal panel is shown and no debug file is configured.
var DefaultLogFile = filepath.Join(os.TempDir(), "ctrltest.log")

func NewConfig() *Config {
	return &Config{
		FrameRate: 60,
		VSync: VSyncConfig{
			Source: "ticker",
			Edge:   "rising",
		},
		Ports: map[int]PortConfig{
			1: {Source: "static", Sample: "0xF0000000"},
			2: {Source: "static", Sample: "0x00000000"},
		},
		Tags:    map[int]string{},
		Display: DisplayConfig{Terminal: true},
		Flag:    FlagConfig{},
		Debug: DebugConfig{
			FlagString: "standard",
		},
		Webserver: WebserverConfig{
			URL: "http://0.0.0.0:4000",
			Webservices: map[string]bool{
				"version": true,
				"health":  true,
				"data":    true,
				"screen":  true,
			},
		},
		MQTT: MQTTConfig{
			Interval:    time.Second,
			IntervalInt: 1,
			Topic:       "ctrltest",
		},
	}
}

// LoadConfig reads the configuration file, if one is given, over the defaults.
func (c *Config) LoadConfig() error {
	if c.Flag.ConfigFile != "" {
		if err := c.readConfigFile(); err != nil {
			return fmt.Errorf("error reading config file %q: %w", c.Flag.ConfigFile, err)
		}
	}

	if c.Flag.Debug != "" {
		c.Debug.FlagString = c.Flag.Debug
	}
	if err := c.setDebugConfig(); err != nil {
		return fmt.Errorf("unable to set debug config %q: %w", c.Debug.FileString, err)
	}

	for n, p := range c.Ports {
		if n != 1 && n != 2 {
			return fmt.Errorf("invalid port %d in config, only ports 1 and 2 exist", n)
		}
		p.Gpio.HalfPeriod = time.Duration(p.Gpio.HalfPeriodInt) * time.Microsecond
		c.Ports[n] = p
	}

	c.MQTT.Interval = time.Duration(c.MQTT.IntervalInt) * time.Second
	c.VSync.BounceTime = time.Duration(c.VSync.BounceTimeInt) * time.Microsecond

	return nil
}

func (c *Config) readConfigFile() error {
	file, err := os.Open(c.Flag.ConfigFile)
	if err != nil {
		return err
	}
	defer func() { _ = file.Close() }()

	decoder := yaml.NewDecoder(file)
	if err = decoder.Decode(c); err != nil {
		return err
	}

	return nil
}

func (c *Config) setDebugConfig() (err error) {
	// defines Debug section of global.Config
	switch c.Debug.FlagString {
	case "trace", "full":
		c.Debug.Flag = debug.Full
	case "debug":
		c.Debug.Flag = debug.Warning | debug.Info | debug.Error | debug.Fatal | debug.Debug
	case "standard":
		c.Debug.Flag = debug.Standard
	default:
		return fmt.Errorf("unknown debug flag %q", c.Debug.FlagString)
	}

	if c.Debug.FileString == "" {
		// stderr shares the tty with the terminal panel
		c.Debug.FileString = "stderr"
		if c.Display.Terminal {
			c.Debug.FileString = DefaultLogFile
		}
	}

	switch c.Debug.FileString {
	case "stderr":
		c.Debug.File = os.Stderr
	case "stdout":
		c.Debug.File = os.Stdout
	default:
		if c.Debug.File, err = os.OpenFile(c.Debug.FileString, os.O_RDWR|os.O_CREATE|os.O_APPEND, 0o666); err != nil {
			return
		}
	}

	return
}

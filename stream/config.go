package stream

import (
	"errors"
	"fmt"
	"os"

	"github.com/lucasb-eyer/go-colorful"
	"gopkg.in/yaml.v2"
)

// Config is read from the YAML file given to the run command.
type Config struct {
	Mqtt struct {
		URL      string `yaml:"url"`
		Username string `yaml:"username"`
		Password string `yaml:"password"`
		ClientID string `yaml:"clientID"`
		QoS      byte   `yaml:"qos"`
		Topics   struct {
			Stream      string `yaml:"stream"`
			Events      string `yaml:"events"`
			Completions string `yaml:"completions"`
		} `yaml:"topics"`
	} `yaml:"mqtt"`
	Frame struct {
		Pixels       int     `yaml:"pixels"`
		RateHz       float64 `yaml:"rateHz"`
		Background   string  `yaml:"background"`
		TransitionMs int64   `yaml:"transitionMs"`
	} `yaml:"frame"`
	API struct {
		Listen string `yaml:"listen"`
	} `yaml:"api"`
	Scene   string `yaml:"scene"`
	Verbose bool   `yaml:"verbose"`
}

// LoadConfig reads, defaults and validates a config file.
func LoadConfig(path string) (Config, error) {
	var c Config
	data, err := os.ReadFile(path)
	if err != nil {
		return c, fmt.Errorf("failed to read config file: %w", err)
	}
	if err := yaml.Unmarshal(data, &c); err != nil {
		return c, fmt.Errorf("failed to parse config file: %w", err)
	}
	c.applyDefaults()
	if err := c.validate(); err != nil {
		return c, fmt.Errorf("invalid config: %w", err)
	}
	return c, nil
}

func (c *Config) applyDefaults() {
	if c.Mqtt.ClientID == "" {
		c.Mqtt.ClientID = "ledchart"
	}
	if c.Mqtt.Topics.Stream == "" {
		c.Mqtt.Topics.Stream = "ledchart/stream"
	}
	if c.Mqtt.Topics.Events == "" {
		c.Mqtt.Topics.Events = "ledchart/events"
	}
	if c.Mqtt.Topics.Completions == "" {
		c.Mqtt.Topics.Completions = "ledchart/completions"
	}
	if c.Frame.Pixels == 0 {
		c.Frame.Pixels = 500
	}
	if c.Frame.RateHz == 0 {
		c.Frame.RateHz = 30
	}
	if c.Frame.Background == "" {
		c.Frame.Background = "#000005"
	}
	if c.Frame.TransitionMs == 0 {
		c.Frame.TransitionMs = 1000
	}
	if c.API.Listen == "" {
		c.API.Listen = ":3000"
	}
}

func (c *Config) validate() error {
	if c.Mqtt.URL == "" {
		return errors.New("mqtt.url must be set")
	}
	if c.Mqtt.QoS > 2 {
		return fmt.Errorf("mqtt.qos must be 0, 1 or 2, got %d", c.Mqtt.QoS)
	}
	if c.Frame.Pixels < 1 || c.Frame.Pixels > MaxPixels {
		return fmt.Errorf("frame.pixels must be between 1 and %d, got %d", MaxPixels, c.Frame.Pixels)
	}
	if c.Frame.RateHz <= 0 || c.Frame.RateHz > 240 {
		return fmt.Errorf("frame.rateHz must be above 0 and at most 240, got %v", c.Frame.RateHz)
	}
	if c.Frame.TransitionMs < 0 {
		return errors.New("frame.transitionMs must not be negative")
	}
	if _, err := colorful.Hex(c.Frame.Background); err != nil {
		return fmt.Errorf("frame.background: %w", err)
	}
	return nil
}

// BackgroundColour returns the parsed frame background.
func (c Config) BackgroundColour() colorful.Color {
	bg, _ := colorful.Hex(c.Frame.Background)
	return bg
}

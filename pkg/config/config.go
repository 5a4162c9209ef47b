// Package config holds the controller configuration. The defaults carry the
// constants the firmware historically hard-coded (pin assignments, averaging
// windows, alarm capacity) so a missing or partial YAML file still yields a
// fully working setup.
package config

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

// Transfer function names accepted in ChannelConfig.Transfer.
const (
	TransferMPXV7002 = "mpxv7002" // differential flow sensor
	TransferMPXV5004 = "mpxv5004" // single-ended patient pressure sensor
)

// Config represents the controller configuration.
type Config struct {
	Serial   SerialConfig    `yaml:"serial"`
	ADC      ADCConfig       `yaml:"adc"`
	Channels []ChannelConfig `yaml:"channels"`
	Alarms   AlarmConfig     `yaml:"alarms"`
}

// SerialConfig contains the serial bridge configuration.
type SerialConfig struct {
	Port string `yaml:"port"`
	Baud int    `yaml:"baud"`
}

// ADCConfig describes the analog converter of the target board.
type ADCConfig struct {
	VRef           float32 `yaml:"vref"`            // reference voltage (V)
	ResolutionBits int     `yaml:"resolution_bits"` // 10 for the Uno
}

// ChannelConfig describes one pressure sensor channel.
type ChannelConfig struct {
	Name     string `yaml:"name"`     // channel id used by readers
	Pin      uint8  `yaml:"pin"`      // analog pin number (0 = A0, ...)
	Transfer string `yaml:"transfer"` // transfer function name
	Window   int    `yaml:"window"`   // moving-average window size
}

// AlarmConfig sizes the alarm store.
type AlarmConfig struct {
	Capacity int `yaml:"capacity"`
}

// Default returns the reference configuration: two MPXV7002 differential
// channels with a 4-sample window and one MPXV5004 patient channel with a
// 2-sample window.
func Default() *Config {
	return &Config{
		Serial: SerialConfig{
			Port: "/dev/ttyACM0",
			Baud: 115200,
		},
		ADC: ADCConfig{
			VRef:           5.0,
			ResolutionBits: 10,
		},
		Channels: []ChannelConfig{
			{Name: "inhalation", Pin: 0, Transfer: TransferMPXV7002, Window: 4},
			{Name: "exhalation", Pin: 1, Transfer: TransferMPXV7002, Window: 4},
			{Name: "patient", Pin: 3, Transfer: TransferMPXV5004, Window: 2},
		},
		Alarms: AlarmConfig{
			Capacity: 8,
		},
	}
}

// Load loads configuration from a YAML file. If the file doesn't exist or
// fields are missing, it uses default values.
func Load(filename string) (*Config, error) {
	cfg := Default()

	data, err := os.ReadFile(filename)
	if err != nil {
		if os.IsNotExist(err) {
			// File doesn't exist, return defaults
			return cfg, nil
		}
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}

	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config file: %w", err)
	}

	cfg.ensureDefaults()

	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	return cfg, nil
}

// Save saves the configuration to a YAML file.
func (c *Config) Save(filename string) error {
	data, err := yaml.Marshal(c)
	if err != nil {
		return fmt.Errorf("failed to marshal config: %w", err)
	}

	if err := os.WriteFile(filename, data, 0644); err != nil {
		return fmt.Errorf("failed to write config file: %w", err)
	}

	return nil
}

// ensureDefaults ensures that all required fields have default values if missing.
func (c *Config) ensureDefaults() {
	def := Default()

	if c.Serial.Port == "" {
		c.Serial.Port = def.Serial.Port
	}
	if c.Serial.Baud == 0 {
		c.Serial.Baud = def.Serial.Baud
	}

	if c.ADC.VRef == 0 {
		c.ADC.VRef = def.ADC.VRef
	}
	if c.ADC.ResolutionBits == 0 {
		c.ADC.ResolutionBits = def.ADC.ResolutionBits
	}

	if len(c.Channels) == 0 {
		c.Channels = def.Channels
	}
	for i := range c.Channels {
		if c.Channels[i].Window == 0 {
			c.Channels[i].Window = 1
		}
	}

	if c.Alarms.Capacity == 0 {
		c.Alarms.Capacity = def.Alarms.Capacity
	}
}

// Validate checks the configuration for values the controller cannot work
// with. It does not touch hardware.
func (c *Config) Validate() error {
	if c.ADC.VRef <= 0 {
		return fmt.Errorf("invalid vref: %v", c.ADC.VRef)
	}
	if c.ADC.ResolutionBits <= 0 || c.ADC.ResolutionBits > 16 {
		return fmt.Errorf("invalid adc resolution: %d bits", c.ADC.ResolutionBits)
	}
	if c.Alarms.Capacity < 1 {
		return fmt.Errorf("invalid alarm capacity: %d", c.Alarms.Capacity)
	}

	seen := make(map[string]bool, len(c.Channels))
	for _, ch := range c.Channels {
		if ch.Name == "" {
			return fmt.Errorf("channel with empty name")
		}
		if seen[ch.Name] {
			return fmt.Errorf("duplicate channel name: %s", ch.Name)
		}
		seen[ch.Name] = true

		if ch.Window < 1 {
			return fmt.Errorf("channel %s: invalid window size %d", ch.Name, ch.Window)
		}
		switch ch.Transfer {
		case TransferMPXV7002, TransferMPXV5004:
		default:
			return fmt.Errorf("channel %s: unknown transfer function %q", ch.Name, ch.Transfer)
		}
	}

	return nil
}

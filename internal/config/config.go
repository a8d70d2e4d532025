package config

import (
	"bytes"
	"fmt"
	"os"
	"time"

	"gopkg.in/yaml.v3"
)

type Config struct {
	HPD HPDConfig `yaml:"hpd"`
}

type HPDConfig struct {
	Backend string `yaml:"backend"`
	Device  string `yaml:"device"`
	Chip    string `yaml:"chip"`
	// RTThresholdUsec is the longest pulse interval, in microseconds, that
	// still escalates to real-time scheduling. Zero means unset; the board
	// default applies.
	RTThresholdUsec int                   `yaml:"rt_threshold_us"`
	DefaultPort     string                `yaml:"default_port"`
	Ports           map[string]PortConfig `yaml:"ports"`
}

// RTThreshold returns the escalation threshold as a duration.
func (c HPDConfig) RTThreshold() time.Duration {
	return time.Duration(c.RTThresholdUsec) * time.Microsecond
}

type PortConfig struct {
	// Address and Mask locate the port's HPD bit for the mem backend.
	Address uint64 `yaml:"address"`
	Mask    uint8  `yaml:"mask"`
	// Line names the port's HPD line for the gpiod backend. A line name or
	// a numeric chip offset.
	Line string `yaml:"line"`
}

// Default is the board's standard register map: the three video inputs'
// HPD bits in the FPGA GPIO block.
func Default() Config {
	return Config{HPD: HPDConfig{
		Backend:         "mem",
		Device:          "/dev/mem",
		Chip:            "/dev/gpiochip0",
		RTThresholdUsec: 50000,
		DefaultPort:     "hdmi",
		Ports: map[string]PortConfig{
			"dp1":  {Address: 0xff21a004, Mask: 0x1},
			"dp2":  {Address: 0xff21a008, Mask: 0x1},
			"hdmi": {Address: 0xff21a00c, Mask: 0x1},
		},
	}}
}

// Load reads a YAML config file. A missing file is not an error: the
// built-in board defaults apply, so the tool works out of the box on the
// standard register map.
func Load(path string) (Config, error) {
	b, err := os.ReadFile(path)
	if os.IsNotExist(err) {
		return Default(), nil
	}
	if err != nil {
		return Config{}, err
	}

	var cfg Config
	dec := yaml.NewDecoder(bytes.NewReader(b))
	dec.KnownFields(true)
	if err := dec.Decode(&cfg); err != nil {
		return Config{}, fmt.Errorf("config contains unknown fields or bad values: %v", err)
	}

	def := Default().HPD
	if cfg.HPD.Backend == "" {
		cfg.HPD.Backend = def.Backend
	}
	if cfg.HPD.Device == "" {
		cfg.HPD.Device = def.Device
	}
	if cfg.HPD.Chip == "" {
		cfg.HPD.Chip = def.Chip
	}
	if cfg.HPD.RTThresholdUsec == 0 {
		cfg.HPD.RTThresholdUsec = def.RTThresholdUsec
	}
	if len(cfg.HPD.Ports) == 0 {
		cfg.HPD.Ports = def.Ports
	}
	if cfg.HPD.DefaultPort == "" {
		cfg.HPD.DefaultPort = def.DefaultPort
	}

	if cfg.HPD.Backend != "mem" && cfg.HPD.Backend != "gpiod" {
		return Config{}, fmt.Errorf("hpd.backend must be 'mem' or 'gpiod'")
	}
	if cfg.HPD.RTThresholdUsec < 0 {
		return Config{}, fmt.Errorf("hpd.rt_threshold_us must not be negative")
	}
	for name, port := range cfg.HPD.Ports {
		switch cfg.HPD.Backend {
		case "mem":
			if port.Address == 0 {
				return Config{}, fmt.Errorf("hpd.ports.%s.address is required when hpd.backend is 'mem'", name)
			}
			if port.Mask == 0 {
				return Config{}, fmt.Errorf("hpd.ports.%s.mask is required when hpd.backend is 'mem'", name)
			}
		case "gpiod":
			if port.Line == "" {
				return Config{}, fmt.Errorf("hpd.ports.%s.line is required when hpd.backend is 'gpiod'", name)
			}
		}
	}
	if _, ok := cfg.HPD.Ports[cfg.HPD.DefaultPort]; !ok {
		return Config{}, fmt.Errorf("hpd.default_port %q is not a configured port", cfg.HPD.DefaultPort)
	}

	return cfg, nil
}

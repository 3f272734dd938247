package config

import (
	"fmt"
	"os"

	"github.com/mitchellh/mapstructure"
	"go.uber.org/multierr"
	"gopkg.in/yaml.v3"
)

type Config struct {
	Loglevel string `yaml:"loglevel"`

	Listen Listen `yaml:"listen"`

	Profiles []Profile `yaml:"profiles"`
}

// Listen configures the datagram listener command.
type Listen struct {
	Addr    string `yaml:"addr"`
	Family  string `yaml:"family"`
	Echo    bool   `yaml:"echo"`
	Profile string `yaml:"profile"`
}

// Profile is a named bundle of socket tuning values. Spec is decoded on
// demand into a concrete spec struct.
type Profile struct {
	Name string                 `yaml:"name"`
	Spec map[string]interface{} `yaml:"spec"`
}

// LoadProfileConfig loads the specific configuration for a profile
func (p *Profile) LoadProfileConfig(target interface{}) error {
	return mapstructure.Decode(p.Spec, target)
}

func Load(filename string) (*Config, error) {
	data, err := os.ReadFile(filename)
	if err != nil {
		return nil, err
	}

	cfg := Default()
	if err = yaml.Unmarshal(data, cfg); err != nil {
		return nil, err
	}

	return cfg, nil
}

func Default() *Config {
	return &Config{
		Loglevel: "info",
		Listen: Listen{
			Addr:   ":0",
			Family: "ipv4",
		},
	}
}

// Profile looks up a tuning profile by name.
func (c *Config) Profile(name string) (*Profile, bool) {
	for i := range c.Profiles {
		if c.Profiles[i].Name == name {
			return &c.Profiles[i], true
		}
	}
	return nil, false
}

// Validate reports every configuration problem at once.
func (c *Config) Validate() error {
	var errs error

	seen := make(map[string]struct{}, len(c.Profiles))
	for i, p := range c.Profiles {
		if p.Name == "" {
			errs = multierr.Append(errs, fmt.Errorf("profiles[%d]: name is required", i))
			continue
		}
		if _, dup := seen[p.Name]; dup {
			errs = multierr.Append(errs, fmt.Errorf("profiles[%d]: duplicate name %q", i, p.Name))
		}
		seen[p.Name] = struct{}{}
	}

	if c.Listen.Profile != "" {
		if _, ok := seen[c.Listen.Profile]; !ok {
			errs = multierr.Append(errs, fmt.Errorf("listen: unknown profile %q", c.Listen.Profile))
		}
	}

	return errs
}

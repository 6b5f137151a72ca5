package resteg

import (
	"bytes"
	"errors"
	"fmt"
	"io"

	"gopkg.in/yaml.v3"

	"github.com/teenjuna/resteg/placement"
)

// Profile is a shareable description of codec settings. The strength and placement are not
// recorded in the carrier, so encoding and decoding sides typically agree on them by exchanging a
// profile:
//
//	strength: strong
//	placement: spiral
//	workers: 4
//
// A custom code is described with strength "custom" and explicit n and k.
type Profile struct {
	Strength  string `yaml:"strength"`
	N         int    `yaml:"n,omitempty"`
	K         int    `yaml:"k,omitempty"`
	Placement string `yaml:"placement,omitempty"`
	Workers   int    `yaml:"workers,omitempty"`
}

// ParseProfile parses a YAML profile. Unknown keys are rejected. An empty document yields the
// default profile.
func ParseProfile(data []byte) (*Profile, error) {
	var p Profile

	dec := yaml.NewDecoder(bytes.NewReader(data))
	dec.KnownFields(true)
	if err := dec.Decode(&p); err != nil && !errors.Is(err, io.EOF) {
		return nil, fmt.Errorf("parse profile: %w", err)
	}

	return &p, nil
}

// Marshal returns the YAML form of the profile.
func (p *Profile) Marshal() ([]byte, error) {
	return yaml.Marshal(p)
}

// ConfigFunc returns a [ConfigFunc] applying the profile.
//
// Returns an error matching [ErrConfiguration] for an unknown strength or placement, or for
// a negative worker count.
func (p *Profile) ConfigFunc() (ConfigFunc, error) {
	var strength Strength
	switch {
	case p.Strength == "custom" || (p.Strength == "" && (p.N != 0 || p.K != 0)):
		strength = Custom(p.N, p.K)
	default:
		s, err := ParseStrength(p.Strength)
		if err != nil {
			return nil, err
		}
		strength = s
	}

	strategy, err := placement.Parse(p.Placement)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrConfiguration, err)
	}

	if p.Workers < 0 {
		return nil, fmt.Errorf("%w: workers can't be < 0", ErrConfiguration)
	}

	return func(c *Config) {
		c.Strength(strength)
		c.Placement(strategy)
		if p.Workers > 0 {
			c.Workers(p.Workers)
		}
	}, nil
}

// Profile returns the profile describing the codec settings.
func (c *Codec) Profile() *Profile {
	p := &Profile{
		Strength:  c.cfg.strength.name,
		Placement: c.cfg.placement.Name(),
		Workers:   c.cfg.workers,
	}
	if p.Strength == "custom" {
		p.N, p.K = c.cfg.strength.n, c.cfg.strength.k
	}
	return p
}

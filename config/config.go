// Package config loads the settings of an engine.Context from TOML or YAML files.
package config

import (
	"bytes"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/BurntSushi/toml"
	"github.com/pkg/errors"
	"gopkg.in/yaml.v3"

	"github.com/ichiban/bignum/engine"
)

// Format is an encoding of a config file.
type Format int

// Format is one of these values.
const (
	TOML Format = iota
	YAML
)

func (f Format) String() string {
	switch f {
	case TOML:
		return "toml"
	case YAML:
		return "yaml"
	default:
		return "unknown"
	}
}

// FormatOf returns the format of a file by its extension.
func FormatOf(path string) (Format, error) {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".toml":
		return TOML, nil
	case ".yaml", ".yml":
		return YAML, nil
	default:
		return 0, errors.Errorf("unknown config format: %s", path)
	}
}

// Config is a set of context settings. Zero values are left to the defaults of engine.DefaultContext.
type Config struct {
	Precision     uint `toml:"precision" yaml:"precision"`
	RealPrecision uint `toml:"real_precision" yaml:"real_precision"`
	ImagPrecision uint `toml:"imag_precision" yaml:"imag_precision"`

	// An unset imag_round follows real_round, which follows round.
	Round     string `toml:"round" yaml:"round"`
	RealRound string `toml:"real_round" yaml:"real_round"`
	ImagRound string `toml:"imag_round" yaml:"imag_round"`

	Emin *int `toml:"emin" yaml:"emin"`
	Emax *int `toml:"emax" yaml:"emax"`

	Subnormalize     bool `toml:"subnormalize" yaml:"subnormalize"`
	AllowComplex     bool `toml:"allow_complex" yaml:"allow_complex"`
	RationalDivision bool `toml:"rational_division" yaml:"rational_division"`

	TrapUnderflow bool `toml:"trap_underflow" yaml:"trap_underflow"`
	TrapOverflow  bool `toml:"trap_overflow" yaml:"trap_overflow"`
	TrapInexact   bool `toml:"trap_inexact" yaml:"trap_inexact"`
	TrapInvalid   bool `toml:"trap_invalid" yaml:"trap_invalid"`
	TrapERange    bool `toml:"trap_erange" yaml:"trap_erange"`
	TrapDivZero   bool `toml:"trap_divzero" yaml:"trap_divzero"`
}

// Load reads the config file at path. The format is determined by the extension.
func Load(path string) (*Config, error) {
	f, err := FormatOf(path)
	if err != nil {
		return nil, err
	}
	b, err := os.ReadFile(path)
	if err != nil {
		return nil, errors.Wrapf(err, "failed to read %s", path)
	}
	c, err := Decode(bytes.NewReader(b), f)
	if err != nil {
		return nil, errors.Wrapf(err, "failed to load %s", path)
	}
	return c, nil
}

// Decode reads a config of the format from r. Unknown keys are errors.
func Decode(r io.Reader, f Format) (*Config, error) {
	var c Config
	switch f {
	case TOML:
		md, err := toml.NewDecoder(r).Decode(&c)
		if err != nil {
			return nil, errors.Wrap(err, "invalid toml")
		}
		if keys := md.Undecoded(); len(keys) > 0 {
			return nil, errors.Errorf("unknown key: %s", keys[0])
		}
	case YAML:
		d := yaml.NewDecoder(r)
		d.KnownFields(true)
		if err := d.Decode(&c); err != nil && err != io.EOF {
			return nil, errors.Wrap(err, "invalid yaml")
		}
	default:
		return nil, errors.Errorf("unknown config format: %d", f)
	}
	return &c, nil
}

// Options returns the context options that apply c.
func (c *Config) Options() ([]engine.Option, error) {
	var opts []engine.Option
	if c.Precision != 0 {
		opts = append(opts, engine.WithPrecision(c.Precision))
	}
	if c.RealPrecision != 0 {
		opts = append(opts, engine.WithRealPrecision(c.RealPrecision))
	}
	if c.ImagPrecision != 0 {
		opts = append(opts, engine.WithImagPrecision(c.ImagPrecision))
	}

	for _, r := range []struct {
		key, name string
		opt       func(engine.RoundingMode) engine.Option
	}{
		{key: "round", name: c.Round, opt: engine.WithRound},
		{key: "real_round", name: c.RealRound, opt: engine.WithRealRound},
		{key: "imag_round", name: c.ImagRound, opt: engine.WithImagRound},
	} {
		if r.name == "" {
			continue
		}
		m, err := engine.ParseRoundingMode(r.name)
		if err != nil {
			return nil, errors.Wrap(err, r.key)
		}
		opts = append(opts, r.opt(m))
	}

	if c.Emin != nil {
		opts = append(opts, engine.WithEmin(*c.Emin))
	}
	if c.Emax != nil {
		opts = append(opts, engine.WithEmax(*c.Emax))
	}

	opts = append(opts,
		engine.WithSubnormalize(c.Subnormalize),
		engine.WithAllowComplex(c.AllowComplex),
		engine.WithRationalDivision(c.RationalDivision),
		engine.WithTraps(c.Traps()),
	)
	return opts, nil
}

// Traps returns the trap settings of c as a set of flags.
func (c *Config) Traps() engine.Flags {
	var f engine.Flags
	for _, t := range []struct {
		on   bool
		flag engine.Flags
	}{
		{on: c.TrapUnderflow, flag: engine.FlagUnderflow},
		{on: c.TrapOverflow, flag: engine.FlagOverflow},
		{on: c.TrapInexact, flag: engine.FlagInexact},
		{on: c.TrapInvalid, flag: engine.FlagInvalid},
		{on: c.TrapERange, flag: engine.FlagERange},
		{on: c.TrapDivZero, flag: engine.FlagDivZero},
	} {
		if t.on {
			f |= t.flag
		}
	}
	return f
}

// Context returns a new context with the settings of c.
func (c *Config) Context() (*engine.Context, error) {
	opts, err := c.Options()
	if err != nil {
		return nil, err
	}
	ctx, err := engine.NewContext(opts...)
	if err != nil {
		return nil, errors.Wrap(err, "invalid config")
	}
	return ctx, nil
}

package config

import (
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ichiban/bignum/engine"
)

func TestFormatOf(t *testing.T) {
	tests := []struct {
		path   string
		format Format
		err    bool
	}{
		{path: "bignum.toml", format: TOML},
		{path: "/etc/bignum.TOML", format: TOML},
		{path: "bignum.yaml", format: YAML},
		{path: "bignum.yml", format: YAML},
		{path: "bignum.json", err: true},
		{path: "bignum", err: true},
	}

	for _, tt := range tests {
		t.Run(tt.path, func(t *testing.T) {
			f, err := FormatOf(tt.path)
			if tt.err {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.format, f)
		})
	}
}

func TestDecode(t *testing.T) {
	emin, emax := -1000, 1000
	want := Config{
		Precision:     100,
		ImagPrecision: 20,
		Round:         "down",
		ImagRound:     "up",
		Emin:          &emin,
		Emax:          &emax,
		AllowComplex:  true,
		TrapOverflow:  true,
		TrapDivZero:   true,
	}

	tests := []struct {
		title  string
		format Format
		input  string
		want   Config
		err    bool
	}{
		{
			title:  "toml",
			format: TOML,
			input: `precision = 100
imag_precision = 20
round = "down"
imag_round = "up"
emin = -1000
emax = 1000
allow_complex = true
trap_overflow = true
trap_divzero = true
`,
			want: want,
		},
		{
			title:  "yaml",
			format: YAML,
			input: `precision: 100
imag_precision: 20
round: down
imag_round: up
emin: -1000
emax: 1000
allow_complex: true
trap_overflow: true
trap_divzero: true
`,
			want: want,
		},
		{title: "empty toml", format: TOML, input: ""},
		{title: "empty yaml", format: YAML, input: ""},
		{title: "unknown toml key", format: TOML, input: "precission = 100\n", err: true},
		{title: "unknown yaml key", format: YAML, input: "precission: 100\n", err: true},
		{title: "invalid toml", format: TOML, input: "precision = \n", err: true},
		{title: "invalid yaml type", format: YAML, input: "precision: many\n", err: true},
		{title: "unknown format", format: Format(9), err: true},
	}

	for _, tt := range tests {
		t.Run(tt.title, func(t *testing.T) {
			c, err := Decode(strings.NewReader(tt.input), tt.format)
			if tt.err {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, *c)
		})
	}
}

func TestLoad(t *testing.T) {
	dir := t.TempDir()

	t.Run("ok", func(t *testing.T) {
		path := filepath.Join(dir, "bignum.toml")
		require.NoError(t, os.WriteFile(path, []byte("precision = 64\nrational_division = true\n"), 0o600))

		c, err := Load(path)
		require.NoError(t, err)
		assert.Equal(t, uint(64), c.Precision)
		assert.True(t, c.RationalDivision)
	})

	t.Run("not found", func(t *testing.T) {
		_, err := Load(filepath.Join(dir, "missing.yaml"))
		assert.True(t, errors.Is(err, os.ErrNotExist))
	})

	t.Run("invalid", func(t *testing.T) {
		path := filepath.Join(dir, "invalid.yaml")
		require.NoError(t, os.WriteFile(path, []byte("round: [nearest]\n"), 0o600))

		_, err := Load(path)
		assert.Error(t, err)
		assert.Contains(t, err.Error(), path)
	})
}

func TestConfig_Context(t *testing.T) {
	t.Run("defaults", func(t *testing.T) {
		var c Config
		ctx, err := c.Context()
		require.NoError(t, err)
		d := engine.DefaultContext()
		assert.Equal(t, d.Precision(), ctx.Precision())
		assert.Equal(t, d.Round(), ctx.Round())
		assert.Equal(t, d.Emin(), ctx.Emin())
		assert.Equal(t, d.Emax(), ctx.Emax())
		assert.Equal(t, engine.Flags(0), ctx.Traps())
	})

	t.Run("settings", func(t *testing.T) {
		emin, emax := -100, 100
		c := Config{
			Precision:        24,
			RealPrecision:    30,
			RealRound:        "zero",
			Emin:             &emin,
			Emax:             &emax,
			Subnormalize:     true,
			RationalDivision: true,
			TrapUnderflow:    true,
			TrapInexact:      true,
			TrapInvalid:      true,
			TrapERange:       true,
		}
		ctx, err := c.Context()
		require.NoError(t, err)
		assert.Equal(t, uint(24), ctx.Precision())
		assert.Equal(t, uint(30), ctx.RealPrecision())
		assert.Equal(t, uint(24), ctx.ImagPrecision())
		assert.Equal(t, engine.RoundZero, ctx.RealRound())
		assert.Equal(t, engine.RoundZero, ctx.ImagRound(), "follows real_round")
		assert.Equal(t, engine.RoundNearest, ctx.Round())
		assert.Equal(t, -100, ctx.Emin())
		assert.Equal(t, 100, ctx.Emax())
		assert.True(t, ctx.Subnormalize())
		assert.True(t, ctx.RationalDivision())
		assert.False(t, ctx.AllowComplex())
		assert.Equal(t, engine.FlagUnderflow|engine.FlagInexact|engine.FlagInvalid|engine.FlagERange, ctx.Traps())
	})

	t.Run("imag round", func(t *testing.T) {
		c := Config{Round: "down", RealRound: "zero", ImagRound: "up"}
		ctx, err := c.Context()
		require.NoError(t, err)
		assert.Equal(t, engine.RoundDown, ctx.Round())
		assert.Equal(t, engine.RoundZero, ctx.RealRound())
		assert.Equal(t, engine.RoundUp, ctx.ImagRound())
	})

	t.Run("invalid round", func(t *testing.T) {
		c := Config{Round: "sideways"}
		_, err := c.Context()
		assert.True(t, errors.Is(err, engine.ValueInvalid))
		assert.Contains(t, err.Error(), "round")
	})

	t.Run("invalid precision", func(t *testing.T) {
		c := Config{Precision: engine.MaxPrecision + 1}
		_, err := c.Context()
		assert.True(t, errors.Is(err, engine.ValueInvalid))
	})
}

package main

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"log"
	"os"

	"github.com/mattn/go-isatty"
	"github.com/pkg/errors"
	"github.com/spf13/cobra"
	"github.com/spf13/pflag"

	"github.com/ichiban/bignum"
	"github.com/ichiban/bignum/config"
	"github.com/ichiban/bignum/engine"
)

type options struct {
	config    string
	precision uint
	round     string
	verbose   bool
}

func (o *options) bind(fs *pflag.FlagSet) {
	fs.StringVar(&o.config, "config", "", "context settings file (.toml, .yaml or .yml)")
	fs.UintVarP(&o.precision, "precision", "p", 0, "precision in bits (default 53)")
	fs.StringVarP(&o.round, "round", "r", "", "rounding mode: nearest, zero, up, down or away")
	fs.BoolVarP(&o.verbose, "verbose", "v", false, "verbose")
}

func newCommand() *cobra.Command {
	var o options
	cmd := &cobra.Command{
		Use:   "bncalc [statement]...",
		Short: "Arbitrary-precision calculator",
		Long: `bncalc evaluates integer, rational, real and complex arithmetic with a configurable precision.

Statements are taken from the arguments if any, otherwise from the standard input.
An interactive session starts if the standard input is a terminal.

Directives:
  :prec N              set the precision in bits
  :round MODE          set the rounding mode
  :trap FLAG on|off    raise an error when FLAG is set
  :complex on|off      allow complex results of real functions
  :ieee N              switch to the IEEE-754 binary format of N bits
  :flags, :clear       show or clear the sticky flags
  :push, :pop          save or restore the context
  :context             show the context`,
		Version:       Version,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return o.run(cmd, args)
		},
	}
	o.bind(cmd.Flags())
	return cmd
}

func (o *options) context(fs *pflag.FlagSet) (*engine.Context, error) {
	c := engine.DefaultContext()
	if o.config != "" {
		cfg, err := config.Load(o.config)
		if err != nil {
			return nil, err
		}
		if c, err = cfg.Context(); err != nil {
			return nil, errors.Wrapf(err, "invalid config %s", o.config)
		}
	}
	if fs.Changed("precision") {
		if err := c.SetPrecision(o.precision); err != nil {
			return nil, errors.Wrap(err, "invalid precision")
		}
	}
	if o.round != "" {
		m, err := engine.ParseRoundingMode(o.round)
		if err != nil {
			return nil, err
		}
		if err := c.SetRound(m); err != nil {
			return nil, err
		}
	}
	return c, nil
}

func (o *options) run(cmd *cobra.Command, args []string) error {
	logger := log.New(cmd.ErrOrStderr(), "", 0)

	c, err := o.context(cmd.Flags())
	if err != nil {
		logger.Printf("error: %v", err)
		return err
	}

	s := engine.NewStack()
	s.Set(c)
	i := bignum.New(s)
	i.FS = bignum.RealFS{}

	if o.verbose {
		i.OnEval = func(s bignum.Stmt, v bignum.Value, err error) {
			switch {
			case err != nil:
				logger.Printf("FAIL %s: %v", s, err)
			case v == nil:
				logger.Printf("EXEC %s", s)
			default:
				logger.Printf("EVAL %s = %s", s, v)
			}
		}
	}

	ctx := cmd.Context()
	if ctx == nil {
		ctx = context.Background()
	}

	if len(args) > 0 {
		return batch(ctx, i, args, cmd.OutOrStdout(), logger)
	}

	in := cmd.InOrStdin()
	if f, ok := in.(*os.File); ok && (isatty.IsTerminal(f.Fd()) || isatty.IsCygwinTerminal(f.Fd())) {
		return repl(ctx, i, f, logger)
	}

	var lines []string
	sc := bufio.NewScanner(in)
	for sc.Scan() {
		lines = append(lines, sc.Text())
	}
	if err := sc.Err(); err != nil {
		logger.Printf("failed to read: %v", err)
		return err
	}
	return batch(ctx, i, lines, cmd.OutOrStdout(), logger)
}

var errFailed = errors.New("failed")

// batch executes each source and prints the results. It reports errors and keeps going.
func batch(ctx context.Context, i *bignum.Interpreter, srcs []string, w io.Writer, logger *log.Logger) error {
	var failed bool
	for _, src := range srcs {
		if err := ctx.Err(); err != nil {
			return err
		}
		vs, err := i.ExecContext(ctx, src)
		if err := printValues(w, vs); err != nil {
			return err
		}
		if err != nil {
			logger.Printf("error: %v", err)
			failed = true
		}
	}
	if failed {
		return errFailed
	}
	return nil
}

func printValues(w io.Writer, vs []bignum.Value) error {
	for _, v := range vs {
		if _, err := fmt.Fprintln(w, v); err != nil {
			return err
		}
	}
	return nil
}

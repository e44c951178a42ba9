package main

import (
	"context"
	"fmt"
	"io"
	"log"
	"os"

	"github.com/pkg/errors"
	"golang.org/x/crypto/ssh/terminal"

	"github.com/ichiban/bignum"
)

const prompt = "> "

func repl(ctx context.Context, i *bignum.Interpreter, stdin *os.File, logger *log.Logger) error {
	fd := int(stdin.Fd())
	oldState, err := terminal.MakeRaw(fd)
	if err != nil {
		return errors.Wrap(err, "failed to enter raw mode")
	}
	restore := func() {
		_ = terminal.Restore(fd, oldState)
	}
	defer restore()

	t := terminal.NewTerminal(stdin, prompt)
	defer fmt.Printf("\r\n")

	logger.SetOutput(t)

	for {
		if err := handleLine(ctx, i, t, logger); err != nil {
			if err == io.EOF {
				return nil
			}
			return err
		}
	}
}

func handleLine(ctx context.Context, i *bignum.Interpreter, t *terminal.Terminal, logger *log.Logger) error {
	line, err := t.ReadLine()
	if err != nil {
		if err == io.EOF {
			return err
		}
		logger.Printf("failed to read line: %v", err)
		return nil
	}

	switch line {
	case "quit", "exit":
		return io.EOF
	}

	if err := ctx.Err(); err != nil {
		return err
	}

	vs, err := i.ExecContext(ctx, line)
	if err := printValues(t, vs); err != nil {
		return err
	}
	if err != nil {
		logger.Printf("error: %v", err)
	}
	return nil
}

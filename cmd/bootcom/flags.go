// cmd/bootcom/flags.go
package main

import (
	"errors"
	"flag"
	"io"
	"strconv"

	"github.com/tamzrod/bootcom/internal/config"
)

// verbosity counts repeated -v flags.
type verbosity int

func (v *verbosity) String() string   { return strconv.Itoa(int(*v)) }
func (v *verbosity) IsBoolFlag() bool { return true }

func (v *verbosity) Set(s string) error {
	on, err := strconv.ParseBool(s)
	if err != nil {
		return err
	}
	if on {
		*v++
	}
	return nil
}

type options struct {
	configPath string
	verbose    verbosity

	// overrides holds the serial flags that were set explicitly.
	overrides []func(*config.Config)
}

func parseFlags(args []string, stderr io.Writer) (*options, error) {
	fs := flag.NewFlagSet("bootcom", flag.ContinueOnError)
	fs.SetOutput(stderr)
	fs.Usage = func() {
		io.WriteString(stderr, "usage: bootcom [flags] [kernel-image]\n")
		fs.PrintDefaults()
	}

	opts := &options{}
	fs.StringVar(&opts.configPath, "config", "", "YAML config file")
	fs.Var(&opts.verbose, "v", "increase verbosity (repeatable: info, debug, trace)")

	var (
		tty, parity, flow, backend string
		baud, dataBits, stopBits   int
	)
	fs.StringVar(&tty, "tty", "", "serial device path (empty: select interactively)")
	fs.IntVar(&baud, "baud-rate", 0, "baud rate (default 230400)")
	fs.IntVar(&dataBits, "data-bits", 0, "data bits: 5, 6, 7 or 8 (default 8)")
	fs.IntVar(&stopBits, "stop-bits", 0, "stop bits: 1 or 2 (default 1)")
	fs.StringVar(&parity, "parity", "", "parity: none, odd or even (default none)")
	fs.StringVar(&flow, "flow-control", "", "flow control: none, soft or hard (default none)")
	fs.StringVar(&backend, "backend", "", "serial backend: bugst or goburrow (default bugst)")

	if err := fs.Parse(args); err != nil {
		return nil, err
	}
	if fs.NArg() > 1 {
		fs.Usage()
		return nil, errors.New("at most one kernel image may be given")
	}

	fs.Visit(func(f *flag.Flag) {
		var apply func(*config.Config)
		switch f.Name {
		case "tty":
			apply = func(c *config.Config) { c.Serial.Device = tty }
		case "baud-rate":
			apply = func(c *config.Config) { c.Serial.BaudRate = baud }
		case "data-bits":
			apply = func(c *config.Config) { c.Serial.DataBits = dataBits }
		case "stop-bits":
			apply = func(c *config.Config) { c.Serial.StopBits = stopBits }
		case "parity":
			apply = func(c *config.Config) { c.Serial.Parity = parity }
		case "flow-control":
			apply = func(c *config.Config) { c.Serial.FlowControl = flow }
		case "backend":
			apply = func(c *config.Config) { c.Serial.Backend = backend }
		}
		if apply != nil {
			opts.overrides = append(opts.overrides, apply)
		}
	})

	if img := fs.Arg(0); img != "" {
		opts.overrides = append(opts.overrides, func(c *config.Config) { c.Kernel.Image = img })
	}
	return opts, nil
}

// loadConfig reads the config file (if any) and applies the flags on top.
func (o *options) loadConfig() (*config.Config, error) {
	cfg := &config.Config{}
	if o.configPath != "" {
		var err error
		if cfg, err = config.Load(o.configPath); err != nil {
			return nil, err
		}
	}
	for _, apply := range o.overrides {
		apply(cfg)
	}

	if err := config.Validate(cfg); err != nil {
		return nil, err
	}
	config.Normalize(cfg)
	return cfg, nil
}

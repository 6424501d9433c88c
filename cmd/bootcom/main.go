// cmd/bootcom/main.go
package main

import (
	"context"
	"errors"
	"flag"
	"io"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/rs/zerolog"

	"github.com/tamzrod/bootcom/internal/console"
	"github.com/tamzrod/bootcom/internal/kernel"
	"github.com/tamzrod/bootcom/internal/manager"
	"github.com/tamzrod/bootcom/internal/ports"
	"github.com/tamzrod/bootcom/internal/protocol"
	"github.com/tamzrod/bootcom/internal/serialport"
	"github.com/tamzrod/bootcom/internal/settings"
	"github.com/tamzrod/bootcom/internal/status"
)

func main() {
	os.Exit(run(os.Args[1:], os.Stdin, os.Stdout, os.Stderr))
}

func run(args []string, stdin *os.File, stdout, stderr io.Writer) int {
	log := zerolog.New(zerolog.ConsoleWriter{Out: stderr, TimeFormat: time.TimeOnly}).
		With().Timestamp().Logger().
		Level(zerolog.WarnLevel)

	// --------------------
	// Flags + config
	// --------------------

	opts, err := parseFlags(args, stderr)
	if err != nil {
		if errors.Is(err, flag.ErrHelp) {
			return status.ExitOK
		}
		log.Error().Err(err).Msg("invalid arguments")
		return status.ExitError
	}

	cfg, err := opts.loadConfig()
	if err != nil {
		log.Error().Err(err).Msg("config failed")
		return status.ExitError
	}

	base, err := cfg.LogLevel()
	if err != nil {
		log.Error().Err(err).Msg("config failed")
		return status.ExitError
	}
	log = log.Level(logLevel(base, opts.verbose))

	line, err := cfg.Settings()
	if err != nil {
		log.Error().Err(err).Msg("config failed")
		return status.ExitError
	}

	backend, err := cfg.Backend()
	if err != nil {
		log.Error().Err(err).Msg("config failed")
		return status.ExitError
	}
	opener, err := backend.Opener(cfg.ReadTimeout())
	if err != nil {
		log.Error().Err(err).Msg("config failed")
		return status.ExitError
	}

	// --------------------
	// Interrupts
	// --------------------

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()
	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	// --------------------
	// Console + ports
	// --------------------

	in := console.NewInput(stdin)
	chooser := console.Chooser{In: in, Out: stdout}
	spinner := &console.Spinner{Out: stdout}
	enum := serialport.SystemEnumerator{}

	waiter, err := ports.NewWaiter(ports.WaitConfig{
		Enumerator: enum,
		Watcher:    console.EscapeWatcher{In: in, Fd: int(stdin.Fd()), Interrupt: cancel},
		Interval:   cfg.Timing.WaitInterval(),
		CancelPoll: cfg.Timing.CancelPoll(),
		Indicator:  spinner,
		Logger:     log.With().Str("component", "wait").Logger(),
	})
	if err != nil {
		log.Error().Err(err).Msg("wait setup failed")
		return status.ExitError
	}

	selector, err := ports.NewSelector(ports.SelectConfig{
		Enumerator: enum,
		Chooser:    chooser,
		Interval:   cfg.Timing.SelectInterval(),
		Indicator:  spinner,
		Logger:     log.With().Str("component", "select").Logger(),
	})
	if err != nil {
		log.Error().Err(err).Msg("select setup failed")
		return status.ExitError
	}

	// --------------------
	// Sessions
	// --------------------

	tracker := status.NewTracker()
	source := kernel.FileSource{
		Dir:    cfg.Kernel.Dir,
		Picker: chooser.Picker(ctx),
		Logger: log.With().Str("component", "kernel").Logger(),
	}
	sessionLog := log.With().Str("component", "protocol").Logger()

	sessions := func(s settings.Settings) manager.Session {
		return protocol.New(s, protocol.Config{
			Opener:   opener,
			Source:   source,
			Output:   stdout,
			Console:  stdout,
			Progress: console.PushProgress(stdout),
			Timing:   cfg.Timing.Protocol(),
			Status:   tracker,
			Logger:   sessionLog,
		})
	}

	m, err := manager.New(line, manager.Config{
		Waiter:   waiter,
		Selector: selector,
		Sessions: sessions,
		Console:  stdout,
		Status:   tracker,
		Logger:   log.With().Str("component", "manager").Logger(),
	})
	if err != nil {
		log.Error().Err(err).Msg("manager setup failed")
		return status.ExitError
	}

	log.Info().Str("settings", line.String()).Str("backend", string(backend)).Msg("starting")
	return m.Run(ctx)
}

// logLevel lowers base by one level per -v, down to trace.
func logLevel(base zerolog.Level, v verbosity) zerolog.Level {
	lvl := base - zerolog.Level(v)
	if lvl < zerolog.TraceLevel {
		lvl = zerolog.TraceLevel
	}
	return lvl
}

// Command railsim drives a GT6N vehicle script through a scenario at a fixed
// step, optionally recording a trace and streaming variables to a monitor.
package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/AnatoleLucet/railsig/config"
	"github.com/AnatoleLucet/railsig/monitor"
	"github.com/AnatoleLucet/railsig/trace"
)

type flags struct {
	config    string
	scenario  string
	replay    string
	hz        float64
	duration  float64
	realtime  bool
	trace     string
	every     uint64
	monitor   string
	logLevel  string
	logFormat string
	dump      bool
}

func parseFlags(args []string, output io.Writer) (flags, error) {
	var f flags

	fs := flag.NewFlagSet("railsim", flag.ContinueOnError)
	fs.SetOutput(output)
	fs.StringVar(&f.config, "config", "", "vehicle configuration YAML, defaults to the built-in GT6N values")
	fs.StringVar(&f.scenario, "scenario", "", "scenario YAML")
	fs.StringVar(&f.replay, "replay", "", "trace directory whose inputs replace the scenario's")
	fs.Float64Var(&f.hz, "hz", 60, "ticks per simulated second")
	fs.Float64Var(&f.duration, "duration", 0, "seconds to simulate, 0 uses the scenario's")
	fs.BoolVar(&f.realtime, "realtime", false, "pace ticks against the wall clock")
	fs.StringVar(&f.trace, "trace", "", "directory to record a trace into")
	fs.Uint64Var(&f.every, "trace-frame-every", 6, "record a variable frame every n ticks")
	fs.StringVar(&f.monitor, "monitor", "", "address to serve the websocket monitor on, e.g. :8080")
	fs.StringVar(&f.logLevel, "log-level", "info", "debug, info, warn or error")
	fs.StringVar(&f.logFormat, "log-format", "text", "text or json")
	fs.BoolVar(&f.dump, "dump", false, "print the final variables as YAML")

	if err := fs.Parse(args); err != nil {
		return flags{}, err
	}
	if f.hz <= 0 {
		return flags{}, fmt.Errorf("-hz must be positive, got %g", f.hz)
	}
	return f, nil
}

func newLogger(w io.Writer, level, format string) (*slog.Logger, error) {
	var lvl slog.Level
	if err := lvl.UnmarshalText([]byte(level)); err != nil {
		return nil, fmt.Errorf("-log-level: %w", err)
	}

	opts := &slog.HandlerOptions{Level: lvl}
	switch strings.ToLower(format) {
	case "text":
		return slog.New(slog.NewTextHandler(w, opts)), nil
	case "json":
		return slog.New(slog.NewJSONHandler(w, opts)), nil
	default:
		return nil, fmt.Errorf("-log-format: unknown format %q", format)
	}
}

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := realMain(ctx, os.Args[1:], os.Stdout, os.Stderr); err != nil {
		if !errors.Is(err, flag.ErrHelp) {
			fmt.Fprintln(os.Stderr, "railsim:", err)
		}
		os.Exit(1)
	}
}

func realMain(ctx context.Context, args []string, stdout, stderr io.Writer) error {
	f, err := parseFlags(args, stderr)
	if err != nil {
		return err
	}

	log, err := newLogger(stderr, f.logLevel, f.logFormat)
	if err != nil {
		return err
	}

	o := options{
		Hz:       f.hz,
		Duration: f.duration,
		Realtime: f.realtime,
		Log:      log,
	}

	o.Vehicle = config.Default()
	if f.config != "" {
		if o.Vehicle, err = config.Load(f.config); err != nil {
			return err
		}
	}

	if f.scenario != "" {
		if o.Scenario, err = loadScenario(f.scenario); err != nil {
			return err
		}
	}
	if f.replay != "" {
		if o.Replay, err = trace.ReadInputs(f.replay); err != nil {
			return err
		}
		if o.Replay == nil {
			o.Replay = []trace.Input{}
		}
	}

	if f.trace != "" {
		name := o.Scenario.Name
		if name == "" {
			name = "railsim"
		}

		rec, _, err := trace.NewRecorder(f.trace, name, f.every, nil)
		if err != nil {
			return err
		}
		defer func() {
			if err := rec.Close(); err != nil {
				log.Error("closing trace", "error", err)
			}
		}()
		o.Recorder = rec
		log.Info("recording trace", "dir", rec.Directory())
	}

	if f.monitor != "" {
		mon := monitor.NewServer(log)
		srv := &http.Server{Addr: f.monitor, Handler: mon.Handler(), ReadHeaderTimeout: 5 * time.Second}

		go func() {
			if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
				log.Error("monitor stopped", "error", err)
			}
		}()
		defer func() {
			mon.Close()
			shutdown, cancel := context.WithTimeout(context.Background(), 2*time.Second)
			defer cancel()
			_ = srv.Shutdown(shutdown)
		}()
		o.Monitor = mon
		log.Info("monitor listening", "addr", f.monitor)
	}

	res, err := run(ctx, o)
	if err != nil {
		return err
	}

	if f.dump {
		enc := yaml.NewEncoder(stdout)
		enc.SetIndent(2)
		if err := enc.Encode(res.Vars); err != nil {
			return fmt.Errorf("dump variables: %w", err)
		}
		return enc.Close()
	}
	return nil
}

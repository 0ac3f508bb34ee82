package main

import (
	"errors"
	"flag"
	"fmt"
	"io"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/wnxd/psxhook/config"
	"github.com/wnxd/psxhook/events"
	"github.com/wnxd/psxhook/game"
	iprocess "github.com/wnxd/psxhook/internal/process"
	"github.com/wnxd/psxhook/layout"
	"github.com/wnxd/psxhook/logger"
	"github.com/wnxd/psxhook/statsview"
)

const programName = "psxhook"

const retryAfter = 2 * time.Second

func main() {
	if err := launch(os.Args[1:], os.Stdout); err != nil {
		fmt.Printf("*** %s\n", err)
		os.Exit(1)
	}
}

func launch(args []string, output io.Writer) error {
	var configPath string
	var emu string
	var process string
	var pid int
	var base string
	var list bool
	var stats bool
	var logFile string

	flgs := flag.NewFlagSet(programName, flag.ExitOnError)
	flgs.StringVar(&configPath, "config", "psxhook.json", "configuration file")
	flgs.StringVar(&emu, "emulator", "", "emulator family: duckstation, bizhawk or custom")
	flgs.StringVar(&process, "process", "", "emulator executable name")
	flgs.IntVar(&pid, "pid", 0, "attach to this process id instead of looking up the name")
	flgs.StringVar(&base, "base", "", "hexadecimal address of emulated RAM (custom only)")
	flgs.BoolVar(&list, "list", false, "list processes with a visible window and exit")
	flgs.BoolVar(&stats, "statsview", false, "serve runtime statistics")
	flgs.StringVar(&logFile, "log", "", "append log entries to this file")
	if err := flgs.Parse(args); err != nil {
		return err
	}
	if flgs.NArg() > 0 {
		return fmt.Errorf("too many arguments to %s", programName)
	}

	if list {
		infos, err := iprocess.Windows()
		if err != nil {
			return err
		}
		for _, info := range infos {
			fmt.Fprintf(output, "%8d  %s\n", info.Pid, info.Name)
		}
		return nil
	}

	cfg, err := config.Load(configPath)
	if err != nil {
		return err
	}
	flgs.Visit(func(f *flag.Flag) {
		switch f.Name {
		case "emulator":
			cfg.Emulator = emu
		case "process":
			cfg.Process = process
		case "base":
			cfg.BaseAddr = base
			if emu == "" {
				cfg.Emulator = "custom"
			}
		case "statsview":
			cfg.StatsView = stats
		case "log":
			cfg.LogFile = logFile
		}
	})
	if err := cfg.Validate(); err != nil {
		return err
	}

	if cfg.LogFile != "" {
		f, err := os.OpenFile(cfg.LogFile, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0644)
		if err != nil {
			return fmt.Errorf("log: %w", err)
		}
		defer f.Close()
		logger.SetEcho(f)
		defer logger.SetEcho(nil)
	}

	if cfg.StatsView {
		statsview.Launch(output)
	}

	opts := cfg.Options()
	if cfg.Tables != "" {
		opts.Tables, err = layout.LoadTables(cfg.Tables)
		if err != nil {
			return err
		}
	}

	target, err := cfg.Target(pid)
	if err != nil {
		return err
	}

	st := newStyles()
	reg := events.NewRegistry()
	reg.SubscribeAll(func(ev events.Event) error {
		if ev.Kind != events.Frame {
			fmt.Fprintln(output, st.event.Render(ev.String()))
		}
		return nil
	})

	runner := game.NewRunner(game.NewManager(reg, opts), nil, cfg.Interval())
	defer runner.Detach()

	sig := make(chan os.Signal, 1)
	signal.Notify(sig, syscall.SIGINT, syscall.SIGTERM)
	defer signal.Stop(sig)

	status := func() {
		state := runner.State()
		fmt.Fprintf(output, "%s %s\n", st.state(state).Render(state.String()), runner.Status())
	}

	for {
		err := runner.Attach(target)
		status()
		if err == nil {
			select {
			case <-sig:
				return nil
			case <-runner.Done():
				status()
				if errors.Is(runner.Err(), game.ErrConnectionLost) {
					logger.Logf(logger.Allow, "runner", "emulator went away, reattaching")
				}
			}
		}
		select {
		case <-sig:
			return nil
		case <-time.After(retryAfter):
		}
	}
}

package config

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/wnxd/psxhook/emulator"
	"github.com/wnxd/psxhook/game"
	"github.com/wnxd/psxhook/logger"
)

type Config struct {
	// Emulator is one of "duckstation", "bizhawk" or "custom".
	Emulator string `json:"emulator"`

	// Process overrides the executable name of the emulator.
	Process string `json:"process,omitempty"`

	// Library overrides the library scanned first for bizhawk.
	Library string `json:"library,omitempty"`

	// BaseAddr is the hexadecimal RAM address used by custom.
	BaseAddr string `json:"baseAddr,omitempty"`

	Seed         uint32 `json:"seed"`
	IntervalMS   int    `json:"intervalMs"`
	PauseAfterMS int    `json:"pauseAfterMs"`
	StuckAfter   int    `json:"stuckAfter"`
	LogFile      string `json:"logFile,omitempty"`
	Tables       string `json:"tables,omitempty"`
	StatsView    bool   `json:"statsView"`
}

func Default() *Config {
	return &Config{
		Emulator:     "duckstation",
		IntervalMS:   int(game.DefaultInterval / time.Millisecond),
		PauseAfterMS: int(game.DefaultPauseAfter / time.Millisecond),
	}
}

// Load reads path. A missing file gives the defaults and keys absent from
// the file keep their default values.
func Load(path string) (*Config, error) {
	cfg := Default()
	data, err := os.ReadFile(path)
	if errors.Is(err, os.ErrNotExist) {
		logger.Logf(logger.Allow, "config", "%s not found, using defaults", path)
		return cfg, nil
	} else if err != nil {
		return nil, fmt.Errorf("failed to read config: %w", err)
	}
	if err := json.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config: %w", err)
	}
	return cfg, nil
}

// Save writes cfg to path through a temporary file.
func Save(path string, cfg *Config) error {
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return fmt.Errorf("failed to create directory: %w", err)
	}
	data, err := json.MarshalIndent(cfg, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal config: %w", err)
	}
	tmp := path + ".tmp"
	if err := os.WriteFile(tmp, data, 0644); err != nil {
		return fmt.Errorf("failed to write temp file: %w", err)
	}
	if err := os.Rename(tmp, path); err != nil {
		os.Remove(tmp)
		return fmt.Errorf("failed to rename temp file: %w", err)
	}
	return nil
}

func ParseAddr(s string) (uint64, error) {
	s = strings.TrimPrefix(strings.TrimPrefix(strings.TrimSpace(s), "0x"), "0X")
	if s == "" {
		return 0, nil
	}
	return strconv.ParseUint(s, 16, 64)
}

func (c *Config) Validate() error {
	var errs []error
	if _, err := emulator.FamilyByName(c.Emulator, 0); err != nil {
		errs = append(errs, err)
	}
	addr, err := ParseAddr(c.BaseAddr)
	if err != nil {
		errs = append(errs, fmt.Errorf("baseAddr: %w", err))
	} else if strings.EqualFold(c.Emulator, "custom") && addr == 0 {
		errs = append(errs, errors.New("baseAddr: required for custom"))
	}
	if c.IntervalMS < 0 {
		errs = append(errs, fmt.Errorf("intervalMs: %d is negative", c.IntervalMS))
	}
	if c.PauseAfterMS < 0 {
		errs = append(errs, fmt.Errorf("pauseAfterMs: %d is negative", c.PauseAfterMS))
	}
	if c.StuckAfter < 0 {
		errs = append(errs, fmt.Errorf("stuckAfter: %d is negative", c.StuckAfter))
	}
	return errors.Join(errs...)
}

// Target returns what to attach to. A non-zero pid wins over the process
// name.
func (c *Config) Target(pid int) (emulator.Target, error) {
	addr, err := ParseAddr(c.BaseAddr)
	if err != nil {
		return emulator.Target{}, fmt.Errorf("baseAddr: %w", err)
	}
	fam, err := emulator.FamilyByName(c.Emulator, addr)
	if err != nil {
		return emulator.Target{}, err
	}
	if c.Library != "" {
		fam.Library = c.Library
	}
	return emulator.Target{Process: c.Process, PID: pid, Family: fam}, nil
}

func (c *Config) Interval() time.Duration {
	return time.Duration(c.IntervalMS) * time.Millisecond
}

func (c *Config) Options() game.Options {
	return game.Options{
		PauseAfter: time.Duration(c.PauseAfterMS) * time.Millisecond,
		StuckAfter: c.StuckAfter,
		Seed:       c.Seed,
	}
}

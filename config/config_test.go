package config_test

import (
	"errors"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/wnxd/psxhook/config"
	"github.com/wnxd/psxhook/emulator"
	"github.com/wnxd/psxhook/internal/test"
)

func TestLoadMissing(t *testing.T) {
	cfg, err := config.Load(filepath.Join(t.TempDir(), "psxhook.json"))
	test.DemandSuccess(t, err)
	test.ExpectEquality(t, *cfg, *config.Default())
}

func TestLoadPartial(t *testing.T) {
	path := filepath.Join(t.TempDir(), "psxhook.json")
	test.DemandSuccess(t, os.WriteFile(path, []byte(`{"emulator": "bizhawk", "stuckAfter": 5000}`), 0644))
	cfg, err := config.Load(path)
	test.DemandSuccess(t, err)
	test.ExpectEquality(t, cfg.Emulator, "bizhawk")
	test.ExpectEquality(t, cfg.StuckAfter, 5000)
	test.ExpectEquality(t, cfg.IntervalMS, 1)
	test.ExpectEquality(t, cfg.PauseAfterMS, 200)
	test.ExpectEquality(t, cfg.Options().PauseAfter, 200*time.Millisecond)
}

func TestLoadCorrupt(t *testing.T) {
	path := filepath.Join(t.TempDir(), "psxhook.json")
	test.DemandSuccess(t, os.WriteFile(path, []byte(`{"emulator": `), 0644))
	_, err := config.Load(path)
	test.DemandFailure(t, err)
}

func TestSaveLoad(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nested", "psxhook.json")
	cfg := config.Default()
	cfg.Emulator = "custom"
	cfg.BaseAddr = "0x7ff6a0000000"
	cfg.Seed = 42
	test.DemandSuccess(t, config.Save(path, cfg))

	_, err := os.Stat(path + ".tmp")
	test.ExpectSuccess(t, errors.Is(err, os.ErrNotExist))

	got, err := config.Load(path)
	test.DemandSuccess(t, err)
	test.ExpectEquality(t, *got, *cfg)
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name  string
		apply func(*config.Config)
		valid bool
	}{
		{"default", func(*config.Config) {}, true},
		{"unknown emulator", func(c *config.Config) { c.Emulator = "epsxe" }, false},
		{"custom without address", func(c *config.Config) { c.Emulator = "custom" }, false},
		{"custom", func(c *config.Config) { c.Emulator = "custom"; c.BaseAddr = "1F000000" }, true},
		{"bad address", func(c *config.Config) { c.BaseAddr = "xyz" }, false},
		{"negative interval", func(c *config.Config) { c.IntervalMS = -1 }, false},
		{"negative stuck", func(c *config.Config) { c.StuckAfter = -1 }, false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := config.Default()
			tt.apply(cfg)
			err := cfg.Validate()
			if tt.valid {
				test.ExpectSuccess(t, err)
			} else {
				test.ExpectFailure(t, err)
			}
		})
	}
}

func TestTarget(t *testing.T) {
	cfg := config.Default()
	target, err := cfg.Target(0)
	test.DemandSuccess(t, err)
	test.ExpectEquality(t, target.Family.Kind, emulator.FamilyHeapPointer)
	test.ExpectEquality(t, target.ProcessName(), emulator.DuckStation().Process)

	cfg.Emulator = "BizHawk"
	cfg.Library = "octoshock_v2.dll"
	cfg.Process = "EmuHawkMono.exe"
	target, err = cfg.Target(4242)
	test.DemandSuccess(t, err)
	test.ExpectEquality(t, target.Family.Library, "octoshock_v2.dll")
	test.ExpectEquality(t, target.ProcessName(), "EmuHawkMono.exe")
	test.ExpectEquality(t, target.PID, 4242)

	cfg.Emulator = "custom"
	cfg.BaseAddr = "0x1F000000"
	target, err = cfg.Target(0)
	test.DemandSuccess(t, err)
	test.ExpectEquality(t, target.Family.BaseAddr, 0x1F000000)
}

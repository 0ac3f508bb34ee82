package game

import (
	"fmt"
	"math/rand/v2"
	"time"

	"github.com/wnxd/psxhook/emulator"
	"github.com/wnxd/psxhook/events"
	"github.com/wnxd/psxhook/layout"
	"github.com/wnxd/psxhook/logger"
)

const (
	DefaultPauseAfter = 200 * time.Millisecond

	reloadFrames = 30
	reloadTicks  = 30
)

// Music is paused whenever the game leaves play.
type Music interface {
	Pause()
}

type Options struct {
	// PauseAfter is how long the frame counter may stand still before the
	// emulator is considered paused.
	PauseAfter time.Duration

	// StuckAfter logs a transition that has waited this many ticks for its
	// data. Zero disables the report. Waiting carries on either way.
	StuckAfter int

	// Seed for new session markers. Zero picks one at random.
	Seed uint32

	Tables *layout.Tables
	Music  Music

	Now func() time.Time
}

type wait struct {
	name     string
	on       bool
	ticks    int
	reported bool
}

func (w *wait) set() {
	w.on, w.ticks, w.reported = true, 0, false
}

func (w *wait) clear() {
	w.on = false
}

// Manager turns polled emulator memory into events. It is not safe for
// concurrent use: one goroutine calls Update.
type Manager struct {
	emu    emulator.Emulator
	events *events.Registry
	opts   Options

	session Session

	state     State
	module    layout.Module
	fieldID   uint16
	warping   bool
	frame     uint32
	frameTime time.Time
	paused    bool

	sinceReload int
	fieldFrames int

	waitBattle, waitField, waitShop, waitWorld wait
	wasInShop                                  bool

	fieldFade, worldFade fade

	lastTick time.Duration
}

func NewManager(reg *events.Registry, opts Options) *Manager {
	if opts.PauseAfter <= 0 {
		opts.PauseAfter = DefaultPauseAfter
	}
	if opts.Now == nil {
		opts.Now = time.Now
	}
	if reg == nil {
		reg = events.NewRegistry()
	}
	m := &Manager{events: reg, opts: opts}
	m.Reset(nil)
	return m
}

// Reset forgets all tracked state and starts reading from emu.
func (m *Manager) Reset(emu emulator.Emulator) {
	*m = Manager{
		emu:        emu,
		events:     m.events,
		opts:       m.opts,
		waitBattle: wait{name: "battle"},
		waitField:  wait{name: "field"},
		waitShop:   wait{name: "shop"},
		waitWorld:  wait{name: "world map"},
	}
}

func (m *Manager) Emulator() emulator.Emulator {
	return m.emu
}

func (m *Manager) Events() *events.Registry {
	return m.events
}

func (m *Manager) State() State {
	return m.state
}

func (m *Manager) Module() layout.Module {
	return m.module
}

func (m *Manager) FieldID() uint16 {
	return m.fieldID
}

func (m *Manager) Frame() uint32 {
	return m.frame
}

// FieldFrames counts frames since the current field was entered.
func (m *Manager) FieldFrames() int {
	return m.fieldFrames
}

func (m *Manager) Paused() bool {
	return m.paused
}

func (m *Manager) Session() Session {
	return m.session
}

func (m *Manager) Pending() Pending {
	return Pending{
		Battle: m.waitBattle.on,
		Field:  m.waitField.on,
		Shop:   m.waitShop.on,
		World:  m.waitWorld.on,
	}
}

// LastTick is how long the previous Update took.
func (m *Manager) LastTick() time.Duration {
	return m.lastTick
}

func (m *Manager) invoke(kind events.Kind) error {
	return m.events.Invoke(events.Event{Kind: kind, Frame: m.frame, Module: m.module, Field: m.fieldID})
}

func (m *Manager) loadSession() {
	seed := m.opts.Seed
	if seed == 0 {
		seed = rand.Uint32()
	}
	m.session = LoadSession(m.emu, seed)
	logger.Logf(logger.Allow, "game", "session seed %#08x (resumed %v)", m.session.Seed, m.session.Resumed)
}

// Update polls the emulator once. It returns ErrConnectionLost once the
// emulator can no longer be read, or the first error returned by a
// subscriber.
func (m *Manager) Update() error {
	if m.emu == nil {
		return emulator.ErrNotAttached
	}
	start := m.opts.Now()
	defer func() {
		m.lastTick = m.opts.Now().Sub(start)
	}()

	if m.emu.PollErrors() {
		return m.lost()
	}

	state := ReadState(m.emu)
	if m.emu.PollErrors() {
		return m.lost()
	}
	if state != m.state {
		prev := m.state
		m.state = state
		logger.Logf(logger.Allow, "game", "%v -> %v", prev, state)
		if prev == StateInGame {
			m.leaveGame()
			ClearSaveData(m.emu)
			if m.opts.Music != nil {
				m.opts.Music.Pause()
			}
		}
		if state == StateInGame {
			m.loadSession()
			m.frame = emulator.Read[uint32](m.emu, layout.OffsetFrame)
			m.frameTime = start
			m.sinceReload = 0
			if err := m.invoke(events.Start); err != nil {
				return err
			}
		}
	}
	if state != StateInGame {
		return nil
	}

	if !m.paused && start.Sub(m.frameTime) > m.opts.PauseAfter {
		m.paused = true
		if err := m.invoke(events.EmulatorPaused); err != nil {
			return err
		}
	}

	if err := m.updateModule(); err != nil {
		return err
	}

	var err error
	switch m.module {
	case layout.ModuleBattle:
		err = m.updateBattle()
	case layout.ModuleField:
		err = m.updateField()
	case layout.ModuleWorld:
		err = m.updateWorld()
	case layout.ModuleMenu:
		err = m.updateShop()
	}
	if err != nil {
		return err
	}

	if err := m.updateFrame(start); err != nil {
		return err
	}

	m.checkStuck()
	return nil
}

func (m *Manager) lost() error {
	return fmt.Errorf("%w: %w", ErrConnectionLost, m.emu.Err())
}

func (m *Manager) updateModule() error {
	module := layout.Module(emulator.Read[uint8](m.emu, layout.OffsetModule))
	if module == m.module {
		return nil
	}
	prev := m.module
	m.module = module

	if prev == layout.ModuleField && module == layout.ModuleBattle {
		m.waitBattle.set()
	}
	if prev == layout.ModuleBattle {
		m.waitBattle.clear()
		if module == layout.ModuleField {
			m.enterField()
		}
		if err := m.invoke(events.BattleExit); err != nil {
			return err
		}
	}
	if module == layout.ModuleWorld {
		m.waitWorld.set()
		m.worldFade.snapshot(emulator.Read[uint8](m.emu, layout.OffsetWorldFade))
	}
	if module == layout.ModuleMenu && layout.MenuType(emulator.Read[uint8](m.emu, layout.OffsetMenuType)) == layout.MenuShop {
		m.waitShop.set()
		m.wasInShop = true
	}
	if prev == layout.ModuleMenu && m.wasInShop {
		m.wasInShop = false
		m.waitShop.clear()
		// The first price anchor survives between shop visits. Clearing it
		// stops the next shop from passing its load check too early.
		off := layout.ShopPriceOffset(layout.ShopStalePriceIndex)
		if emulator.Read[uint32](m.emu, off) == layout.ShopStalePriceValue {
			emulator.Write[uint32](m.emu, off, 0)
		}
	}
	return m.invoke(events.ModuleChanged)
}

func (m *Manager) updateBattle() error {
	if !m.waitBattle.on || !battleLoaded(m.emu) {
		return nil
	}
	m.waitBattle.clear()
	return m.invoke(events.BattleEnter)
}

func (m *Manager) updateField() error {
	id := emulator.Read[uint16](m.emu, layout.OffsetFieldID)
	warping := emulator.Read[uint8](m.emu, layout.OffsetWarpTrigger) == 1
	warpInPlace := warping && !m.warping && emulator.Read[uint16](m.emu, layout.OffsetWarpTarget) == id
	m.warping = warping
	if warpInPlace || id != m.fieldID {
		m.fieldID = id
		m.enterField()
	}
	if !m.waitField.on || !fieldLoaded(m.emu, &m.fieldFade, m.opts.Tables, id) {
		return nil
	}
	m.waitField.clear()
	return m.invoke(events.FieldChanged)
}

// enterField waits for the field to fade in again.
func (m *Manager) enterField() {
	m.waitField.set()
	m.fieldFrames = 0
	m.fieldFade.snapshot(emulator.Read[uint8](m.emu, layout.OffsetFieldFade))
}

func (m *Manager) waits() []*wait {
	return []*wait{&m.waitBattle, &m.waitField, &m.waitShop, &m.waitWorld}
}

// leaveGame drops pending transitions so the next session starts clean.
// paused is kept so that a pause is still matched by a resume.
func (m *Manager) leaveGame() {
	for _, w := range m.waits() {
		w.clear()
	}
	m.wasInShop = false
	m.warping = false
	m.fieldFade, m.worldFade = fade{}, fade{}
}

func (m *Manager) updateWorld() error {
	if !m.waitWorld.on || !worldLoaded(m.emu, &m.worldFade, m.opts.Tables) {
		return nil
	}
	m.fieldID = emulator.Read[uint16](m.emu, layout.OffsetFieldID)
	m.waitWorld.clear()
	m.waitField.clear()
	return m.invoke(events.WorldMapEnter)
}

func (m *Manager) updateShop() error {
	if !m.waitShop.on || !shopLoaded(m.emu) {
		return nil
	}
	m.waitShop.clear()
	return m.invoke(events.ShopOpened)
}

func (m *Manager) updateFrame(now time.Time) error {
	frame := emulator.Read[uint32](m.emu, layout.OffsetFrame)
	diff := int64(frame) - int64(m.frame)
	if diff < 0 {
		diff = -diff
	}
	if diff > reloadFrames && m.sinceReload >= reloadTicks {
		logger.Logf(logger.Allow, "game", "frame %d -> %d, state reloaded", m.frame, frame)
		m.sinceReload = 0
		m.loadSession()
		if err := m.invoke(events.Start); err != nil {
			return err
		}
	} else {
		m.sinceReload++
	}

	if frame == m.frame {
		return nil
	}
	m.frame = frame
	m.frameTime = now
	m.fieldFrames++
	if err := m.invoke(events.Frame); err != nil {
		return err
	}
	if m.paused {
		m.paused = false
		return m.invoke(events.EmulatorResumed)
	}
	return nil
}

func (m *Manager) checkStuck() {
	if m.opts.StuckAfter <= 0 {
		return
	}
	for _, w := range m.waits() {
		if !w.on {
			continue
		}
		w.ticks++
		if w.ticks >= m.opts.StuckAfter && !w.reported {
			w.reported = true
			logger.Logf(logger.Allow, "game", "stuck waiting for %s data after %d ticks", w.name, w.ticks)
		}
	}
}

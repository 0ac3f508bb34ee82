package events_test

import (
	"errors"
	"testing"

	"github.com/wnxd/psxhook/events"
	"github.com/wnxd/psxhook/internal/test"
	"github.com/wnxd/psxhook/layout"
)

func TestOrder(t *testing.T) {
	reg := events.NewRegistry()
	var order []int
	for i := range 3 {
		reg.Subscribe(events.Frame, func(events.Event) error {
			order = append(order, i)
			return nil
		})
	}
	test.DemandSuccess(t, reg.Invoke(events.Event{Kind: events.Frame, Frame: 10}))
	test.DemandEquality(t, len(order), 3)
	for i, v := range order {
		test.ExpectEquality(t, v, i)
	}
}

func TestErrorStops(t *testing.T) {
	reg := events.NewRegistry()
	stop := errors.New("stop")
	var called int
	reg.Subscribe(events.BattleEnter, func(events.Event) error {
		called++
		return stop
	})
	reg.Subscribe(events.BattleEnter, func(events.Event) error {
		called++
		return nil
	})
	err := reg.Invoke(events.Event{Kind: events.BattleEnter})
	test.ExpectSuccess(t, errors.Is(err, stop))
	test.ExpectEquality(t, called, 1)
}

func TestSubscribeAll(t *testing.T) {
	reg := events.NewRegistry()
	var got []events.Kind
	reg.SubscribeAll(func(ev events.Event) error {
		got = append(got, ev.Kind)
		return nil
	})
	reg.Subscribe(events.Start, func(events.Event) error { return nil })

	test.ExpectEquality(t, reg.Count(events.Start), 2)
	test.ExpectEquality(t, reg.Count(events.ShopOpened), 1)

	reg.Invoke(events.Event{Kind: events.ModuleChanged, Module: layout.ModuleWorld})
	reg.Invoke(events.Event{Kind: events.ShopOpened})
	test.DemandEquality(t, len(got), 2)
	test.ExpectEquality(t, got[0], events.ModuleChanged)
	test.ExpectEquality(t, got[1], events.ShopOpened)
}

func TestNoSubscribers(t *testing.T) {
	reg := events.NewRegistry()
	test.ExpectSuccess(t, reg.Invoke(events.Event{Kind: events.WorldMapEnter}))
}

func TestEventString(t *testing.T) {
	test.ExpectEquality(t, events.Event{Kind: events.Frame, Frame: 42}.String(), "frame 42")
	test.ExpectEquality(t, events.Event{Kind: events.ModuleChanged, Module: layout.ModuleBattle}.String(), "module changed battle")
	test.ExpectEquality(t, events.Event{Kind: events.EmulatorPaused}.String(), "emulator paused")
}

package main

import (
	"math"
	"testing"

	"github.com/pthm-cable/touchfield/config"
	"github.com/pthm-cable/touchfield/game"
)

func TestSweepInput(t *testing.T) {
	s := &sweepInput{width: 100, y: 50, ticks: 4}

	var events []game.Event
	for i := 0; i < 8; i++ {
		s.Poll(func(ev game.Event) { events = append(events, ev) })
	}

	if len(events) != 5 {
		t.Fatalf("got %d events, want 4 moves and 1 leave", len(events))
	}
	for i, ev := range events[:4] {
		wantX := 100 * float64(i+1) / 4
		if ev.Kind != game.EventPointerMove || ev.X != wantX || ev.Y != 50 {
			t.Errorf("event %d = %+v, want move to (%v, 50)", i, ev, wantX)
		}
	}
	if events[4].Kind != game.EventPointerLeave {
		t.Errorf("last event = %v, want leave", events[4].Kind)
	}
}

func TestRunSweepDefaults(t *testing.T) {
	cfg := config.Default()
	pv := NewParamVector()
	fe := NewFitnessEvaluator(pv, 60, 600, []int64{42}, cfg)

	res := fe.runSweep(pv.DefaultVector(), 42)
	if res.peak <= 0 || res.peak >= unstableDisp {
		t.Errorf("peak = %v, want a finite push", res.peak)
	}
	if res.settleTicks >= 600 {
		t.Errorf("default field did not settle within 600 ticks")
	}

	fitness := fe.Evaluate(pv.DefaultVector())
	if math.IsNaN(fitness) || math.IsInf(fitness, 0) {
		t.Errorf("Evaluate() = %v", fitness)
	}
	if peak, settle, _ := fe.Last(); peak != res.peak || settle <= 0 {
		t.Errorf("Last() = peak %v settle %v, want peak %v", peak, settle, res.peak)
	}
}

func TestCopyConfigIsolated(t *testing.T) {
	base := config.Default()
	fe := NewFitnessEvaluator(NewParamVector(), 10, 10, nil, base)

	cfg := fe.copyConfig()
	cfg.Field.Strength = 99
	if base.Field.Strength == 99 {
		t.Error("copyConfig shares field settings with the base config")
	}
}

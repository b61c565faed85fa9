package config

import (
	"testing"
	"time"
)

func TestApplyScript(t *testing.T) {
	got, err := ApplyScript(Default(), `
		intensity.base_probability = 0.6
		intensity.combo_threshold = 15
		intensity.combo_timeout_seconds = 5
		intensity.shake = false
	`)
	if err != nil {
		t.Fatalf("ApplyScript() error = %v", err)
	}
	if got.BaseProbability != 0.6 {
		t.Errorf("BaseProbability = %v, want 0.6", got.BaseProbability)
	}
	if got.ComboThreshold != 15 {
		t.Errorf("ComboThreshold = %d, want 15", got.ComboThreshold)
	}
	if got.ComboTimeout != 5*time.Second {
		t.Errorf("ComboTimeout = %v, want 5s", got.ComboTimeout)
	}
	if got.EnableShake {
		t.Error("EnableShake = true, want false")
	}
	if !got.EnableTrail {
		t.Error("EnableTrail = false, untouched fields must survive")
	}
}

func TestApplyScriptReadsCurrentValues(t *testing.T) {
	in := Default()
	in.ComboThreshold = 10

	// The script sees the seeded value and derives from it.
	got, err := ApplyScript(in, `intensity.combo_threshold = intensity.combo_threshold * 2`)
	if err != nil {
		t.Fatalf("ApplyScript() error = %v", err)
	}
	if got.ComboThreshold != 20 {
		t.Errorf("ComboThreshold = %d, want 20", got.ComboThreshold)
	}
}

func TestApplyScriptError(t *testing.T) {
	in := Default()
	got, err := ApplyScript(in, `this is not lua`)
	if err == nil {
		t.Fatal("ApplyScript() error = nil, want syntax error")
	}
	if got != in {
		t.Errorf("ApplyScript() = %+v, must return the input unchanged on error", got)
	}
}

func TestApplyScriptNormalizes(t *testing.T) {
	got, err := ApplyScript(Default(), `intensity.base_probability = 40`)
	if err != nil {
		t.Fatalf("ApplyScript() error = %v", err)
	}
	if got.BaseProbability != 1 {
		t.Errorf("BaseProbability = %v, want clamped to 1", got.BaseProbability)
	}
}

func TestApplyScriptIgnoresUnknownFields(t *testing.T) {
	got, err := ApplyScript(Default(), `intensity.frobnicate = 12`)
	if err != nil {
		t.Fatalf("ApplyScript() error = %v", err)
	}
	if got != Default() {
		t.Errorf("ApplyScript() = %+v, want defaults", got)
	}
}

func TestStoreSnapshotIsolated(t *testing.T) {
	s := NewStore(Default())

	snap := s.Snapshot()
	s.Update(func(i *Intensity) { i.Demo = true })

	if snap.Demo {
		t.Error("earlier snapshot mutated by Update")
	}
	if !s.Snapshot().Demo {
		t.Error("Update did not apply")
	}
}

func TestStoreNormalizesOnSet(t *testing.T) {
	s := NewStore(Default())
	bad := Default()
	bad.SparkleCap = -3
	s.Set(bad)

	if got := s.Snapshot().SparkleCap; got != 1 {
		t.Errorf("SparkleCap = %d, want clamped to 1", got)
	}
}

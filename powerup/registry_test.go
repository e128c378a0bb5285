package powerup

import (
	"errors"
	"testing"
	"time"
)

func TestRegisterAndLookup(t *testing.T) {
	r := NewRegistry(quietLogger(), 0)

	if err := r.Register(NewMagnet()); err != nil {
		t.Fatalf("register: %v", err)
	}

	p, ok := r.Lookup(TypeMagnet)
	if !ok {
		t.Fatal("registered plugin not found")
	}
	if p.Type() != TypeMagnet {
		t.Errorf("type = %q, want %q", p.Type(), TypeMagnet)
	}
	if _, ok := r.Lookup(TypeMultiBall); ok {
		t.Error("lookup of an unregistered type should fail")
	}
}

func TestRegisterDuplicateFails(t *testing.T) {
	r := NewRegistry(quietLogger(), 0)
	if err := r.Register(NewMagnet()); err != nil {
		t.Fatalf("first register: %v", err)
	}
	if err := r.Register(NewMagnet()); err == nil {
		t.Error("second register for the same type should fail")
	}
}

func TestRegisterNilAndEmptyType(t *testing.T) {
	r := NewRegistry(quietLogger(), 0)
	if err := r.Register(nil); err == nil {
		t.Error("nil plugin should be rejected")
	}

	p := &faultyPlugin{base: newBase(Descriptor{})}
	if err := r.Register(p); err == nil {
		t.Error("empty-type plugin should be rejected")
	}
}

func TestDeregister(t *testing.T) {
	r := NewRegistry(quietLogger(), 0)
	if err := r.Register(NewMagnet()); err != nil {
		t.Fatalf("register: %v", err)
	}

	if err := r.Deregister(TypeMagnet); err != nil {
		t.Fatalf("deregister: %v", err)
	}
	if _, ok := r.Lookup(TypeMagnet); ok {
		t.Error("plugin still reachable after deregistration")
	}

	err := r.Deregister(TypeMagnet)
	if !errors.Is(err, ErrNoPlugin) {
		t.Errorf("second deregister err = %v, want ErrNoPlugin", err)
	}
}

func TestDescriptorsAndTypes(t *testing.T) {
	r := NewRegistry(quietLogger(), 0)
	for _, p := range []Plugin{NewMagnet(), NewMultiBall(), NewBallSpeed()} {
		if err := r.Register(p); err != nil {
			t.Fatalf("register: %v", err)
		}
	}

	if got := len(r.Types()); got != 3 {
		t.Errorf("types = %d, want 3", got)
	}
	descs := r.Descriptors()
	if len(descs) != 3 {
		t.Fatalf("descriptors = %d, want 3", len(descs))
	}
	seen := make(map[Type]bool)
	for _, d := range descs {
		seen[d.Type] = true
	}
	for _, want := range []Type{TypeMagnet, TypeMultiBall, TypeBallSpeed} {
		if !seen[want] {
			t.Errorf("descriptor for %q missing", want)
		}
	}
}

func TestCallStatsAccounting(t *testing.T) {
	r := NewRegistry(quietLogger(), 2*time.Millisecond)
	if err := r.Register(NewMagnet()); err != nil {
		t.Fatalf("register: %v", err)
	}

	r.Record(TypeMagnet, time.Millisecond)
	r.Record(TypeMagnet, 3*time.Millisecond) // over budget
	r.Record(TypeMagnet, 2*time.Millisecond)

	s, ok := r.Stats(TypeMagnet)
	if !ok {
		t.Fatal("stats missing for registered type")
	}
	if s.Calls != 3 {
		t.Errorf("calls = %d, want 3", s.Calls)
	}
	if s.Total != 6*time.Millisecond {
		t.Errorf("total = %v, want 6ms", s.Total)
	}
	if s.Max != 3*time.Millisecond {
		t.Errorf("max = %v, want 3ms", s.Max)
	}
	if s.Overrun != 1 {
		t.Errorf("overrun = %d, want 1", s.Overrun)
	}
	if s.Average() != 2*time.Millisecond {
		t.Errorf("average = %v, want 2ms", s.Average())
	}

	// recording against an unknown type is a quiet no-op
	r.Record(TypePenetration, time.Millisecond)
	if _, ok := r.Stats(TypePenetration); ok {
		t.Error("stats should not exist for an unregistered type")
	}
}

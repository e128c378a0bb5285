package powerup

import (
	"testing"
	"time"
)

func stackOf(times ...time.Duration) []*ActiveEffect {
	out := make([]*ActiveEffect, len(times))
	for i, d := range times {
		out[i] = &ActiveEffect{
			ID:        string(rune('a' + i)),
			Type:      TypeMultiBall,
			StartTime: testEpoch.Add(d),
		}
	}
	return out
}

func TestEvictOldest(t *testing.T) {
	tests := []struct {
		name   string
		active []*ActiveEffect
		cap    int
		want   []string
	}{
		{
			name:   "under cap evicts nothing",
			active: stackOf(0, time.Second),
			cap:    3,
			want:   nil,
		},
		{
			name:   "at cap evicts the oldest",
			active: stackOf(2*time.Second, 0, time.Second), // b is oldest
			cap:    3,
			want:   []string{"b"},
		},
		{
			name:   "over cap evicts several",
			active: stackOf(3*time.Second, time.Second, 0, 2*time.Second),
			cap:    3,
			want:   []string{"c", "b"},
		},
		{
			name:   "zero cap means unlimited",
			active: stackOf(0, time.Second, 2*time.Second, 3*time.Second),
			cap:    0,
			want:   nil,
		},
		{
			name:   "cap of one replaces the incumbent",
			active: stackOf(0),
			cap:    1,
			want:   []string{"a"},
		},
		{
			name:   "empty active",
			active: nil,
			cap:    3,
			want:   nil,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			r := NewStackResolver(quietLogger())
			got := r.EvictOldest(tt.active, tt.cap)
			if len(got) != len(tt.want) {
				t.Fatalf("evicted %v, want %v", got, tt.want)
			}
			for i := range got {
				if got[i] != tt.want[i] {
					t.Errorf("evicted[%d] = %q, want %q", i, got[i], tt.want[i])
				}
			}
		})
	}
}

func TestEvictOldestDoesNotMutateInput(t *testing.T) {
	active := stackOf(2*time.Second, 0, time.Second)
	r := NewStackResolver(quietLogger())
	r.EvictOldest(active, 2)

	if active[0].ID != "a" || active[1].ID != "b" || active[2].ID != "c" {
		t.Error("resolver reordered the caller's slice")
	}
}

package flight

import (
	"math"
	"testing"
)

func TestHeatmapNormalizes(t *testing.T) {
	trajs := []Trajectory{
		{0, 300, 599, 600, 30},
		{150, 450, 90, 210, 330},
	}
	h := Heatmap(trajs, 20, 600, 20, 5)
	if len(h) != 20 {
		t.Fatalf("expected 20 bins, got %d", len(h))
	}
	sum := 0.0
	for i, p := range h {
		if p < 0 {
			t.Fatalf("bin %d has negative probability %v", i, p)
		}
		sum += p
	}
	if math.Abs(sum-1) > 1e-9 {
		t.Fatalf("expected probabilities to sum to 1, got %v", sum)
	}
}

func TestHeatmapBoundaryClamping(t *testing.T) {
	// Height exactly at the board bottom computes bin 20 and must clamp
	// into bin 19.
	h := Heatmap([]Trajectory{{600, 599, 600, 600, 600}}, 20, 600, 20, 5)
	if math.Abs(h[19]-1) > 1e-9 {
		t.Fatalf("expected all mass in last bin, got %v", h)
	}
}

func TestHeatmapEmptyIsAllZero(t *testing.T) {
	for _, trajs := range [][]Trajectory{nil, {}, {Trajectory{}}} {
		h := Heatmap(trajs, 20, 600, 20, 5)
		if len(h) != 20 {
			t.Fatalf("expected 20 bins, got %d", len(h))
		}
		for i, p := range h {
			if p != 0 {
				t.Fatalf("bin %d = %v, expected exactly 0 with no contributions", i, p)
			}
		}
	}
}

func TestHeatmapRespectsWindows(t *testing.T) {
	// Positions past the window and trajectories past the cap must not
	// contribute. The first trajectory's sixth position and the entire
	// second trajectory sit in bin 0; with window 5 and cap 1 nothing may
	// land there.
	trajs := []Trajectory{
		{300, 300, 300, 300, 300, 0},
		{0, 0, 0, 0, 0},
	}
	h := Heatmap(trajs, 20, 600, 1, 5)
	if h[0] != 0 {
		t.Fatalf("bin 0 got probability %v from outside the aggregation window", h[0])
	}
	if math.Abs(h[10]-1) > 1e-9 {
		t.Fatalf("expected all mass in bin 10, got %v", h)
	}
}

package ising

import (
	"errors"
	"math"
	"testing"
)

func TestBuildRejectsInvalidInput(t *testing.T) {
	cases := []struct {
		name   string
		steps  int
		height float64
		pipes  []Pipe
	}{
		{"zero steps", 0, 300, nil},
		{"negative steps", -3, 300, nil},
		{"height below board", 15, -1, nil},
		{"height above board", 15, 601, nil},
		{"nan height", 15, math.NaN(), nil},
		{"non-finite pipe", 15, 300, []Pipe{{X: math.Inf(1), GapTop: 200, GapBottom: 400}}},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			b := NewBuilder(tc.steps, 600)
			_, err := b.Build(tc.height, 0, tc.pipes)
			if err == nil {
				t.Fatal("expected error, got nil")
			}
			if !errors.Is(err, ErrInvalidInput) {
				t.Fatalf("expected ErrInvalidInput, got %v", err)
			}
		})
	}
}

func TestBuildGravityBias(t *testing.T) {
	b := NewBuilder(15, 600)

	falling, err := b.Build(300, 2, nil)
	if err != nil {
		t.Fatalf("Build returned error: %v", err)
	}
	for i, bias := range falling.Biases {
		if bias != b.Tuning.GravityBiasFall {
			t.Fatalf("step %d: expected falling bias %v, got %v", i, b.Tuning.GravityBiasFall, bias)
		}
	}

	rising, err := b.Build(300, -4, nil)
	if err != nil {
		t.Fatalf("Build returned error: %v", err)
	}
	for i, bias := range rising.Biases {
		if bias != b.Tuning.GravityBiasRise {
			t.Fatalf("step %d: expected rising bias %v, got %v", i, b.Tuning.GravityBiasRise, bias)
		}
	}
}

func TestBuildModelShape(t *testing.T) {
	b := NewBuilder(15, 600)
	m, err := b.Build(300, 2, nil)
	if err != nil {
		t.Fatalf("Build returned error: %v", err)
	}
	if m.N != 15 {
		t.Fatalf("expected 15 variables, got %d", m.N)
	}
	if len(m.Edges) != 14 || len(m.Weights) != 14 {
		t.Fatalf("expected 14 edges and weights, got %d and %d", len(m.Edges), len(m.Weights))
	}
	for i, e := range m.Edges {
		if e[0] != i || e[1] != i+1 {
			t.Fatalf("edge %d connects (%d,%d), expected (%d,%d)", i, e[0], e[1], i, i+1)
		}
	}
	for i, w := range m.Weights {
		if w != b.Tuning.Coupling {
			t.Fatalf("weight %d: expected %v, got %v", i, b.Tuning.Coupling, w)
		}
	}
	if m.Beta <= 0 {
		t.Fatalf("expected positive beta, got %v", m.Beta)
	}
}

func TestBuildPipeOverrideTooHigh(t *testing.T) {
	b := NewBuilder(15, 600)
	// Pipe at x=180 with the default bird position and approach speed lands
	// on step (180-150)/3 = 10. Bird at height 100 is within the danger
	// margin of the gap top at 200, so step 10 must favor "down".
	pipe := Pipe{X: 180, GapTop: 200, GapBottom: 400}
	m, err := b.Build(100, 2, []Pipe{pipe})
	if err != nil {
		t.Fatalf("Build returned error: %v", err)
	}
	if m.Biases[10] != b.Tuning.DownBias {
		t.Fatalf("expected down bias %v at step 10, got %v", b.Tuning.DownBias, m.Biases[10])
	}
	for i, bias := range m.Biases {
		if i == 10 {
			continue
		}
		if bias != b.Tuning.GravityBiasFall {
			t.Fatalf("step %d: expected base bias, got %v", i, bias)
		}
	}
}

func TestBuildPipeOverrideTooLow(t *testing.T) {
	b := NewBuilder(15, 600)
	// Bird at height 380 is within the danger margin of the gap bottom at
	// 400, so the relevant step must favor "up".
	pipe := Pipe{X: 180, GapTop: 200, GapBottom: 400}
	m, err := b.Build(380, 2, []Pipe{pipe})
	if err != nil {
		t.Fatalf("Build returned error: %v", err)
	}
	if m.Biases[10] != b.Tuning.UpBias {
		t.Fatalf("expected up bias %v at step 10, got %v", b.Tuning.UpBias, m.Biases[10])
	}
}

func TestBuildPipeOverrideLastWriteWins(t *testing.T) {
	b := NewBuilder(15, 600)
	// Both pipes land on step 10. The bird at height 100 is too high for
	// the first pipe (down bias) and too low for the second (up bias); the
	// later pipe in iteration order must win.
	pipes := []Pipe{
		{X: 180, GapTop: 200, GapBottom: 400},
		{X: 180, GapTop: 20, GapBottom: 120},
	}
	m, err := b.Build(100, 2, pipes)
	if err != nil {
		t.Fatalf("Build returned error: %v", err)
	}
	if m.Biases[10] != b.Tuning.UpBias {
		t.Fatalf("expected last pipe's up bias %v at step 10, got %v", b.Tuning.UpBias, m.Biases[10])
	}
}

func TestBuildPipeOutsideHorizonIgnored(t *testing.T) {
	b := NewBuilder(15, 600)
	pipes := []Pipe{
		{X: 900, GapTop: 200, GapBottom: 400}, // step 250, far beyond the chain
		{X: 100, GapTop: 200, GapBottom: 400}, // already behind the bird
	}
	m, err := b.Build(100, 2, pipes)
	if err != nil {
		t.Fatalf("Build returned error: %v", err)
	}
	for i, bias := range m.Biases {
		if bias != b.Tuning.GravityBiasFall {
			t.Fatalf("step %d: pipe outside [0,T) changed bias to %v", i, bias)
		}
	}
}

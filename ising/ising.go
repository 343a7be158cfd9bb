package ising

import (
	"errors"
	"fmt"
	"math"
)

// ErrInvalidInput marks validation failures detected before any sampling
// happens. Callers can test for it with errors.Is and correct the request.
var ErrInvalidInput = errors.New("invalid input")

// Pipe is one obstacle the bird has to pass through. X is the horizontal
// position of the pipe pair, GapTop the height of the top pipe's lower edge
// and GapBottom the height of the bottom pipe's upper edge, all in board
// coordinates (y grows downward, 0 is the top of the board).
type Pipe struct {
	X         float64
	GapTop    float64
	GapBottom float64
}

// Model is a chain-structured Ising model over binary movement decisions.
// Spin +1 at step t means "tendency to flap upward", -1 means "let gravity
// pull down". Edges only ever connect temporally adjacent steps, so the
// chain has no cycles. Biases is length N, Weights is length len(Edges),
// and Beta must be positive.
type Model struct {
	N       int
	Edges   [][2]int
	Biases  []float64
	Weights []float64
	Beta    float64
}

// Assignment maps every variable of a model to a spin value in {-1,+1}.
// One Assignment is one sample state.
type Assignment []int8

// Clone returns an independent copy of the assignment.
func (a Assignment) Clone() Assignment {
	out := make(Assignment, len(a))
	copy(out, a)
	return out
}

// Builder turns the current bird state plus nearby pipes into a fully
// specified chain model. Tunables are exported so CLI wiring or a tuning
// file can adjust them; the defaults reproduce the reference predictor.
type Builder struct {
	// Steps is the number of future movement decisions (chain length).
	Steps int

	// BoardHeight is the board extent; bird heights live in [0, BoardHeight].
	BoardHeight float64

	Tuning Tuning
}

// NewBuilder creates a Builder with the default chain length, board height
// and tuning.
func NewBuilder(steps int, boardHeight float64) *Builder {
	return &Builder{
		Steps:       steps,
		BoardHeight: boardHeight,
		Tuning:      DefaultTuning(),
	}
}

// Build constructs the chain model for the given bird height, vertical
// velocity (positive = falling) and pipe list.
//
// The base bias encodes the gravity tendency: a bird that is already
// falling is more likely to need an upward correction soon. Each pipe then
// overrides the bias at the single step where it becomes relevant,
// estimated by linear extrapolation of the horizontal approach. When two
// pipes land on the same step index the later one in iteration order wins;
// that matches the reference behavior and is deliberate, not a conflict to
// resolve.
func (b *Builder) Build(height, velocity float64, pipes []Pipe) (*Model, error) {
	if b.Steps < 1 {
		return nil, fmt.Errorf("%w: chain length must be >= 1, got %d", ErrInvalidInput, b.Steps)
	}
	if math.IsNaN(height) || height < 0 || height > b.BoardHeight {
		return nil, fmt.Errorf("%w: height %v outside [0, %v]", ErrInvalidInput, height, b.BoardHeight)
	}
	if math.IsNaN(velocity) || math.IsInf(velocity, 0) {
		return nil, fmt.Errorf("%w: velocity must be finite, got %v", ErrInvalidInput, velocity)
	}
	for i, p := range pipes {
		if !isFinite(p.X) || !isFinite(p.GapTop) || !isFinite(p.GapBottom) {
			return nil, fmt.Errorf("%w: pipe %d has non-finite fields", ErrInvalidInput, i)
		}
	}
	tun := b.Tuning

	// Gravity bias: favor upward corrections while falling, downward drift
	// otherwise.
	base := tun.GravityBiasRise
	if velocity > 0 {
		base = tun.GravityBiasFall
	}
	biases := make([]float64, b.Steps)
	for i := range biases {
		biases[i] = base
	}

	// Pipe overrides: estimate the step at which each pipe reaches the bird
	// and pin that step's bias toward the safe side of the gap.
	for _, p := range pipes {
		step := int((p.X - tun.BirdX) / tun.ApproachSpeed)
		if step < 0 || step >= b.Steps {
			continue
		}
		if height < p.GapTop+tun.DangerMargin {
			biases[step] = tun.DownBias
		} else if height > p.GapBottom-tun.DangerMargin {
			biases[step] = tun.UpBias
		}
	}

	edges := make([][2]int, 0, b.Steps-1)
	weights := make([]float64, 0, b.Steps-1)
	for i := 0; i+1 < b.Steps; i++ {
		edges = append(edges, [2]int{i, i + 1})
		weights = append(weights, tun.Coupling)
	}

	return &Model{
		N:       b.Steps,
		Edges:   edges,
		Biases:  biases,
		Weights: weights,
		Beta:    tun.Beta,
	}, nil
}

func isFinite(x float64) bool {
	return !math.IsNaN(x) && !math.IsInf(x, 0)
}

// Package gibbs draws correlated binary decision sequences from a chain
// Ising model by block Gibbs sampling. The chain's even/odd two-coloring
// makes every half-sweep an exact joint redraw: conditioned on the frozen
// block, the updated block's members are mutually independent.
package gibbs

import (
	"errors"
	"fmt"
	"math"
	"math/rand"

	"github.com/Noofbiz/thermcast/ising"
)

// ErrNumeric marks numeric failures: a non-positive inverse temperature or
// a non-finite conditional field. These are fatal for the current request;
// no retry happens inside the sampler.
var ErrNumeric = errors.New("numeric instability")

// Schedule configures a sampling run: NWarmup sweeps are discarded before
// recording, then one assignment is recorded every StepsPerSample sweeps
// until NSamples assignments have been collected.
type Schedule struct {
	NWarmup        int
	NSamples       int
	StepsPerSample int
}

// DefaultSchedule returns the schedule used by the reference predictor.
func DefaultSchedule() Schedule {
	return Schedule{NWarmup: 50, NSamples: 50, StepsPerSample: 2}
}

type neighbor struct {
	idx    int
	weight float64
}

// Sampler runs block Gibbs sweeps over one model. A sampler is built per
// request and never shared; it carries two explicitly seeded streams, one
// for the mean-field initialization and one for the sweeps, both derived
// from the root seed so identical inputs reproduce identical samples.
type Sampler struct {
	model  *ising.Model
	blocks ising.Blocks
	sched  Schedule

	// neighbors[i] lists the chain neighbors of variable i with their
	// coupling weights, precomputed from the edge list.
	neighbors [][]neighbor

	initRNG  *rand.Rand
	sweepRNG *rand.Rand

	// kernel, when set, replaces the pure-Go per-block conditional update.
	// The default build leaves it nil; EnableKernel in the gomlxkernel
	// build installs the tensor-backed update here.
	kernel func(state ising.Assignment, block []int) error
}

// New validates the model and schedule and prepares a sampler. The seed
// fully determines the output; the reference predictor uses 42.
func New(m *ising.Model, blocks ising.Blocks, sched Schedule, seed int64) (*Sampler, error) {
	if m == nil || m.N < 1 {
		return nil, fmt.Errorf("model must have at least one variable")
	}
	if m.Beta <= 0 || math.IsNaN(m.Beta) {
		return nil, fmt.Errorf("%w: inverse temperature %v is not positive", ErrNumeric, m.Beta)
	}
	if len(m.Biases) != m.N {
		return nil, fmt.Errorf("bias vector length %d does not match %d variables", len(m.Biases), m.N)
	}
	if len(m.Weights) != len(m.Edges) {
		return nil, fmt.Errorf("weight vector length %d does not match %d edges", len(m.Weights), len(m.Edges))
	}
	if sched.NWarmup < 0 || sched.NSamples < 1 || sched.StepsPerSample < 1 {
		return nil, fmt.Errorf("invalid schedule %+v", sched)
	}

	neighbors := make([][]neighbor, m.N)
	for e, pair := range m.Edges {
		i, j := pair[0], pair[1]
		if i < 0 || i >= m.N || j < 0 || j >= m.N {
			return nil, fmt.Errorf("edge %d connects out-of-range variables (%d, %d)", e, i, j)
		}
		w := m.Weights[e]
		neighbors[i] = append(neighbors[i], neighbor{idx: j, weight: w})
		neighbors[j] = append(neighbors[j], neighbor{idx: i, weight: w})
	}

	// Split the root stream the way the reference splits its PRNG key: one
	// child seed per purpose, drawn in a fixed order.
	root := rand.New(rand.NewSource(seed))
	initSeed := root.Int63()
	sweepSeed := root.Int63()

	return &Sampler{
		model:     m,
		blocks:    blocks,
		sched:     sched,
		neighbors: neighbors,
		initRNG:   rand.New(rand.NewSource(initSeed)),
		sweepRNG:  rand.New(rand.NewSource(sweepSeed)),
	}, nil
}

// Sample runs the full schedule and returns the recorded assignments. Every
// returned assignment is an independent copy; the sampler's working state
// is never aliased.
func (s *Sampler) Sample() ([]ising.Assignment, error) {
	state, err := s.initState()
	if err != nil {
		return nil, err
	}

	for i := 0; i < s.sched.NWarmup; i++ {
		if err := s.sweep(state); err != nil {
			return nil, err
		}
	}

	out := make([]ising.Assignment, 0, s.sched.NSamples)
	for len(out) < s.sched.NSamples {
		for i := 0; i < s.sched.StepsPerSample; i++ {
			if err := s.sweep(state); err != nil {
				return nil, err
			}
		}
		out = append(out, state.Clone())
	}
	return out, nil
}

// initState draws the starting assignment from the mean-field
// approximation: each variable is an independent biased coin that ignores
// the couplings.
func (s *Sampler) initState() (ising.Assignment, error) {
	state := make(ising.Assignment, s.model.N)
	for i := 0; i < s.model.N; i++ {
		p, err := s.conditional(s.model.Biases[i])
		if err != nil {
			return nil, err
		}
		state[i] = drawSpin(s.initRNG, p)
	}
	return state, nil
}

// sweep redraws the even block conditioned on the odd block, then the odd
// block conditioned on the even block. Because no two members of a block
// are adjacent, updating a block in place never lets a member read a
// half-updated value from its own half-sweep.
func (s *Sampler) sweep(state ising.Assignment) error {
	update := s.updateBlock
	if s.kernel != nil {
		update = s.kernel
	}
	if err := update(state, s.blocks.Even); err != nil {
		return err
	}
	return update(state, s.blocks.Odd)
}

func (s *Sampler) updateBlock(state ising.Assignment, block []int) error {
	for _, i := range block {
		field := s.model.Biases[i]
		for _, nb := range s.neighbors[i] {
			field += nb.weight * float64(state[nb.idx])
		}
		p, err := s.conditional(field)
		if err != nil {
			return err
		}
		state[i] = drawSpin(s.sweepRNG, p)
	}
	return nil
}

// conditional returns P(spin = +1) for a variable whose local field (bias
// plus weighted neighbor spins) is the given value.
func (s *Sampler) conditional(field float64) (float64, error) {
	x := 2 * s.model.Beta * field
	if math.IsNaN(x) || math.IsInf(x, 0) {
		return 0, fmt.Errorf("%w: conditional field is not finite (field=%v, beta=%v)", ErrNumeric, field, s.model.Beta)
	}
	return logistic(x), nil
}

func drawSpin(rng *rand.Rand, pUp float64) int8 {
	if rng.Float64() < pUp {
		return 1
	}
	return -1
}

// logistic is 1/(1+e^-x), arranged so the exponential argument is always
// non-positive and cannot overflow.
func logistic(x float64) float64 {
	if x >= 0 {
		return 1 / (1 + math.Exp(-x))
	}
	e := math.Exp(x)
	return e / (1 + e)
}

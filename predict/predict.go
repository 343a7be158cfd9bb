// Package predict wires the model builder, block partitioner, Gibbs
// sampler, trajectory decoder and heatmap aggregator into the single
// prediction operation the transport layer calls.
package predict

import (
	"fmt"

	"github.com/Noofbiz/thermcast/flight"
	"github.com/Noofbiz/thermcast/gibbs"
	"github.com/Noofbiz/thermcast/ising"
)

// Board and reporting constants shared with the browser game.
const (
	BoardHeight = 600.0
	HeightBins  = 20
	TimeSteps   = 15

	// ReportHorizon is how many positions of each trajectory are surfaced;
	// the remaining steps are sampled only to help mixing.
	ReportHorizon = 10

	// ReportTrajectories of the drawn samples are returned to the caller.
	ReportTrajectories = 20

	// HeatmapWindow is how many leading positions per trajectory feed the
	// histogram.
	HeatmapWindow = 5

	// DefaultSeed reproduces the reference predictor's sample stream.
	DefaultSeed = 42
)

// Request is the validated input for one prediction: the bird's current
// height in [0, BoardHeight], its vertical velocity (positive = falling)
// and the upcoming pipes. All fields are required; the transport layer
// rejects payloads with absent keys before building a Request.
type Request struct {
	Height   float64
	Velocity float64
	Pipes    []ising.Pipe
}

// Result is a successful forecast: at most ReportTrajectories sampled
// trajectories of at most ReportHorizon positions each, and a HeightBins
// probability histogram that sums to 1 (or is all zero when no position
// contributed).
type Result struct {
	Trajectories []flight.Trajectory
	Heatmap      []float64
}

// Predictor holds the per-process configuration. It carries no mutable
// state: every Predict call builds its own model, blocks and sampler, so a
// single Predictor is safe for concurrent requests.
type Predictor struct {
	builder  *ising.Builder
	physics  flight.Physics
	schedule gibbs.Schedule
	seed     int64
}

// New returns a predictor with the reference configuration and the given
// root seed.
func New(seed int64) *Predictor {
	return &Predictor{
		builder:  ising.NewBuilder(TimeSteps, BoardHeight),
		physics:  flight.DefaultPhysics(),
		schedule: gibbs.DefaultSchedule(),
		seed:     seed,
	}
}

// LoadTuning applies a JSON tuning file to the predictor's model builder.
func (p *Predictor) LoadTuning(path string) error {
	return p.builder.LoadTuning(path)
}

// Predict runs the full pipeline. Validation failures surface as
// ising.ErrInvalidInput, numeric failures as gibbs.ErrNumeric; everything
// else is pure arithmetic and cannot fail.
func (p *Predictor) Predict(req Request) (*Result, error) {
	model, err := p.builder.Build(req.Height, req.Velocity, req.Pipes)
	if err != nil {
		return nil, fmt.Errorf("build model: %w", err)
	}

	blocks := ising.Partition(model.N)

	sampler, err := gibbs.New(model, blocks, p.schedule, p.seed)
	if err != nil {
		return nil, fmt.Errorf("prepare sampler: %w", err)
	}
	samples, err := sampler.Sample()
	if err != nil {
		return nil, fmt.Errorf("sample: %w", err)
	}

	n := len(samples)
	if n > ReportTrajectories {
		n = ReportTrajectories
	}
	trajs := make([]flight.Trajectory, 0, n)
	for _, s := range samples[:n] {
		trajs = append(trajs, flight.Decode(s, req.Height, req.Velocity, ReportHorizon, p.physics))
	}

	return &Result{
		Trajectories: trajs,
		Heatmap:      flight.Heatmap(trajs, HeightBins, BoardHeight, ReportTrajectories, HeatmapWindow),
	}, nil
}

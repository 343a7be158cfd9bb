package ising

import (
	"encoding/json"
	"fmt"
	"os"
)

// Tuning collects the scalar knobs of the model builder. All values have
// working defaults from DefaultTuning; a JSON tuning file can override any
// subset of them.
type Tuning struct {
	// GravityBiasFall is the per-step bias applied while the bird is
	// falling (velocity > 0); positive values favor the "flap up" spin.
	GravityBiasFall float64
	// GravityBiasRise is the per-step bias applied otherwise.
	GravityBiasRise float64

	// BirdX is the fixed horizontal position of the bird on the board.
	BirdX float64
	// ApproachSpeed is how many horizontal units a pipe closes per step.
	ApproachSpeed float64
	// DangerMargin is the distance from a gap edge inside which the bird
	// counts as dangerously close.
	DangerMargin float64
	// DownBias and UpBias are the override biases pinned at a pipe's
	// relevant step when the bird is too high respectively too low.
	DownBias float64
	UpBias   float64

	// Coupling is the uniform edge weight discouraging spin flip-flops
	// between adjacent steps.
	Coupling float64
	// Beta is the inverse temperature; larger values sharpen the sampled
	// distribution. Must be positive.
	Beta float64
}

// DefaultTuning returns the tuning used by the reference predictor.
func DefaultTuning() Tuning {
	return Tuning{
		GravityBiasFall: 0.5,
		GravityBiasRise: -0.3,
		BirdX:           150,
		ApproachSpeed:   3,
		DangerMargin:    50,
		DownBias:        -1.0,
		UpBias:          1.0,
		Coupling:        0.5,
		Beta:            1.0,
	}
}

// LoadTuning reads a JSON tuning file and applies the values it provides on
// top of the builder's current tuning. Absent fields keep their current
// value, so a file may override a single knob. The accepted format:
//
//	{
//	  "gravity_bias_fall": 0.5,
//	  "gravity_bias_rise": -0.3,
//	  "bird_x": 150,
//	  "approach_speed": 3,
//	  "danger_margin": 50,
//	  "down_bias": -1.0,
//	  "up_bias": 1.0,
//	  "coupling": 0.5,
//	  "beta": 1.0
//	}
func (b *Builder) LoadTuning(path string) error {
	if path == "" {
		return fmt.Errorf("empty path")
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("read tuning file: %w", err)
	}

	var raw struct {
		GravityBiasFall *float64 `json:"gravity_bias_fall"`
		GravityBiasRise *float64 `json:"gravity_bias_rise"`
		BirdX           *float64 `json:"bird_x"`
		ApproachSpeed   *float64 `json:"approach_speed"`
		DangerMargin    *float64 `json:"danger_margin"`
		DownBias        *float64 `json:"down_bias"`
		UpBias          *float64 `json:"up_bias"`
		Coupling        *float64 `json:"coupling"`
		Beta            *float64 `json:"beta"`
	}
	if err := json.Unmarshal(data, &raw); err != nil {
		return fmt.Errorf("unmarshal tuning file: %w", err)
	}

	if raw.GravityBiasFall != nil {
		b.Tuning.GravityBiasFall = *raw.GravityBiasFall
	}
	if raw.GravityBiasRise != nil {
		b.Tuning.GravityBiasRise = *raw.GravityBiasRise
	}
	if raw.BirdX != nil {
		b.Tuning.BirdX = *raw.BirdX
	}
	if raw.ApproachSpeed != nil {
		if *raw.ApproachSpeed <= 0 {
			return fmt.Errorf("approach_speed must be > 0, got %v", *raw.ApproachSpeed)
		}
		b.Tuning.ApproachSpeed = *raw.ApproachSpeed
	}
	if raw.DangerMargin != nil {
		b.Tuning.DangerMargin = *raw.DangerMargin
	}
	if raw.DownBias != nil {
		b.Tuning.DownBias = *raw.DownBias
	}
	if raw.UpBias != nil {
		b.Tuning.UpBias = *raw.UpBias
	}
	if raw.Coupling != nil {
		b.Tuning.Coupling = *raw.Coupling
	}
	if raw.Beta != nil {
		if *raw.Beta <= 0 {
			return fmt.Errorf("beta must be > 0, got %v", *raw.Beta)
		}
		b.Tuning.Beta = *raw.Beta
	}
	return nil
}

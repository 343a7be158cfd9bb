// Package flight turns sampled spin sequences back into physical bird
// trajectories and aggregates them into a spatial histogram.
package flight

import "github.com/Noofbiz/thermcast/ising"

// Physics holds the integration constants for decoding. Board coordinates
// grow downward: a positive velocity is falling, the flap impulse is
// negative.
type Physics struct {
	FlapImpulse      float64
	Gravity          float64
	TerminalVelocity float64
	BoardHeight      float64
}

// DefaultPhysics returns the constants of the reference game.
func DefaultPhysics() Physics {
	return Physics{
		FlapImpulse:      -6.5,
		Gravity:          0.25,
		TerminalVelocity: 8,
		BoardHeight:      600,
	}
}

// Trajectory is an ordered sequence of bird heights, starting with the
// current height.
type Trajectory []float64

// Decode integrates one spin sequence into a trajectory. A +1 spin
// overrides the velocity with the flap impulse; every step then applies
// gravity, caps the velocity at terminal and clamps the position onto the
// board. The result has one entry per decision plus the starting height,
// truncated to horizon entries: later steps exist for mixing, only the
// near-term positions are reported. horizon <= 0 keeps the full length.
func Decode(spins ising.Assignment, height, velocity float64, horizon int, p Physics) Trajectory {
	traj := make(Trajectory, 0, len(spins)+1)
	traj = append(traj, clamp(height, 0, p.BoardHeight))

	y, v := height, velocity
	for _, spin := range spins {
		if spin > 0 {
			v = p.FlapImpulse
		}
		v += p.Gravity
		if v > p.TerminalVelocity {
			v = p.TerminalVelocity
		}
		y = clamp(y+v, 0, p.BoardHeight)
		traj = append(traj, y)
	}

	if horizon > 0 && len(traj) > horizon {
		traj = traj[:horizon]
	}
	return traj
}

func clamp(x, lo, hi float64) float64 {
	if x < lo {
		return lo
	}
	if x > hi {
		return hi
	}
	return x
}

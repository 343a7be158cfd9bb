package flight

// Heatmap bins the near-term positions of the sampled trajectories into
// `bins` equal-width height bands over [0, boardHeight] and normalizes the
// counts to a probability distribution. Only the first maxTrajectories
// trajectories and the first window positions of each contribute; a height
// exactly on the lower board edge rounds into the last bin, so the computed
// index is clamped. When nothing contributes the all-zero vector is
// returned unnormalized rather than dividing by zero.
func Heatmap(trajs []Trajectory, bins int, boardHeight float64, maxTrajectories, window int) []float64 {
	counts := make([]float64, bins)
	total := 0.0

	for t, traj := range trajs {
		if t >= maxTrajectories {
			break
		}
		for i, y := range traj {
			if i >= window {
				break
			}
			idx := int(y / boardHeight * float64(bins))
			if idx < 0 {
				idx = 0
			}
			if idx > bins-1 {
				idx = bins - 1
			}
			counts[idx]++
			total++
		}
	}

	if total == 0 {
		return counts
	}
	for i := range counts {
		counts[i] /= total
	}
	return counts
}

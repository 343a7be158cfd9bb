package predict

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Noofbiz/thermcast/ising"
)

func TestPredictEndToEnd(t *testing.T) {
	p := New(DefaultSeed)
	result, err := p.Predict(Request{Height: 300, Velocity: 2})
	require.NoError(t, err)

	require.Len(t, result.Trajectories, ReportTrajectories)
	for _, traj := range result.Trajectories {
		require.Len(t, traj, ReportHorizon)
		assert.Equal(t, 300.0, traj[0])
		for _, y := range traj {
			assert.GreaterOrEqual(t, y, 0.0)
			assert.LessOrEqual(t, y, BoardHeight)
		}
	}

	require.Len(t, result.Heatmap, HeightBins)
	sum := 0.0
	for _, prob := range result.Heatmap {
		assert.GreaterOrEqual(t, prob, 0.0)
		sum += prob
	}
	assert.InDelta(t, 1.0, sum, 1e-9)
}

func TestPredictDeterministic(t *testing.T) {
	req := Request{
		Height:   250,
		Velocity: -3,
		Pipes:    []ising.Pipe{{X: 300, GapTop: 180, GapBottom: 380}},
	}

	first, err := New(DefaultSeed).Predict(req)
	require.NoError(t, err)
	second, err := New(DefaultSeed).Predict(req)
	require.NoError(t, err)

	assert.Equal(t, first.Trajectories, second.Trajectories)
	assert.Equal(t, first.Heatmap, second.Heatmap)
}

func TestPredictSeedChangesSamples(t *testing.T) {
	req := Request{Height: 300, Velocity: 2}

	first, err := New(1).Predict(req)
	require.NoError(t, err)
	second, err := New(2).Predict(req)
	require.NoError(t, err)

	assert.NotEqual(t, first.Trajectories, second.Trajectories)
}

func TestPredictRejectsInvalidHeight(t *testing.T) {
	p := New(DefaultSeed)
	for _, h := range []float64{-1, BoardHeight + 1} {
		_, err := p.Predict(Request{Height: h, Velocity: 0})
		require.Error(t, err)
		assert.ErrorIs(t, err, ising.ErrInvalidInput)
	}
}

func TestPredictTopEdgeStaysClamped(t *testing.T) {
	p := New(DefaultSeed)
	result, err := p.Predict(Request{Height: 0, Velocity: 10})
	require.NoError(t, err)
	for _, traj := range result.Trajectories {
		assert.Equal(t, 0.0, traj[0])
		for _, y := range traj {
			assert.GreaterOrEqual(t, y, 0.0)
		}
	}
}

func TestPredictWithPipes(t *testing.T) {
	p := New(DefaultSeed)
	result, err := p.Predict(Request{
		Height:   100,
		Velocity: 2,
		Pipes: []ising.Pipe{
			{X: 180, GapTop: 200, GapBottom: 400},
			{X: 400, GapTop: 150, GapBottom: 350},
		},
	})
	require.NoError(t, err)
	require.Len(t, result.Trajectories, ReportTrajectories)
}

package testutil

import (
	"math"
	"math/rand"

	"github.com/cwbudde/algo-flow/flow/series"
)

// SineFlow returns a uniformly sampled series level + amplitude*sin(2*pi*t/period)
// on t = 0, dt, 2*dt, ...
func SineFlow(level, amplitude, period, dt float64, length int) *series.Series {
	flow := make([]float64, length)
	for i := range flow {
		flow[i] = level + amplitude*math.Sin(2*math.Pi*float64(i)*dt/period)
	}
	return series.Uniform(0, dt, flow)
}

// NoisyFlow returns a deterministic series of uniform noise in
// [level-amplitude, level+amplitude] sampled every dt.
func NoisyFlow(seed int64, level, amplitude, dt float64, length int) *series.Series {
	rng := rand.New(rand.NewSource(seed))
	flow := make([]float64, length)
	for i := range flow {
		flow[i] = level + (rng.Float64()*2-1)*amplitude
	}
	return series.Uniform(0, dt, flow)
}

// AR1Flow returns a deterministic first-order autoregressive series
// x[i] = phi*x[i-1] + noise, shifted by level.
func AR1Flow(seed int64, phi, level float64, length int) *series.Series {
	rng := rand.New(rand.NewSource(seed))
	flow := make([]float64, length)
	x := 0.0
	for i := range flow {
		x = phi*x + rng.NormFloat64()
		flow[i] = level + x
	}
	return series.Uniform(0, 1, flow)
}

// Steps returns a piecewise-constant series: each level is held for the
// matching number of unit-spaced samples.
func Steps(levels []float64, holds []int) *series.Series {
	var flow []float64
	for i, level := range levels {
		for j := 0; j < holds[i]; j++ {
			flow = append(flow, level)
		}
	}
	return series.Uniform(0, 1, flow)
}

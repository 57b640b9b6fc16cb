package fourier_test

import (
	"fmt"

	"github.com/cwbudde/algo-flow/flow/fourier"
	"github.com/cwbudde/algo-flow/flow/series"
)

func ExampleAnalyze() {
	s := series.Uniform(0, 1, []float64{1, 1, 1, 1, 3, 3, 3, 3})

	res, err := fourier.Analyze(s, fourier.Config{Intervals: 2, Harmonics: 1})
	if err != nil {
		panic(err)
	}

	fmt.Printf("level=%.2f pooled=%.4f\n", res.MeanLevel(), res.PooledStd())
	fmt.Printf("%.1f\n", res.Approximate().Flow)
	// Output:
	// level=2.00 pooled=0.7071
	// [1.0 1.0 1.0 1.0 3.0 3.0 3.0 3.0]
}

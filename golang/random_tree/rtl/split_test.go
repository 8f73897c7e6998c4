package rtl

import (
	"math"
	"math/rand"
	"testing"

	"github.com/stretchr/testify/assert"
	"gonum.org/v1/gonum/mat"
)

func TestMedian(t *testing.T) {
	tests := []struct {
		name   string
		values []float64
		want   float64
	}{
		{name: "single", values: []float64{5}, want: 5},
		{name: "odd", values: []float64{7, 4, 6}, want: 6},
		{name: "even averages the middle pair", values: []float64{6, 4}, want: 5},
		{name: "duplicates", values: []float64{2, 2, 2, 9}, want: 2},
		{name: "negative", values: []float64{-1, -3, -2, 10}, want: -1.5},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, Median(tt.values))
		})
	}
}

func TestMedianKeepsInput(t *testing.T) {
	values := []float64{3, 1, 2}
	Median(values)
	assert.Equal(t, []float64{3, 1, 2}, values)
}

func TestMedianOfNothing(t *testing.T) {
	assert.True(t, math.IsNaN(Median(nil)))
}

func TestSelectSplit(t *testing.T) {
	features := mat.NewDense(4, 3, []float64{
		1, 10, 100,
		2, 20, 200,
		3, 30, 300,
		4, 40, 400,
	})
	medians := []float64{2.5, 25, 250}

	rng := rand.New(rand.NewSource(7))
	seen := make(map[int]bool)
	for i := 0; i < 200; i++ {
		feature, threshold := SelectSplit(features, rng)
		if assert.GreaterOrEqual(t, feature, 0) && assert.Less(t, feature, 3) {
			assert.Equal(t, medians[feature], threshold)
			seen[feature] = true
		}
	}
	assert.Len(t, seen, 3, "every column should eventually be chosen")
}

func TestSelectSplitSingleColumn(t *testing.T) {
	features := mat.NewDense(3, 1, []float64{9, 1, 5})
	feature, threshold := SelectSplit(features, rand.New(rand.NewSource(1)))
	assert.Equal(t, 0, feature)
	assert.Equal(t, 5.0, threshold)
}

package rtl

import (
	"math"
	"math/rand"
	"sort"

	"gonum.org/v1/gonum/mat"
)

//SelectSplit picks a column of features uniformly at random and returns it together with the
//median of that column. features must have at least one row and one column.
func SelectSplit(features mat.Matrix, rng *rand.Rand) (featureIndex int, threshold float64) {
	h, w := features.Dims()
	featureIndex = rng.Intn(w)
	column := mat.Col(make([]float64, h), featureIndex, features)
	return featureIndex, Median(column)
}

//Median returns the middle value of values, averaging the two middle values when the length is even.
//values is left untouched. The median of an empty slice is NaN.
func Median(values []float64) float64 {
	n := len(values)
	if n == 0 {
		return math.NaN()
	}

	sorted := make([]float64, n)
	copy(sorted, values)
	sort.Float64s(sorted)

	if n%2 == 1 {
		return sorted[n/2]
	}
	return (sorted[n/2-1] + sorted[n/2]) / 2
}

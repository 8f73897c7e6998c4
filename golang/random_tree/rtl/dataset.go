package rtl

import (
	"github.com/pkg/errors"
	"gonum.org/v1/gonum/mat"
)

//Dataset pairs a feature matrix with one label per row. RecordIds keep track of the rows of the
//source dataset as the data is partitioned. Features is nil when the dataset has no rows.
type Dataset struct {
	Features  *mat.Dense
	Labels    []float64
	RecordIds []int
}

//NewDataset checks that features and labels describe the same non-empty set of rows.
func NewDataset(features *mat.Dense, labels []float64) (ds Dataset, err error) {
	if features == nil || features.IsEmpty() {
		return ds, errors.Wrap(ErrInvalidInput, "empty feature matrix")
	}
	h, _ := features.Dims()
	if h != len(labels) {
		return ds, errors.Wrapf(ErrInvalidInput, "%d feature rows but %d labels", h, len(labels))
	}

	ds.Features = features
	ds.Labels = labels
	ds.RecordIds = make([]int, h)
	for p := 0; p < h; p++ {
		ds.RecordIds[p] = p
	}
	return ds, nil
}

//Height returns the number of rows of m. A nil matrix has no rows.
func Height(m mat.Matrix) int {
	if m == nil {
		return 0
	}
	if dense, ok := m.(*mat.Dense); ok && (dense == nil || dense.IsEmpty()) {
		return 0
	}
	h, _ := m.Dims()
	return h
}

//Len returns the number of rows.
func (ds Dataset) Len() int {
	return len(ds.Labels)
}

//Width returns the number of features.
func (ds Dataset) Width() int {
	if ds.Features == nil || ds.Features.IsEmpty() {
		return 0
	}
	_, w := ds.Features.Dims()
	return w
}

//Partition sends rows with Features[row][featureIndex] <= threshold to left and the other rows to
//right. Row order is kept on both sides. An empty side is a valid result.
func (ds Dataset) Partition(featureIndex int, threshold float64) (left, right Dataset) {
	h, w := ds.Len(), ds.Width()
	leftCount := 0

	for p := 0; p < h; p++ {
		if ds.Features.At(p, featureIndex) <= threshold {
			leftCount++
		}
	}
	rightCount := h - leftCount

	left = newDatasetOfSize(leftCount, w)
	right = newDatasetOfSize(rightCount, w)

	leftInd, rightInd := 0, 0
	for p := 0; p < h; p++ {
		row := ds.Features.RawRowView(p)
		if row[featureIndex] <= threshold {
			left.Features.SetRow(leftInd, row)
			left.Labels[leftInd] = ds.Labels[p]
			left.RecordIds[leftInd] = ds.RecordIds[p]
			leftInd++
		} else {
			right.Features.SetRow(rightInd, row)
			right.Labels[rightInd] = ds.Labels[p]
			right.RecordIds[rightInd] = ds.RecordIds[p]
			rightInd++
		}
	}

	return left, right
}

func newDatasetOfSize(h, w int) Dataset {
	ds := Dataset{Labels: make([]float64, h), RecordIds: make([]int, h)}
	if h > 0 {
		ds.Features = mat.NewDense(h, w, nil)
	}
	return ds
}

//Split keeps the first fraction of rows for training and the remaining rows for testing.
//Both parts must be non-empty.
func (ds Dataset) Split(fraction float64) (train, test Dataset, err error) {
	h, w := ds.Len(), ds.Width()
	trainRows := int(fraction * float64(h))
	if trainRows <= 0 || trainRows >= h {
		return train, test, errors.Wrapf(ErrInvalidInput, "fraction %g of %d rows leaves an empty part", fraction, h)
	}

	train = Dataset{
		Features:  mat.DenseCopyOf(ds.Features.Slice(0, trainRows, 0, w)),
		Labels:    append([]float64(nil), ds.Labels[:trainRows]...),
		RecordIds: append([]int(nil), ds.RecordIds[:trainRows]...),
	}
	test = Dataset{
		Features:  mat.DenseCopyOf(ds.Features.Slice(trainRows, h, 0, w)),
		Labels:    append([]float64(nil), ds.Labels[trainRows:]...),
		RecordIds: append([]int(nil), ds.RecordIds[trainRows:]...),
	}
	return train, test, nil
}

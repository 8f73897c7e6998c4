// SPDX-License-Identifier: Apache-2.0

package main

/*
#cgo CFLAGS: -I.
#include <stdlib.h>
*/
import "C"

import (
	"io"
	"sync"
	"unsafe"

	"github.com/pkg/errors"
	"github.com/sirupsen/logrus"
	"gonum.org/v1/gonum/mat"

	"github.com/tarstars/random_tree_regressor/golang/random_tree/rtl"
)

var (
	handleMu   sync.Mutex
	nextHandle uint64 = 1
	learners          = make(map[uint64]*rtl.RTLearner)

	lastErrorMu sync.Mutex
	lastError   string

	logSilenceOnce sync.Once
)

func setLastError(err error) {
	lastErrorMu.Lock()
	defer lastErrorMu.Unlock()
	if err != nil {
		lastError = err.Error()
	} else {
		lastError = ""
	}
}

func getLastError() string {
	lastErrorMu.Lock()
	defer lastErrorMu.Unlock()
	return lastError
}

func storeLearner(learner *rtl.RTLearner) uint64 {
	handleMu.Lock()
	defer handleMu.Unlock()
	handle := nextHandle
	learners[handle] = learner
	nextHandle++
	return handle
}

func fetchLearner(handle uint64) (*rtl.RTLearner, error) {
	handleMu.Lock()
	defer handleMu.Unlock()
	learner, ok := learners[handle]
	if !ok {
		return nil, errors.New("invalid learner handle")
	}
	return learner, nil
}

func sliceFromPtr(ptr *C.double, length int) ([]float64, error) {
	if length <= 0 {
		return nil, errors.New("length must be positive")
	}
	if ptr == nil {
		return nil, errors.New("null pointer for non-empty slice")
	}
	return unsafe.Slice((*float64)(unsafe.Pointer(ptr)), length), nil
}

func copyFloatSlice(ptr *C.double, length int) ([]float64, error) {
	src, err := sliceFromPtr(ptr, length)
	if err != nil {
		return nil, err
	}
	dst := make([]float64, length)
	copy(dst, src)
	return dst, nil
}

//buildDense copies a row-major C matrix; gonum does not allow matrices without rows or columns.
func buildDense(ptr *C.double, rows, cols C.int) (*mat.Dense, error) {
	r := int(rows)
	c := int(cols)
	if r <= 0 || c <= 0 {
		return nil, errors.New("invalid matrix dimensions")
	}
	data, err := copyFloatSlice(ptr, r*c)
	if err != nil {
		return nil, err
	}
	return mat.NewDense(r, c, data), nil
}

//export NewLearner
func NewLearner(leafSize C.int, seed C.longlong, verbose C.int, threadsNum C.int) C.ulonglong {
	setLastError(nil)
	logSilenceOnce.Do(func() {
		if verbose == 0 {
			logrus.SetOutput(io.Discard)
		}
	})

	learner := rtl.NewRTLearner(rtl.Options{
		LeafSize: int(leafSize),
		Seed:     int64(seed),
		Verbose:  verbose != 0,
		Threads:  int(threadsNum),
	})
	return C.ulonglong(storeLearner(learner))
}

//export AddEvidence
func AddEvidence(
	handle C.ulonglong,
	featuresPtr *C.double,
	rows C.int,
	cols C.int,
	labelsPtr *C.double,
) C.int {
	setLastError(nil)
	learner, err := fetchLearner(uint64(handle))
	if err != nil {
		setLastError(err)
		return 1
	}

	features, err := buildDense(featuresPtr, rows, cols)
	if err != nil {
		setLastError(err)
		return 2
	}

	labels, err := copyFloatSlice(labelsPtr, int(rows))
	if err != nil {
		setLastError(err)
		return 3
	}

	if err := learner.AddEvidence(features, labels); err != nil {
		setLastError(err)
		return 4
	}
	return 0
}

//export Query
func Query(
	handle C.ulonglong,
	featuresPtr *C.double,
	rows C.int,
	cols C.int,
	outputPtr *C.double,
) C.int {
	setLastError(nil)
	learner, err := fetchLearner(uint64(handle))
	if err != nil {
		setLastError(err)
		return 1
	}

	features, err := buildDense(featuresPtr, rows, cols)
	if err != nil {
		setLastError(err)
		return 2
	}

	prediction, err := learner.Query(features)
	if err != nil {
		setLastError(err)
		return 3
	}

	outSlice, err := sliceFromPtr(outputPtr, int(rows))
	if err != nil {
		setLastError(err)
		return 4
	}
	copy(outSlice, prediction)
	return 0
}

//export TreeSize
func TreeSize(handle C.ulonglong) C.int {
	setLastError(nil)
	learner, err := fetchLearner(uint64(handle))
	if err != nil {
		setLastError(err)
		return -1
	}
	if learner.Tree() == nil {
		setLastError(rtl.ErrNotTrained)
		return -1
	}
	return C.int(learner.Tree().Len())
}

//export SaveLearner
func SaveLearner(handle C.ulonglong, path *C.char) C.int {
	setLastError(nil)
	learner, err := fetchLearner(uint64(handle))
	if err != nil {
		setLastError(err)
		return 1
	}
	if err := learner.Save(C.GoString(path)); err != nil {
		setLastError(err)
		return 2
	}
	return 0
}

//export LoadLearner
func LoadLearner(path *C.char) C.ulonglong {
	setLastError(nil)
	learner, err := rtl.LoadLearner(C.GoString(path))
	if err != nil {
		setLastError(err)
		return 0
	}
	return C.ulonglong(storeLearner(learner))
}

//export RenderTree
func RenderTree(handle C.ulonglong, path, figureType *C.char) C.int {
	setLastError(nil)
	learner, err := fetchLearner(uint64(handle))
	if err != nil {
		setLastError(err)
		return 1
	}
	goFigureType := C.GoString(figureType)
	if goFigureType == "" {
		goFigureType = "svg"
	}
	if err := learner.RenderTree(C.GoString(path), goFigureType); err != nil {
		setLastError(err)
		return 2
	}
	return 0
}

//export FreeLearner
func FreeLearner(handle C.ulonglong) {
	handleMu.Lock()
	defer handleMu.Unlock()
	delete(learners, uint64(handle))
}

//export GetLastError
func GetLastError() *C.char {
	errStr := getLastError()
	if errStr == "" {
		return nil
	}
	return C.CString(errStr)
}

//export FreeCString
func FreeCString(str *C.char) {
	if str != nil {
		C.free(unsafe.Pointer(str))
	}
}

func main() {}

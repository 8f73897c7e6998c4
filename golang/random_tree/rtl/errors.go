package rtl

import "fmt"

var (
	// ErrInvalidInput is returned for training sets and query records the learner cannot use.
	ErrInvalidInput = fmt.Errorf("invalid input")

	// ErrFeatureIndex is returned when a query record is shorter than a split feature on its path.
	ErrFeatureIndex = fmt.Errorf("%w: feature index out of range", ErrInvalidInput)

	// ErrNotTrained is returned by queries issued before the learner has seen any evidence.
	ErrNotTrained = fmt.Errorf("learner is not trained")
)

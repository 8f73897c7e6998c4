package rtl

import (
	"fmt"
	"math"

	"github.com/pkg/errors"
	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/stat"
)

//Rmse returns the root-mean-square error between target and prediction.
func Rmse(target, prediction []float64) float64 {
	return floats.Distance(target, prediction, 2) / math.Sqrt(float64(len(target)))
}

//Correlation returns the Pearson correlation between target and prediction.
func Correlation(target, prediction []float64) float64 {
	return stat.Correlation(target, prediction, nil)
}

//Report holds quality figures of a prediction.
type Report struct {
	Rows int
	RMSE float64
	Corr float64
}

func (report Report) String() string {
	return fmt.Sprintf("rows: %d, RMSE: %g, corr: %g", report.Rows, report.RMSE, report.Corr)
}

//Assess compares prediction with target.
func Assess(target, prediction []float64) (Report, error) {
	if len(target) == 0 || len(target) != len(prediction) {
		return Report{}, errors.Wrapf(ErrInvalidInput, "%d targets, %d predictions", len(target), len(prediction))
	}
	return Report{
		Rows: len(target),
		RMSE: Rmse(target, prediction),
		Corr: Correlation(target, prediction),
	}, nil
}

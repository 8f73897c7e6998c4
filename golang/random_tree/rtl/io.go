package rtl

import (
	"os"

	"github.com/go-gota/gota/dataframe"
	"github.com/go-gota/gota/series"
	"github.com/pkg/errors"
	"github.com/sbinet/npyio"
	"gonum.org/v1/gonum/mat"
)

//CSVOptions describe the layout of a CSV dataset. The last column holds labels, the columns
//before it hold features.
type CSVOptions struct {
	HasHeader bool `json:"has_header" mapstructure:"has_header"`

	// SkipColumns drops leading columns such as dates or row ids.
	SkipColumns int `json:"skip_columns" mapstructure:"skip_columns"`
}

//ReadCSV loads a numeric dataset from a CSV file.
func ReadCSV(fileName string, options CSVOptions) (ds Dataset, err error) {
	log.Print("\ttry to load csv <", fileName, ">")
	f, err := os.Open(fileName)
	if err != nil {
		return ds, errors.Wrapf(err, "open %s", fileName)
	}
	defer f.Close()

	df := dataframe.ReadCSV(f,
		dataframe.HasHeader(options.HasHeader),
		dataframe.DetectTypes(false),
		dataframe.DefaultType(series.Float),
	)
	if df.Err != nil {
		return ds, errors.Wrapf(df.Err, "parse %s", fileName)
	}

	h, w := df.Nrow(), df.Ncol()-options.SkipColumns
	if h == 0 || w < 2 {
		return ds, errors.Wrapf(ErrInvalidInput, "%s: %d rows, %d usable columns", fileName, h, w)
	}

	features := mat.NewDense(h, w-1, nil)
	labels := make([]float64, h)
	for p := 0; p < h; p++ {
		for q := 0; q < w; q++ {
			elem := df.Elem(p, q+options.SkipColumns)
			if elem.IsNA() {
				return ds, errors.Wrapf(ErrInvalidInput, "%s: row %d, column %d is not a number", fileName, p, q+options.SkipColumns)
			}
			if q == w-1 {
				labels[p] = elem.Float()
			} else {
				features.Set(p, q, elem.Float())
			}
		}
	}

	return NewDataset(features, labels)
}

//ReadNpy reads the content of npy file
func ReadNpy(fileName string) (*mat.Dense, error) {
	f, err := os.Open(fileName)
	if err != nil {
		return nil, errors.Wrapf(err, "open %s", fileName)
	}
	defer f.Close()

	r, err := npyio.NewReader(f)
	if err != nil {
		return nil, errors.Wrapf(err, "npy header of %s", fileName)
	}

	denseMat := &mat.Dense{}
	if err := r.Read(denseMat); err != nil {
		return nil, errors.Wrapf(err, "npy data of %s", fileName)
	}
	return denseMat, nil
}

//ReadNpyVector reads an npy file of any shape as a flat vector.
func ReadNpyVector(fileName string) ([]float64, error) {
	f, err := os.Open(fileName)
	if err != nil {
		return nil, errors.Wrapf(err, "open %s", fileName)
	}
	defer f.Close()

	var values []float64
	if err := npyio.Read(f, &values); err != nil {
		return nil, errors.Wrapf(err, "npy data of %s", fileName)
	}
	return values, nil
}

//WriteNpy stores values as a one-dimensional npy array.
func WriteNpy(fileName string, values []float64) error {
	dst, err := os.Create(fileName)
	if err != nil {
		return errors.Wrapf(err, "create %s", fileName)
	}

	if err := npyio.Write(dst, values); err != nil {
		_ = dst.Close()
		return errors.Wrapf(err, "write %s", fileName)
	}
	return dst.Close()
}

//ReadNpyDataset reads features and labels stored in two npy files.
func ReadNpyDataset(fileNameFeatures, fileNameTarget string) (Dataset, error) {
	log.Print("\ttry to load features <", fileNameFeatures, ">")
	features, err := ReadNpy(fileNameFeatures)
	if err != nil {
		return Dataset{}, err
	}
	log.Print("\ttry to load target <", fileNameTarget, ">")
	labels, err := ReadNpyVector(fileNameTarget)
	if err != nil {
		return Dataset{}, err
	}
	return NewDataset(features, labels)
}

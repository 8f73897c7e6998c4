package main

import (
	"github.com/pkg/errors"
	log "github.com/sirupsen/logrus"
	"github.com/spf13/cobra"
	"gonum.org/v1/gonum/mat"

	"github.com/tarstars/random_tree_regressor/golang/random_tree/rtl"
)

func init() {
	RootCmd.AddCommand(PredictCmd)
}

var PredictCmd = &cobra.Command{
	Use:   "predict",
	Short: "query a saved random tree and write predictions as npy",
	RunE: func(cmd *cobra.Command, args []string) error {
		var predictConfig PredictConfig
		if err := decodeCommandConfig(cmd, &predictConfig); err != nil {
			return err
		}
		if predictConfig.FileNameModel == "" || predictConfig.FileNamePrediction == "" {
			return errors.New("filename_model and filename_prediction are required")
		}
		return predict(predictConfig)
	},
}

func predict(predictConfig PredictConfig) error {
	learner, err := rtl.LoadLearner(predictConfig.FileNameModel)
	if err != nil {
		return err
	}
	if predictConfig.Threads > 0 {
		learner.Threads = predictConfig.Threads
	}

	// labels are optional here: a bare npy feature matrix is enough to predict
	var (
		features *mat.Dense
		labels   []float64
	)
	if predictConfig.FileNameCSV == "" && predictConfig.FileNameTarget == "" {
		features, err = rtl.ReadNpy(predictConfig.FileNameFeatures)
	} else {
		var ds rtl.Dataset
		ds, err = predictConfig.DataConfig.load()
		features, labels = ds.Features, ds.Labels
	}
	if err != nil {
		return err
	}

	prediction, err := learner.Query(features)
	if err != nil {
		return err
	}

	if labels != nil {
		report, err := rtl.Assess(labels, prediction)
		if err != nil {
			return err
		}
		log.Info("prediction quality: ", report)
	}

	return rtl.WriteNpy(predictConfig.FileNamePrediction, prediction)
}

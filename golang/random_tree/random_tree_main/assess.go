package main

import (
	log "github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	"github.com/tarstars/random_tree_regressor/golang/random_tree/rtl"
)

func init() {
	RootCmd.AddCommand(AssessCmd)
}

var AssessCmd = &cobra.Command{
	Use:   "assess",
	Short: "train on the head of a dataset and report in-sample and out-of-sample quality",
	RunE: func(cmd *cobra.Command, args []string) error {
		var assessConfig AssessConfig
		if err := decodeCommandConfig(cmd, &assessConfig); err != nil {
			return err
		}
		_, _, err := assess(assessConfig)
		return err
	},
}

func assess(assessConfig AssessConfig) (inSample, outOfSample rtl.Report, err error) {
	ds, err := assessConfig.DataConfig.load()
	if err != nil {
		return
	}

	train, test, err := ds.Split(assessConfig.TrainFraction)
	if err != nil {
		return
	}
	log.Printf("train rows %d, test rows %d", train.Len(), test.Len())

	learner := rtl.NewRTLearner(assessConfig.Options)
	if err = learner.Train(train); err != nil {
		return
	}

	if inSample, err = queryAndAssess(learner, train); err != nil {
		return
	}
	log.Info("In sample results: ", inSample)

	if outOfSample, err = queryAndAssess(learner, test); err != nil {
		return
	}
	log.Info("Out of sample results: ", outOfSample)
	return
}

func queryAndAssess(learner *rtl.RTLearner, ds rtl.Dataset) (rtl.Report, error) {
	prediction, err := learner.Query(ds.Features)
	if err != nil {
		return rtl.Report{}, err
	}
	return rtl.Assess(ds.Labels, prediction)
}

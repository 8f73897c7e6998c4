package main

import (
	"github.com/pkg/errors"
	log "github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	"github.com/tarstars/random_tree_regressor/golang/random_tree/rtl"
)

func init() {
	RootCmd.AddCommand(TrainCmd)
}

var TrainCmd = &cobra.Command{
	Use:   "train",
	Short: "train a random tree and save it as json",
	RunE: func(cmd *cobra.Command, args []string) error {
		var trainConfig TrainConfig
		if err := decodeCommandConfig(cmd, &trainConfig); err != nil {
			return err
		}
		if trainConfig.FileNameModel == "" {
			return errors.New("filename_model is required")
		}
		return train(trainConfig)
	},
}

func train(trainConfig TrainConfig) error {
	log.Println("load train")
	ds, err := trainConfig.DataConfig.load()
	if err != nil {
		return err
	}

	learner := rtl.NewRTLearner(trainConfig.Options)
	if err := learner.Train(ds); err != nil {
		return err
	}

	tree := learner.Tree()
	log.WithFields(log.Fields{
		"rows":   ds.Len(),
		"nodes":  tree.Len(),
		"leaves": tree.NumLeaves(),
		"depth":  tree.Depth(),
	}).Info("tree is trained")

	return learner.Save(trainConfig.FileNameModel)
}

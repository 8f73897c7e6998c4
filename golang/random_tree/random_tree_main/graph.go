package main

import (
	"github.com/pkg/errors"
	"github.com/spf13/cobra"

	"github.com/tarstars/random_tree_regressor/golang/random_tree/rtl"
)

func init() {
	RootCmd.AddCommand(GraphCmd)
}

var GraphCmd = &cobra.Command{
	Use:   "graph",
	Short: "render a saved random tree with graphviz",
	RunE: func(cmd *cobra.Command, args []string) error {
		var graphConfig GraphConfig
		if err := decodeCommandConfig(cmd, &graphConfig); err != nil {
			return err
		}
		if graphConfig.FileNameModel == "" || graphConfig.FileNamePicture == "" {
			return errors.New("filename_model and filename_picture are required")
		}

		learner, err := rtl.LoadLearner(graphConfig.FileNameModel)
		if err != nil {
			return err
		}
		return learner.RenderTree(graphConfig.FileNamePicture, graphConfig.FigureType)
	},
}

package main

import (
	"github.com/pkg/errors"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/tarstars/random_tree_regressor/golang/random_tree/rtl"
)

const defaultTrainFraction = 0.6

//DataConfig points to a dataset stored either in one csv file (label in the last column)
//or in a pair of npy files.
type DataConfig struct {
	FileNameCSV      string `mapstructure:"filename_csv"`
	FileNameFeatures string `mapstructure:"filename_features"`
	FileNameTarget   string `mapstructure:"filename_target"`

	rtl.CSVOptions `mapstructure:",squash"`
}

func (config DataConfig) load() (rtl.Dataset, error) {
	switch {
	case config.FileNameCSV != "":
		return rtl.ReadCSV(config.FileNameCSV, config.CSVOptions)
	case config.FileNameFeatures != "" && config.FileNameTarget != "":
		return rtl.ReadNpyDataset(config.FileNameFeatures, config.FileNameTarget)
	default:
		return rtl.Dataset{}, errors.New("either filename_csv or filename_features with filename_target is required")
	}
}

type TrainConfig struct {
	DataConfig  `mapstructure:",squash"`
	rtl.Options `mapstructure:",squash"`

	FileNameModel string `mapstructure:"filename_model"`
}

type PredictConfig struct {
	DataConfig `mapstructure:",squash"`

	FileNameModel      string `mapstructure:"filename_model"`
	FileNamePrediction string `mapstructure:"filename_prediction"`
	Threads            int    `mapstructure:"threads"`
}

type GraphConfig struct {
	FileNameModel   string `mapstructure:"filename_model"`
	FileNamePicture string `mapstructure:"filename_picture"`
	FigureType      string `mapstructure:"figure_type"`
}

type AssessConfig struct {
	DataConfig  `mapstructure:",squash"`
	rtl.Options `mapstructure:",squash"`

	TrainFraction float64 `mapstructure:"train_fraction"`
}

func decodeConfig(srcConfig string, out interface{}) error {
	v := viper.New()
	v.SetConfigFile(srcConfig)
	v.SetDefault("train_fraction", defaultTrainFraction)
	v.SetDefault("figure_type", "svg")

	if err := v.ReadInConfig(); err != nil {
		return errors.Wrapf(err, "read config %s", srcConfig)
	}
	return errors.Wrapf(v.Unmarshal(out), "decode config %s", srcConfig)
}

func decodeCommandConfig(cmd *cobra.Command, out interface{}) error {
	configFile, err := cmd.Flags().GetString("config")
	if err != nil {
		return err
	}
	if len(configFile) == 0 {
		return errors.New("--config option is required")
	}
	return decodeConfig(configFile, out)
}

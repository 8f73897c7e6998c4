package main

import (
	"os"
	"runtime"
	"runtime/pprof"

	"github.com/pkg/errors"
	log "github.com/sirupsen/logrus"
	"github.com/spf13/cobra"
)

var RootCmd = &cobra.Command{
	Use:   "random_tree_main",
	Short: "random tree regressor",
	Long:  "train, query, render and assess random tree regressors; every mode reads a json config",

	SilenceUsage: true,

	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		debug, err := cmd.Flags().GetBool("debug")
		if err != nil {
			return err
		}
		if debug {
			log.SetLevel(log.DebugLevel)
		}
		return nil
	},

	PersistentPostRunE: func(cmd *cobra.Command, args []string) error {
		memprofile, err := cmd.Flags().GetString("memprofile")
		if err != nil || memprofile == "" {
			return err
		}

		f, err := os.Create(memprofile)
		if err != nil {
			return errors.Wrap(err, "could not create memory profile")
		}
		defer f.Close()

		runtime.GC()
		return errors.Wrap(pprof.WriteHeapProfile(f), "could not write memory profile")
	},
}

func init() {
	RootCmd.PersistentFlags().String("config", "random_tree_config.json", "a config file for the run of the program")
	RootCmd.PersistentFlags().Bool("debug", false, "debug flag")
	RootCmd.PersistentFlags().String("memprofile", "", "write memory profile to `file`")
}

func main() {
	if err := RootCmd.Execute(); err != nil {
		log.WithError(err).Fatal("command failed")
	}
}

package cmd

import (
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

const (
	flagDatadir = "datadir"
	flagEpoch   = "epoch"
)

var rootCmd = &cobra.Command{
	Use:   "dag-inspect",
	Short: "inspect the certificates and commit log stored by a replica",
}

func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Println(err)
		os.Exit(1)
	}
}

func init() {
	rootCmd.PersistentFlags().String(flagDatadir, "", "directory of the badger database")
	rootCmd.PersistentFlags().Uint64(flagEpoch, 0, "epoch to inspect")
	_ = viper.BindPFlags(rootCmd.PersistentFlags())

	cobra.OnInitialize(initConfig)
}

// initConfig lets DAG_INSPECT_DATADIR and DAG_INSPECT_EPOCH override the flags.
func initConfig() {
	viper.SetEnvPrefix("dag_inspect")
	viper.SetEnvKeyReplacer(strings.NewReplacer("-", "_"))
	viper.AutomaticEnv()
}

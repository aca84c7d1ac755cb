// Package main provides the vargt-merge command-line tool: a
// multi-sample variant merger built around internal/merge's Operator,
// using cobra for subcommands and viper for persisted configuration.
package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"go.uber.org/zap"
)

var (
	version = "dev"
	commit  = "none"
)

func main() {
	if err := newRootCmd().Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	var cfgFile string

	root := &cobra.Command{
		Use:     "vargt-merge",
		Short:   "Multi-sample variant merger",
		Version: fmt.Sprintf("%s (%s)", version, commit),
		Long: `vargt-merge merges per-sample variant calls that begin at the same
reference position into a single merged variant: a longest merged
reference allele, a deduplicated union of alternate alleles, and
per-sample numeric fields (PL, GT) re-indexed into merged allele space.`,
	}

	cobra.OnInitialize(func() {
		initConfig(cfgFile)
	})
	root.PersistentFlags().StringVar(&cfgFile, "config", "", "config file (default $HOME/.vargt-merge.yaml)")

	root.AddCommand(newMergeCmd())
	root.AddCommand(newConfigCmd())

	return root
}

func initConfig(cfgFile string) {
	if cfgFile != "" {
		viper.SetConfigFile(cfgFile)
	} else {
		home, err := os.UserHomeDir()
		if err == nil {
			viper.AddConfigPath(home)
			viper.SetConfigName(".vargt-merge")
			viper.SetConfigType("yaml")
		}
	}
	viper.SetEnvPrefix("VARGT_MERGE")
	viper.AutomaticEnv()
	_ = viper.ReadInConfig() // absent config file is not an error
}

// newLogger builds the zap logger used across subcommands, honoring
// the persisted "log.level" setting.
func newLogger() *zap.Logger {
	level := viper.GetString("log.level")
	cfg := zap.NewProductionConfig()
	if level != "" {
		var lvl zap.AtomicLevel
		if err := lvl.UnmarshalText([]byte(level)); err == nil {
			cfg.Level = lvl
		}
	}
	logger, err := cfg.Build()
	if err != nil {
		return zap.NewNop()
	}
	return logger
}

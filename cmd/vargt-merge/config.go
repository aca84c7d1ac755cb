package main

import (
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strconv"
	"strings"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"gopkg.in/yaml.v3"
)

// mergeConfigKeys lists the only keys runConfigSet/runConfigGet accept,
// each paired with the kind of value newMergeCmd expects back out of
// viper for it. Keep this in sync with mergeOptions and the flags
// registered in newMergeCmd: it is the actual config surface this tool
// reads at merge time, not a free-form key/value store.
var mergeConfigKeys = map[string]string{
	"merge.permissive":    "bool",
	"merge.non_ref_token": "string",
	"merge.workers":       "int",
	"merge.cache":         "string",
	"merge.arrow_out":     "string",
	"log.level":           "string",
}

func newConfigCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "config",
		Short: "Manage vargt-merge configuration",
		Long: `Show, get, or set the configuration vargt-merge merge reads for any
flag not given explicitly on the command line. Config is stored in
~/.vargt-merge.yaml.`,
		Example: `  vargt-merge config                                 # show all config
  vargt-merge config set merge.permissive true       # default --permissive to true
  vargt-merge config set merge.workers 8             # default --workers to 8
  vargt-merge config get merge.non_ref_token         # get a value`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runConfigShow()
		},
	}

	cmd.AddCommand(newConfigSetCmd())
	cmd.AddCommand(newConfigGetCmd())

	return cmd
}

func newConfigSetCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "set <key> <value>",
		Short: "Set a configuration value",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runConfigSet(args[0], args[1])
		},
	}
}

func newConfigGetCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "get <key>",
		Short: "Get a configuration value",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runConfigGet(args[0])
		},
	}
}

func runConfigShow() error {
	settings := viper.AllSettings()
	if len(settings) == 0 {
		fmt.Println("# No configuration set. Config file: ~/.vargt-merge.yaml")
		return nil
	}

	out, err := yaml.Marshal(settings)
	if err != nil {
		return fmt.Errorf("marshaling config: %w", err)
	}
	fmt.Print(string(out))
	return nil
}

func runConfigSet(key, value string) error {
	kind, ok := mergeConfigKeys[key]
	if !ok {
		return fmt.Errorf("unknown config key %q (known keys: %s)", key, strings.Join(knownConfigKeys(), ", "))
	}

	switch kind {
	case "bool":
		b, err := strconv.ParseBool(value)
		if err != nil {
			return fmt.Errorf("%s expects a bool (true/false): %w", key, err)
		}
		viper.Set(key, b)
	case "int":
		n, err := strconv.Atoi(value)
		if err != nil {
			return fmt.Errorf("%s expects an integer: %w", key, err)
		}
		viper.Set(key, n)
	default:
		viper.Set(key, value)
	}

	cfgFile := viper.ConfigFileUsed()
	if cfgFile == "" {
		home, err := os.UserHomeDir()
		if err != nil {
			return fmt.Errorf("cannot determine home directory: %w", err)
		}
		cfgFile = filepath.Join(home, ".vargt-merge.yaml")
	}

	if err := viper.WriteConfigAs(cfgFile); err != nil {
		return fmt.Errorf("writing config: %w", err)
	}

	fmt.Printf("Set %s = %s in %s\n", key, value, cfgFile)
	return nil
}

func runConfigGet(key string) error {
	if _, ok := mergeConfigKeys[key]; !ok {
		return fmt.Errorf("unknown config key %q (known keys: %s)", key, strings.Join(knownConfigKeys(), ", "))
	}
	val := viper.Get(key)
	if val == nil {
		return fmt.Errorf("key %q is not set", key)
	}
	fmt.Println(val)
	return nil
}

func knownConfigKeys() []string {
	keys := make([]string, 0, len(mergeConfigKeys))
	for k := range mergeConfigKeys {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

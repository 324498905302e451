package main

import (
	"fmt"
	"os"

	"github.com/aretw0/flowbench/internal/cli"
	"github.com/spf13/cobra"
)

// storageKeyEnv keeps the key out of the process list.
const storageKeyEnv = "FLOWBENCH_STORAGE_KEY"

var rootCmd = &cobra.Command{
	Use:   "flowbench",
	Short: "Flowbench runs token-passing dataflow flows",
	Long: `Flowbench executes flows of actors described in YAML or JSON files.
Sources emit tokens, transformers reshape them and sinks consume them.`,
	SilenceUsage:  true,
	SilenceErrors: true,
}

// Execute adds all child commands to the root command and sets flags appropriately.
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func init() {
	rootCmd.PersistentFlags().String("dir", ".", "Directory containing the flows")
	rootCmd.PersistentFlags().Bool("debug", false, "Log every actor lifecycle step to stderr")
	rootCmd.PersistentFlags().Bool("json-log", false, "Emit logs as JSON lines")
	rootCmd.PersistentFlags().BoolP("quiet", "q", false, "Only print flow output")
	rootCmd.PersistentFlags().StringArray("var", nil, "Override a flow variable (name=value), repeatable")
	rootCmd.PersistentFlags().String("redis", "", "Redis URL for shared storage and distributed locks")
	rootCmd.PersistentFlags().String("storage", "", "Directory for file storage (default: in memory)")
	rootCmd.PersistentFlags().String("storage-key", "", "Encrypt stored values with this AES-256 key (or set "+storageKeyEnv+")")
	rootCmd.PersistentFlags().String("db", "", "SQLite database used when a flow declares no connection")
}

// commonOptions reads the persistent flags.
func commonOptions(cmd *cobra.Command) cli.Options {
	flags := cmd.Flags()
	var opts cli.Options
	opts.Dir, _ = flags.GetString("dir")
	opts.Debug, _ = flags.GetBool("debug")
	opts.JSONLog, _ = flags.GetBool("json-log")
	opts.Quiet, _ = flags.GetBool("quiet")
	opts.Vars, _ = flags.GetStringArray("var")
	opts.RedisURL, _ = flags.GetString("redis")
	opts.StoragePath, _ = flags.GetString("storage")
	opts.StorageKey, _ = flags.GetString("storage-key")
	if opts.StorageKey == "" {
		opts.StorageKey = os.Getenv(storageKeyEnv)
	}
	opts.DBPath, _ = flags.GetString("db")
	return opts
}

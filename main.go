package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"path/filepath"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/ossyrian/gobparse/internal/config"
	"github.com/ossyrian/gobparse/internal/logging"
)

// newRootCmd builds the command tree around its own viper instance
func newRootCmd() *cobra.Command {
	v := viper.New()
	cfg := &config.Config{}
	var cfgFile string

	rootCmd := &cobra.Command{
		Use:   "gobparse",
		Short: "Pack, unpack and inspect GOB game archives",
		Long: `gobparse reads and writes version 0x14 GOB archives, the container format
used by Dark Forces era engines to bundle models, sounds and levels.`,
		SilenceUsage: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			initConfig(v, cfgFile)

			loaded, err := config.Load(v)
			if err != nil {
				return err
			}
			*cfg = *loaded

			if err := logging.Setup(cfg.LogLevel, cfg.LogFormat, cfg.LogOutputDir); err != nil {
				return fmt.Errorf("could not set up logging: %w", err)
			}
			return nil
		},
	}

	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "", "path to config file")

	// i/o
	rootCmd.PersistentFlags().StringP("input", "i", "", "archive or directory to read (required)")
	rootCmd.PersistentFlags().StringP("output", "o", "", "archive or directory to write")
	rootCmd.PersistentFlags().Int("workers", 0, "files read or written at once (default: number of CPUs)")

	// other opts
	rootCmd.PersistentFlags().String("log-level", "info", "log level (trace, debug, info, warn, error, fatal)")
	rootCmd.PersistentFlags().String("log-format", "text", "log format (text, json)")
	rootCmd.PersistentFlags().String("log-output-dir", "", "directory to write log files (if set, logs are written to both stderr and file)")
	rootCmd.PersistentFlags().Bool("dry-run", false, "validate without writing output")
	rootCmd.PersistentFlags().Bool("progress", true, "show a progress bar when stderr is a terminal")
	rootCmd.MarkPersistentFlagRequired("input")

	v.BindPFlag("input", rootCmd.PersistentFlags().Lookup("input"))
	v.BindPFlag("output", rootCmd.PersistentFlags().Lookup("output"))
	v.BindPFlag("workers", rootCmd.PersistentFlags().Lookup("workers"))
	v.BindPFlag("log_level", rootCmd.PersistentFlags().Lookup("log-level"))
	v.BindPFlag("log_format", rootCmd.PersistentFlags().Lookup("log-format"))
	v.BindPFlag("log_output_dir", rootCmd.PersistentFlags().Lookup("log-output-dir"))
	v.BindPFlag("dry_run", rootCmd.PersistentFlags().Lookup("dry-run"))
	v.BindPFlag("progress", rootCmd.PersistentFlags().Lookup("progress"))

	rootCmd.AddCommand(
		newPackCmd(v, cfg),
		newUnpackCmd(cfg),
		newListCmd(v, cfg),
	)

	return rootCmd
}

// initConfig reads in config file and environment variables if set
func initConfig(v *viper.Viper, cfgFile string) {
	if cfgFile != "" {
		v.SetConfigFile(cfgFile)
	} else {
		home, err := os.UserHomeDir()
		if err == nil {
			v.AddConfigPath(filepath.Join(home, ".config", "gobparse"))
		}
		v.AddConfigPath("/etc/gobparse")
		v.SetConfigName("config")
		v.SetConfigType("toml")
	}

	v.SetEnvPrefix("GOBPARSE")
	v.AutomaticEnv()

	if err := v.ReadInConfig(); err == nil {
		fmt.Fprintf(os.Stderr, "Using config file: %s\n", v.ConfigFileUsed())
	}
}

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	if err := newRootCmd().ExecuteContext(ctx); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

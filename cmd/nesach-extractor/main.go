// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package main is the entry point for the nesach-extractor CLI, which
// extracts fields from Israeli land-registry extracts (נסח טאבו) and
// exports them as spreadsheets.
package main

import (
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/AmitayManor/pdf-extractor/internal/logging"
)

// version is set at build time via ldflags.
var version = "dev"

// logger is built from the log settings before any subcommand runs.
var logger = slog.Default()

// rootCmd is the base command for the nesach-extractor CLI.
var rootCmd = &cobra.Command{
	Use:   "nesach-extractor",
	Short: "Extract fields from land-registry extracts into spreadsheets",
	Long: `nesach-extractor reads land-registry extracts (נסח טאבו) as PDF or text,
pulls out the selected fields (parcel identifiers, owners, mortgages,
remarks) and writes one row per document to an XLSX or CSV file.

Field selections can be saved as templates, and every batch is archived so
it can be exported again without re-reading the documents.`,
	SilenceUsage: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		cfg := loadConfig()
		l, err := logging.New(cfg.Log.Level, cfg.Log.Format, os.Stderr)
		if err != nil {
			return err
		}
		logger = l
		slog.SetDefault(l)
		if used := viper.ConfigFileUsed(); used != "" {
			logger.Debug("using config file", "path", used)
		}
		return nil
	},
}

func init() {
	cobra.OnInitialize(initConfig)

	rootCmd.PersistentFlags().String("config", "", "config file (default: ./nesach-extractor.yaml or ~/.config/nesach-extractor/nesach-extractor.yaml)")
	rootCmd.PersistentFlags().String("log-level", "", "log level: debug, info, warn, error")
	rootCmd.PersistentFlags().String("log-format", "", "log format: text or json")
	_ = viper.BindPFlag("log.level", rootCmd.PersistentFlags().Lookup("log-level"))
	_ = viper.BindPFlag("log.format", rootCmd.PersistentFlags().Lookup("log-format"))
}

func initConfig() {
	cfgFile, _ := rootCmd.PersistentFlags().GetString("config")
	if cfgFile != "" {
		viper.SetConfigFile(cfgFile)
	} else {
		viper.SetConfigName("nesach-extractor")
		viper.SetConfigType("yaml")
		viper.AddConfigPath(".")

		home, err := os.UserHomeDir()
		if err == nil {
			viper.AddConfigPath(filepath.Join(home, ".config", "nesach-extractor"))
		}
	}

	viper.SetEnvPrefix("NESACH")
	viper.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	viper.AutomaticEnv()
	setDefaults()

	if err := viper.ReadInConfig(); err != nil {
		if _, notFound := err.(viper.ConfigFileNotFoundError); !notFound && cfgFile != "" {
			fmt.Fprintln(os.Stderr, "reading config:", err)
		}
	}
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

// Package main is the entry point for the pdfmark CLI.
package main

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/dgallion1/pdfmark/internal/config"
)

// version is set at build time via ldflags.
var version = "dev"

// v holds defaults, environment bindings, the config file, and flags.
var v = config.New()

// rootCmd is the base command for the pdfmark CLI.
var rootCmd = &cobra.Command{
	Use:   "pdfmark",
	Short: "Convert PDF documents to structured Markdown",
	Long: `pdfmark extracts the text of PDF documents, infers a heading hierarchy
from numbering conventions ("1.2.3", "一、", "(1)", 第...章, upper-case titles),
and writes normalized Markdown with a metadata header.

Use "convert" for local files or "serve" to run the HTTP upload service.`,
	SilenceUsage: true,
}

func init() {
	cobra.OnInitialize(initConfig)

	rootCmd.PersistentFlags().String("config", "", "config file (default: ./pdfmark.yaml or ~/.config/pdfmark/config.yaml)")
}

func initConfig() {
	cfgFile, _ := rootCmd.PersistentFlags().GetString("config")
	if cfgFile != "" {
		v.SetConfigFile(cfgFile)
	} else {
		v.SetConfigName("pdfmark")
		v.SetConfigType("yaml")
		v.AddConfigPath(".")

		home, err := os.UserHomeDir()
		if err == nil {
			v.AddConfigPath(filepath.Join(home, ".config", "pdfmark"))
		}
	}

	if err := v.ReadInConfig(); err == nil {
		fmt.Fprintln(os.Stderr, "Using config file:", v.ConfigFileUsed())
	}
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

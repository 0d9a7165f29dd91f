// Package main is the command-line client for the PDF extraction service.
package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"pdf-extract-demo/internal/config"
)

// cliSession is the task store key used for the single CLI session.
const cliSession = "cli"

// rootCmd is the base command for the pdf-extract CLI.
var rootCmd = &cobra.Command{
	Use:   "pdf-extract",
	Short: "Extract and transform PDF content with the remote extraction API",
	Long: `pdf-extract uploads a PDF to the extraction service, waits for the task
to finish and prints the extracted document.

The id of a running task is kept in a state file, so an interrupted wait can be
picked up again with "pdf-extract resume".`,
	SilenceUsage: true,
}

func init() {
	cobra.OnInitialize(initConfig)

	flags := rootCmd.PersistentFlags()
	flags.String("config", "", "config file (default: ./pdf-extract.yaml)")
	flags.String("api-url", config.DefaultExtractAPIURL, "extraction service base URL")
	flags.String("api-user", config.DefaultExtractAPIUser, "basic-auth user")
	flags.String("api-password", "", "basic-auth password")
	flags.Duration("poll-interval", 2*time.Second, "delay between result requests")
	flags.Duration("timeout", 60*time.Second, "per-request timeout")
	flags.String("state-file", defaultStateFile(), "file holding the id of the running task")
	flags.String("log-level", "warn", "log level (debug, info, warn, error)")

	for key, flag := range map[string]string{
		"api_url":       "api-url",
		"api_user":      "api-user",
		"api_password":  "api-password",
		"poll_interval": "poll-interval",
		"timeout":       "timeout",
		"state_file":    "state-file",
		"log_level":     "log-level",
	} {
		_ = viper.BindPFlag(key, flags.Lookup(flag))
	}

	rootCmd.AddCommand(previewCmd, submitCmd, resumeCmd, statusCmd, resetCmd)
}

func initConfig() {
	cfgFile, _ := rootCmd.PersistentFlags().GetString("config")
	if cfgFile != "" {
		viper.SetConfigFile(cfgFile)
	} else {
		viper.SetConfigName("pdf-extract")
		viper.SetConfigType("yaml")
		viper.AddConfigPath(".")
	}

	viper.SetEnvPrefix("PDF_EXTRACT")
	viper.AutomaticEnv()

	if err := viper.ReadInConfig(); err == nil {
		fmt.Fprintln(os.Stderr, "Using config file:", viper.ConfigFileUsed())
	}
}

func defaultStateFile() string {
	if dir, err := os.UserConfigDir(); err == nil {
		return filepath.Join(dir, "pdf-extract", "state.yaml")
	}
	return ".pdf-extract.yaml"
}

func main() {
	_ = godotenv.Load()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := rootCmd.ExecuteContext(ctx); err != nil {
		os.Exit(1)
	}
}

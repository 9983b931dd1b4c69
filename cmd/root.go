// Package cmd implements the command-line interface for rfpscout.
// It provides the root command and subcommands for scanning procurement
// sources and managing the reported-URL ledger.
package cmd

import (
	"context"
	"errors"
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/joho/godotenv"
	"github.com/jonesrussell/rfpscout/cmd/scan"
	cmdseen "github.com/jonesrussell/rfpscout/cmd/seen"
	cmdsources "github.com/jonesrussell/rfpscout/cmd/sources"
	"github.com/jonesrussell/rfpscout/internal/config"
)

// version is stamped at release time via -ldflags.
var version = "dev"

var (
	// cfgFile holds the path to the configuration file.
	cfgFile string

	// Debug enables debug mode for all commands
	Debug bool

	// rootCmd represents the root command for the rfpscout CLI.
	rootCmd = &cobra.Command{
		Use:   "rfpscout",
		Short: "A procurement opportunity scanner",
		Long: `rfpscout scans government procurement sources for RFP opportunities,
scores them for relevance, and emails a digest of anything new.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			return cmd.Help()
		},
	}
)

// Execute runs the root command
func Execute() error {
	// Load .env file early so environment variables are available
	_ = godotenv.Load()

	// Parse flags early to get the config path before initializing Viper
	_ = rootCmd.ParseFlags(os.Args[1:])

	// Initialize configuration
	if err := initConfig(); err != nil {
		return fmt.Errorf("failed to initialize configuration: %w", err)
	}

	// Execute the root command with a fresh context
	return rootCmd.ExecuteContext(context.Background())
}

// init initializes the root command and its subcommands.
func init() {
	// Global flags
	rootCmd.PersistentFlags().StringVar(
		&cfgFile,
		"config",
		"",
		"config file (default is ./config.yaml or ./config/config.yaml)",
	)
	rootCmd.PersistentFlags().BoolVar(&Debug, "debug", false, "enable debug mode")

	// Add version command
	rootCmd.AddCommand(&cobra.Command{
		Use:   "version",
		Short: "Print the version number",
		Run: func(cmd *cobra.Command, args []string) {
			fmt.Printf("rfpscout version %s\n", version)
		},
	})

	// Add subcommands
	rootCmd.AddCommand(scan.Command())
	rootCmd.AddCommand(cmdsources.NewSourcesCommand())
	rootCmd.AddCommand(cmdseen.Command())
}

// initConfig reads in config file and ENV variables if set.
func initConfig() error {
	// Set config file
	if cfgFile != "" {
		viper.SetConfigFile(cfgFile)
	} else {
		viper.SetConfigName("config")
		viper.SetConfigType("yaml")
		viper.AddConfigPath(".")
		viper.AddConfigPath("./config")
	}

	// Enable automatic environment variable reading BEFORE setting defaults
	// This ensures environment variables take precedence over defaults
	viper.AutomaticEnv()
	viper.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))

	// Set defaults (only used if environment variables or config file don't provide values)
	config.SetDefaults(viper.GetViper())

	// Read config file
	// Note: the config file is optional - a missing file falls back to
	// defaults and environment variables, but a file that exists and fails
	// to parse (or an explicit --config path that cannot be read) is an error
	if err := viper.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) {
			return fmt.Errorf("failed to read config file: %w", err)
		}
		fmt.Fprintf(os.Stderr, "Warning: Config file not found: %v (using defaults and environment variables)\n", err)
	}

	// Bind command-line flags to Viper
	if err := bindCommandLineFlags(); err != nil {
		return err
	}

	// Map environment variables to config keys
	if err := bindAppEnvVars(); err != nil {
		return err
	}

	// Bind credential environment variables
	if err := bindCredentialEnvVars(); err != nil {
		return err
	}

	// Set development logging settings
	setupDevelopmentLogging()

	return nil
}

// bindCommandLineFlags binds command-line flags to Viper.
func bindCommandLineFlags() error {
	if err := viper.BindPFlag("app.debug", rootCmd.PersistentFlags().Lookup("debug")); err != nil {
		return fmt.Errorf("failed to bind debug flag: %w", err)
	}
	return nil
}

// bindAppEnvVars binds application and logger environment variables to config keys.
func bindAppEnvVars() error {
	if err := viper.BindEnv("app.environment", "APP_ENV"); err != nil {
		return fmt.Errorf("failed to bind APP_ENV: %w", err)
	}
	if err := viper.BindEnv("app.debug", "APP_DEBUG"); err != nil {
		return fmt.Errorf("failed to bind APP_DEBUG: %w", err)
	}
	if err := viper.BindEnv("logger.level", "LOG_LEVEL"); err != nil {
		return fmt.Errorf("failed to bind LOG_LEVEL: %w", err)
	}
	return nil
}

// bindCredentialEnvVars binds credential environment variables to config keys.
// SERPER_API_KEY and SAM_API_KEY are also handled by AutomaticEnv via the
// replacer, but we explicitly bind every credential so the conventional
// names stay documented in one place.
func bindCredentialEnvVars() error {
	if err := viper.BindEnv("serper.api_key", "SERPER_API_KEY"); err != nil {
		return fmt.Errorf("failed to bind SERPER_API_KEY: %w", err)
	}
	if err := viper.BindEnv("sam.api_key", "SAM_API_KEY"); err != nil {
		return fmt.Errorf("failed to bind SAM_API_KEY: %w", err)
	}
	if err := viper.BindEnv("notify.resend_api_key", "RESEND_API_KEY"); err != nil {
		return fmt.Errorf("failed to bind RESEND_API_KEY: %w", err)
	}
	if err := viper.BindEnv("notify.recipient", "RECIPIENT_EMAIL"); err != nil {
		return fmt.Errorf("failed to bind RECIPIENT_EMAIL: %w", err)
	}
	if err := viper.BindEnv("notify.sender", "SENDER_EMAIL"); err != nil {
		return fmt.Errorf("failed to bind SENDER_EMAIL: %w", err)
	}
	return nil
}

// setupDevelopmentLogging configures development logging settings based on environment and debug flag.
func setupDevelopmentLogging() {
	// Check both the flag variable and Viper to ensure we catch the debug flag
	debugFlag := Debug || viper.GetBool("app.debug")
	isDev := viper.GetString("app.environment") == "development"

	// Only set debug level if explicitly requested via flag or APP_DEBUG,
	// never just because the environment is "development"
	if debugFlag {
		viper.Set("logger.level", "debug")
	}

	// Development mode switches the logger to its console encoder
	if isDev {
		viper.Set("logger.development", true)
	}

	// Synchronize global Debug variable with Viper's value
	Debug = debugFlag
}

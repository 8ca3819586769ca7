package cmd

import (
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
	"github.com/spf13/viper"

	"pitwall/assets"
	assetCmd "pitwall/cmd/asset"
	scheduleCmd "pitwall/cmd/schedule"
	serveCmd "pitwall/cmd/serve"
	standingsCmd "pitwall/cmd/standings"
	"pitwall/config"
	"pitwall/openf1"
)

const envPrefix = "PITWALL"

var cfgFile string

// rootCmd represents the base command when called without any subcommands
var rootCmd = &cobra.Command{
	Use:   "pitwall",
	Short: "Race weekend schedules, results and images for Formula 1",
	Long:  ``,
}

// Execute adds all child commands to the root command and sets flags appropriately.
// This is called by main.main(). It only needs to happen once to the rootCmd.
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

func init() {
	cobra.OnInitialize(initConfig)

	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "",
		"config file (default is $HOME/.pitwall.yml)")

	rootCmd.PersistentFlags().StringVar(&config.ErgastBaseURL, "ergast-url",
		config.DefaultErgastBaseURL,
		"Base URL of the historical results API")
	rootCmd.PersistentFlags().StringVar(&config.OpenF1BaseURL, "openf1-url",
		config.DefaultOpenF1BaseURL,
		"Base URL of the live timing API")
	rootCmd.PersistentFlags().DurationVar(&config.RequestTimeout, "request-timeout",
		30*time.Second,
		"Timeout for a single upstream request")
	rootCmd.PersistentFlags().IntVar(&config.RetryMax, "retry-max",
		2,
		"Max retries for rate limited or failed upstream requests")
	rootCmd.PersistentFlags().DurationVar(&config.ThrottleDelay, "throttle-delay",
		openf1.DefaultThrottleDelay,
		"Delay before each session result or driver request to the live timing API")
	rootCmd.PersistentFlags().DurationVar(&config.ProbeTimeout, "probe-timeout",
		assets.DefaultTierTimeout,
		"Timeout for probing a single image url")
	rootCmd.PersistentFlags().DurationVar(&config.ProbeCeiling, "probe-ceiling",
		assets.DefaultCeiling,
		"Overall time limit when probing the image tiers of one subject")
	rootCmd.PersistentFlags().StringVar(&config.LogLevel, "log-level",
		"info",
		"controls the log level (debug, info, warn, error)")
	rootCmd.PersistentFlags().StringVar(&config.LogFormat, "log-format",
		"json",
		"controls the log output format (json, text)")
	rootCmd.PersistentFlags().StringVar(&config.AssetCatalog, "asset-catalog",
		"",
		"yaml file with additional curated image urls")

	// add commands here
	rootCmd.AddCommand(serveCmd.NewServeCmd())
	rootCmd.AddCommand(scheduleCmd.NewScheduleCmd())
	rootCmd.AddCommand(standingsCmd.NewStandingsCmd())
	rootCmd.AddCommand(assetCmd.NewAssetCmd())
}

// initConfig reads in config file and ENV variables if set.
func initConfig() {
	if cfgFile != "" {
		viper.SetConfigFile(cfgFile)
	} else {
		home, err := os.UserHomeDir()
		cobra.CheckErr(err)

		viper.AddConfigPath(home)
		viper.AddConfigPath(".")
		viper.SetConfigType("yaml")
		viper.SetConfigName(".pitwall")
	}

	viper.SetEnvPrefix(envPrefix)
	viper.AutomaticEnv()

	if err := viper.ReadInConfig(); err == nil {
		fmt.Fprintln(os.Stderr, "Using config file:", viper.ConfigFileUsed())
	}

	bindFlags(rootCmd, viper.GetViper())
	for _, cmd := range rootCmd.Commands() {
		bindFlags(cmd, viper.GetViper())
	}
}

// Bind each cobra flag to its associated viper configuration
// (config file and environment variable)
func bindFlags(cmd *cobra.Command, v *viper.Viper) {
	cmd.Flags().VisitAll(func(f *pflag.Flag) {
		// --log-level is read from PITWALL_LOG_LEVEL
		if strings.Contains(f.Name, "-") {
			envVarSuffix := strings.ToUpper(strings.ReplaceAll(f.Name, "-", "_"))
			if err := v.BindEnv(f.Name,
				fmt.Sprintf("%s_%s", envPrefix, envVarSuffix)); err != nil {
				fmt.Fprintf(os.Stderr, "Could not bind env var %s: %v", f.Name, err)
			}
		}
		if !f.Changed && v.IsSet(f.Name) {
			val := v.Get(f.Name)
			if err := cmd.Flags().Set(f.Name, fmt.Sprintf("%v", val)); err != nil {
				fmt.Fprintf(os.Stderr, "Could set flag value for %s: %v", f.Name, err)
			}
		}
	})
}

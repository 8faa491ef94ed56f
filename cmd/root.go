// Package cmd implements the happytools command-line interface.
package cmd

import (
	"context"
	"errors"
	"fmt"
	"os"
	"strings"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/pruthviraj-chavan/happytools1/internal/config"
	"github.com/pruthviraj-chavan/happytools1/internal/logger"
)

const defaultConfigFile = "config.yml"

var rootCmd = &cobra.Command{
	Use:   "happytools",
	Short: "AI tool catalog sync service",
	Long: `happytools keeps a catalog of AI tools in sync with Product Hunt and
curated listing pages, and serves it over HTTP.`,
	SilenceUsage: true,
	RunE: func(cmd *cobra.Command, _ []string) error {
		return cmd.Help()
	},
}

// Execute runs the root command.
func Execute() error {
	_ = godotenv.Load()
	return rootCmd.ExecuteContext(context.Background())
}

func init() {
	flags := rootCmd.PersistentFlags()
	flags.String("config", "", "config file (default is $CONFIG_PATH or ./config.yml)")
	flags.Bool("debug", false, "enable debug logging")
	flags.Bool("memory", false, "keep the catalog in memory instead of Elasticsearch")

	for _, name := range []string{"config", "debug", "memory"} {
		if err := viper.BindPFlag(name, flags.Lookup(name)); err != nil {
			panic(fmt.Sprintf("bind flag %s: %v", name, err))
		}
	}
	viper.SetEnvKeyReplacer(strings.NewReplacer("-", "_", ".", "_"))
	viper.SetEnvPrefix("HAPPYTOOLS")
	viper.AutomaticEnv()

	rootCmd.AddCommand(
		newServeCommand(),
		newSyncCommand(),
		newTargetsCommand(),
		newMigrateCommand(),
		newVersionCommand(),
	)
}

// configPath picks --config, then CONFIG_PATH, then ./config.yml when it exists.
func configPath() string {
	if path := viper.GetString("config"); path != "" {
		return path
	}
	path := config.GetConfigPath(defaultConfigFile)
	if _, err := os.Stat(path); errors.Is(err, os.ErrNotExist) {
		return ""
	}
	return path
}

func loadConfig() (*config.Config, error) {
	cfg, err := config.Load(configPath())
	if err != nil {
		return nil, err
	}
	if viper.GetBool("debug") {
		cfg.Logging.Level = "debug"
		cfg.Logging.Development = true
	}
	if err = cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func loadConfigAndLogger() (*config.Config, logger.Logger, error) {
	cfg, err := loadConfig()
	if err != nil {
		return nil, nil, fmt.Errorf("failed to load config: %w", err)
	}
	log, err := logger.New(cfg.Logging)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to create logger: %w", err)
	}
	log = log.With(logger.String("service", cfg.Service.Name))
	return cfg, log, nil
}

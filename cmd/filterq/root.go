package main

import (
	"errors"
	"fmt"
	"log/slog"
	"os"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/fastnext-lab/filterbuilder-go/filter"
	"github.com/fastnext-lab/filterbuilder-go/preset"
)

var (
	cfgFile string
	debug   bool
)

func newRootCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:           "filterq",
		Short:         "Inspect and convert filter tokens",
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			return initConfig()
		},
	}

	cmd.PersistentFlags().StringVar(&cfgFile, "config", "", "config file (default filterq.yaml in . or $HOME/.config/filterq)")
	cmd.PersistentFlags().BoolVar(&debug, "debug", false, "enable debug logging")

	cmd.AddCommand(
		newDecodeCommand(),
		newEncodeCommand(),
		newSQLCommand(),
		newPresetCommand(),
	)
	return cmd
}

// initConfig loads the viper configuration and wires the default
// logger. A missing config file is fine: decode and encode work
// without one; sql and preset commands report what they are missing.
func initConfig() error {
	if cfgFile != "" {
		viper.SetConfigFile(cfgFile)
	} else {
		viper.SetConfigName("filterq")
		viper.SetConfigType("yaml")
		viper.AddConfigPath(".")
		if home, err := os.UserHomeDir(); err == nil {
			viper.AddConfigPath(home + "/.config/filterq")
		}
	}
	viper.SetEnvPrefix("FILTERQ")
	viper.AutomaticEnv()

	if err := viper.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if cfgFile != "" || !errors.As(err, &notFound) {
			return fmt.Errorf("failed to read config: %w", err)
		}
	}

	level := slog.LevelInfo
	if debug {
		level = slog.LevelDebug
	}
	slog.SetDefault(slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: level})))
	return nil
}

// loadSchema builds the field schema from the config file.
func loadSchema() (filter.Schema, error) {
	var defs []filter.FieldDefinition
	if err := viper.UnmarshalKey("fields", &defs); err != nil {
		return filter.Schema{}, fmt.Errorf("invalid fields config: %w", err)
	}
	if len(defs) == 0 {
		return filter.Schema{}, fmt.Errorf("no fields configured; add a fields list to the config file")
	}
	return filter.NewSchema(defs), nil
}

// openStore constructs the preset store named by the config.
func openStore(cmd *cobra.Command) (preset.Store, func(), error) {
	driver := viper.GetString("store.driver")
	switch driver {
	case "file":
		path := viper.GetString("store.path")
		if path == "" {
			return nil, nil, fmt.Errorf("store.path is required for the file store")
		}
		s, err := preset.NewFileStore(path)
		if err != nil {
			return nil, nil, err
		}
		return s, func() {}, nil
	case "sqlite":
		path := viper.GetString("store.path")
		if path == "" {
			return nil, nil, fmt.Errorf("store.path is required for the sqlite store")
		}
		s, err := preset.NewSQLiteStore(path)
		if err != nil {
			return nil, nil, err
		}
		return s, func() { _ = s.Close() }, nil
	case "postgres":
		dsn := viper.GetString("store.dsn")
		if dsn == "" {
			return nil, nil, fmt.Errorf("store.dsn is required for the postgres store")
		}
		s, err := preset.NewPostgresStore(cmd.Context(), dsn)
		if err != nil {
			return nil, nil, err
		}
		return s, s.Close, nil
	case "":
		return nil, nil, fmt.Errorf("no store configured; set store.driver to file, sqlite or postgres")
	default:
		return nil, nil, fmt.Errorf("unknown store driver %q", driver)
	}
}

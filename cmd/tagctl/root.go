package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"path/filepath"
	"strings"

	gameplaytags "github.com/mkislenko/com.radiodecadance.gameplaytags"
	"github.com/mkislenko/com.radiodecadance.gameplaytags/config"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

const envPrefix = "TAGCTL"

// app carries the state shared by every subcommand.
type app struct {
	v       *viper.Viper
	cfgFile string
	cfg     *config.Config
	logger  *slog.Logger
}

func newRootCmd(version string) *cobra.Command {
	a := &app{v: viper.New()}

	rootCmd := &cobra.Command{
		Use:   "tagctl",
		Short: "Inspect and query gameplay tags",
		Long: `tagctl loads a gameplay tag universe from a file, Redis or etcd and
answers questions about it: tag IDs, the implicit hierarchy, descendant
checks and tag queries.

Configuration is read from gameplaytags.yaml in the current directory
(or --config), then TAGCTL_* environment variables, then flags.`,
		Version:       version,
		SilenceUsage:  true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			return a.initConfig(cmd)
		},
	}

	rootCmd.PersistentFlags().StringVarP(&a.cfgFile, "config", "c", "",
		"config file (default: ./gameplaytags.yaml)")
	rootCmd.PersistentFlags().String("source", "",
		"tag source type: static, file, redis or etcd")
	rootCmd.PersistentFlags().StringP("file", "f", "",
		"tag list file for the file source")
	rootCmd.PersistentFlags().String("log-level", "",
		"log level: debug, info, warn or error")

	_ = a.v.BindPFlag("source.type", rootCmd.PersistentFlags().Lookup("source"))
	_ = a.v.BindPFlag("source.file", rootCmd.PersistentFlags().Lookup("file"))
	_ = a.v.BindPFlag("log_level", rootCmd.PersistentFlags().Lookup("log-level"))

	rootCmd.AddCommand(
		newHashCmd(),
		newTreeCmd(a),
		newResolveCmd(a),
		newCheckCmd(a),
		newQueryCmd(a),
		newStatsCmd(a),
		newWatchCmd(a),
	)

	return rootCmd
}

func (a *app) initConfig(cmd *cobra.Command) error {
	defaults := config.Defaults()
	a.v.SetDefault("source.type", defaults.Source.Type)
	a.v.SetDefault("source.file", defaults.Source.File)
	a.v.SetDefault("source.paths", []string{})
	a.v.SetDefault("source.format", "")
	a.v.SetDefault("log_level", "warn")
	a.v.SetDefault("log_format", defaults.LogFormat)

	a.v.SetEnvPrefix(envPrefix)
	a.v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	a.v.AutomaticEnv()

	if a.cfgFile != "" {
		a.v.SetConfigFile(a.cfgFile)
	} else {
		a.v.AddConfigPath(".")
		a.v.SetConfigName(strings.TrimSuffix(config.FileName, filepath.Ext(config.FileName)))
		a.v.SetConfigType("yaml")
	}

	if err := a.v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) {
			return fmt.Errorf("reading config: %w", err)
		}
	}

	cfg := &config.Config{}
	if err := a.v.Unmarshal(cfg); err != nil {
		return fmt.Errorf("decoding config: %w", err)
	}

	// a relative file from the config file is relative to that file
	fromFlag := cmd.Flags().Changed("file")
	if used := a.v.ConfigFileUsed(); used != "" && !fromFlag && cfg.Source.File != "" && !filepath.IsAbs(cfg.Source.File) {
		cfg.Source.File = filepath.Join(filepath.Dir(used), cfg.Source.File)
	}

	a.cfg = cfg
	a.logger = cfg.Logger(cmd.ErrOrStderr())
	return nil
}

// openRegistry builds a registry from the configured source. The returned
// func releases the source connection.
func (a *app) openRegistry(ctx context.Context) (*gameplaytags.Registry, gameplaytags.Source, func(), error) {
	src, err := a.cfg.OpenSource(ctx, a.logger)
	if err != nil {
		return nil, nil, nil, err
	}
	release := func() {
		if closer, ok := src.(io.Closer); ok {
			gameplaytags.CloseWithLog(closer, a.logger, "tag source")
		}
	}

	reg := gameplaytags.NewRegistry(
		gameplaytags.WithSource(src),
		gameplaytags.WithLogger(a.logger),
	)
	if _, err := reg.Reload(ctx); err != nil {
		release()
		return nil, nil, nil, err
	}
	return reg, src, release, nil
}

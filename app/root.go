// Package app implements the mellow commands.
package app

import (
	"errors"
	"io/fs"
	"strings"

	"github.com/joho/godotenv"
	pkgerrors "github.com/pkg/errors"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/mellow-bot/mellow/internal/config"
	"github.com/mellow-bot/mellow/internal/logger"
)

// EnvPrefix prefixes the environment variables that replace command line flags.
const EnvPrefix = "MELLOW"

var (
	cfg config.Config

	flags = viper.New()

	rootCmd = &cobra.Command{
		Use:   "mellow",
		Short: "Mellow is a Discord bot for Ombi, Sonarr, Radarr and Tautulli",
		Long: `Mellow is a Discord bot for Ombi, Sonarr, Radarr and Tautulli
with a configuration panel. Its settings live in a small embedded database.`,
		Args:              cobra.OnlyValidArgs,
		SilenceUsage:      true,
		PersistentPreRunE: loadConfig,
	}
)

func init() { //nolint: gochecknoinits
	pf := rootCmd.PersistentFlags()
	pf.String("config", "./etc/", "directory of main.toml")
	pf.String("data-dir", "", "directory of the settings database, overrides DB.DataDirectory")
	pf.String("env-file", ".env", "optional file with environment variables")
	pf.Bool("dev", false, "enable dev mode")

	flags.SetEnvPrefix(EnvPrefix)
	flags.SetEnvKeyReplacer(strings.NewReplacer("-", "_"))
	flags.AutomaticEnv()

	for _, name := range []string{"config", "data-dir", "env-file", "dev"} {
		if err := flags.BindPFlag(name, pf.Lookup(name)); err != nil {
			panic(err)
		}
	}
}

// Execute runs the root command.
func Execute() error {
	return rootCmd.Execute()
}

// loadConfig reads the env file, the config and initializes the logger.
func loadConfig(_ *cobra.Command, _ []string) error {
	if envFile := flags.GetString("env-file"); envFile != "" {
		if err := godotenv.Load(envFile); err != nil && !errors.Is(err, fs.ErrNotExist) {
			return pkgerrors.Wrap(err, "failed to read env file")
		}
	}

	path := flags.GetString("config")
	if path != "" && !strings.HasSuffix(path, "/") {
		path += "/"
	}

	var err error
	if cfg, err = config.ReadConfig(path); err != nil {
		return err
	}

	if dir := flags.GetString("data-dir"); dir != "" {
		cfg.DB.DataDirectory = dir
	}

	if flags.GetBool("dev") {
		cfg.DevMode = true
	}

	return pkgerrors.Wrap(logger.Init(cfg.Log), "failed to initialize logger")
}

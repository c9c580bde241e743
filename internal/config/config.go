// Package config merges flags, TIFPNG_* environment variables and the
// optional config file through viper.
package config

import (
	"errors"
	"strings"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"tifpng/internal/dirs"
)

// Keys shared by flags, env and the config file.
const (
	KeyVault            = "vault"
	KeyVerbose          = "verbose"
	KeyJobs             = "jobs"
	KeyNoUI             = "no_ui"
	KeyYes              = "yes"
	KeyConfirmOverwrite = "confirm_overwrite"
	KeySilent           = "silent"
)

// flagKeys maps root persistent flag names to viper keys.
var flagKeys = map[string]string{
	"vault":             KeyVault,
	"verbose":           KeyVerbose,
	"jobs":              KeyJobs,
	"no-ui":             KeyNoUI,
	"yes":               KeyYes,
	"confirm-overwrite": KeyConfirmOverwrite,
	"silent":            KeySilent,
}

// Init wires viper with the config path, env, defaults and flag bindings.
// A missing config file is not an error; a broken one is.
func Init(root *cobra.Command) error {
	if cfgDir, err := dirs.ConfigDir(); err == nil {
		viper.AddConfigPath(cfgDir)
	}
	viper.SetConfigName("config") // config.{yaml|yml|json|toml}

	// Environment variables: TIFPNG_*
	viper.SetEnvPrefix("TIFPNG")
	viper.SetEnvKeyReplacer(strings.NewReplacer("-", "_"))
	viper.AutomaticEnv()

	viper.SetDefault(KeyVault, ".")
	viper.SetDefault(KeyJobs, 0)

	for flag, key := range flagKeys {
		if f := root.PersistentFlags().Lookup(flag); f != nil {
			_ = viper.BindPFlag(key, f)
		}
	}

	if err := viper.ReadInConfig(); err != nil {
		var nf viper.ConfigFileNotFoundError
		if !errors.As(err, &nf) {
			return err
		}
	}
	return nil
}

// Used returns the config file that was read, or "".
func Used() string {
	return viper.ConfigFileUsed()
}

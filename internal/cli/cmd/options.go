package cmd

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/viper"

	"tifpng/internal/config"
	"tifpng/internal/model"
	"tifpng/internal/vault"
)

// loadOptions reads the merged flag/env/config values.
func loadOptions() (model.Options, error) {
	opts := model.Options{
		Vault:            viper.GetString(config.KeyVault),
		Jobs:             viper.GetInt(config.KeyJobs),
		ConfirmOverwrite: viper.GetBool(config.KeyConfirmOverwrite),
		AssumeYes:        viper.GetBool(config.KeyYes),
		Silent:           viper.GetBool(config.KeySilent),
		Verbose:          viper.GetBool(config.KeyVerbose),
		NoUI:             viper.GetBool(config.KeyNoUI),
	}
	if opts.Vault == "" {
		opts.Vault = "."
	}
	if opts.Jobs < 0 {
		return opts, fmt.Errorf("invalid --jobs: %d (must be 0 or more)", opts.Jobs)
	}
	return opts, nil
}

// vaultRelative maps a path given on the command line to a vault-relative
// slash path. Absolute paths and paths relative to the working directory
// must point inside the vault; anything else is taken as vault-relative.
func vaultRelative(root, arg string) (string, error) {
	absRoot, err := filepath.Abs(root)
	if err != nil {
		return "", err
	}
	if filepath.IsAbs(arg) {
		rel, err := filepath.Rel(absRoot, arg)
		if err != nil || outside(rel) {
			return "", fmt.Errorf("%s is outside the vault %s", arg, absRoot)
		}
		return filepath.ToSlash(rel), nil
	}
	if abs, err := filepath.Abs(arg); err == nil {
		if rel, err := filepath.Rel(absRoot, abs); err == nil && !outside(rel) {
			if _, err := os.Stat(abs); err == nil {
				return filepath.ToSlash(rel), nil
			}
		}
	}
	return vault.Normalize(filepath.ToSlash(arg)), nil
}

func outside(rel string) bool {
	return rel == ".." || strings.HasPrefix(rel, ".."+string(filepath.Separator))
}

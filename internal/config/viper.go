// Package config provides viper helpers shared by the CLI and the server.
package config

import (
	"errors"
	"os"
	"strings"

	"github.com/mitchellh/go-homedir"
	"github.com/spf13/viper"
)

// EnvPrefix is prepended to every environment variable atlas reads.
const EnvPrefix = "ATLAS"

// New returns a viper instance bound to ATLAS_* environment variables.
// Keys use underscores; "-" and "." in a key map to "_" in the variable.
func New() *viper.Viper {
	v := viper.New()
	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_", "-", "_"))
	v.AutomaticEnv()
	return v
}

// ReadFile reads configuration from path, or searches $HOME and the working
// directory for .atlas.yaml when path is empty. A missing file is only an
// error when path was given explicitly.
func ReadFile(v *viper.Viper, path string) error {
	if path != "" {
		expanded, err := ExpandPath(path)
		if err != nil {
			return err
		}
		v.SetConfigFile(expanded)
		return v.ReadInConfig()
	}

	if home, err := homedir.Dir(); err == nil {
		v.AddConfigPath(home)
	}
	v.AddConfigPath(".")
	v.SetConfigType("yaml")
	v.SetConfigName(".atlas")

	err := v.ReadInConfig()
	var notFound viper.ConfigFileNotFoundError
	if errors.As(err, &notFound) {
		return nil
	}
	return err
}

// GetString reads key from v, falling back to the raw environment variable
// of the same name. This picks up variables that arrive after viper binds,
// such as ones loaded from a .env file.
func GetString(v *viper.Viper, key string) string {
	if value := v.GetString(key); value != "" {
		return value
	}
	return os.Getenv(key)
}

// ExpandPath expands a leading ~ to the user's home directory.
func ExpandPath(path string) (string, error) {
	if path == "" {
		return "", nil
	}
	return homedir.Expand(path)
}

package config

import (
	"errors"
	"io/fs"
	"os"

	"github.com/dmitrijs2005/remember/internal/flagx"
	"github.com/joho/godotenv"
	"github.com/kelseyhightower/envconfig"
)

const defaultEnvFile = ".env"

// loadDotEnv exports variables from the file named by -env-file, or from
// ./.env when present. Variables already set in the process win.
func loadDotEnv() error {
	path := flagx.EnvFileFlag()
	if path == "" {
		if _, err := os.Stat(defaultEnvFile); errors.Is(err, fs.ErrNotExist) {
			return nil
		}
		path = defaultEnvFile
	}
	return godotenv.Load(path)
}

// parseEnv overlays variables that are set; unset ones keep earlier values.
func parseEnv(config *Config) error {
	return envconfig.Process("", config)
}

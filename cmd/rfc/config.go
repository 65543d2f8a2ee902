package main

import (
	"os"
	"path/filepath"

	"github.com/kirsle/configdir"
	"github.com/urfave/cli/v2"
	"gopkg.in/yaml.v3"
)

type Config struct {
	// CacheDir overrides the platform cache directory.
	CacheDir string `yaml:"cacheDir"`
	// Listen is the default address for the serve command.
	Listen string `yaml:"listen"`
}

func getConfig(filename string) (Config, error) {
	var config Config
	configBytes, err := os.ReadFile(filename)
	if err != nil {
		return config, err
	}
	err = yaml.Unmarshal(configBytes, &config)
	return config, err
}

// configPath returns the config file to use: the -c flag if given, else the
// platform config directory.
func configPath(ctx *cli.Context) string {
	if path := ctx.String("config"); path != "" {
		return path
	}
	return filepath.Join(configdir.LocalConfig("rfc"), "config.yaml")
}

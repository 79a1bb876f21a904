package cli

import (
	"os"
	"path/filepath"

	"github.com/BurntSushi/toml"

	"github.com/matzehuels/graphorder/pkg/errors"
)

// config mirrors the optional graphorder.toml file. All fields are
// optional; zero values (and nil pointers for booleans that default to
// true) mean "not set" and leave the built-in default in place.
//
// Example:
//
//	[rgb]
//	strategy = "approx-1"
//	iterations = 30
//	parallelism = 8
//
//	[cache]
//	dir = "/var/cache/graphorder"
//	ttl_days = 7
type config struct {
	RGB   rgbConfig   `toml:"rgb"`
	Cache cacheConfig `toml:"cache"`
}

type rgbConfig struct {
	Strategy         string `toml:"strategy"`
	Iterations       int    `toml:"iterations"`
	MinPartitionSize int    `toml:"min_partition_size"`
	MaxDepth         int    `toml:"max_depth"`
	SortLeaves       *bool  `toml:"sort_leaves"`
	DegreeSort       *bool  `toml:"degree_sort"`
	Parallelism      int    `toml:"parallelism"`
}

type cacheConfig struct {
	Dir      string `toml:"dir"`
	Disabled bool   `toml:"disabled"`
	TTLDays  int    `toml:"ttl_days"`
}

// configFileName is the per-project config looked up in the working
// directory before falling back to the user config directory.
const configFileName = "graphorder.toml"

// loadConfig reads the TOML config. With an explicit path the file must
// exist; otherwise the working directory and the user config directory are
// searched and a missing file simply yields the zero config. The second
// return is the path actually loaded, empty when none was found.
func loadConfig(explicit string) (config, string, error) {
	var cfg config

	path := explicit
	if path == "" {
		path = findConfig()
		if path == "" {
			return cfg, "", nil
		}
	}

	if _, err := toml.DecodeFile(path, &cfg); err != nil {
		if os.IsNotExist(err) {
			return cfg, "", errors.New(errors.ErrCodeFileNotFound, "config file not found: %s", path)
		}
		return cfg, "", errors.Wrap(errors.ErrCodeInvalidConfig, err, "parse config %s", path)
	}
	return cfg, path, nil
}

func findConfig() string {
	if _, err := os.Stat(configFileName); err == nil {
		return configFileName
	}
	dir, err := os.UserConfigDir()
	if err != nil {
		return ""
	}
	path := filepath.Join(dir, "graphorder", "config.toml")
	if _, err := os.Stat(path); err == nil {
		return path
	}
	return ""
}

// defaultCacheDir returns the cache directory used when neither the config
// file nor --cache-dir chooses one.
func defaultCacheDir() string {
	dir, err := os.UserCacheDir()
	if err != nil {
		return ".graphorder-cache"
	}
	return filepath.Join(dir, "graphorder")
}

package app

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/drone/envsubst"
	"github.com/mandelsoft/goutils/generics"
	"github.com/mandelsoft/vfs/pkg/vfs"
	"sigs.k8s.io/yaml"
)

const CONFIG_FILE = ".mmctl"

// Config holds defaults for the global options. Values may refer
// to environment variables (${VAR}).
type Config struct {
	Dir        *string  `json:"dir,omitempty"`
	Format     *string  `json:"format,omitempty"`
	Metamodels []string `json:"metamodels,omitempty"`
}

// GetConfig reads the implicit config files. Missing files are
// ignored.
func GetConfig(fs vfs.FileSystem) (*Config, error) {
	var cfg Config

	var paths []string
	if dir, err := os.UserHomeDir(); err == nil {
		paths = append(paths, filepath.Join(dir, CONFIG_FILE))
	}
	if dir, err := os.UserConfigDir(); err == nil {
		paths = append(paths, filepath.Join(dir, CONFIG_FILE))
	}
	paths = append(paths, CONFIG_FILE)
	for _, p := range paths {
		add, err := ReadConfig(fs, p)
		if err != nil {
			if vfs.IsErrNotExist(err) {
				continue
			}
			return &cfg, err
		}
		MergeConfig(&cfg, add)
	}

	if v := os.Getenv("MMCTL_DIR"); v != "" {
		cfg.Dir = generics.Pointer(v)
	}
	if v := os.Getenv("MMCTL_FORMAT"); v != "" {
		cfg.Format = generics.Pointer(v)
	}
	if cfg.Format == nil || *cfg.Format == "" {
		cfg.Format = generics.Pointer("xmi")
	}
	return &cfg, nil
}

func ReadConfig(fs vfs.FileSystem, path string) (*Config, error) {
	data, err := vfs.ReadFile(fs, path)
	if err != nil {
		return nil, err
	}
	expanded, err := envsubst.EvalEnv(string(data))
	if err != nil {
		return nil, fmt.Errorf("config file %q: %w", path, err)
	}

	var cfg Config
	err = yaml.UnmarshalStrict([]byte(expanded), &cfg)
	if err != nil {
		return nil, fmt.Errorf("config file %q: %w", path, err)
	}
	return &cfg, nil
}

// MergeConfig overwrites the settings of cfg by the ones
// given in add.
func MergeConfig(cfg *Config, add *Config) {
	if add == nil {
		return
	}
	if add.Dir != nil {
		cfg.Dir = add.Dir
	}
	if add.Format != nil {
		cfg.Format = add.Format
	}
	cfg.Metamodels = append(cfg.Metamodels, add.Metamodels...)
}
